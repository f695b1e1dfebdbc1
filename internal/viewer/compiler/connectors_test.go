package compiler

import (
	"math"
	"testing"

	"plan3d/internal/viewer/models"

	"github.com/stretchr/testify/assert"
)

func TestResolveDoor(t *testing.T) {
	tests := []struct {
		name     string
		from, to models.Room
		kind     PlacementKind
		x, z     float64
		rotation float64
	}{
		{
			name: "x adjacent",
			from: room("A", 0, 0, 5, 5),
			to:   room("B", 5, 0, 4, 4),
			kind: PlacementXAdjacent, x: 5, z: 2, rotation: math.Pi / 2,
		},
		{
			name: "x adjacent reversed",
			from: room("B", 5, 0, 4, 4),
			to:   room("A", 0, 0, 5, 5),
			kind: PlacementXAdjacent, x: 5, z: 2, rotation: math.Pi / 2,
		},
		{
			name: "z adjacent",
			from: room("A", 0, 0, 6, 3),
			to:   room("B", 2, 3, 6, 3),
			kind: PlacementZAdjacent, x: 4, z: 3,
		},
		{
			name: "touching corners only",
			from: room("A", 0, 0, 2, 2),
			to:   room("B", 2, 2, 2, 2),
			kind: PlacementConnector, x: 2, z: 2,
		},
		{
			name: "apart along x",
			from: room("A", 0, 0, 2, 2),
			to:   room("B", 10, 1, 2, 2),
			kind: PlacementConnector, x: 6, z: 1.5, rotation: math.Pi / 2,
		},
		{
			name: "apart along z",
			from: room("A", 0, 0, 2, 2),
			to:   room("B", 1, 10, 2, 2),
			kind: PlacementConnector, x: 1.5, z: 6,
		},
		{
			name: "float noise on shared wall",
			from: models.Room{Name: "A", Width: 0.1 + 0.2, Length: 2, Height: 3},
			to:   models.Room{Name: "B", X: 0.3, Width: 2, Length: 2, Height: 3},
			kind: PlacementXAdjacent, x: 0.3, z: 1, rotation: math.Pi / 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ResolveDoor(tt.from, tt.to)
			assert.Equal(t, tt.kind, p.Kind, p.Kind.String())
			assert.InDelta(t, tt.x, p.X, 1e-9)
			assert.InDelta(t, tt.z, p.Z, 1e-9)
			assert.InDelta(t, tt.rotation, p.RotationY, 1e-9)
		})
	}
}

func TestResolveDoorConnectorGeometry(t *testing.T) {
	p := ResolveDoor(room("A", 0, 0, 2, 2), room("B", 3, 4, 2, 2))
	assert.Equal(t, PlacementConnector, p.Kind)
	assert.InDelta(t, 5, p.Length, 1e-9)
	assert.InDelta(t, math.Atan2(3, 4), p.Angle, 1e-9)
}

func TestAlmostEqual(t *testing.T) {
	assert.True(t, almostEqual(0.1+0.2, 0.3))
	assert.True(t, almostEqual(1e6+1e-3, 1e6))
	assert.False(t, almostEqual(5, 5.001))
}

func TestDoorSize(t *testing.T) {
	low := models.Room{Name: "low", Width: 2, Length: 2, Height: 1.8}
	tall := models.Room{Name: "tall", Width: 2, Length: 2, Height: 3}

	w, h := doorSize(models.Door{}, tall, tall)
	assert.Equal(t, defaultDoorWidth, w)
	assert.Equal(t, defaultDoorHeight, h)

	w, h = doorSize(models.Door{Width: 1.2, Height: 2.4}, tall, low)
	assert.Equal(t, 1.2, w)
	assert.Equal(t, 1.8, h)
}

func TestPlacementKindString(t *testing.T) {
	assert.Equal(t, "x-adjacent", PlacementXAdjacent.String())
	assert.Equal(t, "z-adjacent", PlacementZAdjacent.String())
	assert.Equal(t, "connector", PlacementConnector.String())
	assert.Equal(t, "unknown", PlacementKind(9).String())
}

func TestSelfDoorSkipped(t *testing.T) {
	desc := &models.Description{
		Rooms: []models.Room{room("A", 0, 0, 5, 5)},
		Doors: []models.Door{{From: "A", To: "A"}},
	}
	res := compile(t, desc, models.DefaultSettings())
	assert.Zero(t, res.Diagnostics.PlacedDoors)
	assert.Len(t, res.Diagnostics.Warnings, 1)
}
