package compiler

import (
	"testing"

	"plan3d/internal/viewer/models"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	desc := &models.Description{Rooms: []models.Room{
		room("kitchen", 0, 0, 4, 4),
		{Name: "zero", Width: 0, Length: 3, Height: 3},
		{Name: "negative", Width: 3, Length: 3, Height: -2},
		{Name: "", Width: 1, Length: 1, Height: 1},
		room("kitchen", 10, 10, 1, 1),
		{Name: "loft", X: 4, Y: 3, Z: 1, Width: 2, Length: 5, Height: 2.5},
	}}

	v := Validate(desc)
	require.Len(t, v.Rooms, 2)
	assert.Equal(t, "kitchen", v.Rooms[0].Name)
	assert.Equal(t, "loft", v.Rooms[1].Name)
	assert.Equal(t, 6, v.Total)
	assert.False(t, v.Default)
	assert.Len(t, v.Warnings, 4)
	assert.Contains(t, v.Warnings[0], `"zero" (width=0 length=3 height=3)`)
	assert.Contains(t, v.Warnings[3], "duplicate name")

	assert.Equal(t, math32.Vec3(0, 0, 0), v.Bounds.Min)
	assert.Equal(t, math32.Vec3(6, 5.5, 6), v.Bounds.Max)
}

func TestValidateDefaultBounds(t *testing.T) {
	for name, desc := range map[string]*models.Description{
		"nil":     nil,
		"empty":   {},
		"invalid": {Rooms: []models.Room{{Name: "x", Width: -1, Length: 1, Height: 1}}},
	} {
		t.Run(name, func(t *testing.T) {
			v := Validate(desc)
			assert.True(t, v.Default)
			assert.Equal(t, DefaultBounds(), v.Bounds)
			assert.Empty(t, v.Rooms)
		})
	}
}

func TestGridSpan(t *testing.T) {
	tests := []struct {
		name   string
		bounds math32.Box3
		want   float32
	}{
		{"default floors at minimum", DefaultBounds(), 20},
		{"exact multiple", math32.B3(0, 0, 0, 20, 3, 10), 30},
		{"rounded up", math32.B3(0, 0, 0, 12, 3, 21), 37.5},
		{"depth dominates", math32.B3(-5, 0, -5, 5, 3, 35), 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, GridSpan(tt.bounds), 1e-5)
		})
	}
}

func TestRoomBounds(t *testing.T) {
	b := RoomBounds(models.Room{X: 1, Y: 2, Z: 3, Width: 4, Length: 5, Height: 6})
	assert.Equal(t, math32.Vec3(1, 2, 3), b.Min)
	assert.Equal(t, math32.Vec3(5, 8, 8), b.Max)
}
