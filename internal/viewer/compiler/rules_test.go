package compiler

import (
	"testing"

	"plan3d/internal/viewer/models"
	"plan3d/internal/viewer/texture"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		room     models.Room
		kind     models.RoomType
		floor    texture.Family
		furnish  Furnishing
		tileSize int
	}{
		{"kitchen", models.Room{Name: "Kitchen"}, models.RoomKitchen, texture.FamilyTile, FurnishCounter, 8},
		{"kitchen before bath", models.Room{Name: "kitchen/bath"}, models.RoomKitchen, texture.FamilyTile, FurnishCounter, 8},
		{"master bathroom", models.Room{Name: "Master Bathroom"}, models.RoomBathroom, texture.FamilyTile, FurnishTub, 12},
		{"bath beats bedroom", models.Room{Name: "Bedroom with bath"}, models.RoomBathroom, texture.FamilyTile, FurnishTub, 12},
		{"bedroom", models.Room{Name: "bedroom 2"}, models.RoomBedroom, texture.FamilyWood, FurnishNone, 0},
		{"living", models.Room{Name: "Living Room"}, models.RoomLiving, texture.FamilyCarpet, FurnishNone, 0},
		{"dining", models.Room{Name: "DINING"}, models.RoomDining, texture.FamilyWood, FurnishTable, 0},
		{"hallway", models.Room{Name: "Main Hallway"}, models.RoomHallway, "", FurnishNone, 0},
		{"hall inside a word", models.Room{Name: "Marshall office"}, models.RoomUnclassified, "", FurnishNone, 0},
		{"bare hall", models.Room{Name: "Hall"}, models.RoomUnclassified, "", FurnishNone, 0},
		{"patio", models.Room{Name: "patio"}, models.RoomPatio, texture.FamilyStone, FurnishNone, 0},
		{"storage", models.Room{Name: "storage"}, models.RoomStorage, "", FurnishNone, 0},
		{"wic", models.Room{Name: "WIC"}, models.RoomCloset, "", FurnishNone, 0},
		{"type tag", models.Room{Name: "Room 1", Type: "Kitchen"}, models.RoomKitchen, texture.FamilyTile, FurnishCounter, 8},
		{"unmatched", models.Room{Name: "office"}, models.RoomUnclassified, "", FurnishNone, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Classify(tt.room)
			assert.Equal(t, tt.kind, s.Kind)
			assert.Equal(t, tt.floor, s.Floor)
			assert.Equal(t, tt.furnish, s.Furnishing)
			assert.Equal(t, tt.tileSize, s.TileCells)
		})
	}
}

func TestClassifyPatioOffset(t *testing.T) {
	assert.InDelta(t, -0.15, Classify(models.Room{Name: "patio"}).FloorOffset, 1e-6)
	assert.Zero(t, Classify(models.Room{Name: "kitchen"}).FloorOffset)
}

func TestHashColor(t *testing.T) {
	a := Classify(models.Room{Name: "office"})
	b := Classify(models.Room{Name: "office"})
	assert.Equal(t, a.Color, b.Color)
	assert.Equal(t, uint8(255), a.Color.A)

	assert.NotEqual(t, HashColor("office"), HashColor("studio"))
}

func TestRuleOrder(t *testing.T) {
	kinds := make([]models.RoomType, 0, len(Rules))
	for _, r := range Rules {
		kinds = append(kinds, r.Kind)
	}
	assert.Equal(t, []models.RoomType{
		models.RoomKitchen, models.RoomBathroom, models.RoomBedroom, models.RoomLiving, models.RoomDining,
		models.RoomHallway, models.RoomPatio, models.RoomStorage, models.RoomCloset,
	}, kinds)
}

func TestBackground(t *testing.T) {
	base := models.DefaultSettings()

	assert.Equal(t, rgb(0xf0, 0xf0, 0xf0), Background(base))
	assert.Equal(t, rgb(0x2b, 0x1d, 0x3a), Background(base.WithLighting(models.LightingEvening)))
	assert.Equal(t, rgb(0x0a, 0x0f, 0x1f), Background(base.WithLighting(models.LightingNight)))
	assert.Equal(t, rgb(0, 0, 0), Background(base.WithLighting(models.LightingNight).WithBackground("#000000")))
	assert.Equal(t, rgb(0x12, 0x34, 0x56), Background(base.WithBackground("#123456")))
}

func TestPreset(t *testing.T) {
	assert.Equal(t, LightingPresets[models.LightingDay], Preset("noon"))
	assert.InDelta(t, 0.15, Preset(models.LightingNight).Ambient, 1e-6)
}
