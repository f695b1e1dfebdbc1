package compiler

import (
	"hash/fnv"
	"image/color"
	"math"
	"strings"

	"plan3d/internal/viewer/models"
	"plan3d/internal/viewer/texture"

	"github.com/gogpu/gg"
)

// ============================================================
// Semantic rule table
// ============================================================

type Furnishing string

const (
	FurnishNone    Furnishing = ""
	FurnishCounter Furnishing = "counter"
	FurnishTub     Furnishing = "tub"
	FurnishTable   Furnishing = "table"
)

// Style: все, что комната получает от своей семантики.
type Style struct {
	Kind        models.RoomType
	Color       color.RGBA
	Floor       texture.Family // пусто: ровная заливка
	TileCells   int
	Furnishing  Furnishing
	FloorOffset float32
}

// Rule сопоставляет комнату по подстроке имени (без учета регистра) или по тегу type.
type Rule struct {
	Kind     models.RoomType
	Keywords []string
	Style    Style
}

func (r Rule) Match(room models.Room) bool {
	if room.Type.Normalize() == r.Kind {
		return true
	}
	name := strings.ToLower(room.Name)
	for _, kw := range r.Keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// Rules проверяются по порядку, побеждает первое совпадение.
var Rules = []Rule{
	{Kind: models.RoomKitchen, Keywords: []string{"kitchen"}, Style: Style{
		Color: rgb(0xff, 0xd2, 0x7f), Floor: texture.FamilyTile, TileCells: 8, Furnishing: FurnishCounter,
	}},
	{Kind: models.RoomBathroom, Keywords: []string{"bathroom", "bath"}, Style: Style{
		Color: rgb(0x87, 0xce, 0xeb), Floor: texture.FamilyTile, TileCells: 12, Furnishing: FurnishTub,
	}},
	{Kind: models.RoomBedroom, Keywords: []string{"bedroom"}, Style: Style{
		Color: rgb(0xdd, 0xa0, 0xdd), Floor: texture.FamilyWood,
	}},
	{Kind: models.RoomLiving, Keywords: []string{"living"}, Style: Style{
		Color: rgb(0x98, 0xfb, 0x98), Floor: texture.FamilyCarpet,
	}},
	{Kind: models.RoomDining, Keywords: []string{"dining"}, Style: Style{
		Color: rgb(0xf4, 0xa4, 0x60), Floor: texture.FamilyWood, Furnishing: FurnishTable,
	}},
	{Kind: models.RoomHallway, Keywords: []string{"hallway"}, Style: Style{
		Color: rgb(0xd3, 0xd3, 0xd3),
	}},
	{Kind: models.RoomPatio, Keywords: []string{"patio"}, Style: Style{
		Color: rgb(0x8f, 0xbc, 0x8f), Floor: texture.FamilyStone, FloorOffset: -0.15,
	}},
	{Kind: models.RoomStorage, Keywords: []string{"storage"}, Style: Style{
		Color: rgb(0xbc, 0x8f, 0x8f),
	}},
	{Kind: models.RoomCloset, Keywords: []string{"closet", "wic"}, Style: Style{
		Color: rgb(0xde, 0xb8, 0x87),
	}},
}

// Classify возвращает стиль первого подходящего правила. Для остальных комнат
// цвет выводится из хеша имени: одинаковые имена всегда окрашены одинаково.
func Classify(room models.Room) Style {
	for _, rule := range Rules {
		if rule.Match(room) {
			s := rule.Style
			s.Kind = rule.Kind
			return s
		}
	}
	return Style{
		Kind:  models.RoomUnclassified,
		Color: HashColor(room.Name),
	}
}

func HashColor(name string) color.RGBA {
	h := fnv.New32a()
	h.Write([]byte(name))
	hue := float64(h.Sum32() % 360)
	return toRGBA(gg.HSL(hue, 0.55, 0.65))
}

// ============================================================
// Color helpers
// ============================================================

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// toRGBA округляет каналы, а не отбрасывает дробную часть, как gg.RGBA.Color.
func toRGBA(c gg.RGBA) color.RGBA {
	to8 := func(v float64) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
	}
	return color.RGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: to8(c.A)}
}

// parseColor разбирает hex цвет; при пустой строке возвращает fallback.
func parseColor(hex string, fallback color.RGBA) color.RGBA {
	hex = strings.TrimSpace(hex)
	if hex == "" {
		return fallback
	}
	if strings.EqualFold(hex, "black") {
		return rgb(0, 0, 0)
	}
	if strings.EqualFold(hex, "white") {
		return rgb(0xff, 0xff, 0xff)
	}
	return toRGBA(gg.Hex(hex))
}

func darken(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * f),
		G: uint8(float64(c.G) * f),
		B: uint8(float64(c.B) * f),
		A: c.A,
	}
}
