package texture

import (
	"image/color"
	"testing"

	"plan3d/internal/viewer/scene"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sand = color.RGBA{R: 0xd8, G: 0xc0, B: 0x90, A: 0xff}

func luma(c color.RGBA) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}

func distinct(tex *scene.Texture, step int) int {
	seen := make(map[color.RGBA]bool)
	for y := 0; y < tex.Height; y += step {
		for x := 0; x < tex.Width; x += step {
			seen[tex.At(x, y)] = true
		}
	}
	return len(seen)
}

func TestSynthesizeSizesAndWrap(t *testing.T) {
	tests := []struct {
		family Family
		size   int
	}{
		{FamilyTile, TileSize},
		{FamilyWood, WoodSize},
		{FamilyCarpet, CarpetSize},
		{FamilyStone, StoneSize},
	}
	for _, tt := range tests {
		t.Run(string(tt.family), func(t *testing.T) {
			tex, err := Synthesize(tt.family, Params{Base: sand, Cells: 8, Seed: 7})
			require.NoError(t, err)
			assert.Equal(t, tt.size, tex.Width)
			assert.Equal(t, tt.size, tex.Height)
			assert.Len(t, tex.Pix, tt.size*tt.size*4)
			assert.Equal(t, scene.WrapRepeat, tex.WrapS)
			assert.Equal(t, scene.WrapRepeat, tex.WrapT)
			assert.Equal(t, string(tt.family), tex.Family)
		})
	}
}

func TestSynthesizeUnknownFamily(t *testing.T) {
	_, err := Synthesize("marble", Params{Base: sand})
	assert.ErrorIs(t, err, ErrUnknownFamily)
}

func TestTileGrout(t *testing.T) {
	tex, err := Synthesize(FamilyTile, Params{Base: sand, Cells: 8, Seed: 1})
	require.NoError(t, err)

	// линия затирки на границе ячеек темнее середины ячейки
	cell := TileSize / 8
	grout := tex.At(cell, cell/2)
	inside := tex.At(cell/2, cell/2)
	assert.Less(t, luma(grout), luma(inside))

	// соседние ячейки шахматки различаются
	left := tex.At(cell/2, cell/2)
	right := tex.At(cell+cell/2, cell/2)
	assert.NotEqual(t, left, right)
}

func TestTileDensity(t *testing.T) {
	coarse, err := Synthesize(FamilyTile, Params{Base: sand, Cells: 4, Seed: 3})
	require.NoError(t, err)
	fine, err := Synthesize(FamilyTile, Params{Base: sand, Cells: 16, Seed: 3})
	require.NoError(t, err)

	// при 16 ячейках x=16 попадает на затирку, при 4 в середину плитки
	assert.Less(t, luma(fine.At(16, 8)), luma(coarse.At(16, 8)))
}

func TestCarpetNoise(t *testing.T) {
	tex, err := Synthesize(FamilyCarpet, Params{Base: sand, Seed: 11})
	require.NoError(t, err)
	assert.Greater(t, distinct(tex, 4), 50)
}

func TestWoodAndStoneVary(t *testing.T) {
	for _, family := range []Family{FamilyWood, FamilyStone} {
		tex, err := Synthesize(family, Params{Base: sand, Seed: 5})
		require.NoError(t, err)
		assert.Greater(t, distinct(tex, 8), 3, family)
	}
}

func TestSeedPinsPattern(t *testing.T) {
	a, err := Synthesize(FamilyStone, Params{Base: sand, Seed: 99})
	require.NoError(t, err)
	b, err := Synthesize(FamilyStone, Params{Base: sand, Seed: 99})
	require.NoError(t, err)
	c, err := Synthesize(FamilyStone, Params{Base: sand, Seed: 100})
	require.NoError(t, err)

	assert.Equal(t, a.Pix, b.Pix)
	assert.NotEqual(t, a.Pix, c.Pix)
}
