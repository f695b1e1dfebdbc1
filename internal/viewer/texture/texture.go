// Package texture синтезирует процедурные текстуры пола (плитка, дерево,
// ковролин, камень) как RGBA буферы. Узор определяется семейством и
// параметрами, а мелкие детали (трещины, волокна, крапинки) генератором
// случайных чисел с явным seed.
package texture

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"

	"plan3d/internal/viewer/scene"

	"github.com/gogpu/gg"
)

// ============================================================
// Families
// ============================================================

type Family string

const (
	FamilyTile   Family = "tile"
	FamilyWood   Family = "wood"
	FamilyCarpet Family = "carpet"
	FamilyStone  Family = "stone"
)

// Размеры холстов по семействам.
const (
	TileSize   = 256
	CarpetSize = 256
	WoodSize   = 512
	StoneSize  = 512
)

var ErrUnknownFamily = errors.New("unknown texture family")

type Params struct {
	Base   color.Color
	Accent color.Color // второй цвет плитки; по умолчанию вычисляется из Base
	Cells  int         // плотность сетки плитки
	Seed   uint64
}

// Synthesize строит текстуру заданного семейства. Обертка repeat по обеим осям.
func Synthesize(family Family, p Params) (*scene.Texture, error) {
	if p.Base == nil {
		p.Base = color.RGBA{R: 200, G: 200, B: 200, A: 255}
	}

	var (
		pm  *gg.Pixmap
		err error
	)
	switch family {
	case FamilyTile:
		pm, err = tile(p)
	case FamilyWood:
		pm, err = wood(p)
	case FamilyCarpet:
		pm = carpet(p)
	case FamilyStone:
		pm, err = stone(p)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, family)
	}
	if err != nil {
		return nil, fmt.Errorf("synthesize %s: %w", family, err)
	}

	return &scene.Texture{
		Family:  string(family),
		Width:   pm.Width(),
		Height:  pm.Height(),
		Pix:     pm.Data(),
		WrapS:   scene.WrapRepeat,
		WrapT:   scene.WrapRepeat,
		RepeatU: 1,
		RepeatV: 1,
	}, nil
}

// ============================================================
// Tile
// ============================================================

func tile(p Params) (*gg.Pixmap, error) {
	cells := p.Cells
	if cells <= 0 {
		cells = 8
	}
	rng := newRand(p.Seed)

	base := gg.FromColor(p.Base)
	accent := shade(base, 0.85)
	if p.Accent != nil {
		accent = gg.FromColor(p.Accent)
	}
	grout := shade(base, 0.55)

	pm := gg.NewPixmap(TileSize, TileSize)
	dc := gg.NewContext(TileSize, TileSize, gg.WithPixmap(pm))
	defer dc.Close()

	cell := float64(TileSize) / float64(cells)
	var errs []error
	for i := 0; i < cells; i++ {
		for j := 0; j < cells; j++ {
			c := base
			if (i+j)%2 == 1 {
				c = accent
			}
			c = shade(c, 0.96+rng.Float64()*0.08)
			dc.SetColor(c.Color())
			dc.DrawRectangle(float64(i)*cell, float64(j)*cell, cell, cell)
			errs = append(errs, dc.Fill())
		}
	}

	dc.SetColor(grout.Color())
	dc.SetLineWidth(2)
	for k := 0; k <= cells; k++ {
		v := float64(k) * cell
		dc.DrawLine(v, 0, v, TileSize)
		dc.DrawLine(0, v, TileSize, v)
	}
	errs = append(errs, dc.Stroke())

	return pm, errors.Join(errs...)
}

// ============================================================
// Wood
// ============================================================

func wood(p Params) (*gg.Pixmap, error) {
	rng := newRand(p.Seed)
	base := gg.FromColor(p.Base)

	pm := gg.NewPixmap(WoodSize, WoodSize)
	dc := gg.NewContext(WoodSize, WoodSize, gg.WithPixmap(pm))
	defer dc.Close()
	dc.ClearWithColor(base)

	var errs []error
	const grains = 48
	for i := 0; i < grains; i++ {
		y0 := rng.Float64() * WoodSize
		amp := 2 + rng.Float64()*6
		freq := 0.01 + rng.Float64()*0.03
		phase := rng.Float64() * 2 * math.Pi
		tone := shade(base, 0.7+rng.Float64()*0.2)

		dc.SetRGBA(tone.R, tone.G, tone.B, 0.35+rng.Float64()*0.4)
		dc.SetLineWidth(1 + rng.Float64()*2)
		dc.MoveTo(0, y0+amp*math.Sin(phase))
		for x := 8.0; x <= WoodSize; x += 8 {
			dc.LineTo(x, y0+amp*math.Sin(x*freq+phase))
		}
		errs = append(errs, dc.Stroke())
	}

	return pm, errors.Join(errs...)
}

// ============================================================
// Carpet
// ============================================================

func carpet(p Params) *gg.Pixmap {
	rng := newRand(p.Seed)
	base := gg.FromColor(p.Base)

	pm := gg.NewPixmap(CarpetSize, CarpetSize)
	for y := 0; y < CarpetSize; y++ {
		for x := 0; x < CarpetSize; x++ {
			pm.SetPixel(x, y, shade(base, 0.85+rng.Float64()*0.3))
		}
	}
	return pm
}

// ============================================================
// Stone
// ============================================================

func stone(p Params) (*gg.Pixmap, error) {
	rng := newRand(p.Seed)
	base := gg.FromColor(p.Base)

	pm := gg.NewPixmap(StoneSize, StoneSize)
	dc := gg.NewContext(StoneSize, StoneSize, gg.WithPixmap(pm))
	defer dc.Close()
	dc.ClearWithColor(base)

	var errs []error
	const blotches = 36
	for i := 0; i < blotches; i++ {
		tone := shade(base, 0.75+rng.Float64()*0.5)
		dc.SetRGBA(tone.R, tone.G, tone.B, 0.25)
		dc.DrawCircle(rng.Float64()*StoneSize, rng.Float64()*StoneSize, 10+rng.Float64()*40)
		errs = append(errs, dc.Fill())
	}

	crack := shade(base, 0.4)
	dc.SetColor(crack.Color())
	dc.SetLineWidth(1.5)
	const cracks = 14
	for i := 0; i < cracks; i++ {
		x, y := rng.Float64()*StoneSize, rng.Float64()*StoneSize
		dc.MoveTo(x, y)
		segments := 4 + rng.IntN(5)
		for s := 0; s < segments; s++ {
			x += (rng.Float64() - 0.5) * 60
			y += (rng.Float64() - 0.5) * 60
			dc.LineTo(x, y)
		}
		errs = append(errs, dc.Stroke())
	}

	return pm, errors.Join(errs...)
}

// ============================================================
// Helpers
// ============================================================

// NewSeed возвращает свежий случайный seed для сборки без закрепленного seed.
func NewSeed() uint64 {
	return rand.Uint64()
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// shade умножает RGB на f, сохраняя альфу.
func shade(c gg.RGBA, f float64) gg.RGBA {
	return gg.RGBA{
		R: clamp01(c.R * f),
		G: clamp01(c.G * f),
		B: clamp01(c.B * f),
		A: c.A,
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
