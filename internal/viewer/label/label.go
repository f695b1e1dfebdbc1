package label

import (
	"image"
	"image/color"
	"strings"

	"plan3d/internal/viewer/scene"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ============================================================
// Label sprites
// ============================================================

const padding = 3

type Style struct {
	Foreground  color.RGBA
	Background  color.RGBA
	Scale       int     // целочисленное увеличение растра (nearest neighbor)
	WorldHeight float32 // высота таблички в метрах
}

var (
	RoomStyle = Style{
		Foreground:  color.RGBA{R: 20, G: 20, B: 20, A: 255},
		Background:  color.RGBA{R: 255, G: 255, B: 255, A: 210},
		Scale:       4,
		WorldHeight: 0.5,
	}
	DimensionStyle = Style{
		Foreground:  color.RGBA{R: 30, G: 60, B: 140, A: 255},
		Background:  color.RGBA{R: 255, G: 255, B: 255, A: 160},
		Scale:       3,
		WorldHeight: 0.35,
	}
	GridStyle = Style{
		Foreground:  color.RGBA{R: 90, G: 90, B: 90, A: 255},
		Scale:       3,
		WorldHeight: 0.4,
	}
)

// Render растеризует текст шрифтом basicfont 7x13 и увеличивает результат.
func Render(text string, style Style) *scene.Texture {
	text = strings.TrimSpace(text)
	if text == "" {
		text = "?"
	}
	face := basicfont.Face7x13
	scale := style.Scale
	if scale < 1 {
		scale = 1
	}

	d := &font.Drawer{Face: face}
	w := d.MeasureString(text).Ceil() + 2*padding
	h := face.Metrics().Height.Ceil() + 2*padding

	src := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(src, src.Bounds(), image.NewUniform(style.Background), image.Point{}, draw.Src)

	d.Dst = src
	d.Src = image.NewUniform(style.Foreground)
	d.Dot = fixed.P(padding, padding+face.Metrics().Ascent.Ceil())
	d.DrawString(text)

	dst := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	return &scene.Texture{
		Family:  "label",
		Width:   dst.Bounds().Dx(),
		Height:  dst.Bounds().Dy(),
		Pix:     dst.Pix,
		WrapS:   scene.WrapClamp,
		WrapT:   scene.WrapClamp,
		RepeatU: 1,
		RepeatV: 1,
	}
}

// Sprite строит табличку: высота задается стилем, ширина следует пропорциям растра.
func Sprite(text string, style Style) *scene.Sprite {
	tex := Render(text, style)
	height := style.WorldHeight
	if height <= 0 {
		height = 0.5
	}
	return &scene.Sprite{
		Text:   text,
		Width:  height * float32(tex.Width) / float32(tex.Height),
		Height: height,
		Image:  tex,
	}
}
