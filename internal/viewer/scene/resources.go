package scene

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"cogentcore.org/core/math32"
)

// ============================================================
// Materials
// ============================================================

type Material struct {
	ID          string     `json:"id"`
	Color       color.RGBA `json:"color"`
	Opacity     float32    `json:"opacity"`
	Transparent bool       `json:"transparent"`
	Wireframe   bool       `json:"wireframe"`
	DoubleSided bool       `json:"doubleSided"`
	Map         *Texture   `json:"map,omitempty"`
}

// ============================================================
// Textures
// ============================================================

type Wrap string

const (
	WrapRepeat Wrap = "repeat"
	WrapClamp  Wrap = "clamp"
)

// Texture: RGBA буфер пикселей, 4 байта на пиксель.
type Texture struct {
	ID      string  `json:"id"`
	Family  string  `json:"family"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	Pix     []uint8 `json:"-"`
	WrapS   Wrap    `json:"wrapS"`
	WrapT   Wrap    `json:"wrapT"`
	RepeatU float32 `json:"repeatU"`
	RepeatV float32 `json:"repeatV"`
}

// Image возвращает копию буфера как image.RGBA.
func (t *Texture) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.Width, t.Height))
	copy(img.Pix, t.Pix)
	return img
}

func (t *Texture) At(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= t.Width || y >= t.Height || len(t.Pix) == 0 {
		return color.RGBA{}
	}
	i := (y*t.Width + x) * 4
	return color.RGBA{R: t.Pix[i], G: t.Pix[i+1], B: t.Pix[i+2], A: t.Pix[i+3]}
}

func (t *Texture) EncodePNG(w io.Writer) error {
	if len(t.Pix) == 0 {
		return fmt.Errorf("texture %s: released or empty", t.ID)
	}
	return png.Encode(w, t.Image())
}

// DataURL кодирует текстуру в data:image/png;base64 для встраивания в JSON ответ.
func (t *Texture) DataURL() (string, error) {
	var buf bytes.Buffer
	if err := t.EncodePNG(&buf); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// ============================================================
// Sprites
// ============================================================

// Sprite: растровая табличка, всегда повернутая к камере.
type Sprite struct {
	Text   string   `json:"text"`
	Width  float32  `json:"width"`
	Height float32  `json:"height"`
	Image  *Texture `json:"image,omitempty"`
}

func (s *Sprite) Bounds() math32.Box3 {
	hw, hh := s.Width/2, s.Height/2
	return math32.B3(-hw, -hh, 0, hw, hh, 0)
}

// ============================================================
// Lights
// ============================================================

type LightType string

const (
	LightAmbient     LightType = "ambient"
	LightDirectional LightType = "directional"
	LightPoint       LightType = "point"
)

type Light struct {
	Type      LightType      `json:"type"`
	Lumens    float32        `json:"lumens"`
	Color     color.RGBA     `json:"color"`
	Direction math32.Vector3 `json:"direction"`
	Range     float32        `json:"range,omitempty"`
}

// ============================================================
// Camera
// ============================================================

type Camera struct {
	Fov      float32        `json:"fov"` // вертикальный угол обзора, градусы
	Aspect   float32        `json:"aspect"`
	Near     float32        `json:"near"`
	Far      float32        `json:"far"`
	Position math32.Vector3 `json:"position"`
	Target   math32.Vector3 `json:"target"`
	Distance float32        `json:"distance"`
}

// Controls: состояние орбитального управления видом.
type Controls struct {
	Target  math32.Vector3 `json:"target"`
	Damping bool           `json:"damping"`
}
