package compiler

import (
	"fmt"
	"image/color"

	"plan3d/internal/viewer/label"
	"plan3d/internal/viewer/models"
	"plan3d/internal/viewer/scene"

	"cogentcore.org/core/math32"
)

// ============================================================
// Environment Builder
// ============================================================

type LightingPreset struct {
	Ambient     float32
	Directional float32
	Direction   math32.Vector3
	Background  string // пусто: фон пользователя не переопределяется
}

var LightingPresets = map[models.Lighting]LightingPreset{
	models.LightingMorning: {Ambient: 0.5, Directional: 0.7, Direction: math32.Vec3(-1, 0.6, 0.4)},
	models.LightingDay:     {Ambient: 0.6, Directional: 0.9, Direction: math32.Vec3(0.5, 1, 0.5)},
	models.LightingEvening: {Ambient: 0.35, Directional: 0.5, Direction: math32.Vec3(1, 0.3, -0.5), Background: "#2b1d3a"},
	models.LightingNight:   {Ambient: 0.15, Directional: 0.2, Direction: math32.Vec3(0, 1, 0.2), Background: "#0a0f1f"},
}

const (
	gridLabelLift = 0.05
	maxGridLabels = 40 // на одну ось
	axisLabelGap  = 0.5
)

var (
	gridColor   = rgb(0xbb, 0xbb, 0xbb)
	whiteLight  = rgb(0xff, 0xff, 0xff)
	originStyle = label.Style{
		Foreground:  rgb(0xc0, 0x1c, 0x28),
		Background:  color.RGBA{R: 255, G: 255, B: 255, A: 200},
		Scale:       3,
		WorldHeight: 0.5,
	}
	axisColors = [3]color.RGBA{rgb(0xe5, 0x39, 0x35), rgb(0x43, 0xa0, 0x47), rgb(0x1e, 0x88, 0xe5)}
)

// Preset возвращает пресет освещения; неизвестное имя дает "day".
func Preset(l models.Lighting) LightingPreset {
	if p, ok := LightingPresets[l]; ok {
		return p
	}
	return LightingPresets[models.LightingDay]
}

// Background: цвет фона с учетом переопределения вечером и ночью.
// Переопределение не применяется, если пользователь выбрал чисто черный фон.
func Background(s models.Settings) color.RGBA {
	bg := parseColor(s.BackgroundColor, parseColor(models.DefaultBackground, rgb(0xf0, 0xf0, 0xf0)))
	preset := Preset(s.Lighting)
	if preset.Background != "" && !s.IsBlackBackground() {
		return parseColor(preset.Background, bg)
	}
	return bg
}

func (b *build) buildEnvironment(span float32) {
	b.scene.Background = Background(b.settings)

	if b.settings.ShowGrid {
		b.buildGrid(span)
	}
	if b.settings.ShowAxes {
		b.buildAxes(span / 2)
	}
	b.buildLights()
}

func (b *build) buildGrid(span float32) {
	grid := b.mesh("grid", scene.RoleGrid, scene.Grid(span, int(span)), b.line(gridColor))
	b.scene.Add(grid)

	if !b.settings.ShowMeasurements {
		return
	}

	half := int(span / 2)
	step := gridLabelStep(half)
	for v := -half - (-half % step); v <= half; v += step {
		if v == 0 {
			continue
		}
		text := fmt.Sprintf("%dm", v)
		xl := scene.NewSpriteNode(fmt.Sprintf("grid-label:x:%d", v), scene.RoleGridLabel, b.sprite(text, label.GridStyle))
		xl.Position = math32.Vec3(float32(v), gridLabelLift, 0)
		b.scene.Add(xl)

		zl := scene.NewSpriteNode(fmt.Sprintf("grid-label:z:%d", v), scene.RoleGridLabel, b.sprite(text, label.GridStyle))
		zl.Position = math32.Vec3(0, gridLabelLift, float32(v))
		b.scene.Add(zl)
	}

	origin := scene.NewSpriteNode("origin", scene.RoleOrigin, b.sprite("0,0", originStyle))
	origin.Position = math32.Vec3(0, gridLabelLift, 0)
	b.scene.Add(origin)
}

// gridLabelStep: шаг подписей сетки, кратный gridStep. На больших планах шаг
// растет, чтобы подписей на оси было не больше maxGridLabels.
func gridLabelStep(half int) int {
	groups := (2*half + gridStep*maxGridLabels - 1) / (gridStep * maxGridLabels)
	return max(1, groups) * gridStep
}

func (b *build) buildAxes(size float32) {
	axes := b.mesh("axes", scene.RoleAxes, scene.Axes(size), b.line(whiteLight))
	b.scene.Add(axes)

	ends := [3]math32.Vector3{
		math32.Vec3(size+axisLabelGap, 0, 0),
		math32.Vec3(0, size+axisLabelGap, 0),
		math32.Vec3(0, 0, size+axisLabelGap),
	}
	for i, name := range [3]string{"X", "Y", "Z"} {
		style := label.Style{Foreground: axisColors[i], Scale: 4, WorldHeight: 0.6}
		node := scene.NewSpriteNode("axis-label:"+name, scene.RoleAxisLabel, b.sprite(name, style))
		node.Position = ends[i]
		b.scene.Add(node)
	}
}

func (b *build) buildLights() {
	preset := Preset(b.settings.Lighting)

	b.scene.Add(scene.NewLightNode("ambient", &scene.Light{
		Type:   scene.LightAmbient,
		Lumens: preset.Ambient,
		Color:  whiteLight,
	}))

	sun := scene.NewLightNode("directional", &scene.Light{
		Type:      scene.LightDirectional,
		Lumens:    preset.Directional,
		Color:     whiteLight,
		Direction: preset.Direction.Normal(),
	})
	sun.Position = preset.Direction
	b.scene.Add(sun)
}
