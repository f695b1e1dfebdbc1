package models

import (
	"strings"
)

// ============================================================
// Display Settings
// ============================================================

const (
	MinZoom = 0.5
	MaxZoom = 3.0

	DefaultBackground = "#f0f0f0"
)

type Lighting string

const (
	LightingMorning Lighting = "morning"
	LightingDay     Lighting = "day"
	LightingEvening Lighting = "evening"
	LightingNight   Lighting = "night"
)

// Settings: неизменяемый набор параметров отображения.
// Любое изменение создает новое значение и полную пересборку сцены.
type Settings struct {
	ShowGrid         bool     `json:"showGrid" toml:"show_grid"`
	ShowAxes         bool     `json:"showAxes" toml:"show_axes"`
	BackgroundColor  string   `json:"backgroundColor" toml:"background_color"`
	Lighting         Lighting `json:"lighting" toml:"lighting"`
	Wireframe        bool     `json:"wireframe" toml:"wireframe"`
	Zoom             float64  `json:"zoom" toml:"zoom"`
	ShowMeasurements bool     `json:"showMeasurements" toml:"show_measurements"`
	RoomLabels       bool     `json:"roomLabels" toml:"room_labels"`
}

// DefaultSettings возвращает настройки, с которыми открывается просмотрщик.
func DefaultSettings() Settings {
	return Settings{
		ShowGrid:        true,
		ShowAxes:        true,
		BackgroundColor: DefaultBackground,
		Lighting:        LightingDay,
		Zoom:            1,
		RoomLabels:      true,
	}
}

// Normalize заполняет пустые поля и ограничивает zoom диапазоном [0.5, 3].
func (s Settings) Normalize() Settings {
	s.Lighting = Lighting(strings.ToLower(strings.TrimSpace(string(s.Lighting))))
	switch s.Lighting {
	case LightingMorning, LightingDay, LightingEvening, LightingNight:
	default:
		s.Lighting = LightingDay
	}

	s.BackgroundColor = strings.TrimSpace(s.BackgroundColor)
	if s.BackgroundColor == "" {
		s.BackgroundColor = DefaultBackground
	}

	switch {
	case s.Zoom == 0:
		s.Zoom = 1
	case s.Zoom < MinZoom:
		s.Zoom = MinZoom
	case s.Zoom > MaxZoom:
		s.Zoom = MaxZoom
	}
	return s
}

// IsBlackBackground сообщает, выбрал ли пользователь чисто черный фон.
func (s Settings) IsBlackBackground() bool {
	switch strings.ToLower(s.BackgroundColor) {
	case "#000", "#000000", "000", "000000", "black":
		return true
	}
	return false
}

func (s Settings) WithGrid(on bool) Settings {
	s.ShowGrid = on
	return s
}

func (s Settings) WithAxes(on bool) Settings {
	s.ShowAxes = on
	return s
}

func (s Settings) WithBackground(hex string) Settings {
	s.BackgroundColor = hex
	return s
}

func (s Settings) WithLighting(l Lighting) Settings {
	s.Lighting = l
	return s
}

func (s Settings) WithWireframe(on bool) Settings {
	s.Wireframe = on
	return s
}

func (s Settings) WithZoom(zoom float64) Settings {
	s.Zoom = zoom
	return s.Normalize()
}

func (s Settings) WithMeasurements(on bool) Settings {
	s.ShowMeasurements = on
	return s
}

func (s Settings) WithRoomLabels(on bool) Settings {
	s.RoomLabels = on
	return s
}
