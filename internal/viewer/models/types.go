package models

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ============================================================
// Model Description
// ============================================================

// Description: входное описание плана от внешнего AI-пайплайна.
// Никогда не изменяется компилятором.
type Description struct {
	Rooms   []Room   `json:"rooms"`
	Windows []Window `json:"windows"`
	Doors   []Door   `json:"doors"`
}

type Room struct {
	Name        string   `json:"name"`
	Width       float64  `json:"width"`
	Length      float64  `json:"length"`
	Height      float64  `json:"height"`
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	Z           float64  `json:"z"`
	ConnectedTo []string `json:"connected_to,omitempty"`
	Type        RoomType `json:"type,omitempty"`
}

type Window struct {
	Room     string  `json:"room"`
	Wall     Wall    `json:"wall"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Position float64 `json:"position"`
}

type Door struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid проверяет, что все габариты комнаты положительные.
func (r Room) Valid() bool {
	return r.Width > 0 && r.Length > 0 && r.Height > 0
}

// Center возвращает центр объема комнаты в мировых координатах.
func (r Room) Center() (x, y, z float64) {
	return r.X + r.Width/2, r.Y + r.Height/2, r.Z + r.Length/2
}

func (r Room) String() string {
	return fmt.Sprintf("%q (width=%g length=%g height=%g)", r.Name, r.Width, r.Length, r.Height)
}

// DecodeDescription читает JSON описание плана.
func DecodeDescription(r io.Reader) (*Description, error) {
	var desc Description
	if err := json.NewDecoder(r).Decode(&desc); err != nil {
		return nil, fmt.Errorf("decode description: %w", err)
	}
	return &desc, nil
}

// ============================================================
// Enums
// ============================================================

type Wall string

const (
	WallNorth Wall = "north"
	WallSouth Wall = "south"
	WallEast  Wall = "east"
	WallWest  Wall = "west"
)

// Normalize приводит значение к нижнему регистру без пробелов.
func (w Wall) Normalize() Wall {
	return Wall(strings.ToLower(strings.TrimSpace(string(w))))
}

func (w Wall) Known() bool {
	switch w.Normalize() {
	case WallNorth, WallSouth, WallEast, WallWest:
		return true
	}
	return false
}

type RoomType string

const (
	RoomKitchen      RoomType = "kitchen"
	RoomBathroom     RoomType = "bathroom"
	RoomBedroom      RoomType = "bedroom"
	RoomLiving       RoomType = "living"
	RoomDining       RoomType = "dining"
	RoomHallway      RoomType = "hallway"
	RoomPatio        RoomType = "patio"
	RoomStorage      RoomType = "storage"
	RoomCloset       RoomType = "closet"
	RoomUnclassified RoomType = "unclassified"
)

func (t RoomType) Normalize() RoomType {
	return RoomType(strings.ToLower(strings.TrimSpace(string(t))))
}
