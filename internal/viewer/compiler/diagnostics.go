package compiler

import (
	"fmt"

	"plan3d/internal/viewer/models"

	"cogentcore.org/core/math32"
)

// ============================================================
// Diagnostics
// ============================================================

type RoomSummary struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Length float64 `json:"length"`
	Height float64 `json:"height"`
}

type BoundsSummary struct {
	Min  math32.Vector3 `json:"min"`
	Max  math32.Vector3 `json:"max"`
	Size math32.Vector3 `json:"size"`
}

// Diagnostics: сводка сборки для отладочного оверлея и телеметрии.
type Diagnostics struct {
	Generation    string        `json:"generation"`
	ValidRooms    int           `json:"validRoomCount"`
	TotalRooms    int           `json:"totalRoomCount"`
	Windows       int           `json:"windowCount"`
	Doors         int           `json:"doorCount"`
	PlacedWindows int           `json:"placedWindows"`
	PlacedDoors   int           `json:"placedDoors"`
	Connectors    int           `json:"connectors"`
	GridSpan      float32       `json:"gridSpan"`
	FirstRooms    []RoomSummary `json:"firstRooms"`
	DefaultBounds bool          `json:"defaultBounds"`
	Bounds        BoundsSummary `json:"bounds"`
	Warnings      []string      `json:"warnings"`
}

// RoomRatio: "valid/total", как показывает отладочный оверлей.
func (d Diagnostics) RoomRatio() string {
	return fmt.Sprintf("%d/%d", d.ValidRooms, d.TotalRooms)
}

func (d *Diagnostics) recordValidation(desc *models.Description, v Validation) {
	d.ValidRooms = len(v.Rooms)
	d.TotalRooms = v.Total
	d.Windows = len(desc.Windows)
	d.Doors = len(desc.Doors)
	d.DefaultBounds = v.Default

	d.FirstRooms = d.FirstRooms[:0]
	for i, r := range v.Rooms {
		if i == 2 {
			break
		}
		d.FirstRooms = append(d.FirstRooms, RoomSummary{Name: r.Name, Width: r.Width, Length: r.Length, Height: r.Height})
	}
}

func (d *Diagnostics) recordBounds(b math32.Box3) {
	d.Bounds = BoundsSummary{Min: b.Min, Max: b.Max, Size: b.Size()}
}
