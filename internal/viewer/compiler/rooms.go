package compiler

import (
	"fmt"

	"plan3d/internal/viewer/label"
	"plan3d/internal/viewer/models"
	"plan3d/internal/viewer/scene"
	"plan3d/internal/viewer/texture"

	"cogentcore.org/core/math32"
)

// ============================================================
// Room Synthesizer
// ============================================================

const (
	wallOpacity  = 0.3
	floorLift    = 0.01
	labelLift    = 0.4
	counterDepth = 0.2
	counterWidth = 0.8
	counterH     = 0.9
	tubWidth     = 0.4
	tubDepth     = 0.7
	tubH         = 0.55
	tableSide    = 0.6
	tableH       = 0.75

	roomLightLumens = 0.6
	roomLightHeight = 0.8
)

var (
	furnishingColor = rgb(0xf5, 0xf5, 0xf0)
	roomLightColor  = rgb(0xff, 0xf4, 0xe5)
)

func (b *build) buildRoom(room models.Room) error {
	style := Classify(room)
	w, h, l := float32(room.Width), float32(room.Height), float32(room.Length)

	group := scene.NewGroup("room:"+room.Name, scene.RoleRoom)
	group.Owner = room.Name
	group.Position = math32.Vec3(float32(room.X), float32(room.Y), float32(room.Z))

	center := math32.Vec3(w/2, h/2, l/2)

	walls := b.mesh("walls:"+room.Name, scene.RoleWalls, scene.Box(w, h, l), b.surface(style.Color, wallOpacity))
	walls.Position = center
	b.own(group, walls)

	outline := b.mesh("outline:"+room.Name, scene.RoleOutline, scene.Edges(w, h, l), b.line(darken(style.Color, 0.6)))
	outline.Position = center
	b.own(group, outline)

	floor, err := b.floor(room, style)
	if err != nil {
		return err
	}
	b.own(group, floor)

	if furn := b.furnishing(room, style); furn != nil {
		b.own(group, furn)
	}

	if b.settings.RoomLabels {
		sprite := b.sprite(room.Name, label.RoomStyle)
		node := scene.NewSpriteNode("label:"+room.Name, scene.RoleLabel, sprite)
		node.Position = center
		b.own(group, node)
	}

	if b.settings.ShowMeasurements {
		text := fmt.Sprintf("%sm x %sm x %sm", trim(room.Width), trim(room.Length), trim(room.Height))
		sprite := b.sprite(text, label.DimensionStyle)
		node := scene.NewSpriteNode("dimensions:"+room.Name, scene.RoleDimensions, sprite)
		node.Position = math32.Vec3(w/2, h+labelLift, l/2)
		b.own(group, node)
	}

	b.scene.Add(group)
	b.rooms[room.Name] = &roomEntry{room: room, style: style, group: group}

	b.addRoomLight(room)
	return nil
}

// own прикрепляет узел к группе комнаты и помечает владельца.
func (b *build) own(group, child *scene.Node) {
	child.Owner = group.Owner
	group.Add(child)
}

func (b *build) floor(room models.Room, style Style) (*scene.Node, error) {
	w, l := float32(room.Width), float32(room.Length)

	mat := b.surface(style.Color, 1)
	if style.Floor != "" {
		tex, err := texture.Synthesize(style.Floor, texture.Params{
			Base:  style.Color,
			Cells: style.TileCells,
			Seed:  b.seedFor(room.Name),
		})
		if err != nil {
			return nil, fmt.Errorf("floor texture: %w", err)
		}
		tex.RepeatU = math32.Max(1, w/2)
		tex.RepeatV = math32.Max(1, l/2)
		mat.Map = b.arena.Texture(tex)
		mat.Color = rgb(0xff, 0xff, 0xff)
	}

	floor := b.mesh("floor:"+room.Name, scene.RoleFloor, scene.Plane(w, l), mat)
	floor.Position = math32.Vec3(w/2, floorLift+style.FloorOffset, l/2)
	return floor, nil
}

func (b *build) furnishing(room models.Room, style Style) *scene.Node {
	w, h, l := float32(room.Width), float32(room.Height), float32(room.Length)
	mat := b.surface(furnishingColor, 1)

	var geom scene.Geometry
	var pos math32.Vector3
	switch style.Furnishing {
	case FurnishCounter:
		ch := math32.Min(counterH, h)
		geom = scene.Box(w*counterWidth, ch, l*counterDepth)
		pos = math32.Vec3(w/2, ch/2, l*counterDepth/2)
	case FurnishTub:
		th := math32.Min(tubH, h)
		geom = scene.Box(w*tubWidth, th, l*tubDepth)
		pos = math32.Vec3(w*tubWidth/2, th/2, l/2)
	case FurnishTable:
		th := math32.Min(tableH, h)
		geom = scene.Box(w*tableSide, th, l*tableSide)
		pos = math32.Vec3(w/2, th/2, l/2)
	default:
		return nil
	}

	node := b.mesh(fmt.Sprintf("%s:%s", style.Furnishing, room.Name), scene.RoleFurnishing, geom, mat)
	node.Position = pos
	return node
}

func (b *build) sprite(text string, style label.Style) *scene.Sprite {
	sprite := label.Sprite(text, style)
	sprite.Image = b.arena.Texture(sprite.Image)
	return sprite
}

func (b *build) addRoomLight(room models.Room) {
	x, _, z := room.Center()
	light := scene.NewLightNode("light:"+room.Name, &scene.Light{
		Type:   scene.LightPoint,
		Lumens: roomLightLumens,
		Color:  roomLightColor,
		Range:  1.5 * float32(max(room.Width, room.Length)),
	})
	light.Owner = room.Name
	light.Position = math32.Vec3(float32(x), float32(room.Y+room.Height*roomLightHeight), float32(z))
	b.scene.Add(light)
}

func trim(v float64) string {
	return fmt.Sprintf("%.4g", v)
}
