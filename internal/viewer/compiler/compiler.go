package compiler

import (
	"errors"
	"fmt"
	"hash/fnv"
	"image/color"
	"time"

	"plan3d/internal/viewer/models"
	"plan3d/internal/viewer/scene"
	"plan3d/internal/viewer/texture"
)

// ============================================================
// Compiler
// ============================================================

// ErrConstruction оборачивает любую неожиданную ошибку стадии синтеза.
var ErrConstruction = errors.New("scene construction failed")

type Options struct {
	Seed   uint64  // seed процедурных текстур; при 0 каждая сборка берет новый
	Fov    float32 // градусы
	Aspect float32
}

type Option func(*Options)

func WithSeed(seed uint64) Option {
	return func(o *Options) {
		o.Seed = seed
	}
}

func WithFov(deg float32) Option {
	return func(o *Options) {
		if deg > 0 && deg < 180 {
			o.Fov = deg
		}
	}
}

func WithAspect(aspect float32) Option {
	return func(o *Options) {
		if aspect > 0 {
			o.Aspect = aspect
		}
	}
}

func defaultOptions() Options {
	return Options{Fov: DefaultFov, Aspect: 16.0 / 9.0}
}

type Result struct {
	Scene       *scene.Scene
	Diagnostics Diagnostics
}

// build: состояние одной сборки. Не переживает вызов Compile.
type build struct {
	desc     *models.Description
	settings models.Settings
	opts     Options

	arena *scene.Arena
	scene *scene.Scene

	// реестр валидных комнат: имя -> группа
	rooms map[string]*roomEntry
	// имена всех комнат описания, включая невалидные
	declared map[string]bool

	diag Diagnostics
}

type roomEntry struct {
	room  models.Room
	style Style
	group *scene.Node
}

// Compile собирает граф сцены из описания плана и настроек отображения.
// Ошибки отдельных сущностей превращаются в предупреждения; ошибка возвращается
// только при сбое синтеза, и тогда все выделенные ресурсы уже освобождены.
func Compile(desc *models.Description, settings models.Settings, opts ...Option) (res *Result, err error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Seed == 0 {
		o.Seed = texture.NewSeed()
	}
	if desc == nil {
		desc = &models.Description{}
	}

	arena := scene.NewArena()
	b := &build{
		desc:     desc,
		settings: settings.Normalize(),
		opts:     o,
		arena:    arena,
		scene:    scene.New(arena),
		rooms:    make(map[string]*roomEntry),
		declared: make(map[string]bool, len(desc.Rooms)),
	}
	b.diag.Generation = arena.Generation().String()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrConstruction, r)
		}
		if err != nil {
			b.scene.Teardown()
			res = nil
			Logger().Error("build failed", "generation", b.diag.Generation, "error", err)
		}
	}()

	start := time.Now()
	Logger().Info("build started", "generation", b.diag.Generation,
		"rooms", len(desc.Rooms), "windows", len(desc.Windows), "doors", len(desc.Doors))

	if err := b.run(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConstruction, err)
	}

	Logger().Info("build finished", "generation", b.diag.Generation,
		"valid_rooms", b.diag.ValidRooms, "warnings", len(b.diag.Warnings), "elapsed", time.Since(start))
	return &Result{Scene: b.scene, Diagnostics: b.diag}, nil
}

func (b *build) run() error {
	for _, r := range b.desc.Rooms {
		b.declared[r.Name] = true
	}

	validation := Validate(b.desc)
	for _, w := range validation.Warnings {
		b.warn("%s", w)
	}
	b.diag.recordValidation(b.desc, validation)
	span := GridSpan(validation.Bounds)
	b.diag.GridSpan = span

	b.buildEnvironment(span)

	for _, room := range validation.Rooms {
		if err := b.buildRoom(room); err != nil {
			return fmt.Errorf("room %q: %w", room.Name, err)
		}
	}
	Logger().Debug("rooms built", "count", len(b.rooms))

	b.placeWindows()
	b.resolveDoors()

	bounds := b.scene.Bounds()
	if bounds.IsEmpty() {
		bounds = validation.Bounds
	}
	b.scene.Camera, b.scene.Controls = Autoframe(bounds, b.settings.Zoom, b.opts.Fov, b.opts.Aspect)
	b.diag.recordBounds(bounds)
	return nil
}

// warn пишет предупреждение в лог и в диагностику сборки.
func (b *build) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	Logger().Warn(msg, "generation", b.diag.Generation)
	b.diag.Warnings = append(b.diag.Warnings, msg)
}

// ============================================================
// Material helpers
// ============================================================

// surface: материал поверхности; подчиняется флагу wireframe.
func (b *build) surface(c color.RGBA, opacity float32) *scene.Material {
	return b.arena.Material(scene.Material{
		Color:       c,
		Opacity:     opacity,
		Transparent: opacity < 1,
		Wireframe:   b.settings.Wireframe,
		DoubleSided: opacity < 1,
	})
}

// line: материал линий (обводка, сетка, оси); wireframe на него не влияет.
func (b *build) line(c color.RGBA) *scene.Material {
	return b.arena.Material(scene.Material{Color: c, Opacity: 1})
}

func (b *build) mesh(name string, role scene.Role, geom scene.Geometry, mat *scene.Material) *scene.Node {
	return scene.NewMesh(name, role, b.arena.Geometry(geom), mat)
}

// seedFor дает каждой комнате свой поток случайных чисел в пределах seed сборки.
func (b *build) seedFor(name string) uint64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return b.opts.Seed ^ h.Sum64()
}
