// Package viewer: встраиваемая поверхность просмотра плана. Она проверяет
// возможности среды, собирает сцену, сообщает статус сборки и крутит цикл
// кадров, пока сборка не заменена новой или просмотрщик не закрыт.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"plan3d/internal/viewer/compiler"
	"plan3d/internal/viewer/models"
	"plan3d/internal/viewer/scene"
)

// ============================================================
// Status
// ============================================================

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateError   State = "error"
	StateReady   State = "ready"
)

type ErrorKind string

const (
	ErrorCapability   ErrorKind = "capability"
	ErrorConstruction ErrorKind = "construction"
)

type Status struct {
	State       State     `json:"status"`
	Kind        ErrorKind `json:"kind,omitempty"`
	Message     string    `json:"message,omitempty"`
	Remediation []string  `json:"remediation,omitempty"`
}

var (
	ErrClosed  = errors.New("viewer is closed")
	ErrNoScene = errors.New("viewer has no scene")
)

// ============================================================
// Viewer
// ============================================================

const (
	DefaultFrameInterval = time.Second / 60
	DefaultWidth         = 1280
	DefaultHeight        = 720
)

type Option func(*Viewer)

func WithProbe(p Probe) Option {
	return func(v *Viewer) {
		v.probe = p
	}
}

func WithSurface(s Surface) Option {
	return func(v *Viewer) {
		v.surface = s
	}
}

func WithFrameInterval(d time.Duration) Option {
	return func(v *Viewer) {
		if d > 0 {
			v.interval = d
		}
	}
}

// WithSize задает размер поверхности; стороны больше MaxSurfaceSize обрезаются.
func WithSize(width, height int) Option {
	return func(v *Viewer) {
		if width > 0 && height > 0 {
			v.width, v.height = clampSize(width, height)
		}
	}
}

func WithCompilerOptions(opts ...compiler.Option) Option {
	return func(v *Viewer) {
		v.compileOpts = append(v.compileOpts, opts...)
	}
}

// Viewer владеет не более чем одной живой сборкой.
type Viewer struct {
	probe       Probe
	surface     Surface
	interval    time.Duration
	compileOpts []compiler.Option

	// buildMu сериализует Load и Close; cancel/done трогаются только под ним
	buildMu sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	closed  bool

	// mu защищает текущую сборку, статус и размеры; кадр рендерится под ним
	mu            sync.Mutex
	status        Status
	current       *compiler.Result
	width, height int
}

func New(opts ...Option) *Viewer {
	v := &Viewer{
		probe:    AcceleratorProbe{},
		interval: DefaultFrameInterval,
		width:    DefaultWidth,
		height:   DefaultHeight,
		status:   Status{State: StateIdle},
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.surface == nil {
		v.surface = NewRasterSurface(v.width, v.height)
	}
	return v
}

// Load заменяет текущую сборку новой. Ресурсы прежней сборки освобождаются
// до начала новой, ее цикл кадров останавливается.
func (v *Viewer) Load(ctx context.Context, desc *models.Description, settings models.Settings) error {
	v.buildMu.Lock()
	defer v.buildMu.Unlock()

	if v.closed {
		return ErrClosed
	}

	v.setStatus(Status{State: StateLoading})
	v.teardown()

	if err := v.probe.Probe(ctx); err != nil {
		// отмена запроса ничего не говорит о возможностях среды
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("probe: %w", err)
			v.setStatus(Status{State: StateError, Kind: ErrorConstruction, Message: err.Error()})
			return err
		}

		var capErr *CapabilityError
		if !errors.As(err, &capErr) {
			capErr = newCapabilityError(err.Error())
		}
		v.setStatus(Status{
			State:       StateError,
			Kind:        ErrorCapability,
			Message:     capErr.Error(),
			Remediation: capErr.Remediation,
		})
		compiler.Logger().Warn("capability probe failed", "error", capErr)
		return capErr
	}

	opts := append(append([]compiler.Option(nil), v.compileOpts...), compiler.WithAspect(v.aspect()))
	res, err := compiler.Compile(desc, settings, opts...)
	if err != nil {
		v.setStatus(Status{State: StateError, Kind: ErrorConstruction, Message: err.Error()})
		return err
	}

	if err := v.surface.Attach(res.Scene); err != nil {
		res.Scene.Teardown()
		err = fmt.Errorf("%w: attach surface: %w", compiler.ErrConstruction, err)
		v.setStatus(Status{State: StateError, Kind: ErrorConstruction, Message: err.Error()})
		return err
	}
	generation := res.Scene.Generation
	res.Scene.Arena().OnRelease(func() {
		v.surface.Detach(generation)
	})

	v.mu.Lock()
	v.current = res
	v.status = Status{State: StateReady}
	v.mu.Unlock()

	v.startLoop(res.Scene)
	compiler.Logger().Info("viewer ready", "generation", generation)
	return nil
}

// Resize меняет пропорции камеры и размер поверхности, не трогая сцену.
// Стороны больше MaxSurfaceSize обрезаются.
func (v *Viewer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid size %dx%d", width, height)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.width, v.height = clampSize(width, height)
	if v.current != nil {
		v.current.Scene.Camera.Aspect = v.aspectLocked()
	}
	return v.surface.Resize(v.width, v.height)
}

// Close останавливает цикл кадров и освобождает сборку и поверхность.
func (v *Viewer) Close() error {
	v.buildMu.Lock()
	defer v.buildMu.Unlock()

	if v.closed {
		return nil
	}
	v.closed = true
	v.teardown()
	v.setStatus(Status{State: StateIdle})
	return v.surface.Close()
}

func (v *Viewer) Status() Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// Diagnostics: сводка текущей сборки; ok == false, если сцены нет.
func (v *Viewer) Diagnostics() (compiler.Diagnostics, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.current == nil {
		return compiler.Diagnostics{}, false
	}
	return v.current.Diagnostics, true
}

// Camera: текущее состояние камеры; ok == false, если сцены нет.
func (v *Viewer) Camera() (scene.Camera, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.current == nil {
		return scene.Camera{}, false
	}
	return v.current.Scene.Camera, true
}

// Inspect вызывает fn с текущей сборкой; цикл кадров на это время стоит.
// fn не должна сохранять ссылки на граф: он освобождается при следующем Load.
func (v *Viewer) Inspect(fn func(res *compiler.Result) error) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.current == nil {
		return ErrNoScene
	}
	return fn(v.current)
}

// ============================================================
// Lifecycle helpers
// ============================================================

func (v *Viewer) setStatus(s Status) {
	v.mu.Lock()
	v.status = s
	v.mu.Unlock()
}

// teardown останавливает цикл кадров и освобождает арену текущего поколения.
// Вызывается под buildMu.
func (v *Viewer) teardown() {
	if v.cancel != nil {
		v.cancel()
		<-v.done
		v.cancel, v.done = nil, nil
	}

	v.mu.Lock()
	cur := v.current
	v.current = nil
	v.mu.Unlock()

	if cur != nil {
		cur.Scene.Teardown()
		compiler.Logger().Debug("generation released", "generation", cur.Diagnostics.Generation)
	}
}

func (v *Viewer) startLoop(s *scene.Scene) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	v.cancel, v.done = cancel, done

	go func() {
		defer close(done)
		ticker := time.NewTicker(v.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			if err := v.frame(ctx, s); err != nil {
				compiler.Logger().Warn("frame failed", "generation", s.Generation, "error", err)
			}
		}
	}()
}

// frame рисует один кадр, если сборка s все еще текущая.
func (v *Viewer) frame(ctx context.Context, s *scene.Scene) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if ctx.Err() != nil || v.current == nil || v.current.Scene != s {
		return nil
	}
	return v.surface.Render(s)
}

func (v *Viewer) aspect() float32 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.aspectLocked()
}

func (v *Viewer) aspectLocked() float32 {
	return float32(v.width) / float32(v.height)
}
