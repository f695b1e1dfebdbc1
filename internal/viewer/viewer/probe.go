package viewer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/gg"
)

// ============================================================
// Capability probe
// ============================================================

// ErrNoHardwareRendering: среда не поддерживает аппаратный 3D рендеринг.
var ErrNoHardwareRendering = errors.New("hardware-accelerated 3D rendering is not available")

// Remediation: чек-лист, который показывается пользователю при отказе пробы.
var Remediation = []string{
	"Enable hardware acceleration in the browser or host settings",
	"Update the graphics driver to a version with WebGL/Vulkan/Metal support",
	"Check that the GPU is not blocklisted (chrome://gpu, about:support)",
	"Close other applications that hold the GPU and reload the page",
	"Try a different browser or device",
}

// CapabilityError: отказ пробы с причиной и рекомендациями.
type CapabilityError struct {
	Reason      string
	Remediation []string
}

func (e *CapabilityError) Error() string {
	if e.Reason == "" {
		return ErrNoHardwareRendering.Error()
	}
	return fmt.Sprintf("%s: %s", ErrNoHardwareRendering, e.Reason)
}

func (e *CapabilityError) Unwrap() error {
	return ErrNoHardwareRendering
}

func newCapabilityError(reason string) *CapabilityError {
	return &CapabilityError{Reason: reason, Remediation: append([]string(nil), Remediation...)}
}

// Probe проверяет среду до начала сборки.
type Probe interface {
	Probe(ctx context.Context) error
}

type ProbeFunc func(ctx context.Context) error

func (f ProbeFunc) Probe(ctx context.Context) error {
	return f(ctx)
}

// StaticProbe доверяет возможностям, о которых сообщил клиент.
type StaticProbe struct {
	Accelerated bool
	Renderer    string // например, "WebGL2" или "ANGLE (Intel)"
}

func (p StaticProbe) Probe(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !p.Accelerated {
		reason := "client reported no hardware acceleration"
		if p.Renderer != "" {
			reason += " (renderer " + p.Renderer + ")"
		}
		return newCapabilityError(reason)
	}
	if r := strings.ToLower(p.Renderer); strings.Contains(r, "swiftshader") || strings.Contains(r, "llvmpipe") {
		return newCapabilityError("software renderer " + p.Renderer)
	}
	return nil
}

// softwareAccelerators: ускорители gg, которые работают на CPU.
var softwareAccelerators = map[string]bool{
	"sdf-cpu": true,
}

// AcceleratorProbe требует зарегистрированный GPU ускоритель gogpu/gg.
type AcceleratorProbe struct{}

func (AcceleratorProbe) Probe(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	accel := gg.Accelerator()
	if accel == nil {
		return newCapabilityError("no GPU accelerator registered")
	}
	if softwareAccelerators[accel.Name()] {
		return newCapabilityError("accelerator " + accel.Name() + " runs on the CPU")
	}
	return nil
}
