package sphere

import (
	"context"
	"math"
	"sync"
	"time"
)

const (
	Easing       = 0.05  // fraction of the remaining distance covered per frame
	PointerRange = 0.5   // radians of tilt at the edge of the screen
	AutoRotate   = 0.002 // radians added to Y every frame
)

// Frame is one animation step.
type Frame struct {
	Index    uint64      `json:"index"`
	Rotation Rotation    `json:"rotation"`
	Labels   []Projected `json:"labels"`
}

// Animator eases the sphere toward the pointer while spinning it slowly.
type Animator struct {
	mu       sync.Mutex
	points   []Point
	rotation Rotation
	pointerX float64
	pointerY float64
	frames   uint64
}

func NewAnimator(points []Point) *Animator {
	return &Animator{points: points}
}

// SetPointer records the pointer in normalized coordinates, x and y in [-1, 1]
// with y pointing up.
func (a *Animator) SetPointer(x, y float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pointerX = clamp(x)
	a.pointerY = clamp(y)
}

func (a *Animator) Rotation() Rotation {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rotation
}

// Step advances one frame and returns it.
func (a *Animator) Step() Frame {
	a.mu.Lock()
	targetX := a.pointerY * PointerRange
	targetY := a.pointerX * PointerRange
	a.rotation.X += (targetX - a.rotation.X) * Easing
	a.rotation.Y += (targetY - a.rotation.Y) * Easing
	a.rotation.Y += AutoRotate
	a.frames++
	frame := Frame{Index: a.frames, Rotation: a.rotation}
	points := a.points
	a.mu.Unlock()

	frame.Labels = Project(points, frame.Rotation)
	return frame
}

// Run steps fps times per second and hands each frame to onFrame until ctx is
// done. The ticker is released before Run returns.
func (a *Animator) Run(ctx context.Context, fps int, onFrame func(Frame)) {
	if fps <= 0 {
		fps = 60
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			onFrame(a.Step())
		}
	}
}

func clamp(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
