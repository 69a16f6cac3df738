package sphere

import "math"

const (
	CameraDistance = 5.0
	FieldOfView    = 75.0 // vertical, degrees
	nearPlane      = 0.1
)

// Rotation is the sphere orientation in radians.
type Rotation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Projected is a label on screen. X and Y are normalized device coordinates
// in [-1, 1] when on screen; Scale grows as the label nears the camera.
type Projected struct {
	Label   string  `json:"label"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Depth   float64 `json:"depth"`
	Scale   float64 `json:"scale"`
	Visible bool    `json:"visible"`
}

// Project rotates points by rot (Y first, then X) and applies a perspective
// projection from a camera on the +Z axis looking at the origin.
func Project(points []Point, rot Rotation) []Projected {
	focal := 1 / math.Tan(FieldOfView*math.Pi/360)
	sinX, cosX := math.Sincos(rot.X)
	sinY, cosY := math.Sincos(rot.Y)

	out := make([]Projected, len(points))
	for i, p := range points {
		x := p.X*cosY + p.Z*sinY
		z := -p.X*sinY + p.Z*cosY
		y := p.Y*cosX - z*sinX
		z = p.Y*sinX + z*cosX

		depth := CameraDistance - z
		pr := Projected{Label: p.Label, Depth: depth}
		if depth > nearPlane {
			pr.Scale = focal / depth
			pr.X = x * pr.Scale
			pr.Y = y * pr.Scale
			pr.Visible = math.Abs(pr.X) <= 1 && math.Abs(pr.Y) <= 1
		}
		out[i] = pr
	}
	return out
}
