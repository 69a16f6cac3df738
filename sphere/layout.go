// Package sphere lays technology labels out on a sphere and animates its
// rotation. It knows nothing about terminals or browsers; renderers consume
// the projected frames.
package sphere

import "math"

const DefaultRadius = 2.5

// DefaultLabels are the technologies shown on the landing page.
var DefaultLabels = []string{
	".NET Framework",
	"SQL Server",
	"Spring Boot",
	"React",
	"Next.js",
	"TypeScript",
	"Node.js",
	"PostgreSQL",
	"Docker",
	"AWS",
	"Git",
	"Tailwind CSS",
}

// Point is a label position in model space.
type Point struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
}

// Layout spreads labels over a sphere of radius with a fibonacci spiral.
func Layout(labels []string, radius float64) []Point {
	n := float64(len(labels))
	points := make([]Point, len(labels))
	for i, label := range labels {
		phi := math.Acos(-1 + 2*float64(i)/n)
		theta := math.Sqrt(n*math.Pi) * phi
		points[i] = Point{
			Label: label,
			X:     radius * math.Cos(theta) * math.Sin(phi),
			Y:     radius * math.Sin(theta) * math.Sin(phi),
			Z:     radius * math.Cos(phi),
		}
	}
	return points
}
