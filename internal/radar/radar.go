// Package radar projects feature values onto a 0-100 scale for the radar chart
package radar

import (
	"fmt"
	"math"
	"strings"

	"github.com/ppiankov/forensia/internal/model"
)

// FullMark is the nominal outer ring of the chart
const FullMark = 100.0

// Point is one spoke of the radar chart
type Point struct {
	Label string  `json:"subject"`
	Value float64 `json:"value"`
}

// Project maps features to five spokes in fixed order.
// Values are not clamped: out-of-range inputs land outside 0..100.
func Project(f model.Features) []Point {
	return []Point{
		{Label: "Pause Ent.", Value: f.PauseEntropy / 5 * 100},
		{Label: "Jitter", Value: f.PitchJitter / 5 * 100},
		{Label: "Shimmer", Value: f.Shimmer / 5 * 100},
		{Label: "Silence Var", Value: f.SilenceNoiseVariance * 100},
		{Label: "Prosody Drift", Value: f.ProsodyDrift / 10 * 100},
	}
}

// Vertex is a chart coordinate relative to the chart centre
type Vertex struct {
	X, Y float64
}

// Vertices places each point on its spoke. The first spoke points up and
// the rest follow clockwise; radius corresponds to FullMark.
func Vertices(points []Point, radius float64) []Vertex {
	n := len(points)
	out := make([]Vertex, n)
	for i, p := range points {
		angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
		r := p.Value / FullMark * radius
		out[i] = Vertex{X: r * math.Cos(angle), Y: r * math.Sin(angle)}
	}
	return out
}

// SVGPoints renders vertices as an SVG polygon "points" attribute around (cx, cy)
func SVGPoints(vs []Vertex, cx, cy float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprintf("%.2f,%.2f", cx+v.X, cy+v.Y)
	}
	return strings.Join(parts, " ")
}
