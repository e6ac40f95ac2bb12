package server

import (
	"github.com/ppiankov/forensia/internal/model"
	"github.com/ppiankov/forensia/internal/radar"
)

const (
	chartSize   = 260.0
	chartCentre = chartSize / 2
	chartRadius = 95.0
)

// stateResponse is the JSON view of a session
type stateResponse struct {
	Features       model.Features       `json:"features"`
	Classification model.Classification `json:"classification"`
	Result         model.Explanation    `json:"result"`
	Phase          model.Phase          `json:"phase"`
	Display        model.DisplayKind    `json:"display"`
	Radar          []radar.Point        `json:"radar"`
}

func newStateResponse(s *Session) stateResponse {
	features := s.Features.Snapshot()
	result := s.Controller.Result()
	return stateResponse{
		Features:       features,
		Classification: s.Selector.Current(),
		Result:         result,
		Phase:          result.Phase(),
		Display:        result.Display(),
		Radar:          radar.Project(features),
	}
}

type sliderView struct {
	model.Range
	Value float64
}

type classificationView struct {
	Value    model.Classification
	Selected bool
}

type languageView struct {
	Value    model.Language
	Selected bool
}

type labelView struct {
	Text string
	X, Y float64
}

type chartView struct {
	Size    float64
	Centre  float64
	Rings   []string
	Axes    []radar.Vertex
	Labels  []labelView
	Profile string
}

// pageView is the data handed to the page template
type pageView struct {
	Languages       []languageView
	Sliders         []sliderView
	Classifications []classificationView
	Result          model.Explanation
	Display         string
	Placeholder     string
	Chart           chartView
}

func newPageView(s *Session) pageView {
	features := s.Features.Snapshot()
	current := s.Selector.Current()
	result := s.Controller.Result()

	v := pageView{
		Result:      result,
		Display:     string(result.Display()),
		Placeholder: model.Placeholder,
		Chart:       newChartView(features),
	}

	for _, l := range model.Languages() {
		v.Languages = append(v.Languages, languageView{Value: l, Selected: l == features.Language})
	}
	for _, r := range model.FeatureRanges() {
		v.Sliders = append(v.Sliders, sliderView{Range: r, Value: features.Value(r.Field)})
	}
	for _, c := range model.Classifications() {
		v.Classifications = append(v.Classifications, classificationView{Value: c, Selected: c == current})
	}
	return v
}

func newChartView(f model.Features) chartView {
	points := radar.Project(f)

	cv := chartView{
		Size:    chartSize,
		Centre:  chartCentre,
		Profile: radar.SVGPoints(radar.Vertices(points, chartRadius), chartCentre, chartCentre),
	}

	for _, level := range []float64{25, 50, 75, 100} {
		ring := make([]radar.Point, len(points))
		for i := range ring {
			ring[i] = radar.Point{Value: level}
		}
		cv.Rings = append(cv.Rings, radar.SVGPoints(radar.Vertices(ring, chartRadius), chartCentre, chartCentre))
	}

	full := make([]radar.Point, len(points))
	for i, p := range points {
		full[i] = radar.Point{Label: p.Label, Value: radar.FullMark}
	}
	for _, vx := range radar.Vertices(full, chartRadius) {
		cv.Axes = append(cv.Axes, radar.Vertex{X: chartCentre + vx.X, Y: chartCentre + vx.Y})
	}
	for i, vx := range radar.Vertices(full, chartRadius*1.18) {
		cv.Labels = append(cv.Labels, labelView{Text: full[i].Label, X: chartCentre + vx.X, Y: chartCentre + vx.Y})
	}
	return cv
}
