package game

import (
	"encoding/json"
	"math"
)

// ShapeKind tags the drawing primitives.
type ShapeKind uint8

const (
	ShapeRect ShapeKind = iota
	ShapeCircle
	ShapeLine
	ShapeArc
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeRect:
		return "rect"
	case ShapeCircle:
		return "circle"
	case ShapeLine:
		return "line"
	case ShapeArc:
		return "arc"
	default:
		return "unknown"
	}
}

// Shape is a drawing primitive in tile units. Only the fields of its kind
// are meaningful:
//
//	rect:   X, Y, Width, Height
//	circle: X, Y, Radius
//	line:   X, Y, X2, Y2, Width
//	arc:    X, Y, Radius, Rotation, Opening, Width (angles in degrees)
type Shape struct {
	Kind     ShapeKind
	X, Y     float64
	X2, Y2   float64
	Width    float64
	Height   float64
	Radius   float64
	Rotation float64
	Opening  float64
	Color    string // "#RRGGBB"
}

// Rect, Circle, Line and Arc build shapes.
func Rect(x, y, w, h float64, color string) Shape {
	return Shape{Kind: ShapeRect, X: x, Y: y, Width: w, Height: h, Color: color}
}

func Circle(x, y, r float64, color string) Shape {
	return Shape{Kind: ShapeCircle, X: x, Y: y, Radius: r, Color: color}
}

func Line(x1, y1, x2, y2, width float64, color string) Shape {
	return Shape{Kind: ShapeLine, X: x1, Y: y1, X2: x2, Y2: y2, Width: width, Color: color}
}

func Arc(x, y, r, rotation, opening, width float64, color string) Shape {
	return Shape{Kind: ShapeArc, X: x, Y: y, Radius: r, Rotation: rotation, Opening: opening, Width: width, Color: color}
}

// shapeRoundDigits is the precision of serialized coordinates.
const shapeRoundDigits = 2

func roundShape(v float64) float64 {
	p := math.Pow10(shapeRoundDigits)
	return math.Round(v*p) / p
}

// MarshalJSON writes the fields of the shape's kind, rounded to two digits.
func (s Shape) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"type":  s.Kind.String(),
		"x":     roundShape(s.X),
		"y":     roundShape(s.Y),
		"color": s.Color,
	}
	switch s.Kind {
	case ShapeRect:
		out["width"] = roundShape(s.Width)
		out["height"] = roundShape(s.Height)
	case ShapeCircle:
		out["radius"] = roundShape(s.Radius)
	case ShapeLine:
		out["x2"] = roundShape(s.X2)
		out["y2"] = roundShape(s.Y2)
		out["width"] = roundShape(s.Width)
	case ShapeArc:
		out["radius"] = roundShape(s.Radius)
		out["rotation"] = roundShape(s.Rotation)
		out["opening"] = roundShape(s.Opening)
		out["width"] = roundShape(s.Width)
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a shape written by MarshalJSON.
func (s *Shape) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type     string  `json:"type"`
		X        float64 `json:"x"`
		Y        float64 `json:"y"`
		X2       float64 `json:"x2"`
		Y2       float64 `json:"y2"`
		Width    float64 `json:"width"`
		Height   float64 `json:"height"`
		Radius   float64 `json:"radius"`
		Rotation float64 `json:"rotation"`
		Opening  float64 `json:"opening"`
		Color    string  `json:"color"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Shape{
		X: raw.X, Y: raw.Y, X2: raw.X2, Y2: raw.Y2,
		Width: raw.Width, Height: raw.Height, Radius: raw.Radius,
		Rotation: raw.Rotation, Opening: raw.Opening, Color: raw.Color,
	}
	for k := ShapeRect; k <= ShapeArc; k++ {
		if k.String() == raw.Type {
			s.Kind = k
		}
	}
	return nil
}
