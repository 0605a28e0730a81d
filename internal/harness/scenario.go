package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a recorded plotting session: a list of page programs plus
// assertions about how the resulting pages render.
type Scenario struct {
	// Name uniquely identifies this scenario. It names golden files.
	Name string `yaml:"name"`

	// Description explains what this scenario exercises.
	Description string `yaml:"description"`

	// Renderer is the default renderer id for assertions. Defaults to "svg".
	Renderer string `yaml:"renderer,omitempty"`

	// Scale is the render scale for assertions. Defaults to 1.
	Scale float64 `yaml:"scale,omitempty"`

	// Pages are played into the store in order, one page each.
	Pages []PageProgram `yaml:"pages"`

	// Assertions validate the rendered pages.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// PageProgram is the sequence of drawing operations that produces a page.
// Coordinates are in the page's original Width x Height space; Redraw
// scales them to a new size.
type PageProgram struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Fill   string  `yaml:"fill,omitempty"`
	Ops    []Op    `yaml:"ops"`
}

// Op is one drawing operation. Which fields apply depends on Op:
//
//   - clip, raster: X, Y, W, H
//   - rect, line: Points (two corners / endpoints)
//   - circle: Points (center), R
//   - polyline, polygon: Points
//   - path: Points, NPer, Winding
//   - text: Points (anchor), Text, Rot, Hadj, Font
//   - raster: also Pixels, SrcW, SrcH, Rot, Interpolate
type Op struct {
	Op          string      `yaml:"op"`
	X           float64     `yaml:"x,omitempty"`
	Y           float64     `yaml:"y,omitempty"`
	W           float64     `yaml:"w,omitempty"`
	H           float64     `yaml:"h,omitempty"`
	R           float64     `yaml:"r,omitempty"`
	Points      [][]float64 `yaml:"points,omitempty"`
	NPer        []int       `yaml:"nper,omitempty"`
	Winding     bool        `yaml:"winding,omitempty"`
	Text        string      `yaml:"text,omitempty"`
	Rot         float64     `yaml:"rot,omitempty"`
	Hadj        float64     `yaml:"hadj,omitempty"`
	Font        *FontSpec   `yaml:"font,omitempty"`
	Pixels      []string    `yaml:"pixels,omitempty"`
	SrcW        int         `yaml:"src_w,omitempty"`
	SrcH        int         `yaml:"src_h,omitempty"`
	Interpolate bool        `yaml:"interpolate,omitempty"`
	Style       *Style      `yaml:"style,omitempty"`
}

// FontSpec describes a text operation's font.
type FontSpec struct {
	Family   string  `yaml:"family,omitempty"`
	Size     float64 `yaml:"size,omitempty"`
	Weight   int     `yaml:"weight,omitempty"`
	Italic   bool    `yaml:"italic,omitempty"`
	Features string  `yaml:"features,omitempty"`
	Width    float64 `yaml:"width,omitempty"`
}

// Style overrides the default graphics attributes of an op.
// Colors are "#RRGGBB", "#RRGGBBAA", "none" or an SVG color name.
type Style struct {
	Stroke string  `yaml:"stroke,omitempty"`
	Fill   string  `yaml:"fill,omitempty"`
	Lwd    float64 `yaml:"lwd,omitempty"`
	Lty    string  `yaml:"lty,omitempty"`
	Lend   string  `yaml:"lend,omitempty"`
	Ljoin  string  `yaml:"ljoin,omitempty"`
	Lmitre float64 `yaml:"lmitre,omitempty"`
}

// Assertion validates rendered output or page structure.
type Assertion struct {
	// Type is one of output_contains, output_count, page_count, clip_groups.
	Type string `yaml:"type"`

	// Renderer overrides the scenario renderer (output_* only).
	Renderer string `yaml:"renderer,omitempty"`

	// Page is the page index. Negative means the last page.
	Page int `yaml:"page,omitempty"`

	// Text is the substring to look for (output_* only).
	Text string `yaml:"text,omitempty"`

	// Count is the expected number (output_count, page_count, clip_groups).
	Count int `yaml:"count,omitempty"`
}

// Op kinds.
const (
	OpClip     = "clip"
	OpRect     = "rect"
	OpCircle   = "circle"
	OpLine     = "line"
	OpPolyline = "polyline"
	OpPolygon  = "polygon"
	OpPath     = "path"
	OpText     = "text"
	OpRaster   = "raster"
)

// Assertion type constants.
const (
	AssertOutputContains = "output_contains"
	AssertOutputCount    = "output_count"
	AssertPageCount      = "page_count"
	AssertClipGroups     = "clip_groups"
)

// LoadScenario reads and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML. Unknown fields are rejected so
// typos surface as errors rather than silently ignored ops.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	if scenario.Renderer == "" {
		scenario.Renderer = "svg"
	}
	if scenario.Scale <= 0 {
		scenario.Scale = 1
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if len(s.Pages) == 0 {
		return fmt.Errorf("pages list is required and must be non-empty")
	}

	for i, p := range s.Pages {
		if p.Width <= 0 || p.Height <= 0 {
			return fmt.Errorf("pages[%d]: width and height must be positive", i)
		}
		if p.Fill != "" {
			if _, err := parseColor(p.Fill); err != nil {
				return fmt.Errorf("pages[%d].fill: %w", i, err)
			}
		}
		for j, op := range p.Ops {
			if err := validateOp(op); err != nil {
				return fmt.Errorf("pages[%d].ops[%d]: %w", i, j, err)
			}
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateOp(op Op) error {
	for i, pt := range op.Points {
		if len(pt) != 2 {
			return fmt.Errorf("points[%d]: want [x, y], got %d values", i, len(pt))
		}
	}

	need := func(n int) error {
		if len(op.Points) < n {
			return fmt.Errorf("%s needs at least %d points", op.Op, n)
		}
		return nil
	}

	switch op.Op {
	case OpClip:
	case OpRect, OpLine:
		if err := need(2); err != nil {
			return err
		}
	case OpCircle:
		if err := need(1); err != nil {
			return err
		}
		if op.R < 0 {
			return fmt.Errorf("circle radius must be non-negative")
		}
	case OpPolyline, OpPolygon:
		if err := need(2); err != nil {
			return err
		}
	case OpPath:
		total := 0
		for _, n := range op.NPer {
			total += n
		}
		if len(op.NPer) == 0 || total != len(op.Points) {
			return fmt.Errorf("path nper must sum to the number of points")
		}
	case OpText:
		if err := need(1); err != nil {
			return err
		}
	case OpRaster:
		if op.SrcW <= 0 || op.SrcH <= 0 {
			return fmt.Errorf("raster src_w and src_h must be positive")
		}
		if len(op.Pixels) != op.SrcW*op.SrcH {
			return fmt.Errorf("raster has %d pixels, want %d", len(op.Pixels), op.SrcW*op.SrcH)
		}
		for i, px := range op.Pixels {
			if _, err := parseColor(px); err != nil {
				return fmt.Errorf("pixels[%d]: %w", i, err)
			}
		}
	case "":
		return fmt.Errorf("op is required")
	default:
		return fmt.Errorf("unknown op %q", op.Op)
	}

	if op.Style != nil {
		if _, err := op.Style.attrs(); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertOutputContains:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for output_contains", index)
		}
	case AssertOutputCount:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for output_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for output_count", index)
		}
	case AssertPageCount, AssertClipGroups:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
