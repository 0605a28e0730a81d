package harness

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/roach88/plotstore/internal/geom"
	"github.com/roach88/plotstore/internal/scene"
)

var lineTypes = map[string]geom.LineType{
	"blank":    geom.LineBlank,
	"solid":    geom.LineSolid,
	"dashed":   geom.LineDashed,
	"dotted":   geom.LineDotted,
	"dotdash":  geom.LineDotDash,
	"longdash": geom.LineLongDash,
	"twodash":  geom.LineTwoDash,
}

var lineCaps = map[string]geom.LineCap{
	"round":  geom.CapRound,
	"butt":   geom.CapButt,
	"square": geom.CapSquare,
}

var lineJoins = map[string]geom.LineJoin{
	"round": geom.JoinRound,
	"miter": geom.JoinMiter,
	"bevel": geom.JoinBevel,
}

// parseColor accepts "#RRGGBB", "#RRGGBBAA", "none"/"transparent" or an
// SVG color keyword.
func parseColor(s string) (geom.Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "none", "transparent":
		return geom.TransparentWhite, nil
	}

	if strings.HasPrefix(s, "#") {
		hex := s[1:]
		if len(hex) != 6 && len(hex) != 8 {
			return 0, fmt.Errorf("invalid color %q: want #RRGGBB or #RRGGBBAA", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid color %q: %w", s, err)
		}
		if len(hex) == 6 {
			return geom.RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
		}
		return geom.RGBA(uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)), nil
	}

	if c, ok := colornames.Map[s]; ok {
		return geom.FromColor(c), nil
	}
	return 0, fmt.Errorf("unknown color %q", s)
}

// parseLineType accepts a name from lineTypes or a hex dash code such as
// "44" or "0x3431".
func parseLineType(s string) (geom.LineType, error) {
	if lt, ok := lineTypes[strings.ToLower(s)]; ok {
		return lt, nil
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid lty %q", s)
	}
	return geom.LineType(v), nil
}

// attrs converts a style into draw call attributes on top of the defaults.
func (s *Style) attrs() (scene.Attrs, error) {
	a := scene.DefaultAttrs()
	if s == nil {
		return a, nil
	}

	if s.Stroke != "" {
		c, err := parseColor(s.Stroke)
		if err != nil {
			return a, fmt.Errorf("style.stroke: %w", err)
		}
		a.Stroke = c
	}
	if s.Fill != "" {
		c, err := parseColor(s.Fill)
		if err != nil {
			return a, fmt.Errorf("style.fill: %w", err)
		}
		a.Fill = c
	}
	if s.Lwd > 0 {
		a.Line.Width = s.Lwd
	}
	if s.Lty != "" {
		lt, err := parseLineType(s.Lty)
		if err != nil {
			return a, fmt.Errorf("style.lty: %w", err)
		}
		a.Line.Type = lt
	}
	if s.Lend != "" {
		c, ok := lineCaps[strings.ToLower(s.Lend)]
		if !ok {
			return a, fmt.Errorf("style.lend: unknown cap %q", s.Lend)
		}
		a.Line.Cap = c
	}
	if s.Ljoin != "" {
		j, ok := lineJoins[strings.ToLower(s.Ljoin)]
		if !ok {
			return a, fmt.Errorf("style.ljoin: unknown join %q", s.Ljoin)
		}
		a.Line.Join = j
	}
	if s.Lmitre > 0 {
		a.Line.Miter = s.Lmitre
	}
	return a, nil
}
