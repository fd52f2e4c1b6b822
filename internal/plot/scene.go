package plot

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"stockmotion/internal/table"
	"stockmotion/internal/video"
)

var (
	colorBackground = drawing.Color{R: 0x0e, G: 0x0e, B: 0x0e, A: 255}
	colorAxis       = drawing.Color{R: 0xee, G: 0xee, B: 0xee, A: 255}

	// Trend colors for single-series fixed line plots: green when the
	// series ends above its first value, red otherwise.
	colorUp   = drawing.Color{R: 0x83, G: 0xc1, B: 0x67, A: 255}
	colorDown = drawing.Color{R: 0xfc, G: 0x62, B: 0x55, A: 255}
)

// Scene renders one animation from a table according to its config.
type Scene struct {
	cfg    Config
	tbl    *table.Table
	colors []drawing.Color
}

// NewScene validates the config, resolves colors and downsamples the
// table to the configured sample count.
func NewScene(cfg Config, tbl *table.Table) (*Scene, error) {
	if tbl.Len() == 0 {
		return nil, fmt.Errorf("table has no rows to animate")
	}
	if err := cfg.Validate(len(tbl.Names)); err != nil {
		return nil, err
	}

	colors := make([]drawing.Color, len(cfg.Colors))
	for i, hex := range cfg.Colors {
		c, err := parseColor(hex)
		if err != nil {
			return nil, fmt.Errorf("color %d: %w", i, err)
		}
		colors[i] = c
	}

	return &Scene{cfg: cfg, tbl: tbl.Sample(cfg.NumSamples), colors: colors}, nil
}

// Table returns the (possibly downsampled) table the scene animates.
func (s *Scene) Table() *table.Table { return s.tbl }

// FrameCount returns the total number of frames Render will produce.
func (s *Scene) FrameCount() int {
	return s.cfg.FPS * (s.cfg.BackgroundRunTime + s.cfg.AnimationRunTime + s.cfg.WaitRunTime)
}

// Render produces the scene frame by frame into the sink. It stops
// early when ctx is canceled.
func (s *Scene) Render(ctx context.Context, sink video.Sink) error {
	switch s.cfg.Variant {
	case Line, GrowingLine:
		return s.renderLine(ctx, sink, s.cfg.Variant.Growing())
	case Bar, GrowingBar:
		return s.renderBar(ctx, sink, s.cfg.Variant.Growing())
	}
	return fmt.Errorf("unknown plot variant %q", s.cfg.Variant)
}

func (s *Scene) frames(seconds int) int { return seconds * s.cfg.FPS }

// xTicks places numXTicks+1 ticks over the window, labelled with the
// year of the nearest sampled row.
func (s *Scene) xTicks(st axisState) []chart.Tick {
	ticks := make([]chart.Tick, 0, st.numXTicks+1)
	for k := 0; k <= st.numXTicks; k++ {
		pos := st.xMin + float64(k)*st.xTick()
		idx := int(math.Round(pos))
		if idx < 0 {
			idx = 0
		}
		if idx > s.tbl.Len()-1 {
			idx = s.tbl.Len() - 1
		}
		ticks = append(ticks, chart.Tick{Value: pos, Label: s.tbl.XLabel(idx)})
	}
	return ticks
}

// yTicks places numYTicks+1 integer price labels over the window.
func (s *Scene) yTicks(st axisState) []chart.Tick {
	ticks := make([]chart.Tick, 0, st.numYTicks+1)
	for k := 0; k <= st.numYTicks; k++ {
		pos := st.yMin + float64(k)*st.yTick()
		ticks = append(ticks, chart.Tick{Value: pos, Label: strconv.Itoa(int(pos))})
	}
	return ticks
}

// seriesColor picks the palette color, except for a single-series
// fixed line which is colored by trend.
func (s *Scene) seriesColor(j int, grow bool) drawing.Color {
	if !grow && len(s.tbl.Names) == 1 && (s.cfg.Variant == Line || s.cfg.Variant == GrowingLine) {
		col := s.tbl.Series(0)
		if col[len(col)-1] > col[0] {
			return colorUp
		}
		return colorDown
	}
	return s.colors[j]
}

// rowAt maps animation frame f of total to a table row, sweeping
// 0..n-1 inclusive.
func (s *Scene) rowAt(f, total int) int {
	n := s.tbl.Len()
	if total <= 1 {
		return n - 1
	}
	return int(math.Round(float64(f) / float64(total-1) * float64(n-1)))
}

func parseColor(s string) (drawing.Color, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) != 6 {
		return drawing.Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return drawing.Color{}, fmt.Errorf("invalid hex color %q", s)
	}
	return drawing.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// alphaByte scales a base alpha by an opacity in [0, 1].
func alphaByte(opacity, base float64) uint8 {
	a := opacity * base
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	return uint8(a * 255)
}

func checkCtx(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
