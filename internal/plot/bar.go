package plot

import (
	"bytes"
	"context"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"

	"stockmotion/internal/video"
)

const (
	barFillAlpha   = 0.7
	barStrokeWidth = 3
)

// renderBar produces the bar and growing-bar scenes: one bar per
// series, values sweeping row by row through the table. The growing
// variant rescales the y-axis upward as bars outgrow it.
func (s *Scene) renderBar(ctx context.Context, sink video.Sink, grow bool) error {
	n := s.tbl.Len()

	var st axisState
	var window int
	if grow {
		st, window = growState(s.tbl, s.cfg.NumTicks)
	} else {
		st = fixedState(s.tbl, s.cfg.NumTicks)
	}

	// Background phase: bars at the first row ease in.
	bg := s.frames(s.cfg.BackgroundRunTime)
	for f := 0; f < bg; f++ {
		if err := checkCtx(ctx); err != nil {
			return err
		}
		opacity := float64(f+1) / float64(bg)
		frame, err := s.barFrame(st, 0, opacity, true)
		if err != nil {
			return err
		}
		if err := sink.WriteFrame(frame); err != nil {
			return err
		}
	}

	// Animation phase: bars track each row in turn.
	anim := s.frames(s.cfg.AnimationRunTime)
	row := 0
	for f := 0; f < anim; f++ {
		if err := checkCtx(ctx); err != nil {
			return err
		}
		for target := s.rowAt(f, anim); row < target; {
			row++
			if grow {
				st = st.advanceY(s.tbl, row, window, s.cfg.NumTicks)
			}
		}
		frame, err := s.barFrame(st, row, 1, true)
		if err != nil {
			return err
		}
		if err := sink.WriteFrame(frame); err != nil {
			return err
		}
	}

	// Wait phase: hold the final bars, value labels faded out.
	wait := s.frames(s.cfg.WaitRunTime)
	for f := 0; f < wait; f++ {
		if err := checkCtx(ctx); err != nil {
			return err
		}
		frame, err := s.barFrame(st, n-1, 1, false)
		if err != nil {
			return err
		}
		if err := sink.WriteFrame(frame); err != nil {
			return err
		}
	}

	return nil
}

// barFrame rasterizes one frame with bars at the given row. labels
// toggles the per-bar value readout.
func (s *Scene) barFrame(st axisState, row int, opacity float64, labels bool) ([]byte, error) {
	axisColor := colorAxis.WithAlpha(alphaByte(opacity, 1))

	bars := make([]chart.Value, len(s.tbl.Names))
	for j, name := range s.tbl.Names {
		v := s.tbl.Y[row][j]
		label := name
		if labels {
			label = fmt.Sprintf("%s  %.2f", name, v)
		}
		color := s.colors[j]
		bars[j] = chart.Value{
			Value: v,
			Label: label,
			Style: chart.Style{
				FillColor:   color.WithAlpha(alphaByte(opacity, barFillAlpha)),
				StrokeColor: color.WithAlpha(alphaByte(opacity, 1)),
				StrokeWidth: barStrokeWidth,
			},
		}
	}

	graph := chart.BarChart{
		Title:      s.cfg.Title,
		TitleStyle: chart.Style{FontSize: 18, FontColor: axisColor},
		Width:      s.cfg.Width,
		Height:     s.cfg.Height,
		BarWidth:   s.barWidth(),
		BarSpacing: 40,
		Background: chart.Style{FillColor: colorBackground},
		Canvas:     chart.Style{FillColor: colorBackground},
		XAxis:      chart.Style{StrokeColor: axisColor, FontColor: axisColor},
		YAxis: chart.YAxis{
			Name:      s.cfg.YLabel,
			NameStyle: chart.Style{FontColor: axisColor},
			Style:     chart.Style{StrokeColor: axisColor, FontColor: axisColor},
			Range:     &chart.ContinuousRange{Min: st.yMin, Max: st.yMax},
			Ticks:     s.yTicks(st),
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render bar frame: %w", err)
	}
	return buf.Bytes(), nil
}

// barWidth fits the bars into the frame with room for axes and
// spacing.
func (s *Scene) barWidth() int {
	w := (s.cfg.Width - 200) / (2 * len(s.tbl.Names))
	if w < 20 {
		w = 20
	}
	if w > 150 {
		w = 150
	}
	return w
}
