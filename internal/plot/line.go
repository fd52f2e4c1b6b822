package plot

import (
	"bytes"
	"context"
	"fmt"

	chart "github.com/wcharczuk/go-chart/v2"

	"stockmotion/internal/video"
)

// renderLine produces the line and growing-line scenes. The animation
// reveals the polyline prefix row by row; the growing variant also
// extends the axes as the newest point approaches a bound.
func (s *Scene) renderLine(ctx context.Context, sink video.Sink, grow bool) error {
	n := s.tbl.Len()

	var st axisState
	var window int
	if grow {
		st, window = growState(s.tbl, s.cfg.NumTicks)
	} else {
		st = fixedState(s.tbl, s.cfg.NumTicks)
	}

	// Background phase: axes, title and the first data point ease in.
	bg := s.frames(s.cfg.BackgroundRunTime)
	for f := 0; f < bg; f++ {
		if err := checkCtx(ctx); err != nil {
			return err
		}
		opacity := float64(f+1) / float64(bg)
		frame, err := s.lineFrame(st, 1, opacity, grow, true)
		if err != nil {
			return err
		}
		if err := sink.WriteFrame(frame); err != nil {
			return err
		}
	}

	// Animation phase: sweep the revealed prefix over all rows.
	anim := s.frames(s.cfg.AnimationRunTime)
	row := 0
	for f := 0; f < anim; f++ {
		if err := checkCtx(ctx); err != nil {
			return err
		}
		for target := s.rowAt(f, anim); row < target; {
			row++
			if grow {
				st = st.advanceX(s.tbl, row, window, s.cfg.NumTicks)
				st = st.advanceY(s.tbl, row, window, s.cfg.NumTicks)
			}
		}
		frame, err := s.lineFrame(st, row+1, 1, grow, true)
		if err != nil {
			return err
		}
		if err := sink.WriteFrame(frame); err != nil {
			return err
		}
	}

	// Wait phase: hold the final plot, markers faded out.
	wait := s.frames(s.cfg.WaitRunTime)
	for f := 0; f < wait; f++ {
		if err := checkCtx(ctx); err != nil {
			return err
		}
		frame, err := s.lineFrame(st, n, 1, grow, false)
		if err != nil {
			return err
		}
		if err := sink.WriteFrame(frame); err != nil {
			return err
		}
	}

	return nil
}

// lineFrame rasterizes one frame with the first k points of every
// series revealed. markers toggles the tracking dot and value label
// (fixed variant) or the per-point dots (growing variant).
func (s *Scene) lineFrame(st axisState, k int, opacity float64, grow, markers bool) ([]byte, error) {
	axisColor := colorAxis.WithAlpha(alphaByte(opacity, 1))

	series := make([]chart.Series, 0, 3*len(s.tbl.Names))
	xs := make([]float64, k)
	for i := range xs {
		xs[i] = float64(i)
	}

	for j, name := range s.tbl.Names {
		col := s.tbl.Series(j)[:k]
		color := s.seriesColor(j, grow)

		style := chart.Style{
			StrokeColor: color.WithAlpha(alphaByte(opacity, 1)),
			StrokeWidth: 2.5,
		}
		if grow && markers {
			style.DotWidth = 2
			style.DotColor = color.WithAlpha(alphaByte(opacity, 1))
		}
		series = append(series, chart.ContinuousSeries{
			Name:    name,
			XValues: xs,
			YValues: col,
			Style:   style,
		})

		if !grow && markers {
			last := k - 1
			series = append(series,
				chart.ContinuousSeries{
					XValues: xs[last:],
					YValues: col[last:],
					Style: chart.Style{
						StrokeWidth: 0,
						DotWidth:    5,
						DotColor:    colorAxis.WithAlpha(alphaByte(opacity, 1)),
					},
				},
				chart.AnnotationSeries{
					Annotations: []chart.Value2{{
						XValue: xs[last],
						YValue: col[last],
						Label:  fmt.Sprintf("%.2f", col[last]),
					}},
					Style: chart.Style{
						StrokeColor: axisColor,
						FontColor:   axisColor,
						FillColor:   colorBackground,
					},
				},
			)
		}
	}

	graph := chart.Chart{
		Title:      s.cfg.Title,
		TitleStyle: chart.Style{FontSize: 18, FontColor: axisColor},
		Width:      s.cfg.Width,
		Height:     s.cfg.Height,
		Background: chart.Style{FillColor: colorBackground},
		Canvas:     chart.Style{FillColor: colorBackground},
		XAxis: chart.XAxis{
			Name:      s.cfg.XLabel,
			NameStyle: chart.Style{FontColor: axisColor},
			Style:     chart.Style{StrokeColor: axisColor, FontColor: axisColor},
			Range:     &chart.ContinuousRange{Min: st.xMin, Max: st.xMax},
			Ticks:     s.xTicks(st),
		},
		YAxis: chart.YAxis{
			Name:      s.cfg.YLabel,
			NameStyle: chart.Style{FontColor: axisColor},
			Style:     chart.Style{StrokeColor: axisColor, FontColor: axisColor},
			Range:     &chart.ContinuousRange{Min: st.yMin, Max: st.yMax},
			Ticks:     s.yTicks(st),
		},
		Series: series,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render line frame: %w", err)
	}
	return buf.Bytes(), nil
}
