package plot

import (
	"math"

	"stockmotion/internal/table"
)

// axisState is the visible axis window of a scene. Fixed variants keep
// one state for the whole animation; growing variants extend it as the
// newest data point approaches a bound.
type axisState struct {
	xMin, xMax float64
	numXTicks  int
	yMin, yMax float64
	numYTicks  int
}

// xTick is the value between adjacent ticks on the x-axis.
func (st axisState) xTick() float64 {
	return (st.xMax - st.xMin) / float64(st.numXTicks)
}

func (st axisState) yTick() float64 {
	return (st.yMax - st.yMin) / float64(st.numYTicks)
}

// fixedState spans the whole table with the full tick count.
func fixedState(tbl *table.Table, numTicks int) axisState {
	return axisState{
		xMax:      math.Max(float64(tbl.Len()-1), 1),
		numXTicks: numTicks,
		yMax:      math.Max(tbl.Max(), 1),
		numYTicks: numTicks,
	}
}

// growState is the starting window of a growing variant: three ticks
// per axis covering the first rows, with a lookahead window of
// rows/maxTicks rows used for every later extension.
func growState(tbl *table.Table, maxTicks int) (axisState, int) {
	window := tbl.Len() / maxTicks
	if window < 1 {
		window = 1
	}
	startRow := min(3*window, tbl.Len()-1)
	return axisState{
		xMax:      math.Max(float64(startRow), 1),
		numXTicks: 3,
		yMax:      math.Max(tbl.RowMax(startRow), 1),
		numYTicks: 3,
	}, window
}

// advanceY extends the y window when row i reaches its top: the tick
// count grows by one up to maxTicks and the bound jumps to the maximum
// over the lookahead window.
func (st axisState) advanceY(tbl *table.Table, i, window, maxTicks int) axisState {
	if tbl.RowMax(i) >= st.yMax {
		if st.numYTicks < maxTicks {
			st.numYTicks++
		}
		st.yMax = math.Max(tbl.MaxUpTo(min(i+window, tbl.Len())), 1)
	}
	return st
}

// advanceX extends the x window when row i crosses its right edge.
func (st axisState) advanceX(tbl *table.Table, i, window, maxTicks int) axisState {
	if float64(i) >= st.xMax {
		if st.numXTicks < maxTicks {
			st.numXTicks++
		}
		st.xMax = float64(min(i+window, tbl.Len()) - 1)
	}
	return st
}
