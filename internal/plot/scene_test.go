package plot

import (
	"context"
	"testing"

	"stockmotion/internal/table"
	"stockmotion/internal/video"
)

// quickConfig keeps render tests fast: one second per phase at 2 fps.
func quickConfig(v Variant) Config {
	c := Default(v)
	c.BackgroundRunTime = 1
	c.AnimationRunTime = 1
	c.WaitRunTime = 1
	c.FPS = 2
	c.Width = 320
	c.Height = 180
	c.NumSamples = 10
	return c
}

func twoSeriesTable(t *testing.T, n int) *table.Table {
	t.Helper()
	tbl := table.New("Date", []string{"AAPL", "NVDA"})
	for i := 0; i < n; i++ {
		err := tbl.Append("2020-01-02", []float64{float64(10 + i), float64(5 + 2*i)})
		if err != nil {
			t.Fatal(err)
		}
	}
	return tbl
}

func TestNewScene_EmptyTable(t *testing.T) {
	tbl := table.New("Date", []string{"AAPL"})

	if _, err := NewScene(quickConfig(Line), tbl); err == nil {
		t.Error("NewScene() with empty table expected error, got nil")
	}
}

func TestNewScene_Downsamples(t *testing.T) {
	scene, err := NewScene(quickConfig(GrowingLine), twoSeriesTable(t, 50))
	if err != nil {
		t.Fatalf("NewScene() returned error: %v", err)
	}
	if got := scene.Table().Len(); got != 10 {
		t.Errorf("scene table has %d rows, want 10 after sampling", got)
	}
}

func TestNewScene_TooManySeries(t *testing.T) {
	cfg := quickConfig(Bar)
	cfg.Colors = []string{"#003f5c"}

	if _, err := NewScene(cfg, twoSeriesTable(t, 5)); err == nil {
		t.Error("NewScene() with more series than colors expected error, got nil")
	}
}

func TestNewScene_BadColor(t *testing.T) {
	cfg := quickConfig(Line)
	cfg.Colors = []string{"#003f5c", "not-a-color"}

	if _, err := NewScene(cfg, twoSeriesTable(t, 5)); err == nil {
		t.Error("NewScene() with an invalid color expected error, got nil")
	}
}

func TestRender_FrameCounts(t *testing.T) {
	for _, variant := range []Variant{Line, GrowingLine, Bar, GrowingBar} {
		t.Run(string(variant), func(t *testing.T) {
			scene, err := NewScene(quickConfig(variant), twoSeriesTable(t, 20))
			if err != nil {
				t.Fatalf("NewScene() returned error: %v", err)
			}

			sink := &video.Discard{}
			if err := scene.Render(context.Background(), sink); err != nil {
				t.Fatalf("Render() returned error: %v", err)
			}

			// 3 phases of 1 second at 2 fps
			if want := scene.FrameCount(); sink.N != want {
				t.Errorf("rendered %d frames, want %d", sink.N, want)
			}
			if sink.N != 6 {
				t.Errorf("rendered %d frames, want 6", sink.N)
			}
		})
	}
}

func TestRender_SingleRow(t *testing.T) {
	scene, err := NewScene(quickConfig(Line), twoSeriesTable(t, 1))
	if err != nil {
		t.Fatalf("NewScene() returned error: %v", err)
	}

	sink := &video.Discard{}
	if err := scene.Render(context.Background(), sink); err != nil {
		t.Fatalf("Render() of a single-row table returned error: %v", err)
	}
	if sink.N != scene.FrameCount() {
		t.Errorf("rendered %d frames, want %d", sink.N, scene.FrameCount())
	}
}

func TestRender_CanceledContext(t *testing.T) {
	scene, err := NewScene(quickConfig(GrowingBar), twoSeriesTable(t, 20))
	if err != nil {
		t.Fatalf("NewScene() returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sink := &video.Discard{}
	if err := scene.Render(ctx, sink); err == nil {
		t.Error("Render() with canceled context expected error, got nil")
	}
	if sink.N != 0 {
		t.Errorf("rendered %d frames after cancellation, want 0", sink.N)
	}
}

func TestRender_ToFrameDir(t *testing.T) {
	scene, err := NewScene(quickConfig(Line), twoSeriesTable(t, 5))
	if err != nil {
		t.Fatalf("NewScene() returned error: %v", err)
	}

	dir := t.TempDir()
	sink, err := video.NewFrameDir(dir)
	if err != nil {
		t.Fatalf("NewFrameDir() returned error: %v", err)
	}
	if err := scene.Render(context.Background(), sink); err != nil {
		t.Fatalf("Render() returned error: %v", err)
	}
	if sink.Frames() != scene.FrameCount() {
		t.Errorf("wrote %d frames, want %d", sink.Frames(), scene.FrameCount())
	}
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		input string
		want  Variant
		ok    bool
	}{
		{"line", Line, true},
		{"growing-line", GrowingLine, true},
		{"growing_line", GrowingLine, true},
		{"bar", Bar, true},
		{"growing_bar", GrowingBar, true},
		{"pie", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseVariant(tt.input)
			if tt.ok && err != nil {
				t.Fatalf("ParseVariant(%q) returned error: %v", tt.input, err)
			}
			if !tt.ok && err == nil {
				t.Fatalf("ParseVariant(%q) expected error, got nil", tt.input)
			}
			if got != tt.want {
				t.Errorf("ParseVariant(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDefault_PerVariant(t *testing.T) {
	fixed := Default(Line)
	if fixed.NumTicks != 5 || fixed.NumSamples != 1000 {
		t.Errorf("Line defaults = (%d ticks, %d samples), want (5, 1000)", fixed.NumTicks, fixed.NumSamples)
	}
	if fixed.XLabel != "Year" {
		t.Errorf("Line XLabel = %q, want Year", fixed.XLabel)
	}

	growing := Default(GrowingBar)
	if growing.NumTicks != 6 || growing.NumSamples != 100 {
		t.Errorf("GrowingBar defaults = (%d ticks, %d samples), want (6, 100)", growing.NumTicks, growing.NumSamples)
	}
	if growing.XLabel != "Stocks" {
		t.Errorf("GrowingBar XLabel = %q, want Stocks", growing.XLabel)
	}
	if growing.BackgroundRunTime != 5 || growing.AnimationRunTime != 50 {
		t.Errorf("GrowingBar run times = (%d, %d), want (5, 50)",
			growing.BackgroundRunTime, growing.AnimationRunTime)
	}
}

func TestConfigValidate(t *testing.T) {
	good := quickConfig(Line)
	if err := good.Validate(2); err != nil {
		t.Errorf("Validate() of a good config returned error: %v", err)
	}

	bad := quickConfig(Line)
	bad.BackgroundRunTime = 0
	bad.FPS = -1
	err := bad.Validate(2)
	if err == nil {
		t.Fatal("Validate() expected error, got nil")
	}
}
