// Package plot renders animated chart scenes from a series table:
// line and bar variants, each either with fixed axes or with axes that
// grow as the data is revealed.
package plot

import (
	"fmt"
	"strings"
)

// Variant selects the scene type.
type Variant string

const (
	Line        Variant = "line"
	GrowingLine Variant = "growing-line"
	Bar         Variant = "bar"
	GrowingBar  Variant = "growing-bar"
)

// ParseVariant accepts the variant name with either dashes or
// underscores.
func ParseVariant(s string) (Variant, error) {
	switch Variant(strings.ReplaceAll(s, "_", "-")) {
	case Line:
		return Line, nil
	case GrowingLine:
		return GrowingLine, nil
	case Bar:
		return Bar, nil
	case GrowingBar:
		return GrowingBar, nil
	}
	return "", fmt.Errorf("unknown plot variant %q (want line, growing-line, bar or growing-bar)", s)
}

// Growing reports whether the variant rescales its axes during the
// animation.
func (v Variant) Growing() bool {
	return v == GrowingLine || v == GrowingBar
}

// Palette returns the default series colors.
func Palette() []string {
	return []string{"#003f5c", "#58508d", "#bc5090", "#ff6361", "#ffa600"}
}

// Config parameterizes a scene. Run times are in seconds: the
// background phase eases in the axes and title, the animation phase
// advances the data, the wait phase holds the final plot with the
// tracking markers faded out.
type Config struct {
	Variant Variant

	Title  string
	XLabel string
	YLabel string

	BackgroundRunTime int
	AnimationRunTime  int
	WaitRunTime       int

	FPS    int
	Width  int
	Height int

	Colors []string

	// NumTicks is the tick count per axis (the maximum for growing
	// variants). NumSamples caps how many rows of the table are
	// animated; longer tables are downsampled evenly.
	NumTicks   int
	NumSamples int
}

// Default returns the per-variant defaults.
func Default(v Variant) Config {
	c := Config{
		Variant:           v,
		Title:             "Market Price",
		XLabel:            "Year",
		YLabel:            "Price [$]",
		BackgroundRunTime: 10,
		AnimationRunTime:  45,
		WaitRunTime:       5,
		FPS:               30,
		Width:             1280,
		Height:            720,
		Colors:            Palette(),
		NumTicks:          5,
		NumSamples:        1000,
	}
	if v == Bar || v == GrowingBar {
		c.XLabel = "Stocks"
	}
	if v.Growing() {
		c.NumTicks = 6
		c.NumSamples = 100
	}
	if v == GrowingBar {
		c.BackgroundRunTime = 5
		c.AnimationRunTime = 50
	}
	return c
}

// Validate checks the config against the number of series it will
// plot, reporting every problem at once.
func (c Config) Validate(numSeries int) error {
	var problems []string

	if _, err := ParseVariant(string(c.Variant)); err != nil {
		problems = append(problems, err.Error())
	}
	if c.BackgroundRunTime <= 0 {
		problems = append(problems, "background run time must be greater than 0")
	}
	if c.AnimationRunTime <= 0 {
		problems = append(problems, "animation run time must be greater than 0")
	}
	if c.WaitRunTime <= 0 {
		problems = append(problems, "wait run time must be greater than 0")
	}
	if c.FPS <= 0 {
		problems = append(problems, "fps must be greater than 0")
	}
	if c.Width <= 0 || c.Height <= 0 {
		problems = append(problems, "frame size must be greater than 0")
	}
	if c.NumTicks <= 0 {
		problems = append(problems, "tick count must be greater than 0")
	}
	if c.NumSamples <= 0 {
		problems = append(problems, "sample count must be greater than 0")
	}
	if numSeries > len(c.Colors) {
		problems = append(problems, fmt.Sprintf("%d series but only %d colors", numSeries, len(c.Colors)))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid plot config: %s", strings.Join(problems, "; "))
	}
	return nil
}
