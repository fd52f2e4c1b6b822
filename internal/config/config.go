package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// PlotConfig holds the scene settings for the render command. Zero
// values for NumTicks and NumSamples mean "use the variant default".
type PlotConfig struct {
	Variant           string   `mapstructure:"variant"`
	Title             string   `mapstructure:"title"`
	XLabel            string   `mapstructure:"x_label"`
	YLabel            string   `mapstructure:"y_label"`
	BackgroundRunTime int      `mapstructure:"background_run_time"`
	AnimationRunTime  int      `mapstructure:"animation_run_time"`
	WaitRunTime       int      `mapstructure:"wait_run_time"`
	FPS               int      `mapstructure:"fps"`
	Width             int      `mapstructure:"width"`
	Height            int      `mapstructure:"height"`
	Colors            []string `mapstructure:"colors"`
	NumTicks          int      `mapstructure:"num_ticks"`
	NumSamples        int      `mapstructure:"num_samples"`
}

// Config holds all configuration for stockmotion.
type Config struct {
	// Download settings
	Tickers   []string `mapstructure:"tickers"`
	Start     string   `mapstructure:"start"`
	End       string   `mapstructure:"end"`
	Quote     string   `mapstructure:"quote"`
	Provider  string   `mapstructure:"provider"`
	BaseURL   string   `mapstructure:"base_url"`
	RateLimit float64  `mapstructure:"rate_limit"`

	// The CSV artifact shared by both commands
	CSVPath string `mapstructure:"csv_path"`

	// Render settings
	Output string     `mapstructure:"output"`
	Plot   PlotConfig `mapstructure:"plot"`
}

const dateLayout = "2006-01-02"

// flagBindings maps viper keys to CLI flag names. Only flags the
// calling command defined are bound.
var flagBindings = map[string]string{
	"tickers":                  "tickers",
	"start":                    "start",
	"end":                      "end",
	"quote":                    "quote",
	"provider":                 "provider",
	"base_url":                 "base-url",
	"rate_limit":               "rate-limit",
	"csv_path":                 "csv",
	"output":                   "output",
	"plot.variant":             "type",
	"plot.title":               "title",
	"plot.x_label":             "x-label",
	"plot.y_label":             "y-label",
	"plot.background_run_time": "background-run-time",
	"plot.animation_run_time":  "animation-run-time",
	"plot.wait_run_time":       "wait-run-time",
	"plot.fps":                 "fps",
	"plot.width":               "width",
	"plot.height":              "height",
	"plot.colors":              "colors",
	"plot.num_ticks":           "num-ticks",
	"plot.num_samples":         "num-samples",
}

// Load reads configuration from defaults, an optional config file,
// environment variables and command-line flags, in ascending
// precedence.
//
// The config file is stockmotion.yaml in the working directory or
// $HOME/.stockmotion. Environment variables use the STOCKMOTION_
// prefix with underscores, e.g. STOCKMOTION_PLOT_FPS.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("STOCKMOTION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Download defaults: the full available history, the High column,
	// the public Yahoo endpoint.
	v.SetDefault("start", "1900-01-01")
	v.SetDefault("end", "2100-01-01")
	v.SetDefault("quote", "high")
	v.SetDefault("provider", "yahoo")
	v.SetDefault("base_url", "")
	v.SetDefault("rate_limit", 4.0)
	v.SetDefault("csv_path", "stock_data.csv")

	// Render defaults
	v.SetDefault("output", "")
	v.SetDefault("plot.variant", "growing-line")
	v.SetDefault("plot.title", "Market Price")
	v.SetDefault("plot.x_label", "")
	v.SetDefault("plot.y_label", "Price [$]")
	v.SetDefault("plot.background_run_time", 5)
	v.SetDefault("plot.animation_run_time", 50)
	v.SetDefault("plot.wait_run_time", 5)
	v.SetDefault("plot.fps", 30)
	v.SetDefault("plot.width", 1280)
	v.SetDefault("plot.height", 720)
	v.SetDefault("plot.colors", []string{})
	v.SetDefault("plot.num_ticks", 0)
	v.SetDefault("plot.num_samples", 0)

	v.SetConfigName("stockmotion")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.stockmotion")

	// Config file is optional
	_ = v.ReadInConfig()

	if flags != nil {
		for key, name := range flagBindings {
			if fl := flags.Lookup(name); fl != nil {
				if err := v.BindPFlag(key, fl); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return config, nil
}

// Range parses the configured date bounds.
func (c *Config) Range() (start, end time.Time, err error) {
	start, err = time.Parse(dateLayout, c.Start)
	if err != nil {
		return start, end, fmt.Errorf("invalid start date %q: %w", c.Start, err)
	}
	end, err = time.Parse(dateLayout, c.End)
	if err != nil {
		return start, end, fmt.Errorf("invalid end date %q: %w", c.End, err)
	}
	if end.Before(start) {
		return start, end, fmt.Errorf("end date %s is before start date %s", c.End, c.Start)
	}
	return start, end, nil
}

// ValidateDownload checks everything the download command needs,
// reporting every problem at once.
func (c *Config) ValidateDownload() error {
	var problems []string

	if len(c.Tickers) == 0 {
		problems = append(problems, "no tickers configured")
	}
	if _, _, err := c.Range(); err != nil {
		problems = append(problems, err.Error())
	}
	switch c.Quote {
	case "open", "high", "low", "close":
	default:
		problems = append(problems, fmt.Sprintf("unknown quote column %q", c.Quote))
	}
	switch c.Provider {
	case "yahoo", "piquette":
	default:
		problems = append(problems, fmt.Sprintf("unknown provider %q", c.Provider))
	}
	if c.CSVPath == "" {
		problems = append(problems, "csv path is empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
