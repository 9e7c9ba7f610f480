package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/pen-strokes/internal/eventlog"
	"github.com/roman-kulish/pen-strokes/internal/pointer"
	"github.com/roman-kulish/pen-strokes/internal/render"
)

const envPrefix = "STROKES_"

// Config represents the application configuration. Values are taken from
// defaults, then the YAML file, then the environment, then the flags.
type Config struct {
	Input       string            `yaml:"input"`
	InputFormat eventlog.Format   `yaml:"inputFormat"`
	OutputDir   string            `yaml:"outputDir"`
	CaptureOut  string            `yaml:"captureOut"` // optional SQLite copy of the replayed script
	Participant ParticipantConfig `yaml:"participant"`
	Canvas      pointer.Surface   `yaml:"canvas"`
	LogLevel    slog.Level        `yaml:"logLevel"`
	PDF         bool              `yaml:"pdf"`
	Pressure    bool              `yaml:"pressureColors"` // tint PDF strokes by pressure
	Sheet       bool              `yaml:"sheet"`

	// Stdout receives the text report.
	Stdout io.Writer `yaml:"-"`
}

// ParticipantConfig overrides the participant header of the script.
type ParticipantConfig struct {
	Name    string `yaml:"name"`
	Age     string `yaml:"age"`
	Profile string `yaml:"profile"`
}

func NewConfig() *Config {
	return &Config{
		OutputDir: ".",
		Canvas: pointer.Surface{
			Width:  render.DefaultWidth,
			Height: render.DefaultHeight,
		},
		LogLevel: slog.LevelInfo,
		Stdout:   os.Stdout,
	}
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (c *Config, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening configuration file: %w", err)
	}
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	c = NewConfig()
	if err = yaml.NewDecoder(f).Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding configuration file: %w", err)
	}
	return c, nil
}

func NewConfigFromCLI(args []string) (*Config, error) {
	fs := flag.NewFlagSet("strokes", flag.ContinueOnError)

	var (
		configPath, envPath string
		flags               Config
		format, logLevel    string
	)
	fs.StringVar(&configPath, "c", "", "Path to the YAML configuration file")
	fs.StringVar(&envPath, "env", ".env", "Path to an optional .env file")
	fs.StringVar(&flags.Input, "i", "", "Path to the session script (.jsonl, .yaml or .db)")
	fs.StringVar(&format, "f", "", "Script format [jsonl, yaml, sqlite], detected from the extension when empty")
	fs.StringVar(&flags.OutputDir, "o", "", "Output directory")
	fs.StringVar(&flags.CaptureOut, "capture-out", "", "Also store the replayed script as a SQLite capture")
	fs.StringVar(&flags.Participant.Name, "name", "", "Participant name, overrides the script")
	fs.StringVar(&flags.Participant.Age, "age", "", "Participant age, overrides the script")
	fs.StringVar(&flags.Participant.Profile, "profile", "", "Development profile [typical, delayed], overrides the script")
	fs.Float64Var(&flags.Canvas.Width, "width", 0, "Canvas width in pixels")
	fs.Float64Var(&flags.Canvas.Height, "height", 0, "Canvas height in pixels")
	fs.StringVar(&logLevel, "log-level", "", "Log level [debug, info, warn, error]")
	fs.BoolVar(&flags.PDF, "pdf", false, "Write a vector PDF of the strokes")
	fs.BoolVar(&flags.Pressure, "pressure-colors", false, "Tint PDF strokes by pressure")
	fs.BoolVar(&flags.Sheet, "sheet", false, "Write a review sheet of all drawings")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading env file '%s': %w", envPath, err)
	}

	c := NewConfig()
	if configPath != "" {
		var err error
		if c, err = LoadConfig(configPath); err != nil {
			return nil, err
		}
	}

	if err := c.applyEnv(); err != nil {
		return nil, err
	}

	var err error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i":
			c.Input = flags.Input
		case "f":
			c.InputFormat = eventlog.Format(strings.ToLower(format))
		case "o":
			c.OutputDir = flags.OutputDir
		case "capture-out":
			c.CaptureOut = flags.CaptureOut
		case "name":
			c.Participant.Name = flags.Participant.Name
		case "age":
			c.Participant.Age = flags.Participant.Age
		case "profile":
			c.Participant.Profile = flags.Participant.Profile
		case "width":
			c.Canvas.Width = flags.Canvas.Width
		case "height":
			c.Canvas.Height = flags.Canvas.Height
		case "log-level":
			if lErr := c.LogLevel.UnmarshalText([]byte(logLevel)); lErr != nil {
				err = fmt.Errorf("invalid log level: %s", logLevel)
			}
		case "pdf":
			c.PDF = flags.PDF
		case "pressure-colors":
			c.Pressure = flags.Pressure
		case "sheet":
			c.Sheet = flags.Sheet
		}
	})
	if err == nil {
		err = c.validate()
	}

	if err != nil {
		fs.Usage()
		return nil, err
	}
	return c, nil
}

// applyEnv overrides c with STROKES_* environment variables that are set.
func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"INPUT":               &c.Input,
		"OUTPUT_DIR":          &c.OutputDir,
		"CAPTURE_OUT":         &c.CaptureOut,
		"PARTICIPANT_NAME":    &c.Participant.Name,
		"PARTICIPANT_AGE":     &c.Participant.Age,
		"PARTICIPANT_PROFILE": &c.Participant.Profile,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv(envPrefix + "INPUT_FORMAT"); ok {
		c.InputFormat = eventlog.Format(strings.ToLower(v))
	}
	if v, ok := os.LookupEnv(envPrefix + "LOG_LEVEL"); ok {
		if err := c.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("invalid %sLOG_LEVEL env variable: %s", envPrefix, v)
		}
	}

	bools := map[string]*bool{"PDF": &c.PDF, "PRESSURE_COLORS": &c.Pressure, "SHEET": &c.Sheet}
	for key, dst := range bools {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s env variable: %s", envPrefix, key, v)
			}
			*dst = b
		}
	}
	return nil
}

func (c *Config) validate() error {
	switch {
	case c.Input == "":
		return errors.New("script path is required (use -i or STROKES_INPUT env)")
	case c.OutputDir == "":
		return errors.New("output directory is required")
	case c.Canvas.Width <= 0 || c.Canvas.Height <= 0:
		return fmt.Errorf("invalid canvas size %gx%g", c.Canvas.Width, c.Canvas.Height)
	}

	switch c.InputFormat {
	case "", eventlog.FormatJSONL, eventlog.FormatYAML, eventlog.FormatSQLite:
	default:
		return fmt.Errorf("invalid script format: %s", c.InputFormat)
	}
	return nil
}
