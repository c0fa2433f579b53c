package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/kiosk-imagemap/internal/app"
	"github.com/atomicstack/kiosk-imagemap/internal/backend"
	"github.com/atomicstack/kiosk-imagemap/internal/navigator"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	yamlv3 "gopkg.in/yaml.v3"
)

// Name is the program name used for flag sets and the environment prefix.
const Name = "kiosk-imagemap"

// EnvPrefix prefixes every environment override, e.g. KIOSK_IMAGEMAP_TOUCH.
const EnvPrefix = "KIOSK_IMAGEMAP_"

// ErrNoMarkup is returned by ValidateRun when no page was given.
var ErrNoMarkup = errors.New("no markup file given")

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	// File is the configuration file that was read, if any.
	File  string
	Flags map[string]string
	Args  []string
}

type Logging struct {
	FilePath string
	Level    string
	Trace    bool
}

// Settings is the flat key space shared by the config file, the environment
// and the command line.
type Settings struct {
	Markup          string        `koanf:"markup" yaml:"markup"`
	RootImage       string        `koanf:"root_image" yaml:"root_image"`
	Width           int           `koanf:"width" yaml:"width"`
	Height          int           `koanf:"height" yaml:"height"`
	Footer          bool          `koanf:"footer" yaml:"footer"`
	Touch           bool          `koanf:"touch" yaml:"touch"`
	TouchWindow     time.Duration `koanf:"touch_window" yaml:"touch_window"`
	PopupTimeout    time.Duration `koanf:"popup_timeout" yaml:"popup_timeout"`
	PopupPolicy     string        `koanf:"popup_policy" yaml:"popup_policy"`
	ReturnLocations []string      `koanf:"return_locations" yaml:"return_locations"`
	ReloadInterval  time.Duration `koanf:"reload_interval" yaml:"reload_interval"`
	ReloadSettle    time.Duration `koanf:"reload_settle" yaml:"reload_settle"`
	MarkdownStyle   string        `koanf:"markdown_style" yaml:"markdown_style"`
	LogFile         string        `koanf:"log_file" yaml:"log_file"`
	LogLevel        string        `koanf:"log_level" yaml:"log_level"`
	Trace           bool          `koanf:"trace" yaml:"trace"`
}

// Defaults returns the settings used when nothing overrides them.
func Defaults() Settings {
	return Settings{
		TouchWindow:     300 * time.Millisecond,
		PopupPolicy:     navigator.PopupsOnRoot.String(),
		ReturnLocations: []string{navigator.DefaultReturnLocation},
		ReloadInterval:  2 * time.Second,
		ReloadSettle:    backend.DefaultSettle,
		MarkdownStyle:   "dark",
		LogFile:         "kiosk-imagemap.log",
		LogLevel:        "info",
	}
}

// flag names mapped onto settings keys
var flagKeys = map[string]string{
	"root-image":      "root_image",
	"width":           "width",
	"height":          "height",
	"footer":          "footer",
	"touch":           "touch",
	"touch-window":    "touch_window",
	"popup-timeout":   "popup_timeout",
	"popup-policy":    "popup_policy",
	"return-location": "return_locations",
	"reload-interval": "reload_interval",
	"reload-settle":   "reload_settle",
	"markdown-style":  "markdown_style",
	"log-file":        "log_file",
	"log-level":       "log_level",
	"trace":           "trace",
}

// BindFlags registers every setting on fs. Defaults shown in help come from
// Defaults; only flags the user actually sets override other layers.
func BindFlags(fs *pflag.FlagSet) {
	d := Defaults()
	fs.String("config", "", "path to a YAML config file (env "+EnvPrefix+"CONFIG)")
	fs.String("root-image", "", "root view image, overriding the page's #main-image")
	fs.Int("width", 0, "canvas width in cells (0 uses terminal width)")
	fs.Int("height", 0, "canvas height in rows (0 uses terminal height)")
	fs.Bool("footer", false, "show the key hint row")
	fs.Bool("touch", false, "treat mouse presses as touch input (debounced)")
	fs.Duration("touch-window", d.TouchWindow, "ignore a repeated touch on the same card within this interval")
	fs.Duration("popup-timeout", 0, "close an open popup after this long (0 disables)")
	fs.String("popup-policy", d.PopupPolicy, "where popup cards are shown: root or always")
	fs.StringSlice("return-location", d.ReturnLocations, "data-location tags that mark prefix-return cards")
	fs.Duration("reload-interval", d.ReloadInterval, "poll the page for changes at this interval (0 disables)")
	fs.Duration("reload-settle", d.ReloadSettle, "minimum time between two reparses of a changing page")
	fs.String("markdown-style", d.MarkdownStyle, "glamour style for popup bodies (dark, light, notty, ...)")
	fs.String("log-file", d.LogFile, "path to the log file")
	fs.String("log-level", d.LogLevel, "log level: debug, info, warn, error")
	fs.Bool("trace", false, "enable verbose JSON trace logging (written regardless of --log-level)")
}

// LoadArgs allows tests to supply specific args. The environment is read
// from the process.
func LoadArgs(args []string) (Config, error) {
	fs := pflag.NewFlagSet(Name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg, err := Resolve(fs, fs.Args())
	if err != nil {
		return Config{}, err
	}
	cfg.Args = append([]string(nil), args...)
	return cfg, nil
}

// Resolve layers defaults, the config file, the environment and the flags
// that were explicitly set on fs. positional[0], when present, names the page.
func Resolve(fs *pflag.FlagSet, positional []string) (Config, error) {
	k := koanf.New(".")

	path, _ := fs.GetString("config")
	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("loading env overrides: %w", err)
	}

	var flagErr error
	fs.Visit(func(f *pflag.Flag) {
		key, ok := flagKeys[f.Name]
		if !ok || flagErr != nil {
			return
		}
		var value interface{} = f.Value.String()
		if f.Value.Type() == "stringSlice" {
			value, _ = fs.GetStringSlice(f.Name)
		}
		flagErr = k.Set(key, value)
	})
	if flagErr != nil {
		return Config{}, fmt.Errorf("applying flags: %w", flagErr)
	}
	if len(positional) > 0 {
		if err := k.Set("markup", positional[0]); err != nil {
			return Config{}, fmt.Errorf("applying markup argument: %w", err)
		}
	}

	s := Defaults()
	if err := k.Unmarshal("", &s); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	s.ReturnLocations = splitList(s.ReturnLocations)

	cfg := s.toConfig()
	cfg.File = path
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (s Settings) toConfig() Config {
	cfg := Config{
		App: app.Config{
			Markup:          s.Markup,
			RootImage:       s.RootImage,
			Width:           s.Width,
			Height:          s.Height,
			Footer:          s.Footer,
			Touch:           s.Touch,
			TouchWindow:     s.TouchWindow,
			PopupTimeout:    s.PopupTimeout,
			PopupPolicy:     s.PopupPolicy,
			ReturnLocations: s.ReturnLocations,
			ReloadInterval:  s.ReloadInterval,
			ReloadSettle:    s.ReloadSettle,
			MarkdownStyle:   s.MarkdownStyle,
		},
		Logging: Logging{
			FilePath: s.LogFile,
			Level:    s.LogLevel,
			Trace:    s.Trace,
		},
	}
	cfg.Flags = map[string]string{
		"markup":           s.Markup,
		"root_image":       s.RootImage,
		"width":            strconv.Itoa(s.Width),
		"height":           strconv.Itoa(s.Height),
		"footer":           strconv.FormatBool(s.Footer),
		"touch":            strconv.FormatBool(s.Touch),
		"touch_window":     s.TouchWindow.String(),
		"popup_timeout":    s.PopupTimeout.String(),
		"popup_policy":     s.PopupPolicy,
		"return_locations": strings.Join(s.ReturnLocations, ","),
		"reload_interval":  s.ReloadInterval.String(),
		"reload_settle":    s.ReloadSettle.String(),
		"markdown_style":   s.MarkdownStyle,
		"log_level":        s.LogLevel,
	}
	return cfg
}

// Settings converts a resolved configuration back into its flat form.
func (c Config) Settings() Settings {
	return Settings{
		Markup:          c.App.Markup,
		RootImage:       c.App.RootImage,
		Width:           c.App.Width,
		Height:          c.App.Height,
		Footer:          c.App.Footer,
		Touch:           c.App.Touch,
		TouchWindow:     c.App.TouchWindow,
		PopupTimeout:    c.App.PopupTimeout,
		PopupPolicy:     c.App.PopupPolicy,
		ReturnLocations: c.App.ReturnLocations,
		ReloadInterval:  c.App.ReloadInterval,
		ReloadSettle:    c.App.ReloadSettle,
		MarkdownStyle:   c.App.MarkdownStyle,
		LogFile:         c.Logging.FilePath,
		LogLevel:        c.Logging.Level,
		Trace:           c.Logging.Trace,
	}
}

func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate rejects values the application cannot run with.
func Validate(cfg Config) error {
	a := cfg.App
	if a.Width < 0 {
		return fmt.Errorf("width must be >= 0 (got %d)", a.Width)
	}
	if a.Height < 0 {
		return fmt.Errorf("height must be >= 0 (got %d)", a.Height)
	}
	for name, d := range map[string]time.Duration{
		"touch_window":    a.TouchWindow,
		"popup_timeout":   a.PopupTimeout,
		"reload_interval": a.ReloadInterval,
		"reload_settle":   a.ReloadSettle,
	} {
		if d < 0 {
			return fmt.Errorf("%s must be >= 0 (got %s)", name, d)
		}
	}
	if _, err := navigator.ParsePopupPolicy(a.PopupPolicy); err != nil {
		return err
	}
	return nil
}

// ValidateRun additionally requires a page to show.
func ValidateRun(cfg Config) error {
	if strings.TrimSpace(cfg.App.Markup) == "" {
		return ErrNoMarkup
	}
	return Validate(cfg)
}

// Save writes the settings as YAML so they can be loaded again with --config.
func (c Config) Save(w io.Writer) error {
	data, err := Marshal(c.Settings())
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// SaveFile writes the settings to path.
func (c Config) SaveFile(path string) error {
	data, err := Marshal(c.Settings())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Marshal renders settings as YAML with durations in their string form.
func Marshal(s Settings) ([]byte, error) {
	values := map[string]interface{}{
		"markup":           s.Markup,
		"root_image":       s.RootImage,
		"width":            s.Width,
		"height":           s.Height,
		"footer":           s.Footer,
		"touch":            s.Touch,
		"touch_window":     s.TouchWindow.String(),
		"popup_timeout":    s.PopupTimeout.String(),
		"popup_policy":     s.PopupPolicy,
		"return_locations": s.ReturnLocations,
		"reload_interval":  s.ReloadInterval.String(),
		"reload_settle":    s.ReloadSettle.String(),
		"markdown_style":   s.MarkdownStyle,
		"log_file":         s.LogFile,
		"log_level":        s.LogLevel,
		"trace":            s.Trace,
	}
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	doc := &yamlv3.Node{Kind: yamlv3.MappingNode}
	for _, key := range keys {
		var val yamlv3.Node
		if err := val.Encode(values[key]); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", key, err)
		}
		doc.Content = append(doc.Content, &yamlv3.Node{Kind: yamlv3.ScalarNode, Value: key}, &val)
	}
	data, err := yamlv3.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshalling config: %w", err)
	}
	return data, nil
}
