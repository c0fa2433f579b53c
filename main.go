package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/atomicstack/kiosk-imagemap/internal/app"
	"github.com/atomicstack/kiosk-imagemap/internal/config"
	"github.com/atomicstack/kiosk-imagemap/internal/logging"
	"github.com/atomicstack/kiosk-imagemap/internal/logging/events"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// configError marks failures that stem from bad settings rather than from
// running the kiosk.
type configError struct{ err error }

func (e configError) Error() string { return e.err.Error() }
func (e configError) Unwrap() error { return e.err }

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var cfgErr configError
		if errors.As(err, &cfgErr) {
			fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   config.Name + " [page.html]",
		Short: "Show a kiosk image-map page in the terminal",
		Long: `kiosk-imagemap renders an interactive image-map kiosk page as a terminal
canvas. Cards open detail popups or switch the displayed image; a back
button returns to the root view. The page is reloaded when it changes.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runKiosk,
	}
	config.BindFlags(root.PersistentFlags())
	root.AddCommand(newCardsCmd(), newConfigCmd(), newVersionCmd())
	return root
}

func loadConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	cfg, err := config.Resolve(cmd.Flags(), args)
	if err != nil {
		return config.Config{}, configError{err}
	}
	cfg.Args = append([]string(nil), os.Args[1:]...)
	return cfg, nil
}

func runKiosk(cmd *cobra.Command, args []string) error {
	runtimeCfg, err := loadConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := config.ValidateRun(runtimeCfg); err != nil {
		return configError{err}
	}
	logging.Configure(runtimeCfg.Logging.FilePath)
	defer logging.Sync()
	logging.SetTraceEnabled(runtimeCfg.Logging.Trace)
	if err := logging.SetLevel(runtimeCfg.Logging.Level); err != nil {
		return configError{err}
	}

	traceStartup(runtimeCfg)

	if err := app.Run(runtimeCfg.App); err != nil {
		logging.Error(err)
		events.App.Stop(err.Error())
		return err
	}
	events.App.Stop("exit")
	return nil
}

func traceStartup(cfg config.Config) {
	events.App.Start(startupTracePayload(cfg))
}

// startupTracePayload bundles runtime context for trace logging.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags))
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	payload := map[string]interface{}{
		"argv":   cfg.Args,
		"flags":  flags,
		"config": cfg,
	}
	if cfg.File != "" {
		payload["configFile"] = cfg.File
	}
	if exe, err := os.Executable(); err == nil {
		payload["executable"] = exe
	} else {
		payload["executableError"] = err.Error()
	}
	if cwd, err := os.Getwd(); err == nil {
		payload["cwd"] = cwd
	} else {
		payload["cwdError"] = err.Error()
	}
	payload["tty"] = collectTTYDetails()
	return payload
}

type ttyDetails struct {
	Detected    *ttyDetected    `json:"detected,omitempty"`
	Descriptors []ttyDescriptor `json:"descriptors"`
}

type ttyDetected struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ttyDescriptor struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails inspects standard descriptors for terminal support and dimensions.
func collectTTYDetails() ttyDetails {
	descriptors := []struct {
		name string
		fd   uintptr
	}{
		{"stdin", os.Stdin.Fd()},
		{"stdout", os.Stdout.Fd()},
		{"stderr", os.Stderr.Fd()},
	}
	results := make([]ttyDescriptor, 0, len(descriptors))
	var detected *ttyDetected
	for _, desc := range descriptors {
		entry := ttyDescriptor{Name: desc.name}
		fd := int(desc.fd)
		if fd >= 0 && term.IsTerminal(fd) {
			entry.IsTerminal = true
			if width, height, err := term.GetSize(fd); err == nil {
				entry.Width = width
				entry.Height = height
				if detected == nil {
					detected = &ttyDetected{Source: desc.name, Width: width, Height: height}
				}
			} else {
				entry.Error = err.Error()
			}
		}
		results = append(results, entry)
	}
	return ttyDetails{Detected: detected, Descriptors: results}
}
