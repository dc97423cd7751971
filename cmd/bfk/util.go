package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"

	"github.com/deepnoodle-ai/bfk/config"
)

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// useColor reports whether output to w should be colored. Color is disabled
// by --no-color, BFK_NO_COLOR, NO_COLOR, or when w is not a terminal.
func (a *app) useColor(w io.Writer) bool {
	if a.v.GetBool("no-color") || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isTerminal(w)
}

// processGlobalFlags reads global flags from viper and adjusts the
// environment accordingly.
func (a *app) processGlobalFlags() {
	if a.v.GetBool("no-color") {
		color.NoColor = true
	}
}

func (a *app) consoleWriter() zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        a.stderr,
		NoColor:    !a.useColor(a.stderr),
		TimeFormat: "15:04:05.000",
	}
}

// logger returns the diagnostic logger: info level, or debug with --verbose.
func (a *app) logger() zerolog.Logger {
	level := zerolog.InfoLevel
	if a.v.GetBool("verbose") {
		level = zerolog.DebugLevel
	}
	return zerolog.New(a.consoleWriter()).Level(level).With().Timestamp().Logger()
}

// traceLogger returns the logger used by --trace.
func (a *app) traceLogger() zerolog.Logger {
	return zerolog.New(a.consoleWriter()).Level(zerolog.TraceLevel)
}

// loadConfig reads the config file named by --config, or the per-user file,
// and applies flag and environment overrides on top of it.
func (a *app) loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if path := a.v.GetString("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadUser()
	}
	if err != nil {
		return nil, err
	}
	if a.v.IsSet("tape-size") {
		cfg.TapeSize = a.v.GetInt("tape-size")
	}
	if a.v.IsSet("no-input") {
		cfg.NoInput = a.v.GetBool("no-input")
	}
	if a.v.IsSet("max-source-size") {
		cfg.MaxSourceSize = a.v.GetInt("max-source-size")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
