package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/goliatone/go-caseform/internal/config"
	"github.com/goliatone/go-caseform/internal/logs"
)

type cliFlags struct {
	source      string
	messages    string
	renderer    string
	output      string
	action      string
	stylesheet  string
	partial     bool
	interactive bool
	assignment  string
	caseType    string
	serve       string
	dataPages   string
	baseURL     string
	locale      string
	logLevel    string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "caseform: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("caseform", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var f cliFlags
	fs.StringVar(&f.source, "source", "", "layout tree path or URL (JSON or YAML)")
	fs.StringVar(&f.messages, "messages", "", "validation messages file (JSON error envelope)")
	fs.StringVar(&f.renderer, "renderer", "html", "renderer to use (html, json, text)")
	fs.StringVar(&f.output, "output", "", "output file (stdout if empty)")
	fs.StringVar(&f.action, "action", "", "form action URL for rendered documents")
	fs.StringVar(&f.stylesheet, "stylesheet", "", "stylesheet URL linked from rendered documents")
	fs.BoolVar(&f.partial, "partial", false, "render only the form body")
	fs.BoolVar(&f.interactive, "interactive", false, "fill the form from the terminal")
	fs.StringVar(&f.assignment, "assignment", "", "assignment id to open from the case API")
	fs.StringVar(&f.caseType, "case-type", "", "case type id whose creation page is opened")
	fs.StringVar(&f.serve, "serve", "", "listen address for the preview and data page server")
	fs.StringVar(&f.dataPages, "datapages", "", "YAML or JSON file of data pages served locally")
	fs.StringVar(&f.baseURL, "base-url", "", "case API base URL (overrides config)")
	fs.StringVar(&f.locale, "locale", "", "display locale (overrides config)")
	fs.StringVar(&f.logLevel, "log-level", "", "log level (overrides config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlags(&cfg, f)

	logger, closeLogs, err := logs.New(logs.Options{Level: cfg.Log.Level, File: cfg.Log.File, Stderr: stderr})
	if err != nil {
		return err
	}
	defer func() {
		_ = closeLogs()
	}()

	app, err := newApp(cfg, f, logger)
	if err != nil {
		return err
	}

	switch {
	case f.serve != "":
		return app.serve(ctx, f.serve)
	case f.interactive:
		return app.interactive(ctx, stdout)
	default:
		return app.renderOnce(ctx, stdout)
	}
}

func applyFlags(cfg *config.Config, f cliFlags) {
	if v := strings.TrimSpace(f.baseURL); v != "" {
		cfg.API.BaseURL = v
	}
	if v := strings.TrimSpace(f.locale); v != "" {
		cfg.Locale = v
	}
	if v := strings.TrimSpace(f.logLevel); v != "" {
		cfg.Log.Level = v
	}
}
