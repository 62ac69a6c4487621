package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/goliatone/go-caseform/components/datapages"
	"github.com/goliatone/go-caseform/internal/config"
	"github.com/goliatone/go-caseform/internal/loader"
	"github.com/goliatone/go-caseform/pkg/actions"
	"github.com/goliatone/go-caseform/pkg/datasource"
	"github.com/goliatone/go-caseform/pkg/format"
	"github.com/goliatone/go-caseform/pkg/render"
	"github.com/goliatone/go-caseform/pkg/renderers/html"
	"github.com/goliatone/go-caseform/pkg/renderers/tui"
	"github.com/goliatone/go-caseform/pkg/schema"
	"github.com/goliatone/go-caseform/pkg/session"
	"github.com/goliatone/go-caseform/pkg/transport"
	"github.com/goliatone/go-caseform/pkg/validation"
)

type app struct {
	cfg       config.Config
	flags     cliFlags
	logger    *slog.Logger
	formatter *format.Formatter
	client    *transport.Client
	pages     datapages.StaticPages
	renderers *render.Registry
}

func newApp(cfg config.Config, f cliFlags, logger *slog.Logger) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	a := &app{
		cfg:       cfg,
		flags:     f,
		logger:    logger,
		formatter: format.New(format.WithLocale(cfg.Locale), format.WithLocation(loc)),
		renderers: render.NewRegistry(),
	}

	htmlRenderer, err := html.New()
	if err != nil {
		return nil, err
	}
	a.renderers.MustRegister(htmlRenderer)
	a.renderers.MustRegister(render.JSONRenderer{})
	a.renderers.MustRegister(tui.TextRenderer{Theme: tui.DefaultTheme})

	if cfg.API.BaseURL != "" {
		a.client = transport.New(cfg.API.BaseURL,
			transport.WithBasicAuth(cfg.API.Username, cfg.API.Password),
			transport.WithTimeout(cfg.API.Timeout),
			transport.WithLogger(logger),
		)
	}
	if f.dataPages != "" {
		pages, err := datapages.LoadPagesFile(f.dataPages)
		if err != nil {
			return nil, err
		}
		a.pages = pages
	}
	return a, nil
}

// source prefers local data pages over the API.
func (a *app) source() datasource.Source {
	switch {
	case a.pages != nil:
		return a.pages
	case a.client != nil:
		return a.client.DataSource()
	default:
		return nil
	}
}

func (a *app) newSession(ref session.AssignmentRef, extra ...session.Option) *session.Session {
	executor := actions.NewExecutor(
		actions.WithLogger(a.logger),
		actions.WithWindowOpener(actions.WindowOpenerFunc(func(_ context.Context, url, name, _ string) error {
			a.logger.Info("open window", "url", url, "name", name)
			return nil
		})),
	)
	opts := []session.Option{
		session.WithAssignment(ref),
		session.WithCaseType(a.flags.caseType),
		session.WithFormatter(a.formatter),
		session.WithExecutor(executor),
		session.WithDebounce(a.cfg.Autocomplete.Debounce),
		session.WithLogger(a.logger),
	}
	if src := a.source(); src != nil {
		opts = append(opts, session.WithDataSource(src))
	}
	if a.client != nil {
		opts = append(opts, session.WithBackend(a.client))
	}
	return session.New(append(opts, extra...)...)
}

// openScreen resolves the first screen: an assignment or creation page
// from the API, else the local tree.
func (a *app) openScreen(ctx context.Context) (session.AssignmentRef, *session.Screen, error) {
	switch {
	case a.flags.assignment != "":
		if a.client == nil {
			return session.AssignmentRef{}, nil, errors.New("-assignment needs a case API base URL")
		}
		return a.client.OpenAssignment(ctx, a.flags.assignment)
	case a.flags.source == "" && a.flags.caseType != "":
		if a.client == nil {
			return session.AssignmentRef{}, nil, errors.New("-case-type needs a case API base URL")
		}
		screen, err := a.client.NewCasePage(ctx, a.flags.caseType)
		return session.AssignmentRef{}, screen, err
	}

	if a.flags.source == "" {
		return session.AssignmentRef{}, nil, errors.New("a -source, -assignment or -case-type is required")
	}
	src, err := schema.SourceFor(a.flags.source)
	if err != nil {
		return session.AssignmentRef{}, nil, err
	}
	l := loader.New(schema.NewLoaderOptions(schema.WithHTTPFallback(a.cfg.API.Timeout)))
	view, err := l.LoadView(ctx, src)
	if err != nil {
		return session.AssignmentRef{}, nil, err
	}
	screen := &session.Screen{View: view}
	if a.flags.caseType != "" {
		screen.Harness = schema.PageNew
	}
	if a.flags.messages != "" {
		data, err := os.ReadFile(a.flags.messages)
		if err != nil {
			return session.AssignmentRef{}, nil, fmt.Errorf("read messages: %w", err)
		}
		messages, err := validation.DecodeMessages(data)
		if err != nil {
			return session.AssignmentRef{}, nil, err
		}
		screen.Messages = messages
	}
	return session.AssignmentRef{}, screen, nil
}

func (a *app) renderOptions(ref session.AssignmentRef, etag string) render.RenderOptions {
	hidden := render.AssignmentFields(ref.CaseID, ref.AssignmentID, ref.ActionID)
	if etag != "" {
		hidden = append(hidden, render.ETagField(etag))
	}
	opts := render.RenderOptions{
		Action:       a.flags.action,
		Partial:      a.flags.partial,
		HiddenFields: render.MergeHiddenFields(nil, hidden...),
	}
	if a.flags.stylesheet != "" {
		opts.Stylesheets = []string{a.flags.stylesheet}
	}
	return opts
}

func (a *app) renderOnce(ctx context.Context, stdout io.Writer) error {
	renderer, err := a.renderers.Get(a.flags.renderer)
	if err != nil {
		return err
	}
	ref, screen, err := a.openScreen(ctx)
	if err != nil {
		return err
	}
	s := a.newSession(ref)
	s.Load(screen)

	out, err := renderer.Render(ctx, s.Render(ctx), a.renderOptions(ref, s.ETag()))
	if err != nil {
		return fmt.Errorf("render %s: %w", renderer.Name(), err)
	}
	if a.flags.output == "" {
		_, err = stdout.Write(out)
		return err
	}
	if err := os.WriteFile(a.flags.output, out, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	a.logger.Info("form written", "path", a.flags.output, "renderer", renderer.Name())
	return nil
}

func (a *app) interactive(ctx context.Context, stdout io.Writer) error {
	ref, screen, err := a.openScreen(ctx)
	if err != nil {
		return err
	}
	runner := tui.NewRunner(
		tui.WithPromptDriver(tui.NewSurveyDriver(stdout)),
		tui.WithLogger(a.logger),
	)
	s := a.newSession(ref, session.WithPrompter(tui.NewPrompter(runner.Driver())))
	s.Load(screen)

	result, err := runner.Run(ctx, s)
	if errors.Is(err, tui.ErrAborted) {
		return nil
	}
	if err != nil {
		return err
	}
	if result != nil {
		a.logger.Info("form finished", "case", result.CaseID, "next_assignment", result.NextAssignmentID)
	}
	return s.Close(ctx)
}

func durationOr(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}
