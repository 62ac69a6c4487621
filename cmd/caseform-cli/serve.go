package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-caseform/components/datapages"
	"github.com/goliatone/go-caseform/pkg/renderers/html"
)

// router serves a preview of the form at /, its stylesheet under /static
// and the data pages under /data.
func (a *app) router() (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	if src := a.source(); src != nil {
		if _, err := datapages.RegisterRoutes(r, "", datapages.WithSource(src), datapages.WithLogger(a.logger)); err != nil {
			return nil, err
		}
	}

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(html.AssetsFS()))))
	r.Get("/", a.preview)
	return r, nil
}

func (a *app) preview(w http.ResponseWriter, r *http.Request) {
	renderer, err := a.renderers.Negotiate(r.URL.Query().Get("renderer"), r.Header.Get("Accept"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	ref, screen, err := a.openScreen(ctx)
	if err != nil {
		a.logger.Error("open screen", "error", err, "request_id", middleware.GetReqID(ctx))
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	s := a.newSession(ref)
	s.Load(screen)

	opts := a.renderOptions(ref, s.ETag())
	if len(opts.Stylesheets) == 0 {
		opts.Stylesheets = []string{"/static/" + html.StylesheetName}
	}
	out, err := renderer.Render(ctx, s.Render(ctx), opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	_, _ = w.Write(out)
}

func (a *app) serve(ctx context.Context, addr string) error {
	handler, err := a.router()
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: durationOr(a.cfg.API.Timeout, 30*time.Second),
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("serving", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
