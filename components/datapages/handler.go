package datapages

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-caseform/pkg/datasource"
	"github.com/goliatone/go-caseform/pkg/format"
)

// PageIDParam is the route parameter holding the page id.
const PageIDParam = "pageID"

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type pageResponse struct {
	Results []datasource.Record `json:"pxResults"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Handler builds a handler with default options plus any overrides.
func Handler(fns ...OptionFn) http.Handler {
	return HandlerWithOptions(NewOptions(fns...))
}

// HandlerWithOptions builds a handler from a pre-constructed Options value.
// The page id is read from the chi route parameter, falling back to the
// last path segment when the handler is mounted elsewhere.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", http.StatusText(http.StatusMethodNotAllowed))
			return
		}
		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}

		pageID := pageIDFrom(r)
		if pageID == "" {
			writeError(w, http.StatusBadRequest, "MISSING_PAGE", "data page id is required")
			return
		}

		query := r.URL.Query()
		search := strings.TrimSpace(query.Get(opts.SearchParam))
		limit := clampLimit(parseInt(query.Get(opts.LimitParam)), opts)
		params := map[string]string{}
		for key, values := range query {
			if key == opts.SearchParam || key == opts.LimitParam || len(values) == 0 {
				continue
			}
			params[key] = values[0]
		}

		records, err := opts.Source.Fetch(r.Context(), pageID, params)
		if err != nil {
			if errors.Is(err, ErrPageNotFound) {
				writeError(w, http.StatusNotFound, "PAGE_NOT_FOUND", err.Error())
				return
			}
			logger.Error("data page fetch failed", "page", pageID, "error", err)
			code := http.StatusBadGateway
			var httpErr HTTPError
			if errors.As(err, &httpErr) {
				code = httpErr.StatusCode()
			}
			writeError(w, code, "FETCH_FAILED", err.Error())
			return
		}

		records = Search(records, search, limit)
		if records == nil {
			records = []datasource.Record{}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_ = json.NewEncoder(w).Encode(pageResponse{Results: records})
	})
}

// Search keeps the records where any value contains query, ignoring case,
// and truncates the result to limit. A zero limit keeps everything.
func Search(records []datasource.Record, query string, limit int) []datasource.Record {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]datasource.Record, 0, len(records))
	for _, record := range records {
		if limit > 0 && len(out) >= limit {
			break
		}
		if query == "" || recordContains(record, query) {
			out = append(out, record)
		}
	}
	return out
}

func recordContains(record datasource.Record, query string) bool {
	for _, value := range record {
		if strings.Contains(strings.ToLower(format.Stringify(value)), query) {
			return true
		}
	}
	return false
}

func pageIDFrom(r *http.Request) string {
	if id := chi.URLParam(r, PageIDParam); id != "" {
		return id
	}
	trimmed := strings.TrimRight(r.URL.Path, "/")
	if trimmed == "" {
		return ""
	}
	return path.Base(trimmed)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: message, Code: code})
}

func writeGuardError(w http.ResponseWriter, err error) {
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	writeError(w, code, "GUARD_REJECTED", http.StatusText(code))
}

func parseInt(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
