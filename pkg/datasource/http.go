package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// HTTPOption configures an HTTP source.
type HTTPOption func(*HTTPSource)

// WithHTTPClient overrides the client used for requests.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		if client != nil {
			s.client = client
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(s *HTTPSource) {
		s.timeout = timeout
	}
}

// WithRequestEditor lets callers decorate requests, for example with
// authentication headers.
func WithRequestEditor(fn func(*http.Request)) HTTPOption {
	return func(s *HTTPSource) {
		s.edit = fn
	}
}

// HTTPSource reads data pages from GET {base}/data/{id}. Results are read
// from the pxResults array of the response.
type HTTPSource struct {
	base    string
	client  *http.Client
	timeout time.Duration
	edit    func(*http.Request)
}

// NewHTTPSource builds a source rooted at baseURL.
func NewHTTPSource(baseURL string, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		base:    strings.TrimRight(baseURL, "/"),
		client:  http.DefaultClient,
		timeout: 30 * time.Second,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

type dataPageResponse struct {
	Results []Record `json:"pxResults"`
}

func (s *HTTPSource) Fetch(ctx context.Context, pageID string, params map[string]string) ([]Record, error) {
	if pageID == "" {
		return nil, fmt.Errorf("datasource: data page id is required")
	}

	reqCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	endpoint := s.base + "/data/" + url.PathEscape(pageID)
	if len(params) > 0 {
		query := url.Values{}
		for k, v := range params {
			query.Set(k, v)
		}
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if s.edit != nil {
		s.edit(req)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("datasource: fetch %s: %w", pageID, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("datasource: fetch %s: unexpected status %s", pageID, resp.Status)
	}

	var payload dataPageResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("datasource: decode %s: %w", pageID, err)
	}
	return payload.Results, nil
}
