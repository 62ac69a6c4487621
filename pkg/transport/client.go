// Package transport is a client for the case and assignment REST API that
// serves layout trees. Client implements session.Backend.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-caseform/pkg/datasource"
	"github.com/goliatone/go-caseform/pkg/schema"
	"github.com/goliatone/go-caseform/pkg/session"
	"github.com/goliatone/go-caseform/pkg/validation"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithBasicAuth authenticates every request.
func WithBasicAuth(username, password string) Option {
	return func(c *Client) {
		c.username = username
		c.password = password
	}
}

// WithTimeout bounds each request. Zero disables the bound.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithLogger sets the logger. Defaults to a discard logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client talks to the case API rooted at a base URL such as
// https://host/prweb/api/v1.
type Client struct {
	base     string
	http     *http.Client
	username string
	password string
	timeout  time.Duration
	logger   *slog.Logger
}

var _ session.Backend = (*Client)(nil)

// New builds a Client.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base:    strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		timeout: 30 * time.Second,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c
}

// DataSource returns a data page source that shares the client's base URL,
// HTTP client and credentials.
func (c *Client) DataSource() *datasource.HTTPSource {
	return datasource.NewHTTPSource(c.base,
		datasource.WithHTTPClient(c.http),
		datasource.WithTimeout(c.timeout),
		datasource.WithRequestEditor(c.authorize),
	)
}

type contentBody struct {
	Content map[string]any `json:"content"`
}

type viewResponse struct {
	ID       string       `json:"ID"`
	CaseID   string       `json:"caseID"`
	ActionID string       `json:"actionID"`
	Name     string       `json:"name"`
	View     *schema.View `json:"view"`
}

// Refresh posts content to the assignment action and returns the
// refreshed view.
func (c *Client) Refresh(ctx context.Context, ref session.AssignmentRef, content map[string]any) (*session.Screen, error) {
	path := fmt.Sprintf("/assignments/%s/actions/%s/refresh", url.PathEscape(ref.AssignmentID), url.PathEscape(ref.ActionID))
	var out viewResponse
	if _, err := c.do(ctx, "refresh", http.MethodPut, path, nil, contentBody{Content: content}, &out); err != nil {
		return nil, err
	}
	return &session.Screen{View: out.View}, nil
}

// FieldsForAction loads the view of an assignment action.
func (c *Client) FieldsForAction(ctx context.Context, assignmentID, actionID string) (*session.Screen, error) {
	path := fmt.Sprintf("/assignments/%s/actions/%s", url.PathEscape(assignmentID), url.PathEscape(actionID))
	var out viewResponse
	if _, err := c.do(ctx, "fields for action", http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &session.Screen{View: out.View}, nil
}

type actionResponse struct {
	ID               string `json:"ID"`
	NextAssignmentID string `json:"nextAssignmentID"`
	NextActionID     string `json:"nextActionID"`
	NextPageID       string `json:"nextPageID"`
}

// PerformAction submits the assignment action.
func (c *Client) PerformAction(ctx context.Context, ref session.AssignmentRef, content map[string]any) (*session.Result, error) {
	path := "/assignments/" + url.PathEscape(ref.AssignmentID) + "?actionID=" + url.QueryEscape(ref.ActionID)
	var out actionResponse
	if _, err := c.do(ctx, "perform action", http.MethodPost, path, nil, contentBody{Content: content}, &out); err != nil {
		return nil, err
	}
	caseID := out.ID
	if caseID == "" {
		caseID = ref.CaseID
	}
	return &session.Result{
		CaseID:           caseID,
		NextAssignmentID: out.NextAssignmentID,
		NextActionID:     out.NextActionID,
		NextPageID:       out.NextPageID,
	}, nil
}

// UpdateCase saves content on the case, guarded by etag.
func (c *Client) UpdateCase(ctx context.Context, caseID string, content map[string]any, etag string) (*session.Result, error) {
	header := http.Header{}
	if etag != "" {
		header.Set("If-Match", etag)
	}
	resp, err := c.do(ctx, "update case", http.MethodPut, "/cases/"+url.PathEscape(caseID), header, contentBody{Content: content}, nil)
	if err != nil {
		return nil, err
	}
	return &session.Result{CaseID: caseID, ETag: resp.Header.Get("etag")}, nil
}

type createBody struct {
	CaseTypeID string         `json:"caseTypeID"`
	ProcessID  string         `json:"processID"`
	Content    map[string]any `json:"content"`
}

// CreateCase starts a case of caseTypeID.
func (c *Client) CreateCase(ctx context.Context, caseTypeID string, content map[string]any) (*session.Result, error) {
	body := createBody{CaseTypeID: caseTypeID, ProcessID: "pyStartCase", Content: content}
	var out actionResponse
	resp, err := c.do(ctx, "create case", http.MethodPost, "/cases", nil, body, &out)
	if err != nil {
		return nil, err
	}
	return &session.Result{
		CaseID:           out.ID,
		NextAssignmentID: out.NextAssignmentID,
		NextPageID:       out.NextPageID,
		ETag:             resp.Header.Get("etag"),
	}, nil
}

type caseResponse struct {
	ID      string         `json:"ID"`
	Content map[string]any `json:"content"`
}

// Case fetches the content and etag of a case.
func (c *Client) Case(ctx context.Context, caseID string) (map[string]any, string, error) {
	var out caseResponse
	resp, err := c.do(ctx, "case", http.MethodGet, "/cases/"+url.PathEscape(caseID), nil, nil, &out)
	if err != nil {
		return nil, "", err
	}
	return out.Content, resp.Header.Get("etag"), nil
}

type assignmentResponse struct {
	ID      string `json:"ID"`
	CaseID  string `json:"caseID"`
	Actions []struct {
		ID   string `json:"ID"`
		Name string `json:"name"`
	} `json:"actions"`
}

// OpenAssignment loads an assignment's first action together with the case
// content, ready for session.Load.
func (c *Client) OpenAssignment(ctx context.Context, assignmentID string) (session.AssignmentRef, *session.Screen, error) {
	var assignment assignmentResponse
	if _, err := c.do(ctx, "assignment", http.MethodGet, "/assignments/"+url.PathEscape(assignmentID), nil, nil, &assignment); err != nil {
		return session.AssignmentRef{}, nil, err
	}
	if len(assignment.Actions) == 0 {
		return session.AssignmentRef{}, nil, fmt.Errorf("transport: assignment %s has no actions", assignmentID)
	}
	ref := session.AssignmentRef{CaseID: assignment.CaseID, AssignmentID: assignment.ID, ActionID: assignment.Actions[0].ID}
	if ref.AssignmentID == "" {
		ref.AssignmentID = assignmentID
	}

	screen, err := c.FieldsForAction(ctx, ref.AssignmentID, ref.ActionID)
	if err != nil {
		return ref, nil, err
	}
	if ref.CaseID != "" {
		content, etag, err := c.Case(ctx, ref.CaseID)
		if err != nil {
			return ref, nil, err
		}
		screen.Content = content
		screen.ETag = etag
	}
	return ref, screen, nil
}

type caseTypeResponse struct {
	CreationPage *schema.View `json:"creation_page"`
}

// NewCasePage loads the New harness of a case type.
func (c *Client) NewCasePage(ctx context.Context, caseTypeID string) (*session.Screen, error) {
	var out caseTypeResponse
	if _, err := c.do(ctx, "case type", http.MethodGet, "/casetypes/"+url.PathEscape(caseTypeID), nil, nil, &out); err != nil {
		return nil, err
	}
	if out.CreationPage == nil {
		return nil, fmt.Errorf("transport: case type %s has no creation page", caseTypeID)
	}
	return &session.Screen{View: out.CreationPage, Harness: schema.PageNew}, nil
}

// Page loads a case page such as Confirm.
func (c *Client) Page(ctx context.Context, caseID, pageID string) (*session.Screen, error) {
	path := fmt.Sprintf("/cases/%s/pages/%s", url.PathEscape(caseID), url.PathEscape(pageID))
	var out schema.View
	if _, err := c.do(ctx, "page", http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	harness := pageID
	if out.Name != "" {
		harness = out.Name
	}
	return &session.Screen{View: &out, Harness: harness}, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.username != "" || c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}
}

// do sends one request. A nil out discards the body.
func (c *Client) do(ctx context.Context, op, method, path string, header http.Header, body, out any) (*http.Response, error) {
	reqCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("transport: %s: encode: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, c.base+path, reader)
	if err != nil {
		return nil, fmt.Errorf("transport: %s: %w", op, err)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	c.logger.Debug("case api request", "op", op, "method", method, "path", path)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transport: %s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("transport: %s: read body: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Code: resp.StatusCode, Op: op, Body: string(data)}
		if msgs, decodeErr := validation.DecodeMessages(data); decodeErr == nil {
			apiErr.Messages = msgs
		}
		return nil, apiErr
	}
	if out != nil && len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return nil, fmt.Errorf("transport: %s: decode: %w", op, err)
		}
	}
	return resp, nil
}
