package loader

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-caseform/pkg/schema"
)

const viewYAML = `
viewID: Collect
name: Collect details
groups:
  - field:
      fieldID: FirstName
      reference: Customer.FirstName
      control:
        type: pxTextInput
`

func TestLoadViewFromFSDecodesYAML(t *testing.T) {
	files := fstest.MapFS{"views/collect.yaml": {Data: []byte(viewYAML)}}
	l := New(schema.NewLoaderOptions(schema.WithFileSystem(files)))

	view, err := l.LoadView(context.Background(), schema.SourceFromFS("views/collect.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if view.ViewID != "Collect" || len(view.Groups) != 1 {
		t.Fatalf("unexpected view: %+v", view)
	}
	if got := view.Groups[0].Field.Control.Type; got != schema.ControlTextInput {
		t.Fatalf("control type = %q", got)
	}
}

func TestLoadFileUnwrapsEnvelope(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "action.json")
	payload := `{"actionID":"Collect","view":{"viewID":"Collect","groups":[]}}`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatal(err)
	}
	view, err := New(schema.LoaderOptions{}).LoadView(context.Background(), schema.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff("Collect", view.ViewID); diff != "" {
		t.Fatalf("view id mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadURLRequiresClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"viewID":"Remote"}`))
	}))
	defer srv.Close()

	src, err := schema.SourceFromURL(srv.URL + "/view")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(schema.LoaderOptions{}).Load(context.Background(), src); err == nil {
		t.Fatalf("expected http disabled error")
	}

	l := New(schema.NewLoaderOptions(schema.WithHTTPClient(srv.Client())))
	view, err := l.LoadView(context.Background(), src)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if view.ViewID != "Remote" {
		t.Fatalf("view id = %q", view.ViewID)
	}
}
