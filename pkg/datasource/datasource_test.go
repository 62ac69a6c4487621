package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-caseform/pkg/schema"
)

func TestOptionsMapsRecords(t *testing.T) {
	records := []Record{
		{"pyID": "A-1", "pyLabel": "First"},
		{"pyLabel": "no value"},
		{"pyID": "A-2"},
	}
	got := Options(records, ".pyID", "pyLabel")
	want := []schema.Option{{Key: "A-1", Value: "First"}, {Key: "A-2", Value: "A-2"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestResolverOptionsSurfacesErrors(t *testing.T) {
	failing := SourceFunc(func(context.Context, string, map[string]string) ([]Record, error) {
		return nil, errors.New("boom")
	})
	r := NewResolver(WithSource(failing))
	got := r.Options(context.Background(), schema.Mode{ListSource: schema.SourceDataPage, DataPageID: "D_Items"})
	want := []schema.Option{{Key: "boom", Value: "boom"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestResolverClipboardPage(t *testing.T) {
	r := NewResolver(WithCaseContent(map[string]any{
		"Colors": []any{
			map[string]any{"Code": "R", "Name": "Red"},
			map[string]any{"Code": "G", "Name": "Green"},
		},
	}))
	mode := schema.Mode{ListSource: schema.SourcePageList, ClipboardPageID: "Colors", ClipboardValue: "Code", ClipboardPrompt: "Name"}

	want := []schema.Option{{Key: "R", Value: "Red"}, {Key: "G", Value: "Green"}}
	if diff := cmp.Diff(want, r.Options(context.Background(), mode)); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	suggestions, err := r.Suggestions(context.Background(), mode)
	if err != nil {
		t.Fatal(err)
	}
	wantS := []Suggestion{{Title: "R", Description: "Red"}, {Title: "G", Description: "Green"}}
	if diff := cmp.Diff(wantS, suggestions); diff != "" {
		t.Fatalf("suggestions mismatch (-want +got):\n%s", diff)
	}
}

func TestFilter(t *testing.T) {
	source := []Suggestion{{Title: "Apple"}, {Title: "banana"}, {Title: "Pineapple"}}
	got := Filter(source, "APP")
	want := []Suggestion{{Title: "Apple"}, {Title: "Pineapple"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("filter mismatch (-want +got):\n%s", diff)
	}
	if got := Filter(source, "  "); got != nil {
		t.Fatalf("empty query should match nothing, got %v", got)
	}
}

func TestAutocompleteDebounce(t *testing.T) {
	var loads int32
	ac := NewAutocomplete(func(context.Context) ([]Suggestion, error) {
		atomic.AddInt32(&loads, 1)
		return []Suggestion{{Title: "Alpha"}, {Title: "Beta"}, {Title: "Alphabet"}}, nil
	}, WithDebounce(20*time.Millisecond))
	defer ac.Close()

	results := make(chan []Suggestion, 3)
	deliver := func(s []Suggestion) { results <- s }
	ctx := context.Background()
	ac.Search(ctx, "b", deliver)
	ac.Search(ctx, "be", deliver)
	ac.Search(ctx, "alpha", deliver)

	select {
	case got := <-results:
		want := []Suggestion{{Title: "Alpha"}, {Title: "Alphabet"}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("results mismatch (-want +got):\n%s", diff)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for debounced search")
	}

	select {
	case extra := <-results:
		t.Fatalf("only the last query should run, got extra %v", extra)
	case <-time.After(100 * time.Millisecond):
	}
	if n := atomic.LoadInt32(&loads); n != 1 {
		t.Fatalf("expected a single load, got %d", n)
	}
}

func TestAutocompleteLoadErrorBecomesSuggestion(t *testing.T) {
	ac := NewAutocomplete(func(context.Context) ([]Suggestion, error) {
		return nil, errors.New("unavailable")
	})
	got := ac.Lookup(context.Background(), "unav")
	want := []Suggestion{{Title: "unavailable", Description: "unavailable"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPSourceAndCache(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Path != "/api/v1/data/D_Countries" {
			http.NotFound(w, r)
			return
		}
		if r.URL.Query().Get("region") != "EU" {
			http.Error(w, "missing region", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pxResults":[{"Code":"FR","Name":"France"}]}`))
	}))
	defer srv.Close()

	cached := NewCached(NewHTTPSource(srv.URL + "/api/v1/"))
	for i := 0; i < 2; i++ {
		records, err := cached.Fetch(context.Background(), "D_Countries", map[string]string{"region": "EU"})
		if err != nil {
			t.Fatalf("fetch: %v", err)
		}
		want := []Record{{"Code": "FR", "Name": "France"}}
		if diff := cmp.Diff(want, records); diff != "" {
			t.Fatalf("records mismatch (-want +got):\n%s", diff)
		}
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("expected cached second fetch, got %d requests", n)
	}

	if _, err := NewHTTPSource(srv.URL+"/api/v1").Fetch(context.Background(), "D_Missing", nil); err == nil {
		t.Fatalf("expected error for 404")
	}
}

func TestDebouncerDefaultWindow(t *testing.T) {
	if got := NewDebouncer(0).delay; got != 500*time.Millisecond {
		t.Fatalf("default window = %v", got)
	}
	if got := NewDebouncer(-time.Second).delay; got != DefaultDebounce {
		t.Fatalf("negative window should fall back, got %v", got)
	}
}
