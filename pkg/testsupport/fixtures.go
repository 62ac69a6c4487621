package testsupport

import (
	"bytes"
	"embed"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-caseform/pkg/schema"
	"github.com/goliatone/go-caseform/pkg/validation"
)

//go:embed testdata/*
var fixtures embed.FS

// FixturesFS exposes the shared layout and message fixtures.
func FixturesFS() fs.FS {
	sub, err := fs.Sub(fixtures, "testdata")
	if err != nil {
		return fixtures
	}
	return sub
}

// MustView decodes a shared fixture such as "claim.json" or "claim.yaml".
func MustView(t *testing.T, name string) *schema.View {
	t.Helper()

	data, err := fs.ReadFile(FixturesFS(), name)
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	view, err := schema.DecodeView(data)
	if err != nil {
		t.Fatalf("decode fixture %s: %v", name, err)
	}
	return view
}

// MustMessages decodes a shared validation message fixture.
func MustMessages(t *testing.T, name string) []validation.Message {
	t.Helper()

	data, err := fs.ReadFile(FixturesFS(), name)
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	msgs, err := validation.DecodeMessages(data)
	if err != nil {
		t.Fatalf("decode messages %s: %v", name, err)
	}
	return msgs
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
