package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-caseform/pkg/render"
)

func TestMergeAndSortHiddenFields(t *testing.T) {
	base := map[string]string{
		" existing ": "keep",
		"":           "ignored",
	}

	fields := append(render.AssignmentFields("C-1", "A-1", ""),
		render.CSRFToken("_csrf", "token123"),
		render.ETagField("20240101T000000.000 GMT"),
		render.Hidden("  ", "skip"),
	)
	merged := render.MergeHiddenFields(base, fields...)

	wantMerged := map[string]string{
		"existing":     "keep",
		"_csrf":        "token123",
		"caseID":       "C-1",
		"assignmentID": "A-1",
		"etag":         "20240101T000000.000 GMT",
	}
	if diff := cmp.Diff(wantMerged, merged); diff != "" {
		t.Fatalf("merged hidden fields mismatch (-want +got):\n%s", diff)
	}

	sorted := render.SortedHiddenFields(merged)
	wantSorted := []render.HiddenField{
		{Name: "_csrf", Value: "token123"},
		{Name: "assignmentID", Value: "A-1"},
		{Name: "caseID", Value: "C-1"},
		{Name: "etag", Value: "20240101T000000.000 GMT"},
		{Name: "existing", Value: "keep"},
	}
	if diff := cmp.Diff(wantSorted, sorted); diff != "" {
		t.Fatalf("sorted hidden fields mismatch (-want +got):\n%s", diff)
	}
}

func TestHiddenFieldsEmpty(t *testing.T) {
	if got := render.MergeHiddenFields(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if got := render.SortedHiddenFields(map[string]string{" ": "x"}); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if got := render.AssignmentFields("", "", ""); got != nil {
		t.Fatalf("expected no assignment fields, got %v", got)
	}
}
