package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeViewJSONTokens(t *testing.T) {
	payload := []byte(`{
	  "viewID": "Collect",
	  "groups": [
	    {"field": {
	      "fieldID": "Agree",
	      "reference": "Agree",
	      "value": "false",
	      "control": {
	        "type": "pxCheckbox",
	        "label": "\"I agree\"",
	        "actionSets": [{
	          "events": [{"event": "change"}],
	          "actions": [{"action": "setValue", "actionProcess": {"setValuePairs": [
	            {"name": "Flag", "value": true},
	            {"name": "Count", "value": 3},
	            {"name": "Copy", "valueReference": {"reference": ".Other", "lastSavedValue": "x"}}
	          ]}}]
	        }]
	      }
	    }}
	  ]
	}`)
	view, err := DecodeView(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	field := view.Groups[0].Field
	if field.Control.Label != Text(`"I agree"`) {
		t.Fatalf("label token = %#v", field.Control.Label)
	}
	pairs := field.Control.ActionSets[0].Actions[0].ActionProcess.SetValuePairs
	want := []ValuePair{
		{Name: "Flag", Value: BoolToken(true)},
		{Name: "Count", Value: NumberToken(3)},
		{Name: "Copy", ValueReference: &ValueReference{Reference: ".Other", LastSavedValue: "x"}},
	}
	if diff := cmp.Diff(want, pairs); diff != "" {
		t.Fatalf("pairs mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeViewYAMLTokens(t *testing.T) {
	payload := []byte(`
viewID: Collect
groups:
  - field:
      fieldID: Status
      control:
        type: pxDropdown
        modes:
          - listSource: locallist
            placeholder: .Status.Hint
            decimalPlaces: 3
            options:
              - key: A
                value: Active
`)
	view, err := DecodeView(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	mode := view.Groups[0].Field.Mode(0)
	if mode.Placeholder != Text(".Status.Hint") {
		t.Fatalf("placeholder = %#v", mode.Placeholder)
	}
	if mode.DecimalPlaces != NumberToken(3) || mode.DecimalPlaces.String() != "3" {
		t.Fatalf("decimalPlaces = %#v", mode.DecimalPlaces)
	}
	if diff := cmp.Diff([]Option{{Key: "A", Value: "Active"}}, mode.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if got := view.Groups[0].Field.Mode(4); got.ListSource != "" {
		t.Fatalf("missing mode should be zero, got %+v", got)
	}
}

func TestGroupKindPrecedence(t *testing.T) {
	g := Group{Field: &Field{}, Caption: &Caption{}, Layout: &Layout{}}
	if g.Kind() != GroupKindLayout {
		t.Fatalf("kind = %q", g.Kind())
	}
	if g.Members() != 3 {
		t.Fatalf("members = %d", g.Members())
	}
	if (Group{}).Kind() != GroupKindEmpty {
		t.Fatalf("empty group should report empty kind")
	}
}

func TestAliases(t *testing.T) {
	cases := map[string]string{
		"openURL":       ActionOpenURL,
		"performAction": ActionPerformAction,
		ActionSetValue:  ActionSetValue,
	}
	for in, want := range cases {
		if got := CanonicalAction(in); got != want {
			t.Errorf("CanonicalAction(%q) = %q, want %q", in, got, want)
		}
	}
	if NormalizeReferenceType("List") != ReferencePageList || NormalizeReferenceType("Group") != ReferencePageGroup {
		t.Fatalf("reference type aliases not folded")
	}
}

func TestSourceFor(t *testing.T) {
	src, err := SourceFor("https://example.com/view.json")
	if err != nil || src.Kind() != SourceKindURL {
		t.Fatalf("expected url source, got %v %v", src, err)
	}
	src, err = SourceFor("views/collect.yaml")
	if err != nil || src.Kind() != SourceKindFile {
		t.Fatalf("expected file source, got %v %v", src, err)
	}
	if _, err := SourceFor(""); err == nil {
		t.Fatalf("expected error for empty source")
	}
}
