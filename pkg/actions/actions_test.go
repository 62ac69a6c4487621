package actions

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-caseform/pkg/schema"
	"github.com/goliatone/go-caseform/pkg/store"
)

type stubHost struct {
	values    *store.Store
	refreshes []RefreshRequest
	performed []string
	err       error
}

func (h *stubHost) Store() *store.Store { return h.values }

func (h *stubHost) Refresh(_ context.Context, req RefreshRequest) error {
	h.refreshes = append(h.refreshes, req)
	return h.err
}

func (h *stubHost) PerformAction(_ context.Context, name string) error {
	h.performed = append(h.performed, name)
	return h.err
}

func fieldWith(sets ...schema.ActionSet) *schema.Field {
	return &schema.Field{
		FieldID:   "f1",
		Reference: "Trigger",
		Control:   schema.Control{Type: schema.ControlTextInput, ActionSets: sets},
	}
}

func actionSet(event string, actions ...schema.Action) schema.ActionSet {
	return schema.ActionSet{Events: []schema.Event{{Event: event}}, Actions: actions}
}

func setValue(name string, value schema.Token) schema.Action {
	return schema.Action{
		Action: schema.ActionSetValue,
		ActionProcess: &schema.ActionProcess{
			SetValuePairs: []schema.ValuePair{{Name: name, Value: value}},
		},
	}
}

func TestCompile_SetValueFoldsIntoRefresh(t *testing.T) {
	field := fieldWith(actionSet(schema.EventChange,
		setValue(".Target", schema.Text(`"X"`)),
		schema.Action{Action: schema.ActionRefresh, RefreshFor: "f1"},
	))

	h := Compile(field)
	if diff := cmp.Diff([]StepKind{StepRefresh}, h.Kinds()); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}
	if h.Steps[0].SetValue == nil {
		t.Fatalf("refresh step should carry the setValue process")
	}

	host := &stubHost{values: store.New(map[string]any{"Target": "old", "Other": "keep"})}
	if err := NewExecutor().Run(context.Background(), host, h); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(host.refreshes) != 1 {
		t.Fatalf("expected exactly one refresh, got %d", len(host.refreshes))
	}
	want := map[string]any{"Target": "X", "Other": "keep", "refreshFor": "f1"}
	if diff := cmp.Diff(want, host.refreshes[0].Payload); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if got := host.values.Value("Target"); got != "old" {
		t.Fatalf("store should not be written by a folded setValue, got %v", got)
	}
}

func TestCompile_OrderingAndDedup(t *testing.T) {
	field := fieldWith(
		actionSet(schema.EventClick,
			schema.Action{Action: schema.ActionPostValue},
			schema.Action{Action: schema.ActionRunScript, ActionProcess: &schema.ActionProcess{FunctionName: "a"}},
			schema.Action{Action: "unknownAction"},
		),
		actionSet(schema.EventBlur,
			schema.Action{Action: schema.ActionRefresh},
			schema.Action{Action: "performAction", ActionProcess: &schema.ActionProcess{ActionName: "Next"}},
			schema.Action{Action: "openURL", ActionProcess: &schema.ActionProcess{}},
			schema.Action{Action: schema.ActionRunScript, ActionProcess: &schema.ActionProcess{FunctionName: "b"}},
		),
	)

	h := Compile(field)
	want := []StepKind{StepRefresh, StepRunScript, StepPerformAction, StepOpenURL, StepRunScript}
	if diff := cmp.Diff(want, h.Kinds()); diff != "" {
		t.Fatalf("steps mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{schema.EventClick, schema.EventBlur}, h.Events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
	if !h.Handles(schema.EventBlur) || h.Handles(schema.EventChange) {
		t.Fatalf("unexpected event matching")
	}
}

func TestCompile_NoActionsIsNoop(t *testing.T) {
	h := Compile(fieldWith())
	if !h.Empty() {
		t.Fatalf("expected empty handler")
	}
	if err := NewExecutor().Run(context.Background(), nil, h); err != nil {
		t.Fatalf("empty handler should be a no-op, got %v", err)
	}
}

func TestRun_SetValueWritesStore(t *testing.T) {
	field := fieldWith(actionSet(schema.EventChange,
		schema.Action{Action: schema.ActionSetValue, ActionProcess: &schema.ActionProcess{
			SetValuePairs: []schema.ValuePair{
				{Name: ".Literal", Value: schema.Text(`"hello"`)},
				{Name: ".Flag", Value: schema.BoolToken(true)},
				{Name: ".Copy", Value: schema.Text(".Source")},
				{Name: ".Saved", ValueReference: &schema.ValueReference{Reference: ".Empty", LastSavedValue: "fallback"}},
			},
		}},
	))
	host := &stubHost{values: store.New(map[string]any{"Source": "copied", "Empty": "", "Sibling": "x"})}

	if err := NewExecutor().Run(context.Background(), host, Compile(field)); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := map[string]any{
		"Source":  "copied",
		"Empty":   "",
		"Sibling": "x",
		"Literal": "hello",
		"Flag":    true,
		"Copy":    "copied",
		"Saved":   "fallback",
	}
	if diff := cmp.Diff(want, host.values.Snapshot()); diff != "" {
		t.Fatalf("store mismatch (-want +got):\n%s", diff)
	}
	if len(host.refreshes) != 0 {
		t.Fatalf("setValue alone must not refresh")
	}
}

func TestRun_StepsSeeEachOthersWrites(t *testing.T) {
	var got []string
	scripts := NewScriptRegistry()
	scripts.MustRegister("observe", func(_ context.Context, args []string) error {
		got = args
		return nil
	})
	field := fieldWith(actionSet(schema.EventClick,
		setValue(".Name", schema.Text(`"Ada"`)),
		schema.Action{Action: schema.ActionRunScript, ActionProcess: &schema.ActionProcess{
			FunctionName:       "observe",
			FunctionParameters: []schema.ValuePair{{Name: "n", Value: schema.Text(".Name")}},
		}},
	))
	host := &stubHost{values: store.New(nil)}

	if err := NewExecutor(WithScripts(scripts)).Run(context.Background(), host, Compile(field)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff([]string{`"Ada"`}, got); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_ScriptArgumentFormatting(t *testing.T) {
	var got []string
	scripts := NewScriptRegistry()
	scripts.MustRegister("greet", func(_ context.Context, args []string) error {
		got = args
		return nil
	})

	field := fieldWith(actionSet(schema.EventClick, schema.Action{
		Action: schema.ActionRunScript,
		ActionProcess: &schema.ActionProcess{
			FunctionName: "greet",
			FunctionParameters: []schema.ValuePair{
				{Name: "s", Value: schema.Text(`"hello"`)},
				{Name: "missing", ValueReference: &schema.ValueReference{Reference: ".Nothing"}},
				{Name: "n", Value: schema.Text(".Count")},
				{Name: "b", Value: schema.BoolToken(false)},
				{Name: "literal", Value: schema.NumberToken(42)},
				{Name: "ratio", Value: schema.NumberToken(0.5)},
			},
		},
	}))
	host := &stubHost{values: store.New(map[string]any{"Count": 3})}

	if err := NewExecutor(WithScripts(scripts)).Run(context.Background(), host, Compile(field)); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []string{`"hello"`, "null", "3", "false", "42", "0.5"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_UnknownScriptIsFatal(t *testing.T) {
	field := fieldWith(actionSet(schema.EventClick,
		schema.Action{Action: schema.ActionRunScript, ActionProcess: &schema.ActionProcess{FunctionName: "missing"}},
		schema.Action{Action: schema.ActionRefresh},
	))
	host := &stubHost{values: store.New(nil)}

	err := NewExecutor().Run(context.Background(), host, Compile(field))
	if !errors.Is(err, ErrScriptNotFound) {
		t.Fatalf("expected ErrScriptNotFound, got %v", err)
	}
	if len(host.refreshes) != 0 {
		t.Fatalf("pipeline should stop at the failing step")
	}
}

func TestRun_PerformAction(t *testing.T) {
	field := fieldWith(actionSet(schema.EventClick, schema.Action{
		Action:        schema.ActionPerformAction,
		ActionProcess: &schema.ActionProcess{ActionName: "Review"},
	}))
	host := &stubHost{values: store.New(nil)}
	if err := NewExecutor().Run(context.Background(), host, Compile(field)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff([]string{"Review"}, host.performed); diff != "" {
		t.Fatalf("performed mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_OpenURL(t *testing.T) {
	type call struct{ URL, Name, Options string }
	var calls []call
	opener := WindowOpenerFunc(func(_ context.Context, url, name, options string) error {
		calls = append(calls, call{url, name, options})
		return nil
	})

	field := fieldWith(actionSet(schema.EventClick, schema.Action{
		Action: schema.ActionOpenURL,
		ActionProcess: &schema.ActionProcess{
			AlternateDomain: &schema.AlternateDomain{URLReference: &schema.ValueReference{Reference: ".Site"}},
			QueryParams: []schema.ValuePair{
				{Name: "q", Value: schema.Text(".Query")},
				{Name: "lang", Value: schema.Text(`"en"`)},
			},
			WindowName:    "results",
			WindowOptions: "width=400",
		},
	}))
	host := &stubHost{values: store.New(map[string]any{"Site": "example.com/search", "Query": "a b"})}

	if err := NewExecutor(WithWindowOpener(opener)).Run(context.Background(), host, Compile(field)); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := []call{{"http://example.com/search?q=a+b&lang=en", "results", "width=400"}}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildURLFallsBackToLastSavedValue(t *testing.T) {
	process := &schema.ActionProcess{AlternateDomain: &schema.AlternateDomain{
		URLReference: &schema.ValueReference{Reference: ".Missing", LastSavedValue: "https://saved.example"},
	}}
	got, err := BuildURL(store.New(nil), process)
	if err != nil {
		t.Fatal(err)
	}
	if got != "https://saved.example" {
		t.Fatalf("got %q", got)
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	field := fieldWith(actionSet(schema.EventClick, schema.Action{Action: schema.ActionRefresh}))
	host := &stubHost{values: store.New(nil)}
	if err := NewExecutor().Run(ctx, host, Compile(field)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestResolveProperty(t *testing.T) {
	values := store.New(map[string]any{"Name": "Ada", "Blank": ""})
	cases := []struct {
		name     string
		token    schema.Token
		fallback *schema.ValueReference
		want     any
	}{
		{"bool", schema.BoolToken(true), nil, true},
		{"number", schema.NumberToken(42), nil, 42.0},
		{"quoted", schema.Text(`"literal"`), nil, "literal"},
		{"reference", schema.Text(".Name"), nil, "Ada"},
		{"missing uses token", schema.Text(".Nope"), nil, ".Nope"},
		{"blank uses token", schema.Text("Blank"), nil, "Blank"},
		{"fallback saved", schema.Text(".Nope"), &schema.ValueReference{LastSavedValue: "saved"}, "saved"},
		{"fallback nil", schema.Text(".Nope"), &schema.ValueReference{}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ResolveProperty(values, tc.token, tc.fallback)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodedArgumentsFormatByKind(t *testing.T) {
	var tokens []schema.Token
	if err := json.Unmarshal([]byte(`[42, true, "\"hello\""]`), &tokens); err != nil {
		t.Fatalf("decode: %v", err)
	}
	values := store.New(nil)
	got := make([]string, 0, len(tokens))
	for _, token := range tokens {
		got = append(got, FormatArgument(ResolveProperty(values, token, nil)))
	}
	if diff := cmp.Diff([]string{"42", "true", `"hello"`}, got); diff != "" {
		t.Fatalf("args mismatch (-want +got):\n%s", diff)
	}
}
