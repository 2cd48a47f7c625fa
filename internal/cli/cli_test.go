package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/goliatone/go-formbuilder/internal/config"
	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/collector"
)

func runRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReadDefinitions_ListAndDocument(t *testing.T) {
	want := []collector.Draft{
		{Label: "Name", DefaultValue: "Ada"},
		{Label: "Age", Type: "number"},
	}

	list, err := readDefinitions(strings.NewReader("- label: Name\n  value: Ada\n- label: Age\n  type: number\n"))
	if err != nil {
		t.Fatalf("read list: %v", err)
	}
	if diff := cmp.Diff(want, list); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}

	doc, err := readDefinitions(strings.NewReader(`{"fields":[{"label":"Name","value":"Ada"},{"label":"Age","type":"number"}]}`))
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestReadDefinitions_AcceptsDefaultValueKey(t *testing.T) {
	got, err := readDefinitions(strings.NewReader(`[{"label":"Age","default_value":"36","type":"number"},{"label":"Name","value":"Ada"}]`))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := []collector.Draft{
		{Label: "Age", DefaultValue: "36", Type: "number"},
		{Label: "Name", DefaultValue: "Ada"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("definitions mismatch (-want +got):\n%s", diff)
	}
}

func TestReadDefinitions_RoundTripsDraftJSON(t *testing.T) {
	drafts := []collector.Draft{{Label: "Email", DefaultValue: "ada@example.com", Type: "email"}}
	raw, err := json.Marshal(drafts)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	got, err := readDefinitions(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if diff := cmp.Diff(drafts, got); diff != "" {
		t.Fatalf("definitions mismatch (-want +got):\n%s", diff)
	}
}

func TestSchemaCommand_Stdin(t *testing.T) {
	out, err := runRoot(t, "- label: Email\n  type: email\n- label: Age\n  value: \"36\"\n  type: number\n", "schema", "--title", "Signup")
	if err != nil {
		t.Fatalf("schema: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("expected json document: %v\n%s", err, out)
	}
	info, _ := doc["info"].(map[string]any)
	if info["title"] != "Signup" {
		t.Fatalf("unexpected info: %#v", info)
	}
	if !strings.Contains(out, `"format": "email"`) || !strings.Contains(out, `"/submit"`) {
		t.Fatalf("schema missing expected content:\n%s", out)
	}
}

func TestSchemaCommand_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fields.yaml")
	if err := os.WriteFile(path, []byte("fields:\n  - label: Name\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := runRoot(t, "", "schema", path, "--submit-path", "/signup")
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if !strings.Contains(out, `"/signup"`) || !strings.Contains(out, `"Name"`) {
		t.Fatalf("unexpected document:\n%s", out)
	}
}

func TestSchemaCommand_InvalidDefinition(t *testing.T) {
	_, err := runRoot(t, "- label: \"\"\n- label: Ok\n  type: date\n", "schema")
	if err == nil || !strings.Contains(err.Error(), "definition 1") {
		t.Fatalf("expected definition error, got %v", err)
	}
}

func TestDefineAll_StopsAtFirstInvalid(t *testing.T) {
	b := builder.New()
	err := defineAll(context.Background(), b, []collector.Draft{{Label: "A"}, {Label: "B", Type: "date"}, {Label: "C"}})
	if err == nil || !strings.Contains(err.Error(), "definition 2: type:") {
		t.Fatalf("unexpected error %v", err)
	}
	if b.List().Len() != 1 {
		t.Fatalf("expected only the first definition, got %d", b.List().Len())
	}
}

func TestNewHTTPHandler_ServesPage(t *testing.T) {
	cfg := config.Default()
	cfg.Server.BasePath = "/forms"

	handler, srv, err := newHTTPHandler(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("handler: %v", err)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/forms/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `action="/forms/fields"`) {
		t.Fatalf("unexpected response %d", rec.Code)
	}
	if srv.Sessions().Len() != 1 {
		t.Fatalf("expected a session to start")
	}
}

func TestThemeSelector_LoadsManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ocean.yaml")
	if err := os.WriteFile(path, []byte("name: ocean\ntokens:\n  brand: \"#0077b6\"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	selector, err := themeSelector(config.ThemeConfig{Manifest: path})
	if err != nil {
		t.Fatalf("selector: %v", err)
	}
	selection, err := selector.Select("ocean", "")
	if err != nil || selection.Manifest.Tokens["brand"] != "#0077b6" {
		t.Fatalf("unexpected selection %#v (%v)", selection, err)
	}
	if _, err := themeSelector(config.ThemeConfig{Manifest: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Fatalf("expected missing manifest error")
	}
}

func TestRootOptions_LogLevelFallsBackToEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	rt, err := (&rootOptions{}).load(&bytes.Buffer{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defer rt.cleanup()
	if !rt.logger.Core().Enabled(zap.DebugLevel) {
		t.Fatalf("expected LOG_LEVEL=debug to enable debug logging")
	}

	t.Setenv(config.EnvLogLevel, "error")
	rt, err = (&rootOptions{}).load(&bytes.Buffer{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	defer rt.cleanup()
	if rt.logger.Core().Enabled(zap.WarnLevel) {
		t.Fatalf("expected FORMBUILDER_LOG_LEVEL to win over LOG_LEVEL")
	}
}

func TestRootCmd_Commands(t *testing.T) {
	var names []string
	for _, c := range newRootCmd().Commands() {
		names = append(names, c.Name())
	}
	if diff := cmp.Diff([]string{"schema", "serve", "tui"}, names); diff != "" {
		t.Fatalf("commands mismatch (-want +got):\n%s", diff)
	}
}
