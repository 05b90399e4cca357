package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"cfgfile/internal/cfgfile"
	"cfgfile/internal/watch"
)

var testSchema = heredoc.Doc(`
	Window:
	  width:      {type: int_range, min: 1, max: 4096, default: "800"}
	  height:     {type: int_range, min: 1, max: 4096, default: "600"}
	  fullscreen: {type: bool, default: "false"}
	Display:
	  size:  {type: resolution, default: 1280x720}
	  title: {type: string, default: untitled, optional: true}
`)

const validConfig = `# game settings
[Window]
width = 1280
height = 720
fullscreen = true

[Display]
size = 1920x1080
title = "My Game"
`

// setupTestApp creates an App on an in-memory filesystem holding the test
// schema at /app.cfg.schema.yaml and, if config is non-empty, /app.cfg.
func setupTestApp(t *testing.T, config string) (*App, *bytes.Buffer) {
	t.Helper()
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/app.cfg.schema.yaml", []byte(testSchema), 0644); err != nil {
		t.Fatalf("writing schema: %v", err)
	}
	if config != "" {
		if err := afero.WriteFile(fs, "/app.cfg", []byte(config), 0644); err != nil {
			t.Fatalf("writing config: %v", err)
		}
	}
	var out bytes.Buffer
	app := &App{
		Fs:  fs,
		Out: &out,
		Err: &out,
	}
	return app, &out
}

func run(t *testing.T, cmd *cobra.Command, args ...string) error {
	t.Helper()
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.Execute()
}

func readFile(t *testing.T, app *App, path string) string {
	t.Helper()
	raw, err := afero.ReadFile(app.Fs, path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(raw)
}

func TestCheck_Valid(t *testing.T) {
	app, out := setupTestApp(t, validConfig)

	if err := run(t, newCheckCmd(NewTestProvider(app)), "/app.cfg"); err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "ok /app.cfg" {
		t.Errorf("output = %q, want %q", got, "ok /app.cfg")
	}
}

func TestCheck_ReportsEveryIssue(t *testing.T) {
	app, out := setupTestApp(t, heredoc.Doc(`
		[Window]
		width = 0
		depth = 3
		[Audio]
		height = 600
	`))

	err := run(t, newCheckCmd(NewTestProvider(app)), "/app.cfg")
	if err == nil {
		t.Fatal("check succeeded on invalid file")
	}
	if !strings.Contains(err.Error(), "6 problem(s)") {
		t.Errorf("error = %v, want 6 problems", err)
	}

	// height is found: the unknown group leaves Window as the current group.
	// The rejected width is reported again as missing.
	want := heredoc.Doc(`
		/app.cfg: error: line 2: value failed validation: Window:width = "0"
		/app.cfg: error: line 3: unknown value: Window:depth
		/app.cfg: error: line 4: unknown group: Audio
		/app.cfg: missing: value not found: Display:size
		/app.cfg: missing: value not found: Window:fullscreen
		/app.cfg: missing: value not found: Window:width
	`)
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestCheck_AllowMissing(t *testing.T) {
	app, out := setupTestApp(t, "[Window]\nwidth = 10\nheight = 10\n")
	app.AllowMissing = true

	if err := run(t, newCheckCmd(NewTestProvider(app)), "/app.cfg"); err != nil {
		t.Fatalf("check with --allow-missing failed: %v\n%s", err, out.String())
	}
}

func TestCheck_JSON(t *testing.T) {
	app, out := setupTestApp(t, "[Window]\nwidth = 1280\nheight = 720\n[Display]\nsize = 1920x1080\n")
	app.JSON = true

	err := run(t, newCheckCmd(NewTestProvider(app)), "/app.cfg")
	if err == nil {
		t.Fatal("check succeeded despite a missing field")
	}

	var result CheckJSON
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}
	want := CheckJSON{
		File:   "/app.cfg",
		Schema: "/app.cfg.schema.yaml",
		Valid:  false,
		Issues: []IssueJSON{{
			Kind:    "missing_value",
			Group:   "Window",
			Key:     "fullscreen",
			Message: "value not found: Window:fullscreen",
		}},
	}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("JSON mismatch (-want +got):\n%s", diff)
	}
}

func TestCheck_JSONKeepsEmptyValue(t *testing.T) {
	app, out := setupTestApp(t, "[Window]\nwidth =\nheight = 1\nfullscreen = 0\n[Display]\nsize = 800x600\n")
	app.JSON = true

	if err := run(t, newCheckCmd(NewTestProvider(app)), "/app.cfg"); err == nil {
		t.Fatal("check accepted an empty width")
	}

	var result struct {
		Issues []map[string]interface{} `json:"issues"`
	}
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out.String())
	}
	if len(result.Issues) == 0 {
		t.Fatalf("no issues in %s", out.String())
	}
	issue := result.Issues[0]
	if issue["kind"] != "invalid_value" {
		t.Errorf("kind = %v, want invalid_value", issue["kind"])
	}
	value, ok := issue["value"]
	if !ok || value != "" {
		t.Errorf("value = %v (present %v), want empty string", value, ok)
	}
}

func TestCheck_MissingFile(t *testing.T) {
	app, _ := setupTestApp(t, "")
	err := run(t, newCheckCmd(NewTestProvider(app)), "/app.cfg")
	if err == nil || !strings.Contains(err.Error(), "source unavailable") {
		t.Errorf("err = %v, want source unavailable", err)
	}
}

func TestCheck_NoSchema(t *testing.T) {
	app, _ := setupTestApp(t, validConfig)
	if err := afero.WriteFile(app.Fs, "/other.cfg", []byte(validConfig), 0644); err != nil {
		t.Fatal(err)
	}
	if err := run(t, newCheckCmd(NewTestProvider(app)), "/other.cfg"); err == nil {
		t.Error("check succeeded without a schema")
	}
}

func TestCheck_ExplicitTOMLSchema(t *testing.T) {
	app, _ := setupTestApp(t, "[Net]\nport = 8080\n")
	app.SchemaPath = "/net.toml"
	if err := afero.WriteFile(app.Fs, "/net.toml", []byte("[Net.port]\ntype = \"int_range\"\nmin = 1\nmax = 65535\ndefault = \"80\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := run(t, newCheckCmd(NewTestProvider(app)), "/app.cfg"); err != nil {
		t.Fatalf("check with TOML schema failed: %v", err)
	}
}

func TestGet_Value(t *testing.T) {
	app, out := setupTestApp(t, validConfig)

	if err := run(t, newGetCmd(NewTestProvider(app)), "/app.cfg", "Display.title"); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "My Game" {
		t.Errorf("get = %q, want %q", got, "My Game")
	}
}

func TestGet_As(t *testing.T) {
	tests := []struct {
		key, as, want string
	}{
		{"Window.fullscreen", "bool", "true"},
		{"Window:width", "int", "1280"},
		{"Window.height", "float", "720"},
		{"Display.size", "string", "1920x1080"},
	}
	for _, tt := range tests {
		app, out := setupTestApp(t, validConfig)
		if err := run(t, newGetCmd(NewTestProvider(app)), "/app.cfg", tt.key, "--as", tt.as); err != nil {
			t.Fatalf("get %s --as %s failed: %v", tt.key, tt.as, err)
		}
		if got := strings.TrimSpace(out.String()); got != tt.want {
			t.Errorf("get %s --as %s = %q, want %q", tt.key, tt.as, got, tt.want)
		}
	}
}

func TestGet_JSON(t *testing.T) {
	app, out := setupTestApp(t, validConfig)
	app.JSON = true

	if err := run(t, newGetCmd(NewTestProvider(app)), "/app.cfg", "Window.width", "--as", "int"); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	var result map[string]interface{}
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if result["value"] != float64(1280) {
		t.Errorf("value = %v, want 1280", result["value"])
	}
}

func TestGet_DefaultedOptionalKey(t *testing.T) {
	app, out := setupTestApp(t, "[Window]\nwidth = 1\nheight = 1\nfullscreen = 0\n[Display]\nsize = 800x600\n")

	if err := run(t, newGetCmd(NewTestProvider(app)), "/app.cfg", "Display.title"); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "untitled" {
		t.Errorf("get = %q, want default %q", got, "untitled")
	}
}

func TestGet_Errors(t *testing.T) {
	tests := []struct {
		name   string
		config string
		args   []string
		want   string
	}{
		{"unknown key", validConfig, []string{"/app.cfg", "Window.depth"}, "not found"},
		{"bad key syntax", validConfig, []string{"/app.cfg", "width"}, "want group.key"},
		{"bad --as", validConfig, []string{"/app.cfg", "Window.width", "--as", "date"}, "invalid --as"},
		{"invalid file", "[Window]\nwidth = abc\n", []string{"/app.cfg", "Window.width"}, "is not valid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _ := setupTestApp(t, tt.config)
			err := run(t, newGetCmd(NewTestProvider(app)), tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestSet_WritesNormalizedFile(t *testing.T) {
	app, out := setupTestApp(t, validConfig)

	if err := run(t, newSetCmd(NewTestProvider(app)), "/app.cfg", "Window.width", "1920"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "Set Window.width = 1920" {
		t.Errorf("output = %q", got)
	}

	want := heredoc.Doc(`
		[Display]
		size = 1920x1080
		title = My Game
		[Window]
		fullscreen = true
		height = 720
		width = 1920
	`)
	if diff := cmp.Diff(want, readFile(t, app, "/app.cfg")); diff != "" {
		t.Errorf("file mismatch (-want +got):\n%s", diff)
	}
}

func TestSet_RejectsInvalidValue(t *testing.T) {
	app, _ := setupTestApp(t, validConfig)

	err := run(t, newSetCmd(NewTestProvider(app)), "/app.cfg", "Display.size", "1280x721")
	if err == nil || !strings.Contains(err.Error(), "value failed validation") {
		t.Fatalf("err = %v, want validation failure", err)
	}
	if got := readFile(t, app, "/app.cfg"); got != validConfig {
		t.Errorf("file changed after rejected set:\n%s", got)
	}
}

func TestSet_RejectsUnknownKey(t *testing.T) {
	app, _ := setupTestApp(t, validConfig)
	err := run(t, newSetCmd(NewTestProvider(app)), "/app.cfg", "Window.depth", "3")
	if err == nil || !strings.Contains(err.Error(), "unknown value") {
		t.Fatalf("err = %v, want unknown value", err)
	}
}

func TestSet_RejectsUnsaveableValue(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"newline injects lines", "x\n[Window]\nwidth = 7", "line break"},
		{"carriage return", "x\r", "line break"},
		{"leading space", " My Game", "whitespace"},
		{"trailing tab", "My Game\t", "whitespace"},
		{"double quoted", `"q"`, "quotes"},
		{"single quoted", `'q'`, "quotes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, out := setupTestApp(t, validConfig)

			err := run(t, newSetCmd(NewTestProvider(app)), "/app.cfg", "Display.title", tt.value)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want containing %q", err, tt.want)
			}
			if strings.Contains(out.String(), "Set ") {
				t.Errorf("reported success: %q", out.String())
			}
			if got := readFile(t, app, "/app.cfg"); got != validConfig {
				t.Errorf("file changed after rejected set:\n%s", got)
			}
		})
	}
}

func TestSet_ValueReadsBack(t *testing.T) {
	app, out := setupTestApp(t, validConfig)

	value := `say "hi" = ok`
	if err := run(t, newSetCmd(NewTestProvider(app)), "/app.cfg", "Display.title", value); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	out.Reset()
	if err := run(t, newGetCmd(NewTestProvider(app)), "/app.cfg", "Display.title"); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got := strings.TrimSuffix(out.String(), "\n"); got != value {
		t.Errorf("get = %q, want %q", got, value)
	}
}

func TestList_Table(t *testing.T) {
	app, out := setupTestApp(t, validConfig)

	if err := run(t, newListCmd(NewTestProvider(app)), "/app.cfg"); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"GROUP", "KEY", "VALUE", "Display", "1920x1080", "My Game", "fullscreen"} {
		if !strings.Contains(got, want) {
			t.Errorf("table missing %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "Display") > strings.Index(got, "Window") {
		t.Errorf("groups not sorted:\n%s", got)
	}
}

func TestList_YAML(t *testing.T) {
	app, out := setupTestApp(t, validConfig)

	if err := run(t, newListCmd(NewTestProvider(app)), "/app.cfg", "--format", "yaml"); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	want := heredoc.Doc(`
		Display:
		    size: 1920x1080
		    title: My Game
		Window:
		    fullscreen: "true"
		    height: "720"
		    width: "1280"
	`)
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("yaml mismatch (-want +got):\n%s", diff)
	}
}

func TestList_JSON(t *testing.T) {
	app, out := setupTestApp(t, validConfig)
	app.JSON = true

	if err := run(t, newListCmd(NewTestProvider(app)), "/app.cfg"); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	var got map[string]map[string]string
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	want := map[string]map[string]string{
		"Window":  {"width": "1280", "height": "720", "fullscreen": "true"},
		"Display": {"size": "1920x1080", "title": "My Game"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("JSON mismatch (-want +got):\n%s", diff)
	}
}

func TestFmt_Stdout(t *testing.T) {
	app, out := setupTestApp(t, "[Window]\n  width=1280\nheight = '720'\nfullscreen = 1\n[Display]\nsize = 800x600\n")

	if err := run(t, newFmtCmd(NewTestProvider(app)), "/app.cfg"); err != nil {
		t.Fatalf("fmt failed: %v", err)
	}
	want := heredoc.Doc(`
		[Display]
		size = 800x600
		title = untitled
		[Window]
		fullscreen = 1
		height = 720
		width = 1280
	`)
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("fmt mismatch (-want +got):\n%s", diff)
	}
}

func TestFmt_Write(t *testing.T) {
	app, _ := setupTestApp(t, validConfig)

	if err := run(t, newFmtCmd(NewTestProvider(app)), "/app.cfg", "--write"); err != nil {
		t.Fatalf("fmt --write failed: %v", err)
	}
	if got := readFile(t, app, "/app.cfg"); strings.Contains(got, "#") {
		t.Errorf("comments survived formatting:\n%s", got)
	}
}

func TestInit_WritesDefaults(t *testing.T) {
	app, out := setupTestApp(t, "")

	if err := run(t, newInitCmd(NewTestProvider(app)), "/app.cfg"); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if !strings.Contains(out.String(), "5 default value(s)") {
		t.Errorf("output = %q", out.String())
	}

	want := heredoc.Doc(`
		[Display]
		size = 1280x720
		title = untitled
		[Window]
		fullscreen = false
		height = 600
		width = 800
	`)
	if diff := cmp.Diff(want, readFile(t, app, "/app.cfg")); diff != "" {
		t.Errorf("file mismatch (-want +got):\n%s", diff)
	}
}

func TestInit_RefusesOverwrite(t *testing.T) {
	app, _ := setupTestApp(t, validConfig)

	err := run(t, newInitCmd(NewTestProvider(app)), "/app.cfg")
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("err = %v, want already exists", err)
	}

	if err := run(t, newInitCmd(NewTestProvider(app)), "/app.cfg", "--force"); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}
	if strings.Contains(readFile(t, app, "/app.cfg"), "My Game") {
		t.Error("init --force kept old values")
	}
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	root := newRootCmd(&AppProvider{})
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	want := []string{"check", "fmt", "get", "init", "list", "set", "version", "watch"}
	for _, w := range want {
		found := false
		for _, n := range names {
			if n == w {
				found = true
			}
		}
		if !found {
			t.Errorf("root command missing %q (have %v)", w, names)
		}
	}
}

func TestSplitKey(t *testing.T) {
	tests := []struct {
		in         string
		group, key string
		ok         bool
	}{
		{"Window.width", "Window", "width", true},
		{"Window:width", "Window", "width", true},
		{"width", "", "", false},
		{".width", "", "", false},
		{"Window.", "", "", false},
	}
	for _, tt := range tests {
		g, k, err := splitKey(tt.in)
		if (err == nil) != tt.ok || g != tt.group || k != tt.key {
			t.Errorf("splitKey(%q) = %q, %q, %v", tt.in, g, k, err)
		}
	}
}

func TestReportReload(t *testing.T) {
	app, out := setupTestApp(t, "")
	NewTestProvider(app)

	reportReload(app, "/app.cfg", "/app.cfg.schema.yaml", watch.Result{})
	reportReload(app, "/app.cfg", "/app.cfg.schema.yaml", watch.Result{
		Err: &cfgfile.ParseError{Issues: []cfgfile.Issue{{Line: 3, Kind: cfgfile.UnknownGroup, Group: "Audio"}}},
	})
	reportReload(app, "/app.cfg", "/app.cfg.schema.yaml", watch.Result{Err: cfgfile.ErrSourceUnavailable})

	want := heredoc.Doc(`
		ok /app.cfg
		/app.cfg: error: line 3: unknown group: Audio
		/app.cfg: error: config source unavailable
	`)
	if diff := cmp.Diff(want, out.String()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}
