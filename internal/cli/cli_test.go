package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/snapline/pkg/errors"
	"github.com/matzehuels/snapline/pkg/geometry"
	"github.com/matzehuels/snapline/pkg/scene"
)

const pairScene = `{"components": [
	{"id": 1, "type": "Button", "x": 0, "y": 0, "width": 50, "height": 20},
	{"id": 2, "type": "Label", "x": 300, "y": 300, "width": 30, "height": 20}
]}`

// rowScene has gaps of 50 and 100, so both deviate from the 75 mean.
const rowScene = `{"components": [
	{"id": 1, "type": "Card", "x": 0, "y": 0, "width": 50, "height": 20},
	{"id": 2, "type": "Card", "x": 100, "y": 0, "width": 50, "height": 20},
	{"id": 3, "type": "Card", "x": 250, "y": 0, "width": 50, "height": 20}
]}`

// testEnv is a temporary config, profile directory and scene directory.
type testEnv struct {
	dir    string
	config string
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SNAPLINE_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))

	config := filepath.Join(dir, "snapline.toml")
	content := "[store]\nbackend = 'file'\ndir = '" + filepath.Join(dir, "profiles") + "'\n"
	if err := os.WriteFile(config, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return testEnv{dir: dir, config: config}
}

func (e testEnv) scene(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write scene: %v", err)
	}
	return path
}

// run executes the root command and returns what it wrote to its output.
func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", e.config}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (e testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("%s: %v", strings.Join(args, " "), err)
	}
	return out
}

func (e testEnv) totalActivations(t *testing.T) int {
	t.Helper()
	var stats struct {
		Statistics struct {
			TotalActivations int `json:"total_activations"`
		} `json:"statistics"`
	}
	if err := json.Unmarshal([]byte(e.mustRun(t, "learn", "stats", "--json")), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	return stats.Statistics.TotalActivations
}

func TestParseIDs(t *testing.T) {
	tests := []struct {
		in      string
		want    []geometry.ComponentID
		wantErr bool
	}{
		{"", nil, false},
		{"  ", nil, false},
		{"1,2,3", []geometry.ComponentID{1, 2, 3}, false},
		{" 4 , 5 ,", []geometry.ComponentID{4, 5}, false},
		{"1,x", nil, true},
		{"0", nil, true},
		{"-1", nil, true},
	}
	for _, tt := range tests {
		got, err := parseIDs(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseIDs(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("parseIDs(%q) code = %s, want %s", tt.in, errors.GetCode(err), errors.ErrCodeInvalidInput)
		}
		if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseIDs(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatting(t *testing.T) {
	if got := formatIDs([]geometry.ComponentID{3, 1}); got != "3, 1" {
		t.Errorf("formatIDs() = %q, want %q", got, "3, 1")
	}
	if got := formatPx(12.5); got != "12.5px" {
		t.Errorf("formatPx(12.5) = %q, want %q", got, "12.5px")
	}
	if got := formatPos(geometry.Pt(50, 0)); got != "(50, 0)" {
		t.Errorf("formatPos() = %q, want %q", got, "(50, 0)")
	}
	if got := joinPx([]float64{16, 8}); got != "8px, 16px" {
		t.Errorf("joinPx() = %q, want %q", got, "8px, 16px")
	}
}

func TestEvaluateCommandJSON(t *testing.T) {
	env := newTestEnv(t)
	path := env.scene(t, "pair.json", pairScene)

	out := env.mustRun(t, "evaluate", path, "--drag", "2", "--x", "52", "--y", "0", "--json")
	var res struct {
		SnapPosition *geometry.Position `json:"snap_position"`
		ActiveGuides []json.RawMessage  `json:"active_guides"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v (%s)", err, out)
	}
	if res.SnapPosition == nil || *res.SnapPosition != geometry.Pt(50, 0) {
		t.Errorf("snap_position = %v, want (50, 0)", res.SnapPosition)
	}
	if len(res.ActiveGuides) != 2 {
		t.Errorf("len(active_guides) = %d, want 2", len(res.ActiveGuides))
	}
}

func TestEvaluateCommandErrors(t *testing.T) {
	env := newTestEnv(t)
	path := env.scene(t, "pair.json", pairScene)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing scene", []string{"evaluate", filepath.Join(env.dir, "nope.json"), "--x", "1", "--y", "1"}, errors.ErrCodeFileNotFound},
		{"bad scene", []string{"evaluate", env.scene(t, "bad.json", `{"components": [{"id": 0}]}`), "--x", "1", "--y", "1"}, errors.ErrCodeInvalidScene},
		{"bad profile", []string{"--profile", "../x", "evaluate", path, "--x", "1", "--y", "1"}, errors.ErrCodeInvalidProfile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestAnalyzeCommandJSON(t *testing.T) {
	env := newTestEnv(t)
	row := env.scene(t, "row.json", rowScene)
	pair := env.scene(t, "pair.json", pairScene)

	var single struct {
		Inconsistencies []json.RawMessage `json:"inconsistencies"`
		Suggestions     []json.RawMessage `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(env.mustRun(t, "analyze", row, "--json")), &single); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(single.Inconsistencies) != 2 || len(single.Suggestions) != 2 {
		t.Errorf("analysis = %d inconsistencies, %d suggestions, want 2 and 2", len(single.Inconsistencies), len(single.Suggestions))
	}

	var multi map[string]json.RawMessage
	if err := json.Unmarshal([]byte(env.mustRun(t, "analyze", row, pair, "--json")), &multi); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := multi[row]; !ok || len(multi) != 2 {
		t.Errorf("analysis keys = %v, want both scene paths", reflect.ValueOf(multi).MapKeys())
	}
}

func TestDistributeCommandWritesScene(t *testing.T) {
	env := newTestEnv(t)
	row := env.scene(t, "row.json", rowScene)
	out := filepath.Join(env.dir, "even.json")

	env.mustRun(t, "distribute", row, "--ids", "1,2,3", "--output", out)

	sc, err := scene.ImportJSON(out)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if got := sc.Positions()[2]; got != geometry.Pt(125, 0) {
		t.Errorf("component 2 = %v, want (125, 0)", got)
	}
}

func TestReviewRecordsDecisions(t *testing.T) {
	env := newTestEnv(t)
	row := env.scene(t, "row.json", rowScene)
	out := filepath.Join(env.dir, "fixed.json")

	env.mustRun(t, "review", row, "--answers", "ar", "--output", out)

	sc, err := scene.ImportJSON(out)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	pos := sc.Positions()
	if pos[2] != geometry.Pt(125, 0) {
		t.Errorf("accepted fix: component 2 = %v, want (125, 0)", pos[2])
	}
	if pos[3] != geometry.Pt(250, 0) {
		t.Errorf("rejected fix: component 3 = %v, want (250, 0)", pos[3])
	}
	if got := env.totalActivations(t); got != 2 {
		t.Errorf("total activations = %d, want 2", got)
	}

	if _, err := env.run(t, "review", row, "--answers", "x"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("review --answers x = %v, want %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestLearnExportResetImport(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "learn", "record", "--guide", "spacing_guide", "--action", "accepted", "--components", "3", "--spacing", "16")
	env.mustRun(t, "learn", "record", "--guide", "alignment_guide", "--action", "rejected")
	if got := env.totalActivations(t); got != 2 {
		t.Fatalf("total activations = %d, want 2", got)
	}

	exported := filepath.Join(env.dir, "export.json")
	env.mustRun(t, "learn", "export", "--output", exported)
	stdout := env.mustRun(t, "learn", "export")
	file, err := os.ReadFile(exported)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if stdout != string(file) {
		t.Error("export to stdout differs from export to file")
	}

	env.mustRun(t, "learn", "reset")
	if got := env.totalActivations(t); got != 0 {
		t.Errorf("after reset: total activations = %d, want 0", got)
	}

	env.mustRun(t, "learn", "import", exported)
	if got := env.totalActivations(t); got != 2 {
		t.Errorf("after import: total activations = %d, want 2", got)
	}
}

func TestLearnProfilesAreSeparate(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "--profile", "work", "learn", "record", "--guide", "grid_snap", "--action", "ignored")

	if got := env.totalActivations(t); got != 0 {
		t.Errorf("default profile activations = %d, want 0", got)
	}
	if _, err := os.Stat(filepath.Join(env.dir, "profiles", "work.json")); err != nil {
		t.Errorf("work profile not saved: %v", err)
	}
}

func TestLearnErrors(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"bad guide", []string{"learn", "record", "--guide", "ruler", "--action", "accepted"}, errors.ErrCodeInvalidInput},
		{"bad action", []string{"learn", "record", "--guide", "grid_snap", "--action", "loved"}, errors.ErrCodeInvalidInput},
		{"import missing", []string{"learn", "import", filepath.Join(env.dir, "gone.json")}, errors.ErrCodeFileNotFound},
		{"import garbage", []string{"learn", "import", env.scene(t, "garbage.json", "{not json")}, errors.ErrCodeDecode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(t, tt.args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}
