package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	tio "github.com/matzehuels/tornado/pkg/io"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces trimmed", "svg, json", []string{"svg", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSeries(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"2023", []string{"2023"}},
		{"2023, 2024,", []string{"2023", "2024"}},
	}
	for _, tt := range tests {
		if got := parseSeries(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseSeries(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSelection(t *testing.T) {
	if selectedIndex(-1) != nil {
		t.Error("selectedIndex(-1) should be nil")
	}
	if got := selectedIndex(3); got == nil || *got != 3 {
		t.Errorf("selectedIndex(3) = %v, want 3", got)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		format string
		single bool
		want   string
	}{
		{"derived from input", "", "data/sales.csv", "svg", true, "data/sales.svg"},
		{"explicit single", "chart.png", "sales.csv", "png", true, "chart.png"},
		{"base path with extension", "out/chart.svg", "sales.csv", "png", false, "out/chart.png"},
		{"base path without extension", "out/chart", "sales.csv", "pdf", false, "out/chart.pdf"},
		{"layout json suffix", "", "sales.json", "json", false, "sales.layout.json"},
		{"layout input", "", "sales.layout.json", "svg", true, "sales.svg"},
		{"url input", "", "https://example.com/data/sales.csv?rev=2", "png", true, "sales.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.output, tt.input, tt.format, tt.single); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{"svg": []byte("<svg/>"), "json": []byte("{}")},
		formats:   []string{"svg", "json", "png"},
		input:     filepath.Join(dir, "sales.csv"),
	})
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}
	want := []string{filepath.Join(dir, "sales.svg"), filepath.Join(dir, "sales.layout.json")}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
	data, err := os.ReadFile(want[0])
	if err != nil || string(data) != "<svg/>" {
		t.Errorf("svg file = %q, %v", data, err)
	}
}

func TestStatsLine(t *testing.T) {
	line := statsLine(3, 6, true)
	for _, want := range []string{"3 rows", "6 bars", iconCached} {
		if !strings.Contains(line, want) {
			t.Errorf("statsLine() = %q, missing %q", line, want)
		}
	}
	if !strings.Contains(statsLine(0, 0, false), iconFresh) {
		t.Error("uncached stats should say fresh")
	}
}

func writeTestCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sales.csv")
	data := "Region,2023,2024\nNorth,10,12\nSouth,-4,7\nEast,8,3\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	var logs syncBuffer
	c := New(&logs, log.DebugLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.Execute()
}

func TestRenderCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	input := writeTestCSV(t)
	base := filepath.Join(filepath.Dir(input), "out", "chart")
	if err := os.MkdirAll(filepath.Dir(base), 0o755); err != nil {
		t.Fatal(err)
	}

	err := runCLI(t, "render", input, "-f", "svg,json,png", "-o", base,
		"--measurer", "approx", "--select", "1", "--interactive", "--scale", "1")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if !strings.Contains(string(svg), "<script") {
		t.Error("interactive svg has no script")
	}
	doc, err := tio.ReadLayoutFile(base + ".layout.json")
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	if len(doc.Layout.Columns) != 6 {
		t.Errorf("columns = %d, want 6", len(doc.Layout.Columns))
	}
	if doc.Selected == nil || *doc.Selected != 1 {
		t.Errorf("selected = %v, want 1", doc.Selected)
	}
	if _, err := os.Stat(base + ".png"); err != nil {
		t.Errorf("png missing: %v", err)
	}
}

func TestLayoutThenVisualize(t *testing.T) {
	input := writeTestCSV(t)
	layoutPath := strings.TrimSuffix(input, ".csv") + ".layout.json"

	if err := runCLI(t, "layout", input, "--no-cache", "--measurer", "approx", "--series", "2024"); err != nil {
		t.Fatalf("layout error: %v", err)
	}
	doc, err := tio.ReadLayoutFile(layoutPath)
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	if len(doc.Series) != 1 || doc.Series[0].Name != "2024" {
		t.Errorf("series = %+v, want only 2024", doc.Series)
	}

	if err := runCLI(t, "visualize", layoutPath, "--no-cache"); err != nil {
		t.Fatalf("visualize error: %v", err)
	}
	svgPath := strings.TrimSuffix(input, ".csv") + ".svg"
	if data, err := os.ReadFile(svgPath); err != nil || !strings.HasPrefix(string(data), "<svg") {
		t.Errorf("visualize output %s: %v", svgPath, err)
	}

	jsonPath := filepath.Join(t.TempDir(), "selected.json")
	if err := runCLI(t, "visualize", layoutPath, "--no-cache", "--select", "2", "-f", "json", "-o", jsonPath); err != nil {
		t.Fatalf("visualize --select error: %v", err)
	}
	sel, err := tio.ReadLayoutFile(jsonPath)
	if err != nil {
		t.Fatalf("read reselected layout: %v", err)
	}
	if sel.Selected == nil || *sel.Selected != 2 {
		t.Errorf("Selected = %v, want 2", sel.Selected)
	}
	if got := sel.Layout.Columns[0].Opacity; got != 0.5 {
		t.Errorf("unselected column opacity = %v, want 0.5", got)
	}
}

func TestCommandErrors(t *testing.T) {
	input := writeTestCSV(t)
	tests := []struct {
		name string
		args []string
	}{
		{"bad format", []string{"render", input, "-f", "gif", "--no-cache"}},
		{"missing file", []string{"render", filepath.Join(t.TempDir(), "nope.csv"), "--no-cache"}},
		{"unsupported extension", []string{"layout", "data.txt", "--no-cache"}},
		{"unknown series", []string{"layout", input, "--series", "1999", "--no-cache"}},
		{"bad measurer", []string{"render", input, "--measurer", "ruler", "--no-cache"}},
		{"not a layout", []string{"visualize", input, "--no-cache"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runCLI(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestCacheClearCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	input := writeTestCSV(t)

	if err := runCLI(t, "render", input, "--measurer", "approx"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	dir, _ := cacheDir()
	if n := countFiles(t, dir); n == 0 {
		t.Fatal("render left no cache entries")
	}
	if err := runCLI(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	if n := countFiles(t, dir); n != 0 {
		t.Errorf("%d entries left after clear", n)
	}
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	_ = filepath.WalkDir(dir, func(_ string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			n++
		}
		return nil
	})
	return n
}
