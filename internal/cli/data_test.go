package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tornado/pkg/errors"
	tio "github.com/matzehuels/tornado/pkg/io"
	"github.com/matzehuels/tornado/pkg/settings"
)

func runCLIOutput(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var logs syncBuffer
	var out bytes.Buffer
	root := New(&logs, log.DebugLevel).RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	err := root.Execute()
	return out.String(), err
}

func TestDataCommand(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	input := writeTestCSV(t)

	stdout, err := runCLIOutput(t, "data", input, "--series", "2024")
	if err != nil {
		t.Fatalf("data error: %v", err)
	}
	dv, err := tio.ReadJSON(strings.NewReader(stdout))
	if err != nil {
		t.Fatalf("stdout is not a data view: %v", err)
	}
	if dv.Rows() != 3 || len(dv.Values) != 1 {
		t.Errorf("data view = %d rows, %d series; want 3, 1", dv.Rows(), len(dv.Values))
	}

	path := filepath.Join(t.TempDir(), "view.json")
	if _, err := runCLIOutput(t, "data", input, "-o", path); err != nil {
		t.Fatalf("data -o error: %v", err)
	}
	dv, err = tio.ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON() error: %v", err)
	}
	if len(dv.Values) != 2 {
		t.Errorf("exported series = %d, want 2", len(dv.Values))
	}
}

func TestSettingsCommand(t *testing.T) {
	out, err := runCLIOutput(t, "settings")
	if err != nil {
		t.Fatalf("settings error: %v", err)
	}
	s, err := settings.Decode(strings.NewReader(out))
	if err != nil {
		t.Fatalf("printed settings do not decode: %v\n%s", err, out)
	}
	if s.Precision != settings.Default().Precision {
		t.Errorf("Precision = %d, want default", s.Precision)
	}

	file := filepath.Join(t.TempDir(), "chart.toml")
	if err := os.WriteFile(file, []byte("[general]\nprecision = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err = runCLIOutput(t, "settings", "--settings", file)
	if err != nil {
		t.Fatalf("settings --settings error: %v", err)
	}
	if !strings.Contains(out, "precision = 3") {
		t.Errorf("output does not carry the file's precision:\n%s", out)
	}

	if err := os.WriteFile(file, []byte("[general]\nprecision = 99\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = runCLIOutput(t, "settings", "--settings", file)
	if !errors.Is(err, errors.ErrCodeInvalidSettings) {
		t.Errorf("invalid file error = %v, want INVALID_SETTINGS", err)
	}
}
