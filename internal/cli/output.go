package cli

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/matzehuels/tornado/pkg/httputil"
	"github.com/matzehuels/tornado/pkg/pipeline"
)

// nopCloser wraps an io.Writer with a no-op Close method.
type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// openOutput returns os.Stdout for "-" and a created file otherwise.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

// basePath derives the base output path. If output is empty, the input's
// extension (or a ".layout.json" suffix) is stripped. If output ends in a
// format extension (.svg, .png, ...), that extension is stripped. URL inputs
// are named after the last segment of their path, in the working directory.
func basePath(output, input string) string {
	if httputil.IsURL(input) {
		if u, err := url.Parse(input); err == nil {
			input = path.Base(u.Path)
		}
	}
	if output == "" {
		if strings.HasSuffix(input, layoutSuffix) {
			return strings.TrimSuffix(input, layoutSuffix)
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// layoutSuffix marks layout documents so they never overwrite a JSON data
// file.
const layoutSuffix = ".layout.json"

// outputPath names the file for one format. A single format may be written
// to an explicit output path as-is.
func outputPath(output, input, format string, single bool) string {
	if single && output != "" {
		return output
	}
	base := basePath(output, input)
	if format == pipeline.FormatJSON {
		return base + layoutSuffix
	}
	return base + "." + format
}

// artifactWriteParams holds parameters for writeArtifacts.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	input     string
	output    string
}

// writeArtifacts writes every rendered format and returns the paths written.
func writeArtifacts(p artifactWriteParams) ([]string, error) {
	var paths []string
	for _, format := range p.formats {
		data, ok := p.artifacts[format]
		if !ok {
			continue
		}
		path := outputPath(p.output, p.input, format, len(p.formats) == 1)
		if err := writeFile(path, data); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeFile(path string, data []byte) error {
	out, err := openOutput(path)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
