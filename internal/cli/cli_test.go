package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	fgerrors "github.com/cwirth/forcelayout/pkg/errors"
	"github.com/cwirth/forcelayout/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single", "png", []string{"png"}},
		{"multiple", "svg,png,json", []string{"svg", "png", "json"}},
		{"spaces trimmed", "svg, png", []string{"svg", "png"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestApplyBarnesHutFlag(t *testing.T) {
	var opts pipeline.Options

	if err := applyBarnesHutFlag(&opts, "auto"); err != nil {
		t.Fatalf("auto: %v", err)
	}
	if opts.BarnesHut != nil {
		t.Error("auto should leave BarnesHut unset")
	}

	if err := applyBarnesHutFlag(&opts, "on"); err != nil {
		t.Fatalf("on: %v", err)
	}
	if opts.BarnesHut == nil || !*opts.BarnesHut {
		t.Error("on should enable BarnesHut")
	}

	if err := applyBarnesHutFlag(&opts, "off"); err != nil {
		t.Fatalf("off: %v", err)
	}
	if opts.BarnesHut == nil || *opts.BarnesHut {
		t.Error("off should disable BarnesHut")
	}

	if err := applyBarnesHutFlag(&opts, "maybe"); err == nil {
		t.Error("invalid value should return an error")
	}
}

func TestCacheDirXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)

	got, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir error: %v", err)
	}
	want := filepath.Join(dir, appName)
	if got != want {
		t.Errorf("cacheDir() = %q, want %q", got, want)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	want := map[string]bool{
		"layout":     false,
		"render":     false,
		"serve":      false,
		"cache":      false,
		"completion": false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("missing subcommand %s", name)
		}
	}
}

func TestApplySettings(t *testing.T) {
	c := &CLI{Settings: Settings{
		Layout: LayoutSettings{Iterations: 500, Scaling: 5},
	}}

	var opts pipeline.Options
	c.applySettings(&opts)

	if opts.Iterations != 500 {
		t.Errorf("Iterations = %d, want 500", opts.Iterations)
	}
	if opts.ScalingRatio != 5 {
		t.Errorf("ScalingRatio = %v, want 5", opts.ScalingRatio)
	}
	// Unset settings leave options at zero for pipeline defaults
	if opts.Seed != 0 {
		t.Errorf("Seed = %d, want 0", opts.Seed)
	}
}

func TestRunRenderRejectsBadOutputPath(t *testing.T) {
	c := New(io.Discard, LogInfo)
	err := c.runRender(context.Background(), "in.json", "", pipeline.Options{}, "out\x00.svg", true)
	if fgerrors.GetCode(err) != fgerrors.ErrCodeInvalidPath {
		t.Errorf("runRender code = %v, want %v", fgerrors.GetCode(err), fgerrors.ErrCodeInvalidPath)
	}
}

func TestRunLayoutRejectsBadOutputPath(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "g.json")
	doc := `{"nodes":[{"id":"a"},{"id":"b"}],"edges":[{"source":"a","target":"b"}]}`
	if err := os.WriteFile(in, []byte(doc), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c := New(io.Discard, LogInfo)
	opts := pipeline.Options{Iterations: 5}
	err := c.runLayout(context.Background(), in, opts, "out\x00.json", true, false)
	if fgerrors.GetCode(err) != fgerrors.ErrCodeInvalidPath {
		t.Errorf("runLayout code = %v, want %v", fgerrors.GetCode(err), fgerrors.ErrCodeInvalidPath)
	}
}
