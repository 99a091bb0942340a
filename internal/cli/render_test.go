package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestRunRenderFromSavedScene(t *testing.T) {
	c := newTestCLI(t)
	manifest := sampleManifest(t)
	sceneFile := filepath.Join(t.TempDir(), "scene.json")

	// Produce a scene with plan, then render it separately.
	err := c.runPlan(context.Background(), manifest, planOpts{
		output:  sceneFile,
		formats: []string{"json"},
		local:   true,
	})
	if err != nil {
		t.Fatalf("runPlan: %v", err)
	}

	output := filepath.Join(t.TempDir(), "scene.svg")
	if err := c.runRender(sceneFile, output, true, true, "demo"); err != nil {
		t.Fatalf("runRender: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	svg := string(data)
	if !strings.HasPrefix(svg, "<svg") {
		t.Error("output should be an SVG document")
	}
	if !strings.Contains(svg, "demo") {
		t.Error("title should appear in the SVG")
	}
	if !strings.Contains(svg, "crate") {
		t.Error("labels should appear in the SVG")
	}
}

func TestRunRenderDefaultOutput(t *testing.T) {
	c := newTestCLI(t)
	manifest := sampleManifest(t)
	dir := t.TempDir()
	sceneFile := filepath.Join(dir, "scene.json")

	if err := c.runPlan(context.Background(), manifest, planOpts{
		output:  sceneFile,
		formats: []string{"json"},
		local:   true,
	}); err != nil {
		t.Fatal(err)
	}

	if err := c.runRender(sceneFile, "", false, false, ""); err != nil {
		t.Fatalf("runRender: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "scene.svg")); err != nil {
		t.Errorf("default output missing: %v", err)
	}
}

func TestRunRenderMissingScene(t *testing.T) {
	c := New(io.Discard, log.FatalLevel)
	err := c.runRender(filepath.Join(t.TempDir(), "nope.json"), "", false, false, "")
	if err == nil {
		t.Fatal("missing scene should fail")
	}
}
