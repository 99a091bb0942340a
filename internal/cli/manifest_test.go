package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/boxlogic/stowplan/pkg/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadManifestTOML(t *testing.T) {
	path := writeFile(t, "load.toml", `
[container]
length = 12.0
width = 2.3
height = 2.4
unit = "m"

[[items]]
name = "crate"
length = 120
width = 80
height = 100
quantity = 4
unit = "cm"

[[items]]
name = "drum"
length = 0.6
width = 0.6
height = 0.9
quantity = 2
rotation_allowed = true
`)

	m, err := readManifest(path)
	if err != nil {
		t.Fatalf("readManifest: %v", err)
	}
	if m.Container.Length != 12 || m.Container.Unit != "m" {
		t.Errorf("container = %+v", m.Container)
	}
	if len(m.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(m.Items))
	}
	if m.Items[0].Name != "crate" || m.Items[0].Quantity != 4 || m.Items[0].Unit != "cm" {
		t.Errorf("first item = %+v", m.Items[0])
	}
	if !m.Items[1].RotationAllowed {
		t.Error("rotation flag should survive parsing")
	}
}

func TestReadManifestJSON(t *testing.T) {
	path := writeFile(t, "load.json", `{
		"container": {"length": 2, "width": 2, "height": 2},
		"items": [{"name": "box", "length": 1, "width": 1, "height": 1, "quantity": 1}]
	}`)

	m, err := readManifest(path)
	if err != nil {
		t.Fatalf("readManifest: %v", err)
	}
	if len(m.Items) != 1 || m.Items[0].Name != "box" {
		t.Errorf("items = %+v", m.Items)
	}
}

func TestReadManifestMissingFile(t *testing.T) {
	_, err := readManifest(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("code = %v, want FILE_NOT_FOUND", errors.GetCode(err))
	}
}

func TestReadManifestMalformed(t *testing.T) {
	path := writeFile(t, "bad.toml", "container = [not toml")
	_, err := readManifest(path)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("code = %v, want INVALID_FORMAT", errors.GetCode(err))
	}
}

func TestReadPacked(t *testing.T) {
	path := writeFile(t, "packed.json", `[
		{"name": "crate", "position": [0, 0, 0], "dimensions": {"length": 1, "width": 1, "height": 1}},
		{"name": "crate", "position": {"x": 1, "y": 0, "z": 0}, "dimensions": {"length": 1, "width": 1, "height": 1}}
	]`)

	items, err := readPacked(path)
	if err != nil {
		t.Fatalf("readPacked: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if items[1].Position[0] != 1 {
		t.Errorf("object-form position not decoded: %+v", items[1].Position)
	}
}
