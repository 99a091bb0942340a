package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/boxlogic/stowplan/pkg/errors"
	"github.com/boxlogic/stowplan/pkg/geometry"
)

// manifest is the plan command's input file: the container and the
// items to load into it. TOML is the native format; JSON is accepted
// for machine-generated manifests.
type manifest struct {
	Container geometry.ContainerSpec `json:"container" toml:"container"`
	Items     []geometry.ItemSpec    `json:"items" toml:"items"`
}

// readManifest loads a manifest file, picking the decoder by extension.
func readManifest(path string) (manifest, error) {
	var m manifest

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest %s", path)
		}
		return m, errors.Wrap(errors.ErrCodeInvalidInput, err, "read manifest %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &m); err != nil {
			return m, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse manifest %s", path)
		}
	default:
		if err := toml.Unmarshal(data, &m); err != nil {
			return m, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse manifest %s", path)
		}
	}
	return m, nil
}

// readPacked loads a saved packing service response fragment: a JSON
// array of packed items with raw positions.
func readPacked(path string) ([]geometry.PackedItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "packed file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read packed file %s", path)
	}
	var items []geometry.PackedItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse packed file %s", path)
	}
	return items, nil
}
