// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/learning-chatbot/pkg/types"
)

// ExportYAML writes snap to path as YAML. An existing file is replaced only
// when force is set.
func ExportYAML(path string, snap types.BrainSnapshot, force bool) error {
	data, err := yaml.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return writeExport(path, data, force)
}

// ExportJSON writes snap to path as indented JSON. An existing file is
// replaced only when force is set.
func ExportJSON(path string, snap types.BrainSnapshot, force bool) error {
	data, err := json.MarshalIndent(&snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return writeExport(path, data, force)
}

// Export picks the format from the file extension: .json writes JSON,
// anything else writes YAML.
func Export(path string, snap types.BrainSnapshot, force bool) error {
	if isJSON(path) {
		return ExportJSON(path, snap, force)
	}
	return ExportYAML(path, snap, force)
}

func writeExport(path string, data []byte, force bool) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating export directory: %w", err)
		}
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s", ErrExists, path)
	}
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// ImportFile reads a snapshot written by Export. A missing file yields an
// error matching fs.ErrNotExist.
func ImportFile(path string) (types.BrainSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.BrainSnapshot{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var snap types.BrainSnapshot
	if isJSON(path) {
		err = json.Unmarshal(data, &snap)
	} else {
		err = yaml.Unmarshal(data, &snap)
	}
	if err != nil {
		return types.BrainSnapshot{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return snap, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
