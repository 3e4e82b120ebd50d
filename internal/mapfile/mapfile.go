// Package mapfile reads and writes base layouts and attack plans as JSON or
// YAML files, picking the format from the file extension.
package mapfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"cocsim/internal/game"
)

// Format is a file encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// ErrUnknownFormat is returned for paths without a .json, .yaml or .yml
// extension.
var ErrUnknownFormat = errors.New("unknown file format")

// FormatOf picks the encoding from the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
}

// Decode parses data in format f into out. JSON input rejects unknown
// fields so typos in building options surface early.
func Decode(data []byte, f Format, out any) error {
	switch f {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		return dec.Decode(out)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(out)
	}
}

// Encode serializes v in format f.
func Encode(v any, f Format) ([]byte, error) {
	switch f {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

func load(path string, out any) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := Decode(data, f, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func save(path string, v any) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Encode(v, f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadMap reads and validates a base layout.
func LoadMap(path string) (game.Map, error) {
	var m game.Map
	if err := load(path, &m); err != nil {
		return game.Map{}, err
	}
	if err := m.Validate(); err != nil {
		return game.Map{}, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// SaveMap writes m to path.
func SaveMap(path string, m game.Map) error {
	return save(path, m)
}

// LoadPlan reads an attack plan. Plans are checked against a map only when
// an executor is built.
func LoadPlan(path string) (game.AttackPlan, error) {
	var p game.AttackPlan
	if err := load(path, &p); err != nil {
		return game.AttackPlan{}, err
	}
	return p, nil
}

// SavePlan writes p to path.
func SavePlan(path string, p game.AttackPlan) error {
	return save(path, p)
}
