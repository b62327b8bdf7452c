package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/linecat/internal/model"
)

// ErrNotFound is wrapped by Load when the file does not exist.
var ErrNotFound = errors.New("config file not found")

// Format identifies the syntax of a defaults file.
type Format string

const (
	// FormatYAML is selected by the ".yaml" and ".yml" extensions.
	FormatYAML Format = "yaml"

	// FormatJSONC is JSON with comments, used for every other extension.
	FormatJSONC Format = "jsonc"
)

// File holds the defaults read from a config file. Zero values mean
// "not set" and leave the built-in defaults in place.
type File struct {
	// Mode is the numbering mode used when no numbering flag is given:
	// "none", "all" or "nonblank". Empty means "none".
	Mode string `json:"mode" yaml:"mode"`

	// Width is the number field width (1-20). Zero keeps the default.
	Width int `json:"width" yaml:"width"`

	// Strict enables a non-zero exit status on partial failure.
	Strict bool `json:"strict" yaml:"strict"`
}

// DetectFormat chooses the decoder for path from its extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSONC
	}
}

// Load reads and validates the defaults file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	f, err := Parse(data, DetectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates config data in the given format.
// Empty input yields an empty File.
func Parse(data []byte, format Format) (*File, error) {
	f := &File{}

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty document decodes to io.EOF, which is not an error here.
		if err := dec.Decode(f); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	case FormatJSONC:
		clean := jsonc.ToJSON(data)
		if len(bytes.TrimSpace(clean)) == 0 {
			break
		}
		dec := json.NewDecoder(bytes.NewReader(clean))
		dec.DisallowUnknownFields()
		if err := dec.Decode(f); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// NumberMode returns the parsed numbering mode. Call it only on a File
// that passed Validate.
func (f *File) NumberMode() model.NumberMode {
	if f.Mode == "" {
		return model.NumberNone
	}
	mode, _ := model.ParseNumberMode(f.Mode)
	return mode
}

// Validate checks the numbering mode and the width range.
func (f *File) Validate() error {
	if f.Mode != "" {
		if _, err := model.ParseNumberMode(f.Mode); err != nil {
			return err
		}
	}
	if f.Width != 0 && (f.Width < 1 || f.Width > model.MaxWidth) {
		return fmt.Errorf("width %d out of range (1-%d)", f.Width, model.MaxWidth)
	}
	return nil
}
