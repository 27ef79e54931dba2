package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Decode parses config data. name selects the encoding by extension and
// labels diagnostics.
//
// Decoding is strict: unknown fields are rejected. When strict decoding
// fails, the version field is probed leniently so that files written for a
// different schema version get a version error instead of a field error.
func Decode(name string, data []byte) (*File, error) {
	format, err := FormatFor(name)
	if err != nil {
		return nil, err
	}

	var f *File
	switch format {
	case FormatYAML:
		f, err = decodeYAML(data)
	case FormatTOML:
		f, err = decodeTOML(data)
	case FormatJSON:
		f, err = decodeJSON(data)
	case FormatHCL:
		f, err = decodeHCL(name, data)
	}
	if err != nil {
		if ver, perr := peekVersion(format, data); perr == nil && ver != 0 && ver != CurrentVersion {
			return nil, checkVersion(ver)
		}
		return nil, err
	}

	if err := checkVersion(f.Version); err != nil {
		return nil, err
	}
	if err := checkMinVersion(f.MinVersion); err != nil {
		return nil, err
	}
	return f, nil
}

func decodeYAML(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	return &f, nil
}

func decodeTOML(data []byte) (*File, error) {
	var f File
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			keys := make([]string, 0, len(serr.Errors))
			for _, e := range serr.Errors {
				keys = append(keys, strings.Join(e.Key(), "."))
			}
			return nil, fmt.Errorf("parsing toml: unknown fields: %s", strings.Join(keys, ", "))
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("parsing toml: line %d, column %d: %w", row, col, err)
		}
		return nil, fmt.Errorf("parsing toml: %w", err)
	}
	return &f, nil
}

func decodeJSON(data []byte) (*File, error) {
	var f File
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing json: %w", err)
	}
	return &f, nil
}
