package io

import (
	"path/filepath"
	"strings"

	"github.com/matzehuels/depsort/pkg/errors"
)

// Format identifies a dependency document encoding.
type Format string

// Supported document formats.
const (
	FormatJSON  Format = "json"
	FormatTOML  Format = "toml"
	FormatYAML  Format = "yaml"
	FormatGraph Format = "graph"
)

// Formats lists every supported format name.
var Formats = []string{string(FormatJSON), string(FormatTOML), string(FormatYAML), string(FormatGraph)}

// ParseFormat validates a format name. "yml" is accepted as an alias for yaml.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "yml" {
		s = string(FormatYAML)
	}
	if err := errors.ValidateChoice(errors.ErrCodeInvalidFormat, "format", s, Formats); err != nil {
		return "", err
	}
	return Format(s), nil
}

// DetectFormat infers the format from a file name. Files ending in
// ".graph.json" use the graph format.
func DetectFormat(path string) (Format, error) {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".graph.json"):
		return FormatGraph, nil
	case strings.HasSuffix(name, ".json"):
		return FormatJSON, nil
	case strings.HasSuffix(name, ".toml"):
		return FormatTOML, nil
	case strings.HasSuffix(name, ".yaml"), strings.HasSuffix(name, ".yml"):
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer format of %s (use --format)", filepath.Base(path))
}
