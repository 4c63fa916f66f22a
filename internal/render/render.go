// Package render prints an annotated tree as indented text, JSON or YAML.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/scott2000/jj-analyze/internal/analyze"
	"github.com/scott2000/jj-analyze/internal/ui"
)

// Format is an output format accepted by --output.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses the value of --output.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("invalid output format %q (want text, json or yaml)", s)
}

func (f Format) String() string { return string(f) }

// Set implements pflag.Value.
func (f *Format) Set(s string) error {
	parsed, err := ParseFormat(s)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Type implements pflag.Value.
func (f *Format) Type() string { return "format" }

// Write prints t to w in the given format. Color only applies to text.
func Write(w io.Writer, t *analyze.Tree, format Format, color ui.ColorMode) error {
	switch format {
	case FormatJSON:
		return JSON(w, t)
	case FormatYAML:
		return YAML(w, t)
	case FormatText, "":
		return Text(w, t, ui.NewStyles(ui.NewRenderer(w, color)))
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// Text prints t as an indented tree, one node per line.
func Text(w io.Writer, t *analyze.Tree, styles ui.Styles) error {
	var sb strings.Builder
	p := &printer{out: &sb, styles: styles}
	p.node(t, 0)
	_, err := io.WriteString(w, sb.String())
	return err
}

// JSON prints t as indented JSON.
func JSON(w io.Writer, t *analyze.Tree) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("failed to encode tree: %w", err)
	}
	return nil
}

// YAML prints t as a YAML document.
func YAML(w io.Writer, t *analyze.Tree) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("failed to encode tree: %w", err)
	}
	return enc.Close()
}
