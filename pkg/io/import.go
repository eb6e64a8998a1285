package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/pidlayout/pkg/diagram"
	"github.com/matzehuels/pidlayout/pkg/errors"
)

// Format is a serialization format.
type Format string

// Supported formats. Input documents are JSON or YAML; diagrams are JSON or
// msgpack.
const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// FormatFromPath guesses a format from a file extension. Unknown extensions
// are JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".msgpack", ".mpk":
		return FormatMsgpack
	}
	return FormatJSON
}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatMsgpack:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, yaml, msgpack)", s)
}

// document mirrors the on-disk input layout. It differs from [diagram.Input]
// where the file format is friendlier than the model.
type document struct {
	Metadata    diagram.Metadata     `json:"metadata"`
	Equipment   []equipmentDoc       `json:"equipment"`
	Connections []connectionDoc      `json:"connections"`
	Instruments []diagram.Instrument `json:"instruments"`
	Markups     []diagram.Markup     `json:"markups"`
}

type equipmentDoc struct {
	Tag         string         `json:"tag"`
	Type        string         `json:"type"`
	Category    string         `json:"category"`
	Description string         `json:"description"`
	Elevation   string         `json:"elevation"`
	Size        diagram.Size   `json:"size"`
	Position    diagram.Point  `json:"position"`
	Attributes  map[string]any `json:"attributes"`
}

type connectionDoc struct {
	From       string         `json:"from"`
	To         string         `json:"to"`
	LineNumber string         `json:"line_number"`
	Fluid      string         `json:"fluid"`
	Size       any            `json:"size"`
	Category   string         `json:"category"`
	Attributes map[string]any `json:"attributes"`
}

// ReadInput decodes and validates an input document.
//
// Schema violations, duplicate equipment tags and invalid tags are reported
// as INVALID_INPUT / INVALID_TAG errors. References between items (a
// connection to an unknown tag, say) are not checked here; the engines
// report those as diagnostics.
func ReadInput(r io.Reader, format Format) (diagram.Input, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return diagram.Input{}, fmt.Errorf("read input: %w", err)
	}

	switch format {
	case FormatYAML:
		var generic any
		if err := yaml.Unmarshal(raw, &generic); err != nil {
			return diagram.Input{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode yaml")
		}
		if raw, err = json.Marshal(generic); err != nil {
			return diagram.Input{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "convert yaml")
		}
	case FormatJSON, "":
	default:
		return diagram.Input{}, errors.New(errors.ErrCodeInvalidFormat, "input documents must be json or yaml, got %q", format)
	}

	if err := validate(gojsonschema.NewBytesLoader(raw)); err != nil {
		return diagram.Input{}, err
	}
	var doc document
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&doc); err != nil {
		return diagram.Input{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode input")
	}
	return doc.input()
}

// ImportInput reads an input document from path, choosing JSON or YAML by
// extension.
func ImportInput(path string) (diagram.Input, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return diagram.Input{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "input file %s", path)
		}
		return diagram.Input{}, err
	}
	defer f.Close()

	format := FormatFromPath(path)
	if format == FormatMsgpack {
		format = FormatJSON
	}
	in, err := ReadInput(f, format)
	if err != nil {
		return diagram.Input{}, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}

func (d document) input() (diagram.Input, error) {
	in := diagram.Input{
		Metadata:    d.Metadata,
		Instruments: d.Instruments,
		Markups:     d.Markups,
	}
	seen := make(map[string]bool, len(d.Equipment))
	for _, e := range d.Equipment {
		if err := errors.ValidateTag(e.Tag); err != nil {
			return diagram.Input{}, err
		}
		if seen[e.Tag] {
			return diagram.Input{}, errors.New(errors.ErrCodeInvalidInput, "duplicate equipment tag %q", e.Tag)
		}
		seen[e.Tag] = true

		kind := e.Type
		if kind == "" {
			kind = e.Category
		}
		in.Equipment = append(in.Equipment, diagram.EquipmentNode{
			Tag:         e.Tag,
			Category:    diagram.Category(kind),
			Position:    e.Position,
			Size:        e.Size,
			Elevation:   diagram.ElevationBand(e.Elevation),
			Description: e.Description,
			Attributes:  e.Attributes,
		})
	}
	for _, c := range d.Connections {
		size := ""
		if c.Size != nil {
			size = fmt.Sprint(c.Size)
		}
		in.Connections = append(in.Connections, diagram.Connection{
			From:        c.From,
			To:          c.To,
			LineNumber:  c.LineNumber,
			Fluid:       c.Fluid,
			NominalSize: size,
			Category:    diagram.PipeCategory(c.Category),
			Attributes:  c.Attributes,
		})
	}
	return in, nil
}
