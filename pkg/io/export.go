package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/pidlayout/pkg/diagram"
	"github.com/matzehuels/pidlayout/pkg/errors"
)

// MarshalDiagram encodes d as indented JSON or msgpack. Map keys are sorted
// in both encodings so equal diagrams produce equal bytes.
func MarshalDiagram(d *diagram.Diagram, format Format) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return json.MarshalIndent(d, "", "  ")
	case FormatMsgpack:
		var buf bytes.Buffer
		enc := msgpack.NewEncoder(&buf)
		enc.SetSortMapKeys(true)
		if err := enc.Encode(d); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "diagrams are written as json or msgpack, got %q", format)
}

// UnmarshalDiagram decodes a diagram written by [MarshalDiagram].
func UnmarshalDiagram(data []byte, format Format) (*diagram.Diagram, error) {
	var d diagram.Diagram
	var err error
	switch format {
	case FormatJSON, "":
		err = json.Unmarshal(data, &d)
	case FormatMsgpack:
		err = msgpack.Unmarshal(data, &d)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "diagrams are read as json or msgpack, got %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s diagram", format)
	}
	return &d, nil
}

// WriteDiagram encodes d to w. WriteDiagram does not close w.
func WriteDiagram(w io.Writer, d *diagram.Diagram, format Format) error {
	data, err := MarshalDiagram(d, format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write diagram: %w", err)
	}
	return nil
}

// ReadDiagram decodes a diagram from r.
func ReadDiagram(r io.Reader, format Format) (*diagram.Diagram, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read diagram: %w", err)
	}
	return UnmarshalDiagram(data, format)
}

// ExportDiagram writes d to path in the format implied by its extension.
func ExportDiagram(d *diagram.Diagram, path string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	data, err := MarshalDiagram(d, diagramFormat(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ImportDiagram reads a diagram from path.
func ImportDiagram(path string) (*diagram.Diagram, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "diagram file %s", path)
		}
		return nil, err
	}
	return UnmarshalDiagram(data, diagramFormat(path))
}

func diagramFormat(path string) Format {
	if FormatFromPath(path) == FormatMsgpack {
		return FormatMsgpack
	}
	return FormatJSON
}
