package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/pidlayout/pkg/diagram"
	pidio "github.com/matzehuels/pidlayout/pkg/io"
	"github.com/matzehuels/pidlayout/pkg/preview"
)

// Render generates output artifacts in the requested formats.
//
// json and msgpack are the diagram itself; dot and svg are the graphviz
// preview with every layer drawn.
func Render(ctx context.Context, d *diagram.Diagram, formats []string) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(formats))
	var dot string

	for _, format := range formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data, err = pidio.MarshalDiagram(d, pidio.FormatJSON)
		case FormatMsgpack:
			data, err = pidio.MarshalDiagram(d, pidio.FormatMsgpack)
		case FormatDOT:
			if dot == "" {
				dot = preview.ToDOT(d, preview.AllLayers)
			}
			data = []byte(dot)
		case FormatSVG:
			if dot == "" {
				dot = preview.ToDOT(d, preview.AllLayers)
			}
			data, err = preview.RenderSVG(ctx, dot)
		default:
			return nil, ValidateFormat(format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
