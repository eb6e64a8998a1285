// Package preview draws a quick look at a laid-out diagram with Graphviz.
//
// It is not a P&ID renderer. Equipment, instruments and annotations become
// pinned Graphviz nodes at their computed positions and pipes become edges,
// which is enough to eyeball a layout from the CLI or the HTTP service.
//
// [ToDOT] writes the DOT source, with every position pinned (pos="x,y!") in
// points and the y axis flipped so the picture matches canvas coordinates.
// [RenderSVG] lays it out in-process with neato via
// [github.com/goccy/go-graphviz]; no Graphviz binaries are needed.
package preview
