// Package diagram defines the shared geometric model of a process diagram.
//
// Every engine in pkg/core consumes and produces these types: placement
// assigns [EquipmentNode] positions, routing turns [Connection] values into
// [Route] polylines, the instrumentation engine derives [Instrument]
// positions and [ControlLoop] groups, and the annotation engine emits
// [Annotation] boxes. The [Diagram] type bundles the finished result.
//
// # Coordinates
//
// All coordinates are canvas units with the origin at the top-left corner
// and y growing downwards. An equipment node's Position is its centre; its
// footprint is returned by [EquipmentNode.Bounds].
//
// # Diagnostics
//
// Engines never fail on data that can be defaulted. Skipped references,
// exhausted searches and residual overlaps are reported as [Diagnostic]
// values so callers can surface them without halting the pipeline.
package diagram
