// Package io reads input documents and reads and writes laid-out diagrams.
//
// # Input Documents
//
// An input document lists the drawing content before layout. It may be
// written as JSON or YAML; both are checked against the same embedded JSON
// schema before decoding:
//
//	metadata:
//	  drawing_number: PID-001
//	  title: Feed section
//	  revision: B
//	equipment:
//	  - {tag: P-101, type: pump}
//	  - {tag: V-101, type: vessel, attributes: {design_pressure: 45}}
//	connections:
//	  - {from: P-101, to: V-101, line_number: 6"-P-1001, size: 6}
//	instruments:
//	  - {tag: FT-101, description: Feed flow}
//	markups:
//	  - {type: callout, target: V-101, text: Relief to flare}
//
// Equipment "type" is a free-form name such as "tank" or "cooler"; it is
// normalized to a category during placement. "category" is accepted as a
// synonym. Numeric connection sizes are stored as strings.
//
// Use [ReadInput] for a reader with a known [Format] or [ImportInput] to pick
// the format from the file extension.
//
// # Diagrams
//
// Laid-out diagrams are written as indented JSON or as msgpack, the compact
// form used by the cache and by API clients that ask for it. [ReadDiagram]
// reads either back, which is how the rearrange command resumes from an
// earlier layout.
package io
