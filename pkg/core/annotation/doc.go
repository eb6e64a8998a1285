// Package annotation generates and places text annotations on a diagram.
//
// [Generate] derives annotations from the placed equipment, routes and
// drawing metadata: process data along pipes, equipment notes, safety
// warnings, and the fixed title-block style panels (design basis, revision,
// legend, general notes). [Place] then resolves overlaps.
//
// # Placement
//
// Annotations are handled in ascending priority, ties in input order. Fixed
// annotations keep their box. Each floating annotation tries its own box
// and then eight neighbours 50 units away, taking the first that overlaps
// nothing placed so far. When every candidate overlaps, the annotation is
// shifted 60 units right and a residual-overlap diagnostic is returned.
// Dense inputs can therefore still overlap; the diagnostics say where.
//
// # Generators
//
// [Callout], [Dimension] and [RevisionCloud] build single annotations on
// demand. Revision clouds take an explicit random source so the same seed
// always draws the same cloud.
package annotation
