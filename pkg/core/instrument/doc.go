// Package instrument classifies ISA-tagged instruments, ties them to
// equipment and lays them out on the canvas.
//
// [Process] runs the whole stage: every instrument tag is parsed
// ([ParseTag]), given a mounting location and a signal type, connected to
// an equipment node ([Infer]), grouped into control loops ([GroupLoops]),
// positioned by a [Layout] and finally linked to its equipment with a
// signal route.
//
// Tags follow the ISA-5.1 pattern: a measured-variable letter, zero or more
// function letters, a loop number and an optional suffix ("FIC-101A").
// Tags that do not match are kept as generic unclassified instruments and
// reported with a malformed-tag diagnostic.
//
// Connection inference works through a fixed order of increasingly loose
// heuristics, ending with the nearest equipment node. The keyword matching
// is literal substring search.
package instrument
