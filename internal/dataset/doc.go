// Package dataset loads, generates and writes event datasets.
//
// A dataset is a dimensionality plus a list of events. Three on-disk formats
// are understood, chosen by file extension:
//
//   - .txt (or no extension): a header "<count> <dim>" followed by count
//     records "<time> <c0> ... <cD-1>", all whitespace separated
//   - .yaml, .yml, .json: {name, dimensions, events: [{time, coordinates}]}
//   - .cue: the same shape as YAML, validated against a CUE schema
//
// Sortedness is detected in a single pass while reading; events are kept in
// input order so that the solver can apply its stable tie-break.
//
// Errors carry a code (E2xx) and the file position when one is known.
package dataset
