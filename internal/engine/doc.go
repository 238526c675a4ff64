// Package engine decodes, validates, re-encodes, and compares task-board
// documents: a YAML metadata block between `---` fences followed by free-form
// body text.
//
// Every operation in the package is pure. Inputs are treated as immutable and
// outputs are freshly allocated, so calls are safe from concurrent call
// sites. File I/O and caching belong to the callers.
package engine
