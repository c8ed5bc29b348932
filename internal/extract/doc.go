// Package extract walks parsed template markup and collects candidate
// human-visible strings.
//
// Extraction runs in a fixed order over one file:
//
//  1. template directives are neutralized by package directive, which also
//     yields literals found inside directive code
//  2. the remaining markup is parsed by the injected Parser
//  3. text nodes, human-facing attributes, embedded script literals and
//     JSON carried by data attributes are submitted to the filter pipeline
//  4. admitted findings are deduplicated on (text, kind)
//
// The structural parser is a required collaborator. Creating an Extractor
// without one fails with ErrNoParser before any file is read.
package extract
