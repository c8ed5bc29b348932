// Package filter decides whether a candidate string is human-facing text.
//
// Every candidate collected by the lexical pre-processor or the structural
// extractor goes through Pipeline.Admit. The pipeline normalizes whitespace
// and applies an ordered list of hard rejection rules (length, placeholder
// leakage, ignore patterns, punctuation-only, interpolation syntax, braces,
// path shapes, code shapes). Admitted candidates become model.Finding values.
//
// The rules are biased toward precision: missing a real string is preferred
// over flagging code, because findings feed a destructive rewrite of the
// source file.
package filter
