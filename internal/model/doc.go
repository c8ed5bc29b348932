// Package model defines the core data structures used throughout i18nscan.
//
// This package contains the following main types:
//   - Finding: One candidate hardcoded string with its classification and provenance
//   - Kind: The origin classification of a Finding, which drives replacement
//   - FileReport: All findings collected from one template file
//   - RunReport: The aggregated result of a find run over one or more files
//   - Replacement, ExchangeResult, AutoResult: Results of rewriting files
//
// Models live in their own package so that the extractor, rewriter, report
// writers and history database can share them without import cycles.
// Every type serializes to JSON for report output and database storage.
package model
