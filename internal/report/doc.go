// Package report renders scan results for people and tools.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: Markdown with a mermaid chart for sharing in reviews
//   - SARIFWriter: SARIF 2.1.0 for code scanning dashboards
//
// Report writing is kept apart from the data structures in the model
// package so that new output formats do not touch the core types.
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output. Exchange and
// auto runs are rendered by the SummaryWriter implementations.
package report
