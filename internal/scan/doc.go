// Package scan exposes the operations of i18nscan: finding hardcoded text in
// templates, exchanging it for translation lookups in one file, and doing so
// automatically over a directory.
//
// A Scanner owns the configuration, the structural parser and the logger.
// It assembles the pipeline steps for each operation; find runs may scan
// files concurrently, while exchange and auto runs are strictly sequential
// because every file updates the same locale file.
package scan
