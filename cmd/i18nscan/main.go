// Package main provides the entry point for the i18nscan CLI.
//
// i18nscan finds hardcoded, human-visible text in ERB/HTML templates and
// replaces it with translation lookups backed by a YAML locale file.
//
// Usage:
//
//	i18nscan find app/views
//	i18nscan exchange app/views/posts/index.html.erb
//	i18nscan auto --recursive app/views
//
// See --help for all available options.
package main

// main is the entry point for i18nscan.
func main() {
	Execute()
}
