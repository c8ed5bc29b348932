// Package config provides configuration structures and utilities for i18nscan.
// It defines the options governing extraction, key generation, file
// rewriting, report output and run history, and loads the optional
// .i18nscan file that overrides them per template path.
package config
