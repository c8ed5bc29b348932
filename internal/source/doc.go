// Package source is the filesystem boundary for template files: lossy
// reads, in-place writes, backups, pattern expansion and content hashes.
package source
