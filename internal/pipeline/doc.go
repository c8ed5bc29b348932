// Package pipeline runs template files through a sequence of steps.
//
// A Job carries one file from reading through extraction and, for
// exchanges, rewriting and writing. Each step receives the job and fills in
// the fields later steps depend on:
//
//	ReadStep     -> Content, Hash
//	ExtractStep  -> Findings
//	RewriteStep  -> Rewritten, Result (stages keys into the locale store)
//	WriteStep    -> backup and in-place write unless the run is a dry run
//
// BatchProcessor runs read-only pipelines for many files concurrently with
// errgroup. Pipelines that rewrite files share one locale store and must run
// sequentially.
//
// Design decision: We run rewrites one file at a time rather than locking
// the locale store because:
// 1. Key allocation checks the store for conflicts, so the order of files
// decides which text gets a suffixed key
// 2. A sequential run gives the same keys on every run and in dry runs
// 3. A failure leaves every earlier file fully written and no later file touched
package pipeline
