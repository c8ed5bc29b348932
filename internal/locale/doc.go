// Package locale generates translation keys and maintains the YAML locale
// file they are written to.
//
// A locale file is a nested mapping rooted at the locale code:
//
//	en:
//	  views:
//	    posts:
//	      click_here: Click here!
//
// Dotted keys such as "views.posts.click_here" address leaves of that tree.
// Writes are last-write-wins and there is no locking, so callers must not
// update the same locale file from more than one goroutine or process.
package locale
