// Package rewrite replaces located findings in template content with
// translation lookups.
//
// Every occurrence is located against the original content and claimed, so
// a span rewritten for one finding can never be matched by another. Edits are
// then applied in descending offset order, which keeps the offsets of the
// edits still pending valid.
//
// The replacement depends on the finding kind:
//
//	directive literal   "Sign up"   ->  t("key")
//	text node           Sign up     ->  <%= t("key") %>
//	attribute           alt="Close" ->  alt="<%= t("key") %>"
//	script literal      'Saved'     ->  '<%= j t("key") %>'
//
// Strings found inside data attribute JSON are never rewritten.
package rewrite
