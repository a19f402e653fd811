// Package extract finds base64 image payloads inside a parsed JSON tree and
// produces a redacted copy of the tree with those payloads blanked out.
//
// Both passes walk the tree independently and share one Matcher, so the set
// of extracted values and the set of redacted entries always agree.
package extract
