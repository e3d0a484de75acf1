// Package links finds relative markdown links whose targets do not exist.
//
// Checker walks a root for *.md files, extracts inline link targets, ignores
// anchors and external schemes, and resolves the rest against the document
// directory or, for targets starting with "/", against the root.
package links
