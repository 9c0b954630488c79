// Package kbase provides a local engine for knowledge-base article corpora.
// It loads Markdown articles with KB-ID front matter, links them through
// their "Related Articles" lists, indexes them for full-text search and
// validates the corpus before it is published.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, goquery/, mcp/).
package kbase
