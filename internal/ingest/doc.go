// Package ingest acquires and prepares documents for indexing. It
// loads local files, crawls configured web pages, splits text into
// overlapping chunks and watches the document directory for changes.
package ingest
