// Package bookshelf indexes book notes kept as markdown files in a GitHub
// repository and serves single chapters back on demand.
//
// A build crawls each configured collection's folder tree through the
// repository contents API, flattens it into a chapter index and persists the
// result as one artifact. At request time the index resolves a
// (book, chapter) pair to the remote file to fetch.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency or role (e.g., github/, sqlite/, crawl/).
package bookshelf
