// Package manifest persists run and deck history in SQLite. The store is
// observability only: status commands read it, and nothing in the generation
// path depends on its contents.
package manifest
