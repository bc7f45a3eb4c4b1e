// Package memdb is the in-memory relational store behind the story scaffold.
//
// A Database owns named tables. Each table holds an ordered list of typed
// column descriptors and a slice of positional rows whose first value is the
// integer id. Tables assign ids from an auto-increment counter, honor explicit
// ids supplied by loaders, and enforce declared unique-key groups through
// indexes maintained on every insert, update, and delete.
//
// Lookups are linear scans; the collections are small and the store makes no
// attempt at query planning.
package memdb
