// Package domain defines the story records, their label vocabularies, and the
// read views composed by the scaffold.
package domain
