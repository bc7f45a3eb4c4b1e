// Package seed bundles the starter campaign data loaded into an empty table.
package seed

import _ "embed"

//go:embed seed.txt
var text string

// Text returns the bundled seed document in the table text format.
func Text() string {
	return text
}
