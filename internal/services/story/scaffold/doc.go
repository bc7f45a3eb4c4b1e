// Package scaffold is the story rule facade.
//
// A Scaffold owns the story database and is the only surface hosts call. It
// layers the game rules over the typed repositories: scene pip budgets,
// inventory merging, card play and unplay, cascading deletes, and deletes
// blocked by dependent rows. Every rule check runs before the first write, so
// a rejected call leaves state untouched.
//
// A Scaffold is not safe for concurrent use. Hosts serving more than one
// caller wrap it in a Session.
package scaffold
