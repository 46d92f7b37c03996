// Package avl implements a generic AVL (self-balancing binary search) tree.
//
// It is used by internal/contact to keep parsed vCard entries ordered by a
// sort key (surname, then given name) as they stream in off the wire, the
// same way the calendar importer this package was lifted from used it to
// keep events ordered by start time.
package avl
