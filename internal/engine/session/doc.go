// Package session holds the cross-command state a modal session
// accumulates: the last search, the last substitution, the last
// f/F/t/T target, the last recorded change for repeat, the last visual
// selection, and the command-line histories.
//
// Components consult this state to implement repeat commands (n, ;, .,
// @@, gv, &) without reaching into each other. Observers registered
// with Subscribe are told which piece of state changed; they are
// invoked synchronously, outside the state lock, in registration
// order.
package session
