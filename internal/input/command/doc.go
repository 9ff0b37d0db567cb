// Package command implements the incremental Vim command grammar.
//
// A Runner consumes one key at a time and recognizes commands of the
// form
//
//	[count] ["register] [count] {action}
//	[count] ["register] {operator} [count] {motion|text object}
//
// Keys feed in through ProcessKey, which reports one of four outcomes:
// StatusPending (the keys so far could still become a command),
// StatusComplete (a Command was recognized and all pending state
// cleared), StatusNoMatch (nothing can match; pending state discarded
// whole), or StatusError (an invalid register name or argument key;
// pending state discarded whole). Escape or Ctrl-C with pending input
// cancels it atomically and reports StatusCancelled.
//
// Count digits accumulate with overflow clamped. A leading zero is
// never a count digit: it falls through to the line-start motion.
// Counts typed before and after the operator multiply, so 2d3w deletes
// six words. Doubling the operator key selects whole lines (dd, yy,
// 2d3d); the g-operators double on their final key as well, so guu and
// gugu both lowercase a line.
//
// The Runner recognizes but does not execute. Actions come from a
// mode-specific definition Table, motions and text objects from the
// motion resolver's definition set; the completed Command names what to
// run and carries count, register, trailing argument, and the raw keys
// consumed. Resolution of the motion into a buffer span happens later,
// in the caller, so a failed motion can abandon an operator without any
// buffer mutation having occurred.
package command
