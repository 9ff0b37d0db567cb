// Package mark implements named marks and the jump list.
//
// Marks a-z are local to a buffer; marks A-Z are global and carry
// their buffer identity. A handful of context marks are maintained by
// the editor rather than set directly:
//
//	' `  position before the last jump
//	.    position of the last change
//	^    position where insert mode was last left
//	[ ]  start and end of the last changed or yanked text
//	< >  start and end of the last visual selection
//
// Marks move with edits. An edit before a mark shifts it by the line
// and column delta, a mark inside a replaced range snaps to the start
// of the change, and deleting the line a mark sits on removes the mark.
//
// The jump list records positions the cursor jumped from. Navigating
// backward from the live end first records the current position so the
// forward walk can return to it. A new jump truncates the entries ahead
// of the cursor before appending.
package mark
