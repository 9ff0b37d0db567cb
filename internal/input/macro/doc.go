// Package macro records and replays command keys.
//
// Macros live in the ordinary registers as charwise text in Vim key
// notation, so :reg shows them and :let-style editing of a register
// edits the macro. The Recorder appends the keys the editor actually
// dispatches (the caller excludes the q that ends the recording) and
// commits them on Stop; an uppercase target appends to the register
// through the store's usual append rule.
//
// The Player parses register text back into keys and feeds them to a
// callback synchronously, count times. Nested playback is allowed to
// a fixed depth; the caller skips its Record hook while Playing
// reports true so playback never re-enters the recording.
package macro
