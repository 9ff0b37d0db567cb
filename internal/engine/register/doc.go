// Package register implements the register store for yanked and
// deleted text.
//
// Registers are named by single runes. The store understands the
// standard set:
//
//	"    unnamed register, mirror of the most recent yank or delete
//	a-z  named registers; uppercase names append
//	0    most recent unnamed yank
//	1-9  delete ring, most recent first
//	-    small deletes (less than one line)
//	_    black hole, discards writes and reads empty
//	.    last inserted text (read-only)
//	:    last command line (read-only)
//	/    last search pattern (read-only)
//	%    current buffer name (read-only)
//	#    alternate buffer name (read-only)
//	=    expression register
//	+ *  system clipboard
//
// Yanks and deletes are routed with RecordYank and RecordDelete, which
// apply the numbered-register rules: an unnamed yank lands in 0, an
// unnamed delete shifts the 1-9 ring unless it is a small delete, and
// the unnamed register mirrors the result either way. Naming a register
// explicitly bypasses 0 and the ring.
//
// Clipboard registers delegate to the host clipboard at access time, so
// external clipboard changes between keystrokes are visible. Text read
// from the clipboard is treated as linewise when it ends in a newline.
// Without a clipboard provider the registers fall back to internal
// storage.
package register
