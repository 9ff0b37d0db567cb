// Package search finds pattern occurrences in a buffer.
//
// Patterns use Go regular expression syntax with one extension: the
// word-boundary atoms \< and \> are accepted and translated to \b.
// Matches are found within single lines; patterns do not span line
// breaks.
//
// Case sensitivity follows the ignorecase and smartcase options: with
// ignorecase set, matching is case-insensitive unless smartcase is
// also set and the pattern contains an uppercase letter.
//
// Next searches relative to a position. A forward search finds the
// first match starting strictly after the position, a backward search
// the last match starting strictly before it. With wrapscan the scan
// continues past the end (or start) of the buffer back to the origin,
// and the caller is told the search wrapped.
package search
