// Package keymap provides user key-mapping resolution.
//
// A Mapping rewrites one key sequence into another before the keys reach
// the active mode. Mappings are mode-scoped: each applies in the mode
// names it lists (an empty list means every mode), and user and default
// mappings share one Resolver, so later registration of the same keys and
// mode replaces the earlier entry.
//
// # Resolution
//
// Resolve matches mappings against the head of the pending sequence and
// substitutes iteratively:
//
//   - The longest registered mapping matching a head prefix wins.
//   - If a strictly longer mapping could still match once more keys
//     arrive, Resolve defers with NeedsMoreInput; the caller keeps the
//     raw keys pending and retries when the next key arrives, or forces
//     the issue with Flush after its timeout.
//   - After a substitution the working sequence is re-scanned from its
//     head, so mappings may chain. A mapping registered with NoRemap
//     contributes its replacement keys as final text that is never
//     re-scanned.
//   - Each substitution counts against the expansion depth limit
//     (default DefaultMaxDepth, the maxmapdepth option). Exceeding it
//     abandons the expansion with Recursive and ErrRecursiveMapping;
//     the caller passes the raw keys through unmapped.
//
// Resolution is a pure function of the registered mappings and the input
// sequence: the Resolver holds no per-sequence state, so callers replay
// the full pending sequence on every new key.
//
// # Usage
//
//	r := keymap.NewResolver()
//	r.Add(keymap.Mapping{
//		Keys:        "jj",
//		Replacement: "<Esc>",
//		Modes:       []string{"insert"},
//		NoRemap:     true,
//	})
//
//	res, _ := r.Resolve("insert", seq) // seq = "j": NeedsMoreInput
//	res, _ = r.Resolve("insert", seq)  // seq = "jj": Mapped, Keys = <Esc>
package keymap
