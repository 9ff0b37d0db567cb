package motion

import "unicode"

// charClass buckets a rune for word-motion purposes.
type charClass uint8

const (
	classWhitespace charClass = iota
	classWord
	classPunct
)

// classOf returns the three-way class used by lowercase word motions.
func classOf(r rune) charClass {
	switch {
	case unicode.IsSpace(r):
		return classWhitespace
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return classWord
	default:
		return classPunct
	}
}

// bigClassOf returns the two-way class used by uppercase WORD motions:
// whitespace or not.
func bigClassOf(r rune) charClass {
	if unicode.IsSpace(r) {
		return classWhitespace
	}
	return classWord
}

// classFunc selects the classifier for a motion variant.
func classFunc(big bool) func(rune) charClass {
	if big {
		return bigClassOf
	}
	return classOf
}

// isWordRune reports whether r belongs to a lowercase-motion word.
func isWordRune(r rune) bool {
	return classOf(r) == classWord
}
