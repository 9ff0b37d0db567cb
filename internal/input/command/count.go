package command

import "math"

// countState accumulates one count slot. A register name may interrupt
// the digits; the segments on either side multiply, so 2"a3dd carries
// a pre-operator count of six.
type countState struct {
	product int // product of closed segments, 0 when none
	value   int // current segment, 0 when none
}

func (c *countState) reset() {
	c.product = 0
	c.value = 0
}

// active reports whether any digits have accumulated.
func (c *countState) active() bool {
	return c.product > 0 || c.value > 0
}

// inSegment reports whether the current digit run is open. A zero can
// only continue an open run; otherwise it is the line-start motion.
func (c *countState) inSegment() bool {
	return c.value > 0
}

// push appends a digit to the current segment, clamping on overflow.
func (c *countState) push(r rune) {
	digit := int(r - '0')
	if c.value > (math.MaxInt-digit)/10 {
		c.value = math.MaxInt / 10
		return
	}
	c.value = c.value*10 + digit
}

// closeSegment folds the open segment into the product.
func (c *countState) closeSegment() {
	if c.value == 0 {
		return
	}
	if c.product == 0 {
		c.product = c.value
	} else {
		c.product = mulClamp(c.product, c.value)
	}
	c.value = 0
}

// get returns the accumulated count, 0 when no digits were typed.
func (c *countState) get() int {
	switch {
	case c.product == 0:
		return c.value
	case c.value == 0:
		return c.product
	default:
		return mulClamp(c.product, c.value)
	}
}

// combineCounts multiplies the pre- and post-operator counts. Either
// may be 0 (not typed); the result is 0 only when both are.
func combineCounts(count1, count2 int) int {
	if count1 == 0 {
		return count2
	}
	if count2 == 0 {
		return count1
	}
	return mulClamp(count1, count2)
}

func mulClamp(a, b int) int {
	if b > 0 && a > math.MaxInt/b {
		return math.MaxInt / 10
	}
	return a * b
}

// isCountStart reports whether r can open a count. '0' cannot: it is
// the line-start motion.
func isCountStart(r rune) bool {
	return r >= '1' && r <= '9'
}
