package bigdecimal

// Magnitudes are unsigned base-10 numbers stored most significant digit first,
// one digit value (0..9) per byte.

// trimLeft removes leading zeros, keeping at least one digit.
func trimLeft(d []byte) []byte {
	i := 0
	for i < len(d)-1 && d[i] == 0 {
		i++
	}
	return d[i:]
}

// isZero reports whether every digit is zero.
func isZero(d []byte) bool {
	for _, v := range d {
		if v != 0 {
			return false
		}
	}
	return true
}

// padLeft left-pads d with zeros up to width digits.
func padLeft(d []byte, width int) []byte {
	if len(d) >= width {
		return d
	}
	out := make([]byte, width)
	copy(out[width-len(d):], d)
	return out
}

// padRight appends n zero digits.
func padRight(d []byte, n int) []byte {
	if n <= 0 {
		return d
	}
	out := make([]byte, len(d)+n)
	copy(out, d)
	return out
}

// cmpMag compares two magnitudes.
func cmpMag(a, b []byte) int {
	a, b = trimLeft(a), trimLeft(b)
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	for i := range a {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// addMag performs grade-school addition with carry propagation.
func addMag(a, b []byte) []byte {
	width := len(a)
	if len(b) > width {
		width = len(b)
	}
	a, b = padLeft(a, width), padLeft(b, width)

	out := make([]byte, width+1)
	var carry byte
	for i := width - 1; i >= 0; i-- {
		s := a[i] + b[i] + carry
		out[i+1] = s % 10
		carry = s / 10
	}
	out[0] = carry
	return trimLeft(out)
}

// subMag returns a-b for a >= b. The subtrahend is replaced by its nines'
// complement, added, incremented, and the overflow digit dropped.
func subMag(a, b []byte) []byte {
	width := len(a)
	if len(b) > width {
		width = len(b)
	}
	a, b = padLeft(a, width), padLeft(b, width)

	comp := make([]byte, width)
	for i, v := range b {
		comp[i] = 9 - v
	}

	out := make([]byte, width)
	carry := byte(1)
	for i := width - 1; i >= 0; i-- {
		s := a[i] + comp[i] + carry
		out[i] = s % 10
		carry = s / 10
	}
	// carry == 1 here is the discarded overflow of the complement sum.
	return trimLeft(out)
}

// mulMag performs grade-school long multiplication.
func mulMag(a, b []byte) []byte {
	a, b = trimLeft(a), trimLeft(b)
	acc := make([]int, len(a)+len(b))
	for i := len(a) - 1; i >= 0; i-- {
		if a[i] == 0 {
			continue
		}
		for j := len(b) - 1; j >= 0; j-- {
			acc[i+j+1] += int(a[i]) * int(b[j])
		}
	}
	for k := len(acc) - 1; k > 0; k-- {
		acc[k-1] += acc[k] / 10
		acc[k] %= 10
	}

	out := make([]byte, len(acc))
	for k, v := range acc {
		out[k] = byte(v)
	}
	return trimLeft(out)
}

// divMag performs long division by repeated subtraction, returning the
// integer quotient and the remainder. d must be non-zero.
func divMag(n, d []byte) (q, r []byte) {
	d = trimLeft(d)
	q = make([]byte, len(n))
	r = []byte{0}
	for i, digit := range n {
		r = trimLeft(append(r, digit))
		var count byte
		for cmpMag(r, d) >= 0 {
			r = subMag(r, d)
			count++
		}
		q[i] = count
	}
	return trimLeft(q), r
}

// increment adds one unit in the last place.
func increment(d []byte) []byte {
	return addMag(d, []byte{1})
}
