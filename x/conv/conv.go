// Package conv formats numbers into caller-owned buffers. Nothing here
// allocates, so it is usable with interrupts masked.
package conv

const hexDigits = "0123456789ABCDEF"

// AppendUint appends the decimal form of n to dst. Digits that do not fit
// in cap(dst) are dropped from the front.
func AppendUint(dst []byte, n uint64) []byte {
	var tmp [20]byte
	i := len(tmp)
	for {
		i--
		tmp[i] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	return appendFit(dst, tmp[i:])
}

// AppendInt appends the decimal form of n to dst.
func AppendInt(dst []byte, n int64) []byte {
	if n >= 0 {
		return AppendUint(dst, uint64(n))
	}
	dst = appendFit(dst, []byte{'-'})
	return AppendUint(dst, uint64(-n))
}

// AppendHex32 appends n as 0x followed by eight uppercase hex digits.
func AppendHex32(dst []byte, n uint32) []byte {
	var tmp [10]byte
	tmp[0], tmp[1] = '0', 'x'
	for i := 9; i >= 2; i-- {
		tmp[i] = hexDigits[n&0xF]
		n >>= 4
	}
	return appendFit(dst, tmp[:])
}

// AppendString appends s, truncated to the room left in dst.
func AppendString(dst []byte, s string) []byte {
	room := cap(dst) - len(dst)
	if len(s) > room {
		s = s[:room]
	}
	return append(dst, s...)
}

func appendFit(dst, src []byte) []byte {
	room := cap(dst) - len(dst)
	if len(src) > room {
		src = src[len(src)-room:]
	}
	return append(dst, src...)
}
