package proto

import "github.com/dbgateway/mysqlwire/internal/errors"

// ErrMalformedLenenc is returned when a length-encoded value runs past the
// end of the buffer it is read from.
var ErrMalformedLenenc = errors.New("proto: malformed length-encoded value")

// LenencNull is the leading byte that, in row-context, signals a NULL
// column rather than an integer value. OK/EOF parsing never sees it.
const LenencNull = 0xfb

// ReadLenencInt decodes a length-encoded integer at the start of b and
// returns the value, the number of bytes consumed and whether b held a
// complete encoding.
func ReadLenencInt(b []byte) (value uint64, n int, ok bool) {
	if len(b) == 0 {
		return 0, 0, false
	}
	switch lead := b[0]; {
	case lead < 0xfb:
		return uint64(lead), 1, true
	case lead == 0xfb:
		return 0, 1, true
	case lead == 0xfc:
		if len(b) < 3 {
			return 0, 0, false
		}
		return uint64(GetUint16(b[1:])), 3, true
	case lead == 0xfd:
		if len(b) < 4 {
			return 0, 0, false
		}
		return uint64(b[1]) | uint64(b[2])<<8 | uint64(b[3])<<16, 4, true
	case lead == 0xfe:
		if len(b) < 9 {
			return 0, 0, false
		}
		return GetUint64(b[1:]), 9, true
	default:
		return 0, 0, false
	}
}

// ReadLenencStr decodes a length-encoded string at the start of b,
// returning the string bytes (a sub-slice of b, not copied) and the total
// bytes consumed.
func ReadLenencStr(b []byte) (str []byte, n int, ok bool) {
	l, hn, ok := ReadLenencInt(b)
	if !ok || uint64(hn)+l > uint64(len(b)) {
		return nil, 0, false
	}
	return b[hn : hn+int(l)], hn + int(l), true
}

// SkipLenencInt advances past a length-encoded integer without
// materializing its value.
func SkipLenencInt(b []byte) (n int, ok bool) {
	_, n, ok = ReadLenencInt(b)
	return n, ok
}

// SkipLenencStr advances past a length-encoded string without
// materializing its bytes.
func SkipLenencStr(b []byte) (n int, ok bool) {
	_, n, ok = ReadLenencStr(b)
	return n, ok
}

// PutLenencInt appends the length-encoded form of v to dst.
func PutLenencInt(dst []byte, v uint64) []byte {
	switch {
	case v < 0xfb:
		return append(dst, byte(v))
	case v <= 0xffff:
		dst = append(dst, 0xfc)
		return PutUint16(dst, uint16(v))
	case v <= 0xffffff:
		dst = append(dst, 0xfd)
		return append(dst, byte(v), byte(v>>8), byte(v>>16))
	default:
		dst = append(dst, 0xfe)
		return PutUint64(dst, v)
	}
}

// PutLenencStr appends the length-encoded form of s to dst.
func PutLenencStr(dst []byte, s []byte) []byte {
	dst = PutLenencInt(dst, uint64(len(s)))
	return append(dst, s...)
}

// ReadNullTermStr reads bytes up to and excluding the first NUL, returning
// the string and the number of bytes consumed including the terminator.
func ReadNullTermStr(b []byte) (str []byte, n int, ok bool) {
	for i, c := range b {
		if c == 0 {
			return b[:i], i + 1, true
		}
	}
	return nil, 0, false
}

// GetUint16 reads a little-endian u16 from the start of b.
func GetUint16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}

// GetUint32 reads a little-endian u32 from the start of b.
func GetUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// GetUint64 reads a little-endian u64 from the start of b.
func GetUint64(b []byte) uint64 {
	return uint64(GetUint32(b)) | uint64(GetUint32(b[4:]))<<32
}

// GetUint24 reads a little-endian 3-byte integer, the packet length field.
func GetUint24(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

// PutUint16 appends a little-endian u16 to dst.
func PutUint16(dst []byte, v uint16) []byte {
	return append(dst, byte(v), byte(v>>8))
}

// PutUint24 appends a little-endian 3-byte integer to dst.
func PutUint24(dst []byte, v uint32) []byte {
	return append(dst, byte(v), byte(v>>8), byte(v>>16))
}

// PutUint32 appends a little-endian u32 to dst.
func PutUint32(dst []byte, v uint32) []byte {
	return append(dst, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

// PutUint64 appends a little-endian u64 to dst.
func PutUint64(dst []byte, v uint64) []byte {
	dst = PutUint32(dst, uint32(v))
	return PutUint32(dst, uint32(v>>32))
}
