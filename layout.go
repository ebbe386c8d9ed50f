package lexid

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// Layout selects the byte order of the binary form.
type Layout int

const (
	// BigEndian is the canonical layout. Byte order follows creation time.
	BigEndian Layout = iota

	// LittleEndian is the native-order layout written by older deployments
	// on x86 hosts. It does not sort lexically and exists only to read and
	// write that data.
	LittleEndian
)

// String returns the layout name accepted by ParseLayoutName.
func (l Layout) String() string {
	switch l {
	case BigEndian:
		return "big-endian"
	case LittleEndian:
		return "little-endian"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// ParseLayoutName parses "big-endian" or "little-endian" (case-insensitive).
// The empty string selects BigEndian.
func ParseLayoutName(s string) (Layout, error) {
	switch strings.ToLower(s) {
	case "", "big-endian":
		return BigEndian, nil
	case "little-endian":
		return LittleEndian, nil
	default:
		return 0, fmt.Errorf("unknown layout %q: must be big-endian or little-endian", s)
	}
}

func (l Layout) order() binary.ByteOrder {
	if l == LittleEndian {
		return binary.LittleEndian
	}
	return binary.BigEndian
}

// EncodeLayout packs id into 16 bytes using layout l.
func EncodeLayout(id ID, l Layout) [Size]byte {
	var b [Size]byte
	order := l.order()
	ts := uint64(id.Timestamp)
	order.PutUint32(b[0:4], uint32(ts>>32))
	order.PutUint32(b[4:8], uint32(ts))
	order.PutUint32(b[8:12], uint32(id.Jitter))
	order.PutUint32(b[12:16], uint32(id.WorkerID))
	return b
}

// DecodeLayout unpacks a 16-byte identifier encoded with layout l.
func DecodeLayout(b []byte, l Layout) (ID, error) {
	if len(b) != Size {
		return Nil, binaryFormatError(b, fmt.Sprintf("binary identifier must be %d bytes, got %d", Size, len(b)))
	}
	order := l.order()
	high := uint64(order.Uint32(b[0:4]))
	low := uint64(order.Uint32(b[4:8]))
	return ID{
		Timestamp: int64(high<<32 | low),
		Jitter:    int32(order.Uint32(b[8:12])),
		WorkerID:  int32(order.Uint32(b[12:16])),
	}, nil
}

// Bytes returns the canonical 16-byte form.
func (id ID) Bytes() [Size]byte {
	return EncodeLayout(id, BigEndian)
}

// FromBytes parses the canonical 16-byte form. Any other length is an
// ErrInvalidFormat.
func FromBytes(b []byte) (ID, error) {
	return DecodeLayout(b, BigEndian)
}

// AppendBinary appends the canonical binary form to b.
func (id ID) AppendBinary(b []byte) ([]byte, error) {
	enc := id.Bytes()
	return append(b, enc[:]...), nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (id ID) MarshalBinary() ([]byte, error) {
	return id.AppendBinary(make([]byte, 0, Size))
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (id *ID) UnmarshalBinary(data []byte) error {
	parsed, err := FromBytes(data)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Decode accepts either the 16-byte binary form or the 36-character text
// form, distinguished by length.
func Decode(b []byte) (ID, error) {
	switch len(b) {
	case Size:
		return FromBytes(b)
	case TextLen:
		return Parse(string(b))
	default:
		return Nil, binaryFormatError(b, fmt.Sprintf("must be %d bytes or %d characters, got %d", Size, TextLen, len(b)))
	}
}
