package lexid

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// String returns the 36-character text form of the canonical bytes.
func (id ID) String() string {
	return FormatLayout(id, BigEndian)
}

// FormatLayout renders id encoded with layout l in the 8-4-4-4-12 grouping.
func FormatLayout(id ID, l Layout) string {
	return uuid.UUID(EncodeLayout(id, l)).String()
}

// Parse parses the 36-character text form.
func Parse(s string) (ID, error) {
	return ParseLayout(s, BigEndian)
}

// MustParse is like Parse but panics on error.
// Use only in tests or for compile-time constants.
func MustParse(s string) ID {
	id, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return id
}

// ParseLayout parses the text form of an identifier encoded with layout l.
func ParseLayout(s string, l Layout) (ID, error) {
	b, err := parseText(s)
	if err != nil {
		return Nil, err
	}
	return DecodeLayout(b[:], l)
}

// parseText strips the four hyphens and decodes the 32 hex digits.
// uuid.Parse also accepts URN, braced and unhyphenated forms; the length
// check restricts it to the hyphenated one.
func parseText(s string) ([Size]byte, error) {
	if len(s) != TextLen {
		return [Size]byte{}, &FormatError{
			Input:  s,
			Reason: fmt.Sprintf("text identifier must be %d characters, got %d", TextLen, len(s)),
		}
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return [Size]byte{}, &FormatError{Input: s, Reason: "malformed text identifier", Err: err}
	}
	return u, nil
}

// MarshalText implements encoding.TextMarshaler. JSON encodes IDs as strings
// through it.
func (id ID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ULID renders the canonical bytes as a 26-character Crockford base32
// string. Like the binary form, it sorts by creation time.
func (id ID) ULID() string {
	return ulid.ULID(id.Bytes()).String()
}

// ParseULID parses the 26-character form produced by ULID.
func ParseULID(s string) (ID, error) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return Nil, &FormatError{Input: s, Reason: "malformed ULID", Err: err}
	}
	return FromBytes(u[:])
}
