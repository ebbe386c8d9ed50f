package lexid

import (
	"database/sql/driver"
	"fmt"
)

// Value implements driver.Valuer. IDs are stored as 16-byte BLOBs so that
// ORDER BY on the column follows creation time.
func (id ID) Value() (driver.Value, error) {
	b := id.Bytes()
	return b[:], nil
}

// Scan implements sql.Scanner. It accepts the binary form or the text form.
func (id *ID) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		parsed, err := Decode(v)
		if err != nil {
			return fmt.Errorf("scan id: %w", err)
		}
		*id = parsed
		return nil
	case string:
		parsed, err := Parse(v)
		if err != nil {
			return fmt.Errorf("scan id: %w", err)
		}
		*id = parsed
		return nil
	case nil:
		return fmt.Errorf("scan id: %w", &FormatError{Reason: "NULL is not an identifier"})
	default:
		return fmt.Errorf("scan id: unsupported source type %T", src)
	}
}
