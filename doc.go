// Package lexid provides lexically-ordered unique identifiers for use as
// primary keys and row-ordering tokens.
//
// # Format
//
// An ID is three fields packed into 16 bytes, big-endian:
//
//	bytes  0-3   timestamp, high 32 bits (unsigned)
//	bytes  4-7   timestamp, low 32 bits (unsigned)
//	bytes  8-11  jitter (signed)
//	bytes 12-15  worker id (signed)
//
// The timestamp is microseconds since the Unix epoch, issued by a
// clock.MonotonicClock so that identifiers minted by one process never
// regress even when the wall clock does. Jitter is random per identifier and
// separates identifiers minted in the same microsecond. The worker id is
// derived once per process from host name and pid (see package worker).
//
// Byte order of the encoded form follows creation time. Compare orders by
// timestamp, then jitter, then worker id, all as signed integers; within a
// single microsecond that can differ from raw byte order for negative jitter.
//
// # Text form
//
// String renders the same 16 bytes in the 8-4-4-4-12 hexadecimal grouping
// used for UUIDs:
//
//	d697afb0-a96f-11df-8a49-de718e668d65
//
// The value is byte-shaped like a UUID but carries no RFC 4122 version or
// variant bits.
//
// # Usage
//
//	id, err := lexid.New()
//	b := id.Bytes()        // [16]byte
//	s := id.String()       // 36-character text form
//	back, err := lexid.Parse(s)
//
// Layout selects the legacy little-endian encoding written by older
// deployments; the canonical encoding is BigEndian.
package lexid
