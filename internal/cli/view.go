package cli

import (
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/roach88/lexid"
	"github.com/roach88/lexid/internal/store"
)

// IDView is the decoded form of one identifier.
type IDView struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Time      string `json:"time"`
	Jitter    int32  `json:"jitter"`
	WorkerID  int32  `json:"worker_id"`
	ULID      string `json:"ulid"`
	Hex       string `json:"hex"`
	Layout    string `json:"layout"`

	// Set when the identifier was looked up in a ledger.
	Label      string `json:"label,omitempty"`
	RecordedAt string `json:"recorded_at,omitempty"`
}

func newIDView(id lexid.ID, l lexid.Layout) IDView {
	b := lexid.EncodeLayout(id, l)
	return IDView{
		ID:        lexid.FormatLayout(id, l),
		Timestamp: id.Timestamp,
		Time:      id.Time().UTC().Format(time.RFC3339Nano),
		Jitter:    id.Jitter,
		WorkerID:  id.WorkerID,
		ULID:      id.ULID(),
		Hex:       hex.EncodeToString(b[:]),
		Layout:    l.String(),
	}
}

type textRow struct {
	key string
	val any
}

// RenderText implements TextRenderer.
func (v IDView) RenderText(w io.Writer) error {
	rows := []textRow{
		{"id", v.ID},
		{"timestamp", v.Timestamp},
		{"time", v.Time},
		{"jitter", v.Jitter},
		{"worker_id", v.WorkerID},
		{"ulid", v.ULID},
		{"hex", v.Hex},
		{"layout", v.Layout},
	}
	if v.RecordedAt != "" {
		rows = append(rows, textRow{"label", v.Label}, textRow{"recorded", v.RecordedAt})
	}
	for _, r := range rows {
		if _, err := fmt.Fprintf(w, "%-10s %v\n", r.key+":", r.val); err != nil {
			return err
		}
	}
	return nil
}

// RecordView is one ledger row.
type RecordView struct {
	ID        string `json:"id"`
	Label     string `json:"label,omitempty"`
	WorkerID  int32  `json:"worker_id"`
	CreatedAt string `json:"created_at"`
}

func newRecordView(rec store.Record, l lexid.Layout) RecordView {
	return RecordView{
		ID:        lexid.FormatLayout(rec.ID, l),
		Label:     rec.Label,
		WorkerID:  rec.ID.WorkerID,
		CreatedAt: rec.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
