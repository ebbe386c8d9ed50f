package cli

import (
	"context"
	"encoding/hex"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/lexid"
	"github.com/roach88/lexid/internal/store"
)

// ParseOptions holds flags for the parse command.
type ParseOptions struct {
	*RootOptions
	Layout string
	DB     string
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "parse <identifier>",
		Short: "Decode an identifier into its fields",
		Long: `Decode an identifier into timestamp, jitter and worker id.

Accepted forms:
  36 characters   text form, e.g. 00000000-4996-02d2-0000-d43100003039
  32 characters   hex of the 16 bytes
  26 characters   ULID rendering (always big-endian)

Text and hex input are read in the configured layout unless --layout is given.
With --db the identifier must also be recorded in the ledger.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Layout, "layout", "", "byte order of the input (big-endian|little-endian)")
	cmd.Flags().StringVar(&opts.DB, "db", "", "look the identifier up in this SQLite ledger")

	return cmd
}

func runParse(cmd *cobra.Command, opts *ParseOptions, input string) error {
	cfg, err := opts.settings(cmd)
	if err != nil {
		return err
	}
	formatter := opts.formatter(cmd)

	layout, err := opts.layout(cfg, opts.Layout)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArg, "invalid layout", err)
	}

	id, err := decodeInput(input, layout)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeInvalidFormat, "not an identifier", err)
	}

	view := newIDView(id, layout)
	if opts.DB != "" {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		st, err := store.Open(opts.DB, store.WithLogger(opts.logger))
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
		}
		defer st.Close()

		rec, err := st.Get(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return formatter.Fail(ExitFailure, ErrCodeNotFound, "identifier not recorded", err)
		}
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to read ledger", err)
		}
		view.Label = rec.Label
		view.RecordedAt = rec.CreatedAt.UTC().Format(time.RFC3339Nano)
	}

	opts.logger.Debug("parsed identifier", "input", input, "layout", layout)
	return formatter.Success(view)
}

// decodeInput dispatches on input length.
func decodeInput(s string, l lexid.Layout) (lexid.ID, error) {
	switch len(s) {
	case lexid.TextLen:
		return lexid.ParseLayout(s, l)
	case 2 * lexid.Size:
		b, err := hex.DecodeString(s)
		if err != nil {
			return lexid.Nil, &lexid.FormatError{Input: s, Reason: "invalid hex", Err: err}
		}
		return lexid.DecodeLayout(b, l)
	case ulidLen:
		return lexid.ParseULID(s)
	default:
		return lexid.Nil, &lexid.FormatError{Input: s, Reason: "expected 26, 32 or 36 characters"}
	}
}

const ulidLen = 26
