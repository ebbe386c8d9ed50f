package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/lexid"
	"github.com/roach88/lexid/clock"
	"github.com/roach88/lexid/internal/store"
)

// NewOptions holds flags for the new command.
type NewOptions struct {
	*RootOptions
	Count    int
	WorkerID int32
	Label    string
	DB       string
	Layout   string
}

// NewResult is the output of the new command.
type NewResult struct {
	IDs      []string `json:"ids"`
	WorkerID int32    `json:"worker_id"`
	Layout   string   `json:"layout"`
	Recorded int      `json:"recorded"`
}

// RenderText implements TextRenderer: one identifier per line.
func (r NewResult) RenderText(w io.Writer) error {
	for _, id := range r.IDs {
		if _, err := fmt.Fprintln(w, id); err != nil {
			return err
		}
	}
	return nil
}

// NewNewCommand creates the new command.
func NewNewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &NewOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Mint new identifiers",
		Long: `Mint one or more identifiers from the local clock.

With --db the identifiers are also recorded in a SQLite ledger, and the
clock resumes after the newest identifier the ledger holds for this worker,
so identifiers stay ordered across restarts.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Count, "count", "n", 1, "number of identifiers to mint")
	cmd.Flags().Int32Var(&opts.WorkerID, "worker-id", 0, "pin the worker id instead of deriving it")
	cmd.Flags().StringVar(&opts.Label, "label", "", "label recorded with each identifier (requires --db)")
	cmd.Flags().StringVar(&opts.DB, "db", "", "path to the SQLite ledger")
	cmd.Flags().StringVar(&opts.Layout, "layout", "", "byte order of the output (big-endian|little-endian)")

	return cmd
}

func runNew(cmd *cobra.Command, opts *NewOptions) error {
	cfg, err := opts.settings(cmd)
	if err != nil {
		return err
	}
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Count < 1 {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArg,
			fmt.Sprintf("--count must be at least 1, got %d", opts.Count), nil)
	}
	layout, err := opts.layout(cfg, opts.Layout)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArg, "invalid layout", err)
	}

	workers := opts.workerProvider(cfg, cmd.Flags().Changed("worker-id"), opts.WorkerID)
	workerID, err := workers.WorkerID(ctx)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWorker, "failed to derive worker id", err)
	}

	dbPath := opts.DB
	if dbPath == "" {
		dbPath = cfg.DB
	}
	label := opts.Label
	if label == "" {
		label = cfg.Label
	}

	clockOpts := []clock.Option{clock.WithSource(opts.Clock)}

	var st *store.Store
	if dbPath != "" {
		st, err = store.Open(dbPath, store.WithLogger(opts.logger))
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
		}
		defer st.Close()

		latest, err := st.Latest(ctx, workerID)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to read ledger", err)
		}
		if !latest.IsNil() {
			clockOpts = append(clockOpts, clock.WithStart(latest.Timestamp))
			opts.logger.Debug("clock resumed from ledger", "worker_id", workerID, "last", latest.Timestamp)
		}
	}

	gen := lexid.NewGenerator(
		lexid.WithClock(clock.New(clockOpts...)),
		lexid.WithWorkerProvider(workers),
		lexid.WithJitterSource(opts.Jitter),
	)

	ids := make([]lexid.ID, 0, opts.Count)
	for i := 0; i < opts.Count; i++ {
		id, err := gen.New(ctx)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWorker, "failed to mint identifier", err)
		}
		ids = append(ids, id)
	}

	result := NewResult{
		IDs:      make([]string, len(ids)),
		WorkerID: workerID,
		Layout:   layout.String(),
	}
	for i, id := range ids {
		result.IDs[i] = lexid.FormatLayout(id, layout)
	}

	if st != nil {
		recs := make([]store.Record, len(ids))
		for i, id := range ids {
			recs[i] = store.Record{ID: id, Label: label}
		}
		n, err := st.WriteBatch(ctx, recs)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to record identifiers", err)
		}
		result.Recorded = n
		opts.logger.Debug("recorded identifiers", "db", dbPath, "count", n, "label", label)
	}

	return formatter.Success(result)
}
