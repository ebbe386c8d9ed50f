package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/lexid"
	"github.com/roach88/lexid/internal/store"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	DB     string
	After  string
	Limit  int
	Label  string
	Layout string
}

// ListResult is the output of the list command.
type ListResult struct {
	Records []RecordView `json:"records"`
	// Total counts every record matching the filter, across all pages.
	Total int64 `json:"total"`
	// Next is the --after value for the following page, empty on the last.
	Next string `json:"next,omitempty"`
}

// RenderText implements TextRenderer.
func (r ListResult) RenderText(w io.Writer) error {
	for _, rec := range r.Records {
		label := rec.Label
		if label == "" {
			label = "-"
		}
		if _, err := fmt.Fprintf(w, "%s  %-12d  %-10s  %s\n", rec.ID, rec.WorkerID, label, rec.CreatedAt); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%d of %d\n", len(r.Records), r.Total); err != nil {
		return err
	}
	if r.Next != "" {
		if _, err := fmt.Fprintf(w, "next: --after %s\n", r.Next); err != nil {
			return err
		}
	}
	return nil
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded identifiers in creation order",
		Long: `List identifiers recorded in the SQLite ledger, oldest first.

Pages are keyed on the identifier itself: pass the "next" value of one page
to --after to fetch the following one.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.DB, "db", "", "path to the SQLite ledger (or set db in config)")
	cmd.Flags().StringVar(&opts.After, "after", "", "resume after this identifier")
	cmd.Flags().IntVar(&opts.Limit, "limit", store.DefaultListLimit, "maximum records to return")
	cmd.Flags().StringVar(&opts.Label, "label", "", "only list identifiers with this label")
	cmd.Flags().StringVar(&opts.Layout, "layout", "", "byte order of displayed identifiers (big-endian|little-endian)")

	return cmd
}

func runList(cmd *cobra.Command, opts *ListOptions) error {
	cfg, err := opts.settings(cmd)
	if err != nil {
		return err
	}
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	dbPath := opts.DB
	if dbPath == "" {
		dbPath = cfg.DB
	}
	if dbPath == "" {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArg, "--db is required", nil)
	}
	if opts.Limit < 1 {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArg,
			fmt.Sprintf("--limit must be at least 1, got %d", opts.Limit), nil)
	}
	layout, err := opts.layout(cfg, opts.Layout)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeInvalidArg, "invalid layout", err)
	}

	var after lexid.ID
	if opts.After != "" {
		after, err = lexid.ParseLayout(opts.After, layout)
		if err != nil {
			return formatter.Fail(ExitFailure, ErrCodeInvalidFormat, "invalid --after identifier", err)
		}
	}

	st, err := store.Open(dbPath, store.WithLogger(opts.logger))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	defer st.Close()

	recs, err := st.List(ctx, store.ListOptions{After: after, Limit: opts.Limit, Label: opts.Label})
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to list identifiers", err)
	}
	var total int64
	if opts.Label != "" {
		total, err = st.CountLabel(ctx, opts.Label)
	} else {
		total, err = st.Count(ctx)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to count identifiers", err)
	}

	result := ListResult{
		Records: make([]RecordView, len(recs)),
		Total:   total,
	}
	for i, rec := range recs {
		result.Records[i] = newRecordView(rec, layout)
	}
	if len(recs) == opts.Limit {
		result.Next = result.Records[len(recs)-1].ID
	}

	opts.logger.Debug("listed identifiers", "db", dbPath, "count", len(recs), "after", opts.After)
	return formatter.Success(result)
}
