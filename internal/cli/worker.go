package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// WorkerOptions holds flags for the worker command.
type WorkerOptions struct {
	*RootOptions
}

// WorkerResult is the output of the worker command.
type WorkerResult struct {
	WorkerID int32  `json:"worker_id"`
	Key      string `json:"key,omitempty"`
	Source   string `json:"source"` // "derived" or "pinned"
}

// RenderText implements TextRenderer.
func (r WorkerResult) RenderText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "worker_id: %d\n", r.WorkerID); err != nil {
		return err
	}
	if r.Key != "" {
		if _, err := fmt.Fprintf(w, "key:       %s\n", r.Key); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "source:    %s\n", r.Source)
	return err
}

// NewWorkerCommand creates the worker command.
func NewWorkerCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WorkerOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Show the worker id this process would stamp",
		Long: `Show the worker id and the "<fqdn>-<pid>" key it was hashed from.

A worker id pinned in config or LEXID_WORKER_ID is reported as-is.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorker(cmd, opts)
		},
	}

	return cmd
}

func runWorker(cmd *cobra.Command, opts *WorkerOptions) error {
	cfg, err := opts.settings(cmd)
	if err != nil {
		return err
	}
	formatter := opts.formatter(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	workers := opts.workerProvider(cfg, false, 0)
	id, err := workers.WorkerID(ctx)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWorker, "failed to derive worker id", err)
	}
	key, err := workers.Key(ctx)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeWorker, "failed to derive worker id", err)
	}

	result := WorkerResult{WorkerID: id, Key: key, Source: "derived"}
	if cfg.WorkerID != nil {
		result.Source = "pinned"
	}
	return formatter.Success(result)
}
