package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/JakeFAU/catalog-console/internal/catalog"
)

// errImportReported marks failures the progress view has already printed.
var errImportReported = errors.New("import failed")

func newImportCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Upload a CSV or XLSX file and follow the import",
		Long: `Uploads FILE to the backend and streams the job's progress until it
completes or fails. XLSX workbooks are converted to CSV from their first sheet
before upload. On success the products list is reloaded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], timeout)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "stop waiting for the job after this long (0 waits until it ends)")
	return cmd
}

func runImport(cmd *cobra.Command, path string, timeout time.Duration) error {
	appInstance, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	session := appInstance.Session()

	h, err := session.Imports.Submit(cmd.Context(), path)
	if err != nil {
		cmd.SilenceErrors = true
		return fmt.Errorf("%w: %w", errImportReported, err)
	}

	ctx := cmd.Context()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	job, err := h.Wait(ctx)
	if err != nil {
		return fmt.Errorf("wait for job %s: %w", h.JobID, err)
	}

	switch {
	case job.Status == catalog.JobFailed:
		cmd.SilenceErrors = true
		return fmt.Errorf("%w: %w", errImportReported, &catalog.JobFailure{JobID: job.ID, Message: job.ErrorMessage})
	case h.Channel.Stalled():
		appInstance.Logger().Warn("progress stream ended early",
			zap.String("job_id", job.ID), zap.String("status", string(job.Status)))
		return fmt.Errorf("progress stream for job %s ended while %s", job.ID, job.Status)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "job %s %s (%d/%d rows)\n", job.ID, job.Status, job.ProcessedRows, job.TotalRows)
	return nil
}
