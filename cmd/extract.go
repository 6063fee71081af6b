package cmd

import (
	"fmt"
	"io"
	"sync"
	"text/tabwriter"

	"github.com/agentic-research/gmextract/api"
	"github.com/agentic-research/gmextract/internal/jobs"
	"github.com/agentic-research/gmextract/internal/report"
	"github.com/agentic-research/gmextract/internal/tree"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var extractCmd = &cobra.Command{
	Use:   "extract [job...]",
	Short: "Print sentinel-delimited reports for the named jobs (default: all)",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		selected := jobs.Registry()
		if len(args) > 0 {
			selected = nil
			for _, name := range args {
				j, err := jobs.Lookup(name)
				if err != nil {
					return fmt.Errorf("%w (known: %v)", err, jobs.Names())
				}
				selected = append(selected, j)
			}
		}
		return runJobs(cmd.OutOrStdout(), cfg, selected)
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <term>...",
	Short: "Print every string field containing a term (case-insensitive)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return runJobs(cmd.OutOrStdout(), cfg, []jobs.Job{jobs.Search(args...)})
	},
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List the registered extraction jobs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listJobs(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(extractCmd, searchCmd, jobsCmd)
}

// runJobs loads the document once and runs each job against it. Job
// failures are reported inline by the runner and do not stop later jobs.
func runJobs(out io.Writer, cfg *api.Config, selected []jobs.Job) error {
	runner := &jobs.Runner{
		Source: sync.OnceValues(func() (tree.Node, error) {
			logger.Debug("loading document", zap.String("path", cfg.Source))
			return tree.Load(cfg.Source)
		}),
		Scope:  cfg.Scope,
		Out:    out,
		Logger: logger,
	}

	if cfg.ReportDB != "" {
		w, err := report.NewSQLiteWriter(cfg.ReportDB)
		if err != nil {
			return err
		}
		defer func() {
			if err := w.Close(); err != nil {
				logger.Warn("close report db", zap.Error(err))
			}
		}()
		runner.Sink = w
	}

	for _, j := range selected {
		runner.Run(j)
	}
	return nil
}

func listJobs(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, j := range jobs.Registry() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", j.Name, j.Sentinel, j.Summary)
	}
	return tw.Flush()
}
