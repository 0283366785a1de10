package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/dgallion1/lawgest/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func convertCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [files...]",
		Short: "Convert statute documents to JSON record files",
		Long: `Convert every supported document in the input directory, or the files
given as arguments, into {output-dir}/{slug}.json.

A document that fails does not stop the batch. The command exits non-zero
when any document failed.

Example:
  lawgest convert --input-dir laws --output-dir output
  lawgest convert bns.pdf bnss.pdf --log-format text`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, false)
			if err != nil {
				return err
			}
			log := newLogger(cfg.LogFormat, os.Stderr)

			files := args
			if len(files) == 0 {
				files, err = pipeline.ListInputs(cfg.InputDir)
				if err != nil {
					return err
				}
			}
			if len(files) == 0 {
				log.Warn("no input documents", "input_dir", cfg.InputDir)
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sinks, closeSinks := buildSinks(cfg, log)
			defer closeSinks()
			worker := pipeline.NewWorker(sinks, parserOptions(cfg), nil, nil, log)

			log.Info("converting", "documents", len(files), "workers", cfg.Workers, "output_dir", cfg.OutputDir)
			outcomes, runErr := pipeline.RunBatch(ctx, worker, files, cfg.Workers)
			printOutcomes(cmd.OutOrStdout(), outcomes)
			if runErr != nil {
				return runErr
			}

			sum := pipeline.Summarize(outcomes)
			log.Info("batch complete",
				"documents", sum.Documents,
				"ok", sum.OK,
				"warnings", sum.Warnings,
				"failed", sum.Failed,
				"records", sum.Records,
			)
			if sum.Failed > 0 {
				return fmt.Errorf("%d of %d documents failed", sum.Failed, sum.Documents)
			}
			return nil
		},
	}
	cmd.Flags().String("input-dir", "", "directory of statute documents (default \"laws\")")
	bindFlag(v, "input_dir", cmd.Flags().Lookup("input-dir"))
	return cmd
}

// printOutcomes writes one row per document.
func printOutcomes(w io.Writer, outcomes []pipeline.Outcome) {
	if len(outcomes) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tSTATUS\tCODE\tRECORDS\tOUTPUT\tDETAIL")
	for _, o := range outcomes {
		detail := ""
		switch {
		case o.Err != nil:
			detail = o.Err.Error()
		case len(o.Warnings) > 0:
			detail = o.Warnings[0]
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n", o.Source, o.Status, dash(o.LawCode), o.Records, dash(o.Output), detail)
	}
	tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
