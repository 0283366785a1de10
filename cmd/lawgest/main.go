package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dgallion1/lawgest/internal/config"
	"github.com/dgallion1/lawgest/internal/output"
	"github.com/dgallion1/lawgest/internal/parser"
	"github.com/dgallion1/lawgest/internal/pathstore"
	"github.com/dgallion1/lawgest/internal/pipeline"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.NewViper()

	rootCmd := &cobra.Command{
		Use:   "lawgest",
		Short: "Convert statute documents into ordered legal records",
		Long: `lawgest reads statute documents (PDF, DOCX, HTML, Markdown, text),
detects the preamble, chapters and numbered sections, and writes one JSON
array of records per statute.

Configuration comes from flags, LAWGEST_* environment variables and an
optional lawgest.{json,yaml,toml} file in ./config or the working directory.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if path, _ := cmd.Flags().GetString("config"); path != "" {
				v.SetConfigFile(path)
			}
			return config.ReadFile(v)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file path")
	flags.String("output-dir", "", "directory for JSON artifacts (default \"output\")")
	flags.Int("workers", 0, "documents converted in parallel (default 4)")
	flags.String("log-format", "", "log format: json or text (default \"json\")")
	flags.String("pathstore-url", "", "also store records in pathstore at this URL")
	bindFlag(v, "output_dir", flags.Lookup("output-dir"))
	bindFlag(v, "workers", flags.Lookup("workers"))
	bindFlag(v, "log_format", flags.Lookup("log-format"))
	bindFlag(v, "pathstore_url", flags.Lookup("pathstore-url"))

	rootCmd.AddCommand(convertCmd(v))
	rootCmd.AddCommand(serveCmd(v))
	return rootCmd
}

// loadConfig builds and validates the effective configuration.
func loadConfig(v *viper.Viper, server bool) (config.Config, error) {
	cfg := config.Load(v)
	validate := cfg.Validate
	if server {
		validate = cfg.ValidateServer
	}
	if err := validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(format string, w io.Writer) *slog.Logger {
	if format == "text" {
		return slog.New(slog.NewTextHandler(w, nil))
	}
	return slog.New(slog.NewJSONHandler(w, nil))
}

// buildSinks returns the file sink, plus the pathstore sink when configured.
// The returned cleanup releases the pathstore client.
func buildSinks(cfg config.Config, log *slog.Logger) ([]pipeline.Sink, func()) {
	sinks := []pipeline.Sink{output.NewFileSink(cfg.OutputDir, log)}
	if cfg.PathstoreURL == "" {
		return sinks, func() {}
	}
	ps := pathstore.NewClient(cfg.PathstoreURL, cfg.PathstoreAPIKey)
	log.Info("pathstore sink enabled", "url", cfg.PathstoreURL)
	return append(sinks, pathstore.NewSink(ps)), ps.Close
}

func parserOptions(cfg config.Config) parser.Options {
	return parser.Options{PDFFallbackPdftotext: cfg.PDFFallbackPdftotext}
}

// bindFlag lets an explicitly set flag override env and file values.
func bindFlag(v *viper.Viper, key string, f *pflag.Flag) {
	if err := v.BindPFlag(key, f); err != nil {
		panic(err)
	}
}
