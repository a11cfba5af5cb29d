// Package main provides the semframe binary entry point.
// Semframe compiles YAML frame documents into OWL ontologies and answers
// hierarchy queries over them.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/c360studio/semframe/config"
	"github.com/c360studio/semframe/ontology"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "semframe"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	natsURL    string
}

func rootCmd() *cobra.Command {
	flags := &globalFlags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Frame-based OWL ontology compiler",
		Long: `Semframe builds OWL ontologies from YAML frame documents.

Each document names an ontology and declares classes, object properties,
annotation properties and individuals through frames (subclass, domain,
range, characteristic, fact, label, ...). Groups declare disjoint,
inverse and covering sets of entities.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&flags.natsURL, "nats", "", "NATS URL; when set, snapshots of built ontologies are saved to the journal")

	cmd.AddCommand(
		compileCmd(flags),
		hierarchyCmd(flags, "ancestors", "Print the transitive superclasses of a class", false),
		hierarchyCmd(flags, "descendants", "Print the transitive subclasses of a class", true),
		watchCmd(flags),
		journalCmd(flags),
		configCmd(flags),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}

func compileCmd(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "compile [globs...]",
		Short: "Compile frame documents and print the resulting axioms",
		Long: `Compile loads the documents matched by the globs (or the configured
document globs) into fresh ontologies and prints their axioms.

Formats: key (functional-style axiom keys), turtle, ntriples, jsonld.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(flags)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			built, err := app.Compile(ctx, args)
			if err != nil {
				return err
			}
			if err := app.Render(ctx, cmd.OutOrStdout(), built, format); err != nil {
				return err
			}
			return app.Snapshot(ctx, built)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", FormatKey, "Output format (key, turtle, ntriples, jsonld)")
	return cmd
}

func hierarchyCmd(flags *globalFlags, use, short string, descendants bool) *cobra.Command {
	var fromJournal bool

	cmd := &cobra.Command{
		Use:   use + " <doc-glob|ontology-iri> <class>",
		Short: short,
		Long: short + `.

The first argument is a document glob to compile, or with --from-journal the
IRI of an ontology snapshot to restore from the NATS journal.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(flags)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var built []*ontology.Ontology
			if fromJournal {
				built, err = app.Restore(ctx, args[0])
			} else {
				built, err = app.Compile(ctx, []string{args[0]})
			}
			if err != nil {
				return err
			}
			entities, err := app.Hierarchy(ctx, built, args[1], descendants)
			if err != nil {
				return err
			}
			for _, e := range entities {
				fmt.Fprintln(cmd.OutOrStdout(), e.IRI)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromJournal, "from-journal", false, "Restore the ontology from the journal instead of compiling documents")
	return cmd
}

func journalCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Inspect ontology snapshots saved in the NATS journal",
	}

	var format string
	show := &cobra.Command{
		Use:   "show <ontology-iri>",
		Short: "Restore a snapshot with its imports and print its axioms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(flags)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			restored, err := app.Restore(ctx, args[0])
			if err != nil {
				return err
			}
			return app.Render(ctx, cmd.OutOrStdout(), restored[len(restored)-1:], format)
		},
	}
	show.Flags().StringVarP(&format, "format", "f", FormatKey, "Output format (key, turtle, ntriples, jsonld)")

	cmd.AddCommand(
		show,
		&cobra.Command{
			Use:   "delete <ontology-iri>",
			Short: "Delete the snapshot saved for an ontology",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := setup(flags)
				if err != nil {
					return err
				}
				return app.Forget(cmd.Context(), args[0])
			},
		},
	)
	return cmd
}

func watchCmd(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "watch [globs...]",
		Short: "Recompile frame documents whenever they change",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := setup(flags)
			if err != nil {
				return err
			}
			return app.Watch(cmd.Context(), cmd.OutOrStdout(), args, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", FormatKey, "Output format (key, turtle, ntriples, jsonld)")
	return cmd
}

func configCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or initialize configuration",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Create the user config file with defaults if it does not exist",
			RunE: func(cmd *cobra.Command, args []string) error {
				return config.NewLoader(newLogger(flags.logLevel)).EnsureUserConfig()
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := loadConfig(flags, newLogger(flags.logLevel))
				if err != nil {
					return err
				}
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return fmt.Errorf("marshal config: %w", err)
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			},
		},
	)
	return cmd
}

// setup loads configuration and creates the application.
func setup(flags *globalFlags) (*App, error) {
	logger := newLogger(flags.logLevel)
	slog.SetDefault(logger)

	cfg, err := loadConfig(flags, logger)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewApp(cfg, logger)
}

// loadConfig reads the explicit config file if given, otherwise the user and
// project configs. The --nats flag, then NATS_URL, override the journal URL.
func loadConfig(flags *globalFlags, logger *slog.Logger) (*config.Config, error) {
	loader := config.NewLoader(logger)

	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = loader.LoadFrom(flags.configPath)
	} else {
		cfg, err = loader.Load()
	}
	if err != nil {
		return nil, err
	}

	if flags.natsURL != "" {
		cfg.NATS.URL = flags.natsURL
	} else if envURL := os.Getenv("NATS_URL"); envURL != "" {
		cfg.NATS.URL = envURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(logLevel string) *slog.Logger {
	level := slog.LevelWarn
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
