// Package main provides the discoverylens CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/richinex/discoverylens/cli"
	"github.com/richinex/discoverylens/config"
	"github.com/richinex/discoverylens/internal/logging"
)

var (
	// Global flags
	cfgFile  string
	provider string
	verbose  bool
)

func main() {
	// Load .env file if present (ignore "file not found" errors)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file: %v\n", err)
		}
	}

	rootCmd := &cobra.Command{
		Use:   "discoverylens",
		Short: "Validate product problem discoveries with live market research",
		Long: `A service and CLI that validates a product problem discovery against web research.

A discovery (problem, affected users, evidence, business impact, success criteria)
is turned into five research queries, searched concurrently, condensed into a
bounded research context, and analyzed by a completion provider into root causes,
pain points, competitor insights, market metrics and a confidence score.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./discoverylens.yaml)")
	rootCmd.PersistentFlags().StringVarP(&provider, "provider", "p", "", "completion provider (openai, anthropic, deepseek, gemini)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show verbose output")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(hmwCmd())
	rootCmd.AddCommand(queriesCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadSettings reads configuration from the environment and the optional config file.
func loadSettings() (config.Settings, *zap.Logger, error) {
	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("discoverylens")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || cfgFile != "" {
			return config.Settings{}, nil, fmt.Errorf("read config: %w", err)
		}
	}
	if provider != "" {
		v.Set("LLM_PROVIDER", provider)
	}
	if verbose {
		v.Set("LOG_LEVEL", "debug")
		v.Set("LOG_FORMAT", "console")
	}

	settings, err := config.New(v)
	if err != nil {
		return config.Settings{}, nil, err
	}
	logger, err := logging.New(settings.Log.Level, settings.Log.Format)
	if err != nil {
		return config.Settings{}, nil, err
	}
	return settings, logger, nil
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, logger, err := loadSettings()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			if port > 0 {
				settings.Server.Port = port
			}
			return cli.Serve(cmd.Context(), settings, logger)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port (overrides PORT)")

	return cmd
}

// discoveryFlags collects a discovery from a file or individual flags.
type discoveryFlags struct {
	file  string
	input cli.DiscoveryInput
}

func (f *discoveryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "discovery JSON file (\"-\" for stdin)")
	cmd.Flags().StringVar(&f.input.DiscoveryID, "id", "", "discovery id")
	cmd.Flags().StringVar(&f.input.ProblemDescription, "problem", "", "problem description")
	cmd.Flags().StringVar(&f.input.AffectedUsers, "users", "", "affected users")
	cmd.Flags().StringVar(&f.input.Evidence, "evidence", "", "evidence for the problem")
	cmd.Flags().StringVar(&f.input.BusinessImpact, "impact", "", "business impact")
	cmd.Flags().StringVar(&f.input.SuccessCriteria, "criteria", "", "success criteria")
}

func (f *discoveryFlags) load() (cli.DiscoveryInput, error) {
	if f.file == "" {
		return f.input, nil
	}
	var input cli.DiscoveryInput
	if err := cli.LoadJSONFile(f.file, &input); err != nil {
		return cli.DiscoveryInput{}, err
	}
	return input, nil
}

func analyzeCmd() *cobra.Command {
	var flags discoveryFlags

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run one discovery analysis and print the result as JSON",
		Long: `Run the full analysis pipeline for one discovery and print the ProblemAnalysis.

The discovery is read from --file (same JSON body as POST /api/analysis/analyze)
or from the individual flags.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := flags.load()
			if err != nil {
				return err
			}
			settings, logger, err := loadSettings()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			return cli.Analyze(cmd.Context(), settings, logger, input, cli.Options{Verbose: verbose})
		},
	}

	flags.register(cmd)

	return cmd
}

func hmwCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "hmw",
		Short: "Generate \"How Might We\" statements for an analyzed discovery",
		Long: `Generate "How Might We" statements from a JSON file holding
{"discovery": {...}, "analysis": {...}}, as accepted by POST /api/analysis/hmw.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var input cli.HMWInput
			if err := cli.LoadJSONFile(file, &input); err != nil {
				return err
			}
			settings, logger, err := loadSettings()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			return cli.HMW(cmd.Context(), settings, logger, input, cli.Options{Verbose: verbose})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "discovery and analysis JSON file (\"-\" for stdin)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func queriesCmd() *cobra.Command {
	var flags discoveryFlags

	cmd := &cobra.Command{
		Use:   "queries",
		Short: "Print the research queries derived from a discovery",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := flags.load()
			if err != nil {
				return err
			}
			return cli.Queries(input.DiscoveryRequest, cli.Options{})
		},
	}

	flags.register(cmd)

	return cmd
}
