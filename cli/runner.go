// Command execution for CLI commands.
//
// Information Hiding:
// - Pipeline and server setup hidden
// - Input file decoding hidden
// - Output formatting hidden

package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/richinex/discoverylens/analysis"
	"github.com/richinex/discoverylens/config"
	"github.com/richinex/discoverylens/model"
	"github.com/richinex/discoverylens/orchestration"
	"github.com/richinex/discoverylens/server"
)

// shutdownTimeout bounds graceful shutdown of the HTTP server.
const shutdownTimeout = 15 * time.Second

// Options holds CLI execution options.
type Options struct {
	Verbose bool
	Out     io.Writer
	Err     io.Writer
}

func (o Options) out() io.Writer {
	if o.Out == nil {
		return os.Stdout
	}
	return o.Out
}

func (o Options) errOut() io.Writer {
	if o.Err == nil {
		return os.Stderr
	}
	return o.Err
}

// DiscoveryInput is the file format accepted by the analyze and queries commands.
type DiscoveryInput struct {
	DiscoveryID string `json:"discoveryId"`
	model.DiscoveryRequest
}

// HMWInput is the file format accepted by the hmw command.
type HMWInput struct {
	Discovery model.DiscoveryRequest `json:"discovery"`
	Analysis  model.ProblemAnalysis  `json:"analysis"`
}

// Serve runs the HTTP API until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, settings config.Settings, logger *zap.Logger) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	extractor, err := newExtractor(settings, logger)
	if err != nil {
		return err
	}
	orchestrator := newOrchestrator(settings, extractor, logger)

	handler := server.NewHandler(server.Config{
		Analyzer: orchestrator,
		HMW:      extractor,
		Services: server.Services{
			Search:     settings.Search.APIKey != "",
			Completion: settings.LLM.APIKey != "",
		},
		AllowedOrigins:  settings.Server.AllowedOrigins,
		RateLimitMax:    settings.Server.RateLimitMax,
		RateLimitWindow: settings.Server.RateLimitWindow,
		Logger:          logger,
	})
	srv := server.New(":"+strconv.Itoa(settings.Server.Port), handler, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	logger.Info("API ready",
		zap.Int("port", settings.Server.Port),
		zap.String("provider", settings.LLM.Provider),
		zap.String("model", settings.LLM.Model),
	)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

// Analyze runs one pipeline and prints the ProblemAnalysis as JSON.
func Analyze(ctx context.Context, settings config.Settings, logger *zap.Logger, input DiscoveryInput, opts Options) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if input.DiscoveryID == "" {
		return errors.New("discovery id is required")
	}

	extractor, err := newExtractor(settings, logger)
	if err != nil {
		return err
	}

	var options []orchestration.Option
	if opts.Verbose {
		options = append(options, orchestration.WithStageObserver(func(_ string, stage orchestration.Stage) {
			fmt.Fprintf(opts.errOut(), "[%s] %s\n", time.Now().Format(time.TimeOnly), stage)
		}))
	}
	orchestrator := newOrchestrator(settings, extractor, logger, options...)

	result, err := orchestrator.Analyze(ctx, input.DiscoveryID, input.DiscoveryRequest)
	if err != nil {
		return err
	}
	return printJSON(opts.out(), result)
}

// HMW generates "How Might We" statements for an analyzed discovery.
func HMW(ctx context.Context, settings config.Settings, logger *zap.Logger, input HMWInput, opts Options) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	extractor, err := newExtractor(settings, logger)
	if err != nil {
		return err
	}

	statements, err := extractor.GenerateHMW(ctx, input.Discovery, input.Analysis)
	if err != nil {
		return err
	}
	return printJSON(opts.out(), statements)
}

// Queries prints the research queries derived from a discovery. It needs no API keys.
func Queries(d model.DiscoveryRequest, opts Options) error {
	for _, q := range analysis.GenerateQueries(d) {
		if _, err := fmt.Fprintf(opts.out(), "%d. %s\n", q.Position+1, q.Text); err != nil {
			return err
		}
	}
	return nil
}

// LoadJSONFile decodes a JSON file into dst. A path of "-" reads stdin.
func LoadJSONFile(path string, dst any) error {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
