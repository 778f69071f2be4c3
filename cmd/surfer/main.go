package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/surfer-dev/surfer/config"
	"github.com/surfer-dev/surfer/internal/server"
	"github.com/surfer-dev/surfer/internal/surf"
	"github.com/surfer-dev/surfer/internal/telemetry"
	"github.com/surfer-dev/surfer/provider"
	"github.com/surfer-dev/surfer/tools/web_fetch"
	"github.com/surfer-dev/surfer/tools/web_search"
)

func main() {
	root := &cobra.Command{
		Use:   "surfer",
		Short: "Task-oriented web research pipeline",
	}
	root.AddCommand(runCMD(), serveCMD())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCMD() *cobra.Command {
	var taskType, query, additionalContext string
	var visual bool
	var depth int
	cmd := &cobra.Command{
		Use:   "run [task description]",
		Short: "Run one research task and print the report as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, _, err := buildRunner()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			description := args[0]
			for _, a := range args[1:] {
				description += " " + a
			}
			report, err := runner.Run(ctx, surf.Task{
				Description:         description,
				Type:                taskType,
				Query:               query,
				AdditionalContext:   additionalContext,
				VisualUnderstanding: visual,
				Depth:               depth,
			})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}
	cmd.Flags().StringVar(&taskType, "type", "general", "task type (general, travel, data)")
	cmd.Flags().StringVar(&query, "query", "", "main search query (extracted from the description when empty)")
	cmd.Flags().StringVar(&additionalContext, "context", "", "additional context appended to the task description")
	cmd.Flags().BoolVar(&visual, "visual", true, "allow rendered fetches for subtasks that need visual material")
	cmd.Flags().IntVar(&depth, "depth", 1, "research depth, 1..3")
	return cmd
}

func serveCMD() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, tel, err := buildRunner()
			if err != nil {
				return err
			}
			srv := server.New(runner, tel)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				_ = srv.Shutdown(context.Background())
			}()

			return srv.Start(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":10002", "listen address")
	return cmd
}

// buildRunner wires the whole pipeline from configuration.
func buildRunner() (*surf.Runner, *telemetry.Telemetry, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	tel := telemetry.New(cfg.Telemetry)

	llm, err := provider.New(cfg.Completion, tel)
	if err != nil {
		return nil, nil, err
	}

	searchOpts := web_search.Options{
		SerperAPIKey:   cfg.Search.SerperAPIKey,
		BraveAPIKey:    cfg.Search.BraveAPIKey,
		GoogleAPIKey:   cfg.Search.GoogleAPIKey,
		GoogleEngineID: cfg.Search.GoogleEngineID,
		Timeout:        cfg.Search.Timeout,
		UserAgent:      cfg.Fetch.UserAgent,
	}
	var chain []web_search.SearchProvider
	for _, name := range cfg.Search.Providers {
		p, err := web_search.NewSearchProvider(web_search.Provider(name), searchOpts)
		if err != nil {
			return nil, nil, fmt.Errorf("search provider %s: %w", name, err)
		}
		chain = append(chain, p)
	}
	gateway := web_search.NewGateway(chain, cfg.Search.MergeAll, tel)

	fetchOpts := web_fetch.Options{
		Timeout:          cfg.Fetch.Timeout,
		MaxChars:         web_fetch.MaxCharsDefault,
		UserAgent:        cfg.Fetch.UserAgent,
		BrowserlessURL:   cfg.Fetch.BrowserlessURL,
		BrowserlessToken: cfg.Fetch.BrowserlessKey,
	}
	plain, err := web_fetch.NewWebFetcher(web_fetch.HTTPFetcherType, fetchOpts)
	if err != nil {
		return nil, nil, err
	}
	var render web_fetch.WebFetcher
	if cfg.Fetch.Renderer != "" {
		render, err = web_fetch.NewWebFetcher(web_fetch.FetcherType(cfg.Fetch.Renderer), fetchOpts)
		if err != nil {
			return nil, nil, err
		}
	}

	fetcher := surf.NewContentFetcher(plain, render, cfg.Fetch.MaxChars, tel)
	return surf.NewRunner(cfg, llm, gateway, fetcher, tel), tel, nil
}
