// Package main provides a standalone health probe for container health
// checks and monitoring scripts. It exits 0 when the service reports the
// expected status, 1 when it does not and 2 when it cannot be reached.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/alchemorsel/recipe-explorer/internal/infrastructure/config"
	"github.com/alchemorsel/recipe-explorer/pkg/healthcheck"
)

const (
	exitCodeSuccess = 0
	exitCodeFailure = 1
	exitCodeError   = 2
)

// Options holds command-line configuration
type Options struct {
	URL          string
	ConfigPath   string
	Timeout      time.Duration
	RetryCount   int
	RetryDelay   time.Duration
	OutputFormat string
	AllowDegrade bool
}

func main() {
	opts := parseFlags()
	os.Exit(run(context.Background(), opts, os.Stdout))
}

func parseFlags() Options {
	opts := Options{}

	flag.StringVar(&opts.URL, "url", "", "health endpoint URL (default: derived from the server config)")
	flag.StringVar(&opts.ConfigPath, "config", "", "configuration file path")
	flag.DurationVar(&opts.Timeout, "timeout", 5*time.Second, "request timeout")
	flag.IntVar(&opts.RetryCount, "retry", 0, "number of retries on failure")
	flag.DurationVar(&opts.RetryDelay, "retry-delay", time.Second, "delay between retries")
	flag.StringVar(&opts.OutputFormat, "format", "text", "output format: text or json")
	flag.BoolVar(&opts.AllowDegrade, "allow-degraded", true, "treat a degraded report as success")
	flag.Parse()

	return opts
}

func run(ctx context.Context, opts Options, out io.Writer) int {
	url := opts.URL
	if url == "" {
		cfg, err := config.Load(opts.ConfigPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
			return exitCodeError
		}
		url = fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port)
	}

	client := &http.Client{Timeout: opts.Timeout}

	var (
		report *healthcheck.Response
		err    error
	)
	for attempt := 0; attempt <= opts.RetryCount; attempt++ {
		if attempt > 0 {
			time.Sleep(opts.RetryDelay)
		}
		report, err = fetch(ctx, client, url)
		if err == nil && passes(report.Status, opts.AllowDegrade) {
			break
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "health check failed: %v\n", err)
		return exitCodeError
	}

	if opts.OutputFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	} else {
		fmt.Fprintf(out, "status: %s (version %s)\n", report.Status, report.Version)
		for _, c := range report.Checks {
			fmt.Fprintf(out, "  %-12s %-10s %s\n", c.Name, c.Status, c.Message)
		}
	}

	if !passes(report.Status, opts.AllowDegrade) {
		return exitCodeFailure
	}
	return exitCodeSuccess
}

// fetch decodes the health report. A 503 still carries a report body.
func fetch(ctx context.Context, client *http.Client, url string) (*healthcheck.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var report healthcheck.Response
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("invalid health report: %w", err)
	}
	return &report, nil
}

func passes(status healthcheck.Status, allowDegraded bool) bool {
	return status == healthcheck.StatusHealthy || (allowDegraded && status == healthcheck.StatusDegraded)
}
