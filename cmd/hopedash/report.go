package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hopefoundation/hopedash/internal/exitcode"
	"github.com/hopefoundation/hopedash/internal/logging"
	"github.com/hopefoundation/hopedash/internal/report"
	"github.com/hopefoundation/hopedash/internal/source"
	"github.com/hopefoundation/hopedash/internal/termview"
)

var (
	reportPage   string
	reportParams []string
	reportJSON   bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print one dashboard page in the terminal",
	Example: "  hopedash report --page demographics --param category=insurance\n" +
		"  hopedash report --page impact-summary --param window=year --param year=2024",
	RunE: runReport,
}

func init() {
	f := reportCmd.Flags()
	f.StringVar(&reportPage, "page", "impact-summary", "Page slug")
	f.StringArrayVar(&reportParams, "param", nil, "Page control as key=value (repeatable)")
	f.BoolVar(&reportJSON, "json", false, "Print the page as JSON")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}
	params, err := parseParams(reportParams)
	if err != nil {
		log.Error().Err(err).Msg("bad --param")
		os.Exit(exitcode.UsageError)
	}

	table, err := source.Load(ctx, cfg.DataSource, cfg.SourceOptions(), log)
	if err != nil {
		log.Error().Err(err).Str("source", cfg.DataSource).Msg("dataset load failed")
		os.Exit(exitcode.LoadError)
	}

	now := time.Now()
	env := reportEnv(now)
	env.RefYear = cfg.RefYear(now)

	page, err := report.NewRegistry().Build(reportPage, table, env, params)
	if err != nil {
		log.Error().Err(err).Str("page", reportPage).Msg("report failed")
		if errors.Is(err, report.ErrUnknownPage) || errors.Is(err, report.ErrInvalidParam) {
			os.Exit(exitcode.UsageError)
		}
		os.Exit(exitcode.LoadError)
	}

	if reportJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	}
	return termview.Render(os.Stdout, page)
}

// parseParams turns key=value pairs into page parameters. Repeated keys
// accumulate, matching a query string.
func parseParams(pairs []string) (report.Params, error) {
	p := report.Params{}
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, errors.New("expected key=value, got " + kv)
		}
		p[k] = append(p[k], v)
	}
	return p, nil
}
