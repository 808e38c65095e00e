package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hopefoundation/hopedash/internal/exitcode"
	"github.com/hopefoundation/hopedash/internal/export"
	"github.com/hopefoundation/hopedash/internal/logging"
	"github.com/hopefoundation/hopedash/internal/model"
	"github.com/hopefoundation/hopedash/internal/normalize"
	"github.com/hopefoundation/hopedash/internal/source"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run validation and stats for the cleaned dataset (no writes)",
	RunE:  runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

// planStats counts values that the dashboard will treat as missing.
type planStats struct {
	Rows           int
	Patients       int
	UndatedRequest int
	BadAmount      int
	UnknownState   int
	UnknownDOB     int
}

func collectPlanStats(t *model.Table, n *normalize.Normalizers) planStats {
	s := planStats{Rows: t.Len()}
	patients := make(map[string]struct{})
	for _, r := range t.Records() {
		if !normalize.IsBlank(r.PatientID) {
			patients[normalize.CanonicalID(r.PatientID)] = struct{}{}
		}
		if normalize.ParseDate(r.GrantRequestDate) == nil {
			s.UndatedRequest++
		}
		if !normalize.ParseAmount(r.Amount).Valid {
			s.BadAmount++
		}
		if n.State.Normalize(r.State) == normalize.Unknown {
			s.UnknownState++
		}
		if normalize.ParseBirthDate(r.DOB) == nil {
			s.UnknownDOB++
		}
	}
	s.Patients = len(patients)
	return s
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	data, err := source.Fetch(ctx, cfg.DataSource, cfg.SourceOptions())
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch dataset")
		os.Exit(exitcode.LoadError)
	}

	table, err := source.Decode(data, cfg.DataSource)
	if err != nil {
		log.Error().Err(err).Msg("failed to decode dataset")
		os.Exit(exitcode.LoadError)
	}

	schemaErr := export.ValidateColumns(table.Columns())
	s := collectPlanStats(table, normalize.New(cfg.Lookups))

	fmt.Println("=== hopedash plan ===")
	fmt.Printf("Source:     %s\n", cfg.DataSource)
	fmt.Printf("SHA-256:    %s\n", normalize.ContentHash(data))
	fmt.Printf("Size:       %d bytes\n", len(data))
	fmt.Printf("Rows:       %d\n", s.Rows)
	fmt.Printf("Patients:   %d\n", s.Patients)
	fmt.Println()
	fmt.Println("Values the dashboard will treat as missing:")
	fmt.Printf("  %-22s %6d\n", "grant_req_date", s.UndatedRequest)
	fmt.Printf("  %-22s %6d\n", "amount", s.BadAmount)
	fmt.Printf("  %-22s %6d\n", "pt_state (Unknown)", s.UnknownState)
	fmt.Printf("  %-22s %6d\n", "dob", s.UnknownDOB)
	fmt.Println()

	if schemaErr != nil {
		fmt.Printf("Export schema: %v\n", schemaErr)
		os.Exit(exitcode.LoadError)
	}
	fmt.Println("Export schema: OK")
	return nil
}
