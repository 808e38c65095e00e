package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hopefoundation/hopedash/internal/config"
	"github.com/hopefoundation/hopedash/internal/derive"
	"github.com/hopefoundation/hopedash/internal/normalize"
	"github.com/hopefoundation/hopedash/internal/report"
)

var cfg = config.New()

var rootCmd = &cobra.Command{
	Use:   "hopedash",
	Short: "Grant assistance dashboard for the Hope Foundation",
	Long: "Cleans the grant request spreadsheet, serves the five-page stakeholder dashboard, " +
		"prints pages in the terminal, and exports cleaned records to Postgres.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfg.ConfigPath == "" {
			return nil
		}
		return cfg.LoadFromFile(cfg.ConfigPath)
	},
}

func init() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.ConfigPath, "config", os.Getenv("HOPEDASH_CONFIG"), "YAML config file (or set HOPEDASH_CONFIG)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("HOPEDASH_DB_URL"), "Postgres connection string (or set HOPEDASH_DB_URL)")
	pf.StringVar(&cfg.DataSource, "data", os.Getenv("HOPEDASH_DATA"), "Cleaned dataset: path, http(s):// or s3:// URL (or set HOPEDASH_DATA)")

	cfg.S3AccessKey = os.Getenv("HOPEDASH_S3_ACCESS_KEY")
	cfg.S3SecretKey = os.Getenv("HOPEDASH_S3_SECRET_KEY")
	if ep := os.Getenv("HOPEDASH_S3_ENDPOINT"); ep != "" {
		cfg.S3Endpoint = ep
	}
}

// reportEnv builds the page environment from cfg. Settings were validated
// when the config was loaded.
func reportEnv(now time.Time) report.Env {
	anchor, _ := cfg.Anchor()
	policy, _ := derive.ParseIncomePolicy(cfg.IncomePolicy)
	return report.Env{
		RefYear:      cfg.ReferenceYear,
		Now:          now,
		Anchor:       anchor,
		IncomePolicy: policy,
		Normalizers:  normalize.New(cfg.Lookups),
	}
}
