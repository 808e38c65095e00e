package export

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/hopefoundation/hopedash/internal/aggregate"
	"github.com/hopefoundation/hopedash/internal/normalize"
	embedsql "github.com/hopefoundation/hopedash/internal/sql"
)

// assistanceCount is one element of the by_assistance JSONB column.
type assistanceCount struct {
	Assistance string `json:"assistance"`
	Requests   int64  `json:"requests"`
}

// Snapshot computes the impact summary for each window and stores it in
// grants.impact_snapshots under the current batch.
func Snapshot(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, pf *PreflightResult, n *normalize.Normalizers, windows []aggregate.Window) (int, error) {
	start := time.Now()

	for _, w := range windows {
		s := aggregate.Summarize(pf.Table, n, w)
		byAssistance, err := assistanceJSON(s.ByAssistance)
		if err != nil {
			return 0, fmt.Errorf("encode %s breakdown: %w", w.Kind, err)
		}
		_, err = pool.Exec(ctx, embedsql.InsertImpactSnapshot,
			pf.SourceFileID,
			pf.BatchID,
			string(w.Kind),
			w.Label,
			w.Start,
			w.End,
			s.Records,
			s.Patients,
			centsOf(s.TotalAmount),
			centsOf(s.AvgPerPatient),
			byAssistance,
		)
		if err != nil {
			return 0, fmt.Errorf("insert %s snapshot: %w", w.Kind, err)
		}
		log.Info().
			Str("window", w.Label).
			Int("records", s.Records).
			Int("patients", s.Patients).
			Str("total", s.TotalAmount.StringFixed(2)).
			Msg("snapshot written")
	}

	log.Info().Int("snapshots", len(windows)).Dur("duration", time.Since(start)).Msg("snapshots complete")
	return len(windows), nil
}

func assistanceJSON(s aggregate.Series) ([]byte, error) {
	out := make([]assistanceCount, 0, len(s.Groups))
	for _, g := range s.Groups {
		out = append(out, assistanceCount{Assistance: g.Key, Requests: g.Value.IntPart()})
	}
	return json.Marshal(out)
}
