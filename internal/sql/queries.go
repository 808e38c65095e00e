package sql

import (
	"embed"
)

// Migrations holds the schema DDL, applied in filename order.
//
//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/register_source_file.sql
var RegisterSourceFile string

//go:embed queries/lookup_source_file.sql
var LookupSourceFile string

//go:embed queries/update_source_status.sql
var UpdateSourceStatus string

//go:embed queries/mark_source_loaded.sql
var MarkSourceLoaded string

//go:embed queries/delete_superseded_batches.sql
var DeleteSupersededBatches string

//go:embed queries/delete_batch.sql
var DeleteBatch string

//go:embed queries/insert_impact_snapshot.sql
var InsertImpactSnapshot string

//go:embed queries/analyze_records.sql
var AnalyzeRecords string

//go:embed queries/bootstrap_migrations.sql
var BootstrapMigrations string

//go:embed queries/applied_migrations.sql
var AppliedMigrations string

//go:embed queries/record_migration.sql
var RecordMigration string
