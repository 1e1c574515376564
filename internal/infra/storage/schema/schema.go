package schema

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/m04kA/SMC-VenueService/pkg/dbmetrics"
	"github.com/m04kA/SMC-VenueService/pkg/psqlbuilder"
)

var (
	//go:embed postgres.sql
	postgresDDL string

	//go:embed sqlite.sql
	sqliteDDL string
)

// Apply создает таблицы, если их еще нет. Не является системой миграций
func Apply(ctx context.Context, db dbmetrics.DBExecutor, dialect psqlbuilder.Dialect) error {
	ddl := postgresDDL
	if dialect == psqlbuilder.DialectSQLite {
		ddl = sqliteDDL
	}

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("schema: apply %s ddl: %w", dialect, err)
	}

	return nil
}
