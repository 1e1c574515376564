package psqlbuilder

import (
	"fmt"

	"github.com/Masterminds/squirrel"
)

// Dialect SQL-диалект хранилища
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// ParseDialect возвращает диалект по имени драйвера из конфигурации
func ParseDialect(driver string) (Dialect, error) {
	switch Dialect(driver) {
	case DialectPostgres, DialectSQLite:
		return Dialect(driver), nil
	default:
		return "", fmt.Errorf("psqlbuilder: unsupported dialect %q", driver)
	}
}

// New возвращает построитель запросов с плейсхолдерами диалекта:
// $1, $2 для PostgreSQL и ? для SQLite
func New(dialect Dialect) squirrel.StatementBuilderType {
	if dialect == DialectSQLite {
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
	}
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// SupportsRowLocks сообщает, поддерживает ли диалект SELECT ... FOR UPDATE
func (d Dialect) SupportsRowLocks() bool {
	return d == DialectPostgres
}

// SupportsIsolationLevels сообщает, принимает ли драйвер уровни изоляции в BeginTx
func (d Dialect) SupportsIsolationLevels() bool {
	return d == DialectPostgres
}
