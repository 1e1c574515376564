package retry

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"

	"github.com/lib/pq"
)

// TransientSignatures фрагменты текста ошибок транспортного уровня.
// Слои хранилища оборачивают ошибки драйвера через %v, поэтому
// после errors.As остается только сравнение по тексту
var TransientSignatures = []string{
	"bad connection",
	"connection reset",
	"connection refused",
	"connection aborted",
	"broken pipe",
	"handler is closed",
	"i/o timeout",
	"unexpected eof",
	"server closed the connection",
	"could not serialize access",
	"deadlock detected",
	"database is locked",
}

// IsTransient классифицирует ошибку хранилища как временную
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "40": // connection_exception, transaction_rollback
			return true
		}
	}

	return MatchesSignature(err, TransientSignatures)
}

// MatchesSignature проверяет текст ошибки на вхождение одного из фрагментов
func MatchesSignature(err error, signatures []string) bool {
	msg := strings.ToLower(err.Error())
	for _, s := range signatures {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
