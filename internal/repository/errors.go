package repository

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// pgUniqueViolation はPostgreSQLの一意制約違反のSQLSTATE。
const pgUniqueViolation = "23505"

// isUniqueViolation はドライバ固有の一意制約違反エラーかどうかを判定する。
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgUniqueViolation
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			// 拡張リザルトコードが無効な接続では基本コードのみが返る
			return strings.Contains(sqliteErr.Error(), "UNIQUE")
		}
	}

	return false
}

// isValidID はIDがUUID形式かどうかを判定する。
// UUID型カラムに不正な文字列を渡すとPostgreSQLがエラーを返すため、
// 形式不正のIDは「該当なし」として扱う。
func isValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
