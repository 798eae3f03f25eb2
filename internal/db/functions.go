package db

import (
	"database/sql/driver"

	"golang.org/x/text/cases"
	"modernc.org/sqlite"
)

// FoldFunction is the SQL function used for case-insensitive search. SQLite's
// LOWER only folds ASCII, so SQLite gets a Go implementation and Postgres
// gets a migration-defined wrapper around lower().
const FoldFunction = "fold_text"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(FoldFunction, 1, foldText)
}

func foldText(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return fold(v), nil
	case []byte:
		return fold(string(v)), nil
	default:
		return v, nil
	}
}

// fold applies Unicode case folding. A Caser is not safe for concurrent
// use, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
