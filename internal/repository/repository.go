package repository

import "database/sql"

// Queryer is the subset of database/sql the repositories use, satisfied
// by both *sql.DB and *sql.Tx so a repository can be rebound to a
// transaction with WithTx.
type Queryer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}
