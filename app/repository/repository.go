// Package repository persists users, leaderboard entries and admins in postgres.
package repository

import "github.com/jmoiron/sqlx"

// Queryable is satisfied by *sqlx.DB and *sqlx.Tx.
type Queryable interface {
	sqlx.ExtContext
}
