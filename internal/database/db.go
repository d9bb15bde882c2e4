// Package database owns the MySQL handle and the embedded schema
// migrations. Open and Migrate share one view of the connection
// coordinates so the pool and the migrator always target the same
// database.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Pool sizing. Every authenticated request costs at least two point
// reads (revocation ledger, then the account row) on top of its own
// queries.
const (
	maxOpenConns    = 25
	maxIdleConns    = 25
	connMaxLifetime = 30 * time.Minute
)

// credentials renders the user[:password] DSN prefix. The password is
// optional; local setups often run without one.
func credentials(user, pass string) string {
	if pass == "" {
		return user
	}
	return fmt.Sprintf("%s:%s", user, pass)
}

// Open connects to MySQL, applies the pool limits and verifies the
// connection with a short ping. parseTime maps DATETIME columns onto
// time.Time and loc=UTC keeps every stored timestamp in one zone,
// which the token expiry comparisons rely on.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		credentials(user, pass), host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return db, nil
}
