// Package postgres provides PostgreSQL implementations of the store
// interfaces, using database/sql over the pgx stdlib driver. Schema lives
// in the migrations directory and is applied with goose at startup.
// Dynamic queries (partial updates, filtered lists) are built with
// squirrel; errors are mapped onto the store package's sentinel errors so
// callers never see driver-level error types.
package postgres
