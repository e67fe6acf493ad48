// Package db holds the SQL migrations for the authd schema. Builds with the
// embed_migrations tag embed them into the binary; otherwise they are read
// from db/migrations at runtime.
package db
