// Package db provides database connection utilities for authd.
package db
