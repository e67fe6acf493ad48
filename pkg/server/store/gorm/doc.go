// Package gorm implements the store interfaces over GORM/PostgreSQL.
package gorm
