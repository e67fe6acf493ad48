// Package store defines the storage interfaces consumed by the server.
// Implementations live in the gorm subpackage.
package store
