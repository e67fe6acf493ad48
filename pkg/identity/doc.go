// Package identity carries the authenticated request identity through
// context.
package identity
