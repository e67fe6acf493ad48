// Package authenticator defines the authentication interface and a
// registry of available authenticators.
package authenticator
