// Package server provides the authd HTTP server and routing.
package server
