// Package main provides authdctl, the CLI for the authd authentication server.
//
// authd is a small authentication service backed by PostgreSQL. It manages
// user accounts with bcrypt-hashed passwords and issues HMAC-signed JWT
// access tokens.
//
// # Architecture
//
// The server is organized into several packages:
//
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: REST API endpoint handlers
//   - pkg/server/store: Persistence interfaces and GORM implementations
//   - pkg/authenticator: Authentication mechanisms
//   - pkg/token: JWT signing and verification
//   - pkg/password: bcrypt password hashing
//   - pkg/model: Database models
//   - pkg/db: Database connection utilities
//   - pkg/audit: Audit logging
//   - pkg/config: Configuration management
//
// # Quick Start
//
//	# Generate a token-signing secret
//	export AUTHD_SECRET_KEY="$(authdctl secret-key generate)"
//
//	# Provision the database role and database
//	authdctl db setup
//
//	# Run database migrations
//	authdctl db migrate
//
//	# Create an admin user
//	authdctl user create admin admin@example.com --admin
//
//	# Start the server
//	authdctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - AUTHD_SECRET_KEY: Secret for signing access tokens
//   - AUTHD_LOG_LEVEL: Log level (debug, info, warn, error)
//   - BIND_ADDRESS: Server bind address (default: 0.0.0.0)
//   - PORT: Server port (default: 8000)
package main
