// Package config manages authd configuration.
//
// Application settings are read from authd.yml (under AUTHD_CONFIG_PATH,
// default /etc/authd/config) with environment-variable overrides; the
// source of every attribute (default, file, or environment) is tracked.
// Process-level runtime settings such as DATABASE_URL and the listen
// address are parsed separately from the environment.
package config
