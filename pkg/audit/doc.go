// Package audit emits security audit events in RFC5424 syslog format.
//
// Events are written to stdout and persisted to the audit_events table in
// the application database. Set AUDIT_DATABASE_URL to ship them to a
// separate database instead. Auditing can be disabled with
// AUTHD_AUDIT_ENABLED=false.
package audit
