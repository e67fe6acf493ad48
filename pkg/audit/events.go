package audit

import "fmt"

// AuthenticateEvent records a login attempt.
type AuthenticateEvent struct {
	Username     string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e AuthenticateEvent) MessageID() string {
	return "authn"
}

func (e AuthenticateEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s successfully authenticated", e.Username)
	}
	msg := fmt.Sprintf("%s failed to authenticate", e.Username)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e AuthenticateEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e AuthenticateEvent) Facility() int {
	return FacilityAuthPriv
}

func (e AuthenticateEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDAuth: {
			"user": e.Username,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
}

// SignupEvent records a user creation, via the API or the CLI.
type SignupEvent struct {
	Username     string
	Email        string
	ClientIP     string
	Admin        bool
	Success      bool
	ErrorMessage string
}

func (e SignupEvent) MessageID() string {
	return "signup"
}

func (e SignupEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("user %s created", e.Username)
	}
	msg := fmt.Sprintf("failed to create user %s", e.Username)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e SignupEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e SignupEvent) Facility() int {
	return FacilityAuth
}

func (e SignupEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {
			"user":  e.Username,
			"email": e.Email,
			"admin": fmt.Sprintf("%t", e.Admin),
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
}

// PasswordEvent records a password change or reset.
type PasswordEvent struct {
	Username     string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e PasswordEvent) MessageID() string {
	return "password"
}

func (e PasswordEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s successfully changed their password", e.Username)
	}
	msg := fmt.Sprintf("%s failed to change their password", e.Username)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e PasswordEvent) Severity() Severity {
	if e.Success {
		return SeverityNotice
	}
	return SeverityWarning
}

func (e PasswordEvent) Facility() int {
	return FacilityAuthPriv
}

func (e PasswordEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {
			"user": e.Username,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
}

// UserActiveEvent records an admin enabling or disabling an account.
type UserActiveEvent struct {
	Username string
	Actor    string
	ClientIP string
	Active   bool
}

func (e UserActiveEvent) MessageID() string {
	return "user-active"
}

func (e UserActiveEvent) Message() string {
	if e.Active {
		return fmt.Sprintf("%s activated user %s", e.Actor, e.Username)
	}
	return fmt.Sprintf("%s deactivated user %s", e.Actor, e.Username)
}

func (e UserActiveEvent) Severity() Severity {
	return SeverityNotice
}

func (e UserActiveEvent) Facility() int {
	return FacilityAuth
}

func (e UserActiveEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDSubject: {
			"user":   e.Username,
			"active": fmt.Sprintf("%t", e.Active),
		},
		SDIDAuth: {
			"actor": e.Actor,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
}
