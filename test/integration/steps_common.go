package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cucumber/godog"

	"github.com/authd/authd/pkg/password"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	response     *http.Response
	responseBody []byte
	accessToken  string
	tokens       map[string]string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	return &StepsContext{
		tc:     tc,
		tokens: make(map[string]string),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	// Background steps
	sc.Step(`^the authd server is running$`, s.theServerIsRunning)
	sc.Step(`^no user "([^"]*)" exists$`, s.noUserExists)
	sc.Step(`^a user "([^"]*)" exists with email "([^"]*)" and password "([^"]*)"$`, s.aUserExists)
	sc.Step(`^an admin "([^"]*)" exists with email "([^"]*)" and password "([^"]*)"$`, s.anAdminExists)

	// Signup and login steps
	sc.Step(`^I sign up as "([^"]*)" with email "([^"]*)" and password "([^"]*)"$`, s.iSignUp)
	sc.Step(`^I log in as "([^"]*)" with password "([^"]*)"$`, s.iLogIn)
	sc.Step(`^I should receive an access token$`, s.iShouldReceiveAnAccessToken)

	// Authenticated request steps
	sc.Step(`^I request my profile$`, s.iRequestMyProfile)
	sc.Step(`^the profile username should be "([^"]*)"$`, s.theProfileUsernameShouldBe)
	sc.Step(`^I change my password from "([^"]*)" to "([^"]*)"$`, s.iChangeMyPassword)

	// Admin steps
	sc.Step(`^I list users$`, s.iListUsers)
	sc.Step(`^the user list should include "([^"]*)"$`, s.theUserListShouldInclude)
	sc.Step(`^I deactivate user "([^"]*)"$`, s.iDeactivateUser)
	sc.Step(`^user "([^"]*)" should be inactive$`, s.userShouldBeInactive)

	// Response steps
	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
}

// Background steps

func (s *StepsContext) theServerIsRunning() error {
	resp, err := s.tc.HTTPClient.Get(s.tc.ServerURL + "/health")
	if err != nil {
		return fmt.Errorf("server is not reachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expected health status 200, got %d", resp.StatusCode)
	}
	return nil
}

func (s *StepsContext) noUserExists(username string) error {
	return s.tc.DB.Exec(`DELETE FROM users WHERE username = ?`, username).Error
}

func (s *StepsContext) aUserExists(username, email, plaintext string) error {
	return s.insertUser(username, email, plaintext, false)
}

func (s *StepsContext) anAdminExists(username, email, plaintext string) error {
	return s.insertUser(username, email, plaintext, true)
}

func (s *StepsContext) insertUser(username, email, plaintext string, admin bool) error {
	hashed, err := password.Hash(plaintext, password.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.tc.DB.Exec(`
		INSERT INTO users (username, email, hashed_password, is_active, is_admin)
		VALUES (?, ?, ?, TRUE, ?)
		ON CONFLICT (username) DO UPDATE
		SET hashed_password = EXCLUDED.hashed_password,
		    is_active = TRUE,
		    is_admin = EXCLUDED.is_admin
	`, username, email, hashed, admin).Error
}

// Signup and login steps

func (s *StepsContext) iSignUp(username, email, plaintext string) error {
	body := map[string]string{
		"username": username,
		"email":    email,
		"password": plaintext,
	}
	return s.postJSON("/authn/signup", body, "")
}

func (s *StepsContext) iLogIn(username, plaintext string) error {
	body := map[string]string{
		"username": username,
		"password": plaintext,
	}
	if err := s.postJSON("/authn/login", body, ""); err != nil {
		return err
	}

	if s.response.StatusCode == http.StatusOK {
		var result struct {
			AccessToken string `json:"access_token"`
		}
		if err := json.Unmarshal(s.responseBody, &result); err != nil {
			return fmt.Errorf("failed to parse login response: %w", err)
		}
		s.accessToken = result.AccessToken
		s.tokens[username] = result.AccessToken
	}
	return nil
}

func (s *StepsContext) iShouldReceiveAnAccessToken() error {
	var result struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(s.responseBody, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if result.AccessToken == "" {
		return fmt.Errorf("expected an access token, got: %s", s.responseBody)
	}
	if result.TokenType != "bearer" {
		return fmt.Errorf("expected token_type 'bearer', got %q", result.TokenType)
	}
	if result.ExpiresIn <= 0 {
		return fmt.Errorf("expected a positive expires_in, got %d", result.ExpiresIn)
	}
	return nil
}

// Authenticated request steps

func (s *StepsContext) iRequestMyProfile() error {
	return s.doRequest("GET", "/authn/me", nil, s.accessToken)
}

func (s *StepsContext) theProfileUsernameShouldBe(username string) error {
	var result struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(s.responseBody, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if result.Username != username {
		return fmt.Errorf("expected username %q, got %q", username, result.Username)
	}
	return nil
}

func (s *StepsContext) iChangeMyPassword(current, next string) error {
	body := map[string]string{
		"current_password": current,
		"new_password":     next,
	}
	return s.putJSON("/authn/password", body, s.accessToken)
}

// Admin steps

func (s *StepsContext) iListUsers() error {
	return s.doRequest("GET", "/users", nil, s.accessToken)
}

func (s *StepsContext) theUserListShouldInclude(username string) error {
	var result struct {
		Users []struct {
			Username string `json:"username"`
		} `json:"users"`
	}
	if err := json.Unmarshal(s.responseBody, &result); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	for _, u := range result.Users {
		if u.Username == username {
			return nil
		}
	}
	return fmt.Errorf("user %q not found in list: %s", username, s.responseBody)
}

func (s *StepsContext) iDeactivateUser(username string) error {
	body := map[string]bool{"active": false}
	return s.putJSON("/users/"+username+"/active", body, s.accessToken)
}

func (s *StepsContext) userShouldBeInactive(username string) error {
	var active bool
	err := s.tc.DB.Raw(`SELECT is_active FROM users WHERE username = ?`, username).Scan(&active).Error
	if err != nil {
		return err
	}
	if active {
		return fmt.Errorf("expected user %q to be inactive", username)
	}
	return nil
}

// Response steps

func (s *StepsContext) theResponseStatusShouldBe(status int) error {
	if s.response == nil {
		return fmt.Errorf("no response recorded")
	}
	if s.response.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.response.StatusCode, s.responseBody)
	}
	return nil
}

// HTTP helpers

func (s *StepsContext) postJSON(path string, body interface{}, token string) error {
	return s.doRequest("POST", path, body, token)
}

func (s *StepsContext) putJSON(path string, body interface{}, token string) error {
	return s.doRequest("PUT", path, body, token)
}

func (s *StepsContext) doRequest(method, path string, body interface{}, token string) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, s.tc.ServerURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	s.response = resp
	s.responseBody, err = io.ReadAll(resp.Body)
	return err
}
