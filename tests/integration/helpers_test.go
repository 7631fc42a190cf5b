//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"testing"
	"time"
)

type session struct {
	ID        string         `json:"session_id"`
	HostToken string         `json:"host_token"`
	State     map[string]any `json:"state"`
}

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func baseURL() string {
	return envOrDefault("INTEGRATION_BASE_URL", "http://localhost:3001")
}

var client = &http.Client{Timeout: 60 * time.Second}

func doJSON(t *testing.T, method, url, token string, payload any) *http.Response {
	t.Helper()

	var body *bytes.Reader
	switch p := payload.(type) {
	case nil:
		body = bytes.NewReader(nil)
	case string:
		body = bytes.NewReader([]byte(p))
	default:
		data, err := json.Marshal(p)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, url, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func createSession(t *testing.T, lang string) session {
	t.Helper()

	resp := doJSON(t, http.MethodPost, baseURL()+"/v1/games", "", map[string]string{"lang": lang})
	if resp.StatusCode != http.StatusCreated {
		resp.Body.Close()
		t.Fatalf("unexpected create session status: %d", resp.StatusCode)
	}

	var s session
	decode(t, resp, &s)
	if s.ID == "" || s.HostToken == "" {
		t.Fatalf("incomplete session response: %+v", s)
	}
	return s
}

func dispatch(t *testing.T, s session, event map[string]any) map[string]any {
	t.Helper()

	resp := doJSON(t, http.MethodPost, baseURL()+"/v1/games/"+s.ID+"/events", s.HostToken, event)
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		t.Fatalf("event %v: unexpected status %d", event["type"], resp.StatusCode)
	}

	var state map[string]any
	decode(t, resp, &state)
	return state
}
