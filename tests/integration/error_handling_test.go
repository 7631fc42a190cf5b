//go:build integration
// +build integration

package integration

import (
	"net/http"
	"testing"
)

func TestMalformedJSONIsRejected(t *testing.T) {
	resp := doJSON(t, http.MethodPost, baseURL()+"/generate-quiz", "", `{"categories": [`)
	if resp.StatusCode != http.StatusBadRequest {
		resp.Body.Close()
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var errResp map[string]any
	decode(t, resp, &errResp)
	if errResp["error"] != "invalid_json" {
		t.Fatalf("expected invalid_json, got %v", errResp["error"])
	}
}

func TestMissingCategoriesIsRejected(t *testing.T) {
	resp := doJSON(t, http.MethodPost, baseURL()+"/generate-quiz", "", map[string]any{"categories": []string{}})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestEventsRequireHostToken(t *testing.T) {
	s := createSession(t, "en")

	resp := doJSON(t, http.MethodPost, baseURL()+"/v1/games/"+s.ID+"/events", "", map[string]string{"type": "start_game"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestUnknownEventIsRejected(t *testing.T) {
	s := createSession(t, "en")

	resp := doJSON(t, http.MethodPost, baseURL()+"/v1/games/"+s.ID+"/events", s.HostToken, map[string]string{"type": "explode"})
	if resp.StatusCode != http.StatusBadRequest {
		resp.Body.Close()
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var errResp map[string]any
	decode(t, resp, &errResp)
	if errResp["error"] != "unknown_event" {
		t.Fatalf("expected unknown_event, got %v", errResp["error"])
	}
}

func TestUnknownSession(t *testing.T) {
	resp, err := client.Get(baseURL() + "/v1/games/00000000-0000-0000-0000-000000000000")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
