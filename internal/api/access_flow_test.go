package api_test

import (
	"net/http"
	"testing"
)

func TestMagicLinkFlow(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)
	video := seedVideo(t, env, "Wheel Chocks", "acme", true)

	// Request access: mints a link and dispatches the email.
	resp, body := doJSON(t, client, "POST", env.server.URL+"/api/request-access", map[string]string{
		"email":    "a@co.com",
		"userName": "Alice",
	})
	mustStatus(t, resp, http.StatusOK, body)
	token := tokenFromEmail(t, env.sender.last(t))

	// Redeem: opens the viewing session.
	resp, body = doJSON(t, client, "GET", listURL(env, "/api/access/%s", token), nil)
	mustStatus(t, resp, http.StatusOK, body)
	if got := asString(t, body, "video", "id"); got != video.ID {
		t.Fatalf("redeemed wrong video: %s", got)
	}
	if got := asString(t, body, "accessLog", "email"); got != "a@co.com" {
		t.Fatalf("access log bound to wrong email: %s", got)
	}
	if got := asString(t, body, "token"); got != token {
		t.Fatal("token must be echoed back for progress calls")
	}
	logID := asString(t, body, "accessLog", "id")

	// A second redemption of the same token is rejected for good.
	resp, body = doJSON(t, client, "GET", listURL(env, "/api/access/%s", token), nil)
	mustStatus(t, resp, http.StatusGone, body)

	// Progress updates; the second one is stale and must not win.
	resp, body = doJSON(t, client, "PATCH", listURL(env, "/api/access/%s/progress", logID), map[string]int{
		"watchDuration": 30, "completionPercentage": 50,
	})
	mustStatus(t, resp, http.StatusOK, body)
	resp, body = doJSON(t, client, "PATCH", listURL(env, "/api/access/%s/progress", logID), map[string]int{
		"watchDuration": 20, "completionPercentage": 40,
	})
	mustStatus(t, resp, http.StatusOK, body)

	// Completion view shows the monotonic values and the joined video fields.
	resp, body = doJSON(t, client, "GET", listURL(env, "/api/access-logs/%s", logID), nil)
	mustStatus(t, resp, http.StatusOK, body)
	if body["completionPercentage"].(float64) != 50 {
		t.Fatalf("expected completion 50, got %v", body["completionPercentage"])
	}
	if body["watchDuration"].(float64) != 30 {
		t.Fatalf("expected watch duration 30, got %v", body["watchDuration"])
	}
	if asString(t, body, "videoTitle") != "Wheel Chocks" {
		t.Fatalf("expected joined video title, got %v", body["videoTitle"])
	}
}

func TestRequestAccessValidation(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)
	seedVideo(t, env, "Wheel Chocks", "", true)

	resp, body := doJSON(t, client, "POST", env.server.URL+"/api/request-access", map[string]string{
		"email": "not-an-email", "userName": "Alice",
	})
	mustStatus(t, resp, http.StatusBadRequest, body)

	resp, body = doJSON(t, client, "POST", env.server.URL+"/api/request-access", map[string]string{
		"email": "a@co.com",
	})
	mustStatus(t, resp, http.StatusBadRequest, body)
}

func TestRequestAccessNoVideo(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)

	resp, body := doJSON(t, client, "POST", env.server.URL+"/api/request-access", map[string]string{
		"email": "a@co.com", "userName": "Alice",
	})
	mustStatus(t, resp, http.StatusNotFound, body)
}

func TestRequestAccessExplicitVideo(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)
	seedVideo(t, env, "Newest", "", true)
	older := seedVideo(t, env, "Requested", "", true)
	inactive := seedVideo(t, env, "Retired", "", false)

	resp, body := doJSON(t, client, "POST", env.server.URL+"/api/request-access", map[string]string{
		"email": "a@co.com", "userName": "Alice", "videoId": older.ID,
	})
	mustStatus(t, resp, http.StatusOK, body)
	token := tokenFromEmail(t, env.sender.last(t))

	resp, body = doJSON(t, client, "GET", listURL(env, "/api/access/%s", token), nil)
	mustStatus(t, resp, http.StatusOK, body)
	if got := asString(t, body, "video", "id"); got != older.ID {
		t.Fatalf("explicit videoId ignored, got %s", got)
	}

	// An inactive video cannot be requested explicitly.
	resp, body = doJSON(t, client, "POST", env.server.URL+"/api/request-access", map[string]string{
		"email": "a@co.com", "userName": "Alice", "videoId": inactive.ID,
	})
	mustStatus(t, resp, http.StatusNotFound, body)
}

func TestRequestAccessEmailFailure(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)
	seedVideo(t, env, "Wheel Chocks", "", true)
	env.sender.fail = true

	resp, body := doJSON(t, client, "POST", env.server.URL+"/api/request-access", map[string]string{
		"email": "a@co.com", "userName": "Alice",
	})
	mustStatus(t, resp, http.StatusInternalServerError, body)
}

func TestRedeemUnknownToken(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)

	resp, body := doJSON(t, client, "GET", env.server.URL+"/api/access/deadbeef", nil)
	mustStatus(t, resp, http.StatusNotFound, body)
}

func TestProgressValidation(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)

	resp, body := doJSON(t, client, "PATCH", env.server.URL+"/api/access/some-id/progress", map[string]int{
		"watchDuration": 10, "completionPercentage": 150,
	})
	mustStatus(t, resp, http.StatusBadRequest, body)

	resp, body = doJSON(t, client, "PATCH", env.server.URL+"/api/access/some-id/progress", map[string]int{
		"watchDuration": -5, "completionPercentage": 50,
	})
	mustStatus(t, resp, http.StatusBadRequest, body)

	// Well-formed update against an unknown session.
	resp, body = doJSON(t, client, "PATCH", env.server.URL+"/api/access/some-id/progress", map[string]int{
		"watchDuration": 10, "completionPercentage": 50,
	})
	mustStatus(t, resp, http.StatusNotFound, body)
}

func TestPublicVideoProjection(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)
	active := seedVideo(t, env, "Active", "", true)
	inactive := seedVideo(t, env, "Inactive", "", false)

	resp, body := doJSON(t, client, "GET", listURL(env, "/api/videos/%s", active.ID), nil)
	mustStatus(t, resp, http.StatusOK, body)
	if asString(t, body, "title") != "Active" {
		t.Fatalf("unexpected video payload: %v", body)
	}

	resp, body = doJSON(t, client, "GET", listURL(env, "/api/videos/%s", inactive.ID), nil)
	mustStatus(t, resp, http.StatusNotFound, body)
}
