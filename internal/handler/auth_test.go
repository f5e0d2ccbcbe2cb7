package handler

import (
	"net/http"
	"testing"

	"github.com/library-api/backend/internal/model"
)

func TestRegisterLoginMeFlow(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/auth/register", "", model.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "Secr3t!pass",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodPost, "/api/v1/auth/login", "", model.LoginRequest{
		Email:    "alice@example.com",
		Password: "Secr3t!pass",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	body := decodeBody(t, w)
	data := body["data"].(map[string]any)
	token, _ := data["token"].(string)
	if token == "" {
		t.Fatal("login response missing token")
	}
	if _, exposed := data["user"].(map[string]any)["password_hash"]; exposed {
		t.Fatal("login response must not expose the password hash")
	}

	w = env.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	me := decodeBody(t, w)["data"].(map[string]any)
	if me["username"] != "alice" {
		t.Fatalf("expected principal alice, got %v", me["username"])
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice", "alice@example.com", "Secr3t!pass", model.RoleUser)

	w := env.do(t, http.MethodPost, "/api/v1/auth/login", "", model.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if msg := errorMessage(t, w); msg != "Invalid credentials" {
		t.Fatalf("unexpected error message %q", msg)
	}
}

func TestLogoutBlacklistsToken(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "alice", "alice@example.com", "Secr3t!pass", model.RoleUser)

	if w := env.do(t, http.MethodGet, "/api/v1/auth/me", token, nil); w.Code != http.StatusOK {
		t.Fatalf("me before logout: expected 200, got %d", w.Code)
	}

	w := env.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// The same token must be dead on every protected route from now on.
	w = env.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("me after logout: expected 401, got %d", w.Code)
	}
	if msg := errorMessage(t, w); msg != "Access denied. Token is no longer valid." {
		t.Fatalf("unexpected error message %q", msg)
	}
}

func TestLogoutWithoutTokenStillSucceeds(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/auth/logout", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(env.revocations.entries) != 0 {
		t.Fatalf("anonymous logout must not create blacklist entries, got %d", len(env.revocations.entries))
	}
}

func TestLogoutSurvivesRevocationStoreFailure(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "alice", "alice@example.com", "Secr3t!pass", model.RoleUser)

	env.revocations.failWrite = true
	w := env.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("logout must succeed despite a store failure, got %d", w.Code)
	}
}

func TestUpdatePasswordRevokesPresentedToken(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, "alice", "alice@example.com", "Secr3t!pass", model.RoleUser)

	// Login over HTTP so the flow matches a real client.
	w := env.do(t, http.MethodPost, "/api/v1/auth/login", "", model.LoginRequest{
		Email:    "alice@example.com",
		Password: "Secr3t!pass",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", w.Code)
	}
	token := decodeBody(t, w)["data"].(map[string]any)["token"].(string)

	w = env.do(t, http.MethodPut, "/api/v1/auth/updatepassword", token, model.UpdatePasswordRequest{
		CurrentPassword: "Secr3t!pass",
		NewPassword:     "NewSecr3t!pass",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("updatepassword: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("old token after password change: expected 401, got %d", w.Code)
	}

	w = env.do(t, http.MethodPost, "/api/v1/auth/login", "", model.LoginRequest{
		Email:    "alice@example.com",
		Password: "NewSecr3t!pass",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login with new password: expected 200, got %d", w.Code)
	}
}

func TestUpdatePasswordWrongCurrent(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "alice", "alice@example.com", "Secr3t!pass", model.RoleUser)

	w := env.do(t, http.MethodPut, "/api/v1/auth/updatepassword", token, model.UpdatePasswordRequest{
		CurrentPassword: "wrong",
		NewPassword:     "NewSecr3t!pass",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if msg := errorMessage(t, w); msg != "Current password is incorrect" {
		t.Fatalf("unexpected error message %q", msg)
	}

	// The presented token stays usable after a rejected change.
	if w := env.do(t, http.MethodGet, "/api/v1/auth/me", token, nil); w.Code != http.StatusOK {
		t.Fatalf("token should survive a failed password change, got %d", w.Code)
	}
}

func TestRevokedTokensListing(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "alice", "alice@example.com", "Secr3t!pass", model.RoleUser)
	_, second := env.seedUser(t, "bob", "bob@example.com", "Secr3t!pass", model.RoleUser)

	if w := env.do(t, http.MethodPost, "/api/v1/auth/logout", second, nil); w.Code != http.StatusOK {
		t.Fatalf("logout bob: expected 200, got %d", w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/v1/auth/tokens", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("tokens: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	entries, ok := decodeBody(t, w)["data"].([]any)
	if !ok {
		t.Fatalf("expected a list, got %s", w.Body.String())
	}
	// Bob's entry belongs to bob, not alice.
	if len(entries) != 0 {
		t.Fatalf("expected no entries for alice, got %d", len(entries))
	}
}
