package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/library-api/backend/internal/model"
)

func TestUsersGroupIsAdminOnly(t *testing.T) {
	env := newTestEnv(t)
	_, userToken := env.seedUser(t, "reader", "reader@example.com", "Secr3t!pass", model.RoleUser)
	_, adminToken := env.seedUser(t, "admin", "admin@example.com", "Secr3t!pass", model.RoleAdmin)

	w := env.do(t, http.MethodGet, "/api/v1/users", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: expected 401, got %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/v1/users", userToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("regular user: expected 403, got %d", w.Code)
	}

	w = env.do(t, http.MethodGet, "/api/v1/users", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("admin: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	users := decodeBody(t, w)["data"].([]any)
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	for _, entry := range users {
		if _, exposed := entry.(map[string]any)["password_hash"]; exposed {
			t.Fatal("user listing must not expose password hashes")
		}
	}
}

func TestAdminCannotDeleteSelf(t *testing.T) {
	env := newTestEnv(t)
	admin, adminToken := env.seedUser(t, "admin", "admin@example.com", "Secr3t!pass", model.RoleAdmin)

	w := env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", admin.ID), adminToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d: %s", w.Code, w.Body.String())
	}
	if msg := errorMessage(t, w); msg != "Cannot delete your own account" {
		t.Fatalf("unexpected error message %q", msg)
	}
}

func TestAdminCannotChangeOwnRole(t *testing.T) {
	env := newTestEnv(t)
	admin, adminToken := env.seedUser(t, "admin", "admin@example.com", "Secr3t!pass", model.RoleAdmin)
	super, superToken := env.seedUser(t, "root", "root@example.com", "Secr3t!pass", model.RoleSuperAdmin)

	role := model.RoleSuperAdmin
	w := env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/users/%d", admin.ID), adminToken, model.UpdateUserRequest{Role: &role})
	if w.Code != http.StatusForbidden {
		t.Fatalf("admin self-promotion: expected 403, got %d: %s", w.Code, w.Body.String())
	}

	// Super admins may edit their own role.
	downgrade := model.RoleAdmin
	w = env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/users/%d", super.ID), superToken, model.UpdateUserRequest{Role: &downgrade})
	if w.Code != http.StatusOK {
		t.Fatalf("super_admin self-edit: expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminManagesUsers(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedUser(t, "admin", "admin@example.com", "Secr3t!pass", model.RoleAdmin)

	w := env.do(t, http.MethodPost, "/api/v1/users", adminToken, model.CreateUserRequest{
		Username: "carol",
		Email:    "carol@example.com",
		Password: "Secr3t!pass",
		Role:     model.RoleAdmin,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	created := decodeBody(t, w)["data"].(map[string]any)
	if created["role"] != model.RoleAdmin {
		t.Fatalf("expected role admin, got %v", created["role"])
	}

	id := int64(created["id"].(float64))
	w = env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", id), adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}
	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", id), adminToken, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", w.Code)
	}
}

func TestBlacklistStats(t *testing.T) {
	env := newTestEnv(t)
	_, userToken := env.seedUser(t, "reader", "reader@example.com", "Secr3t!pass", model.RoleUser)
	_, adminToken := env.seedUser(t, "admin", "admin@example.com", "Secr3t!pass", model.RoleAdmin)

	if w := env.do(t, http.MethodPost, "/api/v1/auth/logout", userToken, nil); w.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/v1/users/blacklist/stats", adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	stats := decodeBody(t, w)["data"].(map[string]any)
	if got := stats["active"].(float64); got != 1 {
		t.Fatalf("expected 1 active entry, got %v", got)
	}
}
