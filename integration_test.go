package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"achievify/handlers"
	appmw "achievify/middleware"
	"achievify/store"
	"achievify/token"
)

func newTestServer() chi.Router {
	users := store.NewMemoryUserStore()
	goals := store.NewMemoryGoalStore()
	tokens := token.NewService([]byte("integration-test-secret"))

	return newRouter(
		handlers.NewAuthHandler(users, tokens),
		handlers.NewGoalHandler(goals),
		appmw.NewAuth(tokens, users),
	)
}

func doRequest(router chi.Router, method, target, bearer string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// TestGoalLifecycle walks the whole flow: signup, login, create, patch,
// delete, list.
func TestGoalLifecycle(t *testing.T) {
	router := newTestServer()

	// Signup
	rr := doRequest(router, "POST", "/signup", "", map[string]string{
		"email":    "a@b.com",
		"password": "pw123456",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("Signup returned wrong status code: got %v want %v (%s)", rr.Code, http.StatusCreated, rr.Body.String())
	}

	// Login
	rr = doRequest(router, "POST", "/login", "", map[string]string{
		"email":    "a@b.com",
		"password": "pw123456",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("Login returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}
	var loginResp map[string]string
	json.Unmarshal(rr.Body.Bytes(), &loginResp)
	bearer := loginResp["token"]
	if bearer == "" {
		t.Fatal("Login response missing token")
	}
	if loginResp["email"] != "a@b.com" {
		t.Errorf("Login response has wrong email: got %q", loginResp["email"])
	}

	// Create a goal
	rr = doRequest(router, "POST", "/goals", bearer, map[string]any{"text": "Learn Go"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("Create returned wrong status code: got %v want %v (%s)", rr.Code, http.StatusCreated, rr.Body.String())
	}
	var goal struct {
		ID        string `json:"id"`
		Text      string `json:"text"`
		Completed bool   `json:"completed"`
		Category  string `json:"category"`
		Priority  string `json:"priority"`
	}
	json.Unmarshal(rr.Body.Bytes(), &goal)
	if goal.Text != "Learn Go" || goal.Completed || goal.Category != "Personal" || goal.Priority != "medium" {
		t.Errorf("Created goal has wrong fields: %+v", goal)
	}

	// Mark it completed
	rr = doRequest(router, "PUT", "/goals/"+goal.ID, bearer, map[string]any{"completed": true})
	if rr.Code != http.StatusOK {
		t.Fatalf("Update returned wrong status code: got %v want %v (%s)", rr.Code, http.StatusOK, rr.Body.String())
	}
	var updated struct {
		Text      string `json:"text"`
		Completed bool   `json:"completed"`
		Category  string `json:"category"`
		Priority  string `json:"priority"`
	}
	json.Unmarshal(rr.Body.Bytes(), &updated)
	if !updated.Completed {
		t.Error("Goal not marked completed")
	}
	if updated.Text != "Learn Go" || updated.Category != "Personal" || updated.Priority != "medium" {
		t.Errorf("Patch touched other fields: %+v", updated)
	}

	// Delete it
	rr = doRequest(router, "DELETE", "/goals/"+goal.ID, bearer, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("Delete returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}

	// List is empty again
	rr = doRequest(router, "GET", "/goals", bearer, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("List returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("Expected empty list, got %q", rr.Body.String())
	}
}

func TestOwnershipIsolation(t *testing.T) {
	router := newTestServer()

	login := func(t *testing.T, email string) string {
		t.Helper()
		rr := doRequest(router, "POST", "/signup", "", map[string]string{"email": email, "password": "pw123456"})
		if rr.Code != http.StatusCreated {
			t.Fatalf("Signup failed: %v", rr.Code)
		}
		rr = doRequest(router, "POST", "/login", "", map[string]string{"email": email, "password": "pw123456"})
		if rr.Code != http.StatusOK {
			t.Fatalf("Login failed: %v", rr.Code)
		}
		var resp map[string]string
		json.Unmarshal(rr.Body.Bytes(), &resp)
		return resp["token"]
	}

	alice := login(t, "alice@example.com")
	bob := login(t, "bob@example.com")

	rr := doRequest(router, "POST", "/goals", alice, map[string]any{"text": "Alice's goal"})
	var goal map[string]any
	json.Unmarshal(rr.Body.Bytes(), &goal)
	goalID := goal["id"].(string)

	// Bob sees nothing
	rr = doRequest(router, "GET", "/goals", bob, nil)
	if strings.TrimSpace(rr.Body.String()) != "[]" {
		t.Errorf("Bob can list Alice's goals: %q", rr.Body.String())
	}

	// Bob cannot touch Alice's goal by id
	rr = doRequest(router, "PUT", "/goals/"+goalID, bob, map[string]any{"completed": true})
	if rr.Code != http.StatusNotFound {
		t.Errorf("Update across owners returned %v, want %v", rr.Code, http.StatusNotFound)
	}
	rr = doRequest(router, "DELETE", "/goals/"+goalID, bob, nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("Delete across owners returned %v, want %v", rr.Code, http.StatusNotFound)
	}

	// Alice still has her goal
	rr = doRequest(router, "GET", "/goals", alice, nil)
	var goals []map[string]any
	json.Unmarshal(rr.Body.Bytes(), &goals)
	if len(goals) != 1 {
		t.Errorf("Alice's goals were affected: %+v", goals)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestServer()

	for _, tc := range []struct {
		method, target string
	}{
		{"GET", "/goals"},
		{"POST", "/goals"},
		{"PUT", "/goals/64a5f0c2b3d4e5f6a7b8c9d0"},
		{"DELETE", "/goals/64a5f0c2b3d4e5f6a7b8c9d0"},
	} {
		rr := doRequest(router, tc.method, tc.target, "", nil)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token returned %v, want %v", tc.method, tc.target, rr.Code, http.StatusUnauthorized)
		}
	}
}

func TestDuplicateSignup(t *testing.T) {
	router := newTestServer()

	body := map[string]string{"email": "dup@example.com", "password": "pw123456"}
	if rr := doRequest(router, "POST", "/signup", "", body); rr.Code != http.StatusCreated {
		t.Fatalf("First signup failed: %v", rr.Code)
	}
	rr := doRequest(router, "POST", "/signup", "", body)
	if rr.Code != http.StatusConflict {
		t.Errorf("Duplicate signup returned %v, want %v", rr.Code, http.StatusConflict)
	}

	// The original account still works.
	rr = doRequest(router, "POST", "/login", "", body)
	if rr.Code != http.StatusOK {
		t.Errorf("Login after duplicate signup returned %v, want %v", rr.Code, http.StatusOK)
	}
}
