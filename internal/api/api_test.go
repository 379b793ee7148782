package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"festival/internal/models"
	"festival/internal/realtime"
	"festival/internal/store"

	"golang.org/x/crypto/bcrypt"
)

const (
	testAdminUsername = "admin"
	testAdminPassword = "testpassword123"
)

// testAPI creates a test API over an in-memory SQLite store with one admin
// user provisioned.
func testAPI(t *testing.T) (*API, func()) {
	t.Helper()

	feed := realtime.NewFeed()
	s, err := store.New(store.Config{
		Backend:    store.BackendSQLite,
		SQLitePath: ":memory:",
	}, feed)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	admin := &models.User{Username: testAdminUsername, PasswordHash: string(hash), IsAdmin: true}
	if err := s.CreateUser(admin); err != nil {
		t.Fatalf("Failed to create admin user: %v", err)
	}

	api := New(s, nil)

	cleanup := func() {
		api.Stop()
		s.Close()
	}

	return api, cleanup
}

// doJSON issues a JSON request against the API routes.
func doJSON(t *testing.T, api *API, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	api.Routes().ServeHTTP(w, req)
	return w
}

// loginToken authenticates as the test admin and returns the session token.
func loginToken(t *testing.T, api *API) string {
	t.Helper()

	w := doJSON(t, api, "POST", "/auth/login", "", map[string]string{
		"username": testAdminUsername,
		"password": testAdminPassword,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Failed to log in: %d - %s", w.Code, w.Body.String())
	}

	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	token, ok := resp["token"].(string)
	if !ok || token == "" {
		t.Fatal("No token in login response")
	}
	return token
}

func TestLogin(t *testing.T) {
	api, cleanup := testAPI(t)
	defer cleanup()

	t.Run("valid credentials", func(t *testing.T) {
		token := loginToken(t, api)

		w := doJSON(t, api, "GET", "/auth/me", token, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d - %s", w.Code, w.Body.String())
		}
		var user models.User
		json.Unmarshal(w.Body.Bytes(), &user)
		if user.Username != testAdminUsername {
			t.Fatalf("unexpected user: %+v", user)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		w := doJSON(t, api, "POST", "/auth/login", "", map[string]string{
			"username": testAdminUsername,
			"password": "wrong",
		})
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		w := doJSON(t, api, "POST", "/auth/login", "", map[string]string{
			"username": "ghost",
			"password": testAdminPassword,
		})
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})
}

func TestLogoutInvalidatesSession(t *testing.T) {
	api, cleanup := testAPI(t)
	defer cleanup()

	token := loginToken(t, api)

	if w := doJSON(t, api, "POST", "/auth/logout", token, nil); w.Code != http.StatusOK {
		t.Fatalf("logout failed: %d", w.Code)
	}
	if w := doJSON(t, api, "GET", "/auth/me", token, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", w.Code)
	}
}

func TestAdminRequiresAuth(t *testing.T) {
	api, cleanup := testAPI(t)
	defer cleanup()

	if w := doJSON(t, api, "GET", "/admin/events/", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
	if w := doJSON(t, api, "GET", "/admin/events/", "bogus", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bogus token, got %d", w.Code)
	}
}

func TestEventAdminCRUD(t *testing.T) {
	api, cleanup := testAPI(t)
	defer cleanup()
	token := loginToken(t, api)

	w := doJSON(t, api, "POST", "/admin/events/", token, map[string]interface{}{
		"title":    "Opening Concert",
		"location": "Main Stage",
		"isActive": true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create failed: %d - %s", w.Code, w.Body.String())
	}
	var created models.Event
	json.Unmarshal(w.Body.Bytes(), &created)
	if created.ID == "" || created.OrderNum != 0 {
		t.Fatalf("unexpected created event: %+v", created)
	}

	// Second create gets the next order number.
	w = doJSON(t, api, "POST", "/admin/events/", token, map[string]interface{}{"title": "Second"})
	var second models.Event
	json.Unmarshal(w.Body.Bytes(), &second)
	if second.OrderNum != 1 {
		t.Fatalf("expected order 1, got %d", second.OrderNum)
	}

	w = doJSON(t, api, "POST", "/admin/events/", token, map[string]interface{}{"title": ""})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing title should be rejected, got %d", w.Code)
	}

	created.Title = "Opening Night"
	w = doJSON(t, api, "PUT", "/admin/events/"+created.ID, token, created)
	if w.Code != http.StatusOK {
		t.Fatalf("update failed: %d - %s", w.Code, w.Body.String())
	}

	w = doJSON(t, api, "GET", "/admin/events/", token, nil)
	var events []models.Event
	json.Unmarshal(w.Body.Bytes(), &events)
	if len(events) != 2 || events[0].Title != "Opening Night" {
		t.Fatalf("unexpected events: %+v", events)
	}

	w = doJSON(t, api, "DELETE", "/admin/events/"+second.ID, token, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete failed: %d", w.Code)
	}
}

func TestReorderEndpoint(t *testing.T) {
	api, cleanup := testAPI(t)
	defer cleanup()
	token := loginToken(t, api)

	var ids []string
	for _, title := range []string{"a", "b", "c"} {
		w := doJSON(t, api, "POST", "/admin/events/", token, map[string]interface{}{"title": title})
		var e models.Event
		json.Unmarshal(w.Body.Bytes(), &e)
		ids = append(ids, e.ID)
	}

	t.Run("moves middle record up", func(t *testing.T) {
		w := doJSON(t, api, "PUT", "/admin/order/events/"+ids[1], token, map[string]string{"direction": "up"})
		if w.Code != http.StatusOK {
			t.Fatalf("reorder failed: %d - %s", w.Code, w.Body.String())
		}

		w = doJSON(t, api, "GET", "/admin/events/", token, nil)
		var events []models.Event
		json.Unmarshal(w.Body.Bytes(), &events)
		if events[0].ID != ids[1] || events[1].ID != ids[0] || events[2].ID != ids[2] {
			t.Fatalf("unexpected order: %+v", events)
		}
	})

	t.Run("boundary move is a no-op", func(t *testing.T) {
		w := doJSON(t, api, "PUT", "/admin/order/events/"+ids[1], token, map[string]string{"direction": "up"})
		if w.Code != http.StatusOK {
			t.Fatalf("boundary reorder failed: %d", w.Code)
		}
		var resp map[string]string
		json.Unmarshal(w.Body.Bytes(), &resp)
		if resp["status"] != "unchanged" {
			t.Fatalf("expected unchanged, got %q", resp["status"])
		}
	})

	t.Run("rejects bad input", func(t *testing.T) {
		w := doJSON(t, api, "PUT", "/admin/order/events/"+ids[0], token, map[string]string{"direction": "sideways"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for bad direction, got %d", w.Code)
		}
		w = doJSON(t, api, "PUT", "/admin/order/contact_info/"+ids[0], token, map[string]string{"direction": "up"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unordered resource, got %d", w.Code)
		}
		w = doJSON(t, api, "PUT", "/admin/order/events/missing", token, map[string]string{"direction": "up"})
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for missing record, got %d", w.Code)
		}
	})
}

func TestVisibilityEndpoint(t *testing.T) {
	api, cleanup := testAPI(t)
	defer cleanup()
	token := loginToken(t, api)

	w := doJSON(t, api, "POST", "/admin/events/", token, map[string]interface{}{
		"title":    "Hidden Soon",
		"isActive": true,
	})
	var e models.Event
	json.Unmarshal(w.Body.Bytes(), &e)

	w = doJSON(t, api, "PUT", "/admin/visibility/events/"+e.ID, token, map[string]bool{"value": false})
	if w.Code != http.StatusOK {
		t.Fatalf("toggle failed: %d - %s", w.Code, w.Body.String())
	}

	// The public list only carries visible records.
	w = doJSON(t, api, "GET", "/events", "", nil)
	var public []models.Event
	json.Unmarshal(w.Body.Bytes(), &public)
	if len(public) != 0 {
		t.Fatalf("hidden record leaked to the public list: %+v", public)
	}

	w = doJSON(t, api, "PUT", "/admin/visibility/events/missing", token, map[string]bool{"value": true})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing record, got %d", w.Code)
	}
	w = doJSON(t, api, "PUT", "/admin/visibility/schedule_days/"+e.ID, token, map[string]bool{"value": true})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for resource without flag, got %d", w.Code)
	}
}

func TestPublicCacheFollowsAdminChanges(t *testing.T) {
	api, cleanup := testAPI(t)
	defer cleanup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := api.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	token := loginToken(t, api)

	w := doJSON(t, api, "POST", "/admin/events/", token, map[string]interface{}{
		"title":    "Late Addition",
		"isActive": true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create failed: %d", w.Code)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		w = doJSON(t, api, "GET", "/events", "", nil)
		var events []models.Event
		json.Unmarshal(w.Body.Bytes(), &events)
		if len(events) == 1 && events[0].Title == "Late Addition" {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("public cache never picked up the new record: %s", w.Body.String())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestPublicSchedule(t *testing.T) {
	api, cleanup := testAPI(t)
	defer cleanup()
	token := loginToken(t, api)

	w := doJSON(t, api, "POST", "/admin/schedule/days/", token, map[string]interface{}{
		"label": "Friday",
		"date":  "2026-07-10",
	})
	var day models.ScheduleDay
	json.Unmarshal(w.Body.Bytes(), &day)

	w = doJSON(t, api, "POST", "/admin/schedule/entries/", token, map[string]interface{}{
		"dayId": day.ID,
		"time":  "18:30",
		"title": "Doors",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create entry failed: %d - %s", w.Code, w.Body.String())
	}

	w = doJSON(t, api, "GET", "/schedule", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("schedule failed: %d", w.Code)
	}
	var schedule []struct {
		models.ScheduleDay
		Entries []models.ScheduleEntry `json:"entries"`
	}
	json.Unmarshal(w.Body.Bytes(), &schedule)
	if len(schedule) != 1 || len(schedule[0].Entries) != 1 || schedule[0].Entries[0].Title != "Doors" {
		t.Fatalf("unexpected schedule: %s", w.Body.String())
	}
}

func TestPublicPage(t *testing.T) {
	api, cleanup := testAPI(t)
	defer cleanup()
	token := loginToken(t, api)

	w := doJSON(t, api, "POST", "/admin/pages/", token, map[string]interface{}{
		"slug":      "about",
		"title":     "About",
		"content":   map[string]interface{}{"text": "hello"},
		"published": true,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create page failed: %d - %s", w.Code, w.Body.String())
	}
	doJSON(t, api, "POST", "/admin/pages/", token, map[string]interface{}{
		"slug":  "draft",
		"title": "Draft",
	})

	if w := doJSON(t, api, "GET", "/pages/about", "", nil); w.Code != http.StatusOK {
		t.Fatalf("published page should be public, got %d", w.Code)
	}
	if w := doJSON(t, api, "GET", "/pages/draft", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("unpublished page should 404, got %d", w.Code)
	}
	if w := doJSON(t, api, "GET", "/pages/missing", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing page should 404, got %d", w.Code)
	}
}

func TestSettingsEndpoints(t *testing.T) {
	api, cleanup := testAPI(t)
	defer cleanup()
	token := loginToken(t, api)

	t.Run("countdown saves once", func(t *testing.T) {
		body := map[string]interface{}{
			"title":    "Festival starts in",
			"targetAt": time.Date(2026, 7, 10, 18, 0, 0, 0, time.UTC).Format(time.RFC3339),
			"enabled":  true,
		}
		w := doJSON(t, api, "PUT", "/admin/settings/countdown", token, body)
		if w.Code != http.StatusOK {
			t.Fatalf("save failed: %d - %s", w.Code, w.Body.String())
		}
		var first models.CountdownSettings
		json.Unmarshal(w.Body.Bytes(), &first)

		// Repeated save without an id must update the same row.
		body["enabled"] = false
		w = doJSON(t, api, "PUT", "/admin/settings/countdown", token, body)
		var second models.CountdownSettings
		json.Unmarshal(w.Body.Bytes(), &second)
		if second.ID != first.ID {
			t.Fatalf("repeated save created a second row: %q vs %q", first.ID, second.ID)
		}

		w = doJSON(t, api, "GET", "/settings/countdown", "", nil)
		var public models.CountdownSettings
		json.Unmarshal(w.Body.Bytes(), &public)
		if public.ID != first.ID || public.Enabled {
			t.Fatalf("unexpected public countdown: %+v", public)
		}
	})

	t.Run("countdown requires target", func(t *testing.T) {
		w := doJSON(t, api, "PUT", "/admin/settings/countdown", token, map[string]interface{}{"title": "no target"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("contact upsert", func(t *testing.T) {
		w := doJSON(t, api, "PUT", "/admin/contact", token, map[string]string{"email": "info@example.com"})
		if w.Code != http.StatusOK {
			t.Fatalf("save failed: %d - %s", w.Code, w.Body.String())
		}
		w = doJSON(t, api, "PUT", "/admin/contact", token, map[string]string{"email": "hello@example.com"})
		if w.Code != http.StatusOK {
			t.Fatalf("second save failed: %d", w.Code)
		}

		w = doJSON(t, api, "GET", "/contact", "", nil)
		var contact models.ContactInfo
		json.Unmarshal(w.Body.Bytes(), &contact)
		if contact.Email != "hello@example.com" {
			t.Fatalf("unexpected contact: %+v", contact)
		}
	})
}

func TestUploadWithoutStorage(t *testing.T) {
	api, cleanup := testAPI(t)
	defer cleanup()
	token := loginToken(t, api)

	w := doJSON(t, api, "POST", "/admin/upload", token, nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without object storage, got %d", w.Code)
	}
}
