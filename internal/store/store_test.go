package store

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"festival/internal/models"
	"festival/internal/realtime"
)

// setupLocalTestStore creates a test store using local in-memory SQLite.
// Use this for fast unit tests that don't need network access.
func setupLocalTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	cfg := Config{
		Backend:    BackendSQLite,
		SQLitePath: ":memory:",
	}

	store, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("Failed to create local store: %v", err)
	}

	cleanup := func() {
		store.Close()
	}

	return store, cleanup
}

func TestEventCRUD(t *testing.T) {
	s, cleanup := setupLocalTestStore(t)
	defer cleanup()

	e := &models.Event{
		Title:    "Opening Concert",
		Location: "Main Stage",
		StartsAt: time.Date(2026, 7, 10, 20, 0, 0, 0, time.UTC),
		IsActive: true,
	}
	if err := s.CreateEvent(e); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if e.ID == "" {
		t.Fatal("CreateEvent did not assign an id")
	}

	got, err := s.GetEvent(e.ID)
	if err != nil {
		t.Fatalf("GetEvent failed: %v", err)
	}
	if got.Title != "Opening Concert" || !got.IsActive {
		t.Fatalf("unexpected event: %+v", got)
	}

	got.Title = "Opening Night"
	if err := s.UpdateEvent(got); err != nil {
		t.Fatalf("UpdateEvent failed: %v", err)
	}
	got, _ = s.GetEvent(e.ID)
	if got.Title != "Opening Night" {
		t.Fatalf("update not persisted: %+v", got)
	}

	if err := s.DeleteEvent(e.ID); err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}
	if _, err := s.GetEvent(e.ID); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows after delete, got %v", err)
	}
}

func TestListEventsActiveFilter(t *testing.T) {
	s, cleanup := setupLocalTestStore(t)
	defer cleanup()

	active := &models.Event{Title: "Visible", IsActive: true}
	hidden := &models.Event{Title: "Hidden", IsActive: false, OrderNum: 1}
	if err := s.CreateEvent(active); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if err := s.CreateEvent(hidden); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	all, err := s.ListEvents(false)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 events, got %d", len(all))
	}

	visible, err := s.ListEvents(true)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(visible) != 1 || visible[0].Title != "Visible" {
		t.Fatalf("active filter leaked hidden records: %+v", visible)
	}
}

func TestNextOrderNum(t *testing.T) {
	s, cleanup := setupLocalTestStore(t)
	defer cleanup()

	next, err := s.NextOrderNum(ResEvents)
	if err != nil {
		t.Fatalf("NextOrderNum failed: %v", err)
	}
	if next != 0 {
		t.Fatalf("empty collection should start at 0, got %d", next)
	}

	if err := s.CreateEvent(&models.Event{Title: "a", OrderNum: 4}); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	next, err = s.NextOrderNum(ResEvents)
	if err != nil {
		t.Fatalf("NextOrderNum failed: %v", err)
	}
	if next != 5 {
		t.Fatalf("expected max+1 = 5, got %d", next)
	}

	if _, err := s.NextOrderNum(ResContactInfo); err == nil {
		t.Fatal("unordered resource should be rejected")
	}
}

func TestSwapOrder(t *testing.T) {
	s, cleanup := setupLocalTestStore(t)
	defer cleanup()

	a := &models.Event{Title: "a", OrderNum: 0}
	b := &models.Event{Title: "b", OrderNum: 1}
	c := &models.Event{Title: "c", OrderNum: 2}
	for _, e := range []*models.Event{a, b, c} {
		if err := s.CreateEvent(e); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
	}

	if err := s.SwapOrder(ResEvents, b.ID, a.ID); err != nil {
		t.Fatalf("SwapOrder failed: %v", err)
	}

	ids, err := s.OrderedIDs(ResEvents)
	if err != nil {
		t.Fatalf("OrderedIDs failed: %v", err)
	}
	if ids[0] != b.ID || ids[1] != a.ID || ids[2] != c.ID {
		t.Fatalf("unexpected order after swap: %v", ids)
	}

	if err := s.SwapOrder(ResEvents, a.ID, "missing"); err == nil {
		t.Fatal("swap with missing record should fail")
	}
	// The failed swap must not have moved anything.
	ids, _ = s.OrderedIDs(ResEvents)
	if ids[1] != a.ID {
		t.Fatalf("failed swap moved records: %v", ids)
	}
}

func TestSetActive(t *testing.T) {
	s, cleanup := setupLocalTestStore(t)
	defer cleanup()

	e := &models.Event{Title: "a", IsActive: true}
	if err := s.CreateEvent(e); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	if err := s.SetActive(ResEvents, e.ID, false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	got, _ := s.GetEvent(e.ID)
	if got.IsActive {
		t.Fatal("record should be hidden")
	}

	if err := s.SetActive(ResEvents, "missing", true); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
	if err := s.SetActive(ResScheduleDays, e.ID, true); err == nil {
		t.Fatal("resource without a visibility flag should be rejected")
	}
}

func TestScheduleDayCascade(t *testing.T) {
	s, cleanup := setupLocalTestStore(t)
	defer cleanup()

	day := &models.ScheduleDay{Label: "Friday", Date: "2026-07-10"}
	if err := s.CreateScheduleDay(day); err != nil {
		t.Fatalf("CreateScheduleDay failed: %v", err)
	}
	entry := &models.ScheduleEntry{DayID: day.ID, Time: "18:30", Title: "Doors"}
	if err := s.CreateScheduleEntry(entry); err != nil {
		t.Fatalf("CreateScheduleEntry failed: %v", err)
	}

	if err := s.DeleteScheduleDay(day.ID); err != nil {
		t.Fatalf("DeleteScheduleDay failed: %v", err)
	}

	entries, err := s.ListScheduleEntries("")
	if err != nil {
		t.Fatalf("ListScheduleEntries failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries should cascade with their day, got %d", len(entries))
	}
}

func TestPageRoundTrip(t *testing.T) {
	s, cleanup := setupLocalTestStore(t)
	defer cleanup()

	p := &models.Page{
		Slug:  "about",
		Title: "About the Festival",
		Content: map[string]interface{}{
			"blocks": []interface{}{
				map[string]interface{}{"type": "paragraph", "text": "Welcome"},
			},
		},
		Published: true,
	}
	if err := s.CreatePage(p); err != nil {
		t.Fatalf("CreatePage failed: %v", err)
	}

	got, err := s.GetPageBySlug("about")
	if err != nil {
		t.Fatalf("GetPageBySlug failed: %v", err)
	}
	blocks, ok := got.Content["blocks"].([]interface{})
	if !ok || len(blocks) != 1 {
		t.Fatalf("content did not round-trip: %+v", got.Content)
	}

	// Duplicate slugs are rejected by the schema.
	if err := s.CreatePage(&models.Page{Slug: "about", Title: "dup"}); err == nil {
		t.Fatal("duplicate slug should fail")
	}
}

func TestPageMalformedContent(t *testing.T) {
	s, cleanup := setupLocalTestStore(t)
	defer cleanup()

	p := &models.Page{Slug: "broken", Title: "Broken"}
	if err := s.CreatePage(p); err != nil {
		t.Fatalf("CreatePage failed: %v", err)
	}

	// Corrupt the stored JSON directly, the way a bad import would.
	if _, err := s.db.Exec("UPDATE pages SET content = '{not json' WHERE id = ?", p.ID); err != nil {
		t.Fatalf("corrupting content failed: %v", err)
	}

	got, err := s.GetPage(p.ID)
	if err != nil {
		t.Fatalf("malformed content must not fail the read: %v", err)
	}
	if got.Content == nil || len(got.Content) != 0 {
		t.Fatalf("expected empty content fallback, got %+v", got.Content)
	}
}

func TestContactInfoUpsert(t *testing.T) {
	s, cleanup := setupLocalTestStore(t)
	defer cleanup()

	if _, err := s.GetContactInfo(); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows before first save, got %v", err)
	}

	c := &models.ContactInfo{Email: "info@example.com"}
	if err := s.SaveContactInfo(c); err != nil {
		t.Fatalf("SaveContactInfo failed: %v", err)
	}
	if c.ID == "" {
		t.Fatal("first save did not assign an id")
	}

	c.Phone = "+49 30 1234"
	if err := s.SaveContactInfo(c); err != nil {
		t.Fatalf("SaveContactInfo failed: %v", err)
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM contact_info").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("repeated saves must keep one row, got %d", count)
	}
}

func TestCountdownSettingsSingleton(t *testing.T) {
	s, cleanup := setupLocalTestStore(t)
	defer cleanup()

	c := &models.CountdownSettings{
		Title:    "Festival starts in",
		TargetAt: time.Date(2026, 7, 10, 18, 0, 0, 0, time.UTC),
		Enabled:  true,
	}
	if err := s.SaveCountdownSettings(c); err != nil {
		t.Fatalf("SaveCountdownSettings failed: %v", err)
	}

	c.Enabled = false
	if err := s.SaveCountdownSettings(c); err != nil {
		t.Fatalf("SaveCountdownSettings failed: %v", err)
	}

	got, err := s.GetCountdownSettings()
	if err != nil {
		t.Fatalf("GetCountdownSettings failed: %v", err)
	}
	if got.Enabled {
		t.Fatal("update not persisted")
	}

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM countdown_settings").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one settings row, got %d", count)
	}
}

func TestUsersAndSessions(t *testing.T) {
	s, cleanup := setupLocalTestStore(t)
	defer cleanup()

	count, err := s.CountUsers()
	if err != nil {
		t.Fatalf("CountUsers failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 users, got %d", count)
	}

	u := &models.User{Username: "admin", PasswordHash: "hash", IsAdmin: true}
	if err := s.CreateUser(u); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	got, err := s.GetUserByUsername("admin")
	if err != nil {
		t.Fatalf("GetUserByUsername failed: %v", err)
	}
	if got.ID != u.ID || !got.IsAdmin {
		t.Fatalf("unexpected user: %+v", got)
	}

	sess := &models.Session{UserID: u.ID, ExpiresAt: time.Now().Add(time.Hour)}
	if err := s.CreateSession(sess); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if sess.Token == "" {
		t.Fatal("CreateSession did not issue a token")
	}

	found, err := s.GetSessionByToken(sess.Token)
	if err != nil {
		t.Fatalf("GetSessionByToken failed: %v", err)
	}
	if found.UserID != u.ID {
		t.Fatalf("unexpected session: %+v", found)
	}

	if err := s.DeleteSession(sess.Token); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := s.GetSessionByToken(sess.Token); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows after delete, got %v", err)
	}
}

func TestStorePublishesChangeEvents(t *testing.T) {
	feed := realtime.NewFeed()
	s, err := New(Config{Backend: BackendSQLite, SQLitePath: ":memory:"}, feed)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer s.Close()

	events, cancel := feed.Subscribe(ResEvents)
	defer cancel()

	e := &models.Event{Title: "a"}
	if err := s.CreateEvent(e); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	select {
	case ev := <-events:
		if ev.Resource != ResEvents || ev.Kind != realtime.ChangeCreated || ev.ID != e.ID {
			t.Fatalf("unexpected event: %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no change event published for create")
	}

	if err := s.DeleteEvent(e.ID); err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}
	select {
	case ev := <-events:
		if ev.Kind != realtime.ChangeDeleted {
			t.Fatalf("expected delete event, got %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no change event published for delete")
	}
}
