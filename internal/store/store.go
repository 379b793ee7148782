package store

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"festival/internal/models"
	"festival/internal/realtime"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Resource names used for change feed events and reorder/toggle routing.
const (
	ResEvents            = "events"
	ResScheduleDays      = "schedule_days"
	ResScheduleEntries   = "schedule_entries"
	ResTickets           = "tickets"
	ResGallery           = "gallery"
	ResSlides            = "slides"
	ResSocialLinks       = "social_links"
	ResPartners          = "partners"
	ResHeaderLinks       = "header_links"
	ResPages             = "pages"
	ResContactInfo       = "contact_info"
	ResCountdownSettings = "countdown_settings"
	ResThemeSettings     = "theme_settings"
)

// orderedResources maps resource name to its table for resources carrying
// an order_num column. Doubles as the allowlist for SwapOrder/NextOrderNum.
var orderedResources = map[string]string{
	ResEvents:          "events",
	ResScheduleDays:    "schedule_days",
	ResScheduleEntries: "schedule_entries",
	ResTickets:         "tickets",
	ResGallery:         "gallery",
	ResSlides:          "slides",
	ResSocialLinks:     "social_links",
	ResPartners:        "partners",
	ResHeaderLinks:     "header_links",
}

// toggleColumns maps resource name to its soft-visibility column.
var toggleColumns = map[string]string{
	ResEvents:      "is_active",
	ResTickets:     "available",
	ResGallery:     "is_active",
	ResSlides:      "is_active",
	ResSocialLinks: "is_active",
	ResPartners:    "is_active",
	ResHeaderLinks: "is_active",
}

type Store struct {
	db      *sql.DB
	backend DataBackend
	feed    *realtime.Feed
}

// New creates a new Store from a Config. Mutations publish change events on
// feed; pass nil to disable publishing.
// Use ConfigFromEnv() to create config from environment variables.
func New(cfg Config, feed *realtime.Feed) (*Store, error) {
	backend, err := NewDataBackend(cfg)
	if err != nil {
		return nil, err
	}

	db, err := backend.Connect()
	if err != nil {
		return nil, err
	}

	log.Info().Str("backend", backend.Description()).Msg("database connected")

	store := &Store{db: db, backend: backend, feed: feed}
	if err := store.migrate(); err != nil {
		return nil, err
	}

	return store, nil
}

// Backend returns the data backend
func (s *Store) Backend() DataBackend {
	return s.backend
}

// Feed returns the change feed mutations publish to (may be nil).
func (s *Store) Feed() *realtime.Feed {
	return s.feed
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT DEFAULT '',
		location TEXT DEFAULT '',
		image_url TEXT DEFAULT '',
		starts_at DATETIME,
		is_active INTEGER DEFAULT 1,
		order_num INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS schedule_days (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		date TEXT DEFAULT '',
		order_num INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS schedule_entries (
		id TEXT PRIMARY KEY,
		day_id TEXT NOT NULL,
		time TEXT DEFAULT '',
		title TEXT NOT NULL,
		location TEXT DEFAULT '',
		order_num INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (day_id) REFERENCES schedule_days(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS tickets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT DEFAULT '',
		price REAL DEFAULT 0,
		currency TEXT DEFAULT 'EUR',
		purchase_url TEXT DEFAULT '',
		available INTEGER DEFAULT 1,
		order_num INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS gallery (
		id TEXT PRIMARY KEY,
		title TEXT DEFAULT '',
		image_url TEXT NOT NULL,
		is_active INTEGER DEFAULT 1,
		order_num INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS slides (
		id TEXT PRIMARY KEY,
		image_url TEXT NOT NULL,
		caption TEXT DEFAULT '',
		link_url TEXT DEFAULT '',
		is_active INTEGER DEFAULT 1,
		order_num INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS social_links (
		id TEXT PRIMARY KEY,
		network TEXT NOT NULL,
		url TEXT NOT NULL,
		icon TEXT DEFAULT '',
		is_active INTEGER DEFAULT 1,
		order_num INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS partners (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		logo_url TEXT DEFAULT '',
		website_url TEXT DEFAULT '',
		is_active INTEGER DEFAULT 1,
		order_num INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS header_links (
		id TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		href TEXT NOT NULL,
		external INTEGER DEFAULT 0,
		is_active INTEGER DEFAULT 1,
		order_num INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS pages (
		id TEXT PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		title TEXT DEFAULT '',
		content TEXT DEFAULT '{}',
		published INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS contact_info (
		id TEXT PRIMARY KEY,
		email TEXT DEFAULT '',
		phone TEXT DEFAULT '',
		address TEXT DEFAULT '',
		map_url TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS countdown_settings (
		id TEXT PRIMARY KEY,
		title TEXT DEFAULT '',
		target_at DATETIME,
		enabled INTEGER DEFAULT 1,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS theme_settings (
		id TEXT PRIMARY KEY,
		primary_color TEXT DEFAULT '',
		background_color TEXT DEFAULT '',
		logo_url TEXT DEFAULT '',
		dark_mode INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		is_admin INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		expires_at DATETIME NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_schedule_entries_day ON schedule_entries(day_id);
	CREATE INDEX IF NOT EXISTS idx_pages_slug ON pages(slug);
	CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// notify publishes a change event when a feed is attached.
func (s *Store) notify(resource string, kind realtime.ChangeKind, id string) {
	if s.feed == nil {
		return
	}
	s.feed.Publish(realtime.ChangeEvent{Resource: resource, Kind: kind, ID: id})
}

// IsOrdered reports whether the named resource carries a display order.
func IsOrdered(resource string) bool {
	_, ok := orderedResources[resource]
	return ok
}

// HasToggle reports whether the named resource has a soft-visibility flag.
func HasToggle(resource string) bool {
	_, ok := toggleColumns[resource]
	return ok
}

// OrderedIDs returns the resource's record ids sorted by display order.
func (s *Store) OrderedIDs(resource string) ([]string, error) {
	table, ok := orderedResources[resource]
	if !ok {
		return nil, fmt.Errorf("resource %q has no display order", resource)
	}

	rows, err := s.db.Query(`SELECT id FROM ` + table + ` ORDER BY order_num ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// NextOrderNum returns max(order_num)+1 for the resource, or 0 when empty.
func (s *Store) NextOrderNum(resource string) (int, error) {
	table, ok := orderedResources[resource]
	if !ok {
		return 0, fmt.Errorf("resource %q has no display order", resource)
	}

	var next int
	err := s.db.QueryRow(
		`SELECT COALESCE(MAX(order_num) + 1, 0) FROM ` + table,
	).Scan(&next)
	return next, err
}

// SwapOrder exchanges two records' order_num values in a single transaction.
// Gaps and ties left behind by concurrent edits are not repaired.
func (s *Store) SwapOrder(resource, idA, idB string) error {
	table, ok := orderedResources[resource]
	if !ok {
		return fmt.Errorf("resource %q has no display order", resource)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var orderA, orderB int
	if err := tx.QueryRow(`SELECT order_num FROM `+table+` WHERE id = ?`, idA).Scan(&orderA); err != nil {
		return err
	}
	if err := tx.QueryRow(`SELECT order_num FROM `+table+` WHERE id = ?`, idB).Scan(&orderB); err != nil {
		return err
	}

	now := time.Now()
	if _, err := tx.Exec(`UPDATE `+table+` SET order_num = ?, updated_at = ? WHERE id = ?`, orderB, now, idA); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE `+table+` SET order_num = ?, updated_at = ? WHERE id = ?`, orderA, now, idB); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.notify(resource, realtime.ChangeUpdated, idA)
	s.notify(resource, realtime.ChangeUpdated, idB)
	return nil
}

// SetActive flips the resource's soft-visibility flag for one record.
func (s *Store) SetActive(resource, id string, value bool) error {
	table, ok := orderedResources[resource]
	if !ok {
		return fmt.Errorf("unknown resource %q", resource)
	}
	column, ok := toggleColumns[resource]
	if !ok {
		return fmt.Errorf("resource %q has no visibility flag", resource)
	}

	res, err := s.db.Exec(
		`UPDATE `+table+` SET `+column+` = ?, updated_at = ? WHERE id = ?`,
		value, time.Now(), id,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}

	s.notify(resource, realtime.ChangeUpdated, id)
	return nil
}

// User operations

func (s *Store) CreateUser(u *models.User) error {
	u.ID = uuid.New().String()
	u.CreatedAt = time.Now()

	_, err := s.db.Exec(
		`INSERT INTO users (id, username, password_hash, is_admin, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.PasswordHash, u.IsAdmin, u.CreatedAt,
	)
	return err
}

func (s *Store) GetUser(id string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(
		`SELECT id, username, password_hash, is_admin, created_at FROM users WHERE id = ?`,
		id,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(username string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(
		`SELECT id, username, password_hash, is_admin, created_at FROM users WHERE username = ?`,
		username,
	).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) CountUsers() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

// Session operations

func (s *Store) CreateSession(sess *models.Session) error {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return err
	}
	sess.Token = hex.EncodeToString(tokenBytes)
	sess.CreatedAt = time.Now()

	_, err := s.db.Exec(
		`INSERT INTO sessions (token, user_id, expires_at, created_at) VALUES (?, ?, ?, ?)`,
		sess.Token, sess.UserID, sess.ExpiresAt, sess.CreatedAt,
	)
	return err
}

func (s *Store) GetSessionByToken(token string) (*models.Session, error) {
	var sess models.Session
	err := s.db.QueryRow(
		`SELECT token, user_id, expires_at, created_at FROM sessions WHERE token = ?`,
		token,
	).Scan(&sess.Token, &sess.UserID, &sess.ExpiresAt, &sess.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Store) DeleteSession(token string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE token = ?`, token)
	return err
}

func (s *Store) DeleteUserSessions(userID string) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE user_id = ?`, userID)
	return err
}
