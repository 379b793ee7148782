package store

import (
	"time"

	"festival/internal/models"
	"festival/internal/realtime"

	"github.com/google/uuid"
)

// Singleton settings collections: at most one row each. Get returns
// sql.ErrNoRows until the first save; Save inserts when no id is known and
// updates otherwise, so saving twice never produces a second row.

func (s *Store) GetCountdownSettings() (*models.CountdownSettings, error) {
	var c models.CountdownSettings
	err := s.db.QueryRow(
		`SELECT id, title, target_at, enabled, created_at, updated_at FROM countdown_settings LIMIT 1`,
	).Scan(&c.ID, &c.Title, &c.TargetAt, &c.Enabled, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) SaveCountdownSettings(c *models.CountdownSettings) error {
	c.UpdatedAt = time.Now()

	if c.ID == "" {
		c.ID = uuid.New().String()
		c.CreatedAt = time.Now()

		_, err := s.db.Exec(
			`INSERT INTO countdown_settings (id, title, target_at, enabled, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
			c.ID, c.Title, c.TargetAt, c.Enabled, c.CreatedAt, c.UpdatedAt,
		)
		if err != nil {
			return err
		}

		s.notify(ResCountdownSettings, realtime.ChangeCreated, c.ID)
		return nil
	}

	_, err := s.db.Exec(
		`UPDATE countdown_settings SET title = ?, target_at = ?, enabled = ?, updated_at = ? WHERE id = ?`,
		c.Title, c.TargetAt, c.Enabled, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return err
	}

	s.notify(ResCountdownSettings, realtime.ChangeUpdated, c.ID)
	return nil
}

func (s *Store) GetThemeSettings() (*models.ThemeSettings, error) {
	var t models.ThemeSettings
	err := s.db.QueryRow(
		`SELECT id, primary_color, background_color, logo_url, dark_mode, created_at, updated_at FROM theme_settings LIMIT 1`,
	).Scan(&t.ID, &t.PrimaryColor, &t.BackgroundColor, &t.LogoURL, &t.DarkMode, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) SaveThemeSettings(t *models.ThemeSettings) error {
	t.UpdatedAt = time.Now()

	if t.ID == "" {
		t.ID = uuid.New().String()
		t.CreatedAt = time.Now()

		_, err := s.db.Exec(
			`INSERT INTO theme_settings (id, primary_color, background_color, logo_url, dark_mode, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.PrimaryColor, t.BackgroundColor, t.LogoURL, t.DarkMode, t.CreatedAt, t.UpdatedAt,
		)
		if err != nil {
			return err
		}

		s.notify(ResThemeSettings, realtime.ChangeCreated, t.ID)
		return nil
	}

	_, err := s.db.Exec(
		`UPDATE theme_settings SET primary_color = ?, background_color = ?, logo_url = ?, dark_mode = ?, updated_at = ? WHERE id = ?`,
		t.PrimaryColor, t.BackgroundColor, t.LogoURL, t.DarkMode, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return err
	}

	s.notify(ResThemeSettings, realtime.ChangeUpdated, t.ID)
	return nil
}
