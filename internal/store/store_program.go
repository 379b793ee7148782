package store

import (
	"time"

	"festival/internal/models"
	"festival/internal/realtime"

	"github.com/google/uuid"
)

// Event operations

func (s *Store) CreateEvent(e *models.Event) error {
	e.ID = uuid.New().String()
	e.CreatedAt = time.Now()
	e.UpdatedAt = time.Now()

	_, err := s.db.Exec(
		`INSERT INTO events (id, title, description, location, image_url, starts_at, is_active, order_num, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Title, e.Description, e.Location, e.ImageURL, e.StartsAt, e.IsActive, e.OrderNum, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return err
	}

	s.notify(ResEvents, realtime.ChangeCreated, e.ID)
	return nil
}

func (s *Store) GetEvent(id string) (*models.Event, error) {
	var e models.Event
	err := s.db.QueryRow(
		`SELECT id, title, description, location, image_url, starts_at, is_active, order_num, created_at, updated_at
		FROM events WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.ImageURL, &e.StartsAt, &e.IsActive, &e.OrderNum, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// ListEvents returns events sorted by display order. With activeOnly set,
// records hidden by the admin are excluded.
func (s *Store) ListEvents(activeOnly bool) ([]models.Event, error) {
	query := `SELECT id, title, description, location, image_url, starts_at, is_active, order_num, created_at, updated_at
		FROM events`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY order_num ASC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.ImageURL, &e.StartsAt, &e.IsActive, &e.OrderNum, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

func (s *Store) UpdateEvent(e *models.Event) error {
	e.UpdatedAt = time.Now()

	_, err := s.db.Exec(
		`UPDATE events SET title = ?, description = ?, location = ?, image_url = ?, starts_at = ?, is_active = ?, order_num = ?, updated_at = ? WHERE id = ?`,
		e.Title, e.Description, e.Location, e.ImageURL, e.StartsAt, e.IsActive, e.OrderNum, e.UpdatedAt, e.ID,
	)
	if err != nil {
		return err
	}

	s.notify(ResEvents, realtime.ChangeUpdated, e.ID)
	return nil
}

func (s *Store) DeleteEvent(id string) error {
	_, err := s.db.Exec(`DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}

	s.notify(ResEvents, realtime.ChangeDeleted, id)
	return nil
}

// Schedule day operations

func (s *Store) CreateScheduleDay(d *models.ScheduleDay) error {
	d.ID = uuid.New().String()
	d.CreatedAt = time.Now()
	d.UpdatedAt = time.Now()

	_, err := s.db.Exec(
		`INSERT INTO schedule_days (id, label, date, order_num, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID, d.Label, d.Date, d.OrderNum, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return err
	}

	s.notify(ResScheduleDays, realtime.ChangeCreated, d.ID)
	return nil
}

func (s *Store) ListScheduleDays() ([]models.ScheduleDay, error) {
	rows, err := s.db.Query(
		`SELECT id, label, date, order_num, created_at, updated_at FROM schedule_days ORDER BY order_num ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []models.ScheduleDay
	for rows.Next() {
		var d models.ScheduleDay
		if err := rows.Scan(&d.ID, &d.Label, &d.Date, &d.OrderNum, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		days = append(days, d)
	}

	return days, rows.Err()
}

func (s *Store) UpdateScheduleDay(d *models.ScheduleDay) error {
	d.UpdatedAt = time.Now()

	_, err := s.db.Exec(
		`UPDATE schedule_days SET label = ?, date = ?, order_num = ?, updated_at = ? WHERE id = ?`,
		d.Label, d.Date, d.OrderNum, d.UpdatedAt, d.ID,
	)
	if err != nil {
		return err
	}

	s.notify(ResScheduleDays, realtime.ChangeUpdated, d.ID)
	return nil
}

// DeleteScheduleDay removes a day; its entries go with it (ON DELETE CASCADE).
func (s *Store) DeleteScheduleDay(id string) error {
	_, err := s.db.Exec(`DELETE FROM schedule_days WHERE id = ?`, id)
	if err != nil {
		return err
	}

	s.notify(ResScheduleDays, realtime.ChangeDeleted, id)
	s.notify(ResScheduleEntries, realtime.ChangeDeleted, "")
	return nil
}

// Schedule entry operations

func (s *Store) CreateScheduleEntry(e *models.ScheduleEntry) error {
	e.ID = uuid.New().String()
	e.CreatedAt = time.Now()
	e.UpdatedAt = time.Now()

	_, err := s.db.Exec(
		`INSERT INTO schedule_entries (id, day_id, time, title, location, order_num, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.DayID, e.Time, e.Title, e.Location, e.OrderNum, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return err
	}

	s.notify(ResScheduleEntries, realtime.ChangeCreated, e.ID)
	return nil
}

// ListScheduleEntries returns entries for one day, or for all days when
// dayID is empty, sorted by display order.
func (s *Store) ListScheduleEntries(dayID string) ([]models.ScheduleEntry, error) {
	query := `SELECT id, day_id, time, title, location, order_num, created_at, updated_at FROM schedule_entries`
	var args []interface{}
	if dayID != "" {
		query += ` WHERE day_id = ?`
		args = append(args, dayID)
	}
	query += ` ORDER BY order_num ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ScheduleEntry
	for rows.Next() {
		var e models.ScheduleEntry
		if err := rows.Scan(&e.ID, &e.DayID, &e.Time, &e.Title, &e.Location, &e.OrderNum, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (s *Store) UpdateScheduleEntry(e *models.ScheduleEntry) error {
	e.UpdatedAt = time.Now()

	_, err := s.db.Exec(
		`UPDATE schedule_entries SET day_id = ?, time = ?, title = ?, location = ?, order_num = ?, updated_at = ? WHERE id = ?`,
		e.DayID, e.Time, e.Title, e.Location, e.OrderNum, e.UpdatedAt, e.ID,
	)
	if err != nil {
		return err
	}

	s.notify(ResScheduleEntries, realtime.ChangeUpdated, e.ID)
	return nil
}

func (s *Store) DeleteScheduleEntry(id string) error {
	_, err := s.db.Exec(`DELETE FROM schedule_entries WHERE id = ?`, id)
	if err != nil {
		return err
	}

	s.notify(ResScheduleEntries, realtime.ChangeDeleted, id)
	return nil
}
