package store

import (
	"time"

	"festival/internal/models"
	"festival/internal/realtime"

	"github.com/google/uuid"
)

// Ticket operations

func (s *Store) CreateTicket(t *models.Ticket) error {
	t.ID = uuid.New().String()
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()

	if t.Currency == "" {
		t.Currency = "EUR"
	}

	_, err := s.db.Exec(
		`INSERT INTO tickets (id, name, description, price, currency, purchase_url, available, order_num, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Description, t.Price, t.Currency, t.PurchaseURL, t.Available, t.OrderNum, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return err
	}

	s.notify(ResTickets, realtime.ChangeCreated, t.ID)
	return nil
}

func (s *Store) GetTicket(id string) (*models.Ticket, error) {
	var t models.Ticket
	err := s.db.QueryRow(
		`SELECT id, name, description, price, currency, purchase_url, available, order_num, created_at, updated_at
		FROM tickets WHERE id = ?`,
		id,
	).Scan(&t.ID, &t.Name, &t.Description, &t.Price, &t.Currency, &t.PurchaseURL, &t.Available, &t.OrderNum, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTickets returns tickets sorted by display order. With availableOnly
// set, sold-out/hidden categories are excluded.
func (s *Store) ListTickets(availableOnly bool) ([]models.Ticket, error) {
	query := `SELECT id, name, description, price, currency, purchase_url, available, order_num, created_at, updated_at
		FROM tickets`
	if availableOnly {
		query += ` WHERE available = 1`
	}
	query += ` ORDER BY order_num ASC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []models.Ticket
	for rows.Next() {
		var t models.Ticket
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Price, &t.Currency, &t.PurchaseURL, &t.Available, &t.OrderNum, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}

	return tickets, rows.Err()
}

func (s *Store) UpdateTicket(t *models.Ticket) error {
	t.UpdatedAt = time.Now()

	_, err := s.db.Exec(
		`UPDATE tickets SET name = ?, description = ?, price = ?, currency = ?, purchase_url = ?, available = ?, order_num = ?, updated_at = ? WHERE id = ?`,
		t.Name, t.Description, t.Price, t.Currency, t.PurchaseURL, t.Available, t.OrderNum, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return err
	}

	s.notify(ResTickets, realtime.ChangeUpdated, t.ID)
	return nil
}

func (s *Store) DeleteTicket(id string) error {
	_, err := s.db.Exec(`DELETE FROM tickets WHERE id = ?`, id)
	if err != nil {
		return err
	}

	s.notify(ResTickets, realtime.ChangeDeleted, id)
	return nil
}
