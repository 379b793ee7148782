package store

import (
	"encoding/json"
	"time"

	"festival/internal/models"
	"festival/internal/realtime"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Gallery operations

func (s *Store) CreateGalleryItem(g *models.GalleryItem) error {
	g.ID = uuid.New().String()
	g.CreatedAt = time.Now()
	g.UpdatedAt = time.Now()

	_, err := s.db.Exec(
		`INSERT INTO gallery (id, title, image_url, is_active, order_num, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Title, g.ImageURL, g.IsActive, g.OrderNum, g.CreatedAt, g.UpdatedAt,
	)
	if err != nil {
		return err
	}

	s.notify(ResGallery, realtime.ChangeCreated, g.ID)
	return nil
}

func (s *Store) ListGalleryItems(activeOnly bool) ([]models.GalleryItem, error) {
	query := `SELECT id, title, image_url, is_active, order_num, created_at, updated_at FROM gallery`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY order_num ASC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.GalleryItem
	for rows.Next() {
		var g models.GalleryItem
		if err := rows.Scan(&g.ID, &g.Title, &g.ImageURL, &g.IsActive, &g.OrderNum, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, g)
	}

	return items, rows.Err()
}

func (s *Store) UpdateGalleryItem(g *models.GalleryItem) error {
	g.UpdatedAt = time.Now()

	_, err := s.db.Exec(
		`UPDATE gallery SET title = ?, image_url = ?, is_active = ?, order_num = ?, updated_at = ? WHERE id = ?`,
		g.Title, g.ImageURL, g.IsActive, g.OrderNum, g.UpdatedAt, g.ID,
	)
	if err != nil {
		return err
	}

	s.notify(ResGallery, realtime.ChangeUpdated, g.ID)
	return nil
}

func (s *Store) DeleteGalleryItem(id string) error {
	_, err := s.db.Exec(`DELETE FROM gallery WHERE id = ?`, id)
	if err != nil {
		return err
	}

	s.notify(ResGallery, realtime.ChangeDeleted, id)
	return nil
}

// Slide operations

func (s *Store) CreateSlide(sl *models.Slide) error {
	sl.ID = uuid.New().String()
	sl.CreatedAt = time.Now()
	sl.UpdatedAt = time.Now()

	_, err := s.db.Exec(
		`INSERT INTO slides (id, image_url, caption, link_url, is_active, order_num, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sl.ID, sl.ImageURL, sl.Caption, sl.LinkURL, sl.IsActive, sl.OrderNum, sl.CreatedAt, sl.UpdatedAt,
	)
	if err != nil {
		return err
	}

	s.notify(ResSlides, realtime.ChangeCreated, sl.ID)
	return nil
}

func (s *Store) ListSlides(activeOnly bool) ([]models.Slide, error) {
	query := `SELECT id, image_url, caption, link_url, is_active, order_num, created_at, updated_at FROM slides`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY order_num ASC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slides []models.Slide
	for rows.Next() {
		var sl models.Slide
		if err := rows.Scan(&sl.ID, &sl.ImageURL, &sl.Caption, &sl.LinkURL, &sl.IsActive, &sl.OrderNum, &sl.CreatedAt, &sl.UpdatedAt); err != nil {
			return nil, err
		}
		slides = append(slides, sl)
	}

	return slides, rows.Err()
}

func (s *Store) UpdateSlide(sl *models.Slide) error {
	sl.UpdatedAt = time.Now()

	_, err := s.db.Exec(
		`UPDATE slides SET image_url = ?, caption = ?, link_url = ?, is_active = ?, order_num = ?, updated_at = ? WHERE id = ?`,
		sl.ImageURL, sl.Caption, sl.LinkURL, sl.IsActive, sl.OrderNum, sl.UpdatedAt, sl.ID,
	)
	if err != nil {
		return err
	}

	s.notify(ResSlides, realtime.ChangeUpdated, sl.ID)
	return nil
}

func (s *Store) DeleteSlide(id string) error {
	_, err := s.db.Exec(`DELETE FROM slides WHERE id = ?`, id)
	if err != nil {
		return err
	}

	s.notify(ResSlides, realtime.ChangeDeleted, id)
	return nil
}

// Social link operations

func (s *Store) CreateSocialLink(l *models.SocialLink) error {
	l.ID = uuid.New().String()
	l.CreatedAt = time.Now()
	l.UpdatedAt = time.Now()

	_, err := s.db.Exec(
		`INSERT INTO social_links (id, network, url, icon, is_active, order_num, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Network, l.URL, l.Icon, l.IsActive, l.OrderNum, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return err
	}

	s.notify(ResSocialLinks, realtime.ChangeCreated, l.ID)
	return nil
}

func (s *Store) ListSocialLinks(activeOnly bool) ([]models.SocialLink, error) {
	query := `SELECT id, network, url, icon, is_active, order_num, created_at, updated_at FROM social_links`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY order_num ASC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []models.SocialLink
	for rows.Next() {
		var l models.SocialLink
		if err := rows.Scan(&l.ID, &l.Network, &l.URL, &l.Icon, &l.IsActive, &l.OrderNum, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		links = append(links, l)
	}

	return links, rows.Err()
}

func (s *Store) UpdateSocialLink(l *models.SocialLink) error {
	l.UpdatedAt = time.Now()

	_, err := s.db.Exec(
		`UPDATE social_links SET network = ?, url = ?, icon = ?, is_active = ?, order_num = ?, updated_at = ? WHERE id = ?`,
		l.Network, l.URL, l.Icon, l.IsActive, l.OrderNum, l.UpdatedAt, l.ID,
	)
	if err != nil {
		return err
	}

	s.notify(ResSocialLinks, realtime.ChangeUpdated, l.ID)
	return nil
}

func (s *Store) DeleteSocialLink(id string) error {
	_, err := s.db.Exec(`DELETE FROM social_links WHERE id = ?`, id)
	if err != nil {
		return err
	}

	s.notify(ResSocialLinks, realtime.ChangeDeleted, id)
	return nil
}

// Partner operations

func (s *Store) CreatePartner(p *models.Partner) error {
	p.ID = uuid.New().String()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()

	_, err := s.db.Exec(
		`INSERT INTO partners (id, name, logo_url, website_url, is_active, order_num, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.LogoURL, p.WebsiteURL, p.IsActive, p.OrderNum, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return err
	}

	s.notify(ResPartners, realtime.ChangeCreated, p.ID)
	return nil
}

func (s *Store) ListPartners(activeOnly bool) ([]models.Partner, error) {
	query := `SELECT id, name, logo_url, website_url, is_active, order_num, created_at, updated_at FROM partners`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY order_num ASC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var partners []models.Partner
	for rows.Next() {
		var p models.Partner
		if err := rows.Scan(&p.ID, &p.Name, &p.LogoURL, &p.WebsiteURL, &p.IsActive, &p.OrderNum, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		partners = append(partners, p)
	}

	return partners, rows.Err()
}

func (s *Store) UpdatePartner(p *models.Partner) error {
	p.UpdatedAt = time.Now()

	_, err := s.db.Exec(
		`UPDATE partners SET name = ?, logo_url = ?, website_url = ?, is_active = ?, order_num = ?, updated_at = ? WHERE id = ?`,
		p.Name, p.LogoURL, p.WebsiteURL, p.IsActive, p.OrderNum, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}

	s.notify(ResPartners, realtime.ChangeUpdated, p.ID)
	return nil
}

func (s *Store) DeletePartner(id string) error {
	_, err := s.db.Exec(`DELETE FROM partners WHERE id = ?`, id)
	if err != nil {
		return err
	}

	s.notify(ResPartners, realtime.ChangeDeleted, id)
	return nil
}

// Header link operations

func (s *Store) CreateHeaderLink(l *models.HeaderLink) error {
	l.ID = uuid.New().String()
	l.CreatedAt = time.Now()
	l.UpdatedAt = time.Now()

	_, err := s.db.Exec(
		`INSERT INTO header_links (id, label, href, external, is_active, order_num, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.Label, l.Href, l.External, l.IsActive, l.OrderNum, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return err
	}

	s.notify(ResHeaderLinks, realtime.ChangeCreated, l.ID)
	return nil
}

func (s *Store) ListHeaderLinks(activeOnly bool) ([]models.HeaderLink, error) {
	query := `SELECT id, label, href, external, is_active, order_num, created_at, updated_at FROM header_links`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY order_num ASC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []models.HeaderLink
	for rows.Next() {
		var l models.HeaderLink
		if err := rows.Scan(&l.ID, &l.Label, &l.Href, &l.External, &l.IsActive, &l.OrderNum, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		links = append(links, l)
	}

	return links, rows.Err()
}

func (s *Store) UpdateHeaderLink(l *models.HeaderLink) error {
	l.UpdatedAt = time.Now()

	_, err := s.db.Exec(
		`UPDATE header_links SET label = ?, href = ?, external = ?, is_active = ?, order_num = ?, updated_at = ? WHERE id = ?`,
		l.Label, l.Href, l.External, l.IsActive, l.OrderNum, l.UpdatedAt, l.ID,
	)
	if err != nil {
		return err
	}

	s.notify(ResHeaderLinks, realtime.ChangeUpdated, l.ID)
	return nil
}

func (s *Store) DeleteHeaderLink(id string) error {
	_, err := s.db.Exec(`DELETE FROM header_links WHERE id = ?`, id)
	if err != nil {
		return err
	}

	s.notify(ResHeaderLinks, realtime.ChangeDeleted, id)
	return nil
}

// Page operations

func (s *Store) CreatePage(p *models.Page) error {
	p.ID = uuid.New().String()
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()

	if p.Content == nil {
		p.Content = map[string]interface{}{}
	}
	content, err := json.Marshal(p.Content)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		`INSERT INTO pages (id, slug, title, content, published, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Slug, p.Title, string(content), p.Published, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return err
	}

	s.notify(ResPages, realtime.ChangeCreated, p.ID)
	return nil
}

func (s *Store) GetPage(id string) (*models.Page, error) {
	return s.scanPage(s.db.QueryRow(
		`SELECT id, slug, title, content, published, created_at, updated_at FROM pages WHERE id = ?`,
		id,
	))
}

func (s *Store) GetPageBySlug(slug string) (*models.Page, error) {
	return s.scanPage(s.db.QueryRow(
		`SELECT id, slug, title, content, published, created_at, updated_at FROM pages WHERE slug = ?`,
		slug,
	))
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (s *Store) scanPage(row rowScanner) (*models.Page, error) {
	var p models.Page
	var content string

	err := row.Scan(&p.ID, &p.Slug, &p.Title, &content, &p.Published, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	// Malformed stored content degrades to an empty page body rather than
	// failing the read. Logged so it does not go unnoticed.
	if err := json.Unmarshal([]byte(content), &p.Content); err != nil {
		log.Error().Err(err).Str("page", p.Slug).Msg("malformed page content, serving empty body")
		p.Content = map[string]interface{}{}
	}

	return &p, nil
}

func (s *Store) ListPages(publishedOnly bool) ([]models.Page, error) {
	query := `SELECT id, slug, title, content, published, created_at, updated_at FROM pages`
	if publishedOnly {
		query += ` WHERE published = 1`
	}
	query += ` ORDER BY slug ASC`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []models.Page
	for rows.Next() {
		p, err := s.scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, *p)
	}

	return pages, rows.Err()
}

func (s *Store) UpdatePage(p *models.Page) error {
	p.UpdatedAt = time.Now()

	if p.Content == nil {
		p.Content = map[string]interface{}{}
	}
	content, err := json.Marshal(p.Content)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		`UPDATE pages SET slug = ?, title = ?, content = ?, published = ?, updated_at = ? WHERE id = ?`,
		p.Slug, p.Title, string(content), p.Published, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}

	s.notify(ResPages, realtime.ChangeUpdated, p.ID)
	return nil
}

func (s *Store) DeletePage(id string) error {
	_, err := s.db.Exec(`DELETE FROM pages WHERE id = ?`, id)
	if err != nil {
		return err
	}

	s.notify(ResPages, realtime.ChangeDeleted, id)
	return nil
}

// Contact info operations

func (s *Store) GetContactInfo() (*models.ContactInfo, error) {
	var c models.ContactInfo
	err := s.db.QueryRow(
		`SELECT id, email, phone, address, map_url, created_at, updated_at FROM contact_info LIMIT 1`,
	).Scan(&c.ID, &c.Email, &c.Phone, &c.Address, &c.MapURL, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveContactInfo inserts the contact block on first save, updates it after.
func (s *Store) SaveContactInfo(c *models.ContactInfo) error {
	c.UpdatedAt = time.Now()

	if c.ID == "" {
		c.ID = uuid.New().String()
		c.CreatedAt = time.Now()

		_, err := s.db.Exec(
			`INSERT INTO contact_info (id, email, phone, address, map_url, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Email, c.Phone, c.Address, c.MapURL, c.CreatedAt, c.UpdatedAt,
		)
		if err != nil {
			return err
		}

		s.notify(ResContactInfo, realtime.ChangeCreated, c.ID)
		return nil
	}

	_, err := s.db.Exec(
		`UPDATE contact_info SET email = ?, phone = ?, address = ?, map_url = ?, updated_at = ? WHERE id = ?`,
		c.Email, c.Phone, c.Address, c.MapURL, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return err
	}

	s.notify(ResContactInfo, realtime.ChangeUpdated, c.ID)
	return nil
}
