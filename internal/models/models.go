package models

import "time"

// Event is a festival program entry shown on the public events page.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	ImageURL    string    `json:"imageUrl"`
	StartsAt    time.Time `json:"startsAt"`
	IsActive    bool      `json:"isActive"`
	OrderNum    int       `json:"orderNum"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ScheduleDay groups schedule entries under one festival day.
type ScheduleDay struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"` // "Friday", "Day 1", etc.
	Date      string    `json:"date"`  // ISO date, display-only
	OrderNum  int       `json:"orderNum"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ScheduleEntry is one timed item within a ScheduleDay.
// DayID references schedule_days; the store cascades deletes.
type ScheduleEntry struct {
	ID        string    `json:"id"`
	DayID     string    `json:"dayId"`
	Time      string    `json:"time"` // "18:30", display-only
	Title     string    `json:"title"`
	Location  string    `json:"location"`
	OrderNum  int       `json:"orderNum"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Ticket is a purchasable ticket category.
type Ticket struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Currency    string    `json:"currency"`
	PurchaseURL string    `json:"purchaseUrl"`
	Available   bool      `json:"available"`
	OrderNum    int       `json:"orderNum"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// GalleryItem is one image in the public gallery.
type GalleryItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"imageUrl"`
	IsActive  bool      `json:"isActive"`
	OrderNum  int       `json:"orderNum"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Slide is one image in the homepage slider.
type Slide struct {
	ID        string    `json:"id"`
	ImageURL  string    `json:"imageUrl"`
	Caption   string    `json:"caption"`
	LinkURL   string    `json:"linkUrl"`
	IsActive  bool      `json:"isActive"`
	OrderNum  int       `json:"orderNum"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SocialLink is a footer social network link.
type SocialLink struct {
	ID        string    `json:"id"`
	Network   string    `json:"network"` // "instagram", "facebook", etc.
	URL       string    `json:"url"`
	Icon      string    `json:"icon"`
	IsActive  bool      `json:"isActive"`
	OrderNum  int       `json:"orderNum"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Partner is a sponsor/partner logo entry.
type Partner struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	LogoURL    string    `json:"logoUrl"`
	WebsiteURL string    `json:"websiteUrl"`
	IsActive   bool      `json:"isActive"`
	OrderNum   int       `json:"orderNum"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// HeaderLink is a navigation entry in the site header.
type HeaderLink struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Href      string    `json:"href"`
	External  bool      `json:"external"`
	IsActive  bool      `json:"isActive"`
	OrderNum  int       `json:"orderNum"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Page is an editable content page addressed by slug.
// Content holds arbitrary JSON assembled by the admin editor.
type Page struct {
	ID        string                 `json:"id"`
	Slug      string                 `json:"slug"`
	Title     string                 `json:"title"`
	Content   map[string]interface{} `json:"content"`
	Published bool                   `json:"published"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

// ContactInfo is the site-wide contact block.
type ContactInfo struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	MapURL    string    `json:"mapUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CountdownSettings is a singleton: the store keeps at most one row.
type CountdownSettings struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	TargetAt  time.Time `json:"targetAt"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ThemeSettings is a singleton: the store keeps at most one row.
type ThemeSettings struct {
	ID              string    `json:"id"`
	PrimaryColor    string    `json:"primaryColor"`
	BackgroundColor string    `json:"backgroundColor"`
	LogoURL         string    `json:"logoUrl"`
	DarkMode        bool      `json:"darkMode"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// User is an admin panel account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session is a server-issued login session.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}
