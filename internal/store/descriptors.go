package store

import (
	"errors"

	"festival/internal/models"
	"festival/internal/resource"
)

// Descriptors wire each record type's fields to the binding layer:
// id/order/visibility accessors plus the required-field checks performed
// before any store call.

func EventDescriptor() resource.Descriptor[models.Event] {
	return resource.Descriptor[models.Event]{
		Resource:  ResEvents,
		ID:        func(e models.Event) string { return e.ID },
		SetID:     func(e *models.Event, id string) { e.ID = id },
		Order:     func(e models.Event) int { return e.OrderNum },
		SetOrder:  func(e *models.Event, n int) { e.OrderNum = n },
		SetActive: func(e *models.Event, v bool) { e.IsActive = v },
		Validate: func(e models.Event) error {
			if e.Title == "" {
				return errors.New("title is required")
			}
			return nil
		},
	}
}

func ScheduleDayDescriptor() resource.Descriptor[models.ScheduleDay] {
	return resource.Descriptor[models.ScheduleDay]{
		Resource: ResScheduleDays,
		ID:       func(d models.ScheduleDay) string { return d.ID },
		SetID:    func(d *models.ScheduleDay, id string) { d.ID = id },
		Order:    func(d models.ScheduleDay) int { return d.OrderNum },
		SetOrder: func(d *models.ScheduleDay, n int) { d.OrderNum = n },
		Validate: func(d models.ScheduleDay) error {
			if d.Label == "" {
				return errors.New("label is required")
			}
			return nil
		},
	}
}

func ScheduleEntryDescriptor() resource.Descriptor[models.ScheduleEntry] {
	return resource.Descriptor[models.ScheduleEntry]{
		Resource: ResScheduleEntries,
		ID:       func(e models.ScheduleEntry) string { return e.ID },
		SetID:    func(e *models.ScheduleEntry, id string) { e.ID = id },
		Order:    func(e models.ScheduleEntry) int { return e.OrderNum },
		SetOrder: func(e *models.ScheduleEntry, n int) { e.OrderNum = n },
		Validate: func(e models.ScheduleEntry) error {
			if e.DayID == "" {
				return errors.New("day is required")
			}
			if e.Title == "" {
				return errors.New("title is required")
			}
			return nil
		},
	}
}

func TicketDescriptor() resource.Descriptor[models.Ticket] {
	return resource.Descriptor[models.Ticket]{
		Resource:  ResTickets,
		ID:        func(t models.Ticket) string { return t.ID },
		SetID:     func(t *models.Ticket, id string) { t.ID = id },
		Order:     func(t models.Ticket) int { return t.OrderNum },
		SetOrder:  func(t *models.Ticket, n int) { t.OrderNum = n },
		SetActive: func(t *models.Ticket, v bool) { t.Available = v },
		Validate: func(t models.Ticket) error {
			if t.Name == "" {
				return errors.New("name is required")
			}
			return nil
		},
	}
}

func GalleryDescriptor() resource.Descriptor[models.GalleryItem] {
	return resource.Descriptor[models.GalleryItem]{
		Resource:  ResGallery,
		ID:        func(g models.GalleryItem) string { return g.ID },
		SetID:     func(g *models.GalleryItem, id string) { g.ID = id },
		Order:     func(g models.GalleryItem) int { return g.OrderNum },
		SetOrder:  func(g *models.GalleryItem, n int) { g.OrderNum = n },
		SetActive: func(g *models.GalleryItem, v bool) { g.IsActive = v },
		Validate: func(g models.GalleryItem) error {
			if g.ImageURL == "" {
				return errors.New("image is required")
			}
			return nil
		},
	}
}

func SlideDescriptor() resource.Descriptor[models.Slide] {
	return resource.Descriptor[models.Slide]{
		Resource:  ResSlides,
		ID:        func(s models.Slide) string { return s.ID },
		SetID:     func(s *models.Slide, id string) { s.ID = id },
		Order:     func(s models.Slide) int { return s.OrderNum },
		SetOrder:  func(s *models.Slide, n int) { s.OrderNum = n },
		SetActive: func(s *models.Slide, v bool) { s.IsActive = v },
		Validate: func(s models.Slide) error {
			if s.ImageURL == "" {
				return errors.New("image is required")
			}
			return nil
		},
	}
}

func SocialLinkDescriptor() resource.Descriptor[models.SocialLink] {
	return resource.Descriptor[models.SocialLink]{
		Resource:  ResSocialLinks,
		ID:        func(l models.SocialLink) string { return l.ID },
		SetID:     func(l *models.SocialLink, id string) { l.ID = id },
		Order:     func(l models.SocialLink) int { return l.OrderNum },
		SetOrder:  func(l *models.SocialLink, n int) { l.OrderNum = n },
		SetActive: func(l *models.SocialLink, v bool) { l.IsActive = v },
		Validate: func(l models.SocialLink) error {
			if l.Network == "" {
				return errors.New("network is required")
			}
			if l.URL == "" {
				return errors.New("url is required")
			}
			return nil
		},
	}
}

func PartnerDescriptor() resource.Descriptor[models.Partner] {
	return resource.Descriptor[models.Partner]{
		Resource:  ResPartners,
		ID:        func(p models.Partner) string { return p.ID },
		SetID:     func(p *models.Partner, id string) { p.ID = id },
		Order:     func(p models.Partner) int { return p.OrderNum },
		SetOrder:  func(p *models.Partner, n int) { p.OrderNum = n },
		SetActive: func(p *models.Partner, v bool) { p.IsActive = v },
		Validate: func(p models.Partner) error {
			if p.Name == "" {
				return errors.New("name is required")
			}
			return nil
		},
	}
}

func HeaderLinkDescriptor() resource.Descriptor[models.HeaderLink] {
	return resource.Descriptor[models.HeaderLink]{
		Resource:  ResHeaderLinks,
		ID:        func(l models.HeaderLink) string { return l.ID },
		SetID:     func(l *models.HeaderLink, id string) { l.ID = id },
		Order:     func(l models.HeaderLink) int { return l.OrderNum },
		SetOrder:  func(l *models.HeaderLink, n int) { l.OrderNum = n },
		SetActive: func(l *models.HeaderLink, v bool) { l.IsActive = v },
		Validate: func(l models.HeaderLink) error {
			if l.Label == "" {
				return errors.New("label is required")
			}
			if l.Href == "" {
				return errors.New("href is required")
			}
			return nil
		},
	}
}

func CountdownDescriptor() resource.Descriptor[models.CountdownSettings] {
	return resource.Descriptor[models.CountdownSettings]{
		Resource: ResCountdownSettings,
		ID:       func(c models.CountdownSettings) string { return c.ID },
		SetID:    func(c *models.CountdownSettings, id string) { c.ID = id },
		Validate: func(c models.CountdownSettings) error {
			if c.TargetAt.IsZero() {
				return errors.New("target time is required")
			}
			return nil
		},
	}
}

func ThemeDescriptor() resource.Descriptor[models.ThemeSettings] {
	return resource.Descriptor[models.ThemeSettings]{
		Resource: ResThemeSettings,
		ID:       func(t models.ThemeSettings) string { return t.ID },
		SetID:    func(t *models.ThemeSettings, id string) { t.ID = id },
	}
}
