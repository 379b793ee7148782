package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"festival/internal/models"
	"festival/internal/resource"
)

// Collection adapters expose store tables through the resource.Collection
// contract so bindings (and their tests) stay ignorant of SQL.

type funcsCollection[T any] struct {
	selectFn func() ([]T, error)
	insertFn func(*T) error
	updateFn func(*T) error
	deleteFn func(string) error
	swapFn   func(idA, idB string) error
}

func (c funcsCollection[T]) Select(ctx context.Context) ([]T, error) {
	return c.selectFn()
}

func (c funcsCollection[T]) Insert(ctx context.Context, record T) (T, error) {
	err := c.insertFn(&record)
	return record, err
}

func (c funcsCollection[T]) Update(ctx context.Context, record T) error {
	return c.updateFn(&record)
}

func (c funcsCollection[T]) Delete(ctx context.Context, id string) error {
	return c.deleteFn(id)
}

func (c funcsCollection[T]) SwapOrder(ctx context.Context, idA, idB string) error {
	if c.swapFn == nil {
		return fmt.Errorf("collection has no display order")
	}
	return c.swapFn(idA, idB)
}

func (s *Store) EventCollection(activeOnly bool) resource.Collection[models.Event] {
	return funcsCollection[models.Event]{
		selectFn: func() ([]models.Event, error) { return s.ListEvents(activeOnly) },
		insertFn: s.CreateEvent,
		updateFn: s.UpdateEvent,
		deleteFn: s.DeleteEvent,
		swapFn:   func(a, b string) error { return s.SwapOrder(ResEvents, a, b) },
	}
}

func (s *Store) ScheduleDayCollection() resource.Collection[models.ScheduleDay] {
	return funcsCollection[models.ScheduleDay]{
		selectFn: s.ListScheduleDays,
		insertFn: s.CreateScheduleDay,
		updateFn: s.UpdateScheduleDay,
		deleteFn: s.DeleteScheduleDay,
		swapFn:   func(a, b string) error { return s.SwapOrder(ResScheduleDays, a, b) },
	}
}

// ScheduleEntryCollection scopes entries to one day when dayID is non-empty.
func (s *Store) ScheduleEntryCollection(dayID string) resource.Collection[models.ScheduleEntry] {
	return funcsCollection[models.ScheduleEntry]{
		selectFn: func() ([]models.ScheduleEntry, error) { return s.ListScheduleEntries(dayID) },
		insertFn: s.CreateScheduleEntry,
		updateFn: s.UpdateScheduleEntry,
		deleteFn: s.DeleteScheduleEntry,
		swapFn:   func(a, b string) error { return s.SwapOrder(ResScheduleEntries, a, b) },
	}
}

func (s *Store) TicketCollection(availableOnly bool) resource.Collection[models.Ticket] {
	return funcsCollection[models.Ticket]{
		selectFn: func() ([]models.Ticket, error) { return s.ListTickets(availableOnly) },
		insertFn: s.CreateTicket,
		updateFn: s.UpdateTicket,
		deleteFn: s.DeleteTicket,
		swapFn:   func(a, b string) error { return s.SwapOrder(ResTickets, a, b) },
	}
}

func (s *Store) GalleryCollection(activeOnly bool) resource.Collection[models.GalleryItem] {
	return funcsCollection[models.GalleryItem]{
		selectFn: func() ([]models.GalleryItem, error) { return s.ListGalleryItems(activeOnly) },
		insertFn: s.CreateGalleryItem,
		updateFn: s.UpdateGalleryItem,
		deleteFn: s.DeleteGalleryItem,
		swapFn:   func(a, b string) error { return s.SwapOrder(ResGallery, a, b) },
	}
}

func (s *Store) SlideCollection(activeOnly bool) resource.Collection[models.Slide] {
	return funcsCollection[models.Slide]{
		selectFn: func() ([]models.Slide, error) { return s.ListSlides(activeOnly) },
		insertFn: s.CreateSlide,
		updateFn: s.UpdateSlide,
		deleteFn: s.DeleteSlide,
		swapFn:   func(a, b string) error { return s.SwapOrder(ResSlides, a, b) },
	}
}

func (s *Store) SocialLinkCollection(activeOnly bool) resource.Collection[models.SocialLink] {
	return funcsCollection[models.SocialLink]{
		selectFn: func() ([]models.SocialLink, error) { return s.ListSocialLinks(activeOnly) },
		insertFn: s.CreateSocialLink,
		updateFn: s.UpdateSocialLink,
		deleteFn: s.DeleteSocialLink,
		swapFn:   func(a, b string) error { return s.SwapOrder(ResSocialLinks, a, b) },
	}
}

func (s *Store) PartnerCollection(activeOnly bool) resource.Collection[models.Partner] {
	return funcsCollection[models.Partner]{
		selectFn: func() ([]models.Partner, error) { return s.ListPartners(activeOnly) },
		insertFn: s.CreatePartner,
		updateFn: s.UpdatePartner,
		deleteFn: s.DeletePartner,
		swapFn:   func(a, b string) error { return s.SwapOrder(ResPartners, a, b) },
	}
}

func (s *Store) HeaderLinkCollection(activeOnly bool) resource.Collection[models.HeaderLink] {
	return funcsCollection[models.HeaderLink]{
		selectFn: func() ([]models.HeaderLink, error) { return s.ListHeaderLinks(activeOnly) },
		insertFn: s.CreateHeaderLink,
		updateFn: s.UpdateHeaderLink,
		deleteFn: s.DeleteHeaderLink,
		swapFn:   func(a, b string) error { return s.SwapOrder(ResHeaderLinks, a, b) },
	}
}

// Singleton settings adapters

type countdownCollection struct{ s *Store }

func (c countdownCollection) Get(ctx context.Context) (models.CountdownSettings, error) {
	settings, err := c.s.GetCountdownSettings()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.CountdownSettings{}, resource.ErrNotFound
		}
		return models.CountdownSettings{}, err
	}
	return *settings, nil
}

func (c countdownCollection) Insert(ctx context.Context, record models.CountdownSettings) (models.CountdownSettings, error) {
	record.ID = ""
	err := c.s.SaveCountdownSettings(&record)
	return record, err
}

func (c countdownCollection) Update(ctx context.Context, record models.CountdownSettings) error {
	return c.s.SaveCountdownSettings(&record)
}

func (s *Store) CountdownCollection() resource.SingletonCollection[models.CountdownSettings] {
	return countdownCollection{s: s}
}

type themeCollection struct{ s *Store }

func (c themeCollection) Get(ctx context.Context) (models.ThemeSettings, error) {
	settings, err := c.s.GetThemeSettings()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ThemeSettings{}, resource.ErrNotFound
		}
		return models.ThemeSettings{}, err
	}
	return *settings, nil
}

func (c themeCollection) Insert(ctx context.Context, record models.ThemeSettings) (models.ThemeSettings, error) {
	record.ID = ""
	err := c.s.SaveThemeSettings(&record)
	return record, err
}

func (c themeCollection) Update(ctx context.Context, record models.ThemeSettings) error {
	return c.s.SaveThemeSettings(&record)
}

func (s *Store) ThemeCollection() resource.SingletonCollection[models.ThemeSettings] {
	return themeCollection{s: s}
}
