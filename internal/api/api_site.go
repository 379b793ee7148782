package api

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"festival/internal/models"
	"festival/internal/resource"
	"festival/internal/store"

	"github.com/go-chi/chi/v5"
)

// siteBindings hold the public site's read caches: one synchronized binding
// per visible collection, loaded once and refreshed by the change feed as
// the admin panel mutates content.
type siteBindings struct {
	store *store.Store

	events    *resource.Binding[models.Event]
	days      *resource.Binding[models.ScheduleDay]
	entries   *resource.Binding[models.ScheduleEntry]
	tickets   *resource.Binding[models.Ticket]
	gallery   *resource.Binding[models.GalleryItem]
	slides    *resource.Binding[models.Slide]
	social    *resource.Binding[models.SocialLink]
	partners  *resource.Binding[models.Partner]
	links     *resource.Binding[models.HeaderLink]
	countdown *resource.SingletonBinding[models.CountdownSettings]
	theme     *resource.SingletonBinding[models.ThemeSettings]
}

func newSiteBindings(s *store.Store) *siteBindings {
	notifier := resource.LogNotifier{}
	feed := s.Feed()

	return &siteBindings{
		store:     s,
		events:    resource.NewBinding(s.EventCollection(true), store.EventDescriptor(), notifier, feed),
		days:      resource.NewBinding(s.ScheduleDayCollection(), store.ScheduleDayDescriptor(), notifier, feed),
		entries:   resource.NewBinding(s.ScheduleEntryCollection(""), store.ScheduleEntryDescriptor(), notifier, feed),
		tickets:   resource.NewBinding(s.TicketCollection(true), store.TicketDescriptor(), notifier, feed),
		gallery:   resource.NewBinding(s.GalleryCollection(true), store.GalleryDescriptor(), notifier, feed),
		slides:    resource.NewBinding(s.SlideCollection(true), store.SlideDescriptor(), notifier, feed),
		social:    resource.NewBinding(s.SocialLinkCollection(true), store.SocialLinkDescriptor(), notifier, feed),
		partners:  resource.NewBinding(s.PartnerCollection(true), store.PartnerDescriptor(), notifier, feed),
		links:     resource.NewBinding(s.HeaderLinkCollection(true), store.HeaderLinkDescriptor(), notifier, feed),
		countdown: resource.NewSingletonBinding(s.CountdownCollection(), store.CountdownDescriptor(), notifier, feed),
		theme:     resource.NewSingletonBinding(s.ThemeCollection(), store.ThemeDescriptor(), notifier, feed),
	}
}

func (sb *siteBindings) start(ctx context.Context) error {
	loaders := []func(context.Context) error{
		sb.events.Load, sb.days.Load, sb.entries.Load, sb.tickets.Load,
		sb.gallery.Load, sb.slides.Load, sb.social.Load, sb.partners.Load,
		sb.links.Load, sb.countdown.Load, sb.theme.Load,
	}
	for _, load := range loaders {
		if err := load(ctx); err != nil {
			return err
		}
	}

	sb.events.Subscribe(ctx)
	sb.days.Subscribe(ctx)
	sb.entries.Subscribe(ctx)
	sb.tickets.Subscribe(ctx)
	sb.gallery.Subscribe(ctx)
	sb.slides.Subscribe(ctx)
	sb.social.Subscribe(ctx)
	sb.partners.Subscribe(ctx)
	sb.links.Subscribe(ctx)
	sb.countdown.Subscribe(ctx)
	sb.theme.Subscribe(ctx)
	return nil
}

func (sb *siteBindings) stop() {
	sb.events.Close()
	sb.days.Close()
	sb.entries.Close()
	sb.tickets.Close()
	sb.gallery.Close()
	sb.slides.Close()
	sb.social.Close()
	sb.partners.Close()
	sb.links.Close()
	sb.countdown.Close()
	sb.theme.Close()
}

// Public site handlers

// serveBinding answers from the warmed cache, falling back to a direct store
// query when the cache has not been loaded (tests, startup race).
func serveBinding[T any](w http.ResponseWriter, b *resource.Binding[T], fallback func() ([]T, error)) {
	var items []T
	if b.Loaded() {
		items = b.Items()
	} else {
		var err error
		items, err = fallback()
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	if items == nil {
		items = []T{}
	}
	respondJSON(w, http.StatusOK, items)
}

func (a *API) listPublicEvents(w http.ResponseWriter, r *http.Request) {
	serveBinding(w, a.site.events, func() ([]models.Event, error) { return a.store.ListEvents(true) })
}

func (a *API) listPublicTickets(w http.ResponseWriter, r *http.Request) {
	serveBinding(w, a.site.tickets, func() ([]models.Ticket, error) { return a.store.ListTickets(true) })
}

func (a *API) listPublicGallery(w http.ResponseWriter, r *http.Request) {
	serveBinding(w, a.site.gallery, func() ([]models.GalleryItem, error) { return a.store.ListGalleryItems(true) })
}

func (a *API) listPublicSlides(w http.ResponseWriter, r *http.Request) {
	serveBinding(w, a.site.slides, func() ([]models.Slide, error) { return a.store.ListSlides(true) })
}

func (a *API) listPublicSocialLinks(w http.ResponseWriter, r *http.Request) {
	serveBinding(w, a.site.social, func() ([]models.SocialLink, error) { return a.store.ListSocialLinks(true) })
}

func (a *API) listPublicPartners(w http.ResponseWriter, r *http.Request) {
	serveBinding(w, a.site.partners, func() ([]models.Partner, error) { return a.store.ListPartners(true) })
}

func (a *API) listPublicHeaderLinks(w http.ResponseWriter, r *http.Request) {
	serveBinding(w, a.site.links, func() ([]models.HeaderLink, error) { return a.store.ListHeaderLinks(true) })
}

// scheduleDayView nests a day's entries for the public schedule page.
type scheduleDayView struct {
	models.ScheduleDay
	Entries []models.ScheduleEntry `json:"entries"`
}

func (a *API) getPublicSchedule(w http.ResponseWriter, r *http.Request) {
	var days []models.ScheduleDay
	var entries []models.ScheduleEntry

	if a.site.days.Loaded() && a.site.entries.Loaded() {
		days = a.site.days.Items()
		entries = a.site.entries.Items()
	} else {
		var err error
		days, err = a.store.ListScheduleDays()
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		entries, err = a.store.ListScheduleEntries("")
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	byDay := make(map[string][]models.ScheduleEntry, len(days))
	for _, e := range entries {
		byDay[e.DayID] = append(byDay[e.DayID], e)
	}

	schedule := make([]scheduleDayView, 0, len(days))
	for _, d := range days {
		dayEntries := byDay[d.ID]
		if dayEntries == nil {
			dayEntries = []models.ScheduleEntry{}
		}
		schedule = append(schedule, scheduleDayView{ScheduleDay: d, Entries: dayEntries})
	}

	respondJSON(w, http.StatusOK, schedule)
}

func (a *API) getPublicPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	page, err := a.store.GetPageBySlug(slug)
	if err != nil || !page.Published {
		respondError(w, http.StatusNotFound, "Page not found")
		return
	}

	respondJSON(w, http.StatusOK, page)
}

func (a *API) getPublicContact(w http.ResponseWriter, r *http.Request) {
	contact, err := a.store.GetContactInfo()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondJSON(w, http.StatusOK, models.ContactInfo{})
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, contact)
}

func (a *API) getPublicCountdown(w http.ResponseWriter, r *http.Request) {
	if settings, ok := a.site.countdown.Value(); ok {
		respondJSON(w, http.StatusOK, settings)
		return
	}

	settings, err := a.store.GetCountdownSettings()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondJSON(w, http.StatusOK, models.CountdownSettings{})
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, settings)
}

func (a *API) getPublicTheme(w http.ResponseWriter, r *http.Request) {
	if settings, ok := a.site.theme.Value(); ok {
		respondJSON(w, http.StatusOK, settings)
		return
	}

	settings, err := a.store.GetThemeSettings()
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondJSON(w, http.StatusOK, models.ThemeSettings{})
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, settings)
}
