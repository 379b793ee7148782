package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"festival/internal/models"
	"festival/internal/store"

	"github.com/go-chi/chi/v5"
)

// Admin CRUD handlers. Mutations go straight to the store; the change feed
// the store publishes on brings the public caches and other admin sessions
// up to date.

// Event handlers

func (a *API) listEvents(w http.ResponseWriter, r *http.Request) {
	events, err := a.store.ListEvents(false)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	respondJSON(w, http.StatusOK, events)
}

func (a *API) createEvent(w http.ResponseWriter, r *http.Request) {
	var e models.Event
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if e.Title == "" {
		respondError(w, http.StatusBadRequest, "Title is required")
		return
	}

	next, err := a.store.NextOrderNum(store.ResEvents)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	e.OrderNum = next

	if err := a.store.CreateEvent(&e); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, e)
}

func (a *API) updateEvent(w http.ResponseWriter, r *http.Request) {
	var e models.Event
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if e.Title == "" {
		respondError(w, http.StatusBadRequest, "Title is required")
		return
	}

	e.ID = chi.URLParam(r, "id")
	if err := a.store.UpdateEvent(&e); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, e)
}

func (a *API) deleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteEvent(chi.URLParam(r, "id")); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Schedule day handlers

func (a *API) listScheduleDays(w http.ResponseWriter, r *http.Request) {
	days, err := a.store.ListScheduleDays()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if days == nil {
		days = []models.ScheduleDay{}
	}
	respondJSON(w, http.StatusOK, days)
}

func (a *API) createScheduleDay(w http.ResponseWriter, r *http.Request) {
	var d models.ScheduleDay
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if d.Label == "" {
		respondError(w, http.StatusBadRequest, "Label is required")
		return
	}

	next, err := a.store.NextOrderNum(store.ResScheduleDays)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	d.OrderNum = next

	if err := a.store.CreateScheduleDay(&d); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, d)
}

func (a *API) updateScheduleDay(w http.ResponseWriter, r *http.Request) {
	var d models.ScheduleDay
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if d.Label == "" {
		respondError(w, http.StatusBadRequest, "Label is required")
		return
	}

	d.ID = chi.URLParam(r, "id")
	if err := a.store.UpdateScheduleDay(&d); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, d)
}

func (a *API) deleteScheduleDay(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteScheduleDay(chi.URLParam(r, "id")); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Schedule entry handlers

func (a *API) listScheduleEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := a.store.ListScheduleEntries(r.URL.Query().Get("day"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if entries == nil {
		entries = []models.ScheduleEntry{}
	}
	respondJSON(w, http.StatusOK, entries)
}

func (a *API) createScheduleEntry(w http.ResponseWriter, r *http.Request) {
	var e models.ScheduleEntry
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if e.DayID == "" || e.Title == "" {
		respondError(w, http.StatusBadRequest, "Day and title are required")
		return
	}

	next, err := a.store.NextOrderNum(store.ResScheduleEntries)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	e.OrderNum = next

	if err := a.store.CreateScheduleEntry(&e); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, e)
}

func (a *API) updateScheduleEntry(w http.ResponseWriter, r *http.Request) {
	var e models.ScheduleEntry
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if e.DayID == "" || e.Title == "" {
		respondError(w, http.StatusBadRequest, "Day and title are required")
		return
	}

	e.ID = chi.URLParam(r, "id")
	if err := a.store.UpdateScheduleEntry(&e); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, e)
}

func (a *API) deleteScheduleEntry(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteScheduleEntry(chi.URLParam(r, "id")); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Ticket handlers

func (a *API) listTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := a.store.ListTickets(false)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if tickets == nil {
		tickets = []models.Ticket{}
	}
	respondJSON(w, http.StatusOK, tickets)
}

func (a *API) createTicket(w http.ResponseWriter, r *http.Request) {
	var t models.Ticket
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if t.Name == "" {
		respondError(w, http.StatusBadRequest, "Name is required")
		return
	}

	next, err := a.store.NextOrderNum(store.ResTickets)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	t.OrderNum = next

	if err := a.store.CreateTicket(&t); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, t)
}

func (a *API) updateTicket(w http.ResponseWriter, r *http.Request) {
	var t models.Ticket
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if t.Name == "" {
		respondError(w, http.StatusBadRequest, "Name is required")
		return
	}

	t.ID = chi.URLParam(r, "id")
	if err := a.store.UpdateTicket(&t); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, t)
}

func (a *API) deleteTicket(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteTicket(chi.URLParam(r, "id")); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Gallery handlers

func (a *API) listGallery(w http.ResponseWriter, r *http.Request) {
	items, err := a.store.ListGalleryItems(false)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []models.GalleryItem{}
	}
	respondJSON(w, http.StatusOK, items)
}

func (a *API) createGalleryItem(w http.ResponseWriter, r *http.Request) {
	var g models.GalleryItem
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if g.ImageURL == "" {
		respondError(w, http.StatusBadRequest, "Image is required")
		return
	}

	next, err := a.store.NextOrderNum(store.ResGallery)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	g.OrderNum = next

	if err := a.store.CreateGalleryItem(&g); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, g)
}

func (a *API) updateGalleryItem(w http.ResponseWriter, r *http.Request) {
	var g models.GalleryItem
	if err := json.NewDecoder(r.Body).Decode(&g); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if g.ImageURL == "" {
		respondError(w, http.StatusBadRequest, "Image is required")
		return
	}

	g.ID = chi.URLParam(r, "id")
	if err := a.store.UpdateGalleryItem(&g); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, g)
}

func (a *API) deleteGalleryItem(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteGalleryItem(chi.URLParam(r, "id")); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Slide handlers

func (a *API) listSlides(w http.ResponseWriter, r *http.Request) {
	slides, err := a.store.ListSlides(false)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if slides == nil {
		slides = []models.Slide{}
	}
	respondJSON(w, http.StatusOK, slides)
}

func (a *API) createSlide(w http.ResponseWriter, r *http.Request) {
	var sl models.Slide
	if err := json.NewDecoder(r.Body).Decode(&sl); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if sl.ImageURL == "" {
		respondError(w, http.StatusBadRequest, "Image is required")
		return
	}

	next, err := a.store.NextOrderNum(store.ResSlides)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sl.OrderNum = next

	if err := a.store.CreateSlide(&sl); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, sl)
}

func (a *API) updateSlide(w http.ResponseWriter, r *http.Request) {
	var sl models.Slide
	if err := json.NewDecoder(r.Body).Decode(&sl); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if sl.ImageURL == "" {
		respondError(w, http.StatusBadRequest, "Image is required")
		return
	}

	sl.ID = chi.URLParam(r, "id")
	if err := a.store.UpdateSlide(&sl); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, sl)
}

func (a *API) deleteSlide(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteSlide(chi.URLParam(r, "id")); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Social link handlers

func (a *API) listSocialLinks(w http.ResponseWriter, r *http.Request) {
	links, err := a.store.ListSocialLinks(false)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if links == nil {
		links = []models.SocialLink{}
	}
	respondJSON(w, http.StatusOK, links)
}

func (a *API) createSocialLink(w http.ResponseWriter, r *http.Request) {
	var l models.SocialLink
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if l.Network == "" || l.URL == "" {
		respondError(w, http.StatusBadRequest, "Network and URL are required")
		return
	}

	next, err := a.store.NextOrderNum(store.ResSocialLinks)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	l.OrderNum = next

	if err := a.store.CreateSocialLink(&l); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, l)
}

func (a *API) updateSocialLink(w http.ResponseWriter, r *http.Request) {
	var l models.SocialLink
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if l.Network == "" || l.URL == "" {
		respondError(w, http.StatusBadRequest, "Network and URL are required")
		return
	}

	l.ID = chi.URLParam(r, "id")
	if err := a.store.UpdateSocialLink(&l); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, l)
}

func (a *API) deleteSocialLink(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteSocialLink(chi.URLParam(r, "id")); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Partner handlers

func (a *API) listPartners(w http.ResponseWriter, r *http.Request) {
	partners, err := a.store.ListPartners(false)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if partners == nil {
		partners = []models.Partner{}
	}
	respondJSON(w, http.StatusOK, partners)
}

func (a *API) createPartner(w http.ResponseWriter, r *http.Request) {
	var p models.Partner
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if p.Name == "" {
		respondError(w, http.StatusBadRequest, "Name is required")
		return
	}

	next, err := a.store.NextOrderNum(store.ResPartners)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	p.OrderNum = next

	if err := a.store.CreatePartner(&p); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, p)
}

func (a *API) updatePartner(w http.ResponseWriter, r *http.Request) {
	var p models.Partner
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if p.Name == "" {
		respondError(w, http.StatusBadRequest, "Name is required")
		return
	}

	p.ID = chi.URLParam(r, "id")
	if err := a.store.UpdatePartner(&p); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, p)
}

func (a *API) deletePartner(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeletePartner(chi.URLParam(r, "id")); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Header link handlers

func (a *API) listHeaderLinks(w http.ResponseWriter, r *http.Request) {
	links, err := a.store.ListHeaderLinks(false)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if links == nil {
		links = []models.HeaderLink{}
	}
	respondJSON(w, http.StatusOK, links)
}

func (a *API) createHeaderLink(w http.ResponseWriter, r *http.Request) {
	var l models.HeaderLink
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if l.Label == "" || l.Href == "" {
		respondError(w, http.StatusBadRequest, "Label and href are required")
		return
	}

	next, err := a.store.NextOrderNum(store.ResHeaderLinks)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	l.OrderNum = next

	if err := a.store.CreateHeaderLink(&l); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, l)
}

func (a *API) updateHeaderLink(w http.ResponseWriter, r *http.Request) {
	var l models.HeaderLink
	if err := json.NewDecoder(r.Body).Decode(&l); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if l.Label == "" || l.Href == "" {
		respondError(w, http.StatusBadRequest, "Label and href are required")
		return
	}

	l.ID = chi.URLParam(r, "id")
	if err := a.store.UpdateHeaderLink(&l); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, l)
}

func (a *API) deleteHeaderLink(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeleteHeaderLink(chi.URLParam(r, "id")); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Page handlers

func (a *API) listPages(w http.ResponseWriter, r *http.Request) {
	pages, err := a.store.ListPages(false)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if pages == nil {
		pages = []models.Page{}
	}
	respondJSON(w, http.StatusOK, pages)
}

func (a *API) createPage(w http.ResponseWriter, r *http.Request) {
	var p models.Page
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if p.Slug == "" {
		respondError(w, http.StatusBadRequest, "Slug is required")
		return
	}

	if err := a.store.CreatePage(&p); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, p)
}

func (a *API) updatePage(w http.ResponseWriter, r *http.Request) {
	var p models.Page
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if p.Slug == "" {
		respondError(w, http.StatusBadRequest, "Slug is required")
		return
	}

	p.ID = chi.URLParam(r, "id")
	if err := a.store.UpdatePage(&p); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, p)
}

func (a *API) deletePage(w http.ResponseWriter, r *http.Request) {
	if err := a.store.DeletePage(chi.URLParam(r, "id")); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Contact and settings handlers. These are singleton rows: the server
// resolves the existing id so repeated saves can never create a second row.

func (a *API) saveContact(w http.ResponseWriter, r *http.Request) {
	var c models.ContactInfo
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if existing, err := a.store.GetContactInfo(); err == nil {
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	} else {
		c.ID = ""
	}

	if err := a.store.SaveContactInfo(&c); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (a *API) saveCountdown(w http.ResponseWriter, r *http.Request) {
	var c models.CountdownSettings
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if c.TargetAt.IsZero() {
		respondError(w, http.StatusBadRequest, "Target time is required")
		return
	}

	if existing, err := a.store.GetCountdownSettings(); err == nil {
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	} else {
		c.ID = ""
	}

	if err := a.store.SaveCountdownSettings(&c); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, c)
}

func (a *API) saveTheme(w http.ResponseWriter, r *http.Request) {
	var t models.ThemeSettings
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if existing, err := a.store.GetThemeSettings(); err == nil {
		t.ID = existing.ID
		t.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	} else {
		t.ID = ""
	}

	if err := a.store.SaveThemeSettings(&t); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, t)
}
