package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"festival/internal/models"
	"festival/internal/realtime"
	"festival/internal/resource"
	"festival/internal/storage"
	"festival/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	CookieMaxAge    = 30 * 24 * 60 * 60 // 30 days in seconds
	SessionDuration = 30 * 24 * time.Hour
)

type contextKey string

const userContextKey contextKey = "user"

// API serves the public site read endpoints and the admin panel's CRUD
// surface. Public reads go through change-feed-synchronized bindings; admin
// mutations hit the store directly, which publishes the change events that
// keep the bindings (and other open admin sessions) converged.
type API struct {
	store   *store.Store
	storage *storage.Storage // nil when object storage is not configured
	hub     *realtime.Hub

	site *siteBindings
}

func New(s *store.Store, st *storage.Storage) *API {
	a := &API{store: s, storage: st}
	if feed := s.Feed(); feed != nil {
		a.hub = realtime.NewHub(feed)
	}
	a.site = newSiteBindings(s)
	return a
}

// Start warms the public read caches and subscribes them to the change feed.
func (a *API) Start(ctx context.Context) error {
	return a.site.start(ctx)
}

// Stop unsubscribes the public read caches from the change feed.
func (a *API) Stop() {
	a.site.stop()
}

// getUserFromContext extracts the authenticated user from the request context
func getUserFromContext(r *http.Request) *models.User {
	user, ok := r.Context().Value(userContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// AuthMiddleware checks for valid session token in Authorization header or cookie
func (a *API) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := requestToken(r)
		if token == "" {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		session, err := a.store.GetSessionByToken(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Invalid session")
			return
		}

		if session.ExpiresAt.Before(time.Now()) {
			a.store.DeleteSession(token)
			respondError(w, http.StatusUnauthorized, "Session expired")
			return
		}

		user, err := a.store.GetUser(session.UserID)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "User not found")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AdminMiddleware requires the user to be an admin
func (a *API) AdminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := getUserFromContext(r)
		if user == nil || !user.IsAdmin {
			respondError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	if cookie, err := r.Cookie("festival_auth"); err == nil {
		return cookie.Value
	}
	return ""
}

func (a *API) Routes() chi.Router {
	r := chi.NewRouter()

	// Auth endpoints
	r.Post("/auth/login", a.login)
	r.Post("/auth/logout", a.logout)
	r.Get("/auth/check", a.checkAuth)

	// Public site content
	r.Get("/events", a.listPublicEvents)
	r.Get("/schedule", a.getPublicSchedule)
	r.Get("/tickets", a.listPublicTickets)
	r.Get("/gallery", a.listPublicGallery)
	r.Get("/slides", a.listPublicSlides)
	r.Get("/social", a.listPublicSocialLinks)
	r.Get("/partners", a.listPublicPartners)
	r.Get("/links", a.listPublicHeaderLinks)
	r.Get("/pages/{slug}", a.getPublicPage)
	r.Get("/contact", a.getPublicContact)
	r.Get("/settings/countdown", a.getPublicCountdown)
	r.Get("/settings/theme", a.getPublicTheme)

	// Realtime change feed
	if a.hub != nil {
		r.Get("/feed", a.hub.ServeHTTP)
	}

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(a.AuthMiddleware)
		r.Use(a.AdminMiddleware)

		r.Get("/auth/me", a.getMe)

		r.Route("/admin", func(r chi.Router) {
			r.Route("/events", func(r chi.Router) {
				r.Get("/", a.listEvents)
				r.Post("/", a.createEvent)
				r.Put("/{id}", a.updateEvent)
				r.Delete("/{id}", a.deleteEvent)
			})

			r.Route("/schedule/days", func(r chi.Router) {
				r.Get("/", a.listScheduleDays)
				r.Post("/", a.createScheduleDay)
				r.Put("/{id}", a.updateScheduleDay)
				r.Delete("/{id}", a.deleteScheduleDay)
			})

			r.Route("/schedule/entries", func(r chi.Router) {
				r.Get("/", a.listScheduleEntries)
				r.Post("/", a.createScheduleEntry)
				r.Put("/{id}", a.updateScheduleEntry)
				r.Delete("/{id}", a.deleteScheduleEntry)
			})

			r.Route("/tickets", func(r chi.Router) {
				r.Get("/", a.listTickets)
				r.Post("/", a.createTicket)
				r.Put("/{id}", a.updateTicket)
				r.Delete("/{id}", a.deleteTicket)
			})

			r.Route("/gallery", func(r chi.Router) {
				r.Get("/", a.listGallery)
				r.Post("/", a.createGalleryItem)
				r.Put("/{id}", a.updateGalleryItem)
				r.Delete("/{id}", a.deleteGalleryItem)
			})

			r.Route("/slides", func(r chi.Router) {
				r.Get("/", a.listSlides)
				r.Post("/", a.createSlide)
				r.Put("/{id}", a.updateSlide)
				r.Delete("/{id}", a.deleteSlide)
			})

			r.Route("/social", func(r chi.Router) {
				r.Get("/", a.listSocialLinks)
				r.Post("/", a.createSocialLink)
				r.Put("/{id}", a.updateSocialLink)
				r.Delete("/{id}", a.deleteSocialLink)
			})

			r.Route("/partners", func(r chi.Router) {
				r.Get("/", a.listPartners)
				r.Post("/", a.createPartner)
				r.Put("/{id}", a.updatePartner)
				r.Delete("/{id}", a.deletePartner)
			})

			r.Route("/links", func(r chi.Router) {
				r.Get("/", a.listHeaderLinks)
				r.Post("/", a.createHeaderLink)
				r.Put("/{id}", a.updateHeaderLink)
				r.Delete("/{id}", a.deleteHeaderLink)
			})

			r.Route("/pages", func(r chi.Router) {
				r.Get("/", a.listPages)
				r.Post("/", a.createPage)
				r.Put("/{id}", a.updatePage)
				r.Delete("/{id}", a.deletePage)
			})

			r.Put("/contact", a.saveContact)
			r.Put("/settings/countdown", a.saveCountdown)
			r.Put("/settings/theme", a.saveTheme)

			// Display order and visibility toggles, uniform across resources
			r.Put("/order/{resource}/{id}", a.reorderRecord)
			r.Put("/visibility/{resource}/{id}", a.toggleActive)

			r.Post("/upload", a.uploadMedia)
		})
	})

	return r
}

// Auth handlers

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	user, err := a.store.GetUserByUsername(req.Username)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	session := &models.Session{
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(SessionDuration),
	}
	if err := a.store.CreateSession(session); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "festival_auth",
		Value:    session.Token,
		Path:     "/",
		MaxAge:   CookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https",
	})

	log.Info().Str("user", user.Username).Msg("admin login")

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"user":      user,
		"token":     session.Token,
		"expiresAt": session.ExpiresAt.Format(time.RFC3339),
	})
}

func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	if token := requestToken(r); token != "" {
		a.store.DeleteSession(token)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "festival_auth",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) checkAuth(w http.ResponseWriter, r *http.Request) {
	token := requestToken(r)
	if token == "" {
		respondJSON(w, http.StatusOK, map[string]interface{}{"authenticated": false})
		return
	}

	session, err := a.store.GetSessionByToken(token)
	if err != nil || session.ExpiresAt.Before(time.Now()) {
		respondJSON(w, http.StatusOK, map[string]interface{}{"authenticated": false})
		return
	}

	user, err := a.store.GetUser(session.UserID)
	if err != nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{"authenticated": false})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"user":          user,
	})
}

func (a *API) getMe(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, getUserFromContext(r))
}

// Reorder and visibility handlers, shared across ordered resources

func (a *API) reorderRecord(w http.ResponseWriter, r *http.Request) {
	res := chi.URLParam(r, "resource")
	id := chi.URLParam(r, "id")

	if !store.IsOrdered(res) {
		respondError(w, http.StatusBadRequest, "Resource has no display order")
		return
	}

	var req struct {
		Direction resource.Direction `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Direction != resource.MoveUp && req.Direction != resource.MoveDown {
		respondError(w, http.StatusBadRequest, "Direction must be \"up\" or \"down\"")
		return
	}

	ids, err := a.store.OrderedIDs(res)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	idx := -1
	for i, candidate := range ids {
		if candidate == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		respondError(w, http.StatusNotFound, "Record not found")
		return
	}

	// Boundary moves are no-ops: nothing to swap with.
	other := idx - 1
	if req.Direction == resource.MoveDown {
		other = idx + 1
	}
	if other < 0 || other >= len(ids) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "unchanged"})
		return
	}

	if err := a.store.SwapOrder(res, id, ids[other]); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) toggleActive(w http.ResponseWriter, r *http.Request) {
	res := chi.URLParam(r, "resource")
	id := chi.URLParam(r, "id")

	if !store.HasToggle(res) {
		respondError(w, http.StatusBadRequest, "Resource has no visibility flag")
		return
	}

	var req struct {
		Value bool `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := a.store.SetActive(res, id, req.Value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "Record not found")
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// JSON helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
