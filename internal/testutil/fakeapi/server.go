// Package fakeapi is an in-memory implementation of the quiz platform REST API
// served over httptest. It is used by client and store tests and by the CLI
// demo mode.
package fakeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/quizstate/internal/client/models"
	"github.com/go-chi/chi/v5"
)

type account struct {
	identity models.Identity
	password string
	stats    models.UserStats
}

type failure struct {
	status      int
	body        string
	contentType string
}

type ctxKey struct{}

// Server holds the fake backend state. All methods are safe for concurrent use.
type Server struct {
	mu sync.Mutex

	accounts  map[int64]*account
	tokens    map[string]int64
	quizzes   map[int64]*models.Quiz
	items     map[int64]*models.ShopItem
	inventory map[int64][]models.InventoryEntry
	nextID    int64

	failures map[string][]failure
	hits     map[string]int

	secret []byte

	// PurchaseGate, when set, is received from before a purchase is processed.
	PurchaseGate chan struct{}

	// ProfileGate, when set, is received from before GET /users/me answers.
	ProfileGate chan struct{}

	http *httptest.Server
}

// New starts a fake backend on a local port.
func New() *Server {
	s := &Server{
		accounts:  make(map[int64]*account),
		tokens:    make(map[string]int64),
		quizzes:   make(map[int64]*models.Quiz),
		items:     make(map[int64]*models.ShopItem),
		inventory: make(map[int64][]models.InventoryEntry),
		failures:  make(map[string][]failure),
		hits:      make(map[string]int),
		nextID:    100,
		secret:    []byte("fakeapi-signing-key"),
	}
	s.http = httptest.NewServer(s.routes())
	return s
}

func (s *Server) URL() string { return s.http.URL }

func (s *Server) Client() *http.Client { return s.http.Client() }

func (s *Server) Close() { s.http.Close() }

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record, s.injectFailures)

	r.Post("/auth/login", s.login)
	r.Post("/auth/register", s.register)
	r.Get("/stats", s.platformStats)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticated)

		r.Get("/users/me", s.me)
		r.Get("/users/stats", s.userStats)
		r.Put("/users/update-profile", s.updateProfile)
		r.Delete("/users/delete-account", s.deleteAccount)

		r.Get("/quizzes", s.listQuizzes)
		r.Post("/quizzes", s.createQuiz)
		r.Get("/quizzes/{id}", s.getQuiz)
		r.Put("/quizzes/{id}", s.updateQuiz)
		r.Delete("/quizzes/{id}", s.deleteQuiz)
		r.Post("/quizzes/{id}/submit", s.submit)

		r.Get("/shop", s.listItems)
		r.Get("/shop/my-inventory", s.myInventory)
		r.Post("/shop/purchase/{id}", s.purchase)

		r.Route("/Admin", func(r chi.Router) {
			r.Use(s.adminOnly)
			r.Get("/users", s.adminUsers)
			r.Put("/users/{id}", s.adminUpdateUser)
			r.Post("/shop", s.adminCreateItem)
			r.Put("/shop/{id}", s.adminUpdateItem)
			r.Delete("/shop/{id}", s.adminDeleteItem)
			r.Get("/quizzes/pending", s.adminPending)
			r.Put("/quizzes/{id}/verify", s.adminVerify)
			r.Delete("/quizzes/{id}/reject", s.adminReject)
		})
	})

	return r
}

// ---- seeding & inspection ----

// AddUser registers an account and returns its id.
func (s *Server) AddUser(identity models.Identity, password string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if identity.ID == 0 {
		identity.ID = s.id()
	}
	if identity.Role == "" {
		identity.Role = "User"
	}
	if identity.Level == 0 {
		identity.Level = 1
	}
	s.accounts[identity.ID] = &account{identity: identity, password: password}
	return identity.ID
}

// IssueToken creates a session credential for an existing account.
func (s *Server) IssueToken(userID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issue(userID)
}

func (s *Server) AddQuiz(q models.Quiz) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q.ID == 0 {
		q.ID = s.id()
	}
	q.QuestionsCount = len(q.Questions)
	s.quizzes[q.ID] = &q
	return q.ID
}

func (s *Server) AddItem(item models.ShopItem) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == 0 {
		item.ID = s.id()
	}
	s.items[item.ID] = &item
	return item.ID
}

// User returns the server-side view of an account.
func (s *Server) User(id int64) (models.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return models.Identity{}, false
	}
	return a.identity, true
}

// SetPoints overwrites an account's points server-side.
func (s *Server) SetPoints(id int64, points int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[id]; ok {
		a.identity.Points = points
	}
}

// HasQuiz reports whether the server still stores the quiz.
func (s *Server) HasQuiz(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.quizzes[id]
	return ok
}

// FailNext makes the next request matching method and path (exact, without
// query) answer with status and body. Content type is JSON when the body looks
// like JSON and text/plain otherwise.
func (s *Server) FailNext(method, path string, status int, body string) {
	ct := "text/plain; charset=utf-8"
	if strings.HasPrefix(strings.TrimSpace(body), "{") || strings.HasPrefix(strings.TrimSpace(body), "\"") {
		ct = "application/json"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	s.failures[key] = append(s.failures[key], failure{status: status, body: body, contentType: ct})
}

// Hits returns how many requests reached method and path.
func (s *Server) Hits(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[method+" "+path]
}

// ---- middleware ----

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.Method+" "+r.URL.Path]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		s.mu.Lock()
		queue := s.failures[key]
		var f *failure
		if len(queue) > 0 {
			f = &queue[0]
			s.failures[key] = queue[1:]
		}
		s.mu.Unlock()

		if f != nil {
			w.Header().Set("Content-Type", f.contentType)
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(f.body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		s.mu.Lock()
		id, err := s.userFromToken(tok)
		s.mu.Unlock()
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r, id)))
	})
}

func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		a := s.accounts[userID(r)]
		s.mu.Unlock()
		if a == nil || a.identity.Role != models.RoleAdmin {
			writeMessage(w, http.StatusForbidden, "Forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ---- auth & users ----

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if !decode(w, r, &creds) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if (a.identity.DisplayName == creds.Identifier || a.identity.Email == creds.Identifier) && a.password == creds.Password {
			writeJSON(w, http.StatusOK, models.AuthResponse{User: a.identity, Token: s.issue(a.identity.ID)})
			return
		}
	}
	writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var reg models.Registration
	if !decode(w, r, &reg) {
		return
	}
	if reg.DisplayName == "" || reg.Email == "" || reg.Password == "" {
		writeMessage(w, http.StatusBadRequest, "All fields are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.identity.Email == reg.Email {
			writeMessage(w, http.StatusConflict, "Email already taken")
			return
		}
	}
	id := s.id()
	identity := models.Identity{
		ID: id, DisplayName: reg.DisplayName, Email: reg.Email, Role: "User",
		Level: 1, CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	s.accounts[id] = &account{identity: identity, password: reg.Password}
	writeJSON(w, http.StatusOK, models.AuthResponse{User: identity, Token: s.issue(id)})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	if s.ProfileGate != nil {
		<-s.ProfileGate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[userID(r)]
	if !ok {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, a.identity)
}

func (s *Server) userStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, s.accounts[userID(r)].stats)
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var upd models.ProfileUpdate
	if !decode(w, r, &upd) {
		return
	}
	if upd.DisplayName != nil && strings.TrimSpace(*upd.DisplayName) == "" {
		writeMessage(w, http.StatusBadRequest, "Display name cannot be empty")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.accounts[userID(r)]
	if upd.DisplayName != nil {
		a.identity.DisplayName = *upd.DisplayName
	}
	if upd.AvatarURL != nil {
		a.identity.AvatarURL = *upd.AvatarURL
	}
	writeJSON(w, http.StatusOK, a.identity)
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := userID(r)
	delete(s.accounts, id)
	delete(s.inventory, id)
	for tok, owner := range s.tokens {
		if owner == id {
			delete(s.tokens, tok)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) platformStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := models.PlatformStats{TotalQuizzes: len(s.quizzes), TotalUsers: len(s.accounts)}
	for _, q := range s.quizzes {
		stats.TotalQuestions += len(q.Questions)
	}
	writeJSON(w, http.StatusOK, stats)
}

// ---- quizzes ----

func (s *Server) listQuizzes(w http.ResponseWriter, r *http.Request) {
	var official *bool
	if v := r.URL.Query().Get("official"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid filter")
			return
		}
		official = &b
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Quiz, 0, len(s.quizzes))
	for _, id := range sortedKeys(s.quizzes) {
		q := s.quizzes[id]
		if !q.IsVisible || (official != nil && q.IsOfficial != *official) {
			continue
		}
		out = append(out, *q)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getQuiz(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	q, found := s.quizzes[id]
	if !found {
		writeMessage(w, http.StatusNotFound, "Quiz not found")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) createQuiz(w http.ResponseWriter, r *http.Request) {
	var draft models.QuizDraft
	if !decode(w, r, &draft) {
		return
	}
	if strings.TrimSpace(draft.Title) == "" {
		writeMessage(w, http.StatusBadRequest, "Title is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	q := fromDraft(draft)
	q.ID = s.id()
	q.AuthorID = strconv.FormatInt(userID(r), 10)
	s.quizzes[q.ID] = &q
	writeJSON(w, http.StatusCreated, q)
}

func (s *Server) updateQuiz(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var draft models.QuizDraft
	if !decode(w, r, &draft) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	existing, found := s.quizzes[id]
	if !found {
		writeMessage(w, http.StatusNotFound, "Quiz not found")
		return
	}
	q := fromDraft(draft)
	q.ID = id
	q.AuthorID = existing.AuthorID
	if draft.IsVerified == nil {
		q.IsVerified = existing.IsVerified
	}
	if draft.IsOfficial == nil {
		q.IsOfficial = existing.IsOfficial
	}
	s.quizzes[id] = &q
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) deleteQuiz(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.quizzes[id]; !found {
		writeMessage(w, http.StatusNotFound, "Quiz not found")
		return
	}
	delete(s.quizzes, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var sub models.QuizSubmission
	if !decode(w, r, &sub) {
		return
	}
	if sub.Score < 0 || sub.TotalQuestions <= 0 || sub.Score > sub.TotalQuestions {
		writeMessage(w, http.StatusBadRequest, "Invalid score")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	q, found := s.quizzes[id]
	if !found {
		writeMessage(w, http.StatusNotFound, "Quiz not found")
		return
	}
	a := s.accounts[userID(r)]

	points := int64(sub.Score * 10)
	xp := int64(sub.Score * 5)
	before := a.identity.Level
	a.identity.Points += points
	a.identity.Experience += xp
	a.identity.Level = 1 + int(a.identity.Experience/100)
	a.stats.QuizzesPlayed++
	a.stats.TotalQuestionsAnswered += sub.TotalQuestions
	a.stats.CorrectAnswers += sub.Score
	q.CompletedToday = true

	total, exp := a.identity.Points, a.identity.Experience
	writeJSON(w, http.StatusOK, models.QuizSubmitResult{
		PointsGained: points, XPGained: xp,
		IsLevelUp: a.identity.Level > before, CurrentLevel: a.identity.Level,
		NewTotalPoints: &total, NewExperience: &exp,
	})
}

// ---- shop ----

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ShopItem, 0, len(s.items))
	for _, id := range sortedKeys(s.items) {
		out = append(out, *s.items[id])
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) myInventory(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv := s.inventory[userID(r)]
	if inv == nil {
		inv = []models.InventoryEntry{}
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) purchase(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if s.PurchaseGate != nil {
		<-s.PurchaseGate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	item, found := s.items[id]
	if !found || !item.IsAvailable || (item.StockQuantity != nil && *item.StockQuantity <= 0) {
		writeText(w, http.StatusBadRequest, "Item is not available")
		return
	}
	a := s.accounts[userID(r)]
	if a.identity.Level < item.RequiredLevel {
		writeText(w, http.StatusBadRequest, fmt.Sprintf("Required level: %d", item.RequiredLevel))
		return
	}
	if a.identity.Points < item.Price {
		writeText(w, http.StatusBadRequest, "Not enough points")
		return
	}

	a.identity.Points -= item.Price
	if item.StockQuantity != nil {
		n := *item.StockQuantity - 1
		item.StockQuantity = &n
	}
	s.inventory[a.identity.ID] = append(s.inventory[a.identity.ID], models.InventoryEntry{
		ID: s.id(), ShopItemID: item.ID, ShopItem: *item, PurchasedAt: time.Now().UTC().Truncate(time.Second),
	})
	writeJSON(w, http.StatusOK, models.PurchaseResult{Message: "Purchased " + item.Title, Points: a.identity.Points})
}

// ---- admin ----

func (s *Server) adminUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Identity, 0, len(s.accounts))
	for _, id := range sortedKeys(s.accounts) {
		out = append(out, s.accounts[id].identity)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) adminUpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var upd models.UserUpdate
	if !decode(w, r, &upd) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a, found := s.accounts[id]
	if !found {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	if upd.DisplayName != nil {
		a.identity.DisplayName = *upd.DisplayName
	}
	if upd.Email != nil {
		a.identity.Email = *upd.Email
	}
	if upd.Role != nil {
		a.identity.Role = *upd.Role
	}
	if upd.Points != nil {
		a.identity.Points = *upd.Points
	}
	writeJSON(w, http.StatusOK, a.identity)
}

func (s *Server) adminCreateItem(w http.ResponseWriter, r *http.Request) {
	var item models.ShopItem
	if !decode(w, r, &item) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = s.id()
	s.items[item.ID] = &item
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) adminUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var item models.ShopItem
	if !decode(w, r, &item) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.items[id]; !found {
		writeMessage(w, http.StatusNotFound, "Item not found")
		return
	}
	item.ID = id
	s.items[id] = &item
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) adminDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.items[id]; !found {
		writeMessage(w, http.StatusNotFound, "Item not found")
		return
	}
	delete(s.items, id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) adminPending(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Quiz, 0)
	for _, id := range sortedKeys(s.quizzes) {
		if q := s.quizzes[id]; !q.IsVerified && !q.IsOfficial {
			out = append(out, *q)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) adminVerify(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	q, found := s.quizzes[id]
	if !found {
		writeMessage(w, http.StatusNotFound, "Quiz not found")
		return
	}
	q.IsVerified = true
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) adminReject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.quizzes[id]; !found {
		writeMessage(w, http.StatusNotFound, "Quiz not found")
		return
	}
	delete(s.quizzes, id)
	w.WriteHeader(http.StatusNoContent)
}

// ---- helpers ----

// id must be called with s.mu held.
func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

// issue must be called with s.mu held.
func (s *Server) issue(userID int64) string {
	return s.signToken(userID, DefaultTokenTTL)
}

func fromDraft(d models.QuizDraft) models.Quiz {
	q := models.Quiz{
		Title: d.Title, Description: d.Description,
		TimeLimitSeconds: d.TimeLimitSeconds, MaxQuestions: d.MaxQuestions,
		Questions: d.Questions, QuestionsCount: len(d.Questions),
		IsVisible: d.IsVisible, IsPlayable: d.IsPlayable,
	}
	if d.IsOfficial != nil {
		q.IsOfficial = *d.IsOfficial
	}
	if d.IsVerified != nil {
		q.IsVerified = *d.IsVerified
	}
	return q
}

func withUser(r *http.Request, id int64) context.Context {
	return context.WithValue(r.Context(), ctxKey{}, id)
}

func userID(r *http.Request) int64 {
	if id, ok := r.Context().Value(ctxKey{}).(int64); ok {
		return id
	}
	return 0
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid id")
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

func sortedKeys[V any](m map[int64]V) []int64 {
	return slices.Sorted(maps.Keys(m))
}
