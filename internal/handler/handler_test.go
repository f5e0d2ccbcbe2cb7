package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/library-api/backend/internal/model"
	"github.com/library-api/backend/internal/service"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var errStoreDown = errors.New("store unavailable")

// In-memory stand-ins for the postgres repos. They return pgx.ErrNoRows
// for missing rows so the services' error mapping behaves like it does
// against the real store.

type memUserRepo struct {
	users  map[int64]*model.User
	nextID int64
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[int64]*model.User{}}
}

func (m *memUserRepo) CreateUser(ctx context.Context, username, email, passwordHash, role string) (*model.User, error) {
	m.nextID++
	user := &model.User{
		ID:           m.nextID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.users[user.ID] = user
	return user, nil
}

func (m *memUserRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	if user, ok := m.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memUserRepo) ListUsers(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	for _, user := range m.users {
		users = append(users, *user)
	}
	return users, nil
}

func (m *memUserRepo) UpdateUser(ctx context.Context, id int64, upd model.UserUpdate) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if upd.Username != nil {
		user.Username = *upd.Username
	}
	if upd.Email != nil {
		user.Email = *upd.Email
	}
	if upd.PasswordHash != nil {
		user.PasswordHash = *upd.PasswordHash
	}
	if upd.Role != nil {
		user.Role = *upd.Role
	}
	user.UpdatedAt = time.Now()
	copied := *user
	return &copied, nil
}

func (m *memUserRepo) DeleteUser(ctx context.Context, id int64) (bool, error) {
	if _, ok := m.users[id]; !ok {
		return false, nil
	}
	delete(m.users, id)
	return true, nil
}

func (m *memUserRepo) TouchLastLogin(ctx context.Context, id int64) error {
	if user, ok := m.users[id]; ok {
		now := time.Now()
		user.LastLogin = &now
	}
	return nil
}

type memRevocationRepo struct {
	entries   map[string]model.RevokedToken
	failRead  bool
	failWrite bool
	nextID    int64
}

func newMemRevocationRepo() *memRevocationRepo {
	return &memRevocationRepo{entries: map[string]model.RevokedToken{}}
}

func (m *memRevocationRepo) InsertRevokedToken(ctx context.Context, fingerprint string, userID *int64, expiresAt time.Time, reason string) error {
	if m.failWrite {
		return errStoreDown
	}
	if _, ok := m.entries[fingerprint]; ok {
		return nil
	}
	m.nextID++
	m.entries[fingerprint] = model.RevokedToken{
		ID:          m.nextID,
		Fingerprint: fingerprint,
		UserID:      userID,
		ExpiresAt:   expiresAt,
		RevokedAt:   time.Now(),
		Reason:      reason,
	}
	return nil
}

func (m *memRevocationRepo) IsTokenRevoked(ctx context.Context, fingerprint string) (bool, error) {
	if m.failRead {
		return false, errStoreDown
	}
	entry, ok := m.entries[fingerprint]
	return ok && entry.ExpiresAt.After(time.Now()), nil
}

func (m *memRevocationRepo) DeleteExpiredTokens(ctx context.Context) (int64, error) {
	var count int64
	for fp, entry := range m.entries {
		if !entry.ExpiresAt.After(time.Now()) {
			delete(m.entries, fp)
			count++
		}
	}
	return count, nil
}

func (m *memRevocationRepo) ListUserRevokedTokens(ctx context.Context, userID int64) ([]model.RevokedToken, error) {
	entries := []model.RevokedToken{}
	for _, entry := range m.entries {
		if entry.UserID != nil && *entry.UserID == userID && entry.ExpiresAt.After(time.Now()) {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (m *memRevocationRepo) RevokedTokenStats(ctx context.Context) (model.RevocationStats, error) {
	var stats model.RevocationStats
	for _, entry := range m.entries {
		if entry.ExpiresAt.After(time.Now()) {
			stats.Active++
		} else {
			stats.Expired++
		}
	}
	return stats, nil
}

type memBookRepo struct {
	books  map[int64]*model.Book
	nextID int64
}

func newMemBookRepo() *memBookRepo {
	return &memBookRepo{books: map[int64]*model.Book{}}
}

func (m *memBookRepo) ListBooks(ctx context.Context, filters model.BookFilters) ([]model.Book, error) {
	books := []model.Book{}
	for _, book := range m.books {
		books = append(books, *book)
	}
	return books, nil
}

func (m *memBookRepo) CountBooks(ctx context.Context, filters model.BookFilters) (int64, error) {
	return int64(len(m.books)), nil
}

func (m *memBookRepo) GetBookByID(ctx context.Context, id int64) (*model.Book, error) {
	if book, ok := m.books[id]; ok {
		copied := *book
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memBookRepo) CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	m.nextID++
	total := 1
	if req.TotalCopies != nil {
		total = *req.TotalCopies
	}
	available := total
	if req.AvailableCopies != nil {
		available = *req.AvailableCopies
	}
	book := &model.Book{
		ID:              m.nextID,
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN,
		CategoryID:      req.CategoryID,
		Description:     req.Description,
		PublishedYear:   req.PublishedYear,
		Pages:           req.Pages,
		TotalCopies:     total,
		AvailableCopies: available,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	m.books[book.ID] = book
	return book, nil
}

func (m *memBookRepo) UpdateBook(ctx context.Context, id int64, req model.UpdateBookRequest) (*model.Book, error) {
	book, ok := m.books[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	book.UpdatedAt = time.Now()
	copied := *book
	return &copied, nil
}

func (m *memBookRepo) DeleteBook(ctx context.Context, id int64) (bool, error) {
	if _, ok := m.books[id]; !ok {
		return false, nil
	}
	delete(m.books, id)
	return true, nil
}

type memCategoryRepo struct {
	categories map[int64]*model.Category
	nextID     int64
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{categories: map[int64]*model.Category{}}
}

func (m *memCategoryRepo) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories := []model.Category{}
	for _, category := range m.categories {
		categories = append(categories, *category)
	}
	return categories, nil
}

func (m *memCategoryRepo) GetCategoryByID(ctx context.Context, id int64) (*model.Category, error) {
	if category, ok := m.categories[id]; ok {
		copied := *category
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memCategoryRepo) GetCategoryBooks(ctx context.Context, id int64) ([]model.Book, error) {
	return []model.Book{}, nil
}

func (m *memCategoryRepo) CreateCategory(ctx context.Context, req model.CreateCategoryRequest) (*model.Category, error) {
	m.nextID++
	category := &model.Category{
		ID:          m.nextID,
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	m.categories[category.ID] = category
	return category, nil
}

func (m *memCategoryRepo) UpdateCategory(ctx context.Context, id int64, req model.UpdateCategoryRequest) (*model.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = req.Description
	}
	category.UpdatedAt = time.Now()
	copied := *category
	return &copied, nil
}

func (m *memCategoryRepo) DeleteCategory(ctx context.Context, id int64) (bool, error) {
	if _, ok := m.categories[id]; !ok {
		return false, nil
	}
	delete(m.categories, id)
	return true, nil
}

// testEnv wires the full router over in-memory repos so tests exercise
// the same middleware chains and handlers production uses.
type testEnv struct {
	router      *gin.Engine
	users       *memUserRepo
	books       *memBookRepo
	categories  *memCategoryRepo
	revocations *memRevocationRepo
	auth        *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := newMemUserRepo()
	books := newMemBookRepo()
	categories := newMemCategoryRepo()
	revRepo := newMemRevocationRepo()

	tokens, err := service.NewTokenService("test-secret", "1h")
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	revocations, err := service.NewRevocationService(revRepo, tokens, "168h")
	if err != nil {
		t.Fatalf("new revocation service: %v", err)
	}
	auth := service.NewAuthService(users, tokens, revocations)

	router := gin.New()
	RegisterRoutes(router, Services{
		Auth:       auth,
		Users:      service.NewUserService(users),
		Books:      service.NewBookService(books),
		Categories: service.NewCategoryService(categories),
	}, "v1")

	return &testEnv{
		router:      router,
		users:       users,
		books:       books,
		categories:  categories,
		revocations: revRepo,
		auth:        auth,
	}
}

// seedUser inserts a user directly and returns a token for them. MinCost
// keeps the hashing out of the test's critical path.
func (env *testEnv) seedUser(t *testing.T, username, email, password, role string) (*model.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user, err := env.users.CreateUser(context.Background(), username, email, string(hash), role)
	if err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}

	token, err := env.auth.Tokens().Issue(user.ID, user.Role)
	if err != nil {
		t.Fatalf("issue token for %s: %v", username, err)
	}
	return user, token
}

func (env *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody(t, w)
	if success, ok := body["success"].(bool); !ok || success {
		t.Fatalf("expected success=false envelope, got %q", w.Body.String())
	}
	message, _ := body["error"].(string)
	return message
}
