package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/zaiqa-kitchen/api/internal/auth"
	"github.com/zaiqa-kitchen/api/internal/database"
	"github.com/zaiqa-kitchen/api/internal/enum"
	"github.com/zaiqa-kitchen/api/internal/handler"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret"

// --- Mock store ---

type mockAuthStore struct {
	users map[string]database.User // keyed by email
}

func newMockAuthStore() *mockAuthStore {
	return &mockAuthStore{users: make(map[string]database.User)}
}

func (m *mockAuthStore) GetUserByEmail(_ context.Context, email string) (database.User, error) {
	u, ok := m.users[email]
	if !ok || !u.IsActive {
		return database.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (m *mockAuthStore) GetUserByID(_ context.Context, id uuid.UUID) (database.User, error) {
	for _, u := range m.users {
		if u.ID == id && u.IsActive {
			return u, nil
		}
	}
	return database.User{}, pgx.ErrNoRows
}

func (m *mockAuthStore) addUser(t *testing.T, email, password, role string) database.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := database.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         "Test User",
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	m.users[email] = u
	return u
}

func setupAuthRouter(store *mockAuthStore) *chi.Mux {
	h := handler.NewAuthHandler(store, testJWTSecret)
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

// --- Tests ---

func TestLogin_Success(t *testing.T) {
	store := newMockAuthStore()
	user := store.addUser(t, "admin@zaiqa.kitchen", "secret123", enum.UserRoleAdmin)
	router := setupAuthRouter(store)

	rr := doRequest(t, router, "POST", "/auth/login", map[string]string{
		"email":    "admin@zaiqa.kitchen",
		"password": "secret123",
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeObject(t, rr)
	accessToken, _ := resp["access_token"].(string)
	if accessToken == "" {
		t.Fatal("missing access_token")
	}
	if resp["refresh_token"] == "" {
		t.Fatal("missing refresh_token")
	}

	claims, err := auth.ValidateToken(testJWTSecret, accessToken)
	if err != nil {
		t.Fatalf("validate access token: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("claims.UserID = %v, want %v", claims.UserID, user.ID)
	}
	if claims.Role != enum.UserRoleAdmin {
		t.Errorf("claims.Role = %q, want %q", claims.Role, enum.UserRoleAdmin)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	store := newMockAuthStore()
	store.addUser(t, "admin@zaiqa.kitchen", "secret123", enum.UserRoleAdmin)
	router := setupAuthRouter(store)

	rr := doRequest(t, router, "POST", "/auth/login", map[string]string{
		"email":    "admin@zaiqa.kitchen",
		"password": "wrong",
	})

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	router := setupAuthRouter(newMockAuthStore())

	rr := doRequest(t, router, "POST", "/auth/login", map[string]string{
		"email":    "nobody@zaiqa.kitchen",
		"password": "secret123",
	})

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestLogin_MissingFields(t *testing.T) {
	router := setupAuthRouter(newMockAuthStore())

	rr := doRequest(t, router, "POST", "/auth/login", map[string]string{"email": "a@b.c"})

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestRefresh_Success(t *testing.T) {
	store := newMockAuthStore()
	user := store.addUser(t, "staff@zaiqa.kitchen", "secret123", enum.UserRoleStaff)
	router := setupAuthRouter(store)

	refreshToken, err := auth.GenerateRefreshToken(testJWTSecret, user.ID)
	if err != nil {
		t.Fatalf("generate refresh token: %v", err)
	}

	rr := doRequest(t, router, "POST", "/auth/refresh", map[string]string{
		"refresh_token": refreshToken,
	})

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body: %s", rr.Code, http.StatusOK, rr.Body.String())
	}

	resp := decodeObject(t, rr)
	if resp["access_token"] == "" {
		t.Fatal("missing access_token")
	}
}

func TestRefresh_InvalidToken(t *testing.T) {
	router := setupAuthRouter(newMockAuthStore())

	rr := doRequest(t, router, "POST", "/auth/refresh", map[string]string{
		"refresh_token": "not-a-token",
	})

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestRefresh_DeactivatedUser(t *testing.T) {
	store := newMockAuthStore()
	user := store.addUser(t, "old@zaiqa.kitchen", "secret123", enum.UserRoleStaff)
	u := store.users[user.Email]
	u.IsActive = false
	store.users[user.Email] = u
	router := setupAuthRouter(store)

	refreshToken, err := auth.GenerateRefreshToken(testJWTSecret, user.ID)
	if err != nil {
		t.Fatalf("generate refresh token: %v", err)
	}

	rr := doRequest(t, router, "POST", "/auth/refresh", map[string]string{
		"refresh_token": refreshToken,
	})

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}
