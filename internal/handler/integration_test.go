//go:build integration

package handler_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/zaiqa-kitchen/api/internal/cart"
	"github.com/zaiqa-kitchen/api/internal/catalog"
	"github.com/zaiqa-kitchen/api/internal/config"
	"github.com/zaiqa-kitchen/api/internal/database"
	"github.com/zaiqa-kitchen/api/internal/router"
	"github.com/zaiqa-kitchen/api/internal/ws"
	"golang.org/x/crypto/bcrypt"
)

const integrationSession = "integration-session-1"

// TestIntegrationFlow exercises the full storefront and admin lifecycle against
// real PostgreSQL and Redis containers: menu setup, config pricing, cart,
// checkout, order status, payment and reports.
func TestIntegrationFlow(t *testing.T) {
	ctx := context.Background()

	_, connStr, pgCleanup := setupPostgresContainer(t, ctx)
	defer pgCleanup()
	runMigrations(t, connStr)

	rdb, redisCleanup := setupRedisContainer(t, ctx)
	defer redisCleanup()

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("create pool: %v", err)
	}
	defer pool.Close()

	carts, err := cart.NewRedisRepository(ctx, rdb)
	if err != nil {
		t.Fatalf("create cart repository: %v", err)
	}
	cache, err := catalog.NewOptionCache(ctx, rdb)
	if err != nil {
		t.Fatalf("create option cache: %v", err)
	}

	cfg := &config.Config{
		Port:        "8081",
		DatabaseURL: connStr,
		JWTSecret:   "integration-test-secret",
	}
	queries := database.New(pool)
	hub := ws.NewHub()
	// NOTE: hub.Run() goroutine leaks on test exit — Hub has no shutdown mechanism.
	// Acceptable for tests; production should add context-based shutdown.
	go hub.Run()

	r := router.New(cfg, router.Deps{
		Queries: queries,
		Pool:    pool,
		Carts:   carts,
		Cache:   cache,
		Hub:     hub,
	})

	server := httptest.NewServer(r)
	defer server.Close()

	// --- 1. Bootstrap admin user (direct DB insert) ---
	createAdminUser(t, ctx, pool)

	// --- 2. Login as admin ---
	token := login(t, server, "admin@test.com", "password123")

	// --- 3. Build the menu through the admin API ---
	categoryResp := httpPostJSON(t, server, "/admin/categories", map[string]interface{}{
		"name":       "Rice & Biryani",
		"sort_order": 1,
	}, token)
	categoryID := categoryResp["id"].(string)

	biryaniResp := httpPostJSON(t, server, "/admin/items", map[string]interface{}{
		"category_id":      categoryID,
		"name":             "Chicken Biryani",
		"description":      "Slow-cooked basmati with chicken",
		"base_price":       "500",
		"simple_selection": "single",
		"sort_order":       1,
	}, token)
	biryaniID := biryaniResp["id"].(string)

	httpPostJSON(t, server, fmt.Sprintf("/admin/items/%s/simple-variations", biryaniID), map[string]interface{}{
		"name":       "Regular",
		"price":      "0",
		"sort_order": 1,
	}, token)
	largeResp := httpPostJSON(t, server, fmt.Sprintf("/admin/items/%s/simple-variations", biryaniID), map[string]interface{}{
		"name":       "Large",
		"price":      "150",
		"sort_order": 2,
	}, token)
	largeID := largeResp["id"].(string)

	platterResp := httpPostJSON(t, server, "/admin/items", map[string]interface{}{
		"category_id": categoryID,
		"name":        "Family Platter",
		"base_price":  "1200",
		"is_platter":  true,
		"sort_order":  2,
	}, token)
	platterID := platterResp["id"].(string)

	drinkCatResp := httpPostJSON(t, server, fmt.Sprintf("/admin/items/%s/variation-categories", platterID), map[string]interface{}{
		"name":           "Drink",
		"selection_type": "single",
		"required":       true,
		"sort_order":     1,
	}, token)
	drinkCatID := drinkCatResp["id"].(string)

	httpPostJSON(t, server, fmt.Sprintf("/admin/items/%s/variation-categories/%s/options", platterID, drinkCatID), map[string]interface{}{
		"name":       "Soft Drink",
		"price":      "0",
		"sort_order": 1,
	}, token)
	lassiResp := httpPostJSON(t, server, fmt.Sprintf("/admin/items/%s/variation-categories/%s/options", platterID, drinkCatID), map[string]interface{}{
		"name":       "Lassi",
		"price":      "80",
		"sort_order": 2,
	}, token)
	lassiID := lassiResp["id"].(string)

	// --- 4. Quote without the required drink: in-band validation failure ---
	quoteResp := httpPostJSON(t, server, "/cart/quote", map[string]interface{}{
		"menu_item_id": platterID,
		"quantity":     1,
	}, "")
	if quoteResp["valid"].(bool) {
		t.Fatalf("quote with missing required selection: got valid=true, want false")
	}

	// --- 5. Build the cart: 2x Biryani Large + 1x Platter with Lassi ---
	cartResp := cartPostJSON(t, server, "/cart/items", map[string]interface{}{
		"menu_item_id": biryaniID,
		"quantity":     2,
		"simple_ids":   []string{largeID},
	})
	if got := cartResp["subtotal"].(string); got != "1300.00" {
		t.Fatalf("cart subtotal after biryani: got %s, want 1300.00", got)
	}

	cartResp = cartPostJSON(t, server, "/cart/items", map[string]interface{}{
		"menu_item_id": platterID,
		"quantity":     1,
		"categories": []map[string]interface{}{
			{"category_id": drinkCatID, "option_ids": []string{lassiID}},
		},
	})
	// Biryani: (500 + 150) * 2 = 1300. Platter: 1200 + 80 = 1280. Total: 2580.
	if got := cartResp["subtotal"].(string); got != "2580.00" {
		t.Fatalf("cart subtotal after platter: got %s, want 2580.00", got)
	}

	// --- 6. Checkout ---
	orderResp := cartPostJSON(t, server, "/orders", map[string]interface{}{
		"order_type":     "PICKUP",
		"customer_name":  "Ali Raza",
		"customer_phone": "03001234567",
	})
	orderID := orderResp["id"].(string)
	orderNumber := orderResp["order_number"].(string)
	if orderNumber == "" {
		t.Fatalf("checkout: empty order_number")
	}
	if got := orderResp["total_amount"].(string); got != "2580.00" {
		t.Fatalf("order total_amount: got %s, want 2580.00 (price snapshot verification failed)", got)
	}
	if got := orderResp["status"].(string); got != "NEW" {
		t.Fatalf("order status after checkout: got %s, want NEW", got)
	}

	// Cart must be empty after checkout.
	emptied := cartGetJSON(t, server, "/cart")
	if lines, _ := emptied["lines"].([]interface{}); len(lines) != 0 {
		t.Fatalf("cart after checkout: got %d lines, want 0", len(lines))
	}

	// --- 7. Public order tracking by number ---
	tracked := httpGetJSON(t, server, "/orders/number/"+orderNumber, "")
	if tracked["id"].(string) != orderID {
		t.Fatalf("track order: got id %v, want %s", tracked["id"], orderID)
	}

	// --- 8. Kitchen status flow: NEW → PREPARING → READY ---
	updateOrderStatus(t, server, orderID, "NEW", "PREPARING", token)
	updateOrderStatus(t, server, orderID, "PREPARING", "READY", token)

	// --- 9. Cash payment with change ---
	paymentResp := httpPostJSON(t, server, fmt.Sprintf("/admin/orders/%s/payments", orderID), map[string]interface{}{
		"payment_method":  "CASH",
		"amount":          "2580",
		"amount_received": "3000",
	}, token)
	if got := paymentResp["status"].(string); got != "COMPLETED" {
		t.Fatalf("cash payment status: got %s, want COMPLETED", got)
	}
	if got := paymentResp["change_amount"].(string); got != "420.00" {
		t.Fatalf("change_amount: got %s, want 420.00", got)
	}

	// A second payment must be rejected: the order is already settled.
	status := httpPostStatus(t, server, fmt.Sprintf("/admin/orders/%s/payments", orderID), map[string]interface{}{
		"payment_method":  "CASH",
		"amount":          "100",
		"amount_received": "100",
	}, token)
	if status != http.StatusBadRequest {
		t.Fatalf("double payment: got status %d, want %d", status, http.StatusBadRequest)
	}

	// --- 10. Hand over: READY → COMPLETED ---
	updateOrderStatus(t, server, orderID, "READY", "COMPLETED", token)

	// --- 11. Reports pick up the completed order ---
	dailySales := httpGetList(t, server, "/admin/reports/daily-sales", token)
	if len(dailySales) == 0 {
		t.Fatalf("daily-sales: got 0 rows, want at least 1")
	}
	today := dailySales[len(dailySales)-1].(map[string]interface{})
	if got := today["total_revenue"].(string); got != "2580.00" {
		t.Fatalf("daily-sales revenue: got %s, want 2580.00", got)
	}

	topItems := httpGetList(t, server, "/admin/reports/top-items", token)
	if len(topItems) != 2 {
		t.Fatalf("top-items: got %d rows, want 2", len(topItems))
	}

	// --- 12. Storefront sections ---
	httpPostJSON(t, server, "/admin/sections", map[string]interface{}{
		"title":  "Chef's Picks",
		"kind":   "item_grid",
		"layout": map[string]interface{}{"columns": 2},
	}, token)
	sections := httpGetList(t, server, "/sections", "")
	if len(sections) != 1 {
		t.Fatalf("public sections: got %d, want 1", len(sections))
	}

	t.Logf("Integration test passed: category=%s, biryani=%s, platter=%s, order=%s", categoryID, biryaniID, platterID, orderNumber)
}

// --- Setup helpers ---

func setupPostgresContainer(t *testing.T, ctx context.Context) (testcontainers.Container, string, func()) {
	t.Helper()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("zaiqa_test"),
		tcpostgres.WithUsername("zaiqa"),
		tcpostgres.WithPassword("zaiqa"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("start postgres container: %v", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("get connection string: %v", err)
	}

	cleanup := func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("terminate postgres container: %v", err)
		}
	}

	return pgContainer, connStr, cleanup
}

func setupRedisContainer(t *testing.T, ctx context.Context) (*redis.Client, func()) {
	t.Helper()

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start redis container: %v", err)
	}

	host, err := redisContainer.Host(ctx)
	if err != nil {
		t.Fatalf("get redis host: %v", err)
	}
	port, err := redisContainer.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("get redis port: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: host + ":" + port.Port()})

	cleanup := func() {
		rdb.Close()
		if err := redisContainer.Terminate(ctx); err != nil {
			t.Logf("terminate redis container: %v", err)
		}
	}

	return rdb, cleanup
}

func runMigrations(t *testing.T, connStr string) {
	t.Helper()

	// Connect with stdlib for migrate
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("open db for migrations: %v", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		t.Fatalf("create migrate driver: %v", err)
	}

	// Path relative to this test file's package directory (internal/handler/).
	// Go test sets cwd to the package directory.
	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations",
		"postgres", driver)
	if err != nil {
		t.Fatalf("create migrate instance: %v", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		t.Fatalf("run migrations: %v", err)
	}
}

func createAdminUser(t *testing.T, ctx context.Context, pool *pgxpool.Pool) {
	t.Helper()
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO users (email, name, password_hash, role)
		 VALUES ($1, $2, $3, $4)`,
		"admin@test.com", "Test Admin", string(hashedPassword), "ADMIN",
	)
	if err != nil {
		t.Fatalf("create admin user: %v", err)
	}
}

// --- API call helpers ---

func login(t *testing.T, server *httptest.Server, email, password string) string {
	t.Helper()
	resp := httpPostJSON(t, server, "/auth/login", map[string]interface{}{
		"email":    email,
		"password": password,
	}, "")
	token, ok := resp["access_token"].(string)
	if !ok || token == "" {
		t.Fatalf("login failed: no access_token in response: %+v", resp)
	}
	return token
}

func updateOrderStatus(t *testing.T, server *httptest.Server, orderID, from, to, token string) {
	t.Helper()
	body := map[string]interface{}{
		"status":      to,
		"from_status": from,
	}
	resp := doJSON(t, server, "PATCH", fmt.Sprintf("/admin/orders/%s/status", orderID), body, token, "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status %s -> %s: got %d, want %d", from, to, resp.StatusCode, http.StatusOK)
	}
}

// --- HTTP helpers ---

func doJSON(t *testing.T, server *httptest.Server, method, path string, body map[string]interface{}, token, sessionID string) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeSuccess(t *testing.T, resp *http.Response, method, path string) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		t.Fatalf("%s %s: status %d, body: %v", method, path, resp.StatusCode, errResp)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return result
}

func httpPostJSON(t *testing.T, server *httptest.Server, path string, body map[string]interface{}, token string) map[string]interface{} {
	t.Helper()
	return decodeSuccess(t, doJSON(t, server, "POST", path, body, token, ""), "POST", path)
}

func httpPostStatus(t *testing.T, server *httptest.Server, path string, body map[string]interface{}, token string) int {
	t.Helper()
	resp := doJSON(t, server, "POST", path, body, token, "")
	defer resp.Body.Close()
	return resp.StatusCode
}

func httpGetJSON(t *testing.T, server *httptest.Server, path, token string) map[string]interface{} {
	t.Helper()
	return decodeSuccess(t, doJSON(t, server, "GET", path, nil, token, ""), "GET", path)
}

func httpGetList(t *testing.T, server *httptest.Server, path, token string) []interface{} {
	t.Helper()
	resp := doJSON(t, server, "GET", path, nil, token, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errResp)
		t.Fatalf("GET %s: status %d, body: %v", path, resp.StatusCode, errResp)
	}

	var result []interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	return result
}

func cartPostJSON(t *testing.T, server *httptest.Server, path string, body map[string]interface{}) map[string]interface{} {
	t.Helper()
	return decodeSuccess(t, doJSON(t, server, "POST", path, body, "", integrationSession), "POST", path)
}

func cartGetJSON(t *testing.T, server *httptest.Server, path string) map[string]interface{} {
	t.Helper()
	return decodeSuccess(t, doJSON(t, server, "GET", path, nil, "", integrationSession), "GET", path)
}
