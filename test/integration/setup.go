package integration

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"caseable-catalog/internal/config"
	"caseable-catalog/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	Config    config.DatabaseConfig
}

// SetupTestDB creates a PostgreSQL test container and opens the journal
// pool on it the way the API server does.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	host, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}
	port, err := postgresContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "testuser",
		Password:        "testpass",
		Database:        "testdb",
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	pool, err := database.NewPool(ctx, dbConfig, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		Config:    dbConfig,
	}
}

// CleanupDB removes every journal entry.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	if _, err := pool.Exec(context.Background(), "DELETE FROM order_statuses"); err != nil {
		t.Logf("failed to clean table order_statuses: %v", err)
	}
}

// CatalogRequest is a request received by a FakeCatalog.
type CatalogRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
}

// FakeCatalog is an in-process catalog service answering with fixed
// bodies keyed by "METHOD /path".
type FakeCatalog struct {
	Server *httptest.Server

	mu        sync.Mutex
	responses map[string]fakeResponse
	requests  []CatalogRequest
}

type fakeResponse struct {
	status int
	body   string
}

// NewFakeCatalog starts a fake catalog service serving the default
// fixtures.
func NewFakeCatalog(t *testing.T) *FakeCatalog {
	t.Helper()

	f := &FakeCatalog{responses: map[string]fakeResponse{}}
	f.On(http.MethodGet, "/products", http.StatusOK, `{"productTypes":[
		{"id":"smartphone-hard-case","name":"Hard Case","sku":"HC","productionTime":{"min":3,"max":4}},
		{"id":"smartphone-flip-case","name":"Flip Case","sku":"FC"}]}`)
	f.On(http.MethodGet, "/devices", http.StatusOK, `{"devices":[
		{"id":"apple-iphone-5","name":"Apple iPhone 5","brand":"Apple"},
		{"id":"samsung-galaxy-s9","name":"Samsung Galaxy S9","brand":"Samsung"}]}`)
	f.On(http.MethodGet, "/filters", http.StatusOK, `{"filters":[
		{"name":"artist","multiValue":true,"options":[]},
		{"name":"gender","multiValue":false,"options":["m","f"]}]}`)
	f.On(http.MethodGet, "/filters/artist", http.StatusOK, `{"options":["Keith Haring","Mondrian"]}`)
	f.On(http.MethodGet, "/products/smartphone-hard-case", http.StatusOK, `{"products":[
		{"sku":"HC01","type":"smartphone-hard-case","device":"apple-iphone-5","price":29.95,"currency":"EUR"}]}`)

	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Server.Close)
	return f
}

// On sets the response for method and path.
func (f *FakeCatalog) On(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[method+" "+path] = fakeResponse{status: status, body: body}
}

// Requests returns the requests received so far.
func (f *FakeCatalog) Requests() []CatalogRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]CatalogRequest(nil), f.requests...)
}

func (f *FakeCatalog) handle(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, CatalogRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Body:   string(data),
	})
	resp, ok := f.responses[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if !ok {
		resp = fakeResponse{status: http.StatusNotFound, body: `{"message":"not found"}`}
	}
	w.WriteHeader(resp.status)
	_, _ = w.Write([]byte(resp.body))
}
