// Package http exposes the dashboard JSON API: the summary endpoint plus
// CRUD for categories, accounts, periods, ledger entries and KPI metrics.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"ledgerboard/internal/cache"
	"ledgerboard/internal/core"
	"ledgerboard/internal/summary"
)

// Store is the read/catalog surface the handlers need from storage.
type Store interface {
	ListCategories(ctx context.Context) ([]core.Category, error)
	GetCategory(ctx context.Context, id int64) (core.Category, error)
	CreateCategory(ctx context.Context, c core.Category) (core.Category, error)
	UpdateCategory(ctx context.Context, c core.Category) (core.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListAccounts(ctx context.Context) ([]core.Account, error)
	GetAccount(ctx context.Context, id int64) (core.Account, error)
	CreateAccount(ctx context.Context, a core.Account) (core.Account, error)
	UpdateAccount(ctx context.Context, a core.Account) (core.Account, error)
	DeleteAccount(ctx context.Context, id int64) error

	ListPeriods(ctx context.Context) ([]core.Period, error)
	CreatePeriod(ctx context.Context, p core.Period) (core.Period, error)

	ListEntries(ctx context.Context, period string) ([]core.EntryRow, error)
	GetEntry(ctx context.Context, id int64) (core.EntryRow, error)

	ListKPIs(ctx context.Context) ([]core.KPIMetric, error)
	GetKPI(ctx context.Context, id int64) (core.KPIMetric, error)
	CreateKPI(ctx context.Context, k core.KPIMetric) (core.KPIMetric, error)
	UpdateKPI(ctx context.Context, k core.KPIMetric) (core.KPIMetric, error)
	DeleteKPI(ctx context.Context, id int64) error
}

// EntryWriter is the ledger mutation surface, normally the ledger service
// so writes also queue export messages.
type EntryWriter interface {
	CreateEntry(ctx context.Context, e core.LedgerEntry) (core.EntryRow, error)
	UpdateEntry(ctx context.Context, e core.LedgerEntry) (core.EntryRow, error)
	DeleteEntry(ctx context.Context, id int64) error
}

// SummaryBuilder runs the aggregation engine.
type SummaryBuilder interface {
	Build(ctx context.Context, f summary.Filter) (*core.Summary, error)
}

type Server struct {
	http.Server
	store       Store
	ledger      EntryWriter
	summaries   SummaryBuilder
	corsOrigin  string
	rateLimiter *rateLimiter

	// Summary responses cached per filter key, purged on any mutation.
	summaryCache cache.Cache[*core.Summary]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, store Store, ledger EntryWriter, summaries SummaryBuilder, corsOrigin string) *Server {
	mux := http.NewServeMux()

	summaryCache := cache.NewLRUCache[*core.Summary](100, 5*time.Minute)
	cacheManager := cache.NewManager()
	cacheManager.Register(summaryCache)
	cacheManager.StartCleanup(10 * time.Minute)

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:        store,
		ledger:       ledger,
		summaries:    summaries,
		corsOrigin:   corsOrigin,
		rateLimiter:  newRateLimiter(),
		summaryCache: summaryCache,
		cacheManager: cacheManager,
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/summary", s.withMiddleware(s.handleGetSummary))

	mux.HandleFunc("GET /api/entries", s.withMiddleware(s.handleListEntries))
	mux.HandleFunc("POST /api/entries", s.withMiddleware(s.handleCreateEntry))
	mux.HandleFunc("GET /api/entries/{id}", s.withMiddleware(s.handleGetEntry))
	mux.HandleFunc("PUT /api/entries/{id}", s.withMiddleware(s.handleUpdateEntry))
	mux.HandleFunc("DELETE /api/entries/{id}", s.withMiddleware(s.handleDeleteEntry))

	mux.HandleFunc("GET /api/categories", s.withMiddleware(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.withMiddleware(s.handleCreateCategory))
	mux.HandleFunc("PUT /api/categories/{id}", s.withMiddleware(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.withMiddleware(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/accounts", s.withMiddleware(s.handleListAccounts))
	mux.HandleFunc("POST /api/accounts", s.withMiddleware(s.handleCreateAccount))
	mux.HandleFunc("PUT /api/accounts/{id}", s.withMiddleware(s.handleUpdateAccount))
	mux.HandleFunc("DELETE /api/accounts/{id}", s.withMiddleware(s.handleDeleteAccount))

	mux.HandleFunc("GET /api/periods", s.withMiddleware(s.handleListPeriods))
	mux.HandleFunc("POST /api/periods", s.withMiddleware(s.handleCreatePeriod))

	mux.HandleFunc("GET /api/kpis", s.withMiddleware(s.handleListKPIs))
	mux.HandleFunc("POST /api/kpis", s.withMiddleware(s.handleCreateKPI))
	mux.HandleFunc("PUT /api/kpis/{id}", s.withMiddleware(s.handleUpdateKPI))
	mux.HandleFunc("DELETE /api/kpis/{id}", s.withMiddleware(s.handleDeleteKPI))

	// Preflight for the SPA.
	mux.HandleFunc("OPTIONS /api/", s.withMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	return s
}

// invalidateSummaries purges the whole summary cache. Any write can move
// any cached filter, so there is no per-key invalidation.
func (s *Server) invalidateSummaries() {
	s.summaryCache.Purge()
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.cacheManager != nil {
			s.cacheManager.Stop()
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
