// Package http exposes the ledger as a JSON API. Handlers stay thin:
// decode, call a service, map the error to a status code.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"contas/internal/core"
	"contas/internal/services"
)

// The service interfaces the server consumes. Declared here so handler
// tests can substitute fakes.
type (
	LedgerAPI interface {
		CreateTransaction(ctx context.Context, in services.TransactionInput, now time.Time) ([]core.Transaction, error)
		ToggleEffectived(ctx context.Context, userID, id string, dueDate *time.Time, now time.Time) (*core.Transaction, error)
		FetchMonth(ctx context.Context, userID, month string) (*services.MonthFeed, error)
	}

	CreditAPI interface {
		CreateExpense(ctx context.Context, in services.CreditExpenseInput, now time.Time) ([]core.Transaction, error)
		FetchInvoice(ctx context.Context, userID, cardID, month string) (*services.Invoice, error)
		OpenInvoice(ctx context.Context, userID, cardID string, now time.Time) (*services.Invoice, error)
		ClosedInvoice(ctx context.Context, userID, cardID string, now time.Time) (*services.Invoice, error)
		PayInvoice(ctx context.Context, userID, cardID, month string, now time.Time) (int64, error)
	}

	TransferAPI interface {
		Create(ctx context.Context, in services.TransferInput, now time.Time) ([]core.Transaction, error)
	}

	BalanceAPI interface {
		TotalAmount(ctx context.Context, userID, month string, now time.Time) (*services.TotalBalance, error)
		AccountsOverview(ctx context.Context, userID, month string) ([]core.AccountOverview, error)
		MonthSummary(ctx context.Context, userID, month string) (*core.MonthSummary, error)
	}

	AccountAPI interface {
		CreateAccount(ctx context.Context, in services.AccountInput, now time.Time) (*core.Account, error)
		ListAccounts(ctx context.Context, userID string) ([]core.Account, error)
		CreateCategory(ctx context.Context, userID, name string, t core.TransactionType) (*core.Category, error)
		ListCategories(ctx context.Context, userID string) ([]core.Category, error)
		CreateCreditCard(ctx context.Context, in services.CreditCardInput, now time.Time) (*core.CreditCard, error)
		ListCreditCards(ctx context.Context, userID string) ([]core.CreditCard, error)
	}
)

type Server struct {
	http.Server
	ledger   LedgerAPI
	credit   CreditAPI
	transfer TransferAPI
	balance  BalanceAPI
	accounts AccountAPI

	rateLimiter  *rateLimiter
	shutdownOnce sync.Once

	// now is injectable so handler tests can pin the clock.
	now func() time.Time
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, ledger LedgerAPI, credit CreditAPI, transfer TransferAPI, balance BalanceAPI, accounts AccountAPI) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		ledger:      ledger,
		credit:      credit,
		transfer:    transfer,
		balance:     balance,
		accounts:    accounts,
		rateLimiter: newRateLimiter(),
		now:         func() time.Time { return time.Now().UTC() },
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /accounts", s.withRequestLog(s.handleCreateAccount))
	mux.HandleFunc("GET /accounts", s.withRequestLog(s.handleListAccounts))
	mux.HandleFunc("GET /accounts/overview", s.withRequestLog(s.handleAccountsOverview))

	mux.HandleFunc("POST /categories", s.withRequestLog(s.handleCreateCategory))
	mux.HandleFunc("GET /categories", s.withRequestLog(s.handleListCategories))

	mux.HandleFunc("POST /credit-cards", s.withRequestLog(s.handleCreateCreditCard))
	mux.HandleFunc("GET /credit-cards", s.withRequestLog(s.handleListCreditCards))
	mux.HandleFunc("POST /credit-cards/{id}/expenses", s.withRequestLog(s.handleCreateCreditExpense))
	mux.HandleFunc("GET /credit-cards/{id}/invoice", s.withRequestLog(s.handleFetchInvoice))
	mux.HandleFunc("GET /credit-cards/{id}/invoice/open", s.withRequestLog(s.handleOpenInvoice))
	mux.HandleFunc("GET /credit-cards/{id}/invoice/closed", s.withRequestLog(s.handleClosedInvoice))
	mux.HandleFunc("POST /credit-cards/{id}/invoice/pay", s.withRequestLog(s.handlePayInvoice))

	mux.HandleFunc("POST /transactions", s.withRequestLog(s.handleCreateTransaction))
	mux.HandleFunc("GET /transactions", s.withRequestLog(s.handleFetchMonth))
	mux.HandleFunc("PATCH /transactions/{id}/effectived", s.withRequestLog(s.handleToggleEffectived))

	mux.HandleFunc("POST /transfers", s.withRequestLog(s.handleCreateTransfer))

	mux.HandleFunc("GET /balance", s.withRequestLog(s.handleTotalAmount))
	mux.HandleFunc("GET /summary", s.withRequestLog(s.handleMonthSummary))

	return s
}

type ctxKey string

const requestIDKey ctxKey = "request_id"

// withRequestLog adds security headers, rate limiting on mutations, and
// request logging.
func (s *Server) withRequestLog(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// Shutdown stops the rate limiter cleanup goroutine and then the HTTP
// server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
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
