package invoice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// Invoice statuses
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

var (
	ErrNotFound      = errors.New("invoice not found")
	ErrAlreadyPaid   = errors.New("invoice already paid")
	ErrInvalidAmount = errors.New("invoice amount must be positive")
)

// Invoice is a merchant order awaiting a Perfect Money payment
type Invoice struct {
	ID           string          `json:"id"`
	Component    string          `json:"component"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	PayeeAccount string          `json:"payeeAccount"`
	Description  string          `json:"description,omitempty"`
	Status       string          `json:"status"`
	BatchNum     string          `json:"batchNum,omitempty"`
	PayerAccount string          `json:"payerAccount,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	PaidAt       *time.Time      `json:"paidAt,omitempty"`
}

// Store keeps invoices in SQLite and provides the transaction boundary
// used while settling callbacks.
type Store struct {
	db   *sql.DB
	path string
}

type txKey struct{}

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewStore opens (or creates) the invoice database at dbPath
func NewStore(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=1000&_timeout=20000&_txlock=immediate", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(0)

	store := &Store{
		db:   db,
		path: dbPath,
	}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	if err := store.optimize(); err != nil {
		log.Printf("Warning: Failed to apply optimizations: %v", err)
	}

	log.Printf("Invoice store initialized at: %s", dbPath)
	return store, nil
}

func (s *Store) initSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS invoices (
		id TEXT PRIMARY KEY,
		component TEXT NOT NULL,
		amount TEXT NOT NULL,
		currency TEXT NOT NULL,
		payee_account TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		batch_num TEXT NOT NULL DEFAULT '',
		payer_account TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		paid_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_invoices_component_status ON invoices(component, status);
	`

	_, err := s.db.Exec(query)
	return err
}

func (s *Store) optimize() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA busy_timeout = 30000;",
		"PRAGMA temp_store = memory;",
		"PRAGMA optimize;",
	}

	for _, pragma := range pragmas {
		if _, err := s.db.Exec(pragma); err != nil {
			log.Printf("Warning: Failed to execute %s: %v", pragma, err)
		}
	}

	var journalMode string
	if err := s.db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to check journal mode: %w", err)
	}
	return nil
}

// retryOperation retries SQLITE_BUSY failures with exponential backoff
func (s *Store) retryOperation(operation func() error, maxRetries int) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}

		if !isBusy(err) {
			return err
		}

		lastErr = err
		if attempt < maxRetries {
			// 10ms, 20ms, 40ms, ...
			backoff := time.Duration(10*(1<<attempt)) * time.Millisecond
			log.Printf("SQLite busy, retrying in %v (attempt %d/%d)", backoff, attempt+1, maxRetries+1)
			time.Sleep(backoff)
		}
	}

	return fmt.Errorf("operation failed after %d retries, last error: %w", maxRetries+1, lastErr)
}

func isBusy(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// conn returns the transaction carried by ctx, or the database itself
func (s *Store) conn(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return s.db
}

// WithinTransaction runs fn in a database transaction. Store calls made
// with the ctx passed to fn join the transaction. A nested call reuses the
// outer transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	var tx *sql.Tx
	err = s.retryOperation(func() error {
		var beginErr error
		tx, beginErr = s.db.BeginTx(ctx, nil)
		return beginErr
	}, 3)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Printf("Warning: rollback failed: %v", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Create stores a new pending invoice. An empty ID gets a generated one.
func (s *Store) Create(ctx context.Context, inv Invoice) (*Invoice, error) {
	if !inv.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	inv.Status = StatusPending
	inv.CreatedAt = time.Now().UTC().Truncate(time.Second)

	err := s.retryOperation(func() error {
		_, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO invoices (id, component, amount, currency, payee_account, description, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			inv.ID, inv.Component, inv.Amount.String(), inv.Currency, inv.PayeeAccount,
			inv.Description, inv.Status, inv.CreatedAt,
		)
		return err
	}, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	return &inv, nil
}

// Get loads an invoice by ID
func (s *Store) Get(ctx context.Context, id string) (*Invoice, error) {
	var (
		inv    Invoice
		amount string
		paidAt sql.NullTime
	)

	err := s.retryOperation(func() error {
		return s.conn(ctx).QueryRowContext(ctx, `
		SELECT id, component, amount, currency, payee_account, description,
			status, batch_num, payer_account, created_at, paid_at
		FROM invoices WHERE id = ?`, id,
		).Scan(
			&inv.ID, &inv.Component, &amount, &inv.Currency, &inv.PayeeAccount, &inv.Description,
			&inv.Status, &inv.BatchNum, &inv.PayerAccount, &inv.CreatedAt, &paidAt,
		)
	}, 3)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}

	if inv.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, fmt.Errorf("invoice %s has a malformed amount: %w", id, err)
	}
	if paidAt.Valid {
		inv.PaidAt = &paidAt.Time
	}

	return &inv, nil
}

// MarkPaid settles a pending invoice. Paying an invoice twice fails with ErrAlreadyPaid.
func (s *Store) MarkPaid(ctx context.Context, id, batchNum, payerAccount string) error {
	var affected int64

	err := s.retryOperation(func() error {
		res, err := s.conn(ctx).ExecContext(ctx, `
		UPDATE invoices SET status = ?, batch_num = ?, payer_account = ?, paid_at = ?
		WHERE id = ? AND status = ?`,
			StatusPaid, batchNum, payerAccount, time.Now().UTC().Truncate(time.Second), id, StatusPending,
		)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	}, 3)
	if err != nil {
		return fmt.Errorf("failed to mark invoice paid: %w", err)
	}

	if affected == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s", ErrAlreadyPaid, id)
	}
	return nil
}

// Ping checks the database connection
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
