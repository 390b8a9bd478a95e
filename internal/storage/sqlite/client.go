package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/oneq/backend/internal/storage/models"
	"github.com/oneq/backend/pkg/logger"
)

type Client struct {
	db *sql.DB
}

func NewClient(dbPath string) (*Client, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	logger.Info("SQLite client initialized", zap.String("path", dbPath))

	return &Client{db: db}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

func (c *Client) InitSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS vendors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		phone TEXT,
		address TEXT,
		email TEXT,
		description TEXT,
		active INTEGER NOT NULL DEFAULT 1,
		registration_status TEXT NOT NULL DEFAULT 'pending',
		verified INTEGER NOT NULL DEFAULT 0,
		categories TEXT NOT NULL,
		capabilities TEXT,
		production_time TEXT,
		delivery_options TEXT,
		profile TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_vendors_status ON vendors(registration_status);
	CREATE INDEX IF NOT EXISTS idx_vendors_active ON vendors(active);

	CREATE TABLE IF NOT EXISTS chat_sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT,
		history TEXT,
		slots TEXT,
		state TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_user ON chat_sessions(user_id);
	CREATE INDEX IF NOT EXISTS idx_sessions_active ON chat_sessions(active);

	CREATE TABLE IF NOT EXISTS quote_history (
		id TEXT PRIMARY KEY,
		session_id TEXT NOT NULL,
		category TEXT NOT NULL,
		slots TEXT NOT NULL,
		eligible_count INTEGER NOT NULL,
		top_vendor_id INTEGER,
		top_score INTEGER,
		latency_ms INTEGER,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (session_id) REFERENCES chat_sessions(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_quotes_session ON quote_history(session_id);
	CREATE INDEX IF NOT EXISTS idx_quotes_created ON quote_history(created_at);
	`

	if _, err := c.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Info("SQLite schema initialized")
	return nil
}

func (c *Client) InsertVendor(v *models.Vendor) error {
	categories, err := json.Marshal(v.Categories)
	if err != nil {
		return fmt.Errorf("failed to marshal categories: %w", err)
	}
	capabilities, err := json.Marshal(v.Capabilities)
	if err != nil {
		return fmt.Errorf("failed to marshal capabilities: %w", err)
	}
	var profile []byte
	if v.Profile != nil {
		if profile, err = json.Marshal(v.Profile); err != nil {
			return fmt.Errorf("failed to marshal profile: %w", err)
		}
	}

	now := time.Now()
	if v.CreatedAt.IsZero() {
		v.CreatedAt = now
	}
	v.UpdatedAt = now

	query := `
		INSERT INTO vendors (name, phone, address, email, description, active, registration_status,
			verified, categories, capabilities, production_time, delivery_options, profile, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := c.db.Exec(
		query,
		v.Name,
		v.Phone,
		v.Address,
		v.Email,
		v.Description,
		v.Active,
		v.RegistrationStatus,
		v.Verified,
		string(categories),
		string(capabilities),
		v.ProductionTime,
		v.DeliveryOptions,
		nullableString(profile),
		v.CreatedAt.Unix(),
		v.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert vendor: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read vendor id: %w", err)
	}
	v.ID = id

	logger.Debug("Vendor inserted", zap.Int64("vendor_id", id), zap.String("name", v.Name))
	return nil
}

const vendorColumns = `id, name, phone, address, email, description, active, registration_status,
	verified, categories, capabilities, production_time, delivery_options, profile, created_at, updated_at`

func (c *Client) GetVendor(id int64) (*models.Vendor, error) {
	query := fmt.Sprintf("SELECT %s FROM vendors WHERE id = ?", vendorColumns)
	v, err := scanVendor(c.db.QueryRow(query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}
	return v, nil
}

// ListVendors returns every vendor record. Eligibility filtering is the
// ranking engine's job; the store stays dumb.
func (c *Client) ListVendors() ([]*models.Vendor, error) {
	query := fmt.Sprintf("SELECT %s FROM vendors ORDER BY id", vendorColumns)
	rows, err := c.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}
	defer rows.Close()

	var out []*models.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vendor: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ListVendorsByCategory narrows the pool with a coarse JSON substring match;
// the engine still applies the exact eligibility rules.
func (c *Client) ListVendorsByCategory(category string) ([]*models.Vendor, error) {
	all, err := c.ListVendors()
	if err != nil {
		return nil, err
	}
	out := make([]*models.Vendor, 0, len(all))
	for _, v := range all {
		for _, cat := range v.Categories {
			if cat == category {
				out = append(out, v)
				break
			}
		}
	}
	return out, nil
}

func (c *Client) CountVendors() (int, error) {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM vendors").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count vendors: %w", err)
	}
	return n, nil
}

func (c *Client) UpdateVendorStatus(id int64, status string, active bool) error {
	_, err := c.db.Exec(
		"UPDATE vendors SET registration_status = ?, active = ?, updated_at = ? WHERE id = ?",
		status, active, time.Now().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update vendor status: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVendor(row rowScanner) (*models.Vendor, error) {
	var v models.Vendor
	var categories, capabilities string
	var profile sql.NullString
	var createdAt, updatedAt int64

	err := row.Scan(
		&v.ID,
		&v.Name,
		&v.Phone,
		&v.Address,
		&v.Email,
		&v.Description,
		&v.Active,
		&v.RegistrationStatus,
		&v.Verified,
		&categories,
		&capabilities,
		&v.ProductionTime,
		&v.DeliveryOptions,
		&profile,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(categories), &v.Categories); err != nil {
		return nil, fmt.Errorf("malformed categories for vendor %d: %w", v.ID, err)
	}
	if capabilities != "" {
		if err := json.Unmarshal([]byte(capabilities), &v.Capabilities); err != nil {
			return nil, fmt.Errorf("malformed capabilities for vendor %d: %w", v.ID, err)
		}
	}
	if profile.Valid && strings.TrimSpace(profile.String) != "" {
		v.Profile = &models.Profile{}
		if err := json.Unmarshal([]byte(profile.String), v.Profile); err != nil {
			return nil, fmt.Errorf("malformed profile for vendor %d: %w", v.ID, err)
		}
	}

	v.CreatedAt = time.Unix(createdAt, 0)
	v.UpdatedAt = time.Unix(updatedAt, 0)
	return &v, nil
}

func nullableString(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

func (c *Client) SaveSession(s *models.ChatSession) error {
	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	query := `
		INSERT INTO chat_sessions (id, user_id, history, slots, state, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			history = excluded.history,
			slots = excluded.slots,
			state = excluded.state,
			active = excluded.active,
			updated_at = excluded.updated_at
	`

	_, err := c.db.Exec(query, s.ID, s.UserID, s.History, s.Slots, s.State, s.Active,
		s.CreatedAt.Unix(), s.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (c *Client) GetSession(id string) (*models.ChatSession, error) {
	query := `SELECT id, user_id, history, slots, state, active, created_at, updated_at
		FROM chat_sessions WHERE id = ?`

	var s models.ChatSession
	var createdAt, updatedAt int64

	err := c.db.QueryRow(query, id).Scan(
		&s.ID, &s.UserID, &s.History, &s.Slots, &s.State, &s.Active, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	s.CreatedAt = time.Unix(createdAt, 0)
	s.UpdatedAt = time.Unix(updatedAt, 0)
	return &s, nil
}

func (c *Client) InsertQuoteRecord(q *models.QuoteRecord) error {
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO quote_history (id, session_id, category, slots, eligible_count, top_vendor_id, top_score, latency_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := c.db.Exec(query, q.ID, q.SessionID, q.Category, q.SlotsJSON,
		q.EligibleCount, q.TopVendorID, q.TopScore, q.LatencyMS, q.CreatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to insert quote record: %w", err)
	}
	return nil
}

func (c *Client) GetQuoteHistory(sessionID string, limit int) ([]models.QuoteRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT id, session_id, category, slots, eligible_count, top_vendor_id, top_score, latency_ms, created_at
		FROM quote_history WHERE session_id = ? ORDER BY created_at DESC LIMIT ?`

	rows, err := c.db.Query(query, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get quote history: %w", err)
	}
	defer rows.Close()

	var out []models.QuoteRecord
	for rows.Next() {
		var q models.QuoteRecord
		var createdAt int64
		if err := rows.Scan(&q.ID, &q.SessionID, &q.Category, &q.SlotsJSON,
			&q.EligibleCount, &q.TopVendorID, &q.TopScore, &q.LatencyMS, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan quote record: %w", err)
		}
		q.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, q)
	}
	return out, rows.Err()
}
