/*
Package sqlite provides a SQLite-backed implementation of pjo.Store.

PURPOSE:
  Persists proforma job orders, their line items, job orders, and the
  per-year document sequences. In production the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  pjos:          PJO headers, status, cached financial projections
  revenue_items: revenue lines, ON DELETE CASCADE from pjos
  cost_items:    cost lines with optional actuals, ON DELETE CASCADE
  job_orders:    conversion output with frozen opening snapshots
  sequences:     (kind, year) -> last allocated sequence number

OPTIMISTIC CONCURRENCY:
  Status transitions and the conversion latch are conditional writes:

    UPDATE pjos SET status = ?new ... WHERE id = ? AND status = ?expected
    UPDATE pjos SET converted_to_jo = 1 ... WHERE id = ? AND converted_to_jo = 0

  Zero affected rows means another request won the race; the caller gets
  ErrConcurrentModification (or ErrAlreadyConverted) and must re-read.

MONEY:
  Decimal amounts are stored as TEXT and parsed back through
  shopspring/decimal, so no precision is lost round-tripping.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): readers don't block,
  one writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/gama.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := pjo.NewService(store, logger)

SEE ALSO:
  - pjo/service.go:      Store interface definition
  - pjo/store/memory.go: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/odnamta/Gama-ERP-sub000/pjo"
)

// Store implements pjo.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

var _ pjo.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS pjos (
		id TEXT PRIMARY KEY,
		number TEXT NOT NULL UNIQUE,
		customer_id TEXT NOT NULL,
		project_id TEXT NOT NULL DEFAULT '',
		origin TEXT NOT NULL DEFAULT '',
		destination TEXT NOT NULL DEFAULT '',
		commodity TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		total_revenue TEXT NOT NULL DEFAULT '0',
		total_cost_estimated TEXT NOT NULL DEFAULT '0',
		total_cost_actual TEXT NOT NULL DEFAULT '0',
		profit TEXT NOT NULL DEFAULT '0',
		margin_pct TEXT NOT NULL DEFAULT '0',
		all_costs_confirmed INTEGER NOT NULL DEFAULT 0,
		has_cost_overruns INTEGER NOT NULL DEFAULT 0,
		converted_to_jo INTEGER NOT NULL DEFAULT 0,
		jo_id TEXT,
		submitted_at TEXT,
		approved_at TEXT,
		approved_by TEXT NOT NULL DEFAULT '',
		rejected_at TEXT,
		rejected_by TEXT NOT NULL DEFAULT '',
		rejection_reason TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_pjos_status ON pjos(status);
	CREATE INDEX IF NOT EXISTS idx_pjos_customer ON pjos(customer_id);

	CREATE TABLE IF NOT EXISTS revenue_items (
		id TEXT PRIMARY KEY,
		pjo_id TEXT NOT NULL REFERENCES pjos(id) ON DELETE CASCADE,
		description TEXT NOT NULL,
		quantity TEXT NOT NULL,
		unit TEXT NOT NULL DEFAULT '',
		unit_price TEXT NOT NULL,
		subtotal TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_revenue_items_pjo ON revenue_items(pjo_id);

	CREATE TABLE IF NOT EXISTS cost_items (
		id TEXT PRIMARY KEY,
		pjo_id TEXT NOT NULL REFERENCES pjos(id) ON DELETE CASCADE,
		category TEXT NOT NULL,
		description TEXT NOT NULL,
		estimated_amount TEXT NOT NULL,
		actual_amount TEXT,
		variance TEXT NOT NULL DEFAULT '0',
		variance_pct TEXT NOT NULL DEFAULT '0',
		status TEXT NOT NULL,
		confirmed_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_cost_items_pjo ON cost_items(pjo_id);

	CREATE TABLE IF NOT EXISTS job_orders (
		id TEXT PRIMARY KEY,
		number TEXT NOT NULL UNIQUE,
		pjo_id TEXT NOT NULL,
		pjo_number TEXT NOT NULL,
		customer_id TEXT NOT NULL,
		project_id TEXT NOT NULL DEFAULT '',
		total_revenue TEXT NOT NULL,
		total_cost TEXT NOT NULL,
		profit TEXT NOT NULL,
		margin_pct TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_job_orders_pjo ON job_orders(pjo_id);

	CREATE TABLE IF NOT EXISTS sequences (
		kind TEXT NOT NULL,
		year INTEGER NOT NULL,
		value INTEGER NOT NULL,
		PRIMARY KEY (kind, year)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// TIME / DECIMAL HELPERS
// =============================================================================

const timeLayout = time.RFC3339Nano

func fmtTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func fmtTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtTime(*t)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

func parseTimePtr(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t := parseTime(ns.String)
	return &t
}

func parseDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func fmtDecPtr(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func joIDPtr(id *pjo.JOID) any {
	if id == nil {
		return nil
	}
	return string(*id)
}

// =============================================================================
// PJO CRUD
// =============================================================================

func (s *Store) CreatePJO(ctx context.Context, p *pjo.ProformaJobOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pjos (
			id, number, customer_id, project_id, origin, destination, commodity,
			status, total_revenue, total_cost_estimated, total_cost_actual,
			profit, margin_pct, all_costs_confirmed, has_cost_overruns,
			converted_to_jo, jo_id, submitted_at, approved_at, approved_by,
			rejected_at, rejected_by, rejection_reason, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(p.ID), p.Number, p.CustomerID, p.ProjectID, p.Origin, p.Destination, p.Commodity,
		string(p.Status), p.TotalRevenue.String(), p.TotalCostEstimated.String(), p.TotalCostActual.String(),
		p.Profit.String(), p.MarginPct.String(), p.AllCostsConfirmed, p.HasCostOverruns,
		p.ConvertedToJO, joIDPtr(p.JOID), fmtTimePtr(p.SubmittedAt), fmtTimePtr(p.ApprovedAt), p.ApprovedBy,
		fmtTimePtr(p.RejectedAt), p.RejectedBy, p.RejectionReason, fmtTime(p.CreatedAt), fmtTime(p.UpdatedAt),
	)
	return err
}

func (s *Store) GetPJO(ctx context.Context, id pjo.PJOID) (*pjo.ProformaJobOrder, error) {
	row := s.db.QueryRowContext(ctx, pjoSelect+` WHERE id = ?`, string(id))
	p, err := scanPJO(row)
	if err == sql.ErrNoRows {
		return nil, pjo.ErrPJONotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.loadItems(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) ListPJOs(ctx context.Context) ([]*pjo.ProformaJobOrder, error) {
	rows, err := s.db.QueryContext(ctx, pjoSelect+` ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pjos []*pjo.ProformaJobOrder
	for rows.Next() {
		p, err := scanPJO(rows)
		if err != nil {
			return nil, err
		}
		pjos = append(pjos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, p := range pjos {
		if err := s.loadItems(ctx, p); err != nil {
			return nil, err
		}
	}
	return pjos, nil
}

const pjoSelect = `
	SELECT id, number, customer_id, project_id, origin, destination, commodity,
	       status, total_revenue, total_cost_estimated, total_cost_actual,
	       profit, margin_pct, all_costs_confirmed, has_cost_overruns,
	       converted_to_jo, jo_id, submitted_at, approved_at, approved_by,
	       rejected_at, rejected_by, rejection_reason, created_at, updated_at
	FROM pjos`

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanPJO(row scanner) (*pjo.ProformaJobOrder, error) {
	var (
		p                                        pjo.ProformaJobOrder
		id, status                               string
		totalRevenue, totalCostEst, totalCostAct string
		profit, marginPct                        string
		joID                                     sql.NullString
		submittedAt, approvedAt, rejectedAt      sql.NullString
		createdAt, updatedAt                     string
	)

	err := row.Scan(
		&id, &p.Number, &p.CustomerID, &p.ProjectID, &p.Origin, &p.Destination, &p.Commodity,
		&status, &totalRevenue, &totalCostEst, &totalCostAct,
		&profit, &marginPct, &p.AllCostsConfirmed, &p.HasCostOverruns,
		&p.ConvertedToJO, &joID, &submittedAt, &approvedAt, &p.ApprovedBy,
		&rejectedAt, &p.RejectedBy, &p.RejectionReason, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.ID = pjo.PJOID(id)
	p.Status = pjo.Status(status)
	p.TotalRevenue = parseDec(totalRevenue)
	p.TotalCostEstimated = parseDec(totalCostEst)
	p.TotalCostActual = parseDec(totalCostAct)
	p.Profit = parseDec(profit)
	p.MarginPct = parseDec(marginPct)
	if joID.Valid {
		v := pjo.JOID(joID.String)
		p.JOID = &v
	}
	p.SubmittedAt = parseTimePtr(submittedAt)
	p.ApprovedAt = parseTimePtr(approvedAt)
	p.RejectedAt = parseTimePtr(rejectedAt)
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return &p, nil
}

func (s *Store) loadItems(ctx context.Context, p *pjo.ProformaJobOrder) error {
	revRows, err := s.db.QueryContext(ctx, `
		SELECT id, pjo_id, description, quantity, unit, unit_price, subtotal, created_at, updated_at
		FROM revenue_items WHERE pjo_id = ? ORDER BY created_at`, string(p.ID))
	if err != nil {
		return err
	}
	defer revRows.Close()

	for revRows.Next() {
		var (
			it                            pjo.RevenueItem
			id, pjoID                     string
			quantity, unitPrice, subtotal string
			createdAt, updatedAt          string
		)
		if err := revRows.Scan(&id, &pjoID, &it.Description, &quantity, &it.Unit, &unitPrice, &subtotal, &createdAt, &updatedAt); err != nil {
			return err
		}
		it.ID = pjo.ItemID(id)
		it.PJOID = pjo.PJOID(pjoID)
		it.Quantity = parseDec(quantity)
		it.UnitPrice = parseDec(unitPrice)
		it.Subtotal = parseDec(subtotal)
		it.CreatedAt = parseTime(createdAt)
		it.UpdatedAt = parseTime(updatedAt)
		p.RevenueItems = append(p.RevenueItems, it)
	}
	if err := revRows.Err(); err != nil {
		return err
	}

	costRows, err := s.db.QueryContext(ctx, `
		SELECT id, pjo_id, category, description, estimated_amount, actual_amount,
		       variance, variance_pct, status, confirmed_at, created_at, updated_at
		FROM cost_items WHERE pjo_id = ? ORDER BY created_at`, string(p.ID))
	if err != nil {
		return err
	}
	defer costRows.Close()

	for costRows.Next() {
		var (
			it                    pjo.CostItem
			id, pjoID, category   string
			estimated             string
			actual, confirmedAt   sql.NullString
			variance, variancePct string
			status                string
			createdAt, updatedAt  string
		)
		if err := costRows.Scan(&id, &pjoID, &category, &it.Description, &estimated, &actual,
			&variance, &variancePct, &status, &confirmedAt, &createdAt, &updatedAt); err != nil {
			return err
		}
		it.ID = pjo.ItemID(id)
		it.PJOID = pjo.PJOID(pjoID)
		it.Category = pjo.CostCategory(category)
		it.EstimatedAmount = parseDec(estimated)
		if actual.Valid {
			v := parseDec(actual.String)
			it.ActualAmount = &v
		}
		it.Variance = parseDec(variance)
		it.VariancePct = parseDec(variancePct)
		it.Status = pjo.CostStatus(status)
		it.ConfirmedAt = parseTimePtr(confirmedAt)
		it.CreatedAt = parseTime(createdAt)
		it.UpdatedAt = parseTime(updatedAt)
		p.CostItems = append(p.CostItems, it)
	}
	return costRows.Err()
}

func (s *Store) UpdatePJO(ctx context.Context, p *pjo.ProformaJobOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE pjos SET
			customer_id = ?, project_id = ?, origin = ?, destination = ?, commodity = ?,
			total_revenue = ?, total_cost_estimated = ?, total_cost_actual = ?,
			profit = ?, margin_pct = ?, all_costs_confirmed = ?, has_cost_overruns = ?,
			updated_at = ?
		WHERE id = ?`,
		p.CustomerID, p.ProjectID, p.Origin, p.Destination, p.Commodity,
		p.TotalRevenue.String(), p.TotalCostEstimated.String(), p.TotalCostActual.String(),
		p.Profit.String(), p.MarginPct.String(), p.AllCostsConfirmed, p.HasCostOverruns,
		fmtTime(p.UpdatedAt), string(p.ID),
	)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, pjo.ErrPJONotFound)
}

func (s *Store) DeletePJO(ctx context.Context, id pjo.PJOID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Items go with the PJO via ON DELETE CASCADE (exclusive ownership).
	res, err := s.db.ExecContext(ctx, `DELETE FROM pjos WHERE id = ?`, string(id))
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, pjo.ErrPJONotFound)
}

func affectedOrNotFound(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// =============================================================================
// CONDITIONAL WRITES (optimistic concurrency)
// =============================================================================

// TransitionStatus writes the new status and transition metadata only if
// the stored status still equals expected. A zero-row update against an
// existing PJO means a concurrent transition won.
func (s *Store) TransitionStatus(ctx context.Context, p *pjo.ProformaJobOrder, expected pjo.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE pjos SET
			status = ?, submitted_at = ?, approved_at = ?, approved_by = ?,
			rejected_at = ?, rejected_by = ?, rejection_reason = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		string(p.Status), fmtTimePtr(p.SubmittedAt), fmtTimePtr(p.ApprovedAt), p.ApprovedBy,
		fmtTimePtr(p.RejectedAt), p.RejectedBy, p.RejectionReason, fmtTime(p.UpdatedAt),
		string(p.ID), string(expected),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM pjos WHERE id = ?`, string(p.ID)).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return pjo.ErrPJONotFound
	}
	return pjo.ErrConcurrentModification
}

// MarkConverted flips the one-way conversion latch, conditional on the
// latch still being unset.
func (s *Store) MarkConverted(ctx context.Context, id pjo.PJOID, joID pjo.JOID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE pjos SET converted_to_jo = 1, jo_id = ?, updated_at = ?
		WHERE id = ? AND converted_to_jo = 0`,
		string(joID), fmtTime(at), string(id),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	var exists int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM pjos WHERE id = ?`, string(id)).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return pjo.ErrPJONotFound
	}
	return pjo.ErrAlreadyConverted
}

// =============================================================================
// LINE ITEMS
// =============================================================================

func (s *Store) PutRevenueItem(ctx context.Context, item pjo.RevenueItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO revenue_items (id, pjo_id, description, quantity, unit, unit_price, subtotal, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			description = excluded.description,
			quantity = excluded.quantity,
			unit = excluded.unit,
			unit_price = excluded.unit_price,
			subtotal = excluded.subtotal,
			updated_at = excluded.updated_at`,
		string(item.ID), string(item.PJOID), item.Description,
		item.Quantity.String(), item.Unit, item.UnitPrice.String(), item.Subtotal.String(),
		fmtTime(item.CreatedAt), fmtTime(item.UpdatedAt),
	)
	return err
}

func (s *Store) DeleteRevenueItem(ctx context.Context, pjoID pjo.PJOID, itemID pjo.ItemID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM revenue_items WHERE id = ? AND pjo_id = ?`, string(itemID), string(pjoID))
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, pjo.ErrItemNotFound)
}

func (s *Store) PutCostItem(ctx context.Context, item pjo.CostItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cost_items (id, pjo_id, category, description, estimated_amount, actual_amount,
			variance, variance_pct, status, confirmed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			category = excluded.category,
			description = excluded.description,
			estimated_amount = excluded.estimated_amount,
			actual_amount = excluded.actual_amount,
			variance = excluded.variance,
			variance_pct = excluded.variance_pct,
			status = excluded.status,
			confirmed_at = excluded.confirmed_at,
			updated_at = excluded.updated_at`,
		string(item.ID), string(item.PJOID), string(item.Category), item.Description,
		item.EstimatedAmount.String(), fmtDecPtr(item.ActualAmount),
		item.Variance.String(), item.VariancePct.String(), string(item.Status),
		fmtTimePtr(item.ConfirmedAt), fmtTime(item.CreatedAt), fmtTime(item.UpdatedAt),
	)
	return err
}

func (s *Store) DeleteCostItem(ctx context.Context, pjoID pjo.PJOID, itemID pjo.ItemID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM cost_items WHERE id = ? AND pjo_id = ?`, string(itemID), string(pjoID))
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, pjo.ErrItemNotFound)
}

// =============================================================================
// JOB ORDERS
// =============================================================================

func (s *Store) CreateJO(ctx context.Context, jo *pjo.JobOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO job_orders (id, number, pjo_id, pjo_number, customer_id, project_id,
			total_revenue, total_cost, profit, margin_pct, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(jo.ID), jo.Number, string(jo.PJOID), jo.PJONumber, jo.CustomerID, jo.ProjectID,
		jo.TotalRevenue.String(), jo.TotalCost.String(), jo.Profit.String(), jo.MarginPct.String(),
		fmtTime(jo.CreatedAt),
	)
	return err
}

func (s *Store) GetJO(ctx context.Context, id pjo.JOID) (*pjo.JobOrder, error) {
	row := s.db.QueryRowContext(ctx, joSelect+` WHERE id = ?`, string(id))
	jo, err := scanJO(row)
	if err == sql.ErrNoRows {
		return nil, pjo.ErrJONotFound
	}
	return jo, err
}

func (s *Store) ListJOs(ctx context.Context) ([]*pjo.JobOrder, error) {
	rows, err := s.db.QueryContext(ctx, joSelect+` ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jos []*pjo.JobOrder
	for rows.Next() {
		jo, err := scanJO(rows)
		if err != nil {
			return nil, err
		}
		jos = append(jos, jo)
	}
	return jos, rows.Err()
}

const joSelect = `
	SELECT id, number, pjo_id, pjo_number, customer_id, project_id,
	       total_revenue, total_cost, profit, margin_pct, created_at
	FROM job_orders`

func scanJO(row scanner) (*pjo.JobOrder, error) {
	var (
		jo                            pjo.JobOrder
		id, pjoID                     string
		revenue, cost, profit, margin string
		createdAt                     string
	)
	err := row.Scan(&id, &jo.Number, &pjoID, &jo.PJONumber, &jo.CustomerID, &jo.ProjectID,
		&revenue, &cost, &profit, &margin, &createdAt)
	if err != nil {
		return nil, err
	}
	jo.ID = pjo.JOID(id)
	jo.PJOID = pjo.PJOID(pjoID)
	jo.TotalRevenue = parseDec(revenue)
	jo.TotalCost = parseDec(cost)
	jo.Profit = parseDec(profit)
	jo.MarginPct = parseDec(margin)
	jo.CreatedAt = parseTime(createdAt)
	return &jo, nil
}

// =============================================================================
// SEQUENCES
// =============================================================================

// NextSequence allocates the next per-kind, per-year sequence number.
func (s *Store) NextSequence(ctx context.Context, kind string, year int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sequences (kind, year, value) VALUES (?, ?, 1)
		ON CONFLICT(kind, year) DO UPDATE SET value = value + 1`,
		kind, year,
	)
	if err != nil {
		return 0, err
	}

	var value int
	err = s.db.QueryRowContext(ctx,
		`SELECT value FROM sequences WHERE kind = ? AND year = ?`, kind, year).Scan(&value)
	return value, err
}

// Reset wipes all tables. Dev/test only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"revenue_items", "cost_items", "job_orders", "pjos", "sequences"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}
