package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/wardops/hospital-coordination/internal/model"
)

// ErrOrderNotFound is returned when a clinical order lookup fails.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepo encapsulates database operations for clinical orders.  All
// state transitions are single conditional UPDATE statements that report
// how many rows they touched; the caller derives conflict outcomes from a
// zero row count instead of locking or retrying.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo constructs an OrderRepo given a DB handle.
func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

const orderColumns = `id, admission_id, order_type, details, frequency, duration, special_instructions,
	status, ordered_by, claimed_by, claimed_at, completed_by, completed_at, completion_note,
	discontinued_by, discontinued_at, discontinue_reason, created_at, updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (*model.ClinicalOrder, error) {
	var (
		o              model.ClinicalOrder
		instructions   sql.NullString
		claimedBy      sql.NullInt64
		claimedAt      sql.NullTime
		completedBy    sql.NullInt64
		completedAt    sql.NullTime
		completionNote sql.NullString
		discBy         sql.NullInt64
		discAt         sql.NullTime
		discReason     sql.NullString
	)
	err := row.Scan(&o.ID, &o.AdmissionID, &o.OrderType, &o.Details, &o.Frequency, &o.Duration,
		&instructions, &o.Status, &o.OrderedBy, &claimedBy, &claimedAt,
		&completedBy, &completedAt, &completionNote, &discBy, &discAt, &discReason,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if instructions.Valid {
		s := instructions.String
		o.SpecialInstructions = &s
	}
	if claimedBy.Valid {
		v := uint64(claimedBy.Int64)
		o.ClaimedBy = &v
	}
	if claimedAt.Valid {
		t := claimedAt.Time
		o.ClaimedAt = &t
	}
	if completedBy.Valid {
		v := uint64(completedBy.Int64)
		o.CompletedBy = &v
	}
	if completedAt.Valid {
		t := completedAt.Time
		o.CompletedAt = &t
	}
	if completionNote.Valid {
		s := completionNote.String
		o.CompletionNote = &s
	}
	if discBy.Valid {
		v := uint64(discBy.Int64)
		o.DiscontinuedBy = &v
	}
	if discAt.Valid {
		t := discAt.Time
		o.DiscontinuedAt = &t
	}
	if discReason.Valid {
		s := discReason.String
		o.DiscontinueReason = &s
	}
	return &o, nil
}

// Create inserts a new order in ACTIVE status.  The generated ID is
// populated on the passed struct and the row read back for timestamps.
func (r *OrderRepo) Create(ctx context.Context, o *model.ClinicalOrder) error {
	const q = `INSERT INTO clinical_orders (admission_id, order_type, details, frequency, duration, special_instructions, status, ordered_by)
	           VALUES (?, ?, ?, ?, ?, ?, 'ACTIVE', ?)`
	res, err := r.db.ExecContext(ctx, q, o.AdmissionID, o.OrderType, o.Details, o.Frequency, o.Duration, o.SpecialInstructions, o.OrderedBy)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	got, err := r.GetByID(ctx, o.ID)
	if err != nil {
		return err
	}
	*o = *got
	return nil
}

// GetByID retrieves an order by its ID.  It returns ErrOrderNotFound when
// no row is found.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (*model.ClinicalOrder, error) {
	o, err := scanOrder(r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM clinical_orders WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// GetForUpdateTx reads an order inside the given transaction while taking
// a row lock.  Used by the transfer path to pin the order while beds move.
func (r *OrderRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.ClinicalOrder, error) {
	o, err := scanOrder(tx.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM clinical_orders WHERE id = ? FOR UPDATE`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return o, nil
}

// Claim attempts to acquire an open order for the given nurse.  The
// WHERE clause is the entire concurrency-control mechanism: first writer
// wins and every loser sees zero rows affected.  The returned count is
// the caller's only signal.
func (r *OrderRepo) Claim(ctx context.Context, orderID, nurseID uint64) (int64, error) {
	const q = `UPDATE clinical_orders
	           SET status = 'IN_PROGRESS', claimed_by = ?, claimed_at = UTC_TIMESTAMP()
	           WHERE id = ? AND status = 'ACTIVE' AND claimed_by IS NULL`
	res, err := r.db.ExecContext(ctx, q, nurseID, orderID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ClaimTx is Claim running inside an existing transaction; the transfer
// path uses it so the claim commits or rolls back with the bed moves.
func (r *OrderRepo) ClaimTx(ctx context.Context, tx *sql.Tx, orderID, nurseID uint64) (int64, error) {
	const q = `UPDATE clinical_orders
	           SET status = 'IN_PROGRESS', claimed_by = ?, claimed_at = UTC_TIMESTAMP()
	           WHERE id = ? AND status = 'ACTIVE' AND claimed_by IS NULL`
	res, err := tx.ExecContext(ctx, q, nurseID, orderID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Release hands a claimed order back to the pool, clearing the claimant.
// Only the current claimant matches the guard; zero rows means the caller
// does not hold the claim.
func (r *OrderRepo) Release(ctx context.Context, orderID, nurseID uint64) (int64, error) {
	const q = `UPDATE clinical_orders
	           SET status = 'ACTIVE', claimed_by = NULL, claimed_at = NULL
	           WHERE id = ? AND status = 'IN_PROGRESS' AND claimed_by = ?`
	res, err := r.db.ExecContext(ctx, q, orderID, nurseID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Complete finishes a claimed order with a completion note.  Same guard
// as Release: completion rights follow the claim, not a separate check.
func (r *OrderRepo) Complete(ctx context.Context, orderID, nurseID uint64, note string) (int64, error) {
	const q = `UPDATE clinical_orders
	           SET status = 'COMPLETED', completed_by = ?, completed_at = UTC_TIMESTAMP(), completion_note = ?
	           WHERE id = ? AND status = 'IN_PROGRESS' AND claimed_by = ?`
	res, err := r.db.ExecContext(ctx, q, nurseID, note, orderID, nurseID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CompleteTx is Complete inside an existing transaction (transfer path).
func (r *OrderRepo) CompleteTx(ctx context.Context, tx *sql.Tx, orderID, nurseID uint64, note string) (int64, error) {
	const q = `UPDATE clinical_orders
	           SET status = 'COMPLETED', completed_by = ?, completed_at = UTC_TIMESTAMP(), completion_note = ?
	           WHERE id = ? AND status = 'IN_PROGRESS' AND claimed_by = ?`
	res, err := tx.ExecContext(ctx, q, nurseID, note, orderID, nurseID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Discontinue cancels an order at any non-terminal status.  It does not
// require claim ownership: discontinuation is a clinical decision made by
// a doctor regardless of who holds the claim.
func (r *OrderRepo) Discontinue(ctx context.Context, orderID, doctorID uint64, reason string) (int64, error) {
	const q = `UPDATE clinical_orders
	           SET status = 'DISCONTINUED', discontinued_by = ?, discontinued_at = UTC_TIMESTAMP(), discontinue_reason = ?
	           WHERE id = ? AND status IN ('ACTIVE','IN_PROGRESS')`
	res, err := r.db.ExecContext(ctx, q, doctorID, reason, orderID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ForceRelease clears a claim regardless of who holds it.  Admin-only
// escape hatch for orders abandoned by a nurse who never completed or
// released them.
func (r *OrderRepo) ForceRelease(ctx context.Context, orderID uint64) (int64, error) {
	const q = `UPDATE clinical_orders
	           SET status = 'ACTIVE', claimed_by = NULL, claimed_at = NULL
	           WHERE id = ? AND status = 'IN_PROGRESS'`
	res, err := r.db.ExecContext(ctx, q, orderID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListByAdmission returns all orders for an admission, in-progress work
// first, then newest.  Ordering is for display only and has no bearing on
// claim correctness.
func (r *OrderRepo) ListByAdmission(ctx context.Context, admissionID uint64) ([]model.ClinicalOrder, error) {
	const q = `SELECT ` + orderColumns + ` FROM clinical_orders
	           WHERE admission_id = ?
	           ORDER BY FIELD(status, 'IN_PROGRESS', 'ACTIVE', 'COMPLETED', 'DISCONTINUED'), created_at DESC`
	return r.listOrders(ctx, q, admissionID)
}

// ListOpen returns the hospital-wide worklist of claimable and claimed
// orders for nurses.
func (r *OrderRepo) ListOpen(ctx context.Context) ([]model.ClinicalOrder, error) {
	const q = `SELECT ` + orderColumns + ` FROM clinical_orders
	           WHERE status IN ('IN_PROGRESS','ACTIVE')
	           ORDER BY FIELD(status, 'IN_PROGRESS', 'ACTIVE'), created_at DESC`
	return r.listOrders(ctx, q)
}

func (r *OrderRepo) listOrders(ctx context.Context, q string, args ...interface{}) ([]model.ClinicalOrder, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	orders := make([]model.ClinicalOrder, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}
