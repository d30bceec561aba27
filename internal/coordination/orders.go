package coordination

import (
	"context"
	"database/sql"
	"strings"

	"github.com/wardops/hospital-coordination/internal/model"
	"github.com/wardops/hospital-coordination/internal/repository"
)

// OrderSpec carries the fields a doctor supplies when creating an order.
type OrderSpec struct {
	OrderType           string `json:"order_type"`
	Details             string `json:"details"`
	Frequency           string `json:"frequency"`
	Duration            string `json:"duration"`
	SpecialInstructions string `json:"special_instructions"`
}

// OrderQueue routes clinical work items through the
// active -> in_progress -> {completed | discontinued} lifecycle.  Claim,
// release and complete are each one conditional UPDATE; a zero row count
// is the losing side of a race, not a fault, and is surfaced as a typed
// conflict error for the caller to retry after re-reading.
type OrderQueue struct {
	db         *sql.DB
	orders     *repository.OrderRepo
	admissions *repository.AdmissionRepo
}

// NewOrderQueue constructs an OrderQueue over the shared store.
func NewOrderQueue(db *sql.DB, orders *repository.OrderRepo, admissions *repository.AdmissionRepo) *OrderQueue {
	return &OrderQueue{db: db, orders: orders, admissions: admissions}
}

// Create records a new ACTIVE order against an admission.  The order
// type must be recognised and details non-empty; the admission must not
// be discharged.
func (q *OrderQueue) Create(ctx context.Context, doctor Actor, admissionID uint64, spec OrderSpec) (*model.ClinicalOrder, error) {
	spec.Details = strings.TrimSpace(spec.Details)
	if !model.ValidOrderType(spec.OrderType) || spec.Details == "" {
		return nil, ErrValidation
	}
	adm, err := q.admissions.GetByID(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	if adm.Status == model.AdmissionStatusDischarged {
		return nil, ErrInvalidState
	}
	o := &model.ClinicalOrder{
		AdmissionID: admissionID,
		OrderType:   spec.OrderType,
		Details:     spec.Details,
		Frequency:   strings.TrimSpace(spec.Frequency),
		Duration:    strings.TrimSpace(spec.Duration),
		OrderedBy:   doctor.ID,
	}
	if si := strings.TrimSpace(spec.SpecialInstructions); si != "" {
		o.SpecialInstructions = &si
	}
	if err := q.orders.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Claim acquires an open order for the calling nurse.  Exactly one of
// any number of concurrent claimants succeeds; the rest get
// ErrAlreadyClaimed and must re-read to learn who won.
func (q *OrderQueue) Claim(ctx context.Context, nurse Actor, orderID uint64) error {
	n, err := q.orders.Claim(ctx, orderID, nurse.ID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAlreadyClaimed
	}
	return nil
}

// Release returns a claimed order to the pool.  Only the current
// claimant may release; anyone else gets ErrNotClaimant.
func (q *OrderQueue) Release(ctx context.Context, nurse Actor, orderID uint64) error {
	n, err := q.orders.Release(ctx, orderID, nurse.ID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotClaimant
	}
	return nil
}

// Complete finishes a claimed order with a completion note.  The guard
// is identical to Release: completion rights follow the claim.
func (q *OrderQueue) Complete(ctx context.Context, nurse Actor, orderID uint64, note string) error {
	n, err := q.orders.Complete(ctx, orderID, nurse.ID, strings.TrimSpace(note))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotClaimant
	}
	return nil
}

// Discontinue cancels an order at any non-terminal status, recording the
// doctor's reason.  Claim ownership is not required; ErrInvalidState
// means the order was already terminal.
func (q *OrderQueue) Discontinue(ctx context.Context, doctor Actor, orderID uint64, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrValidation
	}
	n, err := q.orders.Discontinue(ctx, orderID, doctor.ID, reason)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidState
	}
	return nil
}

// AdminRelease force-clears the claim on an abandoned order and returns
// it to ACTIVE.  There is no automatic timeout; reclaiming abandoned work
// is a deliberate administrative action.
func (q *OrderQueue) AdminRelease(ctx context.Context, admin Actor, orderID uint64) error {
	n, err := q.orders.ForceRelease(ctx, orderID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrInvalidState
	}
	return nil
}
