package coordination

import (
	"database/sql"

	"github.com/wardops/hospital-coordination/internal/repository"
)

// Coordinator bundles the four coordination components so handlers wire a
// single dependency.  Each component opens its own transactions against
// the shared *sql.DB; there is no cross-component state.
type Coordinator struct {
	Allocator *BedAllocator
	Lifecycle *AdmissionLifecycle
	Orders    *OrderQueue
	Transfers *TransferCoordinator
}

// New builds a Coordinator over the given repositories.
func New(db *sql.DB, admissions *repository.AdmissionRepo, beds *repository.BedRepo, orders *repository.OrderRepo, deaths *repository.DeathRepo) *Coordinator {
	return &Coordinator{
		Allocator: NewBedAllocator(db, admissions, beds),
		Lifecycle: NewAdmissionLifecycle(db, admissions, beds, deaths),
		Orders:    NewOrderQueue(db, orders, admissions),
		Transfers: NewTransferCoordinator(db, orders, admissions, beds),
	}
}
