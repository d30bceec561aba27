package model

import "time"

// Clinical order statuses.  ACTIVE orders are open for claiming; exactly
// one nurse may hold a claim (IN_PROGRESS); COMPLETED and DISCONTINUED
// are terminal.  The only backward transition is IN_PROGRESS -> ACTIVE
// when a claim is released.
const (
    OrderStatusActive       = "ACTIVE"
    OrderStatusInProgress   = "IN_PROGRESS"
    OrderStatusCompleted    = "COMPLETED"
    OrderStatusDiscontinued = "DISCONTINUED"
)

// Clinical order types.
const (
    OrderTypeMedication = "MEDICATION"
    OrderTypeLabTest    = "LAB_TEST"
    OrderTypeDiagnostic = "DIAGNOSTIC"
    OrderTypeDiet       = "DIET"
    OrderTypeActivity   = "ACTIVITY"
    OrderTypeMonitoring = "MONITORING"
    OrderTypeDischarge  = "DISCHARGE"
    OrderTypeOther      = "OTHER"
)

// RoomTransferTag marks an order as a room-transfer request rather than a
// bedside task.  It is stored in the special_instructions column.
const RoomTransferTag = "ROOM_TRANSFER"

// ClinicalOrder is a unit of clinical work routed through the
// claim/execute/complete lifecycle.  ClaimedBy is non-nil only while the
// status is IN_PROGRESS, and only the claimant may complete or release.
//
// Fields:
//  ID                  – primary key identifier.
//  AdmissionID         – admission the order belongs to.
//  OrderType           – MEDICATION, LAB_TEST, DIAGNOSTIC, ...
//  Details             – what is to be done.
//  Frequency           – e.g. "twice daily".
//  Duration            – e.g. "5 days".
//  SpecialInstructions – free text; ROOM_TRANSFER marks transfer requests.
//  Status              – ACTIVE, IN_PROGRESS, COMPLETED or DISCONTINUED.
//  OrderedBy           – doctor who created the order.
//  ClaimedBy/ClaimedAt – current claimant, set while IN_PROGRESS.
//  CompletedBy/At/Note – completion attribution.
//  DiscontinuedBy/At   – discontinuation attribution.
//  DiscontinueReason   – clinical reason for cancelling.
//  CreatedAt           – creation timestamp.
//  UpdatedAt           – last update timestamp.
type ClinicalOrder struct {
    ID                  uint64     // clinical_orders.id
    AdmissionID         uint64     // clinical_orders.admission_id
    OrderType           string     // clinical_orders.order_type
    Details             string     // clinical_orders.details
    Frequency           string     // clinical_orders.frequency
    Duration            string     // clinical_orders.duration
    SpecialInstructions *string    // clinical_orders.special_instructions (nullable)
    Status              string     // clinical_orders.status
    OrderedBy           uint64     // clinical_orders.ordered_by
    ClaimedBy           *uint64    // clinical_orders.claimed_by (nullable)
    ClaimedAt           *time.Time // clinical_orders.claimed_at (nullable)
    CompletedBy         *uint64    // clinical_orders.completed_by (nullable)
    CompletedAt         *time.Time // clinical_orders.completed_at (nullable)
    CompletionNote      *string    // clinical_orders.completion_note (nullable)
    DiscontinuedBy      *uint64    // clinical_orders.discontinued_by (nullable)
    DiscontinuedAt      *time.Time // clinical_orders.discontinued_at (nullable)
    DiscontinueReason   *string    // clinical_orders.discontinue_reason (nullable)
    CreatedAt           time.Time  // clinical_orders.created_at
    UpdatedAt           time.Time  // clinical_orders.updated_at
}

// IsTransfer reports whether the order carries the ROOM_TRANSFER tag.
func (o *ClinicalOrder) IsTransfer() bool {
    return o.SpecialInstructions != nil && *o.SpecialInstructions == RoomTransferTag
}

// ValidOrderType reports whether t is a recognised order type.
func ValidOrderType(t string) bool {
    switch t {
    case OrderTypeMedication, OrderTypeLabTest, OrderTypeDiagnostic, OrderTypeDiet,
        OrderTypeActivity, OrderTypeMonitoring, OrderTypeDischarge, OrderTypeOther:
        return true
    }
    return false
}
