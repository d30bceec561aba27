// Package queue defines message payloads exchanged over the message broker.
package queue

// Ward event kinds published after their transactions commit.
const (
	EventAdmissionAdmitted   = "admission.admitted"
	EventAdmissionDischarged = "admission.discharged"
	EventOrderCompleted      = "order.completed"
)

// WardEvent is published to the ward.events queue when a coordination
// operation commits.  It carries enough context for downstream consumers
// to log or notify without querying the primary database.  Fields that do
// not apply to a given kind are left at their zero value.
type WardEvent struct {
	Kind        string `json:"kind"`
	AdmissionID uint64 `json:"admission_id"`
	PatientID   uint64 `json:"patient_id,omitempty"`
	OrderID     uint64 `json:"order_id,omitempty"`
	OrderType   string `json:"order_type,omitempty"`
	ActorID     uint64 `json:"actor_id"`
	ActorRole   string `json:"actor_role,omitempty"`
	RoomNumber  string `json:"room_number,omitempty"`
	BedNumber   int    `json:"bed_number,omitempty"`
	Detail      string `json:"detail,omitempty"`
	OccurredAt  string `json:"occurred_at"`
}
