package model

import "time"

// Death declaration review statuses.
const (
    DeathStatusPending  = "PENDING"
    DeathStatusReviewed = "REVIEWED"
)

// DeathDeclaration is the terminal clinical event recorded by the
// attending doctor.  Creating one forces the admission onto the
// discharge path and frees the bed in the same transaction.
//
// Fields:
//  ID           – primary key identifier.
//  AdmissionID  – admission being closed; one declaration per admission.
//  PatientID    – patient the declaration concerns.
//  DeclaredBy   – attending doctor who declared the death.
//  TimeOfDeath  – declared time of death.
//  CauseOfDeath – stated cause, required.
//  Notes        – additional free text (nullable).
//  Status       – review state (PENDING, REVIEWED).
//  CreatedAt    – creation timestamp.
type DeathDeclaration struct {
    ID           uint64    // death_declarations.id
    AdmissionID  uint64    // death_declarations.admission_id
    PatientID    uint64    // death_declarations.patient_id
    DeclaredBy   uint64    // death_declarations.declared_by
    TimeOfDeath  time.Time // death_declarations.time_of_death
    CauseOfDeath string    // death_declarations.cause_of_death
    Notes        *string   // death_declarations.notes (nullable)
    Status       string    // death_declarations.status
    CreatedAt    time.Time // death_declarations.created_at
}
