package model

import "time"

// Admission statuses.  PENDING admissions hold no bed; the transition to
// ADMITTED happens only through a successful bed assignment, and to
// DISCHARGED only through the discharge or death-declaration path.
const (
    AdmissionStatusPending    = "PENDING"
    AdmissionStatusAdmitted   = "ADMITTED"
    AdmissionStatusDischarged = "DISCHARGED"
)

// Admission records a patient's inpatient stay from intake to discharge.
// RoomID and BedID are both nil or both set; an admission holds at most
// one bed at a time.
//
// Fields:
//  ID                    – primary key identifier.
//  PatientID             – patient being admitted.
//  RoomID                – room currently assigned (nullable).
//  BedID                 – bed currently assigned (nullable).
//  Status                – PENDING, ADMITTED or DISCHARGED.
//  AdmissionDate         – when the patient was admitted (nullable while pending).
//  ExpectedDischargeDate – planned discharge date (nullable).
//  ActualDischargeDate   – actual discharge or death time (nullable).
//  AttendingDoctorID     – doctor responsible for the stay.
//  Notes                 – free text, stored encrypted; opaque to the core.
//  CreatedAt             – creation timestamp.
//  UpdatedAt             – last update timestamp.
type Admission struct {
    ID                    uint64     // admissions.id
    PatientID             uint64     // admissions.patient_id
    RoomID                *uint64    // admissions.room_id (nullable)
    BedID                 *uint64    // admissions.bed_id (nullable)
    Status                string     // admissions.admission_status
    AdmissionDate         *time.Time // admissions.admission_date (nullable)
    ExpectedDischargeDate *time.Time // admissions.expected_discharge_date (nullable)
    ActualDischargeDate   *time.Time // admissions.actual_discharge_date (nullable)
    AttendingDoctorID     uint64     // admissions.attending_doctor_id
    Notes                 *string    // admissions.notes (nullable, ciphertext)
    CreatedAt             time.Time  // admissions.created_at
    UpdatedAt             time.Time  // admissions.updated_at
}
