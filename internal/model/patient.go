package model

import "time"

// Patient holds the demographic record created at registration time.
// The coordination core only ever references patients by ID; demographic
// upkeep is routine record-keeping.
//
// Fields:
//  ID            – primary key identifier.
//  PatientNumber – hospital-issued patient number, unique.
//  FirstName     – given name.
//  LastName      – family name.
//  DateOfBirth   – date of birth, nullable when unknown.
//  Gender        – free-form gender marker.
//  Phone         – contact phone number.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Patient struct {
    ID            uint64     // patients.id
    PatientNumber string     // patients.patient_number
    FirstName     string     // patients.first_name
    LastName      string     // patients.last_name
    DateOfBirth   *time.Time // patients.date_of_birth (nullable)
    Gender        string     // patients.gender
    Phone         string     // patients.phone
    CreatedAt     time.Time  // patients.created_at
    UpdatedAt     time.Time  // patients.updated_at
}
