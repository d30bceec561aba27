package coordination

// Actor identifies the staff member performing an operation.  It is
// passed explicitly into every core call rather than read from ambient
// session state, so the core is testable without a web server.  Role
// admission to an endpoint is the router's job; the core checks only the
// ownership preconditions it documents (e.g. declaring doctor must be
// the admission's attending doctor).
type Actor struct {
    ID   uint64 // staff.id of the caller
    Role string // DOCTOR, NURSE or ADMIN, as carried in the JWT
}
