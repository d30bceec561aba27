package coordination

import (
	"context"
	"database/sql"
	"regexp"
	"strings"
	"time"

	"github.com/wardops/hospital-coordination/internal/model"
	"github.com/wardops/hospital-coordination/internal/repository"
)

// deathTimePattern enforces the strict YYYY-MM-DD HH:MM[:SS] input format
// before time.Parse gets a chance to be lenient about it.
var deathTimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}(:\d{2})?$`)

// parseDeathTime validates and parses a declared time of death.
func parseDeathTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !deathTimePattern.MatchString(s) {
		return time.Time{}, ErrValidation
	}
	layout := "2006-01-02 15:04"
	if len(s) == len("2006-01-02 15:04:05") {
		layout = "2006-01-02 15:04:05"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, ErrValidation
	}
	return t.UTC(), nil
}

// AdmissionLifecycle manages admission status transitions, including the
// discharge and death-declaration paths that return a bed to the
// available pool.
type AdmissionLifecycle struct {
	db         *sql.DB
	admissions *repository.AdmissionRepo
	beds       *repository.BedRepo
	deaths     *repository.DeathRepo
}

// NewAdmissionLifecycle constructs an AdmissionLifecycle over the shared store.
func NewAdmissionLifecycle(db *sql.DB, admissions *repository.AdmissionRepo, beds *repository.BedRepo, deaths *repository.DeathRepo) *AdmissionLifecycle {
	return &AdmissionLifecycle{db: db, admissions: admissions, beds: beds, deaths: deaths}
}

// Discharge marks the admission DISCHARGED at the given time and frees
// its bed.  Calling it again is a no-op with respect to bed state: the
// status guard on the admission update and the release of an
// already-cleared bed both affect zero rows, and the call succeeds.
func (l *AdmissionLifecycle) Discharge(ctx context.Context, actor Actor, admissionID uint64, when time.Time) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	adm, err := l.admissions.GetForUpdateTx(ctx, tx, admissionID)
	if err != nil {
		return err
	}
	if adm.Status != model.AdmissionStatusDischarged {
		if err := l.admissions.DischargeTx(ctx, tx, admissionID, when); err != nil {
			return err
		}
	}
	if err := l.releaseBedTx(ctx, tx, adm); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// DeclareDeath records a death declaration and forces the admission onto
// the discharge path.  Preconditions, checked before any write: the actor
// must be the admission's attending doctor, the admission must currently
// be ADMITTED, the time of death must match YYYY-MM-DD HH:MM[:SS] and the
// cause must be non-empty.  The declaration insert, the discharge and the
// bed release commit as one transaction; any failure leaves the bed
// occupied and the admission still ADMITTED.
func (l *AdmissionLifecycle) DeclareDeath(ctx context.Context, actor Actor, admissionID uint64, timeOfDeath, cause, notes string) (*model.DeathDeclaration, error) {
	tod, err := parseDeathTime(timeOfDeath)
	if err != nil {
		return nil, err
	}
	cause = strings.TrimSpace(cause)
	if cause == "" {
		return nil, ErrValidation
	}
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	adm, err := l.admissions.GetForUpdateTx(ctx, tx, admissionID)
	if err != nil {
		return nil, err
	}
	if adm.AttendingDoctorID != actor.ID {
		return nil, ErrUnauthorized
	}
	if adm.Status != model.AdmissionStatusAdmitted {
		return nil, ErrInvalidState
	}
	decl := &model.DeathDeclaration{
		AdmissionID:  admissionID,
		PatientID:    adm.PatientID,
		DeclaredBy:   actor.ID,
		TimeOfDeath:  tod,
		CauseOfDeath: cause,
	}
	if n := strings.TrimSpace(notes); n != "" {
		decl.Notes = &n
	}
	if err := l.deaths.InsertTx(ctx, tx, decl); err != nil {
		return nil, err
	}
	if err := l.admissions.DischargeTx(ctx, tx, admissionID, tod); err != nil {
		return nil, err
	}
	if err := l.releaseBedTx(ctx, tx, adm); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return decl, nil
}

// releaseBedTx frees the admission's bed, if any, and nulls its room/bed
// pointers within the caller's transaction.
func (l *AdmissionLifecycle) releaseBedTx(ctx context.Context, tx *sql.Tx, adm *model.Admission) error {
	if adm.BedID == nil {
		return nil
	}
	if err := l.beds.ReleaseTx(ctx, tx, *adm.BedID); err != nil {
		return err
	}
	return l.admissions.ClearBedTx(ctx, tx, adm.ID)
}
