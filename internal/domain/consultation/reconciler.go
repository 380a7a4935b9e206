package consultation

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/httperr"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/models"
)

// DesiredPatient is one entry of the patient set a consultation should end up with.
type DesiredPatient struct {
	PatientID uuid.UUID
	IsPaid    bool
}

type OpKind string

const (
	OpInsert     OpKind = "insert"
	OpReactivate OpKind = "reactivate"
	OpMarkPaid   OpKind = "mark_paid"
	OpDeactivate OpKind = "deactivate"
)

type Operation struct {
	Kind      OpKind
	PatientID uuid.UUID
	IsPaid    bool
}

// Plan is the ordered list of writes that turns the current associations
// into the desired ones: inserts and reactivations, then payments, then
// deactivations.
type Plan struct {
	Ops []Operation
}

func (p Plan) Empty() bool {
	return len(p.Ops) == 0
}

// Count returns how many operations of the given kind the plan holds.
func (p Plan) Count(kind OpKind) int {
	n := 0
	for _, op := range p.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// ValidateDesired rejects an empty set, nil identifiers and repeated patients.
func ValidateDesired(desired []DesiredPatient) error {
	if len(desired) == 0 {
		return httperr.Validation(
			"patients_required",
			"A consultation must have at least one associated patient.",
		)
	}

	seen := make(map[uuid.UUID]bool, len(desired))
	for _, d := range desired {
		if d.PatientID == uuid.Nil {
			return httperr.Validation("invalid_patient_id", "Every patient must have a valid identifier.")
		}
		if seen[d.PatientID] {
			return httperr.Validation("duplicate_patient", "A patient can only be listed once per consultation.")
		}
		seen[d.PatientID] = true
	}
	return nil
}

// PlanReconciliation is pure: it looks only at the rows it is given.
// The paid flag of an active association only ever moves forward; a desired
// unpaid entry leaves an already paid row as it is.
func PlanReconciliation(
	current []models.ConsultationPatient,
	desired []DesiredPatient,
) Plan {

	byPatient := make(map[uuid.UUID]models.ConsultationPatient, len(current))
	for _, cp := range current {
		byPatient[cp.PatientID] = cp
	}

	wanted := make(map[uuid.UUID]bool, len(desired))
	var plan Plan

	for _, d := range desired {
		wanted[d.PatientID] = true

		row, exists := byPatient[d.PatientID]
		switch {
		case !exists:
			plan.Ops = append(plan.Ops, Operation{Kind: OpInsert, PatientID: d.PatientID, IsPaid: d.IsPaid})
		case !row.State.IsActive():
			plan.Ops = append(plan.Ops, Operation{Kind: OpReactivate, PatientID: d.PatientID, IsPaid: d.IsPaid})
		}
	}

	for _, d := range desired {
		row, exists := byPatient[d.PatientID]
		if exists && row.State.IsActive() && d.IsPaid && !row.IsPaid {
			plan.Ops = append(plan.Ops, Operation{Kind: OpMarkPaid, PatientID: d.PatientID, IsPaid: true})
		}
	}

	var gone []uuid.UUID
	for _, cp := range current {
		if cp.State.IsActive() && !wanted[cp.PatientID] {
			gone = append(gone, cp.PatientID)
		}
	}
	sort.Slice(gone, func(i, j int) bool {
		return gone[i].String() < gone[j].String()
	})
	for _, id := range gone {
		plan.Ops = append(plan.Ops, Operation{Kind: OpDeactivate, PatientID: id})
	}

	return plan
}

// Apply executes the plan in order and stops at the first failure. Every
// operation is idempotent so a retry through Reconcile converges.
func Apply(
	ctx context.Context,
	store AssociationStore,
	consultationID uuid.UUID,
	plan Plan,
) error {

	for _, op := range plan.Ops {
		var err error

		switch op.Kind {
		case OpInsert:
			err = store.InsertAssociation(ctx, &models.ConsultationPatient{
				ConsultationID: consultationID,
				PatientID:      op.PatientID,
				IsPaid:         op.IsPaid,
				State:          models.StateActive,
			})
		case OpReactivate:
			err = store.ReactivateAssociation(ctx, consultationID, op.PatientID, op.IsPaid)
		case OpMarkPaid:
			err = store.MarkAssociationPaid(ctx, consultationID, op.PatientID)
		case OpDeactivate:
			err = store.DeactivateAssociation(ctx, consultationID, op.PatientID)
		}

		if err != nil {
			return err
		}
	}
	return nil
}

// Reconcile reads the current associations from the store, plans against
// them and applies the result.
func Reconcile(
	ctx context.Context,
	store AssociationStore,
	consultationID uuid.UUID,
	desired []DesiredPatient,
) (Plan, error) {

	if err := ValidateDesired(desired); err != nil {
		return Plan{}, err
	}

	current, err := store.ListAssociations(ctx, consultationID)
	if err != nil {
		return Plan{}, err
	}

	plan := PlanReconciliation(current, desired)
	if err := Apply(ctx, store, consultationID, plan); err != nil {
		return Plan{}, err
	}
	return plan, nil
}
