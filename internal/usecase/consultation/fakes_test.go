package consultation

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	domain "github.com/wandyflor/TheraKairos-MartinoAndrea/internal/domain/consultation"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/dto"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/httperr"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/models"
)

type assocKey struct {
	consultation uuid.UUID
	patient      uuid.UUID
}

// memRepo is a map-backed Repository. Transaction snapshots the maps and
// restores them when fn fails, like a rollback.
type memRepo struct {
	mu sync.Mutex

	consultations map[uuid.UUID]models.Consultation
	assocs        map[assocKey]models.ConsultationPatient
	patients      map[uuid.UUID]bool

	// skipSlotCheck makes SlotTaken report free so the index path is exercised.
	skipSlotCheck bool
	failInsertFor uuid.UUID

	// onList runs inside ListActiveConsultationsByDate after the rows are read.
	onList func()
}

func newMemRepo(patients ...uuid.UUID) *memRepo {
	r := &memRepo{
		consultations: map[uuid.UUID]models.Consultation{},
		assocs:        map[assocKey]models.ConsultationPatient{},
		patients:      map[uuid.UUID]bool{},
	}
	for _, p := range patients {
		r.patients[p] = true
	}
	return r
}

func (r *memRepo) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	r.mu.Lock()
	cs := make(map[uuid.UUID]models.Consultation, len(r.consultations))
	for k, v := range r.consultations {
		cs[k] = v
	}
	as := make(map[assocKey]models.ConsultationPatient, len(r.assocs))
	for k, v := range r.assocs {
		as[k] = v
	}
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.consultations, r.assocs = cs, as
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *memRepo) SlotTaken(_ context.Context, date, start string, excludeID *uuid.UUID) (bool, error) {
	if r.skipSlotCheck {
		return false, nil
	}
	return r.slotOwner(date, start, excludeID), nil
}

func (r *memRepo) slotOwner(date, start string, excludeID *uuid.UUID) bool {
	for _, c := range r.consultations {
		if !c.State.IsActive() || c.Date != date || c.StartTime != start {
			continue
		}
		if excludeID != nil && c.ID == *excludeID {
			continue
		}
		return true
	}
	return false
}

func (r *memRepo) CreateConsultation(_ context.Context, c *models.Consultation) error {
	// stands in for the partial unique index
	if r.slotOwner(c.Date, c.StartTime, nil) {
		return domain.ErrSlotTaken(c.Date, c.StartTime)
	}
	row := *c
	row.Patients = nil
	r.consultations[c.ID] = row
	return nil
}

func (r *memRepo) UpdateConsultation(_ context.Context, c *models.Consultation) error {
	row, ok := r.consultations[c.ID]
	if !ok || !row.State.IsActive() {
		return httperr.NotFoundErr("consultation_not_found", "Consultation not found.")
	}
	if r.slotOwner(c.Date, c.StartTime, &c.ID) {
		return domain.ErrSlotTaken(c.Date, c.StartTime)
	}
	row.Date, row.StartTime, row.EndTime = c.Date, c.StartTime, c.EndTime
	row.Amount, row.Status = c.Amount, c.Status
	r.consultations[c.ID] = row
	return nil
}

func (r *memRepo) SoftDeleteConsultation(_ context.Context, id uuid.UUID) error {
	row, ok := r.consultations[id]
	if !ok || !row.State.IsActive() {
		return httperr.NotFoundErr("consultation_not_found", "Consultation not found.")
	}
	row.State = models.StateInactive
	r.consultations[id] = row
	return nil
}

func (r *memRepo) withPatients(c models.Consultation) *models.Consultation {
	rows, _ := r.ListAssociations(context.Background(), c.ID)
	for _, cp := range rows {
		if cp.State.IsActive() {
			c.Patients = append(c.Patients, cp)
		}
	}
	return &c
}

func (r *memRepo) GetActiveConsultation(_ context.Context, id uuid.UUID) (*models.Consultation, error) {
	row, ok := r.consultations[id]
	if !ok || !row.State.IsActive() {
		return nil, httperr.NotFoundErr("consultation_not_found", "Consultation not found.")
	}
	return r.withPatients(row), nil
}

func (r *memRepo) ListActiveConsultationsByDate(_ context.Context, date string) ([]models.Consultation, error) {
	var out []models.Consultation
	for _, c := range r.consultations {
		if c.State.IsActive() && c.Date == date {
			out = append(out, *r.withPatients(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	if r.onList != nil {
		r.onList()
	}
	return out, nil
}

func (r *memRepo) PatientExists(_ context.Context, id uuid.UUID) (bool, error) {
	return r.patients[id], nil
}

func (r *memRepo) ListAssociations(_ context.Context, cid uuid.UUID) ([]models.ConsultationPatient, error) {
	var out []models.ConsultationPatient
	for k, v := range r.assocs {
		if k.consultation == cid {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PatientID.String() < out[j].PatientID.String() })
	return out, nil
}

func (r *memRepo) InsertAssociation(_ context.Context, cp *models.ConsultationPatient) error {
	if cp.PatientID == r.failInsertFor {
		return errors.New("connection reset")
	}
	k := assocKey{cp.ConsultationID, cp.PatientID}
	if _, ok := r.assocs[k]; ok {
		return errors.New("duplicate association")
	}
	r.assocs[k] = *cp
	return nil
}

func (r *memRepo) mutate(cid, pid uuid.UUID, fn func(cp *models.ConsultationPatient)) error {
	k := assocKey{cid, pid}
	cp, ok := r.assocs[k]
	if !ok {
		return httperr.NotFoundErr("association_not_found", "Association not found.")
	}
	fn(&cp)
	r.assocs[k] = cp
	return nil
}

func (r *memRepo) ReactivateAssociation(_ context.Context, cid, pid uuid.UUID, isPaid bool) error {
	return r.mutate(cid, pid, func(cp *models.ConsultationPatient) { cp.Activate(isPaid) })
}

func (r *memRepo) MarkAssociationPaid(_ context.Context, cid, pid uuid.UUID) error {
	return r.mutate(cid, pid, func(cp *models.ConsultationPatient) { cp.MarkPaid() })
}

func (r *memRepo) DeactivateAssociation(_ context.Context, cid, pid uuid.UUID) error {
	return r.mutate(cid, pid, func(cp *models.ConsultationPatient) { cp.Deactivate() })
}

func (r *memRepo) DeactivateAllAssociations(_ context.Context, cid uuid.UUID) error {
	for k, v := range r.assocs {
		if k.consultation == cid {
			v.Deactivate()
			r.assocs[k] = v
		}
	}
	return nil
}

func (r *memRepo) assoc(cid, pid uuid.UUID) (models.ConsultationPatient, bool) {
	cp, ok := r.assocs[assocKey{cid, pid}]
	return cp, ok
}

var _ domain.Repository = (*memRepo)(nil)

// memNotes records which consultations have notes.
type memNotes struct {
	folders    map[uuid.UUID]bool
	provisions int
	removes    int
	failNext   bool
}

func newMemNotes() *memNotes {
	return &memNotes{folders: map[uuid.UUID]bool{}}
}

func (n *memNotes) Provision(_ context.Context, id uuid.UUID) error {
	n.provisions++
	if n.failNext {
		n.failNext = false
		return errors.New("disk full")
	}
	n.folders[id] = true
	return nil
}

func (n *memNotes) Remove(_ context.Context, id uuid.UUID) error {
	n.removes++
	delete(n.folders, id)
	return nil
}

func (n *memNotes) Open(_ context.Context, id uuid.UUID) (string, error) {
	if !n.folders[id] {
		return "", httperr.NotFoundErr("notes_not_found", "The consultation has no notes.")
	}
	return "/notes/" + id.String(), nil
}

// memCache counts invalidations per date; the count doubles as the version.
type memCache struct {
	entries     map[string][]dto.ConsultationView
	invalidated map[string]int
}

func newMemCache() *memCache {
	return &memCache{
		entries:     map[string][]dto.ConsultationView{},
		invalidated: map[string]int{},
	}
}

func (c *memCache) Version(_ context.Context, date string) int64 {
	return int64(c.invalidated[date])
}

func (c *memCache) Get(_ context.Context, date string) ([]dto.ConsultationView, bool) {
	v, ok := c.entries[date]
	return v, ok
}

func (c *memCache) SetIfUnchanged(_ context.Context, date string, version int64, views []dto.ConsultationView) {
	if int64(c.invalidated[date]) != version {
		return
	}
	c.entries[date] = views
}

func (c *memCache) Invalidate(_ context.Context, dates ...string) {
	for _, d := range dates {
		delete(c.entries, d)
		c.invalidated[d]++
	}
}
