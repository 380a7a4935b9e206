package consultation

import (
	"context"
	"math/big"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/httperr"
	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/models"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// amountPattern is a plain decimal number, optionally with a short exponent
// as JSON numbers allow. Hex floats, fractions, Inf and NaN never match.
var amountPattern = regexp.MustCompile(`^[+-]?\d+(\.\d+)?([eE][+-]?\d{1,3})?$`)

var (
	hundred = big.NewRat(100, 1)

	// decimal(10,2)
	maxAmount = big.NewRat(9999999999, 100)
)

// Input carries a consultation in the textual form callers submit it.
type Input struct {
	Date      string
	StartTime string
	EndTime   string
	Amount    string
	Status    string
}

// Draft is an Input that passed parsing and the structural checks. Date and
// times are normalized to DateLayout and TimeLayout.
type Draft struct {
	Date      string
	StartTime string
	EndTime   string
	Amount    float64
	Status    Status
}

// ===============================
// Validation
// ===============================

// Validate parses the input and checks that its slot is free. On update,
// excludeID is the consultation being edited so its own slot does not count.
func Validate(
	ctx context.Context,
	slots SlotChecker,
	in Input,
	excludeID *uuid.UUID,
) (*Draft, error) {

	d, err := Parse(in)
	if err != nil {
		return nil, err
	}

	if err := CheckSlot(ctx, slots, d, excludeID); err != nil {
		return nil, err
	}

	return d, nil
}

// Parse performs every check that does not need the store.
func Parse(in Input) (*Draft, error) {
	date, err := time.Parse(DateLayout, strings.TrimSpace(in.Date))
	if err != nil {
		return nil, httperr.Validation("invalid_date", "The date must use the format YYYY-MM-DD.")
	}

	start, err := time.Parse(TimeLayout, strings.TrimSpace(in.StartTime))
	if err != nil {
		return nil, httperr.Validation("invalid_start_time", "The start time must use the format HH:MM.")
	}

	end, err := time.Parse(TimeLayout, strings.TrimSpace(in.EndTime))
	if err != nil {
		return nil, httperr.Validation("invalid_end_time", "The end time must use the format HH:MM.")
	}

	if !start.Before(end) {
		return nil, httperr.Validation("start_not_before_end", "The start time must be before the end time.")
	}

	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return nil, err
	}

	status, err := ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}

	return &Draft{
		Date:      date.Format(DateLayout),
		StartTime: start.Format(TimeLayout),
		EndTime:   end.Format(TimeLayout),
		Amount:    amount,
		Status:    status,
	}, nil
}

// ParseAmount accepts a positive decimal that is a whole number of cents.
// The value is checked, not its spelling, so 1.5e2 is 150 and 1e-3 is
// rejected instead of being rounded to zero by the column.
func ParseAmount(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)

	if !amountPattern.MatchString(raw) {
		return 0, httperr.Validation("invalid_amount", "The amount must be a valid number.")
	}

	amount, ok := new(big.Rat).SetString(raw)
	if !ok {
		return 0, httperr.Validation("invalid_amount", "The amount must be a valid number.")
	}

	if !new(big.Rat).Mul(amount, hundred).IsInt() {
		return 0, httperr.Validation("invalid_amount", "The amount accepts at most two decimal places.")
	}

	if amount.Sign() <= 0 {
		return 0, httperr.Validation("non_positive_amount", "The amount must be greater than zero.")
	}

	if amount.Cmp(maxAmount) > 0 {
		return 0, httperr.Validation("invalid_amount", "The amount is too large.")
	}

	v, _ := amount.Float64()
	return v, nil
}

func CheckSlot(
	ctx context.Context,
	slots SlotChecker,
	d *Draft,
	excludeID *uuid.UUID,
) error {

	taken, err := slots.SlotTaken(ctx, d.Date, d.StartTime, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlotTaken(d.Date, d.StartTime)
	}
	return nil
}

// ErrSlotTaken is returned both by the pre-check and when the unique index
// rejects a write.
func ErrSlotTaken(date, startTime string) error {
	return httperr.Conflict(
		"slot_taken",
		"A consultation already exists on "+date+" at "+startTime+".",
	)
}

// ===============================
// Domain Actions
// ===============================

// NewConsultation builds an active row with a fresh identifier.
func NewConsultation(d *Draft) *models.Consultation {
	c := &models.Consultation{ID: uuid.New()}
	d.ApplyTo(c)
	c.State = models.StateActive
	return c
}

// ApplyTo copies the mutable fields onto c; identity and state are untouched.
func (d *Draft) ApplyTo(c *models.Consultation) {
	c.Date = d.Date
	c.StartTime = d.StartTime
	c.EndTime = d.EndTime
	c.Amount = d.Amount
	c.Status = string(d.Status)
}
