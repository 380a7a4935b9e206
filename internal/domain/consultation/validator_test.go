package consultation

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/httperr"
)

type slotFunc func(ctx context.Context, date, startTime string, excludeID *uuid.UUID) (bool, error)

func (f slotFunc) SlotTaken(ctx context.Context, date, startTime string, excludeID *uuid.UUID) (bool, error) {
	return f(ctx, date, startTime, excludeID)
}

func validInput() Input {
	return Input{
		Date:      "2025-10-06",
		StartTime: "09:00",
		EndTime:   "10:00",
		Amount:    "2000.00",
		Status:    "SCHEDULED",
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *Input)
		code   string
	}{
		{name: "valid", mutate: func(in *Input) {}},
		{name: "lowercase status", mutate: func(in *Input) { in.Status = "completed" }},
		{name: "bad date", mutate: func(in *Input) { in.Date = "06/10/2025" }, code: "invalid_date"},
		{name: "impossible date", mutate: func(in *Input) { in.Date = "2025-02-30" }, code: "invalid_date"},
		{name: "bad start", mutate: func(in *Input) { in.StartTime = "9am" }, code: "invalid_start_time"},
		{name: "bad end", mutate: func(in *Input) { in.EndTime = "25:00" }, code: "invalid_end_time"},
		{name: "start equals end", mutate: func(in *Input) { in.EndTime = "09:00" }, code: "start_not_before_end"},
		{name: "start after end", mutate: func(in *Input) { in.StartTime = "11:00" }, code: "start_not_before_end"},
		{name: "zero amount", mutate: func(in *Input) { in.Amount = "0" }, code: "non_positive_amount"},
		{name: "negative amount", mutate: func(in *Input) { in.Amount = "-10" }, code: "non_positive_amount"},
		{name: "amount not a number", mutate: func(in *Input) { in.Amount = "abc" }, code: "invalid_amount"},
		{name: "amount three decimals", mutate: func(in *Input) { in.Amount = "10.005" }, code: "invalid_amount"},
		{name: "amount NaN", mutate: func(in *Input) { in.Amount = "NaN" }, code: "invalid_amount"},
		{name: "amount too large", mutate: func(in *Input) { in.Amount = "100000000" }, code: "invalid_amount"},
		{name: "amount exponent below a cent", mutate: func(in *Input) { in.Amount = "1e-3" }, code: "invalid_amount"},
		{name: "amount exponent fraction of a cent", mutate: func(in *Input) { in.Amount = "4e-3" }, code: "invalid_amount"},
		{name: "amount hex float", mutate: func(in *Input) { in.Amount = "0x1p-9" }, code: "invalid_amount"},
		{name: "amount infinity", mutate: func(in *Input) { in.Amount = "Inf" }, code: "invalid_amount"},
		{name: "amount exponent whole", mutate: func(in *Input) { in.Amount = "1.5e2" }},
		{name: "amount one cent", mutate: func(in *Input) { in.Amount = "0.01" }},
		{name: "unknown status", mutate: func(in *Input) { in.Status = "POSTPONED" }, code: "invalid_status"},
		{name: "blank status", mutate: func(in *Input) { in.Status = "  " }, code: "invalid_status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			d, err := Parse(in)
			if tt.code == "" {
				require.NoError(t, err)
				assert.NotNil(t, d)
				return
			}

			require.Error(t, err)
			assert.True(t, httperr.IsKind(err, httperr.KindValidation))
			assert.True(t, httperr.IsBusiness(err, tt.code), "got %v", err)
		})
	}
}

func TestParseAmountValues(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"1.5e2", 150},
		{"1e-2", 0.01},
		{"0.29", 0.29},
		{"2000.00", 2000},
		{"99999999.99", 99999999.99},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			v, err := ParseAmount(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestParseNormalizes(t *testing.T) {
	d, err := Parse(Input{
		Date:      " 2025-10-06 ",
		StartTime: "9:05",
		EndTime:   "10:30",
		Amount:    " 1500.5 ",
		Status:    "scheduled",
	})
	require.NoError(t, err)

	assert.Equal(t, "2025-10-06", d.Date)
	assert.Equal(t, "09:05", d.StartTime)
	assert.Equal(t, "10:30", d.EndTime)
	assert.Equal(t, 1500.5, d.Amount)
	assert.Equal(t, StatusScheduled, d.Status)
}

func TestValidateSlot(t *testing.T) {
	ctx := context.Background()
	self := uuid.New()

	t.Run("free slot", func(t *testing.T) {
		slots := slotFunc(func(_ context.Context, date, start string, _ *uuid.UUID) (bool, error) {
			assert.Equal(t, "2025-10-06", date)
			assert.Equal(t, "09:00", start)
			return false, nil
		})
		_, err := Validate(ctx, slots, validInput(), nil)
		require.NoError(t, err)
	})

	t.Run("taken slot", func(t *testing.T) {
		slots := slotFunc(func(context.Context, string, string, *uuid.UUID) (bool, error) {
			return true, nil
		})
		_, err := Validate(ctx, slots, validInput(), nil)
		assert.True(t, httperr.IsKind(err, httperr.KindConflict))
		assert.True(t, httperr.IsBusiness(err, "slot_taken"))
	})

	t.Run("exclude id is forwarded", func(t *testing.T) {
		slots := slotFunc(func(_ context.Context, _, _ string, excludeID *uuid.UUID) (bool, error) {
			require.NotNil(t, excludeID)
			assert.Equal(t, self, *excludeID)
			return false, nil
		})
		_, err := Validate(ctx, slots, validInput(), &self)
		require.NoError(t, err)
	})

	t.Run("store error", func(t *testing.T) {
		boom := errors.New("boom")
		slots := slotFunc(func(context.Context, string, string, *uuid.UUID) (bool, error) {
			return false, boom
		})
		_, err := Validate(ctx, slots, validInput(), nil)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("parse failure skips store", func(t *testing.T) {
		slots := slotFunc(func(context.Context, string, string, *uuid.UUID) (bool, error) {
			t.Fatal("store must not be queried")
			return false, nil
		})
		in := validInput()
		in.Amount = "0"
		_, err := Validate(ctx, slots, in, nil)
		assert.True(t, httperr.IsKind(err, httperr.KindValidation))
	})
}

func TestNewConsultation(t *testing.T) {
	d, err := Parse(validInput())
	require.NoError(t, err)

	c := NewConsultation(d)

	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.True(t, c.State.IsActive())
	assert.Equal(t, "SCHEDULED", c.Status)
	assert.Equal(t, 2000.0, c.Amount)
}
