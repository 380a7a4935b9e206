package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/dto"
)

func TestNoopAlwaysMisses(t *testing.T) {
	var c Noop
	ctx := context.Background()

	c.SetIfUnchanged(ctx, "2025-10-06", c.Version(ctx, "2025-10-06"), []dto.ConsultationView{{ID: uuid.New()}})
	_, ok := c.Get(ctx, "2025-10-06")
	assert.False(t, ok)
}

func TestRedisDayCache(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}

	ctx := context.Background()
	client, err := NewRedisClient(ctx, url)
	require.NoError(t, err)
	defer client.Close()

	c := NewRedisDayCache(client, time.Minute)
	date := "test-" + uuid.NewString()
	c.Invalidate(ctx, date)

	_, ok := c.Get(ctx, date)
	assert.False(t, ok)

	views := []dto.ConsultationView{{
		ID:        uuid.New(),
		Date:      date,
		StartTime: "09:00",
		EndTime:   "10:00",
		Amount:    2000,
		Status:    "SCHEDULED",
		Patients:  []dto.ConsultationPatientView{{PatientID: uuid.New()}},
	}}
	c.SetIfUnchanged(ctx, date, c.Version(ctx, date), views)

	got, ok := c.Get(ctx, date)
	require.True(t, ok)
	assert.Equal(t, views, got)

	c.Invalidate(ctx, date, "2099-12-31")
	_, ok = c.Get(ctx, date)
	assert.False(t, ok)

	// a listing read before an invalidation is not written back
	stale := c.Version(ctx, date)
	c.Invalidate(ctx, date)
	c.SetIfUnchanged(ctx, date, stale, views)
	_, ok = c.Get(ctx, date)
	assert.False(t, ok)

	c.SetIfUnchanged(ctx, date, c.Version(ctx, date), views)
	_, ok = c.Get(ctx, date)
	assert.True(t, ok)
}
