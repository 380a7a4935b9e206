package audit

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"github.com/wandyflor/TheraKairos-MartinoAndrea/internal/models"
)

// GormSink stores events in the audit_logs table.
type GormSink struct {
	db *gorm.DB
}

func New(db *gorm.DB) *GormSink {
	return &GormSink{db: db}
}

func (s *GormSink) Write(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	row := models.AuditLog{
		Action:   ev.Action,
		Entity:   ev.Entity,
		EntityID: ev.EntityID,
		Metadata: metaJSON,
	}

	return s.db.WithContext(ctx).Create(&row).Error
}
