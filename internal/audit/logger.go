package audit

import (
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BugSlayer555/ZyeroLead/internal/models"
)

// Sink persists or forwards audit events.
type Sink interface {
	Log(ev Event) error
}

// ZapSink writes events to the structured log.
type ZapSink struct {
	logger *zap.Logger
}

func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger}
}

func (s *ZapSink) Log(ev Event) error {
	s.logger.Info("audit",
		zap.String("action", ev.Action),
		zap.String("entity", ev.Entity),
		zap.String("entity_key", ev.EntityKey),
		zap.String("actor", ev.Actor),
		zap.Any("metadata", ev.Metadata),
	)
	return nil
}

// Logger stores events in the audit_logs table.
type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

func (l *Logger) Log(ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	row := models.AuditLog{
		Actor:     ev.Actor,
		Action:    ev.Action,
		Entity:    ev.Entity,
		EntityKey: ev.EntityKey,
		Metadata:  metaJSON,
	}

	return l.db.Create(&row).Error
}
