package presence

import (
	"encoding/json"
	"fmt"

	"github.com/Vk9769/voting-backend/internal/logger"
	"github.com/Vk9769/voting-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Ping is the wire payload for one agent location report. The outbound
// broadcast relays it verbatim.
type Ping struct {
	AgentID           string  `json:"agentId"`
	Lat               float64 `json:"lat"`
	Lng               float64 `json:"lng"`
	Accuracy          float64 `json:"accuracy"`
	DeviceFingerprint string  `json:"deviceFingerprint"`
}

// Tracker persists pings and republishes them to the hub. The durable
// write comes first; fan-out is best-effort and a delivery problem never
// rolls the write back.
type Tracker struct {
	DB  *gorm.DB
	Hub *Hub
}

func NewTracker(db *gorm.DB, hub *Hub) *Tracker {
	return &Tracker{DB: db, Hub: hub}
}

// RecordAndBroadcast appends the tracking record, then fans the payload
// out to all connected observers.
func (t *Tracker) RecordAndBroadcast(p Ping) error {
	rec := models.TrackingPing{
		AgentID:         p.AgentID,
		Lat:             p.Lat,
		Lng:             p.Lng,
		AccuracyMeters:  p.Accuracy,
		DeviceSignature: p.DeviceFingerprint,
	}
	if err := t.DB.Create(&rec).Error; err != nil {
		return fmt.Errorf("persist tracking ping: %w", err)
	}

	payload, err := json.Marshal(p)
	if err != nil {
		// The write already succeeded; a marshal failure only costs the
		// live broadcast.
		logger.Warn("marshal tracking ping", zap.Error(err))
		return nil
	}
	t.Hub.Publish(payload)
	return nil
}
