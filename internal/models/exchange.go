package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnalyzerExchange archives one raw analyzer round trip per turn.
// Rows expire via a TTL index; they exist for debugging, not for replay.
type AnalyzerExchange struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID string             `bson:"session_id" json:"session_id"`
	TurnNo    int                `bson:"turn_no" json:"turn_no"`

	RequestText string         `bson:"request_text" json:"request_text"`
	Response    map[string]any `bson:"response,omitempty" json:"response,omitempty"`
	Degraded    bool           `bson:"degraded" json:"degraded"`
	LatencyMS   int64          `bson:"latency_ms" json:"latency_ms"`

	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"` // for TTL index
}
