package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

const (
	SessionActive    = "ACTIVE"
	SessionCompleted = "COMPLETED"
	SessionAbandoned = "ABANDONED"
)

// Readiness statuses. READY/WEAK_CASE/NOT_ACTIONABLE come from the
// analyzer; INCOMPLETE and BLOCKED are computed locally.
const (
	ReadinessReady         = "READY"
	ReadinessWeakCase      = "WEAK_CASE"
	ReadinessNotActionable = "NOT_ACTIONABLE"
	ReadinessIncomplete    = "INCOMPLETE"
	ReadinessBlocked       = "BLOCKED"
)

type IntakeSession struct {
	ID     string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"column:user_id;type:uuid;index" json:"user_id"`

	Status    string `gorm:"column:status;type:text" json:"status"`
	TurnCount int    `gorm:"column:turn_count" json:"turn_count"`

	DetectedIntent  *string `gorm:"column:detected_intent;type:text" json:"detected_intent,omitempty"`
	ConfidenceScore float64 `gorm:"column:confidence_score" json:"confidence_score"`

	ReadinessScore  *int    `gorm:"column:readiness_score" json:"readiness_score,omitempty"`
	ReadinessStatus *string `gorm:"column:readiness_status;type:text" json:"readiness_status,omitempty"`
	Alert           bool    `gorm:"column:alert" json:"alert"`

	// PendingQuestion is the question the user is currently answering.
	PendingQuestion *string `gorm:"column:pending_question;type:text" json:"pending_question,omitempty"`

	SuggestedSections *string        `gorm:"column:suggested_sections;type:text" json:"suggested_sections,omitempty"`
	FilingGuidance    datatypes.JSON `gorm:"column:filing_guidance;type:jsonb" json:"filing_guidance,omitempty"`
	RequiredFields    pq.StringArray `gorm:"column:required_fields;type:text[]" json:"required_fields,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (IntakeSession) TableName() string { return "intake_sessions" }

func (s *IntakeSession) Terminal() bool {
	return s.Status == SessionCompleted || s.Status == SessionAbandoned
}

// SessionTurn is append-only; creation time defines conversational order.
type SessionTurn struct {
	ID        string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SessionID string `gorm:"column:session_id;type:uuid;index" json:"session_id"`

	QuestionText string  `gorm:"column:question_text;type:text" json:"question_text"`
	UserResponse string  `gorm:"column:user_response;type:text" json:"user_response"`
	AudioFileRef *string `gorm:"column:audio_file_ref;type:text" json:"audio_file_ref,omitempty"`
	Language     string  `gorm:"column:language;type:text" json:"language"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;index" json:"created_at"`
}

func (SessionTurn) TableName() string { return "session_turns" }

const (
	FactSourceAnalyzer = "analyzer"
	FactSourceUser     = "user"
)

// SessionFact holds one extracted entity; at most one live row per
// (session_id, fact_key).
type SessionFact struct {
	ID        string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SessionID string `gorm:"column:session_id;type:uuid;uniqueIndex:uniq_session_fact" json:"session_id"`

	Key        string   `gorm:"column:fact_key;type:text;uniqueIndex:uniq_session_fact" json:"key"`
	Value      string   `gorm:"column:fact_value;type:text" json:"value"`
	Confirmed  bool     `gorm:"column:confirmed" json:"confirmed"`
	Source     string   `gorm:"column:source;type:text" json:"source"`
	Confidence *float64 `gorm:"column:confidence" json:"confidence,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (SessionFact) TableName() string { return "session_facts" }
