package models

import "time"

const (
	FileKindAudio    = "audio"
	FileKindEvidence = "evidence"
)

// StoredFile records an uploaded object; bytes live in object storage.
type StoredFile struct {
	ID        string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SessionID string `gorm:"column:session_id;type:uuid;index" json:"session_id"`

	Kind        string `gorm:"column:kind;type:text" json:"kind"`
	FileName    string `gorm:"column:file_name;type:text" json:"file_name"`
	ContentType string `gorm:"column:content_type;type:text" json:"content_type"`
	SizeBytes   int64  `gorm:"column:size_bytes" json:"size_bytes"`
	ObjectURL   string `gorm:"column:object_url;type:text" json:"object_url"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (StoredFile) TableName() string { return "stored_files" }
