package models

import "time"

// DocumentTemplate bodies carry {{placeholder}} markers filled at
// generation time. Multiple templates may exist per issue type; selection
// fallback lives in doctemplates.Resolver.
type DocumentTemplate struct {
	ID          string  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	IssueType   string  `gorm:"column:issue_type;type:text;index" json:"issue_type"`
	SubCategory *string `gorm:"column:sub_category;type:text" json:"sub_category,omitempty"`
	Language    string  `gorm:"column:language;type:text" json:"language"`
	Active      bool    `gorm:"column:active" json:"active"`
	Body        string  `gorm:"column:body;type:text" json:"body"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (DocumentTemplate) TableName() string { return "document_templates" }
