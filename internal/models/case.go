package models

import "time"

const CaseStatusDraft = "draft"

type LegalCase struct {
	ID     string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"column:user_id;type:uuid;index" json:"user_id"`

	ReferenceNumber string  `gorm:"column:reference_number;type:text;uniqueIndex" json:"reference_number"`
	IssueType       string  `gorm:"column:issue_type;type:text" json:"issue_type"`
	SubCategory     *string `gorm:"column:sub_category;type:text" json:"sub_category,omitempty"`
	Status          string  `gorm:"column:status;type:text" json:"status"`

	SuggestedAuthority *string `gorm:"column:suggested_authority;type:text" json:"suggested_authority,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (LegalCase) TableName() string { return "legal_cases" }

// CaseFact mirrors SessionFact but is addressed by case.
type CaseFact struct {
	ID     string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CaseID string `gorm:"column:case_id;type:uuid;uniqueIndex:uniq_case_fact" json:"case_id"`

	FieldName  string   `gorm:"column:field_name;type:text;uniqueIndex:uniq_case_fact" json:"field_name"`
	FieldValue string   `gorm:"column:field_value;type:text" json:"field_value"`
	Confirmed  bool     `gorm:"column:confirmed" json:"confirmed"`
	Source     string   `gorm:"column:source;type:text" json:"source"`
	Confidence *float64 `gorm:"column:confidence" json:"confidence,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
}

func (CaseFact) TableName() string { return "case_facts" }

// RefCounter backs reference number generation; one row per year,
// incremented inside a transaction.
type RefCounter struct {
	Year int   `gorm:"column:year;primaryKey"`
	Seq  int64 `gorm:"column:seq"`
}

func (RefCounter) TableName() string { return "ref_counters" }
