package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PrintJobStatus defines the lifecycle of an exported label document
type PrintJobStatus string

const (
	PrintJobGenerated     PrintJobStatus = "generated"      // PDF produced and handed to the operator
	PrintJobFailed        PrintJobStatus = "failed"         // Rendering failed
	PrintJobMarkedPrinted PrintJobStatus = "marked_printed" // Backend acknowledged mark-printed
)

// PrintJob is the audit row written for every label export
type PrintJob struct {
	ID              string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ProdNo          string         `gorm:"index" json:"prod_no"`
	ProdIndex       string         `json:"prod_index"`
	LabelIDs        datatypes.JSON `json:"label_ids"`
	LabelCount      int            `json:"label_count"`
	PageCount       int            `json:"page_count"`
	ByteSize        int            `json:"byte_size"`
	Status          PrintJobStatus `gorm:"index;not null" json:"status"`
	Error           string         `gorm:"type:text" json:"error,omitempty"`
	RequestedBy     string         `json:"requested_by"`
	MarkedPrintedAt *time.Time     `json:"marked_printed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for PrintJob model
func (PrintJob) TableName() string {
	return "print_jobs"
}

// BeforeCreate assigns a UUID when the caller did not
func (j *PrintJob) BeforeCreate(tx *gorm.DB) error {
	if j.ID == "" {
		j.ID = uuid.New().String()
	}
	return nil
}

// SetLabelIDs stores ids as a JSON array
func (j *PrintJob) SetLabelIDs(ids []int) error {
	if ids == nil {
		ids = []int{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	j.LabelIDs = datatypes.JSON(raw)
	j.LabelCount = len(ids)
	return nil
}

// GetLabelIDs decodes the stored label ids
func (j *PrintJob) GetLabelIDs() ([]int, error) {
	var ids []int
	if len(j.LabelIDs) == 0 {
		return ids, nil
	}
	if err := json.Unmarshal(j.LabelIDs, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
