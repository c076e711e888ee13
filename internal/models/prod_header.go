package models

import "time"

// ProdHeader is a production order header as listed by the label backend.
// The backend id is used as primary key so the sync loop can upsert.
type ProdHeader struct {
	ID               int64     `gorm:"primaryKey;autoIncrement:false" json:"id"`
	ProdIndex        string    `gorm:"index" json:"prod_index"`
	ProdNo           string    `gorm:"uniqueIndex;not null" json:"prod_no"`
	PlanningDate     string    `json:"planning_date"`
	Item             string    `json:"item"`
	OldPartNo        string    `gorm:"column:old_partno" json:"old_partno"`
	Description      string    `json:"description"`
	MatDesc          string    `json:"mat_desc"`
	Customer         string    `json:"customer"`
	Model            string    `json:"model"`
	UniqueNo         string    `json:"unique_no"`
	SanohCode        string    `json:"sanoh_code"`
	Snp              int       `json:"snp"`
	Sts              int       `json:"sts"`
	Status           string    `json:"status"`
	QtyOrder         int       `json:"qty_order"`
	QtyDelivery      int       `json:"qty_delivery"`
	QtyOs            int       `json:"qty_os"`
	Warehouse        string    `json:"warehouse"`
	Divisi           string    `json:"divisi"`
	BackendCreatedAt string    `json:"created_at"`
	BackendUpdatedAt string    `json:"updated_at"`
	LastSyncedAt     time.Time `gorm:"index" json:"last_synced_at"`
}

// TableName specifies the table name for ProdHeader model
func (ProdHeader) TableName() string {
	return "prod_headers"
}

// DisplayDescription prefers the material description over the item description
func (h ProdHeader) DisplayDescription() string {
	if h.MatDesc != "" {
		return h.MatDesc
	}
	return h.Description
}

// OrderHeader returns the batch context carried onto printed labels
func (h ProdHeader) OrderHeader() *OrderHeader {
	return &OrderHeader{ProdNo: h.ProdNo, ProdIndex: h.ProdIndex, Sts: h.Sts}
}
