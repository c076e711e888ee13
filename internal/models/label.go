package models

// LabelRecord is one physical label returned by the label backend.
// LabelID keys selection and print audit; it is expected to be unique within
// a batch but is never deduplicated.
type LabelRecord struct {
	LabelID       int    `json:"label_id"`
	PartNo        string `json:"part_no,omitempty"`
	Description   string `json:"description,omitempty"`
	MatDesc       string `json:"mat_desc,omitempty"`
	LotNo         string `json:"lot_no,omitempty"`
	Customer      string `json:"customer,omitempty"`
	Model         string `json:"model,omitempty"`
	Date          string `json:"date,omitempty"`
	BackNo        string `json:"back_no,omitempty"`
	TmminID       string `json:"tmmin_id,omitempty"`
	UniqueNo      string `json:"unique_no,omitempty"`
	Karakteristik string `json:"karakteristik,omitempty"`
	Qty           int    `json:"qty"`
	LotDate       string `json:"lot_date,omitempty"`
	LotQty        int    `json:"lot_qty,omitempty"`
	PrintData     string `json:"print_data"`
}

// DisplayDescription returns the material description when the backend
// provides one, otherwise the plain part description.
func (l LabelRecord) DisplayDescription() string {
	if l.MatDesc != "" {
		return l.MatDesc
	}
	return l.Description
}

// OrderHeader is the production order context shared by every label of a batch
type OrderHeader struct {
	ProdNo    string `json:"prod_no"`
	ProdIndex string `json:"prod_index"`
	Sts       int    `json:"sts,omitempty"`
}

// LabelIDs returns the ids of labels in input order
func LabelIDs(labels []LabelRecord) []int {
	ids := make([]int, 0, len(labels))
	for _, l := range labels {
		ids = append(ids, l.LabelID)
	}
	return ids
}
