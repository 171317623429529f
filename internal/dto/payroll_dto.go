package dto

// TaxPreviewRequest carries the annual salary components to preview tax for.
type TaxPreviewRequest struct {
	BasicSalary     float64 `json:"basic_salary" validate:"gte=0"`
	TotalAllowances float64 `json:"total_allowances" validate:"gte=0"`
}
