package entity

import "time"

// PaymentRequest is the unit of work routed through the approval ladder.
type PaymentRequest struct {
	ID              int64  `json:"id"`
	ReferenceNumber string `json:"reference_number"`
	RequesterID     string `json:"requester_id"`
	EntityID        string `json:"entity_id"`
	VendorName      string `json:"vendor_name"`
	Description     string `json:"description"`

	Amount           float64  `json:"amount"`
	CurrencyCode     string   `json:"currency_code"`
	ExchangeRate     float64  `json:"exchange_rate"`
	TotalAmountINR   float64  `json:"total_amount_inr"`
	NetPayableAmount *float64 `json:"net_payable_amount,omitempty"`

	IsCritical    bool `json:"is_critical"`
	GSTApplicable bool `json:"gst_applicable"`
	TDSApplicable bool `json:"tds_applicable"`

	// Status is the encoded workflow status, e.g. "PENDING_FINANCE_VETTING".
	// CurrentLevel is a denormalized projection of the single PENDING step;
	// both are written only by the transition functions, in the same
	// transaction, never independently.
	Status       string `json:"status"`
	CurrentLevel string `json:"current_level,omitempty"`

	ResubmissionCount int  `json:"resubmission_count"`
	NeedsAdminReview  bool `json:"needs_admin_review"`

	PaymentReferenceNumber string     `json:"payment_reference_number,omitempty"`
	PaymentMode            string     `json:"payment_mode,omitempty"`
	PaymentDate            *time.Time `json:"payment_date,omitempty"`
	DisbursedAt            *time.Time `json:"disbursed_at,omitempty"`

	// Version backs optimistic locking; every status-mutating update must
	// match the version it read or fail with a conflict.
	Version int64 `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecomputeTotal keeps the base-currency amount in lockstep with the original
// amount and exchange rate.
func (r *PaymentRequest) RecomputeTotal() {
	r.TotalAmountINR = r.Amount * r.ExchangeRate
}

// DisbursableAmount is the amount disbursement proof must correspond to: the
// net payable amount when the approval chain settled one, else the full
// base-currency amount. Tax is never recomputed at disbursement time.
func (r *PaymentRequest) DisbursableAmount() float64 {
	if r.NetPayableAmount != nil {
		return *r.NetPayableAmount
	}
	return r.TotalAmountINR
}
