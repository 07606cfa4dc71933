//revive:disable-next-line:var-naming // package name mirrors the domain records it holds
package model

import "strings"

// PaymentStatus tracks settlement of a farmer payment.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// ParsePaymentStatus normalizes a status string and reports whether it is supported.
func ParsePaymentStatus(value string) (PaymentStatus, bool) {
	s := PaymentStatus(strings.ToLower(strings.TrimSpace(value)))
	switch s {
	case PaymentStatusPending, PaymentStatusPaid:
		return s, true
	default:
		return "", false
	}
}

// Payment is money owed to a farmer for a batch.
type Payment struct {
	PaymentID     string        `json:"payment_id"`
	FarmerID      string        `json:"farmer_id"`
	BatchID       string        `json:"batch_id"`
	TotalPrawns   float64       `json:"total_prawns"`
	PricePerKG    float64       `json:"price_per_kg"`
	GrossAmount   float64       `json:"gross_amount"`
	Deductions    float64       `json:"deductions"`
	NetAmount     float64       `json:"net_amount"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentDate   *Timestamp    `json:"payment_date,omitempty"`
	CreatedAt     Timestamp     `json:"created_at"`
}

// CreatePaymentRequest represents parameters to raise a payment.
type CreatePaymentRequest struct {
	FarmerID   string  `json:"farmer_id"`
	BatchID    string  `json:"batch_id"`
	PricePerKG float64 `json:"price_per_kg"`
	Deductions float64 `json:"deductions"`
}

// FarmerStats is the farmer dashboard aggregate.
type FarmerStats struct {
	TotalBatches        int       `json:"total_batches"`
	TotalPrawnsSupplied float64   `json:"total_prawns_supplied"`
	TotalPayments       float64   `json:"total_payments"`
	PendingPayments     float64   `json:"pending_payments"`
	Payments            []Payment `json:"payments"`
}

// AdminDashboard is the plant-wide aggregate shown to admins and owners.
type AdminDashboard struct {
	TotalProcurement float64 `json:"total_procurement"`
	YieldPercentage  float64 `json:"yield_percentage"`
	TotalPayments    float64 `json:"total_payments"`
	PendingPayments  float64 `json:"pending_payments"`
	AvgSellingPrice  float64 `json:"avg_selling_price"`
	TotalBatches     int     `json:"total_batches"`
	TotalFarmers     int     `json:"total_farmers"`
	TotalDispatches  int     `json:"total_dispatches"`
}
