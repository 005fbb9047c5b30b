package models

// AccountType is the plan of a customer.
type AccountType string

const (
	AccountTypeFree    AccountType = "free"
	AccountTypePremium AccountType = "premium"
)

// Customer is the billing account users and groups belong to.
type Customer struct {
	ID   string      `json:"id"`
	Type AccountType `json:"type"`

	// CanceledPremiumAccount is set once a premium subscription was cancelled.
	// No further bookings are possible afterwards.
	CanceledPremiumAccount bool `json:"canceledPremiumAccount"`

	// AccountingInfoID points at the customer's AccountingInfo.
	AccountingInfoID string `json:"accountingInfoId"`

	// HideBuyDialogs disables booking confirmations for this customer.
	HideBuyDialogs bool `json:"hideBuyDialogs"`

	// PaymentInterval is the billing period in months (1 or 12).
	PaymentInterval int `json:"paymentInterval"`

	// TaxIncluded reports whether prices are shown gross.
	TaxIncluded bool `json:"taxIncluded"`

	// PeriodStart is the Unix timestamp the first billing period started at.
	PeriodStart int64 `json:"periodStart"`
}

// AccountingInfo holds invoice data of a customer.
type AccountingInfo struct {
	ID             string `json:"id"`
	InvoiceCountry string `json:"invoiceCountry,omitempty"`
}
