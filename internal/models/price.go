package models

import (
	"fmt"
	"strings"
	"time"
)

// FeatureType identifies a bookable feature.
type FeatureType int

const (
	FeatureUsers           FeatureType = 0
	FeatureStorage         FeatureType = 1
	FeatureAlias           FeatureType = 2
	FeatureSharedMailGroup FeatureType = 3
	FeatureBranding        FeatureType = 4
	FeatureContactForm     FeatureType = 5
	FeatureLocalAdminGroup FeatureType = 7
	FeatureSharing         FeatureType = 9
)

var featureNames = map[FeatureType]string{
	FeatureUsers:           "users",
	FeatureStorage:         "storage",
	FeatureAlias:           "alias",
	FeatureSharedMailGroup: "shared_mail_group",
	FeatureBranding:        "branding",
	FeatureContactForm:     "contact_form",
	FeatureLocalAdminGroup: "local_admin_group",
	FeatureSharing:         "sharing",
}

func (f FeatureType) String() string {
	if name, ok := featureNames[f]; ok {
		return name
	}
	return fmt.Sprintf("feature(%d)", int(f))
}

// ParseFeatureType parses the name produced by String.
func ParseFeatureType(s string) (FeatureType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for f, name := range featureNames {
		if name == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown feature type %q", s)
}

// PaymentIntervalYearly is the PaymentInterval value of yearly billing.
const PaymentIntervalYearly = 12

// PriceItem is one priced line of a PriceData snapshot.
type PriceItem struct {
	FeatureType FeatureType `json:"featureType"`
	Count       int         `json:"count"`
	Price       float64     `json:"price"`

	// SingleType marks flat per-period fees as opposed to features priced per
	// unit increment.
	SingleType bool `json:"singleType"`
}

// PriceData is a price snapshot for one billing period.
type PriceData struct {
	Price           float64     `json:"price"`
	TaxIncluded     bool        `json:"taxIncluded"`
	PaymentInterval int         `json:"paymentInterval"`
	Items           []PriceItem `json:"items"`
}

// Item returns the line item for feature, or nil. It is safe to call on a nil
// snapshot.
func (d *PriceData) Item(feature FeatureType) *PriceItem {
	if d == nil {
		return nil
	}
	for i := range d.Items {
		if d.Items[i].FeatureType == feature {
			return &d.Items[i]
		}
	}
	return nil
}

// Yearly reports whether the snapshot is billed yearly.
func (d *PriceData) Yearly() bool {
	return d != nil && d.PaymentInterval == PaymentIntervalYearly
}

// PriceQuote is the server's answer to a price request for a feature change.
type PriceQuote struct {
	CurrentPriceThisPeriod *PriceData `json:"currentPriceThisPeriod,omitempty"`
	CurrentPriceNextPeriod *PriceData `json:"currentPriceNextPeriod,omitempty"`
	FuturePriceNextPeriod  *PriceData `json:"futurePriceNextPeriod,omitempty"`

	// CurrentPeriodAddedPrice is the prorated amount charged for the rest of
	// the current period. Nil when the server did not compute one.
	CurrentPeriodAddedPrice *float64 `json:"currentPeriodAddedPrice,omitempty"`

	PeriodEndDate time.Time `json:"periodEndDate"`
}
