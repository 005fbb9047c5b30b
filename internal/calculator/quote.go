// Package calculator computes price quotes for feature bookings.
package calculator

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/mmynk/sharebook/internal/models"
)

// PriceListEntry is the monthly net price of one unit of a feature.
type PriceListEntry struct {
	UnitPrice  float64
	SingleType bool
}

// PriceList maps every bookable feature to its price.
type PriceList map[models.FeatureType]PriceListEntry

// DefaultPriceList returns the monthly prices used by the server.
// Branding and Sharing are charged per user seat.
func DefaultPriceList() PriceList {
	return PriceList{
		models.FeatureUsers:           {UnitPrice: 1.20, SingleType: true},
		models.FeatureBranding:        {UnitPrice: 0.60, SingleType: true},
		models.FeatureSharing:         {UnitPrice: 0.24, SingleType: true},
		models.FeatureContactForm:     {UnitPrice: 24.00, SingleType: true},
		models.FeatureSharedMailGroup: {UnitPrice: 1.20, SingleType: true},
		models.FeatureLocalAdminGroup: {UnitPrice: 1.20, SingleType: true},
		models.FeatureStorage:         {UnitPrice: 0.02},
		models.FeatureAlias:           {UnitPrice: 0.05},
	}
}

// yearlyFactor is the number of monthly prices charged for a yearly period.
const yearlyFactor = 10

// QuoteInput describes a requested booking change.
type QuoteInput struct {
	// Bookings is the customer's current booked count per feature.
	Bookings map[models.FeatureType]int

	Feature models.FeatureType

	// Count is a delta for single-valued features and the new absolute amount
	// for incremental ones.
	Count int

	// Reactivate quotes a booking for a customer whose subscription ends with
	// the current period.
	Reactivate bool

	TaxIncluded     bool
	PaymentInterval int

	// PeriodStart is the start of the customer's first billing period.
	PeriodStart time.Time
	Now         time.Time
}

// IsPerSeat reports whether the feature is an on/off add-on charged per user.
func IsPerSeat(feature models.FeatureType) bool {
	return feature == models.FeatureBranding || feature == models.FeatureSharing
}

// ApplyBooking returns a copy of bookings with the requested change applied.
func (l PriceList) ApplyBooking(bookings map[models.FeatureType]int, feature models.FeatureType, count int) (map[models.FeatureType]int, error) {
	entry, ok := l[feature]
	if !ok {
		return nil, fmt.Errorf("feature %v is not bookable", feature)
	}

	next := make(map[models.FeatureType]int, len(bookings)+1)
	for f, c := range bookings {
		next[f] = c
	}

	switch {
	case IsPerSeat(feature):
		next[feature] = clamp(next[feature]+count, 0, 1)
	case entry.SingleType:
		next[feature] = max(0, next[feature]+count)
	default:
		if count < 0 {
			return nil, fmt.Errorf("amount for %v cannot be negative: %d", feature, count)
		}
		next[feature] = count
	}
	if next[feature] == 0 {
		delete(next, feature)
	}
	return next, nil
}

// PriceData prices a set of bookings for one billing period.
func (l PriceList) PriceData(bookings map[models.FeatureType]int, taxIncluded bool, paymentInterval int) *models.PriceData {
	factor := 1.0
	if paymentInterval == models.PaymentIntervalYearly {
		factor = yearlyFactor
	}
	seats := bookings[models.FeatureUsers]

	data := &models.PriceData{
		TaxIncluded:     taxIncluded,
		PaymentInterval: paymentInterval,
		Items:           []models.PriceItem{},
	}

	features := make([]models.FeatureType, 0, len(bookings))
	for f := range bookings {
		features = append(features, f)
	}
	sort.Slice(features, func(i, j int) bool { return features[i] < features[j] })

	for _, f := range features {
		entry, ok := l[f]
		count := bookings[f]
		if !ok || count <= 0 {
			continue
		}
		if IsPerSeat(f) {
			count = seats
			if count <= 0 {
				continue
			}
		}
		price := roundCents(entry.UnitPrice * float64(count) * factor)
		data.Items = append(data.Items, models.PriceItem{
			FeatureType: f,
			Count:       count,
			Price:       price,
			SingleType:  entry.SingleType,
		})
		data.Price += price
	}
	data.Price = roundCents(data.Price)
	return data
}

// CalculateQuote prices the current and requested state of a customer's
// bookings.
func (l PriceList) CalculateQuote(in QuoteInput) (*models.PriceQuote, error) {
	if in.PaymentInterval <= 0 {
		in.PaymentInterval = 1
	}
	future, err := l.ApplyBooking(in.Bookings, in.Feature, in.Count)
	if err != nil {
		return nil, err
	}

	thisPeriod := l.PriceData(in.Bookings, in.TaxIncluded, in.PaymentInterval)
	nextPeriod := thisPeriod
	if in.Reactivate {
		nextPeriod = l.PriceData(nil, in.TaxIncluded, in.PaymentInterval)
	}
	futureNext := l.PriceData(future, in.TaxIncluded, in.PaymentInterval)

	start, end := Period(in.PeriodStart, in.PaymentInterval, in.Now)
	remaining := 0.0
	if total := end.Sub(start); total > 0 {
		remaining = float64(end.Sub(in.Now)) / float64(total)
	}
	added := roundCents(max(0, (futureNext.Price-nextPeriod.Price)*remaining))

	return &models.PriceQuote{
		CurrentPriceThisPeriod:  thisPeriod,
		CurrentPriceNextPeriod:  nextPeriod,
		FuturePriceNextPeriod:   futureNext,
		CurrentPeriodAddedPrice: &added,
		PeriodEndDate:           end,
	}, nil
}

// Period returns the billing period containing now. Periods are
// paymentInterval months long and start at first.
func Period(first time.Time, paymentInterval int, now time.Time) (time.Time, time.Time) {
	if paymentInterval <= 0 {
		paymentInterval = 1
	}
	start := first
	if now.Before(first) {
		return first, first.AddDate(0, paymentInterval, 0)
	}
	for {
		end := start.AddDate(0, paymentInterval, 0)
		if now.Before(end) {
			return start, end
		}
		start = end
	}
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
