// Package pricing decides how a requested feature booking changes the price
// of a subscription and renders the texts of the booking confirmation.
//
// Everything here is a pure function of a models.PriceQuote. Quotes are never
// mutated.
package pricing

import (
	"github.com/mmynk/sharebook/internal/models"
)

// Change classifies the price effect of a booking request.
type Change int

const (
	// NoChange needs no confirmation at all.
	NoChange Change = iota
	// Increase is confirmed with the buy action.
	Increase
	// Decrease is confirmed with the order action and takes effect at the
	// end of the current period.
	Decrease
)

func (c Change) String() string {
	switch c {
	case Increase:
		return "increase"
	case Decrease:
		return "decrease"
	default:
		return "no_change"
	}
}

// EffectivePrice returns the price of feature in data, or 0 when data has no
// line item for it. User seats include the per-seat add-ons Branding and
// Sharing.
func EffectivePrice(data *models.PriceData, feature models.FeatureType) float64 {
	price := 0.0
	if item := data.Item(feature); item != nil {
		price = item.Price
	}
	if feature == models.FeatureUsers {
		price += EffectivePrice(data, models.FeatureBranding)
		price += EffectivePrice(data, models.FeatureSharing)
	}
	return price
}

// Classify compares the effective price of feature for the next period
// before and after the requested change.
func Classify(quote *models.PriceQuote, feature models.FeatureType) Change {
	current := EffectivePrice(quote.CurrentPriceNextPeriod, feature)
	future := EffectivePrice(quote.FuturePriceNextPeriod, feature)
	switch {
	case current < future:
		return Increase
	case current > future:
		return Decrease
	default:
		return NoChange
	}
}

// IsSingleType reports whether feature is priced as a flat fee. The line item
// of the future snapshot wins over the current one. Without any line item the
// feature counts as incremental.
func IsSingleType(quote *models.PriceQuote, feature models.FeatureType) bool {
	item := quote.FuturePriceNextPeriod.Item(feature)
	if item == nil {
		item = quote.CurrentPriceThisPeriod.Item(feature)
	}
	return item != nil && item.SingleType
}

// Request is a booking request as seen by the confirmation.
type Request struct {
	Feature models.FeatureType

	// Count is the requested change. Negative values cancel.
	Count int

	// FreeAmount is the amount included in the plan for free. Incremental
	// features never display less than that.
	FreeAmount int
}

// Decision is everything the booking confirmation shows.
type Decision struct {
	Change Change

	// Skip is set when no confirmation is needed.
	Skip bool

	Order string

	// Subscription and SubscriptionInfo are only set for an Increase.
	Subscription     string
	SubscriptionInfo string

	Price     string
	PriceInfo string

	// Action is the label key of the confirming button.
	Action string
}

// Decide classifies the request and renders all confirmation texts.
func Decide(tr Translator, quote *models.PriceQuote, req Request) Decision {
	change := Classify(quote, req.Feature)
	if change == NoChange {
		return Decision{Change: NoChange, Skip: true}
	}

	d := Decision{
		Change:    change,
		Order:     BookingText(tr, quote, req),
		Price:     PriceText(tr, quote, req.Feature),
		PriceInfo: PriceInfoText(tr, quote, req.Feature),
		Action:    "order_action",
	}
	if change == Increase {
		d.Subscription = SubscriptionText(tr, quote)
		d.SubscriptionInfo = SubscriptionInfoText(tr, quote)
		d.Action = "buy_action"
	}
	return d
}
