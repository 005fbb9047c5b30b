package pricing

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mmynk/sharebook/internal/models"
)

// Translator resolves message keys and formats values for display.
type Translator interface {
	// Get returns the message for key with {placeholder} params replaced.
	Get(key string, params map[string]any) string
	FormatPrice(value float64) string
	FormatDate(t time.Time) string
}

// storageTBThreshold is the requested amount in GB from which storage is
// shown in TB.
const storageTBThreshold = 1000

// BookingText describes what is ordered.
func BookingText(tr Translator, quote *models.PriceQuote, req Request) string {
	if IsSingleType(quote, req.Feature) {
		return singleBookingText(tr, quote, req.Feature, req.Count)
	}
	return incrementalBookingText(tr, quote, req)
}

func singleBookingText(tr Translator, quote *models.PriceQuote, feature models.FeatureType, count int) string {
	n := strconv.Itoa(count)
	switch feature {
	case models.FeatureUsers:
		if count <= 0 {
			return tr.Get("cancelUserAccounts_label", map[string]any{"1": abs(count)})
		}
		var addOns []string
		if EffectivePrice(quote.FuturePriceNextPeriod, models.FeatureBranding) > 0 {
			addOns = append(addOns, tr.Get("whitelabel_label", nil))
		}
		if EffectivePrice(quote.FuturePriceNextPeriod, models.FeatureSharing) > 0 {
			addOns = append(addOns, tr.Get("sharingFeature_label", nil))
		}
		if len(addOns) == 0 {
			return n + " " + tr.Get("bookingItemUsers_label", nil)
		}
		return n + " " + tr.Get("bookingItemUsersIncluding_label", nil) + " " + strings.Join(addOns, ", ")

	case models.FeatureBranding:
		if count > 0 {
			return tr.Get("whitelabelBooking_label", map[string]any{"1": itemCount(quote.FuturePriceNextPeriod, feature)})
		}
		return tr.Get("cancelWhitelabelBooking_label", map[string]any{"1": itemCount(quote.CurrentPriceNextPeriod, feature)})

	case models.FeatureSharing:
		if count > 0 {
			return tr.Get("sharingBooking_label", map[string]any{"1": itemCount(quote.FuturePriceNextPeriod, feature)})
		}
		return tr.Get("cancelSharingBooking_label", map[string]any{"1": itemCount(quote.CurrentPriceNextPeriod, feature)})

	case models.FeatureContactForm:
		if count > 0 {
			return n + " " + tr.Get(plural(count, "contactForm_label", "contactForms_label"), nil)
		}
		return tr.Get("cancelContactForm_label", nil)

	case models.FeatureSharedMailGroup:
		if count > 0 {
			return n + " " + tr.Get(plural(count, "sharedMailbox_label", "sharedMailboxes_label"), nil)
		}
		return tr.Get("cancelSharedMailbox_label", nil)

	case models.FeatureLocalAdminGroup:
		if count > 0 {
			return n + " " + tr.Get(plural(count, "localAdminGroup_label", "localAdminGroups_label"), nil)
		}
		return tr.Get("cancelLocalAdminGroup_label", nil)
	}
	return ""
}

func incrementalBookingText(tr Translator, quote *models.PriceQuote, req Request) string {
	visible := max(req.Count, req.FreeAmount)
	switch req.Feature {
	case models.FeatureStorage:
		if req.Count < storageTBThreshold {
			return tr.Get("storageCapacity_label", nil) + " " + strconv.Itoa(visible) + " GB"
		}
		tb := float64(visible) / storageTBThreshold
		return tr.Get("storageCapacity_label", nil) + " " + strconv.FormatFloat(tb, 'f', -1, 64) + " TB"

	case models.FeatureUsers:
		packages := itemCount(quote.FuturePriceNextPeriod, req.Feature)
		if req.Count > 0 {
			return tr.Get("packageUpgradeUserAccounts_label", map[string]any{"1": packages})
		}
		return tr.Get("packageDowngradeUserAccounts_label", map[string]any{"1": packages})

	case models.FeatureAlias:
		return strconv.Itoa(visible) + " " + tr.Get("mailAddressAliases_label", nil)
	}
	return ""
}

// SubscriptionText names the billing period of the future subscription.
func SubscriptionText(tr Translator, quote *models.PriceQuote) string {
	period := "pricing.monthly_label"
	if quote.FuturePriceNextPeriod.Yearly() {
		period = "pricing.yearly_label"
	}
	return tr.Get(period, nil) + ", " + tr.Get("automaticRenewal_label", nil)
}

// SubscriptionInfoText names the end of the current subscription period.
func SubscriptionInfoText(tr Translator, quote *models.PriceQuote) string {
	return tr.Get("endOfSubscriptionPeriod_label", map[string]any{"1": tr.FormatDate(quote.PeriodEndDate)})
}

// PriceText is the price line: the signed difference for flat fees, the new
// total for incremental features.
func PriceText(tr Translator, quote *models.PriceQuote, feature models.FeatureType) string {
	future := EffectivePrice(quote.FuturePriceNextPeriod, feature)
	price := future
	if IsSingleType(quote, feature) {
		price = future - EffectivePrice(quote.CurrentPriceNextPeriod, feature)
	}

	period := "pricing.perMonth_label"
	if quote.FuturePriceNextPeriod.Yearly() {
		period = "pricing.perYear_label"
	}
	tax := "net_label"
	if quote.FuturePriceNextPeriod != nil && quote.FuturePriceNextPeriod.TaxIncluded {
		tax = "gross_label"
	}
	return tr.FormatPrice(price) + " " + tr.Get(period, nil) + " (" + tr.Get(tax, nil) + ")"
}

// PriceInfoText explains when the price applies.
func PriceInfoText(tr Translator, quote *models.PriceQuote, feature models.FeatureType) string {
	if Classify(quote, feature) == Decrease {
		return tr.Get("priceChangeValidFrom_label", map[string]any{"1": tr.FormatDate(quote.PeriodEndDate)})
	}
	if quote.CurrentPeriodAddedPrice != nil && *quote.CurrentPeriodAddedPrice >= 0 {
		return tr.Get("priceForCurrentAccountingPeriod_label", map[string]any{"1": tr.FormatPrice(*quote.CurrentPeriodAddedPrice)})
	}
	return ""
}

func itemCount(data *models.PriceData, feature models.FeatureType) int {
	if item := data.Item(feature); item != nil {
		return item.Count
	}
	return 0
}

func plural(count int, singular, pluralKey string) string {
	if count == 1 {
		return singular
	}
	return pluralKey
}

func abs(n int) int {
	return int(math.Abs(float64(n)))
}
