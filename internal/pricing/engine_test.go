package pricing

import (
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/mmynk/sharebook/internal/models"
)

// keyTranslator renders keys verbatim so tests can assert on message choice.
type keyTranslator struct{}

func (keyTranslator) Get(key string, params map[string]any) string {
	if len(params) == 0 {
		return key
	}
	parts := make([]string, 0, len(params))
	for k, v := range params {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	sort.Strings(parts)
	return key + "[" + strings.Join(parts, ",") + "]"
}

func (keyTranslator) FormatPrice(v float64) string { return fmt.Sprintf("%.2f", v) }

func (keyTranslator) FormatDate(t time.Time) string { return t.Format("2006-01-02") }

var periodEnd = time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)

func data(interval int, tax bool, items ...models.PriceItem) *models.PriceData {
	d := &models.PriceData{PaymentInterval: interval, TaxIncluded: tax, Items: items}
	for _, it := range items {
		d.Price += it.Price
	}
	return d
}

func item(f models.FeatureType, count int, price float64, single bool) models.PriceItem {
	return models.PriceItem{FeatureType: f, Count: count, Price: price, SingleType: single}
}

func quote(current, future *models.PriceData, added *float64) *models.PriceQuote {
	return &models.PriceQuote{
		CurrentPriceThisPeriod:  current,
		CurrentPriceNextPeriod:  current,
		FuturePriceNextPeriod:   future,
		CurrentPeriodAddedPrice: added,
		PeriodEndDate:           periodEnd,
	}
}

func ptr(v float64) *float64 { return &v }

func TestEffectivePrice(t *testing.T) {
	d := data(1, true,
		item(models.FeatureUsers, 2, 2.40, true),
		item(models.FeatureBranding, 2, 1.20, true),
		item(models.FeatureSharing, 2, 0.48, true),
		item(models.FeatureStorage, 10, 0.20, false),
	)

	tests := []struct {
		name    string
		data    *models.PriceData
		feature models.FeatureType
		want    float64
	}{
		{"users include add-ons", d, models.FeatureUsers, 4.08},
		{"branding alone", d, models.FeatureBranding, 1.20},
		{"storage", d, models.FeatureStorage, 0.20},
		{"missing item", d, models.FeatureAlias, 0},
		{"nil snapshot", nil, models.FeatureUsers, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EffectivePrice(tt.data, tt.feature)
			if diff := got - tt.want; diff > 0.0001 || diff < -0.0001 {
				t.Errorf("EffectivePrice() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		q    *models.PriceQuote
		want Change
	}{
		{"both zero", quote(data(1, true), data(1, true), nil), NoChange},
		{"increase", quote(data(1, true, item(models.FeatureUsers, 1, 1.2, true)),
			data(1, true, item(models.FeatureUsers, 2, 2.4, true)), nil), Increase},
		{"decrease", quote(data(1, true, item(models.FeatureUsers, 2, 2.4, true)),
			data(1, true, item(models.FeatureUsers, 1, 1.2, true)), nil), Decrease},
		{"add-on counts for users", quote(data(1, true, item(models.FeatureUsers, 1, 1.2, true)),
			data(1, true, item(models.FeatureUsers, 1, 1.2, true), item(models.FeatureSharing, 1, 0.24, true)), nil), Increase},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.q, models.FeatureUsers); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsSingleType(t *testing.T) {
	current := data(1, true, item(models.FeatureStorage, 10, 0.2, true))
	future := data(1, true, item(models.FeatureStorage, 20, 0.4, false))

	if IsSingleType(quote(current, future, nil), models.FeatureStorage) {
		t.Error("future snapshot should win")
	}
	if !IsSingleType(quote(current, data(1, true), nil), models.FeatureStorage) {
		t.Error("current snapshot should be used when future has no item")
	}
	if IsSingleType(quote(nil, nil, nil), models.FeatureStorage) {
		t.Error("no item should be incremental")
	}
}

func TestBookingText(t *testing.T) {
	tr := keyTranslator{}
	users := func(n int, price float64) models.PriceItem { return item(models.FeatureUsers, n, price, true) }

	tests := []struct {
		name string
		q    *models.PriceQuote
		req  Request
		want string
	}{
		{
			name: "users increase without add-ons",
			q:    quote(data(1, true, users(1, 1.2)), data(1, true, users(3, 3.6)), nil),
			req:  Request{Feature: models.FeatureUsers, Count: 2},
			want: "2 bookingItemUsers_label",
		},
		{
			name: "users increase with add-ons",
			q: quote(data(1, true, users(1, 1.2)), data(1, true, users(2, 2.4),
				item(models.FeatureBranding, 2, 1.2, true), item(models.FeatureSharing, 2, 0.48, true)), nil),
			req:  Request{Feature: models.FeatureUsers, Count: 1},
			want: "1 bookingItemUsersIncluding_label whitelabel_label, sharingFeature_label",
		},
		{
			name: "users decrease shows absolute count",
			q:    quote(data(1, true, users(5, 6)), data(1, true, users(2, 2.4)), nil),
			req:  Request{Feature: models.FeatureUsers, Count: -3},
			want: "cancelUserAccounts_label[1=3]",
		},
		{
			name: "sharing booking uses future count",
			q:    quote(data(1, true), data(1, true, item(models.FeatureSharing, 4, 0.96, true)), nil),
			req:  Request{Feature: models.FeatureSharing, Count: 1},
			want: "sharingBooking_label[1=4]",
		},
		{
			name: "branding cancel uses current count",
			q:    quote(data(1, true, item(models.FeatureBranding, 3, 1.8, true)), data(1, true), nil),
			req:  Request{Feature: models.FeatureBranding, Count: -1},
			want: "cancelWhitelabelBooking_label[1=3]",
		},
		{
			name: "one shared mailbox",
			q:    quote(data(1, true), data(1, true, item(models.FeatureSharedMailGroup, 1, 1.2, true)), nil),
			req:  Request{Feature: models.FeatureSharedMailGroup, Count: 1},
			want: "1 sharedMailbox_label",
		},
		{
			name: "several local admin groups",
			q:    quote(data(1, true), data(1, true, item(models.FeatureLocalAdminGroup, 2, 2.4, true)), nil),
			req:  Request{Feature: models.FeatureLocalAdminGroup, Count: 2},
			want: "2 localAdminGroups_label",
		},
		{
			name: "several contact forms",
			q:    quote(data(1, true), data(1, true, item(models.FeatureContactForm, 3, 72, true)), nil),
			req:  Request{Feature: models.FeatureContactForm, Count: 3},
			want: "3 contactForms_label",
		},
		{
			name: "cancel contact form",
			q:    quote(data(1, true, item(models.FeatureContactForm, 1, 24, true)), data(1, true), nil),
			req:  Request{Feature: models.FeatureContactForm, Count: -1},
			want: "cancelContactForm_label",
		},
		{
			name: "storage in GB",
			q:    quote(data(1, true), data(1, true, item(models.FeatureStorage, 500, 10, false)), nil),
			req:  Request{Feature: models.FeatureStorage, Count: 500, FreeAmount: 50},
			want: "storageCapacity_label 500 GB",
		},
		{
			name: "storage in TB",
			q:    quote(data(1, true), data(1, true, item(models.FeatureStorage, 1500, 30, false)), nil),
			req:  Request{Feature: models.FeatureStorage, Count: 1500, FreeAmount: 50},
			want: "storageCapacity_label 1.5 TB",
		},
		{
			name: "storage never below free amount",
			q:    quote(data(1, true, item(models.FeatureStorage, 100, 2, false)), data(1, true, item(models.FeatureStorage, 0, 0, false)), nil),
			req:  Request{Feature: models.FeatureStorage, Count: 0, FreeAmount: 50},
			want: "storageCapacity_label 50 GB",
		},
		{
			name: "aliases",
			q:    quote(data(1, true), data(1, true, item(models.FeatureAlias, 20, 1, false)), nil),
			req:  Request{Feature: models.FeatureAlias, Count: 20, FreeAmount: 5},
			want: "20 mailAddressAliases_label",
		},
		{
			name: "user package upgrade",
			q:    quote(data(1, true, users(10, 10)), data(1, true, item(models.FeatureUsers, 20, 18, false)), nil),
			req:  Request{Feature: models.FeatureUsers, Count: 10},
			want: "packageUpgradeUserAccounts_label[1=20]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BookingText(tr, tt.q, tt.req); got != tt.want {
				t.Errorf("BookingText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPriceText(t *testing.T) {
	tr := keyTranslator{}

	single := quote(data(12, true, item(models.FeatureUsers, 1, 12, true)), data(12, true, item(models.FeatureUsers, 2, 24, true)), nil)
	if got, want := PriceText(tr, single, models.FeatureUsers), "12.00 pricing.perYear_label (gross_label)"; got != want {
		t.Errorf("single PriceText() = %q, want %q", got, want)
	}

	decrease := quote(data(1, false, item(models.FeatureUsers, 2, 2.4, true)), data(1, false, item(models.FeatureUsers, 1, 1.2, true)), nil)
	if got, want := PriceText(tr, decrease, models.FeatureUsers), "-1.20 pricing.perMonth_label (net_label)"; got != want {
		t.Errorf("decrease PriceText() = %q, want %q", got, want)
	}

	incremental := quote(data(1, true, item(models.FeatureStorage, 10, 0.2, false)), data(1, true, item(models.FeatureStorage, 100, 2, false)), nil)
	if got, want := PriceText(tr, incremental, models.FeatureStorage), "2.00 pricing.perMonth_label (gross_label)"; got != want {
		t.Errorf("incremental PriceText() = %q, want %q", got, want)
	}
}

func TestPriceInfoText(t *testing.T) {
	tr := keyTranslator{}
	up := func(added *float64) *models.PriceQuote {
		return quote(data(1, true), data(1, true, item(models.FeatureSharing, 1, 0.24, true)), added)
	}

	tests := []struct {
		name string
		q    *models.PriceQuote
		want string
	}{
		{"decrease names period end", quote(data(1, true, item(models.FeatureSharing, 1, 0.24, true)), data(1, true), ptr(0)),
			"priceChangeValidFrom_label[1=2026-11-01]"},
		{"added price", up(ptr(0.12)), "priceForCurrentAccountingPeriod_label[1=0.12]"},
		{"zero added price is shown", up(ptr(0)), "priceForCurrentAccountingPeriod_label[1=0.00]"},
		{"negative added price", up(ptr(-1)), ""},
		{"no added price", up(nil), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PriceInfoText(tr, tt.q, models.FeatureSharing); got != tt.want {
				t.Errorf("PriceInfoText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecide(t *testing.T) {
	tr := keyTranslator{}

	t.Run("no change is skipped", func(t *testing.T) {
		d := Decide(tr, quote(data(1, true), data(1, true), nil), Request{Feature: models.FeatureSharing, Count: 1})
		if !d.Skip || d.Change != NoChange || d.Order != "" {
			t.Errorf("Decide() = %+v, want skip", d)
		}
	})

	t.Run("increase buys with subscription", func(t *testing.T) {
		q := quote(data(12, true), data(12, true, item(models.FeatureSharing, 2, 4.8, true)), ptr(1))
		d := Decide(tr, q, Request{Feature: models.FeatureSharing, Count: 1})
		if d.Change != Increase || d.Action != "buy_action" {
			t.Fatalf("Decide() = %+v", d)
		}
		if d.Subscription != "pricing.yearly_label, automaticRenewal_label" {
			t.Errorf("Subscription = %q", d.Subscription)
		}
		if d.SubscriptionInfo != "endOfSubscriptionPeriod_label[1=2026-11-01]" {
			t.Errorf("SubscriptionInfo = %q", d.SubscriptionInfo)
		}
	})

	t.Run("decrease orders without subscription", func(t *testing.T) {
		q := quote(data(1, true, item(models.FeatureSharing, 2, 0.48, true)), data(1, true), nil)
		d := Decide(tr, q, Request{Feature: models.FeatureSharing, Count: -1})
		if d.Change != Decrease || d.Action != "order_action" || d.Subscription != "" {
			t.Errorf("Decide() = %+v", d)
		}
	})
}
