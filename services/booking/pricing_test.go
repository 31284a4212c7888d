package booking

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"labcrm/models"
)

func line(base, offer string) models.BookingLine {
	return models.BookingLine{
		Price:      json.Number(base),
		OfferPrice: json.Number(offer),
	}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeQuoteCreate(t *testing.T) {
	tests := []struct {
		name          string
		items         []models.BookingLine
		admin, coupon decimal.Decimal
		wantBase      string
		wantOffer     string
		wantCore      string
		wantTotal     string
		wantFinal     string
	}{
		{
			name:      "single item no extra discounts",
			items:     []models.BookingLine{line("1000", "800")},
			wantBase:  "1000", wantOffer: "800", wantCore: "200",
			wantTotal: "200", wantFinal: "800",
		},
		{
			name:   "two items with admin and coupon",
			items:  []models.BookingLine{line("1000", "800"), line("500", "450")},
			admin:  dec("100"),
			coupon: dec("50"),
			wantBase:  "1500", wantOffer: "1250", wantCore: "250",
			wantTotal: "400", wantFinal: "1100",
		},
		{
			name:      "non-numeric prices count as zero",
			items:     []models.BookingLine{line("1000", ""), line("abc", "300")},
			wantBase:  "1000", wantOffer: "300", wantCore: "700",
			wantTotal: "700", wantFinal: "300",
		},
		{
			name:   "over-discount floors final at zero",
			items:  []models.BookingLine{line("500", "400")},
			admin:  dec("450"),
			wantBase:  "500", wantOffer: "400", wantCore: "100",
			wantTotal: "550", wantFinal: "0",
		},
		{
			name:      "offer above base keeps core discount negative",
			items:     []models.BookingLine{line("300", "350")},
			wantBase:  "300", wantOffer: "350", wantCore: "-50",
			wantTotal: "-50", wantFinal: "350",
		},
		{
			name:      "no items",
			items:     nil,
			wantBase:  "0", wantOffer: "0", wantCore: "0",
			wantTotal: "0", wantFinal: "0",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := ComputeQuote(models.WizardModeCreate, tc.items, tc.admin, tc.coupon)
			check := func(field string, got decimal.Decimal, want string) {
				if !got.Equal(dec(want)) {
					t.Errorf("%s = %s, want %s", field, got, want)
				}
			}
			check("BaseTotal", q.BaseTotal, tc.wantBase)
			check("OfferTotal", q.OfferTotal, tc.wantOffer)
			check("CoreDiscount", q.CoreDiscount, tc.wantCore)
			check("TotalDiscount", q.TotalDiscount, tc.wantTotal)
			check("FinalAmount", q.FinalAmount, tc.wantFinal)
		})
	}
}

func TestComputeQuoteEdit(t *testing.T) {
	// Edit starts from the offer total; the base/offer gap is not subtracted
	// again.
	items := []models.BookingLine{line("1000", "800"), line("500", "450")}
	q := ComputeQuote(models.WizardModeEdit, items, dec("100"), dec("50"))

	if !q.FinalAmount.Equal(dec("1100")) {
		t.Errorf("FinalAmount = %s, want 1100", q.FinalAmount)
	}
	if !q.TotalDiscount.Equal(dec("150")) {
		t.Errorf("TotalDiscount = %s, want 150 (core gap excluded)", q.TotalDiscount)
	}
	if !q.CoreDiscount.Equal(dec("250")) {
		t.Errorf("CoreDiscount = %s, want 250", q.CoreDiscount)
	}
}

func TestComputeQuoteEditFloorsAtZero(t *testing.T) {
	items := []models.BookingLine{line("500", "400")}
	q := ComputeQuote(models.WizardModeEdit, items, dec("500"), decimal.Zero)
	if !q.FinalAmount.Equal(decimal.Zero) {
		t.Errorf("FinalAmount = %s, want 0", q.FinalAmount)
	}
}

func TestComputeQuoteIsPure(t *testing.T) {
	items := []models.BookingLine{line("1000", "800")}
	first := ComputeQuote(models.WizardModeCreate, items, dec("10"), dec("5"))
	second := ComputeQuote(models.WizardModeCreate, items, dec("10"), dec("5"))
	if !first.FinalAmount.Equal(second.FinalAmount) || !first.TotalDiscount.Equal(second.TotalDiscount) {
		t.Error("same inputs produced different quotes")
	}
	if string(items[0].Price) != "1000" || string(items[0].OfferPrice) != "800" {
		t.Error("ComputeQuote mutated its input lines")
	}
}

func TestMaxAdminDiscount(t *testing.T) {
	tests := []struct {
		name       string
		role       *models.Role
		offerTotal string
		want       string
	}{
		{"nil role grants nothing", nil, "1000", "0"},
		{
			"flat cap wins when lower",
			&models.Role{MaxAmount: "100", MaxPercentage: "50"},
			"1000", "100",
		},
		{
			"percentage cap wins when lower",
			&models.Role{MaxAmount: "500", MaxPercentage: "10"},
			"1000", "100",
		},
		{
			"zero percentage grants nothing",
			&models.Role{MaxAmount: "500", MaxPercentage: "0"},
			"1000", "0",
		},
		{
			"missing bounds grant nothing",
			&models.Role{},
			"1000", "0",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := MaxAdminDiscount(tc.role, dec(tc.offerTotal))
			if !got.Equal(dec(tc.want)) {
				t.Errorf("MaxAdminDiscount = %s, want %s", got, tc.want)
			}
		})
	}
}
