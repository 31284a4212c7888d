package booking

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"labcrm/models"
)

// Quote is the derived money state of a wizard session. It is recomputed from
// scratch on every read; nothing in it is stored.
type Quote struct {
	BaseTotal      decimal.Decimal
	OfferTotal     decimal.Decimal
	CoreDiscount   decimal.Decimal
	AdminDiscount  decimal.Decimal
	CouponDiscount decimal.Decimal
	TotalDiscount  decimal.Decimal
	FinalAmount    decimal.Decimal
	TotalSavings   decimal.Decimal
}

// ComputeQuote folds the session's lines and discounts into totals.
//
// Create and edit flows price differently: a new booking starts from the base
// total and subtracts every discount including the built-in base/offer gap,
// while an edit starts from the offer total, which already has that gap
// folded in, and subtracts only the operator-entered discounts. CoreDiscount
// is reported unclamped even when an offer price exceeds its base price; only
// the final amount is floored at zero.
func ComputeQuote(mode string, items []models.BookingLine, adminDiscount, couponDiscount decimal.Decimal) Quote {
	base := decimal.Zero
	offer := decimal.Zero
	for _, item := range items {
		base = base.Add(amountOf(item.Price))
		offer = offer.Add(amountOf(item.OfferPrice))
	}
	core := base.Sub(offer)

	var total, final decimal.Decimal
	if mode == models.WizardModeEdit {
		total = adminDiscount.Add(couponDiscount)
		final = offer.Sub(adminDiscount).Sub(couponDiscount)
	} else {
		total = core.Add(adminDiscount).Add(couponDiscount)
		final = base.Sub(total)
	}
	if final.IsNegative() {
		final = decimal.Zero
	}

	return Quote{
		BaseTotal:      base,
		OfferTotal:     offer,
		CoreDiscount:   core,
		AdminDiscount:  adminDiscount,
		CouponDiscount: couponDiscount,
		TotalDiscount:  total,
		FinalAmount:    final,
		TotalSavings:   base.Sub(final),
	}
}

// MaxAdminDiscount returns the largest manual discount the role may grant
// against the given offer total: the lesser of the role's flat cap and its
// percentage cap. A nil role grants nothing.
func MaxAdminDiscount(role *models.Role, offerTotal decimal.Decimal) decimal.Decimal {
	if role == nil {
		return decimal.Zero
	}
	flat := amountOf(role.MaxAmount)
	byPercent := offerTotal.Mul(amountOf(role.MaxPercentage)).Div(decimal.NewFromInt(100))
	if flat.LessThan(byPercent) {
		return flat
	}
	return byPercent
}

// amountOf parses a backend money string, treating anything non-numeric
// (empty, null-ish, garbage) as zero so one bad line cannot poison a total.
func amountOf(n json.Number) decimal.Decimal {
	d, err := decimal.NewFromString(string(n))
	if err != nil {
		return decimal.Zero
	}
	return d
}
