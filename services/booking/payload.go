package booking

import (
	"strings"

	"labcrm/models"
)

// DefaultCreateRemark is recorded on bookings created through the console.
const DefaultCreateRemark = "Created from CRM"

// BuildCreatePayload assembles the POST body for a new booking from a
// completed create session. Lines carry no ids; the backend assigns them.
func BuildCreatePayload(state *models.WizardSession, quote Quote) map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(state.Items))
	for _, line := range state.Items {
		items = append(items, map[string]interface{}{
			"patient":      patientID(line.Patient),
			"base_price":   line.Price,
			"offer_price":  line.OfferPrice,
			"product_type": line.ItemType,
			"product_id":   line.Item.ID,
		})
	}
	return map[string]interface{}{
		"user":                state.Customer.ID,
		"address":             state.Address.ID,
		"scheduled_date":      state.ScheduledDate,
		"scheduled_time_slot": state.ScheduledSlot,
		"admin_discount":      state.AdminDiscount,
		"coupon_discount":     state.CouponDiscount,
		"discount_amount":     quote.TotalDiscount,
		"base_total":          quote.BaseTotal,
		"offer_total":         quote.OfferTotal,
		"final_amount":        quote.FinalAmount,
		"total_savings":       quote.TotalSavings,
		"remarks":             DefaultCreateRemark,
		"items":               items,
	}
}

// BuildBulkUpdate turns a detected change set into the bulk-update PATCH
// body. Only backend-actionable categories emit actions: an address change is
// display-only and never produces one. Returns ErrNoChanges when no action
// applies, so a remark-only submission cannot go through this path.
func BuildBulkUpdate(state *models.WizardSession, changes ChangeSet, remark string) (map[string]interface{}, error) {
	original := state.Original
	actions := []string{}
	payload := map[string]interface{}{}

	if changes.ScheduleChanged {
		actions = append(actions, "update_schedule")
		payload["scheduled_date"] = state.ScheduledDate
		payload["scheduled_time_slot"] = state.ScheduledSlot
	}

	if changes.ItemsChanged {
		actions = append(actions, "update_items")
		items := make([]map[string]interface{}, 0, len(state.Items))
		for _, line := range state.Items {
			items = append(items, map[string]interface{}{
				"id":           line.ID,
				"patient":      patientID(line.Patient),
				"base_price":   line.Price,
				"offer_price":  line.OfferPrice,
				"product_type": line.ItemType,
				"product_id":   line.Item.ID,
			})
		}
		payload["items"] = items
	}

	adminChanged := !amountOf(original.AdminDiscount).Equal(state.AdminDiscount)
	couponChanged := !amountOf(original.CouponDiscount).Equal(state.CouponDiscount)
	if adminChanged || couponChanged {
		actions = append(actions, "update_discounts")
		payload["admin_discount"] = state.AdminDiscount
		if original.Coupon != nil {
			payload["coupon"] = original.Coupon.ID
		} else {
			payload["coupon"] = nil
		}
	}

	if len(actions) == 0 {
		return nil, ErrNoChanges
	}

	remark = strings.TrimSpace(remark)
	if remark == "" {
		return nil, ErrRemarkRequired
	}

	payload["actions"] = actions
	payload["remarks"] = remark
	return payload, nil
}

func patientID(p *models.Patient) int64 {
	if p == nil {
		return 0
	}
	return p.ID
}
