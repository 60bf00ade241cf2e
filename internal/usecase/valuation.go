package usecase

import "app/internal/domain/model"

// Per-type monetary projections over a single detail line. These are
// read-time rollups, never stored; keeping them as a pure table keeps the
// formulas testable without the store.

// InflowInvestment is the purchase cost a line ties up.
func InflowInvestment(t model.InflowType, purchasePrice, quantity int64) int64 {
	switch t {
	case model.InflowPurchase, model.InflowRefund:
		return purchasePrice * quantity
	default:
		// gifts cost nothing; corrections are not acquisitions
		return 0
	}
}

// InflowUtility is the projected margin a line contributes.
func InflowUtility(t model.InflowType, purchasePrice, salePrice, quantity int64) int64 {
	switch t {
	case model.InflowPurchase:
		return (salePrice - purchasePrice) * quantity
	case model.InflowGift:
		// a gift's full sale price is margin
		return salePrice * quantity
	default:
		return 0
	}
}

// OutflowInvestment is the purchase cost a line consumed.
func OutflowInvestment(t model.OutflowType, purchasePrice, quantity int64) int64 {
	_ = t // every outflow type consumes at purchase cost
	return purchasePrice * quantity
}

// OutflowUtility is the realized margin: positive for sales, negative for
// stock that left without revenue.
func OutflowUtility(t model.OutflowType, purchasePrice, salePrice, quantity int64) int64 {
	switch t {
	case model.OutflowSale:
		return (salePrice - purchasePrice) * quantity
	case model.OutflowLoss, model.OutflowExpiry, model.OutflowFraud,
		model.OutflowDonation, model.OutflowInternalUse:
		return -purchasePrice * quantity
	default:
		return 0
	}
}
