package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"app/internal/domain/model"
)

func TestInflowInvestment(t *testing.T) {
	assert.Equal(t, int64(500), InflowInvestment(model.InflowPurchase, 100, 5))
	assert.Equal(t, int64(500), InflowInvestment(model.InflowRefund, 100, 5))
	assert.Equal(t, int64(0), InflowInvestment(model.InflowGift, 100, 5))
	assert.Equal(t, int64(0), InflowInvestment(model.InflowCorrection, 100, 5))
}

func TestInflowUtility(t *testing.T) {
	assert.Equal(t, int64(250), InflowUtility(model.InflowPurchase, 100, 150, 5))
	assert.Equal(t, int64(750), InflowUtility(model.InflowGift, 100, 150, 5))
	assert.Equal(t, int64(0), InflowUtility(model.InflowCorrection, 100, 150, 5))
	assert.Equal(t, int64(0), InflowUtility(model.InflowRefund, 100, 150, 5))
}

func TestOutflowInvestment(t *testing.T) {
	assert.Equal(t, int64(300), OutflowInvestment(model.OutflowSale, 100, 3))
	assert.Equal(t, int64(300), OutflowInvestment(model.OutflowLoss, 100, 3))
}

func TestOutflowUtility(t *testing.T) {
	assert.Equal(t, int64(150), OutflowUtility(model.OutflowSale, 100, 150, 3))
	for _, typ := range []model.OutflowType{
		model.OutflowLoss,
		model.OutflowExpiry,
		model.OutflowFraud,
		model.OutflowDonation,
		model.OutflowInternalUse,
	} {
		assert.Equal(t, int64(-300), OutflowUtility(typ, 100, 150, 3), string(typ))
	}
}
