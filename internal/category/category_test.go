package category

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dvloznov/statement-pipeline/internal/statement"
)

func f(v float64) *float64 { return &v }

func TestMap_KeywordCascade(t *testing.T) {
	tests := []struct {
		description string
		amount      *float64
		want        statement.Category
	}{
		{"SWIGGY BANGALORE", nil, statement.CategoryFoodDelivery},
		{"ZOMATO LTD GURGAON", nil, statement.CategoryFoodDelivery},
		{"MCDONALDS INDORE", nil, statement.CategoryDining},
		{"CAFE COFFEE DAY", nil, statement.CategoryDining},
		{"AMAZON PAY INDIA", nil, statement.CategoryEcommerce},
		{"FLIPKART INTERNET PVT", nil, statement.CategoryEcommerce},
		{"BIGBASKET BANGALORE", nil, statement.CategoryGrocery},
		{"ZEPTO MARKETPLACE", nil, statement.CategoryGrocery},
		{"IRCTC E-TICKETING", nil, statement.CategoryTravel},
		{"UBER INDIA SYSTEMS", nil, statement.CategoryTravel},
		{"BSES RAJDHANI POWER", nil, statement.CategoryUtilities},
		{"AIRTEL PREPAID RECHARGE", nil, statement.CategoryUtilities},
		{"HPCL PETROL PUMP", nil, statement.CategoryFuel},
		{"INDIAN OIL SVC STN", nil, statement.CategoryFuel},
		{"UDEMY ONLINE COURSE", nil, statement.CategoryEducation},
		{"NOBROKER RENT PAYMENT", nil, statement.CategoryRent},
		{"POLICYBAZAAR INS PREMIUM", nil, statement.CategoryInsurance},
		{"APOLLO PHARMACY CHENNAI", nil, statement.CategoryPharmacy},
		{"CROMA ELECTRONICS MUMBAI", nil, statement.CategoryElectronics},
		{"XYZ RANDOM STORE", nil, statement.CategoryOffline},
		{"PAYMENT WWW.EXAMPLE.COM", nil, statement.CategoryOnline},
		{"RAZORPAY MERCHANT", nil, statement.CategoryOnline},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			got := Map(tt.description, "", tt.amount)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMap_TrustsValidModelCategory(t *testing.T) {
	// A valid model assignment wins even when keywords disagree.
	got := Map("SWIGGY BANGALORE", statement.CategoryTravel, nil)
	assert.Equal(t, statement.CategoryTravel, got)
}

func TestMap_RejectsInvalidModelCategory(t *testing.T) {
	got := Map("SWIGGY BANGALORE", "FOOD-DELIVERY-ISH", nil)
	assert.Equal(t, statement.CategoryFoodDelivery, got)
}

func TestMap_SpecificBeforeGeneric(t *testing.T) {
	// A food-delivery brand must not fall through to DINING even when the
	// description also contains dining keywords.
	got := Map("SWIGGY RESTAURANT ORDER", "", nil)
	assert.Equal(t, statement.CategoryFoodDelivery, got)
}

func TestMap_ElectronicsAmountThreshold(t *testing.T) {
	assert.Equal(t, statement.CategoryElectronics, Map("XYZ RANDOM STORE", "", f(60000)))
	assert.Equal(t, statement.CategoryElectronics, Map("XYZ RANDOM STORE", "", f(25000)))
	assert.Equal(t, statement.CategoryOffline, Map("XYZ RANDOM STORE", "", f(24999)))
	assert.Equal(t, statement.CategoryOffline, Map("XYZ RANDOM STORE", "", nil))
}

func TestMap_Deterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, statement.CategoryTravel, Map("MAKEMYTRIP FLIGHT", "", nil))
	}
}
