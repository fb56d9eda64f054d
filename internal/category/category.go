// Package category is the deterministic fallback classifier applied when the
// model omits or mis-assigns a transaction category.
package category

import (
	"strings"

	"github.com/dvloznov/statement-pipeline/internal/statement"
)

// electronicsAmountThreshold: descriptions that match nothing else but carry
// a large amount are assumed to be big-ticket electronics. A known source of
// false positives for other large purchases; kept deliberately because the
// statement mix skews that way.
const electronicsAmountThreshold = 25000.0

// rule maps any-of keywords (matched case-insensitively against the
// description) to a category.
type rule struct {
	category statement.Category
	keywords []string
}

// rules is the match cascade, most specific first. Order is significant: a
// named food-delivery brand must win over a generic "FOOD COURT" match, so
// FOOD_DELIVERY precedes DINING, brand rules precede generic ones, and the
// online/offline fallback runs only when nothing else hits.
var rules = []rule{
	{statement.CategoryFoodDelivery, []string{
		"SWIGGY", "ZOMATO", "EATSURE", "DOMINOS ONLINE", "FAASOS", "BOX8",
	}},
	{statement.CategoryDining, []string{
		"RESTAURANT", "RESTO", "CAFE", "COFFEE", "BARBEQUE", "MCDONALD",
		"DOMINO", "PIZZA", "KFC", "BURGER", "STARBUCKS", "FOOD COURT",
		"DHABA", "BIRYANI", "BAKERY", "EAZYDINER",
	}},
	{statement.CategoryEcommerce, []string{
		"AMAZON", "FLIPKART", "MYNTRA", "AJIO", "MEESHO", "NYKAA",
		"SNAPDEAL", "TATACLIQ", "SHOPSY", "FIRSTCRY", "DECATHLON",
	}},
	{statement.CategoryGrocery, []string{
		"BIGBASKET", "BLINKIT", "ZEPTO", "GROFERS", "DMART", "D-MART",
		"RELIANCE FRESH", "RELIANCE SMART", "MORE SUPERMARKET", "SPENCERS",
		"NATURE BASKET", "JIOMART", "SUPERMARKET", "KIRANA", "GROCER",
	}},
	{statement.CategoryTravel, []string{
		"IRCTC", "MAKEMYTRIP", "GOIBIBO", "CLEARTRIP", "YATRA", "IXIGO",
		"INDIGO", "SPICEJET", "VISTARA", "AIR INDIA", "AIRASIA", "EMIRATES",
		"UBER", "OLA", "RAPIDO", "REDBUS", "ABHIBUS", "OYO", "AIRBNB",
		"TREEBO", "FABHOTEL", "AIRLINES", "AIRWAYS",
	}},
	{statement.CategoryUtilities, []string{
		"ELECTRICITY", "BSES", "TATA POWER", "ADANI ELECTR", "TANGEDCO",
		"MSEDCL", "AIRTEL", "JIO", "VODAFONE", " VI ", "BSNL", "BROADBAND",
		"ACT FIBERNET", "HATHWAY", "TATA SKY", "TATAPLAY", "DISH TV", "D2H",
		"WATER BILL", "GAS BILL", "INDANE", "HP GAS", "BHARATGAS",
	}},
	{statement.CategoryFuel, []string{
		"PETROL", "DIESEL", "FUEL", "HPCL", "BPCL", "IOCL", "INDIAN OIL",
		"INDIANOIL", "BHARAT PETROLEUM", "HINDUSTAN PETROLEUM", "SHELL",
		"NAYARA", "FILLING STATION", "SERVICE STATION",
	}},
	{statement.CategoryEducation, []string{
		"SCHOOL", "COLLEGE", "UNIVERSITY", "INSTITUTE", "ACADEMY", "TUITION",
		"UDEMY", "COURSERA", "UPGRAD", "BYJU", "UNACADEMY", "VEDANTU",
		"EDUCATION", "EXAM FEE",
	}},
	{statement.CategoryRent, []string{
		"RENT", "NOBROKER", "HOUSING.COM", "NESTAWAY", "LEASE",
	}},
	{statement.CategoryInsurance, []string{
		"INSURANCE", "LIC OF INDIA", "LIC PREMIUM", "POLICYBAZAAR",
		"HDFC LIFE", "ICICI PRU", "SBI LIFE", "MAX LIFE", "BAJAJ ALLIANZ",
		"TATA AIG", "ACKO", "PREMIUM PAYMENT",
	}},
	{statement.CategoryPharmacy, []string{
		"PHARMACY", "PHARMA", "CHEMIST", "APOLLO", "MEDPLUS", "NETMEDS",
		"PHARMEASY", "1MG", "TATA 1MG", "WELLNESS FOREVER", "MEDICAL",
		"HOSPITAL", "CLINIC", "DIAGNOSTIC",
	}},
	{statement.CategoryElectronics, []string{
		"CROMA", "RELIANCE DIGITAL", "VIJAY SALES", "POORVIKA", "SANGEETHA",
		"APPLE STORE", "SAMSUNG", "ONEPLUS", "ELECTRONICS",
	}},
}

// onlineTokens mark URL-like or gateway descriptions for the generic online
// fallback.
var onlineTokens = []string{
	".COM", ".IN", ".CO", "WWW", "HTTP", "RAZORPAY", "PAYU", "BILLDESK",
	"CCAVENUE", "PAYTM", "GOOGLE PLAY", "APPSTORE", "ONLINE",
}

// Map resolves the category for a transaction. A model-assigned category
// that is already a valid enum value is trusted as-is; otherwise the keyword
// cascade decides, with the amount threshold and the online/offline fallback
// closing the chain. Pure function.
func Map(description string, modelCategory statement.Category, amount *float64) statement.Category {
	if statement.ValidCategory(modelCategory) {
		return modelCategory
	}

	desc := strings.ToUpper(description)

	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(desc, kw) {
				return r.category
			}
		}
	}

	if amount != nil && *amount >= electronicsAmountThreshold {
		return statement.CategoryElectronics
	}

	for _, tok := range onlineTokens {
		if strings.Contains(desc, tok) {
			return statement.CategoryOnline
		}
	}

	return statement.CategoryOffline
}
