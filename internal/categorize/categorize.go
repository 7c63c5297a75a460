// Package categorize assigns spending categories to transactions with
// keyword rules and amount heuristics.
package categorize

import (
	"regexp"
	"strings"

	"spendcast/internal/model"
)

// CategoryOther is the fallback when nothing matches.
const CategoryOther = "Other Expense"

// Categories lists every category the categorizer can assign.
var Categories = []string{
	"Food & Dining",
	"Shopping",
	"Transportation",
	"Bills & Utilities",
	"Healthcare",
	"Entertainment",
	"Education",
	"Travel",
	"Insurance",
	"Groceries",
	"Rent",
	model.CategoryIncome,
	"Investment",
	CategoryOther,
}

var incomeKeywords = []string{
	"salary", "income", "bonus", "credit", "deposit", "payment received",
	"freelance", "consulting", "refund", "cashback", "dividend",
	"interest", "rental income", "revenue",
}

// keywordRules are scored in order; ties keep the earlier category.
var keywordRules = []struct {
	category string
	keywords []string
}{
	{"Food & Dining", []string{
		"restaurant", "cafe", "food", "dining", "pizza", "burger", "lunch",
		"dinner", "breakfast", "swiggy", "zomato", "dominos", "mcdonalds",
		"kfc", "subway", "starbucks", "cafe coffee day", "food court",
		"takeaway", "delivery", "meal", "buffet", "canteen",
	}},
	{"Transportation", []string{
		"uber", "ola", "metro", "bus", "taxi", "fuel", "petrol", "diesel",
		"parking", "toll", "auto", "rickshaw", "train", "flight", "cab",
		"transport", "commute", "travel", "gas station", "highway",
	}},
	{"Shopping", []string{
		"amazon", "flipkart", "mall", "store", "shop", "clothing", "electronics",
		"myntra", "ajio", "nykaa", "purchase", "shopping", "retail",
		"supermarket", "hypermarket", "outlet", "bazaar", "market",
	}},
	{"Bills & Utilities", []string{
		"electricity", "water", "gas", "internet", "phone", "mobile", "wifi",
		"broadband", "cable", "dth", "telephone", "utility", "bill",
		"recharge", "postpaid", "prepaid", "data pack",
	}},
	{"Groceries", []string{
		"grocery", "supermarket", "vegetables", "fruits", "market", "dmart",
		"big bazaar", "reliance fresh", "more", "spencer", "food bazaar",
		"kirana", "provision", "dairy", "milk", "bread", "rice", "wheat",
	}},
	{"Healthcare", []string{
		"hospital", "doctor", "medical", "pharmacy", "medicine", "clinic",
		"health", "dental", "lab", "test", "checkup", "consultation",
		"apollo", "fortis", "max", "medanta", "aiims", "diagnostic",
	}},
	{"Entertainment", []string{
		"movie", "netflix", "spotify", "amazon prime", "hotstar", "youtube",
		"game", "concert", "theatre", "cinema", "show", "entertainment",
		"subscription", "music", "streaming", "gaming", "sports",
	}},
	{"Education", []string{
		"school", "college", "university", "course", "tuition", "education",
		"books", "stationery", "fees", "admission", "exam", "coaching",
		"online course", "udemy", "coursera", "byju", "unacademy",
	}},
	{"Travel", []string{
		"hotel", "booking", "flight", "train", "bus booking", "travel",
		"vacation", "holiday", "trip", "makemytrip", "goibibo", "yatra",
		"oyo", "treebo", "resort", "accommodation", "airbnb",
	}},
	{"Insurance", []string{
		"insurance", "premium", "policy", "lic", "health insurance",
		"car insurance", "bike insurance", "term insurance", "mutual fund",
		"sip", "investment", "bajaj allianz", "hdfc ergo", "icici lombard",
	}},
	{"Rent", []string{
		"rent", "rental", "house rent", "apartment", "flat", "accommodation",
		"lease", "tenant", "landlord", "property", "housing",
	}},
	{"Investment", []string{
		"mutual fund", "sip", "fd", "fixed deposit", "rd", "recurring deposit",
		"shares", "stocks", "trading", "demat", "investment", "zerodha",
		"upstox", "groww", "kite", "angel broking", "portfolio",
	}},
}

// amountHints boosts a category already matched by keywords when the
// transaction amount falls in its typical range.
var amountHints = map[string][2]float64{
	"Rent":              {10000, 50000},
	"Insurance":         {1000, 20000},
	"Investment":        {1000, 100000},
	"Bills & Utilities": {100, 5000},
}

var nonWord = regexp.MustCompile(`[^\w\s]`)

func preprocess(text string) string {
	return strings.Join(strings.Fields(nonWord.ReplaceAllString(strings.ToLower(text), " ")), " ")
}

// Prediction is one categorization result.
type Prediction struct {
	Category   string  `json:"predicted_category"`
	Confidence float64 `json:"confidence"`
}

// Predict assigns a category from the description and amount. It never
// fails; unmatchable input gets the Other Expense fallback.
func Predict(description string, amount float64) Prediction {
	if description == "" {
		return Prediction{Category: CategoryOther, Confidence: 0.5}
	}

	// Positive amounts are income unless proven otherwise.
	if amount > 0 {
		lower := strings.ToLower(description)
		for _, kw := range incomeKeywords {
			if strings.Contains(lower, kw) {
				return Prediction{Category: model.CategoryIncome, Confidence: 0.9}
			}
		}
		return Prediction{Category: model.CategoryIncome, Confidence: 0.8}
	}

	processed := preprocess(description)
	absAmount := amount
	if absAmount < 0 {
		absAmount = -absAmount
	}

	best := ""
	bestScore := 0.0
	for _, rule := range keywordRules {
		score := 0.0
		matches := 0
		for _, kw := range rule.keywords {
			if strings.Contains(processed, kw) {
				score += float64(len(strings.Fields(kw)))
				matches++
			}
		}
		if matches == 0 {
			continue
		}
		score += float64(matches) * 0.1
		if hint, ok := amountHints[rule.category]; ok && absAmount >= hint[0] && absAmount <= hint[1] {
			score += 0.3
		}
		if score > bestScore {
			best = rule.category
			bestScore = score
		}
	}

	if best != "" {
		confidence := 0.5 + bestScore*0.1
		if confidence > 0.95 {
			confidence = 0.95
		}
		return Prediction{Category: best, Confidence: confidence}
	}
	return fallback(description)
}

// fallback is a last-ditch substring chain for descriptions the keyword
// scorer could not place.
func fallback(description string) Prediction {
	desc := strings.ToLower(description)
	at := func(cat string) Prediction { return Prediction{Category: cat, Confidence: 0.7} }
	switch {
	case containsAny(desc, "food", "restaurant", "zomato", "swiggy"):
		return at("Food & Dining")
	case containsAny(desc, "uber", "ola", "petrol", "fuel"):
		return at("Transportation")
	case containsAny(desc, "amazon", "flipkart", "shopping"):
		return at("Shopping")
	case containsAny(desc, "electricity", "water", "internet", "phone"):
		return at("Bills & Utilities")
	case containsAny(desc, "grocery", "vegetables", "dmart"):
		return at("Groceries")
	case containsAny(desc, "doctor", "hospital", "medical"):
		return at("Healthcare")
	case containsAny(desc, "movie", "netflix", "entertainment"):
		return at("Entertainment")
	case containsAny(desc, "rent", "rental"):
		return at("Rent")
	case containsAny(desc, "insurance", "premium"):
		return at("Insurance")
	case containsAny(desc, "school", "education", "course"):
		return at("Education")
	case containsAny(desc, "hotel", "flight", "travel"):
		return at("Travel")
	default:
		return Prediction{Category: CategoryOther, Confidence: 0.5}
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
