package models

// Default category labels
const (
	CategoryTravel         = "Travel"
	CategoryMeals          = "Meals"
	CategorySoftware       = "Software"
	CategoryUtilities      = "Utilities"
	CategoryMarketing      = "Marketing"
	CategoryOfficeSupplies = "Office Supplies"
	CategoryEntertainment  = "Entertainment"
	CategoryHealthcare     = "Healthcare"
)

// Anomaly reason clauses, appended in this order.
const (
	ReasonCategoryOutlier = "Unusual amount compared to typical spending in this category."
	ReasonDuplicate       = "Potential duplicate transaction detected."
	ReasonHighAbsolute    = "Transaction amount is significantly high compared to overall spending."
)

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)

// DefaultCategoryConfigs is the built-in category enumeration and merchant
// keyword table. Order matters: the rule matcher tests categories in this order.
func DefaultCategoryConfigs() []CategoryConfig {
	return []CategoryConfig{
		{
			Name:        CategoryTravel,
			Description: "Flights, taxis, hotels, transportation",
			Keywords:    []string{"uber", "ola", "air india", "indigo", "marriott"},
		},
		{
			Name:        CategoryMeals,
			Description: "Restaurants, cafes, food expenses",
			Keywords:    []string{"starbucks", "mcdonald", "dominos", "kfc", "restaurant"},
		},
		{
			Name:        CategorySoftware,
			Description: "Subscriptions, SaaS tools, licenses",
			Keywords:    []string{"aws", "google cloud", "notion", "slack", "adobe"},
		},
		{
			Name:        CategoryUtilities,
			Description: "Electricity, internet, phone bills",
			Keywords:    []string{"electricity", "vodafone", "airtel", "internet"},
		},
		{
			Name:        CategoryMarketing,
			Description: "Ads, promotions, campaigns",
			Keywords:    []string{"facebook ads", "google ads", "linkedin ads"},
		},
		{
			Name:        CategoryOfficeSupplies,
			Description: "Stationery, equipment, office items",
			Keywords:    []string{"amazon", "staples", "flipkart"},
		},
		{
			Name:        CategoryEntertainment,
			Description: "Events, movies, leisure",
			Keywords:    []string{"netflix", "spotify", "bookmyshow"},
		},
		{
			Name:        CategoryHealthcare,
			Description: "Medical expenses",
			Keywords:    []string{"apollo", "pharmacy"},
		},
		{
			Name:        CategoryOther,
			Description: "Uncategorized or unknown expenses",
		},
	}
}

// DefaultCategorySet builds the set from DefaultCategoryConfigs.
func DefaultCategorySet() CategorySet {
	set, err := NewCategorySet(DefaultCategoryConfigs())
	if err != nil {
		panic("invalid default category set: " + err.Error())
	}
	return set
}
