package normalize

// Rule is a single substring replacement applied during canonicalization.
// Patterns are matched against lowercased, space-separated text.
type Rule struct {
	Pattern     string
	Replacement string
}

// DefaultRules returns the built-in alias table in application order.
//
// More specific phrases must come before the generic "republic of" rule,
// otherwise the generic rule rewrites the text before the specific one can
// match. Every replacement must itself be stable under the full rule list
// so normalization stays idempotent.
func DefaultRules() []Rule {
	return []Rule{
		// Korean peninsula first: the DPRK long form contains the ROK long
		// form as a suffix.
		{"democratic people's republic of korea", "north korea"},
		{"korea, dem. people's rep.", "north korea"},
		{"republic of korea", "south korea"},
		{"korea, rep.", "south korea"},
		{"korea (rep. of)", "south korea"},

		{"people's republic of china", "china"},
		{"china (people's republic of)", "china"},
		{"russian federation", "russia"},
		{"united states of america", "united states"},
		{"united kingdom of great britain and northern ireland", "united kingdom"},
		{"viet nam", "vietnam"},
		{"türkiye", "turkey"},
		{"turkiye", "turkey"},
		{"slovak republic", "slovakia"},
		{"czechia", "czech republic"},
		{"kingdom of the netherlands", "netherlands"},
		{"netherlands (kingdom of the)", "netherlands"},
		{"iran (islamic republic of)", "iran"},
		{"islamic republic of iran", "iran"},
		{"egypt, arab rep.", "egypt"},
		{"hong kong sar, china", "hong kong"},
		{"macao sar, china", "macao"},
		{"lao pdr", "laos"},
		{"brunei darussalam", "brunei"},
		{"syrian arab republic", "syria"},
		{"venezuela, rb", "venezuela"},

		// Generic prefixes last; they only fire for names the specific
		// rules above did not already rewrite.
		{"republic of ", ""},
		{"the ", ""},
	}
}
