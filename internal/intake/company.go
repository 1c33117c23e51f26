package intake

import "strings"

// Company IDs known to the directory.
const (
	CompanyBGBracing = "bgbracing"
	CompanyNJBack    = "njback"
)

// DefaultCompanyID is billed when nothing else matches.
const DefaultCompanyID = CompanyBGBracing

// Company is a billing entity printed on the packet header.
type Company struct {
	ID                string
	Name              string
	Address           string
	City              string
	State             string
	Zip               string
	Phone             string
	Fax               string
	Email             string
	Website           string
	NPI               string
	TaxID             string
	ReferringProvider string
	ReferringNPI      string
}

var companies = map[string]Company{
	CompanyBGBracing: {
		ID:                CompanyBGBracing,
		Name:              "BG Bracing, LLC",
		Address:           "84 Hopper Ave.",
		City:              "Pompton Plains",
		State:             "NJ",
		Zip:               "07444",
		Phone:             "(973) 363-9011",
		Fax:               "(973) 341-7791",
		Email:             "bgbracinggear@gmail.com",
		Website:           "www.bracinggear.com",
		NPI:               "1234567890",
		TaxID:             "12-3456789",
		ReferringProvider: "Dr. Jack Atzmon, DC",
		ReferringNPI:      "1962565648",
	},
	CompanyNJBack: {
		ID:                CompanyNJBack,
		Name:              "NJback Chiropractic Center, LLC",
		Address:           "47 Hamburg Turnpike",
		City:              "Riverdale",
		State:             "NJ",
		Zip:               "07457",
		Phone:             "(973) 874-9777",
		Fax:               "(973) 341-7791",
		Email:             "info@njback.com",
		Website:           "www.njback.com",
		NPI:               "1720184498",
		TaxID:             "81-4921270",
		ReferringProvider: "Dr. Jack Atzmon, DC",
		ReferringNPI:      "1962565648",
	},
}

// CompanyIDs returns the directory keys, default first.
func CompanyIDs() []string {
	return []string{CompanyBGBracing, CompanyNJBack}
}

// LookupCompany returns the company for id, falling back to the default
// company for unknown or empty ids.
func LookupCompany(id string) Company {
	if c, ok := companies[id]; ok {
		return c
	}
	return companies[DefaultCompanyID]
}

// KnownCompany reports whether id is in the directory.
func KnownCompany(id string) bool {
	_, ok := companies[id]
	return ok
}

// RoutingDecision records which company bills the claim and whether the
// routing function has been applied.
type RoutingDecision struct {
	CompanyID  string
	AutoRouted bool
}

// njBackPayers are insurance-name fragments billed through NJback.
var njBackPayers = []string{"horizon", "united healthcare", "uhc"}

// Route classifies an insurance name. Payers listed for NJback go there;
// anything else, including an empty name, goes to the default company.
func Route(insurance string) RoutingDecision {
	lower := strings.ToLower(insurance)
	for _, payer := range njBackPayers {
		if strings.Contains(lower, payer) {
			return RoutingDecision{CompanyID: CompanyNJBack, AutoRouted: true}
		}
	}
	return RoutingDecision{CompanyID: DefaultCompanyID, AutoRouted: true}
}
