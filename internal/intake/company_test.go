package intake

import "testing"

func TestRoute(t *testing.T) {
	tests := []struct {
		insurance string
		want      string
	}{
		{"United Healthcare PPO", CompanyNJBack},
		{"Aetna Choice", CompanyBGBracing},
		{"HORIZON BCBS", CompanyNJBack},
		{"uhc community plan", CompanyNJBack},
		{"", CompanyBGBracing},
		{"Cigna", CompanyBGBracing},
	}

	for _, tc := range tests {
		got := Route(tc.insurance)
		if got.CompanyID != tc.want {
			t.Errorf("Route(%q) = %s, want %s", tc.insurance, got.CompanyID, tc.want)
		}
		if !got.AutoRouted {
			t.Errorf("Route(%q) should set AutoRouted", tc.insurance)
		}
	}
}

func TestLookupCompany_FallsBackToDefault(t *testing.T) {
	if got := LookupCompany("unknown"); got.ID != DefaultCompanyID {
		t.Errorf("LookupCompany(unknown) = %s, want %s", got.ID, DefaultCompanyID)
	}
	if got := LookupCompany(CompanyNJBack); got.Name != "NJback Chiropractic Center, LLC" {
		t.Errorf("LookupCompany(njback).Name = %q", got.Name)
	}
}
