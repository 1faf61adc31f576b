package pagination

import (
	"net/url"
	"testing"
)

func TestNormalizeAppliesDefaultsAndCaps(t *testing.T) {
	tests := []struct {
		name string
		in   Params
		want Params
	}{
		{"zero values", Params{}, Params{Page: 1, PerPage: DefaultPerPage}},
		{"negative page", Params{Page: -3, PerPage: 10}, Params{Page: 1, PerPage: 10}},
		{"over cap", Params{Page: 2, PerPage: 500}, Params{Page: 2, PerPage: MaxPerPage}},
		{"in range", Params{Page: 4, PerPage: 50}, Params{Page: 4, PerPage: 50}},
	}
	for _, tt := range tests {
		if got := tt.in.Normalize(); got != tt.want {
			t.Fatalf("%s: expected %+v got %+v", tt.name, tt.want, got)
		}
	}
}

func TestFromQueryIgnoresGarbage(t *testing.T) {
	values := url.Values{"page": []string{"two"}, "per_page": []string{"abc"}}
	got := FromQuery(values)
	if got.Page != 1 || got.PerPage != DefaultPerPage {
		t.Fatalf("expected defaults for unparseable input, got %+v", got)
	}
}

func TestQueryValuesRendersNormalized(t *testing.T) {
	values := Params{Page: 0, PerPage: 250}.QueryValues()
	if values.Get("page") != "1" {
		t.Fatalf("expected page 1, got %s", values.Get("page"))
	}
	if values.Get("per_page") != "100" {
		t.Fatalf("expected per_page capped at 100, got %s", values.Get("per_page"))
	}
}
