package common

import "testing"

func TestHasAny(t *testing.T) {
	cases := []struct {
		s    string
		subs []string
		want bool
	}{
		{"geocoding failed: ZERO_RESULTS", []string{"zero_results"}, true},
		{"request denied", []string{"zero_results", "no results"}, false},
		{"No Results for address", []string{"zero_results", "no results"}, true},
		{"anything", nil, false},
	}
	for _, c := range cases {
		if got := HasAny(c.s, c.subs...); got != c.want {
			t.Errorf("HasAny(%q, %v) = %v, want %v", c.s, c.subs, got, c.want)
		}
	}
}
