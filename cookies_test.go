package twauth

import (
	"reflect"
	"testing"
)

func TestNormalizeCookieDomains(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare deprecated", "x.com", ".twitter.com"},
		{"dotted deprecated", ".x.com", ".twitter.com"},
		{"subdomain", "sub.x.com", ".twitter.com"},
		{"nested subdomain", "api.mobile.x.com", ".twitter.com"},
		{"mixed case", "Sub.X.Com", ".twitter.com"},
		{"canonical untouched", ".twitter.com", ".twitter.com"},
		{"bare canonical untouched", "twitter.com", "twitter.com"},
		{"unrelated untouched", "example.com", "example.com"},
		{"suffix lookalike untouched", "notx.com", "notx.com"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := normalizeCookieDomains([]Cookie{{Name: "c", Value: "v", Domain: tc.in}})
			if out[0].Domain != tc.want {
				t.Fatalf("domain %q: got %q, want %q", tc.in, out[0].Domain, tc.want)
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	jar := []Cookie{
		{Name: "auth_token", Value: "tok", Domain: "x.com"},
		{Name: "ct0", Value: "csrf", Domain: ".x.com"},
	}

	once := normalizeCookieDomains(jar)
	twice := normalizeCookieDomains(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("second pass changed the jar: %v vs %v", once, twice)
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	jar := []Cookie{{Name: "auth_token", Value: "tok", Domain: "x.com"}}

	_ = normalizeCookieDomains(jar)
	if jar[0].Domain != "x.com" {
		t.Fatalf("input jar mutated: %q", jar[0].Domain)
	}
}

func TestNormalizeEmptyJar(t *testing.T) {
	if out := normalizeCookieDomains(nil); out != nil {
		t.Fatalf("expected nil passthrough, got %v", out)
	}
}
