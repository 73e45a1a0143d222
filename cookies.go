package twauth

import "strings"

const (
	// deprecatedCookieDomain is the rebranded platform domain. Cookies scoped
	// to it (or any of its subdomains) are not recognized by the login-state
	// probe and must be rewritten before a jar is applied.
	deprecatedCookieDomain = "x.com"
	// canonicalCookieDomain is the legacy domain the probe accepts, with a
	// leading dot so it covers all subdomains.
	canonicalCookieDomain = ".twitter.com"
)

// normalizeCookieDomains rewrites every cookie scoped to the deprecated
// platform domain to the canonical legacy domain. The rewrite is idempotent
// and runs on every jar application, including the re-application after a
// fresh login. The input slice is not mutated.
func normalizeCookieDomains(jar []Cookie) []Cookie {
	if len(jar) == 0 {
		return jar
	}

	out := make([]Cookie, len(jar))
	copy(out, jar)

	for i := range out {
		if isDeprecatedCookieDomain(out[i].Domain) {
			out[i].Domain = canonicalCookieDomain
		}
	}

	return out
}

func isDeprecatedCookieDomain(domain string) bool {
	d := strings.ToLower(strings.TrimPrefix(domain, "."))
	return d == deprecatedCookieDomain || strings.HasSuffix(d, "."+deprecatedCookieDomain)
}
