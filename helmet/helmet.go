package helmet

import "slices"

// DefaultHSTSPolicyMaxAge is the Strict-Transport-Security max-age in the Default set (180 days).
const DefaultHSTSPolicyMaxAge uint32 = 15552000

// Helmet is an ordered set of headers to attach to every response.
// Order is preserved end to end and nothing is deduplicated: adding the same
// family twice yields two header lines. Add returns an updated copy.
//
//	h := helmet.New().
//	    Add(helmet.NewStrictTransportSecurity().IncludeSubDomains()).
//	    Add(helmet.FrameDeny())
type Helmet struct {
	headers []Header
}

// New returns an empty set.
func New() Helmet {
	return Helmet{}
}

// Default returns the baseline set, in this order:
//
//	Content-Security-Policy: <DefaultContentSecurityPolicy>
//	Cross-Origin-Opener-Policy: same-origin
//	Cross-Origin-Resource-Policy: same-origin
//	Origin-Agent-Cluster: ?1
//	Referrer-Policy: no-referrer
//	Strict-Transport-Security: max-age=15552000; includeSubDomains
//	X-Content-Type-Options: nosniff
//	X-DNS-Prefetch-Control: off
//	X-Download-Options: noopen
//	X-Frame-Options: SAMEORIGIN
//	X-Permitted-Cross-Domain-Policies: none
//	X-XSS-Protection: 0
func Default() Helmet {
	return New().Add(
		DefaultContentSecurityPolicy(),
		COOPSameOrigin,
		CORPSameOrigin,
		OriginAgentCluster(true),
		ReferrerNoReferrer,
		NewStrictTransportSecurity().MaxAge(DefaultHSTSPolicyMaxAge).IncludeSubDomains(),
		NoSniff,
		DNSPrefetchOff,
		NoOpen,
		FrameSameOrigin(),
		CrossDomainNone,
		XSSProtectionOff(),
	)
}

// Add appends headers after the ones already in the set. Nil headers are skipped.
func (h Helmet) Add(headers ...Header) Helmet {
	next := slices.Clip(h.headers)
	for _, hdr := range headers {
		if hdr != nil {
			next = append(next, hdr)
		}
	}
	h.headers = next
	return h
}

// Headers returns a copy of the set in insertion order.
func (h Helmet) Headers() []Header {
	return slices.Clone(h.headers)
}

// Len returns the number of headers in the set.
func (h Helmet) Len() int {
	return len(h.headers)
}
