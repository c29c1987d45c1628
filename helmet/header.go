package helmet

// Header name constants for every built-in family.
const (
	HeaderContentSecurityPolicy           = "Content-Security-Policy"
	HeaderContentSecurityPolicyReportOnly = "Content-Security-Policy-Report-Only"
	HeaderCrossOriginEmbedderPolicy       = "Cross-Origin-Embedder-Policy"
	HeaderCrossOriginOpenerPolicy         = "Cross-Origin-Opener-Policy"
	HeaderCrossOriginResourcePolicy       = "Cross-Origin-Resource-Policy"
	HeaderOriginAgentCluster              = "Origin-Agent-Cluster"
	HeaderReferrerPolicy                  = "Referrer-Policy"
	HeaderStrictTransportSecurity         = "Strict-Transport-Security"
	HeaderXContentTypeOptions             = "X-Content-Type-Options"
	HeaderXDNSPrefetchControl             = "X-DNS-Prefetch-Control"
	HeaderXDownloadOptions                = "X-Download-Options"
	HeaderXFrameOptions                   = "X-Frame-Options"
	HeaderXPermittedCrossDomainPolicies   = "X-Permitted-Cross-Domain-Policies"
	HeaderXXSSProtection                  = "X-XSS-Protection"
	HeaderXPoweredBy                      = "X-Powered-By"
)

// Header is a single response header family.
// Name returns the fixed header field name; Value renders the field value
// from the receiver's state only. Any type implementing Header can be added to a Helmet.
type Header interface {
	Name() string
	Value() string
}

// staticHeader is a Header with a fixed name and value.
type staticHeader struct {
	name  string
	value string
}

// CustomHeader returns a Header that always renders the given name and value.
// Neither argument is checked here; NewInjector validates them.
func CustomHeader(name, value string) Header {
	return staticHeader{name: name, value: value}
}

func (h staticHeader) Name() string  { return h.name }
func (h staticHeader) Value() string { return h.value }
