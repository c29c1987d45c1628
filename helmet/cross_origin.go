package helmet

// CrossOriginEmbedderPolicy manages the Cross-Origin-Embedder-Policy header.
type CrossOriginEmbedderPolicy string

// Cross-Origin-Embedder-Policy values.
const (
	COEPUnsafeNone     CrossOriginEmbedderPolicy = "unsafe-none"
	COEPRequireCorp    CrossOriginEmbedderPolicy = "require-corp"
	COEPCredentialless CrossOriginEmbedderPolicy = "credentialless"
)

// Name implements Header.
func (CrossOriginEmbedderPolicy) Name() string { return HeaderCrossOriginEmbedderPolicy }

// Value implements Header.
func (p CrossOriginEmbedderPolicy) Value() string { return string(p) }

// CrossOriginOpenerPolicy manages the Cross-Origin-Opener-Policy header.
type CrossOriginOpenerPolicy string

// Cross-Origin-Opener-Policy values.
const (
	COOPSameOrigin            CrossOriginOpenerPolicy = "same-origin"
	COOPSameOriginAllowPopups CrossOriginOpenerPolicy = "same-origin-allow-popups"
	COOPUnsafeNone            CrossOriginOpenerPolicy = "unsafe-none"
)

// Name implements Header.
func (CrossOriginOpenerPolicy) Name() string { return HeaderCrossOriginOpenerPolicy }

// Value implements Header.
func (p CrossOriginOpenerPolicy) Value() string { return string(p) }

// CrossOriginResourcePolicy manages the Cross-Origin-Resource-Policy header.
type CrossOriginResourcePolicy string

// Cross-Origin-Resource-Policy values.
const (
	CORPSameOrigin  CrossOriginResourcePolicy = "same-origin"
	CORPSameSite    CrossOriginResourcePolicy = "same-site"
	CORPCrossOrigin CrossOriginResourcePolicy = "cross-origin"
)

// Name implements Header.
func (CrossOriginResourcePolicy) Name() string { return HeaderCrossOriginResourcePolicy }

// Value implements Header.
func (p CrossOriginResourcePolicy) Value() string { return string(p) }

// OriginAgentCluster manages the Origin-Agent-Cluster header.
// true requests an origin-keyed agent cluster and renders as "?1"; false renders as "?0".
type OriginAgentCluster bool

// Name implements Header.
func (OriginAgentCluster) Name() string { return HeaderOriginAgentCluster }

// Value implements Header.
func (o OriginAgentCluster) Value() string {
	if o {
		return "?1"
	}
	return "?0"
}
