package helmet

import "strconv"

// DefaultHSTSMaxAge is the max-age used by NewStrictTransportSecurity (one year, in seconds).
const DefaultHSTSMaxAge uint32 = 31536000

// StrictTransportSecurity manages the Strict-Transport-Security header.
// Build it with NewStrictTransportSecurity and the chained setters; each setter
// returns an updated copy.
//
//	hsts := helmet.NewStrictTransportSecurity().MaxAge(15552000).IncludeSubDomains()
type StrictTransportSecurity struct {
	maxAge            uint32
	includeSubDomains bool
	preload           bool
}

// NewStrictTransportSecurity returns a policy with max-age=31536000 and no flags.
func NewStrictTransportSecurity() StrictTransportSecurity {
	return StrictTransportSecurity{maxAge: DefaultHSTSMaxAge}
}

// MaxAge sets the max-age directive in seconds.
func (s StrictTransportSecurity) MaxAge(seconds uint32) StrictTransportSecurity {
	s.maxAge = seconds
	return s
}

// IncludeSubDomains adds the includeSubDomains directive.
func (s StrictTransportSecurity) IncludeSubDomains() StrictTransportSecurity {
	s.includeSubDomains = true
	return s
}

// Preload adds the preload directive.
func (s StrictTransportSecurity) Preload() StrictTransportSecurity {
	s.preload = true
	return s
}

// Name implements Header.
func (StrictTransportSecurity) Name() string { return HeaderStrictTransportSecurity }

// Value implements Header. Directive order is fixed: max-age, includeSubDomains, preload.
func (s StrictTransportSecurity) Value() string {
	v := "max-age=" + strconv.FormatUint(uint64(s.maxAge), 10)
	if s.includeSubDomains {
		v += "; includeSubDomains"
	}
	if s.preload {
		v += "; preload"
	}
	return v
}
