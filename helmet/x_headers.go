package helmet

// XContentTypeOptions manages the X-Content-Type-Options header.
type XContentTypeOptions string

// NoSniff is the only X-Content-Type-Options value.
const NoSniff XContentTypeOptions = "nosniff"

// Name implements Header.
func (XContentTypeOptions) Name() string { return HeaderXContentTypeOptions }

// Value implements Header.
func (o XContentTypeOptions) Value() string { return string(o) }

// XDNSPrefetchControl manages the X-DNS-Prefetch-Control header.
type XDNSPrefetchControl string

// X-DNS-Prefetch-Control values.
const (
	DNSPrefetchOff XDNSPrefetchControl = "off"
	DNSPrefetchOn  XDNSPrefetchControl = "on"
)

// Name implements Header.
func (XDNSPrefetchControl) Name() string { return HeaderXDNSPrefetchControl }

// Value implements Header.
func (c XDNSPrefetchControl) Value() string { return string(c) }

// XDownloadOptions manages the X-Download-Options header.
type XDownloadOptions string

// NoOpen is the only X-Download-Options value.
const NoOpen XDownloadOptions = "noopen"

// Name implements Header.
func (XDownloadOptions) Name() string { return HeaderXDownloadOptions }

// Value implements Header.
func (o XDownloadOptions) Value() string { return string(o) }

type frameMode uint8

const (
	frameDeny frameMode = iota
	frameSameOrigin
	frameAllowFrom
)

// XFrameOptions manages the X-Frame-Options header.
// Unlike every other family its values are upper-case.
type XFrameOptions struct {
	mode frameMode
	uri  string
}

// FrameDeny renders as "DENY".
func FrameDeny() XFrameOptions { return XFrameOptions{mode: frameDeny} }

// FrameSameOrigin renders as "SAMEORIGIN".
func FrameSameOrigin() XFrameOptions { return XFrameOptions{mode: frameSameOrigin} }

// FrameAllowFrom renders as "ALLOW-FROM <uri>" with the uri copied verbatim.
// ALLOW-FROM is obsolete in current browsers; prefer the frame-ancestors CSP directive.
func FrameAllowFrom(uri string) XFrameOptions {
	return XFrameOptions{mode: frameAllowFrom, uri: uri}
}

// Name implements Header.
func (XFrameOptions) Name() string { return HeaderXFrameOptions }

// Value implements Header.
func (o XFrameOptions) Value() string {
	switch o.mode {
	case frameSameOrigin:
		return "SAMEORIGIN"
	case frameAllowFrom:
		return "ALLOW-FROM " + o.uri
	default:
		return "DENY"
	}
}

// XPermittedCrossDomainPolicies manages the X-Permitted-Cross-Domain-Policies header.
type XPermittedCrossDomainPolicies string

// X-Permitted-Cross-Domain-Policies values.
const (
	CrossDomainNone          XPermittedCrossDomainPolicies = "none"
	CrossDomainMasterOnly    XPermittedCrossDomainPolicies = "master-only"
	CrossDomainByContentType XPermittedCrossDomainPolicies = "by-content-type"
	CrossDomainByFTPFilename XPermittedCrossDomainPolicies = "by-ftp-filename"
	CrossDomainAll           XPermittedCrossDomainPolicies = "all"
)

// Name implements Header.
func (XPermittedCrossDomainPolicies) Name() string { return HeaderXPermittedCrossDomainPolicies }

// Value implements Header.
func (p XPermittedCrossDomainPolicies) Value() string { return string(p) }

// XXSSProtection manages the X-XSS-Protection header.
// ModeBlock and Report only affect the rendering when the filter is on.
type XXSSProtection struct {
	on        bool
	modeBlock bool
	hasReport bool
	report    string
}

// XSSProtectionOff disables the filter and renders as "0".
func XSSProtectionOff() XXSSProtection { return XXSSProtection{} }

// XSSProtectionOn enables the filter and renders as "1".
func XSSProtectionOn() XXSSProtection { return XXSSProtection{on: true} }

// ModeBlock adds "mode=block".
func (x XXSSProtection) ModeBlock() XXSSProtection {
	x.modeBlock = true
	return x
}

// Report adds "report=<uri>". The uri is emitted verbatim, even when empty.
func (x XXSSProtection) Report(uri string) XXSSProtection {
	x.hasReport = true
	x.report = uri
	return x
}

// Name implements Header.
func (XXSSProtection) Name() string { return HeaderXXSSProtection }

// Value implements Header.
func (x XXSSProtection) Value() string {
	if !x.on {
		return "0"
	}
	v := "1"
	if x.modeBlock {
		v += "; mode=block"
	}
	if x.hasReport {
		v += "; report=" + x.report
	}
	return v
}

// XPoweredBy manages the X-Powered-By header. The value is emitted verbatim.
type XPoweredBy string

// Name implements Header.
func (XPoweredBy) Name() string { return HeaderXPoweredBy }

// Value implements Header.
func (p XPoweredBy) Value() string { return string(p) }
