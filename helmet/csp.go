package helmet

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownDirective is returned by ParseDirectiveName for keywords it does not recognize.
var ErrUnknownDirective = errors.New("unknown content-security-policy directive")

// DirectiveName is a Content-Security-Policy directive keyword.
type DirectiveName string

// Supported directive keywords.
const (
	DirectiveChildSrc                DirectiveName = "child-src"
	DirectiveConnectSrc              DirectiveName = "connect-src"
	DirectiveDefaultSrc              DirectiveName = "default-src"
	DirectiveFontSrc                 DirectiveName = "font-src"
	DirectiveFrameSrc                DirectiveName = "frame-src"
	DirectiveImgSrc                  DirectiveName = "img-src"
	DirectiveManifestSrc             DirectiveName = "manifest-src"
	DirectiveMediaSrc                DirectiveName = "media-src"
	DirectiveObjectSrc               DirectiveName = "object-src"
	DirectivePrefetchSrc             DirectiveName = "prefetch-src"
	DirectiveScriptSrc               DirectiveName = "script-src"
	DirectiveScriptSrcElem           DirectiveName = "script-src-elem"
	DirectiveScriptSrcAttr           DirectiveName = "script-src-attr"
	DirectiveStyleSrc                DirectiveName = "style-src"
	DirectiveStyleSrcElem            DirectiveName = "style-src-elem"
	DirectiveStyleSrcAttr            DirectiveName = "style-src-attr"
	DirectiveWorkerSrc               DirectiveName = "worker-src"
	DirectiveBaseURI                 DirectiveName = "base-uri"
	DirectiveSandbox                 DirectiveName = "sandbox"
	DirectiveFormAction              DirectiveName = "form-action"
	DirectiveFrameAncestors          DirectiveName = "frame-ancestors"
	DirectiveReportTo                DirectiveName = "report-to"
	DirectiveRequireTrustedTypesFor  DirectiveName = "require-trusted-types-for"
	DirectiveTrustedTypes            DirectiveName = "trusted-types"
	DirectiveUpgradeInsecureRequests DirectiveName = "upgrade-insecure-requests"
)

var knownDirectives = []DirectiveName{
	DirectiveChildSrc, DirectiveConnectSrc, DirectiveDefaultSrc, DirectiveFontSrc,
	DirectiveFrameSrc, DirectiveImgSrc, DirectiveManifestSrc, DirectiveMediaSrc,
	DirectiveObjectSrc, DirectivePrefetchSrc, DirectiveScriptSrc, DirectiveScriptSrcElem,
	DirectiveScriptSrcAttr, DirectiveStyleSrc, DirectiveStyleSrcElem, DirectiveStyleSrcAttr,
	DirectiveWorkerSrc, DirectiveBaseURI, DirectiveSandbox, DirectiveFormAction,
	DirectiveFrameAncestors, DirectiveReportTo, DirectiveRequireTrustedTypesFor,
	DirectiveTrustedTypes, DirectiveUpgradeInsecureRequests,
}

// ParseDirectiveName maps a keyword such as "script-src" to its DirectiveName.
// Matching is case-insensitive and ignores surrounding whitespace.
func ParseDirectiveName(keyword string) (DirectiveName, error) {
	name := DirectiveName(strings.ToLower(strings.TrimSpace(keyword)))
	if slices.Contains(knownDirectives, name) {
		return name, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDirective, keyword)
}

// Directive is one clause of a Content-Security-Policy value.
// Values are trusted verbatim: they are neither escaped nor deduplicated.
type Directive struct {
	name   DirectiveName
	values []string
}

// NewDirective returns a directive clause. Values are ignored for upgrade-insecure-requests.
func NewDirective(name DirectiveName, values ...string) Directive {
	if name == DirectiveUpgradeInsecureRequests {
		return Directive{name: name}
	}
	return Directive{name: name, values: slices.Clone(values)}
}

// Name returns the directive keyword.
func (d Directive) Name() DirectiveName { return d.name }

// Values returns a copy of the directive's source list.
func (d Directive) Values() []string { return slices.Clone(d.values) }

// String renders the clause. report-to is also emitted as report-uri with the same
// values for user agents that only understand the legacy directive.
func (d Directive) String() string {
	switch d.name {
	case DirectiveUpgradeInsecureRequests:
		return string(d.name)
	case DirectiveReportTo:
		values := strings.Join(d.values, " ")
		return "report-to " + values + "; report-uri " + values
	default:
		return string(d.name) + " " + strings.Join(d.values, " ")
	}
}

// ContentSecurityPolicy manages the Content-Security-Policy header, or
// Content-Security-Policy-Report-Only when ReportOnly is set.
// Directives render in insertion order; repeated directives are all kept.
// Every builder method returns an updated copy and leaves the receiver untouched.
type ContentSecurityPolicy struct {
	directives []Directive
	reportOnly bool
}

// NewContentSecurityPolicy returns a policy with no directives.
func NewContentSecurityPolicy() ContentSecurityPolicy {
	return ContentSecurityPolicy{}
}

// DefaultContentSecurityPolicy returns the baseline policy:
//
//	default-src 'self'; base-uri 'self'; font-src 'self' https: data:;
//	form-action 'self'; frame-ancestors 'self'; img-src 'self' data:;
//	object-src 'none'; script-src 'self'; script-src-attr 'none';
//	style-src 'self' https: 'unsafe-inline'; upgrade-insecure-requests
func DefaultContentSecurityPolicy() ContentSecurityPolicy {
	return NewContentSecurityPolicy().
		DefaultSrc("'self'").
		BaseURI("'self'").
		FontSrc("'self'", "https:", "data:").
		FormAction("'self'").
		FrameAncestors("'self'").
		ImgSrc("'self'", "data:").
		ObjectSrc("'none'").
		ScriptSrc("'self'").
		ScriptSrcAttr("'none'").
		StyleSrc("'self'", "https:", "'unsafe-inline'").
		UpgradeInsecureRequests()
}

// Directive appends a directive clause.
func (p ContentSecurityPolicy) Directive(d Directive) ContentSecurityPolicy {
	p.directives = append(slices.Clip(p.directives), d)
	return p
}

// Directives returns a copy of the policy's clauses in render order.
func (p ContentSecurityPolicy) Directives() []Directive {
	return slices.Clone(p.directives)
}

// ReportOnly switches the header name to Content-Security-Policy-Report-Only.
// The rendered value is unchanged.
func (p ContentSecurityPolicy) ReportOnly() ContentSecurityPolicy {
	p.reportOnly = true
	return p
}

// IsReportOnly reports whether the policy is emitted in report-only mode.
func (p ContentSecurityPolicy) IsReportOnly() bool { return p.reportOnly }

// Name implements Header.
func (p ContentSecurityPolicy) Name() string {
	if p.reportOnly {
		return HeaderContentSecurityPolicyReportOnly
	}
	return HeaderContentSecurityPolicy
}

// Value implements Header.
func (p ContentSecurityPolicy) Value() string {
	fragments := make([]string, len(p.directives))
	for i, d := range p.directives {
		fragments[i] = d.String()
	}
	return strings.Join(fragments, "; ")
}

// ChildSrc sets valid sources for web workers and nested browsing contexts.
func (p ContentSecurityPolicy) ChildSrc(values ...string) ContentSecurityPolicy {
	return p.Directive(NewDirective(DirectiveChildSrc, values...))
}

// ConnectSrc restricts URLs loaded by script interfaces (fetch, XHR, WebSocket, EventSource).
func (p ContentSecurityPolicy) ConnectSrc(values ...string) ContentSecurityPolicy {
	return p.Directive(NewDirective(DirectiveConnectSrc, values...))
}

// DefaultSrc is the fallback for the other fetch directives.
func (p ContentSecurityPolicy) DefaultSrc(values ...string) ContentSecurityPolicy {
	return p.Directive(NewDirective(DirectiveDefaultSrc, values...))
}

// FontSrc sets valid sources for fonts loaded with @font-face.
func (p ContentSecurityPolicy) FontSrc(values ...string) ContentSecurityPolicy {
	return p.Directive(NewDirective(DirectiveFontSrc, values...))
}

// FrameSrc sets valid sources for frame and iframe contents.
func (p ContentSecurityPolicy) FrameSrc(values ...string) ContentSecurityPolicy {
	return p.Directive(NewDirective(DirectiveFrameSrc, values...))
}

// ImgSrc sets valid sources of images and favicons.
func (p ContentSecurityPolicy) ImgSrc(values ...string) ContentSecurityPolicy {
	return p.Directive(NewDirective(DirectiveImgSrc, values...))
}

// ManifestSrc sets valid sources of application manifests.
func (p ContentSecurityPolicy) ManifestSrc(values ...string) ContentSecurityPolicy {
	return p.Directive(NewDirective(DirectiveManifestSrc, values...))
}

// MediaSrc sets valid sources for audio and video.
func (p ContentSecurityPolicy) MediaSrc(values ...string) ContentSecurityPolicy {
	return p.Directive(NewDirective(DirectiveMediaSrc, values...))
}

// ObjectSrc sets valid sources for object and embed elements.
func (p ContentSecurityPolicy) ObjectSrc(values ...string) ContentSecurityPolicy {
	return p.Directive(NewDirective(DirectiveObjectSrc, values...))
}

// PrefetchSrc sets valid sources to be prefetched or prerendered.
func (p ContentSecurityPolicy) PrefetchSrc(values ...string) ContentSecurityPolicy {
	return p.Directive(NewDirective(DirectivePrefetchSrc, values...))
}

// ScriptSrc sets valid sources for JavaScript.
func (p ContentSecurityPolicy) ScriptSrc(values ...string) ContentSecurityPolicy {
	return p.Directive(NewDirective(DirectiveScriptSrc, values...))
}

// ScriptSrcElem sets valid sources for script elements.
func (p ContentSecurityPolicy) ScriptSrcElem(values ...string) ContentSecurityPolicy {
	return p.Directive(NewDirective(DirectiveScriptSrcElem, values...))
}

// ScriptSrcAttr sets valid sources for inline event handlers.
func (p ContentSecurityPolicy) ScriptSrcAttr(values ...string) ContentSecurityPolicy {
	return p.Directive(NewDirective(DirectiveScriptSrcAttr, values...))
}

// StyleSrc sets valid sources for stylesheets.
func (p ContentSecurityPolicy) StyleSrc(values ...string) ContentSecurityPolicy {
	return p.Directive(NewDirective(DirectiveStyleSrc, values...))
}

// StyleSrcElem sets valid sources for style and stylesheet link elements.
func (p ContentSecurityPolicy) StyleSrcElem(values ...string) ContentSecurityPolicy {
	return p.Directive(NewDirective(DirectiveStyleSrcElem, values...))
}

// StyleSrcAttr sets valid sources for inline style attributes.
func (p ContentSecurityPolicy) StyleSrcAttr(values ...string) ContentSecurityPolicy {
	return p.Directive(NewDirective(DirectiveStyleSrcAttr, values...))
}

// WorkerSrc sets valid sources for Worker, SharedWorker and ServiceWorker scripts.
func (p ContentSecurityPolicy) WorkerSrc(values ...string) ContentSecurityPolicy {
	return p.Directive(NewDirective(DirectiveWorkerSrc, values...))
}

// BaseURI restricts URLs usable in the document's base element.
func (p ContentSecurityPolicy) BaseURI(values ...string) ContentSecurityPolicy {
	return p.Directive(NewDirective(DirectiveBaseURI, values...))
}

// Sandbox enables a sandbox for the resource, like the iframe sandbox attribute.
func (p ContentSecurityPolicy) Sandbox(values ...string) ContentSecurityPolicy {
	return p.Directive(NewDirective(DirectiveSandbox, values...))
}

// FormAction restricts URLs usable as form submission targets.
func (p ContentSecurityPolicy) FormAction(values ...string) ContentSecurityPolicy {
	return p.Directive(NewDirective(DirectiveFormAction, values...))
}

// FrameAncestors sets valid parents that may embed the page.
func (p ContentSecurityPolicy) FrameAncestors(values ...string) ContentSecurityPolicy {
	return p.Directive(NewDirective(DirectiveFrameAncestors, values...))
}

// ReportTo sets the violation reporting endpoints. The same values are also
// rendered under report-uri.
func (p ContentSecurityPolicy) ReportTo(values ...string) ContentSecurityPolicy {
	return p.Directive(NewDirective(DirectiveReportTo, values...))
}

// RequireTrustedTypesFor enforces Trusted Types at DOM XSS sinks.
func (p ContentSecurityPolicy) RequireTrustedTypesFor(values ...string) ContentSecurityPolicy {
	return p.Directive(NewDirective(DirectiveRequireTrustedTypesFor, values...))
}

// TrustedTypes allow-lists Trusted Types policy names.
func (p ContentSecurityPolicy) TrustedTypes(values ...string) ContentSecurityPolicy {
	return p.Directive(NewDirective(DirectiveTrustedTypes, values...))
}

// UpgradeInsecureRequests instructs user agents to fetch HTTP URLs over HTTPS.
func (p ContentSecurityPolicy) UpgradeInsecureRequests() ContentSecurityPolicy {
	return p.Directive(NewDirective(DirectiveUpgradeInsecureRequests))
}
