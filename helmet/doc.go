// Package helmet builds security-related HTTP response headers and injects them into responses.
//
// A Helmet is an ordered set of Header values. Each built-in family renders a
// canonical header name and value:
//
//	h := helmet.Default().
//	    Add(helmet.COEPRequireCorp).
//	    Add(helmet.XPoweredBy("go-helmet"))
//
// The Content-Security-Policy assembler keeps directives in the order they are added:
//
//	csp := helmet.NewContentSecurityPolicy().
//	    DefaultSrc("'self'").
//	    ScriptSrc("'self'", "https://cdn.example.com").
//	    ReportTo("https://example.com/csp").
//	    ReportOnly()
//
// An Injector renders the set once, rejecting names or values that are not valid
// HTTP header fields, and appends the result to every response:
//
//	inj, err := helmet.NewInjector(h)
//	if err != nil {
//	    return err
//	}
//	http.ListenAndServe(":8080", inj.Handler(mux))
//
// Headers are appended, never replaced. Header values are trusted verbatim.
package helmet
