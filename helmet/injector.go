package helmet

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/textproto"
	"slices"

	"github.com/felixge/httpsnoop"
	"golang.org/x/net/http/httpguts"
)

// ErrInvalidHeader matches every *InvalidHeaderError.
var ErrInvalidHeader = errors.New("invalid security header")

// InvalidHeaderError reports a rendered header that is not a valid HTTP header field.
// It is a configuration error: the policy set cannot be attached to a server.
type InvalidHeaderError struct {
	Index  int    // position in the Helmet
	Name   string // rendered field name
	Value  string // rendered field value
	Reason string // "name" or "value"
}

// Error implements the error interface.
func (e *InvalidHeaderError) Error() string {
	return fmt.Sprintf("invalid security header #%d %q: invalid field %s %q", e.Index, e.Name, e.Reason, e.offending())
}

// Is reports whether target is ErrInvalidHeader.
func (e *InvalidHeaderError) Is(target error) bool {
	return target == ErrInvalidHeader
}

func (e *InvalidHeaderError) offending() string {
	if e.Reason == "name" {
		return e.Name
	}
	return e.Value
}

// Field is a rendered header line.
type Field struct {
	Name  string
	Value string

	key string // canonical MIME key used by http.Header
}

// Injector holds the pre-rendered fields of a Helmet.
// It is immutable after construction and safe for concurrent use.
type Injector struct {
	fields []Field
}

// NewInjector renders every header of h once and validates the result against
// the HTTP field grammar. The first invalid name or value aborts with an *InvalidHeaderError.
func NewInjector(h Helmet) (*Injector, error) {
	fields := make([]Field, 0, h.Len())
	for i, hdr := range h.headers {
		name, value := hdr.Name(), hdr.Value()
		if !httpguts.ValidHeaderFieldName(name) {
			return nil, &InvalidHeaderError{Index: i, Name: name, Value: value, Reason: "name"}
		}
		if !httpguts.ValidHeaderFieldValue(value) {
			return nil, &InvalidHeaderError{Index: i, Name: name, Value: value, Reason: "value"}
		}
		fields = append(fields, Field{
			Name:  name,
			Value: value,
			key:   textproto.CanonicalMIMEHeaderKey(name),
		})
	}
	return &Injector{fields: fields}, nil
}

// MustNewInjector is like NewInjector but panics on an invalid header.
func MustNewInjector(h Helmet) *Injector {
	inj, err := NewInjector(h)
	if err != nil {
		panic(err)
	}
	return inj
}

// Fields returns a copy of the rendered fields in policy order.
func (inj *Injector) Fields() []Field {
	return slices.Clone(inj.fields)
}

// Len returns the number of rendered fields.
func (inj *Injector) Len() int {
	return len(inj.fields)
}

// Apply appends every field to dst in policy order. Existing values are kept,
// so a header already set by a handler appears alongside the injected one.
//
// Fields are stored under their canonical MIME key, as http.Header.Add would, so
// HTTP/1.x writes e.g. "X-Dns-Prefetch-Control" and "X-Xss-Protection" rather than
// the rendered spelling. Field names are case-insensitive; HTTP/2 sends them lower-cased.
func (inj *Injector) Apply(dst http.Header) {
	for _, f := range inj.fields {
		dst[f.key] = append(dst[f.key], f.Value)
	}
}

// Handler wraps next so that every response carries the rendered fields.
// They are appended right before the response is committed, or after next
// returns if it wrote nothing. A panic in next propagates without injection.
func (inj *Injector) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		applied := false
		apply := func() {
			if !applied {
				applied = true
				inj.Apply(w.Header())
			}
		}

		ww := httpsnoop.Wrap(w, httpsnoop.Hooks{
			WriteHeader: func(next httpsnoop.WriteHeaderFunc) httpsnoop.WriteHeaderFunc {
				return func(code int) {
					// informational responses are not the final header block
					if code >= http.StatusOK || code == http.StatusSwitchingProtocols {
						apply()
					}
					next(code)
				}
			},
			Write: func(next httpsnoop.WriteFunc) httpsnoop.WriteFunc {
				return func(b []byte) (int, error) {
					apply()
					return next(b)
				}
			},
			ReadFrom: func(next httpsnoop.ReadFromFunc) httpsnoop.ReadFromFunc {
				return func(src io.Reader) (int64, error) {
					apply()
					return next(src)
				}
			},
			Flush: func(next httpsnoop.FlushFunc) httpsnoop.FlushFunc {
				return func() {
					apply()
					next()
				}
			},
		})

		next.ServeHTTP(ww, r)
		apply()
	})
}
