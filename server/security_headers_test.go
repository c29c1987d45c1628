package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/gaborage/go-helmet/helmet"
)

const testPath = "/test"

func newSecuredEcho(t *testing.T, inj *helmet.Injector, h echo.HandlerFunc, extra ...echo.MiddlewareFunc) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Use(extra...)
	e.Use(SecurityHeaders(inj))
	e.GET(testPath, h)
	return e
}

func doGet(e *echo.Echo) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, testPath, http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSecurityHeadersDefaultSet(t *testing.T) {
	inj := helmet.MustNewInjector(helmet.Default())
	e := newSecuredEcho(t, inj, func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	rec := doGet(e)

	assert.Equal(t, http.StatusOK, rec.Code)
	for _, f := range inj.Fields() {
		assert.Equal(t, []string{f.Value}, rec.Header().Values(f.Name), f.Name)
	}
}

func TestSecurityHeadersCommitPaths(t *testing.T) {
	tests := []struct {
		name    string
		handler echo.HandlerFunc
		status  int
	}{
		{
			name:    "json_body",
			handler: func(c echo.Context) error { return c.JSON(http.StatusCreated, map[string]string{"a": "b"}) },
			status:  http.StatusCreated,
		},
		{
			name:    "no_content",
			handler: func(c echo.Context) error { return c.NoContent(http.StatusNoContent) },
			status:  http.StatusNoContent,
		},
		{
			name:    "handler_writes_nothing",
			handler: func(echo.Context) error { return nil },
			status:  http.StatusOK,
		},
		{
			name: "raw_writer",
			handler: func(c echo.Context) error {
				_, err := c.Response().Write([]byte("raw"))
				return err
			},
			status: http.StatusOK,
		},
		{
			name: "flush_before_write",
			handler: func(c echo.Context) error {
				c.Response().Flush()
				_, err := c.Response().Write([]byte("data"))
				return err
			},
			status: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inj := helmet.MustNewInjector(helmet.New().Add(helmet.NoSniff, helmet.FrameDeny()))
			rec := doGet(newSecuredEcho(t, inj, tt.handler))

			// Result carries the header block as it was when the response was committed.
			res := rec.Result()
			assert.Equal(t, tt.status, res.StatusCode)
			assert.Equal(t, []string{"nosniff"}, res.Header.Values(helmet.HeaderXContentTypeOptions))
			assert.Equal(t, []string{"DENY"}, res.Header.Values(helmet.HeaderXFrameOptions))
		})
	}
}

func TestSecurityHeadersFlushFirstOverNetwork(t *testing.T) {
	inj := helmet.MustNewInjector(helmet.Default())
	e := newSecuredEcho(t, inj, func(c echo.Context) error {
		c.Response().Flush()
		_, err := c.Response().Write([]byte("data"))
		return err
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	res, err := http.Get(srv.URL + testPath)
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "data", string(body))
	assert.Equal(t, http.StatusOK, res.StatusCode)
	for _, f := range inj.Fields() {
		assert.Equal(t, []string{f.Value}, res.Header.Values(f.Name), f.Name)
	}
}

func TestSecurityHeadersRestoresWriter(t *testing.T) {
	inj := helmet.MustNewInjector(helmet.New().Add(helmet.NoSniff))
	var inner, outer http.ResponseWriter
	capture := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			outer = c.Response().Writer
			return err
		}
	}
	e := newSecuredEcho(t, inj, func(c echo.Context) error {
		inner = c.Response().Writer
		return c.NoContent(http.StatusOK)
	}, capture)

	rec := doGet(e)

	assert.NotEqual(t, http.ResponseWriter(rec), inner)
	assert.Same(t, rec, outer)
}

func TestSecurityHeadersSkippedOnHandlerError(t *testing.T) {
	handlerErr := echo.NewHTTPError(http.StatusTeapot, "short and stout")
	inj := helmet.MustNewInjector(helmet.New().Add(helmet.NoSniff))

	var seen error
	passthroughErr := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			seen = next(c)
			return seen
		}
	}

	e := newSecuredEcho(t, inj, func(echo.Context) error { return handlerErr }, passthroughErr)
	rec := doGet(e)

	assert.Same(t, handlerErr, seen, "error is returned unchanged")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Empty(t, rec.Header().Values(helmet.HeaderXContentTypeOptions))
}

func TestSecurityHeadersSkippedOnRecoveredPanic(t *testing.T) {
	inj := helmet.MustNewInjector(helmet.New().Add(helmet.NoSniff))
	e := newSecuredEcho(t, inj, func(echo.Context) error { panic("boom") }, middleware.Recover())

	rec := doGet(e)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Values(helmet.HeaderXContentTypeOptions))
}

func TestSecurityHeadersAppliedOnceWhenOuterMiddlewareCommits(t *testing.T) {
	inj := helmet.MustNewInjector(helmet.New().Add(helmet.NoSniff))
	outerWrites := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := next(c); err != nil {
				return err
			}
			return c.String(http.StatusAccepted, "late")
		}
	}

	rec := doGet(newSecuredEcho(t, inj, func(echo.Context) error { return nil }, outerWrites))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []string{"nosniff"}, rec.Header().Values(helmet.HeaderXContentTypeOptions))
}

func TestSecurityHeadersPreserveHandlerValues(t *testing.T) {
	inj := helmet.MustNewInjector(helmet.New().Add(helmet.FrameDeny()))
	e := newSecuredEcho(t, inj, func(c echo.Context) error {
		c.Response().Header().Set(helmet.HeaderXFrameOptions, "SAMEORIGIN")
		return c.NoContent(http.StatusOK)
	})

	rec := doGet(e)

	assert.Equal(t, []string{"SAMEORIGIN", "DENY"}, rec.Header().Values(helmet.HeaderXFrameOptions))
}

func TestSecurityHeadersEmptyPolicy(t *testing.T) {
	inj := helmet.MustNewInjector(helmet.New())
	e := newSecuredEcho(t, inj, func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := doGet(e)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(helmet.HeaderXContentTypeOptions))
}

func TestSecurityHeadersSpanEvent(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Failed to shutdown test tracer provider: %v", err)
		}
	})

	inj := helmet.MustNewInjector(helmet.Default())

	t.Run("success_records_event", func(t *testing.T) {
		exporter.Reset()
		e := newSecuredEcho(t, inj, func(c echo.Context) error {
			return c.String(http.StatusOK, "ok")
		}, otelecho.Middleware(testServiceName, otelecho.WithTracerProvider(tp)))

		doGet(e)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		var found []attribute.KeyValue
		for _, ev := range spans[0].Events {
			if ev.Name == EventSecurityHeadersApplied {
				found = ev.Attributes
			}
		}
		require.NotNil(t, found, "span has a %s event", EventSecurityHeadersApplied)
		assert.Contains(t, found, attribute.Int(AttrSecurityHeadersCount, 12))
	})

	t.Run("error_records_nothing", func(t *testing.T) {
		exporter.Reset()
		e := newSecuredEcho(t, inj, func(echo.Context) error {
			return errors.New("fail")
		}, otelecho.Middleware(testServiceName, otelecho.WithTracerProvider(tp)))

		doGet(e)

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		for _, ev := range spans[0].Events {
			assert.NotEqual(t, EventSecurityHeadersApplied, ev.Name)
		}
	})
}

func collectResponses(t *testing.T, reader *sdkmetric.ManualReader) map[string]int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != MetricSecurityHeadersResponses {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "unexpected data type %T", m.Data)
			for _, dp := range sum.DataPoints {
				outcome, _ := dp.Attributes.Value(AttrSecurityHeadersOutcome)
				counts[outcome.AsString()] += dp.Value
			}
		}
	}
	return counts
}

func TestSecurityHeadersResponsesCounter(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	inj := helmet.MustNewInjector(helmet.New().Add(helmet.NoSniff))
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(SecurityHeadersWithConfig(SecurityHeadersConfig{Injector: inj, MeterProvider: mp}))
	e.GET("/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/fail", func(echo.Context) error { return echo.ErrBadRequest })
	e.GET("/panic", func(echo.Context) error { panic("boom") })

	for _, path := range []string{"/ok", "/ok", "/fail", "/panic"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, http.NoBody))
	}

	counts := collectResponses(t, reader)
	assert.Equal(t, int64(2), counts[OutcomeApplied])
	assert.Equal(t, int64(2), counts[OutcomeSkipped])
}

func TestSecurityHeadersWithConfigRequiresInjector(t *testing.T) {
	assert.Panics(t, func() {
		SecurityHeadersWithConfig(SecurityHeadersConfig{})
	})
}
