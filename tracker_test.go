// Copyright 2026 The reqtrack Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package reqtrack

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gogama/reqtrack/failure"
	"github.com/gogama/reqtrack/history"
	"github.com/gogama/reqtrack/request"
)

func TestNew(t *testing.T) {
	t.Run("zero options", func(t *testing.T) {
		tr := New()
		assert.IsType(t, &HTTPTransport{}, tr.transport)
		assert.NotNil(t, tr.logger)
		assert.NotNil(t, tr.History())
		assert.Equal(t, DefaultBodyLogLimit, tr.bodyLogLimit)
		assert.Empty(t, tr.RequestHistory())
		assert.Equal(t, request.Config{}, tr.Defaults())
	})
	t.Run("options", func(t *testing.T) {
		m := newMockTransport(t)
		l := history.NewLog()
		logger := zap.NewExample()
		tr := New(
			WithTransport(m),
			WithHistory(l),
			WithLogger(logger),
			WithDefaults(request.Config{BaseURL: "http://example.com"}),
			WithBodyLogLimit(-5),
		)
		assert.Same(t, m, tr.transport)
		assert.Same(t, l, tr.History())
		assert.Same(t, logger, tr.logger)
		assert.Equal(t, "http://example.com", tr.Defaults().BaseURL)
		assert.Equal(t, 0, tr.bodyLogLimit)
	})
	t.Run("nil transport", func(t *testing.T) {
		assert.PanicsWithValue(t, "reqtrack: nil transport", func() {
			WithTransport(nil)
		})
	})
	t.Run("nil logger and history", func(t *testing.T) {
		tr := New(WithLogger(nil), WithHistory(nil))
		assert.NotNil(t, tr.logger)
		assert.NotNil(t, tr.History())
	})
}

func TestTracker_Get(t *testing.T) {
	m := newMockTransport(t)
	tr := New(WithTransport(m))
	tr.SetBaseURL("https://api.example.com")
	m.On("Execute", mock.Anything, mock.MatchedBy(func(p *request.Plan) bool {
		u, err := p.ResolveURL()
		return err == nil && p.Method == "GET" && p.URL == "/items/1" &&
			u.String() == "https://api.example.com/items/1" && p.Body == nil
	})).Return(okResponse(200, map[string]interface{}{"id": float64(1)}), nil).Once()

	r, err := tr.Get(context.Background(), "/items/1", nil)

	m.AssertExpectations(t)
	require.NoError(t, err)
	assert.Equal(t, 200, r.Status)
	assert.Equal(t, map[string]interface{}{"id": float64(1)}, r.Data)
	es := tr.RequestHistory()
	require.Len(t, es, 1)
	assert.True(t, es[0].Succeeded())
	assert.Equal(t, "GET", es[0].Method)
	assert.Equal(t, "/items/1", es[0].URL)
	assert.GreaterOrEqual(t, es[0].Duration, time.Duration(0))
	assert.Nil(t, es[0].Err)
	assert.Equal(t, 200, es[0].Response.Status)
}

func TestTracker_Post(t *testing.T) {
	m := newMockTransport(t)
	tr := New(WithTransport(m))
	m.On("Execute", mock.Anything, mock.MatchedBy(func(p *request.Plan) bool {
		return p.Method == "POST" && string(p.Body) == `{"name":"x"}` &&
			p.Config.Header.Get("Content-Type") == "application/json"
	})).Return(okResponse(201, nil), nil).Once()

	r, err := tr.Post(context.Background(), "/items", map[string]string{"name": "x"}, nil)

	m.AssertExpectations(t)
	require.NoError(t, err)
	assert.Equal(t, 201, r.Status)
	last, ok := tr.History().Last()
	require.True(t, ok)
	assert.Equal(t, "POST", last.Method)
	assert.JSONEq(t, `{"name":"x"}`, string(last.Body))
}

func TestTracker_Verbs(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		method string
		body   []byte
		call   func(tr *Tracker) (*request.Response, error)
	}{
		{"GET", nil, func(tr *Tracker) (*request.Response, error) { return tr.Get(ctx, "/a", nil) }},
		{"POST", []byte("b"), func(tr *Tracker) (*request.Response, error) { return tr.Post(ctx, "/a", "b", nil) }},
		{"PUT", []byte("c"), func(tr *Tracker) (*request.Response, error) { return tr.Put(ctx, "/a", "c", nil) }},
		{"DELETE", nil, func(tr *Tracker) (*request.Response, error) { return tr.Delete(ctx, "/a", nil) }},
		{"PATCH", []byte("d"), func(tr *Tracker) (*request.Response, error) { return tr.Patch(ctx, "/a", "d", nil) }},
		{"OPTIONS", nil, func(tr *Tracker) (*request.Response, error) { return tr.Dispatch(ctx, "options", "/a", nil, nil) }},
	}
	for _, testCase := range testCases {
		t.Run(testCase.method, func(t *testing.T) {
			m := newMockTransport(t)
			tr := New(WithTransport(m))
			m.On("Execute", ctx, mock.MatchedBy(func(p *request.Plan) bool {
				return p.Method == testCase.method && assert.ObjectsAreEqual(testCase.body, p.Body)
			})).Return(okResponse(200, nil), nil).Once()

			_, err := testCase.call(tr)

			m.AssertExpectations(t)
			require.NoError(t, err)
			es := tr.RequestHistory()
			require.Len(t, es, 1)
			assert.Equal(t, testCase.method, es[0].Method)
			assert.Equal(t, testCase.body, es[0].Body)
		})
	}
}

func TestTracker_Failure(t *testing.T) {
	t.Run("transport error", func(t *testing.T) {
		m := newMockTransport(t)
		tr := New(WithTransport(m))
		tr.SetTimeout(time.Millisecond)
		transportErr := &url.Error{Op: "Get", URL: "/slow", Err: context.DeadlineExceeded}
		m.On("Execute", mock.Anything, mock.MatchedBy(func(p *request.Plan) bool {
			return p.Config.Timeout == time.Millisecond
		})).Return(nil, transportErr).Once()

		r, err := tr.Get(context.Background(), "/slow", nil)

		m.AssertExpectations(t)
		assert.Nil(t, r)
		assert.Same(t, transportErr, err)
		es := tr.RequestHistory()
		require.Len(t, es, 1)
		assert.True(t, es[0].Failed())
		assert.Same(t, transportErr, es[0].Err)
		assert.Same(t, transportErr, es[0].Captured())
		assert.Equal(t, failure.Timeout, es[0].Kind())
		assert.Equal(t, time.Duration(0), es[0].Duration)
	})
	t.Run("status error", func(t *testing.T) {
		m := newMockTransport(t)
		tr := New(WithTransport(m))
		statusErr := &request.StatusError{Response: okResponse(404, map[string]interface{}{"message": "nope"})}
		m.On("Execute", mock.Anything, mock.Anything).Return(nil, statusErr).Once()

		r, err := tr.Delete(context.Background(), "/items/9", nil)

		assert.Nil(t, r)
		assert.Same(t, statusErr, err)
		last, ok := tr.History().Last()
		require.True(t, ok)
		require.NotNil(t, last.Response)
		assert.Equal(t, 404, last.Response.Status)
		assert.Equal(t, last.Response, last.Captured())
		assert.Equal(t, failure.Status, last.Kind())
	})
	t.Run("invalid method", func(t *testing.T) {
		m := newMockTransport(t)
		tr := New(WithTransport(m))

		r, err := tr.Dispatch(context.Background(), "BAD METHOD", "/x", nil, nil)

		assert.Nil(t, r)
		assert.Error(t, err)
		m.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		es := tr.RequestHistory()
		require.Len(t, es, 1)
		assert.Equal(t, "BAD METHOD", es[0].Method)
		assert.Same(t, err, es[0].Err)
	})
	t.Run("unencodable body", func(t *testing.T) {
		m := newMockTransport(t)
		tr := New(WithTransport(m))

		_, err := tr.Post(context.Background(), "/x", make(chan int), nil)

		assert.Error(t, err)
		m.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		assert.Equal(t, 1, tr.History().Len())
	})
	t.Run("empty method", func(t *testing.T) {
		m := newMockTransport(t)
		tr := New(WithTransport(m))

		_, err := tr.Dispatch(context.Background(), "", "", nil, nil)

		assert.ErrorIs(t, err, request.ErrEmptyURL)
		last, _ := tr.History().Last()
		assert.Equal(t, "GET", last.Method)
	})
}

func TestTracker_Defaults(t *testing.T) {
	t.Run("headers merge", func(t *testing.T) {
		tr := New(WithTransport(newMockTransport(t)))
		tr.SetDefaultHeaders(map[string]string{"x-a": "1", "X-B": "2"})
		tr.SetDefaultHeaders(map[string]string{"X-B": "3", "X-C": "4"})
		h := tr.Defaults().Header
		assert.Equal(t, "1", h.Get("X-A"))
		assert.Equal(t, "3", h.Get("X-B"))
		assert.Equal(t, "4", h.Get("X-C"))
		assert.Len(t, h, 3)
	})
	t.Run("setters", func(t *testing.T) {
		tr := New(WithTransport(newMockTransport(t)))
		auth := &request.Auth{Username: "u", Password: "p"}
		px := &request.Proxy{Host: "proxy.example", Port: 3128}
		tr.SetBaseURL("http://base")
		tr.SetTimeout(3 * time.Second)
		tr.SetAuth(auth)
		tr.SetProxy(px)
		tr.SetMaxRedirects(0)
		auth.Password = "changed"
		px.Host = "changed"

		d := tr.Defaults()
		assert.Equal(t, "http://base", d.BaseURL)
		assert.Equal(t, 3*time.Second, d.Timeout)
		assert.Equal(t, &request.Auth{Username: "u", Password: "p"}, d.Auth)
		assert.Equal(t, "proxy.example", d.Proxy.Host)
		require.NotNil(t, d.MaxRedirects)
		assert.Equal(t, 0, *d.MaxRedirects)

		tr.SetTimeout(-time.Second)
		tr.SetAuth(nil)
		tr.SetProxy(nil)
		tr.SetMaxRedirects(-1)
		d = tr.Defaults()
		assert.Equal(t, time.Duration(0), d.Timeout)
		assert.Nil(t, d.Auth)
		assert.Nil(t, d.Proxy)
		assert.Nil(t, d.MaxRedirects)
	})
	t.Run("Defaults is a copy", func(t *testing.T) {
		tr := New(WithTransport(newMockTransport(t)))
		tr.SetDefaultHeaders(map[string]string{"X-A": "1"})
		d := tr.Defaults()
		d.Header.Set("X-A", "2")
		assert.Equal(t, "1", tr.Defaults().Header.Get("X-A"))
	})
	t.Run("per-call override", func(t *testing.T) {
		m := newMockTransport(t)
		tr := New(WithTransport(m))
		tr.SetBaseURL("http://base")
		tr.SetDefaultHeaders(map[string]string{"X-A": "1", "X-B": "2"})
		tr.SetTimeout(time.Second)
		cfg := &request.Config{
			Header:  http.Header{"X-B": {"override"}},
			Timeout: request.NoTimeout,
		}
		m.On("Execute", mock.Anything, mock.MatchedBy(func(p *request.Plan) bool {
			return p.Config.BaseURL == "http://base" &&
				p.Config.Header.Get("X-A") == "1" &&
				p.Config.Header.Get("X-B") == "override" &&
				p.Config.Timeout == 0
		})).Return(okResponse(200, nil), nil).Once()

		_, err := tr.Get(context.Background(), "/x", cfg)

		m.AssertExpectations(t)
		require.NoError(t, err)
		assert.Equal(t, "2", tr.Defaults().Header.Get("X-B"))
		last, _ := tr.History().Last()
		require.NotNil(t, last.Config)
		assert.NotSame(t, cfg, last.Config)
		assert.Equal(t, "override", last.Config.Header.Get("X-B"))
	})
}

func TestTracker_Interceptors(t *testing.T) {
	t.Run("request interceptor sees every call", func(t *testing.T) {
		m := newMockTransport(t)
		tr := New(WithTransport(m))
		tr.AddRequestInterceptor(RequestInterceptorFunc(func(_ context.Context, p *request.Plan) (*request.Plan, error) {
			p.Config.Header.Set("X-Intercepted", "yes")
			return p, nil
		}))
		m.On("Execute", mock.Anything, mock.MatchedBy(func(p *request.Plan) bool {
			return p.Config.Header.Get("X-Intercepted") == "yes"
		})).Return(okResponse(200, nil), nil).Twice()

		_, err1 := tr.Get(context.Background(), "/1", nil)
		_, err2 := tr.Post(context.Background(), "/2", "body", nil)

		m.AssertExpectations(t)
		assert.NoError(t, err1)
		assert.NoError(t, err2)
		assert.Equal(t, 2, tr.History().Len())
	})
	t.Run("response interceptor mutates data", func(t *testing.T) {
		m := newMockTransport(t)
		tr := New(WithTransport(m))
		tr.AddResponseInterceptor(ResponseInterceptorFunc(func(_ context.Context, r *request.Response) (*request.Response, error) {
			r.Data.(map[string]interface{})["intercepted"] = true
			return r, nil
		}))
		m.On("Execute", mock.Anything, mock.Anything).Return(okResponse(200, map[string]interface{}{"id": float64(1)}), nil).Once()

		r, err := tr.Get(context.Background(), "/1", nil)

		require.NoError(t, err)
		assert.Equal(t, true, r.Data.(map[string]interface{})["intercepted"])
		last, _ := tr.History().Last()
		assert.Equal(t, true, last.Response.Data.(map[string]interface{})["intercepted"])
	})
	t.Run("order", func(t *testing.T) {
		m := newMockTransport(t)
		tr := New(WithTransport(m))
		var calls []string
		for _, name := range []string{"a", "b"} {
			name := name
			tr.AddRequestInterceptor(RequestInterceptorFunc(func(_ context.Context, p *request.Plan) (*request.Plan, error) {
				calls = append(calls, "request "+name)
				return p, nil
			}))
			tr.AddResponseInterceptor(ResponseInterceptorFunc(func(_ context.Context, r *request.Response) (*request.Response, error) {
				calls = append(calls, "response "+name)
				return r, nil
			}))
		}
		m.On("Execute", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
			calls = append(calls, "execute")
		}).Return(okResponse(200, nil), nil).Once()

		_, err := tr.Get(context.Background(), "/", nil)

		require.NoError(t, err)
		assert.Equal(t, []string{"request a", "request b", "execute", "response a", "response b"}, calls)
		regs := tr.Interceptors()
		require.Len(t, regs, 4)
		assert.Equal(t, []Phase{RequestPhase, ResponsePhase, RequestPhase, ResponsePhase},
			[]Phase{regs[0].Phase, regs[1].Phase, regs[2].Phase, regs[3].Phase})
		assert.NotNil(t, regs[0].Request)
		assert.Nil(t, regs[0].Response)
		assert.NotNil(t, regs[1].Response)
	})
	t.Run("request interceptor error aborts", func(t *testing.T) {
		m := newMockTransport(t)
		tr := New(WithTransport(m))
		boom := errors.New("boom")
		secondCalled := false
		tr.AddRequestInterceptor(RequestInterceptorFunc(func(context.Context, *request.Plan) (*request.Plan, error) {
			return nil, boom
		}))
		tr.AddRequestInterceptor(RequestInterceptorFunc(func(_ context.Context, p *request.Plan) (*request.Plan, error) {
			secondCalled = true
			return p, nil
		}))

		r, err := tr.Post(context.Background(), "/x", "b", nil)

		assert.Nil(t, r)
		assert.Same(t, boom, err)
		assert.False(t, secondCalled)
		m.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		last, _ := tr.History().Last()
		assert.Same(t, boom, last.Err)
		assert.Equal(t, []byte("b"), last.Body)
	})
	t.Run("response interceptor error", func(t *testing.T) {
		m := newMockTransport(t)
		tr := New(WithTransport(m))
		boom := errors.New("boom")
		tr.AddResponseInterceptor(ResponseInterceptorFunc(func(context.Context, *request.Response) (*request.Response, error) {
			return nil, boom
		}))
		m.On("Execute", mock.Anything, mock.Anything).Return(okResponse(200, nil), nil).Once()

		_, err := tr.Get(context.Background(), "/x", nil)

		assert.Same(t, boom, err)
		assert.Equal(t, 1, tr.History().Len())
	})
	t.Run("response interceptors skipped on failure", func(t *testing.T) {
		m := newMockTransport(t)
		tr := New(WithTransport(m))
		called := false
		tr.AddResponseInterceptor(ResponseInterceptorFunc(func(_ context.Context, r *request.Response) (*request.Response, error) {
			called = true
			return r, nil
		}))
		m.On("Execute", mock.Anything, mock.Anything).Return(nil, syscall.ECONNREFUSED).Once()

		_, err := tr.Get(context.Background(), "/x", nil)

		assert.Equal(t, syscall.ECONNREFUSED, err)
		assert.False(t, called)
	})
	t.Run("nil results", func(t *testing.T) {
		m := newMockTransport(t)
		tr := New(WithTransport(m))
		tr.AddRequestInterceptor(RequestInterceptorFunc(func(context.Context, *request.Plan) (*request.Plan, error) {
			return nil, nil
		}))

		_, err := tr.Get(context.Background(), "/x", nil)

		assert.Same(t, ErrNilPlan, err)

		m2 := newMockTransport(t)
		tr2 := New(WithTransport(m2))
		tr2.AddResponseInterceptor(ResponseInterceptorFunc(func(context.Context, *request.Response) (*request.Response, error) {
			return nil, nil
		}))
		m2.On("Execute", mock.Anything, mock.Anything).Return(okResponse(200, nil), nil).Once()

		_, err = tr2.Get(context.Background(), "/x", nil)

		assert.Same(t, ErrNilResponse, err)
	})
	t.Run("nil interceptor", func(t *testing.T) {
		tr := New(WithTransport(newMockTransport(t)))
		assert.PanicsWithValue(t, "reqtrack: nil interceptor", func() {
			tr.AddRequestInterceptor(nil)
		})
		assert.PanicsWithValue(t, "reqtrack: nil interceptor", func() {
			tr.AddResponseInterceptor(nil)
		})
		assert.Empty(t, tr.Interceptors())
	})
}

func TestTracker_History(t *testing.T) {
	t.Run("clear", func(t *testing.T) {
		m := newMockTransport(t)
		tr := New(WithTransport(m))
		m.On("Execute", mock.Anything, mock.Anything).Return(okResponse(200, nil), nil).Twice()
		_, _ = tr.Get(context.Background(), "/1", nil)
		_, _ = tr.Get(context.Background(), "/2", nil)
		require.Len(t, tr.RequestHistory(), 2)

		tr.ClearRequestHistory()

		assert.Empty(t, tr.RequestHistory())
		assert.Equal(t, 0, tr.History().Len())
	})
	t.Run("copy", func(t *testing.T) {
		m := newMockTransport(t)
		tr := New(WithTransport(m))
		m.On("Execute", mock.Anything, mock.Anything).Return(okResponse(200, nil), nil).Once()
		_, _ = tr.Get(context.Background(), "/1", nil)
		es := tr.RequestHistory()
		es[0].URL = "changed"
		assert.Equal(t, "/1", tr.RequestHistory()[0].URL)
	})
	t.Run("order", func(t *testing.T) {
		m := newMockTransport(t)
		tr := New(WithTransport(m))
		m.On("Execute", mock.Anything, mock.MatchedBy(func(p *request.Plan) bool {
			return p.URL != "/bad"
		})).Return(okResponse(200, nil), nil)
		m.On("Execute", mock.Anything, mock.MatchedBy(func(p *request.Plan) bool {
			return p.URL == "/bad"
		})).Return(nil, errors.New("bad"))
		_, _ = tr.Get(context.Background(), "/1", nil)
		_, _ = tr.Get(context.Background(), "/bad", nil)
		_, _ = tr.Get(context.Background(), "/3", nil)
		es := tr.RequestHistory()
		require.Len(t, es, 3)
		assert.Equal(t, "/1", es[0].URL)
		assert.True(t, es[1].Failed())
		assert.Equal(t, "/3", es[2].URL)
		assert.True(t, !es[1].Timestamp.Before(es[0].Timestamp))
		assert.True(t, !es[2].Timestamp.Before(es[1].Timestamp))
	})
	t.Run("concurrent", func(t *testing.T) {
		m := newMockTransport(t)
		tr := New(WithTransport(m))
		m.On("Execute", mock.Anything, mock.Anything).Return(okResponse(200, nil), nil)
		var wg sync.WaitGroup
		n := 25
		wg.Add(n)
		for i := 0; i < n; i++ {
			go func() {
				defer wg.Done()
				tr.SetDefaultHeaders(map[string]string{"X-N": "v"})
				_, _ = tr.Get(context.Background(), "/c", nil)
			}()
		}
		wg.Wait()
		assert.Equal(t, n, tr.History().Len())
	})
}

func TestTracker_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	m := newMockTransport(t)
	tr := New(WithTransport(m), WithLogger(zap.New(core)), WithBodyLogLimit(4))
	okResp := okResponse(200, nil)
	okResp.Body = []byte("0123456789")
	okResp.Plan = &request.Plan{Method: "GET", URL: "/ok"}
	m.On("Execute", mock.Anything, mock.MatchedBy(func(p *request.Plan) bool {
		return p.URL == "/ok"
	})).Return(okResp, nil).Once()
	m.On("Execute", mock.Anything, mock.MatchedBy(func(p *request.Plan) bool {
		return p.URL == "/fail"
	})).Return(nil, &request.StatusError{Response: okResponse(503, nil)}).Once()

	_, _ = tr.Get(context.Background(), "/ok", nil)
	_, _ = tr.Get(context.Background(), "/fail", nil)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "dispatch succeeded", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "10 B", fields["size"])
	assert.Equal(t, "0123", fields["body"])
	assert.Equal(t, "/ok", fields["url"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "dispatch failed", entries[1].Message)
	fields = entries[1].ContextMap()
	assert.Equal(t, "Status", fields["kind"])
	assert.Equal(t, int64(503), fields["status"])
	assert.Equal(t, "/fail", fields["url"])
}

func TestTracker_LoggingCompactsJSON(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	m := newMockTransport(t)
	tr := New(WithTransport(m), WithLogger(zap.New(core)))
	resp := okResponse(200, map[string]interface{}{"id": float64(1)})
	resp.Body = []byte("{\n  \"id\": 1\n}")
	m.On("Execute", mock.Anything, mock.Anything).Return(resp, nil).Once()

	_, err := tr.Get(context.Background(), "/json", nil)

	require.NoError(t, err)
	entries := logs.FilterMessage("dispatch succeeded").AllUntimed()
	require.Len(t, entries, 1)
	assert.Equal(t, `{"id":1}`, entries[0].ContextMap()["body"])
}

func TestTracker_CloseIdleConnections(t *testing.T) {
	t.Run("transport is IdleCloser", func(t *testing.T) {
		mockDoer := newMockHTTPDoerWithCloseIdleConnections(t)
		mockDoer.On("CloseIdleConnections").Once()
		tr := New(WithTransport(NewDoerTransport(mockDoer)))
		tr.CloseIdleConnections()
		mockDoer.AssertExpectations(t)
	})
	t.Run("transport is not IdleCloser", func(t *testing.T) {
		tr := New(WithTransport(newMockTransport(t)))
		assert.NotPanics(t, tr.CloseIdleConnections)
	})
}

func TestTracker_HTTP(t *testing.T) {
	tr := New(WithTransport(serverTransport(httpServer)))
	tr.SetBaseURL(httpServer.URL)
	tr.SetDefaultHeaders(map[string]string{"X-Default": "d"})
	tr.SetAuth(&request.Auth{Username: "ann", Password: "pw"})
	tr.AddRequestInterceptor(RequestInterceptorFunc(func(_ context.Context, p *request.Plan) (*request.Plan, error) {
		p.Config.Header.Set("X-Intercepted", "true")
		return p, nil
	}))

	r, err := tr.Put(context.Background(), "echo", url.Values{"k": {"v"}}, nil)

	require.NoError(t, err)
	data := r.Data.(map[string]interface{})
	assert.Equal(t, "PUT", data["method"])
	assert.Equal(t, "k=v", data["body"])
	assert.Equal(t, "ann", data["username"])
	header := data["header"].(map[string]interface{})
	assert.Equal(t, []interface{}{"d"}, header["X-Default"])
	assert.Equal(t, []interface{}{"true"}, header["X-Intercepted"])
	assert.Equal(t, []interface{}{"application/x-www-form-urlencoded"}, header["Content-Type"])

	_, err = tr.Get(context.Background(), "/redirect/1", &request.Config{MaxRedirects: request.Redirects(0)})

	var se *request.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 302, se.Response.Status)
	es := tr.RequestHistory()
	require.Len(t, es, 2)
	assert.True(t, es[0].Succeeded())
	assert.Equal(t, failure.Status, es[1].Kind())
}

func okResponse(status int, data interface{}) *request.Response {
	return &request.Response{
		Status: status,
		Header: http.Header{"Content-Type": {"application/json"}},
		Data:   data,
	}
}

type mockTransport struct {
	mock.Mock
}

func newMockTransport(t *testing.T) *mockTransport {
	m := &mockTransport{}
	m.Test(t)
	return m
}

func (m *mockTransport) Execute(ctx context.Context, p *request.Plan) (*request.Response, error) {
	args := m.Called(ctx, p)
	err := args.Error(1)
	if r, ok := args.Get(0).(*request.Response); ok {
		return r, err
	}
	return nil, err
}
