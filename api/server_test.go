/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/mothership/datastore/mock"
	"github.com/suparena/mothership/registry"
)

func newTestServer(t *testing.T) (*Server, *mock.DataStore) {
	t.Helper()
	logger, _ := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	store := mock.New()
	svc := registry.New(store, registry.WithLogger(logger))
	return New(svc, WithLogger(logger), WithNodeID("instance-1"), WithVersion("1.2.3")), store
}

func doRequest(s *Server, method, path, body, remoteAddr string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestRegisterThenResolve(t *testing.T) {
	s, _ := newTestServer(t)

	w := doRequest(s, http.MethodPost, "/register", `{"topic_name":"sensor-a","node_id":"n1","node_port":9000}`, "10.0.0.5:51234")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = doRequest(s, http.MethodGet, "/topics/sensor-a", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"node_address":"10.0.0.5:9000","node_id":"n1","node_topic":"sensor-a"}`, w.Body.String())
}

func TestRegisterIgnoresForwardingHeaders(t *testing.T) {
	s, store := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"topic_name":"t","node_id":"n1","node_port":80}`))
	req.RemoteAddr = "10.0.0.7:4000"
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "10.0.0.7:80|n1", string(store.GetData()["t"]))
}

func TestRegisterIPv6Caller(t *testing.T) {
	s, store := newTestServer(t)

	w := doRequest(s, http.MethodPost, "/register", `{"topic_name":"t","node_id":"n1","node_port":80}`, "[::1]:4000")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[::1]:80|n1", string(store.GetData()["t"]))
}

func TestRegisterBadRequests(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"topic_name":`},
		{"port as string", `{"topic_name":"t","node_id":"n1","node_port":"80"}`},
		{"port out of range", `{"topic_name":"t","node_id":"n1","node_port":70000}`},
		{"missing port", `{"topic_name":"t","node_id":"n1"}`},
		{"empty topic", `{"topic_name":"","node_id":"n1","node_port":80}`},
		{"empty node id", `{"topic_name":"t","node_id":"","node_port":80}`},
		{"separator in node id", `{"topic_name":"t","node_id":"a|b","node_port":80}`},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, store := newTestServer(t)
			w := doRequest(s, http.MethodPost, "/register", c.body, "10.0.0.5:1")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, 0, store.Count())
		})
	}
}

func TestRegisterStoreFailure(t *testing.T) {
	s, store := newTestServer(t)
	store.WithPutError(fmt.Errorf("disk full"))

	w := doRequest(s, http.MethodPost, "/register", `{"topic_name":"t","node_id":"n1","node_port":80}`, "10.0.0.5:1")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestResolveStatuses(t *testing.T) {
	cases := []struct {
		name   string
		setup  func(*mock.DataStore)
		path   string
		status int
		body   string
	}{
		{
			name:   "unknown topic",
			setup:  func(*mock.DataStore) {},
			path:   "/topics/missing",
			status: http.StatusBadRequest,
			body:   `{}`,
		},
		{
			name:   "no separator",
			setup:  func(m *mock.DataStore) { m.SetRaw("t", []byte("garbage")) },
			path:   "/topics/t",
			status: http.StatusInternalServerError,
			body:   `{"error":"bad data for mothership entry"}`,
		},
		{
			name:   "not utf8",
			setup:  func(m *mock.DataStore) { m.SetRaw("t", []byte{0xff, 0xfe}) },
			path:   "/topics/t",
			status: http.StatusInternalServerError,
			body:   `{"error":"bad data for mothership entry"}`,
		},
		{
			name:   "store failure",
			setup:  func(m *mock.DataStore) { m.WithGetError(fmt.Errorf("io error")) },
			path:   "/topics/t",
			status: http.StatusInternalServerError,
			body:   `{}`,
		},
		{
			name:   "escaped topic",
			setup:  func(m *mock.DataStore) { m.SetRaw("a/b c", []byte("10.0.0.1:80|n1")) },
			path:   "/topics/a%2Fb%20c",
			status: http.StatusOK,
			body:   `{"node_address":"10.0.0.1:80","node_id":"n1","node_topic":"a/b c"}`,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, store := newTestServer(t)
			c.setup(store)
			w := doRequest(s, http.MethodGet, c.path, "", "")
			assert.Equal(t, c.status, w.Code)
			assert.JSONEq(t, c.body, w.Body.String())
		})
	}
}

func TestResolveWrongMethod(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(s, http.MethodPost, "/topics/t", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	w := doRequest(s, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var res HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, "ok", res.Status)
	assert.Equal(t, "instance-1", res.NodeID)
	assert.Equal(t, "1.2.3", res.Version)
	assert.False(t, time.Time(res.StartedAt).IsZero())
}

func TestMetrics(t *testing.T) {
	s, _ := newTestServer(t)
	doRequest(s, http.MethodPost, "/register", `{"topic_name":"t","node_id":"n1","node_port":80}`, "10.0.0.5:1")
	doRequest(s, http.MethodGet, "/topics/t", "", "")
	doRequest(s, http.MethodGet, "/topics/missing", "", "")

	w := doRequest(s, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `mothership_registrations_total{result="ok"} 1`)
	assert.Contains(t, body, `mothership_resolutions_total{result="ok"} 1`)
	assert.Contains(t, body, `mothership_resolutions_total{result="not_found"} 1`)
	assert.Contains(t, body, `mothership_http_request_duration_seconds_count{method="GET",route="/topics/{topic_name}"} 2`)
}

func TestRequestLogging(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	s := New(registry.New(mock.New(), registry.WithLogger(logger)), WithLogger(logger))

	doRequest(s, http.MethodGet, "/topics/missing", "", "")

	var found bool
	for _, e := range hook.AllEntries() {
		if e.Message == "request" {
			found = true
			assert.Equal(t, http.MethodGet, e.Data["method"])
			assert.Equal(t, "/topics/missing", e.Data["path"])
			assert.Equal(t, http.StatusBadRequest, e.Data["status"])
		}
	}
	assert.True(t, found, "request log entry")
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s, _ := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, ln)
	}()

	url := "http://" + ln.Addr().String()
	res, err := http.Post(url+"/register", "application/json", bytes.NewBufferString(`{"topic_name":"t","node_id":"n1","node_port":9000}`))
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = http.Get(url + "/topics/t")
	require.NoError(t, err)
	var got map[string]string
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	res.Body.Close()
	assert.Equal(t, "127.0.0.1:9000", got["node_address"])

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
