// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailyexamresult/notice-engine/pkg/types"
)

func init() {
	// Use a tiny base delay so tests finish quickly.
	RetryBaseDelay = 1 * time.Millisecond
}

func testClient() *Client {
	return New(types.HTTPConfig{
		Timeout:       5 * time.Second,
		RobotsTimeout: 2 * time.Second,
		UserAgent:     "notice-engine/test",
	})
}

func TestPageSendsIdentifyingHeaders(t *testing.T) {
	var gotUA, gotAccept string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte("<html>ok</html>"))
	}))
	defer ts.Close()

	body, err := testClient().Page(context.Background(), ts.URL)
	require.NoError(t, err)

	assert.Equal(t, "<html>ok</html>", body)
	assert.Equal(t, "notice-engine/test", gotUA)
	assert.Contains(t, gotAccept, "text/html")
}

func TestBytesFetchesBinary(t *testing.T) {
	payload := []byte{0x25, 0x50, 0x44, 0x46, 0x00, 0xff}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("Accept"), "application/pdf")
		w.Write(payload)
	}))
	defer ts.Close()

	data, err := testClient().Bytes(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestGetRetriesOn429(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("finally"))
	}))
	defer ts.Close()

	body, err := testClient().Page(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "finally", body)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGetGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer ts.Close()

	_, err := testClient().Page(context.Background(), ts.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Equal(t, int32(maxRetries+1), atomic.LoadInt32(&calls))
}

func TestGetNonOKStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := testClient().Page(context.Background(), ts.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestRobotsUsesShortTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("User-agent: *\nDisallow:\n"))
	}))
	defer ts.Close()

	body, err := testClient().Robots(context.Background(), ts.URL+"/robots.txt")
	require.NoError(t, err)
	assert.Contains(t, body, "User-agent")
}

func TestPolitenessLimiterDelaysSecondRequest(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer ts.Close()

	c := New(types.HTTPConfig{
		Timeout:           5 * time.Second,
		UserAgent:         "notice-engine/test",
		RequestsPerSecond: 20,
	})

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := c.Page(context.Background(), ts.URL)
		require.NoError(t, err)
	}
	// At 20 req/s with burst 1 the second and third requests wait ~50ms
	// each.
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}
