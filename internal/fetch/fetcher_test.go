package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podscribe/internal/stage"
)

func TestFetch(t *testing.T) {
	payload := strings.Repeat("a", 1024)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		fmt.Fprint(w, payload)
	}))
	defer srv.Close()

	f := NewFetcher(Policy{})
	audio, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte(payload), audio.Data)
	assert.Equal(t, "audio/mpeg", audio.ContentType)
}

func TestFetch_RejectsByContentLengthHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "4096")
		w.Write(make([]byte, 4096))
	}))
	defer srv.Close()

	f := NewFetcher(Policy{MaxBytes: 1024})
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, stage.IsKind(err, stage.KindResourceTooLarge))
}

func TestFetch_RejectsByActualBytes(t *testing.T) {
	// header lies small, body is big: the received-bytes bound must win
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		// chunked transfer, no Content-Length
		flusher := w.(http.Flusher)
		for i := 0; i < 8; i++ {
			w.Write(make([]byte, 512))
			flusher.Flush()
		}
	}))
	defer srv.Close()

	f := NewFetcher(Policy{MaxBytes: 1024})
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, stage.IsKind(err, stage.KindResourceTooLarge))
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	tests := []int{http.StatusForbidden, http.StatusNotFound, http.StatusPaymentRequired, http.StatusInternalServerError}
	for _, status := range tests {
		t.Run(http.StatusText(status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			defer srv.Close()

			f := NewFetcher(Policy{})
			_, err := f.Fetch(context.Background(), srv.URL)
			require.Error(t, err)
			assert.True(t, stage.IsKind(err, stage.KindDownload))
			assert.Equal(t, stage.Fetch, stage.StageOf(err))
		})
	}
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	f := NewFetcher(Policy{Timeout: 50 * time.Millisecond})
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, stage.IsKind(err, stage.KindTimeout))
}

func TestFetch_CancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFetcher(Policy{})
	_, err := f.Fetch(ctx, srv.URL)
	require.Error(t, err)
	assert.False(t, stage.IsKind(err, stage.KindTimeout), "caller cancellation is not a timeout")
}

func TestFetch_BadURL(t *testing.T) {
	f := NewFetcher(Policy{})
	_, err := f.Fetch(context.Background(), "http://127.0.0.1:1/nothing-listens-here")
	require.Error(t, err)
	assert.True(t, stage.IsKind(err, stage.KindDownload))
}
