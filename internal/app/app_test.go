package app

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jrsteele09/go-blog-server/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestSafely(t *testing.T) {
	err := safely(context.Background(), func(context.Context) error {
		panic("boom")
	})
	require.EqualError(t, err, "panic recovered")

	want := errors.New("plain")
	require.Equal(t, want, safely(context.Background(), func(context.Context) error { return want }))
}

func TestServe_StopsOnCancel(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	srv := NewHTTPServer(addr, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, srv) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr)
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusNoContent
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("Serve did not return")
	}
}

func TestServe_ListenFailure(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })

	err = Serve(context.Background(), NewHTTPServer(l.Addr().String(), http.NotFoundHandler()))
	require.Error(t, err)
}

func TestConnectRedis(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	require.NoError(t, err)

	rdb, err := ConnectRedis(ctx, "redis://"+mr.Addr())
	require.NoError(t, err)
	require.NoError(t, rdb.Close())

	_, err = ConnectRedis(ctx, "http://nope")
	require.Error(t, err)

	addr := mr.Addr()
	mr.Close()
	_, err = ConnectRedis(ctx, "redis://"+addr)
	require.ErrorIs(t, err, errors.ErrTransportFailure)
}
