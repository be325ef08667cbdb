package http

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/DRSN-tech/aircon-backend/internal/cfg"
)

func TestServerStopIsNotAnError(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	srv := NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}), &cfg.HTTPConfig{ReadTimeout: time.Second, WriteTimeout: time.Second, IdleTimeout: time.Second})

	done := make(chan error, 1)
	go func() { done <- srv.Serve(lis) }()

	res, err := http.Get("http://" + lis.Addr().String() + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d", res.StatusCode)
	}

	if err := srv.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve returned %v after Stop", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
}
