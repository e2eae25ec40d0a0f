package main

import (
	"context"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/iwvelando/deal-forecast/internal/server"
	"github.com/iwvelando/deal-forecast/pkg/constants"
	"go.uber.org/zap"
)

func TestServeWaitsForInFlightRequests(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	srv := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			close(started)
			<-release
			finished.Store(true)
			w.WriteHeader(http.StatusOK)
		}),
		ReadHeaderTimeout: time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	result := make(chan error, 1)
	go func() {
		result <- serve(ctx, srv, ln, zap.NewNop())
	}()

	clientErr := make(chan error, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/")
		if err == nil {
			_ = resp.Body.Close()
		}
		clientErr <- err
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the handler")
	}
	cancel()

	select {
	case err := <-result:
		t.Fatalf("serve returned %v while a request was still in flight", err)
	case <-time.After(200 * time.Millisecond):
	}

	close(release)
	select {
	case err := <-result:
		if err != nil {
			t.Fatalf("serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after the request drained")
	}
	if !finished.Load() {
		t.Error("serve returned before the in-flight handler finished")
	}
	if err := <-clientErr; err != nil {
		t.Errorf("in-flight request failed: %v", err)
	}
}

func TestServeReturnsListenerErrors(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	_ = ln.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv := &http.Server{Handler: http.NotFoundHandler(), ReadHeaderTimeout: time.Second}
	if err := serve(ctx, srv, ln, zap.NewNop()); err == nil {
		t.Fatal("expected an error from a closed listener")
	}
}

func TestApplyUploadOverride(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected int64
		wantErr  bool
	}{
		{"Empty keeps configured size", "", constants.DefaultMaxUploadSizeBytes, false},
		{"Units are parsed", "512K", 512 * 1024, false},
		{"Invalid size is rejected", "lots", constants.DefaultMaxUploadSizeBytes, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := server.LoadConfig("")
			if err != nil {
				t.Fatalf("LoadConfig() error = %v", err)
			}
			err = applyUploadOverride(cfg, tt.value)
			if (err != nil) != tt.wantErr {
				t.Fatalf("applyUploadOverride(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if cfg.UploadSizeBytes() != tt.expected {
				t.Errorf("UploadSizeBytes() = %d, expected %d", cfg.UploadSizeBytes(), tt.expected)
			}
		})
	}
}
