package redisx

import (
	"testing"
	"time"
)

func TestNewAppliesTimeouts(t *testing.T) {
	r := New("localhost:6379")
	defer r.Close()

	opts := r.Options()
	if opts.Addr != "localhost:6379" {
		t.Fatalf("unexpected addr %q", opts.Addr)
	}
	if opts.ReadTimeout != 2*time.Second {
		t.Fatalf("read timeout not applied: %v", opts.ReadTimeout)
	}
	if opts.WriteTimeout != 2*time.Second {
		t.Fatalf("write timeout not applied: %v", opts.WriteTimeout)
	}
}
