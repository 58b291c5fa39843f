package netutil

import (
	"net"
	"reflect"
	"testing"
)

func TestSelectBindAddrPreferredFree(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	got, err := SelectBindAddr(addr, nil, false)
	if err != nil {
		t.Fatalf("SelectBindAddr() error = %v", err)
	}
	if got != addr {
		t.Fatalf("SelectBindAddr() = %q, want %q", got, addr)
	}
}

func TestSelectBindAddrFallback(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen busy: %v", err)
	}
	defer func() { _ = busy.Close() }()

	free, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen free: %v", err)
	}
	freeAddr := free.Addr().String()
	_ = free.Close()

	got, err := SelectBindAddr(busy.Addr().String(), []string{busy.Addr().String(), freeAddr}, true)
	if err != nil {
		t.Fatalf("SelectBindAddr() error = %v", err)
	}
	if got != freeAddr {
		t.Fatalf("SelectBindAddr() = %q, want %q", got, freeAddr)
	}
}

func TestPortCandidates(t *testing.T) {
	got := PortCandidates("127.0.0.1:8487", 3)
	want := []string{"127.0.0.1:8488", "127.0.0.1:8489", "127.0.0.1:8490"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("PortCandidates() = %v, want %v", got, want)
	}

	if got := PortCandidates("not-an-address", 3); got != nil {
		t.Fatalf("PortCandidates() = %v, want nil for malformed address", got)
	}

	if got := PortCandidates("127.0.0.1:65534", 5); len(got) != 1 {
		t.Fatalf("PortCandidates() = %v, want clamp at port ceiling", got)
	}
}
