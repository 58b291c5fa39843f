package ai

import (
	"context"
	"testing"
	"time"
)

func TestTokenBucketAllowsBurstThenBlocks(t *testing.T) {
	// 60 rpm = 1 token/sec, burst 2: two immediate calls, third denied.
	l := NewTokenBucket(60, 2)

	if !l.Allow() {
		t.Fatal("first Allow() = false, want burst token")
	}
	if !l.Allow() {
		t.Fatal("second Allow() = false, want burst token")
	}
	if l.Allow() {
		t.Fatal("third Allow() = true, want empty bucket")
	}
}

func TestTokenBucketRefills(t *testing.T) {
	// Very fast rate so the test does not sleep long: 6000 rpm = 100/sec.
	l := NewTokenBucket(6000, 1)
	if !l.Allow() {
		t.Fatal("initial token missing")
	}
	if l.Allow() {
		t.Fatal("bucket not drained")
	}

	time.Sleep(50 * time.Millisecond)
	if !l.Allow() {
		t.Fatal("bucket did not refill after waiting")
	}
}

func TestTokenBucketWaitHonorsContext(t *testing.T) {
	// One request per minute: the second Wait would block for ~60s.
	l := NewTokenBucket(1, 1)
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := l.Wait(ctx)
	if err == nil {
		t.Fatal("second Wait() error = nil, want context deadline")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("Wait() held for %v before honoring cancellation", elapsed)
	}
}

func TestNoopLimiter(t *testing.T) {
	l := NoopLimiter{}
	for i := 0; i < 100; i++ {
		if !l.Allow() {
			t.Fatal("NoopLimiter denied a call")
		}
	}
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
}
