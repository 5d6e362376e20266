package ratelimit_test

import (
	"testing"
	"time"

	"github.com/dstuk/tarot-bot/internal/ratelimit"
)

func TestLimiter_AdmitsUpToLimitWithDecreasingRemaining(t *testing.T) {
	rl := ratelimit.New(5, time.Minute)

	want := []int{4, 3, 2, 1, 0}
	for i, expected := range want {
		ok, remaining := rl.Allow("@alice:example.com")
		if !ok {
			t.Fatalf("Allow returned false on call %d/5 (expected true)", i+1)
		}
		if remaining != expected {
			t.Errorf("call %d: remaining = %d, want %d", i+1, remaining, expected)
		}
	}
}

func TestLimiter_RejectsSixthWithinWindow(t *testing.T) {
	rl := ratelimit.New(5, time.Minute)

	for i := 0; i < 5; i++ {
		rl.Allow("@bob:example.com")
	}

	ok, remaining := rl.Allow("@bob:example.com")
	if ok {
		t.Error("sixth call within the window should be rejected")
	}
	if remaining != 0 {
		t.Errorf("rejected call remaining = %d, want 0", remaining)
	}
}

func TestLimiter_IndependentPerUser(t *testing.T) {
	rl := ratelimit.New(2, time.Minute)

	rl.Allow("@alice:example.com")
	rl.Allow("@alice:example.com")
	if ok, _ := rl.Allow("@alice:example.com"); ok {
		t.Error("alice should be rate-limited")
	}

	if ok, _ := rl.Allow("@bob:example.com"); !ok {
		t.Error("bob should not be rate-limited (independent user)")
	}
}

func TestLimiter_WindowExpiry(t *testing.T) {
	// Use a very short window so the test can verify expiry without sleeping
	// for a full minute.
	window := 50 * time.Millisecond
	rl := ratelimit.New(1, window)

	if ok, _ := rl.Allow("@carol:example.com"); !ok {
		t.Fatal("first call should be admitted")
	}
	if ok, _ := rl.Allow("@carol:example.com"); ok {
		t.Fatal("second call within window should be rejected")
	}

	time.Sleep(window + 10*time.Millisecond)

	if ok, _ := rl.Allow("@carol:example.com"); !ok {
		t.Error("call after window expiry should be admitted again")
	}
}

func TestLimiter_Defaults(t *testing.T) {
	rl := ratelimit.New(0, 0)

	for i := 0; i < ratelimit.DefaultLimit; i++ {
		if ok, _ := rl.Allow("@dave:example.com"); !ok {
			t.Fatalf("Allow returned false on call %d (default limit %d)", i+1, ratelimit.DefaultLimit)
		}
	}
	if ok, _ := rl.Allow("@dave:example.com"); ok {
		t.Error("call past the default limit should be rejected")
	}
}
