package app

import (
	"testing"
	"time"

	"github.com/dkeye/callscreen/internal/domain"
)

type policyEnv struct {
	sched    *fakeScheduler
	wm       *fakeWM
	prefs    *fakePrefs
	platform fakePlatform
	policy   *DismissalPolicy
}

func newPolicyEnv(direction domain.Direction, supports bool, prefs *fakePrefs) *policyEnv {
	env := &policyEnv{
		sched:    newFakeScheduler(),
		wm:       &fakeWM{},
		prefs:    prefs,
		platform: fakePlatform{supports: supports},
	}
	env.policy = NewDismissalPolicy(env.sched, env.wm, env.prefs, env.platform,
		func() domain.Direction { return direction })
	return env
}

// Outgoing calls never nag; prefs content is irrelevant for them.
func outgoingEnv() *policyEnv {
	return newPolicyEnv(domain.DirectionOutgoing, true, &fakePrefs{})
}

func TestImmediateDismiss(t *testing.T) {
	env := outgoingEnv()
	completions := 0
	env.policy.SetCompletion(func() { completions++ })

	env.policy.RequestDismiss(false, false)

	if !env.policy.HasDismissed() {
		t.Fatal("latch should be set")
	}
	if env.wm.endCalls != 1 || env.wm.leaveCalls != 1 {
		t.Errorf("endCalls=%d leaveCalls=%d, want 1/1", env.wm.endCalls, env.wm.leaveCalls)
	}
	if completions != 1 {
		t.Errorf("completions = %d, want 1", completions)
	}
}

func TestDismissIdempotence(t *testing.T) {
	env := outgoingEnv()
	env.policy.RequestDismiss(false, false)

	// Any further request, with any arguments, is a no-op.
	env.policy.RequestDismiss(false, false)
	env.policy.RequestDismiss(true, true)
	env.sched.Advance(10 * time.Second)

	if env.wm.endCalls != 1 || env.wm.leaveCalls != 1 {
		t.Errorf("endCalls=%d leaveCalls=%d, want exactly 1/1", env.wm.endCalls, env.wm.leaveCalls)
	}
}

func TestDelayedDismiss(t *testing.T) {
	env := outgoingEnv()
	env.policy.RequestDismiss(true, false)

	if !env.policy.HasDismissed() {
		t.Fatal("latch must be set synchronously")
	}
	if env.wm.endCalls != 0 {
		t.Fatal("teardown must wait for the delay")
	}

	// Re-entrant request 100ms in: no-op.
	env.sched.Advance(100 * time.Millisecond)
	env.policy.RequestDismiss(true, false)

	env.sched.Advance(DismissDelay)
	if env.wm.endCalls != 1 || env.wm.leaveCalls != 1 {
		t.Errorf("endCalls=%d leaveCalls=%d, want 1/1 after delay", env.wm.endCalls, env.wm.leaveCalls)
	}
}

func TestInvalidateAbandonsDelayedTeardown(t *testing.T) {
	env := outgoingEnv()
	env.policy.RequestDismiss(true, false)
	env.policy.Invalidate()

	env.sched.Advance(10 * time.Second)
	if env.wm.endCalls != 0 {
		t.Error("invalidated callback must not tear down")
	}
}

func TestNagBlocking(t *testing.T) {
	// Incoming call, integration supported, preference off, and
	// neither preference ever explicitly set: blocking nag.
	env := newPolicyEnv(domain.DirectionIncoming, true, &fakePrefs{enabled: false})

	env.policy.RequestDismiss(false, false)

	if !env.policy.IsShowingNag() {
		t.Fatal("should enter NagPending")
	}
	if env.policy.HasDismissed() {
		t.Fatal("nag must not latch dismissal")
	}
	if env.wm.endCalls != 0 {
		t.Fatal("no teardown while nagging")
	}

	// No explicit choice ever made: the nag blocks, it never
	// auto-resolves.
	env.sched.Advance(time.Minute)
	if env.wm.endCalls != 0 {
		t.Fatal("blocking nag auto-resolved")
	}

	// User makes a choice; dismissal re-fires past the nag.
	env.prefs.SetIntegrationEnabled(true)
	env.policy.RequestDismiss(false, true)
	if env.policy.IsShowingNag() {
		t.Error("nag should resolve")
	}
	if env.wm.endCalls != 1 || env.wm.leaveCalls != 1 {
		t.Errorf("endCalls=%d leaveCalls=%d, want 1/1", env.wm.endCalls, env.wm.leaveCalls)
	}
}

func TestNagFleeting(t *testing.T) {
	// The user already chose once (explicitly disabled): the nag is a
	// fleeting reminder that resolves itself after 5s.
	prefs := &fakePrefs{}
	prefs.SetIntegrationEnabled(false)
	env := newPolicyEnv(domain.DirectionIncoming, true, prefs)

	env.policy.RequestDismiss(false, false)
	if !env.policy.IsShowingNag() {
		t.Fatal("should enter NagPending")
	}

	env.sched.Advance(NagAutoResolveDelay - time.Second)
	if env.wm.endCalls != 0 {
		t.Fatal("auto-resolve fired early")
	}

	env.sched.Advance(time.Second)
	if env.wm.endCalls != 1 || env.wm.leaveCalls != 1 {
		t.Errorf("endCalls=%d leaveCalls=%d, want 1/1 after auto-resolve", env.wm.endCalls, env.wm.leaveCalls)
	}
	if env.policy.IsShowingNag() {
		t.Error("nag should be resolved")
	}
}

func TestNagPrivacyModeTriggers(t *testing.T) {
	// Integration enabled but privacy mode on still warrants the nag.
	prefs := &fakePrefs{enabled: true, privacyMode: true}
	env := newPolicyEnv(domain.DirectionIncoming, true, prefs)

	env.policy.RequestDismiss(false, false)
	if !env.policy.IsShowingNag() {
		t.Error("privacy mode on should nag")
	}
}

func TestNoNagCases(t *testing.T) {
	tests := []struct {
		name string
		env  *policyEnv
	}{
		{"outgoing call", newPolicyEnv(domain.DirectionOutgoing, true, &fakePrefs{})},
		{"platform unsupported", newPolicyEnv(domain.DirectionIncoming, false, &fakePrefs{})},
		{"integration healthy", newPolicyEnv(domain.DirectionIncoming, true, &fakePrefs{enabled: true})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.env.policy.RequestDismiss(false, false)
			if tt.env.policy.IsShowingNag() {
				t.Error("unexpected nag")
			}
			if tt.env.wm.endCalls != 1 {
				t.Errorf("endCalls = %d, want 1", tt.env.wm.endCalls)
			}
		})
	}
}

func TestIgnoreNagSkipsNag(t *testing.T) {
	env := newPolicyEnv(domain.DirectionIncoming, true, &fakePrefs{})
	env.policy.RequestDismiss(false, true)
	if env.policy.IsShowingNag() {
		t.Error("ignoreNag should bypass the interstitial")
	}
	if env.wm.endCalls != 1 {
		t.Errorf("endCalls = %d, want 1", env.wm.endCalls)
	}
}

func TestNagObserverNotified(t *testing.T) {
	env := newPolicyEnv(domain.DirectionIncoming, true, &fakePrefs{})
	var notifications []bool
	env.policy.SetNagObserver(func(showing bool) { notifications = append(notifications, showing) })

	env.policy.RequestDismiss(false, false)
	env.policy.RequestDismiss(false, true)

	want := []bool{true, false}
	if len(notifications) != len(want) {
		t.Fatalf("notifications = %v, want %v", notifications, want)
	}
	for i := range want {
		if notifications[i] != want[i] {
			t.Fatalf("notifications = %v, want %v", notifications, want)
		}
	}
}
