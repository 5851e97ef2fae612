package app

import (
	"sort"
	"time"

	"github.com/dkeye/callscreen/internal/core"
	"github.com/dkeye/callscreen/internal/domain"
)

// fakeScheduler is a manual clock. Advance fires due callbacks in
// time order on the caller's goroutine, including callbacks scheduled
// by the callbacks themselves.
type fakeScheduler struct {
	now    time.Duration
	timers []*fakeTimer
}

type fakeTimer struct {
	at        time.Duration
	interval  time.Duration
	repeating bool
	cancelled bool
	fired     bool
	fn        func()
}

func newFakeScheduler() *fakeScheduler { return &fakeScheduler{} }

func (s *fakeScheduler) After(d time.Duration, fn func()) core.CancelFunc {
	t := &fakeTimer{at: s.now + d, fn: fn}
	s.timers = append(s.timers, t)
	return func() { t.cancelled = true }
}

func (s *fakeScheduler) Every(d time.Duration, fn func()) core.CancelFunc {
	t := &fakeTimer{at: s.now + d, interval: d, repeating: true, fn: fn}
	s.timers = append(s.timers, t)
	return func() { t.cancelled = true }
}

func (s *fakeScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		var next *fakeTimer
		for _, t := range s.timers {
			if t.cancelled || t.fired || t.at > target {
				continue
			}
			if next == nil || t.at < next.at {
				next = t
			}
		}
		if next == nil {
			break
		}
		s.now = next.at
		if next.repeating {
			next.at += next.interval
		} else {
			next.fired = true
		}
		next.fn()
	}
	s.now = target
	sort.SliceStable(s.timers, func(i, j int) bool { return s.timers[i].at < s.timers[j].at })
}

type fakeWM struct {
	endCalls   int
	leaveCalls int
}

func (w *fakeWM) EndCall()       { w.endCalls++ }
func (w *fakeWM) LeaveCallView() { w.leaveCalls++ }

type fakePrefs struct {
	enabled        bool
	enabledSet     bool
	privacyMode    bool
	privacyModeSet bool
}

func (p *fakePrefs) IntegrationEnabled() bool      { return p.enabled }
func (p *fakePrefs) IntegrationEnabledIsSet() bool { return p.enabledSet }
func (p *fakePrefs) SetIntegrationEnabled(v bool) {
	p.enabled = v
	p.enabledSet = true
}
func (p *fakePrefs) IntegrationPrivacyMode() bool      { return p.privacyMode }
func (p *fakePrefs) IntegrationPrivacyModeIsSet() bool { return p.privacyModeSet }
func (p *fakePrefs) SetIntegrationPrivacyMode(v bool) {
	p.privacyMode = v
	p.privacyModeSet = true
}

type fakePlatform struct{ supports bool }

func (p fakePlatform) SupportsCallIntegration() bool { return p.supports }

type fakeFeed struct {
	subscribed   int
	unsubscribed int
}

func (f *fakeFeed) Subscribe(core.CallObserver)   { f.subscribed++ }
func (f *fakeFeed) Unsubscribe(core.CallObserver) { f.unsubscribed++ }

type fakeAudio struct {
	available  []domain.AudioSource
	current    domain.AudioSource
	hasCurrent bool

	speakerRequests []bool
	setSources      []domain.AudioSource
	delegate        core.AudioSessionDelegate
}

func (a *fakeAudio) AvailableInputs() []domain.AudioSource { return a.available }
func (a *fakeAudio) CurrentSource() (domain.AudioSource, bool) {
	return a.current, a.hasCurrent
}
func (a *fakeAudio) RequestSpeakerphone(enabled bool) {
	a.speakerRequests = append(a.speakerRequests, enabled)
}
func (a *fakeAudio) SetSource(src domain.AudioSource) {
	a.setSources = append(a.setSources, src)
}
func (a *fakeAudio) SetDelegate(d core.AudioSessionDelegate) { a.delegate = d }

type fakeSurface struct {
	attaches int
	clears   int
	track    core.VideoTrack
}

func (s *fakeSurface) Attach(t core.VideoTrack) {
	s.attaches++
	s.track = t
}
func (s *fakeSurface) Clear() {
	s.clears++
	s.track = nil
}

type fakePublisher struct {
	snaps []core.UIStateSnapshot
}

func (p *fakePublisher) Publish(snap core.UIStateSnapshot) {
	p.snaps = append(p.snaps, snap)
}

func (p *fakePublisher) last() core.UIStateSnapshot {
	return p.snaps[len(p.snaps)-1]
}

type fakeTrack struct{ id string }

func (t *fakeTrack) ID() string { return t.id }

func micSource() domain.AudioSource {
	return domain.AudioSource{Kind: domain.AudioSourceBuiltInMic, Descriptor: "mic", DisplayName: "iPhone Microphone"}
}

func speakerSource() domain.AudioSource {
	return domain.AudioSource{Kind: domain.AudioSourceBuiltInSpeaker, Descriptor: "speaker", DisplayName: "Speaker"}
}

func headsetSource() domain.AudioSource {
	return domain.AudioSource{Kind: domain.AudioSourceExternalDevice, Descriptor: "bt-1", DisplayName: "AirPods"}
}
