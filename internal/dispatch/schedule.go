package dispatch

import (
	"regexp"
	"strconv"
	"sync"
	"time"
)

// Schedule suffixes: "<command> <N>" runs N minutes from now,
// "<command> at HH:MM" at the next wall-clock occurrence.
var (
	delayPattern    = regexp.MustCompile(`^(.+?)\s+(\d+)$`)
	wallTimePattern = regexp.MustCompile(`^(.+?)\s+at\s+(\d{1,2}):(\d{2})$`)
)

// schedule is a parsed deferred-execution request.
type schedule struct {
	commandText  string
	runAt        time.Time
	delayed      bool
	delayMinutes int
}

// parseSchedule recognises the two schedule suffixes. The returned
// commandText still has to resolve to a registered command before a
// timer is armed; an unmatched prefix means the text was never a
// schedule request at all.
func parseSchedule(text string, now time.Time) (schedule, bool) {
	if m := wallTimePattern.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[2])
		minute, _ := strconv.Atoi(m[3])
		if hour > 23 || minute > 59 {
			return schedule{}, false
		}
		runAt := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if !runAt.After(now) {
			runAt = runAt.Add(24 * time.Hour)
		}
		return schedule{commandText: m[1], runAt: runAt}, true
	}

	if m := delayPattern.FindStringSubmatch(text); m != nil {
		minutes, err := strconv.Atoi(m[2])
		if err != nil || minutes <= 0 {
			return schedule{}, false
		}
		return schedule{
			commandText:  m[1],
			runAt:        now.Add(time.Duration(minutes) * time.Minute),
			delayed:      true,
			delayMinutes: minutes,
		}, true
	}

	return schedule{}, false
}

// scheduler tracks outstanding timers so shutdown can cancel them.
type scheduler struct {
	mu      sync.Mutex
	timers  map[*time.Timer]struct{}
	stopped bool
}

func newScheduler() *scheduler {
	return &scheduler{timers: make(map[*time.Timer]struct{})}
}

// after arms a timer for fn. Timers armed after stop are discarded.
func (s *scheduler) after(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	var t *time.Timer
	t = time.AfterFunc(d, func() {
		s.mu.Lock()
		stopped := s.stopped
		delete(s.timers, t)
		s.mu.Unlock()
		if stopped {
			return
		}
		fn()
	})
	s.timers[t] = struct{}{}
}

// stop cancels all pending timers.
func (s *scheduler) stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for t := range s.timers {
		t.Stop()
	}
	s.timers = make(map[*time.Timer]struct{})
}
