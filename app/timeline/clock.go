package timeline

import (
	"errors"
	"log"
	"sync"
	"time"
)

// playTickInterval is the granularity of simulated playback; ~5 ticks per
// second keeps the advancing instant smooth on screen.
const playTickInterval = 200 * time.Millisecond

// SimClock is the controllable virtual clock every "now"-relative
// computation reads. In real mode it passes the wall clock through; in
// sim mode it is pinned at a settable instant that can be stepped
// manually or played back at an adjustable rate. Safe for concurrent use:
// HTTP handlers and the background sweep both read it.
type SimClock struct {
	mu       sync.Mutex
	loc      *time.Location
	sim      bool
	simNow   time.Time
	speed    float64 // simulated minutes per real second
	playing  bool
	lastTick time.Time
	stop     chan struct{}
}

// ClockState is a read-only snapshot of the clock for the control surface.
type ClockState struct {
	Mode    string  `json:"mode"`
	Now     string  `json:"now"`
	Speed   float64 `json:"speed"`
	Playing bool    `json:"playing"`
}

// NewSimClock returns a real-mode clock reporting instants in loc
// (time.Local when nil). Default playback speed is one simulated minute
// per real second.
func NewSimClock(loc *time.Location) *SimClock {
	if loc == nil {
		loc = time.Local
	}
	return &SimClock{loc: loc, speed: 1}
}

// UseReal switches back to wall-clock passthrough and stops any playback.
func (c *SimClock) UseReal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopPlaybackLocked()
	c.sim = false
	log.Println("[clock] real time mode")
}

// SetSim pins the clock at the given "YYYY-MM-DD HH:MM" local instant and
// switches to sim mode. Invalid input is rejected and the state is left
// unchanged.
func (c *SimClock) SetSim(value string) error {
	t, err := time.ParseInLocation("2006-01-02 15:04", value, c.loc)
	if err != nil {
		log.Printf("[clock] rejected sim instant %q: %v", value, err)
		return errors.New("invalid instant, expected YYYY-MM-DD HH:MM")
	}
	c.SetSimTime(t)
	return nil
}

// SetSimTime is SetSim for callers that already hold a time.Time.
func (c *SimClock) SetSimTime(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sim = true
	c.simNow = t.In(c.loc)
	c.lastTick = time.Now()
	log.Printf("[clock] simulated instant set to %s", c.simNow.Format("2006-01-02 15:04"))
}

// SetSpeed sets the playback rate in simulated minutes per real second.
// Non-positive rates are rejected.
func (c *SimClock) SetSpeed(minutesPerSecond float64) error {
	if minutesPerSecond <= 0 {
		log.Printf("[clock] rejected speed %v", minutesPerSecond)
		return errors.New("speed must be positive")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.speed = minutesPerSecond
	return nil
}

// Play starts continuous simulated advance. No effect outside sim mode.
func (c *SimClock) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.sim || c.playing {
		return
	}
	c.playing = true
	c.lastTick = time.Now()
	c.stop = make(chan struct{})
	go c.run(c.stop)
	log.Printf("[clock] playback started at %vx min/s", c.speed)
}

// Pause halts playback, keeping the current simulated instant.
func (c *SimClock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopPlaybackLocked()
}

// Step advances the simulated instant by the given number of minutes.
// No effect outside sim mode.
func (c *SimClock) Step(minutes float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.sim {
		return
	}
	c.simNow = c.simNow.Add(time.Duration(minutes * float64(time.Minute)))
}

// Now returns the current effective instant: the simulated one in sim
// mode, the true wall clock otherwise.
func (c *SimClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sim {
		return c.simNow
	}
	return time.Now().In(c.loc)
}

// State returns a snapshot for the clock control endpoints.
func (c *SimClock) State() ClockState {
	c.mu.Lock()
	defer c.mu.Unlock()
	mode := "real"
	now := time.Now().In(c.loc)
	if c.sim {
		mode = "sim"
		now = c.simNow
	}
	return ClockState{
		Mode:    mode,
		Now:     now.Format("2006-01-02 15:04:05"),
		Speed:   c.speed,
		Playing: c.playing,
	}
}

// run advances the simulated instant on a steady ticker, converting
// elapsed real milliseconds into simulated minutes each tick so rate
// changes take effect immediately.
func (c *SimClock) run(stop chan struct{}) {
	ticker := time.NewTicker(playTickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.playing && c.sim {
				now := time.Now()
				elapsed := now.Sub(c.lastTick).Seconds()
				c.lastTick = now
				c.simNow = c.simNow.Add(time.Duration(elapsed * c.speed * float64(time.Minute)))
			}
			c.mu.Unlock()
		}
	}
}

func (c *SimClock) stopPlaybackLocked() {
	if !c.playing {
		return
	}
	c.playing = false
	close(c.stop)
	c.stop = nil
}
