// Package syncer runs the per-client polling loop that keeps a local view of
// a session current and advances shared state when a transition is due.
//
// Each client runs its own Synchronizer with no coordination with other
// clients. On every tick it reads the session, lets the state machine decide
// whether the current proposal can be resolved, and writes the result back
// if so. Several clients doing this at once write the same document, so the
// loop needs no locks or leader election.
package syncer

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/aaronzipp/thavalon/internal/game"
	"github.com/aaronzipp/thavalon/internal/models"
)

var debug bool

func init() {
	debug = os.Getenv("DEBUG") != ""
}

// SetDebug turns verbose logging on or off. Call it before serving.
func SetDebug(enabled bool) {
	debug = enabled
}

// DebugEnabled reports whether verbose logging is on.
func DebugEnabled() bool {
	return debug
}

const (
	// LobbyInterval is the poll period while waiting for the host to start.
	LobbyInterval = 7500 * time.Millisecond
	// GameInterval is the poll period during play.
	GameInterval = 3 * time.Second
)

// Repository is the part of session.Repository the synchronizer needs.
type Repository interface {
	Load(ctx context.Context, id string) (models.GameSession, error)
	Apply(ctx context.Context, id string, t game.Transition) (models.GameSession, bool, error)
}

// Snapshot is what an observer sees after each tick.
type Snapshot struct {
	// Session is the latest successfully read session. After a failed tick
	// it still holds the last good snapshot (zero if there never was one).
	Session models.GameSession
	// Loading is set while the last tick failed.
	Loading bool
	// Err is the failure of the last tick, if any.
	Err error
	// Advanced is set when this client wrote a resolution on this tick.
	Advanced bool
}

// Observer receives a snapshot after every tick. It runs on the
// synchronizer goroutine and must not block for long.
type Observer func(Snapshot)

// Synchronizer polls one session for one client.
type Synchronizer struct {
	repo     Repository
	id       string
	lobby    time.Duration
	interval time.Duration
	resolve  bool
	observer Observer

	last models.GameSession
	ok   bool
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithInterval sets the poll period for both the lobby and the game.
func WithInterval(d time.Duration) Option {
	return WithIntervals(d, d)
}

// WithIntervals sets separate poll periods for an unstarted session and for
// one in play. Non-positive values keep the defaults.
func WithIntervals(lobby, play time.Duration) Option {
	return func(s *Synchronizer) {
		if lobby > 0 {
			s.lobby = lobby
		}
		if play > 0 {
			s.interval = play
		}
	}
}

// WithObserver registers the callback that receives snapshots.
func WithObserver(fn Observer) Option {
	return func(s *Synchronizer) { s.observer = fn }
}

// WithResolve controls whether ticks try to resolve complete votes. A
// read-only client (a spectator view) turns it off.
func WithResolve(enabled bool) Option {
	return func(s *Synchronizer) { s.resolve = enabled }
}

// New creates a synchronizer for session id.
func New(repo Repository, id string, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		repo:     repo,
		id:       id,
		lobby:    LobbyInterval,
		interval: GameInterval,
		resolve:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// IntervalFor returns the poll period to use after seeing snap.
func (s *Synchronizer) IntervalFor(snap Snapshot) time.Duration {
	if !snap.Session.Started() {
		return s.lobby
	}
	return s.interval
}

// Run ticks until ctx is cancelled. The first tick runs immediately and
// ticks never overlap. Failed ticks are reported to the observer and
// retried on the next tick; Run only returns when ctx is done. The period
// switches from the lobby interval to the game interval once the session
// has started.
func (s *Synchronizer) Run(ctx context.Context) error {
	snap := s.Tick(ctx)
	period := s.IntervalFor(snap)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if debug {
				log.Printf("syncer: session=%s stopped", s.id)
			}
			return ctx.Err()
		case <-ticker.C:
		}
		if ctx.Err() != nil {
			continue
		}
		snap = s.Tick(ctx)
		if next := s.IntervalFor(snap); next != period {
			period = next
			ticker.Reset(period)
		}
	}
}

// Tick runs one complete read-decide-write cycle and reports the result.
func (s *Synchronizer) Tick(ctx context.Context) Snapshot {
	var (
		cur      models.GameSession
		advanced bool
		err      error
	)
	if s.resolve {
		cur, advanced, err = s.repo.Apply(ctx, s.id, game.CheckAndResolve())
	} else {
		cur, err = s.repo.Load(ctx, s.id)
	}

	snap := Snapshot{Advanced: advanced}
	if err != nil {
		if ctx.Err() == nil {
			log.Printf("syncer: session=%s tick failed: %v", s.id, err)
		}
		snap.Loading = true
		snap.Err = err
		snap.Session = s.last
	} else {
		s.last, s.ok = cur, true
		snap.Session = cur
		if advanced {
			log.Printf("syncer: session=%s resolved to mission=%d proposal=%d", s.id, cur.MissionIndex, cur.ProposalIndex)
		}
	}

	if s.observer != nil {
		s.observer(snap)
	}
	return snap
}

// Last returns the last successfully read session.
func (s *Synchronizer) Last() (models.GameSession, bool) {
	return s.last, s.ok
}
