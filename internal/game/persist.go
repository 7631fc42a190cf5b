package game

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const defaultWriteTimeout = 5 * time.Second

type snapshot struct {
	data  []byte
	epoch uint64
}

// Persister writes state snapshots for one storage key on a background goroutine.
// Only the latest scheduled snapshot is written. Clear bumps an epoch under the
// write lock, so a snapshot scheduled before the clear can never land after it.
type Persister struct {
	storage Storage
	key     string
	logger  zerolog.Logger
	timeout time.Duration

	mu      sync.Mutex
	idle    *sync.Cond
	pending *snapshot
	writing bool
	epoch   uint64

	writeMu sync.Mutex

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// NewPersister starts the writer goroutine. Call Close to stop it.
func NewPersister(storage Storage, key string, logger zerolog.Logger) *Persister {
	p := &Persister{
		storage: storage,
		key:     key,
		logger:  logger.With().Str("component", "game_persister").Str("key", key).Logger(),
		timeout: defaultWriteTimeout,
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	p.idle = sync.NewCond(&p.mu)
	go p.run()
	return p
}

// Load restores the stored state. Absent, unreadable or structurally invalid
// blobs report false.
func (p *Persister) Load(ctx context.Context) (State, bool) {
	data, err := p.storage.Load(ctx, p.key)
	if err != nil {
		p.logger.Warn().Err(err).Msg("load game state failed")
		return State{}, false
	}
	if data == nil {
		return State{}, false
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		p.logger.Warn().Err(err).Msg("discarding corrupt game state")
		return State{}, false
	}
	if !s.valid() {
		p.logger.Warn().Msg("discarding invalid game state")
		return State{}, false
	}
	return s, true
}

// Schedule queues s for writing, replacing any snapshot not yet written.
func (p *Persister) Schedule(s State) {
	data, err := json.Marshal(s)
	if err != nil {
		p.logger.Error().Err(err).Msg("marshal game state failed")
		return
	}

	p.mu.Lock()
	p.pending = &snapshot{data: data, epoch: p.epoch}
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Clear drops queued snapshots, waits for an in-flight write and deletes the slot.
func (p *Persister) Clear(ctx context.Context) error {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	p.mu.Lock()
	p.epoch++
	p.pending = nil
	p.mu.Unlock()

	return p.storage.Delete(ctx, p.key)
}

// Flush blocks until every scheduled snapshot has been written or dropped.
func (p *Persister) Flush(ctx context.Context) error {
	stopWatch := context.AfterFunc(ctx, func() {
		p.mu.Lock()
		p.idle.Broadcast()
		p.mu.Unlock()
	})
	defer stopWatch()

	p.mu.Lock()
	defer p.mu.Unlock()
	for p.pending != nil || p.writing {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.idle.Wait()
	}
	return nil
}

// Close writes what is pending and stops the goroutine.
func (p *Persister) Close(ctx context.Context) error {
	p.once.Do(func() { close(p.stop) })
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Persister) run() {
	defer close(p.done)
	for {
		select {
		case <-p.wake:
			p.drain()
		case <-p.stop:
			p.drain()
			return
		}
	}
}

func (p *Persister) drain() {
	for {
		p.mu.Lock()
		snap := p.pending
		p.pending = nil
		if snap == nil {
			p.writing = false
			p.idle.Broadcast()
			p.mu.Unlock()
			return
		}
		p.writing = true
		p.mu.Unlock()

		p.write(snap)
	}
}

func (p *Persister) write(snap *snapshot) {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	p.mu.Lock()
	stale := snap.epoch != p.epoch
	p.mu.Unlock()
	if stale {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.storage.Save(ctx, p.key, snap.data); err != nil {
		p.logger.Warn().Err(err).Msg("persist game state failed")
	}
}
