package progress

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/JakeFAU/catalog-console/internal/catalog"
	"github.com/JakeFAU/catalog-console/internal/clock"
)

// Subscriber opens a job's event stream and invokes handle once per message
// payload. It blocks until the stream ends or ctx is cancelled.
type Subscriber interface {
	Subscribe(ctx context.Context, jobID string, handle func(data []byte)) error
}

// JobFetcher loads a job snapshot. It backs the optional one-shot resync.
type JobFetcher interface {
	GetJob(ctx context.Context, jobID string) (catalog.ImportJob, error)
}

// Observer receives applied updates in arrival order. Callbacks run on the
// channel goroutine; a slow observer delays the next message.
type Observer interface {
	Progress(u Update)
	Failed(u Update)
	Completed(u Update)
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnProgress  func(Update)
	OnFailed    func(Update)
	OnCompleted func(Update)
}

// Progress implements Observer.
func (o ObserverFuncs) Progress(u Update) {
	if o.OnProgress != nil {
		o.OnProgress(u)
	}
}

// Failed implements Observer.
func (o ObserverFuncs) Failed(u Update) {
	if o.OnFailed != nil {
		o.OnFailed(u)
	}
}

// Completed implements Observer.
func (o ObserverFuncs) Completed(u Update) {
	if o.OnCompleted != nil {
		o.OnCompleted(u)
	}
}

// State is the lifecycle state of a Channel.
type State int

// Channel states. Closed is terminal.
const (
	StateOpen State = iota
	StateClosed
)

func (s State) String() string {
	if s == StateClosed {
		return "closed"
	}
	return "open"
}

// Options tunes a Channel.
type Options struct {
	// Emitter receives one Event per applied message. Optional.
	Emitter Emitter
	// Clock stamps emitted events. Defaults to the system clock.
	Clock clock.Clock
	// Logger records dropped and malformed messages. Optional.
	Logger *zap.Logger
	// Resync, when set, is queried once if the stream ends while the channel
	// is still open.
	Resync JobFetcher
}

// Channel follows one import job. It is Open from construction until the
// first completed or failed message, or until Close; once Closed no further
// message is applied.
type Channel struct {
	jobID  string
	sub    Subscriber
	obs    Observer
	opts   Options
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	state   State
	job     catalog.ImportJob
	applied int
	ignored int
}

// Open starts following job on a background goroutine. Transport faults are
// logged at debug level and never surfaced; cancel ctx or call Close to stop
// early.
func Open(ctx context.Context, sub Subscriber, job catalog.ImportJob, obs Observer, opts Options) *Channel {
	if ctx == nil {
		ctx = context.Background()
	}
	if obs == nil {
		obs = ObserverFuncs{}
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	subCtx, cancel := context.WithCancel(ctx)
	c := &Channel{
		jobID:  job.ID,
		sub:    sub,
		obs:    obs,
		opts:   opts,
		logger: logger.With(zap.String("job_id", job.ID)),
		ctx:    subCtx,
		cancel: cancel,
		done:   make(chan struct{}),
		state:  StateOpen,
		job:    job,
	}
	go c.run()
	return c
}

// JobID returns the followed job's identifier.
func (c *Channel) JobID() string {
	return c.jobID
}

// State returns the current lifecycle state.
func (c *Channel) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Job returns the latest job snapshot.
func (c *Channel) Job() catalog.ImportJob {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.job
}

// Applied returns how many messages changed the job.
func (c *Channel) Applied() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.applied
}

// Ignored returns how many messages were discarded, either because they
// arrived after close or because they could not be decoded.
func (c *Channel) Ignored() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ignored
}

// Done is closed once the subscription goroutine exits.
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// Stalled reports that the stream ended without a terminal status. The job
// is left at its last known state.
func (c *Channel) Stalled() bool {
	select {
	case <-c.done:
		return c.State() == StateOpen
	default:
		return false
	}
}

// Wait blocks until the subscription goroutine exits and returns the final
// job snapshot.
func (c *Channel) Wait(ctx context.Context) (catalog.ImportJob, error) {
	select {
	case <-c.done:
		return c.Job(), nil
	case <-ctx.Done():
		return c.Job(), ctx.Err()
	}
}

// Close tears the channel down. Messages still in flight are dropped.
func (c *Channel) Close() {
	c.mu.Lock()
	c.state = StateClosed
	c.mu.Unlock()
	c.cancel()
}

func (c *Channel) run() {
	defer close(c.done)
	defer c.cancel()

	err := c.sub.Subscribe(c.ctx, c.jobID, c.handle)
	if c.State() == StateClosed {
		return
	}
	if c.ctx.Err() != nil {
		return
	}

	var chErr *catalog.ChannelError
	switch {
	case errors.As(err, &chErr):
		c.logger.Debug("progress channel error ignored", zap.Error(err))
	case err != nil:
		c.logger.Debug("progress subscription ended", zap.Error(err))
	default:
		c.logger.Debug("progress stream ended before a terminal status")
	}

	if c.opts.Resync == nil {
		return
	}
	job, err := c.opts.Resync.GetJob(c.ctx, c.jobID)
	if err != nil {
		c.logger.Debug("progress resync failed", zap.Error(err))
		return
	}
	c.apply(MessageFromJob(job))
}

func (c *Channel) handle(data []byte) {
	msg, err := ParseMessage(data)
	if err != nil {
		c.mu.Lock()
		c.ignored++
		c.mu.Unlock()
		c.logger.Debug("malformed progress message ignored", zap.Error(err))
		return
	}
	c.apply(msg)
}

func (c *Channel) apply(msg Message) {
	c.mu.Lock()
	if c.state == StateClosed {
		c.ignored++
		c.mu.Unlock()
		return
	}
	u := Apply(c.job, msg)
	c.job = u.Job
	c.applied++
	if u.Outcome.Terminal() {
		c.state = StateClosed
	}
	c.mu.Unlock()

	if c.opts.Emitter != nil {
		c.opts.Emitter.Emit(NewEvent(u, c.opts.Clock.Now()))
	}

	switch u.Outcome {
	case OutcomeFailed:
		c.cancel()
		c.obs.Failed(u)
	case OutcomeCompleted:
		c.cancel()
		c.obs.Completed(u)
	default:
		c.obs.Progress(u)
	}
}
