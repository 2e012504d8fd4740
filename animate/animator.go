package animate

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/reusee/tinydisplay/logs"
)

var ErrRunning = errors.New("animator already running")

const (
	DefaultCPS       = 30
	DefaultQueueSize = 10
)

var DefaultPID = [3]float64{1, 0.1, 0.05}

type options struct {
	cps       float64
	queueSize int
	gains     [3]float64
	name      string
	logger    logs.Logger
}

type Option func(*options)

// CPS sets the target number of calls per second.
func CPS(cps float64) Option {
	return func(o *options) {
		o.cps = cps
	}
}

func QueueSize(n int) Option {
	return func(o *options) {
		o.queueSize = n
	}
}

// PID sets the gains of the pacing controller.
func PID(kp, ki, kd float64) Option {
	return func(o *options) {
		o.gains = [3]float64{kp, ki, kd}
	}
}

// Name sets the stream name used in logs and metrics.
func Name(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

func Logger(logger logs.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// Animator calls a function at a fixed rate on a worker goroutine and
// queues the results for a consumer.
type Animator[T any] struct {
	fn       func() T
	name     string
	logger   logs.Logger
	interval time.Duration
	gains    [3]float64
	// the window the frame rate is measured over
	fpsWindow time.Duration

	out     chan T
	force   chan *forceRequest[T]
	wake    chan struct{}
	enabled atomic.Bool
	fps     atomic.Uint64

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped <-chan struct{}
	wg      sync.WaitGroup

	renders  prometheus.Counter
	forces   prometheus.Counter
	fpsGauge prometheus.Gauge
}

type forceRequest[T any] struct {
	fn   func() T
	done chan struct{}
}

func New[T any](fn func() T, opts ...Option) *Animator[T] {
	o := options{
		cps:       DefaultCPS,
		queueSize: DefaultQueueSize,
		gains:     DefaultPID,
		name:      "animator",
		logger:    logs.Discard,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cps <= 0 {
		o.cps = DefaultCPS
	}
	if o.queueSize <= 0 {
		o.queueSize = DefaultQueueSize
	}
	return &Animator[T]{
		fn:        fn,
		name:      o.name,
		logger:    o.logger.With("animator", o.name),
		interval:  time.Duration(float64(time.Second) / o.cps),
		gains:     o.gains,
		fpsWindow: 5 * time.Second,
		out:       make(chan T, o.queueSize),
		force:     make(chan *forceRequest[T]),
		wake:      make(chan struct{}, 1),
		renders:   rendersTotal.WithLabelValues(o.name),
		forces:    forcesTotal.WithLabelValues(o.name),
		fpsGauge:  fpsGauge.WithLabelValues(o.name),
	}
}

// Start runs the worker until ctx is done or Stop is called.
func (a *Animator[T]) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		return ErrRunning
	}
	ctx, cancel := context.WithCancel(logs.WithStream(ctx, logs.Stream(a.name)))
	a.cancel = cancel
	a.stopped = ctx.Done()
	a.enabled.Store(true)
	a.wg.Go(func() {
		a.loop(ctx)
	})
	a.logger.InfoContext(ctx, "animator started", "interval", a.interval)
	return nil
}

// Stop cancels the worker and waits for it to exit.
func (a *Animator[T]) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel == nil {
		return
	}
	a.cancel()
	// unblock a pending put
	select {
	case <-a.out:
	default:
	}
	a.wg.Wait()
	a.cancel = nil
	a.stopped = nil
	a.logger.Info("animator stopped")
}

func (a *Animator[T]) Pause() {
	a.enabled.Store(false)
}

func (a *Animator[T]) Restart() {
	a.enabled.Store(true)
	select {
	case a.wake <- struct{}{}:
	default:
	}
}

func (a *Animator[T]) Toggle() {
	if a.enabled.Load() {
		a.Pause()
	} else {
		a.Restart()
	}
}

func (a *Animator[T]) Enabled() bool {
	return a.enabled.Load()
}

// Force replaces everything queued with the result of fn, or of the
// animator function if fn is nil. It returns once the value is queued, so
// the next Get sees it. Forces are served while paused.
func (a *Animator[T]) Force(fn func() T) {
	req := &forceRequest[T]{
		fn:   fn,
		done: make(chan struct{}),
	}
	a.mu.Lock()
	stopped := a.stopped
	if stopped == nil {
		// no worker
		a.serve(req)
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()

	select {
	case a.force <- req:
	case <-stopped:
		return
	}
	select {
	case <-req.done:
	case <-stopped:
	}
}

func (a *Animator[T]) serve(req *forceRequest[T]) {
	defer close(req.done)
	a.drain()
	fn := req.fn
	if fn == nil {
		fn = a.fn
	}
	v := fn()
	a.forces.Inc()
	select {
	case a.out <- v:
	default:
		a.logger.Warn("queue full, forced value dropped")
	}
}

func (a *Animator[T]) drain() {
	for {
		select {
		case <-a.out:
		default:
			return
		}
	}
}

// Get waits up to timeout for the next value. A zero timeout does not wait.
func (a *Animator[T]) Get(timeout time.Duration) (ret T, ok bool) {
	if timeout <= 0 {
		select {
		case ret = <-a.out:
			return ret, true
		default:
			return
		}
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case ret = <-a.out:
		return ret, true
	case <-timer.C:
		return
	}
}

// FPS is the render rate measured over the last window.
func (a *Animator[T]) FPS() float64 {
	return math.Float64frombits(a.fps.Load())
}

func (a *Animator[T]) Len() int {
	return len(a.out)
}

func (a *Animator[T]) Empty() bool {
	return len(a.out) == 0
}

func (a *Animator[T]) Full() bool {
	return len(a.out) == cap(a.out)
}

func (a *Animator[T]) loop(ctx context.Context) {
	interval := a.interval.Seconds()
	controller := newPID(a.gains, interval)
	loopTime := interval
	lastUpdate := time.Now()

	windowStart := time.Now()
	count := 0

	for {
		if elapsed := time.Since(windowStart); elapsed >= a.fpsWindow {
			fps := float64(count) / elapsed.Seconds()
			a.fps.Store(math.Float64bits(fps))
			a.fpsGauge.Set(fps)
			a.logger.DebugContext(ctx, "render rate", "fps", fps, "queued", len(a.out))
			count = 0
			windowStart = time.Now()
		}

		if !a.enabled.Load() {
			controller.suspend()
			select {
			case <-ctx.Done():
				return
			case <-a.wake:
			case req := <-a.force:
				a.serve(req)
			}
			loopTime = interval
			lastUpdate = time.Now()
			continue
		}

		controller.resume()
		now := time.Now()
		correction := controller.update(loopTime, now.Sub(lastUpdate).Seconds())
		lastUpdate = now
		start := now
		if d := interval + correction; d > 0 {
			select {
			case <-ctx.Done():
				return
			case req := <-a.force:
				a.serve(req)
				loopTime = interval
				continue
			case <-time.After(time.Duration(d * float64(time.Second))):
			}
		}

		v := a.fn()
		count++
		a.renders.Inc()

		// blocking on a full queue is not part of the loop time
		controller.suspend()
		putStart := time.Now()
		select {
		case a.out <- v:
		case req := <-a.force:
			// the forced value supersedes v
			a.serve(req)
		case <-ctx.Done():
			return
		}
		start = start.Add(time.Since(putStart))
		controller.resume()
		loopTime = time.Since(start).Seconds()
	}
}
