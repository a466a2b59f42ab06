package api

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	log "github.com/sirupsen/logrus"

	"github.com/antoine01000/bureau-main/domain"
	"github.com/antoine01000/bureau-main/notify"
)

// ActivityConfig sizes the activity worker pool.
type ActivityConfig struct {
	Workers int
	Buffer  int
	// HandoffTimeout bounds how long Record waits for buffer space before
	// delivering inline. Zero means no wait.
	HandoffTimeout time.Duration
	EnqueueTimeout time.Duration
}

// ActivityPublisher records activities in the background. Each activity is
// enqueued on the sink and published as a change notification.
type ActivityPublisher struct {
	sink ActivitySink
	pub  notify.Publisher
	log  *log.Logger
	cfg  ActivityConfig

	jobs chan domain.Activity
	wg   sync.WaitGroup
	once sync.Once
	last atomic.Int64
}

// NewActivityPublisher starts cfg.Workers workers. pub may be nil.
func NewActivityPublisher(sink ActivitySink, pub notify.Publisher, cfg ActivityConfig, logger *log.Logger) *ActivityPublisher {
	if logger == nil {
		panic("logger is not initialized")
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Buffer < 0 {
		cfg.Buffer = 0
	}
	if cfg.EnqueueTimeout <= 0 {
		cfg.EnqueueTimeout = 30 * time.Second
	}
	p := &ActivityPublisher{
		sink: sink,
		pub:  pub,
		log:  logger,
		cfg:  cfg,
		jobs: make(chan domain.Activity, cfg.Buffer),
	}
	for i := 0; i < cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	logger.Infof("activity publisher started, workers: %d, buffer: %d, handoff: %v", cfg.Workers, cfg.Buffer, cfg.HandoffTimeout)
	return p
}

// Record stamps the activity and hands it to a worker. When the buffer stays
// full for longer than the handoff timeout, or the publisher is closed, the
// activity is delivered on the calling goroutine.
func (p *ActivityPublisher) Record(_ context.Context, a domain.Activity) {
	a.Time = p.nextTimestamp()
	if p.tryHandoff(a) {
		return
	}
	p.log.WithField("entity", a.Entity).Warn("activity buffer saturated; processing inline")
	p.deliver(-1, a)
}

// Close stops accepting work and waits for queued activities to drain.
func (p *ActivityPublisher) Close() {
	p.once.Do(func() { close(p.jobs) })
	p.wg.Wait()
}

func (p *ActivityPublisher) worker(id int) {
	defer p.wg.Done()
	for a := range p.jobs {
		p.deliver(id, a)
	}
}

// deliver runs detached from the request context so a finished request does
// not cancel the write.
func (p *ActivityPublisher) deliver(worker int, a domain.Activity) {
	fields := log.Fields{"entity": a.Entity, "action": a.Action, "id": a.ID, "worker": worker}
	if p.sink != nil {
		ctx, cancel := context.WithTimeout(context.Background(), p.cfg.EnqueueTimeout)
		err := p.sink.EnqueueActivity(ctx, a)
		cancel()
		if err != nil {
			p.log.WithError(err).WithFields(fields).Error("activity enqueue failed")
		}
	}
	if p.pub == nil {
		return
	}
	data, err := sonic.Marshal(a)
	if err != nil {
		p.log.WithError(err).WithFields(fields).Error("activity encode failed")
		return
	}
	if err := p.pub.Publish(context.Background(), data); err != nil {
		p.log.WithError(err).WithFields(fields).Error("activity publish failed")
	}
}

func (p *ActivityPublisher) tryHandoff(a domain.Activity) bool {
	if ok, closed := trySendNonBlocking(p.jobs, a); closed {
		return false
	} else if ok {
		return true
	}
	if p.cfg.HandoffTimeout <= 0 {
		return false
	}
	timer := time.NewTimer(p.cfg.HandoffTimeout)
	defer timer.Stop()
	ok, _ := sendWithTimer(p.jobs, a, timer.C)
	return ok
}

func trySendNonBlocking(ch chan domain.Activity, a domain.Activity) (ok bool, closed bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			closed = true
		}
	}()

	select {
	case ch <- a:
		return true, false
	default:
		return false, false
	}
}

func sendWithTimer(ch chan domain.Activity, a domain.Activity, timer <-chan time.Time) (ok bool, closed bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			closed = true
		}
	}()

	select {
	case ch <- a:
		return true, false
	case <-timer:
		return false, false
	}
}

// nextTimestamp returns strictly increasing unix nanoseconds.
func (p *ActivityPublisher) nextTimestamp() int64 {
	for {
		now := time.Now().UnixNano()
		last := p.last.Load()
		if now <= last {
			now = last + 1
		}
		if p.last.CompareAndSwap(last, now) {
			return now
		}
	}
}
