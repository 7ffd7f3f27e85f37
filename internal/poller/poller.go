package poller

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"bbdash/internal/client"
	"bbdash/internal/logger"

	"go.uber.org/zap"
)

// Source maps a channel to the master endpoint that feeds it.
type Source struct {
	Channel string
	Path    string
}

// Sources builds the channel list for the configured project and builder.
func Sources(project, builder string, recentBuilds int) []Source {
	sources := []Source{
		{Channel: ChannelSlaves, Path: client.SlavesPath},
		{Channel: ChannelGlobal, Path: client.GlobalStatusPath},
		{Channel: ChannelQueue, Path: client.BuildQueuePath},
	}

	if project != "" {
		sources = append(sources, Source{
			Channel: ChannelProject,
			Path:    client.ProjectPath(project),
		})
	}

	if builder != "" {
		sources = append(sources,
			Source{Channel: ChannelCurrentBuilds, Path: client.BuilderPath(builder)},
			Source{Channel: ChannelBuilds, Path: client.RecentBuildsPath(builder, recentBuilds)},
			Source{Channel: ChannelPending, Path: client.PendingPath(builder)},
		)
	}

	return sources
}

// Poller fetches every source on a fixed interval and hands the combined
// payload to the registry.
type Poller struct {
	mu       sync.Mutex
	client   *client.Client
	registry *Registry
	sources  []Source
	interval time.Duration
	reload   chan struct{}
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// DefaultInterval backstops a missing or non-positive poll_interval; the
// ticker cannot run on zero.
const DefaultInterval = 10 * time.Second

func New(c *client.Client, registry *Registry, sources []Source, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Poller{
		client:   c,
		registry: registry,
		sources:  sources,
		interval: interval,
		reload:   make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// SetInterval applies a new poll interval, used on config reload.
func (p *Poller) SetInterval(interval time.Duration) {
	p.mu.Lock()
	changed := interval > 0 && interval != p.interval
	if changed {
		p.interval = interval
	}
	p.mu.Unlock()

	if changed {
		select {
		case p.reload <- struct{}{}:
		default:
		}
	}
}

func (p *Poller) currentInterval() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.interval
}

func (p *Poller) Start() {
	logger.Log.Info("poller started",
		zap.Duration("interval", p.currentInterval()),
		zap.Int("channels", len(p.sources)))

	go p.loop()
}

func (p *Poller) Stop() {
	close(p.stopCh)
	<-p.doneCh
}

func (p *Poller) loop() {
	defer close(p.doneCh)

	// First fetch right away so the dashboard is not empty for a full tick.
	p.Tick(context.Background())

	ticker := time.NewTicker(p.currentInterval())
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-p.reload:
			ticker.Reset(p.currentInterval())
			logger.Log.Info("poll interval updated",
				zap.Duration("interval", p.currentInterval()))
		case <-ticker.C:
			p.Tick(context.Background())
		}
	}
}

// Tick fetches every source once and dispatches whatever arrived. A source
// that fails to fetch is simply absent from the payload; its table keeps the
// previous snapshot.
func (p *Poller) Tick(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.currentInterval())
	defer cancel()

	payload := make(map[string]json.RawMessage, len(p.sources))
	for _, src := range p.sources {
		data, err := p.client.Raw(ctx, src.Path)
		if err != nil {
			logger.Log.Warn("poll failed",
				zap.String("channel", src.Channel),
				zap.String("path", src.Path),
				zap.Error(err))
			continue
		}

		payload[src.Channel] = data
	}

	p.registry.Dispatch(payload)
}
