// Package discovery implements the Discovery Engine (C8): a BFS work queue
// over seed and neighbor devices, a fixed worker pool, visited-set
// deduplication, idle-based timeout extension, and progress reporting
// (spec §4.7, §5).
//
// Grounded on the teacher's pkg/discovery/discovery.go and snmp_polling.go
// worker-pool shape — a job channel drained by a fixed set of goroutines,
// shared maps guarded by a single mutex, and a periodic housekeeping pass —
// restructured here from a multi-job submission API into one continuous walk
// per run, and from SNMP OID polling to a collector dispatch per spec §4.4.
package discovery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lumatek/netwalk/pkg/filter"
	"github.com/lumatek/netwalk/pkg/inventory"
	"github.com/lumatek/netwalk/pkg/logger"
	"github.com/lumatek/netwalk/pkg/model"
	"github.com/lumatek/netwalk/pkg/parse"
)

// deviceCollector is the subset of pkg/collector.Collector the engine needs;
// narrowed to an interface so tests can substitute a stub.
type deviceCollector interface {
	Collect(ctx context.Context, entry model.QueueEntry, creds model.Credentials) model.DeviceRecord
}

const pollInterval = 50 * time.Millisecond

// Engine is the discovery run's shared state, guarded by mu (spec §5: "a
// single discovery-wide mutex").
type Engine struct {
	cfg       Config
	collector deviceCollector
	store     inventory.Store
	filter    *filter.Engine
	creds     model.Credentials
	runID     string

	mu             sync.Mutex
	queue          []model.QueueEntry
	visitedIPs     map[string]struct{}
	visitedNames   map[string]struct{}
	inFlight       int
	totalQueued    int
	totalCompleted int
	newDevices     int
	failed         int
	boundaryCount  int
	skippedCount   int
	timeoutResets  int
	deadline       time.Time
	admittedSince  bool
	hardCapped     bool
}

func NewEngine(cfg Config, collector deviceCollector, store inventory.Store, filterEngine *filter.Engine, creds model.Credentials) *Engine {
	return &Engine{
		cfg:          cfg,
		collector:    collector,
		store:        store,
		filter:       filterEngine,
		creds:        creds,
		runID:        uuid.NewString(),
		visitedIPs:   make(map[string]struct{}),
		visitedNames: make(map[string]struct{}),
	}
}

// Run admits the seeds at depth 0 and drives the worker pool until the
// queue drains and the engine is idle, or the hard cap is reached (spec §4.7).
func (e *Engine) Run(ctx context.Context, seeds []model.QueueEntry) Summary {
	start := time.Now()
	e.deadline = start.Add(e.cfg.DiscoveryTimeout)

	for _, s := range seeds {
		e.admitSeed(s)
	}

	workers := e.cfg.ConcurrentDevices
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			e.workerLoop(ctx)
		}()
	}

	wg.Wait()

	return e.summary(time.Since(start))
}

// admitSeed admits a seed unconditionally at depth 0 (spec §9 Open Question:
// max_depth=0 means "walk only the seeds", so seeds are never subject to the
// depth boundary check that gates neighbors).
func (e *Engine) admitSeed(s model.QueueEntry) {
	cleaned := parse.CleanHostname(s.HostnameHint)

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.visitedIPs[s.IP]; ok {
		return
	}

	e.visitedIPs[s.IP] = struct{}{}
	e.visitedNames[cleaned] = struct{}{}
	e.queue = append(e.queue, model.QueueEntry{HostnameHint: s.HostnameHint, IP: s.IP, Depth: 0, Origin: "seed"})
	e.totalQueued++
}

func (e *Engine) workerLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if e.terminal() {
			return
		}

		entry, ok := e.popEntry()
		if !ok {
			time.Sleep(pollInterval)
			continue
		}

		e.incInFlight()
		e.processEntry(ctx, entry)
	}
}

// terminal implements spec §4.7's termination rule: idle (queue empty, no
// in-flight work) terminates immediately since no worker remains that could
// ever admit more work; otherwise the hard cap on idle-timeout extensions is
// the only other way out (spec §7 EngineHardCap).
func (e *Engine) terminal() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.queue) == 0 && e.inFlight == 0 {
		return true
	}

	if time.Now().After(e.deadline) && e.timeoutResets >= maxTimeoutResets {
		e.hardCapped = true
		return true
	}

	return false
}

func (e *Engine) popEntry() (model.QueueEntry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.queue) == 0 {
		return model.QueueEntry{}, false
	}

	entry := e.queue[0]
	e.queue = e.queue[1:]

	return entry, true
}

func (e *Engine) incInFlight() {
	e.mu.Lock()
	e.inFlight++
	e.mu.Unlock()
}

func (e *Engine) processEntry(ctx context.Context, entry model.QueueEntry) {
	record := e.collector.Collect(ctx, entry, e.creds)

	deviceID, isNew, err := e.store.UpsertDevice(ctx, record.Identity)
	if err != nil {
		logger.Error().Err(err).Str("hostname", record.Identity.Hostname).Msg("store upsert failed")
	}

	if record.Status == model.StatusFailed {
		e.mu.Lock()
		e.failed++
		e.mu.Unlock()
	} else {
		if len(record.Interfaces) > 0 {
			_ = e.store.UpsertInterfaces(ctx, deviceID, record.Interfaces)
		}

		if len(record.VLANs) > 0 {
			_ = e.store.UpsertVLANs(ctx, deviceID, record.VLANs)
		}

		for _, n := range record.Neighbors {
			e.admitNeighbor(ctx, deviceID, n, entry.Depth)
		}
	}

	e.mu.Lock()
	if isNew {
		e.newDevices++
	}

	e.totalCompleted++
	e.inFlight--
	e.maybeResetDeadlineLocked()
	completed, queued := e.totalCompleted, e.totalQueued
	e.mu.Unlock()

	if e.cfg.EnableProgressTracking {
		emitProgress(completed, queued)
	}
}

// admitNeighbor applies the filter/boundary decision (C5) and, for anything
// other than a pure skip, persists the neighbor edge (and a placeholder
// device if the remote end is new) via the store.
func (e *Engine) admitNeighbor(ctx context.Context, localDeviceID string, n model.Neighbor, parentDepth int) {
	cleaned := parse.CleanHostname(n.RemoteHostname)

	e.mu.Lock()
	decision := e.filter.Decide(n, cleaned, parentDepth, e.visitedIPs, e.visitedNames)

	switch decision {
	case filter.Admit:
		e.visitedIPs[n.RemoteIP] = struct{}{}
		e.visitedNames[cleaned] = struct{}{}
		e.queue = append(e.queue, model.QueueEntry{
			HostnameHint: n.RemoteHostname,
			IP:           n.RemoteIP,
			Depth:        parentDepth + 1,
			Origin:       localDeviceID,
		})
		e.totalQueued++
		e.admittedSince = true
	case filter.Boundary:
		e.boundaryCount++
	case filter.Skip:
		e.skippedCount++
	}
	e.mu.Unlock()

	switch decision {
	case filter.Admit:
		if err := e.store.UpsertNeighbor(ctx, localDeviceID, n.LocalPort, n, model.StatusObserved); err != nil {
			logger.Error().Err(err).Str("remote", cleaned).Msg("failed to persist neighbor edge")
		}
	case filter.Boundary:
		if err := e.store.UpsertNeighbor(ctx, localDeviceID, n.LocalPort, n, model.StatusBoundary); err != nil {
			logger.Error().Err(err).Str("remote", cleaned).Msg("failed to persist boundary neighbor")
		}
	case filter.Skip:
		_, _, err := e.store.UpsertDevice(ctx, model.DeviceIdentity{
			Hostname:     cleaned,
			Serial:       model.UnknownSerial,
			PrimaryIP:    n.RemoteIP,
			Platform:     n.RemotePlatform,
			Capabilities: n.RemoteCapabilities,
			Status:       model.StatusObserved,
			FirstSeen:    time.Now(),
			LastSeen:     time.Now(),
		})
		if err != nil {
			logger.Error().Err(err).Str("remote", cleaned).Msg("failed to persist skipped neighbor")
		}
	}
}

// maybeResetDeadlineLocked extends the deadline once less than 20% of
// discovery_timeout remains and at least one admission has occurred in the
// current window, up to the hard cap of 10 resets (spec §4.7). Callers must
// hold mu.
func (e *Engine) maybeResetDeadlineLocked() {
	remaining := time.Until(e.deadline)
	if remaining >= time.Duration(float64(e.cfg.DiscoveryTimeout)*idleExtensionThreshold) {
		return
	}

	if !e.admittedSince {
		return
	}

	if e.timeoutResets >= maxTimeoutResets {
		return
	}

	e.deadline = time.Now().Add(e.cfg.DiscoveryTimeout)
	e.timeoutResets++
	e.admittedSince = false

	logger.Warn().Int("timeout_resets", e.timeoutResets).Msg("idle timeout extended")
}

// emitProgress prints the fixed-format progress line of spec §4.7, exactly
// once per completion.
func emitProgress(completed, queued int) {
	pct := 100.0
	if queued > 0 {
		pct = float64(completed) / float64(queued) * 100
	}

	remaining := queued - completed

	logger.Info().Msg(fmt.Sprintf("****** (%d of %d) %.1f%% complete - %d remaining ******",
		completed, queued, pct, remaining))
}

func (e *Engine) summary(elapsed time.Duration) Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Summary{
		Queued:        e.totalQueued,
		Completed:     e.totalCompleted,
		NewDevices:    e.newDevices,
		Failed:        e.failed,
		Boundary:      e.boundaryCount,
		Skipped:       e.skippedCount,
		TimeoutResets: e.timeoutResets,
		HardCapped:    e.hardCapped,
		Elapsed:       elapsed,
	}
}
