package discovery_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lumatek/netwalk/pkg/discovery"
	"github.com/lumatek/netwalk/pkg/filter"
	"github.com/lumatek/netwalk/pkg/inventory"
	"github.com/lumatek/netwalk/pkg/model"
)

type fakeCollector struct {
	mu      sync.Mutex
	byIP    map[string]model.DeviceRecord
	callCount map[string]int
}

func (f *fakeCollector) Collect(_ context.Context, entry model.QueueEntry, _ model.Credentials) model.DeviceRecord {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.callCount[entry.IP]++

	rec, ok := f.byIP[entry.IP]
	if !ok {
		return model.DeviceRecord{Status: model.StatusFailed, Err: assertErr{}}
	}

	return rec
}

type assertErr struct{}

func (assertErr) Error() string { return "no canned record for ip" }

// TestRunScenario1 reproduces spec §8 concrete scenario 1: a seed with two
// CDP neighbors, one excluded by capability. Expected: queue admits the
// switch only; the phone is persisted observed/skipped; queued=2,
// completed=2, new_devices=2, skipped=1.
func TestRunScenario1(t *testing.T) {
	seed := model.QueueEntry{HostnameHint: "CORE-A", IP: "10.1.1.1", Depth: 0}

	coreRecord := model.DeviceRecord{
		Identity: model.DeviceIdentity{Hostname: "CORE-A", Serial: "SN-CORE"},
		Status:   model.StatusWalked,
		Neighbors: []model.Neighbor{
			{RemoteHostname: "SW01", RemoteIP: "10.1.1.10", RemoteCapabilities: map[string]struct{}{"Switch": {}}},
			{RemoteHostname: "IPPHONE", RemoteIP: "10.1.1.99", RemoteCapabilities: map[string]struct{}{"Phone": {}}},
		},
	}

	swRecord := model.DeviceRecord{
		Identity: model.DeviceIdentity{Hostname: "SW01", Serial: "SN-SW01"},
		Status:   model.StatusWalked,
	}

	collector := &fakeCollector{
		byIP: map[string]model.DeviceRecord{
			"10.1.1.1":  coreRecord,
			"10.1.1.10": swRecord,
		},
		callCount: map[string]int{},
	}

	store := inventory.NewMockStore()
	filterEngine := filter.NewEngine(filter.Config{
		MaxDepth:            9,
		ExcludeCapabilities: []string{"*phone*", "host"},
	})

	cfg := discovery.DefaultConfig()
	cfg.ConcurrentDevices = 2
	cfg.DiscoveryTimeout = 5 * time.Second

	engine := discovery.NewEngine(cfg, collector, store, filterEngine, model.Credentials{Username: "admin", Password: "secret"})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	summary := engine.Run(ctx, []model.QueueEntry{seed})

	assert.Equal(t, 2, summary.Queued)
	assert.Equal(t, 2, summary.Completed)
	assert.Equal(t, 2, summary.NewDevices)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Boundary)
	assert.Equal(t, 0, summary.Failed)
}

func TestRunNoDuplicateAdmission(t *testing.T) {
	seed := model.QueueEntry{HostnameHint: "CORE-A", IP: "10.1.1.1", Depth: 0}

	coreRecord := model.DeviceRecord{
		Identity: model.DeviceIdentity{Hostname: "CORE-A", Serial: "SN-CORE"},
		Status:   model.StatusWalked,
		Neighbors: []model.Neighbor{
			{RemoteHostname: "SW01", RemoteIP: "10.1.1.10"},
			{RemoteHostname: "SW01", RemoteIP: "10.1.1.10"},
		},
	}

	swRecord := model.DeviceRecord{Identity: model.DeviceIdentity{Hostname: "SW01", Serial: "SN-SW01"}, Status: model.StatusWalked}

	collector := &fakeCollector{
		byIP: map[string]model.DeviceRecord{
			"10.1.1.1":  coreRecord,
			"10.1.1.10": swRecord,
		},
		callCount: map[string]int{},
	}

	store := inventory.NewMockStore()
	filterEngine := filter.NewEngine(filter.Config{MaxDepth: 9})

	cfg := discovery.DefaultConfig()
	cfg.ConcurrentDevices = 2
	cfg.DiscoveryTimeout = 5 * time.Second

	engine := discovery.NewEngine(cfg, collector, store, filterEngine, model.Credentials{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	summary := engine.Run(ctx, []model.QueueEntry{seed})

	assert.Equal(t, 2, summary.Queued, "the duplicate SW01 neighbor must not be admitted twice")
	assert.Equal(t, 1, collector.callCount["10.1.1.10"])
}
