package inventory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/lumatek/netwalk/pkg/model"
)

// MockStore is a hand-written, concurrency-safe in-memory Store used by
// pkg/discovery's worker-pool tests, grounded on the teacher's
// //go:generate mockgen convention in pkg/logger/interfaces.go — here written
// by hand rather than generated, since the in-memory semantics needed for
// the engine's is_new/promotion assertions are easier to express directly
// than to script through a generated expectation DSL.
type MockStore struct {
	mu        sync.Mutex
	devices   map[string]model.DeviceIdentity // keyed by (hostname)
	deviceIDs map[string]string                // hostname -> device_id
	Neighbors []NeighborCall
}

type NeighborCall struct {
	LocalDeviceID string
	LocalPort     string
	Neighbor      model.Neighbor
}

func NewMockStore() *MockStore {
	return &MockStore{
		devices:   make(map[string]model.DeviceIdentity),
		deviceIDs: make(map[string]string),
	}
}

func (m *MockStore) UpsertDevice(_ context.Context, identity model.DeviceIdentity) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.devices[identity.Hostname]
	if !ok {
		id := uuid.NewString()
		m.deviceIDs[identity.Hostname] = id
		m.devices[identity.Hostname] = identity

		return id, true, nil
	}

	promoted := existing.Serial == model.UnknownSerial && identity.Serial != model.UnknownSerial
	m.devices[identity.Hostname] = identity

	return m.deviceIDs[identity.Hostname], promoted, nil
}

func (m *MockStore) UpsertInterfaces(_ context.Context, _ string, _ []model.Interface) error {
	return nil
}

func (m *MockStore) UpsertVLANs(_ context.Context, _ string, _ []model.VLANRecord) error {
	return nil
}

func (m *MockStore) UpsertNeighbor(_ context.Context, localDeviceID, localPort string, n model.Neighbor, _ model.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Neighbors = append(m.Neighbors, NeighborCall{LocalDeviceID: localDeviceID, LocalPort: localPort, Neighbor: n})

	return nil
}

func (m *MockStore) Close() {}

// DeviceCount returns the number of distinct hostnames upserted so far.
func (m *MockStore) DeviceCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.devices)
}
