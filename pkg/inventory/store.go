// Package inventory implements the Identity Reconciler (C6) and Inventory
// Store Adapter (C7): upsert semantics over the logical schema of spec §4.6,
// realized on Postgres via pgx.
package inventory

import (
	"context"

	"github.com/lumatek/netwalk/pkg/model"
)

// Store is the narrow persistence contract the discovery engine depends on.
// Defined here (rather than having the engine import pgx directly) so tests
// can swap in MockStore.
type Store interface {
	// UpsertDevice applies the §4.6 upsert semantics and returns the
	// device's stable ID and whether this is a new device (including
	// observed->walked promotion).
	UpsertDevice(ctx context.Context, identity model.DeviceIdentity) (deviceID string, isNew bool, err error)
	UpsertInterfaces(ctx context.Context, deviceID string, ifaces []model.Interface) error
	UpsertVLANs(ctx context.Context, deviceID string, vlans []model.VLANRecord) error
	// UpsertNeighbor records a directed edge, creating a placeholder device
	// for the remote end if it isn't known yet, with the given status
	// (observed or boundary, per spec §4.5).
	UpsertNeighbor(ctx context.Context, localDeviceID, localPort string, n model.Neighbor, remoteStatus model.Status) error
	Close()
}
