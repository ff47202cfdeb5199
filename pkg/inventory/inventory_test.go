package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumatek/netwalk/pkg/inventory"
	"github.com/lumatek/netwalk/pkg/model"
)

func TestMockStorePromotion(t *testing.T) {
	store := inventory.NewMockStore()
	ctx := context.Background()

	_, isNew, err := store.UpsertDevice(ctx, model.DeviceIdentity{Hostname: "SW01", Serial: model.UnknownSerial})
	assert.NoError(t, err)
	assert.True(t, isNew, "first insert of an observed-only device is new")

	id, isNew, err := store.UpsertDevice(ctx, model.DeviceIdentity{Hostname: "SW01", Serial: "FOX1234ABCD"})
	assert.NoError(t, err)
	assert.True(t, isNew, "promotion from unknown serial to a concrete one counts as new")
	assert.NotEmpty(t, id)

	_, isNew, err = store.UpsertDevice(ctx, model.DeviceIdentity{Hostname: "SW01", Serial: "FOX1234ABCD"})
	assert.NoError(t, err)
	assert.False(t, isNew, "re-upserting the same (hostname, serial) is not new")

	assert.Equal(t, 1, store.DeviceCount())
}

func TestMockStoreNeighborRecorded(t *testing.T) {
	store := inventory.NewMockStore()
	ctx := context.Background()

	err := store.UpsertNeighbor(ctx, "dev-1", "Gi0/1", model.Neighbor{RemoteHostname: "SW02", RemoteIP: "10.1.1.2"}, model.StatusObserved)
	assert.NoError(t, err)
	assert.Len(t, store.Neighbors, 1)
	assert.Equal(t, "SW02", store.Neighbors[0].Neighbor.RemoteHostname)
}
