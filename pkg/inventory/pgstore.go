package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lumatek/netwalk/pkg/logger"
	"github.com/lumatek/netwalk/pkg/model"
)

// PGStore is the Postgres-backed Store implementation (C7). Grounded on
// pkg/db/cnpg_identity_reconciliation.go's ON CONFLICT ... DO UPDATE ...
// COALESCE(...) batch-upsert idiom, adapted from that file's network-sighting
// schema to the devices/interfaces/vlans/neighbors schema of spec §4.6.
type PGStore struct {
	pool *pgxpool.Pool
}

func NewPGStore(ctx context.Context, dsn string) (*PGStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("inventory: connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("inventory: ping: %w", err)
	}

	return &PGStore{pool: pool}, nil
}

func (s *PGStore) Close() {
	s.pool.Close()
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS devices (
	device_id     UUID PRIMARY KEY,
	hostname      TEXT NOT NULL,
	serial        TEXT NOT NULL,
	primary_ip    TEXT,
	platform      TEXT,
	hw_model      TEXT,
	sw_version    TEXT,
	capabilities  TEXT[],
	status        TEXT NOT NULL,
	first_seen    TIMESTAMPTZ NOT NULL,
	last_seen     TIMESTAMPTZ NOT NULL,
	UNIQUE (hostname, serial)
);
CREATE TABLE IF NOT EXISTS device_interfaces (
	device_id UUID REFERENCES devices(device_id) ON DELETE CASCADE,
	name      TEXT NOT NULL,
	ip_mask   TEXT,
	status    TEXT,
	vlan      TEXT,
	PRIMARY KEY (device_id, name)
);
CREATE TABLE IF NOT EXISTS vlans (
	vlan_id INT PRIMARY KEY,
	name    TEXT
);
CREATE TABLE IF NOT EXISTS device_vlans (
	device_id       UUID REFERENCES devices(device_id) ON DELETE CASCADE,
	vlan_id         INT NOT NULL,
	port_count      INT NOT NULL DEFAULT 0,
	pc_count        INT NOT NULL DEFAULT 0,
	connected_count INT NOT NULL DEFAULT 0,
	PRIMARY KEY (device_id, vlan_id)
);
CREATE TABLE IF NOT EXISTS neighbors (
	src_device_id UUID REFERENCES devices(device_id) ON DELETE CASCADE,
	src_port      TEXT NOT NULL,
	dst_device_id UUID REFERENCES devices(device_id) ON DELETE CASCADE,
	dst_port      TEXT,
	PRIMARY KEY (src_device_id, src_port, dst_device_id)
);
`

// EnsureSchema creates the logical schema of spec §4.6 if it does not exist.
func (s *PGStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schemaSQL)
	if err != nil {
		return fmt.Errorf("inventory: ensure schema: %w", err)
	}

	return nil
}

type candidateRow struct {
	deviceID string
	serial   string
	status   model.Status
}

const selectCandidateSQL = `
SELECT device_id, serial, status FROM devices
WHERE hostname = $1
ORDER BY (status = 'walked') DESC, (serial <> 'unknown') DESC
LIMIT 1
`

const insertDeviceSQL = `
INSERT INTO devices (device_id, hostname, serial, primary_ip, platform, hw_model, sw_version, capabilities, status, first_seen, last_seen)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

const updateDeviceSQL = `
UPDATE devices SET
	serial = $2, primary_ip = $3, platform = $4, hw_model = $5, sw_version = $6,
	capabilities = COALESCE(NULLIF($7::text[], '{}'), capabilities), status = $8, last_seen = $9
WHERE device_id = $1
`

// UpsertDevice implements the §4.6 upsert semantics: new row -> is_new=true;
// existing placeholder ("unknown" serial) row promoted by a concrete serial
// -> is_new=true; same (hostname, serial) already present -> is_new=false.
// When a hostname matches multiple rows, the walked row with a concrete
// serial is preferred (the SQL ORDER BY above encodes that preference; see
// DESIGN.md's Open Question decision on aliasing).
func (s *PGStore) UpsertDevice(ctx context.Context, identity model.DeviceIdentity) (string, bool, error) {
	row, err := s.findCandidate(ctx, identity.Hostname)
	if err != nil {
		return "", false, err
	}

	caps := capsSlice(identity.Capabilities)

	if row == nil {
		id := uuid.NewString()

		_, err := s.pool.Exec(ctx, insertDeviceSQL,
			id, identity.Hostname, identity.Serial, identity.PrimaryIP, string(identity.Platform),
			identity.HardwareModel, identity.SoftwareVersion, caps, string(identity.Status),
			identity.FirstSeen, identity.LastSeen)
		if err != nil {
			return "", false, fmt.Errorf("inventory: insert device: %w", err)
		}

		return id, true, nil
	}

	isNew := row.status != model.StatusWalked && row.serial == model.UnknownSerial && identity.Serial != model.UnknownSerial

	if row.serial != model.UnknownSerial && identity.Serial != model.UnknownSerial && row.serial != identity.Serial {
		logger.Warn().Str("hostname", identity.Hostname).Str("existing_serial", row.serial).
			Str("incoming_serial", identity.Serial).Msg("hostname matches a device with a different serial; possible aliasing")
	}

	if row.status == model.StatusObserved && identity.Serial != model.UnknownSerial && row.serial == model.UnknownSerial {
		logger.Info().Str("hostname", identity.Hostname).Msg("promoting observed device to walked")
	}

	_, err = s.pool.Exec(ctx, updateDeviceSQL,
		row.deviceID, identity.Serial, identity.PrimaryIP, string(identity.Platform),
		identity.HardwareModel, identity.SoftwareVersion, caps, string(identity.Status), identity.LastSeen)
	if err != nil {
		return "", false, fmt.Errorf("inventory: update device: %w", err)
	}

	return row.deviceID, isNew, nil
}

func (s *PGStore) findCandidate(ctx context.Context, hostname string) (*candidateRow, error) {
	var row candidateRow

	err := s.pool.QueryRow(ctx, selectCandidateSQL, hostname).Scan(&row.deviceID, &row.serial, &row.status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("inventory: lookup device: %w", err)
	}

	return &row, nil
}

const upsertInterfaceSQL = `
INSERT INTO device_interfaces (device_id, name, ip_mask, status, vlan)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (device_id, name) DO UPDATE SET
	ip_mask = EXCLUDED.ip_mask, status = EXCLUDED.status, vlan = EXCLUDED.vlan
`

func (s *PGStore) UpsertInterfaces(ctx context.Context, deviceID string, ifaces []model.Interface) error {
	batch := newBatch(s.pool)

	for _, iface := range ifaces {
		batch.Queue(upsertInterfaceSQL, deviceID, iface.Name, iface.IPMask, iface.Status, iface.VLANMembership)
	}

	return batch.send(ctx)
}

const (
	upsertVLANSQL = `
INSERT INTO vlans (vlan_id, name) VALUES ($1, $2)
ON CONFLICT (vlan_id) DO UPDATE SET name = EXCLUDED.name
`
	upsertDeviceVLANSQL = `
INSERT INTO device_vlans (device_id, vlan_id, port_count, pc_count, connected_count)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (device_id, vlan_id) DO UPDATE SET
	port_count = EXCLUDED.port_count, pc_count = EXCLUDED.pc_count, connected_count = EXCLUDED.connected_count
`
)

func (s *PGStore) UpsertVLANs(ctx context.Context, deviceID string, vlans []model.VLANRecord) error {
	batch := newBatch(s.pool)

	for _, v := range vlans {
		batch.Queue(upsertVLANSQL, v.VLANID, v.Name)
		batch.Queue(upsertDeviceVLANSQL, deviceID, v.VLANID, v.PortCount, v.PortchannelCount, v.ConnectedPortCount)
	}

	return batch.send(ctx)
}

const upsertNeighborSQL = `
INSERT INTO neighbors (src_device_id, src_port, dst_device_id, dst_port)
VALUES ($1, $2, $3, $4)
ON CONFLICT (src_device_id, src_port, dst_device_id) DO UPDATE SET dst_port = EXCLUDED.dst_port
`

// UpsertNeighbor records an edge, creating a placeholder device for the
// remote end when it is not already known (spec §4.6). remoteStatus is
// "observed" for an admitted neighbor or "boundary" for one at max_depth.
func (s *PGStore) UpsertNeighbor(ctx context.Context, localDeviceID, localPort string, n model.Neighbor, remoteStatus model.Status) error {
	remoteHostname := n.RemoteHostname

	var remoteID string

	existing, err := s.findCandidate(ctx, remoteHostname)
	if err != nil {
		return fmt.Errorf("inventory: lookup neighbor %s: %w", remoteHostname, err)
	}

	if existing != nil {
		remoteID = existing.deviceID
	} else {
		remoteID, _, err = s.UpsertDevice(ctx, model.DeviceIdentity{
			Hostname:     remoteHostname,
			Serial:       model.UnknownSerial,
			PrimaryIP:    n.RemoteIP,
			Platform:     n.RemotePlatform,
			Capabilities: n.RemoteCapabilities,
			Status:       remoteStatus,
			FirstSeen:    time.Now(),
			LastSeen:     time.Now(),
		})
		if err != nil {
			return fmt.Errorf("inventory: placeholder device for neighbor %s: %w", remoteHostname, err)
		}
	}

	_, err = s.pool.Exec(ctx, upsertNeighborSQL, localDeviceID, localPort, remoteID, n.RemotePort)
	if err != nil {
		return fmt.Errorf("inventory: upsert neighbor edge: %w", err)
	}

	return nil
}

func capsSlice(caps map[string]struct{}) []string {
	out := make([]string, 0, len(caps))
	for c := range caps {
		out = append(out, c)
	}

	return out
}
