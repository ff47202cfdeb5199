// Package collector drives one device through the full collection pipeline:
// open a session, detect its platform, run its command plan, and assemble a
// DeviceRecord (C4, spec §4.4).
//
// Grounded on the teacher's pkg/discovery/snmp_polling.go "scanTarget"
// orchestration: a short sequence of steps that accumulate into one result
// struct, each step tolerant of partial failure rather than aborting the
// whole collection.
package collector

import (
	"context"
	"strings"
	"time"

	"github.com/lumatek/netwalk/pkg/logger"
	"github.com/lumatek/netwalk/pkg/model"
	"github.com/lumatek/netwalk/pkg/parse"
	"github.com/lumatek/netwalk/pkg/platform"
	"github.com/lumatek/netwalk/pkg/transport"
)

type Collector struct {
	handler        *platform.Handler
	transport      *transport.Manager
	commandTimeout time.Duration
	vlanEnabled    bool
}

func New(handler *platform.Handler, mgr *transport.Manager, commandTimeout time.Duration, vlanEnabled bool) *Collector {
	return &Collector{
		handler:        handler,
		transport:      mgr,
		commandTimeout: commandTimeout,
		vlanEnabled:    vlanEnabled,
	}
}

// Collect runs the six-step device collection pipeline of spec §4.4. The
// session is closed on every exit path, including early failure.
func (c *Collector) Collect(ctx context.Context, entry model.QueueEntry, creds model.Credentials) model.DeviceRecord {
	now := time.Now()

	record := model.DeviceRecord{
		Identity: model.DeviceIdentity{
			Hostname:  parse.CleanHostname(entry.HostnameHint),
			Serial:    model.UnknownSerial,
			PrimaryIP: entry.IP,
			FirstSeen: now,
			LastSeen:  now,
		},
	}

	sess, err := c.transport.Open(ctx, entry.IP, creds)
	if err != nil {
		logger.Warn().Str("ip", entry.IP).Err(err).Msg("[FAIL] could not open session")
		record.Status = model.StatusFailed
		record.Err = err

		return record
	}

	defer sess.Close()

	record.Transport = sess.Transport()

	// Platform is unknown until the identity command is parsed, so the
	// pager-off and identity steps use the best-effort "unknown" plan.
	genericPlan := c.handler.CommandsFor(model.PlatformUnknown)

	if genericPlan.PagerOff != "" {
		_, _ = sess.Run(ctx, genericPlan.PagerOff, c.commandTimeout)
	}

	versionOutput, err := sess.Run(ctx, genericPlan.Identity, c.commandTimeout)
	if err != nil {
		logger.Debug().Str("ip", entry.IP).Err(err).Msg("identity command failed")
	}

	detectedPlatform := c.handler.Detect(versionOutput, entry.HostnameHint)
	record.Identity.Platform = detectedPlatform

	c.applyIdentityFields(&record.Identity, versionOutput, detectedPlatform)

	plan := c.handler.CommandsFor(detectedPlatform)
	c.collectNeighbors(ctx, sess, plan, &record)
	c.collectVLANsAndInterfaces(ctx, sess, plan, &record)

	record.Status = model.StatusWalked
	record.Identity.Status = model.StatusWalked
	record.Identity.LastSeen = time.Now()

	logger.Info().Str("hostname", record.Identity.Hostname).Str("ip", entry.IP).Msg("[OK] device collected")

	return record
}

// applyIdentityFields fills in everything extractable from the device's own
// identity command output. Capabilities are deliberately left untouched here:
// unlike hostname/version/model/serial, no platform's identity output carries
// a parseable capability token list (CDP/LLDP's "Capabilities:" line has no
// counterpart in "show version"), so a walked device keeps whatever
// capability set it was given when first observed as a neighbor placeholder
// (see DESIGN.md's Open Question decision on this).
func (c *Collector) applyIdentityFields(id *model.DeviceIdentity, versionOutput string, p model.Platform) {
	rawHostname := id.Hostname

	if hn, ok := parse.ExtractHostname(versionOutput); ok {
		rawHostname = hn
		id.Hostname = parse.CleanHostname(hn)
	}

	if sv, ok := parse.ExtractSoftwareVersion(versionOutput); ok {
		id.SoftwareVersion = sv
	}

	if hw, ok := parse.ExtractHardwareModel(versionOutput); ok {
		id.HardwareModel = hw
	}

	if serial, ok := parse.ExtractSerial(versionOutput, p); ok {
		id.Serial = serial
	} else if paren, ok := parse.ExtractParenSerial(rawHostname); ok {
		// Scenario 4: fall back to the parenthesized serial in the raw
		// (pre-clean) hostname iff no explicit serial field was parsed.
		id.Serial = paren
	}
}

func (c *Collector) collectNeighbors(ctx context.Context, sess transport.Session, plan model.CommandPlan, record *model.DeviceRecord) {
	for _, cmd := range plan.Neighbors {
		out, err := sess.Run(ctx, cmd, c.commandTimeout)
		if err != nil {
			logger.Debug().Str("cmd", cmd).Err(err).Msg("neighbor command failed")
			continue
		}

		var neighbors []model.Neighbor
		if strings.Contains(cmd, "cdp") {
			neighbors = parse.ParseCDP(out, record.Identity.Hostname)
		} else {
			neighbors = parse.ParseLLDP(out, record.Identity.Hostname)
		}

		record.Neighbors = append(record.Neighbors, neighbors...)
	}
}

func (c *Collector) collectVLANsAndInterfaces(ctx context.Context, sess transport.Session, plan model.CommandPlan, record *model.DeviceRecord) {
	var (
		ifaceOutput string
		portVLANs   map[string]int
		portStatus  map[string]string
	)

	if plan.Interfaces != "" {
		out, err := sess.Run(ctx, plan.Interfaces, c.commandTimeout)
		if err != nil {
			logger.Debug().Str("cmd", plan.Interfaces).Err(err).Msg("interfaces command failed")
		} else {
			ifaceOutput = out
			record.Interfaces, portVLANs, portStatus = parse.ParseInterfaceStatus(ifaceOutput)
		}
	}

	if !c.vlanEnabled || plan.VLAN == "" {
		return
	}

	out, err := sess.Run(ctx, plan.VLAN, c.commandTimeout)
	if err != nil {
		logger.Debug().Str("cmd", plan.VLAN).Err(err).Msg("vlan command failed")
		return
	}

	vlans := parse.ParseVLAN(out, record.Identity.Platform)

	if portVLANs != nil {
		vlans = parse.CrossCorrelateConnected(vlans, portVLANs, portStatus)
	}

	record.VLANs = vlans
}
