package parse

import (
	"regexp"
	"strings"

	"github.com/lumatek/netwalk/pkg/logger"
	"github.com/lumatek/netwalk/pkg/model"
)

// vlanLine is intentionally permissive about trailing whitespace: the third
// group (the port list) is optional so that VLANs with zero ports still
// match (spec §4.2, scenario 3).
var vlanLine = regexp.MustCompile(`^(\d+)\s+(\S+)\s+\S+\s*(.*)$`)

const nxosVLANTypeMarker = "VLAN Type"

// ParseVLAN extracts the VLAN table from "show vlan"/"show vlan brief"
// output. Duplicate vlan_ids in the raw output are resolved by keeping the
// first well-formed entry and logging a warning (spec §4.2). On nx-os the
// scan stops at the "VLAN Type" section header.
func ParseVLAN(output string, platform model.Platform) []model.VLANRecord {
	seen := make(map[int]struct{})

	var vlans []model.VLANRecord

	for _, line := range strings.Split(output, "\n") {
		if platform == model.PlatformNXOS && strings.HasPrefix(strings.TrimSpace(line), nxosVLANTypeMarker) {
			break
		}

		m := vlanLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		id := atoiSafe(m[1])
		if id < 1 || id > 4094 {
			continue
		}

		if _, dup := seen[id]; dup {
			logger.Warn().Int("vlan_id", id).Msg("duplicate vlan id in output, keeping first entry")
			continue
		}

		seen[id] = struct{}{}

		ports := strings.FieldsFunc(m[3], func(r rune) bool { return r == ',' || r == ' ' })

		portCount := 0
		pcCount := 0

		for _, p := range ports {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}

			portCount++

			if strings.HasPrefix(p, "Po") {
				pcCount++
			}
		}

		vlans = append(vlans, model.VLANRecord{
			VLANID:           id,
			Name:             m[2],
			PortCount:        portCount,
			PortchannelCount: pcCount,
		})
	}

	return vlans
}

// CrossCorrelateConnected fills in ConnectedPortCount for each VLAN by
// counting the ports in the parsed interface-status maps whose VLAN column
// equals that VLAN's id and whose status is "connected". The VLAN's own port
// list from "show vlan" is not consulted, so ports whose VLAN column is not a
// number (e.g. "trunk") are not counted for any VLAN.
func CrossCorrelateConnected(vlans []model.VLANRecord, portVLANs map[string]int, portStatus map[string]string) []model.VLANRecord {
	counts := make(map[int]int)

	for port, vlanID := range portVLANs {
		if strings.EqualFold(portStatus[port], "connected") {
			counts[vlanID]++
		}
	}

	for i := range vlans {
		vlans[i].ConnectedPortCount = counts[vlans[i].VLANID]
	}

	return vlans
}

func atoiSafe(s string) int {
	n := 0

	for _, r := range s {
		if r < '0' || r > '9' {
			return -1
		}

		n = n*10 + int(r-'0')
	}

	return n
}
