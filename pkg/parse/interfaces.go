package parse

import (
	"regexp"
	"strings"

	"github.com/lumatek/netwalk/pkg/model"
)

var interfaceStatusLine = regexp.MustCompile(
	`^(\S+)\s+.*?\s+(connected|notconnect|disabled|inactive|monitoring|err-disabled)\s+(\S+)\s`)

// ParseInterfaceStatus extracts interface records from "show interface[s]
// status" output (spec §4.2), plus the per-port VLAN/status maps used by
// CrossCorrelateConnected.
func ParseInterfaceStatus(output string) (ifaces []model.Interface, portVLANs map[string]int, portStatus map[string]string) {
	portVLANs = make(map[string]int)
	portStatus = make(map[string]string)

	for _, line := range strings.Split(output, "\n") {
		m := interfaceStatusLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		name, status, vlanField := m[1], m[2], m[3]

		ifaces = append(ifaces, model.Interface{
			Name:           name,
			Status:         status,
			VLANMembership: vlanField,
		})

		portStatus[name] = status

		if id := atoiSafe(vlanField); id >= 1 && id <= 4094 {
			portVLANs[name] = id
		}
	}

	return ifaces, portVLANs, portStatus
}
