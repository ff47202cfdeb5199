package parse

import (
	"regexp"
	"strings"

	"github.com/lumatek/netwalk/pkg/logger"
	"github.com/lumatek/netwalk/pkg/model"
)

var entrySeparator = regexp.MustCompile(`(?m)^-{4,}\s*$`)

var (
	reCDPDeviceID   = regexp.MustCompile(`Device ID:\s*(\S+)`)
	reCDPIPAddr1    = regexp.MustCompile(`IP address:\s*(\S+)`)
	reCDPIPAddr2    = regexp.MustCompile(`IPv4 Address:\s*(\S+)`)
	reCDPIPAddr3    = regexp.MustCompile(`(?s)Interface address\(es\):.*?IPv4 Address:\s*(\S+)`)
	reCDPPlatform   = regexp.MustCompile(`Platform:\s*([^,]+),`)
	reCDPCaps       = regexp.MustCompile(`Capabilities:\s*(.+)`)
	reCDPLocalIntf  = regexp.MustCompile(`Interface:\s*([^,]+),`)
	reCDPRemotePort = regexp.MustCompile(`Port ID \(outgoing port\):\s*(\S+)`)
)

// ParseCDP splits a "show cdp neighbors detail" transcript into neighbor
// entries. Neighbors missing an IP are dropped silently; self-referential
// entries (remote hostname equals the local device, compared
// case-insensitively after cleaning) are dropped at parse
// (spec §4.2, §8 boundary behaviors).
func ParseCDP(output, localHostname string) []model.Neighbor {
	var neighbors []model.Neighbor

	for _, entry := range entrySeparator.Split(output, -1) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		n, ok := parseCDPEntry(entry)
		if !ok {
			continue
		}

		if strings.EqualFold(CleanHostname(n.RemoteHostname), CleanHostname(localHostname)) {
			continue
		}

		neighbors = append(neighbors, n)
	}

	return neighbors
}

func parseCDPEntry(entry string) (model.Neighbor, bool) {
	m := reCDPDeviceID.FindStringSubmatch(entry)
	if m == nil {
		return model.Neighbor{}, false
	}

	n := model.Neighbor{RemoteHostname: CleanHostname(m[1])}

	for _, re := range []*regexp.Regexp{reCDPIPAddr1, reCDPIPAddr2, reCDPIPAddr3} {
		if ipm := re.FindStringSubmatch(entry); ipm != nil {
			n.RemoteIP = ipm[1]
			break
		}
	}

	if n.RemoteIP == "" {
		logger.Debug().Str("device", n.RemoteHostname).Msg("cdp entry missing ip address, dropping")
		return model.Neighbor{}, false
	}

	if pm := reCDPPlatform.FindStringSubmatch(entry); pm != nil {
		n.RemotePlatform = guessPlatformString(strings.TrimSpace(pm[1]))
	}

	n.RemoteCapabilities = parseCapabilities(reCDPCaps.FindStringSubmatch(entry))

	if lm := reCDPLocalIntf.FindStringSubmatch(entry); lm != nil {
		n.LocalPort = strings.TrimSpace(lm[1])
	}

	if rm := reCDPRemotePort.FindStringSubmatch(entry); rm != nil {
		n.RemotePort = rm[1]
	}

	return n, true
}

var (
	reLLDPSystemName = regexp.MustCompile(`System Name:\s*(\S+)`)
	reLLDPMgmtAddr   = regexp.MustCompile(`Management Address:\s*(\S+)`)
	reLLDPPortDesc   = regexp.MustCompile(`Port Description:\s*(\S+)`)
	reLLDPLocalIntf  = regexp.MustCompile(`Local Intf:\s*(\S+)`)
	reLLDPCaps       = regexp.MustCompile(`System Capabilities:\s*(.+)`)
	reLLDPSysDescr   = regexp.MustCompile(`System Description:\s*(.+)`)
)

// ParseLLDP is the LLDP analog of ParseCDP, treating System Name, Management
// Address, and Port Description as the CDP equivalents of Device ID, IP
// address, and Port ID (spec §4.2).
func ParseLLDP(output, localHostname string) []model.Neighbor {
	var neighbors []model.Neighbor

	for _, entry := range entrySeparator.Split(output, -1) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		n, ok := parseLLDPEntry(entry)
		if !ok {
			continue
		}

		if strings.EqualFold(CleanHostname(n.RemoteHostname), CleanHostname(localHostname)) {
			continue
		}

		neighbors = append(neighbors, n)
	}

	return neighbors
}

func parseLLDPEntry(entry string) (model.Neighbor, bool) {
	m := reLLDPSystemName.FindStringSubmatch(entry)
	if m == nil {
		return model.Neighbor{}, false
	}

	n := model.Neighbor{RemoteHostname: CleanHostname(m[1])}

	if im := reLLDPMgmtAddr.FindStringSubmatch(entry); im != nil {
		n.RemoteIP = im[1]
	}

	if n.RemoteIP == "" {
		logger.Debug().Str("device", n.RemoteHostname).Msg("lldp entry missing management address, dropping")
		return model.Neighbor{}, false
	}

	if dm := reLLDPSysDescr.FindStringSubmatch(entry); dm != nil {
		n.RemotePlatform = guessPlatformString(dm[1])
	}

	n.RemoteCapabilities = parseCapabilities(reLLDPCaps.FindStringSubmatch(entry))

	if lm := reLLDPLocalIntf.FindStringSubmatch(entry); lm != nil {
		n.LocalPort = lm[1]
	}

	if pm := reLLDPPortDesc.FindStringSubmatch(entry); pm != nil {
		n.RemotePort = pm[1]
	}

	return n, true
}

func parseCapabilities(m []string) map[string]struct{} {
	if m == nil {
		return nil
	}

	caps := make(map[string]struct{})

	for _, tok := range strings.Fields(m[1]) {
		tok = strings.Trim(tok, ",")
		if tok != "" {
			caps[tok] = struct{}{}
		}
	}

	return caps
}

func guessPlatformString(s string) model.Platform {
	lower := strings.ToLower(s)

	switch {
	case strings.Contains(lower, "nexus"):
		return model.PlatformNXOS
	case strings.Contains(lower, "ios-xe"):
		return model.PlatformIOSXE
	case strings.Contains(lower, "ios"):
		return model.PlatformIOS
	case strings.Contains(lower, "pan-os"), strings.Contains(lower, "palo alto"):
		return model.PlatformPANOS
	default:
		return model.PlatformUnknown
	}
}
