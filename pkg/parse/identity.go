package parse

import (
	"regexp"
	"strings"

	"github.com/lumatek/netwalk/pkg/model"
)

var (
	reSwVerNXOS = regexp.MustCompile(`NXOS:\s+version\s+(\S+)`)
	reSwVerIOSXE = regexp.MustCompile(`System version:\s+(\S+)`)
	reSwVerPAN  = regexp.MustCompile(`sw-version:\s+(\S+)`)
	reSwVerIOS  = regexp.MustCompile(`Version\s+([^\s,]+)`)
)

// ExtractSoftwareVersion applies the priority-ordered patterns of spec §4.2.
// The IOS fallback pattern must not match a "Version" that follows a GPL or
// license keyword (e.g. "GPL Version 2"), so candidate lines containing those
// keywords are skipped; the lines after them are still searched.
func ExtractSoftwareVersion(output string) (string, bool) {
	if m := reSwVerNXOS.FindStringSubmatch(output); m != nil {
		return m[1], true
	}

	if m := reSwVerIOSXE.FindStringSubmatch(output); m != nil {
		return m[1], true
	}

	if m := reSwVerPAN.FindStringSubmatch(output); m != nil {
		return m[1], true
	}

	for _, line := range strings.Split(output, "\n") {
		lower := strings.ToLower(line)
		if strings.Contains(lower, "gpl") || strings.Contains(lower, "license") {
			continue
		}

		if m := reSwVerIOS.FindStringSubmatch(line); m != nil {
			return m[1], true
		}
	}

	return "", false
}

var (
	reModelNumber   = regexp.MustCompile(`Model [Nn]umber\s*:\s*([\w-]+)`)
	reModelNexus    = regexp.MustCompile(`cisco\s+Nexus\d*\s+([\w-]+)\s+Chassis`)
	reModelCatalyst = regexp.MustCompile(`cisco\s+(WS-[\w-]+)\s+\([^)]+\)\s+processor`)
	reModelISRASR   = regexp.MustCompile(`cisco\s+([\w-]+/[\w-]+)\s+\([^)]+\)\s+processor`)
	reModelPAN      = regexp.MustCompile(`model:\s*(\S+)`)
)

// ExtractHardwareModel applies the priority-ordered patterns of spec §4.2.
func ExtractHardwareModel(output string) (string, bool) {
	for _, re := range []*regexp.Regexp{reModelNumber, reModelNexus, reModelCatalyst, reModelISRASR, reModelPAN} {
		if m := re.FindStringSubmatch(output); m != nil {
			return m[1], true
		}
	}

	return "", false
}

var (
	reSerialNXOS = regexp.MustCompile(`System serial number\s*:?\s*(\S+)`)
	reSerialIOS  = regexp.MustCompile(`Processor board ID\s+(\S+)`)
	reSerialPAN  = regexp.MustCompile(`serial:\s*(\S+)`)
)

// ExtractSerial extracts the serial number using the key appropriate for the
// given platform, falling back to trying all known keys if the preferred one
// is absent (spec §4.2).
func ExtractSerial(output string, platform model.Platform) (string, bool) {
	order := []*regexp.Regexp{reSerialIOS, reSerialNXOS, reSerialPAN}

	switch platform {
	case model.PlatformNXOS:
		order = []*regexp.Regexp{reSerialNXOS, reSerialIOS, reSerialPAN}
	case model.PlatformPANOS:
		order = []*regexp.Regexp{reSerialPAN, reSerialNXOS, reSerialIOS}
	}

	for _, re := range order {
		if m := re.FindStringSubmatch(output); m != nil {
			return m[1], true
		}
	}

	return "", false
}
