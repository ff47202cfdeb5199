// Package parse turns device CLI output into structured records: hostnames,
// software/hardware identity fields, CDP/LLDP neighbor entries, and VLAN
// tables. Every extractor isolates its own failures — a field that can't be
// found comes back empty/zero, it never drops the whole record (spec §4.2).
package parse

import (
	"regexp"
	"strings"
)

var nonHostnameChar = regexp.MustCompile(`[^A-Za-z0-9-]`)

const maxHostnameLen = 36

// CleanHostname applies the four-step cleaning rule used everywhere a
// hostname is displayed or keyed (spec §4.2). It is idempotent:
// CleanHostname(CleanHostname(h)) == CleanHostname(h).
func CleanHostname(raw string) string {
	h := raw

	// 1. FQDN: keep only the label before the first '.'.
	if idx := strings.Index(h, "."); idx >= 0 {
		h = h[:idx]
	}

	// 2. Remove any parenthesized suffix, e.g. serial-in-parens.
	if idx := strings.Index(h, "("); idx >= 0 {
		h = h[:idx]
	}

	// 3. Strip any character outside [A-Za-z0-9-].
	h = nonHostnameChar.ReplaceAllString(h, "")

	// 4. Truncate to 36 characters.
	if len(h) > maxHostnameLen {
		h = h[:maxHostnameLen]
	}

	return h
}

// ExtractParenSerial returns the contents of a trailing parenthesized suffix,
// e.g. "LUMT-CORE-A(FOX1849GQKY)" -> "FOX1849GQKY". Used as a serial fallback
// when no explicit serial field was parsed (spec scenario 4).
func ExtractParenSerial(raw string) (string, bool) {
	start := strings.Index(raw, "(")
	end := strings.LastIndex(raw, ")")

	if start < 0 || end <= start {
		return "", false
	}

	return raw[start+1 : end], true
}

var hostnameDenylist = map[string]struct{}{
	"kernel": {}, "system": {}, "device": {}, "switch": {}, "router": {},
}

var (
	reDeviceName  = regexp.MustCompile(`(?i)Device name:\s*(\S+)`)
	rePromptLine  = regexp.MustCompile(`(?m)^(\S+)[#>]\s*$`)
	reUptimeLine  = regexp.MustCompile(`(?m)^(\S+)\s+uptime is`)
	reHostnameKey = regexp.MustCompile(`(?i)hostname:\s*(\S+)`)
)

func denied(token string) bool {
	_, ok := hostnameDenylist[strings.ToLower(token)]
	return ok
}

// ExtractHostname pulls a hostname out of "show version"-style output, trying
// patterns A-D in order and rejecting any denylisted token (spec §4.2).
func ExtractHostname(output string) (string, bool) {
	if m := reDeviceName.FindStringSubmatch(output); m != nil && !denied(m[1]) {
		return m[1], true
	}

	if m := rePromptLine.FindStringSubmatch(output); m != nil && !denied(m[1]) {
		return m[1], true
	}

	if m := reUptimeLine.FindStringSubmatch(output); m != nil && !denied(m[1]) {
		if len(m[1]) > 0 && isLetter(m[1][0]) {
			return m[1], true
		}
	}

	if m := reHostnameKey.FindStringSubmatch(output); m != nil && !denied(m[1]) {
		return m[1], true
	}

	return "", false
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
