package seedfile_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumatek/netwalk/pkg/seedfile"
)

func TestParseSkipsCommentsAndBlankLines(t *testing.T) {
	input := "# seed devices\nCORE-A:10.1.1.1\n\nCORE-B:10.1.1.2\n# trailing comment\n"

	entries, err := seedfile.Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "CORE-A", entries[0].HostnameHint)
	assert.Equal(t, "10.1.1.1", entries[0].IP)
	assert.Equal(t, "CORE-B", entries[1].HostnameHint)
}

func TestParseInline(t *testing.T) {
	entries, err := seedfile.ParseInline("CORE-A:10.1.1.1,CORE-B:10.1.1.2")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "10.1.1.2", entries[1].IP)
}

func TestParseRejectsMalformedLine(t *testing.T) {
	_, err := seedfile.Parse(strings.NewReader("not-a-valid-line"))
	assert.Error(t, err)
}
