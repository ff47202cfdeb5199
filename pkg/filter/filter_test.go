package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumatek/netwalk/pkg/filter"
	"github.com/lumatek/netwalk/pkg/model"
)

func TestDecideScenario1(t *testing.T) {
	e := filter.NewEngine(filter.Config{
		MaxDepth:            9,
		ExcludeCapabilities: []string{"*phone*", "host"},
	})

	sw01 := model.Neighbor{RemoteIP: "10.1.1.10", RemoteCapabilities: map[string]struct{}{"Switch": {}}}
	phone := model.Neighbor{RemoteIP: "10.1.1.99", RemoteCapabilities: map[string]struct{}{"Phone": {}}}

	visitedIPs := map[string]struct{}{}
	visitedNames := map[string]struct{}{}

	assert.Equal(t, filter.Admit, e.Decide(sw01, "SW01", 0, visitedIPs, visitedNames))
	assert.Equal(t, filter.Skip, e.Decide(phone, "IPPHONE", 0, visitedIPs, visitedNames))
}

func TestDecideMaxDepthBoundary(t *testing.T) {
	e := filter.NewEngine(filter.Config{MaxDepth: 1})

	n := model.Neighbor{RemoteIP: "10.1.1.10"}
	assert.Equal(t, filter.Boundary, e.Decide(n, "EDGE", 1, map[string]struct{}{}, map[string]struct{}{}))
}

func TestDecideMissingIPSkipped(t *testing.T) {
	e := filter.NewEngine(filter.Config{MaxDepth: 9})

	n := model.Neighbor{RemoteIP: ""}
	assert.Equal(t, filter.Skip, e.Decide(n, "NOIP", 0, map[string]struct{}{}, map[string]struct{}{}))
}

func TestDecideCIDRExclusion(t *testing.T) {
	e := filter.NewEngine(filter.Config{MaxDepth: 9, ExcludeCIDRs: []string{"10.2.0.0/16"}})

	n := model.Neighbor{RemoteIP: "10.2.5.5"}
	assert.Equal(t, filter.Skip, e.Decide(n, "OUTSIDE", 0, map[string]struct{}{}, map[string]struct{}{}))
}

func TestDecideAlreadyVisited(t *testing.T) {
	e := filter.NewEngine(filter.Config{MaxDepth: 9})

	n := model.Neighbor{RemoteIP: "10.1.1.10"}
	visitedIPs := map[string]struct{}{"10.1.1.10": {}}

	assert.Equal(t, filter.Skip, e.Decide(n, "SW01", 0, visitedIPs, map[string]struct{}{}))
}
