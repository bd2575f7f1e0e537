package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderTree(t *testing.T) {
	root := &TreeNode{Name: "shop (test)"}
	common := root.Add("resource-group/shop-common", "westeurope")
	common.Add("log-workspace/log-analytics", "")
	region := root.Add("region/northeurope", "")
	region.Add("container-workload/app", "https://app.example.io")

	out := RenderTree(root)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	assert.Contains(t, lines[0], "shop (test)")
	assert.True(t, strings.HasPrefix(lines[1], treeEdge))
	assert.True(t, strings.HasPrefix(lines[2], treeVert+treeLast))
	assert.True(t, strings.HasPrefix(lines[3], treeLast))
	assert.Contains(t, lines[4], "https://app.example.io")
}

func TestRenderTree_Nil(t *testing.T) {
	assert.Empty(t, RenderTree(nil))
}
