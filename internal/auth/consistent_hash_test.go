package auth

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRingStableMapping(t *testing.T) {
	ring := NewRing([]string{"node-a", "node-b", "node-c"}, 50)

	// 同一个 key 多次查询结果一致
	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("token-%d", i)
		first := ring.Node(key)
		assert.Equal(t, first, ring.Node(key))
	}
}

func TestRingDistribution(t *testing.T) {
	ring := NewRing([]string{"node-a", "node-b", "node-c"}, 50)

	counts := make(map[string]int)
	for i := 0; i < 1000; i++ {
		counts[ring.Node(fmt.Sprintf("token-%d", i))]++
	}
	// 每个节点都应分到一部分 key
	assert.Len(t, counts, 3)
	for node, n := range counts {
		assert.Greater(t, n, 0, node)
	}
}

func TestRingAddDuplicateIgnored(t *testing.T) {
	ring := NewRing([]string{"node-a"}, 10)
	before := ring.Node("some-key")
	ring.Add("node-a")
	assert.Equal(t, before, ring.Node("some-key"))
}

func TestRingEmptyDefaultsToSingleNode(t *testing.T) {
	ring := NewRing(nil, 10)
	assert.Equal(t, "auth-node-default", ring.Node("whatever"))
}
