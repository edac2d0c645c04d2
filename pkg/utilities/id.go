package utilities

import (
	"os"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

var (
	nodeOnce sync.Once
	node     *snowflake.Node
)

// NewKSUID generates a new globally unique KSUID string.
func NewKSUID() string {
	return ksuid.New().String()
}

// NewSnowflakeID generates a snowflake ID string. The node ID comes from
// SNOWFLAKE_NODE (default 1) and is resolved once per process so that
// concurrent callers share one sequence counter.
func NewSnowflakeID() string {
	n := defaultNode()
	if n == nil {
		return NewKSUID()
	}
	return n.Generate().String()
}

func defaultNode() *snowflake.Node {
	nodeOnce.Do(func() {
		nodeID := int64(1)
		if v, err := strconv.ParseInt(os.Getenv("SNOWFLAKE_NODE"), 10, 64); err == nil {
			nodeID = v
		}
		n, err := snowflake.NewNode(nodeID)
		if err != nil {
			// out-of-range node id; fall back to node 1
			n, _ = snowflake.NewNode(1)
		}
		node = n
	})
	return node
}
