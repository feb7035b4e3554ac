package uid

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/labstack/gommon/log"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init sets the snowflake node once per process. Later calls are no-ops.
func Init(machineID int64) {
	once.Do(func() {
		var err error
		node, err = snowflake.NewNode(machineID)
		if err != nil {
			log.Fatalf("failed to initialize snowflake node: %v", err)
		}
	})
}

// Generate returns a new payment reference. Packages that skip Init
// (tests) fall back to node 0.
func Generate() int64 {
	Init(0)
	return node.Generate().Int64()
}
