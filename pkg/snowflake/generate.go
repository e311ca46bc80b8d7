package snowflake

import (
	"errors"
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once

	errInvalidMachineID = errors.New("snowflake machine id out of range")
	errNotInitialized   = errors.New("snowflake node is not initialized")
)

// Init собирает node id из пары датацентр/машина, оба в диапазоне 0..31
func Init(machineID, dataCenterID int64) error {
	var initErr error

	once.Do(func() {
		if machineID < 0 || machineID > 31 || dataCenterID < 0 || dataCenterID > 31 {
			initErr = errInvalidMachineID
			return
		}
		node, initErr = snowflake.NewNode(dataCenterID<<5 | machineID)
	})

	return initErr
}

// NextID выдаёт очередной public id
func NextID() (int64, error) {
	if node == nil {
		return 0, errNotInitialized
	}
	return node.Generate().Int64(), nil
}
