// Package id hands out the int64 ids of intake messages and oracle eval records.
package id

import (
	"errors"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// Node ids of the ledger processes. The server and the worker both mint ids, so each needs its own.
const (
	NodeServer int64 = 1
	NodeWorker int64 = 2
)

var ErrNotInitialized = errors.New("id: Init has not been called")

var (
	node *snowflake.Node
	once sync.Once
)

// Init sets this process's node. Only the first call has any effect.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New returns the next id. Ids grow with time, so intake rows sort in arrival order.
// It panics before Init.
func New() int64 {
	if node == nil {
		panic(ErrNotInitialized)
	}
	return node.Generate().Int64()
}
