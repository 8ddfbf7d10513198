package service

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 32

// keyedLocks serializes operations on the same key by hashing it onto a
// fixed set of mutex stripes. Two mutations of the same event id can never
// interleave; unrelated events rarely contend.
type keyedLocks struct {
	stripes [lockStripes]sync.Mutex
}

// lock acquires the stripe for key and returns its release func.
func (k *keyedLocks) lock(key string) func() {
	i := k.stripeIndex(key)
	k.stripes[i].Lock()
	return k.stripes[i].Unlock
}

// stripeIndex maps a key deterministically to a stripe.
func (k *keyedLocks) stripeIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % lockStripes
}
