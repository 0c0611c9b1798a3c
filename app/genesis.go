package app

import (
	"github.com/iov-one/testament"
)

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...testament.Initializer) testament.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []testament.Initializer
}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts testament.Options, kv testament.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}
