package middleware

import "github.com/aretw0/interpro2go/pkg/ports"

// Middleware allows wrapping an ObjectStore to add behavior.
type Middleware func(ports.ObjectStore) ports.ObjectStore

// Chain wraps store with mws. The first middleware is the outermost.
func Chain(store ports.ObjectStore, mws ...Middleware) ports.ObjectStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}

// Factory applies mws to every store produced by f.
func Factory(f ports.StoreFactory, mws ...Middleware) ports.StoreFactory {
	return func(token string) ports.ObjectStore {
		return Chain(f(token), mws...)
	}
}
