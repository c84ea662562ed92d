package ports

import (
	"context"

	"github.com/aretw0/interpro2go/pkg/domain"
)

// ObjectStore is the narrow view of the Workspace used by the annotation method.
// Versioning, ids and naming conflicts are entirely the store's responsibility.
type ObjectStore interface {
	// GetObjects fetches the objects addressed by refs, in order.
	GetObjects(ctx context.Context, refs []string) ([]domain.ObjectData, error)

	// SaveObjects saves new object versions and returns one info tuple per object.
	SaveObjects(ctx context.Context, params domain.SaveObjectsParams) ([]domain.ObjectInfo, error)
}

// StoreFactory returns an ObjectStore acting on behalf of the given token.
type StoreFactory func(token string) ObjectStore

// StaticStore returns a StoreFactory that ignores the token.
func StaticStore(store ObjectStore) StoreFactory {
	return func(string) ObjectStore {
		return store
	}
}
