package redis_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/interpro2go/pkg/adapters/redis"
	"github.com/aretw0/interpro2go/pkg/domain"
	"github.com/aretw0/interpro2go/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	store := redis.NewFromClient(client)
	ports.RunObjectStoreContract(t, store)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	infos, err := store.SaveObjects(ctx, domain.SaveObjectsParams{
		Workspace: "ws1",
		Objects:   []domain.ObjectSaveData{{Type: domain.TypeGenome, Data: map[string]any{}, Name: "g1"}},
	})
	require.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:ws:name:ws1"), "Expected workspace key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:ws:1:obj:1:v:1"), "Expected version key with custom prefix to exist")
	assert.Equal(t, "1/1/1", infos[0].Ref())
}

func TestRedisStore_GetByNumericRef(t *testing.T) {
	_, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithUser("bob"))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := store.SaveObjects(ctx, domain.SaveObjectsParams{
			Workspace: "ws1",
			Objects: []domain.ObjectSaveData{{
				Type: domain.TypeGenome,
				Data: map[string]any{"round": i},
				Name: "g1",
			}},
		})
		require.NoError(t, err)
	}

	objs, err := store.GetObjects(ctx, []string{"1/1/1"})
	require.NoError(t, err)
	assert.Equal(t, json.Number("0"), objs[0].Data["round"])
	assert.Equal(t, "bob", objs[0].Info.SavedBy)

	objs, err = store.GetObjects(ctx, []string{"ws1/g1"})
	require.NoError(t, err)
	assert.Equal(t, json.Number("1"), objs[0].Data["round"])
	assert.Equal(t, int64(2), objs[0].Info.Version)

	_, err = store.GetObjects(ctx, []string{"ws1/g1/3"})
	assert.ErrorIs(t, err, redis.ErrNotFound)
}
