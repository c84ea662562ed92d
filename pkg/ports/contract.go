package ports

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/interpro2go/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunObjectStoreContract runs a suite of tests to verify that an ObjectStore implementation
// adheres to the defined interface contract.
func RunObjectStoreContract(t *testing.T, store ObjectStore) {
	ctx := context.Background()

	genome := map[string]any{
		"id": "g1",
		"features": []any{
			map[string]any{"id": "f1", "function": "desc", "protein_translation": "MKV"},
		},
	}

	var first domain.ObjectInfo

	t.Run("Save and Get", func(t *testing.T) {
		infos, err := store.SaveObjects(ctx, domain.SaveObjectsParams{
			Workspace: "contract_ws",
			Objects: []domain.ObjectSaveData{{
				Type:       domain.TypeGenome,
				Data:       genome,
				Name:       "g1",
				Provenance: domain.WithInputObjects(nil, "contract_ws/src"),
			}},
		})
		require.NoError(t, err)
		require.Len(t, infos, 1)

		first = infos[0]
		assert.Equal(t, "g1", first.Name)
		assert.Equal(t, "contract_ws", first.Workspace)
		assert.Equal(t, int64(1), first.Version)
		assert.Contains(t, first.Type, domain.TypeGenome)

		objs, err := store.GetObjects(ctx, []string{"contract_ws/g1"})
		require.NoError(t, err)
		require.Len(t, objs, 1)
		assert.Equal(t, first.Ref(), objs[0].Info.Ref())

		features, err := domain.Genome(objs[0].Data).Features()
		require.NoError(t, err)
		assert.Equal(t, "MKV", features[0].ProteinTranslation)
	})

	t.Run("Save New Version", func(t *testing.T) {
		infos, err := store.SaveObjects(ctx, domain.SaveObjectsParams{
			Workspace: "contract_ws",
			Objects:   []domain.ObjectSaveData{{Type: domain.TypeGenome, Data: genome, Name: "g1"}},
		})
		require.NoError(t, err)
		require.Len(t, infos, 1)
		assert.Equal(t, first.ObjID, infos[0].ObjID)
		assert.Equal(t, int64(2), infos[0].Version)
	})

	t.Run("Save By Workspace ID", func(t *testing.T) {
		infos, err := store.SaveObjects(ctx, domain.SaveObjectsParams{
			ID: first.WsID,
			Objects: []domain.ObjectSaveData{{
				Type:   domain.TypeReport,
				Data:   domain.Report{TextMessage: "hi"},
				Name:   "report",
				Hidden: true,
			}},
		})
		require.NoError(t, err)
		require.Len(t, infos, 1)
		assert.Equal(t, first.WsID, infos[0].WsID)
		assert.NotEqual(t, first.ObjID, infos[0].ObjID)
	})

	t.Run("Get Missing Object", func(t *testing.T) {
		_, err := store.GetObjects(ctx, []string{"contract_ws/missing"})
		assert.Error(t, err)
	})

	t.Run("Save Into Unknown Workspace ID", func(t *testing.T) {
		_, err := store.SaveObjects(ctx, domain.SaveObjectsParams{
			ID:      first.WsID + 1000,
			Objects: []domain.ObjectSaveData{{Type: domain.TypeGenome, Data: genome, Name: "g1"}},
		})
		assert.Error(t, err)
	})

	t.Run("Preserves Large Integers", func(t *testing.T) {
		_, err := store.SaveObjects(ctx, domain.SaveObjectsParams{
			Workspace: "contract_ws",
			Objects: []domain.ObjectSaveData{{
				Type: domain.TypeGenome,
				Data: map[string]any{"id": "big", "dna_size": json.Number("9007199254740993"), "gc": 0.5},
				Name: "big",
			}},
		})
		require.NoError(t, err)

		objs, err := store.GetObjects(ctx, []string{"contract_ws/big"})
		require.NoError(t, err)
		require.Len(t, objs, 1)
		assert.Equal(t, json.Number("9007199254740993"), objs[0].Data["dna_size"])
		assert.Equal(t, json.Number("0.5"), objs[0].Data["gc"])
	})
}
