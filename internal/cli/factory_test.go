package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/interpro2go/internal/config"
	"github.com/aretw0/interpro2go/internal/logging"
	"github.com/aretw0/interpro2go/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const genomeJSON = `{
  "id": "g1",
  "features": [
    {"id": "f1", "function": "desc", "protein_translation": "MKV"},
    {"id": "f2", "function": "", "protein_translation": "MAAA"}
  ]
}`

func writeGenome(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "genome.json")
	require.NoError(t, os.WriteFile(path, []byte(genomeJSON), 0o644))
	return path
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	stderr = &buf
	t.Cleanup(func() { stderr = os.Stderr })

	cfg := config.Default()
	cfg.LogFormat = "json"

	logger, err := NewLogger(cfg, "debug")
	require.NoError(t, err)
	logger.Debug("hello", "error", "boom")
	assert.Contains(t, buf.String(), `"err":"boom"`)

	_, err = NewLogger(cfg, "loud")
	assert.Error(t, err)
}

func TestBuild_MemoryStore(t *testing.T) {
	cfg := config.Default()
	cfg.Store = config.StoreMemory
	cfg.Scratch = filepath.Join(t.TempDir(), "scratch")

	rt, err := Build(cfg, logging.NewNop(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { rt.Close() })

	require.NotNil(t, rt.Service)
	require.NotNil(t, rt.Store)
	assert.DirExists(t, cfg.Scratch)
	assert.Equal(t, cfg.Scratch, rt.Service.Scratch())

	info, err := Seed(context.Background(), rt.Store, "ws", "g1", writeGenome(t))
	require.NoError(t, err)
	assert.Equal(t, "ws/g1/1", info.NamedRef())
}

func TestBuild_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := config.Default()
	cfg.Store = config.StoreRedis
	cfg.Redis.Addr = mr.Addr()
	cfg.Scratch = t.TempDir()

	rt, err := Build(cfg, logging.NewNop(), nil)
	require.NoError(t, err)

	_, err = Seed(context.Background(), rt.Store, "ws", "g1", writeGenome(t))
	require.NoError(t, err)

	objs, err := rt.Store.GetObjects(context.Background(), []string{"ws/g1"})
	require.NoError(t, err)
	features, err := domain.Genome(objs[0].Data).Features()
	require.NoError(t, err)
	assert.Len(t, features, 2)

	assert.NoError(t, rt.Close())
}

func TestBuild_WorkspaceStore(t *testing.T) {
	cfg := config.Default()
	cfg.WorkspaceURL = "http://localhost:7058"
	cfg.Scratch = t.TempDir()

	rt, err := Build(cfg, logging.NewNop(), nil)
	require.NoError(t, err)
	assert.Nil(t, rt.Store)
	assert.NoError(t, rt.Close())
}

func TestLoadGenome_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("[1,2"), 0o644))

	_, err := LoadGenome(path)
	assert.ErrorContains(t, err, "failed to parse genome")

	_, err = LoadGenome(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read genome")
}
