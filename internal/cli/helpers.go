package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/interpro2go/pkg/domain"
	"github.com/aretw0/interpro2go/pkg/ports"
)

// stderr receives log output. Tests replace it.
var stderr io.Writer = os.Stderr

// LoadGenome reads a Genome object from a JSON file.
func LoadGenome(path string) (domain.Genome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read genome: %w", err)
	}
	var genome domain.Genome
	if err := domain.DecodeJSON(data, &genome); err != nil {
		return nil, fmt.Errorf("failed to parse genome %s: %w", path, err)
	}
	return genome, nil
}

// Seed saves the genome at path into store as workspace/name, so that a local
// store can be annotated without a Workspace service.
func Seed(ctx context.Context, store ports.ObjectStore, workspace, name, path string) (domain.ObjectInfo, error) {
	genome, err := LoadGenome(path)
	if err != nil {
		return domain.ObjectInfo{}, err
	}
	infos, err := store.SaveObjects(ctx, domain.SaveObjectsParams{
		Workspace: workspace,
		Objects: []domain.ObjectSaveData{{
			Type: domain.TypeGenome,
			Data: map[string]any(genome),
			Name: name,
		}},
	})
	if err != nil {
		return domain.ObjectInfo{}, fmt.Errorf("failed to seed %s/%s: %w", workspace, name, err)
	}
	if len(infos) != 1 {
		return domain.ObjectInfo{}, fmt.Errorf("failed to seed %s/%s: expected 1 object info, got %d", workspace, name, len(infos))
	}
	return infos[0], nil
}
