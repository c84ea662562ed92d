package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aretw0/interpro2go/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a workspace, object or version does not exist.
var ErrNotFound = errors.New("object not found")

// Store implements ports.ObjectStore on Redis. It is meant for local and
// development deployments where no Workspace service is available.
//
// Key layout (all under the configured prefix):
//
//	ws:seq                      workspace id counter
//	ws:name:<name>              workspace name -> id
//	ws:<id>:name                workspace id -> name
//	ws:<id>:obj:seq             object id counter
//	ws:<id>:objname:<name>      object name -> id
//	ws:<id>:obj:<objid>:ver     latest version number
//	ws:<id>:obj:<objid>:v:<n>   JSON record of version n
type Store struct {
	client *backend.Client
	prefix string
	user   string
}

type Option func(*Store)

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithUser sets the user name recorded as saved_by.
func WithUser(user string) Option {
	return func(s *Store) {
		s.user = user
	}
}

// NewFromClient creates a new Redis store from an existing client.
// The caller owns the client and closes it.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "interpro2go:",
		user:   "local",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// record is the stored form of one object version.
type record struct {
	Data       json.RawMessage           `json:"data"`
	Info       domain.ObjectInfo         `json:"info"`
	Provenance []domain.ProvenanceAction `json:"provenance,omitempty"`
	Hidden     domain.Flag               `json:"hidden"`
}

func (s *Store) wsKey(id int64, suffix string) string {
	return s.prefix + "ws:" + strconv.FormatInt(id, 10) + ":" + suffix
}

func (s *Store) objKey(wsID, objID int64, suffix string) string {
	return s.wsKey(wsID, "obj:"+strconv.FormatInt(objID, 10)+":"+suffix)
}

// GetObjects fetches the latest or requested version of each ref.
func (s *Store) GetObjects(ctx context.Context, refs []string) ([]domain.ObjectData, error) {
	out := make([]domain.ObjectData, 0, len(refs))
	for _, ref := range refs {
		addr, err := domain.ParseAddress(ref)
		if err != nil {
			return nil, err
		}
		rec, err := s.load(ctx, addr)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", ref, err)
		}

		var data map[string]any
		if err := domain.DecodeJSON(rec.Data, &data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal object %s: %w", ref, err)
		}
		out = append(out, domain.ObjectData{Data: data, Info: rec.Info})
	}
	return out, nil
}

// SaveObjects stores a new version of each object.
func (s *Store) SaveObjects(ctx context.Context, params domain.SaveObjectsParams) ([]domain.ObjectInfo, error) {
	wsID, wsName, err := s.resolveTarget(ctx, params)
	if err != nil {
		return nil, err
	}

	infos := make([]domain.ObjectInfo, 0, len(params.Objects))
	for _, spec := range params.Objects {
		if spec.Name == "" {
			return nil, fmt.Errorf("object name is required")
		}
		payload, err := json.Marshal(spec.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal object %s: %w", spec.Name, err)
		}

		objID, err := s.ensureID(ctx, s.wsKey(wsID, "objname:"+spec.Name), s.wsKey(wsID, "obj:seq"))
		if err != nil {
			return nil, fmt.Errorf("failed to assign object id: %w", err)
		}
		version, err := s.client.Incr(ctx, s.objKey(wsID, objID, "ver")).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to assign version: %w", err)
		}

		meta := spec.Meta
		if meta == nil {
			meta = map[string]string{}
		}
		rec := record{
			Data: payload,
			Info: domain.ObjectInfo{
				ObjID:     objID,
				Name:      spec.Name,
				Type:      domain.VersionedType(spec.Type),
				SaveDate:  time.Now().UTC().Format("2006-01-02T15:04:05-0700"),
				Version:   version,
				SavedBy:   s.user,
				WsID:      wsID,
				Workspace: wsName,
				Checksum:  domain.ContentChecksum(payload),
				Size:      int64(len(payload)),
				Meta:      meta,
			},
			Provenance: spec.Provenance,
			Hidden:     spec.Hidden,
		}
		raw, err := json.Marshal(rec)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal record: %w", err)
		}
		key := s.objKey(wsID, objID, "v:"+strconv.FormatInt(version, 10))
		if err := s.client.Set(ctx, key, raw, 0).Err(); err != nil {
			return nil, fmt.Errorf("failed to save to redis: %w", err)
		}
		infos = append(infos, rec.Info)
	}
	return infos, nil
}

func (s *Store) resolveTarget(ctx context.Context, params domain.SaveObjectsParams) (int64, string, error) {
	switch {
	case params.Workspace != "":
		id, err := s.ensureID(ctx, s.prefix+"ws:name:"+params.Workspace, s.prefix+"ws:seq")
		if err != nil {
			return 0, "", fmt.Errorf("failed to resolve workspace: %w", err)
		}
		// SetNX keeps the first writer's name if two savers race.
		if err := s.client.SetNX(ctx, s.wsKey(id, "name"), params.Workspace, 0).Err(); err != nil {
			return 0, "", fmt.Errorf("failed to resolve workspace: %w", err)
		}
		return id, params.Workspace, nil
	case params.ID != 0:
		name, err := s.client.Get(ctx, s.wsKey(params.ID, "name")).Result()
		if err != nil {
			if err == backend.Nil {
				return 0, "", fmt.Errorf("workspace %d: %w", params.ID, ErrNotFound)
			}
			return 0, "", fmt.Errorf("failed to get from redis: %w", err)
		}
		return params.ID, name, nil
	default:
		return 0, "", fmt.Errorf("either a workspace name or id is required")
	}
}

// ensureID returns the id stored at nameKey, allocating one from seqKey if absent.
func (s *Store) ensureID(ctx context.Context, nameKey, seqKey string) (int64, error) {
	if id, err := s.client.Get(ctx, nameKey).Int64(); err == nil {
		return id, nil
	} else if err != backend.Nil {
		return 0, err
	}

	id, err := s.client.Incr(ctx, seqKey).Result()
	if err != nil {
		return 0, err
	}
	ok, err := s.client.SetNX(ctx, nameKey, id, 0).Result()
	if err != nil {
		return 0, err
	}
	if ok {
		return id, nil
	}
	// Lost the race; use the winner's id.
	return s.client.Get(ctx, nameKey).Int64()
}

func (s *Store) resolveID(ctx context.Context, nameKey, value string) (int64, error) {
	id, err := s.client.Get(ctx, nameKey).Int64()
	if err == nil {
		return id, nil
	}
	if err != backend.Nil {
		return 0, err
	}
	if n, ok := domain.NumericID(value); ok {
		return n, nil
	}
	return 0, ErrNotFound
}

func (s *Store) load(ctx context.Context, addr domain.ObjectAddress) (*record, error) {
	wsID, err := s.resolveID(ctx, s.prefix+"ws:name:"+addr.Workspace, addr.Workspace)
	if err != nil {
		return nil, err
	}
	objID, err := s.resolveID(ctx, s.wsKey(wsID, "objname:"+addr.Object), addr.Object)
	if err != nil {
		return nil, err
	}

	version := addr.Version
	if version == 0 {
		version, err = s.client.Get(ctx, s.objKey(wsID, objID, "ver")).Int64()
		if err != nil {
			if err == backend.Nil {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}

	val, err := s.client.Get(ctx, s.objKey(wsID, objID, "v:"+strconv.FormatInt(version, 10))).Bytes()
	if err != nil {
		if err == backend.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var rec record
	if err := json.Unmarshal(val, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return &rec, nil
}
