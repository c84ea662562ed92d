package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/aretw0/interpro2go/pkg/domain"
)

// Store implements ports.ObjectStore in memory.
// It mimics the Workspace's id and version assignment closely enough for local runs and tests.
// Safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	workspaces map[string]*workspace
	byID       map[int64]*workspace
	nextWsID   int64
	user       string
	now        func() time.Time
}

type workspace struct {
	id        int64
	name      string
	objects   map[string]*object
	byID      map[int64]*object
	nextObjID int64
}

type object struct {
	id       int64
	name     string
	versions []storedVersion
}

type storedVersion struct {
	payload    []byte
	info       domain.ObjectInfo
	provenance []domain.ProvenanceAction
	hidden     bool
}

// Option configures the Store.
type Option func(*Store)

// WithUser sets the user name recorded as saved_by.
func WithUser(user string) Option {
	return func(s *Store) {
		s.user = user
	}
}

// WithClock overrides the time source used for save dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a new in-memory store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		workspaces: make(map[string]*workspace),
		byID:       make(map[int64]*workspace),
		user:       "local",
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateWorkspace registers an empty workspace and returns its id.
// Saving by name creates the workspace implicitly; this is only needed to control ids.
func (s *Store) CreateWorkspace(name string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workspaceByName(name).id
}

// GetObjects fetches the latest or requested version of each ref.
func (s *Store) GetObjects(ctx context.Context, refs []string) ([]domain.ObjectData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ObjectData, 0, len(refs))
	for _, ref := range refs {
		addr, err := domain.ParseAddress(ref)
		if err != nil {
			return nil, err
		}
		v, err := s.lookup(addr)
		if err != nil {
			return nil, err
		}

		// Decode on read so callers can't mutate stored data.
		var data map[string]any
		if err := domain.DecodeJSON(v.payload, &data); err != nil {
			return nil, fmt.Errorf("failed to decode object %s: %w", ref, err)
		}
		out = append(out, domain.ObjectData{Data: data, Info: v.info})
	}
	return out, nil
}

// SaveObjects stores a new version of each object.
func (s *Store) SaveObjects(ctx context.Context, params domain.SaveObjectsParams) ([]domain.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ws *workspace
	switch {
	case params.Workspace != "":
		ws = s.workspaceByName(params.Workspace)
	case params.ID != 0:
		var ok bool
		ws, ok = s.byID[params.ID]
		if !ok {
			return nil, fmt.Errorf("no workspace with id %d exists", params.ID)
		}
	default:
		return nil, fmt.Errorf("either a workspace name or id is required")
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

		obj, ok := ws.objects[spec.Name]
		if !ok {
			ws.nextObjID++
			obj = &object{id: ws.nextObjID, name: spec.Name}
			ws.objects[spec.Name] = obj
			ws.byID[obj.id] = obj
		}

		info := domain.ObjectInfo{
			ObjID:     obj.id,
			Name:      obj.name,
			Type:      domain.VersionedType(spec.Type),
			SaveDate:  s.now().UTC().Format("2006-01-02T15:04:05-0700"),
			Version:   int64(len(obj.versions) + 1),
			SavedBy:   s.user,
			WsID:      ws.id,
			Workspace: ws.name,
			Checksum:  domain.ContentChecksum(payload),
			Size:      int64(len(payload)),
			Meta:      copyMeta(spec.Meta),
		}
		obj.versions = append(obj.versions, storedVersion{
			payload:    payload,
			info:       info,
			provenance: spec.Provenance,
			hidden:     bool(spec.Hidden),
		})
		infos = append(infos, info)
	}
	return infos, nil
}

// Provenance returns the provenance recorded for ref.
func (s *Store) Provenance(ref string) ([]domain.ProvenanceAction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	addr, err := domain.ParseAddress(ref)
	if err != nil {
		return nil, err
	}
	v, err := s.lookup(addr)
	if err != nil {
		return nil, err
	}
	return v.provenance, nil
}

// Hidden reports whether ref was saved as a hidden object.
func (s *Store) Hidden(ref string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	addr, err := domain.ParseAddress(ref)
	if err != nil {
		return false, err
	}
	v, err := s.lookup(addr)
	if err != nil {
		return false, err
	}
	return v.hidden, nil
}

// workspaceByName returns the named workspace, creating it if needed. Callers hold s.mu.
func (s *Store) workspaceByName(name string) *workspace {
	if ws, ok := s.workspaces[name]; ok {
		return ws
	}
	s.nextWsID++
	ws := &workspace{
		id:      s.nextWsID,
		name:    name,
		objects: make(map[string]*object),
		byID:    make(map[int64]*object),
	}
	s.workspaces[name] = ws
	s.byID[ws.id] = ws
	return ws
}

func (s *Store) lookup(addr domain.ObjectAddress) (*storedVersion, error) {
	ws, ok := s.workspaces[addr.Workspace]
	if !ok {
		if id, isID := domain.NumericID(addr.Workspace); isID {
			ws, ok = s.byID[id]
		}
	}
	if !ok {
		return nil, fmt.Errorf("no workspace %s exists", addr.Workspace)
	}

	obj, ok := ws.objects[addr.Object]
	if !ok {
		if id, isID := domain.NumericID(addr.Object); isID {
			obj, ok = ws.byID[id]
		}
	}
	if !ok {
		return nil, fmt.Errorf("no object %s exists in workspace %s", addr.Object, ws.name)
	}

	if addr.Version == 0 {
		return &obj.versions[len(obj.versions)-1], nil
	}
	if addr.Version > int64(len(obj.versions)) {
		return nil, fmt.Errorf("no version %d of object %s exists", addr.Version, obj.name)
	}
	return &obj.versions[addr.Version-1], nil
}

func copyMeta(meta map[string]string) map[string]string {
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}
