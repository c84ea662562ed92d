package domain

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ObjectInfo describes a stored object version. The Workspace encodes it as a
// positional JSON array:
//
//	0 objid, 1 name, 2 type, 3 save_date, 4 version, 5 saved_by,
//	6 wsid, 7 workspace, 8 chsum, 9 size, 10 meta
type ObjectInfo struct {
	ObjID     int64
	Name      string
	Type      string
	SaveDate  string
	Version   int64
	SavedBy   string
	WsID      int64
	Workspace string
	Checksum  string
	Size      int64
	Meta      map[string]string
}

const objectInfoFields = 11

// Ref returns the absolute reference wsid/objid/version.
func (i ObjectInfo) Ref() string {
	return strconv.FormatInt(i.WsID, 10) + "/" + strconv.FormatInt(i.ObjID, 10) + "/" + strconv.FormatInt(i.Version, 10)
}

// NamedRef returns the human readable reference workspace/name/version.
func (i ObjectInfo) NamedRef() string {
	return i.Workspace + "/" + i.Name + "/" + strconv.FormatInt(i.Version, 10)
}

func (i ObjectInfo) MarshalJSON() ([]byte, error) {
	meta := i.Meta
	if meta == nil {
		meta = map[string]string{}
	}
	return json.Marshal([]any{
		i.ObjID, i.Name, i.Type, i.SaveDate, i.Version, i.SavedBy,
		i.WsID, i.Workspace, i.Checksum, i.Size, meta,
	})
}

func (i *ObjectInfo) UnmarshalJSON(data []byte) error {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("object info: %w", err)
	}
	if len(fields) != objectInfoFields {
		return fmt.Errorf("object info: expected %d fields, got %d", objectInfoFields, len(fields))
	}

	targets := []any{
		&i.ObjID, &i.Name, &i.Type, &i.SaveDate, &i.Version, &i.SavedBy,
		&i.WsID, &i.Workspace, &i.Checksum, &i.Size, &i.Meta,
	}
	for idx, target := range targets {
		if err := json.Unmarshal(fields[idx], target); err != nil {
			return fmt.Errorf("object info field %d: %w", idx, err)
		}
	}
	return nil
}

// DecodeJSON decodes a single JSON value into v. Numbers in untyped fields
// are kept as json.Number so that large integers round-trip unchanged.
func DecodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("invalid character after top-level value")
	}
	return nil
}

// ObjectData is a fetched object: its payload and its info tuple.
type ObjectData struct {
	Data map[string]any `json:"data"`
	Info ObjectInfo     `json:"info"`
}

// ObjectSaveData is a single object to be saved.
type ObjectSaveData struct {
	Type       string             `json:"type"`
	Data       any                `json:"data"`
	Name       string             `json:"name"`
	Provenance []ProvenanceAction `json:"provenance,omitempty"`
	Hidden     Flag               `json:"hidden,omitempty"`
	Meta       map[string]string  `json:"meta,omitempty"`
}

// SaveObjectsParams addresses the target workspace by name or by numeric id.
type SaveObjectsParams struct {
	Workspace string           `json:"workspace,omitempty"`
	ID        int64            `json:"id,omitempty"`
	Objects   []ObjectSaveData `json:"objects"`
}

// Target returns a printable form of the workspace addressed by p.
func (p SaveObjectsParams) Target() string {
	if p.Workspace != "" {
		return p.Workspace
	}
	return strconv.FormatInt(p.ID, 10)
}

// Flag is a boolean encoded as 0/1, as the Workspace expects.
type Flag bool

func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "1", "true":
		*f = true
	case "0", "false", "null":
		*f = false
	default:
		return fmt.Errorf("invalid flag value %s", data)
	}
	return nil
}

// ContentChecksum returns the hex md5 of a serialized object payload.
func ContentChecksum(payload []byte) string {
	sum := md5.Sum(payload)
	return hex.EncodeToString(sum[:])
}
