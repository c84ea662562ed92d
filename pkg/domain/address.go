package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ObjectAddress is a parsed object reference of the form
// workspace/object[/version], where workspace and object are names or numeric ids.
type ObjectAddress struct {
	Workspace string
	Object    string
	// Version is 0 when the reference names the latest version.
	Version int64
}

// ParseAddress parses ref into its components.
func ParseAddress(ref string) (ObjectAddress, error) {
	parts := strings.Split(ref, "/")
	if len(parts) < 2 || len(parts) > 3 {
		return ObjectAddress{}, fmt.Errorf("invalid object reference %q", ref)
	}
	for _, p := range parts {
		if p == "" {
			return ObjectAddress{}, fmt.Errorf("invalid object reference %q", ref)
		}
	}

	addr := ObjectAddress{Workspace: parts[0], Object: parts[1]}
	if len(parts) == 3 {
		v, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil || v < 1 {
			return ObjectAddress{}, fmt.Errorf("invalid version in object reference %q", ref)
		}
		addr.Version = v
	}
	return addr, nil
}

// NumericID returns s as an id when it is a positive integer.
func NumericID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// VersionedType appends the default type version when typ carries none.
func VersionedType(typ string) string {
	if strings.Contains(typ, "-") {
		return typ
	}
	return typ + "-1.0"
}
