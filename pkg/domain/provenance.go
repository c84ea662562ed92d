package domain

// ProvenanceAction is one step of an object's provenance chain.
type ProvenanceAction struct {
	Service        string   `json:"service,omitempty"`
	Method         string   `json:"method,omitempty"`
	MethodParams   []any    `json:"method_params,omitempty"`
	InputWsObjects []string `json:"input_ws_objects,omitempty"`
	Description    string   `json:"description,omitempty"`
	Time           string   `json:"time,omitempty"`
}

// WithInputObjects returns a copy of prov whose first action lists refs as its inputs.
// An empty chain gets a single action. prov itself is not modified.
func WithInputObjects(prov []ProvenanceAction, refs ...string) []ProvenanceAction {
	out := make([]ProvenanceAction, len(prov))
	copy(out, prov)
	if len(out) == 0 {
		out = append(out, ProvenanceAction{})
	}
	out[0].InputWsObjects = append([]string(nil), refs...)
	return out
}
