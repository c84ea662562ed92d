package domain

// Params are the input arguments of a single interpro2go invocation.
type Params struct {
	Workspace    string `json:"workspace" mapstructure:"workspace"`
	InputGenome  string `json:"input_genome" mapstructure:"input_genome"`
	OutputGenome string `json:"output_genome" mapstructure:"output_genome"`
}

// Validate checks that every required parameter is present.
func (p Params) Validate() error {
	if p.Workspace == "" {
		return MissingParam("workspace")
	}
	if p.InputGenome == "" {
		return MissingParam("input_genome")
	}
	if p.OutputGenome == "" {
		return MissingParam("output_genome")
	}
	return nil
}

// InputRef is the workspace/name reference of the input genome.
func (p Params) InputRef() string {
	return p.Workspace + "/" + p.InputGenome
}

// CallContext holds per-request caller data supplied by the hosting framework.
type CallContext struct {
	// Token authenticates calls to the object store. It is never logged.
	Token string

	// Provenance is the caller's provenance chain. It may be empty.
	Provenance []ProvenanceAction
}

// Result is returned to the caller after both objects are saved.
type Result struct {
	ReportName      string `json:"report_name"`
	ReportRef       string `json:"report_ref"`
	OutputGenomeRef string `json:"output_genome_ref"`
}
