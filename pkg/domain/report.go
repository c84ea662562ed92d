package domain

// ObjectRef points to an object created by the method.
type ObjectRef struct {
	Ref         string `json:"ref"`
	Description string `json:"description"`
}

// Report summarises one invocation for the user.
type Report struct {
	ObjectsCreated []ObjectRef `json:"objects_created"`
	TextMessage    string      `json:"text_message"`
}

// NewGenomeReport builds the report for a newly saved genome.
func NewGenomeReport(genome ObjectInfo) Report {
	return Report{
		ObjectsCreated: []ObjectRef{{
			Ref:         genome.Ref(),
			Description: ReportDescription,
		}},
		TextMessage: "New Genome saved to: " + genome.NamedRef() + "\n",
	}
}
