package domain

// Workspace type tags for the objects this method saves.
const (
	TypeGenome = "KBaseGenomes.Genome"
	TypeReport = "KBaseReport.Report"
)

const (
	// ServiceName and MethodName identify the method in provenance and RPC calls.
	ServiceName = "ElectronicAnnotationMethods"
	MethodName  = "interpro2go"

	// ReportPrefix prefixes every generated report object name.
	ReportPrefix = "interpro2go_report_"

	// ReportDescription describes the annotated genome in the report's created-objects list.
	ReportDescription = "Genome with annotation mapped using interpro2go"
)
