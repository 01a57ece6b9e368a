package models

// DocType identifies one of the delivery documents produced by a
// generation run
type DocType string

const (
	DocCharter  DocType = "charter"
	DocSRS      DocType = "srs"
	DocBacklog  DocType = "backlog"
	DocTestPlan DocType = "test-plan"
)

// DeliverableManifest returns the fixed set of documents every full
// generation run produces
func DeliverableManifest() []DocType {
	return []DocType{DocCharter, DocSRS, DocBacklog, DocTestPlan}
}

// Filename returns the artifact filename for a document type
func (d DocType) Filename() string {
	return string(d) + ".md"
}

// Title returns the human-readable document title
func (d DocType) Title() string {
	switch d {
	case DocCharter:
		return "Project Charter"
	case DocSRS:
		return "Software Requirements Specification"
	case DocBacklog:
		return "Product Backlog"
	case DocTestPlan:
		return "Test Plan"
	default:
		return string(d)
	}
}

// Artifact is one generated document
type Artifact struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}
