package catalog

// Configuration entities scoping validation rules to a schema generation.
// They are administered outside this service; this core only reads them.

// MessageVersion is a named schema generation. Incoming documents declare a
// version code that is matched against VersionCode.
type MessageVersion struct {
	ID          int64
	VersionCode string
	XMLSchema   string
}

// DocumentField describes one addressable field of a document within a
// version: where it lives (XPath) and how it is named in error messages.
type DocumentField struct {
	ID          int64
	Field       string
	VersionID   int64
	Context     string
	XPath       string
	Tag         string
	Description string
}

// Rule binds a DocumentField to the version it applies to. Only active rules
// whose version matches the resolved message version are evaluated.
type Rule struct {
	ID        int64
	Field     DocumentField
	VersionID int64
	IsActive  bool

	Requirements []RequirementRule
	Formats      []DataFormatRule
}

// RequirementRule makes the rule's field mandatory, optionally gated by a
// predicate over another field. ErrorTemplate may contain the
// {DocumentField} placeholder.
type RequirementRule struct {
	ID            int64
	RuleID        int64
	Predicate     *Predicate
	IsRequired    bool
	ErrorTemplate string
}

// Data format kinds understood by the validation engine.
const (
	FormatDate    = "date"
	FormatDecimal = "decimal"
)

// DataFormatRule constrains the shape of the rule's field value, optionally
// gated by a predicate. Length, when set, adds an exact-length assertion.
type DataFormatRule struct {
	ID            int64
	RuleID        int64
	Predicate     *Predicate
	Format        string
	Length        *int
	ErrorTemplate string
}
