package document

// Identity holds the document's self-declared identification fields. Missing
// elements come back as empty strings; drawing validation conclusions from
// absence is the engine's job, not an extraction failure.
type Identity struct {
	RootTag    string
	DocumentID string
	Version    string
	Timestamp  string
	Signature  string
}

// ExtractIdentity pulls the identity fields from a parsed document.
func ExtractIdentity(doc *Document) Identity {
	return Identity{
		RootTag:    doc.RootTag(),
		DocumentID: doc.Text("DocumentID"),
		Version:    doc.Text("Version"),
		Timestamp:  doc.Text("TimeStamp"),
		Signature:  doc.Text("SignedData/Signature"),
	}
}
