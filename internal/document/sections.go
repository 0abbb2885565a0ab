package document

import "strings"

// Business sections extracted for persistence. Values stay strings here;
// type coercion (dates, amounts) happens at the persistence boundary where a
// malformed value becomes a per-entity persistence error.

// OperationSection is the at-most-one financial operation of a document.
type OperationSection struct {
	TransactionDate string
	Amount          string
	Currency        string
	OperationType   string
}

// SenderSection identifies the submitting organization.
type SenderSection struct {
	Name string
	INN  string
}

// Operation returns the operation section, or nil when the document has none.
func (d *Document) Operation() *OperationSection {
	node := d.find("//Operation")
	if node == nil {
		return nil
	}
	return &OperationSection{
		TransactionDate: d.Text("//Operation/TransactionDate"),
		Amount:          d.Text("//Operation/Amount"),
		Currency:        d.Text("//Operation/Currency"),
		OperationType:   d.Text("//Operation/OperationType"),
	}
}

// MemberNames returns the MemberName of every Member element, in document
// order. Members without a MemberName child yield empty strings.
func (d *Document) MemberNames() []string {
	nodes := d.findAll("//Member")
	if len(nodes) == 0 {
		return nil
	}
	names := make([]string, 0, len(nodes))
	for _, node := range nodes {
		name := ""
		if el := node.FindElement("MemberName"); el != nil {
			name = strings.TrimSpace(el.Text())
		}
		names = append(names, name)
	}
	return names
}

// Sender returns the sender section, or nil when the document has none.
func (d *Document) Sender() *SenderSection {
	node := d.find("//Sender")
	if node == nil {
		return nil
	}
	return &SenderSection{
		Name: d.Text("//Sender/SenderName"),
		INN:  d.Text("//Sender/SenderINN"),
	}
}
