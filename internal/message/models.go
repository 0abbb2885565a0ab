package message

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Message is the per-document record. Its id is the document's declared
// DocumentID, taken verbatim after UUID validation; it is never generated
// here and never changes once assigned. Version and Timestamp stay nil for
// documents that failed validation.
type Message struct {
	ID        uuid.UUID
	VersionID *int64
	CreatedAt time.Time
	Timestamp *time.Time
	Signature string
}

// Operation is the at-most-one financial operation of a message.
type Operation struct {
	ID              int64
	MessageID       uuid.UUID
	TransactionDate time.Time
	Amount          decimal.Decimal
	Currency        string
	OperationType   string
}

// Member is one participant listed in a message.
type Member struct {
	ID         int64
	MessageID  uuid.UUID
	MemberName string
}

// Sender identifies the submitting organization of a message.
type Sender struct {
	ID        int64
	MessageID uuid.UUID
	Name      string
	INN       string
}

// MessageXML archives the original document: full content plus the blob
// store URL it was copied to. Written on the success path only.
type MessageXML struct {
	ID        int64
	MessageID uuid.UUID
	Content   string
	URL       string
}

// ValidationError is one persisted error row for a denied message.
type ValidationError struct {
	ID        int64
	MessageID uuid.UUID
	Code      string
	Message   string
}
