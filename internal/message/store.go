package message

import (
	"context"

	"github.com/google/uuid"

	"valxml/internal/validate"
)

// Store is the entity-persistence port. Each write stands alone: the pipeline
// deliberately issues them one by one and records per-entity failures instead
// of wrapping a document in a transaction, so a failed sub-entity write never
// undoes its siblings.
type Store interface {
	// GetOrCreate inserts the message when its id is unknown and reports
	// whether a row was created. An existing row is left untouched.
	GetOrCreate(ctx context.Context, m *Message) (created bool, err error)

	// Upsert inserts the message or overwrites version, timestamp, and
	// signature of the existing row with the same id.
	Upsert(ctx context.Context, m *Message) error

	CreateOperation(ctx context.Context, op *Operation) error
	CreateMember(ctx context.Context, member *Member) error
	CreateSender(ctx context.Context, sender *Sender) error
	CreateXML(ctx context.Context, xml *MessageXML) error

	// AppendErrors records one row per accumulated error for the message.
	AppendErrors(ctx context.Context, messageID uuid.UUID, errs []validate.Error) error
}
