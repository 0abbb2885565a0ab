package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"valxml/internal/blob"
	"valxml/internal/document"
	"valxml/internal/lock"
	"valxml/internal/message"
	"valxml/internal/notify"
	"valxml/internal/pipeline/metrics"
	"valxml/internal/validate"
)

// State names the stages one processing attempt moves through. The Result
// carries the last stage reached so operators can see where an attempt died.
type State string

const (
	StateReceived            State = "Received"
	StateParsed              State = "Parsed"
	StateIdentityExtracted   State = "IdentityExtracted"
	StateRulesEvaluated      State = "RulesEvaluated"
	StatePersisted           State = "Persisted"
	StateNotificationEmitted State = "NotificationEmitted"
)

// Status is the terminal outcome of one attempt.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

const transactionDateLayout = "2006-01-02"

// Result describes one completed processing attempt.
type Result struct {
	DocumentID       string
	Version          string
	State            State
	Status           Status
	Errors           []validate.Error
	NotificationPath string
}

// Processor sequences one document through parse, validation, persistence,
// and notification. It never lets a fault escape: every failure mode becomes
// a terminal failed Result.
type Processor struct {
	engine  *validate.Engine
	store   message.Store
	blobs   blob.Store
	emitter *notify.Emitter
	locker  lock.Locker
	metrics *metrics.Metrics
	log     *log.Logger
}

func New(engine *validate.Engine, store message.Store, blobs blob.Store, emitter *notify.Emitter, locker lock.Locker, m *metrics.Metrics, logger *log.Logger) *Processor {
	return &Processor{
		engine:  engine,
		store:   store,
		blobs:   blobs,
		emitter: emitter,
		locker:  locker,
		metrics: m,
		log:     logger,
	}
}

// ProcessFile reads a dropped file and processes its contents. A file that
// cannot be read is indistinguishable from one that cannot be parsed.
func (p *Processor) ProcessFile(ctx context.Context, path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{
			State:  StateReceived,
			Status: StatusFailed,
			Errors: []validate.Error{validate.Newf(validate.CodeParseFailure, "XML parsing error: %v", err)},
		}
	}
	return p.Process(ctx, data)
}

// Process runs the full state machine for one document.
func (p *Processor) Process(ctx context.Context, data []byte) (res Result) {
	start := time.Now()
	res = Result{State: StateReceived, Status: StatusFailed}
	defer func() {
		if r := recover(); r != nil {
			res.Status = StatusFailed
			res.Errors = append(res.Errors, validate.Newf(validate.CodeInternal, "Unexpected error: %v", r))
		}
		p.record(&res, time.Since(start))
	}()

	doc, err := document.Parse(data)
	if err != nil {
		res.Errors = []validate.Error{validate.Newf(validate.CodeParseFailure, "XML parsing error: %v", err)}
		return res
	}
	res.State = StateParsed

	identity := document.ExtractIdentity(doc)
	res.DocumentID = identity.DocumentID
	res.Version = identity.Version
	res.State = StateIdentityExtracted

	outcome, err := p.engine.Evaluate(ctx, doc)
	if err != nil {
		res.Errors = append(res.Errors, validate.Newf(validate.CodeInternal, "Unexpected error: %v", err))
		return res
	}
	res.State = StateRulesEvaluated
	res.Errors = outcome.Errors

	// A missing or invalid document id terminates before any persistence or
	// notification; there is no message row to attach anything to.
	if outcome.Failed() && isStructural(outcome.Errors[0].Code) {
		return res
	}

	// Engine rejected non-UUID ids above.
	docUUID, err := uuid.Parse(identity.DocumentID)
	if err != nil {
		res.Errors = append(res.Errors, validate.Newf(validate.CodeInternal, "Unexpected error: %v", err))
		return res
	}

	// Attempts for the same document id must not interleave their writes.
	release, err := p.locker.Acquire(ctx, identity.DocumentID)
	if err != nil {
		res.Errors = append(res.Errors, validate.Newf(validate.CodeInternal, "Unexpected error: %v", err))
		return res
	}
	defer release()

	if outcome.Failed() {
		return p.deny(ctx, res, docUUID, identity)
	}
	return p.accept(ctx, res, docUUID, identity, outcome, doc)
}

// deny persists the message shell plus one error row per accumulated error,
// then emits the Denied notification. Version and timestamp stay null: the
// document never validated against a schema generation.
func (p *Processor) deny(ctx context.Context, res Result, docUUID uuid.UUID, identity document.Identity) Result {
	msg := &message.Message{ID: docUUID, Signature: identity.Signature}
	if _, err := p.store.GetOrCreate(ctx, msg); err != nil {
		res.Errors = []validate.Error{validate.Newf(validate.CodeMessageSaveFailed, "Failed to save message: %v", err)}
		return res
	}
	if err := p.store.AppendErrors(ctx, docUUID, res.Errors); err != nil {
		res.Errors = []validate.Error{validate.Newf(validate.CodeMessageSaveFailed, "Failed to save message: %v", err)}
		return res
	}
	res.State = StatePersisted

	res.NotificationPath = p.emit(ctx, notify.Notification{
		DocumentID: identity.DocumentID,
		Timestamp:  identity.Timestamp,
		Version:    identity.Version,
		Errors:     res.Errors,
	})
	if res.NotificationPath != "" {
		res.State = StateNotificationEmitted
	}
	return res
}

// accept persists the full entity set. Each sub-entity write is fault
// isolated: a failure is recorded and the remaining writes still run, and
// nothing already written is rolled back. Any recorded failure downgrades the
// attempt to Denied even though earlier writes are committed.
func (p *Processor) accept(ctx context.Context, res Result, docUUID uuid.UUID, identity document.Identity, outcome validate.Outcome, doc *document.Document) Result {
	versionID := outcome.Version.ID
	msg := &message.Message{
		ID:        docUUID,
		VersionID: &versionID,
		Timestamp: outcome.Timestamp,
		Signature: identity.Signature,
	}
	if err := p.store.Upsert(ctx, msg); err != nil {
		res.Errors = []validate.Error{validate.Newf(validate.CodeMessageInvalid, "Invalid data for Message: %v", err)}
		return res
	}

	var perrs []validate.Error
	if op := doc.Operation(); op != nil {
		if err := p.persistOperation(ctx, docUUID, op); err != nil {
			perrs = append(perrs, validate.Newf(validate.CodeOperationSaveFailed, "Failed to save Operation: %v", err))
		}
	}
	for _, name := range doc.MemberNames() {
		if err := p.store.CreateMember(ctx, &message.Member{MessageID: docUUID, MemberName: name}); err != nil {
			perrs = append(perrs, validate.Newf(validate.CodeMemberSaveFailed, "Failed to save Members: %v", err))
		}
	}
	if sender := doc.Sender(); sender != nil {
		if err := p.store.CreateSender(ctx, &message.Sender{MessageID: docUUID, Name: sender.Name, INN: sender.INN}); err != nil {
			perrs = append(perrs, validate.Newf(validate.CodeSenderSaveFailed, "Failed to save Sender: %v", err))
		}
	}
	if err := p.archive(ctx, docUUID, doc); err != nil {
		perrs = append(perrs, validate.Newf(validate.CodeArchiveFailed, "Failed to save XML to storage: %v", err))
	}
	res.State = StatePersisted

	if len(perrs) > 0 {
		res.Errors = perrs
		if err := p.store.AppendErrors(ctx, docUUID, perrs); err != nil {
			p.log.Printf("persist error rows for %s: %v", docUUID, err)
		}
		res.NotificationPath = p.emit(ctx, notify.Notification{
			DocumentID: identity.DocumentID,
			Timestamp:  identity.Timestamp,
			Version:    identity.Version,
			Errors:     perrs,
		})
		if res.NotificationPath != "" {
			res.State = StateNotificationEmitted
		}
		return res
	}

	res.Status = StatusSuccess
	res.NotificationPath = p.emit(ctx, notify.Notification{
		DocumentID: identity.DocumentID,
		Accepted:   true,
		Timestamp:  identity.Timestamp,
		Version:    outcome.Version.VersionCode,
	})
	if res.NotificationPath != "" {
		res.State = StateNotificationEmitted
	}
	return res
}

func (p *Processor) persistOperation(ctx context.Context, docUUID uuid.UUID, op *document.OperationSection) error {
	txDate, err := time.ParseInLocation(transactionDateLayout, op.TransactionDate, time.UTC)
	if err != nil {
		return fmt.Errorf("transaction date %q: %w", op.TransactionDate, err)
	}
	amount, err := decimal.NewFromString(op.Amount)
	if err != nil {
		return fmt.Errorf("amount %q: %w", op.Amount, err)
	}
	return p.store.CreateOperation(ctx, &message.Operation{
		MessageID:       docUUID,
		TransactionDate: txDate,
		Amount:          amount,
		Currency:        op.Currency,
		OperationType:   op.OperationType,
	})
}

// archive copies the original bytes to blob storage and records the
// MessageXML row pointing at them.
func (p *Processor) archive(ctx context.Context, docUUID uuid.UUID, doc *document.Document) error {
	key := fmt.Sprintf("original/%s.xml", docUUID)
	if err := p.blobs.EnsureBucket(ctx); err != nil {
		return err
	}
	if err := p.blobs.Put(ctx, key, doc.Raw(), "application/xml"); err != nil {
		return err
	}
	return p.store.CreateXML(ctx, &message.MessageXML{
		MessageID: docUUID,
		Content:   string(doc.Raw()),
		URL:       p.blobs.URL(key),
	})
}

// emit writes the notification; a failed write is logged and leaves the path
// empty without changing the attempt's outcome.
func (p *Processor) emit(ctx context.Context, n notify.Notification) string {
	path, err := p.emitter.Emit(ctx, n)
	if err != nil {
		p.log.Printf("emit notification for %s: %v", n.DocumentID, err)
		return ""
	}
	return path
}

func (p *Processor) record(res *Result, elapsed time.Duration) {
	p.metrics.RecordOutcome(string(res.Status))
	for _, e := range res.Errors {
		p.metrics.RecordError(e.Code)
	}
	p.metrics.ObserveDuration(elapsed.Seconds())
}

func isStructural(code string) bool {
	return code == validate.CodeMissingDocumentID || code == validate.CodeInvalidDocumentID
}
