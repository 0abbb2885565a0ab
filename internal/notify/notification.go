package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/beevik/etree"

	"valxml/internal/blob"
	"valxml/internal/validate"
)

// Outcome names the two terminal notification kinds; they appear verbatim in
// the object key, so consumers key on them.
const (
	OutcomeAccepting = "Accepting"
	OutcomeDenied    = "Denied"
)

const (
	statusAccepted = "Accepted"
	statusRejected = "Rejected"

	signaturePlaceholder = "BASE64_ENCODED_SIGNATURE"
	successMessage       = "Document successfully validated and processed."
	timeLayout           = "2006-01-02T15:04:05"
)

// Notification describes one acceptance or rejection artifact.
type Notification struct {
	DocumentID string
	Accepted   bool
	// Timestamp is the document's declared timestamp text; empty means the
	// emitter stamps the current time.
	Timestamp string
	Version   string
	Errors    []validate.Error
}

// Outcome returns the artifact kind used in the object key.
func (n Notification) Outcome() string {
	if n.Accepted {
		return OutcomeAccepting
	}
	return OutcomeDenied
}

// Emitter renders notification documents and writes them to blob storage.
type Emitter struct {
	store blob.Store
	now   func() time.Time
}

func NewEmitter(store blob.Store) *Emitter {
	return &Emitter{store: store, now: time.Now}
}

// Emit writes the notification to
// notifications/{documentId}.{Accepting|Denied}Notification.xml and returns
// the object key.
func (e *Emitter) Emit(ctx context.Context, n Notification) (string, error) {
	data, err := e.render(n)
	if err != nil {
		return "", fmt.Errorf("render notification for %s: %w", n.DocumentID, err)
	}

	key := fmt.Sprintf("notifications/%s.%sNotification.xml", n.DocumentID, n.Outcome())
	if err := e.store.EnsureBucket(ctx); err != nil {
		return "", fmt.Errorf("emit notification for %s: %w", n.DocumentID, err)
	}
	if err := e.store.Put(ctx, key, data, "application/xml"); err != nil {
		return "", fmt.Errorf("emit notification for %s: %w", n.DocumentID, err)
	}
	return key, nil
}

func (e *Emitter) render(n Notification) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Notification")

	status := statusRejected
	if n.Accepted {
		status = statusAccepted
	}
	root.CreateElement("Status").SetText(status)
	root.CreateElement("DocumentID").SetText(n.DocumentID)

	timestamp := n.Timestamp
	if timestamp == "" {
		timestamp = e.now().UTC().Format(timeLayout)
	}
	root.CreateElement("TimeStamp").SetText(timestamp)

	signed := root.CreateElement("SignedData")
	signed.CreateElement("Signature").SetText(signaturePlaceholder)

	if n.Accepted {
		details := root.CreateElement("ProcessingDetails")
		details.CreateElement("Version").SetText(n.Version)
		details.CreateElement("ProcessingTime").SetText(e.now().UTC().Format(timeLayout))
		details.CreateElement("Message").SetText(successMessage)
	} else {
		root.CreateElement("Version").SetText(n.Version)
		if len(n.Errors) > 0 {
			errs := root.CreateElement("Errors")
			for _, verr := range n.Errors {
				el := errs.CreateElement("Error")
				el.CreateElement("Code").SetText(verr.Code)
				el.CreateElement("Message").SetText(verr.Message)
			}
		}
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}
