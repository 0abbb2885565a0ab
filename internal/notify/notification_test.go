package notify

import (
	"context"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valxml/internal/blob"
	"valxml/internal/validate"
)

const docID = "3fa85f64-5717-4562-b3fc-2c963f66afa6"

func fixedEmitter(store blob.Store) *Emitter {
	e := NewEmitter(store)
	e.now = func() time.Time {
		return time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	}
	return e
}

func parseObject(t *testing.T, store *blob.InMemory, key string) *etree.Document {
	t.Helper()
	data, ok := store.Object(key)
	require.True(t, ok, "object %s not written", key)
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))
	return doc
}

func findText(doc *etree.Document, path string) string {
	if el := doc.FindElement(path); el != nil {
		return el.Text()
	}
	return ""
}

func TestEmitAccepting(t *testing.T) {
	store := blob.NewInMemory()
	emitter := fixedEmitter(store)

	key, err := emitter.Emit(context.Background(), Notification{
		DocumentID: docID,
		Accepted:   true,
		Timestamp:  "2024-01-01T12:00:00",
		Version:    "1.0",
	})
	require.NoError(t, err)
	assert.Equal(t, "notifications/"+docID+".AcceptingNotification.xml", key)

	doc := parseObject(t, store, key)
	assert.Equal(t, "Accepted", findText(doc, "//Notification/Status"))
	assert.Equal(t, docID, findText(doc, "//Notification/DocumentID"))
	assert.Equal(t, "2024-01-01T12:00:00", findText(doc, "//Notification/TimeStamp"))
	assert.Equal(t, "BASE64_ENCODED_SIGNATURE", findText(doc, "//Notification/SignedData/Signature"))
	assert.Equal(t, "1.0", findText(doc, "//Notification/ProcessingDetails/Version"))
	assert.Equal(t, "2024-06-01T10:30:00", findText(doc, "//Notification/ProcessingDetails/ProcessingTime"))
	assert.Equal(t, "Document successfully validated and processed.", findText(doc, "//Notification/ProcessingDetails/Message"))
	assert.Nil(t, doc.FindElement("//Notification/Errors"))
}

func TestEmitDenied(t *testing.T) {
	store := blob.NewInMemory()
	emitter := fixedEmitter(store)

	key, err := emitter.Emit(context.Background(), Notification{
		DocumentID: docID,
		Version:    "1.0",
		Errors: []validate.Error{
			{Code: "E003", Message: "Missing TimeStamp"},
			{Code: "E005", Message: "Missing Signature in SignedData"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "notifications/"+docID+".DeniedNotification.xml", key)

	doc := parseObject(t, store, key)
	assert.Equal(t, "Rejected", findText(doc, "//Notification/Status"))
	assert.Equal(t, "1.0", findText(doc, "//Notification/Version"))
	assert.Nil(t, doc.FindElement("//Notification/ProcessingDetails"))

	errEls := doc.FindElements("//Notification/Errors/Error")
	require.Len(t, errEls, 2)
	assert.Equal(t, "E003", errEls[0].FindElement("Code").Text())
	assert.Equal(t, "Missing TimeStamp", errEls[0].FindElement("Message").Text())
	assert.Equal(t, "E005", errEls[1].FindElement("Code").Text())
}

func TestEmitDeniedWithoutErrorsOmitsErrorsBlock(t *testing.T) {
	store := blob.NewInMemory()
	emitter := fixedEmitter(store)

	key, err := emitter.Emit(context.Background(), Notification{DocumentID: docID, Version: "1.0"})
	require.NoError(t, err)

	doc := parseObject(t, store, key)
	assert.Nil(t, doc.FindElement("//Notification/Errors"))
}

func TestEmitStampsCurrentTimeWhenDeclaredMissing(t *testing.T) {
	store := blob.NewInMemory()
	emitter := fixedEmitter(store)

	key, err := emitter.Emit(context.Background(), Notification{DocumentID: docID, Accepted: true, Version: "1.0"})
	require.NoError(t, err)

	doc := parseObject(t, store, key)
	assert.Equal(t, "2024-06-01T10:30:00", findText(doc, "//Notification/TimeStamp"))
}

func TestEmitFailsWhenWriteFails(t *testing.T) {
	store := blob.NewInMemory()
	store.FailPuts = true
	emitter := fixedEmitter(store)

	_, err := emitter.Emit(context.Background(), Notification{DocumentID: docID, Version: "1.0"})
	require.ErrorIs(t, err, blob.ErrPutFailed)
}
