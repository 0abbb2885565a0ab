package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<ExportData>
  <DocumentID>3fa85f64-5717-4562-b3fc-2c963f66afa6</DocumentID>
  <Version>1.0</Version>
  <TimeStamp>2024-01-01T12:00:00</TimeStamp>
  <SignedData>
    <Signature>abc</Signature>
  </SignedData>
  <Operation>
    <TransactionDate>2024-01-01</TransactionDate>
    <Amount>150.25</Amount>
    <Currency>USD</Currency>
    <OperationType>TRANSFER</OperationType>
  </Operation>
  <Member>
    <MemberName>First Bank</MemberName>
  </Member>
  <Member>
    <MemberName>Second Bank</MemberName>
  </Member>
  <Sender>
    <SenderName>ACME Ltd</SenderName>
    <SenderINN>123456789012</SenderINN>
  </Sender>
</ExportData>`

func TestParseKeepsRawBytes(t *testing.T) {
	doc, err := Parse([]byte(sampleXML))
	require.NoError(t, err)
	assert.Equal(t, []byte(sampleXML), doc.Raw())
	assert.Equal(t, "ExportData", doc.RootTag())
}

func TestParseRejectsMalformedInput(t *testing.T) {
	_, err := Parse([]byte("<ExportData><DocumentID>unclosed"))
	require.Error(t, err)

	_, err = Parse([]byte(""))
	require.Error(t, err)
}

func TestTextLookups(t *testing.T) {
	doc, err := Parse([]byte(sampleXML))
	require.NoError(t, err)

	assert.Equal(t, "3fa85f64-5717-4562-b3fc-2c963f66afa6", doc.Text("DocumentID"))
	assert.Equal(t, "abc", doc.Text("SignedData/Signature"))
	assert.Equal(t, "150.25", doc.Text("//Operation/Amount"))
	assert.Equal(t, "", doc.Text("NoSuchElement"))
}

func TestExtractIdentity(t *testing.T) {
	doc, err := Parse([]byte(sampleXML))
	require.NoError(t, err)

	id := ExtractIdentity(doc)
	assert.Equal(t, Identity{
		RootTag:    "ExportData",
		DocumentID: "3fa85f64-5717-4562-b3fc-2c963f66afa6",
		Version:    "1.0",
		Timestamp:  "2024-01-01T12:00:00",
		Signature:  "abc",
	}, id)
}

func TestExtractIdentityDefaultsToEmpty(t *testing.T) {
	doc, err := Parse([]byte(`<ExportData><Other>x</Other></ExportData>`))
	require.NoError(t, err)

	id := ExtractIdentity(doc)
	assert.Equal(t, "ExportData", id.RootTag)
	assert.Empty(t, id.DocumentID)
	assert.Empty(t, id.Version)
	assert.Empty(t, id.Timestamp)
	assert.Empty(t, id.Signature)
}

func TestSections(t *testing.T) {
	doc, err := Parse([]byte(sampleXML))
	require.NoError(t, err)

	op := doc.Operation()
	require.NotNil(t, op)
	assert.Equal(t, "2024-01-01", op.TransactionDate)
	assert.Equal(t, "150.25", op.Amount)
	assert.Equal(t, "USD", op.Currency)
	assert.Equal(t, "TRANSFER", op.OperationType)

	assert.Equal(t, []string{"First Bank", "Second Bank"}, doc.MemberNames())

	sender := doc.Sender()
	require.NotNil(t, sender)
	assert.Equal(t, "ACME Ltd", sender.Name)
	assert.Equal(t, "123456789012", sender.INN)
}

func TestMemberNamesAreTrimmed(t *testing.T) {
	doc, err := Parse([]byte(`<ExportData>
<Member>
	<MemberName>
		First Bank
	</MemberName>
</Member>
</ExportData>`))
	require.NoError(t, err)

	assert.Equal(t, []string{"First Bank"}, doc.MemberNames())
}

func TestSectionsAbsent(t *testing.T) {
	doc, err := Parse([]byte(`<ExportData><DocumentID>x</DocumentID></ExportData>`))
	require.NoError(t, err)

	assert.Nil(t, doc.Operation())
	assert.Nil(t, doc.Sender())
	assert.Empty(t, doc.MemberNames())
}
