package validate

import "fmt"

// Error is one accumulated validation or processing failure. Errors are
// ordinary values carried in result lists, persisted per message, and echoed
// into Denied notifications; they are never Go errors.
type Error struct {
	Code    string
	Message string
}

// Error codes, grouped by the stage that produces them. E004 and E005 are
// emitted by two unrelated stages: identity checking (timestamp format,
// missing signature) and catalog-rule evaluation (timestamp format, amount
// precision). External consumers key on the codes, so both meanings are kept;
// disambiguate by stage, not by code.
const (
	// Structural: abort immediately, nothing is persisted.
	CodeMissingDocumentID = "E000"
	CodeInvalidDocumentID = "E007"
	CodeParseFailure      = "E009"

	// Identity-level: accumulated before version resolution.
	CodeWrongRootTag     = "E002"
	CodeMissingTimeStamp = "E003"
	CodeBadTimeStamp     = "E004"
	CodeMissingSignature = "E005"
	CodeMissingVersion   = "E017"

	// Version resolution.
	CodeUnsupportedVersion = "E001"

	// Rule-driven and cross-field.
	CodeRequiredFieldMissing = "E008"
	CodeCurrencyRequired     = "E006"
	CodeRuleEvaluationFault  = "E015"

	// Persistence, caught per entity.
	CodeMessageSaveFailed   = "E010"
	CodeMessageInvalid      = "E011"
	CodeOperationSaveFailed = "E012"
	CodeMemberSaveFailed    = "E013"
	CodeSenderSaveFailed    = "E014"
	CodeArchiveFailed       = "E016"

	// Catch-all for faults no stage anticipated.
	CodeInternal = "E999"
)

// Rule-stage format failures reuse identity-stage codes; external consumers
// already key on them. The aliases keep call sites honest about which check
// fired. Length assertions on data-format rows report under the code of the
// row's format kind, defaulting to E004 for rows with no format.
const (
	CodeRuleBadTimeStamp = CodeBadTimeStamp
	CodeRuleBadAmount    = CodeMissingSignature
)

// New builds an error value.
func New(code, message string) Error {
	return Error{Code: code, Message: message}
}

// Newf builds an error value with a formatted message.
func Newf(code, format string, args ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, args...)}
}
