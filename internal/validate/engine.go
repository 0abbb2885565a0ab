package validate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"valxml/internal/catalog"
	"valxml/internal/document"
	"valxml/pkg/sentinel"
)

// DefaultRootTag is the only root element accepted from submitters.
const DefaultRootTag = "ExportData"

// Field names with checks hardwired into rule evaluation, independent of any
// configured data-format rows.
const (
	fieldTimeStamp = "TimeStamp"
	fieldAmount    = "Amount"
)

// Options tune engine behavior.
type Options struct {
	// ExpectedRootTag defaults to DefaultRootTag.
	ExpectedRootTag string

	// ReplaceErrorsOnUnknownVersion keeps the legacy behavior where an
	// unregistered version code throws away every error accumulated before
	// version resolution and leaves E001 alone in the list. Off, E001 is
	// appended like any other error.
	ReplaceErrorsOnUnknownVersion bool
}

// DefaultOptions matches the behavior external consumers currently depend on.
func DefaultOptions() Options {
	return Options{
		ExpectedRootTag:               DefaultRootTag,
		ReplaceErrorsOnUnknownVersion: true,
	}
}

// Outcome is the engine's verdict on one document.
type Outcome struct {
	Errors    []Error
	Version   *catalog.MessageVersion
	Timestamp *time.Time
}

// Failed reports whether any error accumulated.
func (o Outcome) Failed() bool {
	return len(o.Errors) > 0
}

// Engine resolves the message version and evaluates catalog rules against a
// parsed document, accumulating an ordered error list. It performs no side
// effects; persistence decisions belong to the pipeline.
type Engine struct {
	catalog catalog.Store
	opts    Options
}

func NewEngine(cat catalog.Store, opts Options) *Engine {
	if opts.ExpectedRootTag == "" {
		opts.ExpectedRootTag = DefaultRootTag
	}
	return &Engine{catalog: cat, opts: opts}
}

// Evaluate runs the full validation sequence. The returned error is reserved
// for infrastructure faults (catalog unreachable); every document problem is
// reported inside the Outcome.
//
// Ordering is contractual: document id checks abort immediately; timestamp,
// signature, and root-tag checks accumulate; version resolution may replace
// the accumulated list (see Options); only a clean document reaches rule
// evaluation and the cross-field check.
func (e *Engine) Evaluate(ctx context.Context, doc *document.Document) (Outcome, error) {
	identity := document.ExtractIdentity(doc)
	var out Outcome

	if identity.DocumentID == "" {
		out.Errors = append(out.Errors, New(CodeMissingDocumentID, "Missing DocumentID"))
		return out, nil
	}
	if _, err := uuid.Parse(identity.DocumentID); err != nil {
		out.Errors = append(out.Errors, Newf(CodeInvalidDocumentID, "Invalid UUID: %s", identity.DocumentID))
		return out, nil
	}

	if identity.Timestamp == "" {
		out.Errors = append(out.Errors, New(CodeMissingTimeStamp, "Missing TimeStamp"))
	} else if !ValidTimeStampFormat(identity.Timestamp) {
		out.Errors = append(out.Errors, New(CodeBadTimeStamp, "Invalid TimeStamp format"))
	} else if ts, err := ParseTimeStamp(identity.Timestamp); err != nil {
		out.Errors = append(out.Errors, New(CodeBadTimeStamp, "Invalid TimeStamp format"))
	} else {
		out.Timestamp = &ts
	}

	if identity.Signature == "" {
		out.Errors = append(out.Errors, New(CodeMissingSignature, "Missing Signature in SignedData"))
	}

	if identity.RootTag != e.opts.ExpectedRootTag {
		out.Errors = append(out.Errors, Newf(CodeWrongRootTag, "Root tag must be %s", e.opts.ExpectedRootTag))
	}

	if identity.Version == "" {
		out.Errors = append(out.Errors, New(CodeMissingVersion, "Missing Version tag"))
	} else {
		version, err := e.catalog.VersionByCode(ctx, identity.Version)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			unsupported := Newf(CodeUnsupportedVersion, "Unsupported version: %s", identity.Version)
			if e.opts.ReplaceErrorsOnUnknownVersion {
				out.Errors = []Error{unsupported}
			} else {
				out.Errors = append(out.Errors, unsupported)
			}
		case err != nil:
			return out, fmt.Errorf("resolve version %q: %w", identity.Version, err)
		default:
			out.Version = version
		}
	}

	// Checkpoint: a document that failed identity or version checks is
	// denied without ever reaching rule evaluation.
	if out.Failed() {
		return out, nil
	}

	rules, err := e.catalog.ActiveRules(ctx, out.Version.ID)
	if err != nil {
		return out, fmt.Errorf("load rules for version %s: %w", out.Version.VersionCode, err)
	}
	for _, rule := range rules {
		out.Errors = append(out.Errors, e.evaluateRule(doc, rule)...)
	}

	amount := doc.Text("//Operation/Amount")
	currency := doc.Text("//Operation/Currency")
	if amount != "" && currency == "" {
		out.Errors = append(out.Errors, New(CodeCurrencyRequired, "Currency is required when Amount is present"))
	}

	return out, nil
}

// evaluateRule applies one catalog rule. Faults are contained here so a bad
// rule row cannot take down evaluation of its siblings.
func (e *Engine) evaluateRule(doc *document.Document, rule catalog.Rule) (errs []Error) {
	defer func() {
		if r := recover(); r != nil {
			errs = append(errs, Newf(CodeRuleEvaluationFault, "Error in rule validation: %v", r))
		}
	}()

	fieldValue := doc.Text(rule.Field.XPath)

	for _, req := range rule.Requirements {
		// Requirements without a predicate are configuration placeholders
		// and never fire.
		if req.Predicate == nil {
			continue
		}
		if req.Predicate.Matches(doc) && req.IsRequired && fieldValue == "" {
			errs = append(errs, New(CodeRequiredFieldMissing, renderTemplate(req.ErrorTemplate, rule.Field.Field)))
		}
	}

	for _, df := range rule.Formats {
		if !df.Predicate.Matches(doc) || fieldValue == "" {
			continue
		}
		errs = append(errs, checkFormat(df, rule.Field.Field, fieldValue)...)
	}

	// Hardwired checks for the two well-known fields, independent of any
	// configured format rows.
	if rule.Field.Field == fieldTimeStamp && fieldValue != "" && !ValidTimeStampFormat(fieldValue) {
		errs = append(errs, New(CodeRuleBadTimeStamp, "Invalid timestamp format"))
	} else if rule.Field.Field == fieldAmount && fieldValue != "" && !ValidAmountPrecision(fieldValue) {
		errs = append(errs, New(CodeRuleBadAmount, "Invalid amount format"))
	}

	return errs
}

func checkFormat(df catalog.DataFormatRule, fieldName, value string) []Error {
	var errs []Error
	// Length violations report under the same code as the row's format kind.
	code := CodeRuleBadTimeStamp
	switch df.Format {
	case catalog.FormatDate:
		if !ValidTimeStampFormat(value) {
			errs = append(errs, New(CodeRuleBadTimeStamp, renderTemplate(df.ErrorTemplate, fieldName)))
		}
	case catalog.FormatDecimal:
		code = CodeRuleBadAmount
		if !ValidAmountPrecision(value) {
			errs = append(errs, New(CodeRuleBadAmount, renderTemplate(df.ErrorTemplate, fieldName)))
		}
	}
	if df.Length != nil && len(value) != *df.Length {
		errs = append(errs, New(code, renderTemplate(df.ErrorTemplate, fieldName)))
	}
	return errs
}

func renderTemplate(template, fieldName string) string {
	if template == "" {
		return fieldName + " failed validation"
	}
	return strings.ReplaceAll(template, "{DocumentField}", fieldName)
}
