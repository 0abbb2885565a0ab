package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"valxml/pkg/sentinel"
)

// PostgresStore reads the rule catalog from the shared PostgreSQL schema.
// Table names follow the administration tool: message_version,
// document_fields, rule, requirement, data_format.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) VersionByCode(ctx context.Context, code string) (*MessageVersion, error) {
	var v MessageVersion
	err := s.pool.QueryRow(ctx,
		`SELECT id, version_code, xml_schema FROM message_version WHERE version_code = $1`,
		code,
	).Scan(&v.ID, &v.VersionCode, &v.XMLSchema)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("version by code %q: %w", code, err)
	}
	return &v, nil
}

func (s *PostgresStore) ActiveRules(ctx context.Context, versionID int64) ([]Rule, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r.id, r.version_id,
		       f.id, f.field, f.version_id, f.context, f.xpath, f.tag, f.description
		FROM rule r
		JOIN document_fields f ON f.id = r.document_field_id
		WHERE r.version_id = $1 AND r.is_active
		ORDER BY r.id`,
		versionID,
	)
	if err != nil {
		return nil, fmt.Errorf("query active rules: %w", err)
	}
	defer rows.Close()

	var rules []Rule
	for rows.Next() {
		rule := Rule{IsActive: true}
		if err := rows.Scan(
			&rule.ID, &rule.VersionID,
			&rule.Field.ID, &rule.Field.Field, &rule.Field.VersionID,
			&rule.Field.Context, &rule.Field.XPath, &rule.Field.Tag, &rule.Field.Description,
		); err != nil {
			return nil, fmt.Errorf("scan rule: %w", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rules: %w", err)
	}

	for i := range rules {
		if err := s.loadRequirements(ctx, &rules[i]); err != nil {
			return nil, err
		}
		if err := s.loadFormats(ctx, &rules[i]); err != nil {
			return nil, err
		}
	}
	return rules, nil
}

func (s *PostgresStore) loadRequirements(ctx context.Context, rule *Rule) error {
	rows, err := s.pool.Query(ctx,
		`SELECT id, rule_id, predicate, is_required, error_template
		 FROM requirement WHERE rule_id = $1 ORDER BY id`,
		rule.ID,
	)
	if err != nil {
		return fmt.Errorf("query requirements for rule %d: %w", rule.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var req RequirementRule
		var predicate string
		if err := rows.Scan(&req.ID, &req.RuleID, &predicate, &req.IsRequired, &req.ErrorTemplate); err != nil {
			return fmt.Errorf("scan requirement: %w", err)
		}
		if req.Predicate, err = ParsePredicate(predicate); err != nil {
			return fmt.Errorf("requirement %d: %w", req.ID, err)
		}
		rule.Requirements = append(rule.Requirements, req)
	}
	return rows.Err()
}

func (s *PostgresStore) loadFormats(ctx context.Context, rule *Rule) error {
	rows, err := s.pool.Query(ctx,
		`SELECT id, rule_id, predicate, dataformat, length, error_template
		 FROM data_format WHERE rule_id = $1 ORDER BY id`,
		rule.ID,
	)
	if err != nil {
		return fmt.Errorf("query data formats for rule %d: %w", rule.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var df DataFormatRule
		var predicate string
		if err := rows.Scan(&df.ID, &df.RuleID, &predicate, &df.Format, &df.Length, &df.ErrorTemplate); err != nil {
			return fmt.Errorf("scan data format: %w", err)
		}
		if df.Predicate, err = ParsePredicate(predicate); err != nil {
			return fmt.Errorf("data format %d: %w", df.ID, err)
		}
		rule.Formats = append(rule.Formats, df)
	}
	return rows.Err()
}
