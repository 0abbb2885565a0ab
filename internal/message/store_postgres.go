package message

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"valxml/internal/validate"
	"valxml/pkg/sentinel"
)

// PostgresStore persists messages and their dependents. Table names follow
// the shared schema: message, operation, members, sender, message_xml, error.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) GetOrCreate(ctx context.Context, m *Message) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		INSERT INTO message (id, message_version_id, created_at, timestamp, signature)
		VALUES ($1, $2, now(), $3, $4)
		ON CONFLICT (id) DO NOTHING`,
		m.ID, m.VersionID, m.Timestamp, m.Signature,
	)
	if err != nil {
		return false, fmt.Errorf("get-or-create message %s: %w", m.ID, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, m *Message) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO message (id, message_version_id, created_at, timestamp, signature)
		VALUES ($1, $2, now(), $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET message_version_id = EXCLUDED.message_version_id,
		    timestamp = EXCLUDED.timestamp,
		    signature = EXCLUDED.signature`,
		m.ID, m.VersionID, m.Timestamp, m.Signature,
	)
	if err != nil {
		return fmt.Errorf("upsert message %s: %w", m.ID, err)
	}
	return nil
}

func (s *PostgresStore) CreateOperation(ctx context.Context, op *Operation) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO operation (message_id, transaction_date, amount, currency, operation_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		op.MessageID, op.TransactionDate, op.Amount, op.Currency, op.OperationType,
	).Scan(&op.ID)
	if err != nil {
		return fmt.Errorf("create operation for %s: %w", op.MessageID, err)
	}
	return nil
}

func (s *PostgresStore) CreateMember(ctx context.Context, member *Member) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO members (message_id, member_name)
		VALUES ($1, $2)
		RETURNING id`,
		member.MessageID, member.MemberName,
	).Scan(&member.ID)
	if err != nil {
		return fmt.Errorf("create member for %s: %w", member.MessageID, err)
	}
	return nil
}

func (s *PostgresStore) CreateSender(ctx context.Context, sender *Sender) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO sender (message_id, name, inn)
		VALUES ($1, $2, $3)
		RETURNING id`,
		sender.MessageID, sender.Name, sender.INN,
	).Scan(&sender.ID)
	if err != nil {
		return fmt.Errorf("create sender for %s: %w", sender.MessageID, err)
	}
	return nil
}

func (s *PostgresStore) CreateXML(ctx context.Context, xml *MessageXML) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO message_xml (message_id, xml_content, xml_url_link)
		VALUES ($1, $2, $3)
		RETURNING id`,
		xml.MessageID, xml.Content, xml.URL,
	).Scan(&xml.ID)
	if err != nil {
		return fmt.Errorf("create message xml for %s: %w", xml.MessageID, err)
	}
	return nil
}

func (s *PostgresStore) AppendErrors(ctx context.Context, messageID uuid.UUID, errs []validate.Error) error {
	for _, e := range errs {
		_, err := s.pool.Exec(ctx, `
			INSERT INTO error (message_id, error_code, error_message)
			VALUES ($1, $2, $3)`,
			messageID, e.Code, e.Message,
		)
		if err != nil {
			return fmt.Errorf("append error %s for %s: %w", e.Code, messageID, err)
		}
	}
	return nil
}

// Get fetches a message row; used by tests and operational tooling.
func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*Message, error) {
	var m Message
	err := s.pool.QueryRow(ctx, `
		SELECT id, message_version_id, created_at, timestamp, signature
		FROM message WHERE id = $1`,
		id,
	).Scan(&m.ID, &m.VersionID, &m.CreatedAt, &m.Timestamp, &m.Signature)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get message %s: %w", id, err)
	}
	return &m, nil
}

// ErrorsFor lists persisted error rows for a message in insertion order.
func (s *PostgresStore) ErrorsFor(ctx context.Context, id uuid.UUID) ([]ValidationError, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, message_id, error_code, error_message
		FROM error WHERE message_id = $1 ORDER BY id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("errors for %s: %w", id, err)
	}
	defer rows.Close()

	var out []ValidationError
	for rows.Next() {
		var e ValidationError
		if err := rows.Scan(&e.ID, &e.MessageID, &e.Code, &e.Message); err != nil {
			return nil, fmt.Errorf("scan error row: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
