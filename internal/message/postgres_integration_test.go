//go:build integration

package message_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"valxml/internal/message"
	"valxml/internal/validate"
)

type PostgresStoreSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	pool      *pgxpool.Pool
	store     *message.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("valxml"),
		tcpostgres.WithUsername("valxml"),
		tcpostgres.WithPassword("valxml"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	s.Require().NoError(err)
	s.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.pool, err = pgxpool.New(ctx, dsn)
	s.Require().NoError(err)

	schema, err := os.ReadFile("../../migrations/0001_init.sql")
	s.Require().NoError(err)
	_, err = s.pool.Exec(ctx, string(schema))
	s.Require().NoError(err)

	s.store = message.NewPostgres(s.pool)
}

func (s *PostgresStoreSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), `TRUNCATE message CASCADE`)
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestUpsertIsIdempotentPerDocumentID() {
	ctx := context.Background()
	id := uuid.New()
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	s.Require().NoError(s.store.Upsert(ctx, &message.Message{ID: id, Timestamp: &ts, Signature: "first"}))
	s.Require().NoError(s.store.Upsert(ctx, &message.Message{ID: id, Timestamp: &ts, Signature: "second"}))

	var count int
	s.Require().NoError(s.pool.QueryRow(ctx, `SELECT count(*) FROM message`).Scan(&count))
	s.Equal(1, count)

	got, err := s.store.Get(ctx, id)
	s.Require().NoError(err)
	s.Equal("second", got.Signature)
}

func (s *PostgresStoreSuite) TestGetOrCreateLeavesExistingRow() {
	ctx := context.Background()
	id := uuid.New()

	created, err := s.store.GetOrCreate(ctx, &message.Message{ID: id, Signature: "orig"})
	s.Require().NoError(err)
	s.True(created)

	created, err = s.store.GetOrCreate(ctx, &message.Message{ID: id, Signature: "changed"})
	s.Require().NoError(err)
	s.False(created)

	got, err := s.store.Get(ctx, id)
	s.Require().NoError(err)
	s.Equal("orig", got.Signature)
}

func (s *PostgresStoreSuite) TestErrorRowsKeepInsertionOrder() {
	ctx := context.Background()
	id := uuid.New()

	_, err := s.store.GetOrCreate(ctx, &message.Message{ID: id})
	s.Require().NoError(err)

	errs := []validate.Error{
		{Code: "E003", Message: "Missing TimeStamp"},
		{Code: "E005", Message: "Missing Signature in SignedData"},
		{Code: "E002", Message: "Root tag must be ExportData"},
	}
	s.Require().NoError(s.store.AppendErrors(ctx, id, errs))

	rows, err := s.store.ErrorsFor(ctx, id)
	s.Require().NoError(err)
	s.Require().Len(rows, 3)
	s.Equal("E003", rows[0].Code)
	s.Equal("E005", rows[1].Code)
	s.Equal("E002", rows[2].Code)
}

func (s *PostgresStoreSuite) TestDependentsCascadeFromMessage() {
	ctx := context.Background()
	id := uuid.New()

	_, err := s.store.GetOrCreate(ctx, &message.Message{ID: id})
	s.Require().NoError(err)

	s.Require().NoError(s.store.CreateMember(ctx, &message.Member{MessageID: id, MemberName: "First Bank"}))
	s.Require().NoError(s.store.CreateSender(ctx, &message.Sender{MessageID: id, Name: "ACME", INN: "123456789012"}))

	_, err = s.pool.Exec(ctx, `DELETE FROM message WHERE id = $1`, id)
	s.Require().NoError(err)

	var count int
	s.Require().NoError(s.pool.QueryRow(ctx, `SELECT count(*) FROM members`).Scan(&count))
	s.Equal(0, count)
	s.Require().NoError(s.pool.QueryRow(ctx, `SELECT count(*) FROM sender`).Scan(&count))
	s.Equal(0, count)
}
