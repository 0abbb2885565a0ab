package message

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"valxml/internal/validate"
	"valxml/pkg/sentinel"
)

// ErrInjected is returned by InMemory writes a test has configured to fail.
var ErrInjected = errors.New("injected store failure")

// InMemory backs tests and local runs. Fail* flags inject per-entity write
// failures so the fault-isolation paths can be exercised.
type InMemory struct {
	mu         sync.RWMutex
	messages   map[uuid.UUID]*Message
	operations map[uuid.UUID][]Operation
	members    map[uuid.UUID][]Member
	senders    map[uuid.UUID][]Sender
	xmls       map[uuid.UUID][]MessageXML
	errs       map[uuid.UUID][]ValidationError
	nextID     int64

	FailOperations bool
	FailMembers    bool
	FailSenders    bool
	FailXML        bool
	FailUpsert     bool
}

func NewInMemory() *InMemory {
	return &InMemory{
		messages:   make(map[uuid.UUID]*Message),
		operations: make(map[uuid.UUID][]Operation),
		members:    make(map[uuid.UUID][]Member),
		senders:    make(map[uuid.UUID][]Sender),
		xmls:       make(map[uuid.UUID][]MessageXML),
		errs:       make(map[uuid.UUID][]ValidationError),
	}
}

func (s *InMemory) GetOrCreate(_ context.Context, m *Message) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.messages[m.ID]; ok {
		return false, nil
	}
	stored := *m
	stored.CreatedAt = time.Now()
	s.messages[m.ID] = &stored
	return true, nil
}

func (s *InMemory) Upsert(_ context.Context, m *Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailUpsert {
		return ErrInjected
	}
	if existing, ok := s.messages[m.ID]; ok {
		existing.VersionID = m.VersionID
		existing.Timestamp = m.Timestamp
		existing.Signature = m.Signature
		return nil
	}
	stored := *m
	stored.CreatedAt = time.Now()
	s.messages[m.ID] = &stored
	return nil
}

func (s *InMemory) CreateOperation(_ context.Context, op *Operation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailOperations {
		return ErrInjected
	}
	s.nextID++
	op.ID = s.nextID
	s.operations[op.MessageID] = append(s.operations[op.MessageID], *op)
	return nil
}

func (s *InMemory) CreateMember(_ context.Context, member *Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailMembers {
		return ErrInjected
	}
	s.nextID++
	member.ID = s.nextID
	s.members[member.MessageID] = append(s.members[member.MessageID], *member)
	return nil
}

func (s *InMemory) CreateSender(_ context.Context, sender *Sender) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSenders {
		return ErrInjected
	}
	s.nextID++
	sender.ID = s.nextID
	s.senders[sender.MessageID] = append(s.senders[sender.MessageID], *sender)
	return nil
}

func (s *InMemory) CreateXML(_ context.Context, xml *MessageXML) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailXML {
		return ErrInjected
	}
	s.nextID++
	xml.ID = s.nextID
	s.xmls[xml.MessageID] = append(s.xmls[xml.MessageID], *xml)
	return nil
}

func (s *InMemory) AppendErrors(_ context.Context, messageID uuid.UUID, errs []validate.Error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range errs {
		s.nextID++
		s.errs[messageID] = append(s.errs[messageID], ValidationError{
			ID:        s.nextID,
			MessageID: messageID,
			Code:      e.Code,
			Message:   e.Message,
		})
	}
	return nil
}

// Read helpers for tests.

func (s *InMemory) Get(_ context.Context, id uuid.UUID) (*Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.messages[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (s *InMemory) MessageCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

func (s *InMemory) OperationsFor(id uuid.UUID) []Operation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Operation(nil), s.operations[id]...)
}

func (s *InMemory) MembersFor(id uuid.UUID) []Member {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Member(nil), s.members[id]...)
}

func (s *InMemory) SendersFor(id uuid.UUID) []Sender {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Sender(nil), s.senders[id]...)
}

func (s *InMemory) XMLFor(id uuid.UUID) []MessageXML {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]MessageXML(nil), s.xmls[id]...)
}

func (s *InMemory) ErrorsFor(id uuid.UUID) []ValidationError {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ValidationError(nil), s.errs[id]...)
}
