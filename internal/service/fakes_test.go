package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"grounded-qa-be/internal/dto"
	"grounded-qa-be/internal/entity"
	"grounded-qa-be/internal/events"
	"grounded-qa-be/internal/repository/contract"
	"grounded-qa-be/internal/repository/specification"
	"grounded-qa-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// memStore is an in-memory database shared by every unit of work from one factory.
type memStore struct {
	mu        sync.Mutex
	sessions  map[uuid.UUID]entity.ChatSession
	messages  []entity.ChatMessage
	audits    []entity.ResearchAudit
	failBatch error
	commits   int
}

func newMemStore() *memStore {
	return &memStore{sessions: map[uuid.UUID]entity.ChatSession{}}
}

type snapshot struct {
	sessions map[uuid.UUID]entity.ChatSession
	messages []entity.ChatMessage
}

func (s *memStore) snapshot() snapshot {
	sessions := make(map[uuid.UUID]entity.ChatSession, len(s.sessions))
	for k, v := range s.sessions {
		sessions[k] = v
	}
	return snapshot{sessions: sessions, messages: append([]entity.ChatMessage(nil), s.messages...)}
}

func (s *memStore) messagesFor(sessionId uuid.UUID) []entity.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.ChatMessage
	for _, m := range s.messages {
		if m.ChatSessionId == sessionId {
			out = append(out, m)
		}
	}
	return out
}

func (s *memStore) session(id uuid.UUID) (entity.ChatSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

type memFactory struct {
	store *memStore
}

func (f *memFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &memUnitOfWork{store: f.store}
}

type memUnitOfWork struct {
	store  *memStore
	before *snapshot
}

func (u *memUnitOfWork) Begin(ctx context.Context) error {
	if u.before != nil {
		return errors.New("transaction already started")
	}
	u.store.mu.Lock()
	snap := u.store.snapshot()
	u.store.mu.Unlock()
	u.before = &snap
	return nil
}

func (u *memUnitOfWork) Commit() error {
	if u.before == nil {
		return errors.New("no transaction to commit")
	}
	u.before = nil
	u.store.mu.Lock()
	u.store.commits++
	u.store.mu.Unlock()
	return nil
}

func (u *memUnitOfWork) Rollback() error {
	if u.before == nil {
		return errors.New("no transaction to rollback")
	}
	u.store.mu.Lock()
	u.store.sessions = u.before.sessions
	u.store.messages = u.before.messages
	u.store.mu.Unlock()
	u.before = nil
	return nil
}

func (u *memUnitOfWork) ChatSessionRepository() contract.ChatSessionRepository {
	return &memSessionRepo{store: u.store}
}

func (u *memUnitOfWork) ChatMessageRepository() contract.ChatMessageRepository {
	return &memMessageRepo{store: u.store}
}

func (u *memUnitOfWork) ResearchAuditRepository() contract.ResearchAuditRepository {
	return &memAuditRepo{store: u.store}
}

type filter struct {
	id, userId, sessionId *uuid.UUID
	latestFirst           bool
}

func readSpecs(specs []specification.Specification) filter {
	var f filter
	for _, s := range specs {
		switch v := s.(type) {
		case specification.ByID:
			f.id = &v.ID
		case specification.ByUserID:
			f.userId = &v.UserID
		case specification.ByChatSessionID:
			f.sessionId = &v.ChatSessionID
		case specification.LatestFirst:
			f.latestFirst = true
		}
	}
	return f
}

type memSessionRepo struct{ store *memStore }

func (r *memSessionRepo) Create(ctx context.Context, s *entity.ChatSession) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.sessions[s.Id] = *s
	return nil
}

func (r *memSessionRepo) Update(ctx context.Context, s *entity.ChatSession) error {
	return r.Create(ctx, s)
}

func (r *memSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.sessions, id)
	return nil
}

func (r *memSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *memSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	f := readSpecs(specs)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.ChatSession
	for _, s := range r.store.sessions {
		s := s
		if f.id != nil && s.Id != *f.id {
			continue
		}
		if f.userId != nil && s.UserId != *f.userId {
			continue
		}
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool {
		if f.latestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type memMessageRepo struct{ store *memStore }

func (r *memMessageRepo) Create(ctx context.Context, m *entity.ChatMessage) error {
	return r.CreateBatch(ctx, []*entity.ChatMessage{m})
}

func (r *memMessageRepo) CreateBatch(ctx context.Context, msgs []*entity.ChatMessage) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.failBatch != nil {
		return r.store.failBatch
	}
	for _, m := range msgs {
		r.store.messages = append(r.store.messages, *m)
	}
	return nil
}

func (r *memMessageRepo) DeleteByChatSessionId(ctx context.Context, sessionId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	kept := r.store.messages[:0:0]
	for _, m := range r.store.messages {
		if m.ChatSessionId != sessionId {
			kept = append(kept, m)
		}
	}
	r.store.messages = kept
	return nil
}

func (r *memMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	f := readSpecs(specs)
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.ChatMessage
	for _, m := range r.store.messages {
		m := m
		if f.sessionId != nil && m.ChatSessionId != *f.sessionId {
			continue
		}
		out = append(out, &m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

type memAuditRepo struct{ store *memStore }

func (r *memAuditRepo) Create(ctx context.Context, a *entity.ResearchAudit) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.audits = append(r.store.audits, *a)
	return nil
}

func (r *memAuditRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ResearchAudit, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	out := make([]*entity.ResearchAudit, 0, len(r.store.audits))
	for i := range r.store.audits {
		a := r.store.audits[i]
		out = append(out, &a)
	}
	return out, nil
}

type recordingAudit struct {
	mu     sync.Mutex
	audits []*dto.ResearchAuditMessage
}

func (a *recordingAudit) PublishAudit(ctx context.Context, m *dto.ResearchAuditMessage) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.audits = append(a.audits, m)
	return nil
}

type recordingEvents struct {
	answered []events.ChatAnswered
	deleted  []uuid.UUID
}

func (e *recordingEvents) PublishChatAnswered(ctx context.Context, evt events.ChatAnswered) {
	e.answered = append(e.answered, evt)
}

func (e *recordingEvents) PublishSessionDeleted(ctx context.Context, sessionId, userId uuid.UUID) {
	e.deleted = append(e.deleted, sessionId)
}
