package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hackdesk/helpdesk-service/internal/domain"
)

// fakeTicketRepo is an in-memory store with the same conditional-write
// semantics as the Postgres implementation: guarded updates touch the row
// only when the guard still holds and report the miss otherwise.
type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]domain.Ticket)}
}

func (f *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tickets[ticket.ID] = *ticket
	return nil
}

func (f *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := ticket
	return &copied, nil
}

func (f *fakeTicketRepo) ListByRequester(_ context.Context, requesterID string) ([]domain.Ticket, error) {
	return f.filter(func(t domain.Ticket) bool { return t.RequesterID == requesterID }), nil
}

func (f *fakeTicketRepo) ListOpen(_ context.Context) ([]domain.Ticket, error) {
	return f.filter(func(t domain.Ticket) bool { return t.Status == domain.TicketStatusOpen }), nil
}

func (f *fakeTicketRepo) ListByMentor(_ context.Context, mentorID string) ([]domain.Ticket, error) {
	return f.filter(func(t domain.Ticket) bool { return t.MentorID != nil && *t.MentorID == mentorID }), nil
}

func (f *fakeTicketRepo) ListByCategory(_ context.Context, category string) ([]domain.Ticket, error) {
	return f.filter(func(t domain.Ticket) bool {
		for _, tag := range t.Categories {
			if tag == category {
				return true
			}
		}
		return false
	}), nil
}

func (f *fakeTicketRepo) CountOpenByRequester(_ context.Context, requesterID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, t := range f.tickets {
		if t.RequesterID == requesterID && t.Status == domain.TicketStatusOpen {
			count++
		}
	}
	return count, nil
}

func (f *fakeTicketRepo) AssignMentor(_ context.Context, id, mentorID, mentorName string) error {
	return f.conditional(id, func(t *domain.Ticket) bool {
		if t.Status != domain.TicketStatusOpen || t.MentorID != nil {
			return false
		}
		t.MentorID = &mentorID
		t.MentorName = &mentorName
		return true
	})
}

func (f *fakeTicketRepo) ReplaceMentor(_ context.Context, id, currentMentorID, newMentorID, newMentorName string) error {
	return f.conditional(id, func(t *domain.Ticket) bool {
		if t.Status != domain.TicketStatusOpen || t.MentorID == nil || *t.MentorID != currentMentorID {
			return false
		}
		t.MentorID = &newMentorID
		t.MentorName = &newMentorName
		return true
	})
}

func (f *fakeTicketRepo) ClearMentor(_ context.Context, id, currentMentorID string) error {
	return f.conditional(id, func(t *domain.Ticket) bool {
		if t.Status != domain.TicketStatusOpen || t.MentorID == nil || *t.MentorID != currentMentorID {
			return false
		}
		t.MentorID = nil
		t.MentorName = nil
		return true
	})
}

func (f *fakeTicketRepo) Close(_ context.Context, id string, closedAt time.Time, requireMentorID *string) error {
	return f.conditional(id, func(t *domain.Ticket) bool {
		if t.Status != domain.TicketStatusOpen {
			return false
		}
		if requireMentorID != nil && (t.MentorID == nil || *t.MentorID != *requireMentorID) {
			return false
		}
		t.Status = domain.TicketStatusClosed
		t.ClosedAt = &closedAt
		return true
	})
}

func (f *fakeTicketRepo) MaxAssignedID(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var max int64
	for id := range f.tickets {
		var n int64
		valid := len(id) > 0
		for _, r := range id {
			if r < '0' || r > '9' {
				valid = false
				break
			}
			n = n*10 + int64(r-'0')
		}
		if valid && n > max {
			max = n
		}
	}
	return max, nil
}

func (f *fakeTicketRepo) conditional(id string, apply func(*domain.Ticket) bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[id]
	if !ok {
		return domain.ErrPreconditionFailed
	}
	if !apply(&ticket) {
		return domain.ErrPreconditionFailed
	}
	f.tickets[id] = ticket
	return nil
}

func (f *fakeTicketRepo) filter(keep func(domain.Ticket) bool) []domain.Ticket {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Ticket
	for _, t := range f.tickets {
		if keep(t) {
			result = append(result, t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result
}

// fakeCounterRepo mirrors the atomic upsert counter.
type fakeCounterRepo struct {
	mu     sync.Mutex
	values map[string]int64
}

func newFakeCounterRepo() *fakeCounterRepo {
	return &fakeCounterRepo{values: make(map[string]int64)}
}

func (f *fakeCounterRepo) Increment(_ context.Context, name string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[name]++
	return f.values[name], nil
}

func (f *fakeCounterRepo) Get(_ context.Context, name string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.values[name]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return value, nil
}

func (f *fakeCounterRepo) Seed(_ context.Context, name string, value int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.values[name]; !ok {
		f.values[name] = value
	}
	return nil
}

// fakeConfigRepo backs the config service in tests.
type fakeConfigRepo struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeConfigRepo() *fakeConfigRepo {
	return &fakeConfigRepo{values: make(map[string]string)}
}

func (f *fakeConfigRepo) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.values[key]
	if !ok {
		return "", domain.ErrNotFound
	}
	return value, nil
}

func (f *fakeConfigRepo) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return nil
}
