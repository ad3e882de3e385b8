package service

import (
	"context"
	"errors"
	"strconv"

	"go.uber.org/zap"

	"github.com/hackdesk/helpdesk-service/internal/domain"
	"github.com/hackdesk/helpdesk-service/internal/repository"
)

const ticketCounterName = "ticket_id"

// IDAllocator produces the strictly increasing ticket identifier sequence.
// The primary path is the store's atomic counter increment; two concurrent
// NextID calls never observe the same value.
type IDAllocator struct {
	counters repository.CounterRepository
	tickets  repository.TicketRepository
	logger   *zap.Logger
}

// NewIDAllocator constructs the allocator.
func NewIDAllocator(counters repository.CounterRepository, tickets repository.TicketRepository, logger *zap.Logger) *IDAllocator {
	return &IDAllocator{counters: counters, tickets: tickets, logger: logger}
}

// NextID allocates the next ticket identifier. When the store is
// unreachable the allocation fails; callers must not create a partial
// ticket.
func (a *IDAllocator) NextID(ctx context.Context) (string, error) {
	value, err := a.counters.Increment(ctx, ticketCounterName)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(value, 10), nil
}

// Bootstrap seeds the counter from the highest identifier already assigned
// when the counter record is missing. This recovery scan is not atomic and
// runs only at process start, before concurrent creation begins.
func (a *IDAllocator) Bootstrap(ctx context.Context) error {
	if _, err := a.counters.Get(ctx, ticketCounterName); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return err
	}

	max, err := a.tickets.MaxAssignedID(ctx)
	if err != nil {
		return err
	}
	a.logger.Warn("ticket counter missing; seeding from existing tickets",
		zap.Int64("max_assigned_id", max))
	return a.counters.Seed(ctx, ticketCounterName, max)
}
