package repofake

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/go-grant-engine/resources"
)

var _ resources.TicketRepo = (*FakeTicketRepo)(nil)

// FakeTicketRepo is an in-memory resources.TicketRepo. Redeem deletes under the
// lock so a second redemption of the same ticket never succeeds, matching the
// at-most-once contract real stores must provide.
type FakeTicketRepo struct {
	lock    sync.Mutex
	tickets map[string]*resources.PermissionTicket
	nowTime func() time.Time
}

func NewFakeTicketRepo() *FakeTicketRepo {
	return &FakeTicketRepo{
		tickets: make(map[string]*resources.PermissionTicket),
		nowTime: time.Now,
	}
}

func (r *FakeTicketRepo) Upsert(ticket *resources.PermissionTicket) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.tickets[ticket.ID] = ticket
}

func (r *FakeTicketRepo) Redeem(_ context.Context, ticketID string) (*resources.PermissionTicket, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	ticket, ok := r.tickets[ticketID]
	if !ok {
		return nil, nil
	}
	delete(r.tickets, ticketID)
	if !ticket.ExpiresAt.IsZero() && r.nowTime().After(ticket.ExpiresAt) {
		return nil, nil
	}
	return ticket, nil
}
