package resources

import "context"

// Repo provides read access to registered UMA resources and their access policies.
type Repo interface {
	// FindByIDs returns the resources that still exist among the given ids.
	// Missing ids are simply absent from the result, not an error.
	FindByIDs(ctx context.Context, ids []string) ([]*Resource, error)

	// FindAccessPolicies returns every enabled or disabled policy bound to the
	// given resource ids.
	FindAccessPolicies(ctx context.Context, resourceIDs []string) ([]*AccessPolicy, error)
}

// TicketRepo redeems permission tickets. The at-most-once property is the
// store's contract: two concurrent redemptions of the same ticket must race
// such that at most one succeeds.
type TicketRepo interface {
	// Redeem consumes the ticket and returns it, or nil when the ticket does
	// not exist, already went through redemption, or expired.
	Redeem(ctx context.Context, ticketID string) (*PermissionTicket, error)
}
