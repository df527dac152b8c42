package repofake

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-grant-engine/resources"
)

var _ resources.Repo = (*FakeResourceRepo)(nil)

// FakeResourceRepo is an in-memory resources.Repo for tests.
type FakeResourceRepo struct {
	lock      sync.RWMutex
	resources map[string]*resources.Resource
	policies  map[string][]*resources.AccessPolicy // keyed by resource id
}

func NewFakeResourceRepo() *FakeResourceRepo {
	return &FakeResourceRepo{
		resources: make(map[string]*resources.Resource),
		policies:  make(map[string][]*resources.AccessPolicy),
	}
}

func (r *FakeResourceRepo) Upsert(resource *resources.Resource) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.resources[resource.ID] = resource
}

func (r *FakeResourceRepo) Delete(resourceID string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.resources, resourceID)
}

func (r *FakeResourceRepo) AddPolicy(policy *resources.AccessPolicy) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.policies[policy.ResourceID] = append(r.policies[policy.ResourceID], policy)
}

func (r *FakeResourceRepo) FindByIDs(_ context.Context, ids []string) ([]*resources.Resource, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	found := make([]*resources.Resource, 0, len(ids))
	for _, id := range ids {
		if res, ok := r.resources[id]; ok {
			found = append(found, res)
		}
	}
	return found, nil
}

func (r *FakeResourceRepo) FindAccessPolicies(_ context.Context, resourceIDs []string) ([]*resources.AccessPolicy, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	var found []*resources.AccessPolicy
	for _, id := range resourceIDs {
		found = append(found, r.policies[id]...)
	}
	return found, nil
}
