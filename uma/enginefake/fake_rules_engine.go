package enginefake

import (
	"context"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-grant-engine/uma"
)

var _ uma.RulesEngine = (*FakeRulesEngine)(nil)

// FakeRulesEngine is a canned uma.RulesEngine: it rejects the whole evaluation
// as soon as any fired rule's policy id is in RejectPolicyIDs.
type FakeRulesEngine struct {
	RejectPolicyIDs map[string]bool

	// LastRules and LastExecution record the most recent Fire call.
	LastRules     []uma.Rule
	LastExecution *uma.ExecutionContext
}

func NewFakeRulesEngine() *FakeRulesEngine {
	return &FakeRulesEngine{RejectPolicyIDs: make(map[string]bool)}
}

func (e *FakeRulesEngine) Fire(_ context.Context, rules []uma.Rule, execution *uma.ExecutionContext) error {
	e.LastRules = rules
	e.LastExecution = execution
	for _, rule := range rules {
		if e.RejectPolicyIDs[rule.Policy.ID] {
			return errors.Errorf("policy %s rejected the request", rule.Policy.ID)
		}
	}
	return nil
}
