package auth

import (
	"go.uber.org/zap"

	"github.com/spec-kit/circa-backend/internal/domain"
)

// Operation identifies a mutation kind evaluated by the policy.
type Operation string

const (
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Decision is the outcome of a policy evaluation. The reason is kept for
// audit logging only; callers observe nothing beyond allowed/denied.
type Decision struct {
	Allowed bool
	Reason  string
}

type targetScope int

const (
	anyTarget targetScope = iota
	selfTarget
	otherTarget
)

// rule matches on caller role, target ownership and operation. Zero values
// for role and op act as wildcards.
type rule struct {
	role   domain.Role
	scope  targetScope
	op     Operation
	allow  bool
	reason string
}

func (r rule) matches(role domain.Role, scope targetScope, op Operation) bool {
	if r.role != "" && r.role != role {
		return false
	}
	if r.scope != anyTarget && r.scope != scope {
		return false
	}
	if r.op != "" && r.op != op {
		return false
	}
	return true
}

// mutationRules is the static rule table for user mutations. Rules are
// evaluated in order and the first match wins; no match denies.
var mutationRules = []rule{
	{role: domain.RoleAdmin, allow: true, reason: "admin may mutate any user"},
	{role: domain.RoleOrganizer, op: OpUpdate, allow: true, reason: "organizer may update any user"},
	{role: domain.RoleOrganizer, scope: otherTarget, op: OpDelete, allow: false, reason: "organizer may not delete other users"},
	{scope: selfTarget, allow: true, reason: "owner may mutate own record"},
}

// Policy decides whether a caller may perform a mutation on a target user
// record. Evaluation is a pure function of its inputs.
type Policy struct {
	rules  []rule
	logger *zap.Logger
}

// NewPolicy builds the policy around the static mutation rule table.
func NewPolicy(logger *zap.Logger) *Policy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Policy{rules: mutationRules, logger: logger}
}

// Authorize evaluates the rule table for the caller's claims against the
// owner of the target record.
func (p *Policy) Authorize(claims *Claims, targetOwnerID string, op Operation) Decision {
	if claims == nil {
		return Decision{Allowed: false, Reason: "no verified claims"}
	}

	scope := otherTarget
	if claims.Subject == targetOwnerID {
		scope = selfTarget
	}

	decision := Decision{Allowed: false, Reason: "no rule permits this operation"}
	for _, r := range p.rules {
		if r.matches(claims.Role, scope, op) {
			decision = Decision{Allowed: r.allow, Reason: r.reason}
			break
		}
	}

	p.logger.Debug("authorization evaluated",
		zap.String("subject", claims.Subject),
		zap.String("role", string(claims.Role)),
		zap.String("target", targetOwnerID),
		zap.String("operation", string(op)),
		zap.Bool("allowed", decision.Allowed),
		zap.String("reason", decision.Reason))

	return decision
}
