package auth

// Rule is one denial rule of the access policy. Rules are mutually exclusive:
// each applies to a single requester tier.
type Rule struct {
	Name   string
	Denies func(requester, target *Identity) bool
}

// RuleSuperuserPeer denies a super-user acting on another super-user.
var RuleSuperuserPeer = Rule{
	Name: "superuser-peer",
	Denies: func(requester, target *Identity) bool {
		return requester.IsSuperuser &&
			target.IsSuperuser &&
			requester.UserID != target.UserID
	},
}

// RuleStaffPeer denies a staff member acting on another staff member or a
// super-user.
var RuleStaffPeer = Rule{
	Name: "staff-peer",
	Denies: func(requester, target *Identity) bool {
		return !requester.IsSuperuser &&
			requester.IsStaff &&
			(target.IsStaff || target.IsSuperuser) &&
			requester.UserID != target.UserID
	},
}

// RulePlainOther denies a plain user acting on anyone but themselves.
var RulePlainOther = Rule{
	Name: "plain-other",
	Denies: func(requester, target *Identity) bool {
		return !requester.IsSuperuser &&
			!requester.IsStaff &&
			requester.UserID != target.UserID
	},
}

// RuleAnonymous denies requests without an identity. It is evaluated before
// the tier rules.
const RuleAnonymous = "anonymous"

// Decision is the outcome of an access check. Rule names the denying rule and
// is empty when the action is allowed.
type Decision struct {
	Allowed bool
	Rule    string
}

// AccessPolicy decides whether a requester may view or modify another user's
// record. The first rule that denies wins; if none does, the action is allowed.
type AccessPolicy struct {
	rules []Rule
}

// NewAccessPolicy creates the owner/staff/super-user policy.
func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{
		rules: []Rule{RuleSuperuserPeer, RuleStaffPeer, RulePlainOther},
	}
}

// Evaluate returns the decision for requester acting on target.
func (p *AccessPolicy) Evaluate(requester, target *Identity) Decision {
	if requester == nil || target == nil {
		return Decision{Allowed: false, Rule: RuleAnonymous}
	}

	for _, rule := range p.rules {
		if rule.Denies(requester, target) {
			return Decision{Allowed: false, Rule: rule.Name}
		}
	}

	return Decision{Allowed: true}
}

// CanActOn reports whether requester may view or modify target.
func (p *AccessPolicy) CanActOn(requester, target *Identity) bool {
	d := p.Evaluate(requester, target)
	observeDecision(d)
	return d.Allowed
}
