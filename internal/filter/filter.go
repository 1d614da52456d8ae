// Package filter decides whether a repository is eligible for processing.
//
// The decision is an ordered chain of veto rules. Each rule either denies the
// repository with a reason code or abstains; the first denial decides and a
// repository no rule denies is allowed. Name rules run first, then the hard
// eligibility gates, which veto regardless of any name match.
package filter

import "git.home.luguber.info/inful/docpress/internal/forge"

// Reason is a stable code explaining a filter decision.
type Reason string

const (
	ReasonAllowed         Reason = "allowed"
	ReasonDenyToken       Reason = "deny_token"
	ReasonAllowListMiss   Reason = "allow_list_miss"
	ReasonMissingCloneURL Reason = "missing_clone_url"
	ReasonPrivate         Reason = "private"
	ReasonFork            Reason = "fork"
	ReasonNoIncludes      Reason = "no_includes"
)

// Decision is the outcome of evaluating the rule chain for one repository.
type Decision struct {
	Filtered bool
	Reason   Reason
	// Token is the filter entry that decided, for name rules only.
	Token string
}

// Rule is one veto in the chain. Deny returns true to exclude the
// repository, and optionally the token responsible.
type Rule struct {
	Reason Reason
	Deny   func(repo *forge.EnhancedRepository, tokens Tokens) (bool, string)
}

// Rules returns the chain in evaluation order.
func Rules() []Rule {
	return []Rule{
		{ReasonDenyToken, denyToken},
		{ReasonAllowListMiss, allowListMiss},
		{ReasonMissingCloneURL, func(r *forge.EnhancedRepository, _ Tokens) (bool, string) {
			return r.CloneURL == "", ""
		}},
		{ReasonPrivate, func(r *forge.EnhancedRepository, _ Tokens) (bool, string) {
			return r.Private, ""
		}},
		{ReasonFork, func(r *forge.EnhancedRepository, _ Tokens) (bool, string) {
			return r.Fork, ""
		}},
		// Applies only once the record carries a docpress block.
		{ReasonNoIncludes, func(r *forge.EnhancedRepository, _ Tokens) (bool, string) {
			return r.Docpress != nil && len(r.Docpress.Includes) == 0, ""
		}},
	}
}

func denyToken(r *forge.EnhancedRepository, tokens Tokens) (bool, string) {
	if t, ok := tokens.find(Deny, r.Name); ok {
		return true, t.String()
	}
	return false, ""
}

// allowListMiss denies repositories absent from a non-empty allow list.
// Undenied forks are exempt; they are left to the fork gate.
func allowListMiss(r *forge.EnhancedRepository, tokens Tokens) (bool, string) {
	if tokens.DenyOnly() {
		return false, ""
	}
	if _, ok := tokens.find(Allow, r.Name); ok {
		return false, ""
	}
	if denied, _ := denyToken(r, tokens); r.Fork && !denied {
		return false, ""
	}
	return true, ""
}

// Evaluate runs the rule chain against repo.
func Evaluate(repo *forge.EnhancedRepository, tokens Tokens) Decision {
	for _, rule := range Rules() {
		if deny, token := rule.Deny(repo, tokens); deny {
			return Decision{Filtered: true, Reason: rule.Reason, Token: token}
		}
	}
	return Decision{Reason: ReasonAllowed}
}

// EvaluateRepository evaluates a record that has not been enhanced yet.
func EvaluateRepository(repo *forge.Repository, tokens Tokens) Decision {
	return Evaluate(&forge.EnhancedRepository{Repository: *repo}, tokens)
}

// IsRepoFiltered reports whether repo must be excluded from processing.
func IsRepoFiltered(repo *forge.EnhancedRepository, tokens Tokens) bool {
	return Evaluate(repo, tokens).Filtered
}

// NameStage evaluates the name rules alone. denyMatched is true when a deny
// token names the repository; allowSatisfied is true when the allow list is
// empty, names the repository, or the repository is an undenied fork.
func NameStage(repo *forge.Repository, tokens Tokens) (denyMatched, allowSatisfied bool) {
	r := &forge.EnhancedRepository{Repository: *repo}
	denyMatched, _ = denyToken(r, tokens)
	miss, _ := allowListMiss(r, tokens)
	return denyMatched, !miss
}
