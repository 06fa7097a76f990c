package domain

// Outcome is the result of evaluating a proposal's vote tally.
type Outcome string

const (
	// OutcomePending means no terminal decision yet: quorum not reached, or
	// no decisive majority.
	OutcomePending Outcome = "PENDING"
	// OutcomeVerified means the community accepted the proposal.
	OutcomeVerified Outcome = "VERIFIED"
	// OutcomeRejected means the community rejected the proposal.
	OutcomeRejected Outcome = "REJECTED"
	// OutcomeProtested means at least one reviewer protested; the proposal
	// needs manual resolution and the target entity is left untouched.
	OutcomeProtested Outcome = "PROTESTED"
)

// Tally is the per-kind vote count for one proposal.
type Tally struct {
	Accepts  int
	Rejects  int
	Protests int
}

// Total returns the total number of votes cast.
func (t Tally) Total() int { return t.Accepts + t.Rejects + t.Protests }

// TallyPolicy holds the configurable consensus parameters.
//
// Quorum is the minimum total vote count before automatic resolution is
// considered. Consensus is the minimum fraction of non-protest votes that
// must agree (accept to verify, reject to reject).
type TallyPolicy struct {
	Quorum    int
	Consensus float64
}

// Evaluate decides the outcome of a tally under this policy.
//
// Order matters: a protest short-circuits everything else, then quorum is
// checked, then the accept ratio among accept/reject votes. A tally that
// meets quorum but has no decisive majority stays pending.
func (p TallyPolicy) Evaluate(t Tally) Outcome {
	if t.Protests > 0 {
		return OutcomeProtested
	}
	if t.Total() < p.Quorum {
		return OutcomePending
	}
	decided := t.Accepts + t.Rejects
	if decided == 0 {
		return OutcomePending
	}
	ratio := float64(t.Accepts) / float64(decided)
	if ratio >= p.Consensus {
		return OutcomeVerified
	}
	if 1-ratio >= p.Consensus {
		return OutcomeRejected
	}
	return OutcomePending
}
