package services

import (
	"errors"
	"sort"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/partner"
)

// ErrNoCandidatesFound is returned when no partner can be ranked for an order.
var ErrNoCandidatesFound = errors.New("no assignment candidates found")

const (
	// loadWeight converts one active order into score units.
	loadWeight = 2.0
	// rejectionWeight converts one same-day rejection into score units.
	rejectionWeight = 1.5
	// recencyPenalty is the maximum anti-hot-spot penalty for a partner who
	// was assigned an instant ago; it decays linearly to zero over recencyWindow.
	recencyPenalty = 5.0
	// recencyWindow is how long a recent assignment keeps penalizing a partner.
	recencyWindow = 15 * time.Minute
)

// CandidateRanker orders delivery partners best-first for order assignment.
//
// The score combines grid distance to the destination, current active load,
// same-day rejections, and a time-decayed penalty for being assigned
// recently, so one well-placed partner does not absorb every order. The
// assignment flow only consumes "next candidate"; callers race on the actual
// conditional assignment and move down the ranking on conflict.
type CandidateRanker struct{}

// NewCandidateRanker creates a CandidateRanker.
func NewCandidateRanker() CandidateRanker {
	return CandidateRanker{}
}

// Rank returns the candidates ordered best-first.
// Partners that fail validation or whose distance cannot be computed are
// skipped rather than failing the whole ranking. Returns ErrNoCandidatesFound
// when nothing rankable remains.
func (CandidateRanker) Rank(destination kernel.Location, candidates []*partner.Partner, now time.Time) ([]*partner.Partner, error) {
	if err := destination.Validate(); err != nil {
		return nil, err
	}

	type scored struct {
		p     *partner.Partner
		score float64
	}

	ranked := make([]scored, 0, len(candidates))
	for _, p := range candidates {
		if err := p.Validate(); err != nil {
			continue
		}

		distance, err := p.Location().Distance(destination)
		if err != nil {
			continue
		}

		score := float64(distance) +
			loadWeight*float64(p.ActiveLoad()) +
			rejectionWeight*float64(p.RejectionsOn(now))

		if last := p.LastAssignedAt(); last != nil {
			elapsed := now.Sub(*last)
			if elapsed < recencyWindow {
				score += recencyPenalty * (1 - float64(elapsed)/float64(recencyWindow))
			}
		}

		ranked = append(ranked, scored{p: p, score: score})
	}

	if len(ranked) == 0 {
		return nil, ErrNoCandidatesFound
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score < ranked[j].score
	})

	result := make([]*partner.Partner, len(ranked))
	for i, s := range ranked {
		result[i] = s.p
	}

	return result, nil
}
