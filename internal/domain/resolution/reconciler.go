package resolution

import "sort"

// Verdict is the reconciler's decision over one hit set.
type Verdict struct {
	// Candidate is the top-ranked semantic answer, valid when Found.
	Candidate ResolvedAnswer
	Found     bool
	// Accepted reports whether the candidate cleared the certainty gate.
	Accepted bool
}

// Reconciler normalizes heterogeneous hits into one best-answer decision.
type Reconciler struct {
	threshold float64
}

// NewReconciler constructs a reconciler with the given certainty gate.
func NewReconciler(threshold float64) *Reconciler {
	return &Reconciler{threshold: threshold}
}

// Reconcile ranks the hit set by descending certainty, ties resolved by
// input order, and selects the winner. Malformed hits are discarded, never
// fatal. A hit from an inverted class is an equally valid answer source;
// it just matched on question similarity alone.
func (r *Reconciler) Reconcile(hits []RetrievalHit) Verdict {
	valid := hits[:0:0]
	for _, hit := range hits {
		if hit.Question == "" || hit.Answer == "" || hit.Certainty <= 0 {
			continue
		}
		valid = append(valid, hit)
	}
	if len(valid) == 0 {
		return Verdict{}
	}

	sort.SliceStable(valid, func(i, j int) bool {
		return valid[i].Certainty > valid[j].Certainty
	})

	top := valid[0]
	certainty := top.Certainty
	return Verdict{
		Candidate: ResolvedAnswer{
			Text:      top.Answer,
			Source:    SourceSemantic,
			Certainty: &certainty,
		},
		Found:    true,
		Accepted: certainty >= r.threshold,
	}
}
