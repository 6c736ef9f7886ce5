package freqlat

import set3 "github.com/TomTonic/Set3"

// TransitionPlan returns every ordered pair of distinct frequencies advertised
// for coreID, shuffled with a DPRNG seeded by seed (0 picks a random seed) so
// that drift over a long session does not line up with one frequency.
// Frequencies listed twice by the driver are only used once.
func TransitionPlan(cat *Catalog, coreID int, seed uint64) []Transition {
	all := cat.Frequencies(coreID)
	seen := set3.EmptyWithCapacity[Frequency](uint32(len(all)))
	freqs := make([]Frequency, 0, len(all))
	for _, f := range all {
		if !seen.Contains(f) {
			seen.Add(f)
			freqs = append(freqs, f)
		}
	}

	plan := make([]Transition, 0, len(freqs)*len(freqs))
	for _, from := range freqs {
		for _, to := range freqs {
			if from != to {
				plan = append(plan, Transition{From: from, To: to})
			}
		}
	}
	rng := NewDPRNG(seed)
	rng.Shuffle(len(plan), func(i, j int) { plan[i], plan[j] = plan[j], plan[i] })
	return plan
}
