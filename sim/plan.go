package sim

// Plan splits nEvents into at most maxChunks calls of roughly
// eventsPerCall events each. Sizes differ by at most one, larger chunks
// first, and sum to nEvents. eventsPerCall below one is treated as one;
// maxChunks below one places no cap. Plan returns nil for nEvents <= 0.
func Plan(nEvents, eventsPerCall, maxChunks int) []int {
	if nEvents <= 0 {
		return nil
	}
	eventsPerCall = max(1, eventsPerCall)

	calls := (nEvents + eventsPerCall - 1) / eventsPerCall
	if maxChunks > 0 {
		calls = min(calls, maxChunks)
	}

	base, rem := nEvents/calls, nEvents%calls
	plan := make([]int, calls)
	for i := range plan {
		plan[i] = base
		if i < rem {
			plan[i]++
		}
	}
	return plan
}
