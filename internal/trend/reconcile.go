package trend

// Reconcile overlays rescanned records from fetched onto current. An entry
// is replaced in full, at its own index, only when fetched holds the same
// url with LastScannedAt set; everything else is left as-is. The returned
// slice is a new slice of the same length and order as current. changed
// counts replaced entries.
func Reconcile(current, fetched []VideoItem) (merged []VideoItem, changed int) {
	merged = make([]VideoItem, len(current))
	copy(merged, current)

	if len(fetched) == 0 {
		return merged, 0
	}

	// the first record per url is the match
	fresh := make(map[string]VideoItem, len(fetched))
	for _, f := range fetched {
		if _, ok := fresh[f.URL]; !ok {
			fresh[f.URL] = f
		}
	}

	for i, old := range merged {
		if f, ok := fresh[old.URL]; ok && f.Rescanned() {
			merged[i] = f
			changed++
		}
	}
	return merged, changed
}
