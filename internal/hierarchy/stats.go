package hierarchy

// Stats summarizes the built forest. TotalItemAssignments sums direct
// membership without deduplication, so an item in two collections counts
// twice here (unlike ItemCount, which unions).
type Stats struct {
	TotalCollections     int `json:"total_collections"`
	RootCollections      int `json:"root_collections"`
	MaxDepth             int `json:"max_depth"`
	CollectionsWithItems int `json:"collections_with_items"`
	TotalItemAssignments int `json:"total_item_assignments"`
}

// Stats computes summary statistics for the current index. Root depth is 1.
func (b *Builder) Stats() Stats {
	stats := Stats{
		TotalCollections: len(b.byID),
		RootCollections:  len(b.roots),
	}

	for _, root := range b.roots {
		if d := root.Depth(); d > stats.MaxDepth {
			stats.MaxDepth = d
		}
	}

	for _, col := range b.byID {
		if len(col.ItemIDs) > 0 {
			stats.CollectionsWithItems++
			stats.TotalItemAssignments += len(col.ItemIDs)
		}
	}

	return stats
}
