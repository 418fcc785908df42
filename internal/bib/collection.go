package bib

// Collection represents a node in the collection hierarchy. Children is a
// back-reference index rebuilt from ParentID by the hierarchy builder; it
// is never populated directly from input. ItemIDs holds direct membership
// only; ItemCount aggregates the whole subtree.
type Collection struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	ParentID string        `json:"parent_id,omitempty"`
	Children []*Collection `json:"children,omitempty"`
	ItemIDs  []string      `json:"item_ids,omitempty"`

	// Derived: len(AllItemIDs()). Maintained by the hierarchy builder.
	ItemCount int `json:"item_count"`
}

// AllItemIDs returns the union of this collection's direct item IDs and
// those of all descendants, duplicates removed, in first-seen order.
func (c *Collection) AllItemIDs() []string {
	seen := make(map[string]struct{})
	var ids []string
	c.collectItemIDs(seen, &ids)
	return ids
}

func (c *Collection) collectItemIDs(seen map[string]struct{}, ids *[]string) {
	for _, id := range c.ItemIDs {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			*ids = append(*ids, id)
		}
	}
	for _, child := range c.Children {
		child.collectItemIDs(seen, ids)
	}
}

// HasItem reports whether the given item ID is in direct membership.
func (c *Collection) HasItem(itemID string) bool {
	for _, id := range c.ItemIDs {
		if id == itemID {
			return true
		}
	}
	return false
}

// Depth returns the height of the subtree rooted at this collection,
// counting this collection as 1.
func (c *Collection) Depth() int {
	deepest := 1
	for _, child := range c.Children {
		if d := child.Depth() + 1; d > deepest {
			deepest = d
		}
	}
	return deepest
}
