package settings

import "strings"

// Path addresses a value in the state tree. An empty Setting addresses a
// leaf category.
type Path struct {
	Collection string
	Category   string
	Setting    string
}

// String joins the non-empty segments with dots.
func (p Path) String() string {
	parts := make([]string, 0, 3)
	for _, part := range []string{p.Collection, p.Category, p.Setting} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ".")
}

// ParsePath resolves a dependency reference relative to the node that
// declares it. Three segments name everything explicitly, two take the
// collection from collectionID, one takes both collection and category from
// context. A one-segment reference with an empty categoryID addresses a
// top-level leaf of the collection.
func ParsePath(ref, collectionID, categoryID string) Path {
	segments := strings.Split(ref, ".")
	switch len(segments) {
	case 1:
		if categoryID == "" {
			return Path{Collection: collectionID, Category: segments[0]}
		}
		return Path{Collection: collectionID, Category: categoryID, Setting: segments[0]}
	case 2:
		return Path{Collection: collectionID, Category: segments[0], Setting: segments[1]}
	default:
		return Path{
			Collection: segments[0],
			Category:   segments[1],
			Setting:    strings.Join(segments[2:], "."),
		}
	}
}
