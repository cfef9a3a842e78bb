package model

import "regexp"

// CategoryID identifies one of the fixed expense categories.
type CategoryID string

// The closed set of expense categories. CategoryCustom doubles as the
// fallback for anything the fixed set does not cover.
const (
	CategoryFood          CategoryID = "food"
	CategoryTravel        CategoryID = "travel"
	CategoryBills         CategoryID = "bills"
	CategoryShopping      CategoryID = "shopping"
	CategoryEntertainment CategoryID = "entertainment"
	CategoryHealth        CategoryID = "health"
	CategoryCustom        CategoryID = "custom"
)

// Category carries the display metadata for a category.
type Category struct {
	ID    CategoryID
	Name  string
	Icon  string
	Color string
}

// categories is the canonical ordered table. The custom entry is last so
// CategoryByID can fall back to it.
var categories = []Category{
	{ID: CategoryFood, Name: "Food", Icon: "🍔", Color: "#f59e0b"},
	{ID: CategoryTravel, Name: "Travel", Icon: "🚗", Color: "#3b82f6"},
	{ID: CategoryBills, Name: "Bills", Icon: "💡", Color: "#ef4444"},
	{ID: CategoryShopping, Name: "Shopping", Icon: "🛍️", Color: "#ec4899"},
	{ID: CategoryEntertainment, Name: "Entertainment", Icon: "🎬", Color: "#8b5cf6"},
	{ID: CategoryHealth, Name: "Health", Icon: "💊", Color: "#10b981"},
	{ID: CategoryCustom, Name: "Custom", Icon: "✏️", Color: "#6b7280"},
}

// Categories returns the category table in canonical order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// CategoryByID looks up a category's metadata. Unknown ids map to the
// custom entry rather than failing.
func CategoryByID(id CategoryID) Category {
	for _, c := range categories {
		if c.ID == id {
			return c
		}
	}
	return categories[len(categories)-1]
}

// Valid reports whether id is a member of the fixed category set.
func (id CategoryID) Valid() bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

var categoryPatterns = []struct {
	re *regexp.Regexp
	id CategoryID
}{
	{regexp.MustCompile(`(?i)lunch|dinner|breakfast|food|restaurant|cafe|coffee|meal|snack|grocery`), CategoryFood},
	{regexp.MustCompile(`(?i)uber|taxi|bus|train|flight|fuel|gas|parking|toll`), CategoryTravel},
	{regexp.MustCompile(`(?i)rent|electricity|water|internet|phone|bill|utility|subscription`), CategoryBills},
	{regexp.MustCompile(`(?i)shopping|clothes|amazon|flipkart|electronics|gadget`), CategoryShopping},
	{regexp.MustCompile(`(?i)movie|netflix|spotify|game|concert|party|entertainment`), CategoryEntertainment},
	{regexp.MustCompile(`(?i)doctor|medicine|pharmacy|hospital|gym|fitness|health`), CategoryHealth},
}

// DetectCategory guesses a category from free-text notes. Text matching no
// keyword falls through to custom.
func DetectCategory(notes string) CategoryID {
	for _, p := range categoryPatterns {
		if p.re.MatchString(notes) {
			return p.id
		}
	}
	return CategoryCustom
}
