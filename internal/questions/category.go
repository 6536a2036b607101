package questions

import "fmt"

// Category is a fixed trivia category. ID is the two-digit code that
// prefixes every question id in the category.
type Category struct {
	ID   string
	Name string
}

var categories = []Category{
	{"01", "General Knowledge"},
	{"02", "Literature & Linguistics"},
	{"03", "History & Culture"},
	{"04", "Geography & Countries"},
	{"05", "Science & Technology"},
	{"06", "Arts & Cinema"},
	{"07", "Sports & Games"},
	{"08", "Pop Culture & Media"},
	{"09", "Religion & Philosophy"},
	{"10", "Economy & Business"},
	{"11", "Everyday Life & Lifestyle"},
	{"12", "Mythology & Folklore"},
	{"13", "Brain Teasers & Riddles"},
}

// Categories returns all categories ordered by code.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// LookupCategory returns the category with the given code.
func LookupCategory(id string) (Category, error) {
	for _, c := range categories {
		if c.ID == id {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("unknown category %q", id)
}
