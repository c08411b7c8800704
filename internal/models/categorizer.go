package models

import (
	"fmt"
	"strings"
)

// CategoryOther is the fallback label. It is always part of a CategorySet.
const CategoryOther = "Other"

// Category represents a transaction category
type Category struct {
	Name        string
	Description string
}

// CategoryConfig represents a category configuration in the YAML file
type CategoryConfig struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Keywords    []string `yaml:"keywords,omitempty"`
}

// CategoriesConfig represents the structure of the categories YAML file
type CategoriesConfig struct {
	Categories []CategoryConfig `yaml:"categories"`
}

// CategorySet is the closed, ordered enumeration of labels together with the
// merchant keywords used by the rule matcher. It is immutable once built;
// accessors hand out copies.
type CategorySet struct {
	categories []CategoryConfig
	index      map[string]int
}

// NewCategorySet validates the configs and builds a set. Keywords are
// lowercased and trimmed. "Other" is appended when missing.
func NewCategorySet(configs []CategoryConfig) (CategorySet, error) {
	set := CategorySet{index: make(map[string]int, len(configs)+1)}

	for _, cfg := range configs {
		name := strings.TrimSpace(cfg.Name)
		if name == "" {
			return CategorySet{}, fmt.Errorf("category name cannot be empty")
		}
		if _, dup := set.index[name]; dup {
			return CategorySet{}, fmt.Errorf("duplicate category %q", name)
		}

		keywords := make([]string, 0, len(cfg.Keywords))
		for _, kw := range cfg.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw != "" {
				keywords = append(keywords, kw)
			}
		}

		set.index[name] = len(set.categories)
		set.categories = append(set.categories, CategoryConfig{
			Name:        name,
			Description: strings.TrimSpace(cfg.Description),
			Keywords:    keywords,
		})
	}

	if _, ok := set.index[CategoryOther]; !ok {
		set.index[CategoryOther] = len(set.categories)
		set.categories = append(set.categories, CategoryConfig{
			Name:        CategoryOther,
			Description: "Uncategorized or unknown expenses",
		})
	}

	return set, nil
}

// Contains reports whether name is a member of the set.
func (s CategorySet) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Len returns the number of categories including "Other".
func (s CategorySet) Len() int {
	return len(s.categories)
}

// Names returns the category labels in enumeration order.
func (s CategorySet) Names() []string {
	names := make([]string, len(s.categories))
	for i, c := range s.categories {
		names[i] = c.Name
	}
	return names
}

// Categories returns name/description pairs in enumeration order.
func (s CategorySet) Categories() []Category {
	out := make([]Category, len(s.categories))
	for i, c := range s.categories {
		out[i] = Category{Name: c.Name, Description: c.Description}
	}
	return out
}

// Configs returns a deep copy of the underlying configuration.
func (s CategorySet) Configs() []CategoryConfig {
	out := make([]CategoryConfig, len(s.categories))
	for i, c := range s.categories {
		out[i] = CategoryConfig{
			Name:        c.Name,
			Description: c.Description,
			Keywords:    append([]string(nil), c.Keywords...),
		}
	}
	return out
}

// Describe returns the description of a category, or "" if unknown.
func (s CategorySet) Describe(name string) string {
	i, ok := s.index[name]
	if !ok {
		return ""
	}
	return s.categories[i].Description
}
