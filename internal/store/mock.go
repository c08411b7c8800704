package store

import (
	"fjacquet/expense-audit/internal/models"
)

// CategorySetLoader is what the application needs from a category store.
type CategorySetLoader interface {
	LoadCategorySet() (models.CategorySet, error)
	SaveCategorySet(set models.CategorySet, path string) error
}

// MockCategoryStore is a mock implementation of CategoryStore for testing.
type MockCategoryStore struct {
	Categories []models.CategoryConfig
	Saved      map[string]models.CategorySet

	// Error flags for testing error conditions
	LoadError error
	SaveError error
}

// LoadCategorySet builds a set from the mock categories, or the defaults when empty.
func (m *MockCategoryStore) LoadCategorySet() (models.CategorySet, error) {
	if m.LoadError != nil {
		return models.CategorySet{}, m.LoadError
	}
	if len(m.Categories) == 0 {
		return models.DefaultCategorySet(), nil
	}
	return models.NewCategorySet(m.Categories)
}

// SaveCategorySet records the set under path.
func (m *MockCategoryStore) SaveCategorySet(set models.CategorySet, path string) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	if m.Saved == nil {
		m.Saved = make(map[string]models.CategorySet)
	}
	m.Saved[path] = set
	return nil
}

var (
	_ CategorySetLoader = (*CategoryStore)(nil)
	_ CategorySetLoader = (*MockCategoryStore)(nil)
)
