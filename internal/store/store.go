// Package store provides functionality for storing and retrieving the category set.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fjacquet/expense-audit/internal/logging"
	"fjacquet/expense-audit/internal/models"

	"gopkg.in/yaml.v3"
)

// DefaultCategoriesFile is looked up when no explicit file is configured.
const DefaultCategoriesFile = "categories.yaml"

// CategoryStore manages loading and saving of category data
type CategoryStore struct {
	CategoriesFile string
	logger         logging.Logger
}

// NewCategoryStore creates a new store for category data
func NewCategoryStore(categoriesFile string, logger logging.Logger) *CategoryStore {
	return &CategoryStore{
		CategoriesFile: categoriesFile,
		logger:         logging.OrNop(logger),
	}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *CategoryStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join(".expense-audit", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		configPath := filepath.Join(homeDir, ".expense-audit", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

func (s *CategoryStore) filename() string {
	if s.CategoriesFile == "" {
		return DefaultCategoriesFile
	}
	return s.CategoriesFile
}

// LoadCategories loads category configs from the YAML file. A missing file
// yields an empty slice and no error.
func (s *CategoryStore) LoadCategories() ([]models.CategoryConfig, error) {
	filename := s.filename()

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("Categories file not found", logging.Field{Key: logging.FieldFile, Value: filename})
			return []models.CategoryConfig{}, nil
		}
		return nil, fmt.Errorf("error resolving categories file: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading categories file: %w", err)
	}

	// "categories: [...]"
	var categoriesConfig models.CategoriesConfig
	if err := yaml.Unmarshal(data, &categoriesConfig); err == nil && len(categoriesConfig.Categories) > 0 {
		s.logLoaded(filePath, len(categoriesConfig.Categories))
		return categoriesConfig.Categories, nil
	}

	// A bare list without the top-level key
	var categories []models.CategoryConfig
	if err := yaml.Unmarshal(data, &categories); err == nil && len(categories) > 0 {
		s.logLoaded(filePath, len(categories))
		return categories, nil
	}

	categories, err = parseCategoryMap(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing categories file %s: %w", filePath, err)
	}
	s.logLoaded(filePath, len(categories))
	return categories, nil
}

func (s *CategoryStore) logLoaded(path string, n int) {
	s.logger.Debug("Loaded categories",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: n})
}

// parseCategoryMap reads the compact form
//
//	Travel: [uber, ola]
//	Meals:
//	  description: Restaurants
//	  keywords: [kfc]
//
// keeping document order, which is the order rules are tried in.
func parseCategoryMap(data []byte) ([]models.CategoryConfig, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return []models.CategoryConfig{}, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("unsupported categories layout at line %d", root.Line)
	}

	categories := make([]models.CategoryConfig, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		category := models.CategoryConfig{Name: root.Content[i].Value}
		value := root.Content[i+1]

		switch value.Kind {
		case yaml.ScalarNode:
			category.Description = value.Value
		case yaml.SequenceNode:
			if err := value.Decode(&category.Keywords); err != nil {
				return nil, fmt.Errorf("category %q: %w", category.Name, err)
			}
		case yaml.MappingNode:
			var body struct {
				Description string   `yaml:"description"`
				Keywords    []string `yaml:"keywords"`
			}
			if err := value.Decode(&body); err != nil {
				return nil, fmt.Errorf("category %q: %w", category.Name, err)
			}
			category.Description = body.Description
			category.Keywords = body.Keywords
		}

		categories = append(categories, category)
	}
	return categories, nil
}

// LoadCategorySet loads and validates the category set. When the file is
// missing or empty the built-in defaults are used.
func (s *CategoryStore) LoadCategorySet() (models.CategorySet, error) {
	configs, err := s.LoadCategories()
	if err != nil {
		return models.CategorySet{}, err
	}
	if len(configs) == 0 {
		s.logger.Info("Using built-in categories")
		return models.DefaultCategorySet(), nil
	}

	set, err := models.NewCategorySet(configs)
	if err != nil {
		return models.CategorySet{}, fmt.Errorf("invalid categories file %s: %w", s.filename(), err)
	}
	return set, nil
}

// SaveCategorySet writes the set to path in the "categories: [...]" layout.
// An empty path writes to the configured file.
func (s *CategoryStore) SaveCategorySet(set models.CategorySet, path string) error {
	if strings.TrimSpace(path) == "" {
		path = s.filename()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
			return fmt.Errorf("error creating directory: %w", err)
		}
	}

	data, err := yaml.Marshal(models.CategoriesConfig{Categories: set.Configs()})
	if err != nil {
		return fmt.Errorf("error marshaling categories: %w", err)
	}

	if err := os.WriteFile(path, data, models.PermissionConfigFile); err != nil {
		return fmt.Errorf("error writing categories: %w", err)
	}

	s.logger.Debug("Saved categories",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: set.Len()})
	return nil
}
