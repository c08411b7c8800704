// Package container provides dependency injection for the expense-audit application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"fmt"
	"io"
	"time"

	"fjacquet/expense-audit/internal/anomaly"
	"fjacquet/expense-audit/internal/categorizer"
	"fjacquet/expense-audit/internal/config"
	"fjacquet/expense-audit/internal/logging"
	"fjacquet/expense-audit/internal/models"
	"fjacquet/expense-audit/internal/report"
	"fjacquet/expense-audit/internal/store"
	"fjacquet/expense-audit/internal/validation"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger       logging.Logger
	config       *config.Config
	store        store.CategorySetLoader
	categories   models.CategorySet
	classifier   categorizer.Classifier
	categorizer  *categorizer.Categorizer
	detector     *anomaly.Detector
	preprocessor *validation.Preprocessor
	reports      *report.Generator
}

// Option overrides a dependency before wiring.
type Option func(*options)

type options struct {
	logger        logging.Logger
	classifier    categorizer.Classifier
	classifierSet bool
	store         store.CategorySetLoader
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithClassifier replaces the provider-backed classifier. A nil classifier
// disables the batch pass.
func WithClassifier(c categorizer.Classifier) Option {
	return func(o *options) {
		o.classifier = c
		o.classifierSet = true
	}
}

// WithCategoryStore replaces the file-backed category store.
func WithCategoryStore(s store.CategorySetLoader) Option {
	return func(o *options) { o.store = s }
}

// NewContainer creates and wires all application dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Create logger first as it's needed by other components
	logger := o.logger
	if logger == nil {
		logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}

	categoryStore := o.store
	if categoryStore == nil {
		categoryStore = store.NewCategoryStore(cfg.Categories.File, logger)
	}
	categories, err := categoryStore.LoadCategorySet()
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	classifier := o.classifier
	if !o.classifierSet {
		classifier, err = newClassifier(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
	}

	cat := categorizer.NewCategorizer(categories, classifier, logger,
		categorizer.WithBatchSize(cfg.Classifier.BatchSize),
		categorizer.WithTimeout(time.Duration(cfg.Classifier.TimeoutSeconds)*time.Second),
		categorizer.WithProviderName(cfg.Classifier.Provider))

	detector := anomaly.NewDetector(anomaly.Options{
		CategoryZThreshold: cfg.Anomaly.CategoryZThreshold,
		GlobalZThreshold:   cfg.Anomaly.GlobalZThreshold,
		MinCategorySamples: cfg.Anomaly.MinCategorySamples,
	}, logger)

	logger.Info("Container initialized successfully",
		logging.Field{Key: "categories_count", Value: categories.Len()},
		logging.Field{Key: "classifier_enabled", Value: classifier != nil})

	return &Container{
		logger:       logger,
		config:       cfg,
		store:        categoryStore,
		categories:   categories,
		classifier:   classifier,
		categorizer:  cat,
		detector:     detector,
		preprocessor: validation.NewPreprocessor(cfg.CSV.DateFormat, logger),
		reports:      report.NewGenerator(logger),
	}, nil
}

func newClassifier(ctx context.Context, cfg *config.Config, logger logging.Logger) (categorizer.Classifier, error) {
	if !cfg.ClassifierReady() {
		logger.Info("Classifier disabled, unmatched transactions fall back to Other",
			logging.Field{Key: "enabled", Value: cfg.Classifier.Enabled},
			logging.Field{Key: logging.FieldProvider, Value: cfg.Classifier.Provider})
		return nil, nil
	}

	classifier, err := categorizer.NewClassifier(ctx, categorizer.ClientConfig{
		Provider:          cfg.Classifier.Provider,
		Model:             cfg.Classifier.Model,
		APIKey:            cfg.Classifier.APIKey,
		BaseURL:           cfg.Classifier.BaseURL,
		MaxTokens:         cfg.Classifier.MaxTokens,
		RequestsPerMinute: cfg.Classifier.RequestsPerMinute,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create classifier: %w", err)
	}

	logger.Info("Classifier enabled",
		logging.Field{Key: logging.FieldProvider, Value: cfg.Classifier.Provider},
		logging.Field{Key: logging.FieldModel, Value: cfg.Classifier.Model})
	return classifier, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetStore returns the category store.
func (c *Container) GetStore() store.CategorySetLoader {
	return c.store
}

// GetCategories returns the loaded category set.
func (c *Container) GetCategories() models.CategorySet {
	return c.categories
}

// GetClassifier returns the classifier, or nil when the batch pass is disabled.
func (c *Container) GetClassifier() categorizer.Classifier {
	return c.classifier
}

// GetCategorizer returns the container's categorizer instance.
func (c *Container) GetCategorizer() *categorizer.Categorizer {
	return c.categorizer
}

// GetDetector returns the anomaly detector.
func (c *Container) GetDetector() *anomaly.Detector {
	return c.detector
}

// GetPreprocessor returns the input preprocessor.
func (c *Container) GetPreprocessor() *validation.Preprocessor {
	return c.preprocessor
}

// GetReportGenerator returns the report generator.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.reports
}

// Close releases the classifier's connections, if any.
func (c *Container) Close() error {
	if closer, ok := c.classifier.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("failed to close classifier: %w", err)
		}
	}
	c.logger.Debug("Container closed")
	return nil
}
