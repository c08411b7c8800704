package analyze_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/expense-audit/cmd/analyze"
	"fjacquet/expense-audit/internal/config"
	"fjacquet/expense-audit/internal/container"
	"fjacquet/expense-audit/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `date,amount,description
2024-06-15,4999.99,Amazon
2024-06-15,4999.99,Amazon
2024-07-01,450,Uber trip to airport
`

func newTestContainer(t *testing.T) *container.Container {
	t.Helper()
	cfg := &config.Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.CSV.Delimiter = ","
	cfg.Categories.File = filepath.Join(t.TempDir(), "categories.yaml")
	cfg.Classifier.Provider = config.ProviderGemini
	cfg.Classifier.BatchSize = 20
	cfg.Classifier.TimeoutSeconds = 5
	cfg.Anomaly.CategoryZThreshold = 2.5
	cfg.Anomaly.GlobalZThreshold = 3.0
	cfg.Anomaly.MinCategorySamples = 5
	cfg.Report.Currency = "INR"
	cfg.Report.TopN = 5

	c, err := container.NewContainer(context.Background(), cfg,
		container.WithLogger(logging.NewMockLogger()), container.WithClassifier(nil))
	require.NoError(t, err)
	return c
}

func TestAnalyzeCommand_Metadata(t *testing.T) {
	assert.Equal(t, "analyze", analyze.Cmd.Use)
	assert.Contains(t, analyze.Cmd.Short, "flag anomalies")
	assert.NotNil(t, analyze.Cmd.RunE)
}

func TestRun_DerivedOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "expenses.csv")
	require.NoError(t, os.WriteFile(input, []byte(sampleCSV), 0600))

	var out, errOut bytes.Buffer
	require.NoError(t, analyze.Run(context.Background(), newTestContainer(t), input, "", nil, &out, &errOut))

	content, err := os.ReadFile(filepath.Join(dir, "expenses_processed.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "Potential duplicate transaction detected.")

	assert.Contains(t, out.String(), "Total spend:")
	assert.Contains(t, out.String(), "10449.98 INR")
	assert.Contains(t, out.String(), "1 duplicates")
	assert.Empty(t, errOut.String())
}

func TestRun_Stdout(t *testing.T) {
	var out, errOut bytes.Buffer
	err := analyze.Run(context.Background(), newTestContainer(t), "-", "", strings.NewReader(sampleCSV), &out, &errOut)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out.String(), "id,date,amount"))
	assert.NotContains(t, out.String(), "Total spend:")
	assert.Contains(t, errOut.String(), "Total spend:")
}
