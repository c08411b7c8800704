package categorizer

import (
	"strings"
	"testing"

	"fjacquet/expense-audit/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestBuildBatchPrompt(t *testing.T) {
	req := BatchRequest{
		Categories: []models.Category{
			{Name: "Travel", Description: "Flights, taxis"},
			{Name: "Other"},
		},
		Items: []BatchItem{
			{ID: 12, Description: `Zomato "late" order`},
			{ID: 40, Description: "Swiggy"},
		},
	}

	prompt := BuildBatchPrompt(req)

	assert.Contains(t, prompt, "- Travel: Flights, taxis\n")
	assert.Contains(t, prompt, "- Other\n")
	assert.Contains(t, prompt, `12: "Zomato \"late\" order"`)
	assert.Contains(t, prompt, `40: "Swiggy"`)
	assert.Contains(t, prompt, `"results"`)
	assert.Less(t, strings.Index(prompt, "12:"), strings.Index(prompt, "40:"))
}

