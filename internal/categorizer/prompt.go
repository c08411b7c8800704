package categorizer

import (
	"fmt"
	"strconv"
	"strings"
)

// SystemPrompt is sent as the system instruction by providers that support one.
const SystemPrompt = "You are an expense categorization assistant. You MUST respond with ONLY a valid JSON object. " +
	"Do not include any explanatory text, markdown formatting, or commentary before or after the JSON."

// BuildBatchPrompt renders the user prompt for one batch. Each transaction is
// listed with its row ID so results can be matched by ID rather than position.
func BuildBatchPrompt(req BatchRequest) string {
	var b strings.Builder

	b.WriteString("You are an expense categorization assistant.\n\n")
	b.WriteString("Classify each transaction into ONE of the categories below.\n\n")

	b.WriteString("Categories:\n")
	for _, c := range req.Categories {
		if c.Description != "" {
			fmt.Fprintf(&b, "- %s: %s\n", c.Name, c.Description)
		} else {
			fmt.Fprintf(&b, "- %s\n", c.Name)
		}
	}

	b.WriteString("\nTransactions:\n")
	for _, item := range req.Items {
		fmt.Fprintf(&b, "%d: %s\n", item.ID, strconv.Quote(item.Description))
	}

	b.WriteString(`
Respond ONLY in valid JSON format:

{
  "results": [
    {
      "id": <transaction id>,
      "category": "<one category>",
      "confidence": <0 to 1>
    }
  ]
}
`)
	return b.String()
}
