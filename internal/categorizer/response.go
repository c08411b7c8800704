package categorizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"fjacquet/expense-audit/internal/models"
	"fjacquet/expense-audit/internal/parsererror"
)

var errMissingResults = errors.New(`payload has no "results" array`)

type batchPayload struct {
	Results *[]json.RawMessage `json:"results"`
}

type resultRecord struct {
	ID         *json.Number `json:"id"`
	Category   *string      `json:"category"`
	Confidence *float64     `json:"confidence"`
}

// ParseBatchResponse decodes a classifier payload for req.
//
// An undecodable payload returns a *parsererror.BatchDecodeError and no
// results. Otherwise each record is validated on its own: the ID must belong
// to the batch and appear once, the category must be in set and the
// confidence must lie in [0,1]. Records failing any check are returned as
// rejections and the rest are kept in payload order.
func ParseBatchResponse(payload string, req BatchRequest, set models.CategorySet) ([]ClassificationResult, []*parsererror.RecordError, error) {
	cleaned := cleanMarkdownWrapper(payload)

	var decoded batchPayload
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return nil, nil, &parsererror.BatchDecodeError{
			Batch:   req.Index,
			Snippet: parsererror.Snippet(payload, 120),
			Err:     err,
		}
	}
	if decoded.Results == nil {
		return nil, nil, &parsererror.BatchDecodeError{
			Batch:   req.Index,
			Snippet: parsererror.Snippet(payload, 120),
			Err:     errMissingResults,
		}
	}

	allowed := req.IDs()
	seen := make(map[int]struct{}, len(allowed))

	var results []ClassificationResult
	var rejected []*parsererror.RecordError

	for i, raw := range *decoded.Results {
		result, reason := validateRecord(raw, allowed, seen, set)
		if reason != "" {
			rejected = append(rejected, &parsererror.RecordError{Index: i, ID: result.ID, Reason: reason})
			continue
		}
		seen[result.ID] = struct{}{}
		results = append(results, result)
	}

	return results, rejected, nil
}

func validateRecord(raw json.RawMessage, allowed, seen map[int]struct{}, set models.CategorySet) (ClassificationResult, string) {
	var rec resultRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return ClassificationResult{ID: -1}, fmt.Sprintf("malformed record: %v", err)
	}

	if rec.ID == nil {
		return ClassificationResult{ID: -1}, "missing id"
	}
	id, ok := integralID(*rec.ID)
	if !ok {
		return ClassificationResult{ID: -1}, fmt.Sprintf("id %q is not an integer", rec.ID.String())
	}
	result := ClassificationResult{ID: id}

	if _, ok := allowed[id]; !ok {
		return result, "id not in batch"
	}
	if _, dup := seen[id]; dup {
		return result, "id already classified in this batch"
	}

	if rec.Category == nil {
		return result, "missing category"
	}
	if !set.Contains(*rec.Category) {
		return result, fmt.Sprintf("unknown category %q", *rec.Category)
	}

	if rec.Confidence == nil {
		return result, "missing confidence"
	}
	c := *rec.Confidence
	if math.IsNaN(c) || c < 0 || c > 1 {
		return result, fmt.Sprintf("confidence %v outside [0,1]", c)
	}

	result.Category = *rec.Category
	result.Confidence = c
	return result, ""
}

// integralID accepts 3 and 3.0 but not 3.5.
func integralID(n json.Number) (int, bool) {
	if i, err := n.Int64(); err == nil {
		return int(i), true
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// cleanMarkdownWrapper strips a ```json ... ``` fence around a payload.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	content = strings.TrimPrefix(content, "```")
	if nl := strings.IndexByte(content, '\n'); nl >= 0 {
		// drop the language tag line, e.g. "json"
		if tag := strings.TrimSpace(content[:nl]); !strings.HasPrefix(tag, "{") {
			content = content[nl+1:]
		}
	}
	content = strings.TrimSpace(content)
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
