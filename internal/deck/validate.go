package deck

import (
	"encoding/json"
	"fmt"
	"math"
)

// Validate checks a deck for structural completeness before it is persisted.
// It never mutates the deck; an empty result means the deck is valid.
func Validate(d *Deck) []string {
	if d == nil {
		return []string{"deck must be an object"}
	}

	var errs []string
	if d.Name == "" {
		errs = append(errs, "deck name is required")
	}
	if d.Format == "" {
		errs = append(errs, "deck format is required")
	}
	if d.Mainboard == nil {
		errs = append(errs, "mainboard must be an array")
	}
	if d.Sideboard == nil {
		errs = append(errs, "sideboard must be an array")
	}
	if d.Commander != nil && d.Commander.Name == "" {
		errs = append(errs, "commander must have a name")
	}

	errs = append(errs, validateEntries("mainboard", d.Mainboard)...)
	errs = append(errs, validateEntries("sideboard", d.Sideboard)...)
	return errs
}

func validateEntries(board string, entries []CardEntry) []string {
	var errs []string
	for i, e := range entries {
		if e.Name == "" {
			errs = append(errs, fmt.Sprintf("%s[%d]: card name is required", board, i))
		}
		if e.Quantity <= 0 {
			errs = append(errs, fmt.Sprintf("%s[%d]: invalid quantity %d (must be a positive number)", board, i, e.Quantity))
		}
	}
	return errs
}

// ValidateJSON validates an arbitrary JSON document as a deck. Unlike Validate it
// reports type errors (a non-string name, a board that is not an array, a
// non-numeric quantity) that a typed Deck cannot represent.
func ValidateJSON(data []byte) []string {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return []string{fmt.Sprintf("deck must be valid JSON: %v", err)}
	}
	return ValidateValue(raw)
}

// ValidateValue validates a decoded JSON value as a deck.
func ValidateValue(raw any) []string {
	obj, ok := raw.(map[string]any)
	if !ok {
		return []string{"deck must be an object"}
	}

	var errs []string
	if s, ok := obj["name"].(string); !ok || s == "" {
		errs = append(errs, "deck name is required and must be a string")
	}
	if s, ok := obj["format"].(string); !ok || s == "" {
		errs = append(errs, "deck format is required and must be a string")
	}

	for _, board := range []string{"mainboard", "sideboard"} {
		rows, ok := obj[board].([]any)
		if !ok {
			errs = append(errs, fmt.Sprintf("%s must be an array", board))
			continue
		}
		for i, row := range rows {
			errs = append(errs, validateRawEntry(board, i, row)...)
		}
	}

	if c, present := obj["commander"]; present && c != nil {
		cmd, ok := c.(map[string]any)
		if !ok {
			errs = append(errs, "commander must be an object")
		} else if s, ok := cmd["name"].(string); !ok || s == "" {
			errs = append(errs, "commander must have a name")
		}
	}

	return errs
}

func validateRawEntry(board string, i int, row any) []string {
	entry, ok := row.(map[string]any)
	if !ok {
		return []string{fmt.Sprintf("%s[%d]: entry must be an object", board, i)}
	}

	var errs []string
	if s, ok := entry["name"].(string); !ok || s == "" {
		errs = append(errs, fmt.Sprintf("%s[%d]: card name is required", board, i))
	}
	q, ok := entry["quantity"].(float64)
	if !ok || math.IsNaN(q) || math.IsInf(q, 0) || q <= 0 {
		errs = append(errs, fmt.Sprintf("%s[%d]: invalid quantity %v (must be a positive number)", board, i, entry["quantity"]))
	}
	return errs
}
