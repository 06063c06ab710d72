// Package faq implements the search and filters of the help page.
package faq

import (
	"slices"
	"strings"

	"github.com/UnknownOlympus/jharkhand/internal/models"
)

// CategoryAll selects every question.
const CategoryAll = "all"

// Search returns the records whose question, answer or one of the tags contains query,
// ignoring case. A blank query returns every record.
func Search(records []models.FAQ, query string) []models.FAQ {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return slices.Clone(records)
	}

	result := []models.FAQ{}
	for _, record := range records {
		if matches(record, query) {
			result = append(result, record)
		}
	}

	return result
}

func matches(record models.FAQ, query string) bool {
	if strings.Contains(strings.ToLower(record.Question), query) ||
		strings.Contains(strings.ToLower(record.Answer), query) {
		return true
	}

	return slices.ContainsFunc(record.Tags, func(tag string) bool {
		return strings.Contains(strings.ToLower(tag), query)
	})
}

// ByCategory keeps the records of one category. Empty or CategoryAll keeps everything.
func ByCategory(records []models.FAQ, category string) []models.FAQ {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, CategoryAll) {
		return slices.Clone(records)
	}

	result := []models.FAQ{}
	for _, record := range records {
		if strings.EqualFold(record.Category, category) {
			result = append(result, record)
		}
	}

	return result
}

// Popular keeps the records flagged as popular.
func Popular(records []models.FAQ) []models.FAQ {
	result := []models.FAQ{}
	for _, record := range records {
		if record.Popular {
			result = append(result, record)
		}
	}

	return result
}

// Categories lists distinct categories in first-seen order.
func Categories(records []models.FAQ) []string {
	seen := make(map[string]bool)
	categories := []string{}
	for _, record := range records {
		if seen[record.Category] {
			continue
		}
		seen[record.Category] = true
		categories = append(categories, record.Category)
	}

	return categories
}
