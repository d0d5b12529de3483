// --- qamaster-server/bank/bank.go ---
package bank

import (
	"strconv"
	"strings"

	"qamaster-server/models"
	"qamaster-server/tabular"
)

// Build turns parsed rows into the ordered question bank.
//
// The first row is assumed header and dropped. A row whose question-text
// cell is empty never produces a question and never consumes an id, so ids
// stay contiguous from 1 across the emitted subset. Blank option cells are
// filtered out rather than kept as placeholders, which means a question can
// carry fewer options than the sheet has option columns.
//
// A bad answer-key cell is a per-row data-quality signal, not an ingestion
// failure: the question is emitted with CorrectIndex = models.Unresolved and
// the raw/cleaned key cells kept for the diagnostics view.
func Build(rows [][]string, cols models.ColumnMap) []models.Question {
	if len(rows) < 2 {
		return nil
	}

	var questions []models.Question
	for _, row := range rows[1:] {
		text := strings.TrimSpace(tabular.Cell(row, cols.QuestionText))
		if text == "" {
			continue
		}

		var options []string
		for _, col := range cols.Options {
			if opt := strings.TrimSpace(tabular.Cell(row, col)); opt != "" {
				options = append(options, opt)
			}
		}

		raw := tabular.Cell(row, cols.AnswerKey)
		idx, cleaned := resolveAnswer(raw, len(options))

		questions = append(questions, models.Question{
			ID:               len(questions) + 1,
			Text:             text,
			Options:          options,
			CorrectIndex:     idx,
			RawAnswerKey:     raw,
			CleanedAnswerKey: cleaned,
		})
	}
	return questions
}

// resolveAnswer maps the raw answer-key cell to a zero-based option index.
//
// The cell is lower-cased, trimmed, and stripped of everything that is not a
// lowercase letter or digit. A cleaned value of exactly "a".."f" maps to
// 0..5; otherwise a positive integer n maps to n-1; otherwise resolution
// fails. An index at or past the resolved option count also fails - a
// dangling index must never leave this function.
func resolveAnswer(raw string, optionCount int) (int, string) {
	cleaned := cleanAnswerKey(raw)

	idx := models.Unresolved
	if len(cleaned) == 1 && cleaned[0] >= 'a' && cleaned[0] <= 'f' {
		idx = int(cleaned[0] - 'a')
	} else if n, err := strconv.Atoi(cleaned); err == nil && n > 0 {
		idx = n - 1
	}

	if idx >= optionCount {
		idx = models.Unresolved
	}
	return idx, cleaned
}

func cleanAnswerKey(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	var b strings.Builder
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Search filters questions by case-insensitive substring match against the
// question text. An empty or blank term matches nothing. Each hit exposes
// only the correct option, which stays nil for unresolved questions.
func Search(questions []models.Question, term string) []models.SearchResult {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}

	var results []models.SearchResult
	for _, q := range questions {
		if !strings.Contains(strings.ToLower(q.Text), term) {
			continue
		}
		results = append(results, models.SearchResult{
			ID:            q.ID,
			Text:          q.Text,
			CorrectOption: q.CorrectOption(),
		})
	}
	return results
}

// Unresolved projects the questions whose answer key failed to resolve,
// together with the raw and cleaned key cells. Read-only: this is the whole
// diagnostics surface, there is no separate parsing path behind it.
func Unresolved(questions []models.Question) []models.Diagnostic {
	var diags []models.Diagnostic
	for _, q := range questions {
		if q.Resolved() {
			continue
		}
		diags = append(diags, models.Diagnostic{
			QuestionID:       q.ID,
			Text:             q.Text,
			RawAnswerKey:     q.RawAnswerKey,
			CleanedAnswerKey: q.CleanedAnswerKey,
			OptionCount:      len(q.Options),
		})
	}
	return diags
}
