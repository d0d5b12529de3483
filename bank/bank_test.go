package bank

import (
	"testing"

	"qamaster-server/models"
	"qamaster-server/tabular"
)

func row(question, answerKey string, options ...string) []string {
	r := []string{"", question, answerKey}
	return append(r, options...)
}

func buildOne(t *testing.T, answerKey string, options ...string) models.Question {
	t.Helper()
	rows := [][]string{
		{"", "question", "answer", "opt1", "opt2", "opt3", "opt4", "opt5", "opt6"},
		row("What is it?", answerKey, options...),
	}
	qs := Build(rows, models.DefaultColumnMap())
	if len(qs) != 1 {
		t.Fatalf("expected 1 question, got %d", len(qs))
	}
	return qs[0]
}

func TestResolveAnswerKey(t *testing.T) {
	cases := []struct {
		name string
		key  string
		want int
	}{
		{"letter upper", "B", 1},
		{"letter lower", "a", 0},
		{"letter with noise", " C) ", 2},
		{"number", "2", 1},
		{"number with noise", "Answer: 3", models.Unresolved}, // "answer3" is neither letter nor int
		{"bare noisy number", "(3)", 2},
		{"unmapped letter", "z", models.Unresolved},
		{"out of range number", "5", models.Unresolved},
		{"out of range letter", "e", models.Unresolved},
		{"zero", "0", models.Unresolved},
		{"empty", "", models.Unresolved},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := buildOne(t, tc.key, "X", "Y", "Z")
			if q.CorrectIndex != tc.want {
				t.Fatalf("key %q resolved to %d, want %d", tc.key, q.CorrectIndex, tc.want)
			}
			if q.CorrectIndex != models.Unresolved && q.CorrectIndex >= len(q.Options) {
				t.Fatalf("dangling index %d for %d options", q.CorrectIndex, len(q.Options))
			}
		})
	}
}

func TestBuildSkipsBlankQuestionRows(t *testing.T) {
	rows := [][]string{
		{"", "question", "answer", "opt1", "opt2"},
		row("First?", "1", "A", "B"),
		row("   ", "1", "A", "B"),
		row("", "2", "A", "B"),
		row("Second?", "2", "A", "B"),
	}
	qs := Build(rows, models.DefaultColumnMap())
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(qs))
	}
	// Ids stay contiguous over the emitted subset, skipped rows consume none.
	if qs[0].ID != 1 || qs[1].ID != 2 {
		t.Fatalf("ids not contiguous: %d, %d", qs[0].ID, qs[1].ID)
	}
	if qs[1].Text != "Second?" {
		t.Fatalf("unexpected second question: %q", qs[1].Text)
	}
}

func TestBuildDropsBlankOptions(t *testing.T) {
	q := buildOne(t, "2", "A", "", "C", "  ", "E")
	want := []string{"A", "C", "E"}
	if len(q.Options) != len(want) {
		t.Fatalf("expected %d options, got %#v", len(want), q.Options)
	}
	for i, opt := range want {
		if q.Options[i] != opt {
			t.Fatalf("option %d = %q, want %q", i, q.Options[i], opt)
		}
	}
	// "2" points at the second surviving option, not the second column.
	if q.CorrectIndex != 1 {
		t.Fatalf("correct index = %d, want 1", q.CorrectIndex)
	}
}

func TestBuildEmptyInput(t *testing.T) {
	if qs := Build(nil, models.DefaultColumnMap()); len(qs) != 0 {
		t.Fatalf("nil rows should build an empty bank, got %d", len(qs))
	}
	headerOnly := [][]string{{"", "question", "answer"}}
	if qs := Build(headerOnly, models.DefaultColumnMap()); len(qs) != 0 {
		t.Fatalf("header-only input should build an empty bank, got %d", len(qs))
	}
}

func TestBuildKeepsRawAndCleanedKey(t *testing.T) {
	// Build stores the key cell exactly as handed to it; any trimming
	// happened upstream in the parser.
	q := buildOne(t, " Q?? ", "X", "Y")
	if q.Resolved() {
		t.Fatalf("expected unresolved question, got index %d", q.CorrectIndex)
	}
	if q.RawAnswerKey != " Q?? " || q.CleanedAnswerKey != "q" {
		t.Fatalf("raw/cleaned = %q/%q", q.RawAnswerKey, q.CleanedAnswerKey)
	}
}

func TestBuildFromParsedText(t *testing.T) {
	text := "id,question,answer,opt1,opt2,opt3\n" +
		`1,"What, exactly?",B,"first ""option""",second,third` + "\n" +
		"2,Plain question,2,uno,dos,tres\n"
	qs := Build(tabular.Parse(text), models.DefaultColumnMap())
	if len(qs) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(qs))
	}
	if qs[0].Text != "What, exactly?" {
		t.Fatalf("quoted stem mangled: %q", qs[0].Text)
	}
	if qs[0].Options[0] != `first "option"` {
		t.Fatalf("escaped quotes mangled: %q", qs[0].Options[0])
	}
	if qs[0].CorrectIndex != 1 || qs[1].CorrectIndex != 1 {
		t.Fatalf("correct indices = %d, %d, want 1, 1", qs[0].CorrectIndex, qs[1].CorrectIndex)
	}
}

func TestSearch(t *testing.T) {
	two := "Paris"
	questions := []models.Question{
		{ID: 1, Text: "Capital of France?", Options: []string{"Lyon", "Paris"}, CorrectIndex: 1},
		{ID: 2, Text: "Capital of Peru?", Options: []string{"Lima"}, CorrectIndex: models.Unresolved},
		{ID: 3, Text: "Largest ocean?", Options: []string{"Pacific"}, CorrectIndex: 0},
	}

	hits := Search(questions, "CAPITAL")
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if hits[0].CorrectOption == nil || *hits[0].CorrectOption != two {
		t.Fatalf("resolved hit should expose its correct option, got %v", hits[0].CorrectOption)
	}
	if hits[1].CorrectOption != nil {
		t.Fatalf("unresolved hit must not expose an option, got %q", *hits[1].CorrectOption)
	}

	if hits := Search(questions, "   "); hits != nil {
		t.Fatalf("blank term should match nothing, got %d hits", len(hits))
	}
}

func TestUnresolvedProjection(t *testing.T) {
	questions := []models.Question{
		{ID: 1, Text: "ok", CorrectIndex: 0, Options: []string{"A"}},
		{ID: 2, Text: "broken", CorrectIndex: models.Unresolved, RawAnswerKey: "7", CleanedAnswerKey: "7", Options: []string{"A", "B"}},
	}
	diags := Unresolved(questions)
	if len(diags) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", len(diags))
	}
	d := diags[0]
	if d.QuestionID != 2 || d.RawAnswerKey != "7" || d.OptionCount != 2 {
		t.Fatalf("unexpected diagnostic: %+v", d)
	}
}
