package filter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/s0up4200/bgmtv/bangumi"
)

func ptr[T any](v T) *T { return &v }

func testSubject() bangumi.Subject {
	return bangumi.Subject{
		ID:     1014,
		Type:   bangumi.SubjectTypeAnime,
		Name:   "とある魔術の禁書目録",
		NameCN: "魔法禁书目录",
		Date:   ptr("2008-10-04"),
		Eps:    24,
		Rating: bangumi.SubjectRating{Rank: 1500, Total: 9000, Score: 7.1},
		Collection: bangumi.SubjectCollection{
			Collect: 12000,
			Wish:    800,
		},
		Tags: []bangumi.SubjectTag{
			{Name: "J.C.STAFF", Count: 1200},
			{Name: "轻小说改", Count: 900},
		},
		Infobox: []bangumi.Infobox{
			{Key: "话数", Value: bangumi.SingleValue("24")},
			{Key: "别名", Value: bangumi.ListValue(bangumi.V("魔法禁書目錄"), bangumi.V("Index"))},
		},
	}
}

func TestCompileFilter(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{
			name:       "valid expression",
			expression: `hasTag("J.C.STAFF")`,
		},
		{
			name:        "empty expression",
			expression:  "  ",
			wantErr:     true,
			errContains: "empty expression",
		},
		{
			name:       "invalid syntax",
			expression: `hasTag("unclosed`,
			wantErr:    true,
		},
		{
			name:       "unknown variable",
			expression: `Watched == true`,
			wantErr:    true,
		},
		{
			name:       "not a boolean",
			expression: `Score + 1`,
			wantErr:    true,
		},
		{
			name:       "complex expression",
			expression: `isType("anime") and Year > 2005 and Score >= 7.0 and Rank < 2000`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := CompileFilter(tt.expression)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error but got none")
				}
				var compErr *CompilationError
				if !errors.As(err, &compErr) {
					t.Errorf("expected *CompilationError, got %T", err)
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if filter == nil {
				t.Fatalf("expected filter but got nil")
			}
		})
	}
}

func TestFilterEvaluation(t *testing.T) {
	subject := testSubject()

	tests := []struct {
		name       string
		expression string
		expected   bool
	}{
		{name: "has tag", expression: `hasTag("j.c.staff")`, expected: true},
		{name: "does not have tag", expression: `hasTag("原创")`, expected: false},
		{name: "tag count", expression: `tagCount("轻小说改") > 500`, expected: true},
		{name: "year comparison", expression: `Year == 2008`, expected: true},
		{name: "score", expression: `Score > 7.0 and Score < 7.5`, expected: true},
		{name: "type name", expression: `Type == "anime"`, expected: true},
		{name: "type helper", expression: `isType("book")`, expected: false},
		{name: "single infobox", expression: `infobox("话数") == "24"`, expected: true},
		{name: "list infobox", expression: `infobox("别名") == "魔法禁書目錄, Index"`, expected: true},
		{name: "missing infobox", expression: `hasInfobox("放送星期")`, expected: false},
		{name: "aired after", expression: `airedAfter("2008-01-01")`, expected: true},
		{name: "aired before", expression: `airedBefore("2008-01-01")`, expected: false},
		{name: "malformed date never matches", expression: `airedAfter("2008")`, expected: false},
		{name: "collections", expression: `Collects > 10 * Wishes`, expected: true},
		{name: "display name", expression: `DisplayName == "魔法禁书目录"`, expected: true},
		{name: "date helpers", expression: `Aired < daysAgo(30)`, expected: true},
		{name: "fuzzy helper", expression: `fuzzy("mgc", "Magic")`, expected: true},
		{name: "name matches alias", expression: `nameMatches("INDEX")`, expected: true},
		{name: "name matches chinese name", expression: `nameMatches("禁书")`, expected: true},
		{name: "name does not match", expression: `nameMatches("railgun")`, expected: false},
		{name: "tags list", expression: `"轻小说改" in Tags`, expected: true},
		{name: "nested subject", expression: `Subject.Eps == 24`, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := CompileFilter(tt.expression)
			if err != nil {
				t.Fatalf("failed to compile filter: %v", err)
			}

			if result := filter.Evaluate(subject); result != tt.expected {
				t.Errorf("expected %v but got %v for expression %q", tt.expected, result, tt.expression)
			}
		})
	}
}

func TestSubjectWithoutDate(t *testing.T) {
	subject := bangumi.Subject{ID: 1, Name: "unknown"}

	filter, err := CompileFilter(`airedAfter("1900-01-01") or airedBefore("2100-01-01")`)
	if err != nil {
		t.Fatalf("failed to compile filter: %v", err)
	}
	if filter.Evaluate(subject) {
		t.Errorf("expected subject without a date to match no date condition")
	}
}

func TestParseAndCreateFilter(t *testing.T) {
	match, err := ParseAndCreateFilter("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !match(bangumi.Subject{}) {
		t.Errorf("expected empty expression to match everything")
	}

	match, err = ParseAndCreateFilter(`Eps >= 12`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !match(testSubject()) {
		t.Errorf("expected subject with 24 episodes to match")
	}
}

func TestApply(t *testing.T) {
	subjects := generateTestSubjects(30)

	matches, err := Apply(context.Background(), `Score >= 8`, subjects)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	for _, subject := range matches {
		if subject.Rating.Score < 8 {
			t.Errorf("subject %d with score %.1f should not match", subject.ID, subject.Rating.Score)
		}
	}

	all, err := Apply(context.Background(), "", subjects)
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if len(all) != len(subjects) {
		t.Errorf("expected empty expression to keep all %d subjects, got %d", len(subjects), len(all))
	}
}

func TestConcurrentEvaluation(t *testing.T) {
	subjects := generateTestSubjects(1000)

	filter, err := CompileFilter(`hasTag("原创") and Year > 2021`)
	if err != nil {
		t.Fatalf("failed to compile filter: %v", err)
	}

	evaluator := NewConcurrentEvaluator(WithWorkers(4), WithBatchSize(50))
	matches, err := evaluator.Evaluate(context.Background(), filter, subjects)
	if err != nil {
		t.Fatalf("evaluation failed: %v", err)
	}

	expected := evaluateSequential(filter, subjects)
	if len(matches) != len(expected) {
		t.Fatalf("expected %d matches but got %d", len(expected), len(matches))
	}
	for i := range matches {
		if matches[i].ID != expected[i].ID {
			t.Fatalf("match %d: expected subject %d but got %d", i, expected[i].ID, matches[i].ID)
		}
	}
}

func TestConcurrentEvaluationCanceled(t *testing.T) {
	filter, err := CompileFilter(`Score > 0`)
	if err != nil {
		t.Fatalf("failed to compile filter: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewConcurrentEvaluator(WithBatchSize(10)).Evaluate(ctx, filter, generateTestSubjects(100))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestBatchEvaluation(t *testing.T) {
	subjects := generateTestSubjects(500)

	filters := map[string]string{
		"original":  `hasTag("原创")`,
		"recent":    `Year >= 2023`,
		"highRated": `Score > 7.0`,
	}

	results, err := EvaluateFilters(context.Background(), filters, subjects)
	if err != nil {
		t.Fatalf("batch evaluation failed: %v", err)
	}

	if len(results) != len(filters) {
		t.Errorf("expected %d filter results but got %d", len(filters), len(results))
	}
	for name, matches := range results {
		if len(matches) == 0 {
			t.Errorf("filter %q matched no subjects", name)
		}
	}
}

func TestFilterManager(t *testing.T) {
	manager := NewManager()
	ctx := context.Background()

	filters := map[string]string{
		"original": `hasTag("原创")`,
		"recent":   `Year > 2022`,
		"long":     `Eps >= 24`,
	}

	if err := manager.RegisterFilters(filters); err != nil {
		t.Fatalf("failed to register filters: %v", err)
	}

	names := manager.ListFilters()
	if strings.Join(names, ",") != "long,original,recent" {
		t.Errorf("unexpected filter names %v", names)
	}

	subjects := generateTestSubjects(100)
	matches, err := manager.EvaluateFilter(ctx, "original", subjects)
	if err != nil {
		t.Fatalf("failed to evaluate filter: %v", err)
	}
	if len(matches) == 0 {
		t.Error("expected some matches")
	}

	manager.UnregisterFilter("original")
	if _, exists := manager.GetFilter("original"); exists {
		t.Error("expected filter 'original' to be removed")
	}

	_, err = manager.EvaluateFilter(ctx, "original", subjects)
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("expected *NotFoundError, got %v", err)
	}

	_, err = manager.Lookup("recnet")
	if !errors.As(err, &notFound) || notFound.Suggestion != "recent" {
		t.Errorf("expected a suggestion of 'recent', got %v", err)
	}

	err = manager.RegisterFilters(map[string]string{"ok": `Eps > 1`, "broken": `Eps >`})
	if err == nil {
		t.Fatal("expected registration of a broken filter to fail")
	}
	if _, exists := manager.GetFilter("ok"); exists {
		t.Error("expected no filter to be registered when one fails to compile")
	}
}

func TestCacheEffectiveness(t *testing.T) {
	compiler := NewExprCompiler(WithCache(2))

	first, err := compiler.Compile(`hasTag("原创")`)
	if err != nil {
		t.Fatalf("first compilation failed: %v", err)
	}
	second, err := compiler.Compile(`hasTag("原创")`)
	if err != nil {
		t.Fatalf("second compilation failed: %v", err)
	}
	if first != second {
		t.Error("expected cached filter to be reused")
	}

	cachingCompiler, ok := compiler.(CachingCompiler)
	if !ok {
		t.Fatal("expected compiler to support caching")
	}
	if cachingCompiler.Size() != 1 {
		t.Errorf("expected cache size 1 but got %d", cachingCompiler.Size())
	}

	for _, expression := range []string{`Eps > 1`, `Eps > 2`, `Eps > 3`} {
		if _, err := compiler.Compile(expression); err != nil {
			t.Fatalf("compilation failed: %v", err)
		}
	}
	if cachingCompiler.Size() != 2 {
		t.Errorf("expected cache to be capped at 2 but got %d", cachingCompiler.Size())
	}

	cachingCompiler.Clear()
	if cachingCompiler.Size() != 0 {
		t.Errorf("expected cache size 0 after clear but got %d", cachingCompiler.Size())
	}
}

func TestCustomFunctions(t *testing.T) {
	compiler := NewExprCompiler(WithCustomFunctions(map[string]any{
		"isLong": func(eps int) bool { return eps > 26 },
	}))

	filter, err := compiler.Compile(`isLong(Eps)`)
	if err != nil {
		t.Fatalf("failed to compile filter: %v", err)
	}
	if filter.Evaluate(testSubject()) {
		t.Error("expected 24 episodes not to count as long")
	}
}
