package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/s0up4200/bgmtv/bangumi"
	"github.com/s0up4200/bgmtv/filter"
)

// parseID parses a positive numeric id argument
func parseID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(arg), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id '%s': must be a positive integer", arg)
	}
	return id, nil
}

// parseIDs parses id arguments, accepting comma-separated lists, and drops
// duplicates while keeping the first occurrence order
func parseIDs(args []string) ([]uint64, error) {
	parts := lo.FlatMap(args, func(arg string, _ int) []string {
		return strings.Split(arg, ",")
	})
	parts = lo.Filter(parts, func(part string, _ int) bool {
		return strings.TrimSpace(part) != ""
	})

	ids := make([]uint64, 0, len(parts))
	for _, part := range parts {
		id, err := parseID(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("no ids specified")
	}
	return lo.Uniq(ids), nil
}

// resolveFilter picks the local filter to apply. An inline expression and a
// preset are mutually exclusive; with neither, nil is returned.
func resolveFilter(where, preset string) (filter.CompiledFilter, error) {
	if where != "" && preset != "" {
		return nil, fmt.Errorf("--where and --preset cannot be used together")
	}

	if where != "" {
		f, err := filter.CompileFilter(where)
		if err != nil {
			return nil, fmt.Errorf("invalid filter expression: %w", err)
		}
		return f, nil
	}

	if preset != "" {
		f, err := filterManager.Lookup(preset)
		if err != nil {
			return nil, fmt.Errorf("unknown preset: %w", err)
		}
		return f, nil
	}

	return nil, nil
}

// applyFilter narrows a page of subjects; a nil filter keeps all of them
func applyFilter(ctx context.Context, f filter.CompiledFilter, subjects []bangumi.Subject) ([]bangumi.Subject, error) {
	if f == nil {
		return subjects, nil
	}

	matches, err := filter.NewConcurrentEvaluator().Evaluate(ctx, f, subjects)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("filter", f.Expression()).
		Int("before", len(subjects)).
		Int("after", len(matches)).
		Msg("Applied local filter")

	return matches, nil
}

func parseSubjectType(s string) (bangumi.SubjectType, error) {
	if code, err := strconv.Atoi(s); err == nil {
		t := bangumi.SubjectType(code)
		if !t.Valid() {
			return 0, fmt.Errorf("unknown subject type: %s", s)
		}
		return t, nil
	}
	return bangumi.ParseSubjectType(s)
}

func parseCategory(t bangumi.SubjectType, s string) (bangumi.SubjectCategory, error) {
	if code, err := strconv.Atoi(s); err == nil {
		return bangumi.ParseSubjectCategory(t, code)
	}
	return bangumi.ParseSubjectCategoryName(t, s)
}
