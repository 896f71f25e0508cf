package tasks

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/taskmock/backend/domain"
)

// FilterTasks keeps tasks matching the completion state and, when search is
// non-empty, holding it as a case-insensitive substring of the title.
func FilterTasks(tasks []domain.Task, completion domain.Completion, search string) []domain.Task {
	needle := strings.ToLower(search)
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if completion == domain.CompletionActive && t.Completed {
			continue
		}
		if completion == domain.CompletionCompleted && !t.Completed {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(t.Title), needle) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SortTasks returns a stably sorted copy of tasks; the input is never
// mutated. Date sorts newest first, priority sorts high before low, title
// sorts ascending with locale-aware collation. An unknown key returns the
// input unchanged.
func SortTasks(tasks []domain.Task, sortBy domain.SortBy) []domain.Task {
	switch sortBy {
	case domain.SortByDate:
		return sortCopy(tasks, func(a, b domain.Task) bool {
			return a.CreatedAt.After(b.CreatedAt)
		})
	case domain.SortByPriority:
		return sortCopy(tasks, func(a, b domain.Task) bool {
			return a.Priority.Rank() < b.Priority.Rank()
		})
	case domain.SortByTitle:
		c := collate.New(language.Und)
		return sortCopy(tasks, func(a, b domain.Task) bool {
			return c.CompareString(a.Title, b.Title) < 0
		})
	default:
		return tasks
	}
}

// PaginateTasks returns the 1-based page of size limit. An out-of-range page
// yields an empty sequence, never an error.
func PaginateTasks(tasks []domain.Task, page, limit int) []domain.Task {
	start := (page - 1) * limit
	if start < 0 || start >= len(tasks) {
		return []domain.Task{}
	}
	end := start + limit
	if end > len(tasks) {
		end = len(tasks)
	}
	return tasks[start:end]
}

func sortCopy(tasks []domain.Task, less func(a, b domain.Task) bool) []domain.Task {
	out := make([]domain.Task, len(tasks))
	copy(out, tasks)
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i], out[j])
	})
	return out
}
