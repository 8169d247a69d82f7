package cli

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/cc-courses/internal/schedule"
)

// parseSortFlag validates a --sort value. Unlike schedule.ParseSortKey it
// rejects unknown keys so typos surface on the command line.
func parseSortFlag(s string) (schedule.SortKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return schedule.SortCourseID, nil
	}
	for _, k := range schedule.SortKeys {
		if strings.EqualFold(s, string(k.Key)) {
			return k.Key, nil
		}
	}
	return "", fmt.Errorf("invalid sort: %s (must be %s)", s, sortKeyNames())
}

func sortKeyNames() string {
	names := make([]string, len(schedule.SortKeys))
	for i, k := range schedule.SortKeys {
		names[i] = "'" + string(k.Key) + "'"
	}
	return strings.Join(names, " or ")
}
