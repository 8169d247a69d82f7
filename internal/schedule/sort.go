package schedule

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// SortKey selects how data rows are ordered.
type SortKey string

const (
	SortCourseID SortKey = "courseId"
	SortBlock    SortKey = "block"
)

// SortKeys lists the accepted keys with display labels.
var SortKeys = []struct {
	Key   SortKey
	Label string
}{
	{SortCourseID, "Course ID"},
	{SortBlock, "Block"},
}

var (
	courseIDPattern = regexp.MustCompile(`(?i)([a-z]{1,4})\s*(\d{1,3})`)
	blockPattern    = regexp.MustCompile(`(?i)block\s*(\d+|[a-z])`)
)

// ParseSortKey maps a string to a SortKey, falling back to SortCourseID.
func ParseSortKey(s string) SortKey {
	if strings.EqualFold(strings.TrimSpace(s), string(SortBlock)) {
		return SortBlock
	}
	return SortCourseID
}

// CourseID is a department code plus course number, e.g. CP 122.
type CourseID struct {
	Dept   string
	Number int
}

// ExtractCourseID returns the first course identifier in text.
func ExtractCourseID(text string) (CourseID, bool) {
	m := courseIDPattern.FindStringSubmatch(text)
	if m == nil {
		return CourseID{}, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return CourseID{}, false
	}
	return CourseID{Dept: strings.ToLower(m[1]), Number: n}, true
}

// ExtractBlock returns the first block token in text ("1", "12", "a", "h").
func ExtractBlock(text string) (string, bool) {
	m := blockPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.ToLower(m[1]), true
}

// Sort returns a copy of rows with the header first and data rows stably
// ordered by key.
func Sort(rows RowSet, key SortKey) RowSet {
	if len(rows) == 0 {
		return rows
	}

	out := make(RowSet, len(rows))
	copy(out, rows)
	data := out[1:]

	cmp := compareCourseID
	if key == SortBlock {
		cmp = compareBlock
	}

	sort.SliceStable(data, func(i, j int) bool {
		return cmp(data[i], data[j]) < 0
	})

	return out
}

// compareCourseID orders by department, then number. Rows without an
// identifier compare equal to everything.
func compareCourseID(a, b Row) int {
	aID, aOK := ExtractCourseID(a.Text)
	bID, bOK := ExtractCourseID(b.Text)
	if !aOK || !bOK {
		return 0
	}
	if c := strings.Compare(aID.Dept, bID.Dept); c != 0 {
		return c
	}
	return aID.Number - bID.Number
}

// compareBlock orders numeric blocks before lettered ones, then falls back to
// compareCourseID on a tie or a missing block.
func compareBlock(a, b Row) int {
	aBlock, aOK := ExtractBlock(a.Text)
	bBlock, bOK := ExtractBlock(b.Text)
	if aOK && bOK {
		aNum, aErr := strconv.Atoi(aBlock)
		bNum, bErr := strconv.Atoi(bBlock)
		aNumeric, bNumeric := aErr == nil, bErr == nil

		switch {
		case aNumeric && bNumeric:
			if aNum != bNum {
				return aNum - bNum
			}
		case !aNumeric && !bNumeric:
			if c := strings.Compare(aBlock, bBlock); c != 0 {
				return c
			}
		case aNumeric:
			return -1
		default:
			return 1
		}
	}
	return compareCourseID(a, b)
}
