package telegram

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/pfrederiksen/cc-courses/internal/schedule"
)

const otherDept = "Other"

// FormatRow formats a single new course row as a Telegram message
func FormatRow(r schedule.Row) string {
	var msg strings.Builder

	msg.WriteString("📚 <b>New Colorado College course</b>\n\n")
	msg.WriteString(fmt.Sprintf("📖 %s\n", html.EscapeString(r.Summary())))

	if block, ok := schedule.ExtractBlock(r.Text); ok {
		msg.WriteString(fmt.Sprintf("🗓 Block %s\n", strings.ToUpper(block)))
	}

	if isAbsolute(r.Link) {
		msg.WriteString(fmt.Sprintf("\n🔗 <a href=\"%s\">Course details</a>\n", html.EscapeString(r.Link)))
	}

	msg.WriteString("\n#ColoradoCollege")
	if dept := deptOf(r); dept != otherDept {
		msg.WriteString(" #" + dept)
	}

	return msg.String()
}

// FormatDigest groups new rows by department into one message.
func FormatDigest(rows []schedule.Row, scheduleURL string) string {
	if len(rows) == 0 {
		return "No new courses on the schedule."
	}

	var msg strings.Builder
	msg.WriteString("📬 <b>Course Schedule Update</b>\n\n")
	msg.WriteString(fmt.Sprintf("Found <b>%d</b> new course row%s\n\n", len(rows), pluralize(len(rows))))

	byDept := make(map[string][]schedule.Row)
	for _, r := range rows {
		dept := deptOf(r)
		byDept[dept] = append(byDept[dept], r)
	}

	depts := make([]string, 0, len(byDept))
	for dept := range byDept {
		depts = append(depts, dept)
	}
	sort.Slice(depts, func(i, j int) bool {
		// Rows without a course ID go last.
		if (depts[i] == otherDept) != (depts[j] == otherDept) {
			return depts[j] == otherDept
		}
		return depts[i] < depts[j]
	})

	for _, dept := range depts {
		deptRows := byDept[dept]
		msg.WriteString(fmt.Sprintf("🏷 <b>%s</b> (%d)\n", dept, len(deptRows)))
		for _, r := range deptRows {
			msg.WriteString(fmt.Sprintf("  • %s\n", html.EscapeString(r.Summary())))
		}
		msg.WriteString("\n")
	}

	if scheduleURL != "" {
		msg.WriteString(fmt.Sprintf("🔗 <a href=\"%s\">Full course schedule</a>", html.EscapeString(scheduleURL)))
	}

	return strings.TrimRight(msg.String(), "\n")
}

// FormatSummary creates a one-line summary for a batch of new rows
func FormatSummary(rows []schedule.Row) string {
	counts := make(map[string]int)
	for _, r := range rows {
		counts[deptOf(r)]++
	}

	parts := make([]string, 0, len(counts))
	for dept, n := range counts {
		parts = append(parts, fmt.Sprintf("%s (%d)", dept, n))
	}
	sort.Strings(parts)

	if len(parts) == 0 {
		return "📚 No new courses"
	}
	return fmt.Sprintf("📚 %d new course row%s: %s", len(rows), pluralize(len(rows)), strings.Join(parts, ", "))
}

func deptOf(r schedule.Row) string {
	if id, ok := schedule.ExtractCourseID(r.Text); ok {
		return strings.ToUpper(id.Dept)
	}
	return otherDept
}

func isAbsolute(link string) bool {
	return strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://")
}

func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
