package notifier

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pfrederiksen/cc-courses/internal/schedule"
)

// DryRunNotifier prints what would be tweeted without actually posting
type DryRunNotifier struct {
	out         io.Writer
	scheduleURL string
}

// NewDryRunNotifier creates a new dry-run notifier writing to out, or stdout
// when out is nil.
func NewDryRunNotifier(out io.Writer, scheduleURL string) *DryRunNotifier {
	if out == nil {
		out = os.Stdout
	}
	return &DryRunNotifier{out: out, scheduleURL: scheduleURL}
}

// Notify prints the tweets that would be posted
func (n *DryRunNotifier) Notify(_ context.Context, rows []schedule.Row) error {
	for i, r := range rows {
		tweet := formatTweet(r, n.scheduleURL)
		fmt.Fprintf(n.out, "--- Tweet %d/%d ---\n", i+1, len(rows))
		fmt.Fprintln(n.out, tweet)
		fmt.Fprintf(n.out, "\n(Length: %d characters)\n\n", len([]rune(tweet)))
	}
	return nil
}
