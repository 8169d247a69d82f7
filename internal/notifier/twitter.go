package notifier

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"

	"github.com/pfrederiksen/cc-courses/internal/schedule"
)

const (
	tweetLimit    = 280
	tweetInterval = 2 * time.Second
)

// TwitterNotifier posts new course rows to Twitter
type TwitterNotifier struct {
	client      *twitter.Client
	scheduleURL string
	interval    time.Duration
}

// NewTwitterNotifier creates a new Twitter notifier using environment variables
// Required environment variables:
// - TWITTER_API_KEY
// - TWITTER_API_SECRET
// - TWITTER_ACCESS_TOKEN
// - TWITTER_ACCESS_SECRET
func NewTwitterNotifier(scheduleURL string) (*TwitterNotifier, error) {
	apiKey := os.Getenv("TWITTER_API_KEY")
	apiSecret := os.Getenv("TWITTER_API_SECRET")
	accessToken := os.Getenv("TWITTER_ACCESS_TOKEN")
	accessSecret := os.Getenv("TWITTER_ACCESS_SECRET")

	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return nil, fmt.Errorf("missing required Twitter credentials in environment variables")
	}

	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	return newTwitterNotifier(config.Client(oauth1.NoContext, token), scheduleURL), nil
}

func newTwitterNotifier(httpClient *http.Client, scheduleURL string) *TwitterNotifier {
	return &TwitterNotifier{
		client:      twitter.NewClient(httpClient),
		scheduleURL: scheduleURL,
		interval:    tweetInterval,
	}
}

// Notify posts one tweet per row, pausing between tweets
func (n *TwitterNotifier) Notify(ctx context.Context, rows []schedule.Row) error {
	for i, r := range rows {
		tweet := formatTweet(r, n.scheduleURL)

		_, _, err := n.client.Statuses.Update(tweet, nil)
		if err != nil {
			return fmt.Errorf("failed to post tweet for row %s: %w", r.ID(), err)
		}

		// Rate limiting: wait between tweets
		if i < len(rows)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(n.interval):
			}
		}
	}

	return nil
}

// formatTweet formats a course row as a tweet
func formatTweet(r schedule.Row, scheduleURL string) string {
	var tweet strings.Builder
	tweet.WriteString("📚 New course on the Colorado College schedule!\n\n")
	tweet.WriteString(fmt.Sprintf("📖 %s\n", r.Summary()))

	if block, ok := schedule.ExtractBlock(r.Text); ok {
		tweet.WriteString(fmt.Sprintf("🗓 Block %s\n", strings.ToUpper(block)))
	}

	link := scheduleURL
	if strings.HasPrefix(r.Link, "http") {
		link = r.Link
	}
	if link != "" {
		tweet.WriteString(fmt.Sprintf("\n🔗 %s\n", link))
	}

	tweet.WriteString("\n#ColoradoCollege")
	if id, ok := schedule.ExtractCourseID(r.Text); ok {
		tweet.WriteString(" #" + strings.ToUpper(id.Dept))
	}

	// Twitter limit is 280 characters
	runes := []rune(tweet.String())
	if len(runes) > tweetLimit {
		return string(runes[:tweetLimit-3]) + "..."
	}
	return string(runes)
}
