package summary

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/threadpulse/threadpulse/pkg/models"
)

// GenerateCSV renders a message summary as a sectioned CSV document.
// Sections have different record widths, which RFC 4180 permits and
// spreadsheet tools accept.
func GenerateCSV(s *models.MessageSummary) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{
		{"Post Analysis Export"},
		{"Generated", time.Now().Format(time.RFC3339)},
		{},
		{"=== MESSAGE INFO ==="},
		{"Field", "Value"},
		{"Message TS", s.Message.SlackTS},
		{"Channel", channelLabel(s.Message)},
		{"Author", s.Message.Username},
		{"Text", s.Message.Text},
		{"Emoji Sentiment", formatScore(s.Snapshot.EmojiSentiment)},
		{"Reply Sentiment", formatScore(s.Snapshot.ReplySentiment)},
		{"Combined Sentiment", formatScore(s.Snapshot.CombinedSentiment)},
		{"Total Replies", strconv.Itoa(s.TotalReplies)},
		{},
		{"=== REACTIONS ==="},
	}

	if len(s.Reactions) == 0 {
		records = append(records, []string{"No reactions"})
	} else {
		records = append(records, []string{"Emoji", "Count", "User IDs", "Usernames"})
		for _, g := range s.Reactions {
			ids := make([]string, 0, len(g.Users))
			names := make([]string, 0, len(g.Users))
			for _, u := range g.Users {
				ids = append(ids, u.ID)
				names = append(names, u.Username)
			}
			records = append(records, []string{
				g.Emoji,
				strconv.Itoa(g.Count),
				strings.Join(ids, "; "),
				strings.Join(names, "; "),
			})
		}
	}

	records = append(records, []string{}, []string{"=== REPLIES ==="})

	if len(s.Replies) == 0 {
		records = append(records, []string{"No replies"})
	} else {
		records = append(records, []string{"Reply TS", "User ID", "Username", "Text", "Score", "Label", "Created At"})
		for _, r := range s.Replies {
			records = append(records, []string{
				r.ReplyTS,
				r.UserID,
				r.Username,
				r.Text,
				formatScore(r.SentimentScore),
				string(r.SentimentLabel),
				r.CreatedAt.Format(time.RFC3339),
			})
		}
	}

	for _, record := range records {
		if len(record) == 0 {
			record = []string{""}
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.String(), nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
