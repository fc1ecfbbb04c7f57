package summary

import (
	"fmt"
	"strings"

	slackapi "github.com/slack-go/slack"

	"github.com/threadpulse/threadpulse/internal/sentiment"
	"github.com/threadpulse/threadpulse/pkg/models"
)

// SummaryCallbackID identifies the summary modal in interaction payloads
const SummaryCallbackID = "post_analysis_modal"

// Action IDs for the summary modal buttons
const (
	ActionExportCSV    = "export_csv"
	ActionDeepAnalysis = "deep_analysis"
)

// EncodeRef packs the channel and message identity into one button value
func EncodeRef(channelID, messageTS string) string {
	return channelID + "|" + messageTS
}

// DecodeRef splits a button value back into channel and message identity
func DecodeRef(value string) (channelID, messageTS string, err error) {
	parts := strings.SplitN(value, "|", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("malformed message reference %q", value)
	}
	return parts[0], parts[1], nil
}

func markdownText(text string) *slackapi.TextBlockObject {
	return slackapi.NewTextBlockObject(slackapi.MarkdownType, text, false, false)
}

func plainText(text string) *slackapi.TextBlockObject {
	return slackapi.NewTextBlockObject(slackapi.PlainTextType, text, false, false)
}

// moodGlyph maps a comparative-scale label to a display emoji
func moodGlyph(label models.SentimentLabel) string {
	switch label {
	case models.LabelPositive:
		return "😄"
	case models.LabelNegative:
		return "😟"
	default:
		return "😐"
	}
}

// BuildSummaryModal renders the tracked-message summary view
func BuildSummaryModal(s *models.MessageSummary) slackapi.ModalViewRequest {
	glyph := moodGlyph(sentiment.Classify(s.Snapshot.CombinedSentiment))
	ref := EncodeRef(s.ChannelID, s.Message.SlackTS)

	blocks := []slackapi.Block{
		slackapi.NewSectionBlock(
			markdownText(fmt.Sprintf("*Channel:* #%s", channelLabel(s.Message))),
			nil, nil,
		),
		slackapi.NewContextBlock("",
			markdownText(fmt.Sprintf("Original message: %s", s.Message.Text)),
		),
		slackapi.NewSectionBlock(nil, []*slackapi.TextBlockObject{
			markdownText(fmt.Sprintf("*Emoji Sentiment:*\n%.2f", s.Snapshot.EmojiSentiment)),
			markdownText(fmt.Sprintf("*Reply Sentiment:*\n%.2f", s.Snapshot.ReplySentiment)),
			markdownText(fmt.Sprintf("*Combined Sentiment:*\n%.2f %s", s.Snapshot.CombinedSentiment, glyph)),
			markdownText(fmt.Sprintf("*Total Replies:*\n%d", s.TotalReplies)),
		}, nil),
		slackapi.NewDividerBlock(),
		slackapi.NewHeaderBlock(plainText("Reactions")),
		slackapi.NewSectionBlock(markdownText(reactionLines(s.Reactions)), nil, nil),
		slackapi.NewHeaderBlock(plainText("Replies")),
		slackapi.NewSectionBlock(markdownText(replyLines(s.Replies)), nil, nil),
		slackapi.NewActionBlock("summary_actions",
			slackapi.NewButtonBlockElement(ActionExportCSV, ref, plainText("Export CSV")),
			slackapi.NewButtonBlockElement(ActionDeepAnalysis, ref, plainText("Deep Analysis")),
		),
	}

	return slackapi.ModalViewRequest{
		Type:            slackapi.VTModal,
		CallbackID:      SummaryCallbackID,
		PrivateMetadata: ref,
		Title:           plainText("Post Analysis"),
		Close:           plainText("Close"),
		Blocks:          slackapi.Blocks{BlockSet: blocks},
	}
}

// BuildThreadAnalysisModal renders the deep-analysis view
func BuildThreadAnalysisModal(a *models.ThreadAnalysis) slackapi.ModalViewRequest {
	blocks := []slackapi.Block{
		slackapi.NewSectionBlock(
			markdownText(fmt.Sprintf("*Overall Mood:* %s %s", a.Mood.Label, a.Mood.Emoji)),
			nil, nil,
		),
		slackapi.NewSectionBlock(nil, []*slackapi.TextBlockObject{
			markdownText(fmt.Sprintf("*Text Score:*\n%.2f", a.TextScore)),
			markdownText(fmt.Sprintf("*Reaction Score:*\n%.2f", a.ReactionScore)),
			markdownText(fmt.Sprintf("*Combined Score:*\n%.2f", a.CombinedScore)),
			markdownText(fmt.Sprintf("*Messages Analyzed:*\n%d", a.AnalyzedMessageCount)),
		}, nil),
		slackapi.NewSectionBlock(
			markdownText(fmt.Sprintf("*Reactions:* %s", a.ReactionSummary)),
			nil, nil,
		),
		slackapi.NewDividerBlock(),
		slackapi.NewHeaderBlock(plainText("Message Breakdown")),
	}

	for _, m := range a.Messages {
		prefix := "↳"
		if m.IsRoot {
			prefix = "◉"
		}
		blocks = append(blocks, slackapi.NewContextBlock("",
			markdownText(fmt.Sprintf("%s <@%s>: %s _(%.2f)_", prefix, m.UserID, m.Snippet, m.Score)),
		))
	}

	return slackapi.ModalViewRequest{
		Type:   slackapi.VTModal,
		Title:  plainText("Thread Analysis"),
		Close:  plainText("Close"),
		Blocks: slackapi.Blocks{BlockSet: blocks},
	}
}

func channelLabel(msg *models.Message) string {
	if msg.ChannelName != "" {
		return msg.ChannelName
	}
	return msg.ChannelID
}

func reactionLines(groups []models.ReactionGroup) string {
	if len(groups) == 0 {
		return "_No reactions yet._"
	}

	lines := make([]string, 0, len(groups))
	for _, g := range groups {
		mentions := make([]string, 0, len(g.Users))
		for _, u := range g.Users {
			mentions = append(mentions, fmt.Sprintf("<@%s>", u.ID))
		}
		lines = append(lines, fmt.Sprintf(":%s: (%d) – %s", g.Emoji, g.Count, strings.Join(mentions, ", ")))
	}

	return strings.Join(lines, "\n")
}

func replyLines(replies []models.Reply) string {
	if len(replies) == 0 {
		return "_No replies yet._"
	}

	lines := make([]string, 0, len(replies))
	for _, r := range replies {
		lines = append(lines, fmt.Sprintf("• <@%s>: %s _(%s)_", r.UserID, r.Text, r.SentimentLabel))
	}

	return strings.Join(lines, "\n")
}
