package dispatcher

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/slack-go/slack/slackevents"
	"go.uber.org/zap"

	"github.com/threadpulse/threadpulse/internal/analytics"
	"github.com/threadpulse/threadpulse/internal/sentiment"
	"github.com/threadpulse/threadpulse/pkg/logger"
	"github.com/threadpulse/threadpulse/pkg/models"
)

// eventTimeout bounds the background processing of one callback
const eventTimeout = time.Minute

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	body := s.verifiedBody(w, r)
	if body == nil {
		return
	}

	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		logger.Error("failed to parse event payload", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch event.Type {
	case slackevents.URLVerification:
		var resp slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte(resp.Challenge))

	case slackevents.CallbackEvent:
		// Ack inside Slack's 3s window, process in background
		w.WriteHeader(http.StatusOK)
		go s.dispatch(event.InnerEvent)

	default:
		w.WriteHeader(http.StatusOK)
	}
}

func (s *Server) dispatch(inner slackevents.EventsAPIInnerEvent) {
	eventID := uuid.New().String()

	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	logger.Debug("dispatching event",
		zap.String("event_id", eventID),
		zap.String("type", inner.Type),
	)

	var err error
	switch ev := inner.Data.(type) {
	case *slackevents.MessageEvent:
		err = s.handleMessage(ctx, ev)
	case *slackevents.ReactionAddedEvent:
		err = s.handleReactionAdded(ctx, ev)
	case *slackevents.ReactionRemovedEvent:
		err = s.handleReactionRemoved(ctx, ev)
	default:
		return
	}

	if err != nil {
		logger.Error("event processing failed",
			zap.String("event_id", eventID),
			zap.String("type", inner.Type),
			zap.Error(err),
		)
	}
}

// handleMessage ingests channel messages. Roots become tracked messages,
// threaded replies get scored and trigger a recalculation of their root.
func (s *Server) handleMessage(ctx context.Context, ev *slackevents.MessageEvent) error {
	// Edits, deletions, joins etc. carry subtypes and are not tracked.
	// Thread broadcasts are regular replies that were also sent to channel.
	if ev.SubType != "" && ev.SubType != "thread_broadcast" {
		return nil
	}
	if ev.BotID != "" || ev.User == "" || ev.Channel == "" {
		return nil
	}

	user, err := s.slack.FetchUser(ctx, ev.User)
	if err != nil {
		logger.Warn("proceeding without user profile",
			zap.String("user_id", ev.User),
			zap.Error(err),
		)
		user = models.User{ID: ev.User}
	}

	channel, err := s.slack.FetchChannel(ctx, ev.Channel)
	if err != nil {
		logger.Warn("proceeding without channel profile",
			zap.String("channel_id", ev.Channel),
			zap.Error(err),
		)
		channel = models.Channel{ID: ev.Channel}
	}

	isReply := ev.ThreadTimeStamp != "" && ev.ThreadTimeStamp != ev.TimeStamp
	if !isReply {
		msg := &models.Message{
			SlackTS:     ev.TimeStamp,
			ChannelID:   ev.Channel,
			ChannelName: channel.Name,
			UserID:      ev.User,
			Username:    user.Username,
			Text:        ev.Text,
			CreatedAt:   parseSlackTS(ev.TimeStamp),
		}
		if err := s.repo.SaveMessage(ctx, msg); err != nil {
			return err
		}
		return s.recalculate(ctx, ev.Channel, ev.TimeStamp)
	}

	if err := s.ensureMessage(ctx, ev.Channel, ev.ThreadTimeStamp); err != nil {
		return err
	}

	score := s.replyScore(ctx, ev.Text)
	reply := &models.Reply{
		MessageTS:      ev.ThreadTimeStamp,
		ReplyTS:        ev.TimeStamp,
		UserID:         ev.User,
		Username:       user.Username,
		Text:           ev.Text,
		SentimentScore: score,
		SentimentLabel: sentiment.Classify(score),
		CreatedAt:      parseSlackTS(ev.TimeStamp),
	}
	if err := s.repo.SaveReply(ctx, reply); err != nil {
		return err
	}

	return s.recalculate(ctx, ev.Channel, ev.ThreadTimeStamp)
}

func (s *Server) handleReactionAdded(ctx context.Context, ev *slackevents.ReactionAddedEvent) error {
	if ev.Item.Type != "message" || ev.User == "" {
		return nil
	}

	user, err := s.slack.FetchUser(ctx, ev.User)
	if err != nil {
		logger.Warn("proceeding without user profile",
			zap.String("user_id", ev.User),
			zap.Error(err),
		)
		user = models.User{ID: ev.User}
	}

	if err := s.ensureMessage(ctx, ev.Item.Channel, ev.Item.Timestamp); err != nil {
		return err
	}

	reaction := &models.Reaction{
		MessageTS:  ev.Item.Timestamp,
		Emoji:      ev.Reaction,
		UserID:     ev.User,
		Username:   user.Username,
		ReactionTS: parseSlackTS(ev.EventTimestamp),
	}
	if err := s.repo.AddReaction(ctx, reaction); err != nil {
		return err
	}

	return s.recalculate(ctx, ev.Item.Channel, ev.Item.Timestamp)
}

func (s *Server) handleReactionRemoved(ctx context.Context, ev *slackevents.ReactionRemovedEvent) error {
	if ev.Item.Type != "message" {
		return nil
	}

	if err := s.repo.RemoveReaction(ctx, ev.Item.Timestamp, ev.Reaction, ev.User); err != nil {
		return err
	}

	return s.recalculate(ctx, ev.Item.Channel, ev.Item.Timestamp)
}

// replyScore is the lexical comparative score, with the LLM chain as a
// fallback when the lexicon is silent on non-empty text
func (s *Server) replyScore(ctx context.Context, text string) float64 {
	score := s.scorer.Score(text).Comparative
	if score != 0 || strings.TrimSpace(text) == "" {
		return score
	}
	if !s.fallback.Enabled() {
		return 0
	}
	return s.fallback.Score(ctx, text, "")
}

// ensureMessage backfills a tracked record for a message whose original
// posting predates the tracker (or was missed), so reactions and replies
// always have a parent row to attach to.
func (s *Server) ensureMessage(ctx context.Context, channelID, messageTS string) error {
	existing, err := s.repo.GetMessageByTS(ctx, messageTS)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	msg := &models.Message{
		SlackTS:   messageTS,
		ChannelID: channelID,
		CreatedAt: parseSlackTS(messageTS),
	}

	root, err := s.slack.FetchRootMessage(ctx, channelID, messageTS)
	if err != nil {
		logger.Warn("backfill fetch failed, storing minimal record",
			zap.String("message_ts", messageTS),
			zap.Error(err),
		)
	} else if root != nil {
		msg.UserID = root.UserID
		msg.Text = root.Text

		if root.UserID != "" {
			if user, err := s.slack.FetchUser(ctx, root.UserID); err == nil {
				msg.Username = user.Username
			}
		}
	}

	if channel, err := s.slack.FetchChannel(ctx, channelID); err == nil {
		msg.ChannelName = channel.Name
	}

	return s.repo.SaveMessage(ctx, msg)
}

// recalculate refreshes the sentiment snapshot and feeds the optional
// analytics sink
func (s *Server) recalculate(ctx context.Context, channelID, messageTS string) error {
	result, err := s.recalc.Recalculate(ctx, messageTS)
	if err != nil {
		return err
	}

	if s.history != nil {
		var reactionCount int
		for _, g := range result.Reactions {
			reactionCount += g.Count
		}
		s.history.Add(ctx, analytics.Record{
			Time:              time.Now().UTC(),
			MessageTS:         messageTS,
			ChannelID:         channelID,
			EmojiSentiment:    result.Snapshot.EmojiSentiment,
			ReplySentiment:    result.Snapshot.ReplySentiment,
			CombinedSentiment: result.Snapshot.CombinedSentiment,
			ReactionCount:     reactionCount,
			ReplyCount:        len(result.Replies),
		})
	}

	return nil
}

// parseSlackTS converts a Slack "seconds.fraction" timestamp to time.Time
func parseSlackTS(ts string) time.Time {
	f, err := strconv.ParseFloat(ts, 64)
	if err != nil {
		return time.Now()
	}

	sec := int64(f)
	nsec := int64((f - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}
