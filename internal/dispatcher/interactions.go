package dispatcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	slackapi "github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/threadpulse/threadpulse/internal/summary"
	"github.com/threadpulse/threadpulse/pkg/logger"
)

// ShortcutCallbackID is the message-action shortcut configured in the
// Slack app manifest
const ShortcutCallbackID = "post_analysis_shortcut"

func (s *Server) handleInteractions(w http.ResponseWriter, r *http.Request) {
	body := s.verifiedBody(w, r)
	if body == nil {
		return
	}

	form, err := url.ParseQuery(string(body))
	if err != nil {
		logger.Error("failed to parse interaction form", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var callback slackapi.InteractionCallback
	if err := json.Unmarshal([]byte(form.Get("payload")), &callback); err != nil {
		logger.Error("failed to parse interaction payload", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	// Ack inside Slack's 3s window, process in background
	w.WriteHeader(http.StatusOK)

	switch callback.Type {
	case slackapi.InteractionTypeMessageAction:
		if callback.CallbackID == ShortcutCallbackID {
			go s.runInteraction("summary_shortcut", func(ctx context.Context) error {
				return s.openSummary(ctx, &callback)
			})
		}

	case slackapi.InteractionTypeBlockActions:
		for _, action := range callback.ActionCallback.BlockActions {
			switch action.ActionID {
			case summary.ActionExportCSV:
				value := action.Value
				go s.runInteraction("export_csv", func(ctx context.Context) error {
					return s.exportCSV(ctx, value)
				})
			case summary.ActionDeepAnalysis:
				value := action.Value
				triggerID := callback.TriggerID
				go s.runInteraction("deep_analysis", func(ctx context.Context) error {
					return s.openDeepAnalysis(ctx, triggerID, value)
				})
			}
		}
	}
}

func (s *Server) runInteraction(name string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
	defer cancel()

	if err := fn(ctx); err != nil {
		logger.Error("interaction failed",
			zap.String("interaction", name),
			zap.Error(err),
		)
	}
}

// openSummary handles the "Post Analysis" message shortcut. The target
// message may never have been tracked, so it is backfilled first.
func (s *Server) openSummary(ctx context.Context, callback *slackapi.InteractionCallback) error {
	channelID := callback.Channel.ID
	messageTS := callback.MessageTs

	if err := s.ensureMessage(ctx, channelID, messageTS); err != nil {
		return err
	}

	sum, err := s.recalc.Summarize(ctx, channelID, messageTS)
	if err != nil {
		return err
	}
	if sum == nil {
		return fmt.Errorf("message %s missing after backfill", messageTS)
	}

	return s.slack.OpenModal(ctx, callback.TriggerID, summary.BuildSummaryModal(sum))
}

func (s *Server) exportCSV(ctx context.Context, value string) error {
	channelID, messageTS, err := summary.DecodeRef(value)
	if err != nil {
		return err
	}

	sum, err := s.recalc.Summarize(ctx, channelID, messageTS)
	if err != nil {
		return err
	}
	if sum == nil {
		return fmt.Errorf("message %s is not tracked", messageTS)
	}

	content, err := summary.GenerateCSV(sum)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("post_analysis_%s.csv", strings.ReplaceAll(messageTS, ".", "_"))
	return s.slack.UploadFile(ctx, channelID, filename, "Post Analysis Export", content)
}

func (s *Server) openDeepAnalysis(ctx context.Context, triggerID, value string) error {
	channelID, messageTS, err := summary.DecodeRef(value)
	if err != nil {
		return err
	}

	analysis, err := s.analyzer.AnalyzeThread(ctx, channelID, messageTS)
	if err != nil {
		return err
	}

	return s.slack.OpenModal(ctx, triggerID, summary.BuildThreadAnalysisModal(analysis))
}
