package dispatcher

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/threadpulse/threadpulse/internal/adapters/config"
	"github.com/threadpulse/threadpulse/internal/analytics"
	"github.com/threadpulse/threadpulse/internal/sentiment"
	"github.com/threadpulse/threadpulse/pkg/logger"
	"github.com/threadpulse/threadpulse/pkg/models"

	slackapi "github.com/slack-go/slack"
)

// messageStore is the persistence surface the event handlers write to
type messageStore interface {
	SaveMessage(ctx context.Context, msg *models.Message) error
	SaveReply(ctx context.Context, reply *models.Reply) error
	AddReaction(ctx context.Context, reaction *models.Reaction) error
	RemoveReaction(ctx context.Context, messageTS, emoji, userID string) error
	GetMessageByTS(ctx context.Context, messageTS string) (*models.Message, error)
}

// platformClient is the Slack surface the handlers call out to
type platformClient interface {
	FetchUser(ctx context.Context, userID string) (models.User, error)
	FetchChannel(ctx context.Context, channelID string) (models.Channel, error)
	FetchRootMessage(ctx context.Context, channelID, ts string) (*models.ThreadMessage, error)
	OpenModal(ctx context.Context, triggerID string, view slackapi.ModalViewRequest) error
	UploadFile(ctx context.Context, channelID, filename, title, content string) error
}

// recalcEngine derives and persists sentiment snapshots
type recalcEngine interface {
	Recalculate(ctx context.Context, messageTS string) (*models.RecalcResult, error)
	Summarize(ctx context.Context, channelID, messageTS string) (*models.MessageSummary, error)
}

// Server receives Slack event and interaction callbacks over HTTP.
// Handlers acknowledge within Slack's 3 second window and do the real
// work on background goroutines.
type Server struct {
	server *http.Server

	signingSecret string
	slack         platformClient
	repo          messageStore
	recalc        recalcEngine
	scorer        *sentiment.TextScorer
	fallback      *sentiment.FallbackScorer
	analyzer      *sentiment.ThreadAnalyzer
	history       *analytics.Writer
}

// NewServer creates the event dispatcher. history may be nil when the
// analytics sink is disabled.
func NewServer(
	cfg *config.Config,
	slackClient platformClient,
	repo messageStore,
	recalc recalcEngine,
	scorer *sentiment.TextScorer,
	fallback *sentiment.FallbackScorer,
	analyzer *sentiment.ThreadAnalyzer,
	history *analytics.Writer,
) *Server {
	mux := http.NewServeMux()

	s := &Server{
		server: &http.Server{
			Addr:         ":" + cfg.Server.Port,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		signingSecret: cfg.Slack.SigningSecret,
		slack:         slackClient,
		repo:          repo,
		recalc:        recalc,
		scorer:        scorer,
		fallback:      fallback,
		analyzer:      analyzer,
		history:       history,
	}

	mux.HandleFunc("/slack/events", s.handleEvents)
	mux.HandleFunc("/slack/interactions", s.handleInteractions)

	return s
}

// Start starts the HTTP listener
func (s *Server) Start() error {
	logger.Info("dispatcher server starting",
		zap.String("addr", s.server.Addr),
	)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	logger.Info("stopping dispatcher server...")
	return s.server.Shutdown(ctx)
}

// verifiedBody reads the request body and checks the Slack signature.
// Returns nil after writing an error status when verification fails.
func (s *Server) verifiedBody(w http.ResponseWriter, r *http.Request) []byte {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Error("failed to read request body", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return nil
	}
	r.Body = io.NopCloser(bytes.NewReader(body))

	verifier, err := slackapi.NewSecretsVerifier(r.Header, s.signingSecret)
	if err != nil {
		logger.Warn("rejected request with bad signature headers", zap.Error(err))
		w.WriteHeader(http.StatusUnauthorized)
		return nil
	}

	if _, err := verifier.Write(body); err != nil {
		logger.Error("failed to feed signature verifier", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return nil
	}

	if err := verifier.Ensure(); err != nil {
		logger.Warn("rejected request with invalid signature", zap.Error(err))
		w.WriteHeader(http.StatusUnauthorized)
		return nil
	}

	return body
}
