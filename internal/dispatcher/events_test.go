package dispatcher

import (
	"context"
	"os"
	"testing"

	slackapi "github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"

	"github.com/threadpulse/threadpulse/internal/sentiment"
	"github.com/threadpulse/threadpulse/pkg/logger"
	"github.com/threadpulse/threadpulse/pkg/models"
)

func TestMain(m *testing.M) {
	if err := logger.Init("error", ""); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeStore struct {
	messages  map[string]*models.Message
	replies   []*models.Reply
	reactions []*models.Reaction
	removed   [][3]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{messages: make(map[string]*models.Message)}
}

func (f *fakeStore) SaveMessage(ctx context.Context, msg *models.Message) error {
	f.messages[msg.SlackTS] = msg
	return nil
}

func (f *fakeStore) SaveReply(ctx context.Context, reply *models.Reply) error {
	f.replies = append(f.replies, reply)
	return nil
}

func (f *fakeStore) AddReaction(ctx context.Context, reaction *models.Reaction) error {
	f.reactions = append(f.reactions, reaction)
	return nil
}

func (f *fakeStore) RemoveReaction(ctx context.Context, messageTS, emoji, userID string) error {
	f.removed = append(f.removed, [3]string{messageTS, emoji, userID})
	return nil
}

func (f *fakeStore) GetMessageByTS(ctx context.Context, messageTS string) (*models.Message, error) {
	return f.messages[messageTS], nil
}

type fakePlatform struct {
	root *models.ThreadMessage
}

func (f *fakePlatform) FetchUser(ctx context.Context, userID string) (models.User, error) {
	return models.User{ID: userID, Username: "u_" + userID}, nil
}

func (f *fakePlatform) FetchChannel(ctx context.Context, channelID string) (models.Channel, error) {
	return models.Channel{ID: channelID, Name: "general"}, nil
}

func (f *fakePlatform) FetchRootMessage(ctx context.Context, channelID, ts string) (*models.ThreadMessage, error) {
	return f.root, nil
}

func (f *fakePlatform) OpenModal(ctx context.Context, triggerID string, view slackapi.ModalViewRequest) error {
	return nil
}

func (f *fakePlatform) UploadFile(ctx context.Context, channelID, filename, title, content string) error {
	return nil
}

type fakeRecalc struct {
	recalculated []string
}

func (f *fakeRecalc) Recalculate(ctx context.Context, messageTS string) (*models.RecalcResult, error) {
	f.recalculated = append(f.recalculated, messageTS)
	return &models.RecalcResult{}, nil
}

func (f *fakeRecalc) Summarize(ctx context.Context, channelID, messageTS string) (*models.MessageSummary, error) {
	return nil, nil
}

func newTestServer(store *fakeStore, platform *fakePlatform, recalc *fakeRecalc) *Server {
	return &Server{
		slack:  platform,
		repo:   store,
		recalc: recalc,
		scorer: sentiment.NewTextScorer(),
	}
}

func TestHandleMessageRootTriggersRecalculation(t *testing.T) {
	store := newFakeStore()
	recalc := &fakeRecalc{}
	s := newTestServer(store, &fakePlatform{}, recalc)

	err := s.handleMessage(context.Background(), &slackevents.MessageEvent{
		User:      "U1",
		Channel:   "C1",
		Text:      "shipping the new release today",
		TimeStamp: "100.1",
	})
	if err != nil {
		t.Fatalf("handleMessage returned error: %v", err)
	}

	msg, ok := store.messages["100.1"]
	if !ok {
		t.Fatal("root message was not saved")
	}
	if msg.ChannelName != "general" || msg.Username != "u_U1" {
		t.Errorf("profile fields not filled: %+v", msg)
	}

	// Every new root message refreshes its snapshot, same as replies and
	// reactions do
	if len(recalc.recalculated) != 1 || recalc.recalculated[0] != "100.1" {
		t.Errorf("recalculated = %v, want [100.1]", recalc.recalculated)
	}
}

func TestHandleMessageReply(t *testing.T) {
	store := newFakeStore()
	store.messages["100.1"] = &models.Message{SlackTS: "100.1"}
	recalc := &fakeRecalc{}
	s := newTestServer(store, &fakePlatform{}, recalc)

	err := s.handleMessage(context.Background(), &slackevents.MessageEvent{
		User:            "U2",
		Channel:         "C1",
		Text:            "great work",
		TimeStamp:       "100.2",
		ThreadTimeStamp: "100.1",
	})
	if err != nil {
		t.Fatalf("handleMessage returned error: %v", err)
	}

	if len(store.replies) != 1 {
		t.Fatalf("expected 1 saved reply, got %d", len(store.replies))
	}
	reply := store.replies[0]
	if reply.MessageTS != "100.1" || reply.ReplyTS != "100.2" {
		t.Errorf("reply keys = %q/%q", reply.MessageTS, reply.ReplyTS)
	}
	if reply.SentimentScore <= 0 || reply.SentimentLabel != models.LabelPositive {
		t.Errorf("reply scoring = %v/%s", reply.SentimentScore, reply.SentimentLabel)
	}

	if len(recalc.recalculated) != 1 || recalc.recalculated[0] != "100.1" {
		t.Errorf("recalculated = %v, want [100.1]", recalc.recalculated)
	}
}

func TestHandleMessageSkipsSubtypesAndBots(t *testing.T) {
	store := newFakeStore()
	recalc := &fakeRecalc{}
	s := newTestServer(store, &fakePlatform{}, recalc)

	events := []*slackevents.MessageEvent{
		{User: "U1", Channel: "C1", TimeStamp: "1.0", SubType: "message_changed"},
		{User: "U1", Channel: "C1", TimeStamp: "1.1", BotID: "B1"},
		{Channel: "C1", TimeStamp: "1.2"},
	}
	for _, ev := range events {
		if err := s.handleMessage(context.Background(), ev); err != nil {
			t.Fatalf("handleMessage(%+v) returned error: %v", ev, err)
		}
	}

	if len(store.messages) != 0 || len(recalc.recalculated) != 0 {
		t.Errorf("skipped events still wrote state: %d messages, %v", len(store.messages), recalc.recalculated)
	}
}

func TestHandleReactionAddedBackfillsParent(t *testing.T) {
	store := newFakeStore()
	recalc := &fakeRecalc{}
	platform := &fakePlatform{
		root: &models.ThreadMessage{TS: "50.0", UserID: "U9", Text: "older post"},
	}
	s := newTestServer(store, platform, recalc)

	err := s.handleReactionAdded(context.Background(), &slackevents.ReactionAddedEvent{
		User:     "U1",
		Reaction: "thumbsup",
		Item: slackevents.Item{
			Type:      "message",
			Channel:   "C1",
			Timestamp: "50.0",
		},
		EventTimestamp: "51.0",
	})
	if err != nil {
		t.Fatalf("handleReactionAdded returned error: %v", err)
	}

	// Untracked parent gets a backfilled record from platform history
	msg, ok := store.messages["50.0"]
	if !ok {
		t.Fatal("parent message was not backfilled")
	}
	if msg.Text != "older post" || msg.UserID != "U9" {
		t.Errorf("backfilled record = %+v", msg)
	}

	if len(store.reactions) != 1 || store.reactions[0].Emoji != "thumbsup" {
		t.Fatalf("unexpected reactions: %+v", store.reactions)
	}
	if len(recalc.recalculated) != 1 || recalc.recalculated[0] != "50.0" {
		t.Errorf("recalculated = %v, want [50.0]", recalc.recalculated)
	}
}

func TestHandleReactionRemoved(t *testing.T) {
	store := newFakeStore()
	recalc := &fakeRecalc{}
	s := newTestServer(store, &fakePlatform{}, recalc)

	err := s.handleReactionRemoved(context.Background(), &slackevents.ReactionRemovedEvent{
		User:     "U1",
		Reaction: "thumbsup",
		Item: slackevents.Item{
			Type:      "message",
			Channel:   "C1",
			Timestamp: "50.0",
		},
	})
	if err != nil {
		t.Fatalf("handleReactionRemoved returned error: %v", err)
	}

	want := [3]string{"50.0", "thumbsup", "U1"}
	if len(store.removed) != 1 || store.removed[0] != want {
		t.Errorf("removed = %v, want %v", store.removed, want)
	}
	if len(recalc.recalculated) != 1 || recalc.recalculated[0] != "50.0" {
		t.Errorf("recalculated = %v, want [50.0]", recalc.recalculated)
	}
}
