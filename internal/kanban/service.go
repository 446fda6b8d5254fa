package kanban

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "biocareer/opportunity-service/internal/errors"
)

// ChannelCardMoved is the pub/sub channel carrying card move events.
const ChannelCardMoved = "EVENT_CARD_MOVED"

// Publisher sends an event on a channel. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// RedisPublisher publishes through Redis pub/sub.
type RedisPublisher struct {
	rdb *redis.Client
}

// NewRedisPublisher wraps a connected client.
func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func (p *RedisPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	return p.rdb.Publish(ctx, channel, payload).Err()
}

// Board is the full tracker view.
type Board struct {
	Columns []Column `json:"columns"`
	Cards   []Card   `json:"cards"`
}

// NewCard holds the fields a client supplies when saving an opportunity.
type NewCard struct {
	OpportunityID string   `json:"opportunityId"`
	Title         string   `json:"title"`
	Company       string   `json:"company"`
	Location      string   `json:"location"`
	Deadline      string   `json:"deadline"`
	Tags          []string `json:"tags"`
}

// Service holds the tracker business logic. It has no dependency on the
// HTTP layer.
type Service struct {
	store  Store
	events Publisher
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewService returns a configured Service. events may be nil, in which case
// no move events are published.
func NewService(store Store, events Publisher, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		events: events,
		logger: logger.Named("tracker"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Board returns the columns in display order and every card.
func (s *Service) Board(ctx context.Context) (*Board, error) {
	cards, err := s.store.List(ctx)
	if err != nil {
		return nil, apperrors.Internal("listing cards", err)
	}
	return &Board{Columns: Columns, Cards: cards}, nil
}

// CreateCard adds a card in the saved column.
func (s *Service) CreateCard(ctx context.Context, in NewCard) (*Card, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Company = strings.TrimSpace(in.Company)
	if in.Title == "" || in.Company == "" {
		return nil, apperrors.InvalidInput("title and company are required", nil)
	}

	card := Card{
		ID:       s.newID(),
		Title:    in.Title,
		Company:  in.Company,
		Location: strings.TrimSpace(in.Location),
		Status:   StatusSaved,
		Tags:     in.Tags,
		History:  []HistoryEntry{},
	}
	if card.Tags == nil {
		card.Tags = []string{}
	}
	if id := strings.TrimSpace(in.OpportunityID); id != "" {
		card.OpportunityID = &id
	}
	if d := strings.TrimSpace(in.Deadline); d != "" {
		card.Deadline = &d
	}

	created, err := s.store.Insert(ctx, card)
	if err != nil {
		return nil, apperrors.Internal("creating card", err)
	}
	return created, nil
}

// MoveCard transitions a card to a new status and appends a history entry.
// A move event is published afterwards; publishing failures are logged only.
func (s *Service) MoveCard(ctx context.Context, id, newStatusStr string) (*Card, error) {
	newStatus, err := ParseStatus(newStatusStr)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error(), nil)
	}

	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, storeError("loading card", err)
	}

	if !IsTransitionAllowed(current.Status, newStatus) {
		return nil, apperrors.InvalidInput(
			fmt.Sprintf("transition %s → %s is not allowed", current.Status, newStatus), nil)
	}

	entry := HistoryEntry{From: current.Status, To: newStatus, At: s.now().UTC()}
	card, err := s.store.UpdateStatus(ctx, id, current.Status, newStatus, entry)
	if err != nil {
		return nil, storeError("moving card", err)
	}

	s.publishMove(ctx, card.ID, current.Status, newStatus)
	return card, nil
}

// AddNote sets or replaces the free-text note on a card.
func (s *Service) AddNote(ctx context.Context, id, note string) (*Card, error) {
	card, err := s.store.SetNote(ctx, id, note)
	if err != nil {
		return nil, storeError("saving note", err)
	}
	return card, nil
}

func (s *Service) publishMove(ctx context.Context, cardID string, from, to Status) {
	if s.events == nil {
		return
	}
	event, _ := json.Marshal(map[string]string{
		"type":   ChannelCardMoved,
		"cardId": cardID,
		"from":   string(from),
		"to":     string(to),
	})
	if err := s.events.Publish(ctx, ChannelCardMoved, event); err != nil {
		s.logger.Warn("publish card moved failed", zap.String("card_id", cardID), zap.Error(err))
	}
}

func storeError(op string, err error) error {
	switch {
	case errors.Is(err, ErrCardNotFound):
		return apperrors.NotFound("card not found", err)
	case errors.Is(err, ErrStatusChanged):
		return apperrors.Conflict("card was moved by another request, reload the board", err)
	default:
		return apperrors.Internal(op, err)
	}
}
