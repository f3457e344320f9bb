package publishers

import (
	"context"
	"time"

	"github.com/Adda-Baaj/k1news-harvester/internal/domain"
	"github.com/Adda-Baaj/k1news-harvester/internal/logger"

	"github.com/google/uuid"
)

// EventArticleParsed is emitted once per stored article.
const EventArticleParsed = "article.parsed"

// Event is the payload delivered to every publisher.
type Event struct {
	ID         string               `json:"id"`
	Type       string               `json:"type"`
	ProviderID string               `json:"provider_id"`
	OccurredAt time.Time            `json:"occurred_at"`
	Article    domain.ArticleRecord `json:"article"`
}

// NewArticleEvent wraps a parsed record into an event.
func NewArticleEvent(providerID string, rec domain.ArticleRecord) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       EventArticleParsed,
		ProviderID: providerID,
		OccurredAt: time.Now().UTC(),
		Article:    rec,
	}
}

// Publisher delivers events to one configured sink.
type Publisher interface {
	ID() string
	Type() string
	Publish(ctx context.Context, evt Event) error
}

// Logger is the logger publishers report delivery through.
type Logger = logger.Logger

func ensureLogger(log Logger) Logger {
	if log == nil {
		return logger.NopLogger{}
	}
	return log
}
