package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"askgov-sg/internal/constant"
	"askgov-sg/internal/dto"
	"askgov-sg/internal/mapper"
	"askgov-sg/internal/pkg/logger"
	"askgov-sg/internal/repository/contract"
	"askgov-sg/pkg/answer"
	"askgov-sg/pkg/events"
	"askgov-sg/pkg/search"
	"askgov-sg/pkg/store"
)

// MarkdownRenderer converts the model's Markdown answer to safe HTML.
type MarkdownRenderer interface {
	HTML(source string) (string, error)
}

type IAskService interface {
	// Ask runs one query cycle: search, then (only with at least one result)
	// compose. Failures never escape; they are reported in the response state.
	Ask(ctx context.Context, session *store.Session, query string) *dto.AskResponse
	UpdateContext(ctx context.Context, session *store.Session, qctx store.QueryContext) error
}

type askService struct {
	searcher  search.Searcher
	composer  answer.Composer
	renderer  MarkdownRenderer
	sessions  contract.SessionRepository
	publisher events.Publisher
	logger    logger.ILogger
	mapper    *mapper.AskMapper
}

func NewAskService(
	searcher search.Searcher,
	composer answer.Composer,
	renderer MarkdownRenderer,
	sessions contract.SessionRepository,
	publisher events.Publisher,
	logger logger.ILogger,
) IAskService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &askService{
		searcher:  searcher,
		composer:  composer,
		renderer:  renderer,
		sessions:  sessions,
		publisher: publisher,
		logger:    logger,
		mapper:    mapper.NewAskMapper(),
	}
}

func (s *askService) UpdateContext(ctx context.Context, session *store.Session, qctx store.QueryContext) error {
	return s.sessions.Update(ctx, session, func(stored *store.Session) {
		stored.SetContext(qctx)
	})
}

func (s *askService) Ask(ctx context.Context, session *store.Session, query string) *dto.AskResponse {
	started := time.Now()
	query = strings.TrimSpace(query)
	qctx := session.Context()

	res := &dto.AskResponse{
		Query:    query,
		Location: string(qctx.Location),
		Need:     string(qctx.Need),
		Sources:  []dto.SourceDTO{},
	}

	// Idle: nothing leaves the process for an empty question.
	if query == "" {
		res.State = constant.AskStateIdle
		res.Warning = constant.MsgEmptyQuery
		return res
	}

	results, err := s.searcher.Search(ctx, query)
	if err != nil {
		s.logger.Warn("ASK", "Search failed, treating as no results", map[string]interface{}{
			"session_id": session.ID,
			"error":      err.Error(),
		})
		res.Error = fmt.Sprintf(constant.MsgSearchFailed, err)
	}
	res.Sources = s.mapper.SourcesToDTO(results)

	if len(results) == 0 {
		res.State = constant.AskStateNoResults
		res.Warning = constant.MsgNoResults
		s.finish(ctx, session, res, started)
		return res
	}

	text, err := s.composer.Compose(ctx, query, results, qctx)
	if err != nil {
		s.logger.Error("ASK", "Answer composition failed", map[string]interface{}{
			"session_id": session.ID,
			"error":      err.Error(),
		})
		res.State = constant.AskStateError
		res.Error = constant.MsgAnswerUnavailable
		s.finish(ctx, session, res, started)
		return res
	}

	res.State = constant.AskStateAnswered
	res.Notice = constant.MsgAnswerReady
	res.Answer = text
	if html, err := s.renderer.HTML(text); err != nil {
		s.logger.Warn("ASK", "Markdown rendering failed, falling back to plain text", map[string]interface{}{"error": err.Error()})
	} else {
		res.AnswerHTML = html
	}

	s.finish(ctx, session, res, started)
	return res
}

func (s *askService) finish(ctx context.Context, session *store.Session, res *dto.AskResponse, started time.Time) {
	latency := time.Since(started).Milliseconds()

	s.logger.Info("ASK", "Query cycle finished", map[string]interface{}{
		"session_id":   session.ID,
		"state":        res.State,
		"source_count": len(res.Sources),
		"latency_ms":   latency,
	})

	s.publisher.Publish(ctx, events.QueryCompleted{
		SessionID:   session.ID,
		Location:    res.Location,
		Need:        res.Need,
		State:       res.State,
		SourceCount: len(res.Sources),
		QueryLength: len([]rune(res.Query)),
		LatencyMs:   latency,
		OccurredAt:  time.Now(),
	})
}
