package mapper

import (
	"askgov-sg/internal/dto"
	"askgov-sg/pkg/search"
	"askgov-sg/pkg/store"
)

type AskMapper struct{}

func NewAskMapper() *AskMapper {
	return &AskMapper{}
}

func (m *AskMapper) SourcesToDTO(results []search.SearchResult) []dto.SourceDTO {
	sources := make([]dto.SourceDTO, 0, len(results))
	for _, r := range results {
		sources = append(sources, dto.SourceDTO{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: r.Snippet,
		})
	}
	return sources
}

func (m *AskMapper) SessionToDTO(s *store.Session) *dto.SessionResponse {
	if s == nil {
		return nil
	}
	return &dto.SessionResponse{
		Gate:     string(s.Gate),
		Location: string(s.Location),
		Need:     string(s.Need),
	}
}

func (m *AskMapper) GateToDTO(s *store.Session) *dto.GateResponse {
	return &dto.GateResponse{
		Authenticated: s.Authenticated(),
		Gate:          string(s.Gate),
	}
}

// ContextFromRequest resolves the optional selectors on an ask request,
// keeping the session's current values for anything left blank.
func (m *AskMapper) ContextFromRequest(req *dto.AskRequest, current store.QueryContext) store.QueryContext {
	qctx := current
	if l, ok := store.ParseLocation(req.Location); ok {
		qctx.Location = l
	}
	if n, ok := store.ParseNeed(req.Need); ok {
		qctx.Need = n
	}
	return qctx
}
