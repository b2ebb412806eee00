package service

import (
	"context"

	"askgov-sg/internal/pkg/logger"
	"askgov-sg/internal/repository/contract"
	"askgov-sg/pkg/gate"
	"askgov-sg/pkg/store"
)

type IGateService interface {
	// Authenticate compares candidate with the access secret and records the
	// result on the session. There is no lockout and no attempt counting.
	Authenticate(ctx context.Context, session *store.Session, candidate string) (bool, error)
}

type gateService struct {
	secret   string
	sessions contract.SessionRepository
	logger   logger.ILogger
}

func NewGateService(secret string, sessions contract.SessionRepository, logger logger.ILogger) IGateService {
	return &gateService{
		secret:   secret,
		sessions: sessions,
		logger:   logger,
	}
}

func (s *gateService) Authenticate(ctx context.Context, session *store.Session, candidate string) (bool, error) {
	// granted is permanent for the session
	if session.Authenticated() {
		return true, nil
	}

	matched := gate.Check(candidate, s.secret)
	err := s.sessions.Update(ctx, session, func(stored *store.Session) {
		// a concurrent request may already have granted this session
		if stored.Authenticated() {
			return
		}
		if matched {
			stored.Gate = store.GateGranted
		} else {
			stored.Gate = store.GateDenied
		}
	})
	if err != nil {
		return false, err
	}

	if session.Authenticated() {
		s.logger.Info("GATE", "Access granted", map[string]interface{}{"session_id": session.ID})
	} else {
		s.logger.Warn("GATE", "Access denied", map[string]interface{}{"session_id": session.ID})
	}
	return session.Authenticated(), nil
}
