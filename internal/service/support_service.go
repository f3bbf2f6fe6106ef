package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Th3UrBanGuy/kenakata-sub000/internal/domain"
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/repository"
	"github.com/Th3UrBanGuy/kenakata-sub000/pkg/mylogger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmptyMessage  = errors.New("message body is empty")
	ErrUnknownSender = errors.New("unknown sender")
)

type SupportService interface {
	PostMessage(ctx context.Context, sessionID uuid.UUID, sender domain.SupportSender, body string) (*domain.SupportMessage, error)
	History(ctx context.Context, sessionID uuid.UUID) ([]domain.SupportMessage, error)
}

type supportService struct {
	supportRepo repository.SupportRepository
	logger      *zap.Logger
}

func NewSupportService(supportRepo repository.SupportRepository, logger *zap.Logger) SupportService {
	return &supportService{
		supportRepo: supportRepo,
		logger:      logger,
	}
}

// PostMessage appends one message to a session log. A zero sessionID starts a
// new session.
func (s *supportService) PostMessage(ctx context.Context, sessionID uuid.UUID, sender domain.SupportSender, body string) (*domain.SupportMessage, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyMessage
	}

	if sender != domain.SupportSenderCustomer && sender != domain.SupportSenderAdmin {
		return nil, fmt.Errorf("%q: %w", sender, ErrUnknownSender)
	}

	if sessionID == uuid.Nil {
		sessionID = uuid.New()
	}

	message := &domain.SupportMessage{
		SessionID: sessionID,
		Sender:    sender,
		Body:      body,
	}

	if err := s.supportRepo.AppendMessage(ctx, message); err != nil {
		mylogger.Error(
			ctx,
			s.logger,
			"Failed to append support message",
			zap.String("session_id", sessionID.String()),
			zap.Error(err),
		)

		return nil, err
	}

	return message, nil
}

func (s *supportService) History(ctx context.Context, sessionID uuid.UUID) ([]domain.SupportMessage, error) {
	messages, err := s.supportRepo.ListBySession(ctx, sessionID)
	if err != nil {
		s.logger.Error("support history error", zap.Error(err))
		return nil, fmt.Errorf("error listing support messages: %w", err)
	}

	return messages, nil
}
