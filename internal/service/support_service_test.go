package service_test

import (
	"fmt"

	"github.com/Th3UrBanGuy/kenakata-sub000/internal/domain"
	"github.com/Th3UrBanGuy/kenakata-sub000/internal/service"
	"github.com/google/uuid"
)

func (s *IntegrationTestSuite) TestSupport_NewSessionAndHistory() {
	first, err := s.SupportService.PostMessage(s.Ctx, uuid.Nil, domain.SupportSenderCustomer, "Where is my order?")
	s.Require().NoError(err)
	s.Require().NotEqual(uuid.Nil, first.SessionID)

	_, err = s.SupportService.PostMessage(s.Ctx, first.SessionID, domain.SupportSenderAdmin, "It ships tomorrow.")
	s.Require().NoError(err)

	_, err = s.SupportService.PostMessage(s.Ctx, first.SessionID, domain.SupportSenderCustomer, "Thanks!")
	s.Require().NoError(err)

	history, err := s.SupportService.History(s.Ctx, first.SessionID)
	s.Require().NoError(err)
	s.Require().Len(history, 3)

	// append-only log in arrival order
	s.Equal("Where is my order?", history[0].Body)
	s.Equal(domain.SupportSenderAdmin, history[1].Sender)
	s.Equal("Thanks!", history[2].Body)
}

func (s *IntegrationTestSuite) TestSupport_SessionsAreIsolated() {
	a, err := s.SupportService.PostMessage(s.Ctx, uuid.Nil, domain.SupportSenderCustomer, "session a")
	s.Require().NoError(err)

	b, err := s.SupportService.PostMessage(s.Ctx, uuid.Nil, domain.SupportSenderCustomer, "session b")
	s.Require().NoError(err)
	s.NotEqual(a.SessionID, b.SessionID)

	history, err := s.SupportService.History(s.Ctx, a.SessionID)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal("session a", history[0].Body)
}

func (s *IntegrationTestSuite) TestSupport_ManyMessagesKeepOrder() {
	first, err := s.SupportService.PostMessage(s.Ctx, uuid.Nil, domain.SupportSenderCustomer, "msg 0")
	s.Require().NoError(err)

	for i := 1; i < 10; i++ {
		_, err := s.SupportService.PostMessage(s.Ctx, first.SessionID, domain.SupportSenderCustomer, fmt.Sprintf("msg %d", i))
		s.Require().NoError(err)
	}

	history, err := s.SupportService.History(s.Ctx, first.SessionID)
	s.Require().NoError(err)
	s.Require().Len(history, 10)

	for i, msg := range history {
		s.Equal(fmt.Sprintf("msg %d", i), msg.Body)
	}
}

func (s *IntegrationTestSuite) TestSupport_RejectsEmptyBody() {
	_, err := s.SupportService.PostMessage(s.Ctx, uuid.Nil, domain.SupportSenderCustomer, "   ")
	s.Require().ErrorIs(err, service.ErrEmptyMessage)
}

func (s *IntegrationTestSuite) TestSupport_RejectsUnknownSender() {
	_, err := s.SupportService.PostMessage(s.Ctx, uuid.Nil, domain.SupportSender("bot"), "hi")
	s.Require().ErrorIs(err, service.ErrUnknownSender)
}
