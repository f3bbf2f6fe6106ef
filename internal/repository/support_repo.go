package repository

import (
	"context"
	"fmt"

	"github.com/Th3UrBanGuy/kenakata-sub000/internal/domain"
	"github.com/Th3UrBanGuy/kenakata-sub000/pkg/mylogger"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type SupportRepository interface {
	AppendMessage(ctx context.Context, message *domain.SupportMessage) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.SupportMessage, error)
}

type supportRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	tracer trace.Tracer
}

func NewSupportRepository(pool *pgxpool.Pool, logger *zap.Logger) SupportRepository {
	return &supportRepo{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("contract/support_repo"),
	}
}

// AppendMessage only ever inserts; the chat log has no update or delete path.
func (r *supportRepo) AppendMessage(ctx context.Context, message *domain.SupportMessage) error {
	ctx, span := r.tracer.Start(ctx, "SupportRepository.AppendMessage")
	defer span.End()

	span.SetAttributes(
		attribute.String("session_id", message.SessionID.String()),
		attribute.String("sender", string(message.Sender)),
	)

	query := `
		INSERT INTO support_messages (session_id, sender, body, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`

	if err := r.pool.QueryRow(
		ctx,
		query,
		message.SessionID,
		string(message.Sender),
		message.Body,
	).Scan(&message.ID, &message.CreatedAt); err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Failed to insert support message",
			zap.String("session_id", message.SessionID.String()),
			zap.Error(err),
		)

		return fmt.Errorf("failed to insert support message: %w", err)
	}

	return nil
}

func (r *supportRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.SupportMessage, error) {
	ctx, span := r.tracer.Start(ctx, "SupportRepository.ListBySession")
	defer span.End()

	span.SetAttributes(
		attribute.String("session_id", sessionID.String()),
	)

	query := `
		SELECT id, session_id, sender, body, created_at
		FROM support_messages
		WHERE session_id = $1
		ORDER BY created_at ASC, id ASC;
	`

	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		span.RecordError(err)

		mylogger.Error(
			ctx,
			r.logger,
			"Error selecting support messages",
			zap.String("session_id", sessionID.String()),
			zap.Error(err),
		)

		return nil, fmt.Errorf("error selecting support messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.SupportMessage
	for rows.Next() {
		var m domain.SupportMessage
		if err := rows.Scan(
			&m.ID,
			&m.SessionID,
			&m.Sender,
			&m.Body,
			&m.CreatedAt,
		); err != nil {
			span.RecordError(err)

			return nil, fmt.Errorf("error scanning support message: %w", err)
		}

		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("support message rows iteration error: %w", err)
	}

	return messages, nil
}
