package postgres

import (
	"context"
	"fmt"

	"devnest-backend/internal/domain/entity"
	"devnest-backend/internal/repository"
)

type ContactRepo struct {
	db DBTX
}

func NewContactRepo(db DBTX) repository.ContactRepository {
	return &ContactRepo{db: db}
}

func (repo *ContactRepo) Create(ctx context.Context, msg *entity.ContactMessage) (int64, error) {
	const query = `
INSERT INTO contact_messages (name, email, company, budget, message)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

	var id int64
	err := repo.db.QueryRowContext(ctx, query,
		msg.Name, msg.Email, msg.Company, string(msg.Budget), msg.Message,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("Create: %w", err)
	}
	return id, nil
}

func (repo *ContactRepo) ListPaginated(ctx context.Context, offset, limit int) ([]*entity.ContactMessage, error) {
	const query = `
SELECT id, name, email, company, budget, message, created_at
FROM contact_messages
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2`

	rows, err := repo.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ListPaginated: %w", err)
	}
	defer func() { _ = rows.Close() }()

	messages := make([]*entity.ContactMessage, 0, limit)
	for rows.Next() {
		var msg entity.ContactMessage
		if err := rows.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Company,
			&msg.Budget, &msg.Message, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListPaginated: Scan: %w", err)
		}
		messages = append(messages, &msg)
	}
	return messages, rows.Err()
}

func (repo *ContactRepo) Count(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM contact_messages`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return count, nil
}
