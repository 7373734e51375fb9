package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"teacherpin/internal/models"
	"teacherpin/internal/repository"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type auditLogRepository struct {
	repository.BaseRepository
}

// NewAuditLogRepository creates a new PostgreSQL audit log repository
func NewAuditLogRepository(db *sql.DB) repository.AuditLogRepository {
	return &auditLogRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *auditLogRepository) Create(ctx context.Context, log *models.CreateAuditLogRequest) error {
	query := `
		INSERT INTO audit_logs (id, user_id, action, details, document_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.DB().ExecContext(ctx, query,
		uuid.New(),
		log.UserID,
		log.Action,
		log.Details,
		log.DocumentID,
		time.Now(),
	)
	return err
}

func (r *auditLogRepository) buildListQuery(filter repository.AuditLogFilter) (string, []interface{}) {
	var conditions []string
	var params []interface{}
	paramCount := 1

	query := `
		SELECT id, user_id, action, details, document_id, created_at
		FROM audit_logs`

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", paramCount))
		params = append(params, *filter.UserID)
		paramCount++
	}

	if len(filter.Actions) > 0 {
		actions := make([]string, len(filter.Actions))
		for i, a := range filter.Actions {
			actions[i] = string(a)
		}
		conditions = append(conditions, fmt.Sprintf("action = ANY($%d)", paramCount))
		params = append(params, pq.Array(actions))
		paramCount++
	}

	if filter.CreatedBefore != nil {
		conditions = append(conditions, fmt.Sprintf("created_at < $%d", paramCount))
		params = append(params, *filter.CreatedBefore)
		paramCount++
	}

	if filter.CreatedAfter != nil {
		conditions = append(conditions, fmt.Sprintf("created_at > $%d", paramCount))
		params = append(params, *filter.CreatedAfter)
		paramCount++
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	if filter.Limit != nil {
		query += fmt.Sprintf(" LIMIT $%d", paramCount)
		params = append(params, *filter.Limit)
		paramCount++
	}

	if filter.Offset != nil {
		query += fmt.Sprintf(" OFFSET $%d", paramCount)
		params = append(params, *filter.Offset)
	}

	return query, params
}

func (r *auditLogRepository) List(ctx context.Context, filter repository.AuditLogFilter) ([]models.AuditLog, error) {
	query, params := r.buildListQuery(filter)

	rows, err := r.DB().QueryContext(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.AuditLog{}
	for rows.Next() {
		var (
			log        models.AuditLog
			documentID sql.NullString
		)
		if err := rows.Scan(&log.ID, &log.UserID, &log.Action, &log.Details, &documentID, &log.CreatedAt); err != nil {
			return nil, err
		}
		if documentID.Valid {
			log.DocumentID = &documentID.String
		}
		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *auditLogRepository) GetByUserID(ctx context.Context, userID string, filter repository.AuditLogFilter) ([]models.AuditLog, error) {
	filter.UserID = &userID
	return r.List(ctx, filter)
}

func (r *auditLogRepository) CleanupOld(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result, err := r.DB().ExecContext(ctx, `DELETE FROM audit_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
