package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"backoffice-agent/internal/domain/entity"
	"backoffice-agent/internal/domain/repository"
	"backoffice-agent/internal/infrastructure/database"
)

const memoryLogCapacity = 500

type apiLogRepository struct {
	db     *database.Database
	logger *zap.Logger
}

// NewAPILogRepository stores logs in Postgres, or in a bounded in-memory
// buffer when the database is disabled.
func NewAPILogRepository(db *database.Database, logger *zap.Logger) repository.APILogRepository {
	if !db.Enabled() {
		return NewMemoryAPILogRepository(memoryLogCapacity)
	}
	return &apiLogRepository{
		db:     db,
		logger: logger,
	}
}

func (r *apiLogRepository) Save(ctx context.Context, log *entity.APILog) error {
	query := `
		INSERT INTO api_logs (request_id, endpoint, method, request_body, response_body, status_code, duration_ms, retried, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.db.DB.QueryRowContext(ctx, query,
		log.RequestID,
		log.Endpoint,
		log.Method,
		log.RequestBody,
		log.ResponseBody,
		log.StatusCode,
		log.Duration,
		log.Retried,
		log.CreatedAt,
	).Scan(&log.ID)

	if err != nil {
		r.logger.Error("Failed to save API log",
			zap.String("endpoint", log.Endpoint),
			zap.Error(err),
		)
		return fmt.Errorf("failed to save API log: %w", err)
	}

	return nil
}

func (r *apiLogRepository) FindAll(ctx context.Context, limit int) ([]entity.APILog, error) {
	query := `
		SELECT id, request_id, endpoint, method, request_body, response_body, status_code, duration_ms, retried, created_at
		FROM api_logs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.db.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query API logs: %w", err)
	}
	defer rows.Close()

	return scanAPILogs(rows)
}

func (r *apiLogRepository) FindByEndpoint(ctx context.Context, endpoint string, limit int) ([]entity.APILog, error) {
	query := `
		SELECT id, request_id, endpoint, method, request_body, response_body, status_code, duration_ms, retried, created_at
		FROM api_logs
		WHERE endpoint LIKE $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.DB.QueryContext(ctx, query, "%"+endpoint+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query API logs: %w", err)
	}
	defer rows.Close()

	return scanAPILogs(rows)
}

func scanAPILogs(rows *sql.Rows) ([]entity.APILog, error) {
	var logs []entity.APILog
	for rows.Next() {
		var log entity.APILog
		var reqBody, respBody sql.NullString
		if err := rows.Scan(
			&log.ID,
			&log.RequestID,
			&log.Endpoint,
			&log.Method,
			&reqBody,
			&respBody,
			&log.StatusCode,
			&log.Duration,
			&log.Retried,
			&log.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan API log: %w", err)
		}
		log.RequestBody = reqBody.String
		log.ResponseBody = respBody.String
		logs = append(logs, log)
	}
	return logs, rows.Err()
}

type memoryAPILogRepository struct {
	mu       sync.RWMutex
	logs     []entity.APILog
	nextID   int64
	capacity int
}

// NewMemoryAPILogRepository keeps the most recent capacity entries.
func NewMemoryAPILogRepository(capacity int) repository.APILogRepository {
	return &memoryAPILogRepository{capacity: capacity}
}

func (r *memoryAPILogRepository) Save(ctx context.Context, log *entity.APILog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	log.ID = r.nextID
	r.logs = append(r.logs, *log)
	if len(r.logs) > r.capacity {
		r.logs = r.logs[len(r.logs)-r.capacity:]
	}
	return nil
}

func (r *memoryAPILogRepository) FindAll(ctx context.Context, limit int) ([]entity.APILog, error) {
	return r.find(limit, func(entity.APILog) bool { return true }), nil
}

func (r *memoryAPILogRepository) FindByEndpoint(ctx context.Context, endpoint string, limit int) ([]entity.APILog, error) {
	return r.find(limit, func(log entity.APILog) bool {
		return strings.Contains(log.Endpoint, endpoint)
	}), nil
}

// find walks newest first.
func (r *memoryAPILogRepository) find(limit int, match func(entity.APILog) bool) []entity.APILog {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []entity.APILog
	for i := len(r.logs) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if match(r.logs[i]) {
			out = append(out, r.logs[i])
		}
	}
	return out
}
