package repositories

import (
	"context"
	"fmt"
	"time"

	"catena/internal/common"
	"catena/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// JobRepository persists jobs and their append-only history. Every write that
// appends history runs in one transaction with the job row update.
type JobRepository interface {
	Create(ctx context.Context, job *models.Job, created *models.HistoryEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	List(ctx context.Context, filter models.JobFilter) ([]*models.Job, error)
	AppendHistory(ctx context.Context, jobID uuid.UUID, entry *models.HistoryEntry) error
	Approve(ctx context.Context, jobID uuid.UUID, entry *models.HistoryEntry) error
	Assign(ctx context.Context, jobID, assignee uuid.UUID, entry *models.HistoryEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type jobRepo struct {
	db Database
}

func NewJobRepo(db Database) JobRepository {
	return &jobRepo{db: db}
}

const jobColumns = `id, title, type, priority, offer_type, zone, state, language, product, brand, model,
	offer_details, other_details, attachment, due_date, assigned_to, created_by, approved_by, approved_at,
	created_at, updated_at`

func scanJob(row pgx.Row) (*models.Job, error) {
	var (
		j                                  models.Job
		assignedTo, createdBy, approvedBy *uuid.UUID
	)
	err := row.Scan(&j.ID, &j.Title, &j.Type, &j.Priority, &j.OfferType, &j.Zone, &j.State, &j.Language,
		&j.Product, &j.Brand, &j.Model, &j.OfferDetails, &j.OtherDetails, &j.Attachment, &j.DueDate,
		&assignedTo, &createdBy, &approvedBy, &j.ApprovedAt, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	j.AssignedTo = models.NewUserRef(assignedTo)
	j.CreatedBy = models.NewUserRef(createdBy)
	j.ApprovedBy = models.NewUserRef(approvedBy)
	return &j, nil
}

func (r *jobRepo) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

func insertHistory(ctx context.Context, tx pgx.Tx, jobID uuid.UUID, entry *models.HistoryEntry) error {
	if entry.Date.IsZero() {
		entry.Date = time.Now().UTC()
	}
	entry.Log = entry.Status.Log()

	var updatedBy *uuid.UUID
	if entry.UpdatedBy != nil {
		updatedBy = &entry.UpdatedBy.ID
	}

	err := tx.QueryRow(ctx, `
		INSERT INTO job_history (job_id, log, status, comment, attachment, updated_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING seq
	`, jobID, string(entry.Log), string(entry.Status), entry.Comment, entry.Attachment, updatedBy, entry.Date).Scan(&entry.Seq)
	if err != nil {
		return fmt.Errorf("failed to append history: %w", err)
	}
	return nil
}

func (r *jobRepo) Create(ctx context.Context, job *models.Job, created *models.HistoryEntry) error {
	var createdBy, assignedTo *uuid.UUID
	if job.CreatedBy != nil {
		createdBy = &job.CreatedBy.ID
	}
	if job.AssignedTo != nil {
		assignedTo = &job.AssignedTo.ID
	}

	return r.inTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO jobs (id, title, type, priority, offer_type, zone, state, language, product, brand, model,
				offer_details, other_details, attachment, due_date, assigned_to, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $18)
		`, job.ID, job.Title, job.Type, job.Priority, job.OfferType, job.Zone, job.State, job.Language,
			job.Product, job.Brand, job.Model, job.OfferDetails, job.OtherDetails, job.Attachment, job.DueDate,
			assignedTo, createdBy, job.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert job: %w", err)
		}
		return insertHistory(ctx, tx, job.ID, created)
	})
}

func (r *jobRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	job, err := scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err, "Job")
	}
	if err := r.loadHistory(ctx, []*models.Job{job}); err != nil {
		return nil, err
	}
	return job, nil
}

func (r *jobRepo) List(ctx context.Context, filter models.JobFilter) ([]*models.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs`
	var args []any
	if filter.AssignedTo != nil {
		query += ` WHERE assigned_to = $1`
		args = append(args, *filter.AssignedTo)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*models.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadHistory(ctx, jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// loadHistory fills both logs of every job in insertion order.
func (r *jobRepo) loadHistory(ctx context.Context, jobs []*models.Job) error {
	if len(jobs) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*models.Job, len(jobs))
	ids := make([]uuid.UUID, 0, len(jobs))
	for _, j := range jobs {
		byID[j.ID] = j
		ids = append(ids, j.ID)
	}

	rows, err := r.db.Query(ctx, `
		SELECT job_id, seq, status, comment, attachment, updated_by, created_at
		FROM job_history
		WHERE job_id = ANY($1)
		ORDER BY seq
	`, ids)
	if err != nil {
		return fmt.Errorf("failed to load job history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			jobID     uuid.UUID
			status    string
			updatedBy *uuid.UUID
			entry     models.HistoryEntry
		)
		if err := rows.Scan(&jobID, &entry.Seq, &status, &entry.Comment, &entry.Attachment, &updatedBy, &entry.Date); err != nil {
			return err
		}
		entry.Status = models.JobEvent(status)
		entry.UpdatedBy = models.NewUserRef(updatedBy)
		if job, ok := byID[jobID]; ok {
			job.Append(entry)
		}
	}
	return rows.Err()
}

// appendWith runs update against the job row and appends entry in the same
// transaction. A missing job yields NotFound and nothing is appended.
func (r *jobRepo) appendWith(ctx context.Context, jobID uuid.UUID, entry *models.HistoryEntry, update string, args ...any) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, update, append([]any{jobID}, args...)...)
		if err != nil {
			return fmt.Errorf("failed to update job: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return common.NotFound("Job")
		}
		return insertHistory(ctx, tx, jobID, entry)
	})
}

func (r *jobRepo) AppendHistory(ctx context.Context, jobID uuid.UUID, entry *models.HistoryEntry) error {
	return r.appendWith(ctx, jobID, entry, `UPDATE jobs SET updated_at = NOW() WHERE id = $1`)
}

// Approve stamps approved_by/approved_at on the first approval only.
func (r *jobRepo) Approve(ctx context.Context, jobID uuid.UUID, entry *models.HistoryEntry) error {
	var actor *uuid.UUID
	if entry.UpdatedBy != nil {
		actor = &entry.UpdatedBy.ID
	}
	return r.appendWith(ctx, jobID, entry, `
		UPDATE jobs
		SET approved_by = COALESCE(approved_by, $2), approved_at = COALESCE(approved_at, NOW()), updated_at = NOW()
		WHERE id = $1
	`, actor)
}

func (r *jobRepo) Assign(ctx context.Context, jobID, assignee uuid.UUID, entry *models.HistoryEntry) error {
	return r.appendWith(ctx, jobID, entry, `UPDATE jobs SET assigned_to = $2, updated_at = NOW() WHERE id = $1`, assignee)
}

func (r *jobRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NotFound("Job")
	}
	return nil
}
