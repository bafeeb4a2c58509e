package services

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"catena/internal/caching"
	"catena/internal/common"
	"catena/internal/metrics"
	"catena/internal/models"
	"catena/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	jobAttachmentPrefix    = "job/"
	statusAttachmentPrefix = "status/"

	signFanOut = 8

	externalUsersTTL = 5 * time.Minute
)

// JobService drives the job approval workflow. Job ids arrive as raw strings
// and are validated here so every entry point reports INVALID_ID the same way.
type JobService interface {
	CreateJob(ctx context.Context, req *models.CreateJobRequest, actor uuid.UUID) (*models.Job, error)
	ApproveJob(ctx context.Context, jobID string, actor uuid.UUID) (*models.Job, error)
	UpdateJobStatus(ctx context.Context, jobID string, req *models.UpdateStatusRequest, actor uuid.UUID) (*models.Job, error)
	AssignJob(ctx context.Context, jobID string, req *models.AssignJobRequest, actor uuid.UUID) (*models.Job, error)
	GetJob(ctx context.Context, jobID string) (*models.Job, error)
	ListJobs(ctx context.Context, filter models.JobFilter) ([]*models.Job, error)
	DeleteJob(ctx context.Context, jobID string) error
	IssueAttachmentUploadURL(ctx context.Context, req *models.UploadURLRequest) (*models.UploadURL, error)
	IssueStatusUploadURL(ctx context.Context, req *models.UploadURLRequest) (*models.UploadURL, error)
	ListExternalUsers(ctx context.Context) ([]*models.UserSummary, error)
}

type jobService struct {
	jobRepo  repositories.JobRepository
	userRepo repositories.UserRepository
	cache    caching.CacheService
	storage  StorageService
	cleaner  *BlobCleaner
	log      *zap.Logger
}

func NewJobService(jobRepo repositories.JobRepository, userRepo repositories.UserRepository, cache caching.CacheService, storage StorageService, cleaner *BlobCleaner, log *zap.Logger) JobService {
	return &jobService{
		jobRepo:  jobRepo,
		userRepo: userRepo,
		cache:    cache,
		storage:  storage,
		cleaner:  cleaner,
		log:      log,
	}
}

func parseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, common.FieldError("dueDate", "must be an RFC3339 timestamp or YYYY-MM-DD date")
}

func (s *jobService) resolveAssignee(ctx context.Context, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, common.FieldError("assignedTo", "is not a valid user id")
	}
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (s *jobService) CreateJob(ctx context.Context, req *models.CreateJobRequest, actor uuid.UUID) (*models.Job, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, common.FieldError("title", "is required")
	}
	dueDate, err := parseDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job := &models.Job{
		ID:           uuid.New(),
		Title:        title,
		Type:         req.Type,
		Priority:     req.Priority,
		OfferType:    req.OfferType,
		Zone:         req.Zone,
		State:        req.State,
		Language:     req.Language,
		Product:      req.Product,
		Brand:        req.Brand,
		Model:        req.Model,
		OfferDetails: req.OfferDetails,
		OtherDetails: req.OtherDetails,
		Attachment:   s.storage.KeyFromURL(req.Attachment),
		DueDate:      dueDate,
		CreatedBy:    &models.UserRef{ID: actor},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if strings.TrimSpace(req.AssignedTo) != "" {
		assignee, err := s.resolveAssignee(ctx, req.AssignedTo)
		if err != nil {
			return nil, err
		}
		job.AssignedTo = &models.UserRef{ID: assignee}
	}

	created := &models.HistoryEntry{
		Status:    models.JobCreated,
		UpdatedBy: &models.UserRef{ID: actor},
		Date:      now,
	}
	if err := s.jobRepo.Create(ctx, job, created); err != nil {
		return nil, err
	}
	job.Append(*created)
	s.countEvent(created.Status)

	s.log.Info("job created", zap.String("job_id", job.ID.String()), zap.String("title", job.Title))
	return job, nil
}

func (s *jobService) countEvent(status models.JobEvent) {
	metrics.JobEventCounter.WithLabelValues(string(status.Log()), string(status)).Inc()
}

func newEntry(status models.JobEvent, comment, attachment string, actor uuid.UUID) *models.HistoryEntry {
	return &models.HistoryEntry{
		Status:     status,
		Comment:    strings.TrimSpace(comment),
		Attachment: attachment,
		UpdatedBy:  &models.UserRef{ID: actor},
		Date:       time.Now().UTC(),
	}
}

// ApproveJob appends an Approved entry. A repeated approve appends another one;
// approvedBy and approvedAt keep their first values.
func (s *jobService) ApproveJob(ctx context.Context, jobID string, actor uuid.UUID) (*models.Job, error) {
	id, err := common.ParseID(jobID, "jobId")
	if err != nil {
		return nil, err
	}
	if err := s.jobRepo.Approve(ctx, id, newEntry(models.JobApproved, "", "", actor)); err != nil {
		return nil, err
	}
	s.countEvent(models.JobApproved)
	return s.GetJob(ctx, jobID)
}

// UpdateJobStatus appends any known status to its log. Approved goes through
// the same first-approval stamp as ApproveJob. Assigned only records the entry;
// the assignee changes through AssignJob.
func (s *jobService) UpdateJobStatus(ctx context.Context, jobID string, req *models.UpdateStatusRequest, actor uuid.UUID) (*models.Job, error) {
	id, err := common.ParseID(jobID, "jobId")
	if err != nil {
		return nil, err
	}
	status, err := models.ParseJobEvent(req.Status)
	if err != nil {
		// a missing job outranks a bad status
		if _, lookupErr := s.jobRepo.GetByID(ctx, id); lookupErr != nil {
			return nil, lookupErr
		}
		return nil, err
	}

	entry := newEntry(status, req.Comment, s.storage.KeyFromURL(req.Attachment), actor)
	if status == models.JobApproved {
		err = s.jobRepo.Approve(ctx, id, entry)
	} else {
		err = s.jobRepo.AppendHistory(ctx, id, entry)
	}
	if err != nil {
		return nil, err
	}
	s.countEvent(status)
	return s.GetJob(ctx, jobID)
}

func (s *jobService) AssignJob(ctx context.Context, jobID string, req *models.AssignJobRequest, actor uuid.UUID) (*models.Job, error) {
	id, err := common.ParseID(jobID, "jobId")
	if err != nil {
		return nil, err
	}
	assignee, err := s.resolveAssignee(ctx, req.AssignedTo)
	if err != nil {
		return nil, err
	}
	if err := s.jobRepo.Assign(ctx, id, assignee, newEntry(models.JobAssigned, req.Comment, "", actor)); err != nil {
		return nil, err
	}
	s.countEvent(models.JobAssigned)
	return s.GetJob(ctx, jobID)
}

func (s *jobService) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	id, err := common.ParseID(jobID, "jobId")
	if err != nil {
		return nil, err
	}
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.project(ctx, []*models.Job{job}); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *jobService) ListJobs(ctx context.Context, filter models.JobFilter) ([]*models.Job, error) {
	jobs, err := s.jobRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []*models.Job{}
	}
	if err := s.project(ctx, jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// project resolves user references to summaries and signs attachment URLs.
func (s *jobService) project(ctx context.Context, jobs []*models.Job) error {
	if err := s.resolveUsers(ctx, jobs); err != nil {
		return err
	}
	s.signAttachments(ctx, jobs)
	return nil
}

func jobRefs(job *models.Job) []*models.UserRef {
	refs := []*models.UserRef{job.CreatedBy, job.ApprovedBy, job.AssignedTo}
	for _, e := range job.Entries() {
		refs = append(refs, e.UpdatedBy)
	}
	return refs
}

func (s *jobService) resolveUsers(ctx context.Context, jobs []*models.Job) error {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, job := range jobs {
		for _, ref := range jobRefs(job) {
			if ref == nil {
				continue
			}
			if _, ok := seen[ref.ID]; !ok {
				seen[ref.ID] = struct{}{}
				ids = append(ids, ref.ID)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}

	summaries, err := s.userRepo.Summaries(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to resolve users: %w", err)
	}
	for _, job := range jobs {
		for _, ref := range jobRefs(job) {
			if ref != nil {
				ref.User = summaries[ref.ID]
			}
		}
	}
	return nil
}

type signTask struct {
	key    string
	target *string
}

func withPrefix(prefix, key string) string {
	if key == "" || strings.HasPrefix(key, prefix) {
		return key
	}
	return prefix + key
}

// signAttachments fills every AttachmentURL. Signing is bounded to signFanOut
// goroutines and each result lands at its task's index.
func (s *jobService) signAttachments(ctx context.Context, jobs []*models.Job) {
	var tasks []signTask
	for _, job := range jobs {
		if key := s.storage.KeyFromURL(job.Attachment); key != "" {
			tasks = append(tasks, signTask{key: withPrefix(jobAttachmentPrefix, key), target: &job.AttachmentURL})
		}
		for _, e := range job.Entries() {
			if key := s.storage.KeyFromURL(e.Attachment); key != "" {
				tasks = append(tasks, signTask{key: withPrefix(statusAttachmentPrefix, key), target: &e.AttachmentURL})
			}
		}
	}
	if len(tasks) == 0 {
		return
	}

	urls := make([]string, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(signFanOut)
	for i, task := range tasks {
		g.Go(func() error {
			signed, err := s.storage.PresignedGetURL(gctx, task.key, ReadURLTTL)
			if err != nil {
				s.log.Warn("failed to sign attachment url", zap.String("key", task.key), zap.Error(err))
				return nil
			}
			urls[i] = signed
			return nil
		})
	}
	_ = g.Wait()

	for i, task := range tasks {
		*task.target = urls[i]
	}
}

// DeleteJob removes the job's blobs best-effort and then the job row, which
// takes its history with it. A blob that cannot be removed is left to the sweeper.
func (s *jobService) DeleteJob(ctx context.Context, jobID string) error {
	id, err := common.ParseID(jobID, "jobId")
	if err != nil {
		return err
	}
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if key := s.storage.KeyFromURL(job.Attachment); key != "" {
		s.cleaner.Remove(ctx, withPrefix(jobAttachmentPrefix, key), "job "+job.ID.String()+" deleted")
	}
	for _, e := range job.Entries() {
		if key := s.storage.KeyFromURL(e.Attachment); key != "" {
			s.cleaner.Remove(ctx, withPrefix(statusAttachmentPrefix, key), "job "+job.ID.String()+" deleted")
		}
	}

	if err := s.jobRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("job deleted", zap.String("job_id", job.ID.String()))
	return nil
}

func (s *jobService) issueUploadURL(ctx context.Context, key, contentType string) (*models.UploadURL, error) {
	signed, err := s.storage.PresignedPutURL(ctx, key, contentType, WriteURLTTL)
	if err != nil {
		return nil, err
	}
	return &models.UploadURL{SignedURL: signed, FileURL: s.storage.PublicURL(key), Key: key}, nil
}

func uploadKey(prefix, fileName string) (string, error) {
	name := path.Base(strings.TrimSpace(fileName))
	if name == "" || name == "." || name == "/" {
		return "", common.FieldError("fileName", "is required")
	}
	return fmt.Sprintf("%s%s-%s", prefix, uuid.NewString(), name), nil
}

func (s *jobService) IssueAttachmentUploadURL(ctx context.Context, req *models.UploadURLRequest) (*models.UploadURL, error) {
	key, err := uploadKey(jobAttachmentPrefix, req.FileName)
	if err != nil {
		return nil, err
	}
	return s.issueUploadURL(ctx, key, req.FileType)
}

func (s *jobService) IssueStatusUploadURL(ctx context.Context, req *models.UploadURLRequest) (*models.UploadURL, error) {
	key, err := uploadKey(statusAttachmentPrefix, req.FileName)
	if err != nil {
		return nil, err
	}
	return s.issueUploadURL(ctx, key, req.FileType)
}

// ListExternalUsers serves the vendor list from redis when it is cached. Cache
// failures fall through to the database.
func (s *jobService) ListExternalUsers(ctx context.Context) ([]*models.UserSummary, error) {
	if cached, err := s.cache.GetString(ctx, caching.ExternalUsersKey); err != nil {
		s.log.Warn("external users cache read failed", zap.Error(err))
	} else if cached != "" {
		var users []*models.UserSummary
		if err := json.Unmarshal([]byte(cached), &users); err == nil {
			return users, nil
		}
		s.log.Warn("discarding malformed external users cache entry")
	}

	users, err := s.userRepo.ListByType(ctx, models.UserTypeVendor)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []*models.UserSummary{}
	}

	data, err := json.Marshal(users)
	if err == nil {
		err = s.cache.SetString(ctx, caching.ExternalUsersKey, string(data), externalUsersTTL)
	}
	if err != nil {
		s.log.Warn("external users cache write failed", zap.Error(err))
	}
	return users, nil
}
