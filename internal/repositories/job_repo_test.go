package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"catena/internal/common"
	"catena/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var jobColumnNames = []string{"id", "title", "type", "priority", "offer_type", "zone", "state", "language",
	"product", "brand", "model", "offer_details", "other_details", "attachment", "due_date", "assigned_to",
	"created_by", "approved_by", "approved_at", "created_at", "updated_at"}

var historyColumnNames = []string{"job_id", "seq", "status", "comment", "attachment", "updated_by", "created_at"}

type JobRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    JobRepository
	actor   uuid.UUID
	jobID   uuid.UUID
	context context.Context
}

func (suite *JobRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewJobRepo(mock)
	suite.actor = uuid.New()
	suite.jobID = uuid.New()
	suite.context = context.Background()
}

func (suite *JobRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestJobRepoTestSuite(t *testing.T) {
	suite.Run(t, new(JobRepoTestSuite))
}

func (suite *JobRepoTestSuite) jobRow(now time.Time) *pgxmock.Rows {
	createdBy := suite.actor
	return pgxmock.NewRows(jobColumnNames).AddRow(
		suite.jobID, "Launch Banner", "Full-Time", "High", "", "North", "Delhi", "Hindi",
		"", "", "", "", "", "job/banner.png", (*time.Time)(nil), (*uuid.UUID)(nil),
		&createdBy, (*uuid.UUID)(nil), (*time.Time)(nil), now, now)
}

func (suite *JobRepoTestSuite) TestCreate_WritesJobAndCreatedEntry() {
	job := &models.Job{
		ID:        suite.jobID,
		Title:     "Launch Banner",
		Type:      "Full-Time",
		CreatedBy: &models.UserRef{ID: suite.actor},
		CreatedAt: time.Now().UTC(),
	}
	entry := &models.HistoryEntry{Status: models.JobCreated, UpdatedBy: &models.UserRef{ID: suite.actor}, Date: job.CreatedAt}

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO jobs")).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO job_history")).
		WithArgs(suite.jobID, "decision", "Created", "", "", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"seq"}).AddRow(int64(1)))
	suite.mock.ExpectCommit()

	err := suite.repo.Create(suite.context, job, entry)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), entry.Seq)
	assert.Equal(suite.T(), models.DecisionLog, entry.Log)
}

func (suite *JobRepoTestSuite) TestCreate_RollsBackWhenHistoryFails() {
	job := &models.Job{ID: suite.jobID, Title: "Launch Banner", CreatedAt: time.Now()}
	entry := &models.HistoryEntry{Status: models.JobCreated}

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(regexp.QuoteMeta("INSERT INTO jobs")).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	suite.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO job_history")).
		WillReturnError(errors.New("disk full"))
	suite.mock.ExpectRollback()

	err := suite.repo.Create(suite.context, job, entry)
	assert.ErrorContains(suite.T(), err, "disk full")
}

func (suite *JobRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(regexp.QuoteMeta("FROM jobs WHERE id = $1")).
		WithArgs(suite.jobID).
		WillReturnError(pgx.ErrNoRows)

	_, err := suite.repo.GetByID(suite.context, suite.jobID)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *JobRepoTestSuite) TestGetByID_SplitsHistoryByLog() {
	now := time.Now().UTC()
	actor := suite.actor

	suite.mock.ExpectQuery(regexp.QuoteMeta("FROM jobs WHERE id = $1")).
		WithArgs(suite.jobID).
		WillReturnRows(suite.jobRow(now))
	suite.mock.ExpectQuery(regexp.QuoteMeta("FROM job_history")).
		WithArgs([]uuid.UUID{suite.jobID}).
		WillReturnRows(pgxmock.NewRows(historyColumnNames).
			AddRow(suite.jobID, int64(1), "Created", "", "", &actor, now).
			AddRow(suite.jobID, int64(2), "Approved", "", "", &actor, now).
			AddRow(suite.jobID, int64(3), "Hold", "waiting on copy", "status/a.png", &actor, now))

	job, err := suite.repo.GetByID(suite.context, suite.jobID)
	require.NoError(suite.T(), err)

	assert.Len(suite.T(), job.DecisionHistory, 2)
	assert.Len(suite.T(), job.StatusHistory, 1)
	assert.Equal(suite.T(), "status/a.png", job.StatusHistory[0].Attachment)
	require.NotNil(suite.T(), job.CreatedBy)
	assert.Equal(suite.T(), suite.actor, job.CreatedBy.ID)
	assert.Nil(suite.T(), job.AssignedTo)

	status, ok := job.FinalStatus()
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), models.JobHold, status)
}

func (suite *JobRepoTestSuite) TestAppendHistory_MissingJob() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(regexp.QuoteMeta("UPDATE jobs SET updated_at = NOW() WHERE id = $1")).
		WithArgs(suite.jobID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	suite.mock.ExpectRollback()

	err := suite.repo.AppendHistory(suite.context, suite.jobID, &models.HistoryEntry{Status: models.JobHold})
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *JobRepoTestSuite) TestAppendHistory_StatusLog() {
	entry := &models.HistoryEntry{Status: models.JobSubmitted, Comment: "final art", UpdatedBy: &models.UserRef{ID: suite.actor}}

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(regexp.QuoteMeta("UPDATE jobs SET updated_at = NOW() WHERE id = $1")).
		WithArgs(suite.jobID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO job_history")).
		WithArgs(suite.jobID, "status", "Submitted", "final art", "", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"seq"}).AddRow(int64(7)))
	suite.mock.ExpectCommit()

	err := suite.repo.AppendHistory(suite.context, suite.jobID, entry)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(7), entry.Seq)
	assert.False(suite.T(), entry.Date.IsZero())
}

func (suite *JobRepoTestSuite) TestApprove_KeepsFirstApprover() {
	entry := &models.HistoryEntry{Status: models.JobApproved, UpdatedBy: &models.UserRef{ID: suite.actor}}

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(regexp.QuoteMeta("approved_by = COALESCE(approved_by, $2)")).
		WithArgs(suite.jobID, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO job_history")).
		WithArgs(suite.jobID, "decision", "Approved", "", "", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"seq"}).AddRow(int64(2)))
	suite.mock.ExpectCommit()

	assert.NoError(suite.T(), suite.repo.Approve(suite.context, suite.jobID, entry))
}

func (suite *JobRepoTestSuite) TestAssign_SetsAssignee() {
	assignee := uuid.New()
	entry := &models.HistoryEntry{Status: models.JobAssigned, Comment: "please pick up"}

	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(regexp.QuoteMeta("UPDATE jobs SET assigned_to = $2")).
		WithArgs(suite.jobID, assignee).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO job_history")).
		WithArgs(suite.jobID, "decision", "Assigned", "please pick up", "", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"seq"}).AddRow(int64(3)))
	suite.mock.ExpectCommit()

	assert.NoError(suite.T(), suite.repo.Assign(suite.context, suite.jobID, assignee, entry))
}

func (suite *JobRepoTestSuite) TestList_FiltersByAssignee() {
	assignee := uuid.New()
	now := time.Now()

	suite.mock.ExpectQuery(regexp.QuoteMeta("WHERE assigned_to = $1 ORDER BY created_at DESC")).
		WithArgs(assignee).
		WillReturnRows(suite.jobRow(now))
	suite.mock.ExpectQuery(regexp.QuoteMeta("FROM job_history")).
		WithArgs([]uuid.UUID{suite.jobID}).
		WillReturnRows(pgxmock.NewRows(historyColumnNames))

	jobs, err := suite.repo.List(suite.context, models.JobFilter{AssignedTo: &assignee})
	require.NoError(suite.T(), err)
	require.Len(suite.T(), jobs, 1)
	assert.Empty(suite.T(), jobs[0].DecisionHistory)
}

func (suite *JobRepoTestSuite) TestList_EmptySkipsHistoryQuery() {
	suite.mock.ExpectQuery(regexp.QuoteMeta("FROM jobs ORDER BY created_at DESC")).
		WillReturnRows(pgxmock.NewRows(jobColumnNames))

	jobs, err := suite.repo.List(suite.context, models.JobFilter{})
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), jobs)
}

func (suite *JobRepoTestSuite) TestDelete() {
	suite.mock.ExpectExec(regexp.QuoteMeta("DELETE FROM jobs WHERE id = $1")).
		WithArgs(suite.jobID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	assert.NoError(suite.T(), suite.repo.Delete(suite.context, suite.jobID))

	suite.mock.ExpectExec(regexp.QuoteMeta("DELETE FROM jobs WHERE id = $1")).
		WithArgs(suite.jobID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	assert.ErrorIs(suite.T(), suite.repo.Delete(suite.context, suite.jobID), common.ErrNotFound)
}
