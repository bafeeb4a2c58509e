package models

import (
	"encoding/json"
	"testing"
	"time"

	"catena/internal/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobEventLog(t *testing.T) {
	for _, e := range []JobEvent{JobCreated, JobApproved, JobAssigned, JobCompleted, JobRejected, JobResubmitted} {
		assert.Equal(t, DecisionLog, e.Log(), e)
	}
	for _, e := range []JobEvent{JobInprogress, JobHold, JobSubmitted} {
		assert.Equal(t, StatusLog, e.Log(), e)
	}
}

func TestParseJobEvent(t *testing.T) {
	e, err := ParseJobEvent("Hold")
	require.NoError(t, err)
	assert.Equal(t, JobHold, e)

	e, err = ParseJobEvent("inprogress")
	require.NoError(t, err)
	assert.Equal(t, JobInprogress, e)

	e, err = ParseJobEvent("Submited")
	require.NoError(t, err)
	assert.Equal(t, JobSubmitted, e)

	var verr *common.ValidationError
	_, err = ParseJobEvent("Archived")
	assert.ErrorAs(t, err, &verr)

	_, err = ParseJobEvent("")
	assert.ErrorAs(t, err, &verr)
}

func TestFinalStatus_UnsetAfterCreate(t *testing.T) {
	job := &Job{}
	job.Append(HistoryEntry{Seq: 1, Status: JobCreated})

	_, ok := job.FinalStatus()
	assert.False(t, ok)

	data, err := json.Marshal(job)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "finalStatus")
}

func TestFinalStatus_LatestAcrossLogs(t *testing.T) {
	job := &Job{}
	job.Append(HistoryEntry{Seq: 1, Status: JobCreated})
	job.Append(HistoryEntry{Seq: 2, Status: JobApproved})
	job.Append(HistoryEntry{Seq: 3, Status: JobHold})

	status, ok := job.FinalStatus()
	require.True(t, ok)
	assert.Equal(t, JobHold, status)
	assert.Len(t, job.DecisionHistory, 2)
	assert.Len(t, job.StatusHistory, 1)

	job.Append(HistoryEntry{Seq: 4, Status: JobAssigned})
	status, _ = job.FinalStatus()
	assert.Equal(t, JobAssigned, status)
}

func TestFinalStatus_LaterCreatedCounts(t *testing.T) {
	job := &Job{}
	job.Append(HistoryEntry{Seq: 1, Status: JobCreated})
	job.Append(HistoryEntry{Seq: 2, Status: JobHold})
	job.Append(HistoryEntry{Seq: 3, Status: JobCreated})

	status, ok := job.FinalStatus()
	require.True(t, ok)
	assert.Equal(t, JobCreated, status)
}

func TestJobMarshalJSON(t *testing.T) {
	actor := uuid.New()
	job := Job{ID: uuid.New(), Title: "Launch Banner", CreatedBy: NewUserRef(&actor)}
	job.Append(HistoryEntry{Seq: 1, Status: JobCreated, UpdatedBy: NewUserRef(&actor), Date: time.Now()})
	job.Append(HistoryEntry{Seq: 2, Status: JobApproved, UpdatedBy: &UserRef{ID: actor, User: &UserSummary{ID: actor, FirstName: "Asha"}}})

	data, err := json.Marshal(job)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "Approved", out["finalStatus"])
	assert.Equal(t, actor.String(), out["createdBy"])
	assert.Equal(t, []any{}, out["statusHistory"])

	history := out["decisionHistory"].([]any)
	require.Len(t, history, 2)
	resolved := history[1].(map[string]any)["updatedBy"].(map[string]any)
	assert.Equal(t, "Asha", resolved["firstName"])
}

func TestValidDesignation(t *testing.T) {
	assert.True(t, ValidDesignation(UserTypeInternal, "designer"))
	assert.True(t, ValidDesignation(UserTypeVendor, "printer"))
	assert.False(t, ValidDesignation(UserTypeVendor, "designer"))
	assert.False(t, ValidDesignation("partner", "agency"))
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 21)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 0, NewPagination(1, 10, 0).TotalPages)
}
