package models

import (
	"encoding/json"
	"strings"
	"time"

	"catena/internal/common"

	"github.com/google/uuid"
)

// JobLog names one of the two append-only histories a job carries.
type JobLog string

const (
	DecisionLog JobLog = "decision"
	StatusLog   JobLog = "status"
)

// JobEvent is a history entry status. Every event belongs to exactly one log.
type JobEvent string

const (
	JobCreated     JobEvent = "Created"
	JobApproved    JobEvent = "Approved"
	JobAssigned    JobEvent = "Assigned"
	JobCompleted   JobEvent = "Completed"
	JobRejected    JobEvent = "Rejected"
	JobResubmitted JobEvent = "Resubmitted"
	JobInprogress  JobEvent = "Inprogress"
	JobHold        JobEvent = "Hold"
	JobSubmitted   JobEvent = "Submitted"
)

var jobEventLogs = map[JobEvent]JobLog{
	JobCreated:     DecisionLog,
	JobApproved:    DecisionLog,
	JobAssigned:    DecisionLog,
	JobCompleted:   DecisionLog,
	JobRejected:    DecisionLog,
	JobResubmitted: DecisionLog,
	JobInprogress:  StatusLog,
	JobHold:        StatusLog,
	JobSubmitted:   StatusLog,
}

// legacy spellings still sent by older clients
var jobEventAliases = map[string]JobEvent{
	"submited": JobSubmitted,
}

// Log returns the history the event is appended to.
func (e JobEvent) Log() JobLog {
	return jobEventLogs[e]
}

// Valid reports whether e is a known event.
func (e JobEvent) Valid() bool {
	_, ok := jobEventLogs[e]
	return ok
}

// ParseJobEvent resolves a client-supplied status. Matching ignores case.
func ParseJobEvent(s string) (JobEvent, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", common.FieldError("status", "is required")
	}
	for e := range jobEventLogs {
		if strings.EqualFold(string(e), s) {
			return e, nil
		}
	}
	if e, ok := jobEventAliases[strings.ToLower(s)]; ok {
		return e, nil
	}
	return "", common.FieldError("status", "unknown status "+s)
}

// UserRef is a user reference that renders as the resolved summary when one is
// attached and as the bare id otherwise.
type UserRef struct {
	ID   uuid.UUID
	User *UserSummary
}

// NewUserRef returns nil for a nil id.
func NewUserRef(id *uuid.UUID) *UserRef {
	if id == nil {
		return nil
	}
	return &UserRef{ID: *id}
}

func (r UserRef) MarshalJSON() ([]byte, error) {
	if r.User != nil {
		return json.Marshal(r.User)
	}
	return json.Marshal(r.ID)
}

// HistoryEntry is one immutable append to a job log.
type HistoryEntry struct {
	Seq           int64     `json:"-"`
	Log           JobLog    `json:"-"`
	Status        JobEvent  `json:"status"`
	Comment       string    `json:"comment,omitempty"`
	Attachment    string    `json:"attachment,omitempty"`
	AttachmentURL string    `json:"attachmentUrl,omitempty"`
	UpdatedBy     *UserRef  `json:"updatedBy,omitempty"`
	Date          time.Time `json:"date"`
}

type Job struct {
	ID              uuid.UUID      `json:"_id"`
	Title           string         `json:"title"`
	Type            string         `json:"type,omitempty"`
	Priority        string         `json:"priority,omitempty"`
	OfferType       string         `json:"offerType,omitempty"`
	Zone            string         `json:"zone,omitempty"`
	State           string         `json:"state,omitempty"`
	Language        string         `json:"language,omitempty"`
	Product         string         `json:"product,omitempty"`
	Brand           string         `json:"brand,omitempty"`
	Model           string         `json:"model,omitempty"`
	OfferDetails    string         `json:"offerDetails,omitempty"`
	OtherDetails    string         `json:"otherDetails,omitempty"`
	Attachment      string         `json:"attachment,omitempty"`
	AttachmentURL   string         `json:"attachmentUrl,omitempty"`
	DueDate         *time.Time     `json:"dueDate,omitempty"`
	AssignedTo      *UserRef       `json:"assignedTo,omitempty"`
	CreatedBy       *UserRef       `json:"createdBy,omitempty"`
	ApprovedBy      *UserRef       `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time     `json:"approvedAt,omitempty"`
	DecisionHistory []HistoryEntry `json:"decisionHistory"`
	StatusHistory   []HistoryEntry `json:"statusHistory"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// FinalStatus is the status of the most recent entry in either log. The
// Created entry written with the job does not count, so a fresh job has none.
// A later Created set through a status update does.
func (j *Job) FinalStatus() (JobEvent, bool) {
	var latest *HistoryEntry
	for _, entries := range [][]HistoryEntry{j.DecisionHistory, j.StatusHistory} {
		for i := range entries {
			e := &entries[i]
			if e == j.initialEntry() {
				continue
			}
			if latest == nil || e.Seq > latest.Seq {
				latest = e
			}
		}
	}
	if latest == nil {
		return "", false
	}
	return latest.Status, true
}

// initialEntry is the oldest decision entry when it is a Created one.
func (j *Job) initialEntry() *HistoryEntry {
	var first *HistoryEntry
	for i := range j.DecisionHistory {
		if e := &j.DecisionHistory[i]; first == nil || e.Seq < first.Seq {
			first = e
		}
	}
	if first == nil || first.Status != JobCreated {
		return nil
	}
	return first
}

// Append adds entry to the log its status belongs to.
func (j *Job) Append(entry HistoryEntry) {
	entry.Log = entry.Status.Log()
	if entry.Log == StatusLog {
		j.StatusHistory = append(j.StatusHistory, entry)
		return
	}
	j.DecisionHistory = append(j.DecisionHistory, entry)
}

// Entries returns both logs as one slice, decision log first.
func (j *Job) Entries() []*HistoryEntry {
	out := make([]*HistoryEntry, 0, len(j.DecisionHistory)+len(j.StatusHistory))
	for i := range j.DecisionHistory {
		out = append(out, &j.DecisionHistory[i])
	}
	for i := range j.StatusHistory {
		out = append(out, &j.StatusHistory[i])
	}
	return out
}

func (j Job) MarshalJSON() ([]byte, error) {
	type jobAlias Job
	out := struct {
		jobAlias
		FinalStatus JobEvent `json:"finalStatus,omitempty"`
	}{jobAlias: jobAlias(j)}
	if out.DecisionHistory == nil {
		out.DecisionHistory = []HistoryEntry{}
	}
	if out.StatusHistory == nil {
		out.StatusHistory = []HistoryEntry{}
	}
	out.FinalStatus, _ = j.FinalStatus()
	return json.Marshal(out)
}

// JobFilter narrows ListJobs.
type JobFilter struct {
	AssignedTo *uuid.UUID
}

// CreateJobRequest is the body of POST /jobs/create.
type CreateJobRequest struct {
	Title        string `json:"title" validate:"required"`
	Type         string `json:"type"`
	Priority     string `json:"priority"`
	OfferType    string `json:"offerType"`
	Zone         string `json:"zone"`
	State        string `json:"state"`
	Language     string `json:"language"`
	Product      string `json:"product"`
	Brand        string `json:"brand"`
	Model        string `json:"model"`
	OfferDetails string `json:"offerDetails"`
	OtherDetails string `json:"otherDetails"`
	Attachment   string `json:"attachment"`
	DueDate      string `json:"dueDate"`
	AssignedTo   string `json:"assignedTo"`
}

// UpdateStatusRequest is the body of POST /jobs/:jobId/update-status.
type UpdateStatusRequest struct {
	Status     string `json:"status" validate:"required"`
	Comment    string `json:"comment"`
	Attachment string `json:"attachment"`
}

// AssignJobRequest is the body of POST /jobs/:jobId/assign.
type AssignJobRequest struct {
	AssignedTo string `json:"assignedTo" validate:"required"`
	Comment    string `json:"comment"`
}

// UploadURLRequest asks for a write-signed URL.
type UploadURLRequest struct {
	FileName string `json:"fileName" validate:"required"`
	FileType string `json:"fileType" validate:"required"`
}

// UploadURL is a write-signed URL plus where the object will be readable.
type UploadURL struct {
	SignedURL string `json:"signedUrl"`
	FileURL   string `json:"fileUrl"`
	Key       string `json:"key"`
}
