// Package domain defines the per-user challenge entities: the instance row
// and its append-only submissions and messages.
package domain

import "errors"

// ErrNotFound means the addressed instance row does not exist.
var ErrNotFound = errors.New("instance not found")

type InstanceStatus string

const (
	StatusNotStarted InstanceStatus = "NOT_STARTED"
	StatusInProgress InstanceStatus = "IN_PROGRESS"
	StatusCompleted  InstanceStatus = "COMPLETED"
	StatusAbandoned  InstanceStatus = "ABANDONED"
)

type ActualDates struct {
	StartDate        string  `dynamodbav:"startDate" json:"startDate"`
	ScheduledEndDate string  `dynamodbav:"scheduledEndDate" json:"scheduledEndDate"`
	ActualEndDate    *string `dynamodbav:"actualEndDate" json:"actualEndDate"`
	LastActivity     string  `dynamodbav:"lastActivity" json:"lastActivity"`
}

type Progress struct {
	DaysCompleted        int      `dynamodbav:"daysCompleted" json:"daysCompleted"`
	TotalDays            int      `dynamodbav:"totalDays" json:"totalDays"`
	CompletionPercentage float64  `dynamodbav:"completionPercentage" json:"completionPercentage"`
	MilestonesReached    []string `dynamodbav:"milestonesReached" json:"milestonesReached"`
}

type Reflections struct {
	Midpoint *string `dynamodbav:"midpoint" json:"midpoint"`
	Final    *string `dynamodbav:"final" json:"final"`
}

// Instance is one user's attempt at a project. It shares a table with its
// submissions and messages under the partition key instanceId; the sort key
// itemType discriminates the row kind ("instance", "submission:<ts>",
// "message:<ts>").
//
// Instances are soft-deleted: the Deleted flag is set and the row stays.
type Instance struct {
	InstanceID  string         `dynamodbav:"instanceId" json:"instanceId"`
	ProjectID   string         `dynamodbav:"projectId" json:"projectId"`
	AssignedTo  string         `dynamodbav:"assignedTo" json:"assignedTo"`
	AssignedBy  string         `dynamodbav:"assignedBy" json:"assignedBy"`
	Status      InstanceStatus `dynamodbav:"status" json:"status"`
	ActualDates ActualDates    `dynamodbav:"actualDates" json:"actualDates"`
	Progress    Progress       `dynamodbav:"progress" json:"progress"`
	Reflections Reflections    `dynamodbav:"reflections" json:"reflections"`
	CreatedAt   string         `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt   string         `dynamodbav:"updatedAt" json:"updatedAt"`
	Deleted     bool           `dynamodbav:"deleted" json:"deleted,omitempty"`
}

// SubmissionFeedback is the mentor feedback attached to a submission.
type SubmissionFeedback struct {
	Text    string `dynamodbav:"text" json:"text"`
	GivenAt string `dynamodbav:"givenAt" json:"givenAt"`
	GivenBy string `dynamodbav:"givenBy" json:"givenBy"`
}

// Submission is a dated entry under an instance. Append-only: no update or
// delete operation exists. The creation timestamp is embedded in the sort key,
// so retrieval in natural key order is chronological.
type Submission struct {
	InstanceID string              `dynamodbav:"instanceId" json:"instanceId"`
	Day        int                 `dynamodbav:"day" json:"day"`
	Date       string              `dynamodbav:"date" json:"date"`
	MediaURLs  []string            `dynamodbav:"mediaUrls" json:"mediaUrls"`
	Notes      string              `dynamodbav:"notes" json:"notes"`
	Feedback   *SubmissionFeedback `dynamodbav:"feedback" json:"feedback"`
}

// Message is a chat-style entry under an instance. Append-only; carries its
// own generated messageId distinct from the sort key.
type Message struct {
	InstanceID string `dynamodbav:"instanceId" json:"instanceId"`
	MessageID  string `dynamodbav:"messageId" json:"messageId"`
	SenderID   string `dynamodbav:"senderId" json:"senderId"`
	Text       string `dynamodbav:"text" json:"text"`
	Timestamp  string `dynamodbav:"timestamp" json:"timestamp"`
}

// CreateInstanceInput carries the caller-supplied fields of a new instance.
type CreateInstanceInput struct {
	ProjectID   string         `json:"projectId"`
	AssignedTo  string         `json:"assignedTo"`
	AssignedBy  string         `json:"assignedBy"`
	Status      InstanceStatus `json:"status"`
	ActualDates ActualDates    `json:"actualDates"`
	Progress    Progress       `json:"progress"`
	Reflections Reflections    `json:"reflections"`
}

// UpdateInstanceInput is the allow-listed in-place patch. Nil fields are left
// unchanged; there is no version check, so concurrent updates are
// last-writer-wins. Soft delete is UpdateInstanceInput{Deleted: ptr(true)}.
type UpdateInstanceInput struct {
	Status      *InstanceStatus `json:"status"`
	ActualDates *ActualDates    `json:"actualDates"`
	Progress    *Progress       `json:"progress"`
	Reflections *Reflections    `json:"reflections"`
	Deleted     *bool           `json:"deleted"`
}

// SubmissionInput carries the caller-supplied fields of a new submission; the
// store stamps the date.
type SubmissionInput struct {
	Day       int                 `json:"day"`
	MediaURLs []string            `json:"mediaUrls"`
	Notes     string              `json:"notes"`
	Feedback  *SubmissionFeedback `json:"feedback"`
}

// MessageInput carries the caller-supplied fields of a new message; the store
// stamps the messageId and timestamp.
type MessageInput struct {
	SenderID string `json:"senderId"`
	Text     string `json:"text"`
}
