package eventbus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/codeguardian/guardian/engines"
)

type Topic string

const (
	TopicCommitAnalysis       Topic = "commit-analysis"
	TopicPullRequestAnalysis  Topic = "pull-request-analysis"
	TopicMergeRequestAnalysis Topic = "merge-request-analysis"
	TopicAnalysisResults      Topic = "analysis-results"
	TopicNotifications        Topic = "notifications"
)

var Topics = []Topic{
	TopicCommitAnalysis,
	TopicPullRequestAnalysis,
	TopicMergeRequestAnalysis,
	TopicAnalysisResults,
	TopicNotifications,
}

const (
	GroupAnalyzer = "analyzer"
	GroupTracker  = "tracker"
	GroupNotifier = "notifier"
)

// Groups lists the consumer groups reading each topic. Transports without
// native fan-out deliver a copy of every message to each group.
var Groups = map[Topic][]string{
	TopicCommitAnalysis:       {GroupAnalyzer},
	TopicPullRequestAnalysis:  {GroupAnalyzer},
	TopicMergeRequestAnalysis: {GroupAnalyzer},
	TopicAnalysisResults:      {GroupTracker},
	TopicNotifications:        {GroupNotifier},
}

// Message is a typed payload bound to exactly one topic.
type Message interface {
	Topic() Topic
	Validate() error
}

// Envelope is what travels on the wire. ID identifies one publish and stays
// the same across redeliveries; Key is the partition key.
type Envelope struct {
	Type    Topic           `json:"type"`
	ID      string          `json:"id"`
	Key     string          `json:"key"`
	Payload json.RawMessage `json:"payload"`
}

type DecodeError struct {
	Topic  Topic
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decoding %s message: %s: %s", e.Topic, e.Reason, e.Err)
	}

	return fmt.Sprintf("decoding %s message: %s", e.Topic, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func Encode(key string, msg Message) (Envelope, []byte, error) {
	if err := msg.Validate(); err != nil {
		return Envelope{}, nil, fmt.Errorf("invalid %s message: %w", msg.Topic(), err)
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return Envelope{}, nil, err
	}

	envelope := Envelope{
		Type:    msg.Topic(),
		ID:      uuid.NewString(),
		Key:     key,
		Payload: payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return Envelope{}, nil, err
	}

	return envelope, data, nil
}

func ParseEnvelope(data []byte) (Envelope, error) {
	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return Envelope{}, &DecodeError{Reason: "malformed envelope", Err: err}
	}

	if envelope.Type == "" || envelope.ID == "" {
		return Envelope{}, &DecodeError{Topic: envelope.Type, Reason: "envelope is missing type or id"}
	}

	return envelope, nil
}

// Decode unmarshals the envelope's payload into into, which must be a
// pointer to the message type bound to the envelope's topic, and validates
// it.
func Decode(envelope Envelope, into Message) error {
	if envelope.Type != into.Topic() {
		return &DecodeError{
			Topic:  envelope.Type,
			Reason: fmt.Sprintf("expected a %s message", into.Topic()),
		}
	}

	if err := json.Unmarshal(envelope.Payload, into); err != nil {
		return &DecodeError{Topic: envelope.Type, Reason: "malformed payload", Err: err}
	}

	if err := into.Validate(); err != nil {
		return &DecodeError{Topic: envelope.Type, Reason: "invalid payload", Err: err}
	}

	return nil
}

type CommitAnalysis struct {
	AnalysisID         string               `json:"analysisId"`
	CommitID           string               `json:"commitId"`
	RepositoryID       uint                 `json:"repositoryId"`
	RepositoryName     string               `json:"repositoryName"`
	RepositoryURL      string               `json:"repositoryUrl"`
	RepositoryCloneURL string               `json:"repositoryCloneUrl"`
	Platform           string               `json:"platform"`
	Message            string               `json:"message"`
	AuthorName         string               `json:"authorName"`
	AuthorEmail        string               `json:"authorEmail"`
	FilesAdded         string               `json:"filesAdded"`
	FilesModified      string               `json:"filesModified"`
	FilesRemoved       string               `json:"filesRemoved"`
	Timestamp          time.Time            `json:"timestamp"`
	AnalysisStatus     string               `json:"analysisStatus"`
	Files              []engines.FileChange `json:"files,omitempty"`
}

func (CommitAnalysis) Topic() Topic { return TopicCommitAnalysis }

func (m CommitAnalysis) Validate() error {
	return required(map[string]string{
		"analysisId": m.AnalysisID,
		"commitId":   m.CommitID,
	})
}

type PullRequestAnalysis struct {
	AnalysisID     string    `json:"analysisId"`
	PRID           int64     `json:"prId"`
	RepositoryID   uint      `json:"repositoryId"`
	RepositoryName string    `json:"repositoryName"`
	Title          string    `json:"title"`
	State          string    `json:"state"`
	URL            string    `json:"url"`
	Platform       string    `json:"platform"`
	Timestamp      time.Time `json:"timestamp"`
}

func (PullRequestAnalysis) Topic() Topic { return TopicPullRequestAnalysis }

func (m PullRequestAnalysis) Validate() error {
	if m.PRID <= 0 {
		return fmt.Errorf("prId must be positive")
	}

	return required(map[string]string{"analysisId": m.AnalysisID})
}

type MergeRequestAnalysis struct {
	AnalysisID     string    `json:"analysisId"`
	MRID           int64     `json:"mrId"`
	RepositoryID   uint      `json:"repositoryId"`
	RepositoryName string    `json:"repositoryName"`
	Title          string    `json:"title"`
	State          string    `json:"state"`
	URL            string    `json:"url"`
	Platform       string    `json:"platform"`
	Timestamp      time.Time `json:"timestamp"`
}

func (MergeRequestAnalysis) Topic() Topic { return TopicMergeRequestAnalysis }

func (m MergeRequestAnalysis) Validate() error {
	if m.MRID <= 0 {
		return fmt.Errorf("mrId must be positive")
	}

	return required(map[string]string{"analysisId": m.AnalysisID})
}

const (
	ResultCompleted = "COMPLETED"
	ResultFailed    = "FAILED"
)

type ResultFinding struct {
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Type        string `json:"type"`
	File        string `json:"file"`
	Line        int    `json:"line"`
	Description string `json:"description"`
	Remediation string `json:"remediation"`
	CWEID       string `json:"cweId,omitempty"`
}

type ResultSummary struct {
	TotalFindings int    `json:"totalFindings"`
	CriticalCount int    `json:"criticalCount"`
	HighCount     int    `json:"highCount"`
	MediumCount   int    `json:"mediumCount"`
	LowCount      int    `json:"lowCount"`
	RiskScore     int    `json:"riskScore"`
	RiskLevel     string `json:"riskLevel"`
}

type AnalysisResult struct {
	AnalysisID     string          `json:"analysisId"`
	CommitID       string          `json:"commitId,omitempty"`
	RepositoryID   uint            `json:"repositoryId"`
	RepositoryName string          `json:"repositoryName"`
	Status         string          `json:"status"`
	Error          string          `json:"error,omitempty"`
	Findings       []ResultFinding `json:"findings"`
	Summary        ResultSummary   `json:"summary"`
}

func (AnalysisResult) Topic() Topic { return TopicAnalysisResults }

func (m AnalysisResult) Validate() error {
	if m.Status != ResultCompleted && m.Status != ResultFailed {
		return fmt.Errorf("unknown status %q", m.Status)
	}

	return required(map[string]string{"analysisId": m.AnalysisID})
}

const (
	NotificationAnalysisComplete = "ANALYSIS_COMPLETE"
	NotificationAnalysisFailed   = "ANALYSIS_FAILED"
	NotificationSecurityAlert    = "SECURITY_ALERT"
)

type Notification struct {
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	Severity   string    `json:"severity"`
	Repository string    `json:"repository"`
	Timestamp  time.Time `json:"timestamp"`
	Priority   string    `json:"priority"`
	AnalysisID string    `json:"analysisId,omitempty"`
}

func (Notification) Topic() Topic { return TopicNotifications }

func (m Notification) Validate() error {
	return required(map[string]string{
		"type":  m.Type,
		"title": m.Title,
	})
}

func required(fields map[string]string) error {
	for name, value := range fields {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	return nil
}
