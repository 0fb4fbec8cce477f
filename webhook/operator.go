package webhook

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"code.cloudfoundry.org/lager"
	"github.com/tedsuo/rata"

	"github.com/codeguardian/guardian/db"
	"github.com/codeguardian/guardian/pipeline"
)

const (
	ReprocessCommit   = "ReprocessCommit"
	AnalyzeRepository = "AnalyzeRepository"
	ListDeadLetters   = "ListDeadLetters"
)

var OperatorRoutes = rata.Routes{
	{Path: "/admin/commits/:commit_id/reprocess", Method: "POST", Name: ReprocessCommit},
	{Path: "/admin/repositories/:repository_id/analyze", Method: "POST", Name: AnalyzeRepository},
	{Path: "/admin/dead-letters", Method: "GET", Name: ListDeadLetters},
}

//go:generate counterfeiter . Requeuer

// Requeuer is the part of the tracker operators can drive by hand.
type Requeuer interface {
	Reprocess(ctx context.Context, logger lager.Logger, commitID string) (string, error)
	TriggerAnalysis(ctx context.Context, logger lager.Logger, repositoryID uint) (string, error)
}

type DeadLetterLister interface {
	DeadLetters(lager.Logger) ([]db.FailedMessage, error)
}

type DeadLetter struct {
	MessageID string    `json:"messageId"`
	Topic     string    `json:"topic"`
	Key       string    `json:"key"`
	Attempts  int       `json:"attempts"`
	LastError string    `json:"lastError"`
	FailedAt  time.Time `json:"failedAt"`
}

type operatorHandler struct {
	logger      lager.Logger
	requeuer    Requeuer
	deadLetters DeadLetterLister
}

// NewOperatorHandler serves the manual retry endpoints and the dead-letter
// listing. It belongs on the admin listener, not the public webhook one.
func NewOperatorHandler(logger lager.Logger, requeuer Requeuer, deadLetters DeadLetterLister) (http.Handler, error) {
	h := &operatorHandler{
		logger:      logger.Session("operator-handler"),
		requeuer:    requeuer,
		deadLetters: deadLetters,
	}

	return rata.NewRouter(OperatorRoutes, rata.Handlers{
		ReprocessCommit:   http.HandlerFunc(h.reprocess),
		AnalyzeRepository: http.HandlerFunc(h.analyze),
		ListDeadLetters:   http.HandlerFunc(h.listDeadLetters),
	})
}

func (h *operatorHandler) reprocess(w http.ResponseWriter, r *http.Request) {
	commitID := rata.Param(r, "commit_id")
	logger := h.logger.Session("reprocess", lager.Data{"commit-id": commitID})

	analysisID, err := h.requeuer.Reprocess(r.Context(), logger, commitID)
	h.respond(logger, w, analysisID, err)
}

func (h *operatorHandler) analyze(w http.ResponseWriter, r *http.Request) {
	param := rata.Param(r, "repository_id")
	logger := h.logger.Session("analyze", lager.Data{"repository-id": param})

	repositoryID, err := strconv.ParseUint(param, 10, 32)
	if err != nil {
		h.respond(logger, w, "", pipeline.ValidationError("repository id must be a number", err))
		return
	}

	analysisID, err := h.requeuer.TriggerAnalysis(r.Context(), logger, uint(repositoryID))
	h.respond(logger, w, analysisID, err)
}

func (h *operatorHandler) listDeadLetters(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.Session("list-dead-letters")

	messages, err := h.deadLetters.DeadLetters(logger)
	if err != nil {
		logger.Error("failed", err)
		writeJSON(logger, w, http.StatusInternalServerError, map[string]interface{}{
			"status":  "error",
			"message": "failed to list dead letters",
		})
		return
	}

	deadLetters := make([]DeadLetter, len(messages))
	for i, message := range messages {
		deadLetters[i] = DeadLetter{
			MessageID: message.MessageID,
			Topic:     message.Topic,
			Key:       message.PartitionKey,
			Attempts:  message.Attempts,
			LastError: message.LastError,
			FailedAt:  message.UpdatedAt,
		}
	}

	writeJSON(logger, w, http.StatusOK, deadLetters)
}

func (h *operatorHandler) respond(logger lager.Logger, w http.ResponseWriter, analysisID string, err error) {
	if err == nil {
		writeJSON(logger, w, http.StatusAccepted, map[string]interface{}{
			"status":     "accepted",
			"analysisId": analysisID,
		})
		return
	}

	status := http.StatusInternalServerError
	if pipeline.IsValidation(err) {
		status = http.StatusBadRequest
		logger.Info("rejected", lager.Data{"reason": err.Error()})
	} else {
		logger.Error("failed", err)
	}

	writeJSON(logger, w, status, map[string]interface{}{
		"status":  "error",
		"message": err.Error(),
	})
}
