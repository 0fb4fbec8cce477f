package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager"
	"github.com/google/go-github/v56/github"

	"github.com/codeguardian/guardian/eventbus"
	"github.com/codeguardian/guardian/metrics"
	"github.com/codeguardian/guardian/pipeline"
	"github.com/codeguardian/guardian/signature"
	"github.com/codeguardian/guardian/tracker"
)

const (
	GitLabEventHeader = "X-Gitlab-Event"
	GitLabTokenHeader = "X-Gitlab-Token"
	GitLabEventUUID   = "X-Gitlab-Event-UUID"
)

type RejectReason string

const (
	InvalidPayload      RejectReason = "INVALID_PAYLOAD"
	InvalidToken        RejectReason = "INVALID_TOKEN"
	ProcessingError     RejectReason = "PROCESSING_ERROR"
	UnsupportedPlatform RejectReason = "UNSUPPORTED_PLATFORM"
)

type RejectError struct {
	Reason RejectReason
	Err    error
}

func (e *RejectError) Error() string {
	if e.Err == nil {
		return string(e.Reason)
	}

	return fmt.Sprintf("%s: %s", e.Reason, e.Err)
}

func (e *RejectError) Unwrap() error {
	return e.Err
}

func reject(reason RejectReason, err error) error {
	return &RejectError{Reason: reason, Err: err}
}

// rejectionOf reads the reason off a gateway error. Errors without one are
// classified by their pipeline kind.
func rejectionOf(err error) *RejectError {
	var rejected *RejectError
	if errors.As(err, &rejected) {
		return rejected
	}

	switch {
	case pipeline.IsAuthentication(err):
		return &RejectError{Reason: InvalidToken, Err: err}
	case pipeline.IsValidation(err):
		return &RejectError{Reason: InvalidPayload, Err: err}
	}

	return &RejectError{Reason: ProcessingError, Err: err}
}

type Accepted struct {
	Kind       Kind
	Repository string
	Tracked    int
	Duplicates int
	AnalysisID string

	// Dropped is set when the delivery can never be processed; it is
	// acknowledged without action so the sender stops redelivering it.
	Dropped bool
}

//go:generate counterfeiter . Gateway

type Gateway interface {
	Ingest(ctx context.Context, logger lager.Logger, platform signature.Platform, eventType string, payload []byte, headers http.Header) (Accepted, error)
}

type gateway struct {
	validator signature.Validator
	tracker   tracker.Tracker
	publisher eventbus.Publisher
	generator tracker.IDGenerator
	clock     clock.Clock

	delayGauge     metrics.Gauge
	ignoredCounter metrics.Counter
	emitter        metrics.Emitter
}

func NewGateway(
	validator signature.Validator,
	tracker tracker.Tracker,
	publisher eventbus.Publisher,
	generator tracker.IDGenerator,
	clock clock.Clock,
	emitter metrics.Emitter,
) *gateway {
	return &gateway{
		validator:      validator,
		tracker:        tracker,
		publisher:      publisher,
		generator:      generator,
		clock:          clock,
		delayGauge:     emitter.Gauge("webhook.delivery_delay"),
		ignoredCounter: emitter.Counter("webhook.ignored_events"),
		emitter:        emitter,
	}
}

// Ingest authenticates a raw delivery, normalizes it and hands its commits
// to the tracker. Change requests go straight to the bus.
func (g *gateway) Ingest(
	ctx context.Context,
	logger lager.Logger,
	platform signature.Platform,
	eventType string,
	payload []byte,
	headers http.Header,
) (Accepted, error) {
	now := g.clock.Now()

	logger = logger.Session("ingest", lager.Data{
		"platform":   platform,
		"event-type": eventType,
	})
	logger.Debug("starting")
	defer logger.Debug("done")

	var (
		sig   string
		parse func(string, []byte) (Event, error)
	)

	switch platform {
	case signature.GitHub:
		sig = headers.Get(github.SHA256SignatureHeader)
		parse = parseGitHub
	case signature.GitLab:
		sig = headers.Get(GitLabTokenHeader)
		parse = parseGitLab
	default:
		return Accepted{}, reject(UnsupportedPlatform, nil)
	}

	g.emitter.Counter(fmt.Sprintf("webhook.%s.requests", platform)).Inc(logger)

	if !g.validator.Validate(logger, platform, sig, payload) {
		return Accepted{}, reject(InvalidToken, pipeline.AuthenticationError("signature or token does not match"))
	}

	if len(payload) == 0 {
		return Accepted{}, reject(InvalidPayload, fmt.Errorf("empty payload"))
	}

	event, err := parse(eventType, payload)
	if err != nil {
		logger.Error("failed-to-parse-payload", err)
		return Accepted{}, reject(InvalidPayload, err)
	}

	accepted := Accepted{
		Kind:       event.Kind,
		Repository: event.Repository.FullName,
	}

	if event.Kind == KindIgnored {
		logger.Info("ignored-event")
		g.ignoredCounter.Inc(logger)
		return accepted, nil
	}

	if event.Repository.ExternalID == "" || event.Repository.ExternalID == "0" {
		return Accepted{}, reject(InvalidPayload, fmt.Errorf("payload has no repository"))
	}

	if !event.PushedAt.IsZero() {
		g.delayGauge.Update(logger, float32(now.Sub(event.PushedAt).Seconds()))
	}

	switch event.Kind {
	case KindPush:
		for i, commit := range event.Commits {
			if commit.ID == "" {
				return Accepted{}, reject(InvalidPayload, fmt.Errorf("commit %d has no id", i))
			}
		}

		err = g.trackCommits(ctx, logger, event, &accepted)
	case KindPullRequest, KindMergeRequest:
		if event.ChangeRequest.ID <= 0 {
			return Accepted{}, reject(InvalidPayload, fmt.Errorf("change request has no id"))
		}

		accepted.AnalysisID, err = g.requestChangeAnalysis(ctx, logger, event, now)
	}

	switch {
	case err == nil:
		return accepted, nil
	case pipeline.IsValidation(err):
		return Accepted{}, reject(InvalidPayload, err)
	case pipeline.IsPermanent(err):
		logger.Error("dropping-unprocessable-delivery", err)
		accepted.Dropped = true
		return accepted, nil
	}

	return Accepted{}, reject(ProcessingError, err)
}

func (g *gateway) trackCommits(ctx context.Context, logger lager.Logger, event Event, accepted *Accepted) error {
	for _, commit := range event.Commits {
		tracked, err := g.tracker.Track(ctx, logger, event.Repository, commit)
		if err != nil {
			logger.Error("failed-to-track-commit", err, lager.Data{"commit-id": commit.ID})
			return err
		}

		if tracked.Duplicate {
			accepted.Duplicates++
		} else {
			accepted.Tracked++
		}
	}

	logger.Info("commits-tracked", lager.Data{
		"repository": event.Repository.FullName,
		"tracked":    accepted.Tracked,
		"duplicates": accepted.Duplicates,
	})

	return nil
}

func (g *gateway) requestChangeAnalysis(ctx context.Context, logger lager.Logger, event Event, now time.Time) (string, error) {
	analysisID := g.generator.Generate()
	change := event.ChangeRequest
	id := strconv.FormatInt(change.ID, 10)

	var (
		key string
		msg eventbus.Message
	)

	if event.Kind == KindPullRequest {
		key = "PR-" + id
		msg = eventbus.PullRequestAnalysis{
			AnalysisID:     analysisID,
			PRID:           change.ID,
			RepositoryName: event.Repository.FullName,
			Title:          change.Title,
			State:          change.State,
			URL:            change.URL,
			Platform:       string(event.Repository.Platform),
			Timestamp:      now,
		}
	} else {
		key = "MR-" + id
		msg = eventbus.MergeRequestAnalysis{
			AnalysisID:     analysisID,
			MRID:           change.ID,
			RepositoryName: event.Repository.FullName,
			Title:          change.Title,
			State:          change.State,
			URL:            change.URL,
			Platform:       string(event.Repository.Platform),
			Timestamp:      now,
		}
	}

	if err := g.publisher.Publish(ctx, logger, key, msg); err != nil {
		logger.Error("failed-to-publish-change-request", err, lager.Data{"key": key})
		return "", err
	}

	logger.Info("change-request-published", lager.Data{"key": key, "analysis-id": analysisID})

	return analysisID, nil
}
