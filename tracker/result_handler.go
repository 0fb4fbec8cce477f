package tracker

import (
	"context"

	"code.cloudfoundry.org/lager"

	"github.com/codeguardian/guardian/eventbus"
	"github.com/codeguardian/guardian/pipeline"
)

// NewResultHandler consumes the analysis-results topic on behalf of the
// tracker.
func NewResultHandler(tracker Tracker) eventbus.Handler {
	return eventbus.HandlerFunc(func(ctx context.Context, logger lager.Logger, envelope eventbus.Envelope) (bool, error) {
		var result eventbus.AnalysisResult
		if err := eventbus.Decode(envelope, &result); err != nil {
			logger.Error("failed-to-decode-result", err)
			return false, err
		}

		err := tracker.ProcessResult(ctx, logger, result)
		if err != nil {
			return pipeline.IsTransient(err), err
		}

		return false, nil
	})
}
