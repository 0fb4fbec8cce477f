package webhook

import (
	"encoding/json"
	"io"
	"net/http"

	"code.cloudfoundry.org/clock"
	"code.cloudfoundry.org/lager"
	"github.com/google/go-github/v56/github"
	"github.com/tedsuo/rata"

	"github.com/codeguardian/guardian/signature"
)

// GitHub refuses to deliver payloads above 25MB.
const maxPayloadBytes = 25 << 20

type HandlerConfig struct {
	EnableTestEndpoint bool
}

type handler struct {
	logger    lager.Logger
	gateway   Gateway
	validator signature.Validator
	clock     clock.Clock
}

func NewHandler(
	logger lager.Logger,
	gateway Gateway,
	validator signature.Validator,
	clock clock.Clock,
	config HandlerConfig,
) (http.Handler, error) {
	h := &handler{
		logger:    logger.Session("webhook-handler"),
		gateway:   gateway,
		validator: validator,
		clock:     clock,
	}

	handlers := rata.Handlers{
		GitHubHook: http.HandlerFunc(h.github),
		GitLabHook: http.HandlerFunc(h.gitlab),
		Health:     http.HandlerFunc(h.health),
		Config:     http.HandlerFunc(h.config),
	}

	routes := rata.Routes{}
	for _, route := range Routes {
		if route.Name == Test {
			if !config.EnableTestEndpoint {
				continue
			}
			handlers[Test] = http.HandlerFunc(h.test)
		}

		routes = append(routes, route)
	}

	return rata.NewRouter(routes, handlers)
}

func (h *handler) github(w http.ResponseWriter, r *http.Request) {
	h.ingest(w, r, signature.GitHub, github.WebHookType(r), "deliveryId", github.DeliveryID(r), "repository")
}

func (h *handler) gitlab(w http.ResponseWriter, r *http.Request) {
	h.ingest(w, r, signature.GitLab, r.Header.Get(GitLabEventHeader), "eventId", r.Header.Get(GitLabEventUUID), "project")
}

func (h *handler) ingest(
	w http.ResponseWriter,
	r *http.Request,
	platform signature.Platform,
	eventType string,
	deliveryField string,
	deliveryID string,
	repositoryField string,
) {
	logger := h.logger.Session("handle", lager.Data{
		"platform":    platform,
		"event-type":  eventType,
		"delivery-id": deliveryID,
	})

	response := map[string]interface{}{
		"eventType":   eventType,
		deliveryField: deliveryID,
		"timestamp":   h.clock.Now().UnixMilli(),
	}

	if eventType == "" {
		logger.Info("missing-event-type")
		h.fail(w, response, http.StatusBadRequest, InvalidPayload, "Missing event type header")
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	r.Body.Close()
	if err != nil {
		logger.Error("failed-to-read-payload", err)
		h.fail(w, response, http.StatusBadRequest, InvalidPayload, "Invalid payload")
		return
	}

	accepted, err := h.gateway.Ingest(r.Context(), logger, platform, eventType, payload, r.Header)
	if err != nil {
		rejected := rejectionOf(err)

		switch rejected.Reason {
		case InvalidToken:
			logger.Info("rejected-signature")
			h.fail(w, response, http.StatusUnauthorized, InvalidToken, "Invalid signature or token")
		case InvalidPayload, UnsupportedPlatform:
			logger.Info("rejected-payload", lager.Data{"reason": rejected.Error()})
			h.fail(w, response, http.StatusBadRequest, rejected.Reason, "Invalid payload")
		default:
			logger.Error("failed-to-process-webhook", err)
			h.fail(w, response, http.StatusInternalServerError, ProcessingError, "Error processing webhook")
		}
		return
	}

	if accepted.Dropped {
		response["status"] = "accepted"
		response["message"] = "Webhook accepted without action"
		writeJSON(logger, w, http.StatusAccepted, response)
		return
	}

	response["status"] = "success"
	response["message"] = "Webhook processed successfully"
	if accepted.Repository != "" {
		response[repositoryField] = accepted.Repository
	}

	writeJSON(logger, w, http.StatusOK, response)
}

func (h *handler) fail(w http.ResponseWriter, response map[string]interface{}, status int, code RejectReason, message string) {
	response["status"] = "error"
	response["message"] = message
	response["code"] = code

	writeJSON(h.logger, w, status, response)
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"status":    "UP",
		"service":   "webhook-gateway",
		"timestamp": h.clock.Now().UnixMilli(),
		"security": map[string]bool{
			"github":        h.validator.Configured(signature.GitHub),
			"gitlab":        h.validator.Configured(signature.GitLab),
			"allowUnsigned": h.validator.AllowUnsigned(),
		},
	})
}

func (h *handler) config(w http.ResponseWriter, r *http.Request) {
	configured := h.validator.Configured(signature.GitHub) || h.validator.Configured(signature.GitLab)

	writeJSON(h.logger, w, http.StatusOK, map[string]interface{}{
		"securityConfigured": configured,
		"supportedPlatforms": []string{"GitHub", "GitLab"},
		"endpoints": map[string]string{
			"github": "/webhooks/github",
			"gitlab": "/webhooks/gitlab",
		},
	})
}

func (h *handler) test(w http.ResponseWriter, r *http.Request) {
	platform := r.URL.Query().Get("platform")
	if platform == "" {
		platform = "github"
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	r.Body.Close()
	if err != nil {
		h.logger.Error("failed-to-read-test-payload", err)
		writeJSON(h.logger, w, http.StatusBadRequest, map[string]interface{}{
			"status":   "error",
			"message":  "Invalid payload",
			"platform": platform,
		})
		return
	}

	response := map[string]interface{}{
		"status":          "success",
		"message":         "Test webhook endpoint is working",
		"platform":        platform,
		"timestamp":       h.clock.Now().UnixMilli(),
		"payloadReceived": len(payload) > 0,
	}

	if len(payload) > 0 {
		response["payloadLength"] = len(payload)
	}

	writeJSON(h.logger, w, http.StatusOK, response)
}

func writeJSON(logger lager.Logger, w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("failed-to-write-response", err)
	}
}
