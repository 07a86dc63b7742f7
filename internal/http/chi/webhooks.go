package chi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/oks-citadel/citadelbuy-sub007/webhook"
)

/* HTTP layer DTOs for the webhook registry
 * Separate from domain entities to avoid leaking internal structure; the
 * signing secret in particular only ever appears in create/rotate responses
 */

// webhookRequest represents the subscription payload for create and update
type webhookRequest struct {
	URL         *string  `json:"url"`
	Description *string  `json:"description"`
	Events      []string `json:"events"`
	IsActive    *bool    `json:"isActive"`
}

// webhookResponse represents a subscription in the API, without the secret
type webhookResponse struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Description string    `json:"description,omitempty"`
	Events      []string  `json:"events"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// createdWebhookResponse additionally carries the secret, shown exactly once
type createdWebhookResponse struct {
	webhookResponse
	Secret string `json:"secret"`
}

// rotateSecretResponse carries the replacement secret, shown exactly once
type rotateSecretResponse struct {
	Success bool   `json:"success"`
	Secret  string `json:"secret"`
}

func toWebhookResponse(wh webhook.Webhook) webhookResponse {
	return webhookResponse{
		ID:          wh.ID,
		URL:         wh.URL,
		Description: wh.Description,
		Events:      wh.Events,
		IsActive:    wh.Active,
		CreatedAt:   wh.CreatedAt,
		UpdatedAt:   wh.UpdatedAt,
	}
}

// postWebhook handles POST /webhooks
func postWebhook(webhookService webhook.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req webhookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}

		var targetURL, description string
		if req.URL != nil {
			targetURL = *req.URL
		}
		if req.Description != nil {
			description = *req.Description
		}
		active := true
		if req.IsActive != nil {
			active = *req.IsActive
		}

		wh, secret, err := webhookService.Create(r.Context(), targetURL, description, req.Events, active)
		if err != nil {
			// Creation only fails on bad input or storage errors; bad
			// input dominates in practice
			respondError(w, http.StatusBadRequest, err)
			return
		}

		respondJSON(w, http.StatusCreated, createdWebhookResponse{
			webhookResponse: toWebhookResponse(wh),
			Secret:          secret,
		})
	})
}

// getWebhooks handles GET /webhooks
func getWebhooks(webhookService webhook.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		all, err := webhookService.List(r.Context())
		if err != nil {
			respondError(w, statusFromError(err), err)
			return
		}

		result := make([]webhookResponse, 0, len(all))
		for _, wh := range all {
			result = append(result, toWebhookResponse(wh))
		}
		respondJSON(w, http.StatusOK, result)
	})
}

// getWebhook handles GET /webhooks/{id}
func getWebhook(webhookService webhook.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wh, err := webhookService.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, statusFromError(err), err)
			return
		}
		respondJSON(w, http.StatusOK, toWebhookResponse(wh))
	})
}

// putWebhook handles PUT /webhooks/{id}
func putWebhook(webhookService webhook.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req webhookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}

		patch := webhook.Patch{
			URL:         req.URL,
			Description: req.Description,
			Events:      req.Events,
			Active:      req.IsActive,
		}

		wh, err := webhookService.Update(r.Context(), chi.URLParam(r, "id"), patch)
		if err != nil {
			status := statusFromError(err)
			if status == http.StatusInternalServerError {
				status = http.StatusBadRequest
			}
			respondError(w, status, err)
			return
		}
		respondJSON(w, http.StatusOK, toWebhookResponse(wh))
	})
}

// deleteWebhook handles DELETE /webhooks/{id}
func deleteWebhook(webhookService webhook.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := webhookService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondError(w, statusFromError(err), err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

// postRotateSecret handles POST /webhooks/{id}/rotate-secret
func postRotateSecret(webhookService webhook.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secret, err := webhookService.RotateSecret(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, statusFromError(err), err)
			return
		}
		respondJSON(w, http.StatusOK, rotateSecretResponse{Success: true, Secret: secret})
	})
}
