package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"sala-service/internal/models"
	"sala-service/pkg/response"
	"sala-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type RecommendationGetter interface {
	Recommendations(ctx context.Context) ([]models.Recommendation, error)
	RecommendationByConflict(ctx context.Context, conflictID string) (*models.Recommendation, error)
}

type Response struct {
	response.Response
	Recommendations []models.Recommendation `json:"recommendations,omitempty"`
	Recommendation  *models.Recommendation  `json:"recommendation,omitempty"`
}

func New(log *slog.Logger, getter RecommendationGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.recommendations.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if conflictID := chi.URLParam(r, "conflict_id"); conflictID != "" {
			recommendation, err := getter.RecommendationByConflict(r.Context(), conflictID)

			if errors.Is(err, response.ErrNotFound) {
				log.Error("recommendation not found", slog.String("conflict_id", conflictID))
				w.WriteHeader(http.StatusNotFound)
				render.JSON(w, r, response.Error(string(response.NOT_FOUND), "no recommendation for this conflict"))
				return
			}

			if err != nil {
				log.Error("Failed to get recommendation", sl.Err(err))
				w.WriteHeader(http.StatusInternalServerError)
				render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to get recommendation"))
				return
			}

			log.Info("Recommendation retrieved", slog.String("conflict_id", conflictID))
			render.JSON(w, r, Response{Recommendation: recommendation})
			return
		}

		recommendations, err := getter.Recommendations(r.Context())

		if errors.Is(err, response.ErrNoRules) {
			log.Error("reservation rules table is empty")
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(string(response.NO_RESERVATIONS), "reservation rules table is empty"))
			return
		}

		if err != nil {
			log.Error("Failed to list recommendations", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list recommendations"))
			return
		}

		log.Info("Recommendations retrieved", slog.Int("count", len(recommendations)))

		render.JSON(w, r, Response{Recommendations: recommendations})
	}
}
