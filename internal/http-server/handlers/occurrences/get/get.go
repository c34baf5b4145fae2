package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"sala-service/api"
	"sala-service/internal/models"
	"sala-service/pkg/response"
	"sala-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type ScheduleBuilder interface {
	BuildSchedule(ctx context.Context) (*api.ScheduleResult, error)
}

// Response carries occurrences as-is: every rule column plus the occurrence
// date and id, so downstream consumers never lose source fields.
type Response struct {
	response.Response
	Occurrences []models.Occurrence `json:"occurrences"`
	Warnings    []WarningItem       `json:"warnings,omitempty"`
}

type WarningItem struct {
	Row    int    `json:"row"`
	Rule   string `json:"rule"`
	Reason string `json:"reason"`
}

func New(log *slog.Logger, builder ScheduleBuilder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.occurrences.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		result, err := builder.BuildSchedule(r.Context())

		if errors.Is(err, response.ErrNoRules) {
			log.Error("reservation rules table is empty")
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(string(response.NO_RESERVATIONS), "reservation rules table is empty"))
			return
		}

		if err != nil {
			log.Error("Failed to build schedule", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to build schedule"))
			return
		}

		warnings := make([]WarningItem, len(result.Warnings))
		for i, warn := range result.Warnings {
			warnings[i] = WarningItem(warn)
		}

		log.Info("Occurrences retrieved",
			slog.Int("count", len(result.Occurrences)),
			slog.Int("warnings", len(warnings)),
		)

		render.JSON(w, r, Response{
			Occurrences: result.Occurrences,
			Warnings:    warnings,
		})
	}
}
