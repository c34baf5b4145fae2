package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"sala-service/api"
	"sala-service/internal/schedule"
	"sala-service/pkg/response"
	"sala-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type ScheduleBuilder interface {
	BuildSchedule(ctx context.Context) (*api.ScheduleResult, error)
}

type Response struct {
	response.Response
	PlanningYear int            `json:"planning_year"`
	Stats        schedule.Stats `json:"stats"`
}

func New(log *slog.Logger, builder ScheduleBuilder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.stats.get.New"

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

		log.Info("Stats retrieved",
			slog.Int("occurrences", result.Stats.TotalOccurrences),
			slog.Int("conflicts", result.Stats.TotalConflicts),
		)

		render.JSON(w, r, Response{
			PlanningYear: result.PlanningYear,
			Stats:        result.Stats,
		})
	}
}
