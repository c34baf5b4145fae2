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

type ConflictLister interface {
	Conflicts(ctx context.Context, filters *api.ConflictFilters) ([]models.Conflict, error)
}

type Response struct {
	response.Response
	Conflicts []models.Conflict `json:"conflicts"`
}

func New(log *slog.Logger, lister ConflictLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.conflicts.get.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		filters := &api.ConflictFilters{
			Room:         r.URL.Query().Get("room"),
			Group:        r.URL.Query().Get("group"),
			Weekday:      r.URL.Query().Get("weekday"),
			Date:         r.URL.Query().Get("date"),
			ShortOverlap: r.URL.Query().Get("short") == "true",
		}

		conflicts, err := lister.Conflicts(r.Context(), filters)

		if errors.Is(err, response.ErrNoRules) {
			log.Error("reservation rules table is empty")
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(string(response.NO_RESERVATIONS), "reservation rules table is empty"))
			return
		}

		if err != nil {
			log.Error("Failed to list conflicts", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to list conflicts"))
			return
		}

		log.Info("Conflicts retrieved", slog.Int("count", len(conflicts)))

		render.JSON(w, r, Response{Conflicts: conflicts})
	}
}
