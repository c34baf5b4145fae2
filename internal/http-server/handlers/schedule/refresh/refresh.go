package refresh

import (
	"context"
	"log/slog"
	"net/http"

	"sala-service/pkg/response"
	"sala-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type Refresher interface {
	Refresh(ctx context.Context) error
}

type Response struct {
	response.Response
	Refreshed bool `json:"refreshed"`
}

func New(log *slog.Logger, refresher Refresher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedule.refresh.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		if err := refresher.Refresh(r.Context()); err != nil {
			log.Error("Failed to refresh schedule cache", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to refresh schedule cache"))
			return
		}

		log.Info("Schedule cache refreshed")

		render.JSON(w, r, Response{Refreshed: true})
	}
}
