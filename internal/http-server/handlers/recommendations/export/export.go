package export

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"sala-service/pkg/response"
	"sala-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type RecommendationExporter interface {
	ExportRecommendationsCSV(ctx context.Context, w io.Writer) error
}

func New(log *slog.Logger, exporter RecommendationExporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.recommendations.export.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="recomendacoes.csv"`)

		err := exporter.ExportRecommendationsCSV(r.Context(), w)

		if errors.Is(err, response.ErrNoRules) {
			log.Error("reservation rules table is empty")
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.Header().Del("Content-Disposition")
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error(string(response.NO_RESERVATIONS), "reservation rules table is empty"))
			return
		}

		if err != nil {
			log.Error("Failed to export recommendations", sl.Err(err))
			return
		}

		log.Info("Recommendations exported")
	}
}
