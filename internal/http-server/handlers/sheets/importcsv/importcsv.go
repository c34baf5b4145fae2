package importcsv

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"sala-service/api"
	"sala-service/pkg/response"
	"sala-service/pkg/sl"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
)

type SheetImporter interface {
	ImportSheets(ctx context.Context, req *api.ImportRequest) (*api.ImportResponse, error)
}

type Request struct {
	api.ImportRequest
}

type Response struct {
	response.Response
	Imported api.ImportResponse `json:"imported"`
}

// missingColumnsMessage strips the internal call chain from a wrapped
// ErrMissingColumns, keeping only the sentinel text and the column names.
func missingColumnsMessage(err error) string {
	msg := response.ErrMissingColumns.Error()
	if _, cols, ok := strings.Cut(err.Error(), msg+": "); ok {
		return msg + ": " + cols
	}
	return msg
}

func New(log *slog.Logger, importer SheetImporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sheets.importcsv.New"

		log = log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("Failed to decode request body", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "failed to decode request"))
			return
		}

		if req.RulesCSV == "" && req.RoomsCSV == "" && req.GroupsCSV == "" {
			log.Error("no sheets provided")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.BAD_REQUEST), "at least one sheet is required"))
			return
		}

		imported, err := importer.ImportSheets(r.Context(), &req.ImportRequest)

		if errors.Is(err, response.ErrMissingColumns) {
			log.Error("sheet is missing required columns", sl.Err(err))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(string(response.INVALID_INPUT), missingColumnsMessage(err)))
			return
		}

		if err != nil {
			log.Error("Failed to import sheets", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(string(response.FAILED_REQUEST), "failed to import sheets"))
			return
		}

		log.Info("Sheets imported",
			slog.Int("rules", imported.Rules),
			slog.Int("rooms", imported.Rooms),
			slog.Int("groups", imported.Groups),
		)

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, Response{Imported: *imported})
	}
}
