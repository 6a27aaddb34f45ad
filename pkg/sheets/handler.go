package sheets

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/spendwell/spendwell/internal/rest"
	log "github.com/sirupsen/logrus"
)

type ImportRequestDTO struct {
	SpreadsheetId string `json:"spreadsheetId"`
	Range         string `json:"range"`
}

type ImportResultDTO struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

type Handler struct {
	importer *Importer
}

func NewHandler(importer *Importer) *Handler {
	return &Handler{importer: importer}
}

func (h *Handler) ImportFromSheets(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	log.Debug("Importing expenses from Google Sheets")

	var request ImportRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "Invalid request body format",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	if request.SpreadsheetId == "" || request.Range == "" {
		w.WriteHeader(http.StatusBadRequest)
		encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
			Error: "spreadsheetId and range are required",
		})
		if encodeErr != nil {
			http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
		}
		return
	}

	imported, skipped, err := h.importer.Import(r.Context(), request.SpreadsheetId, request.Range)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			w.WriteHeader(http.StatusServiceUnavailable)
			encodeErr := json.NewEncoder(w).Encode(rest.ErrorResponse{
				Error: "Google Sheets import is not configured",
			})
			if encodeErr != nil {
				http.Error(w, encodeErr.Error(), http.StatusInternalServerError)
			}
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(ImportResultDTO{Imported: imported, Skipped: skipped}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
