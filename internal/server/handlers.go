package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/waterscope/floodwatch/pkg/errs"
	"github.com/waterscope/floodwatch/pkg/stn"
)

// crsParam selects the output CRS and is not forwarded to the service.
const crsParam = "crs"

type datasetResponse struct {
	Type    string       `json:"type"`
	Count   int          `json:"count"`
	EPSG    int          `json:"epsg,omitempty"`
	Records []stn.Record `json:"records"`
}

type dictionaryResponse struct {
	Type    string                `json:"type"`
	Entries []stn.DictionaryEntry `json:"entries"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSTNData(w http.ResponseWriter, r *http.Request) {
	dt, err := stn.ParseDataType(chi.URLParam(r, "dataType"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	epsg := 0
	params := make(map[string]string)
	for key, vals := range r.URL.Query() {
		if len(vals) == 0 {
			continue
		}
		if key == crsParam {
			epsg, err = strconv.Atoi(vals[0])
			if err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid crs %q", vals[0]))
				return
			}
			continue
		}
		params[key] = vals[0]
	}

	var ds *stn.Dataset
	if len(params) == 0 {
		ds, err = s.stn.GetAllData(r.Context(), dt, epsg)
	} else {
		ds, err = s.stn.GetFilteredData(r.Context(), dt, params, epsg)
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, datasetResponse{
		Type:    ds.Type.String(),
		Count:   len(ds.Records),
		EPSG:    ds.EPSG,
		Records: ds.Records,
	})
}

func (s *Server) handleSTNDictionary(w http.ResponseWriter, r *http.Request) {
	dt, err := stn.ParseDataType(chi.URLParam(r, "dataType"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	entries, err := s.stn.DataDictionary(r.Context(), dt)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dictionaryResponse{
		Type:    dt.String(),
		Entries: entries,
	})
}

// writeDomainError maps client-input errors to 400 and everything else,
// upstream service failures included, to 502.
func writeDomainError(w http.ResponseWriter, err error) {
	var inputErr *errs.InputValueError
	if errors.As(err, &inputErr) {
		writeError(w, http.StatusBadRequest, inputErr.Error())
		return
	}
	writeError(w, http.StatusBadGateway, "upstream service error")
	zap.L().Error("server: request failed", zap.Error(err))
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}
