package server

import (
	"net/http"
	"strconv"

	"cotizadorapp/internal/domain"
	"cotizadorapp/internal/quote"

	"github.com/skip2/go-qrcode"
)

const vehicleSearchLimit = 15

// handleSearchVehicles returns vehicles matching the search keywords
func (s *Server) handleSearchVehicles(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	results := snap.SearchVehicles(r.URL.Query().Get("q"), vehicleSearchLimit)
	if results == nil {
		results = []domain.Vehicle{}
	}
	writeJSON(w, http.StatusOK, results)
}

// handleGetVehicle returns one vehicle record from the snapshot
func (s *Server) handleGetVehicle(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	id, err := strconv.ParseInt(getURLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id de vehículo inválido")
		return
	}
	v := snap.FindVehicle(id)
	if v == nil {
		writeError(w, http.StatusNotFound, "vehículo no encontrado")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// tierRequest is the unlock payload for a restricted price tier
type tierRequest struct {
	Tier string `json:"tier"`
	Key  string `json:"key"`
}

// handleUnlockTier validates a tier passphrase against the configured
// access keys and issues a session-scoped tier token.
func (s *Server) handleUnlockTier(w http.ResponseWriter, r *http.Request) {
	var req tierRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return
	}

	snap := s.store.Snapshot()
	tier := domain.ParseTier(req.Tier)

	var expected string
	switch tier {
	case domain.TierWorkshop:
		expected = snap.WorkshopKey
	case domain.TierCost:
		expected = snap.CostKey
	default:
		writeError(w, http.StatusBadRequest, "la tarifa pública no requiere clave")
		return
	}

	if expected == "" || req.Key != expected {
		writeError(w, http.StatusUnauthorized, "clave incorrecta")
		return
	}

	token, err := s.issueTierToken(tier)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "no se pudo generar el token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "tier_token",
		Value:    token,
		Path:     "/",
		MaxAge:   s.config.JWT.TierExpirationHours * 3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"tier": string(tier), "token": token})
}

// handleRefresh reloads the data snapshot wholesale
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Refresh(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "error al recargar datos: "+err.Error())
		return
	}
	snap := s.store.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"loadedAt": snap.LoadedAt,
		"vehicles": len(snap.Vehicles),
		"products": len(snap.Products),
	})
}

// quoteRequest carries the quoting inputs for one computation frame
type quoteRequest struct {
	Service string      `json:"service"`
	State   quote.State `json:"state"`
}

// quoteResponse returns the computed quote plus the repaired override
// state so the client can persist it as-is.
type quoteResponse struct {
	Quote domain.Quote `json:"quote"`
	State quote.State  `json:"state"`
}

// computeQuote resolves the request inputs and runs the engine
func (s *Server) computeQuote(w http.ResponseWriter, r *http.Request) (*quoteResponse, bool) {
	snap := s.store.Snapshot()

	id, err := strconv.ParseInt(getURLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id de vehículo inválido")
		return nil, false
	}
	v := snap.FindVehicle(id)
	if v == nil {
		writeError(w, http.StatusNotFound, "vehículo no encontrado")
		return nil, false
	}

	var req quoteRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return nil, false
	}

	svc := domain.ServiceOil
	if req.Service == string(domain.ServiceBelt) {
		if !v.CanQuoteBelt() {
			writeError(w, http.StatusConflict, "servicio de correa no disponible para este modelo")
			return nil, false
		}
		svc = domain.ServiceBelt
	}

	q := quote.Build(v, snap.Index, svc, getTier(r), snap.HourlyRate, req.State)
	repaired := quote.Normalize(req.State, q.Items)

	return &quoteResponse{Quote: q, State: repaired}, true
}

// handleQuote computes and returns the full quote structure
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.computeQuote(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleQuoteShare returns the plain-text shareable summary
func (s *Server) handleQuoteShare(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.computeQuote(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(resp.Quote.ShareText))
}

// handleQuoteSharePNG returns the shareable summary as a QR code
func (s *Server) handleQuoteSharePNG(w http.ResponseWriter, r *http.Request) {
	resp, ok := s.computeQuote(w, r)
	if !ok {
		return
	}
	png, err := qrcode.Encode(resp.Quote.ShareText, qrcode.Medium, 256)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error generando código QR")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
