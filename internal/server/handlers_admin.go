package server

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"cotizadorapp/internal/domain"
	"cotizadorapp/internal/quote"
	"cotizadorapp/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Admin handlers

// handleAdminLogin processes an admin login and issues an auth token
func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return
	}

	user, err := s.repos.Users.GetByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error al buscar usuario")
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "email o contraseña incorrectos")
		return
	}

	token, err := s.issueAuthToken(user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "no se pudo generar el token")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    token,
		Path:     "/",
		MaxAge:   s.config.JWT.ExpirationHours * 3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": user})
}

// Vehicle management

func (s *Server) handleAdminListVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := s.repos.Vehicles.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error al listar vehículos")
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}

func (s *Server) handleAdminGetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(getURLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id de vehículo inválido")
		return
	}
	v, err := s.repos.Vehicles.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error al buscar vehículo")
		return
	}
	if v == nil {
		writeError(w, http.StatusNotFound, "vehículo no encontrado")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleAdminCreateVehicle(w http.ResponseWriter, r *http.Request) {
	var v domain.Vehicle
	if err := readJSON(r, &v); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return
	}
	if strings.TrimSpace(v.Make) == "" || strings.TrimSpace(v.Model) == "" {
		writeError(w, http.StatusBadRequest, "marca y modelo son obligatorios")
		return
	}

	if err := s.repos.Vehicles.Create(r.Context(), &v); err != nil {
		writeError(w, http.StatusInternalServerError, "error al crear vehículo")
		return
	}

	s.audit(r, domain.AuditCreate, v.ID, fmt.Sprintf("%s %s", v.Make, v.Model))
	s.refreshSnapshot(r)
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleAdminUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(getURLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id de vehículo inválido")
		return
	}

	existing, err := s.repos.Vehicles.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error al buscar vehículo")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "vehículo no encontrado")
		return
	}

	var v domain.Vehicle
	if err := readJSON(r, &v); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return
	}
	v.ID = id

	if err := s.repos.Vehicles.Update(r.Context(), &v); err != nil {
		writeError(w, http.StatusInternalServerError, "error al actualizar vehículo")
		return
	}

	s.audit(r, domain.AuditUpdate, id, fmt.Sprintf("%s %s", v.Make, v.Model))
	s.refreshSnapshot(r)
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleAdminDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(getURLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id de vehículo inválido")
		return
	}

	existing, err := s.repos.Vehicles.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error al buscar vehículo")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "vehículo no encontrado")
		return
	}

	if err := s.repos.Vehicles.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "error al eliminar vehículo")
		return
	}

	s.audit(r, domain.AuditDelete, id, fmt.Sprintf("%s %s", existing.Make, existing.Model))
	s.refreshSnapshot(r)
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Product management

func (s *Server) handleAdminSearchProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.ProductFilter{
		Term:        q.Get("q"),
		Category:    q.Get("category"),
		Subcategory: q.Get("subcategory"),
		Supplier:    q.Get("supplier"),
		Brand:       q.Get("brand"),
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	products, err := s.repos.Products.Search(r.Context(), filter, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error al buscar productos")
		return
	}
	if products == nil {
		products = []domain.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// handleAdminImportProducts replaces or inserts catalog rows in bulk.
// The payload is the full product list as exported from the supplier
// spreadsheet; rows without a code are skipped.
func (s *Server) handleAdminImportProducts(w http.ResponseWriter, r *http.Request) {
	var products []domain.Product
	if err := readJSON(r, &products); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return
	}
	if len(products) == 0 {
		writeError(w, http.StatusBadRequest, "la lista de productos está vacía")
		return
	}

	count, err := s.repos.Products.BulkUpsert(r.Context(), products)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error al importar productos: "+err.Error())
		return
	}

	s.refreshSnapshot(r)
	writeJSON(w, http.StatusOK, map[string]int{"imported": count})
}

// Combo management

// comboView pairs a combo product with the vehicles it is assigned to
type comboView struct {
	Product    domain.Product `json:"product"`
	VehicleIDs []int64        `json:"vehicleIds"`
}

func (s *Server) handleAdminListCombos(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()

	assigned := make(map[string][]int64)
	for _, v := range snap.Vehicles {
		for _, code := range v.ComboCodes {
			if p := snap.Index.FindByCode(code); p != nil {
				assigned[p.Code] = append(assigned[p.Code], v.ID)
			}
		}
	}

	combos := []comboView{}
	for _, p := range snap.Products {
		if !quote.IsCombo(p) {
			continue
		}
		combos = append(combos, comboView{Product: p, VehicleIDs: assigned[p.Code]})
	}
	writeJSON(w, http.StatusOK, combos)
}

func (s *Server) handleAdminAssignCombo(w http.ResponseWriter, r *http.Request) {
	s.mutateComboCodes(w, r, true)
}

func (s *Server) handleAdminUnassignCombo(w http.ResponseWriter, r *http.Request) {
	s.mutateComboCodes(w, r, false)
}

// mutateComboCodes adds or removes one combo code on a vehicle record
func (s *Server) mutateComboCodes(w http.ResponseWriter, r *http.Request, add bool) {
	id, err := strconv.ParseInt(getURLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id de vehículo inválido")
		return
	}
	code := strings.TrimSpace(getURLParam(r, "code"))
	if code == "" {
		writeError(w, http.StatusBadRequest, "código de combo inválido")
		return
	}

	v, err := s.repos.Vehicles.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error al buscar vehículo")
		return
	}
	if v == nil {
		writeError(w, http.StatusNotFound, "vehículo no encontrado")
		return
	}

	if add {
		snap := s.store.Snapshot()
		p := snap.Index.FindByCode(code)
		if p == nil || !quote.IsCombo(*p) {
			writeError(w, http.StatusBadRequest, "el código no corresponde a un combo del catálogo")
			return
		}
		for _, c := range v.ComboCodes {
			if strings.EqualFold(c, code) {
				writeJSON(w, http.StatusOK, v)
				return
			}
		}
		v.ComboCodes = append(v.ComboCodes, code)
	} else {
		kept := v.ComboCodes[:0]
		for _, c := range v.ComboCodes {
			if !strings.EqualFold(c, code) {
				kept = append(kept, c)
			}
		}
		v.ComboCodes = kept
	}

	if err := s.repos.Vehicles.Update(r.Context(), v); err != nil {
		writeError(w, http.StatusInternalServerError, "error al actualizar vehículo")
		return
	}

	action := "combo " + code
	if !add {
		action = "sin " + action
	}
	s.audit(r, domain.AuditUpdate, id, action)
	s.refreshSnapshot(r)
	writeJSON(w, http.StatusOK, v)
}

// Audit log

func (s *Server) handleAdminListAudit(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.AuditFilter{
		Start:     q.Get("start"),
		End:       q.Get("end"),
		UserEmail: q.Get("user"),
		Action:    q.Get("action"),
	}
	if raw := q.Get("record"); raw != "" {
		filter.RecordID, _ = strconv.ParseInt(raw, 10, 64)
	}

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	entries, total, err := s.repos.Audit.List(r.Context(), filter, page, pageSize)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error al listar auditoría")
		return
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries":  entries,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// User management

func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.repos.Users.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error al listar usuarios")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleAdminCreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Role     string `json:"role"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "email y contraseña (mínimo 8 caracteres) son obligatorios")
		return
	}
	if req.Role != domain.RoleAdmin && req.Role != domain.RoleEditor {
		writeError(w, http.StatusBadRequest, "rol inválido")
		return
	}

	existing, err := s.repos.Users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error al buscar usuario")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "el email ya está registrado")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "error al procesar contraseña")
		return
	}

	user := &domain.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
		Role:         req.Role,
	}
	if err := s.repos.Users.Create(r.Context(), user); err != nil {
		writeError(w, http.StatusInternalServerError, "error al crear usuario")
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(getURLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "id de usuario inválido")
		return
	}

	// A user may not delete their own account
	if claims := getUserClaims(r); claims != nil && claims.UserID == id {
		writeError(w, http.StatusBadRequest, "no puede eliminar su propia cuenta")
		return
	}

	if err := s.repos.Users.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "error al eliminar usuario")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Settings

var editableSettings = map[string]bool{
	domain.SettingHourlyRate:  true,
	domain.SettingWorkshopKey: true,
	domain.SettingCostKey:     true,
}

func (s *Server) handleAdminUpdateSetting(w http.ResponseWriter, r *http.Request) {
	key := getURLParam(r, "key")
	if !editableSettings[key] {
		writeError(w, http.StatusBadRequest, "clave de configuración desconocida")
		return
	}

	var req struct {
		Value string `json:"value"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "cuerpo de solicitud inválido")
		return
	}

	if key == domain.SettingHourlyRate {
		rate, err := strconv.ParseFloat(strings.TrimSpace(req.Value), 64)
		if err != nil || rate < 0 {
			writeError(w, http.StatusBadRequest, "el precio por hora debe ser un número no negativo")
			return
		}
	}

	if err := s.repos.Settings.Set(r.Context(), key, req.Value); err != nil {
		writeError(w, http.StatusInternalServerError, "error al guardar configuración")
		return
	}

	s.refreshSnapshot(r)
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": req.Value})
}

// Helpers

// audit records a vehicle mutation; failures are logged but never
// block the mutation itself.
func (s *Server) audit(r *http.Request, action string, recordID int64, detail string) {
	email := ""
	if claims := getUserClaims(r); claims != nil {
		email = claims.Email
	}
	entry := &domain.AuditEntry{
		UserEmail: email,
		Action:    action,
		RecordID:  recordID,
		Detail:    detail,
	}
	if err := s.repos.Audit.Create(r.Context(), entry); err != nil {
		fmt.Printf("Error writing audit entry: %v\n", err)
	}
}

// refreshSnapshot reloads the quoting snapshot after a mutation
func (s *Server) refreshSnapshot(r *http.Request) {
	if err := s.store.Refresh(r.Context()); err != nil {
		fmt.Printf("Error refreshing snapshot: %v\n", err)
	}
}
