package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"podofarma/m/domain"
)

func (h *Handler) listProveedores(w http.ResponseWriter, r *http.Request) {
	query := `SELECT id, nombre, telefono, correo, direccion FROM proveedores`
	var args []any
	if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
		query += ` WHERE LOWER(nombre) LIKE $1`
		args = append(args, "%"+strings.ToLower(search)+"%")
	}
	query += ` ORDER BY nombre ASC`

	proveedores := []domain.Proveedor{}
	if err := h.db.Select(&proveedores, query, args...); err != nil {
		h.log.Error("list proveedores", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error consultando proveedores")
		return
	}
	respondJSON(w, http.StatusOK, proveedores)
}

type proveedorRequest struct {
	Nombre    string `json:"nombre"`
	Telefono  string `json:"telefono"`
	Correo    string `json:"correo"`
	Direccion string `json:"direccion"`
}

func (h *Handler) createProveedor(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	var req proveedorRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Nombre == "" {
		respondError(w, http.StatusBadRequest, "Nombre es requerido")
		return
	}

	var id int64
	err := h.db.QueryRowx(`INSERT INTO proveedores (nombre, telefono, correo, direccion) VALUES ($1, $2, $3, $4) RETURNING id`,
		req.Nombre, nullIfEmpty(req.Telefono), nullIfEmpty(req.Correo), nullIfEmpty(req.Direccion)).Scan(&id)
	if isUniqueViolation(err) {
		respondError(w, http.StatusBadRequest, "El proveedor ya existe")
		return
	}
	if err != nil {
		h.log.Error("create proveedor", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error creando proveedor")
		return
	}

	respondJSON(w, http.StatusCreated, domain.Proveedor{
		ID:        id,
		Nombre:    req.Nombre,
		Telefono:  nullIfEmpty(req.Telefono),
		Correo:    nullIfEmpty(req.Correo),
		Direccion: nullIfEmpty(req.Direccion),
	})
}

func (h *Handler) updateProveedor(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Id de proveedor inválido")
		return
	}
	var req proveedorRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Nombre == "" {
		respondError(w, http.StatusBadRequest, "Nombre es requerido")
		return
	}

	res, err := h.db.Exec(`UPDATE proveedores SET nombre = $1, telefono = $2, correo = $3, direccion = $4 WHERE id = $5`,
		req.Nombre, nullIfEmpty(req.Telefono), nullIfEmpty(req.Correo), nullIfEmpty(req.Direccion), id)
	if isUniqueViolation(err) {
		respondError(w, http.StatusBadRequest, "El proveedor ya existe")
		return
	}
	if err != nil {
		h.log.Error("update proveedor", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error actualizando proveedor")
		return
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		respondError(w, http.StatusNotFound, "Proveedor no encontrado")
		return
	}

	respondJSON(w, http.StatusOK, domain.Proveedor{
		ID:        id,
		Nombre:    req.Nombre,
		Telefono:  nullIfEmpty(req.Telefono),
		Correo:    nullIfEmpty(req.Correo),
		Direccion: nullIfEmpty(req.Direccion),
	})
}

// DELETE /api/proveedores/{id} is a true removal; suppliers are the one
// entity without a soft-delete flag.
func (h *Handler) deleteProveedor(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Id de proveedor inválido")
		return
	}

	res, err := h.db.Exec(`DELETE FROM proveedores WHERE id = $1`, id)
	if isForeignKeyViolation(err) {
		respondError(w, http.StatusBadRequest, "El proveedor tiene compras registradas")
		return
	}
	if err != nil {
		h.log.Error("delete proveedor", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error eliminando proveedor")
		return
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		respondError(w, http.StatusNotFound, "Proveedor no encontrado")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}
