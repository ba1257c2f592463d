package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"podofarma/m/domain"
)

// GET /api/clientes?estado=activos|inactivos|todos&search=
func (h *Handler) listClientes(w http.ResponseWriter, r *http.Request) {
	var (
		args    []any
		clauses []string
	)

	estado := r.URL.Query().Get("estado")
	if estado == "" {
		estado = "activos"
	}
	switch estado {
	case "activos":
		clauses = append(clauses, "activo = 1")
	case "inactivos":
		clauses = append(clauses, "activo = 0")
	case "todos":
	default:
		respondError(w, http.StatusBadRequest, "estado debe ser activos, inactivos o todos")
		return
	}

	if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		clauses = append(clauses, fmt.Sprintf("(LOWER(nombre_completo) LIKE $%d OR LOWER(COALESCE(cedula, '')) LIKE $%d)", len(args), len(args)))
	}

	query := `SELECT id, nombre_completo, telefono, correo, cedula, direccion, activo FROM clientes`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY nombre_completo ASC"

	clientes := []domain.Cliente{}
	if err := h.db.Select(&clientes, query, args...); err != nil {
		h.log.Error("list clientes", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error consultando clientes")
		return
	}
	respondJSON(w, http.StatusOK, clientes)
}

func (h *Handler) getCliente(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Id de cliente inválido")
		return
	}
	var cliente domain.Cliente
	err = h.db.Get(&cliente, `SELECT id, nombre_completo, telefono, correo, cedula, direccion, activo FROM clientes WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "Cliente no encontrado")
		return
	}
	if err != nil {
		h.log.Error("get cliente", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error consultando cliente")
		return
	}
	respondJSON(w, http.StatusOK, cliente)
}

type clienteRequest struct {
	NombreCompleto string `json:"nombreCompleto"`
	Telefono       string `json:"telefono"`
	Correo         string `json:"correo"`
	Cedula         string `json:"cedula"`
	Direccion      string `json:"direccion"`
	Activo         *bool  `json:"activo"`
}

func (h *Handler) createCliente(w http.ResponseWriter, r *http.Request) {
	var req clienteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.NombreCompleto == "" {
		respondError(w, http.StatusBadRequest, "Nombre completo es requerido")
		return
	}

	var id int64
	err := h.db.QueryRowx(`INSERT INTO clientes (nombre_completo, telefono, correo, cedula, direccion, activo)
        VALUES ($1, $2, $3, $4, $5, 1) RETURNING id`,
		req.NombreCompleto, nullIfEmpty(req.Telefono), nullIfEmpty(req.Correo), nullIfEmpty(req.Cedula), nullIfEmpty(req.Direccion)).Scan(&id)
	if isUniqueViolation(err) {
		respondError(w, http.StatusBadRequest, "Cédula ya existe")
		return
	}
	if err != nil {
		h.log.Error("create cliente", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error creando cliente")
		return
	}

	respondJSON(w, http.StatusCreated, domain.Cliente{
		ID:             id,
		NombreCompleto: req.NombreCompleto,
		Telefono:       nullIfEmpty(req.Telefono),
		Correo:         nullIfEmpty(req.Correo),
		Cedula:         nullIfEmpty(req.Cedula),
		Direccion:      nullIfEmpty(req.Direccion),
		Activo:         true,
	})
}

func (h *Handler) updateCliente(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Id de cliente inválido")
		return
	}
	var req clienteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.NombreCompleto == "" {
		respondError(w, http.StatusBadRequest, "Nombre completo es requerido")
		return
	}
	activo := true
	if req.Activo != nil {
		activo = *req.Activo
	}

	res, err := h.db.Exec(`UPDATE clientes SET nombre_completo = $1, telefono = $2, correo = $3, cedula = $4, direccion = $5, activo = $6 WHERE id = $7`,
		req.NombreCompleto, nullIfEmpty(req.Telefono), nullIfEmpty(req.Correo), nullIfEmpty(req.Cedula), nullIfEmpty(req.Direccion), activo, id)
	if isUniqueViolation(err) {
		respondError(w, http.StatusBadRequest, "Cédula ya existe")
		return
	}
	if err != nil {
		h.log.Error("update cliente", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error actualizando cliente")
		return
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		respondError(w, http.StatusNotFound, "Cliente no encontrado")
		return
	}

	h.getClienteByID(w, id)
}

func (h *Handler) toggleCliente(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Id de cliente inválido")
		return
	}
	var req struct {
		Activo *bool `json:"activo"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Activo == nil {
		respondError(w, http.StatusBadRequest, "activo es requerido")
		return
	}

	res, err := h.db.Exec(`UPDATE clientes SET activo = $1 WHERE id = $2`, *req.Activo, id)
	if err != nil {
		h.log.Error("toggle cliente", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error actualizando cliente")
		return
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		respondError(w, http.StatusNotFound, "Cliente no encontrado")
		return
	}

	h.getClienteByID(w, id)
}

func (h *Handler) getClienteByID(w http.ResponseWriter, id int64) {
	var cliente domain.Cliente
	if err := h.db.Get(&cliente, `SELECT id, nombre_completo, telefono, correo, cedula, direccion, activo FROM clientes WHERE id = $1`, id); err != nil {
		h.log.Error("load cliente", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error consultando cliente")
		return
	}
	respondJSON(w, http.StatusOK, cliente)
}
