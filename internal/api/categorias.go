package api

import (
	"net/http"

	"go.uber.org/zap"
)

type categoriaRow struct {
	ID          int64   `db:"id" json:"id"`
	Nombre      string  `db:"nombre" json:"nombre"`
	Descripcion *string `db:"descripcion" json:"descripcion"`
	Productos   int64   `db:"productos" json:"productos"`
}

func (h *Handler) listCategorias(w http.ResponseWriter, r *http.Request) {
	var categorias []categoriaRow
	err := h.db.Select(&categorias, `SELECT c.id, c.nombre, c.descripcion, COUNT(p.id) AS productos
        FROM categorias c LEFT JOIN productos p ON p.id_categoria = c.id
        GROUP BY c.id, c.nombre, c.descripcion
        ORDER BY c.nombre ASC`)
	if err != nil {
		h.log.Error("list categorias", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error consultando categorías")
		return
	}
	respondJSON(w, http.StatusOK, categorias)
}

type categoriaRequest struct {
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
}

func (h *Handler) createCategoria(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	var req categoriaRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Nombre == "" {
		respondError(w, http.StatusBadRequest, "Nombre es requerido")
		return
	}

	var id int64
	err := h.db.QueryRowx(`INSERT INTO categorias (nombre, descripcion) VALUES ($1, $2) RETURNING id`,
		req.Nombre, nullIfEmpty(req.Descripcion)).Scan(&id)
	if isUniqueViolation(err) {
		respondError(w, http.StatusBadRequest, "La categoría ya existe")
		return
	}
	if err != nil {
		h.log.Error("create categoria", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error creando categoría")
		return
	}
	respondJSON(w, http.StatusCreated, categoriaRow{ID: id, Nombre: req.Nombre, Descripcion: nullIfEmpty(req.Descripcion)})
}
