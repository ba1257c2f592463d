package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type usuarioRow struct {
	ID             int64  `db:"id" json:"id"`
	NombreCompleto string `db:"nombre_completo" json:"nombreCompleto"`
	Correo         string `db:"correo" json:"correo"`
	RolNombre      string `db:"rol_nombre" json:"rolNombre"`
	Activo         bool   `db:"activo" json:"activo"`
	CreatedAt      string `db:"created_at" json:"createdAt"`
}

const usuarioColumns = `u.id, u.nombre_completo, u.correo, r.nombre AS rol_nombre, u.activo, u.created_at`

func (h *Handler) listUsuarios(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	usuarios := []usuarioRow{}
	err := h.db.Select(&usuarios, `SELECT `+usuarioColumns+` FROM usuarios u JOIN roles r ON r.id = u.id_rol ORDER BY u.nombre_completo ASC`)
	if err != nil {
		h.log.Error("list usuarios", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error consultando usuarios")
		return
	}
	respondJSON(w, http.StatusOK, usuarios)
}

type usuarioCreateRequest struct {
	NombreCompleto string `json:"nombreCompleto"`
	Correo         string `json:"correo"`
	Password       string `json:"password"`
	IDRol          int64  `json:"idRol"`
}

func (h *Handler) createUsuario(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	var req usuarioCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.NombreCompleto == "" || req.Correo == "" || req.Password == "" || req.IDRol == 0 {
		respondError(w, http.StatusBadRequest, "Campos requeridos faltantes")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.log.Error("hash password", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error creando usuario")
		return
	}

	var id int64
	err = h.db.QueryRowx(`INSERT INTO usuarios (nombre_completo, correo, password_hash, id_rol, activo) VALUES ($1, $2, $3, $4, 1) RETURNING id`,
		req.NombreCompleto, req.Correo, string(hash), req.IDRol).Scan(&id)
	if isUniqueViolation(err) {
		respondError(w, http.StatusBadRequest, "El correo ya existe")
		return
	}
	if err != nil {
		h.log.Error("create usuario", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error creando usuario")
		return
	}

	h.respondUsuario(w, http.StatusCreated, id)
}

type usuarioUpdateRequest struct {
	NombreCompleto *string `json:"nombreCompleto"`
	IDRol          *int64  `json:"idRol"`
	Activo         *bool   `json:"activo"`
	Password       *string `json:"password"`
}

func (h *Handler) updateUsuario(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Id de usuario inválido")
		return
	}
	var req usuarioUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var (
		args []any
		sets []string
	)
	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if req.NombreCompleto != nil {
		appendSet("nombre_completo", *req.NombreCompleto)
	}
	if req.IDRol != nil {
		appendSet("id_rol", *req.IDRol)
	}
	if req.Activo != nil {
		appendSet("activo", *req.Activo)
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.log.Error("hash password", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Error actualizando usuario")
			return
		}
		appendSet("password_hash", string(hash))
	}
	if len(sets) == 0 {
		respondError(w, http.StatusBadRequest, "Nada que actualizar")
		return
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE usuarios SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	res, err := h.db.Exec(query, args...)
	if err != nil {
		h.log.Error("update usuario", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error actualizando usuario")
		return
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		respondError(w, http.StatusNotFound, "Usuario no encontrado")
		return
	}

	h.respondUsuario(w, http.StatusOK, id)
}

func (h *Handler) respondUsuario(w http.ResponseWriter, status int, id int64) {
	var usuario usuarioRow
	err := h.db.Get(&usuario, `SELECT `+usuarioColumns+` FROM usuarios u JOIN roles r ON r.id = u.id_rol WHERE u.id = $1`, id)
	if err != nil {
		h.log.Error("load usuario", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error consultando usuario")
		return
	}
	respondJSON(w, status, usuario)
}
