package api

import (
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"podofarma/m/internal/auth"
)

type loginRequest struct {
	Correo   string `json:"correo"`
	Password string `json:"password"`
}

type sessionUser struct {
	ID             int64  `json:"id"`
	NombreCompleto string `json:"nombreCompleto"`
	Correo         string `json:"correo"`
	RolNombre      string `json:"rolNombre"`
}

type credentialRow struct {
	ID             int64  `db:"id"`
	NombreCompleto string `db:"nombre_completo"`
	Correo         string `db:"correo"`
	PasswordHash   string `db:"password_hash"`
	IDRol          int64  `db:"id_rol"`
	RolNombre      string `db:"rol_nombre"`
	Activo         bool   `db:"activo"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Correo == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Correo y contraseña requeridos")
		return
	}

	// Unknown email, deactivated account and wrong password all produce the
	// same response so callers cannot probe which emails are registered.
	var row credentialRow
	err := h.db.Get(&row, `SELECT u.id, u.nombre_completo, u.correo, u.password_hash, u.id_rol, u.activo, r.nombre AS rol_nombre
        FROM usuarios u JOIN roles r ON r.id = u.id_rol WHERE u.correo = $1`, req.Correo)
	if err != nil || !row.Activo {
		respondError(w, http.StatusUnauthorized, "Credenciales inválidas")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(req.Password)) != nil {
		respondError(w, http.StatusUnauthorized, "Credenciales inválidas")
		return
	}

	token, err := h.auth.IssueToken(auth.Identity{
		ID:             row.ID,
		Correo:         row.Correo,
		IDRol:          row.IDRol,
		NombreCompleto: row.NombreCompleto,
	})
	if err != nil {
		h.log.Error("issue token", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error en el servidor")
		return
	}

	h.auth.SetCookie(w, token)
	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user": sessionUser{
			ID:             row.ID,
			NombreCompleto: row.NombreCompleto,
			Correo:         row.Correo,
			RolNombre:      row.RolNombre,
		},
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.auth.ClearCookie(w)
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// me degrades to {"user": null} on any failure so UI shells can always render.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	id := h.auth.FromRequest(r)
	if id == nil {
		respondJSON(w, http.StatusOK, map[string]any{"user": nil})
		return
	}

	var row credentialRow
	err := h.db.Get(&row, `SELECT u.id, u.nombre_completo, u.correo, u.password_hash, u.id_rol, u.activo, r.nombre AS rol_nombre
        FROM usuarios u JOIN roles r ON r.id = u.id_rol WHERE u.id = $1`, id.ID)
	if err != nil {
		respondJSON(w, http.StatusOK, map[string]any{"user": nil})
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user": sessionUser{
			ID:             row.ID,
			NombreCompleto: row.NombreCompleto,
			Correo:         row.Correo,
			RolNombre:      row.RolNombre,
		},
	})
}
