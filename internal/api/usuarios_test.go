package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsuarios_AdminOnly(t *testing.T) {
	e := newTestEnv(t)

	empleado := e.login(empleadoCorreo)
	rec := e.do(http.MethodGet, "/api/usuarios", nil, empleado)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin := e.login(adminCorreo)
	rec = e.do(http.MethodGet, "/api/usuarios", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	usuarios := decodeBody[[]usuarioRow](t, rec)
	require.Len(t, usuarios, 2)
	for _, u := range usuarios {
		assert.NotEmpty(t, u.RolNombre)
	}
	// Password hashes never leak into the listing.
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestCreateUsuario_AndLogin(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login(adminCorreo)

	rec := e.do(http.MethodPost, "/api/usuarios", map[string]any{
		"nombreCompleto": "Cajera Nueva",
		"correo":         "cajera@farmacia.test",
		"password":       "otraClave123",
		"idRol":          2,
	}, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	usuario := decodeBody[usuarioRow](t, rec)
	assert.Equal(t, "EMPLEADO", usuario.RolNombre)
	assert.True(t, usuario.Activo)

	// The stored credential is a hash the new user can log in with.
	rec = e.do(http.MethodPost, "/api/auth/login", map[string]string{"correo": "cajera@farmacia.test", "password": "otraClave123"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(http.MethodPost, "/api/usuarios", map[string]any{
		"nombreCompleto": "Duplicada",
		"correo":         "cajera@farmacia.test",
		"password":       "x12345678",
		"idRol":          2,
	}, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[map[string]string](t, rec)["error"], "correo ya existe")

	rec = e.do(http.MethodPost, "/api/usuarios", map[string]any{"correo": "incompleto@farmacia.test"}, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateUsuario_DeactivationBlocksLogin(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login(adminCorreo)

	var empleadoID int64
	require.NoError(t, e.db.Get(&empleadoID, `SELECT id FROM usuarios WHERE correo = $1`, empleadoCorreo))

	rec := e.do(http.MethodPut, fmt.Sprintf("/api/usuarios/%d", empleadoID), map[string]any{"activo": false}, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.False(t, decodeBody[usuarioRow](t, rec).Activo)

	rec = e.do(http.MethodPost, "/api/auth/login", map[string]string{"correo": empleadoCorreo, "password": testPassword})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateUsuario_PasswordChange(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login(adminCorreo)

	var empleadoID int64
	require.NoError(t, e.db.Get(&empleadoID, `SELECT id FROM usuarios WHERE correo = $1`, empleadoCorreo))

	rec := e.do(http.MethodPut, fmt.Sprintf("/api/usuarios/%d", empleadoID), map[string]any{"password": "claveRotada99"}, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(http.MethodPost, "/api/auth/login", map[string]string{"correo": empleadoCorreo, "password": testPassword})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = e.do(http.MethodPost, "/api/auth/login", map[string]string{"correo": empleadoCorreo, "password": "claveRotada99"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

// Role checks re-read the database, so a promotion takes effect while the old
// token is still in use.
func TestAdminCheckUsesCurrentRole(t *testing.T) {
	e := newTestEnv(t)
	empleado := e.login(empleadoCorreo)

	rec := e.do(http.MethodPost, "/api/categorias", map[string]any{"nombre": "Ortopedia"}, empleado)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	e.db.MustExec(`UPDATE usuarios SET id_rol = 1 WHERE correo = $1`, empleadoCorreo)

	rec = e.do(http.MethodPost, "/api/categorias", map[string]any{"nombre": "Ortopedia"}, empleado)
	assert.Equal(t, http.StatusCreated, rec.Code)
}
