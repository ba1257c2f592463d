package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"podofarma/m/internal/auth"
	"podofarma/m/internal/database"
	"podofarma/m/internal/migrations"
)

const (
	adminCorreo    = "admin@farmacia.test"
	empleadoCorreo = "empleado@farmacia.test"
	testPassword   = "password123"
	testSecret     = "integration-test-secret-0123456789ab"
)

type testEnv struct {
	t      *testing.T
	db     *sqlx.DB
	router http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db))

	db.MustExec(`INSERT INTO roles (nombre) VALUES ('ADMIN'), ('EMPLEADO')`)
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	db.MustExec(`INSERT INTO usuarios (nombre_completo, correo, password_hash, id_rol, activo) VALUES
        ('Admin de Prueba', $1, $2, 1, 1),
        ('Empleado de Prueba', $3, $2, 2, 1)`, adminCorreo, string(hash), empleadoCorreo)
	db.MustExec(`INSERT INTO categorias (nombre, descripcion) VALUES ('Medicamentos', 'Medicamentos recetados')`)

	authSvc, err := auth.NewService(testSecret, false)
	require.NoError(t, err)

	h := New(db, authSvc, zap.NewNop())
	return &testEnv{t: t, db: db, router: h.Router()}
}

func (e *testEnv) do(method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	e.t.Helper()
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(e.t, err)
		rd = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login(correo string) *http.Cookie {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/api/auth/login", map[string]string{"correo": correo, "password": testPassword})
	require.Equal(e.t, http.StatusOK, rec.Code, rec.Body.String())
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	e.t.Fatal("login did not set session cookie")
	return nil
}

func (e *testEnv) createProducto(nombre string, stock int64, precioVenta float64) int64 {
	e.t.Helper()
	var id int64
	err := e.db.QueryRowx(`INSERT INTO productos (nombre, id_categoria, precio_compra, precio_venta, stock_actual, activo)
        VALUES ($1, 1, 0, $2, $3, 1) RETURNING id`, nombre, precioVenta, stock).Scan(&id)
	require.NoError(e.t, err)
	return id
}

func (e *testEnv) createProveedor(nombre string) int64 {
	e.t.Helper()
	var id int64
	err := e.db.QueryRowx(`INSERT INTO proveedores (nombre) VALUES ($1) RETURNING id`, nombre).Scan(&id)
	require.NoError(e.t, err)
	return id
}

func (e *testEnv) createCliente(nombre, cedula string) int64 {
	e.t.Helper()
	var id int64
	err := e.db.QueryRowx(`INSERT INTO clientes (nombre_completo, cedula, activo) VALUES ($1, $2, 1) RETURNING id`, nombre, cedula).Scan(&id)
	require.NoError(e.t, err)
	return id
}

func (e *testEnv) stockOf(productoID int64) int64 {
	e.t.Helper()
	var stock int64
	require.NoError(e.t, e.db.Get(&stock, `SELECT stock_actual FROM productos WHERE id = $1`, productoID))
	return stock
}

func (e *testEnv) countRows(table string) int {
	e.t.Helper()
	var n int
	require.NoError(e.t, e.db.Get(&n, `SELECT COUNT(*) FROM `+table))
	return n
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
