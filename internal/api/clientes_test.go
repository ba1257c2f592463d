package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podofarma/m/domain"
)

func TestCreateCliente_AnyAuthenticatedUser(t *testing.T) {
	e := newTestEnv(t)
	empleado := e.login(empleadoCorreo)

	rec := e.do(http.MethodPost, "/api/clientes", map[string]any{
		"nombreCompleto": "María González",
		"cedula":         "V-2001",
		"telefono":       "555-0101",
	}, empleado)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cliente := decodeBody[domain.Cliente](t, rec)
	assert.True(t, cliente.Activo)
	require.NotNil(t, cliente.Cedula)
	assert.Equal(t, "V-2001", *cliente.Cedula)

	rec = e.do(http.MethodPost, "/api/clientes", map[string]any{}, empleado)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCliente_DuplicateCedula(t *testing.T) {
	e := newTestEnv(t)
	empleado := e.login(empleadoCorreo)
	e.createCliente("Cliente Uno", "V-3001")

	rec := e.do(http.MethodPost, "/api/clientes", map[string]any{
		"nombreCompleto": "Cliente Dos",
		"cedula":         "V-3001",
	}, empleado)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody[map[string]string](t, rec)["error"], "Cédula")
}

func TestListClientes_SearchAndEstado(t *testing.T) {
	e := newTestEnv(t)
	empleado := e.login(empleadoCorreo)
	activo := e.createCliente("Pedro Pascal", "V-4001")
	inactivo := e.createCliente("Pedro Retirado", "V-4002")
	e.db.MustExec(`UPDATE clientes SET activo = 0 WHERE id = $1`, inactivo)

	rec := e.do(http.MethodGet, "/api/clientes?search=pedro", nil, empleado)
	require.Equal(t, http.StatusOK, rec.Code)
	clientes := decodeBody[[]domain.Cliente](t, rec)
	require.Len(t, clientes, 1)
	assert.Equal(t, activo, clientes[0].ID)

	rec = e.do(http.MethodGet, "/api/clientes?search=pedro&estado=todos", nil, empleado)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]domain.Cliente](t, rec), 2)

	// Identifier search matches too.
	rec = e.do(http.MethodGet, "/api/clientes?search=v-4002&estado=inactivos", nil, empleado)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]domain.Cliente](t, rec), 1)
}

func TestUpdateAndToggleCliente(t *testing.T) {
	e := newTestEnv(t)
	empleado := e.login(empleadoCorreo)
	id := e.createCliente("Nombre Viejo", "V-5001")

	rec := e.do(http.MethodPut, fmt.Sprintf("/api/clientes/%d", id), map[string]any{
		"nombreCompleto": "Nombre Nuevo",
		"cedula":         "V-5001",
		"direccion":      "Av. Central 45",
	}, empleado)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cliente := decodeBody[domain.Cliente](t, rec)
	assert.Equal(t, "Nombre Nuevo", cliente.NombreCompleto)

	// Toggling twice returns the original state.
	rec = e.do(http.MethodPatch, fmt.Sprintf("/api/clientes/%d", id), map[string]any{"activo": false}, empleado)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeBody[domain.Cliente](t, rec).Activo)

	rec = e.do(http.MethodPatch, fmt.Sprintf("/api/clientes/%d", id), map[string]any{"activo": true}, empleado)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[domain.Cliente](t, rec).Activo)

	rec = e.do(http.MethodPatch, "/api/clientes/99999", map[string]any{"activo": true}, empleado)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProveedores_CRUD(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login(adminCorreo)
	empleado := e.login(empleadoCorreo)

	rec := e.do(http.MethodPost, "/api/proveedores", map[string]any{"nombre": "Insumos Médicos CA"}, empleado)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(http.MethodPost, "/api/proveedores", map[string]any{"nombre": "Insumos Médicos CA", "correo": "ventas@insumos.test"}, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	proveedor := decodeBody[domain.Proveedor](t, rec)

	rec = e.do(http.MethodPost, "/api/proveedores", map[string]any{"nombre": "Insumos Médicos CA"}, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(http.MethodGet, "/api/proveedores?search=insumos", nil, empleado)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]domain.Proveedor](t, rec), 1)

	rec = e.do(http.MethodPut, fmt.Sprintf("/api/proveedores/%d", proveedor.ID), map[string]any{"nombre": "Insumos Médicos SA"}, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Insumos Médicos SA", decodeBody[domain.Proveedor](t, rec).Nombre)

	// Suppliers are hard-deleted, not toggled.
	rec = e.do(http.MethodDelete, fmt.Sprintf("/api/proveedores/%d", proveedor.ID), nil, empleado)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(http.MethodDelete, fmt.Sprintf("/api/proveedores/%d", proveedor.ID), nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(http.MethodDelete, fmt.Sprintf("/api/proveedores/%d", proveedor.ID), nil, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProveedor_WithComprasRejected(t *testing.T) {
	e := newTestEnv(t)
	admin := e.login(adminCorreo)
	proveedor := e.createProveedor("Proveedor Con Historia")
	producto := e.createProducto("Caja de guantes", 0, 6)

	rec := e.do(http.MethodPost, "/api/compras", map[string]any{
		"idProveedor": proveedor,
		"detalles": []map[string]any{
			{"idProducto": producto, "cantidad": 10, "precioUnitario": 4},
		},
	}, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.do(http.MethodDelete, fmt.Sprintf("/api/proveedores/%d", proveedor), nil, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, e.countRows("proveedores"))
}
