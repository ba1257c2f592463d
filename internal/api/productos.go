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

type productoRow struct {
	domain.Producto
	CategoriaNombre string `db:"categoria_nombre" json:"categoriaNombre"`
}

const productoColumns = `p.id, p.nombre, p.descripcion, p.id_categoria, p.precio_compra, p.precio_venta,
        p.stock_actual, p.stock_minimo, p.activo, c.nombre AS categoria_nombre`

// GET /api/productos?estado=activos|inactivos|todos&search=
func (h *Handler) listProductos(w http.ResponseWriter, r *http.Request) {
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
		clauses = append(clauses, "p.activo = 1")
	case "inactivos":
		clauses = append(clauses, "p.activo = 0")
	case "todos":
	default:
		respondError(w, http.StatusBadRequest, "estado debe ser activos, inactivos o todos")
		return
	}

	if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(p.nombre) LIKE $%d", len(args)))
	}

	query := `SELECT ` + productoColumns + ` FROM productos p JOIN categorias c ON c.id = p.id_categoria`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY p.nombre ASC"

	productos := []productoRow{}
	if err := h.db.Select(&productos, query, args...); err != nil {
		h.log.Error("list productos", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error consultando productos")
		return
	}
	respondJSON(w, http.StatusOK, productos)
}

func (h *Handler) getProducto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Id de producto inválido")
		return
	}
	producto, err := h.loadProducto(id)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "Producto no encontrado")
		return
	}
	if err != nil {
		h.log.Error("get producto", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error consultando producto")
		return
	}
	respondJSON(w, http.StatusOK, producto)
}

func (h *Handler) loadProducto(id int64) (*productoRow, error) {
	var producto productoRow
	err := h.db.Get(&producto, `SELECT `+productoColumns+` FROM productos p JOIN categorias c ON c.id = p.id_categoria WHERE p.id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &producto, nil
}

type productoCreateRequest struct {
	Nombre       string   `json:"nombre"`
	Descripcion  string   `json:"descripcion"`
	IDCategoria  int64    `json:"idCategoria"`
	PrecioCompra *float64 `json:"precioCompra"`
	PrecioVenta  *float64 `json:"precioVenta"`
	StockActual  *int64   `json:"stockActual"`
	StockMinimo  *int64   `json:"stockMinimo"`
	Activo       *bool    `json:"activo"`
}

func (h *Handler) createProducto(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	var req productoCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Nombre == "" || req.IDCategoria == 0 {
		respondError(w, http.StatusBadRequest, "Nombre y categoría son requeridos")
		return
	}

	precioCompra := 0.0
	if req.PrecioCompra != nil {
		precioCompra = *req.PrecioCompra
	}
	precioVenta := 0.0
	if req.PrecioVenta != nil {
		precioVenta = *req.PrecioVenta
	}
	var stockActual int64
	if req.StockActual != nil {
		stockActual = *req.StockActual
	}
	activo := true
	if req.Activo != nil {
		activo = *req.Activo
	}

	var id int64
	err := h.db.QueryRowx(`INSERT INTO productos (nombre, descripcion, id_categoria, precio_compra, precio_venta, stock_actual, stock_minimo, activo)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		req.Nombre, nullIfEmpty(req.Descripcion), req.IDCategoria, precioCompra, precioVenta, stockActual, req.StockMinimo, activo).Scan(&id)
	if isUniqueViolation(err) {
		respondError(w, http.StatusBadRequest, "El producto ya existe")
		return
	}
	if err != nil {
		h.log.Error("create producto", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error creando producto")
		return
	}

	producto, err := h.loadProducto(id)
	if err != nil {
		h.log.Error("load producto", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error creando producto")
		return
	}
	respondJSON(w, http.StatusCreated, producto)
}

type productoUpdateRequest struct {
	Nombre       *string  `json:"nombre"`
	Descripcion  *string  `json:"descripcion"`
	IDCategoria  *int64   `json:"idCategoria"`
	PrecioCompra *float64 `json:"precioCompra"`
	PrecioVenta  *float64 `json:"precioVenta"`
	StockMinimo  *int64   `json:"stockMinimo"`
	Activo       *bool    `json:"activo"`
}

// PUT /api/productos/{id} updates product attributes. The stock counter is
// deliberately not updatable here; only sales and purchases move it.
func (h *Handler) updateProducto(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Id de producto inválido")
		return
	}
	var req productoUpdateRequest
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
	if req.Nombre != nil {
		appendSet("nombre", *req.Nombre)
	}
	if req.Descripcion != nil {
		appendSet("descripcion", nullIfEmpty(*req.Descripcion))
	}
	if req.IDCategoria != nil {
		appendSet("id_categoria", *req.IDCategoria)
	}
	if req.PrecioCompra != nil {
		appendSet("precio_compra", *req.PrecioCompra)
	}
	if req.PrecioVenta != nil {
		appendSet("precio_venta", *req.PrecioVenta)
	}
	if req.StockMinimo != nil {
		appendSet("stock_minimo", *req.StockMinimo)
	}
	if req.Activo != nil {
		appendSet("activo", *req.Activo)
	}
	if len(sets) == 0 {
		respondError(w, http.StatusBadRequest, "Nada que actualizar")
		return
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE productos SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	res, err := h.db.Exec(query, args...)
	if isUniqueViolation(err) {
		respondError(w, http.StatusBadRequest, "El producto ya existe")
		return
	}
	if err != nil {
		h.log.Error("update producto", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error actualizando producto")
		return
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		respondError(w, http.StatusNotFound, "Producto no encontrado")
		return
	}

	producto, err := h.loadProducto(id)
	if err != nil {
		h.log.Error("load producto", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error actualizando producto")
		return
	}
	respondJSON(w, http.StatusOK, producto)
}

// PATCH /api/productos/{id} flips the active flag. Open to any authenticated
// user so cashiers can pull a product from the floor without an admin.
func (h *Handler) toggleProducto(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Id de producto inválido")
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

	res, err := h.db.Exec(`UPDATE productos SET activo = $1 WHERE id = $2`, *req.Activo, id)
	if err != nil {
		h.log.Error("toggle producto", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error actualizando producto")
		return
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		respondError(w, http.StatusNotFound, "Producto no encontrado")
		return
	}

	producto, err := h.loadProducto(id)
	if err != nil {
		h.log.Error("load producto", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error actualizando producto")
		return
	}
	respondJSON(w, http.StatusOK, producto)
}
