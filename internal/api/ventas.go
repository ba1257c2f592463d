package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"podofarma/m/domain"
)

type ventaDetalleRow struct {
	domain.VentaDetalle
	ProductoNombre string `db:"producto_nombre" json:"productoNombre"`
}

type ventaResponse struct {
	domain.Venta
	ClienteNombre *string           `db:"cliente_nombre" json:"clienteNombre"`
	UsuarioNombre string            `db:"usuario_nombre" json:"usuarioNombre"`
	Detalles      []ventaDetalleRow `json:"detalles"`
}

const ventaColumns = `v.id, v.fecha, v.id_cliente, v.id_usuario, v.total, v.metodo_pago, v.nombre_podologo, v.numero_receta,
        c.nombre_completo AS cliente_nombre, u.nombre_completo AS usuario_nombre`

const ventaJoins = ` FROM ventas v
        LEFT JOIN clientes c ON c.id = v.id_cliente
        JOIN usuarios u ON u.id = v.id_usuario`

type ventaDetalleRequest struct {
	IDProducto     int64   `json:"idProducto"`
	Cantidad       int64   `json:"cantidad"`
	PrecioUnitario float64 `json:"precioUnitario"`
}

type ventaRequest struct {
	IDCliente      *int64                `json:"idCliente"`
	Detalles       []ventaDetalleRequest `json:"detalles"`
	MetodoPago     string                `json:"metodoPago"`
	NombrePodologo string                `json:"nombrePodologo"`
	NumeroReceta   string                `json:"numeroReceta"`
}

// createVenta records a sale: every line is validated against current stock
// before anything is written, then the header, its lines and the conditional
// stock decrements are applied inside a single transaction. A concurrent sale
// draining the stock between validation and commit fails the conditional
// update and rolls the whole sale back.
func (h *Handler) createVenta(w http.ResponseWriter, r *http.Request) {
	user := identityFrom(r)

	var req ventaRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Detalles) == 0 {
		respondError(w, http.StatusBadRequest, "Venta debe tener al menos un producto")
		return
	}
	if req.MetodoPago == "" {
		respondError(w, http.StatusBadRequest, "Método de pago es requerido")
		return
	}

	type productoSnapshot struct {
		Nombre      string `db:"nombre"`
		StockActual int64  `db:"stock_actual"`
	}

	nombres := make(map[int64]string)
	var total float64
	for _, detalle := range req.Detalles {
		if detalle.IDProducto == 0 || detalle.Cantidad <= 0 {
			respondError(w, http.StatusBadRequest, "Cada detalle requiere producto y cantidad")
			return
		}
		var snap productoSnapshot
		err := h.db.Get(&snap, `SELECT nombre, stock_actual FROM productos WHERE id = $1`, detalle.IDProducto)
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, fmt.Sprintf("Producto %d no encontrado", detalle.IDProducto))
			return
		}
		if err != nil {
			h.log.Error("fetch producto", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Error consultando productos")
			return
		}
		if snap.StockActual < detalle.Cantidad {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("Stock insuficiente para %s", snap.Nombre))
			return
		}
		nombres[detalle.IDProducto] = snap.Nombre
		total += float64(detalle.Cantidad) * detalle.PrecioUnitario
	}

	tx, err := h.db.Beginx()
	if err != nil {
		h.log.Error("begin venta", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error registrando venta")
		return
	}
	defer tx.Rollback()

	fecha := time.Now().UTC().Format("2006-01-02 15:04:05")
	var ventaID int64
	err = tx.QueryRowx(`INSERT INTO ventas (fecha, id_cliente, id_usuario, total, metodo_pago, nombre_podologo, numero_receta)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		fecha, req.IDCliente, user.ID, total, req.MetodoPago, nullIfEmpty(req.NombrePodologo), nullIfEmpty(req.NumeroReceta)).Scan(&ventaID)
	if err != nil {
		h.log.Error("insert venta", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error registrando venta")
		return
	}

	for _, detalle := range req.Detalles {
		subtotal := float64(detalle.Cantidad) * detalle.PrecioUnitario
		if _, err := tx.Exec(`INSERT INTO venta_detalles (id_venta, id_producto, cantidad, precio_unitario, subtotal) VALUES ($1, $2, $3, $4, $5)`,
			ventaID, detalle.IDProducto, detalle.Cantidad, detalle.PrecioUnitario, subtotal); err != nil {
			h.log.Error("insert venta detalle", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Error registrando venta")
			return
		}

		res, err := tx.Exec(`UPDATE productos SET stock_actual = stock_actual - $1 WHERE id = $2 AND stock_actual >= $1`,
			detalle.Cantidad, detalle.IDProducto)
		if err != nil {
			h.log.Error("decrement stock", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Error registrando venta")
			return
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("Stock insuficiente para %s", nombres[detalle.IDProducto]))
			return
		}
	}

	if err := tx.Commit(); err != nil {
		h.log.Error("commit venta", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error registrando venta")
		return
	}

	venta, err := h.loadVenta(ventaID)
	if err != nil {
		h.log.Error("load venta", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error consultando venta")
		return
	}
	respondJSON(w, http.StatusCreated, venta)
}

// GET /api/ventas?startDate=&endDate=&idCliente=
func (h *Handler) listVentas(w http.ResponseWriter, r *http.Request) {
	var (
		args    []any
		clauses []string
	)

	startDate := strings.TrimSpace(r.URL.Query().Get("startDate"))
	if startDate != "" {
		if _, err := time.Parse("2006-01-02", startDate); err != nil {
			respondError(w, http.StatusBadRequest, "startDate debe tener formato YYYY-MM-DD")
			return
		}
		args = append(args, startDate)
		clauses = append(clauses, fmt.Sprintf("DATE(v.fecha) >= $%d", len(args)))
	}

	endDate := strings.TrimSpace(r.URL.Query().Get("endDate"))
	if endDate != "" {
		if _, err := time.Parse("2006-01-02", endDate); err != nil {
			respondError(w, http.StatusBadRequest, "endDate debe tener formato YYYY-MM-DD")
			return
		}
		args = append(args, endDate)
		clauses = append(clauses, fmt.Sprintf("DATE(v.fecha) <= $%d", len(args)))
	}

	if idCliente := strings.TrimSpace(r.URL.Query().Get("idCliente")); idCliente != "" {
		id, err := strconv.ParseInt(idCliente, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "idCliente inválido")
			return
		}
		args = append(args, id)
		clauses = append(clauses, fmt.Sprintf("v.id_cliente = $%d", len(args)))
	}

	query := `SELECT ` + ventaColumns + ventaJoins
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY v.fecha DESC, v.id DESC"

	ventas := []ventaResponse{}
	if err := h.db.Select(&ventas, query, args...); err != nil {
		h.log.Error("list ventas", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error consultando ventas")
		return
	}
	if len(ventas) == 0 {
		respondJSON(w, http.StatusOK, ventas)
		return
	}

	ids := make([]int64, len(ventas))
	for i, venta := range ventas {
		ids[i] = venta.ID
	}
	detalles, err := h.loadVentaDetalles(ids)
	if err != nil {
		h.log.Error("load venta detalles", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error consultando ventas")
		return
	}
	for i := range ventas {
		ventas[i].Detalles = detalles[ventas[i].ID]
		if ventas[i].Detalles == nil {
			ventas[i].Detalles = []ventaDetalleRow{}
		}
	}

	respondJSON(w, http.StatusOK, ventas)
}

func (h *Handler) getVenta(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Id de venta inválido")
		return
	}
	venta, err := h.loadVenta(id)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "Venta no encontrada")
		return
	}
	if err != nil {
		h.log.Error("get venta", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error consultando venta")
		return
	}
	respondJSON(w, http.StatusOK, venta)
}

func (h *Handler) loadVenta(id int64) (*ventaResponse, error) {
	var venta ventaResponse
	if err := h.db.Get(&venta, `SELECT `+ventaColumns+ventaJoins+` WHERE v.id = $1`, id); err != nil {
		return nil, err
	}
	detalles, err := h.loadVentaDetalles([]int64{id})
	if err != nil {
		return nil, err
	}
	venta.Detalles = detalles[id]
	if venta.Detalles == nil {
		venta.Detalles = []ventaDetalleRow{}
	}
	return &venta, nil
}

func (h *Handler) loadVentaDetalles(ids []int64) (map[int64][]ventaDetalleRow, error) {
	query, args, err := sqlx.In(`SELECT d.id, d.id_venta, d.id_producto, d.cantidad, d.precio_unitario, d.subtotal, p.nombre AS producto_nombre
        FROM venta_detalles d JOIN productos p ON p.id = d.id_producto
        WHERE d.id_venta IN (?) ORDER BY d.id ASC`, ids)
	if err != nil {
		return nil, err
	}
	query = h.db.Rebind(query)

	var rows []ventaDetalleRow
	if err := h.db.Select(&rows, query, args...); err != nil {
		return nil, err
	}

	byVenta := make(map[int64][]ventaDetalleRow)
	for _, row := range rows {
		byVenta[row.IDVenta] = append(byVenta[row.IDVenta], row)
	}
	return byVenta, nil
}
