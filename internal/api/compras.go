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

type compraDetalleRow struct {
	domain.CompraDetalle
	ProductoNombre string `db:"producto_nombre" json:"productoNombre"`
}

type compraResponse struct {
	domain.Compra
	ProveedorNombre string             `db:"proveedor_nombre" json:"proveedorNombre"`
	UsuarioNombre   string             `db:"usuario_nombre" json:"usuarioNombre"`
	Detalles        []compraDetalleRow `json:"detalles"`
}

const compraColumns = `co.id, co.fecha, co.id_proveedor, co.id_usuario, co.total,
        pr.nombre AS proveedor_nombre, u.nombre_completo AS usuario_nombre`

const compraJoins = ` FROM compras co
        JOIN proveedores pr ON pr.id = co.id_proveedor
        JOIN usuarios u ON u.id = co.id_usuario`

type compraDetalleRequest struct {
	IDProducto     int64   `json:"idProducto"`
	Cantidad       int64   `json:"cantidad"`
	PrecioUnitario float64 `json:"precioUnitario"`
}

type compraRequest struct {
	IDProveedor int64                  `json:"idProveedor"`
	Detalles    []compraDetalleRequest `json:"detalles"`
}

// createCompra mirrors createVenta without a stock-sufficiency check:
// purchases only add stock. Header, lines and increments share a transaction.
func (h *Handler) createCompra(w http.ResponseWriter, r *http.Request) {
	user := identityFrom(r)

	var req compraRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.IDProveedor == 0 || len(req.Detalles) == 0 {
		respondError(w, http.StatusBadRequest, "Datos de compra incompletos")
		return
	}

	var proveedor int
	if err := h.db.Get(&proveedor, `SELECT COUNT(*) FROM proveedores WHERE id = $1`, req.IDProveedor); err != nil {
		h.log.Error("fetch proveedor", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error consultando proveedor")
		return
	}
	if proveedor == 0 {
		respondError(w, http.StatusNotFound, "Proveedor no encontrado")
		return
	}

	var total float64
	for _, detalle := range req.Detalles {
		if detalle.IDProducto == 0 || detalle.Cantidad <= 0 {
			respondError(w, http.StatusBadRequest, "Cada detalle requiere producto y cantidad")
			return
		}
		var existe int
		if err := h.db.Get(&existe, `SELECT COUNT(*) FROM productos WHERE id = $1`, detalle.IDProducto); err != nil {
			h.log.Error("fetch producto", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Error consultando productos")
			return
		}
		if existe == 0 {
			respondError(w, http.StatusNotFound, fmt.Sprintf("Producto %d no encontrado", detalle.IDProducto))
			return
		}
		total += float64(detalle.Cantidad) * detalle.PrecioUnitario
	}

	tx, err := h.db.Beginx()
	if err != nil {
		h.log.Error("begin compra", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error registrando compra")
		return
	}
	defer tx.Rollback()

	fecha := time.Now().UTC().Format("2006-01-02 15:04:05")
	var compraID int64
	err = tx.QueryRowx(`INSERT INTO compras (fecha, id_proveedor, id_usuario, total) VALUES ($1, $2, $3, $4) RETURNING id`,
		fecha, req.IDProveedor, user.ID, total).Scan(&compraID)
	if err != nil {
		h.log.Error("insert compra", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error registrando compra")
		return
	}

	for _, detalle := range req.Detalles {
		subtotal := float64(detalle.Cantidad) * detalle.PrecioUnitario
		if _, err := tx.Exec(`INSERT INTO compra_detalles (id_compra, id_producto, cantidad, precio_unitario, subtotal) VALUES ($1, $2, $3, $4, $5)`,
			compraID, detalle.IDProducto, detalle.Cantidad, detalle.PrecioUnitario, subtotal); err != nil {
			h.log.Error("insert compra detalle", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Error registrando compra")
			return
		}
		if _, err := tx.Exec(`UPDATE productos SET stock_actual = stock_actual + $1 WHERE id = $2`,
			detalle.Cantidad, detalle.IDProducto); err != nil {
			h.log.Error("increment stock", zap.Error(err))
			respondError(w, http.StatusInternalServerError, "Error registrando compra")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		h.log.Error("commit compra", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error registrando compra")
		return
	}

	compra, err := h.loadCompra(compraID)
	if err != nil {
		h.log.Error("load compra", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error consultando compra")
		return
	}
	respondJSON(w, http.StatusCreated, compra)
}

// GET /api/compras?startDate=&endDate=
func (h *Handler) listCompras(w http.ResponseWriter, r *http.Request) {
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
		clauses = append(clauses, fmt.Sprintf("DATE(co.fecha) >= $%d", len(args)))
	}

	endDate := strings.TrimSpace(r.URL.Query().Get("endDate"))
	if endDate != "" {
		if _, err := time.Parse("2006-01-02", endDate); err != nil {
			respondError(w, http.StatusBadRequest, "endDate debe tener formato YYYY-MM-DD")
			return
		}
		args = append(args, endDate)
		clauses = append(clauses, fmt.Sprintf("DATE(co.fecha) <= $%d", len(args)))
	}

	query := `SELECT ` + compraColumns + compraJoins
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY co.fecha DESC, co.id DESC"

	compras := []compraResponse{}
	if err := h.db.Select(&compras, query, args...); err != nil {
		h.log.Error("list compras", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error consultando compras")
		return
	}
	if len(compras) == 0 {
		respondJSON(w, http.StatusOK, compras)
		return
	}

	ids := make([]int64, len(compras))
	for i, compra := range compras {
		ids[i] = compra.ID
	}
	detalles, err := h.loadCompraDetalles(ids)
	if err != nil {
		h.log.Error("load compra detalles", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error consultando compras")
		return
	}
	for i := range compras {
		compras[i].Detalles = detalles[compras[i].ID]
		if compras[i].Detalles == nil {
			compras[i].Detalles = []compraDetalleRow{}
		}
	}

	respondJSON(w, http.StatusOK, compras)
}

func (h *Handler) getCompra(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Id de compra inválido")
		return
	}
	compra, err := h.loadCompra(id)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "Compra no encontrada")
		return
	}
	if err != nil {
		h.log.Error("get compra", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error consultando compra")
		return
	}
	respondJSON(w, http.StatusOK, compra)
}

func (h *Handler) loadCompra(id int64) (*compraResponse, error) {
	var compra compraResponse
	if err := h.db.Get(&compra, `SELECT `+compraColumns+compraJoins+` WHERE co.id = $1`, id); err != nil {
		return nil, err
	}
	detalles, err := h.loadCompraDetalles([]int64{id})
	if err != nil {
		return nil, err
	}
	compra.Detalles = detalles[id]
	if compra.Detalles == nil {
		compra.Detalles = []compraDetalleRow{}
	}
	return &compra, nil
}

func (h *Handler) loadCompraDetalles(ids []int64) (map[int64][]compraDetalleRow, error) {
	query, args, err := sqlx.In(`SELECT d.id, d.id_compra, d.id_producto, d.cantidad, d.precio_unitario, d.subtotal, p.nombre AS producto_nombre
        FROM compra_detalles d JOIN productos p ON p.id = d.id_producto
        WHERE d.id_compra IN (?) ORDER BY d.id ASC`, ids)
	if err != nil {
		return nil, err
	}
	query = h.db.Rebind(query)

	var rows []compraDetalleRow
	if err := h.db.Select(&rows, query, args...); err != nil {
		return nil, err
	}

	byCompra := make(map[int64][]compraDetalleRow)
	for _, row := range rows {
		byCompra[row.IDCompra] = append(byCompra[row.IDCompra], row)
	}
	return byCompra, nil
}
