package domain

type Compra struct {
	ID          int64   `db:"id" json:"id"`
	Fecha       string  `db:"fecha" json:"fecha"`
	IDProveedor int64   `db:"id_proveedor" json:"idProveedor"`
	IDUsuario   int64   `db:"id_usuario" json:"idUsuario"`
	Total       float64 `db:"total" json:"total"`
}

type CompraDetalle struct {
	ID             int64   `db:"id" json:"id"`
	IDCompra       int64   `db:"id_compra" json:"idCompra"`
	IDProducto     int64   `db:"id_producto" json:"idProducto"`
	Cantidad       int64   `db:"cantidad" json:"cantidad"`
	PrecioUnitario float64 `db:"precio_unitario" json:"precioUnitario"`
	Subtotal       float64 `db:"subtotal" json:"subtotal"`
}
