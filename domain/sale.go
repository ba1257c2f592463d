package domain

type Venta struct {
	ID             int64   `db:"id" json:"id"`
	Fecha          string  `db:"fecha" json:"fecha"`
	IDCliente      *int64  `db:"id_cliente" json:"idCliente"`
	IDUsuario      int64   `db:"id_usuario" json:"idUsuario"`
	Total          float64 `db:"total" json:"total"`
	MetodoPago     string  `db:"metodo_pago" json:"metodoPago"`
	NombrePodologo *string `db:"nombre_podologo" json:"nombrePodologo"`
	NumeroReceta   *string `db:"numero_receta" json:"numeroReceta"`
}

type VentaDetalle struct {
	ID             int64   `db:"id" json:"id"`
	IDVenta        int64   `db:"id_venta" json:"idVenta"`
	IDProducto     int64   `db:"id_producto" json:"idProducto"`
	Cantidad       int64   `db:"cantidad" json:"cantidad"`
	PrecioUnitario float64 `db:"precio_unitario" json:"precioUnitario"`
	Subtotal       float64 `db:"subtotal" json:"subtotal"`
}
