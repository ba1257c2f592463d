package domain

type Categoria struct {
	ID          int64   `db:"id" json:"id"`
	Nombre      string  `db:"nombre" json:"nombre"`
	Descripcion *string `db:"descripcion" json:"descripcion"`
}

type Producto struct {
	ID           int64   `db:"id" json:"id"`
	Nombre       string  `db:"nombre" json:"nombre"`
	Descripcion  *string `db:"descripcion" json:"descripcion"`
	IDCategoria  int64   `db:"id_categoria" json:"idCategoria"`
	PrecioCompra float64 `db:"precio_compra" json:"precioCompra"`
	PrecioVenta  float64 `db:"precio_venta" json:"precioVenta"`
	StockActual  int64   `db:"stock_actual" json:"stockActual"`
	StockMinimo  *int64  `db:"stock_minimo" json:"stockMinimo"`
	Activo       bool    `db:"activo" json:"activo"`
}
