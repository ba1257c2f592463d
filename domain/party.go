package domain

type Cliente struct {
	ID             int64   `db:"id" json:"id"`
	NombreCompleto string  `db:"nombre_completo" json:"nombreCompleto"`
	Telefono       *string `db:"telefono" json:"telefono"`
	Correo         *string `db:"correo" json:"correo"`
	Cedula         *string `db:"cedula" json:"cedula"`
	Direccion      *string `db:"direccion" json:"direccion"`
	Activo         bool    `db:"activo" json:"activo"`
}

type Proveedor struct {
	ID        int64   `db:"id" json:"id"`
	Nombre    string  `db:"nombre" json:"nombre"`
	Telefono  *string `db:"telefono" json:"telefono"`
	Correo    *string `db:"correo" json:"correo"`
	Direccion *string `db:"direccion" json:"direccion"`
}
