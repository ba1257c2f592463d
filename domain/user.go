package domain

// Role names as seeded in the roles table.
const (
	RolAdmin    = "ADMIN"
	RolEmpleado = "EMPLEADO"
)

type Rol struct {
	ID     int64  `db:"id" json:"id"`
	Nombre string `db:"nombre" json:"nombre"`
}

type Usuario struct {
	ID             int64  `db:"id" json:"id"`
	NombreCompleto string `db:"nombre_completo" json:"nombreCompleto"`
	Correo         string `db:"correo" json:"correo"`
	PasswordHash   string `db:"password_hash" json:"-"`
	IDRol          int64  `db:"id_rol" json:"idRol"`
	Activo         bool   `db:"activo" json:"activo"`
	CreatedAt      string `db:"created_at" json:"createdAt,omitempty"`
}
