package seed

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Run inserts the reference data the application expects: the two roles, an
// initial administrator account, the product categories and a sample supplier
// and product. Every insert is idempotent, so Run is safe on every startup.
func Run(db *sqlx.DB, logger *zap.Logger) error {
	for _, rol := range []string{"ADMIN", "EMPLEADO"} {
		if _, err := db.Exec(`INSERT OR IGNORE INTO roles (nombre) VALUES ($1)`, rol); err != nil {
			return err
		}
	}

	var admins int
	if err := db.Get(&admins, `SELECT COUNT(*) FROM usuarios WHERE correo = $1`, "admin@farmacia.com"); err != nil {
		return err
	}
	if admins == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		_, err = db.Exec(`INSERT INTO usuarios (nombre_completo, correo, password_hash, id_rol, activo)
            SELECT $1, $2, $3, id, 1 FROM roles WHERE nombre = 'ADMIN'`,
			"Administrador Sistema", "admin@farmacia.com", string(hash))
		if err != nil {
			return err
		}
		logger.Info("seeded initial admin user", zap.String("correo", "admin@farmacia.com"))
	}

	categorias := []struct {
		nombre, descripcion string
	}{
		{"Medicamentos", "Medicamentos recetados"},
		{"Plantillas Ortopédicas", "Plantillas personalizadas"},
		{"Cremas y Ungüentos", "Cremas tópicas"},
		{"Vendajes", "Vendajes y apósitos"},
		{"Otros", "Otros productos"},
	}
	for _, cat := range categorias {
		if _, err := db.Exec(`INSERT OR IGNORE INTO categorias (nombre, descripcion) VALUES ($1, $2)`, cat.nombre, cat.descripcion); err != nil {
			return err
		}
	}

	_, err := db.Exec(`INSERT OR IGNORE INTO proveedores (nombre, telefono, correo, direccion) VALUES ($1, $2, $3, $4)`,
		"Proveedor General", "+34-900-000-000", "contacto@proveedor.com", "Calle Principal 123")
	if err != nil {
		return err
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO productos (nombre, descripcion, id_categoria, precio_compra, precio_venta, stock_actual, stock_minimo, activo)
        SELECT $1, $2, id, $3, $4, $5, $6, 1 FROM categorias WHERE nombre = 'Medicamentos'`,
		"Ibuprofeno 400mg", "Caja de 20 tabletas", 2.5, 5.99, 100, 10)
	return err
}
