package migrations

import (
	"github.com/jmoiron/sqlx"
)

// Run creates the database schema for the pharmacy POS backend.
func Run(db *sqlx.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS roles (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            nombre TEXT NOT NULL UNIQUE
        );`,
		`CREATE TABLE IF NOT EXISTS usuarios (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            nombre_completo TEXT NOT NULL,
            correo TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            id_rol INTEGER NOT NULL,
            activo INTEGER NOT NULL DEFAULT 1,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            FOREIGN KEY(id_rol) REFERENCES roles(id)
        );`,
		`CREATE TABLE IF NOT EXISTS categorias (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            nombre TEXT NOT NULL UNIQUE,
            descripcion TEXT
        );`,
		`CREATE TABLE IF NOT EXISTS productos (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            nombre TEXT NOT NULL UNIQUE,
            descripcion TEXT,
            id_categoria INTEGER NOT NULL,
            precio_compra REAL NOT NULL DEFAULT 0,
            precio_venta REAL NOT NULL DEFAULT 0,
            stock_actual INTEGER NOT NULL DEFAULT 0,
            stock_minimo INTEGER,
            activo INTEGER NOT NULL DEFAULT 1,
            FOREIGN KEY(id_categoria) REFERENCES categorias(id)
        );`,
		`CREATE TABLE IF NOT EXISTS clientes (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            nombre_completo TEXT NOT NULL,
            telefono TEXT,
            correo TEXT,
            cedula TEXT UNIQUE,
            direccion TEXT,
            activo INTEGER NOT NULL DEFAULT 1
        );`,
		`CREATE TABLE IF NOT EXISTS proveedores (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            nombre TEXT NOT NULL UNIQUE,
            telefono TEXT,
            correo TEXT,
            direccion TEXT
        );`,
		`CREATE TABLE IF NOT EXISTS ventas (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            fecha DATETIME NOT NULL,
            id_cliente INTEGER,
            id_usuario INTEGER NOT NULL,
            total REAL NOT NULL,
            metodo_pago TEXT NOT NULL,
            nombre_podologo TEXT,
            numero_receta TEXT,
            FOREIGN KEY(id_cliente) REFERENCES clientes(id),
            FOREIGN KEY(id_usuario) REFERENCES usuarios(id)
        );`,
		`CREATE TABLE IF NOT EXISTS venta_detalles (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            id_venta INTEGER NOT NULL,
            id_producto INTEGER NOT NULL,
            cantidad INTEGER NOT NULL,
            precio_unitario REAL NOT NULL,
            subtotal REAL NOT NULL,
            FOREIGN KEY(id_venta) REFERENCES ventas(id),
            FOREIGN KEY(id_producto) REFERENCES productos(id)
        );`,
		`CREATE TABLE IF NOT EXISTS compras (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            fecha DATETIME NOT NULL,
            id_proveedor INTEGER NOT NULL,
            id_usuario INTEGER NOT NULL,
            total REAL NOT NULL,
            FOREIGN KEY(id_proveedor) REFERENCES proveedores(id),
            FOREIGN KEY(id_usuario) REFERENCES usuarios(id)
        );`,
		`CREATE TABLE IF NOT EXISTS compra_detalles (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            id_compra INTEGER NOT NULL,
            id_producto INTEGER NOT NULL,
            cantidad INTEGER NOT NULL,
            precio_unitario REAL NOT NULL,
            subtotal REAL NOT NULL,
            FOREIGN KEY(id_compra) REFERENCES compras(id),
            FOREIGN KEY(id_producto) REFERENCES productos(id)
        );`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
