package infra

import (
	"fmt"

	"farmacia/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the shared GORM handle over PostgreSQL with a bounded
// pool, then migrates the schema. Requests beyond maxOpenConns wait for a
// free connection.
func NewDatabase(dsn string, maxOpenConns int) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if maxOpenConns <= 0 {
		maxOpenConns = 10
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(min(maxOpenConns, 5))

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates every table and then applies the
// PostgreSQL-only patches. It is also used by tests on SQLite.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Perfil{},
		&model.Usuario{},
		&model.Cliente{},
		&model.Producto{},
		&model.Venta{},
		&model.DetalleVenta{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"ventas fecha default", `ALTER TABLE ventas ALTER COLUMN fecha SET DEFAULT NOW()`},
		// Dashboard aggregates filter and group on fecha; detail joins go through venta_id.
		{"idx_ventas_fecha_cliente", `CREATE INDEX IF NOT EXISTS idx_ventas_fecha_cliente ON ventas (fecha, cliente_id)`},
		{"idx_detalle_ventas_venta_producto", `CREATE INDEX IF NOT EXISTS idx_detalle_ventas_venta_producto ON detalle_ventas (venta_id, producto_id)`},
		{"chk_detalle_ventas_cantidad", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_detalle_ventas_cantidad') THEN
    ALTER TABLE detalle_ventas ADD CONSTRAINT chk_detalle_ventas_cantidad CHECK (cantidad > 0);
  END IF;
END $$`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}

// Close releases the SQL pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
