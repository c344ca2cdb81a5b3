package infra

import (
	"fmt"

	"github.com/xjoule42/quicksale-pos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection backed by pgx and, when migrate is set,
// creates or updates every table before applying the PostgreSQL-only patches.
func NewDatabase(dsn string, migrate bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if migrate {
		if err := RunMigrations(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Models lists every persisted model in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.Perfil{},
		&model.UsuarioRol{},
		&model.Producto{},
		&model.Cliente{},
		&model.MovimientoInventario{},
		&model.AuditLog{},
		&model.Configuracion{},
	}
}

// RunMigrations runs AutoMigrate for all models and then the schema patches.
// Works on any GORM dialect; patches only apply to PostgreSQL.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express:
// CHECK constraints, the closed action_type set, and expression indexes.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"products stock non-negative", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_products_stock') THEN
    ALTER TABLE products ADD CONSTRAINT chk_products_stock CHECK (stock >= 0);
  END IF;
END $$`},
		{"products price non-negative", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_products_price') THEN
    ALTER TABLE products ADD CONSTRAINT chk_products_price CHECK (price >= 0);
  END IF;
END $$`},
		{"inventory_movements movement_type", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_inventory_movements_type') THEN
    ALTER TABLE inventory_movements ADD CONSTRAINT chk_inventory_movements_type
      CHECK (movement_type IN ('entrada', 'salida', 'ajuste'));
  END IF;
END $$`},
		{"audit_logs action_type", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_audit_logs_action_type') THEN
    ALTER TABLE audit_logs ADD CONSTRAINT chk_audit_logs_action_type
      CHECK (action_type IN ('venta_creada', 'venta_cancelada', 'producto_creado',
        'producto_actualizado', 'producto_eliminado', 'ajuste_inventario', 'usuario_creado',
        'usuario_actualizado', 'usuario_eliminado', 'configuracion_actualizada'));
  END IF;
END $$`},
		{"user_roles role", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_user_roles_role') THEN
    ALTER TABLE user_roles ADD CONSTRAINT chk_user_roles_role
      CHECK (role IN ('administrador', 'vendedor', 'cliente'));
  END IF;
END $$`},
		// SKU lookups are case-insensitive; uniqueness is not enforced here.
		{"products lower(sku) index",
			`CREATE INDEX IF NOT EXISTS idx_products_lower_sku ON products (LOWER(sku))`},
		{"audit_logs newest-first index",
			`CREATE INDEX IF NOT EXISTS idx_audit_logs_created_desc ON audit_logs (created_at DESC)`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
