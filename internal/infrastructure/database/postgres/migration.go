// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/revenue"
	"github.com/your-org/storefront-backend/internal/domain/user"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Define all models that need migration in dependency order
	models := []interface{}{
		&user.User{},
		&catalog.Product{},
		&cart.Line{},
		&order.Order{},
		&order.OrderItem{},
		&order.OrderStatusHistory{},
		&revenue.Bucket{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes. The partial unique index on
// pending orders is what enforces the one-pending-order-per-user rule at the
// storage layer.
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// The anchor constraint of the reconciliation subsystem
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_orders_user_pending ON orders(user_id) WHERE status = 'pending' AND deleted_at IS NULL",

		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_active ON products(is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_sku ON products(sku)",

		// Cart indexes
		"CREATE INDEX IF NOT EXISTS idx_cart_lines_user ON cart_lines(user_id)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_order_number ON orders(order_number)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order_status ON order_items(order_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id)",

		// Status history indexes
		"CREATE INDEX IF NOT EXISTS idx_order_status_history_order ON order_status_history(order_id, created_at DESC)",

		// Revenue indexes
		"CREATE INDEX IF NOT EXISTS idx_revenue_buckets_date ON revenue_buckets(bucket_date DESC)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	if err := m.seedTestUser(); err != nil {
		return fmt.Errorf("failed to seed test user: %w", err)
	}
	if err := m.seedTestProducts(); err != nil {
		return fmt.Errorf("failed to seed test products: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

func (m *Migration) seedAdminUser() error {
	log.Println("👤 Seeding admin user...")

	var existing user.User
	result := m.db.Where("email = ?", "admin@example.com").First(&existing)
	if result.Error == nil {
		log.Printf("⏭️ Admin user already exists with ID: %d", existing.ID)
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), 10)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	adminUser := user.User{
		Email:     "admin@example.com",
		Password:  string(hashedPassword),
		FirstName: "Admin",
		LastName:  "User",
		IsActive:  true,
		IsAdmin:   true,
	}
	if err := m.db.Create(&adminUser).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Println("✅ Created admin user: admin@example.com (password: admin123)")
	return nil
}

func (m *Migration) seedTestUser() error {
	log.Println("👤 Seeding test user...")

	var existing user.User
	result := m.db.Where("email = ?", "test1@example.com").First(&existing)
	if result.Error == nil {
		log.Println("⏭️ Test user already exists")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("test123"), 10)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	testUser := user.User{
		Email:        "test1@example.com",
		Password:     string(hashedPassword),
		FirstName:    "Test",
		LastName:     "User",
		Phone:        "+919876543210",
		AddressLine1: "12 Example Street",
		City:         "Chennai",
		Region:       "Tamil Nadu",
		Country:      "India",
		IsActive:     true,
		IsAdmin:      false,
	}
	if err := m.db.Create(&testUser).Error; err != nil {
		return err
	}

	log.Println("✅ Created test user: test1@example.com (password: test123)")
	return nil
}

// seedTestProducts creates a small catalog for development
func (m *Migration) seedTestProducts() error {
	log.Println("🛍️ Seeding test products...")

	testProducts := []catalog.Product{
		{
			SKU:         "TEE-CLASSIC-001",
			Name:        "Classic Crew T-Shirt",
			Description: "Soft cotton crew-neck t-shirt available in standard sizes.",
			ImageURL:    "https://example.com/images/tee-classic.jpg",
			Price:       2499, // In cents
			Sizes:       "S,M,L,XL",
			IsActive:    true,
		},
		{
			SKU:         "HOODIE-ZIP-001",
			Name:        "Zip Hoodie",
			Description: "Heavyweight fleece hoodie with full-length zip.",
			ImageURL:    "https://example.com/images/hoodie-zip.jpg",
			Price:       5999,
			Sizes:       "M,L,XL",
			IsActive:    true,
		},
		{
			SKU:         "MUG-LOGO-001",
			Name:        "Logo Mug",
			Description: "Ceramic mug, one size only.",
			ImageURL:    "https://example.com/images/mug-logo.jpg",
			Price:       1299,
			Sizes:       "",
			IsActive:    true,
		},
	}

	for _, prod := range testProducts {
		var existing catalog.Product
		result := m.db.Where("sku = ?", prod.SKU).First(&existing)
		if result.Error != nil {
			if err := m.db.Create(&prod).Error; err != nil {
				log.Printf("⚠️ Failed to create test product %s: %v", prod.SKU, err)
			} else {
				log.Printf("✅ Created test product: %s", prod.Name)
			}
		} else {
			log.Printf("⏭️ Product already exists: %s", prod.Name)
		}
	}

	return nil
}

// DropAllTables drops all tables (use with extreme caution)
func (m *Migration) DropAllTables() error {
	log.Println("⚠️ WARNING: Dropping all database tables...")

	// Reverse dependency order
	tables := []string{
		"order_status_history",
		"order_items",
		"orders",
		"cart_lines",
		"revenue_buckets",
		"products",
		"users",
	}

	for _, table := range tables {
		if err := m.db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			log.Printf("⚠️ Failed to drop table %s: %v", table, err)
		} else {
			log.Printf("🗑️ Dropped table: %s", table)
		}
	}

	log.Println("✅ All tables dropped successfully")
	return nil
}
