package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/parthsavaliya1/VADI-BACKEND/cache"
	cartControllers "github.com/parthsavaliya1/VADI-BACKEND/controllers/cart"
	productcontroller "github.com/parthsavaliya1/VADI-BACKEND/controllers/product"
	"github.com/parthsavaliya1/VADI-BACKEND/events"
	"github.com/parthsavaliya1/VADI-BACKEND/models"
	"github.com/parthsavaliya1/VADI-BACKEND/routes"
	"github.com/parthsavaliya1/VADI-BACKEND/sms"
)

func initDatabase() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_USER", "postgres"),
			getEnv("DB_PASSWORD", "postgres"),
			getEnv("DB_NAME", "vadi"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_SSLMODE", "disable"),
		)
	}

	// TranslateError turns driver unique-violation errors into
	// gorm.ErrDuplicatedKey so handlers can answer 409 on races.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.Category{},
		&models.Product{},
		&models.Variant{},
		&models.User{},
		&models.Admin{},
		&models.Address{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.Review{},
	)
	if err != nil {
		return nil, err
	}

	// One active cart per user, enforced where AutoMigrate cannot express it.
	err = db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_user_active ON carts (user_id) WHERE status = 'active'`,
	).Error
	if err != nil {
		return nil, err
	}

	return db, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, relying on environment")
	}

	db, err := initDatabase()
	if err != nil {
		log.Fatal("❌ Database connection failed: ", err)
	}
	log.Println("✅ Database connected and migrated")

	if v := os.Getenv("GST_PERCENT"); v != "" {
		if pct, err := strconv.ParseFloat(v, 64); err == nil && pct >= 0 {
			cartControllers.DefaultGSTPercent = pct
		}
	}
	if os.Getenv("GST_EXCLUSIVE") == "true" {
		cartControllers.DefaultGSTMode = false
	}

	rdb := cache.NewClient()
	sender := sms.NewClient()
	producer := events.NewProducer()
	defer producer.Close()

	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", getEnv("FRONTEND_URL", "http://localhost:5173")},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Static("/uploads", productcontroller.UploadDir())

	routes.SetupRoutes(r, db, rdb, sender, producer)

	port := getEnv("PORT", "8080")
	log.Printf("🚀 Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("❌ Server failed: ", err)
	}
}
