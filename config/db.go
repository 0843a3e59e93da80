package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"agence-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "agence_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

// SeedDatabase creates the default admin user and a minimal product catalog
// on an empty database.
func SeedDatabase() {
	var userCount int64
	DB.Model(&models.User{}).Count(&userCount)
	if userCount == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(envOrDefault("ADMIN_DEFAULT_PASSWORD", "admin123")), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("warning: failed to hash default admin password: %v", err)
		} else {
			admin := models.User{
				FullName: "Administrateur",
				Username: envOrDefault("ADMIN_DEFAULT_USERNAME", "admin@agence.local"),
				Password: string(hash),
				Role:     "admin",
			}
			if err := DB.Create(&admin).Error; err != nil {
				log.Printf("warning: failed to create default admin: %v", err)
			} else {
				log.Println("Default admin seeded")
			}
		}
	}

	var prodCount int64
	DB.Model(&models.Product{}).Count(&prodCount)
	if prodCount == 0 {
		produits := []models.Product{
			{Nom: "Hôtel Teranga - Chambre Standard", Type: models.TypeHotel, Prix: 45000, Actif: true},
			{Nom: "Location berline climatisée (jour)", Type: models.TypeCar, Prix: 35000, Actif: true},
			{Nom: "Soirée gala fin d'année", Type: models.TypeEvent, Prix: 25000, Actif: true},
		}
		DB.Create(&produits)
		log.Println("Produits seeded")
	}
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	DB = db

	// AutoMigrate in parent->child order
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Client{},
		&models.Product{},
		&models.TravelPackage{},
		&models.Reservation{},
		&models.Invoice{},
		&models.Payment{},
		&models.Expense{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}
