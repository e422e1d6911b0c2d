package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"rental-backend/models"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

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

func resolveMySQLDSN(cfg *Config) (string, error) {
	if cfg.MySQLURL != "" {
		if strings.HasPrefix(cfg.MySQLURL, "mysql://") {
			return mysqlDSNFromURL(cfg.MySQLURL)
		}
		return cfg.MySQLURL, nil
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName,
	)
	return dsn, nil
}

// ConnectDatabase opens the MySQL connection, applies migrations in
// parent->child order and seeds the amenity catalog.
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	dsn, err := resolveMySQLDSN(cfg)
	if err != nil {
		return nil, err
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
		return nil, err
	}

	if err := MigrateDatabase(db); err != nil {
		return nil, err
	}

	SeedDatabase(db)
	return db, nil
}

// MigrateDatabase runs AutoMigrate for all tables, parents first.
func MigrateDatabase(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Property{},
		&models.PropertyHouseRule{},
		&models.Amenity{},
		&models.PropertyAmenity{},
		&models.PropertyImage{},
		&models.PropertyReview{},
		&models.RoomDetail{},
	)
}

// SeedDatabase ensures the baseline amenity catalog exists. Safe to run on
// every startup.
func SeedDatabase(db *gorm.DB) {
	var count int64
	db.Model(&models.Amenity{}).Count(&count)
	if count > 0 {
		log.Println("Amenities already seeded")
		return
	}

	type seed struct {
		name, display, icon string
	}

	// icon values are lucide icon names consumed by the frontend
	seeds := []seed{
		{"ac", "Air conditioning", "Wind"},
		{"bathtub", "Bathtub", "Bath"},
		{"bed_linens", "Bed linens", "BedDouble"},
		{"carbon_monoxide_detector", "Carbon monoxide detector", "ShieldAlert"},
		{"coffee_maker", "Coffee maker", "Coffee"},
		{"cooking_basics", "Cooking basics", "ChefHat"},
		{"dishes_and_silverware", "Dishes and silverware", "UtensilsCrossed"},
		{"dishwasher", "Dishwasher", "Sparkles"},
		{"dryer", "Dryer", "Droplets"},
		{"free_parking", "Free parking on premises", "Car"},
		{"heating", "Heating", "Flame"},
		{"kitchen", "Kitchen", "ChefHat"},
		{"laptop_friendly_workspace", "Laptop friendly workspace", "Laptop"},
		{"long_term_stays_allowed", "Long term stays allowed", "Calendar"},
		{"microwave", "Microwave", "Microwave"},
		{"oven", "Oven", "ChefHat"},
		{"private_entrance", "Private entrance", "DoorOpen"},
		{"refrigerator", "Refrigerator", "Refrigerator"},
		{"smoke_detector", "Smoke detector", "AlertCircle"},
		{"stove", "Stove", "Flame"},
		{"tv", "TV", "Tv"},
		{"washer", "Washer", "WashingMachine"},
		{"wifi", "Wifi", "Wifi"},
	}

	amenities := make([]models.Amenity, 0, len(seeds))
	for _, s := range seeds {
		icon := s.icon
		amenities = append(amenities, models.Amenity{
			ID:          uuid.NewString(),
			Name:        s.name,
			DisplayName: s.display,
			IconURL:     &icon,
		})
	}

	if err := db.Create(&amenities).Error; err != nil {
		log.Printf("warning: failed to seed amenities: %v", err)
		return
	}
	log.Printf("Amenities seeded (%d)", len(amenities))
}
