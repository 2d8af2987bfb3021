package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal("DB_DSN environment variable is required")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	sql := `
	CREATE TABLE IF NOT EXISTS orders (
	  id CHAR(36) NOT NULL,
	  product_id VARCHAR(64) NOT NULL,
	  quantity INT NOT NULL,
	  total_amount DECIMAL(12,2) NOT NULL,
	  payer_email VARCHAR(255) NOT NULL,
	  status VARCHAR(32) NOT NULL DEFAULT 'pending',
	  mp_preference_id VARCHAR(128) NULL,
	  mp_payment_id VARCHAR(64) NULL,
	  mp_status VARCHAR(32) NULL,
	  created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  PRIMARY KEY (id),
	  KEY ix_orders_status (status)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;

	CREATE TABLE IF NOT EXISTS gateway_events (
	  id CHAR(36) NOT NULL,
	  topic VARCHAR(64) NOT NULL,
	  resource_id VARCHAR(128) NOT NULL,
	  order_id CHAR(36) NOT NULL,
	  payload_json JSON NULL,
	  received_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	  processed_at DATETIME(3) NULL,
	  process_error VARCHAR(255) NULL,
	  PRIMARY KEY (id),
	  KEY ix_gateway_events_topic (topic),
	  KEY ix_gateway_events_order_id (order_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
	`

	if err := db.Exec(sql).Error; err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	log.Println("Tables created: orders, gateway_events")
}
