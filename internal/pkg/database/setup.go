package database

import (
	"fmt"
	"log"
	"time"

	"github.com/clocko-app/clocko/app/models"
	"github.com/clocko-app/clocko/internal/pkg/env"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

const maxRetries = 5
const retryDelay = 5 * time.Second

func SetupDatabase() {
	var err error
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		env.GetEnv("DB_USER", ""),
		env.GetEnv("DB_PASSWORD", ""),
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", ""),
	)

	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(mysql.New(mysql.Config{
			DSN:                      dsn,
			DefaultStringSize:        256,
			DisableDatetimePrecision: true,
		}), &gorm.Config{
			// Maps duplicate-key violations to gorm.ErrDuplicatedKey, which the
			// timer start path relies on to detect a concurrent open entry.
			TranslateError: true,
		})
		if err == nil {
			DB.AutoMigrate(
				&models.User{},
				&models.Project{},
				&models.TimeEntry{},
				&models.BillingWebhookEvent{},
			)

			if err := ensureRunningTimerGuard(DB); err != nil {
				panic(err)
			}

			return
		}

		log.Printf("Failed to connect to database (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	if err != nil {
		panic(err)
	}
}

// AutoMigrate cannot express a generated column, so an AutoMigrate-only boot
// would leave time_entries without the open-entry guard. These statements
// mirror migration 000003 and are applied whenever the column or index is
// missing.
const (
	runningUserColumnDDL = "ALTER TABLE time_entries ADD COLUMN running_user BIGINT UNSIGNED GENERATED ALWAYS AS (IF(end_time IS NULL, user_id, NULL)) STORED"
	runningUserIndexDDL  = "CREATE UNIQUE INDEX ux_time_entries_running_user ON time_entries (running_user)"
)

// ensureRunningTimerGuard installs the running_user generated column and its
// unique index, which back the one-open-entry-per-user invariant.
func ensureRunningTimerGuard(db *gorm.DB) error {
	migrator := db.Migrator()
	if !migrator.HasColumn(&models.TimeEntry{}, "running_user") {
		if err := db.Exec(runningUserColumnDDL).Error; err != nil {
			return err
		}
	}
	if !migrator.HasIndex(&models.TimeEntry{}, "ux_time_entries_running_user") {
		if err := db.Exec(runningUserIndexDDL).Error; err != nil {
			return err
		}
	}
	return nil
}

// GetDB returns the shared database handle
func GetDB() *gorm.DB {
	return DB
}
