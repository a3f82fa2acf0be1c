package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"cyberquiz_backend/internals/configs"
	attemptModel "cyberquiz_backend/internals/features/progress/attempts/model"
	badgeModel "cyberquiz_backend/internals/features/progress/badges/model"
	performanceModel "cyberquiz_backend/internals/features/progress/performance/model"
	progressModel "cyberquiz_backend/internals/features/progress/progress/model"
	categoryModel "cyberquiz_backend/internals/features/quiz/categories/model"
	questionModel "cyberquiz_backend/internals/features/quiz/questions/model"
	userModel "cyberquiz_backend/internals/features/users/user/model"
	helper "cyberquiz_backend/internals/helpers"
)

// Open connects to the configured store. The handle is passed explicitly to
// routes, services and schedulers; there is no package-level DB.
func Open(cfg *configs.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	log.Printf("[INFO] Connecting to %s...", cfg.DBDriver)
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: configs.NewGormLogger(gormLogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, helper.TagUnavailable(err))
	}
	if err := RegisterErrorTagging(db); err != nil {
		return nil, err
	}
	log.Println("[INFO] DB connected.")
	return db, nil
}

func dialectorFor(cfg *configs.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "postgres", "":
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=cyberquiz",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode,
		)
		return postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true, // PgBouncer transaction pooling
		}), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)
		return mysql.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(cfg.DBPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func TunePool(db *gorm.DB, cfg *configs.Config) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("[WARN] pool tune err: %v", err)
		return
	}
	maxOpen, maxIdle := cfg.DBMaxOpenConns, cfg.DBMaxIdleConns
	if cfg.DBDriver == "sqlite" {
		// one writer; a read transaction upgraded to write would fail with SQLITE_BUSY
		maxOpen, maxIdle = 1, 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// AutoMigrate creates or updates every quiz table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&userModel.UserModel{},
		&categoryModel.CategoryModel{},
		&categoryModel.QuestionTypeModel{},
		&questionModel.QuestionModel{},
		&questionModel.AnswerOptionModel{},
		&attemptModel.QuestionAttemptModel{},
		&progressModel.UserProgressModel{},
		&performanceModel.UserQuestionTypePerformanceModel{},
		&badgeModel.BadgeModel{},
		&badgeModel.UserBadgeModel{},
	)
}

// RegisterErrorTagging makes every statement that fails because the store is
// down return an error wrapping helper.ErrUnavailable.
func RegisterErrorTagging(db *gorm.DB) error {
	tag := func(tx *gorm.DB) {
		if tx.Error != nil {
			tx.Error = helper.TagUnavailable(tx.Error)
		}
	}
	cb := db.Callback()
	for name, err := range map[string]error{
		"create": cb.Create().After("gorm:create").Register("cyberquiz:tag_unavailable", tag),
		"query":  cb.Query().After("gorm:query").Register("cyberquiz:tag_unavailable", tag),
		"update": cb.Update().After("gorm:update").Register("cyberquiz:tag_unavailable", tag),
		"delete": cb.Delete().After("gorm:delete").Register("cyberquiz:tag_unavailable", tag),
		"row":    cb.Row().After("gorm:row").Register("cyberquiz:tag_unavailable", tag),
		"raw":    cb.Raw().After("gorm:raw").Register("cyberquiz:tag_unavailable", tag),
	} {
		if err != nil {
			return fmt.Errorf("register %s error tagging: %w", name, err)
		}
	}
	return nil
}

func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", helper.ErrUnavailable, err)
	}
	return nil
}

func Close(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
