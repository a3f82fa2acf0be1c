package configs

import (
	"context"
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("APP_ENV") == "production" {
		log.Println("[INFO] Running in production, using system ENV")
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Println("[WARN] .env file not found, using system ENV")
	} else {
		log.Println("[INFO] .env file loaded")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func getInt(key string, def int) int {
	v := GetEnv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[WARN] %s=%q is not a number, using %d", key, v, def)
		return def
	}
	return n
}

func getDuration(key string, def time.Duration) time.Duration {
	v := GetEnv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[WARN] %s=%q is not a valid duration, using %s", key, v, def)
		return def
	}
	return d
}

// =======================
// APP CONFIG
// =======================
type Config struct {
	Port           string
	RequestTimeout time.Duration

	DBDriver       string // postgres | mysql | sqlite
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBPath         string
	DBMaxOpenConns int
	DBMaxIdleConns int

	RedisAddr           string
	RedisPassword       string
	RedisDB             int
	LeaderboardCacheTTL time.Duration

	ReconcileSchedule string
	CorsOrigins       string
	RateLimitMax      int
	SeedFile          string
}

func Load() *Config {
	return &Config{
		Port:           GetEnv("PORT", "3000"),
		RequestTimeout: getDuration("REQUEST_TIMEOUT", 5*time.Second),

		DBDriver:       GetEnv("DB_DRIVER", "postgres"),
		DBHost:         GetEnv("DB_HOST", "localhost"),
		DBPort:         GetEnv("DB_PORT", "5432"),
		DBUser:         GetEnv("DB_USER", "postgres"),
		DBPassword:     GetEnv("DB_PASSWORD"),
		DBName:         GetEnv("DB_NAME", "cyberquiz"),
		DBSSLMode:      GetEnv("DB_SSLMODE", "disable"),
		DBPath:         GetEnv("DB_PATH", "cyberquiz.db"),
		DBMaxOpenConns: getInt("DB_MAX_OPEN_CONNS", 20),
		DBMaxIdleConns: getInt("DB_MAX_IDLE_CONNS", 10),

		RedisAddr:           GetEnv("REDIS_ADDR"),
		RedisPassword:       GetEnv("REDIS_PASSWORD"),
		RedisDB:             getInt("REDIS_DB", 0),
		LeaderboardCacheTTL: getDuration("LEADERBOARD_CACHE_TTL", 30*time.Second),

		ReconcileSchedule: GetEnv("RECONCILE_SCHEDULE"),
		CorsOrigins:       GetEnv("CORS_ORIGINS", "http://localhost:3000, http://localhost:5173"),
		RateLimitMax:      getInt("RATE_LIMIT_MAX", 100),
		SeedFile:          GetEnv("SEED_FILE", "internals/seeds/quiz/data_quiz.json"),
	}
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger(level gormLogger.LogLevel) gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      level,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	cp := *l
	cp.LogLevel = level
	return &cp
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	file := utils.FileWithLineNum()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.LogLevel >= gormLogger.Error:
		sql, rows := fc()
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		sql, rows := fc()
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		sql, rows := fc()
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
