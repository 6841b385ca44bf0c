package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DB struct {
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
}

type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
	PublicURL  string
}

type S3 struct {
	Region       string
	BucketName   string
	AccessKey    string
	SecretKey    string
	Endpoint     string
	UsePathStyle bool
	PublicURL    string
}

type Storage struct {
	Driver string
	Root   string
}

type Log struct {
	Level string
	File  string
}

type Pagination struct {
	DefaultLimit int
	MaxLimit     int
}

type Config struct {
	ServerPort      int
	DB              DB
	Storage         Storage
	MinIO           MinIO
	S3              S3
	Log             Log
	Pagination      Pagination
	MaxUploadSize   int64
	ShutdownTimeout time.Duration
}

const (
	StorageMinIO = "minio"
	StorageS3    = "s3"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", 3000)

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "airbnb")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("STORAGE_DRIVER", StorageMinIO)
	v.SetDefault("STORAGE_ROOT", "airbnb")

	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "minioadmin")
	v.SetDefault("MINIO_SECRET_KEY", "minioadmin")
	v.SetDefault("MINIO_BUCKET_NAME", "images")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("MINIO_REGION", "us-east-1")
	v.SetDefault("MINIO_PUBLIC_URL", "http://localhost:9000")

	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_BUCKET_NAME", "images")
	v.SetDefault("S3_ACCESS_KEY", "")
	v.SetDefault("S3_SECRET_KEY", "")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_USE_PATH_STYLE", false)
	v.SetDefault("S3_PUBLIC_URL", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "server.log")

	v.SetDefault("PAGE_DEFAULT_LIMIT", 20)
	v.SetDefault("PAGE_MAX_LIMIT", 100)

	v.SetDefault("MAX_UPLOAD_SIZE", 10*1024*1024)
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
}

func LoadDB(v *viper.Viper) DB {
	return DB{
		DbHOST:     v.GetString("DB_HOST"),
		DbPORT:     v.GetString("DB_PORT"),
		DbUSER:     v.GetString("DB_USER"),
		DbPASSWORD: v.GetString("DB_PASSWORD"),
		DbNAME:     v.GetString("DB_NAME"),
		DbSSLMODE:  v.GetString("DB_SSLMODE"),
	}
}

func LoadMinIO(v *viper.Viper) MinIO {
	return MinIO{
		Endpoint:   v.GetString("MINIO_ENDPOINT"),
		AccessKey:  v.GetString("MINIO_ACCESS_KEY"),
		SecretKey:  v.GetString("MINIO_SECRET_KEY"),
		BucketName: v.GetString("MINIO_BUCKET_NAME"),
		UseSSL:     v.GetBool("MINIO_USE_SSL"),
		Region:     v.GetString("MINIO_REGION"),
		PublicURL:  strings.TrimSuffix(v.GetString("MINIO_PUBLIC_URL"), "/"),
	}
}

func LoadS3(v *viper.Viper) S3 {
	return S3{
		Region:       v.GetString("S3_REGION"),
		BucketName:   v.GetString("S3_BUCKET_NAME"),
		AccessKey:    v.GetString("S3_ACCESS_KEY"),
		SecretKey:    v.GetString("S3_SECRET_KEY"),
		Endpoint:     v.GetString("S3_ENDPOINT"),
		UsePathStyle: v.GetBool("S3_USE_PATH_STYLE"),
		PublicURL:    strings.TrimSuffix(v.GetString("S3_PUBLIC_URL"), "/"),
	}
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	return Load(viper.New())
}

func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		ServerPort: v.GetInt("SERVER_PORT"),
		DB:         LoadDB(v),
		Storage: Storage{
			Driver: strings.ToLower(v.GetString("STORAGE_DRIVER")),
			Root:   strings.Trim(v.GetString("STORAGE_ROOT"), "/"),
		},
		MinIO: LoadMinIO(v),
		S3:    LoadS3(v),
		Log: Log{
			Level: v.GetString("LOG_LEVEL"),
			File:  v.GetString("LOG_FILE"),
		},
		Pagination: Pagination{
			DefaultLimit: v.GetInt("PAGE_DEFAULT_LIMIT"),
			MaxLimit:     v.GetInt("PAGE_MAX_LIMIT"),
		},
		MaxUploadSize:   v.GetInt64("MAX_UPLOAD_SIZE"),
		ShutdownTimeout: parseDuration(v.GetString("SHUTDOWN_TIMEOUT")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("некорректная конфигурация: %w", err)
	}

	return cfg, nil
}

func parseDuration(value string) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 10 * time.Second
	}
	return duration
}

func (c *Config) Validate() error {
	if c.ServerPort <= 0 {
		return fmt.Errorf("SERVER_PORT должен быть положительным")
	}

	switch c.Storage.Driver {
	case StorageMinIO, StorageS3:
	default:
		return fmt.Errorf("неизвестный STORAGE_DRIVER: %q", c.Storage.Driver)
	}

	if c.Pagination.DefaultLimit < 1 || c.Pagination.MaxLimit < 1 {
		return fmt.Errorf("лимиты пагинации должны быть положительными")
	}

	if c.Pagination.DefaultLimit > c.Pagination.MaxLimit {
		return fmt.Errorf("PAGE_DEFAULT_LIMIT не может превышать PAGE_MAX_LIMIT")
	}

	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE должен быть положительным")
	}

	return nil
}
