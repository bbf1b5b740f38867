package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Pawissanan/Get-YouTube-View/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	YouTube     YouTube     `json:"youtube"`
	Extraction  Extraction  `json:"extraction"`
	Cache       Cache       `json:"cache"`
	RedisClient RedisClient `json:"redisClient"`
	Memcached   Memcached   `json:"memcached"`
	Database    Database    `json:"database"`
	GoogleSheet GoogleSheet `json:"googleSheet"`
	Pubsub      Pubsub      `json:"pubsub"`
	ServiceBus  ServiceBus  `json:"serviceBus"`
	Logger      Logger      `json:"logger"`
}

type App struct {
	Port        int      `json:"port"`
	SecretKey   string   `json:"secretKey"`
	TLSEnabled  bool     `json:"tlsEnabled"`
	TLSCertFile string   `json:"tlsCertFile"`
	TLSKeyFile  string   `json:"tlsKeyFile"`
	CorsOrigins []string `json:"corsOrigins"`
}

type YouTube struct {
	APIKey            string  `json:"apiKey"`
	ClientID          string  `json:"clientId"`
	ClientSecret      string  `json:"clientSecret"`
	AccessToken       string  `json:"accessToken"`
	RefreshToken      string  `json:"refreshToken"`
	RequestsPerSecond float64 `json:"requestsPerSecond"`
}

type Extraction struct {
	DefaultMaxVideos int `json:"defaultMaxVideos"`
}

// Cache selects the response cache backend: "redis", "memcached" or "" for none.
type Cache struct {
	Backend            string `json:"backend"`
	Prefix             string `json:"prefix"`
	ChannelTTLSeconds  int    `json:"channelTTLSeconds"`
	PlaylistTTLSeconds int    `json:"playlistTTLSeconds"`
	VideoTTLSeconds    int    `json:"videoTTLSeconds"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Password string `json:"password"`
	Username string `json:"username"`
	DB       int    `json:"db"`
}

type Memcached struct {
	Servers []string `json:"servers"`
}

// Database selects the video details cache: "postgres", "mssql" or "" for none.
type Database struct {
	Driver string `json:"driver"`
	Psql   Db     `json:"psql"`
	Mssql  Db     `json:"mssql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode"`
}

type GoogleSheet struct {
	SpreadsheetId   string `json:"spreadsheetId"`
	SheetName       string `json:"sheetName"`
	CredentialsFile string `json:"credentialsFile"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
	TopicID   string `json:"topicID"`
}

type ServiceBus struct {
	Namespace string `json:"namespace"`
	Queue     string `json:"queue"`
}

type Logger struct {
	Format string `json:"format"`
	Level  string `json:"level"`
}

var C Config

func init() {
	LoadEnvFromFile("config.env", ".env")
	LoadConfig()
	initDatabase(&C)
	initApp(&C)
	initExtraction(&C)
	logger.Configure(getEnv("LOG_FORMAT", C.Logger.Format), getEnv("LOG_LEVEL", C.Logger.Level))
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initDatabase(C *Config) {
	if v := os.Getenv("DB_DRIVER"); v != "" {
		C.Database.Driver = strings.ToLower(v)
	}
	if C.Database.Psql.Name == "" {
		C.Database.Psql.Name = os.Getenv("DB_NAME")
	}
	if C.Database.Psql.Host == "" {
		C.Database.Psql.Host = os.Getenv("DB_HOST")
	}
	if C.Database.Psql.User == "" {
		C.Database.Psql.User = os.Getenv("DB_USER")
	}
	if C.Database.Psql.Password == "" {
		C.Database.Psql.Password = os.Getenv("DB_PASSWORD")
	}
	if C.Database.Psql.Port == "" {
		C.Database.Psql.Port = getEnv("DB_PORT", "5432")
	}

	// Optional MSSQL config via environment variables (for Azure SQL in production)
	if C.Database.Mssql.Name == "" {
		C.Database.Mssql.Name = os.Getenv("MSSQL_DB_NAME")
	}
	if C.Database.Mssql.Host == "" {
		C.Database.Mssql.Host = getEnv("MSSQL_HOST", "localhost")
	}
	if C.Database.Mssql.Port == "" {
		C.Database.Mssql.Port = getEnv("MSSQL_PORT", "1433")
	}
	if C.Database.Mssql.User == "" {
		C.Database.Mssql.User = os.Getenv("MSSQL_USER")
	}
	if C.Database.Mssql.Password == "" {
		C.Database.Mssql.Password = os.Getenv("MSSQL_PASSWORD")
	}
	logger.GetLogger().
		WithField("driver", C.Database.Driver).
		WithField("psqlHost", C.Database.Psql.Host).
		WithField("mssqlHost", C.Database.Mssql.Host).
		Info("Database configuration")
}

func initApp(C *Config) {
	// SECRET_KEY overrides the config file when provided
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 10001
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 10001
	}
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			C.App.TLSEnabled = b
		}
	}
	if C.App.TLSCertFile == "" {
		C.App.TLSCertFile = os.Getenv("TLS_CERT_FILE")
	}
	if C.App.TLSKeyFile == "" {
		C.App.TLSKeyFile = os.Getenv("TLS_KEY_FILE")
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; /api routes are served without authentication")
	}
}

func initExtraction(C *Config) {
	if v := os.Getenv("DEFAULT_MAX_VIDEOS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			C.Extraction.DefaultMaxVideos = n
		}
	}
	if C.Extraction.DefaultMaxVideos <= 0 {
		C.Extraction.DefaultMaxVideos = 100
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		C.Cache.Backend = strings.ToLower(v)
	}
	if C.Cache.Prefix == "" {
		C.Cache.Prefix = "ytx:"
	}
	if C.RedisClient.Host == "" {
		C.RedisClient.Host = getEnv("REDIS_HOST", "localhost")
	}
	if C.RedisClient.Port == "" {
		C.RedisClient.Port = getEnv("REDIS_PORT", "6379")
	}
	if len(C.Memcached.Servers) == 0 {
		if v := os.Getenv("MEMCACHED_URL"); v != "" {
			C.Memcached.Servers = strings.Split(v, ",")
		}
	}
	if C.GoogleSheet.SpreadsheetId == "" {
		C.GoogleSheet.SpreadsheetId = os.Getenv("GOOGLE_SHEET_ID")
	}
	if C.GoogleSheet.SheetName == "" {
		C.GoogleSheet.SheetName = "Sheet1"
	}
	if C.GoogleSheet.CredentialsFile == "" {
		C.GoogleSheet.CredentialsFile = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
}
