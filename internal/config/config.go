package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type StorageConfig struct {
	Backend string
}

type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// MediaConfig points at the S3-compatible media host that stores uploads.
type MediaConfig struct {
	Endpoint       string
	AccessKey      string
	SecretKey      string
	Bucket         string
	UseSSL         bool
	Region         string
	PublicBaseURL  string
	MaxUploadBytes int64
}

type SecurityConfig struct {
	TokenSecret         string
	TokenTTL            time.Duration
	PublicUserDirectory bool
}

// ActivityConfig covers both ends of the activity stream: the API appends and
// trims it, the auditor reads it through a consumer group.
type ActivityConfig struct {
	Stream        string
	MaxLen        int64
	TrimSchedule  string
	Group         string
	Consumer      string
	ClaimInterval time.Duration
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Storage          StorageConfig
	Mongo            MongoConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Media            MediaConfig
	Security         SecurityConfig
	Activity         ActivityConfig
	AllowCORSOrigins []string
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads the API configuration.
func Load() (*AppConfig, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadAuditor reads the configuration of the activity auditor, which only
// needs Redis and the stream settings.
func LoadAuditor() (*AppConfig, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if cfg.Redis.Addr == "" || cfg.Activity.Stream == "" || cfg.Activity.Group == "" {
		return nil, errors.New("config: redis.addr, activity.stream and activity.group are required")
	}
	if cfg.Activity.ClaimInterval <= 0 {
		return nil, errors.New("config: activity.claiminterval must be positive")
	}
	return cfg, nil
}

func read() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvPrefix("CAMPUS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func (c *AppConfig) Validate() error {
	if c.Security.TokenSecret == "" {
		return errors.New("config: security.tokensecret is required")
	}
	if c.Security.TokenTTL <= 0 {
		return errors.New("config: security.tokenttl must be positive")
	}
	switch c.Storage.Backend {
	case BackendMongo, BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("config: unknown storage backend %q", c.Storage.Backend)
	}
	if c.IsProduction() && len(c.AllowCORSOrigins) == 0 {
		return errors.New("config: allowcorsorigins is required in production")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 5000)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "30s")
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("storage.backend", BackendMongo)

	v.SetDefault("mongo.uri", "mongodb://127.0.0.1:27017")
	v.SetDefault("mongo.database", "campusboard")
	v.SetDefault("mongo.connecttimeout", "10s")

	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("media.endpoint", "127.0.0.1:9000")
	v.SetDefault("media.accesskey", "")
	v.SetDefault("media.secretkey", "")
	v.SetDefault("media.bucket", "campusboard-images")
	v.SetDefault("media.usessl", false)
	v.SetDefault("media.region", "us-east-1")
	v.SetDefault("media.publicbaseurl", "")
	v.SetDefault("media.maxuploadbytes", 5<<20)

	v.SetDefault("security.tokensecret", "")
	v.SetDefault("security.tokenttl", "1h")
	v.SetDefault("security.publicuserdirectory", false)

	v.SetDefault("activity.stream", "campus:activity")
	v.SetDefault("activity.maxlen", 10000)
	v.SetDefault("activity.trimschedule", "0 0 * * * *") // hourly
	v.SetDefault("activity.group", "auditors")
	v.SetDefault("activity.consumer", "")
	v.SetDefault("activity.claiminterval", "1m")

	v.SetDefault("allowcorsorigins", []string{})
}
