package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Port    string `mapstructure:"port"`
		Env     string `mapstructure:"env"`
		BaseURL string `mapstructure:"base_url"`
		Owner   string `mapstructure:"owner"`
	} `mapstructure:"app"`
	Profile struct {
		GitHubHandle   string `mapstructure:"github_handle"`
		LeetCodeHandle string `mapstructure:"leetcode_handle"`
		TUFHandle      string `mapstructure:"tuf_handle"`
		TUFSolved      int    `mapstructure:"tuf_solved"`
	} `mapstructure:"profile"`
	Stats struct {
		LeetCodeBaseURL      string        `mapstructure:"leetcode_base_url"`
		ContributionsBaseURL string        `mapstructure:"contributions_base_url"`
		RequestTimeout       time.Duration `mapstructure:"request_timeout"`
		RenderWait           time.Duration `mapstructure:"render_wait"`
		CacheTTL             time.Duration `mapstructure:"cache_ttl"`
		PoolSize             int           `mapstructure:"pool_size"`
	} `mapstructure:"stats"`
	GitHub struct {
		Token string `mapstructure:"token"`
	} `mapstructure:"github"`
	DB struct {
		DSN            string        `mapstructure:"dsn"`
		MaxConns       int32         `mapstructure:"max_conns"`
		ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret         string        `mapstructure:"jwt_secret"`
		TokenLifespan     time.Duration `mapstructure:"token_lifespan"`
		OwnerID           string        `mapstructure:"owner_id"`
		OwnerEmail        string        `mapstructure:"owner_email"`
		OwnerPasswordHash string        `mapstructure:"owner_password_hash"`
	} `mapstructure:"auth"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
	} `mapstructure:"cloudinary"`
	Jaeger struct {
		OTLPEndpoint string `mapstructure:"otlp_endpoint"`
	} `mapstructure:"jaeger"`
}

// LoadConfig reads config.yaml from the given paths (the working directory when none
// are given), then .env, then the process environment. Later sources win.
func LoadConfig(paths ...string) (cfg Config, err error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	if err := godotenv.Load(envFiles(paths)...); err != nil {
		log.Println("warning: .env file not found, use default.")
	}

	v := viper.New()
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err = v.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read .env only. Error: %v", err)
	}

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("app.port", "APP_PORT")
	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("app.base_url", "APP_BASE_URL")
	v.BindEnv("app.owner", "APP_OWNER")

	v.BindEnv("profile.github_handle", "GITHUB_HANDLE")
	v.BindEnv("profile.leetcode_handle", "LEETCODE_HANDLE")
	v.BindEnv("profile.tuf_handle", "TUF_HANDLE")
	v.BindEnv("profile.tuf_solved", "TUF_SOLVED")

	v.BindEnv("stats.leetcode_base_url", "STATS_LEETCODE_BASE_URL")
	v.BindEnv("stats.contributions_base_url", "STATS_CONTRIBUTIONS_BASE_URL")
	v.BindEnv("stats.request_timeout", "STATS_REQUEST_TIMEOUT")
	v.BindEnv("stats.render_wait", "STATS_RENDER_WAIT")
	v.BindEnv("stats.cache_ttl", "STATS_CACHE_TTL")
	v.BindEnv("stats.pool_size", "STATS_POOL_SIZE")
	v.BindEnv("github.token", "GITHUB_TOKEN")

	v.BindEnv("db.dsn", "DB_DSN")
	v.BindEnv("db.max_conns", "DB_MAX_CONNS")
	v.BindEnv("db.connect_timeout", "DB_CONNECT_TIMEOUT")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")

	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("auth.token_lifespan", "TOKEN_LIFESPAN")
	v.BindEnv("auth.owner_id", "OWNER_ID")
	v.BindEnv("auth.owner_email", "OWNER_EMAIL")
	v.BindEnv("auth.owner_password_hash", "OWNER_PASSWORD_HASH")

	v.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	v.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	v.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")

	v.BindEnv("jaeger.otlp_endpoint", "OTEL_EXPORTER_OTLP_ENDPOINT")

	err = v.Unmarshal(&cfg)
	return
}

// OwnerUUID returns auth.owner_id, or an ID derived from app.base_url when it is unset
// so that tokens survive restarts.
func (c Config) OwnerUUID() (uuid.UUID, error) {
	if c.Auth.OwnerID == "" {
		return uuid.NewSHA1(uuid.NameSpaceURL, []byte(c.App.BaseURL)), nil
	}
	id, err := uuid.Parse(c.Auth.OwnerID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid auth.owner_id: %w", err)
	}
	return id, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.base_url", "http://localhost:8080")
	v.SetDefault("app.owner", "Abhishek")

	v.SetDefault("profile.github_handle", "abhishekck31")
	v.SetDefault("profile.leetcode_handle", "Gk8PxPysf4")
	v.SetDefault("profile.tuf_handle", "theabhishek")
	v.SetDefault("profile.tuf_solved", 50)

	v.SetDefault("stats.leetcode_base_url", "https://leetcode-stats-api.herokuapp.com")
	v.SetDefault("stats.contributions_base_url", "https://github-contributions-api.jogruber.de")
	v.SetDefault("stats.request_timeout", 10*time.Second)
	v.SetDefault("stats.render_wait", 2*time.Second)
	v.SetDefault("stats.cache_ttl", 15*time.Minute)
	v.SetDefault("stats.pool_size", 32)

	v.SetDefault("db.max_conns", 4)
	v.SetDefault("db.connect_timeout", 5*time.Second)

	v.SetDefault("auth.token_lifespan", 24*time.Hour)
}

func envFiles(paths []string) []string {
	files := make([]string, 0, len(paths))
	for _, p := range paths {
		files = append(files, strings.TrimSuffix(p, "/")+"/.env")
	}
	return files
}
