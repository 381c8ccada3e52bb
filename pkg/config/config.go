package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix = "kejah"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "KEJAH_DB_DSN"
	EnvDBHost = "KEJAH_DB_HOST"
	EnvDBUser = "KEJAH_DB_USER"
	EnvDBName = "KEJAH_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	PhoneOTP      PhoneOTPConfig
	Moderation    ModerationConfig
	Billing       BillingConfig
	OpenAI        OpenAIConfig
	GoogleAuth    GoogleAuthConfig
	GoogleMaps    GoogleMapsConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Media         MediaConfig
	PubSub        PubSubConfig
	BigQuery      BigQueryConfig
	Square        SquareConfig
	FeatureFlags  FeatureFlagsConfig
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"KEJAH_AUTO_MIGRATE" default:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if !cfg.App.DemoMode {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"KEJAH_APP_ENV" required:"true"`
	Port         string `envconfig:"KEJAH_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"KEJAH_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"KEJAH_LOG_WARN_STACK" default:"false"`
	DemoMode     bool   `envconfig:"KEJAH_DEMO_MODE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"KEJAH_DB_DSN"`

	LegacyHost     string `envconfig:"KEJAH_DB_HOST"`
	LegacyPort     int    `envconfig:"KEJAH_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"KEJAH_DB_USER"`
	LegacyPassword string `envconfig:"KEJAH_DB_PASSWORD"`
	LegacyName     string `envconfig:"KEJAH_DB_NAME"`
	LegacySSLMode  string `envconfig:"KEJAH_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"KEJAH_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"KEJAH_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"KEJAH_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"KEJAH_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"KEJAH_REDIS_URL" required:"true"`
	Address      string        `envconfig:"KEJAH_REDIS_ADDR"`
	Password     string        `envconfig:"KEJAH_REDIS_PASSWORD"`
	DB           int           `envconfig:"KEJAH_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"KEJAH_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"KEJAH_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"KEJAH_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"KEJAH_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"KEJAH_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"KEJAH_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"KEJAH_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"KEJAH_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"KEJAH_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"KEJAH_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"KEJAH_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"KEJAH_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"KEJAH_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"KEJAH_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"KEJAH_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"KEJAH_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"KEJAH_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"KEJAH_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"KEJAH_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"KEJAH_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type PhoneOTPConfig struct {
	CodeTTL     time.Duration `envconfig:"KEJAH_PHONE_OTP_TTL" default:"5m"`
	MaxAttempts int           `envconfig:"KEJAH_PHONE_OTP_MAX_ATTEMPTS" default:"5"`
}

type ModerationConfig struct {
	// SuspensionThreshold is the report count at which a listing is
	// automatically suspended.
	SuspensionThreshold int `envconfig:"KEJAH_MODERATION_SUSPENSION_THRESHOLD" default:"3"`
}

type BillingConfig struct {
	StandardFee decimal.Decimal `envconfig:"KEJAH_BILLING_STANDARD_FEE" default:"500"`
	PremiumFee  decimal.Decimal `envconfig:"KEJAH_BILLING_PREMIUM_FEE" default:"1000"`
	Currency    string          `envconfig:"KEJAH_BILLING_CURRENCY" default:"KES"`
}

type OpenAIConfig struct {
	APIKey string `envconfig:"KEJAH_OPENAI_API_KEY"`
	Model  string `envconfig:"KEJAH_OPENAI_MODEL" default:"gpt-4o-mini"`
}

type GoogleAuthConfig struct {
	ClientID string `envconfig:"KEJAH_GOOGLE_OAUTH_CLIENT_ID"`
}

type GoogleMapsConfig struct {
	APIKey string `envconfig:"KEJAH_GOOGLE_MAPS_API_KEY"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"KEJAH_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"KEJAH_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"KEJAH_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName      string        `envconfig:"KEJAH_GCS_BUCKET_NAME"`
	UploadURLExpiry time.Duration `envconfig:"KEJAH_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"KEJAH_MAX_UPLOAD_MB" default:"10"`
}

type PubSubConfig struct {
	ListingEventsTopic        string `envconfig:"KEJAH_PUBSUB_LISTING_EVENTS_TOPIC" default:"kejah-listing-events"`
	ListingEventsSubscription string `envconfig:"KEJAH_PUBSUB_LISTING_EVENTS_SUBSCRIPTION" default:"kejah-listing-events-worker"`
	ViewEventsTopic           string `envconfig:"KEJAH_PUBSUB_VIEW_EVENTS_TOPIC" default:"kejah-view-events"`
	ViewEventsSubscription    string `envconfig:"KEJAH_PUBSUB_VIEW_EVENTS_SUBSCRIPTION" default:"kejah-view-events-analytics"`
}

type BigQueryConfig struct {
	Dataset         string `envconfig:"KEJAH_BIGQUERY_DATASET" default:"kejah"`
	ViewEventsTable string `envconfig:"KEJAH_BIGQUERY_VIEW_EVENTS_TABLE" default:"listing_view_events"`
}

type SquareConfig struct {
	AccessToken string `envconfig:"KEJAH_SQUARE_ACCESS_TOKEN"`
	LocationID  string `envconfig:"KEJAH_SQUARE_LOCATION_ID"`
	Env         string `envconfig:"KEJAH_SQUARE_ENV" default:"sandbox"`
}

// Environment returns the normalized Square environment (sandbox/production).
func (s SquareConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "sandbox"
	}
	return env
}

// PackageFee returns the configured fee for the given package tier name.
func (b BillingConfig) PackageFee(pkg string) (decimal.Decimal, bool) {
	switch pkg {
	case "standard":
		return b.StandardFee, true
	case "premium":
		return b.PremiumFee, true
	default:
		return decimal.Zero, false
	}
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
