package config

import (
	"encoding/base64"
	"fmt"
	"log"
	"math"
	"runtime"
	"time"

	"github.com/caarlos0/env/v11"
)

type Secret struct {
	Bytes []byte
}

type Target string

const (
	App        Target = "app"
	Transcript Target = "transcript"
	Backup     Target = "backup"
)

type Config struct {
	// Running localy or not
	Debug  bool   `env:"DEBUG" envDefault:"false"`
	Target Target `env:"TARGET" envDefault:"app"`

	// Sessions
	CsrfKey             Secret `env:"CSRF_KEY"`
	AuthKey             Secret `env:"AUTH_KEY"`
	EncryptionKey       Secret `env:"ENCRYPTION_KEY"`
	UserSessionName     string `env:"USER_SESSION_NAME" envDefault:"_notetube"`
	CsrfSessionName     string `env:"CSRF_SESSION_NAME" envDefault:"_notetube_csrf"`
	OAuthSessionName    string `env:"OAUTH_SESSION_NAME" envDefault:"_notetube_oauth"`
	RedirectSessionName string `env:"REDIRECT_SESSION_NAME" envDefault:"_notetube_redirect"`

	// App settings
	AppName       string `env:"APP_NAME" envDefault:"NoteTube"`
	Domain        string `env:"DOMAIN" envDefault:"localhost:5000"`
	NotesPerPage  int    `env:"NOTES_PER_PAGE" envDefault:"10"`
	MaxPageSize   int    `env:"MAX_PAGE_SIZE" envDefault:"100"`
	MaxTranscript int    `env:"MAX_TRANSCRIPT_CHARS" envDefault:"300000"`
	DataVolume    string `env:"DATA_VOLUME" envDefault:"./data"`
	AvatarSize    int    `env:"AVATAR_SIZE" envDefault:"96"`

	// Transcript service settings
	WatchBaseURL      string        `env:"WATCH_BASE_URL" envDefault:"https://www.youtube.com"`
	TranscriptTimeout time.Duration `env:"TRANSCRIPT_TIMEOUT" envDefault:"8s"`

	// Google APIs settings
	YouTubeAPIKey  string        `env:"YOUTUBE_API_KEY"`
	GeminiAPIKey   string        `env:"GEMINI_API_KEY"`
	GeminiModel    string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	GeminiRPM      int64         `env:"GEMINI_RPM" envDefault:"10"`
	GeminiRPD      int64         `env:"GEMINI_RPD" envDefault:"250"`
	GeminiTimezone string        `env:"GEMINI_TIMEZONE" envDefault:"UTC"`
	GeminiTimeout  time.Duration `env:"GEMINI_TIMEOUT" envDefault:"120s"`

	// Google OAuth settings
	GoogleOAuthClientID     string   `env:"GOOGLE_OAUTH_CLIENT_ID"`
	GoogleOAuthClientSecret string   `env:"GOOGLE_OAUTH_CLIENT_SECRET"`
	GoogleOAuthScopes       []string `env:"GOOGLE_OAUTH_SCOPES" envDefault:"openid,profile,email"`

	// Admin settings
	AdminProviderUserId string `env:"ADMIN_PROVIDER_USER_ID"`
	AdminProvider       string `env:"ADMIN_PROVIDER" envDefault:"google"`

	// Cloudflare R2
	R2BackupBucketName string `env:"R2_BACKUP_BUCKET_NAME"`
	R2AccountId        string `env:"R2_ACCOUNT_ID"`
	R2AccessKeyId      string `env:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey  string `env:"R2_SECRET_ACCESS_KEY"`

	// Redis
	RedisHost     string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisUsername string        `env:"REDIS_USERNAME"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	CacheTimeout  time.Duration `env:"CACHE_TIMEOUT" envDefault:"86400s"`

	// Postgres
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     int    `env:"DB_PORT" envDefault:"5432"`
	DBDatabase string `env:"DB_DATABASE"`
	DBUsername string `env:"DB_USERNAME"`
	DBPassword string `env:"DB_PASSWORD"`
	DBMaxConns int32  `env:"DB_MAX_CONNS" envDefault:"4"`

	// Local app host and port
	Host string `env:"HOST" envDefault:"localhost"`
	Port int    `env:"PORT" envDefault:"5000"`
}

// New creates new config object
func New() *Config {

	// Parse the config from the environment
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to parse the config; %v", err)
	}

	numCPU := runtime.NumCPU()
	if numCPU > math.MaxInt32 || numCPU < math.MinInt32 {
		log.Fatalf("failed to get proper CPU cores count: %d", numCPU)
	}

	// Cap the DBMaxConns to the number of cores
	cfg.DBMaxConns = max(cfg.DBMaxConns, int32(numCPU))

	// The transcript proxy and the backup job carry no session secrets
	if cfg.Target != App {
		return &cfg
	}

	// Check if the app has all the necessary secrets
	secrets := []Secret{cfg.CsrfKey, cfg.AuthKey, cfg.EncryptionKey}
	for _, secret := range secrets {
		if len(secret.Bytes) == 0 {
			log.Fatalf("empty or no secret key defined in env: %s", secret)
		}
	}

	return &cfg
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
// It's called by the env library to decode the Secret.
func (s *Secret) UnmarshalText(text []byte) error {

	s.Bytes = make([]byte, base64.StdEncoding.DecodedLen(len(text)))
	n, err := base64.StdEncoding.Decode(s.Bytes, text)
	if err != nil {
		return fmt.Errorf("error decoding a secret key; %w", err)
	}

	s.Bytes = s.Bytes[:n]
	return nil
}
