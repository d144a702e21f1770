package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type BaseEnv struct {
	Env      string `envconfig:"ENV" default:"local"`
	HTTPHost string `envconfig:"HTTP_HOST" default:""`
	HTTPPort string `envconfig:"HTTP_PORT" default:"3200"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"debug"`
}

type StorageEnv struct {
	Type    string `envconfig:"STORAGE_TYPE" default:"local"`
	BaseDir string `envconfig:"STORAGE_BASE_DIR" default:".planwise/data"`
	// S3 settings (used when Type == "s3")
	S3Bucket string `envconfig:"S3_BUCKET"`
	S3Prefix string `envconfig:"S3_PREFIX" default:"planwise/"`
	S3Region string `envconfig:"S3_REGION" default:"ap-northeast-1"`
}

// AuthEnv configures token issuance. JWTSecret is validated by the HTTP
// server at startup; the stdio MCP binary runs without it.
type AuthEnv struct {
	JWTSecret string        `envconfig:"JWT_SECRET"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
}

// BootstrapEnv seeds the first admin account at server startup. Empty
// AdminEmail disables seeding.
type BootstrapEnv struct {
	AdminEmail    string `envconfig:"ADMIN_EMAIL"`
	AdminName     string `envconfig:"ADMIN_NAME" default:"Administrator"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD"`
}

type VAPIDEnv struct {
	VAPIDPublicKey  string `envconfig:"VAPID_PUBLIC_KEY"`
	VAPIDPrivateKey string `envconfig:"VAPID_PRIVATE_KEY"`
	VAPIDContact    string `envconfig:"VAPID_CONTACT" default:"mailto:admin@planwise.dev"`
}

// MCPEnv configures the stdio MCP transport. The stdio session has no
// authentication handshake, so every tool call runs as UserID.
type MCPEnv struct {
	UserID string `envconfig:"MCP_USER_ID"`
}

type Env struct {
	BaseEnv
	StorageEnv
	AuthEnv
	BootstrapEnv
	VAPIDEnv
	MCPEnv
}

const namespace = "PLANWISE"

func LoadEnv() (*Env, error) {
	var env Env
	if err := envconfig.Process(namespace, &env); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}
	return &env, nil
}

func (e *BaseEnv) SlogLevel() slog.Level {
	if e == nil {
		return slog.LevelDebug
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.LogLevel)); err != nil {
		return slog.LevelDebug
	}
	return level
}

func BaseEnvFromEnv(env *Env) *BaseEnv {
	return &env.BaseEnv
}

func StorageEnvFromEnv(env *Env) *StorageEnv {
	return &env.StorageEnv
}

func AuthEnvFromEnv(env *Env) *AuthEnv {
	return &env.AuthEnv
}

func VAPIDEnvFromEnv(env *Env) *VAPIDEnv {
	return &env.VAPIDEnv
}
