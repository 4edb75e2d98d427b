package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPAddress string
	DatabaseURL string

	RedisAddress  string
	RedisPassword string
	RedisDB       int

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	AccessTokenTTL    time.Duration
	RefreshTokenTTL   time.Duration
	Issuer            string
	Audience          string
	PasswordPepper    string

	// Out-of-band codes (verification / password reset / 2FA) and the
	// OAuth exchange window.
	OOBTokenTTL  time.Duration
	OAuthCodeTTL time.Duration

	FrontendURL      string
	AllowedOrigins   []string
	AllowCredentials bool

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	PaystackBaseURL   string
	PaystackSecretKey string

	BrevoBaseURL string
	BrevoAPIKey  string
	SenderName   string
	SenderEmail  string

	FCMEndpoint string
	FCMAPIKey   string

	LogLevel string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	for _, key := range []string{
		"HTTP_ADDRESS", "DATABASE_URL",
		"REDIS_ADDRESS", "REDIS_PASSWORD", "REDIS_DB",
		"JWT_PRIVATE_KEY_PATH", "JWT_PUBLIC_KEY_PATH",
		"ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "ISSUER", "AUDIENCE",
		"PASSWORD_PEPPER", "OOB_TOKEN_TTL", "OAUTH_CODE_TTL",
		"FRONTEND_URL", "ALLOWED_ORIGINS", "ALLOW_CREDENTIALS",
		"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "GOOGLE_REDIRECT_URL",
		"PAYSTACK_BASE_URL", "PAYSTACK_SECRET_KEY",
		"BREVO_BASE_URL", "BREVO_API_KEY", "SENDER_NAME", "SENDER_EMAIL",
		"FCM_ENDPOINT", "FCM_API_KEY", "LOG_LEVEL",
	} {
		if err := viper.BindEnv(key); err != nil {
			return nil, err
		}
	}

	viper.SetDefault("HTTP_ADDRESS", ":8080")
	viper.SetDefault("ACCESS_TOKEN_TTL", "15m")
	viper.SetDefault("REFRESH_TOKEN_TTL", "168h")
	viper.SetDefault("OOB_TOKEN_TTL", "1h")
	viper.SetDefault("OAUTH_CODE_TTL", "5m")
	viper.SetDefault("PAYSTACK_BASE_URL", "https://api.paystack.co")
	viper.SetDefault("BREVO_BASE_URL", "https://api.brevo.com")
	viper.SetDefault("SENDER_NAME", "Mimipoint")
	viper.SetDefault("SENDER_EMAIL", "accounts@mimipoint.com")
	viper.SetDefault("ISSUER", "mimipoint")
	viper.SetDefault("AUDIENCE", "mimipoint-api")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		HTTPAddress:        viper.GetString("HTTP_ADDRESS"),
		DatabaseURL:        viper.GetString("DATABASE_URL"),
		RedisAddress:       viper.GetString("REDIS_ADDRESS"),
		RedisPassword:      viper.GetString("REDIS_PASSWORD"),
		RedisDB:            viper.GetInt("REDIS_DB"),
		JWTPrivateKeyPath:  viper.GetString("JWT_PRIVATE_KEY_PATH"),
		JWTPublicKeyPath:   viper.GetString("JWT_PUBLIC_KEY_PATH"),
		AccessTokenTTL:     viper.GetDuration("ACCESS_TOKEN_TTL"),
		RefreshTokenTTL:    viper.GetDuration("REFRESH_TOKEN_TTL"),
		Issuer:             viper.GetString("ISSUER"),
		Audience:           viper.GetString("AUDIENCE"),
		PasswordPepper:     viper.GetString("PASSWORD_PEPPER"),
		OOBTokenTTL:        viper.GetDuration("OOB_TOKEN_TTL"),
		OAuthCodeTTL:       viper.GetDuration("OAUTH_CODE_TTL"),
		FrontendURL:        viper.GetString("FRONTEND_URL"),
		AllowedOrigins:     viper.GetStringSlice("ALLOWED_ORIGINS"),
		AllowCredentials:   viper.GetBool("ALLOW_CREDENTIALS"),
		GoogleClientID:     viper.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: viper.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  viper.GetString("GOOGLE_REDIRECT_URL"),
		PaystackBaseURL:    viper.GetString("PAYSTACK_BASE_URL"),
		PaystackSecretKey:  viper.GetString("PAYSTACK_SECRET_KEY"),
		BrevoBaseURL:       viper.GetString("BREVO_BASE_URL"),
		BrevoAPIKey:        viper.GetString("BREVO_API_KEY"),
		SenderName:         viper.GetString("SENDER_NAME"),
		SenderEmail:        viper.GetString("SENDER_EMAIL"),
		FCMEndpoint:        viper.GetString("FCM_ENDPOINT"),
		FCMAPIKey:          viper.GetString("FCM_API_KEY"),
		LogLevel:           viper.GetString("LOG_LEVEL"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.RedisAddress == "" {
		return nil, fmt.Errorf("REDIS_ADDRESS is required")
	}
	if cfg.JWTPrivateKeyPath == "" || cfg.JWTPublicKeyPath == "" {
		return nil, fmt.Errorf("JWT key paths are required")
	}

	return cfg, nil
}
