package main

import (
	"strings"
	"time"

	"studiobid/internal/auctionapi"
	"studiobid/internal/config"
	listing "studiobid/internal/listingService"
	"studiobid/internal/repository"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ParseArgs reads flags, then STUDIOBID_* environment variables on top
func ParseArgs() config.Config {
	// server config
	pflag.String("server-addr", ":8080", "listen address")
	pflag.String("log-level", "info", "logrus level")
	pflag.Int("page-size", listing.DefaultPageSize, "listings per feed page")

	// auction api config
	pflag.String("api-base-url", auctionapi.DefaultBaseURL, "auction API base url")
	pflag.String("api-key", "", "auction API key")
	pflag.Duration("api-timeout", 15*time.Second, "per-call timeout")
	pflag.Float64("api-rate-limit", 5, "max calls per second to the auction API, 0 disables")
	pflag.Int("api-rate-burst", 10, "burst for the auction API limiter")

	// session config
	pflag.String("session-backend", config.BackendMemory, "memory or redis")
	pflag.Duration("session-ttl", 7*24*time.Hour, "idle session lifetime")
	pflag.Duration("session-sweep", 5*time.Minute, "memory backend eviction interval")
	pflag.String("session-cookie", "studiobid_session", "session cookie name")
	pflag.Bool("session-cookie-secure", false, "send the cookie over https only")
	pflag.String("session-cookie-domain", "", "session cookie domain")

	// redis config
	pflag.String("redis-addr", "", "")
	pflag.String("redis-password", "", "")
	pflag.Int("redis-db", 0, "")
	pflag.String("redis-key-prefix", repository.DefaultKeyPrefix, "")

	// bind pflag to viper
	pflag.Parse()
	viper.BindPFlags(pflag.CommandLine)
	viper.AutomaticEnv()
	viper.SetEnvPrefix("STUDIOBID")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	return config.Config{
		ServerAddr: viper.GetString("server-addr"),
		LogLevel:   viper.GetString("log-level"),
		PageSize:   viper.GetInt("page-size"),
		API: config.APIConfig{
			BaseURL:    viper.GetString("api-base-url"),
			Key:        viper.GetString("api-key"),
			Timeout:    viper.GetDuration("api-timeout"),
			RatePerSec: viper.GetFloat64("api-rate-limit"),
			RateBurst:  viper.GetInt("api-rate-burst"),
		},
		Session: config.SessionConfig{
			Backend:      viper.GetString("session-backend"),
			TTL:          viper.GetDuration("session-ttl"),
			SweepEvery:   viper.GetDuration("session-sweep"),
			CookieName:   viper.GetString("session-cookie"),
			CookieSecure: viper.GetBool("session-cookie-secure"),
			CookieDomain: viper.GetString("session-cookie-domain"),
		},
		Redis: config.RedisConfig{
			Addr:      viper.GetString("redis-addr"),
			Password:  viper.GetString("redis-password"),
			DB:        viper.GetInt("redis-db"),
			KeyPrefix: viper.GetString("redis-key-prefix"),
		},
	}
}
