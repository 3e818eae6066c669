// Package config holds the validated runtime configuration.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

// Session store backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type APIConfig struct {
	BaseURL    string
	Key        string
	Timeout    time.Duration
	RatePerSec float64
	RateBurst  int
}

type SessionConfig struct {
	Backend      string
	TTL          time.Duration
	SweepEvery   time.Duration
	CookieName   string
	CookieSecure bool
	CookieDomain string
}

type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// Config is everything main needs to wire the service
type Config struct {
	ServerAddr string
	LogLevel   string
	PageSize   int
	API        APIConfig
	Session    SessionConfig
	Redis      RedisConfig
}

// Validate reports every problem with c at once
func (c Config) Validate() error {
	var errs []error

	if c.ServerAddr == "" {
		errs = append(errs, errors.New("server address is required"))
	}
	if c.API.Key == "" {
		errs = append(errs, errors.New("api key is required"))
	}
	if u, err := url.Parse(c.API.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api base url %q must be an absolute http(s) url", c.API.BaseURL))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, errors.New("api timeout must be positive"))
	}
	if c.API.RatePerSec < 0 {
		errs = append(errs, errors.New("api rate limit cannot be negative"))
	}
	if c.PageSize < 1 || c.PageSize > 100 {
		errs = append(errs, fmt.Errorf("page size %d must be between 1 and 100", c.PageSize))
	}
	if c.Session.CookieName == "" {
		errs = append(errs, errors.New("session cookie name is required"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session ttl must be positive"))
	}

	switch c.Session.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, errors.New("redis address is required for the redis session backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown session backend %q", c.Session.Backend))
	}

	return errors.Join(errs...)
}
