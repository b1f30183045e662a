package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	apperr "github.com/matzehuels/chartsmith/pkg/errors"
)

// EnvPrefix prefixes every environment variable read by the overlay.
const EnvPrefix = "CHARTSMITH_"

// Lookup resolves an environment variable.
type Lookup func(key string) (string, bool)

// Env returns a lookup over the process environment, falling back to the
// .env file in dir. Process variables win over the file, as with
// godotenv.Load.
func Env(dir string) Lookup {
	file, err := godotenv.Read(filepath.Join(dir, ".env"))
	if err != nil {
		file = nil
	}
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	}
}

// applyEnv overlays CHARTSMITH_* variables:
//
//	CHARTSMITH_TITLE, CHARTSMITH_DATA_DIR, CHARTSMITH_OUT_DIR
//	CHARTSMITH_FORMATS        comma separated
//	CHARTSMITH_CACHE_BACKEND, CHARTSMITH_CACHE_URL, CHARTSMITH_CACHE_DIR
//	CHARTSMITH_CACHE_PREFIX, CHARTSMITH_CACHE_TTL
//	CHARTSMITH_HTTP_RETRIES, CHARTSMITH_HTTP_TIMEOUT
//	CHARTSMITH_ADDR
func (c *Config) applyEnv(lookup Lookup) error {
	strs := map[string]*string{
		"TITLE":         &c.Title,
		"DATA_DIR":      &c.DataDir,
		"OUT_DIR":       &c.OutDir,
		"CACHE_BACKEND": &c.Cache.Backend,
		"CACHE_URL":     &c.Cache.URL,
		"CACHE_DIR":     &c.Cache.Dir,
		"CACHE_PREFIX":  &c.Cache.Prefix,
		"CACHE_TTL":     &c.Cache.TTL,
		"HTTP_TIMEOUT":  &c.HTTP.Timeout,
		"ADDR":          &c.Server.Addr,
	}
	for name, dst := range strs {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	if v, ok := lookup(EnvPrefix + "FORMATS"); ok {
		c.Formats = splitList(v)
	}
	if v, ok := lookup(EnvPrefix + "HTTP_RETRIES"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return apperr.New(apperr.ErrCodeInvalidConfig, "%sHTTP_RETRIES: not an integer: %q", EnvPrefix, v)
		}
		c.HTTP.Retries = n
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
