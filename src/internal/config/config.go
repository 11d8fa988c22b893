package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultConnectionString = "Host=localhost;Port=5432;Database=intl_payments_db;Username=postgres;Password=1&i355O8;Timeout=30;CommandTimeout=30"
const defaultListenAddr = ":8443"
const defaultTokenTTL = time.Hour

const encryptionKeyLength = 32

type Config struct {
	DatabaseDSN   string
	MigrationsDir string
	ListenAddr    string

	// EncryptionKey and HMACKey are read once here and never logged or
	// serialized anywhere else in the process.
	EncryptionKey []byte
	HMACKey       []byte

	JWTSecret []byte
	TokenTTL  time.Duration
}

// Load reads configuration from the environment. A missing or wrong-length
// ENCRYPTION_KEY is a hard error: the caller is expected to abort startup
// rather than run with a key that cannot decrypt existing data.
func Load() (Config, error) {
	conn := strings.TrimSpace(os.Getenv("DATABASE_DSN"))
	if conn == "" {
		conn = defaultConnectionString
	}

	listenAddr := strings.TrimSpace(os.Getenv("LISTEN_ADDR"))
	if listenAddr == "" {
		listenAddr = defaultListenAddr
	}

	encryptionKey, err := hex.DecodeString(strings.TrimSpace(os.Getenv("ENCRYPTION_KEY")))
	if err != nil {
		return Config{}, fmt.Errorf("ENCRYPTION_KEY must be hex encoded: %w", err)
	}
	if len(encryptionKey) != encryptionKeyLength {
		return Config{}, fmt.Errorf("ENCRYPTION_KEY must be exactly %d bytes (got %d); generate one with: openssl rand -hex %d", encryptionKeyLength, len(encryptionKey), encryptionKeyLength)
	}

	hmacKey := strings.TrimSpace(os.Getenv("HMAC_KEY"))
	if hmacKey == "" {
		return Config{}, fmt.Errorf("HMAC_KEY must be set and non-empty")
	}

	jwtSecret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if jwtSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set and non-empty")
	}

	tokenTTL := defaultTokenTTL
	if raw := strings.TrimSpace(os.Getenv("TOKEN_TTL")); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("TOKEN_TTL must be a duration like 1h: %w", err)
		}
		tokenTTL = parsed
	}

	return Config{
		DatabaseDSN:   normalizeConnectionString(conn),
		MigrationsDir: filepath.Join("src", "migrations"),
		ListenAddr:    listenAddr,
		EncryptionKey: encryptionKey,
		HMACKey:       []byte(hmacKey),
		JWTSecret:     []byte(jwtSecret),
		TokenTTL:      tokenTTL,
	}, nil
}

func normalizeConnectionString(raw string) string {
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	hasSSLMode := false

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		kv := strings.SplitN(p, "=", 2)
		if len(kv) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(kv[0]))
		val := strings.TrimSpace(kv[1])

		switch key {
		case "host":
			out = append(out, "host="+val)
		case "port":
			out = append(out, "port="+val)
		case "database":
			out = append(out, "dbname="+val)
		case "username":
			out = append(out, "user="+val)
		case "password":
			out = append(out, "password="+val)
		case "timeout", "connect timeout":
			out = append(out, "connect_timeout="+val)
		case "commandtimeout", "command timeout":
			out = append(out, "statement_timeout="+val+"s")
		case "sslmode":
			hasSSLMode = true
			out = append(out, "sslmode="+val)
		default:
			out = append(out, key+"="+val)
		}
	}

	if len(out) == 0 {
		return raw
	}

	if !hasSSLMode {
		out = append(out, "sslmode=disable")
	}

	return strings.Join(out, " ")
}
