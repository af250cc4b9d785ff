package bookshelf

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Environment variables read once at startup. The signing key and
// database settings are fatal when absent; the process must not start
// serving without them.
const (
	EnvSigningKeyFile = "BOOKSHELF_JWT_KEY_FILE"
	EnvDatabaseDSN    = "BOOKSHELF_DB_DSN"
	EnvDatabasePass   = "BOOKSHELF_DB_PASSWORD_FILE"
	EnvDatabaseHost   = "BOOKSHELF_DB_HOST"
	EnvListenAddr     = "BOOKSHELF_LISTEN_ADDR"
)

const (
	defaultTokenTTL   = 30 * time.Minute
	defaultIssuer     = "go-bookshelf"
	defaultListenAddr = ":8572"
)

var defaultAudience = []string{"bookshelf-clients"}

var _ Config = (*EnvConfig)(nil)

// EnvConfig is the environment-backed Config implementation.
type EnvConfig struct {
	signingKey []byte
	dsn        string
	listenAddr string
	tokenTTL   time.Duration
	issuer     string
	audience   []string
}

// LoadConfig reads the environment and the secret files it points at.
// Any missing secret is returned as an error; callers treat it as fatal.
func LoadConfig() (*EnvConfig, error) {
	keyPath := os.Getenv(EnvSigningKeyFile)
	if keyPath == "" {
		return nil, fmt.Errorf("%s is not set", EnvSigningKeyFile)
	}

	key, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read signing key from %q: %w", keyPath, err)
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("signing key file %q is empty", keyPath)
	}

	dsn, err := resolveDSN()
	if err != nil {
		return nil, err
	}

	listenAddr := os.Getenv(EnvListenAddr)
	if listenAddr == "" {
		listenAddr = defaultListenAddr
	}

	return &EnvConfig{
		signingKey: key,
		dsn:        dsn,
		listenAddr: listenAddr,
		tokenTTL:   defaultTokenTTL,
		issuer:     defaultIssuer,
		audience:   defaultAudience,
	}, nil
}

// resolveDSN prefers an explicit DSN; otherwise it assembles one from the
// host and password-file variables the deployment provides.
func resolveDSN() (string, error) {
	if dsn := os.Getenv(EnvDatabaseDSN); dsn != "" {
		return dsn, nil
	}

	passPath := os.Getenv(EnvDatabasePass)
	if passPath == "" {
		return "", fmt.Errorf("neither %s nor %s is set", EnvDatabaseDSN, EnvDatabasePass)
	}

	pass, err := os.ReadFile(passPath)
	if err != nil {
		return "", fmt.Errorf("unable to read database password from %q: %w", passPath, err)
	}

	host := os.Getenv(EnvDatabaseHost)
	if host == "" {
		host = "localhost:5432"
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword("postgres", strings.TrimSpace(string(pass))),
		Host:     host,
		Path:     "/bookshelf",
		RawQuery: "sslmode=disable",
	}

	return dsn.String(), nil
}

func (c *EnvConfig) GetSigningKey() []byte      { return c.signingKey }
func (c *EnvConfig) GetTokenTTL() time.Duration { return c.tokenTTL }
func (c *EnvConfig) GetIssuer() string          { return c.issuer }
func (c *EnvConfig) GetAudience() []string      { return c.audience }
func (c *EnvConfig) GetAuthScheme() string      { return bearerScheme }
func (c *EnvConfig) GetContextKey() string      { return "session_user" }
func (c *EnvConfig) GetDSN() string             { return c.dsn }
func (c *EnvConfig) GetListenAddr() string      { return c.listenAddr }
