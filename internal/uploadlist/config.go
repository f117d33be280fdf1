// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package uploadlist

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sapcc/go-bits/easypg"
	"github.com/sapcc/go-bits/logg"
	"github.com/sapcc/go-bits/osext"
)

// Configuration contains all configuration values that are read from the
// process environment.
type Configuration struct {
	// BackendName identifies this instance. It is written into every stored
	// request and reported by the API.
	BackendName string
	// ListenPort is the TCP port of the HTTP server.
	ListenPort string
	// CORSAllowedOrigins is given to the CORS middleware. The default is "*".
	CORSAllowedOrigins []string
	// EnableOpsAPI mounts /init-db and /metrics and records request durations.
	EnableOpsAPI bool
	// MigrateOnStartup applies the schema migrations when connecting to the DB.
	MigrateOnStartup bool
}

// ListenAddress returns the address for the HTTP server.
func (c Configuration) ListenAddress() string {
	return ":" + c.ListenPort
}

// LoadEnvFile reads UPLOADLIST_ENV_FILE, if set, into the process environment.
// Variables that are already set take precedence over the file.
func LoadEnvFile() error {
	path := os.Getenv("UPLOADLIST_ENV_FILE")
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err != nil {
		return fmt.Errorf("cannot load UPLOADLIST_ENV_FILE: %w", err)
	}
	return nil
}

// ParseConfiguration obtains a Configuration instance from the corresponding
// environment variables. Aborts on error.
func ParseConfiguration() Configuration {
	logg.Debug("parsing configuration...")
	cfg, err := parseConfiguration()
	if err != nil {
		logg.Fatal(err.Error())
	}
	return cfg
}

func parseConfiguration() (Configuration, error) {
	cfg := Configuration{
		BackendName:      strings.TrimSpace(osext.GetenvOrDefault("UPLOADLIST_BACKEND_NAME", "backend-a")),
		ListenPort:       getenvWithAlias("UPLOADLIST_LISTEN_PORT", "PORT", "8080"),
		EnableOpsAPI:     getenvBoolOrDefault("UPLOADLIST_ENABLE_OPS_API", true),
		MigrateOnStartup: osext.GetenvBool("UPLOADLIST_DB_MIGRATE_ON_STARTUP"),
	}
	if cfg.BackendName == "" {
		return Configuration{}, ErrEmptyBackendName
	}
	port, err := strconv.ParseUint(cfg.ListenPort, 10, 16)
	if err != nil || port == 0 {
		return Configuration{}, fmt.Errorf("malformed listen port: %q", cfg.ListenPort)
	}

	for _, origin := range strings.Split(osext.GetenvOrDefault("UPLOADLIST_CORS_ALLOWED_ORIGINS", "*"), ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Configuration{}, fmt.Errorf("UPLOADLIST_CORS_ALLOWED_ORIGINS does not contain any origins")
	}

	return cfg, nil
}

// GetDatabaseURLFromEnvironment reads the UPLOADLIST_DB_* environment variables.
// The unprefixed names (DB_HOST etc.) are accepted as fallbacks.
func GetDatabaseURLFromEnvironment() (dbURL url.URL, dbName string, err error) {
	dbName = getenvWithAlias("UPLOADLIST_DB_NAME", "DB_NAME", "uploadlist")

	var extraOpts map[string]string
	if osext.GetenvBool("UPLOADLIST_DB_INSECURE_TLS") {
		// encrypt the connection, but do not verify the server certificate
		logg.Info("UPLOADLIST_DB_INSECURE_TLS is set: TLS certificates of the database server will NOT be verified")
		extraOpts = map[string]string{"sslmode": "require"}
	}

	dbURL, err = easypg.URLFrom(easypg.URLParts{
		HostName:               getenvWithAlias("UPLOADLIST_DB_HOSTNAME", "DB_HOST", "localhost"),
		Port:                   getenvWithAlias("UPLOADLIST_DB_PORT", "DB_PORT", "5432"),
		UserName:               getenvWithAlias("UPLOADLIST_DB_USERNAME", "DB_USER", "postgres"),
		Password:               getenvWithAlias("UPLOADLIST_DB_PASSWORD", "DB_PASSWORD", ""),
		ConnectionOptions:      os.Getenv("UPLOADLIST_DB_CONNECTION_OPTIONS"),
		ExtraConnectionOptions: extraOpts,
		DatabaseName:           dbName,
	})
	return dbURL, dbName, err
}

func getenvWithAlias(key, alias, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return osext.GetenvOrDefault(alias, defaultValue)
}

func getenvBoolOrDefault(key string, defaultValue bool) bool {
	if os.Getenv(key) == "" {
		return defaultValue
	}
	return osext.GetenvBool(key)
}
