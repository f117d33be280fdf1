// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package uploadlist

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sapcc/go-bits/assert"
)

func TestParseConfigurationDefaults(t *testing.T) {
	cfg, err := parseConfiguration()
	if err != nil {
		t.Fatal(err.Error())
	}
	assert.DeepEqual(t, "configuration", cfg, Configuration{
		BackendName:        "backend-a",
		ListenPort:         "8080",
		CORSAllowedOrigins: []string{"*"},
		EnableOpsAPI:       true,
		MigrateOnStartup:   false,
	})
	assert.DeepEqual(t, "listen address", cfg.ListenAddress(), ":8080")
}

func TestParseConfigurationFromEnvironment(t *testing.T) {
	t.Setenv("UPLOADLIST_BACKEND_NAME", "backend-b")
	t.Setenv("PORT", "9090")
	t.Setenv("UPLOADLIST_CORS_ALLOWED_ORIGINS", "https://a.example.org, https://b.example.org")
	t.Setenv("UPLOADLIST_ENABLE_OPS_API", "false")
	t.Setenv("UPLOADLIST_DB_MIGRATE_ON_STARTUP", "true")

	cfg, err := parseConfiguration()
	if err != nil {
		t.Fatal(err.Error())
	}
	assert.DeepEqual(t, "configuration", cfg, Configuration{
		BackendName:        "backend-b",
		ListenPort:         "9090",
		CORSAllowedOrigins: []string{"https://a.example.org", "https://b.example.org"},
		EnableOpsAPI:       false,
		MigrateOnStartup:   true,
	})

	// the prefixed variable wins over the alias
	t.Setenv("UPLOADLIST_LISTEN_PORT", "7070")
	cfg, err = parseConfiguration()
	if err != nil {
		t.Fatal(err.Error())
	}
	assert.DeepEqual(t, "listen port", cfg.ListenPort, "7070")
}

func TestParseConfigurationErrors(t *testing.T) {
	t.Run("empty backend name", func(t *testing.T) {
		t.Setenv("UPLOADLIST_BACKEND_NAME", "   ")
		_, err := parseConfiguration()
		if !errors.Is(err, ErrEmptyBackendName) {
			t.Errorf("expected ErrEmptyBackendName, but got %v", err)
		}
	})
	for _, port := range []string{"http", "0", "65536", "-1"} {
		t.Run("listen port "+port, func(t *testing.T) {
			t.Setenv("UPLOADLIST_LISTEN_PORT", port)
			_, err := parseConfiguration()
			if err == nil {
				t.Errorf("expected error for listen port %q, but got none", port)
			}
		})
	}
	t.Run("no origins", func(t *testing.T) {
		t.Setenv("UPLOADLIST_CORS_ALLOWED_ORIGINS", " , ")
		_, err := parseConfiguration()
		if err == nil {
			t.Error("expected error for empty origin list, but got none")
		}
	})
}

func TestGetDatabaseURLFromEnvironment(t *testing.T) {
	t.Setenv("DB_HOST", "db.example.org")
	t.Setenv("DB_USER", "uploader")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("UPLOADLIST_DB_NAME", "uploads")

	dbURL, dbName, err := GetDatabaseURLFromEnvironment()
	if err != nil {
		t.Fatal(err.Error())
	}
	assert.DeepEqual(t, "database name", dbName, "uploads")
	assert.DeepEqual(t, "host", dbURL.Host, "db.example.org:5432")
	assert.DeepEqual(t, "user", dbURL.User.Username(), "uploader")
	if dbURL.Query().Get("sslmode") == "require" {
		t.Error("expected certificate verification to not be relaxed by default")
	}

	t.Setenv("UPLOADLIST_DB_INSECURE_TLS", "true")
	dbURL, _, err = GetDatabaseURLFromEnvironment()
	if err != nil {
		t.Fatal(err.Error())
	}
	assert.DeepEqual(t, "sslmode", dbURL.Query().Get("sslmode"), "require")
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uploadlist.env")
	err := os.WriteFile(path, []byte("UPLOADLIST_BACKEND_NAME=from-file\nUPLOADLIST_LISTEN_PORT=8181\n"), 0o600)
	if err != nil {
		t.Fatal(err.Error())
	}
	t.Setenv("UPLOADLIST_ENV_FILE", path)
	t.Setenv("UPLOADLIST_LISTEN_PORT", "8282")
	// registers cleanup so that the variable from the file does not leak into other tests
	t.Setenv("UPLOADLIST_BACKEND_NAME", "")
	os.Unsetenv("UPLOADLIST_BACKEND_NAME")

	err = LoadEnvFile()
	if err != nil {
		t.Fatal(err.Error())
	}
	cfg, err := parseConfiguration()
	if err != nil {
		t.Fatal(err.Error())
	}
	assert.DeepEqual(t, "backend name", cfg.BackendName, "from-file")
	// variables from the environment win over the file
	assert.DeepEqual(t, "listen port", cfg.ListenPort, "8282")

	t.Setenv("UPLOADLIST_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	err = LoadEnvFile()
	if err == nil {
		t.Error("expected error for missing env file, but got none")
	}
}
