package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	return &Config{
		App: AppConfig{
			Environment: "development",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Data: DataConfig{
			BasePath: "/some/path",
		},
		Admin: AdminConfig{
			Username: "admin",
			Password: "secret",
		},
		RateLimit: RateLimitConfig{
			LoginPerMinute: 10,
			BidsPerMinute:  30,
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	err := validTestConfig().Validate()
	assert.NoError(t, err)
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validTestConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"INFO", true}, // case insensitive
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validTestConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AdminCredentials(t *testing.T) {
	cfg := validTestConfig()
	cfg.Admin.Username = ""
	assert.Error(t, cfg.Validate())

	// Empty password is tolerated outside production.
	cfg = validTestConfig()
	cfg.Admin.Password = ""
	assert.NoError(t, cfg.Validate())

	cfg = validTestConfig()
	cfg.App.Environment = "production"
	cfg.Admin.Password = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_RateLimits(t *testing.T) {
	cfg := validTestConfig()
	cfg.RateLimit.LoginPerMinute = 0
	assert.Error(t, cfg.Validate())

	cfg = validTestConfig()
	cfg.RateLimit.BidsPerMinute = -1
	assert.Error(t, cfg.Validate())
}

func TestStorePaths(t *testing.T) {
	cfg := validTestConfig()

	assert.Equal(t, filepath.Join("/some/path", "store"), cfg.StorePath())
	assert.Equal(t, filepath.Join("/some/path", "auth.key"), cfg.AuthKeyPath())
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("LIONBID_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "LIONBID_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "LIONBID_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "LIONBID_TEST_MISSING", "default"))
}

func TestGetIntConfigValue(t *testing.T) {
	t.Setenv("LIONBID_TEST_INT", "42")
	assert.Equal(t, 42, getIntConfigValue("", "LIONBID_TEST_INT", 7))

	t.Setenv("LIONBID_TEST_INT", "not-a-number")
	assert.Equal(t, 7, getIntConfigValue("", "LIONBID_TEST_INT", 7))

	assert.Equal(t, 7, getIntConfigValue("", "LIONBID_TEST_INT_MISSING", 7))
}

func TestExpandPath_Tilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded, err := expandPath("~/lions/data", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "lions", "data"), expanded)
}

func TestExpandPath_EmptyUsesDefault(t *testing.T) {
	expanded, err := expandPath("", "/default/path")
	require.NoError(t, err)
	assert.Equal(t, "/default/path", expanded)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := "# comment\nADMIN_USERNAME_TESTFILE=alice\nQUOTED_TESTFILE=\"hello\"\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Cleanup(func() {
		os.Unsetenv("ADMIN_USERNAME_TESTFILE")
		os.Unsetenv("QUOTED_TESTFILE")
	})

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "alice", os.Getenv("ADMIN_USERNAME_TESTFILE"))
	assert.Equal(t, "hello", os.Getenv("QUOTED_TESTFILE"))
}

func TestLoadEnvFile_EnvTakesPrecedence(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("PRESET_TESTFILE=from-file\n"), 0o600))

	t.Setenv("PRESET_TESTFILE", "from-env")

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "from-env", os.Getenv("PRESET_TESTFILE"))
}
