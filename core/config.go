package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Address                   string
		DebugAddress              string
		Host                      string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	Config struct {
		AppName      string
		Env          string // DEV (local; default), TEST, QA, PROD
		Build        string
		Debug        bool
		TestMode     bool
		SecretKey    string
		RollbarToken string
		WorkDir      string

		// DataFile is the students CSV, re-read on every request.
		DataFile string

		// StaffAccounts maps staff emails to bcrypt password hashes.
		// env fmt: "email:hash,email:hash"
		StaffAccounts map[string]string

		Server ServerConfig
	}
)

// NewConfig loads the configuration from the environment,
// reading `config/.env.<env>` first if it exists.
func NewConfig() (*Config, error) {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Masomo Dashboard")
	conf.SetDefault("build", "dev")
	conf.SetDefault("secretKey", "poq5-wer)enb$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	conf.SetDefault("rollbarToken", "")
	conf.SetDefault("workDir", "")
	conf.SetDefault("dataFile", filepath.Join("data", "student_data.csv"))
	conf.SetDefault("staffAccounts", "")
	conf.SetDefault("serverAddress", ":8000")
	conf.SetDefault("serverDebugAddress", ":4000")
	conf.SetDefault("serverHost", "localhost")
	conf.SetDefault("serverShutdownTimeout", 5*time.Second)
	conf.SetDefault("jwtExpirationDelta", 8*time.Hour)
	conf.SetDefault("jwtRefreshExpirationDelta", 24*time.Hour)

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}
	testMode := env == "TEST"
	conf.SetEnvPrefix(env)

	wd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "getting working directory")
	}

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}
	conf.AutomaticEnv()

	workDir := conf.GetString("workDir")
	if workDir == "" {
		workDir = wd
	}
	dataFile := conf.GetString("dataFile")
	if !filepath.IsAbs(dataFile) {
		dataFile = filepath.Join(workDir, dataFile)
	}

	staff, err := parseStaffAccounts(conf.GetString("staffAccounts"))
	if err != nil {
		return nil, err
	}

	return &Config{
		AppName:       conf.GetString("appName"),
		Env:           env,
		Build:         conf.GetString("build"),
		Debug:         conf.GetBool("debug") && !testMode,
		TestMode:      testMode,
		SecretKey:     conf.GetString("secretKey"),
		RollbarToken:  conf.GetString("rollbarToken"),
		WorkDir:       workDir,
		DataFile:      dataFile,
		StaffAccounts: staff,
		Server: ServerConfig{
			Address:                   conf.GetString("serverAddress"),
			DebugAddress:              conf.GetString("serverDebugAddress"),
			Host:                      conf.GetString("serverHost"),
			ShutdownTimeout:           conf.GetDuration("serverShutdownTimeout"),
			JWTExpirationDelta:        conf.GetDuration("jwtExpirationDelta"),
			JWTRefreshExpirationDelta: conf.GetDuration("jwtRefreshExpirationDelta"),
		},
	}, nil
}

// parseStaffAccounts parses "email:hash,email:hash". bcrypt hashes never contain ':' or ','.
func parseStaffAccounts(s string) (map[string]string, error) {
	accounts := make(map[string]string)
	s = CleanString(s)
	if s == "" {
		return accounts, nil
	}
	for _, pair := range strings.Split(s, ",") {
		parts := strings.SplitN(CleanString(pair), ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return nil, errors.Errorf("invalid staff account entry %q", pair)
		}
		accounts[CleanString(parts[0], true /* lower */)] = parts[1]
	}
	return accounts, nil
}
