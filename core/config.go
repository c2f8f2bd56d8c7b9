package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppName  string
	Env      string // DEV (default), TEST, QA, PROD
	Debug    bool
	TestMode bool
	Build    string

	SecretKey        string
	DefaultFromEmail mail.Address
	FrontendBaseURL  string
	SendgridAPIKey   string
	RollbarToken     string

	Store struct {
		// DataFile is the flat-file record store; one student record per line.
		DataFile string
	}

	Database struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          string
		DisableTLS    bool
	}

	Server struct {
		Host                      string
		DebugHost                 string
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	// Admin is the single administrator credential; the legacy system had an
	// unauthenticated admin menu, this is the redesigned equivalent.
	Admin struct {
		Email    string
		Password string
	}

	Grading GradeScale
}

func (conf *Config) DatabaseAddress() string {
	return conf.Database.Host + ":" + conf.Database.Port
}

// NewConfig loads the app configuration from defaults, an optional
// `config/.env.<env>` file and `<ENV>_`-prefixed environment variables.
func NewConfig() *Config {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	// defaults
	v.SetDefault("debug", true)
	v.SetDefault("appName", "Sajili")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "w#x@t5p$kq&y7=_z9u(vr!m2c^j4h8n1b+g6f3d0s5a7l9e2")
	v.SetDefault("defaultFromEmail", "noreply@university.com")
	v.SetDefault("frontendBaseUrl", "http://localhost:3000")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("storeDataFile", "students.data")

	v.SetDefault("databaseEngine", "postgres")
	v.SetDefault("databaseName", "sajili")
	v.SetDefault("databaseUser", "")
	v.SetDefault("databasePassword", "")
	v.SetDefault("databaseAdminUser", "")
	v.SetDefault("databaseAdminPassword", "")
	v.SetDefault("databaseHost", "localhost")
	v.SetDefault("databasePort", "5432")
	v.SetDefault("databaseDisableTls", true)

	v.SetDefault("serverHost", "localhost:8000")
	v.SetDefault("serverDebugHost", "localhost:4000")
	v.SetDefault("jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("jwtRefreshExpirationDelta", 4*time.Hour)

	v.SetDefault("adminEmail", "admin@university.com")
	v.SetDefault("adminPassword", "Admin123")

	// grade policy; the legacy thresholds are only defaults
	v.SetDefault("gradeHighDistinction", 85.0)
	v.SetDefault("gradeDistinction", 75.0)
	v.SetDefault("gradeCredit", 65.0)
	v.SetDefault("gradePass", 50.0)

	var testMode bool
	env := os.Getenv("ENV")
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		testMode = true
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	conf := &Config{
		AppName:          v.GetString("appName"),
		Env:              env,
		Debug:            v.GetBool("debug"),
		TestMode:         testMode,
		Build:            v.GetString("build"),
		SecretKey:        v.GetString("secretKey"),
		DefaultFromEmail: mail.Address{Name: v.GetString("appName"), Address: v.GetString("defaultFromEmail")},
		FrontendBaseURL:  v.GetString("frontendBaseUrl"),
		SendgridAPIKey:   v.GetString("sendgridApiKey"),
		RollbarToken:     v.GetString("rollbarToken"),
		Grading: GradeScale{
			HighDistinction: v.GetFloat64("gradeHighDistinction"),
			Distinction:     v.GetFloat64("gradeDistinction"),
			Credit:          v.GetFloat64("gradeCredit"),
			Pass:            v.GetFloat64("gradePass"),
		},
	}
	conf.Store.DataFile = v.GetString("storeDataFile")
	conf.Database.Engine = v.GetString("databaseEngine")
	conf.Database.Name = v.GetString("databaseName")
	conf.Database.User = v.GetString("databaseUser")
	conf.Database.Password = v.GetString("databasePassword")
	conf.Database.AdminUser = v.GetString("databaseAdminUser")
	conf.Database.AdminPassword = v.GetString("databaseAdminPassword")
	conf.Database.Host = v.GetString("databaseHost")
	conf.Database.Port = v.GetString("databasePort")
	conf.Database.DisableTLS = v.GetBool("databaseDisableTls")
	conf.Server.Host = v.GetString("serverHost")
	conf.Server.DebugHost = v.GetString("serverDebugHost")
	conf.Server.JWTExpirationDelta = v.GetDuration("jwtExpirationDelta")
	conf.Server.JWTRefreshExpirationDelta = v.GetDuration("jwtRefreshExpirationDelta")
	conf.Admin.Email = v.GetString("adminEmail")
	conf.Admin.Password = v.GetString("adminPassword")
	return conf
}
