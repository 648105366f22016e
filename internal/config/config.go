package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const DefaultPath = "./config/application.yaml"

const envPrefix = "OVERTRACK_"

// Storage backends a tracker blob can live in.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

var validBackends = []string{BackendMemory, BackendFile, BackendSQLite, BackendPostgres, BackendS3}

type Application struct {
	Port     int      `koanf:"port"`
	CORS     CORS     `koanf:"cors"`
	Storage  Storage  `koanf:"storage"`
	Database Database `koanf:"db"`
	S3       S3       `koanf:"s3"`
	Seed     Seed     `koanf:"seed"`
}

type CORS struct {
	AllowedOrigins []string `koanf:"allowedorigins"`
}

type Storage struct {
	Backend string `koanf:"backend"`
	// Key names the blob inside the backend.
	Key        string `koanf:"key"`
	Dir        string `koanf:"dir"`
	SQLitePath string `koanf:"sqlitepath"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

type S3 struct {
	Bucket   string `koanf:"bucket"`
	Prefix   string `koanf:"prefix"`
	Region   string `koanf:"region"`
	Endpoint string `koanf:"endpoint"`
	// PathStyle is needed by most S3 compatible servers such as MinIO.
	PathStyle bool `koanf:"pathstyle"`
}

type Seed struct {
	// Path of a YAML file used when no stored state exists yet. Empty means built-in defaults.
	Path string `koanf:"path"`
}

func Defaults() Application {
	return Application{
		Port: 8080,
		CORS: CORS{
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Storage: Storage{
			Backend:    BackendFile,
			Key:        "overtime-tracker-v3",
			Dir:        "./data",
			SQLitePath: "./data/overtrack.db",
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "overtrack",
			Pass:   "",
			Name:   "overtrack",
			Schema: "overtrack",
		},
		S3: S3{
			Prefix: "overtrack/",
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix:        envPrefix,
		TransformFunc: transformEnv,
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	return app, nil
}

// transformEnv maps OVERTRACK_STORAGE_BACKEND to storage.backend. List values are comma separated.
func transformEnv(k, v string) (string, any) {
	k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
	if k == "cors.allowedorigins" {
		var origins []string
		for _, origin := range strings.Split(v, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		return k, origins
	}
	return k, v
}

// Validate checks the configuration and reports every problem at once.
func (a Application) Validate() error {
	var errors []string

	if a.Port < 1 || a.Port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", a.Port))
	}

	if !slices.Contains(validBackends, a.Storage.Backend) {
		errors = append(errors, fmt.Sprintf("invalid storage backend '%s': must be one of %v", a.Storage.Backend, validBackends))
	}
	if strings.TrimSpace(a.Storage.Key) == "" {
		errors = append(errors, "storage key cannot be empty")
	}

	switch a.Storage.Backend {
	case BackendFile:
		if a.Storage.Dir == "" {
			errors = append(errors, "storage directory cannot be empty when using file backend")
		}
	case BackendSQLite:
		if a.Storage.SQLitePath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else if dir := filepath.Dir(a.Storage.SQLitePath); dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	case BackendPostgres:
		if a.Database.Host == "" || a.Database.Name == "" {
			errors = append(errors, "database host and name are required when using postgres backend")
		}
		if a.Database.Port < 1 || a.Database.Port > 65535 {
			errors = append(errors, fmt.Sprintf("invalid database port %d: must be between 1 and 65535", a.Database.Port))
		}
	case BackendS3:
		if a.S3.Bucket == "" {
			errors = append(errors, "S3 bucket is required when using s3 backend")
		}
	}

	if a.Seed.Path != "" {
		if _, err := os.Stat(a.Seed.Path); err != nil {
			errors = append(errors, fmt.Sprintf("seed file '%s' is not readable: %v", a.Seed.Path, err))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}
