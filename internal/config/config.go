package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Upstream Upstream `koanf:"upstream"`
	Sheets   Sheets   `koanf:"sheets"`
	Budget   Budget   `koanf:"budget"`
	Database Database `koanf:"db"`
}

// Upstream configures the remote expense records API.
type Upstream struct {
	BaseUrl string       `koanf:"baseurl"`
	ApiKey  string       `koanf:"apikey"`
	Auth    UpstreamAuth `koanf:"auth"`
}

// UpstreamAuth holds OAuth2 client-credentials settings. When TokenUrl is
// empty the client falls back to the static ApiKey header.
type UpstreamAuth struct {
	TokenUrl     string `koanf:"tokenurl"`
	ClientId     string `koanf:"clientid"`
	ClientSecret string `koanf:"clientsecret"`
}

// Sheets configures the Google Sheets import source. CredentialsFile points at
// a service account key; imports are disabled when it is empty.
type Sheets struct {
	CredentialsFile string `koanf:"credentialsfile"`
}

// Budget holds the settings handed to users who have not saved their own yet.
type Budget struct {
	DefaultMonthlyLimit          float64 `koanf:"defaultmonthlylimit"`
	DefaultNotificationThreshold float64 `koanf:"defaultnotificationthreshold"`
}

type Database struct {
	Host   string `koanf:"host"`
	Port   int    `koanf:"port"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
	Name   string `koanf:"name"`
	Schema string `koanf:"schema"`
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(Application{
		Budget: Budget{
			DefaultMonthlyLimit:          2000,
			DefaultNotificationThreshold: 80,
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "spendwell",
			Pass:   "",
			Name:   "spendwell",
			Schema: "spendwell",
		},
	}, "koanf"), nil)
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
		Prefix: "SPENDWELL_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "SPENDWELL_")), "_", ".")
			return k, v
		},
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
