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
	Host     string   `koanf:"host"`
	Report   Report   `koanf:"report"`
	Database Database `koanf:"db"`
}

// Report carries the default aggregation options. Shift windows and the
// cutoff are "HH:MM:SS" clock strings; an empty cutoff disables the
// early-morning attribution rule and zero working hours disables the
// efficiency ratio.
type Report struct {
	DayShiftStart      string  `koanf:"dayshiftstart"`
	DayShiftEnd        string  `koanf:"dayshiftend"`
	NightShiftStart    string  `koanf:"nightshiftstart"`
	NightShiftEnd      string  `koanf:"nightshiftend"`
	EarlyMorningCutoff string  `koanf:"earlymorningcutoff"`
	IdlePolicy         string  `koanf:"idlepolicy"`
	WorkingHours       float64 `koanf:"workinghours"`
	ValidateOrder      bool    `koanf:"validateorder"`
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
		Host: "http://localhost:8282",
		Report: Report{
			DayShiftStart:   "06:00:00",
			DayShiftEnd:     "16:29:00",
			NightShiftStart: "16:30:00",
			NightShiftEnd:   "03:00:00",
			IdlePolicy:      "finish-to-start",
			ValidateOrder:   true,
		},
		Database: Database{
			Host:   "localhost",
			Port:   5432,
			User:   "partline",
			Pass:   "",
			Name:   "partline",
			Schema: "partline",
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
		Prefix: "PARTLINE_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "PARTLINE_")), "_", ".")
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
