package main

import (
	"log/slog"
	"os"

	"github.com/mrzappu/LastRpcode/config"
	"gopkg.in/yaml.v3"
)

func main() {
	slog.Info("generating example config")
	conf, err := config.Defaults()
	if err != nil {
		slog.Error("failed to load defaults", "err", err)
		os.Exit(1)
	}

	confYAML, err := yaml.Marshal(conf)
	if err != nil {
		slog.Error("failed to marshal example yaml", "err", err)
		os.Exit(1)
	}

	err = os.WriteFile("./config.example.yaml", confYAML, 0644)
	if err != nil {
		slog.Error("failed to write example conf to file", "err", err)
		os.Exit(1)
	}
}
