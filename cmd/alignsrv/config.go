package main

import (
	"encoding/xml"
	"fmt"
	"os"
)

// Config is the server configuration, read from an XML file.
type Config struct {
	XMLName  xml.Name `xml:"config"`
	Listen   string   `xml:"listen"`
	Database string   `xml:"database"`
}

func loadConfig(path string) (Config, error) {
	cfg := Config{Listen: ":8080", Database: "alignments.db"}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	if err := xml.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	if cfg.Database == "" {
		cfg.Database = "alignments.db"
	}
	return cfg, nil
}
