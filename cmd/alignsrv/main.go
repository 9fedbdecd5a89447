// Command alignsrv serves the alignment design API over HTTP. Designs are
// stored as definitions in a SQLite database and rebuilt on demand; plan and
// profile drawings and centerline GeoJSON are generated per request.
package main

import (
	"flag"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/saikeicivil/alignment/store"
)

func main() {
	configPath := flag.String("config", "config.xml", "server configuration file")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	db, err := store.Open(cfg.Database)
	if err != nil {
		log.Fatal(err)
	}

	r := gin.Default()
	ac := &AlignmentController{DB: db}
	ac.Register(r)

	log.Printf("listening on %s (database %s)", cfg.Listen, cfg.Database)
	if err := r.Run(cfg.Listen); err != nil {
		log.Fatal(err)
	}
}
