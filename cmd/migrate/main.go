// migrate applies or rolls back the embedded schema migrations.
package main

import (
	"flag"
	"fmt"
	"os"

	"todo-app/internal/config"
	"todo-app/internal/db"
)

func main() {
	configPath := flag.String("config", "config/app.yaml", "path to the YAML config file")
	direction := flag.String("direction", "up", "Migration direction: up or down")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	if err := db.Migrate(cfg.DBDriver, cfg.DBDSN, *direction); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
	fmt.Printf("migrations %s: ok (%s)\n", *direction, cfg.DBDriver)
}
