// Command secaware es el binario del servicio: API, migraciones y
// administración inicial.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var configPath string

func main() {
	// .env es opcional: en producción las vars llegan del entorno real.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "secaware",
		Short: "Security Awareness quiz platform API",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "configs/config.yaml", "ruta al YAML de configuración")

	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(adminCmd())
	root.AddCommand(seedCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
