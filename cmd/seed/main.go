// seed importa el catálogo de precios y las recetas desde CSV al almacén configurado
// (STORE_DRIVER, DATABASE_URL, MONGO_URI...).
//
// Uso:
//
//	go run ./cmd/seed products productos.csv
//	go run ./cmd/seed recipes recetas.csv
//
// Acepta UTF-8 o ISO-8859-1 (exportaciones de Excel).
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(&productsCmd{}, "catálogo")
	commander.Register(&recipesCmd{}, "catálogo")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
