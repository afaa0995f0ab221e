package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/drivers"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

type stageFunc func(w repository.Writer, rows [][]string, now time.Time) (int, error)

type productsCmd struct {
	dryRun bool
}

func (*productsCmd) Name() string     { return "products" }
func (*productsCmd) Synopsis() string { return "importa el catálogo de precios" }
func (*productsCmd) Usage() string {
	return `products [-dry-run] <productos.csv>

  Columnas: id,name,category,price,dealer_price
  Los precios vacíos quedan sin definir y el ajuste masivo los omite.
`
}

func (c *productsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.dryRun, "dry-run", false, "valida el archivo sin escribir en el almacén")
}

func (c *productsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runImport(ctx, f, "products", c.dryRun, stageProducts)
}

type recipesCmd struct {
	dryRun bool
}

func (*recipesCmd) Name() string     { return "recipes" }
func (*recipesCmd) Synopsis() string { return "importa las recetas (productos terminados)" }
func (*recipesCmd) Usage() string {
	return `recipes [-dry-run] <recetas.csv>

  Columnas: id,product_name,sku,product_id,stock_finished
  product_id enlaza la receta con el catálogo de precios; stock_finished vacío es 0.
`
}

func (c *recipesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.dryRun, "dry-run", false, "valida el archivo sin escribir en el almacén")
}

func (c *recipesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runImport(ctx, f, "recipes", c.dryRun, stageRecipes)
}

// runImport lee el CSV, arma un único lote y lo confirma con RunAtomic: el archivo entra completo o no entra.
func runImport(ctx context.Context, f *flag.FlagSet, kind string, dryRun bool, stage stageFunc) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: se requiere exactamente un archivo CSV.")
		return subcommands.ExitUsageError
	}
	file := f.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		return subcommands.ExitFailure
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: cfg.App.Name}).Component("seed")

	batch := repository.NewBatch()
	n, err := readFile(file, func(rows [][]string) (int, error) {
		return stage(batch, rows, time.Now().UTC())
	})
	if err != nil {
		log.Error().Err(err).Str("file", file).Str("kind", kind).Msg("archivo inválido")
		return subcommands.ExitFailure
	}
	if dryRun {
		log.Info().Int("rows", n).Str("kind", kind).Msg("archivo válido (dry-run)")
		return subcommands.ExitSuccess
	}

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	store, closeStore, err := drivers.Open(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Str("store", cfg.Store.Driver).Msg("conexión al almacén de documentos")
		return subcommands.ExitFailure
	}
	defer closeStore()

	if err := store.RunAtomic(ctx, batch.Writes()); err != nil {
		log.Error().Err(err).Str("kind", kind).Msg("escritura del catálogo")
		return subcommands.ExitFailure
	}
	log.Info().Int("rows", n).Str("kind", kind).Str("store", cfg.Store.Driver).Msg("catálogo importado")
	return subcommands.ExitSuccess
}

func readFile(path string, stage func(rows [][]string) (int, error)) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	rows, err := readRows(f)
	if err != nil {
		return 0, err
	}
	return stage(rows)
}
