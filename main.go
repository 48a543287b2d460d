package main

import (
	"github.com/alecthomas/kong"
	"github.com/foomo/contentserver-jsonld/jsonld"
	"github.com/foomo/contentserver-jsonld/mcp"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type CLI struct {
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Config  string           `short:"c" type:"existingfile" env:"JSONLD_CONFIG" help:"YAML file overriding the structured data rules (fallback hours, offers, FAQ label)"`
	Version kong.VersionFlag `help:"Show version and exit"`

	Serve ServeCmd `cmd:"" help:"Run the MCP server on stdio or HTTP"`
	Build BuildCmd `cmd:"" help:"Build JSON-LD documents from a content record file"`
	Fetch FetchCmd `cmd:"" help:"Build JSON-LD documents for a content server path"`
}

// Globals is handed to every command's Run
type Globals struct {
	Logger  *zap.Logger
	Builder *jsonld.Builder
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	// a missing .env is fine
	_ = godotenv.Load()

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("contentserver-jsonld"),
		kong.Description("Builds schema.org JSON-LD for location content records."),
		kong.UsageOnError(),
		kong.Vars{"version": mcp.Version},
	)

	logger, err := newLogger(cli.Verbose)
	kctx.FatalIfErrorf(err)
	defer func() { _ = logger.Sync() }()

	cfg := jsonld.DefaultConfig()
	if cli.Config != "" {
		cfg, err = jsonld.LoadConfig(cli.Config)
		kctx.FatalIfErrorf(err)
		logger.Debug("loaded structured data config", zap.String("path", cli.Config))
	}

	kctx.FatalIfErrorf(kctx.Run(&Globals{
		Logger:  logger,
		Builder: jsonld.NewBuilder(cfg),
	}))
}
