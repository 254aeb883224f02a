package main

import (
    "flag"
    "fmt"
    "io"
    "os"
    "strings"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/kiliankoe/rummypool/internal/api"
    "github.com/kiliankoe/rummypool/internal/config"
    "github.com/kiliankoe/rummypool/internal/game"
    "github.com/kiliankoe/rummypool/internal/store"
    "github.com/kiliankoe/rummypool/internal/ws"
    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"
)

const version = "v1.0.0-dev"

func main() {
    var (
        showHelp    = flag.Bool("help", false, "Show help message")
        showVersion = flag.Bool("version", false, "Show version information")
        portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
        envFile     = flag.String("env", ".env", "Path to a .env file")
    )
    flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
    flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
    flag.Parse()

    if *showHelp {
        fmt.Printf(`Rummy Pool - score and prize pool tracker

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 8080 or PORT env var)
  --env FILE      Load environment from FILE (default: .env)

Environment Variables:
  PORT              Port to listen on (default: 8080)
  STORE             Game store: memory, file, sql or dynamo (default: file)
  DATA_DIR          Directory for the file store (default: ./data)
  DATABASE_URL      postgres:// URL or sqlite path for the sql store (default: rummypool.db)
  DYNAMO_TABLE      DynamoDB table for the dynamo store
  AWS_REGION        AWS region for the dynamo store
  EXPORT_ENABLED    Append every round to a text ledger (default: false)
  EXPORT_FILE       Path of the ledger (default: ./rummypool-ledger.txt)
  LOG_LEVEL         debug, info, warn or error (default: info)
  LOG_FORMAT        console or json (default: console)

Examples:
  %s                  Start server with default settings
  %s --port 3000      Start server on port 3000

Visit http://localhost:8080 after starting the server.
`, os.Args[0], os.Args[0], os.Args[0])
        return
    }

    if *showVersion {
        fmt.Printf("Rummy Pool %s\n", version)
        return
    }

    envErr := config.LoadDotEnv(*envFile)
    cfg := config.FromEnv()
    if *portFlag != "" {
        cfg.Port = *portFlag
    }

    setupLogging(cfg)
    if envErr != nil {
        log.Warn().Err(envErr).Str("file", *envFile).Msg("failed to load env file")
    }

    st, err := store.Open(cfg)
    if err != nil {
        log.Fatal().Err(err).Str("store", cfg.Store).Msg("failed to open store")
    }
    if c, ok := st.(io.Closer); ok {
        defer c.Close()
    }

    // Socket server + game manager
    sock := ws.New(nil)
    opts := []game.Option{game.WithNotifier(sock)}
    if cfg.ExportEnabled {
        opts = append(opts, game.WithExportFile(cfg.ExportFile))
    }
    gm := game.NewManager(st, opts...)
    sock.SetManager(gm)

    gin.SetMode(gin.ReleaseMode)
    r := api.New(gm).Router()
    sio := sock.Mount(r)
    defer sio.Close()

    log.Info().Str("port", cfg.Port).Str("store", cfg.Store).Bool("export", cfg.ExportEnabled).Msg("listening")
    if err := r.Run(":" + cfg.Port); err != nil {
        log.Fatal().Err(err).Msg("server stopped")
    }
}

func setupLogging(cfg config.Config) {
    zerolog.TimeFieldFormat = time.RFC3339
    level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
    if err != nil || level == zerolog.NoLevel {
        level = zerolog.InfoLevel
    }
    zerolog.SetGlobalLevel(level)
    if cfg.LogFormat == "json" {
        log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
        return
    }
    cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
    log.Logger = log.Output(cw)
}
