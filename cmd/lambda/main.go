package main

import (
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/kiliankoe/rummypool/internal/api"
	"github.com/kiliankoe/rummypool/internal/config"
	"github.com/kiliankoe/rummypool/internal/game"
	"github.com/kiliankoe/rummypool/internal/store"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// The Lambda build serves the JSON API and views from DynamoDB. There is
// no socket.io feed, API Gateway proxy requests are one-shot.
func main() {
	cfg := config.FromEnv()
	if cfg.DynamoTable == "" {
		// fall back to the variable the table stack exports
		cfg.DynamoTable = os.Getenv("TABLE_NAME")
	}

	// CloudWatch wants plain JSON lines
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && level != zerolog.NoLevel {
		zerolog.SetGlobalLevel(level)
	}

	st, err := store.OpenDynamo(cfg.AWSRegion, cfg.DynamoTable)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to create dynamo store")
	}

	gin.SetMode(gin.ReleaseMode)
	r := api.New(game.NewManager(st)).Router()
	lambda.Start(ginadapter.New(r).ProxyWithContext)
}
