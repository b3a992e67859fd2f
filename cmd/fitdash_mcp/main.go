// Package main runs the fitdash MCP server over stdio for a single, fixed user.
// The same tools are served by the backend at /mcp over HTTP for session users.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/2beens/fitdash/internal/auth"
	"github.com/2beens/fitdash/internal/config"
	"github.com/2beens/fitdash/internal/db"
	"github.com/2beens/fitdash/internal/identity"
	"github.com/2beens/fitdash/internal/users"
	"github.com/2beens/fitdash/internal/workouts"
	workoutsmcp "github.com/2beens/fitdash/internal/workouts/mcp"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	principalID := flag.String("principal", os.Getenv("FITDASH_PRINCIPAL_ID"), "identity provider user id to act as")
	email := flag.String("email", os.Getenv("FITDASH_PRINCIPAL_EMAIL"), "email used when the user is created on first use")
	flag.Parse()

	// stdout belongs to the MCP transport
	log.SetOutput(os.Stderr)

	if *principalID == "" {
		log.Fatalln("principal not set, use -principal or FITDASH_PRINCIPAL_ID")
	}

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %s", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("location: %s", err)
	}

	ctx := context.Background()
	secrets, err := config.LoadSecrets(ctx)
	if err != nil {
		log.Fatalf("load secrets: %s", err)
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: secrets.DBPassword,
	})
	if err != nil {
		log.Fatalf("db pool: %s", err)
	}
	defer dbPool.Close()

	resolver := identity.NewResolver(
		auth.NewStaticProvider(*principalID, *email, nil, nil),
		users.NewRepo(dbPool),
		nil,
	)
	service := workouts.NewService(resolver, workouts.NewRepo(dbPool), loc, nil)

	server := workoutsmcp.NewServer(service, "stdio")
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Errorf("mcp server: %s", err)
	}
}
