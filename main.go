package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ATMackay/website-go/api"
	"github.com/ATMackay/website-go/config"
	"github.com/ATMackay/website-go/database"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		zlog.Debug().Err(err).Msg("no .env file loaded, using process environment")
	}

	c := config.New()
	configureLogging(c)

	db, err := openDatabase(c)
	if err != nil {
		zlog.Fatal().Err(err).Msg("error connecting to database")
	}

	// Create the three tables if they are absent. No migration versioning.
	if err := database.Migrate(db); err != nil {
		zlog.Fatal().Err(err).Msg("error migrating database schema")
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(database.New(db), c)
	if err != nil {
		zlog.Fatal().Err(err).Msg("error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	zlog.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// openDatabase connects to the store named by DB_URI: a postgres DSN when one
// is given, otherwise an embedded SQLite file (default posts.db).
func openDatabase(c map[string]string) (*gorm.DB, error) {
	uri := config.GetString(c, "DB_URI", "posts.db")

	logLevel := gormlogger.Warn
	if config.GetBool(c, "DEBUG_MODE", false) {
		logLevel = gormlogger.Info
	}
	gormConfig := &gorm.Config{Logger: gormlogger.Default.LogMode(logLevel)}

	if strings.HasPrefix(uri, "postgres://") || strings.Contains(uri, "host=") {
		zlog.Info().Msg("connecting to postgres database")
		return gorm.Open(postgres.New(postgres.Config{DSN: uri}), gormConfig)
	}

	uri = strings.TrimPrefix(uri, "sqlite://")
	zlog.Info().Str("path", uri).Msg("opening sqlite database")
	return gorm.Open(sqlite.Open(uri), gormConfig)
}

func configureLogging(c map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if config.GetBool(c, "DEBUG_MODE", false) {
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
