package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rikikangsc2r/minigames-backend/internal/config"
	"github.com/rikikangsc2r/minigames-backend/internal/game"
	"github.com/rikikangsc2r/minigames-backend/internal/game/chess"
	"github.com/rikikangsc2r/minigames-backend/internal/game/connectfour"
	"github.com/rikikangsc2r/minigames-backend/internal/game/crossword"
	"github.com/rikikangsc2r/minigames-backend/internal/game/gobblet"
	"github.com/rikikangsc2r/minigames-backend/internal/game/tictactoe"
	"github.com/rikikangsc2r/minigames-backend/internal/repository"
	"github.com/rikikangsc2r/minigames-backend/internal/repository/storage"
	"github.com/rikikangsc2r/minigames-backend/internal/service"
	"github.com/rikikangsc2r/minigames-backend/transport/rest"
	"github.com/rikikangsc2r/minigames-backend/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStore(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	roomRepo := repository.NewRoomRepository(redisStorage)

	var engine *chess.EngineClient
	if conf.Chess.EngineURL != "" {
		engine = chess.NewEngineClient(conf.Chess.EngineURL)
	}

	games := game.NewRegistry(
		tictactoe.NewAdapter(),
		connectfour.NewAdapter(),
		gobblet.NewAdapter(),
		chess.NewAdapter(engine),
		crossword.NewAdapter(),
	)

	roomService := service.NewRoomService(logger, roomRepo, games, conf.Room.TTL)
	sessionService := service.NewSessionService(logger, roomRepo, games)
	rematchService := service.NewRematchService(logger, roomRepo, games)
	chatService := service.NewChatService(roomRepo)
	botService := service.NewBotService(logger, roomRepo, games, sessionService, conf.Bot.ThinkDelay)

	var questions *crossword.FeedClient
	if conf.Crossword.FeedURL != "" {
		questions = crossword.NewFeedClient(conf.Crossword.FeedURL)
	}

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(conf.HTTPPort, roomRepo); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(
			logger,
			roomRepo,
			roomService,
			sessionService,
			rematchService,
			chatService,
			botService,
			questions,
			conf.Crossword.FetchTimeout,
		)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
