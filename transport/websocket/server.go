package websocket

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rikikangsc2r/minigames-backend/internal/game/crossword"
	"github.com/rikikangsc2r/minigames-backend/internal/repository"
	"github.com/rikikangsc2r/minigames-backend/internal/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		// the browser clients are served from another origin
		return true
	},
}

type Server struct {
	logger *slog.Logger

	rooms   repository.RoomRepository
	room    service.RoomService
	session service.SessionService
	rematch service.RematchService
	chat    service.ChatService
	bot     service.BotService

	questions       *crossword.FeedClient
	questionTimeout time.Duration
}

func New(
	logger *slog.Logger,
	rooms repository.RoomRepository,
	room service.RoomService,
	session service.SessionService,
	rematch service.RematchService,
	chat service.ChatService,
	bot service.BotService,
	questions *crossword.FeedClient,
	questionTimeout time.Duration,
) *Server {
	return &Server{
		logger: logger,

		rooms:   rooms,
		room:    room,
		session: session,
		rematch: rematch,
		chat:    chat,
		bot:     bot,

		questions:       questions,
		questionTimeout: questionTimeout,
	}
}

// Start serves the gateway until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 0, // connections are long-lived
		IdleTimeout: 0,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func (that *Server) serveConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveConnection")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	session := newClient(that, conn)

	go session.writePump()
	session.readPump(ctx)
}
