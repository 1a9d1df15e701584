// Package server exposes the bot over a websocket messaging gateway and the
// moderation HTTP API.
package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/anchal00/campbot/internal/bot"
	"github.com/anchal00/campbot/internal/db"
	"github.com/anchal00/campbot/internal/logger"
	"github.com/anchal00/campbot/internal/metrics"
	"github.com/anchal00/campbot/internal/moderation"
	"github.com/anchal00/campbot/internal/parser"
	"github.com/anchal00/campbot/internal/state"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const HTTP_API_V1_PREFIX = "/api/v1"
const MODERATOR_TOKEN_HEADER = "X-Moderator-Token"

const shutdownTimeout = 10 * time.Second

type BotServer struct {
	Bot            *bot.Bot
	Moderation     *moderation.Gateway
	Logger         logger.Logger
	Metrics        *metrics.Metrics
	Router         *mux.Router
	ConnStore      ConnectionStore
	port           string
	moderatorToken string
	wssUpgrader    websocket.Upgrader
	httpServer     *http.Server
	// loops counts running websocket read loops.
	loops sync.WaitGroup
}

// NewBotServer wires the routes. The moderation API is only mounted when a
// moderator token is configured.
func NewBotServer(port string, b *bot.Bot, gw *moderation.Gateway, gatherer prometheus.Gatherer, moderatorToken string) *BotServer {
	router := mux.NewRouter()
	s := &BotServer{
		Bot:            b,
		Moderation:     gw,
		Logger:         logger.New("api_server"),
		Metrics:        b.Metrics,
		Router:         router,
		ConnStore:      NewConnectionStore(),
		port:           port,
		moderatorToken: moderatorToken,
		wssUpgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	api := router.PathPrefix(HTTP_API_V1_PREFIX).Subrouter()
	api.HandleFunc("/connect/{userId:[0-9]+}", s.HandleUserConnection)

	if moderatorToken != "" {
		mod := api.PathPrefix("/moderation").Subrouter()
		mod.Use(s.requireModerator)
		mod.HandleFunc("/games", s.ListGames).Methods("GET")
		mod.HandleFunc("/games/{gameId:[0-9]+}/status", s.SetGameStatus).Methods("PUT")
		mod.HandleFunc("/reviews", s.ListReviews).Methods("GET")
		mod.HandleFunc("/reviews/{reviewId:[0-9]+}/moderated", s.SetReviewModerated).Methods("PUT")
	} else {
		s.Logger.Info("No moderator token configured, moderation API disabled")
	}

	if gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return s
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *BotServer) Run() error {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%s", s.port),
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	sigtermHandler := make(chan os.Signal, 1)
	signal.Notify(sigtermHandler, os.Interrupt, syscall.SIGTERM)
	stopped := make(chan struct{})
	go func() {
		<-sigtermHandler
		s.Shutdown()
		close(stopped)
	}()

	s.Logger.Info(fmt.Sprintf("Starting server on port %s", s.port))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.Logger.Error(fmt.Sprintf("Failed to start server on port %s", s.port), err)
		return err
	}
	<-stopped
	return nil
}

func (s *BotServer) Shutdown() {
	s.Logger.Info("Shutting down server....")
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.Logger.Error("Failed to shut down http server", err)
		}
	}
	// http.Server.Shutdown does not track hijacked connections.
	s.ConnStore.CloseAll()
	if !s.waitForLoops(shutdownTimeout) {
		s.Logger.Info("Timed out waiting for websocket connections to finish")
	}
	s.Bot.Db.CloseConnection()
	s.Logger.Info("Goodbye !")
}

func (s *BotServer) waitForLoops(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		s.loops.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (s *BotServer) UpgradeToWebsocket(writer http.ResponseWriter, request *http.Request) *websocket.Conn {
	conn, err := s.wssUpgrader.Upgrade(writer, request, nil)
	if err != nil {
		s.Logger.Error("Failed to upgrade to WS connection", err)
		return nil
	}
	return conn
}

func (s *BotServer) ReadRequestBody(request *http.Request) ([]byte, error) {
	bytesRead, err := io.ReadAll(request.Body)
	if err != nil {
		s.Logger.Error("Failed to read request body", err)
		return nil, err
	}
	return bytesRead, nil
}

func (s *BotServer) sendResponse(writer http.ResponseWriter, body any, status int) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(writer).Encode(body); err != nil {
		s.Logger.Error("Failed to write response body", err)
	}
}

func (s *BotServer) sendError(writer http.ResponseWriter, status int, msg string) {
	s.sendResponse(writer, parser.ErrorResponse{Error: msg}, status)
}

// sendStoreError maps content store errors onto HTTP statuses.
func (s *BotServer) sendStoreError(writer http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		s.sendError(writer, http.StatusNotFound, err.Error())
	case errors.Is(err, db.ErrInvalidStatus):
		s.sendError(writer, http.StatusBadRequest, err.Error())
	default:
		s.Logger.Error("Moderation request failed", err)
		s.sendError(writer, http.StatusInternalServerError, "internal error")
	}
}

// HandleUserConnection runs the messaging loop of one websocket connection.
// Every inbound {"text": ...} frame is handled by the bot and the reply is
// pushed to all of the user's connections.
func (s *BotServer) HandleUserConnection(writer http.ResponseWriter, request *http.Request) {
	userID, err := strconv.ParseInt(mux.Vars(request)["userId"], 10, 64)
	if err != nil {
		s.sendError(writer, http.StatusBadRequest, "invalid user id")
		return
	}
	user := state.UserID(userID)
	s.loops.Add(1)
	defer s.loops.Done()
	wssConn := s.UpgradeToWebsocket(writer, request)
	if wssConn == nil {
		return
	}
	connID := s.ConnStore.AddConnection(user, wssConn)
	s.Metrics.Connections.Inc()
	s.Logger.Info(fmt.Sprintf("User %d connected (%s)", user, connID))
	defer func() {
		s.ConnStore.RemoveConnection(user, connID)
		s.Metrics.Connections.Dec()
		wssConn.Close()
	}()

	for {
		msg := &parser.ChatMessage{}
		if err := wssConn.ReadJSON(msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.Logger.Error(fmt.Sprintf("Dropping connection %s of user %d", connID, user), err)
			} else {
				s.Logger.Info(fmt.Sprintf("User %d disconnected (%s)", user, connID))
			}
			return
		}
		// Dispatch fails only when no connection of the user got the reply.
		if err := s.Bot.Dispatch(request.Context(), s.ConnStore, user, msg.Text); err != nil {
			return
		}
	}
}

func (s *BotServer) requireModerator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		token := request.Header.Get(MODERATOR_TOKEN_HEADER)
		if subtle.ConstantTimeCompare([]byte(token), []byte(s.moderatorToken)) != 1 {
			s.sendError(writer, http.StatusUnauthorized, "invalid moderator token")
			return
		}
		next.ServeHTTP(writer, request)
	})
}

func (s *BotServer) ListGames(writer http.ResponseWriter, request *http.Request) {
	status := db.Status(request.URL.Query().Get("status"))
	if status == "" {
		status = db.StatusPending
	}
	games, err := s.Moderation.GamesByStatus(request.Context(), status)
	if err != nil {
		s.sendStoreError(writer, err)
		return
	}
	s.sendResponse(writer, parser.NewGameResponses(games), http.StatusOK)
}

func (s *BotServer) SetGameStatus(writer http.ResponseWriter, request *http.Request) {
	gameID, err := strconv.ParseInt(mux.Vars(request)["gameId"], 10, 64)
	if err != nil {
		s.sendError(writer, http.StatusBadRequest, "invalid game id")
		return
	}
	data, err := s.ReadRequestBody(request)
	if err != nil {
		s.sendError(writer, http.StatusBadRequest, "unreadable body")
		return
	}
	statusRequest, err := parser.ParseStatusRequest(data)
	if err != nil {
		s.Logger.Error("Failed to parse game status request", err)
		s.sendError(writer, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.Moderation.SetGameStatus(request.Context(), gameID, db.Status(statusRequest.Status)); err != nil {
		s.sendStoreError(writer, err)
		return
	}
	s.sendResponse(writer, parser.ModerationResult{ID: gameID, Status: statusRequest.Status}, http.StatusOK)
}

func (s *BotServer) ListReviews(writer http.ResponseWriter, request *http.Request) {
	reviews, err := s.Moderation.PendingReviews(request.Context())
	if err != nil {
		s.sendStoreError(writer, err)
		return
	}
	s.sendResponse(writer, parser.NewReviewResponses(reviews), http.StatusOK)
}

func (s *BotServer) SetReviewModerated(writer http.ResponseWriter, request *http.Request) {
	reviewID, err := strconv.ParseInt(mux.Vars(request)["reviewId"], 10, 64)
	if err != nil {
		s.sendError(writer, http.StatusBadRequest, "invalid review id")
		return
	}
	data, err := s.ReadRequestBody(request)
	if err != nil {
		s.sendError(writer, http.StatusBadRequest, "unreadable body")
		return
	}
	moderatedRequest, err := parser.ParseModeratedRequest(data)
	if err != nil {
		s.Logger.Error("Failed to parse review moderation request", err)
		s.sendError(writer, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.Moderation.SetReviewModerated(request.Context(), reviewID, *moderatedRequest.Moderated); err != nil {
		s.sendStoreError(writer, err)
		return
	}
	s.sendResponse(writer, parser.ModerationResult{ID: reviewID, Moderated: moderatedRequest.Moderated}, http.StatusOK)
}
