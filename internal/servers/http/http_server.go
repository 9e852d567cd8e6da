package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"socketBoard/configs"
	"socketBoard/internal/handlers"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var (
	httpServer *HttpServer
	once       sync.Once
)

type HttpServer struct {
	ctx                context.Context
	cfg                *configs.Config
	router             *gin.Engine
	restHandler        *handlers.RestHandler
	socketBoardHandler *handlers.SocketBoardHandler
}

func NewHttpServer(
	ctx context.Context,
	cfg *configs.Config,
	restHandler *handlers.RestHandler,
	socketBoardHandler *handlers.SocketBoardHandler,
) *HttpServer {
	once.Do(func() {
		httpServer = &HttpServer{
			ctx:                ctx,
			cfg:                cfg,
			restHandler:        restHandler,
			socketBoardHandler: socketBoardHandler,
		}
	})
	return httpServer
}

func (hs *HttpServer) Run() {
	hs.initializeGin()
	hs.setupRestfulRoutes()
	hs.setupWebSocketRoutes()

	server := hs.startServer()

	hs.waitForShutdown(server)
}

func (hs *HttpServer) initializeGin() {
	hs.router = gin.Default()
	hs.router.Use(handlers.CorsMiddleware(hs.cfg.Viper.GetString("server.allowed_origin")))
}

func (hs *HttpServer) setupRestfulRoutes() {
	hs.router.GET("/health", hs.restHandler.Health)

	api := hs.router.Group("/api")
	api.GET("/stats", hs.restHandler.Stats)
	api.POST("/auth/token", hs.restHandler.IssueToken)

	rooms := api.Group("/rooms")
	if hs.cfg.Viper.GetBool("auth.enabled") {
		rooms.Use(hs.restHandler.MustAuthenticateMiddleware())
	}
	rooms.POST("", hs.restHandler.EnsureRoom)
	rooms.GET("/:key", hs.restHandler.GetRoom)

	hs.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (hs *HttpServer) setupWebSocketRoutes() {
	hs.router.GET("/ws/board", hs.socketBoardHandler.HandleSocketBoardRoute)
}

func (hs *HttpServer) startServer() *http.Server {
	addr := hs.cfg.Viper.GetString("server.addr")
	server := &http.Server{
		Addr:    addr,
		Handler: hs.router,
	}

	go func() {
		log.Printf("HTTP server started on %v", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	return server
}

func (hs *HttpServer) waitForShutdown(server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if err := server.Shutdown(hs.ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// All rooms live in memory only; closing the sockets is the whole
	// teardown.
	hs.socketBoardHandler.Hub().CloseAll()

	log.Println("Server exiting")
}
