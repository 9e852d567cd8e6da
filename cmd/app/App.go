package app

import (
	"context"
	"log"
	"socketBoard/configs"
	"socketBoard/internal/handlers"
	"socketBoard/internal/servers/http"
	"socketBoard/internal/services"
	"sync"

	"github.com/redis/go-redis/v9"
)

var (
	app  *App
	once sync.Once
)

type App struct {
	redis   *redis.Client
	ctx     context.Context
	configs *configs.Config
}

func GetApp() *App {
	once.Do(func() {
		app = &App{}
	})
	return app
}

func (app *App) LetsGo() {
	app.ctx = context.Background()
	app.initializeConfigs()
	app.initializeRedis()

	boardService := services.NewBoardService(app.configs)

	restHandler := handlers.NewRestHandler(boardService, app.configs)
	socketBoardHandler := handlers.NewSocketBoardHandler(app.redis, app.ctx, boardService, app.configs)

	http.NewHttpServer(
		app.ctx,
		app.configs,
		restHandler,
		socketBoardHandler,
	).Run()
}

func (app *App) initializeRedis() {
	if !app.configs.Viper.GetBool("redis.enabled") {
		log.Println("Redis relay disabled, broadcasting locally only")
		return
	}
	app.redis = redis.NewClient(&redis.Options{
		Addr: app.configs.Viper.GetString("redis.addr"),
	})
}

func (app *App) initializeConfigs() {
	app.configs = configs.GetConfig()
}
