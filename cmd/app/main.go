package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"tripcraft/cmd/fx/calendar_fx"
	"tripcraft/cmd/fx/controllers_fx"
	"tripcraft/cmd/fx/memcache_fx"
	"tripcraft/cmd/fx/planner_fx"
	"tripcraft/cmd/fx/search_fx"
	"tripcraft/internal/api/controllers"
	"tripcraft/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	app := fx.New(
		memcache_fx.Module,
		search_fx.Module,
		planner_fx.Module,
		calendar_fx.Module,
		controllers_fx.Module,

		fx.Invoke(StartServer),
		fx.Provide(ProvideRouter),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	planController *controllers.PlanController,
	calendarController *controllers.CalendarController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, planController, calendarController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	planController *controllers.PlanController,
	calendarController *controllers.CalendarController) {

	r.StaticFile("/", "./web/index.html")
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	plansGroup := r.Group("/api/plans")
	plansGroup.POST("", planController.CreatePlanHandler)
	plansGroup.GET("/:id", planController.GetPlanHandler)
	plansGroup.GET("/:id/calendar", calendarController.DownloadCalendarHandler)
}
