package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/znsio/specmatic-product-catalog-go/internal/handlers"
	"github.com/znsio/specmatic-product-catalog-go/internal/middleware"
	"github.com/znsio/specmatic-product-catalog-go/internal/services"
	"github.com/znsio/specmatic-product-catalog-go/internal/views"
)

func SetupRouter(app *views.App, backendService *services.BackendService, log logrus.FieldLogger) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	r.SetHTMLTemplate(handlers.Templates())

	catalogController := &handlers.CatalogController{
		App:      app,
		Products: backendService,
	}

	proxy, err := handlers.NewProxyHandler(backendService.BaseURL, log)
	if err != nil {
		return nil, err
	}

	// Health check
	r.GET("/health", handlers.HealthCheck)

	// Page
	r.GET("/", catalogController.Index)
	r.POST("/products", catalogController.SubmitForm)
	r.POST("/products/keys", catalogController.KeyPress)
	r.POST("/refresh", catalogController.Refresh)

	// View state
	r.GET("/ui/state", catalogController.State)
	r.POST("/ui/products", catalogController.SubmitJSON)
	r.GET("/ui/products/:id", catalogController.GetProduct)

	// Backend, same origin
	r.Any("/api/*path", proxy)

	return r, nil
}
