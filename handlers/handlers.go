package handlers

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "erpchat/docs" // Swagger docs
	"erpchat/models"
)

// @title           ERP Chat Assistant API
// @version         1.0
// @description     Chat assistant that answers ERP questions with generated SQL and executes receive/approve commands.

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:9090
// @BasePath  /

// @schemes   http https

type DocumentStore interface {
	Load(ctx context.Context, id string) (*models.Document, error)
	Create(ctx context.Context, doc models.Document) (string, error)
	List(ctx context.Context, filter string) ([]models.DocumentInfo, error)
}

type ChatService interface {
	Respond(ctx context.Context, req models.ChatRequest) models.Envelope
	History(ctx context.Context) ([]models.ChatMessage, error)
}

type HealthChecker interface {
	IsConnected(ctx context.Context) bool
}

type Options struct {
	Documents      DocumentStore
	Chat           ChatService
	SQL            HealthChecker
	AIReady        bool
	TemplateFileID string
	UploadFolder   string
	Logger         *logrus.Entry
}

type Handlers struct {
	docs           DocumentStore
	chat           ChatService
	sqlService     HealthChecker
	aiReady        bool
	templateFileID string
	uploadFolder   string
	logger         *logrus.Entry
}

func New(opts Options) *Handlers {
	return &Handlers{
		docs:           opts.Documents,
		chat:           opts.Chat,
		sqlService:     opts.SQL,
		aiReady:        opts.AIReady,
		templateFileID: opts.TemplateFileID,
		uploadFolder:   opts.UploadFolder,
		logger:         opts.Logger,
	}
}

// Register mounts the application routes on r.
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/file", h.FileHandler)
	r.POST("/file", h.FileHandler)
	r.OPTIONS("/file", h.PreflightHandler)

	r.GET("/chat", h.ChatPageHandler)
	r.POST("/chat", h.ChatHandler)
	r.OPTIONS("/chat", h.PreflightHandler)

	r.GET("/health", h.HealthHandler)

	api := r.Group("/api")
	api.POST("/documents", h.UploadDocumentHandler)
	api.GET("/documents", h.ListDocumentsHandler)
	api.GET("/history", h.HistoryHandler)
}

// CORSConfig allows any origin to call the chat and file endpoints.
func CORSConfig() cors.Config {
	return cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Content-Type"},
	}
}

// NewRouter builds the gin engine with middleware, docs, metrics and the routes of h.
func NewRouter(h *Handlers, logger *logrus.Entry) *gin.Engine {
	r := gin.New()
	r.Use(Recovery(logger))
	r.Use(RequestLogger(logger))
	r.Use(cors.New(CORSConfig()))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h.Register(r)
	return r
}

// PreflightHandler answers OPTIONS requests that carry no Origin header with an empty body.
func (h *Handlers) PreflightHandler(c *gin.Context) {
	c.String(http.StatusOK, "")
}

// param reads a request parameter from the query string or the form body.
func param(c *gin.Context, name string) string {
	if v := c.Query(name); v != "" {
		return v
	}
	return c.PostForm(name)
}
