package rpcserver

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/sat20-labs/l2asset/common"
	"github.com/sat20-labs/l2asset/config"
	"github.com/sat20-labs/l2asset/rpcserver/asset"
	"github.com/sat20-labs/l2asset/rpcserver/base"
	"github.com/sat20-labs/l2asset/rpcserver/das"
	"github.com/sat20-labs/l2asset/service"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	STRICT_TRANSPORT_SECURITY   = "strict-transport-security"
	CONTENT_SECURITY_POLICY     = "content-security-policy"
	VARY                        = "vary"
	ACCESS_CONTROL_ALLOW_ORIGIN = "access-control-allow-origin"
	CONTENT_ENCODING            = "content-encoding"
)

type Rpc struct {
	baseService  *base.Service
	assetService *asset.Service
	dasService   *das.Service

	apiConfMutex sync.RWMutex
	api          *config.API
	apiLimitMap  *sync.Map

	server *http.Server
}

func NewRpc(s *service.AssetService, api *config.API) *Rpc {
	rpc := &Rpc{
		baseService:  base.NewService(),
		assetService: asset.NewService(s),
		dasService:   das.NewService(s),
	}
	rpc.SetApiConf(api)
	return rpc
}

func normalizeBasePath(proxy string) string {
	proxy = strings.TrimSuffix(proxy, "/")
	if proxy != "" && proxy[0] != '/' {
		proxy = "/" + proxy
	}
	return proxy
}

// NewEngine builds the gin engine with every middleware and route.
func (s *Rpc) NewEngine(rpcProxy string, accessLog io.Writer) *gin.Engine {
	basePath := normalizeBasePath(rpcProxy)
	r := gin.New()
	r.Use(gin.Recovery())
	if accessLog != nil {
		r.Use(logger.SetLogger(
			logger.WithWriter(accessLog),
			logger.WithUTC(true),
			logger.WithSkipPath([]string{basePath + "/health"}),
			logger.WithLogger(logger.Fn(func(c *gin.Context, l zerolog.Logger) zerolog.Logger {
				return l.With().
					Bool("api_key", requestApiKey(c) != "").
					Logger()
			})),
		))
	}

	corsConf := cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Length", "Content-Type", "Authorization", API_KEY_HEADER},
		MaxAge:       12 * time.Hour,
	}
	corsConf.OptionsResponseStatusCode = http.StatusOK
	r.Use(cors.New(corsConf))

	// doc
	r.GET(basePath+"/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// common header
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set(VARY, "Origin")
		c.Writer.Header().Add(VARY, "Access-Control-Request-Method")
		c.Writer.Header().Add(VARY, "Access-Control-Request-Headers")
		c.Writer.Header().Set(CONTENT_SECURITY_POLICY, "default-src 'self'")
		c.Writer.Header().Set(STRICT_TRANSPORT_SECURITY, "max-age=31536000; includeSubDomains; preload")
		c.Writer.Header().Set(ACCESS_CONTROL_ALLOW_ORIGIN, "*")
		c.Next()
	})

	r.Use(CompressionMiddleware(basePath + "/swagger/"))

	auth := s.ApiKeyRequired(basePath)
	s.baseService.InitRouter(r, basePath, auth)
	s.assetService.InitRouter(r, basePath, auth)
	s.dasService.InitRouter(r, basePath)
	return r
}

func (s *Rpc) Start(rpcUrl, swaggerHost, swaggerSchemes, rpcProxy, rpcLogPath string) error {
	gin.SetMode(gin.ReleaseMode)
	accessLog, err := config.NewRpcLogWriter(rpcLogPath)
	if err != nil {
		return err
	}
	gin.DefaultWriter = accessLog

	InitApiDoc(swaggerHost, swaggerSchemes, normalizeBasePath(rpcProxy))
	r := s.NewEngine(rpcProxy, accessLog)

	parts := strings.Split(rpcUrl, ":")
	var port string
	if len(parts) < 2 {
		rpcUrl += ":80"
		port = "80"
	} else {
		port = parts[len(parts)-1]
	}

	// 先检查端口
	if err := checkPort(port); err != nil {
		return err
	}

	s.server = &http.Server{
		Addr:              rpcUrl,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			common.Log.Errorf("rpc server stopped, %v", err)
			os.Exit(1)
		}
	}()
	common.Log.Infof("rpc server listening on %s%s", rpcUrl, normalizeBasePath(rpcProxy))
	return nil
}

func (s *Rpc) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func checkPort(port string) error {
	addr := fmt.Sprintf(":%s", port)
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %s is in use: %v", port, err)
	}
	l.Close()
	return nil
}
