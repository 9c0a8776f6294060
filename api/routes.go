package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"pdffusion/config"
	"pdffusion/entitlement"
	"pdffusion/logging"
	"pdffusion/pdf"
)

// Server holds everything handlers need. It is built once in main.
type Server struct {
	cfg       *config.Config
	engine    pdf.Engine
	readiness pdf.Readiness
	verifier  *entitlement.Verifier
	limiter   *RateLimiter
	logger    logging.Logger
}

func NewServer(cfg *config.Config, engine pdf.Engine, readiness pdf.Readiness, verifier *entitlement.Verifier, logger logging.Logger) *Server {
	return &Server{
		cfg:       cfg,
		engine:    engine,
		readiness: readiness,
		verifier:  verifier,
		limiter:   NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		logger:    logger,
	}
}

// Router builds the gin engine with middleware and routes
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(s.logger))
	r.Use(CORS(s.cfg.CORSOrigins))
	r.Use(Entitlements(s.verifier))

	r.GET("/health", s.HandleHealth)

	apiGroup := r.Group("/api/pdf")
	apiGroup.Use(s.limiter.Middleware())
	{
		apiGroup.POST("/inspect", s.HandleInspect)
		apiGroup.POST("/organize", s.HandleOrganize)
		apiGroup.POST("/remove-pages", s.HandleRemovePages)
		apiGroup.POST("/rotate", s.HandleRotate)
		apiGroup.POST("/merge", s.HandleMerge)
		apiGroup.POST("/resave", s.HandleResave)
		apiGroup.POST("/remove-watermarks", s.HandleRemoveWatermarks)
	}

	r.POST("/api/billing/payfast/itn", s.HandlePayFastITN)

	return r
}

// PruneClients forgets idle rate limit clients until ctx is done
func (s *Server) PruneClients(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.limiter.Prune(3 * every)
		}
	}
}
