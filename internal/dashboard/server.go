package dashboard

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"bbdash/internal/client"
	"bbdash/internal/config"
	"bbdash/internal/logger"
	"bbdash/internal/model"
	"bbdash/internal/poller"
	"bbdash/internal/repository"
	"bbdash/internal/state"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Server struct {
	echo    *echo.Echo
	store   *state.Store
	poller  *poller.Poller
	client  *client.Client
	history *repository.BuildRepository
	cfg     *config.Config
	stopCh  chan struct{}
}

func NewServer(cfg *config.Config, store *state.Store, p *poller.Poller, c *client.Client, history *repository.BuildRepository) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:    e,
		store:   store,
		poller:  p,
		client:  c,
		history: history,
		cfg:     cfg,
		stopCh:  make(chan struct{}, 1),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	// Dashboard pages
	s.echo.GET("/", s.handleProjectPage)
	s.echo.GET("/builder", s.handleBuilderPage)

	// Data for the pages and the CLI
	s.echo.GET("/api/state", s.handleState)
	s.echo.GET("/api/channels/:name", s.handleChannel)
	s.echo.GET("/status", s.handleStatus)
	s.echo.GET("/history", s.handleHistory)

	// Actions forwarded to the master
	s.echo.POST("/builders/:builder/builds/:number/cancel", s.handleCancel)
	s.echo.POST("/builders/:builder/force", s.handleForce)

	s.echo.POST("/refresh", s.handleRefresh)
	s.echo.POST("/stop", s.handleStop)
}

func (s *Server) Start() {
	go func() {
		addr := ":" + strconv.Itoa(s.cfg.DaemonPort)
		logger.Log.Info("dashboard server started",
			zap.String("addr", addr),
			zap.String("master", s.cfg.MasterURL))

		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("dashboard server error", zap.Error(err))
		}
	}()
}

func (s *Server) Stop(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) StopCh() <-chan struct{} {
	return s.stopCh
}

// Handler exposes the echo engine for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) handleState(c echo.Context) error {
	return c.JSON(http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleChannel(c echo.Context) error {
	snap := s.store.Snapshot()

	var data any
	switch c.Param("name") {
	case poller.ChannelCurrentBuilds:
		data = snap.CurrentBuilds
	case poller.ChannelBuilds:
		data = snap.RecentBuilds
	case poller.ChannelPending:
		data = snap.PendingBuilds
	case poller.ChannelQueue:
		data = snap.Queue
	case poller.ChannelSlaves:
		data = snap.Slaves
	case poller.ChannelProject:
		data = snap.Builders
	case poller.ChannelGlobal:
		data = snap.Global
	default:
		return c.JSON(http.StatusNotFound, map[string]string{"error": "unknown channel"})
	}

	return c.JSON(http.StatusOK, data)
}

func (s *Server) handleStatus(c echo.Context) error {
	snap := s.store.Snapshot()

	status := map[string]any{
		"master":     s.cfg.MasterURL,
		"project":    s.cfg.Project,
		"builder":    s.cfg.Builder,
		"global":     snap.Global,
		"updated_at": snap.UpdatedAt,
	}

	if s.history != nil {
		stats, err := s.history.GetStats()
		if err != nil {
			logger.Log.Warn("failed to aggregate build stats", zap.Error(err))
		} else {
			status["stats"] = stats
		}
	}

	return c.JSON(http.StatusOK, status)
}

func (s *Server) handleHistory(c echo.Context) error {
	if s.history == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "history disabled"})
	}

	n := 20
	if nStr := c.QueryParam("n"); nStr != "" {
		if parsed, err := strconv.Atoi(nStr); err == nil {
			n = parsed
		}
	}

	var recs []model.BuildRecord
	var err error
	if builder := c.QueryParam("builder"); builder != "" {
		recs, err = s.history.GetByBuilder(builder, n)
	} else {
		recs, err = s.history.GetRecent(n)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, recs)
}

func (s *Server) handleCancel(c echo.Context) error {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid build number"})
	}

	builder := c.Param("builder")
	reason := c.FormValue("reason")
	if reason == "" {
		reason = "cancelled from dashboard"
	}

	if err := s.client.CancelBuild(c.Request().Context(), builder, number, reason); err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}

	logger.Log.Info("build cancel forwarded",
		zap.String("builder", builder),
		zap.Int("number", number))

	return c.JSON(http.StatusOK, map[string]string{"status": "cancel requested"})
}

func (s *Server) handleForce(c echo.Context) error {
	builder := c.Param("builder")
	branch := c.FormValue("branch")
	reason := c.FormValue("reason")
	if reason == "" {
		reason = "forced from dashboard"
	}

	if err := s.client.ForceBuild(c.Request().Context(), builder, branch, reason); err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}

	logger.Log.Info("force build forwarded",
		zap.String("builder", builder),
		zap.String("branch", branch))

	return c.JSON(http.StatusOK, map[string]string{"status": "build requested"})
}

// handleRefresh triggers an immediate poll instead of waiting for the next
// tick.
func (s *Server) handleRefresh(c echo.Context) error {
	s.poller.Tick(c.Request().Context())
	return c.JSON(http.StatusOK, map[string]string{"status": "refreshed"})
}

func (s *Server) handleStop(c echo.Context) error {
	select {
	case s.stopCh <- struct{}{}:
	default:
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "stopping"})
}
