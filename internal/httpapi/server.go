// Package httpapi serves a read-only JSON view of presales: the backend
// record joined with on-chain figures and the derived status.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/Mohsinsiddi/launchpad/internal/backend"
	"github.com/Mohsinsiddi/launchpad/internal/chain"
	"github.com/Mohsinsiddi/launchpad/internal/launchpad"
	"github.com/Mohsinsiddi/launchpad/internal/presale"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Backend is the read side of the backend API.
type Backend interface {
	launchpad.PresaleSource
	ListPresales(ctx context.Context, query url.Values) (*backend.Page, error)
	Contributors(ctx context.Context, address string) ([]backend.Contributor, error)
}

var _ Backend = (*backend.Client)(nil)

// Server handles the status API.
type Server struct {
	api        Backend
	transports launchpad.TransportFunc
	chains     *chain.Registry
	version    string
	now        func() time.Time
	log        *zap.SugaredLogger
}

// Option configures a Server.
type Option func(*Server)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithVersion sets the version reported by /healthcheck.
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// New creates a Server.
func New(api Backend, transports launchpad.TransportFunc, log *zap.SugaredLogger, opts ...Option) *Server {
	s := &Server{
		api:        api,
		transports: transports,
		chains:     chain.NewRegistry(),
		now:        time.Now,
		log:        log.Named("http"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the gin engine.
func (s *Server) Handler() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests)
	if err := r.SetTrustedProxies(nil); err != nil {
		panic(err)
	}

	r.GET("/healthcheck", s.HealthCheck)
	r.GET("/presales", s.ListPresales)
	r.GET("/presales/:address", s.GetPresale)
	r.GET("/presales/:address/status", s.GetStatus)
	r.GET("/presales/:address/contributors", s.GetContributors)
	return r
}

// Run serves on addr until ctx is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("http server is listening: %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) logRequests(ctx *gin.Context) {
	start := time.Now()
	ctx.Next()
	s.log.Debugw("request",
		"method", ctx.Request.Method,
		"path", ctx.FullPath(),
		"status", ctx.Writer.Status(),
		"duration", time.Since(start),
	)
}

func (s *Server) HealthCheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": s.version,
	})
}

// ListItem is a presale on a listing with its time-only status. The sold
// amount is read from the sale contract when its chain is reachable.
type ListItem struct {
	presale.Presale
	ListStatus presale.Status `json:"list_status"`
}

func (s *Server) ListPresales(ctx *gin.Context) {
	page, err := s.api.ListPresales(ctx.Request.Context(), ctx.Request.URL.Query())
	if err != nil {
		s.fail(ctx, err)
		return
	}
	launchpad.LoadSoldAmounts(ctx.Request.Context(), page.Data, s.transports, s.log)
	now := s.now()
	items := make([]ListItem, len(page.Data))
	for i := range page.Data {
		items[i] = ListItem{Presale: page.Data[i], ListStatus: presale.ListStatus(&page.Data[i], now)}
	}
	ctx.JSON(http.StatusOK, gin.H{"data": items, "meta": page.Meta})
}

// Countdown is the next sale boundary.
type Countdown struct {
	Label  string    `json:"label"`
	Target time.Time `json:"target"`
}

// PresaleView is a presale joined with its on-chain figures.
type PresaleView struct {
	Presale      presale.Presale      `json:"presale"`
	Figures      presale.Figures      `json:"figures"`
	Status       presale.Status       `json:"status"`
	Progress     presale.SaleProgress `json:"progress"`
	TimeProgress int                  `json:"time_progress"`
	Countdown    *Countdown           `json:"countdown,omitempty"`
	ExplorerURL  string               `json:"explorer_url,omitempty"`
}

func (s *Server) GetPresale(ctx *gin.Context) {
	view, err := s.view(ctx)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

func (s *Server) GetStatus(ctx *gin.Context) {
	view, err := s.view(ctx)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": view.Status})
}

func (s *Server) GetContributors(ctx *gin.Context) {
	addr, err := address(ctx)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	list, err := s.api.Contributors(ctx.Request.Context(), addr.Hex())
	if err != nil {
		s.fail(ctx, err)
		return
	}
	if list == nil {
		list = []backend.Contributor{}
	}
	ctx.JSON(http.StatusOK, list)
}

func (s *Server) view(ctx *gin.Context) (*PresaleView, error) {
	addr, err := address(ctx)
	if err != nil {
		return nil, err
	}
	reqCtx := ctx.Request.Context()
	orch, err := launchpad.Open(reqCtx, s.api, addr, s.transports, nil, launchpad.WithLogger(s.log))
	if err != nil {
		return nil, err
	}
	if err := orch.Refresh(reqCtx); err != nil {
		return nil, err
	}

	snap := orch.Store().Snapshot()
	now := s.now()
	status := snap.Status(now)
	view := &PresaleView{
		Presale:      snap.Presale,
		Figures:      snap.Figures,
		Status:       status,
		Progress:     presale.Progress(&snap.Presale, snap.Figures.TotalTokensSold),
		TimeProgress: presale.TimeProgress(&snap.Presale, now),
	}
	if label, target, ok := presale.Countdown(&snap.Presale, status); ok {
		view.Countdown = &Countdown{Label: label, Target: target}
	}
	if c, err := s.chains.GetByChainID(snap.Presale.ChainID); err == nil {
		view.ExplorerURL = c.AddressURL(addr.Hex())
	}
	return view, nil
}

var errBadAddress = errors.New("invalid presale address")

func address(ctx *gin.Context) (common.Address, error) {
	raw := ctx.Param("address")
	if !common.IsHexAddress(raw) {
		return common.Address{}, errBadAddress
	}
	return common.HexToAddress(raw), nil
}

func (s *Server) fail(ctx *gin.Context, err error) {
	status := http.StatusBadGateway
	var apiErr *backend.APIError
	switch {
	case errors.Is(err, errBadAddress):
		status = http.StatusBadRequest
	case errors.Is(err, backend.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, chain.ErrChainNotFound):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500:
		status = apiErr.Status
	}
	if status >= http.StatusInternalServerError {
		s.log.Warnw("request failed", "path", ctx.FullPath(), "error", err)
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}
