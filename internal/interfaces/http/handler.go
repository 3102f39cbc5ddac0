// @title           Invest History API
// @version         1.0
// @description     Read views over the imported brokerage history and the portfolio computed from it

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1

package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	appinterfaces "investhistory/internal/application/interfaces"
	apphistory "investhistory/internal/application/service/history"
	domaininstruments "investhistory/internal/domain/entity/instruments"
	domainmarketdata "investhistory/internal/domain/entity/marketdata"
	domainoperations "investhistory/internal/domain/entity/operations"
	domainportfolio "investhistory/internal/domain/entity/portfolio"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const apiBasePath = "/api/v1"

// HistoryService lists the stored collections.
type HistoryService interface {
	ListInstruments(ctx context.Context) ([]domaininstruments.Instrument, error)
	ListOperations(ctx context.Context, filter domainoperations.Filter) ([]domainoperations.Operation, error)
	ListCandles(ctx context.Context, filter domainmarketdata.CandleFilter) ([]domainmarketdata.Candle, error)
}

type PortfolioService interface {
	Portfolio(ctx context.Context) ([]domainportfolio.Position, error)
}

type Handler struct {
	router    *gin.Engine
	history   HistoryService
	portfolio PortfolioService
	cache     *redis.Client
	cacheTTL  time.Duration
}

var _ appinterfaces.HTTPHandler = (*Handler)(nil)

func NewHandler(history HistoryService, portfolio PortfolioService, cache *redis.Client, cacheTTL time.Duration) *Handler {
	router := gin.New()
	router.Use(gin.Recovery())

	h := &Handler{
		router:    router,
		history:   history,
		portfolio: portfolio,
		cache:     cache,
		cacheTTL:  cacheTTL,
	}
	h.registerRoutes()
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := h.router.Group(apiBasePath)
	api.GET("/healthz", h.healthz)
	api.GET("/portfolio", h.getPortfolio)

	views := api.Group("")
	if h.cache != nil {
		views.Use(h.cacheMiddleware())
	}
	{
		views.GET("/instruments", h.listInstruments)
		views.GET("/operations", h.listOperations)
		views.GET("/candles", h.listCandles)
	}
}

// healthz reports that the process is serving
// @Summary      Health check
// @Tags         service
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /healthz [get]
func (h *Handler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// listInstruments returns every stored instrument
// @Summary      List instruments
// @Description  All instruments referenced by the imported operations
// @Tags         instruments
// @Produce      json
// @Success      200  {object}  map[string][]domaininstruments.Instrument
// @Failure      500  {object}  map[string]string
// @Router       /instruments [get]
func (h *Handler) listInstruments(c *gin.Context) {
	items, err := h.history.ListInstruments(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"instruments": items})
}

// listOperations returns stored operations
// @Summary      List operations
// @Description  Stored operations in date order, optionally narrowed to one FIGI
// @Tags         operations
// @Produce      json
// @Param        figi  query     string  false  "Instrument FIGI"
// @Success      200   {object}  map[string][]domainoperations.Operation
// @Failure      500   {object}  map[string]string
// @Router       /operations [get]
func (h *Handler) listOperations(c *gin.Context) {
	filter := domainoperations.Filter{Figi: c.Query("figi")}
	items, err := h.history.ListOperations(c.Request.Context(), filter)
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"operations": items})
}

// listCandles returns stored candles
// @Summary      List candles
// @Description  Stored candles, optionally narrowed to one FIGI and interval
// @Tags         candles
// @Produce      json
// @Param        figi      query     string  false  "Instrument FIGI"
// @Param        interval  query     string  false  "Candle interval"  Enums(day, week, month)
// @Success      200       {object}  map[string][]domainmarketdata.Candle
// @Failure      400       {object}  map[string]string
// @Failure      500       {object}  map[string]string
// @Router       /candles [get]
func (h *Handler) listCandles(c *gin.Context) {
	filter := domainmarketdata.CandleFilter{
		Figi:     c.Query("figi"),
		Interval: domainmarketdata.CandleInterval(c.Query("interval")),
	}
	items, err := h.history.ListCandles(c.Request.Context(), filter)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, apphistory.ErrInvalidInterval) {
			status = http.StatusBadRequest
		}
		writeError(c, status, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"candles": items})
}

// getPortfolio computes open positions from the stored history
// @Summary      Portfolio
// @Description  Open positions per instrument with payment, trade and purchase totals
// @Tags         portfolio
// @Produce      json
// @Success      200  {object}  map[string][]domainportfolio.Position
// @Failure      500  {object}  map[string]string
// @Router       /portfolio [get]
func (h *Handler) getPortfolio(c *gin.Context) {
	positions, err := h.portfolio.Portfolio(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, err)
		return
	}
	if positions == nil {
		positions = []domainportfolio.Position{}
	}
	c.JSON(http.StatusOK, gin.H{"portfolio": positions})
}

func writeError(c *gin.Context, status int, err error) {
	if err == nil {
		status = http.StatusInternalServerError
		err = errors.New("unknown error")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
