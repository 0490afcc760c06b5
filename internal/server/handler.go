package server

import (
	"errors"
	"net/http"
	"sort"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"github.com/pipecalc/pipecalc/internal/compressor"
	"github.com/pipecalc/pipecalc/internal/exchanger"
	"github.com/pipecalc/pipecalc/internal/hydro"
	"github.com/pipecalc/pipecalc/internal/linesize"
	"github.com/pipecalc/pipecalc/internal/logger"
	"github.com/pipecalc/pipecalc/internal/pump"
	"github.com/pipecalc/pipecalc/internal/tables"
	"github.com/pipecalc/pipecalc/internal/units"
	"github.com/pipecalc/pipecalc/internal/validate"
	"github.com/pipecalc/pipecalc/internal/version"
)

// Handler owns the current table snapshot and builds engines per
// request. The snapshot pointer is swapped whole, so in-flight requests
// keep the tables they started with.
type Handler struct {
	tables atomic.Pointer[tables.Set]
	solver hydro.Solver
}

func NewHandler(ts *tables.Set, solver hydro.Solver) *Handler {
	h := &Handler{solver: solver}
	h.tables.Store(ts)
	return h
}

// SwapTables installs a reloaded snapshot.
func (h *Handler) SwapTables(ts *tables.Set) {
	h.tables.Store(ts)
}

func (h *Handler) lines() *linesize.Engine {
	return h.tables.Load().Engine(h.solver)
}

func (h *Handler) pumps() *pump.Engine {
	return &pump.Engine{Lines: h.lines()}
}

// respondCalcError maps engine errors to the envelope. Every error the
// engines return traces back to the request, so the status is 400; a
// validation error additionally carries the per-field problems.
func respondCalcError(c *gin.Context, err error) {
	var ve *validate.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, apiResponse{
			Code:    errBadRequest,
			Message: ve.Error(),
			Data:    ve.Problems,
		})
		return
	}
	c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
}

func (h *Handler) LineLiquid(c *gin.Context) {
	var in linesize.LiquidInput
	if err := c.ShouldBindJSON(&in); err != nil {
		logger.Logger.Errorf("bind liquid line request: %v", err)
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}
	res, err := h.lines().Liquid(in)
	if err != nil {
		respondCalcError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(res))
}

func (h *Handler) LineGas(c *gin.Context) {
	var in linesize.GasInput
	if err := c.ShouldBindJSON(&in); err != nil {
		logger.Logger.Errorf("bind gas line request: %v", err)
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}
	res, err := h.lines().Gas(in)
	if err != nil {
		respondCalcError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(res))
}

func (h *Handler) LineTwoPhase(c *gin.Context) {
	var in linesize.TwoPhaseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		logger.Logger.Errorf("bind two-phase line request: %v", err)
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}
	res, err := h.lines().TwoPhase(in)
	if err != nil {
		respondCalcError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(res))
}

func (h *Handler) Pump(c *gin.Context) {
	var req pumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Logger.Errorf("bind pump request: %v", err)
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}
	res, err := h.runPump(req)
	if err != nil {
		respondCalcError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(res))
}

func (h *Handler) runPump(req pumpRequest) (*pump.Result, error) {
	var decs []pump.Decorator
	if a := req.Acceleration; a != nil {
		decs = append(decs, pump.WithAccelerationHead(a.Config, a.SpeedRPM, a.FluidFactor))
	}
	if v := req.Viscous; v != nil {
		decs = append(decs, pump.WithViscosityCorrection(v.SpeedRPM))
	}
	return h.pumps().Calculate(req.Input, decs...)
}

func (h *Handler) Compressor(c *gin.Context) {
	var in compressor.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		logger.Logger.Errorf("bind compressor request: %v", err)
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}
	res, err := compressor.Calculate(in)
	if err != nil {
		respondCalcError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(res))
}

func (h *Handler) ExchangerBundle(c *gin.Context) {
	var req bundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Logger.Errorf("bind bundle request: %v", err)
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}
	res, err := runBundle(req)
	if err != nil {
		respondCalcError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(res))
}

func runBundle(req bundleRequest) (*bundleResponse, error) {
	var vc validate.Collector
	ds := vc.SI("shell_diameter", req.ShellDiameter, units.LengthSmall)
	do := vc.SI("tube_od", req.TubeOD, units.LengthSmall)
	pt := vc.SI("pitch", req.Pitch, units.LengthSmall)
	if req.Pattern == "" {
		req.Pattern = exchanger.Triangular
	}
	if req.Passes == 0 {
		req.Passes = 1
	}
	if err := vc.Err(); err != nil {
		return nil, err
	}
	est, err := exchanger.TubeCount(ds, do, pt, req.Pattern, req.Passes)
	if err != nil {
		return nil, err
	}
	resp := &bundleResponse{TubeCountEstimate: est}
	if req.Head != "" {
		db, err := exchanger.BundleDiameter(do, est.Count, req.Pattern, req.Passes)
		if err != nil {
			return nil, err
		}
		shell, err := exchanger.ShellDiameter(do, est.Count, req.Pattern, req.Passes, req.Head)
		if err != nil {
			return nil, err
		}
		resp.BundleDiameter = db
		resp.ShellDiameter = shell
	}
	return resp, nil
}

func (h *Handler) ExchangerRating(c *gin.Context) {
	var in exchanger.RatingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		logger.Logger.Errorf("bind rating request: %v", err)
		c.JSON(http.StatusBadRequest, fail(errBadRequest, err.Error()))
		return
	}
	res, err := exchanger.Rating(in)
	if err != nil {
		respondCalcError(c, err)
		return
	}
	c.JSON(http.StatusOK, success(res))
}

func (h *Handler) TableNominals(c *gin.Context) {
	c.JSON(http.StatusOK, success(h.tables.Load().Pipes.Nominals()))
}

// TableSchedules lists schedules for one nominal via ?nominal=, or the
// whole nominal-to-schedules map without it.
func (h *Handler) TableSchedules(c *gin.Context) {
	t := h.tables.Load().Pipes
	if nominal := c.Query("nominal"); nominal != "" {
		scheds := t.AvailableSchedules(nominal)
		if len(scheds) == 0 {
			c.JSON(http.StatusBadRequest, fail(errBadRequest, "unknown nominal size "+nominal))
			return
		}
		c.JSON(http.StatusOK, success(scheds))
		return
	}
	out := make(map[string][]string)
	for _, n := range t.Nominals() {
		out[n] = t.AvailableSchedules(n)
	}
	c.JSON(http.StatusOK, success(out))
}

func (h *Handler) TableUnits(c *gin.Context) {
	out := make(map[units.Kind][]string)
	for _, k := range units.Kinds() {
		out[k] = units.Units(k)
	}
	c.JSON(http.StatusOK, success(out))
}

func (h *Handler) TableServices(c *gin.Context) {
	limits := h.tables.Load().Limits
	names := make([]string, 0, len(limits))
	for name := range limits {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make(map[string]any, 2)
	out["services"] = names
	out["limits"] = limits
	c.JSON(http.StatusOK, success(out))
}

func (h *Handler) TableFittings(c *gin.Context) {
	c.JSON(http.StatusOK, success(h.tables.Load().Fittings))
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, success(gin.H{
		"status":  "ok",
		"version": version.Version,
	}))
}
