package api

import (
	"errors"
	"net/http"

	"VolPath/internal/domain/models"
	"VolPath/internal/simulation"
	"VolPath/internal/usecase"
	apphttp "VolPath/pkg/http"
	applogger "VolPath/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Limits caps request sizes so one call cannot exhaust the process.
type Limits struct {
	MaxPaths int
	MaxSteps int
}

// Handler serves the simulation API.
type Handler struct {
	runner *usecase.SimulationRunner
	logger *applogger.Logger
	limits Limits
}

// NewHandler creates the API handler.
func NewHandler(runner *usecase.SimulationRunner, l *applogger.Logger, limits Limits) *Handler {
	return &Handler{runner: runner, logger: l, limits: limits}
}

// RegisterRoutes registers all API routes.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/health", h.Health)
	g.POST("/estimate", h.Estimate)
	g.POST("/simulate", h.Simulate)
	g.GET("/ws/simulate", h.SimulateStream)
}

// Health reports liveness.
func (h *Handler) Health(c echo.Context) error {
	return apphttp.SuccessResponse(c, map[string]string{"status": "up"})
}

// Estimate computes the diffusion coefficient for a session without
// generating paths.
func (h *Handler) Estimate(c echo.Context) error {
	req := new(EstimateRequest)
	if errs := apphttp.ReadAndValidateRequest(c, req); errs != nil {
		return apphttp.BadRequestResponse(c, errs)
	}

	style, ok := models.ParseVolatilityStyle(req.Style)
	if !ok {
		return apphttp.AppErrorResponse(c, apphttp.BadRequestErrorf("unknown style %q", req.Style))
	}

	est, err := simulation.EstimateDiffusion(models.SessionBounds{
		OpenValue:    req.Open,
		DailyMax:     req.Max,
		DailyMin:     req.Min,
		SessionHours: req.Hours,
	}, style)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return apphttp.SuccessResponse(c, estimateData(&est))
}

// Simulate runs one scenario and returns all paths plus the ensemble.
func (h *Handler) Simulate(c echo.Context) error {
	req := new(SimulateRequest)
	if errs := apphttp.ReadAndValidateRequest(c, req); errs != nil {
		return apphttp.BadRequestResponse(c, errs)
	}
	if appErr := h.checkLimits(req); appErr != nil {
		return apphttp.AppErrorResponse(c, appErr)
	}

	scenario, ok := req.toScenario()
	if !ok {
		return apphttp.AppErrorResponse(c, apphttp.BadRequestErrorf("unknown style %q", req.Style))
	}

	out, err := h.runner.Run(c.Request().Context(), scenario)
	if err != nil {
		return h.errorResponse(c, err)
	}
	return apphttp.SuccessResponse(c, simulateData(out))
}

func (h *Handler) checkLimits(req *SimulateRequest) *apphttp.AppError {
	if h.limits.MaxPaths > 0 && req.Paths > h.limits.MaxPaths {
		return apphttp.BadRequestErrorf("paths must be at most %d", h.limits.MaxPaths)
	}
	if h.limits.MaxSteps > 0 && req.Steps > h.limits.MaxSteps {
		return apphttp.BadRequestErrorf("steps must be at most %d", h.limits.MaxSteps)
	}
	return nil
}

func (h *Handler) errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, simulation.ErrInvalidInput):
		return apphttp.AppErrorResponse(c, apphttp.BadRequestError(err.Error()))
	case errors.Is(err, simulation.ErrBoundaryViolation):
		return apphttp.AppErrorResponse(c, apphttp.UnprocessableError(err.Error()))
	case errors.Is(err, simulation.ErrNumericDefect):
		if h.logger != nil {
			h.logger.Error("numeric defect in simulation", applogger.Error(err))
		}
		return apphttp.AppErrorResponse(c, apphttp.InternalError(err.Error()))
	default:
		if h.logger != nil {
			h.logger.Error("simulation failed", applogger.Error(err))
		}
		return c.JSON(http.StatusInternalServerError, apphttp.APIResponse{
			Status:  http.StatusInternalServerError,
			Message: http.StatusText(http.StatusInternalServerError),
		})
	}
}
