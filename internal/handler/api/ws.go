package api

import (
	"net/http"

	apphttp "VolPath/pkg/http"
	applogger "VolPath/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamFrame is one websocket message. Type is "meta", "path" or
// "ensemble"; exactly one of the payload fields is set.
type StreamFrame struct {
	Type     string        `json:"type"`
	Meta     *StreamMeta   `json:"meta,omitempty"`
	Path     *PathData     `json:"path,omitempty"`
	Ensemble *EnsembleData `json:"ensemble,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// StreamMeta opens a stream: the resolved diffusion and the time grid
// shared by every subsequent path frame.
type StreamMeta struct {
	Diffusion float64       `json:"diffusion"`
	Estimate  *EstimateData `json:"estimate,omitempty"`
	FromCache bool          `json:"from_cache"`
	Paths     int           `json:"paths"`
	Grid      []float64     `json:"grid"`
}

// SimulateStream runs a scenario and streams it over a websocket: one
// meta frame, one frame per path, one ensemble frame. Parameters arrive
// as query values.
func (h *Handler) SimulateStream(c echo.Context) error {
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

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	out, err := h.runner.Run(c.Request().Context(), scenario)
	if err != nil {
		_ = conn.WriteJSON(StreamFrame{Type: "error", Error: err.Error()})
		return nil
	}

	data := simulateData(out)

	if err := conn.WriteJSON(StreamFrame{
		Type: "meta",
		Meta: &StreamMeta{
			Diffusion: data.Diffusion,
			Estimate:  data.Estimate,
			FromCache: data.FromCache,
			Paths:     len(data.Paths),
			Grid:      data.Grid,
		},
	}); err != nil {
		return nil
	}

	for i := range data.Paths {
		pd := data.Paths[i]
		if pd.Values == nil {
			// One path per frame, so the inline budget does not apply here.
			pd.Values = out.Result.PathValues(pd.ID)
		}
		if err := conn.WriteJSON(StreamFrame{Type: "path", Path: &pd}); err != nil {
			if h.logger != nil {
				h.logger.Debug("websocket client gone", applogger.Error(err))
			}
			return nil
		}
	}

	_ = conn.WriteJSON(StreamFrame{Type: "ensemble", Ensemble: &data.Ensemble})
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done"))
	return nil
}
