package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/pipecalc/pipecalc/internal/compressor"
	"github.com/pipecalc/pipecalc/internal/exchanger"
	"github.com/pipecalc/pipecalc/internal/linesize"
	"github.com/pipecalc/pipecalc/internal/logger"
	"github.com/pipecalc/pipecalc/internal/validate"
)

// wsMessage is one request frame: the calculator to run and its input.
// The types mirror the POST routes under /v1.
type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// wsReply echoes the request type with either the result or the error.
type wsReply struct {
	Type     string             `json:"type"`
	Result   any                `json:"result,omitempty"`
	Error    string             `json:"error,omitempty"`
	Problems []validate.Problem `json:"problems,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// Cross-origin policy is enforced by CORS on the REST surface; the
	// socket accepts any origin so browser clients behind it work.
	CheckOrigin: func(*http.Request) bool { return true },
}

// ServeWS runs the live-recalculation session: every frame is computed
// and answered immediately, so a form can push each edit and render the
// reply.
func (h *Handler) ServeWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Logger.Errorf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Logger.Errorf("websocket read: %v", err)
			}
			return
		}
		if err := conn.WriteJSON(h.dispatch(msg)); err != nil {
			logger.Logger.Errorf("websocket write: %v", err)
			return
		}
	}
}

func (h *Handler) dispatch(msg wsMessage) wsReply {
	result, err := h.compute(msg.Type, msg.Payload)
	if err != nil {
		reply := wsReply{Type: msg.Type, Error: err.Error()}
		var ve *validate.ValidationError
		if errors.As(err, &ve) {
			reply.Problems = ve.Problems
		}
		return reply
	}
	return wsReply{Type: msg.Type, Result: result}
}

func (h *Handler) compute(typ string, payload json.RawMessage) (any, error) {
	switch typ {
	case "line/liquid":
		var in linesize.LiquidInput
		if err := json.Unmarshal(payload, &in); err != nil {
			return nil, err
		}
		return h.lines().Liquid(in)
	case "line/gas":
		var in linesize.GasInput
		if err := json.Unmarshal(payload, &in); err != nil {
			return nil, err
		}
		return h.lines().Gas(in)
	case "line/twophase":
		var in linesize.TwoPhaseInput
		if err := json.Unmarshal(payload, &in); err != nil {
			return nil, err
		}
		return h.lines().TwoPhase(in)
	case "pump":
		var req pumpRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, err
		}
		return h.runPump(req)
	case "compressor":
		var in compressor.Input
		if err := json.Unmarshal(payload, &in); err != nil {
			return nil, err
		}
		return compressor.Calculate(in)
	case "exchanger/bundle":
		var req bundleRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return nil, err
		}
		return runBundle(req)
	case "exchanger/rating":
		var in exchanger.RatingInput
		if err := json.Unmarshal(payload, &in); err != nil {
			return nil, err
		}
		return exchanger.Rating(in)
	default:
		return nil, fmt.Errorf("unknown message type %q", typ)
	}
}
