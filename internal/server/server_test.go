package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/pipecalc/pipecalc/internal/hydro"
	"github.com/pipecalc/pipecalc/internal/tables"
	"github.com/pipecalc/pipecalc/internal/validate"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return SetupRouter(NewHandler(tables.Defaults(), hydro.SwameeJain))
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope from %q: %v", w.Body.String(), err)
	}
	return w, env
}

const waterLineBody = `{
	"service": "liquid-process",
	"flow_rate": {"value": 100, "unit": "m3/h"},
	"density": {"value": 1000, "unit": "kg/m3"},
	"viscosity": {"value": 1, "unit": "cP"},
	"pipe": {
		"nominal": "6",
		"schedule": "40",
		"material": "commercial-steel",
		"length": {"value": 100, "unit": "m"}
	}
}`

const methaneStageBody = `{
	"standard_flow": {"value": 20, "unit": "MMSCFD"},
	"suction_pressure": {"value": 30, "unit": "bar"},
	"discharge_pressure": {"value": 60, "unit": "bar"},
	"suction_temperature": {"value": 30, "unit": "C"},
	"molar_mass": 16.04,
	"z": 0.95,
	"specific_heat_ratio": 1.3,
	"efficiency": 0.75
}`

func TestHealth(t *testing.T) {
	r := newRouter()
	w, env := do(t, r, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if env.Code != 0 {
		t.Errorf("code = %d", env.Code)
	}
	var data struct {
		Status  string `json:"status"`
		Version string `json:"version"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Status != "ok" || data.Version == "" {
		t.Errorf("data = %+v", data)
	}
}

func TestLineLiquidEndpoint(t *testing.T) {
	r := newRouter()
	w, env := do(t, r, http.MethodPost, "/v1/line/liquid", waterLineBody)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	if env.Code != 0 || env.Message != "success" {
		t.Fatalf("envelope = %d %q", env.Code, env.Message)
	}
	var res struct {
		Gradient float64 `json:"gradient_kpa_km"`
		Checks   []struct {
			Name    string `json:"name"`
			Verdict string `json:"verdict"`
		} `json:"checks"`
	}
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.Gradient < 115 || res.Gradient > 140 {
		t.Errorf("gradient = %v kPa/km, want about 126", res.Gradient)
	}
	if len(res.Checks) == 0 {
		t.Error("no criteria checks in response")
	}
}

func TestLineLiquidValidationProblems(t *testing.T) {
	r := newRouter()
	body := strings.Replace(waterLineBody,
		`"density": {"value": 1000, "unit": "kg/m3"},`, "", 1)
	w, env := do(t, r, http.MethodPost, "/v1/line/liquid", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	if env.Code != int(errBadRequest) {
		t.Errorf("code = %d, want %d", env.Code, errBadRequest)
	}
	var problems []validate.Problem
	if err := json.Unmarshal(env.Data, &problems); err != nil {
		t.Fatalf("decode problems: %v", err)
	}
	found := false
	for _, p := range problems {
		if p.Field == "density" {
			found = true
		}
	}
	if !found {
		t.Errorf("no density problem in %+v", problems)
	}
}

func TestMalformedJSONRejected(t *testing.T) {
	r := newRouter()
	w, env := do(t, r, http.MethodPost, "/v1/line/liquid", `{"flow_rate": `)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if env.Code != int(errBadRequest) {
		t.Errorf("code = %d", env.Code)
	}
}

func TestPumpEndpoint(t *testing.T) {
	r := newRouter()
	body := `{
		"mode": "flange-rating",
		"flow_rate": {"value": 100, "unit": "m3/h"},
		"density": {"value": 1000, "unit": "kg/m3"},
		"viscosity": {"value": 1, "unit": "cP"},
		"vapor_pressure": {"value": 2340, "unit": "Pa"},
		"suction": {
			"pressure": {"value": 2, "unit": "bar"},
			"pipe": {"nominal": "6", "schedule": "40"}
		},
		"discharge": {
			"pressure": {"value": 8, "unit": "bar"},
			"elevation": {"value": 0.5, "unit": "m"},
			"pipe": {"nominal": "4", "schedule": "40"}
		}
	}`
	w, env := do(t, r, http.MethodPost, "/v1/pump", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var res struct {
		Head struct {
			Total    float64 `json:"total_m"`
			Friction float64 `json:"friction_m"`
		} `json:"head"`
		NPSHa float64 `json:"npsha_m"`
	}
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	// 6 bar differential on water is about 61 m before the static and
	// velocity terms.
	if res.Head.Total < 55 || res.Head.Total > 70 {
		t.Errorf("total head = %v m", res.Head.Total)
	}
	if res.Head.Friction != 0 {
		t.Errorf("flange rating grew a friction term: %v", res.Head.Friction)
	}
	if res.NPSHa <= 0 {
		t.Errorf("npsha = %v", res.NPSHa)
	}
}

func TestCompressorEndpoint(t *testing.T) {
	r := newRouter()
	w, env := do(t, r, http.MethodPost, "/v1/compressor", methaneStageBody)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var res struct {
		PressureRatio float64 `json:"pressure_ratio"`
		GasPower      float64 `json:"gas_power_w"`
	}
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.PressureRatio != 2 {
		t.Errorf("pressure ratio = %v", res.PressureRatio)
	}
	if res.GasPower <= 0 {
		t.Errorf("gas power = %v", res.GasPower)
	}
}

func TestExchangerBundleEndpoint(t *testing.T) {
	r := newRouter()
	body := `{
		"shell_diameter": {"value": 0.5, "unit": "m"},
		"tube_od": {"value": 20, "unit": "mm"},
		"pitch": {"value": 25, "unit": "mm"},
		"pattern": "triangular",
		"passes": 1,
		"head": "split-ring"
	}`
	w, env := do(t, r, http.MethodPost, "/v1/exchanger/bundle", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var res struct {
		Count          int     `json:"count"`
		BundleDiameter float64 `json:"bundle_diameter_m"`
		ShellDiameter  float64 `json:"shell_diameter_m"`
	}
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.Count != 336 {
		t.Errorf("count = %d, want 336", res.Count)
	}
	if res.BundleDiameter < 0.51 || res.BundleDiameter > 0.52 {
		t.Errorf("bundle diameter = %v", res.BundleDiameter)
	}
	if res.ShellDiameter <= res.BundleDiameter {
		t.Errorf("shell %v not larger than bundle %v", res.ShellDiameter, res.BundleDiameter)
	}
}

func TestExchangerRatingEndpoint(t *testing.T) {
	r := newRouter()
	body := `{
		"arrangement": "counter-current",
		"hot_inlet": {"value": 90, "unit": "C"},
		"hot_outlet": {"value": 50, "unit": "C"},
		"cold_inlet": {"value": 20, "unit": "C"},
		"cold_outlet": {"value": 40, "unit": "C"},
		"hot_mass_flow": {"value": 36, "unit": "t/h"},
		"hot_specific_heat": {"value": 2.1, "unit": "kJ/kg.K"},
		"inside_film": {"value": 1200, "unit": "W/m2.K"},
		"outside_film": {"value": 900, "unit": "W/m2.K"},
		"inside_fouling": {"value": 0.0002, "unit": "m2.K/W"},
		"outside_fouling": {"value": 0.0002, "unit": "m2.K/W"},
		"correction_factor": 0.95,
		"tubes": {
			"outer_diameter": {"value": 20, "unit": "mm"},
			"wall_thickness": {"value": 2, "unit": "mm"},
			"conductivity": {"value": 50, "unit": "W/m.K"},
			"length": {"value": 4.8, "unit": "m"},
			"pattern": "triangular",
			"passes": 2,
			"head": "split-ring"
		}
	}`
	w, env := do(t, r, http.MethodPost, "/v1/exchanger/rating", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	var res struct {
		Duty   float64 `json:"duty_w"`
		Area   float64 `json:"area_m2"`
		Bundle *struct {
			TubeCount int `json:"tube_count"`
		} `json:"bundle"`
	}
	if err := json.Unmarshal(env.Data, &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.Duty != 840e3 {
		t.Errorf("duty = %v W", res.Duty)
	}
	if res.Bundle == nil || res.Bundle.TubeCount != 199 {
		t.Errorf("bundle = %+v, want 199 tubes", res.Bundle)
	}
}

func TestTableEndpoints(t *testing.T) {
	r := newRouter()

	_, env := do(t, r, http.MethodGet, "/v1/tables/nominals", "")
	var nominals []string
	if err := json.Unmarshal(env.Data, &nominals); err != nil {
		t.Fatalf("decode nominals: %v", err)
	}
	if !contains(nominals, "6") {
		t.Errorf("nominals = %v", nominals)
	}

	_, env = do(t, r, http.MethodGet, "/v1/tables/schedules?nominal=6", "")
	var scheds []string
	if err := json.Unmarshal(env.Data, &scheds); err != nil {
		t.Fatalf("decode schedules: %v", err)
	}
	if !contains(scheds, "40") {
		t.Errorf("schedules = %v", scheds)
	}

	w, _ := do(t, r, http.MethodGet, "/v1/tables/schedules?nominal=99", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("unknown nominal status = %d", w.Code)
	}

	_, env = do(t, r, http.MethodGet, "/v1/tables/units", "")
	var kinds map[string][]string
	if err := json.Unmarshal(env.Data, &kinds); err != nil {
		t.Fatalf("decode units: %v", err)
	}
	if !contains(kinds["flow_rate"], "m3/h") {
		t.Errorf("flow_rate units = %v", kinds["flow_rate"])
	}

	_, env = do(t, r, http.MethodGet, "/v1/tables/services", "")
	var services struct {
		Services []string `json:"services"`
	}
	if err := json.Unmarshal(env.Data, &services); err != nil {
		t.Fatalf("decode services: %v", err)
	}
	if !contains(services.Services, "liquid-process") {
		t.Errorf("services = %v", services.Services)
	}

	_, env = do(t, r, http.MethodGet, "/v1/tables/fittings", "")
	var fittings map[string]float64
	if err := json.Unmarshal(env.Data, &fittings); err != nil {
		t.Fatalf("decode fittings: %v", err)
	}
	if len(fittings) == 0 {
		t.Error("no fittings in table")
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func TestTableSwapReachesHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewHandler(tables.Defaults(), hydro.SwameeJain)
	r := SetupRouter(h)

	next := tables.Defaults()
	next.Fittings = map[string]float64{"venturi": 0.05}
	h.SwapTables(next)

	_, env := do(t, r, http.MethodGet, "/v1/tables/fittings", "")
	var fittings map[string]float64
	if err := json.Unmarshal(env.Data, &fittings); err != nil {
		t.Fatalf("decode fittings: %v", err)
	}
	if len(fittings) != 1 || fittings["venturi"] != 0.05 {
		t.Errorf("fittings after swap = %v", fittings)
	}
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	lim := newIPRateLimiter(1, 2)
	r.GET("/x", lim.middleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, success(nil))
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("burst requests rejected: %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request passed: %v", codes)
	}

	// A different client has its own bucket.
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("fresh client limited: %d", w.Code)
	}
}

func TestWebSocketRecalculation(t *testing.T) {
	srv := httptest.NewServer(newRouter())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	defer conn.Close()

	// A good frame computes and replies in kind.
	msg := wsMessage{Type: "compressor", Payload: json.RawMessage(methaneStageBody)}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write: %v", err)
	}
	var reply wsReply
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	if reply.Type != "compressor" || reply.Error != "" {
		t.Fatalf("reply = %+v", reply)
	}
	result, ok := reply.Result.(map[string]any)
	if !ok {
		t.Fatalf("result type %T", reply.Result)
	}
	if ratio, _ := result["pressure_ratio"].(float64); ratio != 2 {
		t.Errorf("pressure ratio = %v", result["pressure_ratio"])
	}

	// Edits with bad values come back as problems, and the session
	// keeps serving.
	bad := strings.Replace(methaneStageBody,
		`"suction_pressure": {"value": 30, "unit": "bar"},`,
		`"suction_pressure": {"value": -30, "unit": "bar"},`, 1)
	if err := conn.WriteJSON(wsMessage{Type: "compressor", Payload: json.RawMessage(bad)}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	if reply.Error == "" || len(reply.Problems) == 0 {
		t.Fatalf("bad input passed: %+v", reply)
	}

	// Unknown types are answered, not dropped.
	if err := conn.WriteJSON(wsMessage{Type: "nonsense"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(reply.Error, "unknown message type") {
		t.Errorf("error = %q", reply.Error)
	}
}
