package clock

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/framboises/cockpit/app/timeline"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	app := fiber.New()
	SetupClockRoutes(app, timeline.NewSimClock(loc))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]interface{}) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	out := map[string]interface{}{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("%s %s: decode body: %v", method, path, err)
	}
	return resp.StatusCode, out
}

func clockField(t *testing.T, body map[string]interface{}, key string) interface{} {
	t.Helper()
	state, ok := body["clock"].(map[string]interface{})
	if !ok {
		t.Fatalf("response has no clock state: %v", body)
	}
	return state[key]
}

func TestGetClockDefaultsToRealMode(t *testing.T) {
	app := newTestApp(t)

	code, body := doJSON(t, app, "GET", "/clock", "")
	if code != 200 {
		t.Fatalf("status = %d, want 200", code)
	}
	if mode := clockField(t, body, "mode"); mode != "real" {
		t.Errorf("mode = %v, want real", mode)
	}
	if playing := clockField(t, body, "playing"); playing != false {
		t.Errorf("playing = %v, want false", playing)
	}
}

func TestSetSimPinsInstant(t *testing.T) {
	app := newTestApp(t)

	code, body := doJSON(t, app, "POST", "/clock/sim", `{"datetime":"2026-06-13 08:05"}`)
	if code != 200 {
		t.Fatalf("status = %d, want 200", code)
	}
	if mode := clockField(t, body, "mode"); mode != "sim" {
		t.Errorf("mode = %v, want sim", mode)
	}
	if now := clockField(t, body, "now"); now != "2026-06-13 08:05:00" {
		t.Errorf("now = %v, want 2026-06-13 08:05:00", now)
	}
}

func TestSetSimRejectsMalformedInstant(t *testing.T) {
	app := newTestApp(t)

	code, body := doJSON(t, app, "POST", "/clock/sim", `{"datetime":"13/06/2026 08h05"}`)
	if code != 400 {
		t.Fatalf("status = %d, want 400", code)
	}
	if body["success"] != false {
		t.Errorf("success = %v, want false", body["success"])
	}

	// State must be untouched.
	_, state := doJSON(t, app, "GET", "/clock", "")
	if mode := clockField(t, state, "mode"); mode != "real" {
		t.Errorf("mode after rejected input = %v, want real", mode)
	}
}

func TestSetSpeedRejectsNonPositive(t *testing.T) {
	app := newTestApp(t)

	for _, payload := range []string{`{"speed":0}`, `{"speed":-2}`} {
		code, _ := doJSON(t, app, "POST", "/clock/speed", payload)
		if code != 400 {
			t.Errorf("POST /clock/speed %s: status = %d, want 400", payload, code)
		}
	}

	code, body := doJSON(t, app, "POST", "/clock/speed", `{"speed":30}`)
	if code != 200 {
		t.Fatalf("status = %d, want 200", code)
	}
	if speed := clockField(t, body, "speed"); speed != 30.0 {
		t.Errorf("speed = %v, want 30", speed)
	}
}

func TestStepAdvancesSimInstant(t *testing.T) {
	app := newTestApp(t)

	doJSON(t, app, "POST", "/clock/sim", `{"datetime":"2026-06-13 08:00"}`)
	_, body := doJSON(t, app, "POST", "/clock/step", `{"minutes":90}`)
	if now := clockField(t, body, "now"); now != "2026-06-13 09:30:00" {
		t.Errorf("now after step = %v, want 2026-06-13 09:30:00", now)
	}

	_, body = doJSON(t, app, "POST", "/clock/step", `{"minutes":-30}`)
	if now := clockField(t, body, "now"); now != "2026-06-13 09:00:00" {
		t.Errorf("now after negative step = %v, want 2026-06-13 09:00:00", now)
	}
}

func TestPlayPauseRoundTrip(t *testing.T) {
	app := newTestApp(t)

	doJSON(t, app, "POST", "/clock/sim", `{"datetime":"2026-06-13 08:00"}`)
	_, body := doJSON(t, app, "POST", "/clock/play", "")
	if playing := clockField(t, body, "playing"); playing != true {
		t.Errorf("playing after play = %v, want true", playing)
	}

	_, body = doJSON(t, app, "POST", "/clock/pause", "")
	if playing := clockField(t, body, "playing"); playing != false {
		t.Errorf("playing after pause = %v, want false", playing)
	}
}

func TestUseRealStopsPlayback(t *testing.T) {
	app := newTestApp(t)

	doJSON(t, app, "POST", "/clock/sim", `{"datetime":"2026-06-13 08:00"}`)
	doJSON(t, app, "POST", "/clock/play", "")
	_, body := doJSON(t, app, "POST", "/clock/real", "")
	if mode := clockField(t, body, "mode"); mode != "real" {
		t.Errorf("mode = %v, want real", mode)
	}
	if playing := clockField(t, body, "playing"); playing != false {
		t.Errorf("playing = %v, want false", playing)
	}
}
