package chat

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-chat/internal/imagegen"
)

func setupRouter(svc *Service, debug bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r, debug)
	return r
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeMap(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v (%s)", err, resp.Body.String())
	}
	return out
}

func TestChatEndpointEmptyMessage(t *testing.T) {
	router := setupRouter(newTestService(&fakeLLM{}, imagegen.Disabled{}, nil), false)
	resp := postJSON(router, "/chat", `{"message": "  "}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := decodeMap(t, resp)
	if len(body) != 1 || body["response"] != Greeting {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestChatEndpointReplyShape(t *testing.T) {
	text := &fakeLLM{replies: []string{`{"resposta":"Olá","ctas":["Projetos"]}`}}
	router := setupRouter(newTestService(text, imagegen.Disabled{}, nil), false)

	resp := postJSON(router, "/chat", `{"message":"Quem é você?"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := decodeMap(t, resp)
	if body["response"] != "Olá" || body["call_action0"] != "Projetos" {
		t.Fatalf("unexpected body %v", body)
	}
	for _, key := range []string{"call_action1", "background_image"} {
		v, ok := body[key]
		if !ok || v != nil {
			t.Fatalf("expected %s to be present and null, got %v", key, body)
		}
	}
	if _, ok := body["image_prompt"]; ok {
		t.Fatalf("image_prompt must be absent outside debug mode")
	}
}

func TestChatEndpointFailuresReturnApology(t *testing.T) {
	tests := []struct {
		name string
		svc  *Service
		body string
	}{
		{name: "invalid json", svc: newTestService(&fakeLLM{}, imagegen.Disabled{}, nil), body: `{"message":`},
		{name: "wrong type", svc: newTestService(&fakeLLM{}, imagegen.Disabled{}, nil), body: `{"message": 12}`},
		{name: "model error", svc: newTestService(&fakeLLM{errs: []error{errors.New("down")}}, imagegen.Disabled{}, nil), body: `{"message":"oi"}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			logs := observeLogs(t)
			resp := postJSON(setupRouter(tt.svc, false), "/chat", tt.body)
			if resp.Code != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d", resp.Code)
			}
			body := decodeMap(t, resp)
			if body["response"] != Apology {
				t.Fatalf("unexpected body %v", body)
			}
			if logs.FilterMessage("chat_error").Len() != 1 {
				t.Fatalf("expected one chat_error log")
			}
		})
	}
}

func TestGenerateBackgroundOnlyInDebug(t *testing.T) {
	svc := newTestService(&fakeLLM{}, &fakeImages{img: imagegen.Image{Bytes: []byte{1}}}, nil)
	resp := postJSON(setupRouter(svc, false), "/generate_background", `{"prompt":"x"}`)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	resp = postJSON(setupRouter(svc, true), "/generate_background", `{"prompt":"x"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := decodeMap(t, resp)
	if body["image_url"] != "data:image/png;base64,AQ==" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestGenerateBackgroundErrors(t *testing.T) {
	svc := newTestService(&fakeLLM{}, &fakeImages{err: errors.New("quota")}, nil)
	router := setupRouter(svc, true)

	resp := postJSON(router, "/generate_background", `{}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	resp = postJSON(router, "/generate_background", `{"prompt":"x"}`)
	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.Code)
	}
	body := decodeMap(t, resp)
	errBody, ok := body["error"].(map[string]any)
	if !ok || errBody["code"] != "image_failed" {
		t.Fatalf("unexpected body %v", body)
	}

	disabled := setupRouter(newTestService(&fakeLLM{}, imagegen.Disabled{}, nil), true)
	resp = postJSON(disabled, "/generate_background", `{"prompt":"x"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if v, ok := decodeMap(t, resp)["image_url"]; !ok || v != nil {
		t.Fatalf("expected null image_url")
	}
}
