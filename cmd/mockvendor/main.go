// Command mockvendor emulates the three vendor APIs on one port so the relay
// and the UI can be exercised without credentials or network access. Point the
// providers at it via base_url in the config:
//
//	providers:
//	  openai:    { api_key: "test", base_url: "http://127.0.0.1:8091/openai/v1" }
//	  google:    { api_key: "test", base_url: "http://127.0.0.1:8091/gemini/v1beta" }
//	  anthropic: { api_key: "test", base_url: "http://127.0.0.1:8091/anthropic/v1" }
package main

import (
	"flag"
	"net/http"
	"time"

	"llmpanel/pkg/httputil"
	"llmpanel/pkg/logger"
)

// latency simulates vendor round-trip time so the UI's loading state is visible.
const latency = 300 * time.Millisecond

func main() {
	var addr string
	flag.StringVar(&addr, "addr", ":8091", "listen address")
	flag.Parse()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /openai/v1/chat/completions", handleOpenAI)
	mux.HandleFunc("POST /gemini/v1beta/models/{model}", handleGemini)
	mux.HandleFunc("POST /anthropic/v1/messages", handleAnthropic)

	logger.Printf("[Mock] Starting mock vendor APIs on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatalf("Mock vendor server stopped: %v", err)
	}
}

func handleOpenAI(w http.ResponseWriter, r *http.Request) {
	time.Sleep(latency)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"id":      "chatcmpl-mock",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   "mock-gpt",
		"choices": []any{
			map[string]any{
				"index": 0,
				"message": map[string]any{
					"role":    "assistant",
					"content": "Hello from the mock OpenAI endpoint.",
				},
				"finish_reason": "stop",
			},
		},
	})
}

func handleGemini(w http.ResponseWriter, r *http.Request) {
	time.Sleep(latency)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role": "model",
					"parts": []any{
						map[string]any{"text": "Hello from "},
						map[string]any{"text": "the mock Gemini endpoint."},
					},
				},
				"finishReason": "STOP",
			},
		},
	})
}

func handleAnthropic(w http.ResponseWriter, r *http.Request) {
	time.Sleep(latency)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"id":    "msg_mock",
		"type":  "message",
		"role":  "assistant",
		"model": "mock-claude",
		"content": []any{
			map[string]any{"type": "text", "text": "Hello from the mock Anthropic endpoint."},
		},
	})
}
