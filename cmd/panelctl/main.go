// Command panelctl posts a prompt to a running relay and prints one line per
// provider, sorted by identifier.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"llmpanel/internal/models"
	"llmpanel/pkg/logger"
)

func main() {
	var addr string
	var prompt string
	var providerList string
	var timeout time.Duration

	flag.StringVar(&addr, "addr", "http://127.0.0.1:8080", "relay base URL")
	flag.StringVar(&prompt, "prompt", "", "prompt to fan out")
	flag.StringVar(&providerList, "providers", "", "comma-separated provider ids (default: all)")
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "overall request timeout")
	flag.Parse()

	if prompt == "" {
		logger.Fatal("Please specify a prompt using --prompt")
	}

	req := models.QueryRequest{Prompt: prompt}
	if providerList != "" {
		for _, id := range strings.Split(providerList, ",") {
			if id = strings.TrimSpace(id); id != "" {
				req.Providers = append(req.Providers, id)
			}
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		logger.Fatalf("Failed to encode request: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Post(strings.TrimRight(addr, "/")+"/api/query", "application/json", bytes.NewReader(body))
	if err != nil {
		logger.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		logger.Fatalf("Relay returned %d: %s", resp.StatusCode, payload.Error)
	}

	var out models.QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		logger.Fatalf("Failed to decode response: %v", err)
	}

	ids := make([]string, 0, len(out.Responses))
	for id := range out.Responses {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		res := out.Responses[id]
		fmt.Printf("%-10s [%s] %s\n", id, res.Status, res.Message)
	}
}
