package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
)

// Thin client for the proberace API:
//
//	proberace-cli race https://a.example https://b.example
//	proberace-cli checkall https://a.example https://b.example https://c.example
//
// API base comes from API_BASE (default http://localhost:8080).
func main() {
	timeoutMS := flag.Int("timeout-ms", 0, "per-attempt timeout for race (0 = server default)")
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: proberace-cli [-timeout-ms N] race|checkall <target> [target...]")
		os.Exit(2)
	}
	command, targets := args[0], args[1:]

	api := os.Getenv("API_BASE")
	if api == "" {
		api = "http://localhost:8080"
	}

	switch command {
	case "race":
		body, _ := json.Marshal(map[string]any{"targets": targets, "timeout_ms": *timeoutMS})
		resp, err := http.Post(api+"/api/race", "application/json", bytes.NewReader(body))
		if err != nil {
			fmt.Fprintln(os.Stderr, "error contacting API:", err)
			os.Exit(1)
		}
		defer resp.Body.Close()

		var out struct {
			Winner    string `json:"winner"`
			AllFailed bool   `json:"all_failed"`
			Error     string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&out)
		switch {
		case resp.StatusCode == http.StatusOK:
			fmt.Println("winner:", out.Winner)
		case out.AllFailed:
			fmt.Println("all targets failed")
			os.Exit(1)
		default:
			fmt.Fprintln(os.Stderr, "API returned status:", resp.Status)
			os.Exit(1)
		}

	case "checkall":
		body, _ := json.Marshal(map[string]any{"targets": targets})
		resp, err := http.Post(api+"/api/checkall", "application/json", bytes.NewReader(body))
		if err != nil {
			fmt.Fprintln(os.Stderr, "error contacting API:", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			fmt.Fprintln(os.Stderr, "API returned status:", resp.Status)
			os.Exit(1)
		}

		var out struct {
			Results map[string]bool `json:"results"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&out)
		for target, healthy := range out.Results {
			state := "DOWN"
			if healthy {
				state = "UP"
			}
			fmt.Printf("%-4s %s\n", state, target)
		}

	default:
		fmt.Fprintln(os.Stderr, "unknown command:", command)
		os.Exit(2)
	}
}
