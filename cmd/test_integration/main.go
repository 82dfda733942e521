// Command test_integration runs a smoke test against a running server.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func main() {
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting Integration Test...")

	nome := fmt.Sprintf("Cliente Teste %d", time.Now().Unix())

	fmt.Println("1. Health check...")
	if _, ok := sendRequest(baseURL, http.MethodGet, "/healthz", nil); !ok {
		fmt.Println("FAILED: Health check")
		os.Exit(1)
	}
	fmt.Println("PASSED: Health check")

	fmt.Println("2. Saving profile...")
	profile := map[string]any{
		"nome": nome,
		"dadosAdicionais": []map[string]string{
			{"label": "CPF", "value": "529.982.247-25"},
			{"label": "Nacionalidade", "value": "brasileira"},
		},
	}
	if _, ok := sendRequest(baseURL, http.MethodPost, "/profiles", profile); !ok {
		fmt.Println("FAILED: Save profile")
		os.Exit(1)
	}
	fmt.Println("PASSED: Save profile")

	fmt.Println("3. Verifying minute against registry...")
	payload := map[string]any{
		"minuteText":  fmt.Sprintf("OUTORGANTE VENDEDORA: %s, brasileira, inscrita no CPF sob nº 529.982.247-25.", nome),
		"clientNames": []string{nome},
	}
	body, ok := sendRequest(baseURL, http.MethodPost, "/minutes/verify-parties", payload)
	if !ok {
		fmt.Println("FAILED: Verify parties")
		os.Exit(1)
	}
	var report struct {
		ClientChecks []struct {
			ClientName string `json:"clientName"`
		} `json:"clientChecks"`
	}
	if err := json.Unmarshal(body, &report); err != nil || len(report.ClientChecks) != 1 {
		fmt.Printf("FAILED: Unexpected report: %s\n", body)
		os.Exit(1)
	}
	fmt.Println("PASSED: Verify parties")

	fmt.Println("4. Reading prompts...")
	if _, ok := sendRequest(baseURL, http.MethodGet, "/prompts", nil); !ok {
		fmt.Println("FAILED: Prompts")
		os.Exit(1)
	}
	fmt.Println("PASSED: Prompts")
}

func sendRequest(baseURL, method, endpoint string, payload any) ([]byte, bool) {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return nil, false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return nil, false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return nil, false
	}

	fmt.Printf("Response: %s\n", string(respBody))
	return respBody, true
}
