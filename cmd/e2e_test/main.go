// Smoke test against a running server.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const baseURL = "http://localhost:8080"

func main() {
	// Wait for server to start
	time.Sleep(2 * time.Second)

	// 1. Health Check
	checkEndpoint("GET", "/health", nil, 200)

	// 2. Currency directory
	checkEndpoint("GET", "/currencies", nil, 200)

	// 3. Create an account with a cash holding
	userID := "e2e-user"
	accountID := createAccount(userID)
	fmt.Printf("Created Account ID: %s\n", accountID)
	checkEndpoint("POST", "/account/"+accountID+"/cash-holdings", map[string]interface{}{
		"balance":  "1000",
		"currency": "EUR",
	}, 201)

	// 4. Log an expense
	checkEndpoint("POST", "/expenses", map[string]interface{}{
		"user_id":      userID,
		"amount":       "120.50",
		"currency":     "USD",
		"category":     "non_recurring",
		"subcategory":  "groceries",
		"expense_date": time.Now().UTC().Format("2006-01-02"),
	}, 201)

	// 5. Valuation, history, FIRE
	checkEndpoint("GET", "/net-worth/"+userID, nil, 200)
	checkEndpoint("GET", "/net-worth/"+userID+"/history?range=daily", nil, 200)
	checkEndpoint("GET", "/fire/"+userID, nil, 200)

	// 6. Sorted expense listing
	checkEndpoint("GET", "/expenses/"+userID+"?sort=amount&dir=asc", nil, 200)

	fmt.Println("ALL TESTS PASSED")
}

func checkEndpoint(method, path string, body interface{}, expectedStatus int) {
	fmt.Printf("Testing %s %s...\n", method, path)
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, _ := http.NewRequest(method, baseURL+path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != expectedStatus {
		log.Fatalf("Expected status %d, got %d. Body: %s", expectedStatus, resp.StatusCode, string(respBody))
	}
	fmt.Printf("Response: %s\n", string(respBody))
}

func createAccount(userID string) string {
	reqBody := map[string]interface{}{
		"user_id": userID,
		"name":    "E2E Savings",
		"type":    "cash",
	}
	jsonBody, _ := json.Marshal(reqBody)
	resp, err := http.Post(baseURL+"/accounts", "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		log.Fatalf("Create account failed: %v", err)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 201 {
		log.Fatalf("Expected status 201, got %d. Body: %s", resp.StatusCode, string(respBody))
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(respBody, &out); err != nil || out.ID == "" {
		log.Fatalf("Could not parse account id from: %s", string(respBody))
	}
	return out.ID
}
