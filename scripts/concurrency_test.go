//go:build ignore
// +build ignore

// Package main provides a manual concurrency stress test for the borrow
// request API.
//
// Usage:
//
//	go run ./scripts/concurrency_test.go <book_id> <user1_token> [user2_token ...]
//
// Or use the convenience environment variables:
//
//	BOOK_ID=<uuid>  USER_TOKENS=<jwt1>,<jwt2>,...  go run ./scripts/concurrency_test.go
//
// What it does:
//  1. Fires N goroutines (one per user) all posting a borrow request for the
//     same book simultaneously.
//  2. Prints how many requests were accepted vs. denied, with the deny reason.
//
// Requests never allocate inventory, so every eligible user should get a
// borrow_requested record; the real contention point is admin approval, where
// the guarded available-count decrement admits at most `available` approvals.
//
// Prerequisites:
//   - Server must be running with DATABASE_URL set.
//   - The book and the users (with approved library cards) must exist.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"
)

const defaultServerAddr = "http://localhost:8080"

type borrowResult struct {
	User       int
	StatusCode int
	Message    string
	Err        error
}

func main() {
	serverAddr := os.Getenv("SERVER_ADDR")
	if serverAddr == "" {
		serverAddr = defaultServerAddr
	}

	bookID := os.Getenv("BOOK_ID")
	var tokens []string
	if env := os.Getenv("USER_TOKENS"); env != "" {
		tokens = strings.Split(env, ",")
	}

	args := os.Args[1:]
	if len(args) >= 1 {
		bookID = args[0]
	}
	if len(args) >= 2 {
		tokens = args[1:]
	}

	if bookID == "" || len(tokens) == 0 {
		log.Fatal("Usage: BOOK_ID=<uuid> USER_TOKENS=<jwt1,jwt2,...> go run ./scripts/concurrency_test.go\n" +
			"  or: go run ./scripts/concurrency_test.go <book_id> <token1> [token2 ...]")
	}

	fmt.Printf("=== Borrow Request Concurrency Test ===\n")
	fmt.Printf("Server : %s\n", serverAddr)
	fmt.Printf("Book   : %s\n", bookID)
	fmt.Printf("Users  : %d\n\n", len(tokens))

	results := make([]borrowResult, len(tokens))
	var wg sync.WaitGroup

	// Fire all goroutines simultaneously using a barrier.
	start := make(chan struct{})

	for i, tok := range tokens {
		wg.Add(1)
		go func(idx int, token string) {
			defer wg.Done()
			<-start
			results[idx] = attemptBorrow(serverAddr, bookID, strings.TrimSpace(token), idx)
		}(i, tok)
	}

	fmt.Println("Firing all requests simultaneously...")
	close(start)
	wg.Wait()
	fmt.Println("All requests completed.")
	fmt.Println()

	var accepted, denied, failures int
	for _, r := range results {
		switch {
		case r.Err != nil:
			failures++
			fmt.Printf("  [ERR ] user=%-3d err=%v\n", r.User, r.Err)
		case r.StatusCode == http.StatusCreated:
			accepted++
			fmt.Printf("  [OK  ] user=%-3d status=%d\n", r.User, r.StatusCode)
		default:
			denied++
			fmt.Printf("  [DENY] user=%-3d status=%d reason=%q\n", r.User, r.StatusCode, r.Message)
		}
	}

	fmt.Printf("\n--- Summary ---\n")
	fmt.Printf("Accepted : %d\n", accepted)
	fmt.Printf("Denied   : %d\n", denied)
	fmt.Printf("Failures : %d\n", failures)
	fmt.Printf("Total    : %d\n", len(tokens))

	if failures > 0 {
		fmt.Printf("\n[WARNING] %d request(s) failed — check server logs for details.\n", failures)
		os.Exit(1)
	}
}

// attemptBorrow sends POST /api/borrows/{bookID} with the user's bearer token
// and parses the JSON response.
func attemptBorrow(serverAddr, bookID, token string, idx int) borrowResult {
	url := fmt.Sprintf("%s/api/borrows/%s", serverAddr, bookID)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(nil))
	if err != nil {
		return borrowResult{User: idx, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return borrowResult{User: idx, Err: err}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	var parsed map[string]interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return borrowResult{User: idx, StatusCode: resp.StatusCode, Err: fmt.Errorf("bad JSON: %s", raw)}
	}

	msg, _ := parsed["error"].(string)
	if msg == "" {
		msg, _ = parsed["message"].(string)
	}
	return borrowResult{User: idx, StatusCode: resp.StatusCode, Message: msg}
}
