// Package main provides a utility script to verify the feedback API end to end
// against a running server. It creates, reads, edits and deletes one record.
// It can be run with: go run scripts/api_verification/verify_core_endpoints.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/NomadCrew/feedback-service/pkg/feedbackclient"
)

const (
	baseURLEnvVar  = "API_BASE_URL"
	defaultBaseURL = feedbackclient.DefaultBaseURL
)

type check struct {
	Name string
	Run  func(ctx context.Context) error
}

// expectStatus passes when err is an API error carrying the given status.
func expectStatus(err error, status int) error {
	var apiErr *feedbackclient.APIError
	if errors.As(err, &apiErr) && apiErr.Status == status {
		return nil
	}
	if err == nil {
		return fmt.Errorf("expected HTTP %d, request succeeded", status)
	}
	return fmt.Errorf("expected HTTP %d, got: %w", status, err)
}

func checks(client *feedbackclient.Client) []check {
	var id string

	return []check{
		{"Health", func(ctx context.Context) error {
			_, err := client.Health(ctx)
			return err
		}},
		{"List feedback", func(ctx context.Context) error {
			_, err := client.List(ctx)
			return err
		}},
		{"Reject empty submission", func(ctx context.Context) error {
			_, err := client.Create(ctx, "   ", "")
			return expectStatus(err, http.StatusBadRequest)
		}},
		{"Submit feedback", func(ctx context.Context) error {
			fb, err := client.Create(ctx, "API Verification", "Smoke test at "+time.Now().UTC().Format(time.RFC3339))
			if err != nil {
				return err
			}
			id = fb.ID
			return nil
		}},
		{"Newest first", func(ctx context.Context) error {
			items, err := client.List(ctx)
			if err != nil {
				return err
			}
			if len(items) == 0 || items[0].ID != id {
				return fmt.Errorf("submitted record %s is not first in the list", id)
			}
			return nil
		}},
		{"Edit feedback", func(ctx context.Context) error {
			fb, err := client.Update(ctx, id, "API Verification", "Edited")
			if err != nil {
				return err
			}
			if fb.Message != "Edited" {
				return fmt.Errorf("unexpected message %q", fb.Message)
			}
			return nil
		}},
		{"Delete feedback", func(ctx context.Context) error {
			_, err := client.Delete(ctx, id)
			return err
		}},
		{"Deleted record is gone", func(ctx context.Context) error {
			_, err := client.Get(ctx, id)
			return expectStatus(err, http.StatusNotFound)
		}},
	}
}

func main() {
	baseURL := os.Getenv(baseURLEnvVar)
	if baseURL == "" {
		baseURL = defaultBaseURL
		fmt.Printf("No %s environment variable found, using default: %s\n", baseURLEnvVar, defaultBaseURL)
	}

	client := feedbackclient.NewClient(baseURL)
	ctx := context.Background()

	fmt.Printf("Verifying feedback API at %s\n\n", baseURL)

	passed := 0
	all := checks(client)
	for _, c := range all {
		fmt.Printf("%-28s ", c.Name)
		if err := c.Run(ctx); err != nil {
			fmt.Printf("FAIL: %s\n", feedbackclient.Message(err))
			continue
		}
		fmt.Println("ok")
		passed++
	}

	fmt.Println("\nSummary:")
	fmt.Printf("Passed: %d/%d\n", passed, len(all))
	if passed != len(all) {
		os.Exit(1)
	}
}
