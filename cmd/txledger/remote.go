package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/iho/txledger/internal/adapter/http/dto"
)

func newRemoteCmd(stdout io.Writer) *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)

	remoteCmd := &cobra.Command{
		Use:   "remote",
		Short: "Query a running txledger server",
	}
	remoteCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the txledger API")
	remoteCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	consistencyCmd := &cobra.Command{
		Use:   "consistency",
		Short: "Check ledger consistency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return checkConsistency(&http.Client{Timeout: timeout}, baseURL, stdout)
		},
	}

	remoteCmd.AddCommand(consistencyCmd)
	return remoteCmd
}

func checkConsistency(client *http.Client, baseURL string, w io.Writer) error {
	resp, err := client.Get(baseURL + "/api/v1/ledger/consistency")
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var result dto.ConsistencyResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("failed to parse response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(w, "Consistency check FAILED (Status: %d)\nResponse: %s\n", resp.StatusCode, result.Message)
		return errInconsistent
	}

	fmt.Fprintf(w, "Consistency check PASSED\n")
	fmt.Fprintf(w, "Consistent: %v\n", result.Consistent)
	fmt.Fprintf(w, "Status: %s\n", result.Status)
	return nil
}
