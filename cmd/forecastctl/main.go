// Package main implements the forecastctl CLI for manual operations
// against the forecastd HTTP server.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	// serverURL is the base URL for the forecastd HTTP server
	serverURL string
	// userID identifies the dialogue to send messages into
	userID string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "forecastctl",
	Short: "CLI for forecastd HTTP server operations",
	Long: `forecastctl is a command-line interface for interacting with the forecastd
HTTP server. It provides commands for sending dialogue messages and
checking server health.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8480", "forecastd server URL")
	sendCmd.Flags().StringVar(&userID, "user", "forecastctl", "user id for the dialogue")
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(healthCmd)
}

// sendCmd sends one dialogue message and prints the replies
var sendCmd = &cobra.Command{
	Use:   "send [text]",
	Short: "Send a dialogue message",
	Long: `Send one message into a dialogue and print the bot's replies.

Examples:
  # Ask for a forecast
  forecastctl send "Погода в Москве завтра"

  # Continue a clarification as a specific user
  forecastctl send --user alice "Питер"`,
	Args: cobra.ExactArgs(1),
	RunE: runSend,
}

// healthCmd checks server health
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check forecastd server health",
	RunE:  runHealth,
}

type messageRequest struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

type messageResponse struct {
	MessageID string   `json:"message_id"`
	Replies   []string `json:"replies"`
}

func httpClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

func runSend(cmd *cobra.Command, args []string) error {
	body, err := json.Marshal(messageRequest{UserID: userID, Text: args[0]})
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	resp, err := httpClient().Post(serverURL+"/v1/messages", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sending message: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned %s: %s", resp.Status, payload)
	}

	var msg messageResponse
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	for _, reply := range msg.Replies {
		fmt.Fprintln(cmd.OutOrStdout(), reply)
	}
	return nil
}

func runHealth(cmd *cobra.Command, _ []string) error {
	resp, err := httpClient().Get(serverURL + "/health")
	if err != nil {
		return fmt.Errorf("checking health: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server unhealthy: %s", resp.Status)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "ok")
	return nil
}
