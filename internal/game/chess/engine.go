package chess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrEngineUnavailable = errors.New("chess engine is not configured")

const engineRequestTimeout = 10 * time.Second

// EngineClient talks to the external best-move suggestion service. The
// service takes a position and answers with a move in compact coordinate
// notation; failures are for the caller to log and swallow, they must
// never corrupt game state.
type EngineClient struct {
	baseURL string
	client  *http.Client
}

func NewEngineClient(baseURL string) *EngineClient {
	return &EngineClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: engineRequestTimeout},
	}
}

type engineResponse struct {
	Success  bool   `json:"success"`
	BestMove string `json:"bestmove"`
}

// BestMove queries the service for the position's best move.
func (that *EngineClient) BestMove(ctx context.Context, fen string) (string, error) {
	endpoint := fmt.Sprintf("%s?fen=%s", that.baseURL, url.QueryEscape(fen))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := that.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to query engine: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("engine responded with status %d", resp.StatusCode)
	}

	var body engineResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode engine response: %w", err)
	}

	move := parseBestMove(body.BestMove)
	if move == "" {
		return "", fmt.Errorf("engine returned no move for %q", fen)
	}

	return move, nil
}

// parseBestMove accepts either a bare coordinate move ("e2e4") or the
// engine's verbose line ("bestmove e2e4 ponder d7d5").
func parseBestMove(raw string) string {
	fields := strings.Fields(raw)

	for index, field := range fields {
		if field == "bestmove" && index+1 < len(fields) {
			return fields[index+1]
		}
	}

	if len(fields) == 1 {
		return fields[0]
	}

	return ""
}
