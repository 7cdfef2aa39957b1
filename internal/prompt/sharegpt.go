package prompt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/davidbz/streambench/internal/observability"
)

// CharsPerToken approximates English tokenization.
const CharsPerToken = 4

// Conversation is one ShareGPT record.
type Conversation struct {
	Conversations []Turn `json:"conversations"`
}

// Turn is a single message of a ShareGPT conversation.
type Turn struct {
	From  string `json:"from"`
	Value string `json:"value"`
}

// EstimateTokens returns a rough token count of at least one.
func EstimateTokens(text string) int {
	return max(1, utf8.RuneCountInString(text)/CharsPerToken)
}

// FilterShareGPT keeps the first human turn of each conversation whose
// estimated length lies within [target/4, 2*target], truncated to the target.
func FilterShareGPT(data []Conversation, target int) []string {
	minTokens := max(1, target/4)
	maxTokens := target * 2
	charLimit := target * CharsPerToken

	var prompts []string
	for _, entry := range data {
		for _, turn := range entry.Conversations {
			if turn.From != "human" {
				continue
			}

			text := strings.TrimSpace(turn.Value)
			if text != "" {
				if est := EstimateTokens(text); est >= minTokens && est <= maxTokens {
					if runes := []rune(text); len(runes) > charLimit {
						text = string(runes[:charLimit])
					}
					prompts = append(prompts, text)
				}
			}
			break
		}
	}
	return prompts
}

// LoadShareGPT reads the dataset from cfg.ShareGPTPath when set, otherwise
// downloads it from cfg.ShareGPTURL, and returns the filtered prompts.
func LoadShareGPT(ctx context.Context, cfg *Config, target int) ([]string, error) {
	var (
		raw []byte
		err error
	)
	if cfg.ShareGPTPath != "" {
		raw, err = os.ReadFile(cfg.ShareGPTPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset: %w", err)
		}
	} else {
		raw, err = download(ctx, cfg.ShareGPTURL, time.Duration(cfg.DownloadTimeout)*time.Second)
		if err != nil {
			return nil, err
		}
	}

	var data []Conversation
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}

	return FilterShareGPT(data, target), nil
}

func download(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	logger := observability.FromContext(ctx)
	logger.Info("downloading ShareGPT dataset", observability.String("url", url))

	client := &http.Client{Timeout: timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	logger.Info("downloaded ShareGPT dataset", observability.Float64("size_mb", float64(len(raw))/1024/1024))
	return raw, nil
}
