package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"StockPulse/internal/model"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
const defaultGeminiModel = "gemini-1.5-flash"

// Gemini asks a generative text model for a forecast. The model is prompted
// to reply with a JSON object; the reply is free text, so the first
// balanced-brace JSON substring is extracted and parsed.
type Gemini struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	now     func() time.Time
}

// GeminiOption configures the Gemini predictor.
type GeminiOption func(*Gemini)

// WithBaseURL points the client at a custom endpoint (tests, proxies).
func WithBaseURL(url string) GeminiOption {
	return func(g *Gemini) { g.baseURL = strings.TrimRight(url, "/") }
}

// WithModel overrides the generation model.
func WithModel(model string) GeminiOption {
	return func(g *Gemini) { g.model = model }
}

// WithClock pins the prediction-date clock.
func WithClock(now func() time.Time) GeminiOption {
	return func(g *Gemini) { g.now = now }
}

func NewGemini(apiKey string, opts ...GeminiOption) *Gemini {
	g := &Gemini{
		apiKey:  apiKey,
		baseURL: defaultGeminiBaseURL,
		model:   defaultGeminiModel,
		client:  &http.Client{Timeout: 60 * time.Second},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gemini) Name() string { return "gemini" }

type geminiRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float64 `json:"temperature,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// forecast is the JSON object the model is asked to produce.
type forecast struct {
	Price      float64 `json:"price"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

func (g *Gemini) Predict(ctx context.Context, in Input) (*model.Prediction, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: buildPrompt(in)}}},
		},
		GenerationConfig: &geminiGenerationConfig{
			MaxOutputTokens: 512,
			Temperature:     0.2,
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gemini: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var gr geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(gr.Candidates) == 0 {
		return nil, fmt.Errorf("%w: no candidates", ErrInvalidResponse)
	}

	var text strings.Builder
	for _, part := range gr.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}

	raw, ok := extractJSON(text.String())
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object in reply", ErrInvalidResponse)
	}
	var fc forecast
	if err := json.Unmarshal([]byte(raw), &fc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if fc.Price <= 0 {
		return nil, fmt.Errorf("%w: non-positive price", ErrInvalidResponse)
	}

	return &model.Prediction{
		Symbol:         in.Symbol,
		CurrentPrice:   in.CurrentPrice,
		PredictedPrice: fc.Price,
		Confidence:     math.Round(clampConfidence(fc.Confidence)),
		PredictionDate: g.now().Format("2006-01-02"),
		Reasoning:      fc.Reasoning,
	}, nil
}

func clampConfidence(c float64) float64 {
	if c < minConfidence {
		return minConfidence
	}
	if c > maxConfidence {
		return maxConfidence
	}
	return c
}

// buildPrompt embeds the symbol, quote, technical snapshot, and up to the
// last 30 closes into a natural-language prompt that requests a JSON reply.
func buildPrompt(in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a stock analyst. Predict tomorrow's closing price for %s.\n\n", in.Symbol)
	fmt.Fprintf(&b, "Current price: %.2f\n", in.CurrentPrice)

	if q := in.Quote; q != nil {
		fmt.Fprintf(&b, "Day change: %.2f (%.2f%%), high %.2f, low %.2f, volume %.0f\n",
			q.Change, q.ChangePercent, q.High, q.Low, q.Volume)
	}
	if t := in.Technical; t != nil {
		fmt.Fprintf(&b, "Technicals: RSI %.0f, trend %s, support %.2f, resistance %.2f\n",
			t.RSI, t.Trend, t.Support, t.Resistance)
	}

	history := in.History
	if len(history) > 30 {
		history = history[len(history)-30:]
	}
	if len(history) > 0 {
		b.WriteString("Recent daily closes, oldest first: ")
		for i, p := range history {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%.2f", p)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nReply with only a JSON object: " +
		`{"price": <number>, "confidence": <number 50-95>, "reasoning": "<one sentence>"}`)
	return b.String()
}

// extractJSON returns the first balanced-brace JSON object in s. Braces
// inside string literals are ignored.
func extractJSON(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}
