// Package token provides local token accounting for conversations: text
// counts via tiktoken, image costs via the OpenAI tiling rules, and an
// append-only usage ledger with cost estimation. No network round-trips.
package token

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"math"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/AI-Advenced/GPT-Genius/pkg/llm"
)

// Per-message framing overhead and the framing charged for the reply,
// mirroring the widely used chat token approximation.
const (
	messageFraming = 4
	replyFraming   = 2
)

// Image costs: low-detail images have a fixed cost; high-detail images are
// scaled to fit 2048px, rescaled so the short side is at most 768px, then
// tiled into 512px tiles at 170 tokens each plus a base cost.
const (
	lowDetailCost = 85
	tileCost      = 170
	tileSize      = 512
)

// Tokenizer counts tokens against a vocabulary appropriate to the model.
type Tokenizer struct {
	model string
	enc   *tiktoken.Tiktoken
}

// NewTokenizer selects the tokenizer for the given model name, falling back
// to cl100k_base for models tiktoken does not know.
func NewTokenizer(model string) (*Tokenizer, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("get tokenizer: %w", err)
		}
	}
	return &Tokenizer{model: model, enc: enc}, nil
}

// CountText returns the number of vocabulary tokens in the text.
func (t *Tokenizer) CountText(text string) int {
	return len(t.enc.Encode(text, nil, nil))
}

// CountImage returns the token cost of a base64-encoded image at the given
// detail level. A "data:...;base64," prefix is tolerated.
func (t *Tokenizer) CountImage(imageBase64, detail string) (int, error) {
	if detail == llm.DetailLow {
		return lowDetailCost, nil
	}

	if idx := strings.Index(imageBase64, "base64,"); idx >= 0 {
		imageBase64 = imageBase64[idx+len("base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return 0, fmt.Errorf("decode image base64: %w", err)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("decode image dimensions: %w", err)
	}

	// Scale to fit within 2048px square, never upscaling.
	maxDim := cfg.Width
	if cfg.Height > maxDim {
		maxDim = cfg.Height
	}
	scale := math.Min(2048/float64(maxDim), 1)
	width := int(float64(cfg.Width) * scale)
	height := int(float64(cfg.Height) * scale)

	// Rescale so the shorter side is at most 768px.
	shortest := width
	if height < shortest {
		shortest = height
	}
	if shortest > 768 {
		resize := 768 / float64(shortest)
		width = int(float64(width) * resize)
		height = int(float64(height) * resize)
	}

	widthTiles := (width + tileSize - 1) / tileSize
	heightTiles := (height + tileSize - 1) / tileSize
	return widthTiles*heightTiles*tileCost + lowDetailCost, nil
}

// CountMessages returns the total tokens used by a transcript, accounting for
// text and image content plus per-message framing. Images that cannot be
// decoded are charged the low-detail cost rather than failing the count.
func (t *Tokenizer) CountMessages(messages []llm.Message) int {
	total := 0
	for _, msg := range messages {
		total += messageFraming

		if msg.Parts == nil {
			total += t.CountText(msg.Content)
		} else {
			for _, part := range msg.Parts {
				switch part.Type {
				case "text":
					total += t.CountText(part.Text)
				case "image_url":
					detail := llm.DetailHigh
					if part.ImageURL != nil && part.ImageURL.Detail != "" {
						detail = part.ImageURL.Detail
					}
					var url string
					if part.ImageURL != nil {
						url = part.ImageURL.URL
					}
					cost, err := t.CountImage(url, detail)
					if err != nil {
						slog.Warn("image token count failed, charging low-detail cost", "error", err)
						cost = lowDetailCost
					}
					total += cost
				}
			}
		}

		total += replyFraming
	}
	return total
}
