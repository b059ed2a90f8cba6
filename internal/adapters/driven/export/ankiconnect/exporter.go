// Package ankiconnect delivers cards to a running Anki instance through
// the AnkiConnect add-on's HTTP API.
package ankiconnect

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/JapanColorado/article-to-anki/internal/core/domain"
	"github.com/JapanColorado/article-to-anki/internal/core/ports/driven"
	"github.com/JapanColorado/article-to-anki/internal/logger"
)

// Ensure Exporter implements the interface.
var _ driven.CardExporter = (*Exporter)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:8765"
	DefaultTimeout = 15 * time.Second

	// APIVersion is the AnkiConnect protocol version.
	APIVersion = 6
)

// Note model names created on first use.
const (
	ClozeModelName = "ArticlesToAnki Cloze"
	BasicModelName = "ArticlesToAnki Basic"
)

const clozeCSS = `.card {
 font-family: arial;
 font-size: 20px;
 text-align: left;
 color: black;
 background-color: white;
}
.cloze {
 font-weight: bold;
 color: blue;
}
`

const basicCSS = `.card {
 font-family: arial;
 font-size: 20px;
 text-align: left;
 color: black;
 background-color: white;
}
`

// Config holds configuration for the AnkiConnect exporter.
type Config struct {
	// BaseURL is the AnkiConnect endpoint (default: http://localhost:8765).
	BaseURL string

	// Timeout is the per-request timeout (default: 15s).
	Timeout time.Duration
}

// Exporter delivers cards to Anki one addNote request at a time.
type Exporter struct {
	client  *http.Client
	baseURL string
}

// apiRequest is the AnkiConnect envelope format.
type apiRequest struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

// apiResponse is the AnkiConnect envelope response.
type apiResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// noteParams is the addNote payload.
type noteParams struct {
	Note note `json:"note"`
}

type note struct {
	DeckName  string            `json:"deckName"`
	ModelName string            `json:"modelName"`
	Fields    map[string]string `json:"fields"`
	Tags      []string          `json:"tags"`
}

// modelParams is the createModel payload.
type modelParams struct {
	ModelName     string          `json:"modelName"`
	InOrderFields []string        `json:"inOrderFields"`
	CSS           string          `json:"css"`
	IsCloze       bool            `json:"isCloze"`
	CardTemplates []cardTemplate  `json:"cardTemplates"`
}

type cardTemplate struct {
	Name  string `json:"Name"`
	Front string `json:"Front"`
	Back  string `json:"Back"`
}

// NewExporter creates an AnkiConnect exporter.
func NewExporter(cfg Config) *Exporter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Exporter{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
	}
}

// Prepare ensures the Cloze and Basic note models exist, creating them
// if the collection has never seen this tool before.
func (e *Exporter) Prepare(ctx context.Context) error {
	var models []string
	if err := e.call(ctx, "modelNames", nil, &models); err != nil {
		return fmt.Errorf("list note models: %w", err)
	}

	existing := make(map[string]bool, len(models))
	for _, m := range models {
		existing[m] = true
	}

	if !existing[ClozeModelName] {
		params := modelParams{
			ModelName:     ClozeModelName,
			InOrderFields: []string{"Text", "Extra"},
			CSS:           clozeCSS,
			IsCloze:       true,
			CardTemplates: []cardTemplate{{
				Name:  "Cloze",
				Front: "{{cloze:Text}}",
				Back:  "{{cloze:Text}}<br>{{Extra}}",
			}},
		}
		if err := e.call(ctx, "createModel", params, nil); err != nil {
			return fmt.Errorf("create cloze model: %w", err)
		}
		logger.Info("Created note model %q in Anki", ClozeModelName)
	}

	if !existing[BasicModelName] {
		params := modelParams{
			ModelName:     BasicModelName,
			InOrderFields: []string{"Front", "Back"},
			CSS:           basicCSS,
			IsCloze:       false,
			CardTemplates: []cardTemplate{{
				Name:  "Basic",
				Front: "{{Front}}",
				Back:  "{{Front}}<hr id=answer>{{Back}}",
			}},
		}
		if err := e.call(ctx, "createModel", params, nil); err != nil {
			return fmt.Errorf("create basic model: %w", err)
		}
		logger.Info("Created note model %q in Anki", BasicModelName)
	}

	return nil
}

// Export adds one note per card. A rejected note (for example Anki's own
// duplicate check) is recorded as a failure; a transport error aborts
// the whole call.
func (e *Exporter) Export(ctx context.Context, cards []domain.Card, title, deck string) (*driven.ExportReport, error) {
	report := &driven.ExportReport{}

	for i := range cards {
		card := &cards[i]
		params := noteParams{Note: note{
			DeckName:  deck,
			ModelName: modelFor(card.Kind),
			Fields:    fieldsFor(card),
			Tags:      []string{"article-to-anki", title},
		}}

		if err := e.call(ctx, "addNote", params, nil); err != nil {
			var apiErr *apiError
			if errors.As(err, &apiErr) {
				report.Failures = append(report.Failures, driven.ExportFailure{
					CardID: card.ID,
					Reason: apiErr.message,
				})
				continue
			}
			return nil, fmt.Errorf("add note: %w", err)
		}
		report.Exported++
	}

	return report, nil
}

// modelFor maps a card kind to its Anki note model.
func modelFor(kind domain.CardKind) string {
	if kind == domain.CardKindCloze {
		return ClozeModelName
	}
	return BasicModelName
}

// fieldsFor maps card fields onto the note model's field names.
func fieldsFor(card *domain.Card) map[string]string {
	fields := make(map[string]string, len(card.Fields))
	for _, f := range card.Fields {
		fields[f.Name] = f.Value
	}
	if card.Kind == domain.CardKindCloze {
		if _, ok := fields["Extra"]; !ok {
			fields["Extra"] = ""
		}
	}
	return fields
}

// apiError is an error reported by AnkiConnect itself, as opposed to a
// transport failure reaching it.
type apiError struct {
	action  string
	message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("ankiconnect %s: %s", e.action, e.message)
}

// call sends one AnkiConnect request and decodes the result into out
// when out is non-nil.
func (e *Exporter) call(ctx context.Context, action string, params, out any) error {
	jsonBody, err := json.Marshal(apiRequest{
		Action:  action,
		Version: APIVersion,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ankiconnect returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != nil && *apiResp.Error != "" {
		return &apiError{action: action, message: *apiResp.Error}
	}

	if out != nil {
		if err := json.Unmarshal(apiResp.Result, out); err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
	}
	return nil
}
