package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// StreamingLinkClient parle à l'API de résolution de liens streaming
// (collaborateur externe, boîte noire) :
//
//	GET  {base}/streaming/{externalId}?title=…
//	POST {base}/streaming/batch  {"titles":[{"externalId":…,"title":…}]}
type StreamingLinkClient struct {
	baseURL string
	client  *http.Client
}

func NewStreamingLinkClient(baseURL string) *StreamingLinkClient {
	return &StreamingLinkClient{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type StreamingResult struct {
	ExternalID *int64                  `json:"externalId"`
	Title      string                  `json:"title"`
	Free       map[string]string       `json:"free"`
	Official   []StreamingOfficialLink `json:"official"`
	Error      string                  `json:"error,omitempty"`
}

type StreamingOfficialLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type batchRequest struct {
	Titles []BatchTitle `json:"titles"`
}

type BatchTitle struct {
	ExternalID int64  `json:"externalId"`
	Title      string `json:"title"`
}

type batchResponse struct {
	Results []StreamingResult `json:"results"`
}

// FetchOne résout un seul titre. Toute réponse non-2xx ou corps illisible est
// une erreur : l'appelant dégrade en fallback.
func (s *StreamingLinkClient) FetchOne(ctx context.Context, externalID int64, title string) (StreamingResult, error) {
	u := fmt.Sprintf("%s/streaming/%d?title=%s", s.baseURL, externalID, url.QueryEscape(title))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return StreamingResult{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "aat-server")

	resp, err := s.client.Do(req)
	if err != nil {
		return StreamingResult{}, &CodedError{Code: "network_error", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return StreamingResult{}, &CodedError{Code: "http_status", Message: "streaming api: " + resp.Status}
	}

	var out StreamingResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return StreamingResult{}, &CodedError{Code: "bad_payload", Err: err}
	}
	return out, nil
}

// FetchBatch résout la liste entière en un appel. Les entrées de la réponse ne
// sont pas validées ici : c'est le resolver qui écarte les entrées malformées.
func (s *StreamingLinkClient) FetchBatch(ctx context.Context, entries []BatchTitle) ([]StreamingResult, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(batchRequest{Titles: entries})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/streaming/batch", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "aat-server")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &CodedError{Code: "network_error", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &CodedError{Code: "http_status", Message: "streaming batch api: " + resp.Status}
	}

	var out batchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &CodedError{Code: "bad_payload", Err: err}
	}
	return out.Results, nil
}
