package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Guilhem-Bonnet/Anime-Airing-Tracker/internal/domain"
)

var ErrAniListNotConfigured = errors.New("anilist not configured")

// AniListService synchronise la watch list depuis AniList (service de suivi
// de liste distant, consommé comme endpoint opaque).
type AniListService struct {
	settings func(ctx context.Context) (domain.Settings, error)
	endpoint string
	client   *http.Client
}

func NewAniListService(settingsGetter func(ctx context.Context) (domain.Settings, error)) *AniListService {
	return &AniListService{
		settings: settingsGetter,
		endpoint: "https://graphql.anilist.co",
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (s *AniListService) WithEndpoint(endpoint string) *AniListService {
	if strings.TrimSpace(endpoint) != "" {
		s.endpoint = strings.TrimSpace(endpoint)
	}
	return s
}

type aniListGraphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type aniListGraphQLError struct {
	Message string `json:"message"`
}

type aniListGraphQLResponse[T any] struct {
	Data   T                     `json:"data"`
	Errors []aniListGraphQLError `json:"errors,omitempty"`
}

type AniListViewer struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type viewerData struct {
	Viewer AniListViewer `json:"Viewer"`
}

func (s *AniListService) Viewer(ctx context.Context) (AniListViewer, error) {
	if s == nil || s.settings == nil {
		return AniListViewer{}, ErrAniListNotConfigured
	}
	st, err := s.settings(ctx)
	if err != nil {
		return AniListViewer{}, err
	}
	token := strings.TrimSpace(st.AniListToken)
	if token == "" {
		return AniListViewer{}, ErrAniListNotConfigured
	}

	req := aniListGraphQLRequest{Query: `query { Viewer { id name } }`}
	var out aniListGraphQLResponse[viewerData]
	if err := s.do(ctx, token, req, &out); err != nil {
		return AniListViewer{}, err
	}
	if len(out.Errors) > 0 {
		return AniListViewer{}, errors.New(out.Errors[0].Message)
	}
	return out.Data.Viewer, nil
}

type aniListWatchlistEntry struct {
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Media    struct {
		ID    int64 `json:"id"`
		Title struct {
			Romaji  string `json:"romaji"`
			English string `json:"english"`
		} `json:"title"`
		Episodes   int `json:"episodes"`
		CoverImage struct {
			Large string `json:"large"`
		} `json:"coverImage"`
		NextAiringEpisode *struct {
			AiringAt int64 `json:"airingAt"`
			Episode  int   `json:"episode"`
		} `json:"nextAiringEpisode"`
	} `json:"media"`
}

type watchlistData struct {
	MediaListCollection struct {
		Lists []struct {
			Entries []aniListWatchlistEntry `json:"entries"`
		} `json:"lists"`
	} `json:"MediaListCollection"`
}

// Watchlist renvoie les entrées CURRENT (et statuts demandés) du viewer,
// déjà mappées en WatchedTitle : c'est l'entrée de l'engine.
func (s *AniListService) Watchlist(ctx context.Context, statuses []string) ([]domain.WatchedTitle, error) {
	if s == nil || s.settings == nil {
		return nil, ErrAniListNotConfigured
	}
	st, err := s.settings(ctx)
	if err != nil {
		return nil, err
	}
	token := strings.TrimSpace(st.AniListToken)
	if token == "" {
		return nil, ErrAniListNotConfigured
	}

	viewer, err := s.Viewer(ctx)
	if err != nil {
		return nil, err
	}
	if len(statuses) == 0 {
		statuses = []string{"CURRENT"}
	}

	req := aniListGraphQLRequest{
		Query: `query($userId:Int,$statusIn:[MediaListStatus]){
			MediaListCollection(userId:$userId, type: ANIME, status_in:$statusIn){
				lists{
					entries{
						status progress
						media{
							id title{ romaji english } episodes
							coverImage{ large }
							nextAiringEpisode{ airingAt episode }
						}
					}
				}
			}
		}`,
		Variables: map[string]any{"userId": viewer.ID, "statusIn": statuses},
	}

	var out aniListGraphQLResponse[watchlistData]
	if err := s.do(ctx, token, req, &out); err != nil {
		return nil, err
	}
	if len(out.Errors) > 0 {
		return nil, errors.New(out.Errors[0].Message)
	}

	titles := make([]domain.WatchedTitle, 0)
	for _, l := range out.Data.MediaListCollection.Lists {
		for _, e := range l.Entries {
			titles = append(titles, toWatchedTitle(e))
		}
	}
	return titles, nil
}

func toWatchedTitle(e aniListWatchlistEntry) domain.WatchedTitle {
	name := e.Media.Title.English
	if name == "" {
		name = e.Media.Title.Romaji
	}
	t := domain.WatchedTitle{
		ID:              fmt.Sprintf("anilist-%d", e.Media.ID),
		Title:           name,
		ExternalID:      e.Media.ID,
		CoverImage:      e.Media.CoverImage.Large,
		EpisodesWatched: e.Progress,
		TotalEpisodes:   e.Media.Episodes,
		Status:          mapListStatus(e.Status),
	}
	if e.Media.NextAiringEpisode != nil && e.Media.NextAiringEpisode.AiringAt > 0 {
		t.NextAiring = &domain.NextAiring{
			Timestamp: e.Media.NextAiringEpisode.AiringAt,
			Episode:   e.Media.NextAiringEpisode.Episode,
		}
	}
	return t
}

func mapListStatus(s string) domain.WatchStatus {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "CURRENT", "REPEATING":
		return domain.StatusWatching
	case "PLANNING":
		return domain.StatusPlanning
	case "COMPLETED":
		return domain.StatusCompleted
	case "PAUSED":
		return domain.StatusPaused
	case "DROPPED":
		return domain.StatusDropped
	default:
		return domain.WatchStatus(strings.ToLower(strings.TrimSpace(s)))
	}
}

func (s *AniListService) do(ctx context.Context, token string, req aniListGraphQLRequest, out any) error {
	b, err := json.Marshal(req)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(b))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", "aat-server")
	if strings.TrimSpace(token) != "" {
		httpReq.Header.Set("Authorization", "Bearer "+strings.TrimSpace(token))
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return errors.New("anilist http error: " + resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
