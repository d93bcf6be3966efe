package ado

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"sprintcap/internal/capacity"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// batchLimit is the maximum number of ids the work items batch endpoint accepts.
const batchLimit = 200

type restClient struct {
	cfg        Config
	httpClient *http.Client

	throttleMu  sync.Mutex
	lastRequest time.Time

	// Session Cache
	cache      map[string]*cacheEntry
	cacheMutex sync.Mutex
}

type cacheEntry struct {
	Value       any
	Expiration  time.Time
	AccessCount int
	OriginalTTL time.Duration
}

// NewRESTClient creates a client speaking the Azure DevOps REST API.
func NewRESTClient(cfg Config) Client {
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.EffortField == "" {
		cfg.EffortField = DefaultEffortField
	}
	if cfg.AssigneeField == "" {
		cfg.AssigneeField = DefaultAssigneeField
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	cfg.OrgURL = strings.TrimRight(cfg.OrgURL, "/")

	return &restClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		cache: make(map[string]*cacheEntry),
	}
}

func (c *restClient) getFromCache(key string) (any, bool) {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	entry, ok := c.cache[key]
	if !ok {
		log.Debug().Str("key", key).Msg("Cache miss")
		return nil, false
	}

	if time.Now().After(entry.Expiration) {
		delete(c.cache, key)
		return nil, false
	}
	log.Debug().Str("key", key).Msg("Cache hit")

	// Sliding window extension
	if entry.AccessCount < 6 {
		entry.Expiration = time.Now().Add(entry.OriginalTTL)
		entry.AccessCount++
		log.Trace().Str("key", key).Int("count", entry.AccessCount).Msg("Extended cache TTL")
	}

	return entry.Value, true
}

func (c *restClient) addToCache(key string, value any, ttl time.Duration) {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	c.cache[key] = &cacheEntry{
		Value:       value,
		Expiration:  time.Now().Add(ttl),
		OriginalTTL: ttl,
		AccessCount: 1,
	}
	log.Debug().Str("key", key).Dur("ttl", ttl).Msg("Added to cache")
}

func (c *restClient) throttle(ctx context.Context) error {
	if c.cfg.RequestDelay <= 0 {
		return nil
	}

	c.throttleMu.Lock()
	defer c.throttleMu.Unlock()

	elapsed := time.Since(c.lastRequest)
	if elapsed < c.cfg.RequestDelay {
		wait := c.cfg.RequestDelay - elapsed
		log.Debug().Dur("wait", wait).Msg("Throttling Azure DevOps request")
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	c.lastRequest = time.Now()
	return nil
}

func (c *restClient) authenticateRequest(req *http.Request) {
	// Personal access tokens go as basic auth with an empty user name.
	if c.cfg.PAT != "" {
		req.SetBasicAuth("", c.cfg.PAT)
		return
	}
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
}

func (c *restClient) projectURL() string {
	return fmt.Sprintf("%s/%s", c.cfg.OrgURL, url.PathEscape(c.cfg.Project))
}

func (c *restClient) teamURL(team Team) string {
	return fmt.Sprintf("%s/%s/_apis/work/teamsettings", c.projectURL(), url.PathEscape(team.ID))
}

// do performs a request and decodes the JSON body into out. what names the
// resource for error messages.
func (c *restClient) do(ctx context.Context, method, endpoint string, params url.Values, body any, out any, what string) error {
	if err := c.throttle(ctx); err != nil {
		return err
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api-version", c.cfg.APIVersion)
	reqURL := endpoint + "?" + params.Encode()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode %s request: %w", what, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authenticateRequest(req)

	log.Debug().Str("method", method).Str("url", reqURL).Msg("Azure DevOps request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request for %s failed: %w", what, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		switch resp.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w", what, ErrNotFound)
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s (%d): %w. Please check ADO_PAT or ADO_TOKEN", what, resp.StatusCode, ErrUnauthorized)
		case http.StatusTooManyRequests:
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				return fmt.Errorf("Azure DevOps rate limit exceeded (429) for %s. Retry after %s seconds", what, retryAfter)
			}
			return fmt.Errorf("Azure DevOps rate limit exceeded (429) for %s", what)
		default:
			return fmt.Errorf("Azure DevOps API returned status %d for %s", resp.StatusCode, what)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", what, err)
	}
	return nil
}

func (c *restClient) Teams(ctx context.Context) ([]Team, error) {
	cacheKey := "teams:" + c.cfg.Project
	if val, ok := c.getFromCache(cacheKey); ok {
		return val.([]Team), nil
	}

	endpoint := fmt.Sprintf("%s/_apis/projects/%s/teams", c.cfg.OrgURL, url.PathEscape(c.cfg.Project))
	params := url.Values{}
	params.Set("$top", "1000")

	var resp listResponse[teamDTO]
	if err := c.do(ctx, http.MethodGet, endpoint, params, nil, &resp, "teams of project "+c.cfg.Project); err != nil {
		return nil, err
	}

	teams := make([]Team, 0, len(resp.Value))
	for _, t := range resp.Value {
		teams = append(teams, mapTeam(t, c.cfg.Project, c.projectURL()))
	}

	c.addToCache(cacheKey, teams, 10*time.Minute)
	return teams, nil
}

// ResolveTeam finds a team by GUID or by case-insensitive name.
func (c *restClient) ResolveTeam(ctx context.Context, nameOrID string) (Team, error) {
	teams, err := c.Teams(ctx)
	if err != nil {
		return Team{}, err
	}
	return FindTeam(teams, nameOrID)
}

// FindTeam matches a GUID against team ids, anything else against team names.
func FindTeam(teams []Team, nameOrID string) (Team, error) {
	if id, err := uuid.Parse(strings.TrimSpace(nameOrID)); err == nil {
		for _, t := range teams {
			if NormalizeID(t.ID) == id.String() {
				return t, nil
			}
		}
		return Team{}, fmt.Errorf("%s: %w", nameOrID, ErrTeamNotFound)
	}

	for _, t := range teams {
		if strings.EqualFold(t.Name, strings.TrimSpace(nameOrID)) {
			return t, nil
		}
	}
	return Team{}, fmt.Errorf("%s: %w", nameOrID, ErrTeamNotFound)
}

func (c *restClient) WorkingDays(ctx context.Context, team Team) (capacity.WorkingDayPattern, error) {
	cacheKey := "settings:" + team.ID
	if val, ok := c.getFromCache(cacheKey); ok {
		return val.(capacity.WorkingDayPattern), nil
	}

	var resp teamSettingsDTO
	if err := c.do(ctx, http.MethodGet, c.teamURL(team), nil, nil, &resp, "settings of team "+team.Name); err != nil {
		return capacity.WorkingDayPattern{}, err
	}

	pattern := MapWorkingDays(resp.WorkingDays)
	c.addToCache(cacheKey, pattern, 10*time.Minute)
	return pattern, nil
}

func (c *restClient) Iterations(ctx context.Context, team Team) ([]capacity.Iteration, error) {
	cacheKey := "iterations:" + team.ID
	if val, ok := c.getFromCache(cacheKey); ok {
		return val.([]capacity.Iteration), nil
	}

	var resp listResponse[iterationDTO]
	if err := c.do(ctx, http.MethodGet, c.teamURL(team)+"/iterations", nil, nil, &resp, "iterations of team "+team.Name); err != nil {
		return nil, err
	}

	iterations := make([]capacity.Iteration, 0, len(resp.Value))
	for _, it := range resp.Value {
		iterations = append(iterations, mapIteration(it))
	}

	c.addToCache(cacheKey, iterations, 5*time.Minute)
	return iterations, nil
}

func (c *restClient) Members(ctx context.Context, team Team) ([]Member, error) {
	cacheKey := "members:" + team.ID
	if val, ok := c.getFromCache(cacheKey); ok {
		return val.([]Member), nil
	}

	endpoint := fmt.Sprintf("%s/_apis/projects/%s/teams/%s/members", c.cfg.OrgURL, url.PathEscape(c.cfg.Project), url.PathEscape(team.ID))
	params := url.Values{}
	params.Set("$top", "1000")

	var resp listResponse[teamMemberDTO]
	if err := c.do(ctx, http.MethodGet, endpoint, params, nil, &resp, "members of team "+team.Name); err != nil {
		return nil, err
	}

	members := mapMembers(resp.Value)
	log.Debug().Int("total", len(resp.Value)).Int("members", len(members)).Str("team", team.Name).Msg("Filtered container identities")

	c.addToCache(cacheKey, members, 10*time.Minute)
	return members, nil
}

func (c *restClient) Capacities(ctx context.Context, team Team, iterationID string) ([]capacity.MemberCapacityEntry, error) {
	var resp capacitiesDTO
	endpoint := fmt.Sprintf("%s/iterations/%s/capacities", c.teamURL(team), url.PathEscape(iterationID))
	if err := c.do(ctx, http.MethodGet, endpoint, nil, nil, &resp, "capacities of iteration "+iterationID); err != nil {
		return nil, err
	}
	return mapCapacities(resp), nil
}

func (c *restClient) TeamDaysOff(ctx context.Context, team Team, iterationID string) ([]capacity.DateRange, error) {
	var resp teamDaysOffDTO
	endpoint := fmt.Sprintf("%s/iterations/%s/teamdaysoff", c.teamURL(team), url.PathEscape(iterationID))
	if err := c.do(ctx, http.MethodGet, endpoint, nil, nil, &resp, "team days off of iteration "+iterationID); err != nil {
		return nil, err
	}
	return mapDateRanges(resp.DaysOff), nil
}

func (c *restClient) WorkItems(ctx context.Context, team Team, iterationID string) ([]capacity.WorkItemRecord, error) {
	var links iterationWorkItemsDTO
	endpoint := fmt.Sprintf("%s/iterations/%s/workitems", c.teamURL(team), url.PathEscape(iterationID))
	if err := c.do(ctx, http.MethodGet, endpoint, nil, nil, &links, "work items of iteration "+iterationID); err != nil {
		return nil, err
	}

	ids := topLevelWorkItemIDs(links)
	if len(ids) == 0 {
		return nil, nil
	}

	fields := []string{"System.Id", c.cfg.AssigneeField, c.cfg.EffortField}
	records := make([]capacity.WorkItemRecord, 0, len(ids))

	for start := 0; start < len(ids); start += batchLimit {
		end := min(start+batchLimit, len(ids))

		var resp listResponse[*workItemDTO]
		body := workItemsBatchRequest{IDs: ids[start:end], Fields: fields, ErrorPolicy: "omit"}
		if err := c.do(ctx, http.MethodPost, c.projectURL()+"/_apis/wit/workitemsbatch", nil, body, &resp, "work items batch"); err != nil {
			return nil, err
		}

		for _, wi := range resp.Value {
			// errorPolicy=omit returns null for deleted or inaccessible items
			if wi == nil {
				continue
			}
			records = append(records, mapWorkItem(*wi, c.cfg.AssigneeField, c.cfg.EffortField))
		}
	}

	log.Debug().Str("iteration", iterationID).Int("links", len(links.WorkItemRelations)).Int("items", len(records)).Msg("Fetched iteration work items")
	return records, nil
}
