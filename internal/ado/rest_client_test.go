package ado

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"sprintcap/internal/capacity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testTeamID = "6f1c5a0e-8d59-4f0b-9b9b-2b2ad8f2c001"
	aliceID    = "0a1b2c3d-0000-4000-8000-00000000000a"
	bobID      = "0a1b2c3d-0000-4000-8000-00000000000b"
	iterID     = "a0000000-0000-4000-8000-000000000001"
)

func newTestServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	write := func(w http.ResponseWriter, body string) {
		atomic.AddInt32(hits, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}

	mux.HandleFunc("/_apis/projects/Fabrikam/teams", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7.0", r.URL.Query().Get("api-version"))
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "", user)
		assert.Equal(t, "secret", pass)
		write(w, `{"count":2,"value":[
			{"id":"6F1C5A0E-8D59-4F0B-9B9B-2B2AD8F2C001","name":"Phoenix","projectName":"Fabrikam"},
			{"id":"11111111-2222-4333-8444-555555555555","name":"Griffin"}]}`)
	})
	mux.HandleFunc("/Fabrikam/"+testTeamID+"/_apis/work/teamsettings", func(w http.ResponseWriter, r *http.Request) {
		write(w, `{"workingDays":["monday","tuesday","wednesday","thursday","friday"]}`)
	})
	mux.HandleFunc("/Fabrikam/"+testTeamID+"/_apis/work/teamsettings/iterations", func(w http.ResponseWriter, r *http.Request) {
		write(w, `{"count":2,"value":[
			{"id":"`+iterID+`","name":"Sprint 1","path":"Fabrikam\\Sprint 1","url":"https://x/it1",
			 "attributes":{"startDate":"2024-03-04T00:00:00Z","finishDate":"2024-03-15T00:00:00Z","timeFrame":"current"}},
			{"id":"a0000000-0000-4000-8000-000000000002","name":"Backlog","path":"Fabrikam","attributes":{"startDate":null,"finishDate":null}}]}`)
	})
	mux.HandleFunc("/_apis/projects/Fabrikam/teams/"+testTeamID+"/members", func(w http.ResponseWriter, r *http.Request) {
		write(w, `{"count":3,"value":[
			{"identity":{"id":"`+aliceID+`","displayName":"Alice","uniqueName":"alice@fabrikam.com","imageUrl":"https://x/a.png"}},
			{"identity":{"id":"`+bobID+`","displayName":"Bob"}},
			{"identity":{"id":"0a1b2c3d-0000-4000-8000-0000000000ff","displayName":"[Fabrikam]\\Phoenix Team","isContainer":true}}]}`)
	})
	mux.HandleFunc("/Fabrikam/"+testTeamID+"/_apis/work/teamsettings/iterations/"+iterID+"/capacities", func(w http.ResponseWriter, r *http.Request) {
		write(w, `{"teamMembers":[
			{"teamMember":{"id":"`+aliceID+`"},"activities":[{"name":"Development","capacityPerDay":2},{"name":"Testing","capacityPerDay":3}],
			 "daysOff":[{"start":"2024-03-06T00:00:00Z","end":"2024-03-06T00:00:00Z"}]}]}`)
	})
	mux.HandleFunc("/Fabrikam/"+testTeamID+"/_apis/work/teamsettings/iterations/"+iterID+"/teamdaysoff", func(w http.ResponseWriter, r *http.Request) {
		write(w, `{"daysOff":[{"start":"2024-03-15T00:00:00Z","end":"2024-03-15T00:00:00Z"}]}`)
	})
	mux.HandleFunc("/Fabrikam/"+testTeamID+"/_apis/work/teamsettings/iterations/"+iterID+"/workitems", func(w http.ResponseWriter, r *http.Request) {
		write(w, `{"workItemRelations":[
			{"rel":null,"source":null,"target":{"id":101}},
			{"rel":null,"source":null,"target":{"id":102}},
			{"rel":"System.LinkTypes.Hierarchy-Forward","source":{"id":101},"target":{"id":201}},
			{"rel":null,"source":null,"target":{"id":103}},
			{"rel":null,"source":null,"target":{"id":104}}]}`)
	})
	mux.HandleFunc("/Fabrikam/_apis/wit/workitemsbatch", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var req workItemsBatchRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []int{101, 102, 103, 104}, req.IDs)
		assert.Contains(t, req.Fields, "Microsoft.VSTS.Scheduling.StoryPoints")
		write(w, `{"count":4,"value":[
			{"id":101,"fields":{"System.AssignedTo":{"id":"`+aliceID+`","displayName":"Alice"},"Microsoft.VSTS.Scheduling.StoryPoints":3}},
			{"id":102,"fields":{"System.AssignedTo":{"id":"`+aliceID+`"},"Microsoft.VSTS.Scheduling.StoryPoints":"5"}},
			{"id":103,"fields":{"System.AssignedTo":{"id":"`+bobID+`"}}},
			null]}`)
	})

	return httptest.NewServer(mux)
}

func newTestClient(url string) Client {
	return NewRESTClient(Config{OrgURL: url + "/", Project: "Fabrikam", PAT: "secret"})
}

func TestRESTClient_ResolveTeam(t *testing.T) {
	var hits int32
	srv := newTestServer(t, &hits)
	defer srv.Close()
	c := newTestClient(srv.URL)
	ctx := context.Background()

	byName, err := c.ResolveTeam(ctx, "phoenix")
	require.NoError(t, err)
	assert.Equal(t, testTeamID, byName.ID)
	assert.Equal(t, "Fabrikam", byName.Project)
	assert.Equal(t, srv.URL+"/Fabrikam", byName.ProjectURL)

	byID, err := c.ResolveTeam(ctx, "6F1C5A0E-8D59-4F0B-9B9B-2B2AD8F2C001")
	require.NoError(t, err)
	assert.Equal(t, "Phoenix", byID.Name)

	_, err = c.ResolveTeam(ctx, "Hydra")
	assert.ErrorIs(t, err, ErrTeamNotFound)

	// Teams are served from the session cache after the first call.
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestRESTClient_TeamData(t *testing.T) {
	var hits int32
	srv := newTestServer(t, &hits)
	defer srv.Close()
	c := newTestClient(srv.URL)
	ctx := context.Background()
	team := Team{ID: testTeamID, Name: "Phoenix"}

	pattern, err := c.WorkingDays(ctx, team)
	require.NoError(t, err)
	assert.Equal(t, capacity.WeekdayPattern(), pattern)

	iterations, err := c.Iterations(ctx, team)
	require.NoError(t, err)
	require.Len(t, iterations, 2)
	assert.Equal(t, "Sprint 1", iterations[0].Name)
	assert.True(t, iterations[0].IsScheduled())
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), iterations[0].Finish.UTC())
	assert.False(t, iterations[1].IsScheduled())

	members, err := c.Members(ctx, team)
	require.NoError(t, err)
	require.Len(t, members, 2, "group identities must be filtered")
	assert.Equal(t, "Alice", members[0].DisplayName)
	assert.Equal(t, "https://x/a.png", members[0].AvatarURL)

	caps, err := c.Capacities(ctx, team, iterID)
	require.NoError(t, err)
	require.Len(t, caps, 1)
	assert.Equal(t, aliceID, caps[0].MemberID)
	assert.Len(t, caps[0].Activities, 2)
	assert.Len(t, caps[0].DaysOff, 1)

	off, err := c.TeamDaysOff(ctx, team, iterID)
	require.NoError(t, err)
	require.Len(t, off, 1)
}

func TestRESTClient_WorkItems(t *testing.T) {
	var hits int32
	srv := newTestServer(t, &hits)
	defer srv.Close()
	c := newTestClient(srv.URL)

	items, err := c.WorkItems(context.Background(), Team{ID: testTeamID, Name: "Phoenix"}, iterID)
	require.NoError(t, err)
	require.Len(t, items, 3)

	totals := capacity.AggregateEffort(items)
	assert.Equal(t, map[string]float64{aliceID: 8}, totals)
	assert.Nil(t, items[2].Effort, "bob's item has no estimate")
}

func TestRESTClient_StatusErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/_apis/projects/Fabrikam/teams":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			w.Header().Set("Retry-After", "30")
			w.WriteHeader(http.StatusTooManyRequests)
		}
	}))
	defer srv.Close()
	c := newTestClient(srv.URL)

	_, err := c.Teams(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = c.Capacities(context.Background(), Team{ID: testTeamID}, iterID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Retry after 30 seconds")
}

func TestRESTClient_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := newTestClient(srv.URL).TeamDaysOff(context.Background(), Team{ID: testTeamID}, iterID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRESTClient_ThrottleHonoursContext(t *testing.T) {
	c := NewRESTClient(Config{OrgURL: "http://127.0.0.1:0", Project: "Fabrikam", RequestDelay: time.Hour}).(*restClient)
	c.lastRequest = time.Now()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.throttle(ctx), context.Canceled)
}
