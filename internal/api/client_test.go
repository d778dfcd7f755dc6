package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"imsdash/internal/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// The shared http transport keeps idle connections around.
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second, nil)
}

func TestLogin(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "emilys", body["username"])
		assert.Equal(t, "emilyspass", body["password"])

		json.NewEncoder(w).Encode(map[string]any{
			"id": 1, "username": "emilys", "firstName": "Emily",
			"lastName": "Johnson", "email": "emily@x.com", "token": "jwt-token",
		})
	}))

	res, err := client.Login(context.Background(), "emilys", "emilyspass")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", res.Token)
	assert.Equal(t, "jwt-token", res.EnsureToken())

	user := res.User()
	assert.Equal(t, 1, user.ID)
	assert.Equal(t, "Emily", user.FirstName)
}

func TestLoginFailureSurfacesStatus(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Invalid credentials"}`, http.StatusBadRequest)
	}))

	_, err := client.Login(context.Background(), "nope", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestEnsureTokenSynthesizesPlaceholder(t *testing.T) {
	// Some environments do not return a token; the caller gets a local one.
	res := LoginResponse{ID: 1, Username: "emilys"}
	token := res.EnsureToken()
	assert.True(t, strings.HasPrefix(token, "client_"), "got %q", token)
	assert.NotEqual(t, token, res.EnsureToken(), "placeholder tokens must be unique")
}

func TestListCandidatesFlattensDepartment(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"users": []map[string]any{
				{
					"id": 1, "firstName": "Emily", "lastName": "Johnson",
					"username": "emilys",
					"company":  map[string]any{"department": "Engineering"},
				},
				{
					"id": 2, "firstName": "Michael", "lastName": "Williams",
					"username": "michaelw", "status": "no_show",
				},
			},
		})
	}))

	records, err := client.ListCandidates(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Engineering", records[0].Department)
	assert.Equal(t, domain.StatusScheduled, records[0].DisplayStatus())
	assert.Equal(t, "", records[1].Department)
	assert.Equal(t, domain.StatusNoShow, records[1].Status)
}

func TestListCandidatesUnknownStatusIgnored(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"users": []map[string]any{
				{"id": 1, "firstName": "A", "lastName": "B", "username": "ab", "status": "on_hold"},
			},
		})
	}))

	records, err := client.ListCandidates(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.InterviewStatus(""), records[0].Status)
}

func TestCandidateDetailFanOut(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/users/7":
			json.NewEncoder(w).Encode(map[string]any{
				"id": 7, "firstName": "Ada", "lastName": "Lovelace", "username": "adal",
			})
		case r.URL.Path == "/todos":
			require.Equal(t, "7", r.URL.Query().Get("userId"))
			json.NewEncoder(w).Encode(map[string]any{
				"todos": []map[string]any{{"id": 1, "todo": "Tech screen", "completed": true}},
			})
		case r.URL.Path == "/posts":
			require.Equal(t, "7", r.URL.Query().Get("userId"))
			json.NewEncoder(w).Encode(map[string]any{
				"posts": []map[string]any{{"id": 1, "title": "Strong", "body": "Great depth"}},
			})
		default:
			http.NotFound(w, r)
		}
	}))

	detail, err := client.CandidateDetail(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Ada", detail.Profile.FirstName)
	require.Len(t, detail.Schedule, 1)
	assert.True(t, detail.Schedule[0].Completed)
	require.Len(t, detail.Feedback, 1)
	assert.Equal(t, "Strong", detail.Feedback[0].Title)
}

func TestCandidateDetailPropagatesFirstError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/todos" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{})
	}))

	_, err := client.CandidateDetail(context.Background(), 7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schedule for 7")
}

func TestRequestHonorsContextCancellation(t *testing.T) {
	started := make(chan struct{})
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-r.Context().Done()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := client.ListCandidates(ctx)
		errCh <- err
	}()

	<-started
	cancel()
	select {
	case err := <-errCh:
		require.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled request did not return")
	}
}

func TestDecodeFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))

	_, err := client.ListCandidates(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode")
}
