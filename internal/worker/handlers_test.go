package worker

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowdsay/crowdsay/internal/store"
	"github.com/crowdsay/crowdsay/internal/tally"
	"github.com/crowdsay/crowdsay/pkg/models"
)

func testServer(t *testing.T) (*httptest.Server, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "crowdsay-worker-test-*")
	require.NoError(t, err)

	st, err := store.NewStore(store.Config{Path: filepath.Join(tmpDir, "test.db")})
	require.NoError(t, err)

	questions := store.NewQuestionStore(st)
	answers := store.NewAnswerStore(st)
	tallySvc := tally.NewService(questions, answers, nil, 10)

	srv := httptest.NewServer(NewServer(questions, answers, tallySvc).Router())

	cleanup := func() {
		srv.Close()
		st.Close()
		os.RemoveAll(tmpDir)
	}
	return srv, cleanup
}

func postJSON(t *testing.T, url string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createQuestion(t *testing.T, srv *httptest.Server, prompt string) models.Question {
	resp := postJSON(t, srv.URL+"/api/questions", map[string]string{"prompt": prompt})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[models.Question](t, resp)
}

func TestVoteTallyGuessFlow(t *testing.T) {
	srv, cleanup := testServer(t)
	defer cleanup()

	q := createQuestion(t, srv, "Name something you wear on your feet")

	for _, vote := range []string{"sneakers", "Sneakers!", "sneaker", "boots", "socks"} {
		resp := postJSON(t, srv.URL+"/api/questions/"+q.ID+"/votes", map[string]string{"response": vote})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := postJSON(t, srv.URL+"/api/questions/"+q.ID+"/tally", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tallied := decode[struct {
		Answers []models.RankedAnswer `json:"answers"`
	}](t, resp)
	require.NotEmpty(t, tallied.Answers)
	assert.Equal(t, "sneakers", tallied.Answers[0].Answer)
	assert.Equal(t, 3, tallied.Answers[0].VoteCount)

	// Leaderboard endpoint agrees with the tally response.
	getResp, err := http.Get(srv.URL + "/api/questions/" + q.ID + "/answers")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	board := decode[struct {
		Answers []models.RankedAnswer `json:"answers"`
	}](t, getResp)
	assert.Equal(t, tallied.Answers, board.Answers)

	// A matching guess earns its share of the vote pool.
	resp = postJSON(t, srv.URL+"/api/questions/"+q.ID+"/guess", map[string]string{"guess": "Sneakers"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	guess := decode[guessResponse](t, resp)
	require.True(t, guess.Match)
	assert.Equal(t, 1, guess.Result.Rank)
	assert.Equal(t, 60, guess.Result.Points) // 3 of 5 votes

	// A miss reports no match without an error.
	resp = postJSON(t, srv.URL+"/api/questions/"+q.ID+"/guess", map[string]string{"guess": "sandals"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	guess = decode[guessResponse](t, resp)
	assert.False(t, guess.Match)
	assert.Nil(t, guess.Result)
}

func TestAddVote_RejectedAfterTally(t *testing.T) {
	srv, cleanup := testServer(t)
	defer cleanup()

	q := createQuestion(t, srv, "Favorite food?")

	resp := postJSON(t, srv.URL+"/api/questions/"+q.ID+"/votes", map[string]string{"response": "pizza"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/questions/"+q.ID+"/tally", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/questions/"+q.ID+"/votes", map[string]string{"response": "tacos"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestGuess_UntalliedQuestion(t *testing.T) {
	srv, cleanup := testServer(t)
	defer cleanup()

	q := createQuestion(t, srv, "Favorite food?")

	resp := postJSON(t, srv.URL+"/api/questions/"+q.ID+"/guess", map[string]string{"guess": "pizza"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()
}

func TestValidation(t *testing.T) {
	srv, cleanup := testServer(t)
	defer cleanup()

	resp := postJSON(t, srv.URL+"/api/questions", map[string]string{"prompt": "  "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	q := createQuestion(t, srv, "Favorite food?")

	resp = postJSON(t, srv.URL+"/api/questions/"+q.ID+"/votes", map[string]string{"response": ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, srv.URL+"/api/questions/"+q.ID+"/guess", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestGetQuestion_NotFound(t *testing.T) {
	srv, cleanup := testServer(t)
	defer cleanup()

	resp, err := http.Get(srv.URL + "/api/questions/nope")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
