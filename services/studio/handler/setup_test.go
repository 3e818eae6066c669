package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	model "studiobid/internal/models"
	"studiobid/services/studio/helpers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// newTestRouter returns a gin engine that attaches session to every request
func newTestRouter(session *model.Session) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		helpers.SetSession(c, session)
		c.Next()
	})
	return router
}

func loggedIn() *model.Session {
	return &model.Session{
		ID: "session-1",
		Auth: &model.AuthSession{
			AccessToken: "token-1",
			Name:        "alice",
			Email:       "alice@stud.noroff.no",
			Credits:     1000,
		},
	}
}

// doRequest sends body (string bodies are sent raw) and decodes the envelope
func doRequest(t *testing.T, router http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(b)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return w, resp
}

func listingFixture(id string, highest int, endsIn time.Duration) model.Listing {
	l := model.Listing{
		ID:      id,
		Title:   "Portrait " + id,
		Media:   []model.Media{{URL: "https://img.example/" + id + ".jpg", Alt: "portrait"}},
		Tags:    []string{"portrait"},
		Created: fixedNow.Add(-time.Hour),
		EndsAt:  fixedNow.Add(endsIn),
		Seller:  &model.ProfileSummary{Name: "bob"},
	}
	if highest > 0 {
		l.Bids = []model.Bid{{ID: "b-" + id, Amount: highest, Created: fixedNow.Add(-time.Minute), Bidder: &model.ProfileSummary{Name: "carol"}}}
		l.Count.Bids = 1
	}
	return l
}
