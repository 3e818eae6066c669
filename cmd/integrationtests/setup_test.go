package integrationtests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"studiobid/internal/auctionapi"
	auth "studiobid/internal/authService"
	bidding "studiobid/internal/biddingService"
	listing "studiobid/internal/listingService"
	model "studiobid/internal/models"
	profile "studiobid/internal/profileService"
	"studiobid/internal/repository"
	"studiobid/internal/server"

	"github.com/gin-gonic/gin"
)

const (
	testAPIKey   = "integration-key"
	testPassword = "secret123"
)

// fakeAuction is an in-memory stand-in for the auction API
type fakeAuction struct {
	mu       sync.Mutex
	listings map[string]*model.Listing
	credits  map[string]int
	calls    atomic.Int64
	queries  []string
}

func newFakeAuction(listings ...model.Listing) *fakeAuction {
	f := &fakeAuction{
		listings: make(map[string]*model.Listing),
		credits:  map[string]int{"alice": 1000, "bob": 1000},
	}
	for i := range listings {
		l := listings[i]
		f.listings[l.ID] = &l
	}
	return f
}

// Calls is the number of requests the fake has served
func (f *fakeAuction) Calls() int64 { return f.calls.Load() }

// LastQuery is the raw query string of the last listings request
func (f *fakeAuction) LastQuery() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queries) == 0 {
		return ""
	}
	return f.queries[len(f.queries)-1]
}

func (f *fakeAuction) handler() http.Handler {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		f.calls.Add(1)
		if c.GetHeader(auctionapi.APIKeyHeader) != testAPIKey {
			apiError(c, http.StatusUnauthorized, "No API key header was found")
			return
		}
		c.Next()
	})

	r.GET("/auction/listings", f.list)
	r.GET("/auction/listings/search", f.search)
	r.GET("/auction/listings/:id", f.get)
	r.POST("/auction/listings/:id/bids", f.bid)
	r.GET("/auction/profiles/:name", f.profile)
	r.POST("/auth/login", f.login)
	return r
}

func apiError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"errors":     []gin.H{{"message": message}},
		"status":     http.StatusText(status),
		"statusCode": status,
	})
}

func (f *fakeAuction) snapshot(keep func(model.Listing) bool) []model.Listing {
	out := make([]model.Listing, 0, len(f.listings))
	for _, l := range f.listings {
		if keep(*l) {
			out = append(out, *l)
		}
	}
	return out
}

func paginate(c *gin.Context, all []model.Listing) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	start := min((page-1)*limit, len(all))
	end := min(start+limit, len(all))

	c.JSON(http.StatusOK, gin.H{
		"data": all[start:end],
		"meta": gin.H{
			"isFirstPage": page == 1,
			"isLastPage":  end == len(all),
			"currentPage": page,
			"pageCount":   (len(all) + limit - 1) / limit,
			"totalCount":  len(all),
		},
	})
}

func (f *fakeAuction) list(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, c.Request.URL.RawQuery)

	now := time.Now()
	active := c.Query("_active") == "true"
	all := f.snapshot(func(l model.Listing) bool { return !active || l.EndsAt.After(now) })

	if c.Query("sort") == "endsAt" {
		slices.SortFunc(all, func(a, b model.Listing) int { return a.EndsAt.Compare(b.EndsAt) })
	} else {
		slices.SortFunc(all, func(a, b model.Listing) int { return b.Created.Compare(a.Created) })
	}
	paginate(c, all)
}

func (f *fakeAuction) search(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, c.Request.URL.RawQuery)

	q := strings.ToLower(c.Query("q"))
	all := f.snapshot(func(l model.Listing) bool {
		return strings.Contains(strings.ToLower(l.Title), q) || strings.Contains(strings.ToLower(l.Description), q)
	})
	slices.SortFunc(all, func(a, b model.Listing) int { return b.Created.Compare(a.Created) })
	paginate(c, all)
}

func (f *fakeAuction) get(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	l, ok := f.listings[c.Param("id")]
	if !ok {
		apiError(c, http.StatusNotFound, "No listing with such ID")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": l, "meta": gin.H{}})
}

func bearerName(c *gin.Context) string {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer token-")
	if !ok {
		return ""
	}
	return token
}

func (f *fakeAuction) bid(c *gin.Context) {
	name := bearerName(c)
	if name == "" {
		apiError(c, http.StatusUnauthorized, "Missing or invalid token")
		return
	}
	var body struct {
		Amount int `json:"amount"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "Amount is required")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	l, ok := f.listings[c.Param("id")]
	if !ok {
		apiError(c, http.StatusNotFound, "No listing with such ID")
		return
	}
	if body.Amount > f.credits[name] {
		apiError(c, http.StatusBadRequest, "Insufficient credits to place this bid")
		return
	}
	f.credits[name] -= body.Amount
	l.Bids = append(l.Bids, model.Bid{
		ID:      fmt.Sprintf("bid-%d", len(l.Bids)+1),
		Amount:  body.Amount,
		Created: time.Now().UTC(),
		Bidder:  &model.ProfileSummary{Name: name},
	})
	l.Count.Bids = len(l.Bids)
	c.JSON(http.StatusCreated, gin.H{"data": l, "meta": gin.H{}})
}

func (f *fakeAuction) profile(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := c.Param("name")
	credits, ok := f.credits[name]
	if !ok {
		apiError(c, http.StatusNotFound, "No profile with this name")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data": model.Profile{Name: name, Email: name + "@stud.noroff.no", Credits: credits},
		"meta": gin.H{},
	})
}

func (f *fakeAuction) login(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Password != testPassword {
		apiError(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	name, _, _ := strings.Cut(body.Email, "@")
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{"name": name, "email": body.Email, "accessToken": "token-" + name},
		"meta": gin.H{},
	})
}

// testApp is the StudioBid router wired to a fake auction API, with a
// single browser's cookie carried between requests
type testApp struct {
	router *gin.Engine
	fake   *fakeAuction
	cookie *http.Cookie
}

// SetupTestApp starts the fake upstream and builds the full router on top
// of the real client and services
func SetupTestApp(t *testing.T, listings ...model.Listing) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fake := newFakeAuction(listings...)
	upstream := httptest.NewServer(fake.handler())
	t.Cleanup(upstream.Close)

	api, err := auctionapi.NewClient(upstream.URL, testAPIKey, auctionapi.WithHTTPClient(upstream.Client()))
	if err != nil {
		t.Fatalf("failed to create api client: %v", err)
	}

	store := repository.NewMemoryRepo(time.Hour, 0)
	t.Cleanup(func() { store.Close() })

	router := server.SetupRouter(server.Services{
		Listings: listing.NewListingService(api, listing.DefaultPageSize),
		Bidding:  bidding.NewBiddingService(api),
		Profiles: profile.NewProfileService(api),
		Auth:     auth.NewAuthService(api),
		Sessions: store,
		Session:  server.SessionOptions{TTL: time.Hour},
	})

	return &testApp{router: router, fake: fake}
}

// ExecuteRequestAndParse executes an HTTP request on the app, keeps the
// session cookie and parses the envelope
func (a *testApp) ExecuteRequestAndParse(t *testing.T, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if a.cookie != nil {
		req.AddCookie(a.cookie)
	}
	a.router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name == server.DefaultCookieName {
			a.cookie = c
		}
	}

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	return resp, w
}

// Login logs the app's browser in as name
func (a *testApp) Login(t *testing.T, name string) {
	t.Helper()
	_, w := a.ExecuteRequestAndParse(t, http.MethodPost, "/auth/login", map[string]string{
		"email":    name + "@stud.noroff.no",
		"password": testPassword,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login as %s failed: %d %s", name, w.Code, w.Body.String())
	}
}

// activeListings builds n open listings by bob, l00 being the newest and
// the first to end
func activeListings(n int) []model.Listing {
	now := time.Now().UTC()
	out := make([]model.Listing, 0, n)
	for i := range n {
		out = append(out, model.Listing{
			ID:          fmt.Sprintf("l%02d", i),
			Title:       fmt.Sprintf("Listing %02d", i),
			Description: "A print",
			Media:       []model.Media{{URL: fmt.Sprintf("https://img.example/%02d.jpg", i)}},
			Created:     now.Add(-time.Duration(i) * time.Minute),
			EndsAt:      now.Add(time.Duration(i+1) * time.Hour),
			Seller:      &model.ProfileSummary{Name: "bob"},
		})
	}
	return out
}

func cardIDs(data map[string]any) []string {
	cards := data["cards"].([]any)
	ids := make([]string, 0, len(cards))
	for _, c := range cards {
		ids = append(ids, c.(map[string]any)["id"].(string))
	}
	return ids
}
