package integrationtests

import (
	"auction-engine/internal/auth"
	bidding "auction-engine/internal/biddingService"
	model "auction-engine/internal/models"
	"auction-engine/internal/repository"
	"auction-engine/internal/server"
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

const testSecret = "integration-secret"

// TestEnv is a full in-memory stack behind the real router
type TestEnv struct {
	Router *gin.Engine
	Repo   *repository.MemoryRepo
	Authn  *auth.Authenticator
	Seller model.User
}

// SetupTestEnv seeds a seller (u2@example.com), two bidders u1 (credit 200)
// and u3 (credit 500), plus the given sales, all sold by the seller.
func SetupTestEnv(t *testing.T, sales ...model.Sale) *TestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepo()
	seller := repo.AddUser(model.User{FirstName: "U2", Email: "u2@example.com", Credit: 0})
	repo.AddUser(model.User{FirstName: "U1", Email: "u1@example.com", Credit: 200})
	repo.AddUser(model.User{FirstName: "U3", Email: "u3@example.com", Credit: 500})

	now := time.Now().UTC()
	for _, s := range sales {
		if s.StartingDate.IsZero() {
			s.StartingDate = now.Add(-time.Hour)
		}
		if s.EndingDate.IsZero() {
			s.EndingDate = now.Add(time.Hour)
		}
		s.Seller = &model.User{UserID: seller.UserID}
		repo.AddSale(s)
	}

	authn := auth.NewAuthenticator(testSecret)
	service := bidding.NewBiddingService(repo, bidding.WithLockWait(time.Second))
	router := server.SetupRouter(service, authn)

	return &TestEnv{Router: router, Repo: repo, Authn: authn, Seller: seller}
}

// Token issues a bearer token for the given identity
func (e *TestEnv) Token(t *testing.T, identity string) string {
	t.Helper()
	token, err := e.Authn.IssueToken(identity, time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response.
// An empty token sends the request unauthenticated.
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url, token string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		err := json.Unmarshal(w.Body.Bytes(), &resp)
		if err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}

		if w.Code == 201 {
			resp = resp["data"].(map[string]any)
		}
	}

	return resp, w
}
