//go:build integration_test || all_tests

package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/2beens/fitdash/internal/auth"
	"github.com/2beens/fitdash/internal/config"
	"github.com/2beens/fitdash/internal/workouts"
	testingpkg "github.com/2beens/fitdash/pkg/testing"

	"github.com/stretchr/testify/suite"
)

const (
	testPrincipalID  = "user_2fitdashE2E"
	testIdpSecret    = "testpass"
	testIdpSecretHsh = "$2a$14$6Gmhg85si2etd3K9oB8nYu1cxfbrdmhkg6wI6OXsa88IF4L2r/L9i" // testpass
)

type ServerTestSuite struct {
	suite.Suite

	pg       *testingpkg.Postgres
	idp      *httptest.Server
	server   *Server
	endpoint string
	client   *http.Client
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupSuite() {
	t := s.T()
	s.pg = testingpkg.StartPostgres(t)
	redisPort := testingpkg.StartRedis(t)

	s.idp = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/users/"+testPrincipalID {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, `{
			"id": "`+testPrincipalID+`",
			"first_name": "Ada",
			"last_name": "Lovelace",
			"email_addresses": [{"email_address": "ada@example.com"}]
		}`)
	}))
	t.Cleanup(s.idp.Close)

	port := freePort(t)
	cfg := &config.Config{
		Environment:                   "development",
		Host:                          "127.0.0.1",
		Port:                          port,
		PostgresHost:                  "localhost",
		PostgresPort:                  s.pg.Port,
		PostgresDBName:                testingpkg.TestDBName,
		PostgresUser:                  "postgres",
		MigrateOnStart:                true,
		RedisHost:                     "localhost",
		RedisPort:                     redisPort,
		PrometheusMetricsHost:         "127.0.0.1",
		PrometheusMetricsPort:         strconv.Itoa(freePort(t)),
		Timezone:                      "UTC",
		IdpAPIBaseURL:                 s.idp.URL,
		SessionTTL:                    time.Hour,
		IdentityCacheTTLSeconds:       60,
		SessionRateLimitAllowedPerMin: 100,
	}

	var err error
	s.server, err = NewServer(context.Background(), NewServerParams{
		Config: cfg,
		Secrets: &config.Secrets{
			IdpAPIKey:             "test-key",
			IdpCallbackSecretHash: testIdpSecretHsh,
		},
		VersionInfo: "test-version",
	})
	s.Require().NoError(err)
	s.server.Serve(cfg.Host, cfg.Port)
	t.Cleanup(func() {
		if err := s.server.GracefulShutdown(); err != nil {
			t.Logf("server shutdown: %s", err)
		}
	})

	s.endpoint = fmt.Sprintf("http://%s", net.JoinHostPort(cfg.Host, strconv.Itoa(port)))
	s.client = &http.Client{Timeout: 10 * time.Second}

	s.Require().Eventually(func() bool {
		resp, err := s.client.Get(s.endpoint + "/version")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 10*time.Second, 100*time.Millisecond)
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("free port: %s", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func (s *ServerTestSuite) do(method, path, token string, body io.Reader, headers map[string]string) (int, []byte) {
	req, err := http.NewRequest(method, s.endpoint+path, body)
	s.Require().NoError(err)
	if token != "" {
		req.Header.Set(auth.SessionTokenHeader, token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, respBody
}

func (s *ServerTestSuite) newSession() string {
	form := url.Values{"principal_id": {testPrincipalID}}
	status, body := s.do(http.MethodPost, "/a/session", "", strings.NewReader(form.Encode()), map[string]string{
		"Content-Type":       "application/x-www-form-urlencoded",
		auth.IdpSecretHeader: testIdpSecret,
	})
	s.Require().Equal(http.StatusCreated, status, string(body))

	var resp struct {
		Token string `json:"token"`
	}
	s.Require().NoError(json.Unmarshal(body, &resp))
	s.Require().NotEmpty(resp.Token)
	return resp.Token
}

func (s *ServerTestSuite) TestVersion() {
	status, body := s.do(http.MethodGet, "/version", "", nil, nil)
	s.Equal(http.StatusOK, status)
	s.Equal("test-version", string(body))
}

func (s *ServerTestSuite) TestNewSession_WrongSecret() {
	form := url.Values{"principal_id": {testPrincipalID}}
	status, _ := s.do(http.MethodPost, "/a/session", "", strings.NewReader(form.Encode()), map[string]string{
		"Content-Type":       "application/x-www-form-urlencoded",
		auth.IdpSecretHeader: "wrong",
	})
	s.Equal(http.StatusUnauthorized, status)
}

func (s *ServerTestSuite) TestNoToken() {
	for _, path := range []string{"/me", "/workouts", "/workouts/all", "/workouts/stats", "/dashboard"} {
		status, _ := s.do(http.MethodGet, path, "", nil, nil)
		s.Equal(http.StatusUnauthorized, status, path)
	}
}

func (s *ServerTestSuite) TestUnknownToken() {
	status, _ := s.do(http.MethodGet, "/me", "not-a-session", nil, nil)
	s.Equal(http.StatusUnauthorized, status)
}

func (s *ServerTestSuite) TestWorkoutsFlow() {
	token := s.newSession()

	// first call provisions the user, the second one finds it
	status, body := s.do(http.MethodGet, "/me", token, nil, nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	var me workouts.MeResponse
	s.Require().NoError(json.Unmarshal(body, &me))
	s.Require().Positive(me.UserID)

	status, body = s.do(http.MethodGet, "/me", token, nil, nil)
	s.Require().Equal(http.StatusOK, status)
	var meAgain workouts.MeResponse
	s.Require().NoError(json.Unmarshal(body, &meAgain))
	s.Equal(me.UserID, meAgain.UserID)

	ctx := context.Background()
	var name, email string
	s.Require().NoError(s.pg.Pool.QueryRow(ctx,
		`SELECT name, email FROM app_user WHERE external_id = $1`, testPrincipalID,
	).Scan(&name, &email))
	s.Equal("Ada Lovelace", name)
	s.Equal("ada@example.com", email)

	var workoutID, exerciseID int
	s.Require().NoError(s.pg.Pool.QueryRow(ctx,
		`INSERT INTO workout (user_id, name, started_at, duration) VALUES ($1, 'Legs', '2024-05-01T10:00:00Z', 45) RETURNING id`,
		me.UserID,
	).Scan(&workoutID))
	s.Require().NoError(s.pg.Pool.QueryRow(ctx,
		`INSERT INTO exercise (workout_id, exercise_name, exercise_order) VALUES ($1, 'Squat', 1) RETURNING id`,
		workoutID,
	).Scan(&exerciseID))
	_, err := s.pg.Pool.Exec(ctx,
		`INSERT INTO exercise_set (exercise_id, set_number, reps, weight) VALUES ($1, 1, 5, 100), ($1, 2, 5, 110)`,
		exerciseID,
	)
	s.Require().NoError(err)

	status, body = s.do(http.MethodGet, "/workouts?date=2024-05-01", token, nil, nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	var forDate workouts.WorkoutsResponse
	s.Require().NoError(json.Unmarshal(body, &forDate))
	s.Equal("2024-05-01", forDate.Date)
	s.Require().Len(forDate.Workouts, 1)
	s.Equal(workoutID, forDate.Workouts[0].ID)
	s.Require().Len(forDate.Workouts[0].Exercises, 1)
	s.Len(forDate.Workouts[0].Exercises[0].Sets, 2)

	status, body = s.do(http.MethodGet, "/workouts?date=2024-05-02", token, nil, nil)
	s.Require().Equal(http.StatusOK, status)
	var otherDay workouts.WorkoutsResponse
	s.Require().NoError(json.Unmarshal(body, &otherDay))
	s.NotNil(otherDay.Workouts)
	s.Empty(otherDay.Workouts)

	status, body = s.do(http.MethodGet, "/workouts/stats?date=2024-05-01", token, nil, nil)
	s.Require().Equal(http.StatusOK, status)
	var stats workouts.StatsResponse
	s.Require().NoError(json.Unmarshal(body, &stats))
	s.Equal(workouts.Stats{TotalWorkouts: 1, TotalExercises: 1, TotalDuration: 45}, stats.Stats)

	status, body = s.do(http.MethodGet, "/dashboard?date=2024-05-01", token, nil, nil)
	s.Require().Equal(http.StatusOK, status)
	var dashboard workouts.Dashboard
	s.Require().NoError(json.Unmarshal(body, &dashboard))
	s.Len(dashboard.Workouts, 1)
	s.Equal(1, dashboard.Stats.TotalWorkouts)

	status, _ = s.do(http.MethodGet, "/workouts/stats?date=2024-13-01", token, nil, nil)
	s.Equal(http.StatusBadRequest, status)

	status, body = s.do(http.MethodGet, "/workouts/all", token, nil, nil)
	s.Require().Equal(http.StatusOK, status)
	var all workouts.WorkoutsResponse
	s.Require().NoError(json.Unmarshal(body, &all))
	s.Len(all.Workouts, 1)

	status, _ = s.do(http.MethodPost, "/a/logout", token, nil, nil)
	s.Require().Equal(http.StatusOK, status)

	status, _ = s.do(http.MethodGet, "/me", token, nil, nil)
	s.Equal(http.StatusUnauthorized, status)
}
