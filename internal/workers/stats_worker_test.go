package workers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"store_rating_backend/internal/auth"
	"store_rating_backend/internal/metrics"
	"store_rating_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubAdmin struct {
	calls  atomic.Int32
	totals dto.MetricsResponse
	err    error
}

func (s *stubAdmin) GetMetrics(*gorm.DB) (*dto.MetricsResponse, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	t := s.totals
	return &t, nil
}

func (s *stubAdmin) ListUsers(*gorm.DB, *dto.AdminUserFilter) (*dto.UserListResponse, error) {
	return nil, errors.New("not used")
}

func (s *stubAdmin) CreateUser(*gorm.DB, *dto.SignupRequest) (*dto.UserResponse, error) {
	return nil, errors.New("not used")
}

func (s *stubAdmin) DeleteUser(*gorm.DB, *auth.Principal, uint) error {
	return errors.New("not used")
}

func testDB() *gorm.DB {
	return &gorm.DB{Config: &gorm.Config{}, Statement: &gorm.Statement{Context: context.Background()}}
}

func scrape(t *testing.T) string {
	t.Helper()
	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestStatsWorkerPublishesTotals(t *testing.T) {
	admin := &stubAdmin{totals: dto.MetricsResponse{TotalUsers: 4, TotalStores: 6, TotalRatings: 9}}
	w := NewStatsWorker(testDB(), admin, time.Hour)

	w.refresh(context.Background())

	body := scrape(t)
	assert.Contains(t, body, `store_rating_entities{kind="users"} 4`)
	assert.Contains(t, body, `store_rating_entities{kind="stores"} 6`)
	assert.Contains(t, body, `store_rating_entities{kind="ratings"} 9`)
}

func TestStatsWorkerKeepsLastValueOnError(t *testing.T) {
	admin := &stubAdmin{totals: dto.MetricsResponse{TotalUsers: 2, TotalStores: 2, TotalRatings: 2}}
	w := NewStatsWorker(testDB(), admin, time.Hour)
	w.refresh(context.Background())

	admin.err = errors.New("connection reset")
	w.refresh(context.Background())

	assert.Contains(t, scrape(t), `store_rating_entities{kind="users"} 2`)
}

func TestStatsWorkerStopsWithContext(t *testing.T) {
	admin := &stubAdmin{}
	w := NewStatsWorker(testDB(), admin, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	assert.Eventually(t, func() bool { return admin.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()
}
