package monitor

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"liyu1981.xyz/glucova-service/pkg/auth"
	"liyu1981.xyz/glucova-service/pkg/db"
	"liyu1981.xyz/glucova-service/pkg/models"
	"liyu1981.xyz/glucova-service/pkg/monitor/mocks"
)

const testSecret = "monitor-test-secret"

type testMocks struct {
	Identity *mocks.MockIIdentity
	Device   *mocks.MockIDevice
	Record   *mocks.MockIRecord
	Alert    *mocks.MockIAlert
	Contact  *mocks.MockIContact
}

// tickingClock advances one second per call so rows created in sequence
// have strictly increasing timestamps.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func GetMockMonitorWithMemorySqliteDialector(t *testing.T, useMockIAlert bool) (
	*gomock.Controller,
	*Monitor,
	*testMocks,
) {
	ctrl := gomock.NewController(t)

	mocked := &testMocks{
		Identity: mocks.NewMockIIdentity(ctrl),
		Device:   mocks.NewMockIDevice(ctrl),
		Record:   mocks.NewMockIRecord(ctrl),
		Alert:    mocks.NewMockIAlert(ctrl),
		Contact:  mocks.NewMockIContact(ctrl),
	}

	dialector := db.UseMemorySqliteDialector()
	dbInstance := db.GetInstance(dialector) // ensure migrations
	monitorInstance := &Monitor{
		Db:          *dbInstance,
		Tokens:      auth.NewTokenManager(testSecret, 30*time.Minute),
		Passwords:   auth.NewPasswordHasher(bcrypt.MinCost),
		Limiters:    NewRateLimiterStore(1000, 1000),
		MaxPageSize: 1000,
		Now:         tickingClock(),
	}
	monitorInstance.WithDefaultServices()

	if useMockIAlert {
		monitorInstance.WithServices(ServiceOpts{Alert: mocked.Alert})
	}

	return ctrl, monitorInstance, mocked
}

// newTestUser signs up a fresh user with a unique email.
func newTestUser(t *testing.T, m *Monitor) *models.User {
	t.Helper()
	user, err := m.Identity.SignUp(uuid.NewString()+"@example.com", "s3cret")
	require.NoError(t, err)
	return user
}

func newTestDevice(t *testing.T, m *Monitor, user *models.User) *models.Device {
	t.Helper()
	device, err := m.Device.CreateDevice(user, nil)
	require.NoError(t, err)
	return device
}

func ptr[T any](v T) *T {
	return &v
}

func ParseLogs(r io.Reader) []any {
	scanner := bufio.NewScanner(r)
	var logs []any

	for scanner.Scan() {
		line := scanner.Text()
		var j any
		if err := json.Unmarshal([]byte(line), &j); err == nil {
			logs = append(logs, j)
		}
	}
	return logs
}
