package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smartess-http-service/internal/domain/models"
)

// fakeIngestMessage 实现mqtt.Message，用于直接驱动消息处理程序
type fakeIngestMessage struct {
	topic   string
	payload []byte
}

func (m *fakeIngestMessage) Duplicate() bool   { return false }
func (m *fakeIngestMessage) Qos() byte         { return 1 }
func (m *fakeIngestMessage) Retained() bool    { return false }
func (m *fakeIngestMessage) Topic() string     { return m.topic }
func (m *fakeIngestMessage) MessageID() uint16 { return 0 }
func (m *fakeIngestMessage) Payload() []byte   { return m.payload }
func (m *fakeIngestMessage) Ack()              {}

// fakeIngestStore 记录写入调用
type fakeIngestStore struct {
	alerts      []models.Alert
	statusHubID uint
	statusValue string
	statusCalls int
	statusRows  int64
}

func (f *fakeIngestStore) CreateAlert(alert *models.Alert) error {
	f.alerts = append(f.alerts, *alert)
	return nil
}

func (f *fakeIngestStore) UpdateHubStatus(hubID uint, status string) (int64, error) {
	f.statusCalls++
	f.statusHubID = hubID
	f.statusValue = status
	return f.statusRows, nil
}

// fakeDedupeRedis 只实现告警去重，其余方法为空操作
type fakeDedupeRedis struct {
	firstSeen bool
	markErr   error
	calls     int
}

func (f *fakeDedupeRedis) Set(key string, value interface{}, expiration time.Duration) error {
	return nil
}
func (f *fakeDedupeRedis) Get(key string, dest interface{}) error { return nil }
func (f *fakeDedupeRedis) Delete(key string) error                { return nil }
func (f *fakeDedupeRedis) Ping(ctx context.Context) error         { return nil }

func (f *fakeDedupeRedis) MarkAlertSeen(hubID uint, message string, window time.Duration) (bool, error) {
	f.calls++
	return f.firstSeen, f.markErr
}

func newIngestService(store *fakeIngestStore, redis InterfaceRedisService) *AlertIngestService {
	return &AlertIngestService{Store: store, RedisService: redis}
}

func TestHubIDFromTopic(t *testing.T) {
	tests := []struct {
		topic string
		hubID uint
		ok    bool
	}{
		{"hubs/42/alerts", 42, true},
		{"hubs/42/status", 42, true},
		{"hubs/0/alerts", 0, true},
		{"hubs/abc/alerts", 0, false},
		{"hubs/42", 0, false},
		{"devices/42/alerts", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		hubID, ok := hubIDFromTopic(tt.topic)
		assert.Equal(t, tt.ok, ok, "topic=%s", tt.topic)
		if tt.ok {
			assert.Equal(t, tt.hubID, hubID, "topic=%s", tt.topic)
		}
	}
}

func TestHandleHubAlertPersistsWellFormedPayload(t *testing.T) {
	store := &fakeIngestStore{}
	svc := newIngestService(store, nil)

	svc.handleHubAlert(nil, &fakeIngestMessage{
		topic:   "hubs/7/alerts",
		payload: []byte(`{"message": "Water Leak"}`),
	})

	require.Len(t, store.alerts, 1)
	assert.Equal(t, uint(7), store.alerts[0].HubID)
	assert.Equal(t, "Water Leak", store.alerts[0].Message)
	assert.True(t, store.alerts[0].Active)
}

func TestHandleHubAlertDropsMalformedPayload(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		payload string
	}{
		{"无效JSON", "hubs/7/alerts", `{"message": `},
		{"空message字段", "hubs/7/alerts", `{"message": ""}`},
		{"缺少message字段", "hubs/7/alerts", `{"level": "high"}`},
		{"主题不含hub ID", "hubs/abc/alerts", `{"message": "Water Leak"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeIngestStore{}
			svc := newIngestService(store, nil)

			svc.handleHubAlert(nil, &fakeIngestMessage{
				topic:   tt.topic,
				payload: []byte(tt.payload),
			})

			assert.Empty(t, store.alerts)
		})
	}
}

func TestHandleHubAlertSkipsDuplicateWithinWindow(t *testing.T) {
	store := &fakeIngestStore{}
	redis := &fakeDedupeRedis{firstSeen: false}
	svc := newIngestService(store, redis)

	svc.handleHubAlert(nil, &fakeIngestMessage{
		topic:   "hubs/7/alerts",
		payload: []byte(`{"message": "Water Leak"}`),
	})

	assert.Equal(t, 1, redis.calls)
	assert.Empty(t, store.alerts)
}

func TestHandleHubAlertPersistsWhenDedupeUnavailable(t *testing.T) {
	store := &fakeIngestStore{}
	redis := &fakeDedupeRedis{markErr: errors.New("connection refused")}
	svc := newIngestService(store, redis)

	svc.handleHubAlert(nil, &fakeIngestMessage{
		topic:   "hubs/7/alerts",
		payload: []byte(`{"message": "Water Leak"}`),
	})

	require.Len(t, store.alerts, 1)
	assert.Equal(t, "Water Leak", store.alerts[0].Message)
}

func TestHandleHubStatusUpdatesKnownHub(t *testing.T) {
	store := &fakeIngestStore{statusRows: 1}
	svc := newIngestService(store, nil)

	svc.handleHubStatus(nil, &fakeIngestMessage{
		topic:   "hubs/12/status",
		payload: []byte(`{"status": "disconnected"}`),
	})

	assert.Equal(t, 1, store.statusCalls)
	assert.Equal(t, uint(12), store.statusHubID)
	assert.Equal(t, "disconnected", store.statusValue)
}

func TestHandleHubStatusDropsMalformedPayload(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		payload string
	}{
		{"无效JSON", "hubs/12/status", `not json`},
		{"空status字段", "hubs/12/status", `{"status": ""}`},
		{"主题不含hub ID", "hubs//status", `{"status": "live"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeIngestStore{statusRows: 1}
			svc := newIngestService(store, nil)

			svc.handleHubStatus(nil, &fakeIngestMessage{
				topic:   tt.topic,
				payload: []byte(tt.payload),
			})

			assert.Zero(t, store.statusCalls)
		})
	}
}
