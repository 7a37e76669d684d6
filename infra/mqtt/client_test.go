package mqtt

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/pulsecore/core/command"
	"github.com/kilianp07/pulsecore/core/model"
)

type published struct {
	topic   string
	qos     byte
	payload []byte
}

type mockClient struct {
	mu           sync.Mutex
	connected    bool
	disconnected bool
	connectErr   error
	published    []published
	subscribed   map[string]paho.MessageHandler
}

func (m *mockClient) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

func (m *mockClient) Connect() paho.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.connectErr == nil {
		m.connected = true
	}
	return &mockToken{err: m.connectErr}
}

func (m *mockClient) Disconnect(uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connected = false
	m.disconnected = true
}

func (m *mockClient) Publish(topic string, qos byte, _ bool, payload interface{}) paho.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, published{topic: topic, qos: qos, payload: payload.([]byte)})
	return &mockToken{}
}

func (m *mockClient) Subscribe(topic string, _ byte, cb paho.MessageHandler) paho.Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.subscribed == nil {
		m.subscribed = map[string]paho.MessageHandler{}
	}
	m.subscribed[topic] = cb
	return &mockToken{}
}

func (m *mockClient) lastPublished() published {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.published[len(m.published)-1]
}

type mockToken struct{ err error }

func (t *mockToken) Wait() bool                     { return true }
func (t *mockToken) WaitTimeout(time.Duration) bool { return true }
func (t *mockToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t *mockToken) Error() error { return t.err }

type mockMessage struct {
	topic   string
	payload []byte
}

func (m *mockMessage) Duplicate() bool   { return false }
func (m *mockMessage) Qos() byte         { return 0 }
func (m *mockMessage) Retained() bool    { return false }
func (m *mockMessage) Topic() string     { return m.topic }
func (m *mockMessage) MessageID() uint16 { return 0 }
func (m *mockMessage) Payload() []byte   { return m.payload }
func (m *mockMessage) Ack()              {}

type stubHandler struct {
	mu   sync.Mutex
	got  []command.Command
	resp command.Response
}

func (h *stubHandler) Handle(cmd command.Command) command.Response {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.got = append(h.got, cmd)
	return h.resp
}

func withMockClient(t *testing.T, mock *mockClient) {
	t.Helper()
	orig := newMQTTClient
	newMQTTClient = func(*paho.ClientOptions) pahoClient { return mock }
	t.Cleanup(func() { newMQTTClient = orig })
}

func testConfig() Config {
	return Config{
		Enabled:  true,
		Broker:   "tcp://localhost:1883",
		ClientID: "test-client",
		QoS:      map[string]byte{"telemetry": 1, "command": 1, "response": 1},
	}
}

func TestNewClientConnectError(t *testing.T) {
	withMockClient(t, &mockClient{connectErr: errors.New("broker unreachable")})
	_, err := NewClient(testConfig(), &stubHandler{})
	require.Error(t, err)
}

func TestValidateRequiresBroker(t *testing.T) {
	cfg := Config{Enabled: true}
	require.Error(t, cfg.Validate())
	cfg.Enabled = false
	require.NoError(t, cfg.Validate())
}

func TestSetDefaults(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	assert.Equal(t, "pulsecore/telemetry", cfg.TelemetryTopic)
	assert.Equal(t, "pulsecore/command", cfg.CommandTopic)
	assert.Equal(t, "pulsecore/response", cfg.ResponseTopic)
	assert.NotEmpty(t, cfg.ClientID)
}

func TestPublishTelemetry(t *testing.T) {
	mock := &mockClient{}
	withMockClient(t, mock)
	cli, err := NewClient(testConfig(), &stubHandler{})
	require.NoError(t, err)

	snap := model.TelemetrySnapshot{
		Status:     model.StatusRunning,
		ScenarioID: "Peak Demand",
		RPM:        200000,
		PowerGW:    200,
	}
	require.NoError(t, cli.PublishTelemetry(snap))

	pub := mock.lastPublished()
	assert.Equal(t, "pulsecore/telemetry", pub.topic)
	assert.Equal(t, byte(1), pub.qos)

	var decoded model.TelemetrySnapshot
	require.NoError(t, json.Unmarshal(pub.payload, &decoded))
	assert.Equal(t, model.StatusRunning, decoded.Status)
	assert.Equal(t, "Peak Demand", decoded.ScenarioID)
	assert.Equal(t, float64(200000), decoded.RPM)
}

func TestOnCommandPublishesResponse(t *testing.T) {
	mock := &mockClient{}
	withMockClient(t, mock)
	handler := &stubHandler{resp: command.Response{Status: "started"}}
	cli, err := NewClient(testConfig(), handler)
	require.NoError(t, err)

	payload, err := json.Marshal(command.Command{
		CommandID: "cmd-42",
		Action:    command.ActionStart,
		Scenario:  "Peak Demand",
	})
	require.NoError(t, err)
	cli.onCommand(nil, &mockMessage{topic: "pulsecore/command", payload: payload})

	require.Len(t, handler.got, 1)
	assert.Equal(t, command.ActionStart, handler.got[0].Action)
	assert.Equal(t, "Peak Demand", handler.got[0].Scenario)

	pub := mock.lastPublished()
	assert.Equal(t, "pulsecore/response", pub.topic)
	var resp command.Response
	require.NoError(t, json.Unmarshal(pub.payload, &resp))
	assert.Equal(t, "cmd-42", resp.CommandID)
	assert.Equal(t, "started", resp.Status)
}

func TestOnCommandAssignsCommandID(t *testing.T) {
	mock := &mockClient{}
	withMockClient(t, mock)
	handler := &stubHandler{resp: command.Response{Status: "ok"}}
	cli, err := NewClient(testConfig(), handler)
	require.NoError(t, err)

	cli.onCommand(nil, &mockMessage{payload: []byte(`{"action":"get_scenarios"}`)})

	require.Len(t, handler.got, 1)
	assert.NotEmpty(t, handler.got[0].CommandID)

	var resp command.Response
	require.NoError(t, json.Unmarshal(mock.lastPublished().payload, &resp))
	assert.Equal(t, handler.got[0].CommandID, resp.CommandID)
}

func TestOnCommandIgnoresMalformedPayload(t *testing.T) {
	mock := &mockClient{}
	withMockClient(t, mock)
	handler := &stubHandler{}
	cli, err := NewClient(testConfig(), handler)
	require.NoError(t, err)

	before := len(mock.published)
	cli.onCommand(nil, &mockMessage{payload: []byte("{not json")})
	assert.Len(t, handler.got, 0)
	assert.Len(t, mock.published, before)
}

func TestDisconnect(t *testing.T) {
	mock := &mockClient{}
	withMockClient(t, mock)
	cli, err := NewClient(testConfig(), &stubHandler{})
	require.NoError(t, err)

	cli.Disconnect()
	assert.True(t, mock.disconnected)
	// Disconnecting twice is harmless.
	cli.Disconnect()
}

func TestSubscribesToCommandTopicOnConnect(t *testing.T) {
	mock := &mockClient{}
	withMockClient(t, mock)
	cfg := testConfig()
	cli, err := NewClient(cfg, &stubHandler{})
	require.NoError(t, err)
	// The subscription happens in the OnConnect callback of the real client;
	// drive it directly the way paho would after a successful connect.
	mock.Subscribe(cfg.CommandTopic, cli.qos("command"), cli.onCommand)
	require.Contains(t, mock.subscribed, "pulsecore/command")
}
