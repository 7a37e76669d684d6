// Package mqtt is the transport edge of the engine: it streams telemetry
// snapshots to the telemetry topic and turns command-topic messages into
// engine commands. It carries no simulation logic.
package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"os"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/kilianp07/pulsecore/core/command"
	"github.com/kilianp07/pulsecore/core/model"
	"github.com/kilianp07/pulsecore/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client.
type Config struct {
	Enabled        bool            `json:"enabled"`
	Broker         string          `json:"broker"`
	ClientID       string          `json:"client_id"`
	Username       string          `json:"username"`
	Password       string          `json:"password"`
	UseTLS         bool            `json:"use_tls"`
	ClientCert     string          `json:"client_cert"`
	ClientKey      string          `json:"client_key"`
	CABundle       string          `json:"ca_bundle"`
	TelemetryTopic string          `json:"telemetry_topic"`
	CommandTopic   string          `json:"command_topic"`
	ResponseTopic  string          `json:"response_topic"`
	QoS            map[string]byte `json:"qos"`
	LWTTopic       string          `json:"lwt_topic"`
	LWTPayload     string          `json:"lwt_payload"`
	LWTQoS         byte            `json:"lwt_qos"`
	LWTRetain      bool            `json:"lwt_retain"`
	TLSConfig      *tls.Config     `json:"-"`
}

// SetDefaults applies topic defaults.
func (c *Config) SetDefaults() {
	if c.TelemetryTopic == "" {
		c.TelemetryTopic = "pulsecore/telemetry"
	}
	if c.CommandTopic == "" {
		c.CommandTopic = "pulsecore/command"
	}
	if c.ResponseTopic == "" {
		c.ResponseTopic = "pulsecore/response"
	}
	if c.ClientID == "" {
		c.ClientID = "pulsecore-" + uuid.NewString()
	}
}

// Validate checks mandatory fields when the transport is enabled.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Broker == "" {
		return fmt.Errorf("mqtt broker is required")
	}
	return nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the config.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
		return nil, fmt.Errorf("tls config requires client_cert, client_key and ca_bundle")
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	return &tls.Config{Certificates: []tls.Certificate{cert}, RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Client publishes telemetry and serves engine commands over MQTT.
type Client struct {
	cli     pahoClient
	cfg     Config
	handler command.Handler
	log     logger.Logger
}

// NewClient connects to the broker and subscribes to the command topic.
// The handler is invoked for every decoded command; its response is
// published on the response topic keyed by command_id.
func NewClient(cfg Config, handler command.Handler) (*Client, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	c := &Client{cfg: cfg, handler: handler, log: logger.New("mqtt_client")}
	opts.OnConnect = func(cli paho.Client) {
		c.log.Infof("MQTT connected to %s", cfg.Broker)
		if token := cli.Subscribe(cfg.CommandTopic, c.qos("command"), c.onCommand); token.Wait() && token.Error() != nil {
			c.log.Errorf("subscribe commands: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		c.log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		c.log.Warnf("reconnecting to MQTT broker")
	}
	cli := newMQTTClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	c.cli = cli
	return c, nil
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	if cfg.LWTTopic != "" {
		opts.SetWill(cfg.LWTTopic, cfg.LWTPayload, cfg.LWTQoS, cfg.LWTRetain)
	}
	return opts, nil
}

func (c *Client) qos(key string) byte {
	if q, ok := c.cfg.QoS[key]; ok {
		return q
	}
	return 0
}

// PublishTelemetry sends one snapshot to the telemetry topic.
func (c *Client) PublishTelemetry(snap model.TelemetrySnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	token := c.cli.Publish(c.cfg.TelemetryTopic, c.qos("telemetry"), false, payload)
	token.Wait()
	return token.Error()
}

func (c *Client) onCommand(_ paho.Client, msg paho.Message) {
	var cmd command.Command
	if err := json.Unmarshal(msg.Payload(), &cmd); err != nil {
		c.log.Errorf("decode command: %v", err)
		return
	}
	if cmd.CommandID == "" {
		cmd.CommandID = uuid.NewString()
	}
	resp := c.handler.Handle(cmd)
	resp.CommandID = cmd.CommandID
	payload, err := json.Marshal(resp)
	if err != nil {
		c.log.Errorf("encode response: %v", err)
		return
	}
	token := c.cli.Publish(c.cfg.ResponseTopic, c.qos("response"), false, payload)
	token.Wait()
	if token.Error() != nil {
		c.log.Errorf("publish response %s: %v", cmd.CommandID, token.Error())
		return
	}
	c.log.Infof("command %s -> %s", cmd.Action, resp.Status)
}

// Disconnect gracefully closes the MQTT connection.
func (c *Client) Disconnect() {
	if c.cli != nil && c.cli.IsConnected() {
		c.cli.Disconnect(250)
	}
}
