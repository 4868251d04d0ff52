package mqtt

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/kilianp07/planner/infra/logger"
)

// Topic suffixes under Config.TopicPrefix.
const (
	TopicStatus   = "status"
	TopicSchedule = "schedule"
	TopicBuild    = "events/build"
	TopicTask     = "events/task"
	TopicAddTask  = "tasks/add"
)

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

// TaskRequest is the payload accepted on the tasks/add topic.
type TaskRequest struct {
	Name      string  `json:"name"`
	Hours     float64 `json:"hours"`
	DueInDays int     `json:"due_in_days"`
}

// TaskHandler receives decoded task requests.
type TaskHandler func(TaskRequest)

// Publisher sends planner notifications to an MQTT broker.
type Publisher struct {
	cli     pahoClient
	cfg     Config
	logger  logger.Logger
	backoff time.Duration

	mu      sync.RWMutex
	handler TaskHandler
}

// NewPublisher connects to the broker, announces itself on the status topic
// and listens for task requests.
func NewPublisher(cfg Config) (*Publisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt_publisher")
	p := &Publisher{
		cfg:     cfg,
		logger:  log,
		backoff: time.Duration(cfg.BackoffMS) * time.Millisecond,
	}
	opts.OnConnect = func(c paho.Client) {
		log.Infof("MQTT connected")
		c.Publish(cfg.Topic(TopicStatus), cfg.QoS, true, "online")
		if token := c.Subscribe(cfg.Topic(TopicAddTask), cfg.QoS, p.onTaskRequest); token.Wait() && token.Error() != nil {
			log.Errorf("subscribe error: %v", token.Error())
		}
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	p.cli = c
	return p, nil
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
	opts.SetWill(cfg.Topic(TopicStatus), cfg.LWTPayload, cfg.QoS, true)
	return opts, nil
}

// OnTaskRequest installs the handler for task requests received from the broker.
func (p *Publisher) OnTaskRequest(h TaskHandler) {
	p.mu.Lock()
	p.handler = h
	p.mu.Unlock()
}

func (p *Publisher) onTaskRequest(_ paho.Client, msg paho.Message) {
	var req TaskRequest
	if err := json.Unmarshal(msg.Payload(), &req); err != nil {
		p.logger.Errorf("failed to decode task request: %v", err)
		return
	}
	if req.Name == "" || req.Hours <= 0 || req.DueInDays < 0 {
		p.logger.Warnf("rejected task request %+v", req)
		return
	}
	p.mu.RLock()
	h := p.handler
	p.mu.RUnlock()
	if h != nil {
		h(req)
	}
}

// PublishJSON marshals v and publishes it on the topic suffix, retrying with
// exponential backoff.
func (p *Publisher) PublishJSON(suffix string, v any, retain bool) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	topic := p.cfg.Topic(suffix)
	var publishErr error
	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		token := p.cli.Publish(topic, p.cfg.QoS, retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			p.logger.Debugf("published %d bytes to %s", len(payload), topic)
			return nil
		}
		p.logger.Errorf("publish attempt %d failed: %v", attempt+1, publishErr)
		if attempt < p.cfg.MaxRetries {
			time.Sleep(p.backoff * time.Duration(1<<attempt))
		}
	}
	return fmt.Errorf("publish %s: %w", topic, publishErr)
}

// PublishSchedule publishes a schedule snapshot, retained when configured.
func (p *Publisher) PublishSchedule(snapshot any) error {
	return p.PublishJSON(TopicSchedule, snapshot, p.cfg.Retain)
}

// Disconnect announces the shutdown and closes the MQTT connection.
func (p *Publisher) Disconnect() {
	if p.cli != nil && p.cli.IsConnected() {
		p.cli.Publish(p.cfg.Topic(TopicStatus), p.cfg.QoS, true, p.cfg.LWTPayload).Wait()
		p.cli.Disconnect(250)
	}
}
