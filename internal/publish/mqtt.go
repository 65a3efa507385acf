package publish

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

const (
	publishQoS     = 1
	publishTimeout = 5 * time.Second
	connectPoll    = 200 * time.Millisecond
)

var (
	ErrNotConnected = errors.New("mqtt client not connected")
	ErrStopped      = errors.New("mqtt client stopped")
)

// pahoClient is the subset of mqtt.Client the publisher uses.
type pahoClient interface {
	Connect() mqtt.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
	IsConnected() bool
}

type MQTTOptions struct {
	Broker   string
	ClientID string
	// Retained marks snapshots as retained so new subscribers get the last
	// state right away.
	Retained bool
}

// MQTTPublisher publishes snapshots with QoS 1 and reconnects on its own.
type MQTTPublisher struct {
	client    pahoClient
	retained  bool
	mu        sync.RWMutex
	connected bool

	stopCh   chan struct{}
	stopOnce sync.Once
}

var _ Publisher = (*MQTTPublisher)(nil)

func NewMQTTPublisher(opts MQTTOptions) *MQTTPublisher {
	p := &MQTTPublisher{
		retained: opts.Retained,
		stopCh:   make(chan struct{}),
	}

	clientOpts := mqtt.NewClientOptions()
	clientOpts.AddBroker(opts.Broker)
	clientOpts.SetClientID(opts.ClientID)
	clientOpts.SetCleanSession(true)

	clientOpts.SetAutoReconnect(true)
	clientOpts.SetConnectRetry(true)
	clientOpts.SetConnectRetryInterval(5 * time.Second)
	clientOpts.SetMaxReconnectInterval(60 * time.Second)

	clientOpts.SetKeepAlive(30 * time.Second)
	clientOpts.SetPingTimeout(10 * time.Second)

	clientOpts.SetOnConnectHandler(func(_ mqtt.Client) {
		p.setConnected(true)
		log.Info().Str("broker", opts.Broker).Msg("MQTT connected")
	})
	clientOpts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		p.setConnected(false)
		log.Warn().Err(err).Msg("MQTT connection lost")
	})

	p.client = mqtt.NewClient(clientOpts)
	return p
}

// Connect waits for the first connection. It returns early when ctx is done
// or the publisher is closed.
func (p *MQTTPublisher) Connect(ctx context.Context) error {
	select {
	case <-p.stopCh:
		return ErrStopped
	default:
	}

	if p.IsConnected() {
		return nil
	}

	token := p.client.Connect()
	for {
		if token.WaitTimeout(connectPoll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect: %w", err)
			}
			p.setConnected(true)
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.stopCh:
			return ErrStopped
		default:
		}
	}
}

func (p *MQTTPublisher) Publish(ctx context.Context, topic string, payload interface{}) error {
	if !p.IsConnected() {
		return ErrNotConnected
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	token := p.client.Publish(topic, publishQoS, p.retained, data)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish timeout for topic %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}

	log.Debug().Str("topic", topic).Int("bytes", len(data)).Msg("Published snapshot")
	return nil
}

func (p *MQTTPublisher) IsConnected() bool {
	p.mu.RLock()
	connected := p.connected
	p.mu.RUnlock()
	return connected && p.client.IsConnected()
}

// Close disconnects once; later calls do nothing and Connect fails.
func (p *MQTTPublisher) Close() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
		p.client.Disconnect(250)
		p.setConnected(false)
		log.Info().Msg("MQTT disconnected")
	})
}

func (p *MQTTPublisher) setConnected(v bool) {
	p.mu.Lock()
	p.connected = v
	p.mu.Unlock()
}
