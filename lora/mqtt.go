package lora

import (
	"context"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	logger "github.com/sirupsen/logrus"
)

// Publisher is the part of the MQTT client the radio uses.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTRadio carries encrypted packets to the gateway over an MQTT uplink
// topic instead of RF.
type MQTTRadio struct {
	client Publisher
	topic  string

	mu   sync.Mutex
	last mqtt.Token
}

func UplinkTopic(gateway, station int) string {
	return fmt.Sprintf("lora/%d/uplink/%d", gateway, station)
}

func NewMQTTRadio(client Publisher, topic string) *MQTTRadio {
	return &MQTTRadio{client: client, topic: topic}
}

// ConnectMQTT dials the broker, giving up when ctx is done.
func ConnectMQTT(ctx context.Context, broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		logger.Infof("MQTT connected [%v]", broker)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warnf("MQTT connection lost [%v]", err)
	})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if err := waitToken(ctx, token); err != nil {
		client.Disconnect(0)
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	return client, nil
}

func (r *MQTTRadio) Send(packet []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := make([]byte, len(packet))
	copy(p, packet)
	r.last = r.client.Publish(r.topic, 1, false, p)
	return nil
}

func (r *MQTTRadio) WaitPacketSent(ctx context.Context) error {
	r.mu.Lock()
	token := r.last
	r.mu.Unlock()
	if token == nil {
		return nil
	}
	return waitToken(ctx, token)
}

func waitToken(ctx context.Context, token mqtt.Token) error {
	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			return token.Error()
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrSendTimeout, ctx.Err())
		default:
		}
	}
}
