package broker

import (
	"encoding/json"

	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/simplextcg/duel-services/internal/comm"
)

// Broker bridges the game service's NATS responses back to the originating
// web socket.
type Broker struct {
	Conn           *nats.Conn
	GetConnection  func(string) (*websocket.Conn, bool)
	GetGameSockets func(string) ([]string, bool)
}

func NewBroker(conn *nats.Conn, fncGetConnection func(string) (*websocket.Conn, bool), fncGetGameSockets func(string) ([]string, bool)) *Broker {
	return &Broker{
		Conn:           conn,
		GetConnection:  fncGetConnection,
		GetGameSockets: fncGetGameSockets,
	}
}

// consume messages from the game service
func (b *Broker) Subscribe(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, b.handleMessages)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// publish message to the game service
func (b *Broker) Publish(topic string, payload []byte) error {
	err := b.Conn.Publish(topic, payload)
	if err != nil {
		log.Errorf("Error publishing to topic %s: %s", topic, err)
		return err
	}

	return nil
}

// handleMessages receives responses from the game service
func (b *Broker) handleMessages(msgNats *nats.Msg) {
	message := &comm.WSMessage{}
	err := json.Unmarshal(msgNats.Data, &message)
	if err != nil {
		log.Errorf("Error %s", err)
		return
	}

	switch message.Type {
	case "create-game-resp", "error-resp":
		b.sendMessage(message)
	case "initialize-game-resp":
		// initialization changes state for both seats, fan out to every
		// socket watching the game
		b.sendMessage(message)
		b.fanOutToGame(message)
	default:
		log.Error("Unknown message")
	}
}

// send socket message to the web client
func (b *Broker) sendMessage(m *comm.WSMessage) {
	socketId := m.SocketId
	if conn, ok := b.GetConnection(socketId); ok {
		if err := conn.WriteJSON(m); err != nil {
			log.Println(err)
		}
	}
}

func (b *Broker) fanOutToGame(m *comm.WSMessage) {
	result := comm.InitializeGameResult{}
	if err := json.Unmarshal(m.Data, &result); err != nil || result.GameID == "" {
		return
	}

	sockets, ok := b.GetGameSockets(result.GameID)
	if !ok {
		return
	}

	for _, socketId := range sockets {
		if socketId == m.SocketId {
			continue // already delivered
		}
		if conn, ok := b.GetConnection(socketId); ok {
			if err := conn.WriteJSON(m); err != nil {
				log.Println(err)
			}
		}
	}
}
