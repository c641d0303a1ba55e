package ws

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/simplextcg/duel-services/internal/comm"
	"github.com/simplextcg/duel-services/internal/socketsvc/broker"
)

type Ws struct {
	connMap sync.Map // socketId -> *websocket.Conn
	gameMap sync.Map // socketId -> gameId the socket is watching
	Broker  *broker.Broker
}

func NewWs() *Ws {
	return &Ws{}
}

// handle socket message from web clients
func (s *Ws) SocketMessage(socketId string, message *comm.WSMessage) {
	switch message.Type {
	case "create-game":
		s.relayCreateGame(socketId, message)
	case "initialize-game":
		s.relayInitializeGame(socketId, message)
	default:
		log.Warnf("unknown event received: %s", message.Type)
	}
}

func (s *Ws) relayCreateGame(socketId string, msg *comm.WSMessage) {
	payload := comm.CreateGameRequest{}
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		log.Errorf("Error: malformed create-game payload %s", err)
		return
	}

	if payload.UserID == "" || payload.OpponentUserID == "" {
		log.Error("Invalid create-game payload: missing user ids")
		return
	}

	s.publish(socketId, msg)
}

func (s *Ws) relayInitializeGame(socketId string, msg *comm.WSMessage) {
	payload := comm.InitializeGameRequest{}
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		log.Errorf("Error: malformed initialize-game payload %s", err)
		return
	}

	if payload.GameID == "" {
		log.Error("Invalid initialize-game payload: missing game id")
		return
	}

	// remember which game this socket is driving
	s.StoreGame(socketId, payload.GameID)

	s.publish(socketId, msg)
}

// publish stamps the socket id on the message and forwards it to the game
// service over NATS.
func (s *Ws) publish(socketId string, msg *comm.WSMessage) {
	msg.SocketId = socketId

	bytes, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("Failed to marshal WSMessage for NATS: %v", err)
		return
	}

	topic := "socket.service"
	if err := s.Broker.Publish(topic, bytes); err != nil {
		log.Errorf("Failed to publish to NATS topic %s: %v", topic, err)
		return
	}

	log.Infof("Published %s message from socket %s to topic %s", msg.Type, socketId, topic)
}

func (s *Ws) StoreConnection(socketId string, conn *websocket.Conn) {
	s.connMap.Store(socketId, conn)
}

func (s *Ws) GetConnection(socketId string) (*websocket.Conn, bool) {
	conn, ok := s.connMap.Load(socketId)
	if !ok {
		return nil, false
	}
	return conn.(*websocket.Conn), true
}

func (s *Ws) StoreGame(socketId string, gameId string) {
	s.gameMap.Store(socketId, gameId)
}

func (s *Ws) GetGame(socketId string) (string, bool) {
	game, ok := s.gameMap.Load(socketId)
	if !ok {
		return "", false
	}
	return game.(string), true
}

// GetGameSockets lists every socket currently watching a game.
func (s *Ws) GetGameSockets(gameId string) ([]string, bool) {
	var sockets []string
	found := false

	s.gameMap.Range(func(key, value interface{}) bool {
		if value.(string) == gameId {
			sockets = append(sockets, key.(string))
			found = true
		}
		return true // continue iterating
	})

	return sockets, found
}

func (s *Ws) HandleDisconnect(socketId string) {
	s.connMap.Delete(socketId)
	s.gameMap.Delete(socketId)
}
