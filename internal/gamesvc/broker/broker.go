package broker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"

	"github.com/simplextcg/duel-services/internal/comm"
	"github.com/simplextcg/duel-services/internal/gamesvc/service"
)

// Broker serves the create-game and initialize-game operations to socket
// clients, using the same service layer as the HTTP handlers.
type Broker struct {
	Conn        *nats.Conn
	GameService *service.GameService
	InitService *service.InitService
}

func NewBroker(nc *nats.Conn, gameService *service.GameService, initService *service.InitService) *Broker {
	return &Broker{
		Conn:        nc,
		GameService: gameService,
		InitService: initService,
	}
}

// SubscribSocketService consumes requests relayed by the socket service.
func (b *Broker) SubscribSocketService(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, b.handleMessage)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

// handles message coming from socket
func (b *Broker) handleMessage(msgNat *nats.Msg) {
	msg := &comm.WSMessage{}
	err := json.Unmarshal(msgNat.Data, &msg)
	if err != nil {
		log.Errorf("Error nats message %s", err)
		return
	}

	switch msg.Type {
	case "create-game":
		request := comm.CreateGameRequest{}
		if err := json.Unmarshal(msg.Data, &request); err != nil {
			log.Errorf("Error decoding create-game request: %s", err)
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		gameID, err := b.GameService.CreateGame(ctx, request.UserID, request.OpponentUserID)
		if err != nil {
			log.Errorf("Error [GameService.CreateGame] %s", err)
			b.publishError(err, msg.SocketId)
			return
		}

		b.publishResponse("create-game-resp", comm.CreateGameResult{
			Message: "Game created successfully!",
			GameID:  gameID,
		}, msg.SocketId)

	case "initialize-game":
		request := comm.InitializeGameRequest{}
		if err := json.Unmarshal(msg.Data, &request); err != nil {
			log.Errorf("Error decoding initialize-game request: %s", err)
			return
		}

		// initialization runs the whole protocol against the store,
		// give it a generous deadline
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		firstPlayerUserID, err := b.InitService.InitializeGame(ctx, request.GameID)
		if err != nil {
			log.Errorf("Error [InitService.InitializeGame] %s", err)
			b.publishError(err, msg.SocketId)
			return
		}

		b.publishResponse("initialize-game-resp", comm.InitializeGameResult{
			Message:           "Game initialized successfully! First player: " + firstPlayerUserID,
			GameID:            request.GameID,
			FirstPlayerUserID: firstPlayerUserID,
		}, msg.SocketId)

	default:
		log.Error("Unknown message")
	}
}

func (b *Broker) publishResponse(msgType string, payload interface{}, socketId string) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("unable to marshal %s payload: %s", msgType, err)
		return
	}

	msg := &comm.WSMessage{
		Type:     msgType,
		Data:     data,
		SocketId: socketId,
	}

	bytes, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("unable to marshal %s message: %s", msgType, err)
		return
	}

	if err := b.Conn.Publish("game.service", bytes); err != nil {
		log.Errorf("Error publishing %s to game.service: %s", msgType, err)
	}
}

func (b *Broker) publishError(opErr error, socketId string) {
	b.publishResponse("error-resp", comm.ErrorPayload{Error: opErr.Error()}, socketId)
}
