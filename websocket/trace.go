package websocket

import (
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/treecode/models"
	"github.com/aukilabs/treecode/modules/bintree"
	"github.com/segmentio/encoding/json"
	"golang.org/x/net/websocket"
)

const (
	MsgTypeInsert  = "insert"
	MsgTypeSummary = "summary"
	MsgTypeError   = "error"
)

// TraceMsg is a message sent on a trace connection.
type TraceMsg struct {
	Type      string               `json:"type"`
	Insert    *bintree.InsertEvent `json:"insert,omitempty"`
	Build     *models.Build        `json:"build,omitempty"`
	Error     string               `json:"error,omitempty"`
	ErrorType string               `json:"error_type,omitempty"`
}

// JSON is a websocket codec that exchanges JSON text frames.
var JSON = websocket.Codec{
	Marshal: func(v any) ([]byte, byte, error) {
		b, err := json.Marshal(v)
		return b, websocket.TextFrame, err
	},
	Unmarshal: func(data []byte, payloadType byte, v any) error {
		return json.Unmarshal(data, v)
	},
}

// HandleTrace returns a handler that reads one build request from the
// connection, then streams an insert message for each particle inserted,
// followed by a summary message without the tree, or an error message.
func HandleTrace(builder *models.Builder, receiveTimeout time.Duration) websocket.Handler {
	return func(conn *websocket.Conn) {
		defer conn.Close()

		instrumentTraceConnect()
		defer instrumentTraceDisconnect()

		if receiveTimeout > 0 {
			conn.SetReadDeadline(time.Now().Add(receiveTimeout))
		}

		var req models.BuildRequest
		if err := JSON.Receive(conn, &req); err != nil {
			logs.Warn(errors.New("receiving build request failed").Wrap(err))
			send(conn, TraceMsg{
				Type:      MsgTypeError,
				Error:     "invalid build request",
				ErrorType: models.ErrTypeInvalidBuildRequest,
			})
			return
		}

		var sendErr error
		build, err := builder.Run(req, func(e bintree.InsertEvent) {
			if sendErr != nil {
				return
			}
			sendErr = send(conn, TraceMsg{
				Type:   MsgTypeInsert,
				Insert: &e,
			})
		})
		if sendErr != nil {
			logs.Warn(errors.New("streaming insertions failed").Wrap(sendErr))
			return
		}
		if err != nil {
			send(conn, TraceMsg{
				Type:      MsgTypeError,
				Error:     err.Error(),
				ErrorType: errors.Type(err),
			})
			return
		}

		summary := *build
		summary.Tree = nil
		send(conn, TraceMsg{
			Type:  MsgTypeSummary,
			Build: &summary,
		})
	}
}

func send(conn *websocket.Conn, msg TraceMsg) error {
	err := JSON.Send(conn, msg)
	instrumentSend(msg.Type, err)
	return err
}
