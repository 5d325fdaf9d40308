package websocket

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	errTypeLabel = "error_type"
	msgTypeLabel = "msg_type"
)

var (
	wsTraceConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ws_trace_connections",
		Help: "The number of connected trace clients.",
	})

	wsSentMsgs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ws_sent_msgs",
		Help: "The number of messages sent to WebSocket connections.",
	}, []string{
		msgTypeLabel,
	})

	wsSendError = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ws_send_errors",
		Help: "The errors that occured while sending a websocket message.",
	}, []string{
		msgTypeLabel,
		errTypeLabel,
	})
)

func instrumentTraceConnect() {
	wsTraceConnections.Inc()
}

func instrumentTraceDisconnect() {
	wsTraceConnections.Dec()
}

func instrumentSend(msgType string, err error) {
	if err != nil {
		wsSendError.
			With(prometheus.Labels{
				msgTypeLabel: msgType,
				errTypeLabel: errors.Type(err),
			}).
			Inc()
		return
	}

	wsSentMsgs.
		With(prometheus.Labels{msgTypeLabel: msgType}).
		Inc()
}
